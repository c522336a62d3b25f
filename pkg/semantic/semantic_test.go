package semantic_test

import (
	"testing"

	"compiscript/internal/lexer"
	"compiscript/internal/parser"
	"compiscript/pkg/semantic"
)

func analyze(t *testing.T, src string) *semantic.Analyzer {
	t.Helper()
	tokens, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	prog, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	a := semantic.New()
	a.Analyze(prog)
	return a
}

func TestAnalyzeValidProgramHasNoDiagnostics(t *testing.T) {
	a := analyze(t, `
		let x: integer = 1;
		function add(a: integer, b: integer): integer {
			return a + b;
		}
		print(add(x, 2));
	`)
	if a.Diagnostics().Len() != 0 {
		t.Fatalf("expected no diagnostics, got %v", a.Diagnostics().Strings())
	}
}

func TestAnalyzeRejectsRedeclaration(t *testing.T) {
	a := analyze(t, `
		let x: integer = 1;
		let x: integer = 2;
	`)
	if a.Diagnostics().Len() == 0 {
		t.Fatalf("expected a diagnostic for redeclaring x")
	}
}

func TestAnalyzeRejectsUndeclaredIdentifier(t *testing.T) {
	a := analyze(t, `print(missing);`)
	if a.Diagnostics().Len() == 0 {
		t.Fatalf("expected a diagnostic for an undeclared identifier")
	}
}

func TestAnalyzeRejectsArityMismatch(t *testing.T) {
	a := analyze(t, `
		function add(a: integer, b: integer): integer {
			return a + b;
		}
		print(add(1));
	`)
	if a.Diagnostics().Len() == 0 {
		t.Fatalf("expected a diagnostic for a call with too few arguments")
	}
}

func TestAnalyzeAllowsForwardReferencedFunction(t *testing.T) {
	a := analyze(t, `
		print(later(1, 2));
		function later(a: integer, b: integer): integer {
			return a + b;
		}
	`)
	if a.Diagnostics().Len() != 0 {
		t.Fatalf("expected no diagnostics for a forward-referenced call, got %v", a.Diagnostics().Strings())
	}
}

func TestAnalyzeClassWithInitAndAttributeAssignment(t *testing.T) {
	a := analyze(t, `
		class Animal {
			var name: string;

			init(name: string) {
				this.name = name;
			}

			function speak(): void {
				print(this.name);
			}
		}
		let a: Animal = new Animal("Rex");
	`)
	if a.Diagnostics().Len() != 0 {
		t.Fatalf("expected no diagnostics, got %v", a.Diagnostics().Strings())
	}
}

func TestAnalyzeRejectsThisOutsideClass(t *testing.T) {
	a := analyze(t, `
		function f(): void {
			print(this.name);
		}
	`)
	if a.Diagnostics().Len() == 0 {
		t.Fatalf("expected a diagnostic for 'this' used outside a class")
	}
}

func TestAnalyzeRejectsBreakOutsideLoop(t *testing.T) {
	a := analyze(t, `break;`)
	if a.Diagnostics().Len() == 0 {
		t.Fatalf("expected a diagnostic for break outside a loop")
	}
}

func TestAnalyzeAllowsBreakInsideWhile(t *testing.T) {
	a := analyze(t, `
		let i: integer = 0;
		while (i < 10) {
			break;
		}
	`)
	if a.Diagnostics().Len() != 0 {
		t.Fatalf("expected no diagnostics, got %v", a.Diagnostics().Strings())
	}
}

func TestAnalyzeIndexAssignmentToArrayElement(t *testing.T) {
	a := analyze(t, `
		let xs: integer[] = [1, 2, 3];
		xs[0] = 9;
	`)
	if a.Diagnostics().Len() != 0 {
		t.Fatalf("expected no diagnostics, got %v", a.Diagnostics().Strings())
	}
}
