package parser_test

import (
	"testing"

	"compiscript/internal/ast"
	"compiscript/internal/lexer"
	"compiscript/internal/parser"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	tokens, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	prog, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return prog
}

func TestParseVariableDeclaration(t *testing.T) {
	prog := parse(t, "let x: integer = 1 + 2;")
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	decl, ok := prog.Statements[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected *ast.VariableDeclaration, got %T", prog.Statements[0])
	}
	if decl.Name != "x" {
		t.Fatalf("expected name x, got %s", decl.Name)
	}
	bin, ok := decl.Init.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected binary init expr, got %T", decl.Init)
	}
	if bin.Op != "+" {
		t.Fatalf("expected + operator, got %s", bin.Op)
	}
}

func TestParseIfElse(t *testing.T) {
	prog := parse(t, `
		if (x > 0) {
			print(x);
		} else {
			print(0);
		}
	`)
	ifStmt, ok := prog.Statements[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt, got %T", prog.Statements[0])
	}
	if ifStmt.Else == nil {
		t.Fatalf("expected an else branch")
	}
}

func TestParseWhileLoop(t *testing.T) {
	prog := parse(t, `
		while (i < 10) {
			i = i + 1;
		}
	`)
	if _, ok := prog.Statements[0].(*ast.WhileStmt); !ok {
		t.Fatalf("expected *ast.WhileStmt, got %T", prog.Statements[0])
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	prog := parse(t, `
		function add(a: integer, b: integer): integer {
			return a + b;
		}
	`)
	fn, ok := prog.Statements[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected *ast.FunctionDeclaration, got %T", prog.Statements[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
	if fn.ReturnType == nil {
		t.Fatalf("expected a non-nil return type annotation")
	}
}

func TestParseClassWithInitAndMethods(t *testing.T) {
	prog := parse(t, `
		class Animal {
			var name: string;

			init(name: string) {
				this.name = name;
			}

			function speak(): void {
				print(this.name);
			}
		}
	`)
	cls, ok := prog.Statements[0].(*ast.ClassDeclaration)
	if !ok {
		t.Fatalf("expected *ast.ClassDeclaration, got %T", prog.Statements[0])
	}
	if cls.Name != "Animal" {
		t.Fatalf("expected class name Animal, got %s", cls.Name)
	}
	if cls.Init == nil {
		t.Fatalf("expected an init method")
	}
	if len(cls.Methods) != 1 || cls.Methods[0].Name != "speak" {
		t.Fatalf("expected one method named speak, got %+v", cls.Methods)
	}
}

func TestParseCallAndIndexExpressions(t *testing.T) {
	prog := parse(t, "let y = values[compute(1, 2)];")
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	idx, ok := decl.Init.(*ast.IndexExpr)
	if !ok {
		t.Fatalf("expected *ast.IndexExpr, got %T", decl.Init)
	}
	if _, ok := idx.Index.(*ast.CallExpr); !ok {
		t.Fatalf("expected call expr as index, got %T", idx.Index)
	}
}

func TestParseRejectsMissingSemicolon(t *testing.T) {
	tokens, err := lexer.Lex("let x: integer = 1")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if _, err := parser.Parse(tokens); err == nil {
		t.Fatalf("expected a parse error for a missing semicolon")
	}
}
