package mips_test

import (
	"strings"
	"testing"

	"compiscript/internal/lexer"
	"compiscript/internal/parser"
	"compiscript/pkg/mips"
	"compiscript/pkg/semantic"
	"compiscript/pkg/tac"
)

// compile runs the full pipeline (lex, parse, analyze, lower to TAC,
// lower to MIPS) and fails the test if any stage reports a problem,
// returning the rendered assembly.
func compile(t *testing.T, src string) string {
	t.Helper()
	tokens, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	prog, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	an := semantic.New()
	an.Analyze(prog)
	if an.Diagnostics().Len() > 0 {
		t.Fatalf("unexpected diagnostics: %v", an.Diagnostics().Strings())
	}
	gen := tac.New(an.Table())
	instrs, _ := gen.Generate(prog)
	return mips.Generate(instrs)
}

func mustContain(t *testing.T, asm, substr string) {
	t.Helper()
	if !strings.Contains(asm, substr) {
		t.Fatalf("expected assembly to contain %q, got:\n%s", substr, asm)
	}
}

func TestIfElseLowersToBranchAndCompare(t *testing.T) {
	src := `function main(): void {
  let a: integer; let b: integer; let m: integer;
  if (a < b) { m = a; } else { m = b; }
}`
	asm := compile(t, src)
	mustContain(t, asm, ".globl main")
	mustContain(t, asm, "main:")
	mustContain(t, asm, "IF_TRUE_0:")
	mustContain(t, asm, "IF_FALSE_0:")
	mustContain(t, asm, "bgtz")
	mustContain(t, asm, "li $v0, 10")
	mustContain(t, asm, "syscall")
}

func TestWhileLoopEmitsLabelsAndBackJump(t *testing.T) {
	src := `function main(): void { let i: integer; i = 0; while (i <= 3) { i = i + 1; } }`
	asm := compile(t, src)
	mustContain(t, asm, "STARTWHILE_0:")
	mustContain(t, asm, "ENDWHILE_0:")
	mustContain(t, asm, "j STARTWHILE_0")
}

// TestLeafFunctionHasNoFrame checks that a function whose body contains
// no CALL skips the prologue/epilogue entirely (§4.5 leaf-function
// elision), since it never needs $ra saved for it to use later.
func TestLeafFunctionHasNoFrame(t *testing.T) {
	src := `function add(x: integer, y: integer): integer {
  return x + y;
}
function main(): void {
  let r: integer;
  r = add(1, 2);
}`
	asm := compile(t, src)
	addBody := bodyOf(t, asm, "add")
	if strings.Contains(addBody, "addi $sp") {
		t.Fatalf("expected leaf function add to have no stack frame, got:\n%s", addBody)
	}
	mustContain(t, addBody, "jr $ra")
	mustContain(t, asm, "jal add")
}

// TestNonLeafFunctionSavesFrame checks that a function containing a
// CALL reserves a frame and saves/restores $ra and $fp around it.
func TestNonLeafFunctionSavesFrame(t *testing.T) {
	src := `function helper(): void { }
function main(): void {
  helper();
}`
	asm := compile(t, src)
	mainBody := bodyOf(t, asm, "main")
	mustContain(t, mainBody, "addi $sp, $sp, -")
	mustContain(t, mainBody, "sw $ra, 4($sp)")
	mustContain(t, mainBody, "sw $fp, 0($sp)")
	mustContain(t, mainBody, "li $v0, 10")
}

func TestArrayAccessAndAssignUseScaledAddressing(t *testing.T) {
	src := `function main(): void {
  let arr: integer[]; let i: integer; let v: integer;
  arr[0] = 5;
  v = arr[i];
}`
	asm := compile(t, src)
	mustContain(t, asm, "sll")
	mustContain(t, asm, "add")
	mustContain(t, asm, "sw")
	mustContain(t, asm, "lw")
}

func TestPrintEmitsSyscallAndNewline(t *testing.T) {
	src := `function main(): void { print("hi"); }`
	asm := compile(t, src)
	mustContain(t, asm, "li $v0, 4")
	mustContain(t, asm, "la $a0, newline")
	mustContain(t, asm, "str_0: .asciiz \"hi\"")
}

func TestGlobalGetsOwnDataLabel(t *testing.T) {
	src := `let counter: integer;
function main(): void { counter = 1; }`
	asm := compile(t, src)
	mustContain(t, asm, ".data")
	mustContain(t, asm, "glob_0: .word 0")
}

// TestFirstFourParamsBindToArgRegisters checks that a parameter's
// fp[-k] operand (k<=4) materializes directly as $a(k-1) rather than
// going through the general allocator.
func TestFirstFourParamsBindToArgRegisters(t *testing.T) {
	src := `function add(x: integer, y: integer): integer {
  return x + y;
}`
	asm := compile(t, src)
	body := bodyOf(t, asm, "add")
	mustContain(t, body, "$a0")
	mustContain(t, body, "$a1")
}

func TestMissingMainGetsMinimalExit(t *testing.T) {
	src := `function helper(): void { }`
	asm := compile(t, src)
	mustContain(t, asm, "main:")
	mustContain(t, asm, "li $v0, 10")
}

// bodyOf extracts the text of one function's assembly body (from its
// label to the next main/helper/add label or end of text), for
// assertions scoped to a single function.
func bodyOf(t *testing.T, asm, name string) string {
	t.Helper()
	start := strings.Index(asm, "\n"+name+":")
	if start < 0 {
		t.Fatalf("function label %q not found in:\n%s", name, asm)
	}
	rest := asm[start+1:]
	nl := strings.Index(rest, "\n")
	rest = rest[nl+1:]
	end := len(rest)
	for _, marker := range []string{"\nmain:", "\nhelper:", "\nadd:"} {
		if marker == "\n"+name+":" {
			continue
		}
		if i := strings.Index(rest, marker); i >= 0 && i < end {
			end = i
		}
	}
	return rest[:end]
}

func TestParseTextRoundTripsGeneratorOutput(t *testing.T) {
	src := `function main(): void {
  let a: integer; let b: integer; let m: integer;
  if (a < b) { m = a; } else { m = b; }
}`
	tokens, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	prog, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	an := semantic.New()
	an.Analyze(prog)
	gen := tac.New(an.Table())
	_, text := gen.Generate(prog)

	parsed, err := mips.ParseText(text)
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	if len(parsed) == 0 {
		t.Fatalf("expected at least one parsed instruction")
	}
	asm := mips.Generate(parsed)
	if !strings.Contains(asm, "IF_TRUE_0:") {
		t.Fatalf("expected reparsed TAC to lower identically, got:\n%s", asm)
	}
}

func TestParseTextRejectsMalformedLine(t *testing.T) {
	_, err := mips.ParseText("this is not a TAC line")
	if err == nil {
		t.Fatalf("expected an error for an unrecognized line")
	}
}

func TestGenerateTextWrapsParseError(t *testing.T) {
	_, err := mips.GenerateText("???")
	if err == nil {
		t.Fatalf("expected GenerateText to surface the parse error")
	}
}
