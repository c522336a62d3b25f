package tac_test

import (
	"strings"
	"testing"

	"compiscript/internal/lexer"
	"compiscript/internal/parser"
	"compiscript/pkg/semantic"
	"compiscript/pkg/tac"
)

// generate runs the full pipeline (lex, parse, analyze, lower) and fails
// the test if any stage reports a problem, returning the rendered TAC.
func generate(t *testing.T, src string) string {
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
	_, text := gen.Generate(prog)
	return text
}

func assertTAC(t *testing.T, src, want string) {
	t.Helper()
	got := generate(t, src)
	want = strings.TrimPrefix(want, "\n")
	if got != want {
		t.Fatalf("TAC mismatch.\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestScenarioA_IfElse(t *testing.T) {
	src := `function main(): void {
  let a: integer; let b: integer; let m: integer;
  if (a < b) { m = a; } else { m = b; }
}`
	assertTAC(t, src, `
FUNCTION main:
	t0 := fp[0] < fp[4]
	IF t0 > 0 GOTO IF_TRUE_0
	GOTO IF_FALSE_0
IF_TRUE_0:
	fp[8] := fp[0]
	GOTO IF_END_0
IF_FALSE_0:
	fp[8] := fp[4]
IF_END_0:
END FUNCTION main
`)
}

func TestScenarioB_While(t *testing.T) {
	src := `function main(): void { let i: integer; i = 0; while (i <= 3) { i = i + 1; } }`
	assertTAC(t, src, `
FUNCTION main:
	fp[0] := 0
STARTWHILE_0:
	t0 := fp[0] <= 3
	IF t0 > 0 GOTO LABEL_TRUE_0
	GOTO ENDWHILE_0
LABEL_TRUE_0:
	t1 := fp[0] + 1
	fp[0] := t1
	GOTO STARTWHILE_0
ENDWHILE_0:
END FUNCTION main
`)
}

func TestScenarioC_FieldAccess(t *testing.T) {
	src := `class Punto { var x: integer; var y: integer; function sum(): integer { return x + y; } }
function main(): void { let p: Punto; let s: integer; s = p.x + p.y; }`
	assertTAC(t, src, `
FUNCTION sum:
	t0 := fp[-1][0] + fp[-1][4]
	RETURN t0
END FUNCTION sum

FUNCTION main:
	t0 := fp[0][0] + fp[0][4]
	fp[4] := t0
END FUNCTION main
`)
}

func TestScenarioD_MethodCallWithParams(t *testing.T) {
	src := `class Caja { var v: integer; function setv(a: integer): void { v = a; } }
function main(): void { let c: Caja; c.setv(10); }`
	assertTAC(t, src, `
FUNCTION setv:
	fp[-1][0] := fp[-2]
	RETURN 0
END FUNCTION setv

FUNCTION main:
	PARAM fp[0]
	PARAM 10
	CALL setv,2
	t0 := R
END FUNCTION main
`)
}

func TestScenarioE_Shadowing(t *testing.T) {
	src := `var a: integer;
function main(): void { let a: integer; a = 1; }`
	assertTAC(t, src, `
FUNCTION main:
	fp[0] := 1
END FUNCTION main
`)
}

func TestScenarioF_ShortCircuitOr(t *testing.T) {
	src := `function main(): void { let x: integer; let y: integer;
  if (x < 100 || (x > 200 && x != y)) { x = 0; } }`
	assertTAC(t, src, `
FUNCTION main:
	t0 := fp[0] < 100
	IF t0 > 0 GOTO IF_TRUE_0
	GOTO OR_CONT_0
OR_CONT_0:
	t1 := fp[0] > 200
	IF t1 > 0 GOTO AND_CONT_0
	GOTO IF_END_0
AND_CONT_0:
	t2 := fp[0] != fp[4]
	IF t2 > 0 GOTO IF_TRUE_0
	GOTO IF_END_0
IF_TRUE_0:
	fp[0] := 0
IF_END_0:
END FUNCTION main
`)
}

// TestTemporaryFreshness checks §8.1's "the set of temporaries defined is
// {t0, t1, ...} with no gaps below the maximum" for a function using
// several expressions.
func TestTemporaryFreshness(t *testing.T) {
	src := `function main(): void {
  let a: integer; let b: integer; let c: integer;
  c = a + b - a * b;
}`
	got := generate(t, src)
	for _, want := range []string{"t0", "t1", "t2"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected temporary %s in output:\n%s", want, got)
		}
	}
}

// TestFrameOffsetMonotonicity checks §8.1's "declaration order of locals
// produces strictly increasing fp[...] offsets" for mixed-size locals.
func TestFrameOffsetMonotonicity(t *testing.T) {
	src := `function main(): void {
  let a: integer; let b: float; let c: integer;
  c = a;
}`
	got := generate(t, src)
	if !strings.Contains(got, "fp[0]") {
		t.Fatalf("expected fp[0] for first local:\n%s", got)
	}
	// a: 0, b (float, 8 bytes): 4, c: 12
	if !strings.Contains(got, "fp[12] := fp[0]") {
		t.Fatalf("expected c at fp[12] after a at fp[0] and float b at fp[4]:\n%s", got)
	}
}

func TestParamOffsetsFreeFunction(t *testing.T) {
	src := `function add(a: integer, b: integer): integer { return a + b; }`
	got := generate(t, src)
	want := "FUNCTION add:\n\tt0 := fp[-1] + fp[-2]\n\tRETURN t0\nEND FUNCTION add\n"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}
