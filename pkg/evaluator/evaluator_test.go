package evaluator_test

import (
	"testing"

	"compiscript/internal/ast"
	"compiscript/pkg/diag"
	"compiscript/pkg/evaluator"
	"compiscript/pkg/symtab"
	"compiscript/pkg/types"
)

func newEvaluator() (*evaluator.Evaluator, *diag.Bag) {
	bag := diag.NewBag()
	table := symtab.New()
	return evaluator.New(table, bag), bag
}

func TestEvaluateLiterals(t *testing.T) {
	e, _ := newEvaluator()
	cases := []struct {
		expr ast.Expr
		want types.Kind
	}{
		{&ast.IntegerLiteral{Value: 1}, types.Integer},
		{&ast.FloatLiteral{Value: 1.5}, types.Float},
		{&ast.BoolLiteral{Value: true}, types.Boolean},
		{&ast.StringLiteral{Value: "hi"}, types.String},
		{&ast.NullLiteral{}, types.Null},
	}
	for _, c := range cases {
		got := e.Evaluate(c.expr)
		if got.Kind != c.want {
			t.Fatalf("Evaluate(%T) = %s, want kind %s", c.expr, got, c.want)
		}
	}
}

func TestEvaluateIntegerAddition(t *testing.T) {
	e, bag := newEvaluator()
	expr := &ast.BinaryExpr{
		Op:    "+",
		Left:  &ast.IntegerLiteral{Value: 1},
		Right: &ast.IntegerLiteral{Value: 2},
	}
	got := e.Evaluate(expr)
	if got.Kind != types.Integer {
		t.Fatalf("expected integer result, got %s", got)
	}
	if !bag.Empty() {
		t.Fatalf("expected no diagnostics, got %v", bag.Strings())
	}
}

func TestEvaluatePlusRejectsMixedOperands(t *testing.T) {
	e, bag := newEvaluator()
	expr := &ast.BinaryExpr{
		Op:    "+",
		Left:  &ast.IntegerLiteral{Value: 1},
		Right: &ast.StringLiteral{Value: "x"},
	}
	got := e.Evaluate(expr)
	if !got.IsNull() {
		t.Fatalf("expected a type error to resolve to null, got %s", got)
	}
	if bag.Empty() {
		t.Fatalf("expected a diagnostic for mismatched + operands")
	}
}

func TestEvaluateComparisonRequiresIntegers(t *testing.T) {
	e, bag := newEvaluator()
	expr := &ast.BinaryExpr{
		Op:    "<",
		Left:  &ast.BoolLiteral{Value: true},
		Right: &ast.IntegerLiteral{Value: 1},
	}
	got := e.Evaluate(expr)
	if !got.IsNull() {
		t.Fatalf("expected relational operator over a boolean to fail, got %s", got)
	}
	if bag.Empty() {
		t.Fatalf("expected a diagnostic for a non-integer relational operand")
	}
}

func TestEvaluateLogicalRequiresBooleans(t *testing.T) {
	e, bag := newEvaluator()
	expr := &ast.LogicalExpr{
		Op:    "&&",
		Left:  &ast.IntegerLiteral{Value: 1},
		Right: &ast.BoolLiteral{Value: true},
	}
	got := e.Evaluate(expr)
	if !got.IsNull() {
		t.Fatalf("expected && over an integer to fail, got %s", got)
	}
	if bag.Empty() {
		t.Fatalf("expected a diagnostic for a non-boolean logical operand")
	}
}

func TestEvaluateIdentifierResolvesDeclaredType(t *testing.T) {
	bag := diag.NewBag()
	table := symtab.New()
	table.Define(&symtab.Symbol{Name: "x", Type: types.IntegerType(), IsInitialized: true}, 1, 1)
	e := evaluator.New(table, bag)

	got := e.Evaluate(&ast.Identifier{Name: "x"})
	if got.Kind != types.Integer {
		t.Fatalf("expected identifier x to resolve to integer, got %s", got)
	}
}

func TestEvaluateUndeclaredIdentifierReportsDiagnostic(t *testing.T) {
	e, bag := newEvaluator()
	got := e.Evaluate(&ast.Identifier{Name: "missing"})
	if !got.IsNull() {
		t.Fatalf("expected an undeclared identifier to resolve to null, got %s", got)
	}
	if bag.Empty() {
		t.Fatalf("expected a diagnostic for an undeclared identifier")
	}
}

func TestEvaluateTernaryRequiresBooleanCondition(t *testing.T) {
	e, bag := newEvaluator()
	expr := &ast.TernaryExpr{
		Cond: &ast.IntegerLiteral{Value: 1},
		Then: &ast.IntegerLiteral{Value: 1},
		Else: &ast.IntegerLiteral{Value: 2},
	}
	e.Evaluate(expr)
	if bag.Empty() {
		t.Fatalf("expected a diagnostic for a non-boolean ternary condition")
	}
}

func TestSuppressAssignmentErrorsStillInfersType(t *testing.T) {
	e, _ := newEvaluator()
	e.SuppressAssignmentErrors = true
	got := e.Evaluate(&ast.IntegerLiteral{Value: 1})
	if got.Kind != types.Integer {
		t.Fatalf("expected type inference to still run under suppression, got %s", got)
	}
}
