package types_test

import (
	"testing"

	"compiscript/pkg/types"
)

func TestTypeStringFormatsArraysAndClasses(t *testing.T) {
	arr := types.ArrayType(types.Integer, "", 2)
	if got, want := arr.String(), "integer[][]"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	cls := types.ClassType("Animal")
	if got, want := cls.String(), "Animal"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTypeEqualComparesPayload(t *testing.T) {
	a := types.ClassType("Animal")
	b := types.ClassType("Animal")
	c := types.ClassType("Plant")
	if !a.Equal(b) {
		t.Fatalf("expected two Animal class types to be equal")
	}
	if a.Equal(c) {
		t.Fatalf("expected Animal and Plant class types to differ")
	}

	arr1 := types.ArrayType(types.Integer, "", 1)
	arr2 := types.ArrayType(types.Integer, "", 2)
	if arr1.Equal(arr2) {
		t.Fatalf("expected arrays of different dimensions to differ")
	}
}

func TestSizeMatchesMemoryLayoutModel(t *testing.T) {
	cases := []struct {
		t    types.Type
		want int
	}{
		{types.IntegerType(), 4},
		{types.BooleanType(), 4},
		{types.FloatType(), 8},
		{types.StringType(), 4},
		{types.VoidType(), 0},
		{types.ArrayType(types.Integer, "", 1), 4},
		{types.ClassType("Animal"), 4},
	}
	for _, c := range cases {
		if got := types.Size(c.t); got != c.want {
			t.Fatalf("Size(%s) = %d, want %d", c.t, got, c.want)
		}
	}
}

func TestParseBaseType(t *testing.T) {
	cases := map[string]types.Kind{
		"integer": types.Integer,
		"string":  types.String,
		"boolean": types.Boolean,
		"float":   types.Float,
		"void":    types.Void,
	}
	for name, want := range cases {
		got, ok := types.ParseBaseType(name)
		if !ok {
			t.Fatalf("ParseBaseType(%q): expected ok", name)
		}
		if got != want {
			t.Fatalf("ParseBaseType(%q) = %v, want %v", name, got, want)
		}
	}
	if _, ok := types.ParseBaseType("Animal"); ok {
		t.Fatalf("expected ParseBaseType to reject a class name")
	}
}

func TestIsNullAndIsVoid(t *testing.T) {
	if !types.NullType().IsNull() {
		t.Fatalf("expected NullType().IsNull()")
	}
	if !types.VoidType().IsVoid() {
		t.Fatalf("expected VoidType().IsVoid()")
	}
	if types.IntegerType().IsNull() || types.IntegerType().IsVoid() {
		t.Fatalf("expected IntegerType() to be neither null nor void")
	}
}
