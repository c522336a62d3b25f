package symtab_test

import (
	"testing"

	"compiscript/pkg/symtab"
	"compiscript/pkg/types"
)

func TestDefineAndLookupInGlobalScope(t *testing.T) {
	table := symtab.New()
	sym := &symtab.Symbol{Name: "x", Type: types.IntegerType()}
	if !table.Define(sym, 1, 1) {
		t.Fatalf("expected Define to succeed for a fresh name")
	}
	got, ok := table.Lookup("x")
	if !ok {
		t.Fatalf("expected to find x in the global scope")
	}
	if got.Type.Kind != types.Integer {
		t.Fatalf("expected integer type, got %s", got.Type)
	}
}

func TestDefineRejectsDuplicateInSameScope(t *testing.T) {
	table := symtab.New()
	table.Define(&symtab.Symbol{Name: "x", Type: types.IntegerType()}, 1, 1)
	if table.Define(&symtab.Symbol{Name: "x", Type: types.StringType()}, 2, 1) {
		t.Fatalf("expected Define to reject a duplicate name in the same scope")
	}
}

func TestLookupWalksEnclosingScopes(t *testing.T) {
	table := symtab.New()
	table.Define(&symtab.Symbol{Name: "outer", Type: types.IntegerType()}, 1, 1)
	table.EnterScope("block", symtab.ScopeBlock)
	defer table.ExitScope()

	if _, ok := table.Lookup("outer"); !ok {
		t.Fatalf("expected a nested block scope to see an outer-scope symbol")
	}
}

func TestLookupLocalDoesNotWalkEnclosingScopes(t *testing.T) {
	table := symtab.New()
	table.Define(&symtab.Symbol{Name: "outer", Type: types.IntegerType()}, 1, 1)
	table.EnterScope("block", symtab.ScopeBlock)
	defer table.ExitScope()

	if _, ok := table.LookupLocal("outer"); ok {
		t.Fatalf("expected LookupLocal to not find a symbol from an enclosing scope")
	}
}

func TestEnterExitScopeRestoresCurrent(t *testing.T) {
	table := symtab.New()
	global := table.Current()
	table.EnterScope("block", symtab.ScopeBlock)
	if table.Current() == global {
		t.Fatalf("expected Current() to change after EnterScope")
	}
	table.ExitScope()
	if table.Current() != global {
		t.Fatalf("expected ExitScope to restore the previous scope")
	}
}

func TestDefineFunctionAndLookupFunction(t *testing.T) {
	table := symtab.New()
	fn := &symtab.FunctionSymbol{
		Symbol:     symtab.Symbol{Name: "add", Type: types.FunctionType()},
		ReturnType: types.IntegerType(),
		Params: []symtab.Param{
			{Name: "a", Type: types.IntegerType()},
			{Name: "b", Type: types.IntegerType()},
		},
	}
	if !table.DefineFunction(fn, 1, 1) {
		t.Fatalf("expected DefineFunction to succeed")
	}
	got, ok := table.LookupFunction("add")
	if !ok {
		t.Fatalf("expected to find function add")
	}
	if len(got.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(got.Params))
	}
}

func TestClassSymbolDeclareAttributeTracksOrder(t *testing.T) {
	cls := &symtab.ClassSymbol{
		Symbol:     symtab.Symbol{Name: "Animal", Type: types.ClassType("Animal")},
		Methods:    map[string]*symtab.FunctionSymbol{},
		Attributes: map[string]*symtab.Symbol{},
	}
	cls.DeclareAttribute(&symtab.Symbol{Name: "name", Type: types.StringType()})
	cls.DeclareAttribute(&symtab.Symbol{Name: "age", Type: types.IntegerType()})
	if cls.DeclareAttribute(&symtab.Symbol{Name: "name", Type: types.StringType()}) {
		t.Fatalf("expected a duplicate attribute declaration to be rejected")
	}
	want := []string{"name", "age"}
	if len(cls.AttributeOrder) != len(want) {
		t.Fatalf("got %v, want %v", cls.AttributeOrder, want)
	}
	for i, name := range want {
		if cls.AttributeOrder[i] != name {
			t.Fatalf("attribute order[%d] = %s, want %s", i, cls.AttributeOrder[i], name)
		}
	}
}

func TestClassSymbolConstructor(t *testing.T) {
	cls := &symtab.ClassSymbol{
		Symbol:  symtab.Symbol{Name: "Animal"},
		Methods: map[string]*symtab.FunctionSymbol{},
	}
	if _, ok := cls.Constructor(); ok {
		t.Fatalf("expected no constructor on a fresh class symbol")
	}
	cls.Methods["init"] = &symtab.FunctionSymbol{Symbol: symtab.Symbol{Name: "init"}}
	if _, ok := cls.Constructor(); !ok {
		t.Fatalf("expected Constructor to find the init method")
	}
}

func TestDefineClassAndLookupClass(t *testing.T) {
	table := symtab.New()
	cls := &symtab.ClassSymbol{
		Symbol:     symtab.Symbol{Name: "Animal", Type: types.ClassType("Animal")},
		Methods:    map[string]*symtab.FunctionSymbol{},
		Attributes: map[string]*symtab.Symbol{},
	}
	if !table.DefineClass(cls, 1, 1) {
		t.Fatalf("expected DefineClass to succeed")
	}
	if _, ok := table.LookupClass("Animal"); !ok {
		t.Fatalf("expected to find class Animal")
	}
}
