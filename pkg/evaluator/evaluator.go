// Package evaluator implements the Compiscript expression evaluator (core
// component C2): a recursive type-inference/type-checking function over
// the expression grammar, invoked by package semantic as it walks the
// tree. It reports diagnostics through the same diag.Bag the semantic
// analyzer and symbol table share, and never panics on a malformed
// program — a type error always resolves to types.NullType() so the
// caller can keep walking the rest of the tree.
package evaluator

import (
	"compiscript/internal/ast"
	"compiscript/pkg/diag"
	"compiscript/pkg/symtab"
	"compiscript/pkg/types"
)

// builtinMethods are recognized zero/one-arg methods every Class value
// carries regardless of its declared class (§4.2).
var builtinMethods = map[string]types.Type{
	"toString": types.FunctionType(),
	"getName":  types.FunctionType(),
	"getAge":   types.FunctionType(),
	"length":   types.FunctionType(),
}

// builtinMethodReturn is the type a recognized built-in method call
// resolves to.
var builtinMethodReturn = map[string]types.Type{
	"toString": types.StringType(),
	"getName":  types.StringType(),
	"getAge":   types.IntegerType(),
	"length":   types.IntegerType(),
}

// Evaluator infers and checks the type of expression nodes against a
// symbol table, suppressing cascaded diagnostics once a subexpression has
// already failed.
type Evaluator struct {
	symtab *symtab.Table
	diags  *diag.Bag

	// SuppressAssignmentErrors mirrors §4.2's suppress_assignment_errors
	// mode: evalAssignExpr sets it while evaluating an assignment
	// expression's right-hand side, and a nested assignment evaluated under
	// it reports no type-mismatch diagnostic of its own.
	SuppressAssignmentErrors bool

	// lastArrayBase/lastArrayDims publish the element kind and nesting
	// depth of the most recently evaluated Array-typed expression, for a
	// caller (typically a variable declaration) to compare against an
	// explicit annotation (§4.2 "Additional tracking").
	lastArrayBase types.Kind
	lastArrayDims int
}

func New(st *symtab.Table, diags *diag.Bag) *Evaluator {
	return &Evaluator{symtab: st, diags: diags}
}

// LastArray returns the element kind/depth published by the most recent
// Array-typed Evaluate call; valid only immediately after that call.
func (e *Evaluator) LastArray() (types.Kind, int) {
	return e.lastArrayBase, e.lastArrayDims
}

func (e *Evaluator) errorf(p ast.Pos, format string, args ...any) types.Type {
	if e.diags != nil {
		e.diags.Add(p.Line, p.Column, format, args...)
	}
	return types.NullType()
}

// Evaluate dispatches on the dynamic type of expr and returns its Type,
// descending the grammar's precedence ladder as named atoms rather than
// as literal precedence-level functions, since the parser has already
// resolved precedence into tree shape.
func (e *Evaluator) Evaluate(expr ast.Expr) types.Type {
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		return types.IntegerType()
	case *ast.FloatLiteral:
		return types.FloatType()
	case *ast.BoolLiteral:
		return types.BooleanType()
	case *ast.StringLiteral:
		return types.StringType()
	case *ast.NullLiteral:
		return types.NullType()
	case *ast.ArrayLiteral:
		return e.evalArrayLiteral(n)
	case *ast.Identifier:
		return e.evalIdentifier(n)
	case *ast.ThisExpr:
		return e.evalThis(n)
	case *ast.SuperExpr:
		return e.evalSuper(n)
	case *ast.BinaryExpr:
		return e.evalBinary(n)
	case *ast.LogicalExpr:
		return e.evalLogical(n)
	case *ast.UnaryExpr:
		return e.evalUnary(n)
	case *ast.TernaryExpr:
		return e.evalTernary(n)
	case *ast.AssignExpr:
		return e.evalAssignExpr(n)
	case *ast.CallExpr:
		return e.evalCall(n)
	case *ast.NewExpr:
		return e.evalNew(n)
	case *ast.IndexExpr:
		return e.evalIndex(n)
	case *ast.MemberAccessExpr:
		return e.evalMember(n)
	default:
		return e.errorf(expr.Start(), "Expresión no reconocida")
	}
}

func (e *Evaluator) evalArrayLiteral(n *ast.ArrayLiteral) types.Type {
	if len(n.Elements) == 0 {
		return e.errorf(n.At, "Un literal de arreglo vacío no puede tener tipo inferido")
	}
	first := e.Evaluate(n.Elements[0])
	if first.IsNull() {
		return types.NullType()
	}
	baseKind, baseDims := first.Kind, 0
	if first.Kind == types.Array {
		baseKind, baseDims = first.Element, first.Dimensions
	}
	for _, elem := range n.Elements[1:] {
		t := e.Evaluate(elem)
		if t.IsNull() {
			return types.NullType()
		}
		k, d := t.Kind, 0
		if t.Kind == types.Array {
			k, d = t.Element, t.Dimensions
		}
		if k != baseKind || d != baseDims {
			return e.errorf(elem.Start(), "Todos los elementos de un arreglo deben tener el mismo tipo")
		}
	}
	e.lastArrayBase, e.lastArrayDims = baseKind, baseDims+1
	return types.ArrayType(baseKind, first.ClassName, baseDims+1)
}

func (e *Evaluator) evalIdentifier(n *ast.Identifier) types.Type {
	sym, ok := e.symtab.Lookup(n.Name)
	if !ok {
		if className, inClass := e.symtab.Current().InClassChain(); inClass {
			if cls, ok := e.symtab.LookupClass(className); ok {
				if attr, ok := lookupAttribute(e.symtab, cls, n.Name); ok {
					return attr.Type
				}
			}
		}
		return e.errorf(n.At, "Identificador '%s' no ha sido declarado", n.Name)
	}
	if sym.Type.Kind == types.Array {
		e.lastArrayBase, e.lastArrayDims = sym.Type.Element, sym.Type.Dimensions
	}
	return sym.Type
}

func (e *Evaluator) evalThis(n *ast.ThisExpr) types.Type {
	className, ok := e.symtab.Current().InClassChain()
	if !ok {
		return e.errorf(n.At, "'this' solo puede usarse dentro de una clase")
	}
	return types.ClassType(className)
}

func (e *Evaluator) evalSuper(n *ast.SuperExpr) types.Type {
	className, ok := e.symtab.Current().InClassChain()
	if !ok {
		return e.errorf(n.At, "'super' solo puede usarse dentro de una clase")
	}
	cls, ok := e.symtab.LookupClass(className)
	if !ok || cls.ParentName == "" {
		return e.errorf(n.At, "La clase '%s' no tiene clase padre", className)
	}
	return types.ClassType(cls.ParentName)
}

func (e *Evaluator) evalBinary(n *ast.BinaryExpr) types.Type {
	left := e.Evaluate(n.Left)
	right := e.Evaluate(n.Right)
	if left.IsNull() || right.IsNull() {
		return types.NullType()
	}
	switch n.Op {
	case "+":
		if left.Kind == types.Integer && right.Kind == types.Integer {
			return types.IntegerType()
		}
		if left.Kind == types.String && right.Kind == types.String {
			return types.StringType()
		}
		return e.errorf(n.At, "El operador '+' requiere dos enteros o dos cadenas, se recibió %s y %s", left, right)
	case "-", "*", "/", "%":
		if left.Kind == types.Integer && right.Kind == types.Integer {
			return types.IntegerType()
		}
		return e.errorf(n.At, "El operador '%s' requiere operandos enteros, se recibió %s y %s", n.Op, left, right)
	case "==", "!=":
		if !left.Equal(right) {
			return e.errorf(n.At, "No se pueden comparar valores de tipo %s y %s", left, right)
		}
		switch left.Kind {
		case types.Integer, types.String, types.Boolean:
			return types.BooleanType()
		default:
			return e.errorf(n.At, "El operador '%s' no admite operandos de tipo %s", n.Op, left)
		}
	case "<", "<=", ">", ">=":
		if left.Kind == types.Integer && right.Kind == types.Integer {
			return types.BooleanType()
		}
		return e.errorf(n.At, "El operador '%s' requiere operandos enteros, se recibió %s y %s", n.Op, left, right)
	default:
		return e.errorf(n.At, "Operador binario desconocido '%s'", n.Op)
	}
}

func (e *Evaluator) evalLogical(n *ast.LogicalExpr) types.Type {
	left := e.Evaluate(n.Left)
	right := e.Evaluate(n.Right)
	if left.IsNull() || right.IsNull() {
		return types.NullType()
	}
	if left.Kind != types.Boolean || right.Kind != types.Boolean {
		return e.errorf(n.At, "El operador '%s' requiere operandos booleanos", n.Op)
	}
	return types.BooleanType()
}

func (e *Evaluator) evalUnary(n *ast.UnaryExpr) types.Type {
	right := e.Evaluate(n.Right)
	if right.IsNull() {
		return types.NullType()
	}
	switch n.Op {
	case "-":
		if right.Kind == types.Integer {
			return types.IntegerType()
		}
		return e.errorf(n.At, "El operador unario '-' requiere un entero, se recibió %s", right)
	case "!":
		if right.Kind == types.Boolean {
			return types.BooleanType()
		}
		return e.errorf(n.At, "El operador unario '!' requiere un booleano, se recibió %s", right)
	default:
		return e.errorf(n.At, "Operador unario desconocido '%s'", n.Op)
	}
}

func (e *Evaluator) evalTernary(n *ast.TernaryExpr) types.Type {
	cond := e.Evaluate(n.Cond)
	thenT := e.Evaluate(n.Then)
	elseT := e.Evaluate(n.Else)
	if cond.IsNull() || thenT.IsNull() || elseT.IsNull() {
		return types.NullType()
	}
	if cond.Kind != types.Boolean {
		return e.errorf(n.Cond.Start(), "La condición del operador ternario debe ser booleana, se recibió %s", cond)
	}
	if !thenT.Equal(elseT) {
		return e.errorf(n.At, "Las ramas del operador ternario deben tener el mismo tipo, se recibió %s y %s", thenT, elseT)
	}
	return thenT
}

// evalAssignExpr handles assignment used in expression position (e.g. the
// RHS of another assignment); it applies the same compatibility rule as
// AssignStmt but does not touch is_initialized bookkeeping, which only
// the statement form of assignment owns (§4.3).
func (e *Evaluator) evalAssignExpr(n *ast.AssignExpr) types.Type {
	targetType := e.Evaluate(n.Target)
	prevSuppress := e.SuppressAssignmentErrors
	e.SuppressAssignmentErrors = true
	valueType := e.Evaluate(n.Value)
	e.SuppressAssignmentErrors = prevSuppress
	if targetType.IsNull() || valueType.IsNull() {
		return types.NullType()
	}
	if !targetType.Equal(valueType) && !e.SuppressAssignmentErrors {
		return e.errorf(n.At, "No se puede asignar un valor de tipo %s a una variable de tipo %s", valueType, targetType)
	}
	return targetType
}

func (e *Evaluator) evalCall(n *ast.CallExpr) types.Type {
	switch callee := n.Callee.(type) {
	case *ast.Identifier:
		fn, ok := e.symtab.LookupFunction(callee.Name)
		if !ok {
			return e.errorf(n.At, "Identificador '%s' no ha sido declarado", callee.Name)
		}
		for _, arg := range n.Args {
			if e.Evaluate(arg).IsNull() {
				return types.NullType()
			}
		}
		return fn.ReturnType
	case *ast.MemberAccessExpr:
		return e.evalMethodCall(n, callee)
	default:
		return e.errorf(n.At, "Expresión no invocable")
	}
}

func (e *Evaluator) evalMethodCall(n *ast.CallExpr, access *ast.MemberAccessExpr) types.Type {
	objType := e.Evaluate(access.Object)
	for _, arg := range n.Args {
		e.Evaluate(arg)
	}
	if objType.IsNull() {
		return types.NullType()
	}
	if objType.Kind != types.Class {
		return e.errorf(access.At, "Acceso a método sobre un valor que no es un objeto")
	}
	if _, isSuper := access.Object.(*ast.SuperExpr); isSuper {
		// §4.2: unknown parent-class methods via super resolve to String
		// as a documented simplification of full method-signature lookup.
		if ret, ok := builtinMethodReturn[access.Member]; ok {
			return ret
		}
		return types.StringType()
	}
	cls, ok := e.symtab.LookupClass(objType.ClassName)
	if !ok {
		if ret, ok := builtinMethodReturn[access.Member]; ok {
			return ret
		}
		return e.errorf(access.At, "Clase '%s' no declarada", objType.ClassName)
	}
	if fn, ok := resolveMethod(e.symtab, cls, access.Member); ok {
		if len(n.Args) != len(fn.Params) {
			return e.errorf(access.At, "El método '%s' espera %d argumento(s) pero se recibieron %d", access.Member, len(fn.Params), len(n.Args))
		}
		return fn.ReturnType
	}
	if ret, ok := builtinMethodReturn[access.Member]; ok {
		return ret
	}
	return e.errorf(access.At, "El método '%s' no existe en la clase '%s'", access.Member, objType.ClassName)
}

// resolveMethod searches cls then its ancestor chain for a method named
// name (§4.2: "method is resolved by searching the object's class scope
// and then all class_* scopes").
func resolveMethod(st *symtab.Table, cls *symtab.ClassSymbol, name string) (*symtab.FunctionSymbol, bool) {
	for cur := cls; cur != nil; {
		if fn, ok := cur.Methods[name]; ok {
			return fn, true
		}
		if cur.ParentName == "" {
			return nil, false
		}
		parent, ok := st.LookupClass(cur.ParentName)
		if !ok {
			return nil, false
		}
		cur = parent
	}
	return nil, false
}

func (e *Evaluator) evalNew(n *ast.NewExpr) types.Type {
	cls, ok := e.symtab.LookupClass(n.ClassName)
	if !ok {
		return e.errorf(n.At, "Clase '%s' no declarada", n.ClassName)
	}
	ctor, hasCtor := cls.Constructor()
	argTypes := make([]types.Type, 0, len(n.Args))
	for _, arg := range n.Args {
		argTypes = append(argTypes, e.Evaluate(arg))
	}
	if !hasCtor {
		if len(n.Args) > 0 {
			return e.errorf(n.At, "La clase '%s' no define un constructor pero se proporcionaron argumentos", n.ClassName)
		}
		return types.ClassType(n.ClassName)
	}
	if len(n.Args) != len(ctor.Params) {
		return e.errorf(n.At, "El constructor de '%s' espera %d argumento(s) pero se recibieron %d", n.ClassName, len(ctor.Params), len(n.Args))
	}
	return types.ClassType(n.ClassName)
}

func (e *Evaluator) evalIndex(n *ast.IndexExpr) types.Type {
	arrType := e.Evaluate(n.Array)
	idxType := e.Evaluate(n.Index)
	if arrType.IsNull() || idxType.IsNull() {
		return types.NullType()
	}
	if arrType.Kind != types.Array {
		return e.errorf(n.At, "Solo se puede indexar un arreglo, se recibió %s", arrType)
	}
	if idxType.Kind != types.Integer {
		return e.errorf(n.Index.Start(), "El índice de un arreglo debe ser entero, se recibió %s", idxType)
	}
	if arrType.Dimensions > 1 {
		return types.ArrayType(arrType.Element, arrType.ElementClass, arrType.Dimensions-1)
	}
	switch arrType.Element {
	case types.Class:
		return types.ClassType(arrType.ElementClass)
	default:
		return types.Type{Kind: arrType.Element}
	}
}

func (e *Evaluator) evalMember(n *ast.MemberAccessExpr) types.Type {
	objType := e.Evaluate(n.Object)
	if objType.IsNull() {
		return types.NullType()
	}
	if objType.Kind != types.Class {
		return e.errorf(n.At, "Acceso a propiedad sobre un valor que no es un objeto")
	}
	if _, ok := builtinMethods[n.Member]; ok {
		return types.FunctionType()
	}
	cls, ok := e.symtab.LookupClass(objType.ClassName)
	if !ok {
		return e.errorf(n.At, "Clase '%s' no declarada", objType.ClassName)
	}
	attr, ok := lookupAttribute(e.symtab, cls, n.Member)
	if !ok {
		return e.errorf(n.At, "La clase '%s' no tiene el atributo '%s'", objType.ClassName, n.Member)
	}
	return attr.Type
}

func lookupAttribute(st *symtab.Table, cls *symtab.ClassSymbol, name string) (*symtab.Symbol, bool) {
	for cur := cls; cur != nil; {
		if attr, ok := cur.Attributes[name]; ok {
			return attr, true
		}
		if cur.ParentName == "" {
			return nil, false
		}
		parent, ok := st.LookupClass(cur.ParentName)
		if !ok {
			return nil, false
		}
		cur = parent
	}
	return nil, false
}
