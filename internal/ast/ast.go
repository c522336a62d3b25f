// Package ast defines the parse-tree contract consumed by the core
// (§6.2): a closed algebraic family of expression and statement nodes.
// The lexer and parser that build this tree from source text are, per
// the specification, external collaborators — but this module still
// ships a small recursive-descent one (package parser) so the pipeline
// is runnable end to end and the golden scenarios in the specification
// can be exercised as tests.
package ast

import "fmt"

// Pos is the source position every node carries (§6.2: "each node
// exposes a start position").
type Pos struct {
	Line   int
	Column int
}

// Expr is implemented by every node that produces a value.
type Expr interface {
	exprNode()
	Start() Pos
	String() string
}

// Stmt is implemented by every node that does not produce a value.
type Stmt interface {
	stmtNode()
	Start() Pos
	String() string
}

//  Type annotations

// TypeAnnotation is a base type name followed by zero or more `[]`
// pairs (§6.1).
type TypeAnnotation struct {
	BaseType   string
	ArrayDepth int
	Pos        Pos
}

func (t *TypeAnnotation) String() string {
	s := t.BaseType
	for i := 0; i < t.ArrayDepth; i++ {
		s += "[]"
	}
	return s
}

//  Expressions

type IntegerLiteral struct {
	Value int64
	At    Pos
}

func (*IntegerLiteral) exprNode()     {}
func (n *IntegerLiteral) Start() Pos  { return n.At }
func (n *IntegerLiteral) String() string { return fmt.Sprintf("%d", n.Value) }

type FloatLiteral struct {
	Value float64
	At    Pos
}

func (*FloatLiteral) exprNode()        {}
func (n *FloatLiteral) Start() Pos     { return n.At }
func (n *FloatLiteral) String() string { return fmt.Sprintf("%g", n.Value) }

type BoolLiteral struct {
	Value bool
	At    Pos
}

func (*BoolLiteral) exprNode()        {}
func (n *BoolLiteral) Start() Pos     { return n.At }
func (n *BoolLiteral) String() string { return fmt.Sprintf("%t", n.Value) }

type StringLiteral struct {
	Value string
	At    Pos
}

func (*StringLiteral) exprNode()        {}
func (n *StringLiteral) Start() Pos     { return n.At }
func (n *StringLiteral) String() string { return fmt.Sprintf("%q", n.Value) }

type NullLiteral struct{ At Pos }

func (*NullLiteral) exprNode()        {}
func (n *NullLiteral) Start() Pos     { return n.At }
func (n *NullLiteral) String() string { return "null" }

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	Elements []Expr
	At       Pos
}

func (*ArrayLiteral) exprNode()       {}
func (n *ArrayLiteral) Start() Pos    { return n.At }
func (n *ArrayLiteral) String() string {
	return fmt.Sprintf("ArrayLiteral(len=%d)", len(n.Elements))
}

// Identifier is a bare name reference.
type Identifier struct {
	Name string
	At   Pos
}

func (*Identifier) exprNode()        {}
func (n *Identifier) Start() Pos     { return n.At }
func (n *Identifier) String() string { return n.Name }

// ThisExpr/SuperExpr are only legal inside a class scope.
type ThisExpr struct{ At Pos }

func (*ThisExpr) exprNode()        {}
func (n *ThisExpr) Start() Pos     { return n.At }
func (n *ThisExpr) String() string { return "this" }

type SuperExpr struct{ At Pos }

func (*SuperExpr) exprNode()        {}
func (n *SuperExpr) Start() Pos     { return n.At }
func (n *SuperExpr) String() string { return "super" }

// BinaryExpr covers +, -, *, /, %, ==, !=, <, <=, >, >=.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	At    Pos
}

func (*BinaryExpr) exprNode()    {}
func (n *BinaryExpr) Start() Pos { return n.At }
func (n *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
}

// LogicalExpr covers && and ||, kept distinct from BinaryExpr so the TAC
// generator can lower it with short-circuit control-flow labels.
type LogicalExpr struct {
	Op    string // "&&" or "||"
	Left  Expr
	Right Expr
	At    Pos
}

func (*LogicalExpr) exprNode()    {}
func (n *LogicalExpr) Start() Pos { return n.At }
func (n *LogicalExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
}

// UnaryExpr covers unary - and !.
type UnaryExpr struct {
	Op    string
	Right Expr
	At    Pos
}

func (*UnaryExpr) exprNode()        {}
func (n *UnaryExpr) Start() Pos     { return n.At }
func (n *UnaryExpr) String() string { return fmt.Sprintf("(%s%s)", n.Op, n.Right) }

// TernaryExpr is `cond ? then : else`.
type TernaryExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	At   Pos
}

func (*TernaryExpr) exprNode()    {}
func (n *TernaryExpr) Start() Pos { return n.At }
func (n *TernaryExpr) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", n.Cond, n.Then, n.Else)
}

// AssignExpr is assignment used in expression position (e.g. nested
// `a = b = 1`); statement-position assignment uses AssignStmt instead so
// the semantic analyzer can apply its three distinct forms (§4.3).
type AssignExpr struct {
	Target Expr
	Value  Expr
	At     Pos
}

func (*AssignExpr) exprNode()    {}
func (n *AssignExpr) Start() Pos { return n.At }
func (n *AssignExpr) String() string {
	return fmt.Sprintf("(%s = %s)", n.Target, n.Value)
}

// CallExpr is `callee(args...)`; Callee is an Identifier for a plain
// function call or a MemberAccessExpr for a method call.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	At     Pos
}

func (*CallExpr) exprNode()    {}
func (n *CallExpr) Start() Pos { return n.At }
func (n *CallExpr) String() string {
	return fmt.Sprintf("Call(%s, args=%d)", n.Callee, len(n.Args))
}

// NewExpr is `new ClassName(args...)`.
type NewExpr struct {
	ClassName string
	Args      []Expr
	At        Pos
}

func (*NewExpr) exprNode()    {}
func (n *NewExpr) Start() Pos { return n.At }
func (n *NewExpr) String() string {
	return fmt.Sprintf("new %s(args=%d)", n.ClassName, len(n.Args))
}

// IndexExpr is `array[index]`.
type IndexExpr struct {
	Array Expr
	Index Expr
	At    Pos
}

func (*IndexExpr) exprNode()        {}
func (n *IndexExpr) Start() Pos     { return n.At }
func (n *IndexExpr) String() string { return fmt.Sprintf("%s[%s]", n.Array, n.Index) }

// MemberAccessExpr is `object.field`.
type MemberAccessExpr struct {
	Object Expr
	Member string
	At     Pos
}

func (*MemberAccessExpr) exprNode() {}
func (n *MemberAccessExpr) Start() Pos { return n.At }
func (n *MemberAccessExpr) String() string {
	return fmt.Sprintf("%s.%s", n.Object, n.Member)
}

//  Statements

// Program is the root node.
type Program struct {
	Statements []Stmt
}

func (*Program) stmtNode()        {}
func (n *Program) Start() Pos     { return Pos{1, 1} }
func (n *Program) String() string { return fmt.Sprintf("Program(%d stmts)", len(n.Statements)) }

// VariableDeclaration is `let`/`var` name[: type][ = init];
type VariableDeclaration struct {
	Name       string
	Annotation *TypeAnnotation // nil if not annotated
	Init       Expr            // nil if not initialized
	At         Pos
}

func (*VariableDeclaration) stmtNode()    {}
func (n *VariableDeclaration) Start() Pos { return n.At }
func (n *VariableDeclaration) String() string {
	return fmt.Sprintf("VariableDeclaration(%s)", n.Name)
}

// ConstantDeclaration is `const name[: type] = init;` (always initialized).
type ConstantDeclaration struct {
	Name       string
	Annotation *TypeAnnotation
	Init       Expr
	At         Pos
}

func (*ConstantDeclaration) stmtNode()    {}
func (n *ConstantDeclaration) Start() Pos { return n.At }
func (n *ConstantDeclaration) String() string {
	return fmt.Sprintf("ConstantDeclaration(%s)", n.Name)
}

// Parameter is one function/method parameter; always annotated.
type Parameter struct {
	Name       string
	Annotation *TypeAnnotation
	At         Pos
}

// FunctionDeclaration is `function name(params): returnType { body }`.
type FunctionDeclaration struct {
	Name       string
	Params     []Parameter
	ReturnType *TypeAnnotation // nil means void
	Body       *BlockStmt
	At         Pos
}

func (*FunctionDeclaration) stmtNode()    {}
func (n *FunctionDeclaration) Start() Pos { return n.At }
func (n *FunctionDeclaration) String() string {
	return fmt.Sprintf("FunctionDeclaration(%s, params=%d)", n.Name, len(n.Params))
}

// InitMethod is a class constructor: `init(params) { body }`. Modeled
// separately from FunctionDeclaration because it never has an explicit
// return type (always Void) and may only appear inside a ClassDeclaration.
type InitMethod struct {
	Params []Parameter
	Body   *BlockStmt
	At     Pos
}

func (*InitMethod) stmtNode()    {}
func (n *InitMethod) Start() Pos { return n.At }
func (n *InitMethod) String() string {
	return fmt.Sprintf("InitMethod(params=%d)", len(n.Params))
}

// ClassDeclaration is `class Name [: Parent] { ... }`.
type ClassDeclaration struct {
	Name       string
	ParentName string // "" if none
	Attributes []*VariableDeclaration // explicit `var`/`let` field declarations
	Init       *InitMethod
	Methods    []*FunctionDeclaration
	At         Pos
}

func (*ClassDeclaration) stmtNode()    {}
func (n *ClassDeclaration) Start() Pos { return n.At }
func (n *ClassDeclaration) String() string {
	return fmt.Sprintf("ClassDeclaration(%s extends %s)", n.Name, n.ParentName)
}

// AssignStmt covers all three assignment forms (§4.3): `id = expr`,
// `this.field = expr`, and `obj.field = expr`. Target distinguishes them
// by its dynamic type (*ast.Identifier or *ast.MemberAccessExpr).
type AssignStmt struct {
	Target Expr
	Value  Expr
	At     Pos
}

func (*AssignStmt) stmtNode()    {}
func (n *AssignStmt) Start() Pos { return n.At }
func (n *AssignStmt) String() string {
	return fmt.Sprintf("Assignment(%s = %s)", n.Target, n.Value)
}

// BlockStmt is `{ stmt... }`.
type BlockStmt struct {
	Statements []Stmt
	At         Pos
}

func (*BlockStmt) stmtNode()        {}
func (n *BlockStmt) Start() Pos     { return n.At }
func (n *BlockStmt) String() string { return fmt.Sprintf("Block(%d stmts)", len(n.Statements)) }

// IfStmt is `if (cond) then [else elseStmt]`.
type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt // nil if no else
	At        Pos
}

func (*IfStmt) stmtNode()        {}
func (n *IfStmt) Start() Pos     { return n.At }
func (n *IfStmt) String() string { return fmt.Sprintf("If(%s)", n.Condition) }

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	Condition Expr
	Body      Stmt
	At        Pos
}

func (*WhileStmt) stmtNode()        {}
func (n *WhileStmt) Start() Pos     { return n.At }
func (n *WhileStmt) String() string { return fmt.Sprintf("While(%s)", n.Condition) }

// DoWhileStmt is `do body while (cond);`.
type DoWhileStmt struct {
	Body      Stmt
	Condition Expr
	At        Pos
}

func (*DoWhileStmt) stmtNode()        {}
func (n *DoWhileStmt) Start() Pos     { return n.At }
func (n *DoWhileStmt) String() string { return fmt.Sprintf("DoWhile(%s)", n.Condition) }

// ForStmt is `for (init; cond; post) body`. Init/Post may be nil.
type ForStmt struct {
	Init Stmt
	Cond Expr
	Post Stmt
	Body Stmt
	At   Pos
}

func (*ForStmt) stmtNode()        {}
func (n *ForStmt) Start() Pos     { return n.At }
func (n *ForStmt) String() string { return "For(...)" }

// ForeachStmt is `foreach (name in iterable) body`.
type ForeachStmt struct {
	VarName  string
	Iterable Expr
	Body     Stmt
	At       Pos
}

func (*ForeachStmt) stmtNode()    {}
func (n *ForeachStmt) Start() Pos { return n.At }
func (n *ForeachStmt) String() string {
	return fmt.Sprintf("Foreach(%s in %s)", n.VarName, n.Iterable)
}

type BreakStmt struct{ At Pos }

func (*BreakStmt) stmtNode()        {}
func (n *BreakStmt) Start() Pos     { return n.At }
func (n *BreakStmt) String() string { return "Break" }

type ContinueStmt struct{ At Pos }

func (*ContinueStmt) stmtNode()        {}
func (n *ContinueStmt) Start() Pos     { return n.At }
func (n *ContinueStmt) String() string { return "Continue" }

// ReturnStmt is `return [expr];`.
type ReturnStmt struct {
	Value Expr // nil for bare `return;`
	At    Pos
}

func (*ReturnStmt) stmtNode()        {}
func (n *ReturnStmt) Start() Pos     { return n.At }
func (n *ReturnStmt) String() string { return fmt.Sprintf("Return(%v)", n.Value) }

// PrintStmt is `print(expr);`, lowered directly rather than through the
// general call machinery because print is a synthetic builtin (§4.1).
type PrintStmt struct {
	Value Expr
	At    Pos
}

func (*PrintStmt) stmtNode()        {}
func (n *PrintStmt) Start() Pos     { return n.At }
func (n *PrintStmt) String() string { return fmt.Sprintf("Print(%s)", n.Value) }

// TryCatchStmt is `try { ... } catch (name) { ... }`.
type TryCatchStmt struct {
	Try        *BlockStmt
	CatchParam string
	Catch      *BlockStmt
	At         Pos
}

func (*TryCatchStmt) stmtNode()        {}
func (n *TryCatchStmt) Start() Pos     { return n.At }
func (n *TryCatchStmt) String() string { return fmt.Sprintf("TryCatch(%s)", n.CatchParam) }

// ExpressionStmt is an expression evaluated for its side effects, e.g. a
// bare function or method call.
type ExpressionStmt struct {
	Expr Expr
	At   Pos
}

func (*ExpressionStmt) stmtNode()        {}
func (n *ExpressionStmt) Start() Pos     { return n.At }
func (n *ExpressionStmt) String() string { return fmt.Sprintf("ExprStmt(%s)", n.Expr) }
