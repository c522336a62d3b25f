// Package types models Compiscript's static type system: the tagged Type
// value every expression resolves to, and the byte sizes the frame and
// global-segment layouts (package symtab) are built on.
package types

import "fmt"

// Kind tags a Type's shape. Class and Array carry extra payload alongside
// the tag; the rest are bare.
type Kind int

const (
	Integer Kind = iota
	Float
	Boolean
	String
	Void
	Null
	Function
	Class
	Array
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	case String:
		return "string"
	case Void:
		return "void"
	case Null:
		return "null"
	case Function:
		return "function"
	case Class:
		return "class"
	case Array:
		return "array"
	default:
		return "unknown"
	}
}

// Type is a tagged value drawn from the kinds above. Null never appears as
// the type of a well-typed program value: its presence in a result signals
// that an earlier error already suppressed further diagnostics for that
// subexpression (see evaluator.Evaluator).
type Type struct {
	Kind Kind

	// ClassName names the class when Kind == Class.
	ClassName string

	// Element is the element type and Dimensions >= 1 the nesting depth
	// when Kind == Array. An Array's Element is never itself an Array;
	// multi-dimensional arrays are represented by Dimensions instead.
	Element    Kind
	ElementClass string
	Dimensions int
}

func (t Type) String() string {
	switch t.Kind {
	case Class:
		return t.ClassName
	case Array:
		s := t.Element.String()
		if t.Element == Class {
			s = t.ElementClass
		}
		for i := 0; i < t.Dimensions; i++ {
			s += "[]"
		}
		return s
	default:
		return t.Kind.String()
	}
}

// Equal reports whether two types are identical. Compiscript never
// implicitly widens, so assignment-compatibility checks reduce to Equal.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case Class:
		return t.ClassName == other.ClassName
	case Array:
		return t.Element == other.Element &&
			t.ElementClass == other.ElementClass &&
			t.Dimensions == other.Dimensions
	default:
		return true
	}
}

func (t Type) IsNull() bool { return t.Kind == Null }
func (t Type) IsVoid() bool { return t.Kind == Void }

// Basic constructors for the scalar kinds, used throughout the evaluator
// and semantic analyzer so call sites read as "types.IntegerType()" rather
// than repeating struct literals.
func IntegerType() Type { return Type{Kind: Integer} }
func FloatType() Type   { return Type{Kind: Float} }
func BooleanType() Type { return Type{Kind: Boolean} }
func StringType() Type  { return Type{Kind: String} }
func VoidType() Type    { return Type{Kind: Void} }
func NullType() Type    { return Type{Kind: Null} }
func FunctionType() Type { return Type{Kind: Function} }

func ClassType(name string) Type { return Type{Kind: Class, ClassName: name} }

func ArrayType(elem Kind, elemClass string, dims int) Type {
	return Type{Kind: Array, Element: elem, ElementClass: elemClass, Dimensions: dims}
}

// Size returns the byte footprint of a type for the frame/global layout
// model (spec memory layout, §3.6). Integer/Boolean are 4 bytes even
// though Boolean's conceptual width is 1; Float is reserved at 8 bytes
// despite arithmetic on it never being lowered; String/Array/Class/
// Function are one-word (4-byte) references on this 32-bit target,
// consistent with the frame layout the golden scenarios compute; Void
// occupies nothing.
func Size(t Type) int {
	switch t.Kind {
	case Float:
		return 8
	case Void:
		return 0
	default:
		return 4
	}
}

// ParseBaseType maps a recognized base-type name (§6.1) to a Kind. Class
// names are resolved by the caller, which is why this only covers the
// built-in spellings.
func ParseBaseType(name string) (Kind, bool) {
	switch name {
	case "integer":
		return Integer, true
	case "string":
		return String, true
	case "boolean":
		return Boolean, true
	case "float":
		return Float, true
	case "void":
		return Void, true
	default:
		return 0, false
	}
}

// MismatchError formats the canonical "expected X got Y" message body used
// by evaluator and semantic diagnostics.
func MismatchError(expected, got Type) string {
	return fmt.Sprintf("se esperaba tipo %s pero se obtuvo %s", expected, got)
}
