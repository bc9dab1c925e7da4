package typesys

import "strings"

// Kind tags the closed set of MiniJava types.
type Kind int

const (
	Int Kind = iota + 1
	Boolean
	IntArray
	Class
	Method
)

// Handle addresses a ClassRecord inside a Table. Handles are stable for the
// life of the table: a stub and the declaration that fills it share one.
type Handle int

// NoHandle marks "no class", e.g. the parent of a root class.
const NoHandle Handle = -1

// Type is a resolved type. Class is meaningful only for Kind == Class and
// Sig only for Kind == Method.
type Type struct {
	Kind  Kind
	Class Handle
	Sig   *MethodSig
}

var (
	IntType      = Type{Kind: Int, Class: NoHandle}
	BooleanType  = Type{Kind: Boolean, Class: NoHandle}
	IntArrayType = Type{Kind: IntArray, Class: NoHandle}
)

func ClassType(h Handle) Type { return Type{Kind: Class, Class: h} }

func MethodType(sig *MethodSig) Type { return Type{Kind: Method, Class: NoHandle, Sig: sig} }

// Equal compares primitives by tag, classes by record identity and
// method types structurally.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case Class:
		return t.Class == o.Class
	case Method:
		return t.Sig.Equal(o.Sig)
	default:
		return true
	}
}

func (t Type) IsClass() bool { return t.Kind == Class }

// Field is a named slot: a class field, a method parameter or a local.
type Field struct {
	Name string
	Type Type
}

// MethodSig is the signature plus the declared locals, which take part in
// structural equality of method types.
type MethodSig struct {
	Return Type
	Params []Field
	Locals []Field
}

func (s *MethodSig) Equal(o *MethodSig) bool {
	if s == nil || o == nil {
		return s == o
	}
	if !s.Return.Equal(o.Return) {
		return false
	}
	return fieldTypesEqual(s.Params, o.Params) && fieldTypesEqual(s.Locals, o.Locals)
}

// SameParams reports whether both signatures take the same argument types in the same order.
func (s *MethodSig) SameParams(o *MethodSig) bool {
	return fieldTypesEqual(s.Params, o.Params)
}

func fieldTypesEqual(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Type.Equal(b[i].Type) {
			return false
		}
	}
	return true
}

// Param returns the index of the named parameter, or -1.
func (s *MethodSig) Param(name string) int {
	for i, p := range s.Params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Local returns the index of the named local, or -1.
func (s *MethodSig) Local(name string) int {
	for i, l := range s.Locals {
		if l.Name == name {
			return i
		}
	}
	return -1
}

// TypeName renders t the way it is spelled in source.
func (tb *Table) TypeName(t Type) string {
	switch t.Kind {
	case Int:
		return "int"
	case Boolean:
		return "boolean"
	case IntArray:
		return "int[]"
	case Class:
		if r := tb.Record(t.Class); r != nil {
			return r.Name
		}
		return "<unknown class>"
	case Method:
		if t.Sig == nil {
			return "method"
		}
		params := make([]string, 0, len(t.Sig.Params))
		for _, p := range t.Sig.Params {
			params = append(params, tb.TypeName(p.Type))
		}
		return "(" + strings.Join(params, ", ") + ") " + tb.TypeName(t.Sig.Return)
	default:
		return "<invalid>"
	}
}

// Assignable is the single subtyping rule of the language: a class value fits
// any ancestor class, primitives must match exactly.
func (tb *Table) Assignable(target, value Type) bool {
	if target.Kind == Class && value.Kind == Class {
		return tb.IsSubclass(value.Class, target.Class)
	}
	return target.Equal(value)
}

// ResolveTypeName maps a source type spelling to a Type, stubbing class names
// that have not been declared yet.
func (tb *Table) ResolveTypeName(name string, line int) Type {
	switch name {
	case "int":
		return IntType
	case "boolean":
		return BooleanType
	case "int[]":
		return IntArrayType
	default:
		return ClassType(tb.ResolveOrStub(name, line))
	}
}
