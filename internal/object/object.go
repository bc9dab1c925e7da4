package object

import (
	"bytes"
	"fmt"
	"strings"

	"mjc/internal/layout"
	"mjc/internal/typesys"
)

// ObjectType identifies what kind of value we have
type ObjectType string

const (
	INTEGER_OBJ  ObjectType = "INTEGER"
	BOOLEAN_OBJ  ObjectType = "BOOLEAN"
	ARRAY_OBJ    ObjectType = "ARRAY"
	INSTANCE_OBJ ObjectType = "INSTANCE"
	NULL_OBJ     ObjectType = "NULL"
	ERROR_OBJ    ObjectType = "ERROR"
)

// Object is the interface for all runtime values
// Every value in our language implements this
type Object interface {
	Type() ObjectType
	Inspect() string // String representation for printing
}

// Integer represents integer values like 5, 42; arithmetic wraps at 64 bits
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }

// Boolean represents true or false
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

// Array is an int[]; new arrays are zero-filled
type Array struct {
	Elements []int64
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = fmt.Sprintf("%d", e)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Instance is an object of a class. Fields has one entry per layout slot,
// so a field a subclass redeclares occupies two entries.
type Instance struct {
	Layout *layout.ObjectLayout
	Fields []Object
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (i *Instance) Inspect() string {
	var out bytes.Buffer
	out.WriteString(i.Layout.Name)
	out.WriteString("{")
	for idx, name := range i.Layout.Fields {
		if idx > 0 {
			out.WriteString(", ")
		}
		out.WriteString(name)
		out.WriteString(": ")
		if idx < len(i.Fields) && i.Fields[idx] != nil {
			out.WriteString(i.Fields[idx].Inspect())
		}
	}
	out.WriteString("}")
	return out.String()
}

// Null is the value of an unassigned array or object reference
type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

// Error represents a runtime fault the native program would crash on
type Error struct {
	Message string
	Line    int
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	if e.Line > 0 {
		return fmt.Sprintf("ERROR: line %d: %s", e.Line, e.Message)
	}
	return "ERROR: " + e.Message
}

// TRUE, FALSE and NULL are singletons
var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NULL  = &Null{}
)

// NativeBool picks the TRUE or FALSE singleton
func NativeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// Zero is the value a field or local of type t starts with
func Zero(t typesys.Type) Object {
	switch t.Kind {
	case typesys.Int:
		return &Integer{Value: 0}
	case typesys.Boolean:
		return FALSE
	default:
		return NULL
	}
}
