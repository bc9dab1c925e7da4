package object

import (
	"testing"

	"github.com/nalgeon/be"

	"mjc/internal/layout"
	"mjc/internal/typesys"
)

func TestObjectInspectAndType(t *testing.T) {
	l := &layout.ObjectLayout{Name: "Pair", Fields: []string{"a", "b"}}
	objs := map[Object]string{
		&Integer{Value: -7}:              "-7",
		TRUE:                             "true",
		&Array{Elements: []int64{1, 0}}:  "{1, 0}",
		&Instance{Layout: l, Fields: []Object{&Integer{Value: 1}, NULL}}: "Pair{a: 1, b: null}",
		NULL:                             "null",
		&Error{Message: "boom", Line: 3}: "ERROR: line 3: boom",
		&Error{Message: "boom"}:          "ERROR: boom",
	}
	for o, want := range objs {
		be.True(t, o.Type() != "")
		be.Equal(t, o.Inspect(), want)
	}
}

func TestZeroValues(t *testing.T) {
	be.Equal(t, Zero(typesys.IntType).Inspect(), "0")
	be.Equal(t, Zero(typesys.BooleanType), Object(FALSE))
	be.Equal(t, Zero(typesys.IntArrayType), Object(NULL))
	be.Equal(t, Zero(typesys.ClassType(0)), Object(NULL))
	be.Equal(t, NativeBool(true), TRUE)
}

func TestEnvironmentResolvesLocalsBeforeFields(t *testing.T) {
	base := &layout.ObjectLayout{Name: "A", Fields: []string{"x"}}
	derived := &layout.ObjectLayout{Name: "B", Fields: []string{"x", "x", "y"}}
	this := &Instance{Layout: derived, Fields: []Object{&Integer{Value: 1}, &Integer{Value: 2}, &Integer{Value: 3}}}

	// a method declared in A sees A's x, slot 0
	env := NewMethodEnvironment(this, base)
	v, ok := env.Get("x")
	be.True(t, ok)
	be.Equal(t, v.Inspect(), "1")
	_, ok = env.Get("y")
	be.True(t, !ok)

	// a method declared in B sees the most-derived x
	env = NewMethodEnvironment(this, derived)
	v, _ = env.Get("x")
	be.Equal(t, v.Inspect(), "2")

	env.Declare("x", &Integer{Value: 9})
	v, _ = env.Get("x")
	be.Equal(t, v.Inspect(), "9")

	be.True(t, env.Set("y", &Integer{Value: 4}))
	be.Equal(t, this.Fields[2].Inspect(), "4")
	be.True(t, !env.Set("nope", NULL))

	main := NewEnvironment()
	_, ok = main.Get("x")
	be.True(t, !ok)
}
