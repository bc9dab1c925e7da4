package object

import "mjc/internal/layout"

// Environment stores the variables of one method activation
// Bare names that are neither parameters nor locals are fields of This,
// looked up through Layout, the layout of the class that declared the method.
type Environment struct {
	store  map[string]Object
	This   *Instance
	Layout *layout.ObjectLayout
}

// NewEnvironment creates the environment of the main statement
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

// NewMethodEnvironment creates the environment of a method call on this
func NewMethodEnvironment(this *Instance, declaring *layout.ObjectLayout) *Environment {
	env := NewEnvironment()
	env.This = this
	env.Layout = declaring
	return env
}

// Get looks up a variable by name: parameters and locals first, then fields
func (e *Environment) Get(name string) (Object, bool) {
	if obj, ok := e.store[name]; ok {
		return obj, true
	}
	if slot, ok := e.fieldSlot(name); ok {
		return e.This.Fields[slot], true
	}
	return nil, false
}

// Declare binds a parameter or local in this activation
func (e *Environment) Declare(name string, val Object) {
	e.store[name] = val
}

// Set updates an existing variable; it reports false for unknown names
func (e *Environment) Set(name string, val Object) bool {
	if _, ok := e.store[name]; ok {
		e.store[name] = val
		return true
	}
	if slot, ok := e.fieldSlot(name); ok {
		e.This.Fields[slot] = val
		return true
	}
	return false
}

func (e *Environment) fieldSlot(name string) (int, bool) {
	if e.This == nil || e.Layout == nil {
		return -1, false
	}
	slot, ok := e.Layout.FieldSlot(name)
	if !ok || slot >= len(e.This.Fields) {
		return -1, false
	}
	return slot, true
}
