package evaluator

import (
	"mjc/internal/ast"
	"mjc/internal/object"
	"mjc/internal/typesys"
)

// evalCall evaluates the receiver, then the arguments left to right, then
// dispatches. The slot comes from the static receiver class and the body
// from the vtable of the dynamic class.
func (in *Interpreter) evalCall(n *ast.MethodCallExpression, env *object.Environment) object.Object {
	inst, errObj := in.evalInstance(n.Object, env, n)
	if errObj != nil {
		return errObj
	}
	args := make([]object.Object, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		val := in.Eval(a, env)
		if isError(val) {
			return val
		}
		args = append(args, val)
	}

	recv, ok := in.info.TypeOf(n.Object)
	if !ok || !recv.IsClass() {
		return newError(n, "receiver of %s has no class type", n.Method.Value)
	}
	static := in.layouts.Of(recv.Class)
	if static == nil {
		return newError(n, "no layout for %s", in.tb.TypeName(recv))
	}
	slot, ok := static.MethodSlot(n.Method.Value)
	if !ok || slot >= len(inst.Layout.VTable) {
		return newError(n, "no vtable slot for %s", n.Method.Value)
	}
	entry := inst.Layout.VTable[slot]
	return in.invoke(n, inst, entry.Owner, entry.Method, args)
}

func (in *Interpreter) invoke(at ast.Node, this *object.Instance, owner typesys.Handle, name string, args []object.Object) object.Object {
	decl, ok := in.methods[methodKey{owner: owner, name: name}]
	if !ok {
		return newError(at, "no body for method %s", name)
	}
	rec := in.tb.Record(owner)
	if rec == nil {
		return newError(at, "no class for handle %d", owner)
	}
	m, ok := rec.Method(name)
	if !ok || m.Sig == nil {
		return newError(at, "class %s has no method %s", rec.Name, name)
	}
	if len(args) != len(m.Sig.Params) {
		return newError(at, "method %s expects %d arguments, got %d", name, len(m.Sig.Params), len(args))
	}

	if in.depth >= in.opts.MaxDepth {
		return newError(at, "call depth %d exceeded", in.opts.MaxDepth)
	}
	in.depth++
	defer func() { in.depth-- }()

	env := object.NewMethodEnvironment(this, in.layouts.Of(owner))
	for i, p := range m.Sig.Params {
		env.Declare(p.Name, args[i])
	}
	for _, l := range m.Sig.Locals {
		env.Declare(l.Name, object.Zero(l.Type))
	}

	for _, stmt := range decl.Body {
		if res := in.Eval(stmt, env); isError(res) {
			return res
		}
	}
	return in.Eval(decl.Return, env)
}

// newInstance allocates an object with every slot zeroed for its declared type
func (in *Interpreter) newInstance(n *ast.NewObjectExpression) object.Object {
	h, ok := in.tb.Lookup(n.Class)
	if !ok {
		return newError(n, "class %s missing from table", n.Class)
	}
	l := in.layouts.Of(h)
	if l == nil {
		return newError(n, "no layout for %s", n.Class)
	}
	fields := make([]object.Object, 0, len(l.Fields))
	chain := in.tb.Ancestors(h)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, f := range in.tb.Record(chain[i]).Fields {
			fields = append(fields, object.Zero(f.Type))
		}
	}
	if len(fields) != len(l.Fields) {
		return newError(n, "class %s has %d field slots, layout has %d", n.Class, len(fields), len(l.Fields))
	}
	return &object.Instance{Layout: l, Fields: fields}
}
