package evaluator

import (
	"mjc/internal/ast"
	"mjc/internal/object"
)

func (in *Interpreter) evalExpression(e ast.Expression, env *object.Environment) object.Object {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		return &object.Integer{Value: n.Value}

	case *ast.Boolean:
		return object.NativeBool(n.Value)

	case *ast.ThisExpression:
		if env.This == nil {
			return newError(n, "this outside a class")
		}
		return env.This

	case *ast.Identifier:
		val, ok := env.Get(n.Value)
		if !ok {
			return newError(n, "identifier not found: %s", n.Value)
		}
		return val

	case *ast.PrefixExpression:
		b, errObj := in.evalBool(n.Right, env)
		if errObj != nil {
			return errObj
		}
		return object.NativeBool(!b)

	case *ast.InfixExpression:
		return in.evalInfix(n, env)

	case *ast.IndexExpression:
		target := in.Eval(n.Left, env)
		if isError(target) {
			return target
		}
		idx, errObj := in.evalInt(n.Index, env)
		if errObj != nil {
			return errObj
		}
		arr, errObj := asArray(n, target)
		if errObj != nil {
			return errObj
		}
		if idx < 0 || idx >= int64(len(arr.Elements)) {
			return newError(n, "index %d out of range for length %d", idx, len(arr.Elements))
		}
		return &object.Integer{Value: arr.Elements[idx]}

	case *ast.LengthExpression:
		target := in.Eval(n.Array, env)
		if isError(target) {
			return target
		}
		arr, errObj := asArray(n, target)
		if errObj != nil {
			return errObj
		}
		return &object.Integer{Value: int64(len(arr.Elements))}

	case *ast.FieldAccessExpression:
		inst, errObj := in.evalInstance(n.Object, env, n)
		if errObj != nil {
			return errObj
		}
		slot, errObj := in.fieldSlot(n)
		if errObj != nil {
			return errObj
		}
		if slot >= len(inst.Fields) {
			return newError(n, "field slot %d out of range for %s", slot, inst.Layout.Name)
		}
		return inst.Fields[slot]

	case *ast.MethodCallExpression:
		return in.evalCall(n, env)

	case *ast.NewObjectExpression:
		return in.newInstance(n)

	case *ast.NewArrayExpression:
		size, errObj := in.evalInt(n.Size, env)
		if errObj != nil {
			return errObj
		}
		if size < 0 {
			return newError(n, "negative array size %d", size)
		}
		if size > int64(in.opts.MaxArrayLen) {
			return newError(n, "array size %d exceeds limit %d", size, in.opts.MaxArrayLen)
		}
		return &object.Array{Elements: make([]int64, size)}
	}
	return newError(e, "unexpected expression %T", e)
}

func (in *Interpreter) evalInfix(n *ast.InfixExpression, env *object.Environment) object.Object {
	if n.Operator == "&&" {
		left, errObj := in.evalBool(n.Left, env)
		if errObj != nil {
			return errObj
		}
		if !left {
			return object.FALSE
		}
		right, errObj := in.evalBool(n.Right, env)
		if errObj != nil {
			return errObj
		}
		return object.NativeBool(right)
	}

	left, errObj := in.evalInt(n.Left, env)
	if errObj != nil {
		return errObj
	}
	right, errObj := in.evalInt(n.Right, env)
	if errObj != nil {
		return errObj
	}
	switch n.Operator {
	case "+":
		return &object.Integer{Value: left + right}
	case "-":
		return &object.Integer{Value: left - right}
	case "*":
		return &object.Integer{Value: left * right}
	case "<":
		return object.NativeBool(left < right)
	}
	return newError(n, "unknown operator: %s", n.Operator)
}

// fieldSlot picks the slot from the static type of the receiver, as the
// generated code does.
func (in *Interpreter) fieldSlot(n *ast.FieldAccessExpression) (int, *object.Error) {
	recv, ok := in.info.TypeOf(n.Object)
	if !ok || !recv.IsClass() {
		return -1, newError(n, "receiver of .%s has no class type", n.Field.Value)
	}
	l := in.layouts.Of(recv.Class)
	if l == nil {
		return -1, newError(n, "no layout for %s", in.tb.TypeName(recv))
	}
	slot, ok := l.FieldSlot(n.Field.Value)
	if !ok {
		return -1, newError(n, "class %s has no field %s", l.Name, n.Field.Value)
	}
	return slot, nil
}

func (in *Interpreter) evalInt(e ast.Expression, env *object.Environment) (int64, *object.Error) {
	val := in.Eval(e, env)
	switch v := val.(type) {
	case *object.Error:
		return 0, v
	case *object.Integer:
		return v.Value, nil
	}
	return 0, newError(e, "expected int, got %s", typeName(val))
}

func (in *Interpreter) evalBool(e ast.Expression, env *object.Environment) (bool, *object.Error) {
	val := in.Eval(e, env)
	switch v := val.(type) {
	case *object.Error:
		return false, v
	case *object.Boolean:
		return v.Value, nil
	}
	return false, newError(e, "expected boolean, got %s", typeName(val))
}

// evalInstance evaluates a receiver and rejects null
func (in *Interpreter) evalInstance(e ast.Expression, env *object.Environment, at ast.Node) (*object.Instance, *object.Error) {
	val := in.Eval(e, env)
	switch v := val.(type) {
	case *object.Error:
		return nil, v
	case *object.Instance:
		return v, nil
	case *object.Null:
		return nil, newError(at, "null receiver")
	}
	return nil, newError(at, "%s is not an object", typeName(val))
}

func asArray(at ast.Node, val object.Object) (*object.Array, *object.Error) {
	switch v := val.(type) {
	case *object.Array:
		return v, nil
	case *object.Null:
		return nil, newError(at, "null array")
	}
	return nil, newError(at, "%s is not an array", typeName(val))
}

func typeName(obj object.Object) string {
	if obj == nil {
		return "nothing"
	}
	return string(obj.Type())
}
