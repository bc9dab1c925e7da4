package semantic

import (
	"mjc/internal/ast"
	"mjc/internal/diag"
	"mjc/internal/typesys"
)

// Info is what the checker learned about a program. Later phases read it
// instead of re-inferring types.
type Info struct {
	Types map[ast.Expression]typesys.Type
}

// TypeOf returns the recorded type of e.
func (i *Info) TypeOf(e ast.Expression) (typesys.Type, bool) {
	t, ok := i.Types[e]
	return t, ok
}

// Context is where a statement or expression sits: the enclosing class and
// method. The main statement has no class (NoHandle) and no method (nil).
type Context struct {
	Class  typesys.Handle
	Method *typesys.MethodSig
}

// MainContext is the context of the program's entry statement.
var MainContext = Context{Class: typesys.NoHandle}

// Checker validates statements and expressions against a built class table.
type Checker struct {
	tb   *typesys.Table
	info *Info
}

func NewChecker(tb *typesys.Table) *Checker {
	return &Checker{tb: tb, info: &Info{Types: make(map[ast.Expression]typesys.Type)}}
}

// Info returns everything recorded so far.
func (c *Checker) Info() *Info { return c.info }

func checkErr(node ast.Node, format string, args ...interface{}) error {
	line := 0
	if node != nil {
		line = node.Line()
	}
	return diag.Errorf(diag.KindSemantic, diag.PhaseCheck, line, format, args...)
}

// Check type-checks a built program: every method of every class, then the
// main statement.
func Check(prog *ast.Program, tb *typesys.Table) (*Info, error) {
	c := NewChecker(tb)
	for _, decl := range prog.Classes {
		h, ok := tb.Lookup(decl.Name)
		if !ok {
			return nil, diag.Internalf(diag.PhaseCheck, "class %s missing from table", decl.Name)
		}
		rec := tb.Record(h)
		for _, m := range decl.Methods {
			entry, ok := rec.Method(m.Name)
			if !ok {
				return nil, diag.Internalf(diag.PhaseCheck, "method %s.%s missing from table", decl.Name, m.Name)
			}
			if err := c.CheckMethod(Context{Class: h, Method: entry.Sig}, m); err != nil {
				return nil, err
			}
		}
	}
	if prog.Main != nil {
		if err := c.CheckStatement(MainContext, prog.Main); err != nil {
			return nil, err
		}
	}
	return c.info, nil
}

// CheckMethod checks the body and the return expression, which must have
// exactly the declared return type.
func (c *Checker) CheckMethod(ctx Context, m *ast.MethodDecl) error {
	for _, st := range m.Body {
		if err := c.CheckStatement(ctx, st); err != nil {
			return err
		}
	}
	got, err := c.CheckExpression(ctx, m.Return)
	if err != nil {
		return err
	}
	if !got.Equal(ctx.Method.Return) {
		return checkErr(m.Return, "method %s must return %s, got %s",
			m.Name, c.tb.TypeName(ctx.Method.Return), c.tb.TypeName(got))
	}
	return nil
}

func (c *Checker) CheckStatement(ctx Context, stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		for _, st := range s.Statements {
			if err := c.CheckStatement(ctx, st); err != nil {
				return err
			}
		}
		return nil

	case *ast.IfStatement:
		if err := c.expect(ctx, s.Condition, typesys.BooleanType, "if condition"); err != nil {
			return err
		}
		if err := c.CheckStatement(ctx, s.Consequence); err != nil {
			return err
		}
		return c.CheckStatement(ctx, s.Alternative)

	case *ast.WhileStatement:
		if err := c.expect(ctx, s.Condition, typesys.BooleanType, "while condition"); err != nil {
			return err
		}
		return c.CheckStatement(ctx, s.Body)

	case *ast.PrintStatement:
		return c.expect(ctx, s.Value, typesys.IntType, "println argument")

	case *ast.AssignStatement:
		target, err := c.CheckExpression(ctx, s.Name)
		if err != nil {
			return err
		}
		value, err := c.CheckExpression(ctx, s.Value)
		if err != nil {
			return err
		}
		if !c.tb.Assignable(target, value) {
			return checkErr(s, "cannot assign %s to %s of type %s",
				c.tb.TypeName(value), s.Name.Value, c.tb.TypeName(target))
		}
		return nil

	case *ast.ArrayAssignStatement:
		if err := c.expect(ctx, s.Name, typesys.IntArrayType, "array store target"); err != nil {
			return err
		}
		if err := c.expect(ctx, s.Index, typesys.IntType, "array index"); err != nil {
			return err
		}
		return c.expect(ctx, s.Value, typesys.IntType, "array element")

	case nil:
		return diag.Internalf(diag.PhaseCheck, "nil statement")
	default:
		return diag.Internalf(diag.PhaseCheck, "unexpected statement %T", stmt)
	}
}

// expect checks e and requires exactly want
func (c *Checker) expect(ctx Context, e ast.Expression, want typesys.Type, what string) error {
	got, err := c.CheckExpression(ctx, e)
	if err != nil {
		return err
	}
	if !got.Equal(want) {
		return checkErr(e, "%s must be %s, got %s", what, c.tb.TypeName(want), c.tb.TypeName(got))
	}
	return nil
}

// CheckExpression infers the type of e and records it in Info.Types.
func (c *Checker) CheckExpression(ctx Context, e ast.Expression) (typesys.Type, error) {
	t, err := c.infer(ctx, e)
	if err != nil {
		return typesys.Type{}, err
	}
	c.info.Types[e] = t
	return t, nil
}

func (c *Checker) infer(ctx Context, e ast.Expression) (typesys.Type, error) {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		return typesys.IntType, nil

	case *ast.Boolean:
		return typesys.BooleanType, nil

	case *ast.ThisExpression:
		if ctx.Class == typesys.NoHandle {
			return typesys.Type{}, checkErr(n, "this cannot be used in main")
		}
		return typesys.ClassType(ctx.Class), nil

	case *ast.Identifier:
		return c.lookupVariable(ctx, n)

	case *ast.PrefixExpression:
		if err := c.expect(ctx, n.Right, typesys.BooleanType, "operand of !"); err != nil {
			return typesys.Type{}, err
		}
		return typesys.BooleanType, nil

	case *ast.InfixExpression:
		return c.inferInfix(ctx, n)

	case *ast.IndexExpression:
		if err := c.expect(ctx, n.Left, typesys.IntArrayType, "indexed value"); err != nil {
			return typesys.Type{}, err
		}
		if err := c.expect(ctx, n.Index, typesys.IntType, "array index"); err != nil {
			return typesys.Type{}, err
		}
		return typesys.IntType, nil

	case *ast.LengthExpression:
		if err := c.expect(ctx, n.Array, typesys.IntArrayType, "receiver of length"); err != nil {
			return typesys.Type{}, err
		}
		return typesys.IntType, nil

	case *ast.FieldAccessExpression:
		recv, err := c.classReceiver(ctx, n.Object, n)
		if err != nil {
			return typesys.Type{}, err
		}
		f, _, ok := c.tb.FindField(recv, n.Field.Value)
		if !ok {
			return typesys.Type{}, checkErr(n, "class %s has no field %s", c.tb.Record(recv).Name, n.Field.Value)
		}
		return f.Type, nil

	case *ast.MethodCallExpression:
		return c.inferCall(ctx, n)

	case *ast.NewObjectExpression:
		h, ok := c.tb.Lookup(n.Class)
		if !ok || c.tb.Record(h).Pending() {
			return typesys.Type{}, checkErr(n, "class %s is not declared", n.Class)
		}
		return typesys.ClassType(h), nil

	case *ast.NewArrayExpression:
		if err := c.expect(ctx, n.Size, typesys.IntType, "array size"); err != nil {
			return typesys.Type{}, err
		}
		return typesys.IntArrayType, nil

	case nil:
		return typesys.Type{}, diag.Internalf(diag.PhaseCheck, "nil expression")
	default:
		return typesys.Type{}, diag.Internalf(diag.PhaseCheck, "unexpected expression %T", e)
	}
}

func (c *Checker) inferInfix(ctx Context, n *ast.InfixExpression) (typesys.Type, error) {
	operand, result := typesys.IntType, typesys.IntType
	switch n.Operator {
	case "+", "-", "*":
	case "<":
		result = typesys.BooleanType
	case "&&":
		operand, result = typesys.BooleanType, typesys.BooleanType
	default:
		return typesys.Type{}, diag.Internalf(diag.PhaseCheck, "unknown operator %q", n.Operator)
	}
	what := "operand of " + n.Operator
	if err := c.expect(ctx, n.Left, operand, what); err != nil {
		return typesys.Type{}, err
	}
	if err := c.expect(ctx, n.Right, operand, what); err != nil {
		return typesys.Type{}, err
	}
	return result, nil
}

// inferCall resolves the method on the static receiver class, then checks
// the argument count before any argument type.
func (c *Checker) inferCall(ctx Context, n *ast.MethodCallExpression) (typesys.Type, error) {
	recv, err := c.classReceiver(ctx, n.Object, n)
	if err != nil {
		return typesys.Type{}, err
	}
	m, _, ok := c.tb.FindMethod(recv, n.Method.Value)
	if !ok {
		return typesys.Type{}, checkErr(n, "method %s not defined in class %s", n.Method.Value, c.tb.Record(recv).Name)
	}
	if len(n.Arguments) != len(m.Sig.Params) {
		return typesys.Type{}, checkErr(n, "method %s expects %d arguments, got %d",
			n.Method.Value, len(m.Sig.Params), len(n.Arguments))
	}
	for i, arg := range n.Arguments {
		got, err := c.CheckExpression(ctx, arg)
		if err != nil {
			return typesys.Type{}, err
		}
		want := m.Sig.Params[i].Type
		if !c.tb.Assignable(want, got) {
			return typesys.Type{}, checkErr(arg, "argument %d of %s must be %s, got %s",
				i+1, n.Method.Value, c.tb.TypeName(want), c.tb.TypeName(got))
		}
	}
	return m.Sig.Return, nil
}

func (c *Checker) classReceiver(ctx Context, obj ast.Expression, at ast.Node) (typesys.Handle, error) {
	t, err := c.CheckExpression(ctx, obj)
	if err != nil {
		return typesys.NoHandle, err
	}
	if !t.IsClass() {
		return typesys.NoHandle, checkErr(at, "%s is not an object", c.tb.TypeName(t))
	}
	return t.Class, nil
}

// lookupVariable resolves a bare name: parameter, then local, then a field
// of the current class or one of its ancestors.
func (c *Checker) lookupVariable(ctx Context, id *ast.Identifier) (typesys.Type, error) {
	if ctx.Method != nil {
		if i := ctx.Method.Param(id.Value); i >= 0 {
			return ctx.Method.Params[i].Type, nil
		}
		if i := ctx.Method.Local(id.Value); i >= 0 {
			return ctx.Method.Locals[i].Type, nil
		}
	}
	if ctx.Class != typesys.NoHandle {
		if f, _, ok := c.tb.FindField(ctx.Class, id.Value); ok {
			return f.Type, nil
		}
	}
	return typesys.Type{}, checkErr(id, "variable %s is not defined", id.Value)
}
