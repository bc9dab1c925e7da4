// Package evaluator runs a checked program directly, using the same class
// layouts as the code generator. Tests use it as an oracle for native output.
package evaluator

import (
	"fmt"
	"io"

	"mjc/internal/ast"
	"mjc/internal/diag"
	"mjc/internal/layout"
	"mjc/internal/object"
	"mjc/internal/semantic"
	"mjc/internal/typesys"
)

// Options bound how far a program may run. Zero values pick the defaults.
type Options struct {
	MaxDepth    int // nested method calls
	MaxSteps    int // statements and loop iterations; 0 means unlimited
	MaxArrayLen int // elements in one new int[n]
}

const (
	defaultMaxDepth    = 10000
	defaultMaxArrayLen = 1 << 24
)

type methodKey struct {
	owner typesys.Handle
	name  string
}

// Interpreter holds the analysis results a program is executed against
type Interpreter struct {
	tb      *typesys.Table
	info    *semantic.Info
	layouts *layout.Layouts
	out     io.Writer
	opts    Options

	methods map[methodKey]*ast.MethodDecl
	depth   int
	steps   int
}

// New creates an interpreter that writes println output to out
func New(tb *typesys.Table, info *semantic.Info, layouts *layout.Layouts, out io.Writer, opts Options) *Interpreter {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	if opts.MaxArrayLen <= 0 {
		opts.MaxArrayLen = defaultMaxArrayLen
	}
	return &Interpreter{
		tb:      tb,
		info:    info,
		layouts: layouts,
		out:     out,
		opts:    opts,
		methods: make(map[methodKey]*ast.MethodDecl),
	}
}

// Run executes the main statement of prog. Runtime faults come back as
// KindRuntime errors; a program the checker would reject gives KindInternal.
func (in *Interpreter) Run(prog *ast.Program) error {
	if prog == nil {
		return diag.Internalf(diag.PhaseRun, "nil program")
	}
	for _, c := range prog.Classes {
		h, ok := in.tb.Lookup(c.Name)
		if !ok {
			return diag.Internalf(diag.PhaseRun, "class %s missing from table", c.Name)
		}
		for _, m := range c.Methods {
			in.methods[methodKey{owner: h, name: m.Name}] = m
		}
	}
	in.depth = 0
	in.steps = 0

	result := in.Eval(prog, object.NewEnvironment())
	if errObj, ok := result.(*object.Error); ok {
		return diag.Errorf(diag.KindRuntime, diag.PhaseRun, errObj.Line, "%s", errObj.Message)
	}
	return nil
}

// Eval is the heart of the interpreter
// Statements give nil or an *object.Error; expressions give their value.
func (in *Interpreter) Eval(node ast.Node, env *object.Environment) object.Object {
	switch node := node.(type) {
	case *ast.Program:
		return in.Eval(node.Main, env)

	case *ast.BlockStatement:
		for _, stmt := range node.Statements {
			if res := in.Eval(stmt, env); isError(res) {
				return res
			}
		}
		return nil

	case *ast.IfStatement:
		if err := in.step(node); err != nil {
			return err
		}
		cond, errObj := in.evalBool(node.Condition, env)
		if errObj != nil {
			return errObj
		}
		if cond {
			return in.Eval(node.Consequence, env)
		}
		return in.Eval(node.Alternative, env)

	case *ast.WhileStatement:
		for {
			if err := in.step(node); err != nil {
				return err
			}
			cond, errObj := in.evalBool(node.Condition, env)
			if errObj != nil {
				return errObj
			}
			if !cond {
				return nil
			}
			if res := in.Eval(node.Body, env); isError(res) {
				return res
			}
		}

	case *ast.PrintStatement:
		if err := in.step(node); err != nil {
			return err
		}
		n, errObj := in.evalInt(node.Value, env)
		if errObj != nil {
			return errObj
		}
		if _, err := fmt.Fprintf(in.out, "%d\n", n); err != nil {
			return newError(node, "write failed: %v", err)
		}
		return nil

	case *ast.AssignStatement:
		if err := in.step(node); err != nil {
			return err
		}
		val := in.Eval(node.Value, env)
		if isError(val) {
			return val
		}
		if !env.Set(node.Name.Value, val) {
			return newError(node, "identifier not found: %s", node.Name.Value)
		}
		return nil

	case *ast.ArrayAssignStatement:
		if err := in.step(node); err != nil {
			return err
		}
		target, ok := env.Get(node.Name.Value)
		if !ok {
			return newError(node, "identifier not found: %s", node.Name.Value)
		}
		idx, errObj := in.evalInt(node.Index, env)
		if errObj != nil {
			return errObj
		}
		val, errObj := in.evalInt(node.Value, env)
		if errObj != nil {
			return errObj
		}
		arr, errObj := asArray(node, target)
		if errObj != nil {
			return errObj
		}
		if idx < 0 || idx >= int64(len(arr.Elements)) {
			return newError(node, "index %d out of range for length %d", idx, len(arr.Elements))
		}
		arr.Elements[idx] = val
		return nil

	case ast.Expression:
		return in.evalExpression(node, env)

	case nil:
		return newError(nil, "nil node")
	}
	return newError(node, "unexpected node %T", node)
}

func (in *Interpreter) step(node ast.Node) *object.Error {
	if in.opts.MaxSteps <= 0 {
		return nil
	}
	in.steps++
	if in.steps > in.opts.MaxSteps {
		return newError(node, "step limit of %d exceeded", in.opts.MaxSteps)
	}
	return nil
}

func newError(node ast.Node, format string, a ...interface{}) *object.Error {
	e := &object.Error{Message: fmt.Sprintf(format, a...)}
	if node != nil {
		e.Line = node.Line()
	}
	return e
}

func isError(obj object.Object) bool {
	if obj != nil {
		return obj.Type() == object.ERROR_OBJ
	}
	return false
}
