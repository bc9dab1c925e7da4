package semantic

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"mjc/internal/ast"
	"mjc/internal/diag"
	"mjc/internal/parser"
	"mjc/internal/typesys"
)

const mainPrint = "class Main { public static void main(String[] a) { System.out.println(1); } }\n"

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog
}

func buildAndCheck(t *testing.T, src string) (*typesys.Table, *Info, error) {
	t.Helper()
	prog := parse(t, src)
	tb, err := Build(prog)
	if err != nil {
		return nil, nil, err
	}
	info, err := Check(prog, tb)
	return tb, info, err
}

func wantError(t *testing.T, err error, phase diag.Phase, line int, msg string) {
	t.Helper()
	ce, ok := diag.As(err)
	if !ok {
		t.Fatalf("expected *diag.CodeError, got=%v", err)
	}
	be.Equal(t, ce.Phase, phase)
	be.Equal(t, ce.Kind, diag.KindSemantic)
	be.Equal(t, ce.Line, line)
	if !strings.Contains(ce.Message, msg) {
		t.Fatalf("message %q does not contain %q", ce.Message, msg)
	}
}

func TestBuildResolvesForwardReferences(t *testing.T) {
	src := mainPrint + `class A extends B { C c; public C get() { return c; } }
class B { int x; }
class C extends B { }`
	tb, err := Build(parse(t, src))
	be.Err(t, err, nil)
	be.Equal(t, tb.Len(), 3)
	be.Equal(t, len(tb.Pending()), 0)

	a, _ := tb.Lookup("A")
	b, _ := tb.Lookup("B")
	c, _ := tb.Lookup("C")
	be.Equal(t, tb.Record(a).Parent, b)
	be.Equal(t, tb.Record(a).Fields[0].Type, typesys.ClassType(c))
	be.Equal(t, tb.Record(b).Line, 3)
	be.True(t, tb.IsSubclass(c, b))
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		msg  string
	}{
		{"undeclared", "class A { Missing m; }\nclass B { public Missing f() { return m; } }", 2, "Missing is used but never declared"},
		{"declared twice", "class A { }\nclass A { }", 3, "declared twice"},
		{"main name", "class Main { }", 2, "same name as the main class"},
		{"cycle", "class A extends B { }\nclass B extends A { }", 2, "inherits from itself"},
		{"self parent", "class A extends A { }", 2, "inherits from itself"},
		{"override return", "class A { public int f() { return 1; } }\nclass B extends A { public boolean f() { return true; } }", 3, "returns boolean but overrides A.f returning int"},
		{"override args", "class A { public int f(int x) { return 1; } }\nclass B extends A { public int f(boolean x) { return 1; } }", 3, "does not match the arguments"},
		{"override arity", "class A { public int f(int x) { return 1; } }\nclass B extends A { public int f() { return 1; } }", 3, "does not match the arguments"},
		{"override forward parent", "class B extends A { public int f() { return 1; } }\nclass A { public int[] f() { return new int[1]; } }", 2, "overrides A.f"},
		{"override grandparent", "class A { public int f() { return 1; } }\nclass B extends A { }\nclass C extends B { public boolean f() { return true; } }", 4, "overrides A.f"},
		{"local repeats param", "class A { public int f(int x) { int x; return 1; } }", 2, "variable x declared twice"},
		{"local repeats local", "class A { public int f() { int y; boolean y; return 1; } }", 2, "variable y declared twice"},
		{"duplicate method", "class A { public int f() { return 1; } public int f() { return 2; } }", 2, "method f declared twice"},
		{"duplicate field", "class A { int x; boolean x; }", 2, "field x declared twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(parse(t, mainPrint+tt.src))
			wantError(t, err, diag.PhaseBuild, tt.line, tt.msg)
		})
	}
}

func TestCheckRecordsTypes(t *testing.T) {
	src := `class Main { public static void main(String[] a) { System.out.println(new Fac().go(3)); } }
class Fac {
	int[] memo;
	public int go(int n) {
		boolean small;
		small = n < 2 && !false;
		memo = new int[n + 1];
		memo[0] = memo.length;
		return this.go(n - 1) * n;
	}
}`
	prog := parse(t, src)
	tb, err := Build(prog)
	be.Err(t, err, nil)
	info, err := Check(prog, tb)
	be.Err(t, err, nil)

	call := prog.Main.(*ast.PrintStatement).Value.(*ast.MethodCallExpression)
	got, ok := info.TypeOf(call)
	be.True(t, ok)
	be.True(t, got.Equal(typesys.IntType))

	fac, _ := tb.Lookup("Fac")
	recv, ok := info.TypeOf(call.Object)
	be.True(t, ok)
	be.Equal(t, recv, typesys.ClassType(fac))

	method := prog.Classes[0].Methods[0]
	assign := method.Body[0].(*ast.AssignStatement)
	cond, _ := info.TypeOf(assign.Value)
	be.True(t, cond.Equal(typesys.BooleanType))
	length := method.Body[2].(*ast.ArrayAssignStatement).Value
	lt, _ := info.TypeOf(length)
	be.True(t, lt.Equal(typesys.IntType))
}

func TestSubclassArgumentsAndAssignment(t *testing.T) {
	src := mainPrint + `class A { public int id(A x) { return 1; } }
class B extends A {
	A slot;
	public int use() {
		B b;
		b = new B();
		slot = b;
		return this.id(b);
	}
}`
	_, _, err := buildAndCheck(t, src)
	be.Err(t, err, nil)
}

func TestCheckErrors(t *testing.T) {
	classes := `
class A {
	int n;
	public int f(int x, boolean y) { return x; }
	public A self() { return this; }
}
class B extends A { }
`
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"this in main", "System.out.println(this.f(1, true));", "this cannot be used in main"},
		{"println boolean", "System.out.println(true);", "println argument must be int, got boolean"},
		{"if condition", "if (1) { } else { }", "if condition must be boolean"},
		{"while condition", "while (new A()) { }", "while condition must be boolean"},
		{"too few args", "System.out.println(new A().f(1));", "expects 2 arguments, got 1"},
		{"too many args bad types", "System.out.println(new A().f(true, 1, 3));", "expects 2 arguments, got 3"},
		{"bad argument type", "System.out.println(new A().f(1, 2));", "argument 2 of f must be boolean, got int"},
		{"unknown method", "System.out.println(new A().g());", "method g not defined in class A"},
		{"call on int", "System.out.println(1.f());", "int is not an object"},
		{"unknown class", "System.out.println(new Z().f(1, true));", "class Z is not declared"},
		{"undefined variable", "System.out.println(x);", "variable x is not defined"},
		{"plus boolean", "System.out.println(1 + true);", "operand of + must be int"},
		{"and int", "if (1 && true) { } else { }", "operand of && must be boolean"},
		{"not int", "if (!1) { } else { }", "operand of ! must be boolean"},
		{"index non array", "System.out.println(new A().f(1, true)[0]);", "indexed value must be int[]"},
		{"length non array", "System.out.println(new A().length);", "receiver of length must be int[]"},
		{"array size boolean", "System.out.println(new int[true].length);", "array size must be int"},
		{"missing field", "System.out.println(new B().m);", "class B has no field m"},
		{"field of int", "System.out.println(new A().f(1, true).n);", "int is not an object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "class Main { public static void main(String[] a) { " + tt.body + " } }" + classes
			_, _, err := buildAndCheck(t, src)
			wantError(t, err, diag.PhaseCheck, 1, tt.msg)
		})
	}
}

func TestMethodBodyErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		msg    string
	}{
		{"return mismatch", "public int f() { return true; }", "method f must return int, got boolean"},
		{"return subclass is not exact", "public A f() { return new B(); }", "method f must return A, got B"},
		{"assign superclass to subclass", "public int f() { B b; b = new A(); return 1; }", "cannot assign A to b of type B"},
		{"assign int to boolean", "public int f() { boolean b; b = 1; return 1; }", "cannot assign int to b of type boolean"},
		{"array store into int", "public int f() { int x; x[0] = 1; return 1; }", "array store target must be int[]"},
		{"array store boolean value", "public int f() { int[] x; x = new int[1]; x[0] = true; return 1; }", "array element must be int"},
		{"array store boolean index", "public int f() { int[] x; x = new int[1]; x[false] = 1; return 1; }", "array index must be int"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := mainPrint + "class A { " + tt.method + " }\nclass B extends A { }"
			_, _, err := buildAndCheck(t, src)
			wantError(t, err, diag.PhaseCheck, 2, tt.msg)
		})
	}
}

func TestFieldsResolveSelfFirst(t *testing.T) {
	src := mainPrint + `class A { int v; }
class B extends A { boolean v; public boolean get() { return v; } }`
	_, _, err := buildAndCheck(t, src)
	be.Err(t, err, nil)
}

func TestCheckExpressionInIsolation(t *testing.T) {
	tb := typesys.NewTable()
	h, _ := tb.Declare("A", 1)
	sig := &typesys.MethodSig{Return: typesys.IntType, Params: []typesys.Field{{Name: "n", Type: typesys.IntType}}}
	tb.Record(h).SetMembers([]typesys.Field{{Name: "flag", Type: typesys.BooleanType}}, []typesys.MethodEntry{{Name: "f", Sig: sig}})

	c := NewChecker(tb)
	ctx := Context{Class: h, Method: sig}
	n := &ast.Identifier{Value: "n"}
	got, err := c.CheckExpression(ctx, n)
	be.Err(t, err, nil)
	be.True(t, got.Equal(typesys.IntType))

	flag := &ast.Identifier{Value: "flag"}
	got, err = c.CheckExpression(ctx, flag)
	be.Err(t, err, nil)
	be.True(t, got.Equal(typesys.BooleanType))

	_, err = c.CheckExpression(MainContext, flag)
	be.True(t, err != nil)
	be.Equal(t, len(c.Info().Types), 2)
}
