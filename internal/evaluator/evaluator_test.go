package evaluator

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"mjc/internal/diag"
	"mjc/internal/layout"
	"mjc/internal/parser"
	"mjc/internal/semantic"
)

func mainWith(stmt string) string {
	return "class Main { public static void main(String[] a) { " + stmt + " } }\n"
}

func testRun(t *testing.T, src string, opts Options) (string, error) {
	t.Helper()
	prog, err := parser.Parse(src)
	be.Err(t, err, nil)
	tb, err := semantic.Build(prog)
	be.Err(t, err, nil)
	info, err := semantic.Check(prog, tb)
	be.Err(t, err, nil)
	ls, err := layout.Plan(tb)
	be.Err(t, err, nil)

	var out strings.Builder
	err = New(tb, info, ls, &out, opts).Run(prog)
	return out.String(), err
}

func wantOutput(t *testing.T, src, want string) {
	t.Helper()
	got, err := testRun(t, src, Options{})
	be.Err(t, err, nil)
	be.Equal(t, got, want)
}

func wantRuntimeError(t *testing.T, src, msg string) {
	t.Helper()
	_, err := testRun(t, src, Options{MaxSteps: 100000})
	ce, ok := diag.As(err)
	be.True(t, ok)
	be.Equal(t, ce.Kind, diag.KindRuntime)
	be.Equal(t, ce.Phase, diag.PhaseRun)
	be.True(t, strings.Contains(ce.Message, msg))
}

func TestIntegerArithmetic(t *testing.T) {
	tests := []struct {
		expr     string
		expected string
	}{
		{"5", "5"},
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"10 - 3 - 2", "5"},
		{"0 - 7", "-7"},
		{"9223372036854775807 + 1", "-9223372036854775808"},
	}
	for _, tt := range tests {
		wantOutput(t, mainWith("System.out.println("+tt.expr+");"), tt.expected+"\n")
	}
}

func TestBooleanControlFlow(t *testing.T) {
	tests := []struct {
		cond     string
		expected string
	}{
		{"true", "1"},
		{"false", "0"},
		{"1 < 2", "1"},
		{"2 < 1", "0"},
		{"!!true", "1"},
		{"true && false", "0"},
		{"!(1 < 2) && true", "0"},
	}
	for _, tt := range tests {
		stmt := "if (" + tt.cond + ") System.out.println(1); else System.out.println(0);"
		wantOutput(t, mainWith(stmt), tt.expected+"\n")
	}
}

func TestShortCircuitSkipsRightOperand(t *testing.T) {
	src := mainWith("if (false && new A().boom()) System.out.println(1); else System.out.println(0);") +
		"class A { int[] a; public boolean boom() { System.out.println(a.length); return true; } }"
	wantOutput(t, src, "0\n")
}

func TestWhileLoop(t *testing.T) {
	src := mainWith("System.out.println(new Counter().run(4));") + `
class Counter {
	public int run(int n) {
		int i;
		int sum;
		i = 0;
		sum = 0;
		while (i < n) {
			System.out.println(i);
			sum = sum + i;
			i = i + 1;
		}
		return sum;
	}
}`
	wantOutput(t, src, "0\n1\n2\n3\n6\n")
}

func TestArrays(t *testing.T) {
	src := mainWith("System.out.println(new Arr().run());") + `
class Arr {
	int[] data;
	public int run() {
		int i;
		data = new int[5];
		System.out.println(data.length);
		System.out.println(data[4]);
		i = 0;
		while (i < data.length) {
			data[i] = i * i;
			i = i + 1;
		}
		return data[3] + data[4];
	}
}`
	wantOutput(t, src, "5\n0\n25\n")
}

func TestFieldsStartZeroed(t *testing.T) {
	src := mainWith("System.out.println(new P().get());") + `
class P {
	int n;
	boolean b;
	public int get() {
		int r;
		if (b) r = 1; else r = n + 2;
		return r;
	}
}`
	wantOutput(t, src, "2\n")
}

func TestDynamicDispatch(t *testing.T) {
	src := mainWith("System.out.println(new Zoo().run());") + `
class Animal {
	public int sound() { return 1; }
	public int twice() { return this.sound() + this.sound(); }
}
class Dog extends Animal {
	public int sound() { return 7; }
}
class Zoo {
	public int run() {
		Animal a;
		a = new Animal();
		System.out.println(a.twice());
		a = new Dog();
		return a.twice();
	}
}`
	wantOutput(t, src, "2\n14\n")
}

func TestShadowedFieldBindsPerDeclaringClass(t *testing.T) {
	src := mainWith("System.out.println(new B().run());") + `
class A {
	int x;
	public int setA(int v) { x = v; return x; }
	public int getA() { return x; }
}
class B extends A {
	int x;
	public int run() {
		int t;
		t = this.setA(5);
		x = 9;
		System.out.println(this.getA());
		return x;
	}
}`
	wantOutput(t, src, "5\n9\n")
}

func TestFieldAccessUsesStaticType(t *testing.T) {
	src := mainWith("System.out.println(new R().run());") + `
class A { int x; public int init() { x = 3; return 0; } }
class B extends A { int x; public int initB() { x = 4; return 0; } }
class R {
	public int run() {
		B b;
		A a;
		int t;
		b = new B();
		t = b.init();
		t = b.initB();
		a = b;
		return a.x * 10 + b.x;
	}
}`
	wantOutput(t, src, "34\n")
}

func TestRecursion(t *testing.T) {
	src := mainWith("System.out.println(new Fac().f(10));") + `
class Fac {
	public int f(int n) {
		int r;
		if (n < 1) r = 1; else r = n * this.f(n - 1);
		return r;
	}
}`
	wantOutput(t, src, "3628800\n")
}

func TestArgumentsEvaluateLeftToRight(t *testing.T) {
	src := mainWith("System.out.println(new T().sub(new T().p(1), new T().p(2)));") + `
class T {
	public int p(int v) { System.out.println(v); return v; }
	public int sub(int a, int b) { return a - b; }
}`
	wantOutput(t, src, "1\n2\n-1\n")
}

func TestRuntimeErrors(t *testing.T) {
	holder := `
class H {
	int[] a;
	H h;
	public int nullArray() { return a.length; }
	public int nullCall() { return h.nullArray(); }
	public int outOfRange() { a = new int[2]; return a[2]; }
	public int negative() { a = new int[0 - 1]; return 0; }
	public int storeOut() { a = new int[1]; a[0 - 1] = 4; return 0; }
	public int forever(int n) { return this.forever(n + 1); }
}`
	wantRuntimeError(t, mainWith("System.out.println(new H().nullArray());")+holder, "null array")
	wantRuntimeError(t, mainWith("System.out.println(new H().nullCall());")+holder, "null receiver")
	wantRuntimeError(t, mainWith("System.out.println(new H().outOfRange());")+holder, "index 2 out of range for length 2")
	wantRuntimeError(t, mainWith("System.out.println(new H().negative());")+holder, "negative array size -1")
	wantRuntimeError(t, mainWith("System.out.println(new H().storeOut());")+holder, "index -1 out of range")
	wantRuntimeError(t, mainWith("System.out.println(new H().forever(0));")+holder, "call depth")
}

func TestRuntimeErrorCarriesLine(t *testing.T) {
	src := mainWith("System.out.println(new int[1][3]);")
	_, err := testRun(t, src, Options{})
	ce, ok := diag.As(err)
	be.True(t, ok)
	be.Equal(t, ce.Line, 1)
}

func TestStepLimitStopsInfiniteLoop(t *testing.T) {
	_, err := testRun(t, mainWith("while (true) { }"), Options{MaxSteps: 50})
	ce, ok := diag.As(err)
	be.True(t, ok)
	be.True(t, strings.Contains(ce.Message, "step limit of 50 exceeded"))
}

func TestOutputBeforeFaultIsKept(t *testing.T) {
	src := mainWith("{ System.out.println(1); System.out.println(new int[0][0]); }")
	out, err := testRun(t, src, Options{})
	be.Equal(t, out, "1\n")
	_, ok := diag.As(err)
	be.True(t, ok)
}

func TestRunNilProgram(t *testing.T) {
	var out strings.Builder
	err := New(nil, nil, nil, &out, Options{}).Run(nil)
	be.True(t, diag.IsInternal(err))
}

func TestOversizedArrayIsRuntimeError(t *testing.T) {
	wantRuntimeError(t, mainWith("System.out.println(new int[9223372036854775806].length);"),
		"array size 9223372036854775806 exceeds limit 16777216")
	wantRuntimeError(t, mainWith("System.out.println(new int[1099511627776].length);"),
		"exceeds limit")

	_, err := testRun(t, mainWith("System.out.println(new int[9].length);"), Options{MaxArrayLen: 8})
	ce, ok := diag.As(err)
	be.True(t, ok)
	be.True(t, strings.Contains(ce.Message, "array size 9 exceeds limit 8"))

	out, err := testRun(t, mainWith("System.out.println(new int[8].length);"), Options{MaxArrayLen: 8})
	be.Err(t, err, nil)
	be.Equal(t, out, "8\n")
}
