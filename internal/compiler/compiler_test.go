package compiler

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"mjc/internal/diag"
	"mjc/internal/evaluator"
)

func mainWith(stmt string) string {
	return "class Main { public static void main(String[] a) { " + stmt + " } }\n"
}

func wantPhase(t *testing.T, err error, kind diag.Kind, phase diag.Phase) {
	t.Helper()
	ce, ok := diag.As(err)
	be.True(t, ok)
	be.Equal(t, ce.Kind, kind)
	be.Equal(t, ce.Phase, phase)
}

func TestCompileSourceProducesAssembly(t *testing.T) {
	res, err := CompileSource(mainWith("System.out.println(2+3*4);"), Config{})
	be.Err(t, err, nil)
	be.True(t, strings.Contains(res.Assembly, "main:"))
	be.True(t, strings.Contains(res.Assembly, "call printf@PLT"))
	be.True(t, strings.HasSuffix(strings.TrimSpace(res.Assembly), `.section .note.GNU-stack,"",@progbits`))
	be.True(t, res.Table != nil)
	be.True(t, res.Info != nil)
	be.True(t, res.Layouts != nil)
}

func TestFirstFailingPhaseStopsThePipeline(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kind  diag.Kind
		phase diag.Phase
	}{
		{"parse", "class Main {", diag.KindSyntax, diag.PhaseParse},
		{"build", mainWith("System.out.println(1);") + "class A extends Missing { }", diag.KindSemantic, diag.PhaseBuild},
		{"check", mainWith("System.out.println(true);"), diag.KindSemantic, diag.PhaseCheck},
		{"codegen", mainWith("System.out.println(new A().f(1, 2, 3, 4, 5, 6));") +
			"class A { public int f(int a, int b, int c, int d, int e, int g) { return a; } }", diag.KindUnsupported, diag.PhaseCodegen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CompileSource(tt.src, Config{})
			be.True(t, res == nil)
			wantPhase(t, err, tt.kind, tt.phase)
		})
	}
}

func TestAnalyzeSkipsCodegen(t *testing.T) {
	// too many arguments is only a codegen limit
	src := mainWith("System.out.println(new A().f(1, 2, 3, 4, 5, 6));") +
		"class A { public int f(int a, int b, int c, int d, int e, int g) { return a + g; } }"
	res, err := AnalyzeSource(src)
	be.Err(t, err, nil)
	be.Equal(t, res.Assembly, "")

	var out strings.Builder
	be.Err(t, Interpret(res, &out, evaluator.Options{}), nil)
	be.Equal(t, out.String(), "7\n")
}

func TestAnalyzeNilProgram(t *testing.T) {
	_, err := Analyze(nil)
	be.True(t, diag.IsInternal(err))
	_, err = Compile(nil, Config{})
	be.True(t, diag.IsInternal(err))
	be.True(t, diag.IsInternal(Interpret(nil, nil, evaluator.Options{})))
}

func TestTableHoldsDeclaredClasses(t *testing.T) {
	src := mainWith("System.out.println(1);") + `
class C extends B { int c; public int f() { return 3; } }
class A { int a; int b; public int f() { return 1; } public int g() { return 2; } }
class B extends A { int b; public int h() { return 4; } }`
	res, err := AnalyzeSource(src)
	be.Err(t, err, nil)
	be.Equal(t, res.Table.Len(), 3)
	be.Equal(t, len(res.Table.Pending()), 0)

	// field slots are the declared fields summed over the chain
	c, _ := res.Table.Lookup("C")
	l := res.Layouts.Of(c)
	be.Equal(t, len(l.Fields), 4)
	// vtable slots are the distinct method names over the chain
	be.Equal(t, len(l.VTable), 3)

	a, _ := res.Table.Lookup("A")
	slotA, _ := res.Layouts.Of(a).MethodSlot("f")
	slotC, _ := l.MethodSlot("f")
	be.Equal(t, slotA, slotC)
	be.Equal(t, l.VTable[slotC].Label(), "C.f")
}

func TestInterpretPrintsPrecedence(t *testing.T) {
	res, err := CompileSource(mainWith("System.out.println(2+3*4);"), Config{})
	be.Err(t, err, nil)
	var out strings.Builder
	be.Err(t, Interpret(res, &out, evaluator.Options{}), nil)
	be.Equal(t, out.String(), "14\n")
}
