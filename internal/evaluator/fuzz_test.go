package evaluator

import (
	"io"
	"testing"

	"mjc/internal/layout"
	"mjc/internal/parser"
	"mjc/internal/semantic"
)

// FuzzEvaluatorNoPanic ensures evaluation never panics for checked programs.
func FuzzEvaluatorNoPanic(f *testing.F) {
	seeds := []string{
		"",
		mainWith("System.out.println(1);"),
		mainWith("System.out.println(2 + 3 * 4 - 1);"),
		mainWith("while (true) { }"),
		mainWith("System.out.println(new int[0 - 3].length);"),
		mainWith("System.out.println(new int[9223372036854775806].length);"),
		mainWith("System.out.println(new int[1099511627776].length);"),
		mainWith("System.out.println(new A().f(1));") + "class A { int x; public int f(int n) { x = n; return x; } }",
		mainWith("System.out.println(new A().f(1));") + "class A { A a; public int f(int n) { return a.f(n); } }",
		mainWith("System.out.println(new B().g());") + "class A { public int g() { return 1; } } class B extends A { public int g() { return 2; } }",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("evaluator panicked for input %q: %v", input, r)
			}
		}()

		prog, err := parser.Parse(input)
		if err != nil {
			return
		}
		tb, err := semantic.Build(prog)
		if err != nil {
			return
		}
		info, err := semantic.Check(prog, tb)
		if err != nil {
			return
		}
		ls, err := layout.Plan(tb)
		if err != nil {
			return
		}
		_ = New(tb, info, ls, io.Discard, Options{MaxDepth: 200, MaxSteps: 10000}).Run(prog)
	})
}
