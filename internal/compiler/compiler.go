// Package compiler runs the phases in order: build, check, layout, codegen.
// The first failing phase stops the pipeline and no assembly is produced.
package compiler

import (
	"io"

	"mjc/internal/ast"
	"mjc/internal/codegen"
	"mjc/internal/diag"
	"mjc/internal/evaluator"
	"mjc/internal/layout"
	"mjc/internal/parser"
	"mjc/internal/semantic"
	"mjc/internal/typesys"
)

// Config selects how the program is compiled.
type Config struct {
	Target codegen.Target // nil means codegen.AMD64SysV()
}

// Result carries the assembly and what the phases computed on the way.
type Result struct {
	Program  *ast.Program
	Assembly string
	Table    *typesys.Table
	Info     *semantic.Info
	Layouts  *layout.Layouts
}

// Analyze runs every phase except code generation.
func Analyze(prog *ast.Program) (*Result, error) {
	if prog == nil {
		return nil, diag.Internalf(diag.PhaseBuild, "nil program")
	}
	tb, err := semantic.Build(prog)
	if err != nil {
		return nil, err
	}
	info, err := semantic.Check(prog, tb)
	if err != nil {
		return nil, err
	}
	ls, err := layout.Plan(tb)
	if err != nil {
		return nil, err
	}
	return &Result{Program: prog, Table: tb, Info: info, Layouts: ls}, nil
}

// Compile turns a parsed program into assembly.
func Compile(prog *ast.Program, cfg Config) (*Result, error) {
	res, err := Analyze(prog)
	if err != nil {
		return nil, err
	}
	target := cfg.Target
	if target == nil {
		target = codegen.AMD64SysV()
	}
	asm, err := codegen.New(target, res.Table, res.Info, res.Layouts).Generate(prog)
	if err != nil {
		return nil, err
	}
	res.Assembly = asm
	return res, nil
}

// AnalyzeSource parses src and runs Analyze.
func AnalyzeSource(src string) (*Result, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return Analyze(prog)
}

// CompileSource parses src and runs Compile.
func CompileSource(src string, cfg Config) (*Result, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return Compile(prog, cfg)
}

// Interpret runs an analyzed program with the reference interpreter,
// writing its println output to out.
func Interpret(res *Result, out io.Writer, opts evaluator.Options) error {
	if res == nil || res.Program == nil {
		return diag.Internalf(diag.PhaseRun, "nothing to run")
	}
	return evaluator.New(res.Table, res.Info, res.Layouts, out, opts).Run(res.Program)
}
