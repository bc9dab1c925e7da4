package codegen

import (
	"mjc/internal/ast"
	"mjc/internal/diag"
	"mjc/internal/layout"
	"mjc/internal/semantic"
	"mjc/internal/typesys"
)

// frame is the routine being emitted. For main, ctx is semantic.MainContext
// and layout is nil.
type frame struct {
	ctx    semantic.Context
	layout *layout.ObjectLayout
	words  int // reserved below %rbp, always a multiple of the call alignment
}

// Slot offsets relative to %rbp: the receiver, then the parameters, then the locals.
func (cg *CodeGen) thisOffset() int { return -cg.target.WordSize() }

func (cg *CodeGen) paramOffset(i int) int { return -cg.target.WordSize() * (2 + i) }

func (cg *CodeGen) localOffset(f *frame, j int) int {
	return -cg.target.WordSize() * (2 + len(f.ctx.Method.Params) + j)
}

// generateClass emits every method body the class declares. Descriptors are
// emitted for all layouts up front.
func (cg *CodeGen) generateClass(decl *ast.ClassDecl) {
	h, ok := cg.tb.Lookup(decl.Name)
	if !ok {
		cg.internalf(decl, "class %s missing from table", decl.Name)
	}
	l := cg.layoutOf(h)

	rec := cg.tb.Record(h)
	for _, m := range decl.Methods {
		entry, ok := rec.Method(m.Name)
		if !ok {
			cg.internalf(m, "method %s.%s missing from table", decl.Name, m.Name)
		}
		key := methodKey{method: m.Name, owner: h}
		if cg.emitted[key] {
			continue
		}
		cg.emitted[key] = true
		cg.generateMethod(&frame{ctx: semantic.Context{Class: h, Method: entry.Sig}, layout: l}, decl.Name, m)
	}
}

// emitDescriptor writes Class$desc: the parent's descriptor (or 0), then one
// entry point per vtable slot
func (cg *CodeGen) emitDescriptor(l *layout.ObjectLayout) {
	cg.emitData("    .p2align 3")
	cg.emitData("%s:", descriptorLabel(l.Name))
	if l.Parent == typesys.NoHandle {
		cg.emitData("    .quad 0")
	} else {
		cg.emitData("    .quad %s", descriptorLabel(cg.tb.Record(l.Parent).Name))
	}
	for _, e := range l.VTable {
		cg.emitData("    .quad %s", e.Label())
	}
}

func (cg *CodeGen) generateMethod(f *frame, class string, m *ast.MethodDecl) {
	sig := f.ctx.Method
	if len(sig.Params) > maxExplicitArgs(cg.target) {
		cg.failNodef(m, "method %s.%s takes %d arguments, at most %d are supported",
			class, m.Name, len(sig.Params), maxExplicitArgs(cg.target))
	}

	label := class + "." + m.Name
	cg.emit("")
	cg.emit("    .type %s, @function", label)
	cg.emit("%s:", label)
	cg.prologue(f, 2+len(sig.Params)+len(sig.Locals))

	regs := cg.target.ArgRegisters()
	cg.emit("    movq %s, %d(%%rbp)", regs[0], cg.thisOffset())
	for i := range sig.Params {
		cg.emit("    movq %s, %d(%%rbp)", regs[i+1], cg.paramOffset(i))
	}
	for j := range sig.Locals {
		cg.emit("    movq $0, %d(%%rbp)", cg.localOffset(f, j))
	}

	for _, st := range m.Body {
		cg.generateStatement(f, st)
	}
	cg.generateExpression(f, m.Return)
	cg.epilogue()
}

// generateMain emits the entry routine; it runs the main statement and returns 0
func (cg *CodeGen) generateMain(stmt ast.Statement) {
	f := &frame{ctx: semantic.MainContext}
	cg.emit("")
	cg.emit("    .globl main")
	cg.emit("    .type main, @function")
	cg.emit("main:")
	cg.prologue(f, 2)
	if stmt != nil {
		cg.generateStatement(f, stmt)
	}
	cg.emit("    movq $0, %%rax")
	cg.epilogue()
}

// prologue saves the frame pointer and reserves words, rounded up so the
// stack stays aligned for calls
func (cg *CodeGen) prologue(f *frame, words int) {
	perAlign := cg.target.StackAlign() / cg.target.WordSize()
	if rem := words % perAlign; rem != 0 {
		words += perAlign - rem
	}
	f.words = words
	cg.depth = 0
	cg.emit("    pushq %%rbp")
	cg.emit("    movq %%rsp, %%rbp")
	cg.emit("    subq $%d, %%rsp", words*cg.target.WordSize())
}

func (cg *CodeGen) epilogue() {
	if cg.depth != 0 {
		cg.fail(diag.Internalf(diag.PhaseCodegen, "unbalanced evaluation stack (%d words)", cg.depth))
	}
	cg.emit("    movq %%rbp, %%rsp")
	cg.emit("    popq %%rbp")
	cg.emit("    ret")
}
