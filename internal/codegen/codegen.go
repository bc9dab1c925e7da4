package codegen

import (
	"fmt"
	"strings"

	"mjc/internal/ast"
	"mjc/internal/diag"
	"mjc/internal/layout"
	"mjc/internal/semantic"
	"mjc/internal/typesys"
)

// formatLabel names the "%ld\n" constant println passes to printf.
const formatLabel = ".Lfmt"

type methodKey struct {
	method string
	owner  typesys.Handle
}

// CodeGen holds the state for code generation
// It reads the class table, checker info and layouts; it never changes them.
type CodeGen struct {
	target  Target
	tb      *typesys.Table
	info    *semantic.Info
	layouts *layout.Layouts

	data       strings.Builder // descriptors and constants
	text       strings.Builder // routines
	labelCount int
	depth      int // words pushed since the frame was set up
	emitted    map[methodKey]bool
}

// New creates a code generator for a built, checked and laid out program
func New(target Target, tb *typesys.Table, info *semantic.Info, layouts *layout.Layouts) *CodeGen {
	if target == nil {
		target = AMD64SysV()
	}
	return &CodeGen{
		target:  target,
		tb:      tb,
		info:    info,
		layouts: layouts,
		emitted: make(map[methodKey]bool),
	}
}

// Generate produces one assembly buffer: the data section, then the text section
func (cg *CodeGen) Generate(program *ast.Program) (asm string, err error) {
	cg.reset()
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			asm, err = "", b.err
		}
	}()

	if program == nil {
		cg.fail(diag.Internalf(diag.PhaseCodegen, "nil program"))
	}
	if cg.layouts == nil {
		cg.fail(diag.Internalf(diag.PhaseCodegen, "no layouts"))
	}

	cg.emitData("# mjc, target %s", cg.target.Name())
	cg.emitData("    .section .rodata")
	cg.emitData("%s:", formatLabel)
	cg.emitData("    .string \"%%ld\\n\"")
	cg.emitData("")
	cg.emitData("    .data")
	for _, l := range cg.layouts.All() {
		cg.emitDescriptor(l)
	}

	cg.emit("    .text")
	for _, decl := range program.Classes {
		cg.generateClass(decl)
	}
	cg.generateMain(program.Main)

	var out strings.Builder
	out.WriteString(cg.data.String())
	out.WriteString("\n")
	out.WriteString(cg.text.String())
	out.WriteString("\n    .section .note.GNU-stack,\"\",@progbits\n")
	return out.String(), nil
}

func (cg *CodeGen) reset() {
	cg.data.Reset()
	cg.text.Reset()
	cg.labelCount = 0
	cg.depth = 0
	cg.emitted = make(map[methodKey]bool)
}

// emit adds a line of assembly to the text section
func (cg *CodeGen) emit(format string, args ...interface{}) {
	cg.text.WriteString(fmt.Sprintf(format, args...))
	cg.text.WriteString("\n")
}

// emitData adds a line to the data section
func (cg *CodeGen) emitData(format string, args ...interface{}) {
	cg.data.WriteString(fmt.Sprintf(format, args...))
	cg.data.WriteString("\n")
}

// newLabel generates a unique local label
func (cg *CodeGen) newLabel() string {
	label := fmt.Sprintf(".L%d", cg.labelCount)
	cg.labelCount++
	return label
}

// push saves the accumulator on the evaluation stack
func (cg *CodeGen) push() {
	cg.emit("    pushq %%rax")
	cg.depth++
}

// pop restores the top of the evaluation stack into reg
func (cg *CodeGen) pop(reg string) {
	cg.emit("    popq %s", reg)
	cg.depth--
}

// alignedCall pads the stack when the pushes since the frame was set up
// leave it off the target's call alignment.
func (cg *CodeGen) alignedCall(callee string) {
	word := cg.target.WordSize()
	pad := (cg.target.StackAlign() - (cg.depth*word)%cg.target.StackAlign()) % cg.target.StackAlign()
	if pad != 0 {
		cg.emit("    subq $%d, %%rsp", pad)
	}
	cg.emit("    call %s", callee)
	if pad != 0 {
		cg.emit("    addq $%d, %%rsp", pad)
	}
}

// typeOf returns the checker's type for e
func (cg *CodeGen) typeOf(e ast.Expression) typesys.Type {
	t, ok := cg.info.TypeOf(e)
	if !ok {
		cg.fail(diag.Internalf(diag.PhaseCodegen, "no type recorded for %s", e.String()))
	}
	return t
}

// layoutOf returns the layout of a class handle
func (cg *CodeGen) layoutOf(h typesys.Handle) *layout.ObjectLayout {
	l := cg.layouts.Of(h)
	if l == nil {
		cg.fail(diag.Internalf(diag.PhaseCodegen, "no layout for class handle %d", h))
	}
	return l
}

// descriptorLabel names the dispatch table of a class
func descriptorLabel(class string) string { return class + "$desc" }
