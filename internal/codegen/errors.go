package codegen

import (
	"fmt"

	"mjc/internal/ast"
	"mjc/internal/diag"
)

// bailout carries the first error out of the emitters to Generate
type bailout struct{ err *diag.CodeError }

func (cg *CodeGen) fail(err *diag.CodeError) {
	panic(bailout{err: err})
}

// failNodef reports a construct the target cannot express
func (cg *CodeGen) failNodef(node ast.Node, format string, args ...interface{}) {
	line := 0
	if node != nil {
		line = node.Line()
	}
	cg.fail(diag.Errorf(diag.KindUnsupported, diag.PhaseCodegen, line, format, args...))
}

// internalf reports a broken invariant at node
func (cg *CodeGen) internalf(node ast.Node, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if node != nil {
		msg = fmt.Sprintf("%s (at `%s`)", msg, node.String())
	}
	cg.fail(diag.Internalf(diag.PhaseCodegen, "%s", msg))
}
