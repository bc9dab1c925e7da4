package codegen

import (
	"fmt"
	"math"

	"mjc/internal/ast"
)

// generateExpression leaves the value of e in %rax. Booleans are 0 or -1.
func (cg *CodeGen) generateExpression(f *frame, e ast.Expression) {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		if n.Value > math.MaxInt32 || n.Value < math.MinInt32 {
			cg.emit("    movabsq $%d, %%rax", n.Value)
		} else {
			cg.emit("    movq $%d, %%rax", n.Value)
		}

	case *ast.Boolean:
		if n.Value {
			cg.emit("    movq $-1, %%rax")
		} else {
			cg.emit("    movq $0, %%rax")
		}

	case *ast.ThisExpression:
		if f.layout == nil {
			cg.internalf(n, "this outside a class")
		}
		cg.emit("    movq %d(%%rbp), %%rax", cg.thisOffset())

	case *ast.Identifier:
		cg.loadVariable(f, n)

	case *ast.PrefixExpression:
		cg.generateExpression(f, n.Right)
		cg.emit("    notq %%rax")

	case *ast.InfixExpression:
		cg.generateInfix(f, n)

	case *ast.IndexExpression:
		cg.generateExpression(f, n.Left)
		cg.push()
		cg.generateExpression(f, n.Index)
		cg.pop("%rdx")
		cg.emit("    movq %d(%%rdx,%%rax,%d), %%rax", cg.target.WordSize(), cg.target.WordSize())

	case *ast.LengthExpression:
		cg.generateExpression(f, n.Array)
		cg.emit("    movq (%%rax), %%rax")

	case *ast.FieldAccessExpression:
		recv := cg.typeOf(n.Object)
		slot, ok := cg.layoutOf(recv.Class).FieldSlot(n.Field.Value)
		if !ok {
			cg.internalf(n, "no field %s", n.Field.Value)
		}
		cg.generateExpression(f, n.Object)
		cg.emit("    movq %d(%%rax), %%rax", cg.fieldOffset(slot))

	case *ast.MethodCallExpression:
		cg.generateCall(f, n)

	case *ast.NewObjectExpression:
		h, ok := cg.tb.Lookup(n.Class)
		if !ok {
			cg.internalf(n, "class %s missing from table", n.Class)
		}
		l := cg.layoutOf(h)
		cg.emit("    movq $%d, %%rdi", l.WordCount())
		cg.emit("    movq $%d, %%rsi", cg.target.WordSize())
		cg.alignedCall(cg.target.External("calloc"))
		cg.emit("    leaq %s(%%rip), %%rcx", descriptorLabel(l.Name))
		cg.emit("    movq %%rcx, (%%rax)")

	case *ast.NewArrayExpression:
		cg.generateExpression(f, n.Size)
		cg.push()
		cg.emit("    leaq 1(%%rax), %%rdi")
		cg.emit("    movq $%d, %%rsi", cg.target.WordSize())
		cg.alignedCall(cg.target.External("calloc"))
		cg.pop("%rdx")
		cg.emit("    movq %%rdx, (%%rax)")

	default:
		cg.internalf(e, "unexpected expression %T", e)
	}
}

func (cg *CodeGen) generateInfix(f *frame, n *ast.InfixExpression) {
	switch n.Operator {
	case "&&":
		end := cg.newLabel()
		cg.generateExpression(f, n.Left)
		cg.emit("    testq %%rax, %%rax")
		cg.emit("    jz %s", end)
		cg.generateExpression(f, n.Right)
		cg.emit("%s:", end)
		return
	case "-":
		// right first so the left operand ends up in %rax
		cg.generateExpression(f, n.Right)
		cg.push()
		cg.generateExpression(f, n.Left)
		cg.pop("%rcx")
		cg.emit("    subq %%rcx, %%rax")
		return
	}

	cg.generateExpression(f, n.Left)
	cg.push()
	cg.generateExpression(f, n.Right)
	cg.pop("%rcx")
	switch n.Operator {
	case "+":
		cg.emit("    addq %%rcx, %%rax")
	case "*":
		cg.emit("    imulq %%rcx, %%rax")
	case "<":
		cg.emit("    cmpq %%rax, %%rcx")
		cg.emit("    setl %%al")
		cg.emit("    movzbq %%al, %%rax")
		cg.emit("    negq %%rax")
	default:
		cg.internalf(n, "unknown operator %q", n.Operator)
	}
}

// generateCall dispatches through the receiver's descriptor. The slot index
// comes from the static receiver class; subclasses keep it.
func (cg *CodeGen) generateCall(f *frame, n *ast.MethodCallExpression) {
	if len(n.Arguments) > maxExplicitArgs(cg.target) {
		cg.failNodef(n, "call to %s passes %d arguments, at most %d are supported",
			n.Method.Value, len(n.Arguments), maxExplicitArgs(cg.target))
	}
	recv := cg.typeOf(n.Object)
	slot, ok := cg.layoutOf(recv.Class).MethodSlot(n.Method.Value)
	if !ok {
		cg.internalf(n, "no vtable slot for %s", n.Method.Value)
	}

	cg.generateExpression(f, n.Object)
	cg.push()
	cg.emit("    movq (%%rax), %%rax")
	cg.emit("    movq %d(%%rax), %%rax", (slot+1)*cg.target.WordSize())
	cg.push()
	for _, arg := range n.Arguments {
		cg.generateExpression(f, arg)
		cg.push()
	}

	regs := cg.target.ArgRegisters()
	for i := len(n.Arguments) - 1; i >= 0; i-- {
		cg.pop(regs[i+1])
	}
	cg.pop(cg.target.CallRegister())
	cg.pop(regs[0])
	cg.alignedCall("*" + cg.target.CallRegister())
}

// fieldOffset is the byte offset of a field slot; word 0 is the descriptor
func (cg *CodeGen) fieldOffset(slot int) int { return (slot + 1) * cg.target.WordSize() }

// variableOperand resolves a bare name in the order parameter, local, field
// and returns its memory operand. A field leaves the receiver in %rdx.
func (cg *CodeGen) variableOperand(f *frame, id *ast.Identifier) string {
	if sig := f.ctx.Method; sig != nil {
		if i := sig.Param(id.Value); i >= 0 {
			return fmt.Sprintf("%d(%%rbp)", cg.paramOffset(i))
		}
		if j := sig.Local(id.Value); j >= 0 {
			return fmt.Sprintf("%d(%%rbp)", cg.localOffset(f, j))
		}
	}
	if f.layout != nil {
		if slot, ok := f.layout.FieldSlot(id.Value); ok {
			cg.emit("    movq %d(%%rbp), %%rdx", cg.thisOffset())
			return fmt.Sprintf("%d(%%rdx)", cg.fieldOffset(slot))
		}
	}
	cg.internalf(id, "unresolved variable %s", id.Value)
	return ""
}

func (cg *CodeGen) loadVariable(f *frame, id *ast.Identifier) {
	cg.emit("    movq %s, %%rax", cg.variableOperand(f, id))
}

func (cg *CodeGen) storeVariable(f *frame, id *ast.Identifier) {
	cg.emit("    movq %%rax, %s", cg.variableOperand(f, id))
}
