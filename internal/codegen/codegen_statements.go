package codegen

import (
	"mjc/internal/ast"
)

func (cg *CodeGen) generateStatement(f *frame, stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		for _, st := range s.Statements {
			cg.generateStatement(f, st)
		}

	case *ast.IfStatement:
		elseLabel := cg.newLabel()
		endLabel := cg.newLabel()
		cg.generateExpression(f, s.Condition)
		cg.emit("    testq %%rax, %%rax")
		cg.emit("    jz %s", elseLabel)
		cg.generateStatement(f, s.Consequence)
		cg.emit("    jmp %s", endLabel)
		cg.emit("%s:", elseLabel)
		cg.generateStatement(f, s.Alternative)
		cg.emit("%s:", endLabel)

	case *ast.WhileStatement:
		testLabel := cg.newLabel()
		endLabel := cg.newLabel()
		cg.emit("%s:", testLabel)
		cg.generateExpression(f, s.Condition)
		cg.emit("    testq %%rax, %%rax")
		cg.emit("    jz %s", endLabel)
		cg.generateStatement(f, s.Body)
		cg.emit("    jmp %s", testLabel)
		cg.emit("%s:", endLabel)

	case *ast.PrintStatement:
		cg.generateExpression(f, s.Value)
		cg.emit("    movq %%rax, %%rsi")
		cg.emit("    leaq %s(%%rip), %%rdi", formatLabel)
		cg.emit("    movq $0, %%rax") // no vector registers for the variadic call
		cg.alignedCall(cg.target.External("printf"))

	case *ast.AssignStatement:
		cg.generateExpression(f, s.Value)
		cg.storeVariable(f, s.Name)

	case *ast.ArrayAssignStatement:
		cg.loadVariable(f, s.Name)
		cg.push()
		cg.generateExpression(f, s.Index)
		cg.push()
		cg.generateExpression(f, s.Value)
		cg.pop("%rcx")
		cg.pop("%rdx")
		cg.emit("    movq %%rax, %d(%%rdx,%%rcx,%d)", cg.target.WordSize(), cg.target.WordSize())

	default:
		cg.internalf(stmt, "unexpected statement %T", stmt)
	}
}
