package ast

import (
	"bytes"
	"strings"

	"mjc/internal/token"
)

// Node is the base interface for all AST nodes
// Every node can report its token literal, print itself back as source, and
// tell the line it started on
type Node interface {
	TokenLiteral() string
	String() string
	Line() int
}

// Statement nodes don't produce values
// Examples: x = 5; System.out.println(x);
type Statement interface {
	Node
	statementNode() // Dummy method to distinguish statements from expressions
}

// Expression nodes produce values
// Examples: 5, x, t.Start(2), 5 + 3
type Expression interface {
	Node
	expressionNode() // Dummy method to distinguish expressions from statements
}

// Program is the root node of every AST: the declared classes in source
// order plus the entry statement taken from the main class
type Program struct {
	MainClass string
	MainArg   string
	Main      Statement
	Classes   []*ClassDecl
}

func (p *Program) TokenLiteral() string {
	if p.Main != nil {
		return p.Main.TokenLiteral()
	}
	return ""
}

func (p *Program) Line() int {
	if p.Main != nil {
		return p.Main.Line()
	}
	return 0
}

// String builds the program back into source code (useful for debugging)
func (p *Program) String() string {
	var out bytes.Buffer
	out.WriteString("class " + p.MainClass + " {\n")
	out.WriteString("public static void main(String[] " + p.MainArg + ") {\n")
	if p.Main != nil {
		out.WriteString(p.Main.String())
	}
	out.WriteString("\n}\n}\n")
	for _, c := range p.Classes {
		out.WriteString(c.String())
		out.WriteString("\n")
	}
	return out.String()
}

// ClassDecl is `class Name [extends Parent] { fields methods }`
// Parent is empty for a root class
type ClassDecl struct {
	Token   token.Token // the 'class' token
	Name    string
	Parent  string
	Fields  []*VarDecl
	Methods []*MethodDecl
}

func (c *ClassDecl) TokenLiteral() string { return c.Token.Literal }
func (c *ClassDecl) Line() int            { return c.Token.Line }
func (c *ClassDecl) String() string {
	var out bytes.Buffer
	out.WriteString("class " + c.Name)
	if c.Parent != "" {
		out.WriteString(" extends " + c.Parent)
	}
	out.WriteString(" {\n")
	for _, f := range c.Fields {
		out.WriteString(f.String() + "\n")
	}
	for _, m := range c.Methods {
		out.WriteString(m.String() + "\n")
	}
	out.WriteString("}")
	return out.String()
}

// VarDecl is a field, parameter or local: a type name and a variable name
// TypeName is one of "int", "boolean", "int[]" or a class name
type VarDecl struct {
	Token    token.Token // first token of the type
	TypeName string
	Name     string
}

func (v *VarDecl) TokenLiteral() string { return v.Token.Literal }
func (v *VarDecl) Line() int            { return v.Token.Line }
func (v *VarDecl) String() string       { return v.TypeName + " " + v.Name + ";" }

// MethodDecl is `public Type name(params) { locals body return expr; }`
type MethodDecl struct {
	Token      token.Token // the 'public' token
	ReturnType string
	Name       string
	Params     []*VarDecl
	Locals     []*VarDecl
	Body       []Statement
	Return     Expression
}

func (m *MethodDecl) TokenLiteral() string { return m.Token.Literal }
func (m *MethodDecl) Line() int            { return m.Token.Line }
func (m *MethodDecl) String() string {
	var out bytes.Buffer
	params := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		params = append(params, p.TypeName+" "+p.Name)
	}
	out.WriteString("public " + m.ReturnType + " " + m.Name + "(" + strings.Join(params, ", ") + ") {\n")
	for _, l := range m.Locals {
		out.WriteString(l.String() + "\n")
	}
	for _, s := range m.Body {
		out.WriteString(s.String() + "\n")
	}
	if m.Return != nil {
		out.WriteString("return " + m.Return.String() + ";\n")
	}
	out.WriteString("}")
	return out.String()
}

// BlockStatement is a braced statement list { ... }
type BlockStatement struct {
	Token      token.Token // the '{' token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) Line() int            { return bs.Token.Line }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// IfStatement always carries both branches
type IfStatement struct {
	Token       token.Token // the 'if' token
	Condition   Expression
	Consequence Statement
	Alternative Statement
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) Line() int            { return is.Token.Line }
func (is *IfStatement) String() string {
	return "if (" + str(is.Condition) + ") " + str(is.Consequence) + " else " + str(is.Alternative)
}

// WhileStatement is `while (cond) body`
type WhileStatement struct {
	Token     token.Token // the 'while' token
	Condition Expression
	Body      Statement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) Line() int            { return ws.Token.Line }
func (ws *WhileStatement) String() string {
	return "while (" + str(ws.Condition) + ") " + str(ws.Body)
}

// PrintStatement is `System.out.println(expr);`
type PrintStatement struct {
	Token token.Token // the PRINTLN token
	Value Expression
}

func (ps *PrintStatement) statementNode()       {}
func (ps *PrintStatement) TokenLiteral() string { return ps.Token.Literal }
func (ps *PrintStatement) Line() int            { return ps.Token.Line }
func (ps *PrintStatement) String() string {
	return token.PrintlnLiteral + "(" + str(ps.Value) + ");"
}

// AssignStatement is `name = value;`
type AssignStatement struct {
	Token token.Token // the identifier token
	Name  *Identifier
	Value Expression
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignStatement) Line() int            { return as.Token.Line }
func (as *AssignStatement) String() string {
	return str(as.Name) + " = " + str(as.Value) + ";"
}

// ArrayAssignStatement is `name[index] = value;`
type ArrayAssignStatement struct {
	Token token.Token // the identifier token
	Name  *Identifier
	Index Expression
	Value Expression
}

func (aa *ArrayAssignStatement) statementNode()       {}
func (aa *ArrayAssignStatement) TokenLiteral() string { return aa.Token.Literal }
func (aa *ArrayAssignStatement) Line() int            { return aa.Token.Line }
func (aa *ArrayAssignStatement) String() string {
	return str(aa.Name) + "[" + str(aa.Index) + "] = " + str(aa.Value) + ";"
}

// Identifier represents a variable name
type Identifier struct {
	Token token.Token // The IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Line() int            { return i.Token.Line }
func (i *Identifier) String() string       { return i.Value }

// IntegerLiteral represents a number like 5 or 42
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) Line() int            { return il.Token.Line }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }

// Boolean represents true or false
type Boolean struct {
	Token token.Token
	Value bool
}

func (b *Boolean) expressionNode()      {}
func (b *Boolean) TokenLiteral() string { return b.Token.Literal }
func (b *Boolean) Line() int            { return b.Token.Line }
func (b *Boolean) String() string       { return b.Token.Literal }

// ThisExpression is the implicit receiver
type ThisExpression struct {
	Token token.Token
}

func (te *ThisExpression) expressionNode()      {}
func (te *ThisExpression) TokenLiteral() string { return te.Token.Literal }
func (te *ThisExpression) Line() int            { return te.Token.Line }
func (te *ThisExpression) String() string       { return "this" }

// PrefixExpression is `!operand`, the only prefix operator in the language
type PrefixExpression struct {
	Token    token.Token // The prefix token, e.g. !
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) Line() int            { return pe.Token.Line }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + str(pe.Right) + ")"
}

// InfixExpression is a binary operator: + - * < &&
type InfixExpression struct {
	Token    token.Token // The operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) Line() int            { return ie.Token.Line }
func (ie *InfixExpression) String() string {
	return "(" + str(ie.Left) + " " + ie.Operator + " " + str(ie.Right) + ")"
}

// IndexExpression is `array[index]`
type IndexExpression struct {
	Token token.Token // The [ token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) Line() int            { return ie.Token.Line }
func (ie *IndexExpression) String() string {
	return str(ie.Left) + "[" + str(ie.Index) + "]"
}

// LengthExpression is `array.length`
type LengthExpression struct {
	Token token.Token // the 'length' token
	Array Expression
}

func (le *LengthExpression) expressionNode()      {}
func (le *LengthExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LengthExpression) Line() int            { return le.Token.Line }
func (le *LengthExpression) String() string       { return str(le.Array) + ".length" }

// FieldAccessExpression is `object.field`
type FieldAccessExpression struct {
	Token  token.Token // The . token
	Object Expression
	Field  *Identifier
}

func (fa *FieldAccessExpression) expressionNode()      {}
func (fa *FieldAccessExpression) TokenLiteral() string { return fa.Token.Literal }
func (fa *FieldAccessExpression) Line() int            { return fa.Token.Line }
func (fa *FieldAccessExpression) String() string {
	return str(fa.Object) + "." + str(fa.Field)
}

// MethodCallExpression is `object.method(args...)`
type MethodCallExpression struct {
	Token     token.Token // The . token
	Object    Expression
	Method    *Identifier
	Arguments []Expression
}

func (mc *MethodCallExpression) expressionNode()      {}
func (mc *MethodCallExpression) TokenLiteral() string { return mc.Token.Literal }
func (mc *MethodCallExpression) Line() int            { return mc.Token.Line }
func (mc *MethodCallExpression) String() string {
	args := make([]string, 0, len(mc.Arguments))
	for _, a := range mc.Arguments {
		args = append(args, str(a))
	}
	return str(mc.Object) + "." + str(mc.Method) + "(" + strings.Join(args, ", ") + ")"
}

// NewObjectExpression is `new ClassName()`
type NewObjectExpression struct {
	Token token.Token // the 'new' token
	Class string
}

func (no *NewObjectExpression) expressionNode()      {}
func (no *NewObjectExpression) TokenLiteral() string { return no.Token.Literal }
func (no *NewObjectExpression) Line() int            { return no.Token.Line }
func (no *NewObjectExpression) String() string       { return "new " + no.Class + "()" }

// NewArrayExpression is `new int[size]`
type NewArrayExpression struct {
	Token token.Token // the 'new' token
	Size  Expression
}

func (na *NewArrayExpression) expressionNode()      {}
func (na *NewArrayExpression) TokenLiteral() string { return na.Token.Literal }
func (na *NewArrayExpression) Line() int            { return na.Token.Line }
func (na *NewArrayExpression) String() string       { return "new int[" + str(na.Size) + "]" }

// str prints a possibly-nil node
func str(n Node) string {
	if n == nil {
		return ""
	}
	switch v := n.(type) {
	case *Identifier:
		if v == nil {
			return ""
		}
	}
	return n.String()
}
