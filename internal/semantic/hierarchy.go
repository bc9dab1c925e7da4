package semantic

import (
	"mjc/internal/ast"
	"mjc/internal/diag"
	"mjc/internal/typesys"
)

func buildErr(line int, format string, args ...interface{}) error {
	return diag.Errorf(diag.KindSemantic, diag.PhaseBuild, line, format, args...)
}

// Build resolves every class declaration into a class table. Classes may
// reference each other in any order; a reference to a class declared later
// creates a stub that the declaration fills in place.
func Build(prog *ast.Program) (*typesys.Table, error) {
	if prog == nil {
		return nil, diag.Internalf(diag.PhaseBuild, "nil program")
	}
	tb := typesys.NewTable()

	for _, decl := range prog.Classes {
		if decl.Name == prog.MainClass {
			return nil, buildErr(decl.Line(), "class %s has the same name as the main class", decl.Name)
		}
		if err := declareClass(tb, decl); err != nil {
			return nil, err
		}
	}

	for _, h := range tb.Pending() {
		r := tb.Record(h)
		return nil, buildErr(r.FirstUse(), "class %s is used but never declared", r.Name)
	}

	for _, decl := range prog.Classes {
		h, _ := tb.Lookup(decl.Name)
		if tb.InCycle(h) {
			return nil, buildErr(decl.Line(), "class %s inherits from itself", decl.Name)
		}
	}

	for _, decl := range prog.Classes {
		h, _ := tb.Lookup(decl.Name)
		if err := checkOverrides(tb, h); err != nil {
			return nil, err
		}
	}
	return tb, nil
}

// declareClass fills one record: parent first, then fields and methods in
// source order.
func declareClass(tb *typesys.Table, decl *ast.ClassDecl) error {
	parent := typesys.NoHandle
	if decl.Parent != "" {
		parent = tb.ResolveOrStub(decl.Parent, decl.Line())
	}
	h, err := tb.Declare(decl.Name, decl.Line())
	if err != nil {
		return err
	}
	rec := tb.Record(h)
	rec.Parent = parent

	fields := make([]typesys.Field, 0, len(decl.Fields))
	seenField := make(map[string]bool, len(decl.Fields))
	for _, f := range decl.Fields {
		if seenField[f.Name] {
			return buildErr(f.Line(), "field %s declared twice in class %s", f.Name, decl.Name)
		}
		seenField[f.Name] = true
		fields = append(fields, typesys.Field{Name: f.Name, Type: tb.ResolveTypeName(f.TypeName, f.Line())})
	}

	methods := make([]typesys.MethodEntry, 0, len(decl.Methods))
	seenMethod := make(map[string]bool, len(decl.Methods))
	for _, m := range decl.Methods {
		if seenMethod[m.Name] {
			return buildErr(m.Line(), "method %s declared twice in class %s", m.Name, decl.Name)
		}
		seenMethod[m.Name] = true
		sig, err := methodSignature(tb, m)
		if err != nil {
			return err
		}
		methods = append(methods, typesys.MethodEntry{Name: m.Name, Sig: sig, Line: m.Line()})
	}

	rec.SetMembers(fields, methods)
	return nil
}

func methodSignature(tb *typesys.Table, m *ast.MethodDecl) (*typesys.MethodSig, error) {
	sig := &typesys.MethodSig{Return: tb.ResolveTypeName(m.ReturnType, m.Line())}
	seen := make(map[string]bool, len(m.Params)+len(m.Locals))
	for _, p := range m.Params {
		if seen[p.Name] {
			return nil, buildErr(p.Line(), "variable %s declared twice in method %s", p.Name, m.Name)
		}
		seen[p.Name] = true
		sig.Params = append(sig.Params, typesys.Field{Name: p.Name, Type: tb.ResolveTypeName(p.TypeName, p.Line())})
	}
	for _, l := range m.Locals {
		if seen[l.Name] {
			return nil, buildErr(l.Line(), "variable %s declared twice in method %s", l.Name, m.Name)
		}
		seen[l.Name] = true
		sig.Locals = append(sig.Locals, typesys.Field{Name: l.Name, Type: tb.ResolveTypeName(l.TypeName, l.Line())})
	}
	return sig, nil
}

// checkOverrides compares each method of h with the nearest ancestor method
// of the same name. Errors point at the overriding class declaration.
func checkOverrides(tb *typesys.Table, h typesys.Handle) error {
	rec := tb.Record(h)
	if rec.Parent == typesys.NoHandle {
		return nil
	}
	for _, m := range rec.Methods {
		inherited, owner, ok := tb.FindMethod(rec.Parent, m.Name)
		if !ok {
			continue
		}
		ownerName := tb.Record(owner).Name
		if !m.Sig.Return.Equal(inherited.Sig.Return) {
			return buildErr(rec.Line, "method %s.%s returns %s but overrides %s.%s returning %s",
				rec.Name, m.Name, tb.TypeName(m.Sig.Return), ownerName, m.Name, tb.TypeName(inherited.Sig.Return))
		}
		if !m.Sig.SameParams(inherited.Sig) {
			return buildErr(rec.Line, "method %s.%s%s does not match the arguments of %s.%s%s",
				rec.Name, m.Name, paramList(tb, m.Sig), ownerName, m.Name, paramList(tb, inherited.Sig))
		}
	}
	return nil
}

func paramList(tb *typesys.Table, sig *typesys.MethodSig) string {
	out := "("
	for i, p := range sig.Params {
		if i > 0 {
			out += ", "
		}
		out += tb.TypeName(p.Type)
	}
	return out + ")"
}
