package typesys

import "mjc/internal/diag"

// MethodEntry is one declared method of a class.
type MethodEntry struct {
	Name string
	Sig  *MethodSig
	Line int
}

// ClassRecord describes one class. Fields and Methods keep declaration order;
// the lookup maps are a cache rebuilt by SetMembers.
type ClassRecord struct {
	Name    string
	Parent  Handle
	Fields  []Field
	Methods []MethodEntry
	Line    int

	pending  bool
	firstUse int

	fieldIndex  map[string]int
	methodIndex map[string]int
}

// Pending reports whether the record is still a stub awaiting its declaration.
func (r *ClassRecord) Pending() bool { return r.pending }

// FirstUse is the line of the first reference that created the stub.
func (r *ClassRecord) FirstUse() int { return r.firstUse }

// SetMembers replaces both member lists and rebuilds the lookup cache.
func (r *ClassRecord) SetMembers(fields []Field, methods []MethodEntry) {
	r.Fields = fields
	r.Methods = methods
	r.reindex()
}

func (r *ClassRecord) reindex() {
	r.fieldIndex = make(map[string]int, len(r.Fields))
	for i, f := range r.Fields {
		if _, dup := r.fieldIndex[f.Name]; !dup {
			r.fieldIndex[f.Name] = i
		}
	}
	r.methodIndex = make(map[string]int, len(r.Methods))
	for i, m := range r.Methods {
		if _, dup := r.methodIndex[m.Name]; !dup {
			r.methodIndex[m.Name] = i
		}
	}
}

// Field looks up a field declared by this class only.
func (r *ClassRecord) Field(name string) (Field, bool) {
	i, ok := r.fieldIndex[name]
	if !ok {
		return Field{}, false
	}
	return r.Fields[i], true
}

// Method looks up a method declared by this class only.
func (r *ClassRecord) Method(name string) (MethodEntry, bool) {
	i, ok := r.methodIndex[name]
	if !ok {
		return MethodEntry{}, false
	}
	return r.Methods[i], true
}

// Table is the class arena. Records are never removed or moved, so a Handle
// taken while a class was a stub still reaches the filled record.
type Table struct {
	records []*ClassRecord
	byName  map[string]Handle
}

func NewTable() *Table {
	return &Table{byName: make(map[string]Handle)}
}

func (tb *Table) add(r *ClassRecord) Handle {
	h := Handle(len(tb.records))
	tb.records = append(tb.records, r)
	tb.byName[r.Name] = h
	return h
}

// ResolveOrStub returns the record named name, creating a pending stub that
// remembers line when nothing of that name exists yet.
func (tb *Table) ResolveOrStub(name string, line int) Handle {
	if h, ok := tb.byName[name]; ok {
		return h
	}
	r := &ClassRecord{Name: name, Parent: NoHandle, pending: true, firstUse: line}
	r.reindex()
	return tb.add(r)
}

// Declare claims name for a class declaration at line. A pending stub is
// filled in place; a second declaration is an error.
func (tb *Table) Declare(name string, line int) (Handle, error) {
	if h, ok := tb.byName[name]; ok {
		r := tb.records[h]
		if !r.pending {
			return NoHandle, diag.Errorf(diag.KindSemantic, diag.PhaseBuild, line,
				"class %s declared twice (first declared at line %d)", name, r.Line)
		}
		r.pending = false
		r.Line = line
		return h, nil
	}
	r := &ClassRecord{Name: name, Parent: NoHandle, Line: line}
	r.reindex()
	return tb.add(r), nil
}

// Lookup finds a record by name, pending or not.
func (tb *Table) Lookup(name string) (Handle, bool) {
	h, ok := tb.byName[name]
	return h, ok
}

// Record returns the record behind h, or nil for an invalid handle.
func (tb *Table) Record(h Handle) *ClassRecord {
	if h < 0 || int(h) >= len(tb.records) {
		return nil
	}
	return tb.records[h]
}

// Len is the number of records, stubs included.
func (tb *Table) Len() int { return len(tb.records) }

// Handles lists every record in creation order.
func (tb *Table) Handles() []Handle {
	out := make([]Handle, len(tb.records))
	for i := range tb.records {
		out[i] = Handle(i)
	}
	return out
}

// Pending lists the stubs no declaration has filled.
func (tb *Table) Pending() []Handle {
	var out []Handle
	for i, r := range tb.records {
		if r.pending {
			out = append(out, Handle(i))
		}
	}
	return out
}

// Ancestors walks the parent chain starting with h itself. A cyclic chain
// stops at the first repeated class.
func (tb *Table) Ancestors(h Handle) []Handle {
	var chain []Handle
	seen := make(map[Handle]bool)
	for cur := h; cur != NoHandle && !seen[cur]; {
		r := tb.Record(cur)
		if r == nil {
			break
		}
		seen[cur] = true
		chain = append(chain, cur)
		cur = r.Parent
	}
	return chain
}

// InCycle reports whether following parents from h returns to h.
func (tb *Table) InCycle(h Handle) bool {
	r := tb.Record(h)
	if r == nil {
		return false
	}
	for _, a := range tb.Ancestors(r.Parent) {
		if a == h {
			return true
		}
	}
	return false
}

// IsSubclass reports whether sup appears on the ancestor chain of sub (a class
// is its own subclass).
func (tb *Table) IsSubclass(sub, sup Handle) bool {
	for _, a := range tb.Ancestors(sub) {
		if a == sup {
			return true
		}
	}
	return false
}

// FindField searches the ancestor chain self-first and reports the declaring class.
func (tb *Table) FindField(h Handle, name string) (Field, Handle, bool) {
	for _, a := range tb.Ancestors(h) {
		if f, ok := tb.records[a].Field(name); ok {
			return f, a, true
		}
	}
	return Field{}, NoHandle, false
}

// FindMethod searches the ancestor chain self-first and reports the declaring class.
func (tb *Table) FindMethod(h Handle, name string) (MethodEntry, Handle, bool) {
	for _, a := range tb.Ancestors(h) {
		if m, ok := tb.records[a].Method(name); ok {
			return m, a, true
		}
	}
	return MethodEntry{}, NoHandle, false
}
