package layout

import (
	"mjc/internal/diag"
	"mjc/internal/typesys"
)

// VTableEntry is one dispatch slot: the method name and the class whose body
// answers it for this layout.
type VTableEntry struct {
	Method    string
	Owner     typesys.Handle
	OwnerName string
}

// Label is the assembly symbol of the implementing body, Owner.method.
func (e VTableEntry) Label() string { return e.OwnerName + "." + e.Method }

// ObjectLayout is the flattened storage and dispatch shape of one class.
// Fields holds one name per slot, root class first; a name redeclared by a
// subclass gets a second slot. Slot i lives at word i+1 of the object.
type ObjectLayout struct {
	Class  typesys.Handle
	Name   string
	Parent typesys.Handle
	Fields []string
	VTable []VTableEntry

	methodSlot map[string]int
}

// WordCount is the object size in words: the descriptor pointer plus every field slot.
func (l *ObjectLayout) WordCount() int { return 1 + len(l.Fields) }

// FieldSlot returns the slot a bare name binds to inside this class: the
// most-derived declaration, i.e. the last slot with that name.
func (l *ObjectLayout) FieldSlot(name string) (int, bool) {
	for i := len(l.Fields) - 1; i >= 0; i-- {
		if l.Fields[i] == name {
			return i, true
		}
	}
	return -1, false
}

// MethodSlot returns the vtable index of name. Indices are fixed by the class
// that first introduced the method.
func (l *ObjectLayout) MethodSlot(name string) (int, bool) {
	i, ok := l.methodSlot[name]
	return i, ok
}

// Layouts caches one ObjectLayout per class handle.
type Layouts struct {
	byClass map[typesys.Handle]*ObjectLayout
	order   []typesys.Handle
}

// Of returns the layout of h, or nil.
func (ls *Layouts) Of(h typesys.Handle) *ObjectLayout { return ls.byClass[h] }

// All returns the layouts in class table order.
func (ls *Layouts) All() []*ObjectLayout {
	out := make([]*ObjectLayout, 0, len(ls.order))
	for _, h := range ls.order {
		out = append(out, ls.byClass[h])
	}
	return out
}

// Plan computes the layout of every class in tb. Each class starts from a
// copy of its parent's layout, so ancestors are planned first.
func Plan(tb *typesys.Table) (*Layouts, error) {
	ls := &Layouts{byClass: make(map[typesys.Handle]*ObjectLayout, tb.Len())}
	for _, h := range tb.Handles() {
		if _, err := ls.plan(tb, h, 0); err != nil {
			return nil, err
		}
		ls.order = append(ls.order, h)
	}
	return ls, nil
}

func (ls *Layouts) plan(tb *typesys.Table, h typesys.Handle, depth int) (*ObjectLayout, error) {
	if l, ok := ls.byClass[h]; ok {
		return l, nil
	}
	rec := tb.Record(h)
	if rec == nil {
		return nil, diag.Internalf(diag.PhaseLayout, "no class for handle %d", h)
	}
	if rec.Pending() {
		return nil, diag.Internalf(diag.PhaseLayout, "class %s is still a stub", rec.Name)
	}
	if depth > tb.Len() {
		return nil, diag.Internalf(diag.PhaseLayout, "inheritance cycle through %s", rec.Name)
	}

	l := &ObjectLayout{Class: h, Name: rec.Name, Parent: rec.Parent, methodSlot: make(map[string]int)}
	if rec.Parent != typesys.NoHandle {
		parent, err := ls.plan(tb, rec.Parent, depth+1)
		if err != nil {
			return nil, err
		}
		l.Fields = append(l.Fields, parent.Fields...)
		l.VTable = append(l.VTable, parent.VTable...)
		for name, slot := range parent.methodSlot {
			l.methodSlot[name] = slot
		}
	}

	for _, f := range rec.Fields {
		l.Fields = append(l.Fields, f.Name)
	}
	for _, m := range rec.Methods {
		entry := VTableEntry{Method: m.Name, Owner: h, OwnerName: rec.Name}
		if slot, ok := l.methodSlot[m.Name]; ok {
			l.VTable[slot] = entry
			continue
		}
		l.methodSlot[m.Name] = len(l.VTable)
		l.VTable = append(l.VTable, entry)
	}

	ls.byClass[h] = l
	return l, nil
}
