// Package heap implements the single intrusive linked list of every
// heap-allocated object the runtime owns, the constructors that install new
// objects onto it, and string interning. A tracing collector external to
// this package walks the list via Heap.Objects and toggles Header.marked;
// this package never frees anything itself.
package heap

import (
	"github.com/funvibe/noirvm/internal/chunk"
	"github.com/funvibe/noirvm/internal/value"
)

// rootStack is the minimal "value stack with push/pop" the VM context is
// documented to expose (spec §6). String construction momentarily roots a
// freshly built string here around the interning-table insert so that a
// collection triggered mid-construction still finds it reachable; a real
// embedding VM's own operand stack plays this role; this stand-in exists
// only because the dispatch loop that would normally own one is out of
// scope here.
type rootStack struct {
	slots []value.Value
}

func (s *rootStack) push(v value.Value) { s.slots = append(s.slots, v) }
func (s *rootStack) pop()               { s.slots = s.slots[:len(s.slots)-1] }

// Heap owns the global intrusive object list and the string interning
// table. Both are process-wide singletons in a real embedding; here they
// are scoped to one Heap value so tests can run independent heaps.
type Heap struct {
	objects value.Obj // head of the intrusive list; may be nil
	strings map[string]*String
	roots   rootStack
}

// New returns an empty heap.
func New() *Heap {
	return &Heap{strings: make(map[string]*String)}
}

// Objects returns the head of the intrusive allocation list, for an
// external collector to walk.
func (h *Heap) Objects() value.Obj { return h.objects }

// Count walks the intrusive list and returns the number of live objects.
// O(n); intended for diagnostics, not the hot path.
func (h *Heap) Count() int {
	n := 0
	for o := h.objects; o != nil; o = o.Next() {
		n++
	}
	return n
}

// link inserts obj at the head of the intrusive list. Head insertion keeps
// allocation O(1) and independent of current list length; marked starts
// false.
func (h *Heap) link(obj value.Obj) {
	obj.SetNext(h.objects)
	h.objects = obj
}

// sdbmHash is the sdbm variant required by the interning table and the
// value hashing layer: h = b + (h<<6) + (h<<16) - h, 32-bit wraparound,
// starting from 0. This exact recurrence is a contract other components
// depend on; do not change it.
func sdbmHash(b []byte) uint32 {
	var h uint32
	for _, c := range b {
		h = uint32(c) + (h << 6) + (h << 16) - h
	}
	return h
}

// findInterned looks up the interning table by content, not identity.
func (h *Heap) findInterned(b []byte) *String {
	return h.strings[string(b)]
}

// internNew allocates, links, and publishes a new String. The string is
// rooted on the value stack before the table insert and unrooted
// immediately after, so a collection triggered by the insert itself cannot
// reclaim it first.
func (h *Heap) internNew(b []byte, hash uint32) *String {
	chars := make([]byte, len(b)+1)
	copy(chars, b)
	s := &String{chars: chars, Length: len(b), Hash: hash}
	h.link(s)

	v := value.ObjectValue(s)
	h.roots.push(v)
	h.strings[string(b)] = s
	h.roots.pop()

	return s
}

// TakeString assumes ownership of buf (the caller must not use it again).
// If an interned string with equal content already exists, the existing
// string is returned and buf is discarded (analogous to freeing it in a
// manual-memory implementation); otherwise buf's content is installed as a
// new interned string.
func (h *Heap) TakeString(buf []byte) *String {
	hash := sdbmHash(buf)
	if s := h.findInterned(buf); s != nil {
		return s
	}
	return h.internNew(buf, hash)
}

// CopyString must not take ownership of b: on a miss, it copies the bytes
// into a freshly allocated, null-terminated buffer before installing them.
func (h *Heap) CopyString(b []byte) *String {
	hash := sdbmHash(b)
	if s := h.findInterned(b); s != nil {
		return s
	}
	return h.internNew(b, hash)
}

// NewFunction allocates a Function wrapping c, with arity 0, no upvalues,
// and no name (an unnamed Function denotes a top-level module body).
func (h *Heap) NewFunction(c *chunk.Chunk) *Function {
	fn := &Function{Chunk: c}
	h.link(fn)
	return fn
}

// NewNative wraps fn as a heap-allocated Native callable. isMethod controls
// whether a receiver is implicitly bound when the native is looked up off
// an instance.
func (h *Heap) NewNative(fn NativeFn, isMethod bool) *Native {
	n := &Native{Fn: fn, IsMethod: isMethod}
	h.link(n)
	return n
}

// NewClosure pre-allocates function.UpvalueCount upvalue slots,
// initialized to nil; the dispatcher fills each slot per the compiler's
// emitted capture instructions.
func (h *Heap) NewClosure(function *Function) *Closure {
	c := &Closure{
		Function: function,
		Upvalues: make([]*Upvalue, function.UpvalueCount),
	}
	h.link(c)
	return c
}

// NewUpvalue allocates a fresh, open upvalue pointing at the given frame
// slot index.
func (h *Heap) NewUpvalue(slot int) *Upvalue {
	u := &Upvalue{Location: slot, open: true}
	h.link(u)
	return u
}

// NewClass allocates a class with no methods.
func (h *Heap) NewClass(name *String) *Class {
	c := &Class{Name: name, Methods: make(map[string]value.Value)}
	h.link(c)
	return c
}

// NewInstance allocates an instance of class with no fields.
func (h *Heap) NewInstance(class *Class) *Instance {
	i := &Instance{Class: class, Fields: make(map[string]value.Value)}
	h.link(i)
	return i
}

// NewBoundMethod pairs receiver with method without copying method's
// underlying callable.
func (h *Heap) NewBoundMethod(receiver value.Value, method value.Obj) *BoundMethod {
	b := &BoundMethod{Receiver: receiver, Method: method}
	h.link(b)
	return b
}
