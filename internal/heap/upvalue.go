package heap

import "github.com/funvibe/noirvm/internal/value"

// Upvalue is a runtime capture cell for a local variable lifted out of a
// frame. While open, Location indexes into the owning frame's slot region
// and Closed is unused; the transition to closed (promoting Closed to hold
// the captured value) is one-way and happens when the frame unwinds past
// the slot. NextOpen threads the VM's per-thread list of open upvalues, kept in
// descending stack-slot order so the compiler's capture step can find and
// reuse an existing open upvalue for a given slot instead of creating a
// duplicate.
type Upvalue struct {
	value.Header
	Location int
	Closed   value.Value
	open     bool
	// NextOpen links this upvalue into the VM's per-thread list of open
	// upvalues (distinct from Header's Next, which links the heap's global
	// intrusive allocation list).
	NextOpen *Upvalue
}

func (u *Upvalue) Kind() value.Kind { return value.KindUpvalue }

// IsOpen reports whether this upvalue still points into a live frame slot.
func (u *Upvalue) IsOpen() bool { return u.open }

// Close promotes the upvalue from open to closed, capturing v as the value
// it now owns independently of any frame.
func (u *Upvalue) Close(v value.Value) {
	u.Closed = v
	u.open = false
}
