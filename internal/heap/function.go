package heap

import (
	"github.com/funvibe/noirvm/internal/chunk"
	"github.com/funvibe/noirvm/internal/value"
)

// Function is a compile-time object for a named or anonymous routine. Name
// is nil for a top-level module body. Immutable once the compiler finishes
// emitting it.
type Function struct {
	value.Header
	Arity        int
	UpvalueCount int
	Name         *String // nil denotes a top-level module body
	Chunk        *chunk.Chunk
}

func (f *Function) Kind() value.Kind { return value.KindFunction }

// NativeFn is the signature a host-implemented routine satisfies.
type NativeFn func(args []value.Value) (value.Value, error)

// Native is a routine implemented by the host. IsMethod controls whether
// the receiver is implicitly bound when the native is looked up off an
// instance.
type Native struct {
	value.Header
	Fn       NativeFn
	IsMethod bool
}

func (n *Native) Kind() value.Kind { return value.KindNative }
