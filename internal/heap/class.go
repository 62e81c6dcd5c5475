package heap

import "github.com/funvibe/noirvm/internal/value"

// Class is a user-defined type. No methods are inherited at construction;
// inheritance (OP_INHERIT) is performed later by the interpreter, which
// copies the superclass's Methods into the subclass's.
type Class struct {
	value.Header
	Name     *String
	Filename *String // optional, for diagnostics
	Methods  map[string]value.Value
}

func (c *Class) Kind() value.Kind { return value.KindClass }

// Instance is a class instantiation. No fields are inherited at
// construction.
type Instance struct {
	value.Header
	Class  *Class
	Fields map[string]value.Value
}

func (i *Instance) Kind() value.Kind { return value.KindInstance }

// BoundMethod pairs a method (a closure or a native) with the receiver it
// was looked up on. Construction copies no part of the underlying method.
type BoundMethod struct {
	value.Header
	Receiver value.Value
	Method   value.Obj // *Closure or *Native
}

func (b *BoundMethod) Kind() value.Kind { return value.KindBoundMethod }
