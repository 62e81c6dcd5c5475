package heap

import "github.com/funvibe/noirvm/internal/value"

// Closure pairs a Function with a vector of resolved Upvalues. Function is
// a shared reference (never owned exclusively: the same Function may be
// referenced by multiple closures and by its module's constants pool).
// Upvalues is owned by the closure, but each element may be shared with any
// peer closure capturing the same cell.
type Closure struct {
	value.Header
	Function *Function
	Upvalues []*Upvalue
}

func (c *Closure) Kind() value.Kind { return value.KindClosure }
