// Package value defines the tagged union every bytecode instruction operates
// on and the minimal interface heap objects must satisfy to be linked into
// the object heap's intrusive list. It sits below both chunk and heap so
// chunk can store constants without importing heap (heap imports chunk,
// not the other way round).
package value

import "math"

// Kind tags the concrete variant of a heap object. It is the only runtime
// type information an Obj carries; there is no separate type descriptor.
type Kind uint8

const (
	KindString Kind = iota
	KindFunction
	KindNative
	KindClosure
	KindUpvalue
	KindClass
	KindInstance
	KindBoundMethod
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindNative:
		return "native"
	case KindClosure:
		return "closure"
	case KindUpvalue:
		return "upvalue"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	case KindBoundMethod:
		return "bound-method"
	default:
		return "unknown"
	}
}

// Obj is implemented by every heap-allocated object. It is satisfied by
// embedding Header, which supplies the marked flag and the next-pointer of
// the heap's intrusive singly-linked list; the embedding type only needs to
// add its own Kind method.
type Obj interface {
	Kind() Kind
	Marked() bool
	SetMarked(bool)
	Next() Obj
	SetNext(Obj)
}

// Header is the common prefix every concrete heap object embeds. marked and
// next are unexported: only the heap package that allocates objects (and
// links them into the list) should mutate them directly, but the accessor
// methods below are promoted to every embedding type so it satisfies Obj.
type Header struct {
	marked bool
	next   Obj
}

func (h *Header) Marked() bool     { return h.marked }
func (h *Header) SetMarked(b bool) { h.marked = b }
func (h *Header) Next() Obj        { return h.next }
func (h *Header) SetNext(o Obj)    { h.next = o }

// Tag identifies which variant a Value currently holds.
type Tag uint8

const (
	None Tag = iota
	Bool
	Int
	Float
	Object
)

func (t Tag) String() string {
	switch t {
	case None:
		return "none"
	case Bool:
		return "boolean"
	case Int:
		return "int"
	case Float:
		return "float"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the stack-allocated tagged union manipulated by every bytecode
// instruction. Primitives (none, boolean, integer, float) never touch the
// heap; only the Object variant carries a reference into it.
type Value struct {
	Tag  Tag
	bits uint64
	ref  Obj
}

// NoneValue is the singleton representation of the absence of a value.
var NoneValue = Value{Tag: None}

func BoolValue(b bool) Value {
	var bits uint64
	if b {
		bits = 1
	}
	return Value{Tag: Bool, bits: bits}
}

func IntValue(i int64) Value {
	return Value{Tag: Int, bits: uint64(i)}
}

func FloatValue(f float64) Value {
	return Value{Tag: Float, bits: math.Float64bits(f)}
}

func ObjectValue(o Obj) Value {
	return Value{Tag: Object, ref: o}
}

func (v Value) IsNone() bool   { return v.Tag == None }
func (v Value) IsBool() bool   { return v.Tag == Bool }
func (v Value) IsInt() bool    { return v.Tag == Int }
func (v Value) IsFloat() bool  { return v.Tag == Float }
func (v Value) IsObject() bool { return v.Tag == Object }

func (v Value) AsBool() bool     { return v.bits == 1 }
func (v Value) AsInt() int64     { return int64(v.bits) }
func (v Value) AsFloat() float64 { return math.Float64frombits(v.bits) }
func (v Value) AsObject() Obj    { return v.ref }

// Type returns the short type name used by diagnostics, mirroring the
// "(type=...)" annotation the disassembler prints next to constants.
func (v Value) Type() string {
	if v.Tag == Object && v.ref != nil {
		return v.ref.Kind().String()
	}
	return v.Tag.String()
}
