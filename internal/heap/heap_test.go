package heap

import (
	"testing"

	"github.com/funvibe/noirvm/internal/chunk"
	"github.com/funvibe/noirvm/internal/value"
)

func TestHashKnownValues(t *testing.T) {
	cases := []struct {
		s    string
		want uint32
	}{
		{"", 0},
		{"a", 97},
	}
	for _, c := range cases {
		if got := sdbmHash([]byte(c.s)); got != c.want {
			t.Errorf("sdbmHash(%q) = %d, want %d", c.s, got, c.want)
		}
	}

	// hash("ab") per the sdbm recurrence applied to hash("a"):
	// h = 'b' + (h<<6) + (h<<16) - h, starting from h = hash("a") = 97.
	h := uint32(97)
	want := uint32('b') + (h << 6) + (h << 16) - h
	if got := sdbmHash([]byte("ab")); got != want {
		t.Errorf("sdbmHash(\"ab\") = %d, want %d", got, want)
	}
}

func TestStringInterningIdentity(t *testing.T) {
	h := New()
	a := h.CopyString([]byte("hello"))
	b := h.CopyString([]byte("hello"))
	if a != b {
		t.Fatalf("CopyString did not return the same interned object for equal content")
	}

	c := h.TakeString([]byte("world"))
	d := h.CopyString([]byte("world"))
	if c != d {
		t.Fatalf("TakeString/CopyString disagreed on interned identity")
	}
}

func TestHeapListInvariant(t *testing.T) {
	h := New()
	const n = 5
	for i := 0; i < n; i++ {
		h.NewClass(h.CopyString([]byte{byte('A' + i)}))
	}
	// Each iteration allocates two objects: the name string and the class.
	if got := h.Count(); got != 2*n {
		t.Fatalf("Count() = %d, want %d", got, 2*n)
	}
	for o := h.Objects(); o != nil; o = o.Next() {
		if o.Marked() {
			t.Fatalf("freshly constructed object is marked")
		}
	}
}

func TestNewFunctionWrapsChunk(t *testing.T) {
	h := New()
	c := chunk.New(value.NoneValue)
	fn := h.NewFunction(c)
	if fn.Chunk != c {
		t.Fatalf("NewFunction did not retain the given chunk")
	}
	if fn.Name != nil {
		t.Fatalf("unnamed function should have Name == nil")
	}
}

func TestNewClosurePreallocatesUpvalues(t *testing.T) {
	h := New()
	c := chunk.New(value.NoneValue)
	fn := h.NewFunction(c)
	fn.UpvalueCount = 2
	cl := h.NewClosure(fn)
	if len(cl.Upvalues) != 2 {
		t.Fatalf("NewClosure allocated %d upvalue slots, want 2", len(cl.Upvalues))
	}
}

func TestUpvalueOpenClose(t *testing.T) {
	h := New()
	u := h.NewUpvalue(3)
	if !u.IsOpen() {
		t.Fatalf("new upvalue should be open")
	}
	u.Close(value.IntValue(9))
	if u.IsOpen() {
		t.Fatalf("upvalue should be closed after Close")
	}
	if u.Closed.AsInt() != 9 {
		t.Fatalf("Closed value = %d, want 9", u.Closed.AsInt())
	}
}

func TestInstanceOfClass(t *testing.T) {
	h := New()
	class := h.NewClass(h.CopyString([]byte("Point")))
	inst := h.NewInstance(class)
	if inst.Class != class {
		t.Fatalf("instance's Class does not match constructor argument")
	}
	inst.Fields["x"] = value.IntValue(1)
	if inst.Fields["x"].AsInt() != 1 {
		t.Fatalf("instance field not stored correctly")
	}
}
