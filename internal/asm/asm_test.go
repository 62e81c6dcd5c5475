package asm

import (
	"testing"

	"github.com/funvibe/noirvm/internal/chunk"
	"github.com/funvibe/noirvm/internal/heap"
)

func TestAssembleSimpleChunk(t *testing.T) {
	src := `
chunk:
	file "example.nv"

constants:
	int 42

code:
	OP_CONSTANT 0
	OP_RETURN
`
	h := heap.New()
	c, err := Assemble(h, []byte(src))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(c.Constants) != 1 || c.Constants[0].AsInt() != 42 {
		t.Fatalf("unexpected constants: %v", c.Constants)
	}
	if c.Len() != 3 {
		t.Fatalf("code length = %d, want 3", c.Len())
	}
	if chunk.Opcode(c.Code[0]) != chunk.OpConstant || c.Code[1] != 0 {
		t.Fatalf("unexpected OP_CONSTANT encoding: %v", c.Code)
	}
	if chunk.Opcode(c.Code[2]) != chunk.OpReturn {
		t.Fatalf("unexpected OP_RETURN encoding: %v", c.Code)
	}
}

func TestAssembleInternsStrings(t *testing.T) {
	src := `
chunk:
	file "example.nv"

constants:
	string "hello"
	string "hello"

code:
	OP_RETURN
`
	h := heap.New()
	c, err := Assemble(h, []byte(src))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if c.Constants[0].AsObject() != c.Constants[1].AsObject() {
		t.Fatalf("two equal string constants were not interned to the same object")
	}
}

func TestAssembleJumpTarget(t *testing.T) {
	src := `
chunk:
	file "example.nv"

code:
	OP_JUMP 2
	OP_NONE
	OP_RETURN
`
	h := heap.New()
	c, err := Assemble(h, []byte(src))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	// OP_JUMP at offset 0 (3 bytes), OP_NONE at offset 3 (1 byte),
	// OP_RETURN at offset 4. Target line index 2 -> offset 4.
	disp := int(c.Code[1])<<8 | int(c.Code[2])
	target := 0 + 3 + disp
	if target != 4 {
		t.Fatalf("jump target = %d, want 4", target)
	}
}

func TestAssembleClosureTrailer(t *testing.T) {
	// The constant referenced by OP_CLOSURE need not be a real Function for
	// this test: it only exercises the trailer-byte encoding, not the
	// disassembler's function-aware trailer walk (covered in package debug).
	src := `
chunk:
	file "example.nv"

constants:
	none

code:
	OP_CLOSURE 0 local:5 upvalue:3
`
	h := heap.New()
	c, err := Assemble(h, []byte(src))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(c.Code) != 6 {
		t.Fatalf("OP_CLOSURE with 2 captures should emit 6 bytes, got %d", len(c.Code))
	}
	if c.Code[2] != 1 || c.Code[3] != 5 {
		t.Errorf("expected local:5 trailer pair, got %d %d", c.Code[2], c.Code[3])
	}
	if c.Code[4] != 0 || c.Code[5] != 3 {
		t.Errorf("expected upvalue:3 trailer pair, got %d %d", c.Code[4], c.Code[5])
	}
}
