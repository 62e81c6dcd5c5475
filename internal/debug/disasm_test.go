package debug

import (
	"strings"
	"testing"

	"github.com/funvibe/noirvm/internal/chunk"
	"github.com/funvibe/noirvm/internal/heap"
	"github.com/funvibe/noirvm/internal/value"
)

func TestDisassembleInstructionConstantAndReturn(t *testing.T) {
	c := chunk.New(value.NoneValue)
	c.WriteConstant(chunk.OpConstant, chunk.OpConstantLong, value.IntValue(42), 1)
	c.WriteOp(chunk.OpReturn, 1)

	var sb strings.Builder
	next := DisassembleInstruction(&sb, c, 0, false)
	if next != 2 {
		t.Fatalf("offset after OP_CONSTANT = %d, want 2", next)
	}
	line := sb.String()
	for _, want := range []string{"OP_CONSTANT", " 0 ", "42"} {
		if !strings.Contains(line, want) {
			t.Errorf("disassembly of OP_CONSTANT missing %q: %q", want, line)
		}
	}

	sb.Reset()
	next = DisassembleInstruction(&sb, c, 2, false)
	if next != 3 {
		t.Fatalf("offset after OP_RETURN = %d, want 3", next)
	}
	if !strings.Contains(sb.String(), "OP_RETURN") {
		t.Errorf("disassembly of OP_RETURN missing opcode name: %q", sb.String())
	}
}

func TestDisassembleLongFormDecoding(t *testing.T) {
	c := chunk.New(value.NoneValue)
	c.WriteOp(chunk.OpConstantLong, 1)
	c.WriteByte(0x01, 1)
	c.WriteByte(0x02, 1)
	c.WriteByte(0x03, 1)
	for i := 0; i < 0x010203+1; i++ {
		c.AddConstant(value.IntValue(int64(i)))
	}

	var sb strings.Builder
	next := DisassembleInstruction(&sb, c, 0, false)
	if next != 4 {
		t.Fatalf("offset after OP_CONSTANT_LONG = %d, want 4", next)
	}
	if !strings.Contains(sb.String(), "66051") {
		t.Errorf("disassembly did not decode long-form index as 66051: %q", sb.String())
	}
}

func TestJumpTargetArithmetic(t *testing.T) {
	c := chunk.New(value.NoneValue)
	c.WriteOp(chunk.OpJump, 1)
	c.WriteByte(0x00, 1)
	c.WriteByte(0x05, 1) // displacement = 5

	var sb strings.Builder
	next := DisassembleInstruction(&sb, c, 0, false)
	if next != 3 {
		t.Fatalf("offset after OP_JUMP = %d, want 3", next)
	}
	if !strings.Contains(sb.String(), "-> 8") {
		t.Errorf("OP_JUMP target should be offset+3+disp = 8: %q", sb.String())
	}
}

func TestLoopTargetArithmetic(t *testing.T) {
	c := chunk.New(value.NoneValue)
	c.WriteOp(chunk.OpLoop, 1)
	c.WriteByte(0x00, 1)
	c.WriteByte(0x03, 1) // displacement = 3, target = 0+3-3 = 0

	var sb strings.Builder
	DisassembleInstruction(&sb, c, 0, false)
	if !strings.Contains(sb.String(), "-> 0") {
		t.Errorf("OP_LOOP target should be offset+3-disp = 0: %q", sb.String())
	}
}

func TestClosureTrailerParsing(t *testing.T) {
	h := heap.New()
	c := chunk.New(value.NoneValue)
	fn := h.NewFunction(chunk.New(value.NoneValue))
	fn.UpvalueCount = 2
	idx := c.AddConstant(value.ObjectValue(fn))

	c.WriteOp(chunk.OpClosure, 1)
	c.WriteByte(byte(idx), 1)
	c.WriteByte(1, 1) // isLocal
	c.WriteByte(5, 1) // index
	c.WriteByte(0, 1) // isLocal = upvalue
	c.WriteByte(3, 1) // index

	var sb strings.Builder
	next := DisassembleInstruction(&sb, c, 0, false)
	if next != 6 {
		t.Fatalf("offset after OP_CLOSURE trailer = %d, want 6", next)
	}
	out := sb.String()
	if !strings.Contains(out, "local 5") {
		t.Errorf("missing 'local 5' trailer line: %q", out)
	}
	if !strings.Contains(out, "upvalue 3") {
		t.Errorf("missing 'upvalue 3' trailer line: %q", out)
	}
}

func TestUnknownOpcodeRecovers(t *testing.T) {
	c := chunk.New(value.NoneValue)
	c.WriteByte(0xFE, 1) // not a valid opcode in the current catalogue
	c.WriteOp(chunk.OpReturn, 1)

	var sb strings.Builder
	next := DisassembleInstruction(&sb, c, 0, false)
	if next != 1 {
		t.Fatalf("unknown opcode should advance by 1, got %d", next)
	}
	if !strings.Contains(sb.String(), "Unknown opcode: fe") {
		t.Errorf("expected unknown-opcode message, got %q", sb.String())
	}
}

func TestLineGutterRepeatsOnSameLine(t *testing.T) {
	c := chunk.New(value.NoneValue)
	c.WriteOp(chunk.OpNone, 1)
	c.WriteOp(chunk.OpTrue, 1)

	var sb strings.Builder
	DisassembleChunk(&sb, c, "test", false)
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	// lines[0] is the "== test [<uuid>] ==" header.
	if !strings.Contains(lines[1], "   1 ") {
		t.Errorf("first instruction line should show line number 1: %q", lines[1])
	}
	if !strings.Contains(lines[2], "|") {
		t.Errorf("second instruction on the same line should show the gutter repeat: %q", lines[2])
	}
}

func TestDisassembleChunkHeaderIncludesID(t *testing.T) {
	c := chunk.New(value.NoneValue)
	var sb strings.Builder
	DisassembleChunk(&sb, c, "example.nv", false)
	header := strings.SplitN(sb.String(), "\n", 2)[0]
	if !strings.Contains(header, "example.nv") || !strings.Contains(header, c.ID.String()) {
		t.Errorf("header %q should name the chunk and its ID %s", header, c.ID)
	}
}

func TestColorWrapsOpcodeMnemonicInBold(t *testing.T) {
	c := chunk.New(value.NoneValue)
	c.WriteOp(chunk.OpReturn, 1)

	var plain, colored strings.Builder
	DisassembleInstruction(&plain, c, 0, false)
	DisassembleInstruction(&colored, c, 0, true)

	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("color=false should never emit ANSI escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[1mOP_RETURN\x1b[0m") {
		t.Errorf("color=true should bold the opcode mnemonic: %q", colored.String())
	}
}
