// Package chunk implements the compiled bytecode container: the raw
// instruction bytes, the constants pool, and a run-length-compressed
// offset-to-line mapping used for diagnostics and the disassembler gutter.
package chunk

import (
	"github.com/google/uuid"

	"github.com/funvibe/noirvm/internal/value"
)

// maxShortIndex is the largest index (constant or operand) that fits the
// 1-byte short encoding; anything beyond it needs the 3-byte long form.
const maxShortIndex = 0xFF

// lineRun is one entry of the run-length-compressed line table: "starting
// at StartOffset, every byte belongs to Line until superseded by a later
// entry".
type lineRun struct {
	StartOffset int
	Line        int
}

// Chunk is a compiled unit of bytecode: owns the raw instruction bytes, a
// constants pool, and the offset-to-line mapping. It does not know about
// the object heap beyond the opaque value.Value it stores constants as.
type Chunk struct {
	Code      []byte
	Constants []value.Value
	Filename  value.Value

	// ID uniquely identifies this chunk across process boundaries so
	// disassembly traces collected from independent runs can be
	// correlated by external tooling.
	ID uuid.UUID

	lines []lineRun
}

// New returns an empty chunk for the named source file.
func New(filename value.Value) *Chunk {
	return &Chunk{
		Filename: filename,
		ID:       uuid.New(),
	}
}

// WriteByte appends a single byte to the code stream, recording which
// source line it belongs to. If the line matches the most recently
// recorded run, no new entry is appended (write-order-preserving RLE).
func (c *Chunk) WriteByte(b byte, line int) {
	offset := len(c.Code)
	c.Code = append(c.Code, b)
	if len(c.lines) == 0 || c.lines[len(c.lines)-1].Line != line {
		c.lines = append(c.lines, lineRun{StartOffset: offset, Line: line})
	}
}

// WriteOp appends an opcode byte.
func (c *Chunk) WriteOp(op Opcode, line int) {
	c.WriteByte(byte(op), line)
}

// AddConstant appends v to the constants pool and returns its index.
func (c *Chunk) AddConstant(v value.Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// WriteIndex writes idx using the short (1-byte) form if it fits, otherwise
// the 3-byte big-endian long form, choosing shortOp or longOp accordingly.
// It is used for both constant-pool and local/upvalue slot addressing.
func (c *Chunk) WriteIndex(shortOp, longOp Opcode, idx int, line int) {
	if idx <= maxShortIndex {
		c.WriteOp(shortOp, line)
		c.WriteByte(byte(idx), line)
		return
	}
	c.WriteOp(longOp, line)
	c.WriteByte(byte(idx>>16), line)
	c.WriteByte(byte(idx>>8), line)
	c.WriteByte(byte(idx), line)
}

// WriteConstant adds v to the constants pool and emits the short or long
// constant-load instruction for it, using shortOp/longOp as the opcode pair
// (e.g. OpConstant/OpConstantLong, OpDefineGlobal/OpDefineGlobalLong, ...).
func (c *Chunk) WriteConstant(shortOp, longOp Opcode, v value.Value, line int) int {
	idx := c.AddConstant(v)
	c.WriteIndex(shortOp, longOp, idx, line)
	return idx
}

// WriteJump emits a jump opcode with a placeholder 2-byte displacement and
// returns the offset of the first displacement byte, to be patched later
// via PatchJump once the target offset is known.
func (c *Chunk) WriteJump(op Opcode, line int) int {
	c.WriteOp(op, line)
	c.WriteByte(0xFF, line)
	c.WriteByte(0xFF, line)
	return len(c.Code) - 2
}

// PatchJump rewrites the displacement at jumpOperandOffset so that the jump
// lands on the current end of the code stream.
func (c *Chunk) PatchJump(jumpOperandOffset int) {
	// displacement is measured from the byte following the 2-byte operand
	disp := len(c.Code) - (jumpOperandOffset + 2)
	c.Code[jumpOperandOffset] = byte(disp >> 8)
	c.Code[jumpOperandOffset+1] = byte(disp)
}

// WriteLoop emits OP_LOOP with the backward displacement to loopStart.
func (c *Chunk) WriteLoop(loopStart int, line int) {
	c.WriteOp(OpLoop, line)
	disp := len(c.Code) - loopStart + 2
	c.WriteByte(byte(disp>>8), line)
	c.WriteByte(byte(disp), line)
}

// LineAt returns the source line that produced the byte at offset, scanning
// the run-length table front-to-back and keeping the last run whose start
// is <= offset. LineAt(0) on an empty chunk is 0. When two runs share the
// same start offset, the later one (write order) wins, matching how
// WriteByte only ever appends forward.
func (c *Chunk) LineAt(offset int) int {
	line := 0
	for _, run := range c.lines {
		if run.StartOffset > offset {
			break
		}
		line = run.Line
	}
	return line
}

// Len returns the number of bytes of compiled code.
func (c *Chunk) Len() int { return len(c.Code) }
