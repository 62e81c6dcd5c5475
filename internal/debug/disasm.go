// Package debug implements the disassembler: given a Chunk, it renders a
// human-readable trace of its instructions with operand decoding and a
// source-line gutter. Output goes only to the io.Writer the caller supplies;
// the package never writes to standard output on its own.
package debug

import (
	"fmt"
	"io"

	"github.com/funvibe/noirvm/internal/chunk"
	"github.com/funvibe/noirvm/internal/heap"
)

// DisassembleChunk writes a full trace of chunk to w, labeled name and
// tagged with the chunk's ID so traces collected from independent runs can
// be correlated by external tooling. When color is true, opcode mnemonics
// are wrapped in ANSI bold escapes (the caller decides this based on
// .noirvmrc.yaml's color setting and whether its writer is a terminal).
func DisassembleChunk(w io.Writer, c *chunk.Chunk, name string, color bool) {
	fmt.Fprintf(w, "== %s [%s] ==\n", name, c.ID)
	for offset := 0; offset < c.Len(); {
		offset = DisassembleInstruction(w, c, offset, color)
	}
}

// DisassembleInstruction disassembles the single instruction at offset,
// writing one line (or more, for OP_CLOSURE's capture trailer) to w, and
// returns the offset of the next instruction. An unknown opcode is reported
// textually and advances by one byte so disassembly can recover and
// continue; no error is ever returned.
func DisassembleInstruction(w io.Writer, c *chunk.Chunk, offset int, color bool) int {
	fmt.Fprintf(w, "%04d ", offset)

	if offset > 0 && c.LineAt(offset) == c.LineAt(offset-1) {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", c.LineAt(offset))
	}

	op := chunk.Opcode(c.Code[offset])

	switch op {
	case chunk.OpAdd, chunk.OpSubtract, chunk.OpMultiply, chunk.OpDivide,
		chunk.OpModulo, chunk.OpNegate, chunk.OpEqual, chunk.OpGreater,
		chunk.OpLess, chunk.OpNot, chunk.OpBitOr, chunk.OpBitXor,
		chunk.OpBitAnd, chunk.OpShiftLeft, chunk.OpShiftRight, chunk.OpBitNegate,
		chunk.OpNone, chunk.OpTrue, chunk.OpFalse,
		chunk.OpPop, chunk.OpSwap,
		chunk.OpInherit, chunk.OpRaise, chunk.OpCloseUpvalue, chunk.OpDocstring,
		chunk.OpFinalize, chunk.OpCallStack, chunk.OpInvokeGetter,
		chunk.OpInvokeSetter, chunk.OpInvokeGetslice, chunk.OpReturn:
		return simpleInstruction(w, op, offset, color)

	case chunk.OpDup, chunk.OpExpandArgs:
		return operandInstruction(w, op, c, offset, false, color)
	case chunk.OpGetLocal, chunk.OpSetLocal, chunk.OpGetUpvalue, chunk.OpSetUpvalue,
		chunk.OpCall, chunk.OpKwargs, chunk.OpInc:
		return operandInstruction(w, op, c, offset, false, color)
	case chunk.OpGetLocalLong, chunk.OpSetLocalLong, chunk.OpGetUpvalueLong, chunk.OpSetUpvalueLong,
		chunk.OpCallLong, chunk.OpKwargsLong, chunk.OpIncLong:
		return operandInstruction(w, op, c, offset, true, color)

	case chunk.OpConstant, chunk.OpDefineGlobal, chunk.OpGetGlobal, chunk.OpSetGlobal,
		chunk.OpClass, chunk.OpGetProperty, chunk.OpSetProperty, chunk.OpMethod,
		chunk.OpImport, chunk.OpGetSuper:
		return constantInstruction(w, op, c, offset, false, color)
	case chunk.OpConstantLong, chunk.OpDefineGlobalLong, chunk.OpGetGlobalLong, chunk.OpSetGlobalLong,
		chunk.OpClassLong, chunk.OpGetPropertyLong, chunk.OpSetPropertyLong, chunk.OpMethodLong,
		chunk.OpImportLong, chunk.OpGetSuperLong:
		return constantInstruction(w, op, c, offset, true, color)

	case chunk.OpJump, chunk.OpJumpIfFalse, chunk.OpJumpIfTrue:
		return jumpInstruction(w, op, +1, c, offset, color)
	case chunk.OpLoop:
		return jumpInstruction(w, op, -1, c, offset, color)
	case chunk.OpPushTry:
		// Forward installation of an exception landing pad: the compiler
		// never emits a backward target, so displacement is always added.
		return jumpInstruction(w, op, +1, c, offset, color)

	case chunk.OpClosure:
		return closureInstruction(w, op, c, offset, false, color)
	case chunk.OpClosureLong:
		return closureInstruction(w, op, c, offset, true, color)

	default:
		fmt.Fprintf(w, "Unknown opcode: %02x\n", byte(op))
		return offset + 1
	}
}

// opName renders op's mnemonic, padded to width, wrapping it in an ANSI
// bold escape when color is true. Padding is applied before wrapping so the
// escape sequences (zero display width on any real terminal) don't throw
// off alignment of the following operand/value columns.
func opName(op chunk.Opcode, width int, color bool) string {
	padded := fmt.Sprintf("%-*s", width, op.String())
	if !color {
		return padded
	}
	return "\x1b[1m" + padded + "\x1b[0m"
}

func simpleInstruction(w io.Writer, op chunk.Opcode, offset int, color bool) int {
	fmt.Fprintf(w, "%s\n", opName(op, 0, color))
	return offset + 1
}

func operandInstruction(w io.Writer, op chunk.Opcode, c *chunk.Chunk, offset int, long bool, color bool) int {
	if long {
		operand := int(c.Code[offset+1])<<16 | int(c.Code[offset+2])<<8 | int(c.Code[offset+3])
		fmt.Fprintf(w, "%s %4d\n", opName(op, 16, color), operand)
		return offset + 4
	}
	operand := c.Code[offset+1]
	fmt.Fprintf(w, "%s %4d\n", opName(op, 16, color), operand)
	return offset + 2
}

func constantInstruction(w io.Writer, op chunk.Opcode, c *chunk.Chunk, offset int, long bool, color bool) int {
	var idx int
	var next int
	if long {
		idx = int(c.Code[offset+1])<<16 | int(c.Code[offset+2])<<8 | int(c.Code[offset+3])
		next = offset + 4
	} else {
		idx = int(c.Code[offset+1])
		next = offset + 2
	}

	if idx < 0 || idx >= len(c.Constants) {
		fmt.Fprintf(w, "%s %4d (invalid constant)\n", opName(op, 16, color), idx)
		return next
	}
	v := c.Constants[idx]
	fmt.Fprintf(w, "%s %4d %s (type=%s)\n", opName(op, 16, color), idx, heap.Print(v), v.Type())
	return next
}

func jumpInstruction(w io.Writer, op chunk.Opcode, sign int, c *chunk.Chunk, offset int, color bool) int {
	disp := int(c.Code[offset+1])<<8 | int(c.Code[offset+2])
	target := offset + 3 + sign*disp
	fmt.Fprintf(w, "%s %4d -> %d\n", opName(op, 16, color), offset, target)
	return offset + 3
}

func closureInstruction(w io.Writer, op chunk.Opcode, c *chunk.Chunk, offset int, long bool, color bool) int {
	var idx int
	var next int
	if long {
		idx = int(c.Code[offset+1])<<16 | int(c.Code[offset+2])<<8 | int(c.Code[offset+3])
		next = offset + 4
	} else {
		idx = int(c.Code[offset+1])
		next = offset + 2
	}

	if idx < 0 || idx >= len(c.Constants) {
		fmt.Fprintf(w, "%s %4d (invalid constant)\n", opName(op, 16, color), idx)
		return next
	}
	v := c.Constants[idx]
	fmt.Fprintf(w, "%s %4d %s (type=%s)\n", opName(op, 16, color), idx, heap.Print(v), v.Type())

	fn, ok := v.AsObject().(*heap.Function)
	if !ok {
		return next
	}
	for j := 0; j < fn.UpvalueCount; j++ {
		isLocal := c.Code[next]
		index := c.Code[next+1]
		kind := "upvalue"
		if isLocal != 0 {
			kind = "local"
		}
		fmt.Fprintf(w, "%04d      |                     %s %d\n", next, kind, index)
		next += 2
	}
	return next
}
