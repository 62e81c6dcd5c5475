// Package asm implements a human-readable/writable textual form of a
// compiled Chunk. It exists so the Chunk, heap, and disassembler packages
// can be exercised end to end without a source-language parser and
// compiler, which are out of scope here.
//
// The format looks like this (indentation is arbitrary; sections must come
// in this order: chunk:, then the optional constants:, then code:):
//
//	chunk:
//		file "example.nv"
//
//	constants:
//		int    42
//		float  1.5
//		string "hello"
//		none
//		bool   true
//
//	code:
//		OP_CONSTANT 0
//		OP_RETURN
//
// Operand forms:
//   - simple opcodes take no argument.
//   - operand/constant opcodes take one unsigned integer argument; unlike
//     Chunk.WriteIndex, the assembler never auto-upgrades a short-form
//     mnemonic to its _LONG sibling based on the operand's magnitude — the
//     mnemonic written (OP_GET_LOCAL vs OP_GET_LOCAL_LONG) is emitted
//     exactly as spelled, so exercising the long-form encoding with an
//     index that happens to fit in one byte requires spelling out the
//     _LONG mnemonic explicitly.
//   - jump opcodes (OP_JUMP, OP_JUMP_IF_FALSE, OP_JUMP_IF_TRUE, OP_LOOP,
//     OP_PUSH_TRY) take a target expressed as a code-section line index
//     (0-based), translated to a byte displacement once the whole section
//     has been scanned.
//   - OP_CLOSURE/OP_CLOSURE_LONG take the constant index of the function
//     followed, on the same line, by one "local:N" or "upvalue:N" field per
//     captured variable. The number of captures is not checked against the
//     function's UpvalueCount.
package asm

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/noirvm/internal/chunk"
	"github.com/funvibe/noirvm/internal/heap"
	"github.com/funvibe/noirvm/internal/value"
)

var sections = map[string]bool{
	"chunk:":     true,
	"constants:": true,
	"code:":      true,
}

// jumpOpcodes maps each jump-class opcode to the sign used when computing
// a target offset from a displacement (+1 forward, -1 backward), mirroring
// debug.jumpInstruction.
var jumpOpcodes = map[string]int{
	"OP_JUMP":          +1,
	"OP_JUMP_IF_FALSE": +1,
	"OP_JUMP_IF_TRUE":  +1,
	"OP_PUSH_TRY":      +1,
	"OP_LOOP":          -1,
}

var closureOpcodes = map[string]bool{
	"OP_CLOSURE":      true,
	"OP_CLOSURE_LONG": true,
}

var nameToOpcode map[string]chunk.Opcode

func init() {
	nameToOpcode = make(map[string]chunk.Opcode)
	// The opcode range is small and contiguous; walk it once rather than
	// hand-maintaining a second table that could drift from opcode.go.
	for b := 0; b < 256; b++ {
		op := chunk.Opcode(b)
		name := op.String()
		if strings.HasPrefix(name, "OP_UNKNOWN") {
			continue
		}
		nameToOpcode[name] = op
	}
}

// Assemble parses src in the textual chunk format and returns the resulting
// Chunk, interning any string constants into h.
func Assemble(h *heap.Heap, src []byte) (*chunk.Chunk, error) {
	a := &assembler{h: h, s: bufio.NewScanner(bytes.NewReader(src))}

	fields := a.next()
	fields, err := a.chunkSection(fields)
	if err != nil {
		return nil, err
	}

	fields, err = a.constantsSection(fields)
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 || !strings.EqualFold(fields[0], "code:") {
		msg := "expected code section"
		if len(fields) > 0 {
			msg += ", found " + fields[0]
		}
		return nil, fmt.Errorf("asm: %s", msg)
	}
	if err := a.codeSection(); err != nil {
		return nil, err
	}

	return a.c, nil
}

type codeLine struct {
	line int // source line number to attribute, 1-based by input order
	op   chunk.Opcode
	name string
	arg  int
	// hasArg distinguishes "no operand" from "operand 0"
	hasArg bool
	// trailer holds raw (isLocal, index) pairs for OP_CLOSURE(_LONG)
	trailer [][2]int
}

type assembler struct {
	h       *heap.Heap
	s       *bufio.Scanner
	rawLine string
	c       *chunk.Chunk
	lineNo  int
}

// chunkSection parses the required "chunk:" section and returns the fields
// of the line that follows it (the next section header, or nil at EOF), so
// the caller can thread parsing forward without re-scanning a line.
func (a *assembler) chunkSection(fields []string) ([]string, error) {
	if len(fields) == 0 || !strings.EqualFold(fields[0], "chunk:") {
		msg := "expected chunk section"
		if len(fields) > 0 {
			msg += ", found " + fields[0]
		}
		return fields, fmt.Errorf("asm: %s", msg)
	}

	filename := value.NoneValue
	for fields = a.next(); len(fields) > 0 && !sections[fields[0]]; fields = a.next() {
		if fields[0] != "file" || len(fields) < 2 {
			return fields, fmt.Errorf("asm: line %d: expected 'file \"name\"' in chunk section", a.lineNo)
		}
		name, err := a.unquote(fields[1])
		if err != nil {
			return fields, fmt.Errorf("asm: line %d: %w", a.lineNo, err)
		}
		filename = value.ObjectValue(a.h.CopyString([]byte(name)))
	}
	a.c = chunk.New(filename)
	return fields, nil
}

func (a *assembler) constantsSection(fields []string) ([]string, error) {
	if len(fields) == 0 || !strings.EqualFold(fields[0], "constants:") {
		return fields, nil
	}

	for fields = a.next(); len(fields) > 0 && !sections[fields[0]]; fields = a.next() {
		if len(fields) < 2 && fields[0] != "none" {
			return fields, fmt.Errorf("asm: line %d: invalid constant: expected type and value", a.lineNo)
		}
		switch fields[0] {
		case "int":
			n, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return fields, fmt.Errorf("asm: line %d: invalid int constant: %w", a.lineNo, err)
			}
			a.c.AddConstant(value.IntValue(n))
		case "float":
			f, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return fields, fmt.Errorf("asm: line %d: invalid float constant: %w", a.lineNo, err)
			}
			a.c.AddConstant(value.FloatValue(f))
		case "bool":
			a.c.AddConstant(value.BoolValue(fields[1] == "true"))
		case "none":
			a.c.AddConstant(value.NoneValue)
		case "string":
			s, err := a.unquote(strings.Join(fields[1:], " "))
			if err != nil {
				return fields, fmt.Errorf("asm: line %d: %w", a.lineNo, err)
			}
			a.c.AddConstant(value.ObjectValue(a.h.CopyString([]byte(s))))
		default:
			return fields, fmt.Errorf("asm: line %d: unknown constant type %q", a.lineNo, fields[0])
		}
	}
	return fields, nil
}

func (a *assembler) codeSection() error {
	var lines []codeLine
	for fields := a.next(); len(fields) > 0; fields = a.next() {
		name := strings.ToUpper(fields[0])
		op, ok := nameToOpcode[name]
		if !ok {
			return fmt.Errorf("asm: line %d: unknown opcode %q", a.lineNo, fields[0])
		}

		cl := codeLine{line: a.lineNo, op: op, name: name}
		rest := fields[1:]

		if closureOpcodes[name] {
			if len(rest) == 0 {
				return fmt.Errorf("asm: line %d: %s requires a constant index", a.lineNo, name)
			}
			idx, err := strconv.Atoi(rest[0])
			if err != nil {
				return fmt.Errorf("asm: line %d: invalid constant index: %w", a.lineNo, err)
			}
			cl.arg, cl.hasArg = idx, true
			for _, pair := range rest[1:] {
				kv := strings.SplitN(pair, ":", 2)
				if len(kv) != 2 {
					return fmt.Errorf("asm: line %d: invalid capture %q, want local:N or upvalue:N", a.lineNo, pair)
				}
				n, err := strconv.Atoi(kv[1])
				if err != nil {
					return fmt.Errorf("asm: line %d: invalid capture index: %w", a.lineNo, err)
				}
				isLocal := 0
				switch kv[0] {
				case "local":
					isLocal = 1
				case "upvalue":
				default:
					return fmt.Errorf("asm: line %d: invalid capture kind %q", a.lineNo, kv[0])
				}
				cl.trailer = append(cl.trailer, [2]int{isLocal, n})
			}
		} else if len(rest) == 1 {
			n, err := strconv.Atoi(rest[0])
			if err != nil {
				return fmt.Errorf("asm: line %d: invalid operand: %w", a.lineNo, err)
			}
			cl.arg, cl.hasArg = n, true
		} else if len(rest) > 1 {
			return fmt.Errorf("asm: line %d: %s takes at most one operand", a.lineNo, name)
		}

		lines = append(lines, cl)
	}

	// index (by code-line position) -> byte offset, needed to translate
	// jump targets expressed as line indices into byte displacements.
	offsets := make([]int, len(lines))
	offset := 0
	for i, cl := range lines {
		offsets[i] = offset
		offset += instructionSize(cl)
	}

	for i, cl := range lines {
		if jumpOpcodes[cl.name] != 0 {
			if !cl.hasArg || cl.arg < 0 || cl.arg >= len(offsets) {
				return fmt.Errorf("asm: line %d: invalid jump target %d", cl.line, cl.arg)
			}
			targetOffset := offsets[cl.arg]
			sourceOffset := offsets[i] + 3
			var disp int
			if jumpOpcodes[cl.name] > 0 {
				disp = targetOffset - sourceOffset
			} else {
				disp = sourceOffset - targetOffset
			}
			if disp < 0 {
				return fmt.Errorf("asm: line %d: negative displacement for %s", cl.line, cl.name)
			}
			a.c.WriteOp(cl.op, cl.line)
			a.c.WriteByte(byte(disp>>8), cl.line)
			a.c.WriteByte(byte(disp), cl.line)
			continue
		}

		switch {
		case !cl.hasArg:
			a.c.WriteOp(cl.op, cl.line)
		case strings.HasSuffix(cl.name, "_LONG"):
			a.c.WriteOp(cl.op, cl.line)
			a.c.WriteByte(byte(cl.arg>>16), cl.line)
			a.c.WriteByte(byte(cl.arg>>8), cl.line)
			a.c.WriteByte(byte(cl.arg), cl.line)
		default:
			a.c.WriteOp(cl.op, cl.line)
			a.c.WriteByte(byte(cl.arg), cl.line)
		}

		for _, pair := range cl.trailer {
			a.c.WriteByte(byte(pair[0]), cl.line)
			a.c.WriteByte(byte(pair[1]), cl.line)
		}
	}

	return nil
}

// instructionSize predicts the number of bytes a code line will emit,
// needed up front so jump targets (expressed as line indices) can be
// translated to byte offsets before any bytes are written.
func instructionSize(cl codeLine) int {
	if jumpOpcodes[cl.name] != 0 {
		return 3
	}
	if !cl.hasArg {
		return 1
	}
	size := 1
	if strings.HasSuffix(cl.name, "_LONG") {
		size += 3
	} else {
		size++
	}
	size += 2 * len(cl.trailer)
	return size
}

func (a *assembler) unquote(s string) (string, error) {
	s = strings.TrimSpace(s)
	return strconv.Unquote(s)
}

// next returns the fields of the next non-empty, non-comment line.
func (a *assembler) next() []string {
	a.rawLine = ""
	for a.s.Scan() {
		a.lineNo++
		line := a.s.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		for i, f := range fields {
			if strings.HasPrefix(f, "#") {
				fields = fields[:i]
				break
			}
		}
		a.rawLine = line
		return fields
	}
	return nil
}
