package chunk

import "fmt"

// Opcode is a single bytecode instruction tag. Every opcode is one byte;
// operand shape (none, 1-byte, 3-byte big-endian, or 2-byte jump
// displacement) is fixed per opcode, per the encoding classes below.
type Opcode byte

const (
	// Arithmetic & comparison (simple)
	OpAdd Opcode = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpNegate
	OpEqual
	OpGreater
	OpLess
	OpNot
	OpBitOr
	OpBitXor
	OpBitAnd
	OpShiftLeft
	OpShiftRight
	OpBitNegate

	// Literals (simple / constant)
	OpNone
	OpTrue
	OpFalse
	OpConstant // constant-short / constant-long: push constants[index]
	OpConstantLong

	// Stack (simple / short)
	OpPop
	OpDup        // operand-short: count
	OpSwap
	OpExpandArgs // operand-short: count

	// Globals (constant-short / constant-long)
	OpDefineGlobal
	OpDefineGlobalLong
	OpGetGlobal
	OpGetGlobalLong
	OpSetGlobal
	OpSetGlobalLong

	// Locals/upvalues (operand-short / operand-long)
	OpGetLocal
	OpGetLocalLong
	OpSetLocal
	OpSetLocalLong
	OpGetUpvalue
	OpGetUpvalueLong
	OpSetUpvalue
	OpSetUpvalueLong

	// Control flow (jump)
	OpJump
	OpJumpIfFalse
	OpJumpIfTrue
	OpLoop
	OpPushTry

	// Calls
	OpCall // operand-short / operand-long
	OpCallLong
	OpCallStack // simple
	OpInvokeGetter
	OpInvokeSetter
	OpInvokeGetslice
	OpKwargs // operand-short / operand-long
	OpKwargsLong

	// Objects
	OpClass // constant-short / constant-long
	OpClassLong
	OpMethod
	OpMethodLong
	OpInherit // simple
	OpGetProperty
	OpGetPropertyLong
	OpSetProperty
	OpSetPropertyLong
	OpGetSuper
	OpGetSuperLong
	OpDocstring // simple
	OpFinalize  // simple

	// Closures
	OpClosure // constant-short / constant-long, followed by capture trailer
	OpClosureLong

	// Upvalue lifecycle
	OpCloseUpvalue // simple

	// Misc
	OpReturn // simple
	OpRaise  // simple
	OpImport // constant-short / constant-long
	OpImportLong
	OpInc // operand-short / operand-long
	OpIncLong
)

// opcodeNames is indexed by Opcode for O(1) name lookup by the disassembler.
var opcodeNames = [...]string{
	OpAdd:        "OP_ADD",
	OpSubtract:   "OP_SUBTRACT",
	OpMultiply:   "OP_MULTIPLY",
	OpDivide:     "OP_DIVIDE",
	OpModulo:     "OP_MODULO",
	OpNegate:     "OP_NEGATE",
	OpEqual:      "OP_EQUAL",
	OpGreater:    "OP_GREATER",
	OpLess:       "OP_LESS",
	OpNot:        "OP_NOT",
	OpBitOr:      "OP_BITOR",
	OpBitXor:     "OP_BITXOR",
	OpBitAnd:     "OP_BITAND",
	OpShiftLeft:  "OP_SHIFTLEFT",
	OpShiftRight: "OP_SHIFTRIGHT",
	OpBitNegate:  "OP_BITNEGATE",

	OpNone:         "OP_NONE",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpConstant:     "OP_CONSTANT",
	OpConstantLong: "OP_CONSTANT_LONG",

	OpPop:        "OP_POP",
	OpDup:        "OP_DUP",
	OpSwap:       "OP_SWAP",
	OpExpandArgs: "OP_EXPAND_ARGS",

	OpDefineGlobal:     "OP_DEFINE_GLOBAL",
	OpDefineGlobalLong: "OP_DEFINE_GLOBAL_LONG",
	OpGetGlobal:        "OP_GET_GLOBAL",
	OpGetGlobalLong:    "OP_GET_GLOBAL_LONG",
	OpSetGlobal:        "OP_SET_GLOBAL",
	OpSetGlobalLong:    "OP_SET_GLOBAL_LONG",

	OpGetLocal:        "OP_GET_LOCAL",
	OpGetLocalLong:    "OP_GET_LOCAL_LONG",
	OpSetLocal:        "OP_SET_LOCAL",
	OpSetLocalLong:    "OP_SET_LOCAL_LONG",
	OpGetUpvalue:      "OP_GET_UPVALUE",
	OpGetUpvalueLong:  "OP_GET_UPVALUE_LONG",
	OpSetUpvalue:      "OP_SET_UPVALUE",
	OpSetUpvalueLong:  "OP_SET_UPVALUE_LONG",

	OpJump:        "OP_JUMP",
	OpJumpIfFalse: "OP_JUMP_IF_FALSE",
	OpJumpIfTrue:  "OP_JUMP_IF_TRUE",
	OpLoop:        "OP_LOOP",
	OpPushTry:     "OP_PUSH_TRY",

	OpCall:           "OP_CALL",
	OpCallLong:       "OP_CALL_LONG",
	OpCallStack:      "OP_CALL_STACK",
	OpInvokeGetter:   "OP_INVOKE_GETTER",
	OpInvokeSetter:   "OP_INVOKE_SETTER",
	OpInvokeGetslice: "OP_INVOKE_GETSLICE",
	OpKwargs:         "OP_KWARGS",
	OpKwargsLong:     "OP_KWARGS_LONG",

	OpClass:           "OP_CLASS",
	OpClassLong:       "OP_CLASS_LONG",
	OpMethod:          "OP_METHOD",
	OpMethodLong:      "OP_METHOD_LONG",
	OpInherit:         "OP_INHERIT",
	OpGetProperty:     "OP_GET_PROPERTY",
	OpGetPropertyLong: "OP_GET_PROPERTY_LONG",
	OpSetProperty:     "OP_SET_PROPERTY",
	OpSetPropertyLong: "OP_SET_PROPERTY_LONG",
	OpGetSuper:        "OP_GET_SUPER",
	OpGetSuperLong:    "OP_GET_SUPER_LONG",
	OpDocstring:       "OP_DOCSTRING",
	OpFinalize:        "OP_FINALIZE",

	OpClosure:     "OP_CLOSURE",
	OpClosureLong: "OP_CLOSURE_LONG",

	OpCloseUpvalue: "OP_CLOSE_UPVALUE",

	OpReturn:   "OP_RETURN",
	OpRaise:    "OP_RAISE",
	OpImport:   "OP_IMPORT",
	OpImportLong: "OP_IMPORT_LONG",
	OpInc:      "OP_INC",
	OpIncLong:  "OP_INC_LONG",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return fmt.Sprintf("OP_UNKNOWN(%d)", byte(op))
}

// class categorizes an opcode's operand encoding.
type class uint8

const (
	classSimple class = iota
	classOperandShort
	classOperandLong
	classConstantShort
	classConstantLong
	classJump
	classClosureShort
	classClosureLong
)

var opcodeClass = map[Opcode]class{
	OpAdd: classSimple, OpSubtract: classSimple, OpMultiply: classSimple,
	OpDivide: classSimple, OpModulo: classSimple, OpNegate: classSimple,
	OpEqual: classSimple, OpGreater: classSimple, OpLess: classSimple,
	OpNot: classSimple, OpBitOr: classSimple, OpBitXor: classSimple,
	OpBitAnd: classSimple, OpShiftLeft: classSimple, OpShiftRight: classSimple,
	OpBitNegate: classSimple,
	OpNone:      classSimple, OpTrue: classSimple, OpFalse: classSimple,
	OpConstant: classConstantShort, OpConstantLong: classConstantLong,
	OpPop: classSimple, OpSwap: classSimple,
	OpDup: classOperandShort, OpExpandArgs: classOperandShort,

	OpDefineGlobal: classConstantShort, OpDefineGlobalLong: classConstantLong,
	OpGetGlobal: classConstantShort, OpGetGlobalLong: classConstantLong,
	OpSetGlobal: classConstantShort, OpSetGlobalLong: classConstantLong,

	OpGetLocal: classOperandShort, OpGetLocalLong: classOperandLong,
	OpSetLocal: classOperandShort, OpSetLocalLong: classOperandLong,
	OpGetUpvalue: classOperandShort, OpGetUpvalueLong: classOperandLong,
	OpSetUpvalue: classOperandShort, OpSetUpvalueLong: classOperandLong,

	OpJump: classJump, OpJumpIfFalse: classJump, OpJumpIfTrue: classJump,
	OpLoop: classJump, OpPushTry: classJump,

	OpCall: classOperandShort, OpCallLong: classOperandLong,
	OpCallStack: classSimple, OpInvokeGetter: classSimple,
	OpInvokeSetter: classSimple, OpInvokeGetslice: classSimple,
	OpKwargs: classOperandShort, OpKwargsLong: classOperandLong,

	OpClass: classConstantShort, OpClassLong: classConstantLong,
	OpMethod: classConstantShort, OpMethodLong: classConstantLong,
	OpInherit: classSimple,
	OpGetProperty: classConstantShort, OpGetPropertyLong: classConstantLong,
	OpSetProperty: classConstantShort, OpSetPropertyLong: classConstantLong,
	OpGetSuper: classConstantShort, OpGetSuperLong: classConstantLong,
	OpDocstring: classSimple, OpFinalize: classSimple,

	OpClosure: classClosureShort, OpClosureLong: classClosureLong,

	OpCloseUpvalue: classSimple,

	OpReturn: classSimple, OpRaise: classSimple,
	OpImport: classConstantShort, OpImportLong: classConstantLong,
	OpInc: classOperandShort, OpIncLong: classOperandLong,
}
