package ir

// Op is an instruction opcode. It is a closed, string-backed enum sized
// to exactly the opcodes this IR's evaluator dispatches on.
type Op string

const (
	OpConst Op = "const"
	OpID    Op = "id"

	OpAdd Op = "add"
	OpMul Op = "mul"
	OpSub Op = "sub"
	OpDiv Op = "div"

	OpLt Op = "lt"
	OpLe Op = "le"
	OpGt Op = "gt"
	OpGe Op = "ge"
	OpEq Op = "eq"

	OpNot Op = "not"
	OpAnd Op = "and"
	OpOr  Op = "or"

	OpFAdd Op = "fadd"
	OpFSub Op = "fsub"
	OpFMul Op = "fmul"
	OpFDiv Op = "fdiv"

	OpFLt Op = "flt"
	OpFLe Op = "fle"
	OpFGt Op = "fgt"
	OpFGe Op = "fge"
	OpFEq Op = "feq"

	OpPrint Op = "print"
	OpJmp   Op = "jmp"
	OpBr    Op = "br"
	OpRet   Op = "ret"
	OpNop   Op = "nop"
	OpCall  Op = "call"

	OpAlloc  Op = "alloc"
	OpFree   Op = "free"
	OpStore  Op = "store"
	OpLoad   Op = "load"
	OpPtrAdd Op = "ptradd"
	OpPhi    Op = "phi"

	OpSpeculate Op = "speculate"
	OpGuard     Op = "guard"
	OpCommit    Op = "commit"
)

// fixedArity holds the argument count for every op whose arity is a
// single fixed number.
var fixedArity = map[Op]int{
	OpID: 1,

	OpAdd: 2,
	OpMul: 2,
	OpSub: 2,
	OpDiv: 2,

	OpLt: 2,
	OpLe: 2,
	OpGt: 2,
	OpGe: 2,
	OpEq: 2,

	OpNot: 1,
	OpAnd: 2,
	OpOr:  2,

	OpFAdd: 2,
	OpFSub: 2,
	OpFMul: 2,
	OpFDiv: 2,

	OpFLt: 2,
	OpFLe: 2,
	OpFGt: 2,
	OpFGe: 2,
	OpFEq: 2,

	OpJmp: 0,
	OpBr:  1,
	OpNop: 0,

	OpAlloc:  1,
	OpFree:   1,
	OpStore:  2,
	OpLoad:   1,
	OpPtrAdd: 2,

	OpSpeculate: 0,
	OpGuard:     1,
	OpCommit:    0,
}

// variableArity is the set of ops whose argument count is not a single
// fixed number: const takes no args and is exempt from the arity check
// entirely; print, ret, call, and phi each have their own per-instruction
// arity rule enforced by the evaluator rather than by a table lookup.
var variableArity = map[Op]bool{
	OpConst: true,
	OpPrint: true,
	OpRet:   true,
	OpCall:  true,
	OpPhi:   true,
}

// Arity reports the expected argument count for op. ok is false if op is
// not a recognized opcode at all. fixed is false if op's arity is
// variable (including const, which skips the arity check).
func Arity(op Op) (n int, fixed bool, ok bool) {
	if n, isFixed := fixedArity[op]; isFixed {
		return n, true, true
	}
	if variableArity[op] {
		return 0, false, true
	}
	return 0, false, false
}
