package mips

import "compiscript/pkg/tac"

// function is one FUNCTION..END FUNCTION block, sliced out of the flat
// instruction stream along with its label index and leaf status (§4.5
// Pass 1).
type function struct {
	name    string
	instrs  []tac.Instruction
	labels  map[string]int // label name -> index into instrs
	isLeaf  bool            // true iff instrs contains no OpCall
	nextUse []map[string]int
}

// splitFunctions partitions prog into its FUNCTION bodies, recording each
// one's local label map and leaf status. Instructions outside any
// FUNCTION/END FUNCTION pair (there should be none in a well-formed
// program) are ignored.
func splitFunctions(prog []tac.Instruction) []*function {
	var funcs []*function
	var cur *function
	for _, ins := range prog {
		switch ins.Op {
		case tac.OpFunctionBegin:
			cur = &function{name: ins.FuncName, labels: make(map[string]int)}
		case tac.OpFunctionEnd:
			if cur != nil {
				funcs = append(funcs, cur)
				cur = nil
			}
		default:
			if cur == nil {
				continue
			}
			if ins.Op == tac.OpLabel {
				cur.labels[ins.Label] = len(cur.instrs)
			}
			if ins.Op == tac.OpCall {
				cur.isLeaf = false
			}
			cur.instrs = append(cur.instrs, ins)
		}
	}
	for _, fn := range funcs {
		if fn.nextUse == nil {
			fn.isLeaf = !containsCall(fn.instrs)
			fn.nextUse = computeNextUse(fn.instrs)
		}
	}
	return funcs
}

func containsCall(instrs []tac.Instruction) bool {
	for _, ins := range instrs {
		if ins.Op == tac.OpCall {
			return true
		}
	}
	return false
}

// computeNextUse runs the backward next-use scan described in §4.5 Pass 1:
// for index i, result[i][v] holds the nearest index j > i at which v is
// read or written again; v has no entry when no later use exists
// (treated as infinity by the spill-cost model).
func computeNextUse(instrs []tac.Instruction) []map[string]int {
	result := make([]map[string]int, len(instrs))
	next := make(map[string]int)
	for i := len(instrs) - 1; i >= 0; i-- {
		snapshot := make(map[string]int, len(next))
		for v, idx := range next {
			snapshot[v] = idx
		}
		result[i] = snapshot
		for _, v := range instrs[i].Operands() {
			if !isMemoryOrTemp(v) {
				continue
			}
			next[v] = i
		}
	}
	return result
}

// nextUseOf reports the next-use distance for v at instruction index i
// (a large constant when v has no later use), used by the spill-cost
// model (§4.5.1).
func (fn *function) nextUseOf(i int, v string) int {
	const infinity = 1 << 30
	if i < 0 || i >= len(fn.nextUse) {
		return infinity
	}
	if idx, ok := fn.nextUse[i][v]; ok {
		return idx
	}
	return infinity
}

// isMemoryOrTemp reports whether operand s names a value worth tracking
// for register allocation (a temporary or a frame/global/field slot)
// rather than a literal, string, or the R pseudo-register.
func isMemoryOrTemp(s string) bool {
	if s == "" || s == "R" {
		return false
	}
	if len(s) > 0 && (s[0] == '"' || s[0] == '-' && len(s) > 1 && isDigit(s[1])) {
		return false
	}
	if isDigit(s[0]) {
		return false
	}
	return true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
