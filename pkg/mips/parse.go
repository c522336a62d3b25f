package mips

import (
	"fmt"
	"strconv"
	"strings"

	"compiscript/pkg/tac"
)

var binOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"&&": true, "||": true,
}

// ParseText recognizes the §6.3 textual TAC grammar (plus the
// ARRAY_LENGTH/ARRAY_ACCESS/ARRAY_ASSIGN/NEW_OBJECT pseudo-ops package
// tac's own renderer emits), so C5 can run directly against a TAC
// listing read from disk instead of the in-memory instruction slice
// package tac produces (§4.5: "accepts either a TAC instruction stream
// or the textual TAC"). A malformed line is an internal diagnostic
// (§7): never expected against C4's own output, but reported rather
// than panicking.
func ParseText(text string) ([]tac.Instruction, error) {
	var out []tac.Instruction
	for lineNo, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		ins, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		out = append(out, ins)
	}
	return out, nil
}

func parseLine(line string) (tac.Instruction, error) {
	switch {
	case strings.HasPrefix(line, "FUNCTION ") && strings.HasSuffix(line, ":"):
		name := strings.TrimSuffix(strings.TrimPrefix(line, "FUNCTION "), ":")
		return tac.Instruction{Op: tac.OpFunctionBegin, FuncName: name}, nil
	case strings.HasPrefix(line, "END FUNCTION "):
		return tac.Instruction{Op: tac.OpFunctionEnd, FuncName: strings.TrimPrefix(line, "END FUNCTION ")}, nil
	case strings.HasPrefix(line, "GOTO "):
		return tac.Instruction{Op: tac.OpGoto, Label: strings.TrimPrefix(line, "GOTO ")}, nil
	case strings.HasPrefix(line, "IF "):
		return parseIfGoto(line)
	case strings.HasPrefix(line, "PARAM "):
		return tac.Instruction{Op: tac.OpParam, Arg1: strings.TrimPrefix(line, "PARAM ")}, nil
	case strings.HasPrefix(line, "CALL "):
		return parseCall(line)
	case line == "RETURN":
		return tac.Instruction{Op: tac.OpReturn}, nil
	case strings.HasPrefix(line, "RETURN "):
		return tac.Instruction{Op: tac.OpReturn, HasValue: true, Arg1: strings.TrimPrefix(line, "RETURN ")}, nil
	case strings.HasPrefix(line, "PRINT "):
		return tac.Instruction{Op: tac.OpPrint, Arg1: strings.TrimPrefix(line, "PRINT ")}, nil
	case strings.HasPrefix(line, "ARRAY_ASSIGN "):
		return parseArrayAssign(line)
	case strings.HasSuffix(line, ":") && !strings.Contains(line, " "):
		return tac.Instruction{Op: tac.OpLabel, Label: strings.TrimSuffix(line, ":")}, nil
	case strings.Contains(line, " := "):
		return parseAssignFamily(line)
	}
	return tac.Instruction{}, fmt.Errorf("unrecognized TAC line: %q", line)
}

func parseIfGoto(line string) (tac.Instruction, error) {
	rest := strings.TrimPrefix(line, "IF ")
	idx := strings.Index(rest, " > 0 GOTO ")
	if idx < 0 {
		return tac.Instruction{}, fmt.Errorf("malformed IF line: %q", line)
	}
	cond := rest[:idx]
	label := rest[idx+len(" > 0 GOTO "):]
	return tac.Instruction{Op: tac.OpIfGoto, Arg1: cond, Label: label}, nil
}

func parseCall(line string) (tac.Instruction, error) {
	rest := strings.TrimPrefix(line, "CALL ")
	parts := strings.Split(rest, ",")
	if len(parts) != 2 {
		return tac.Instruction{}, fmt.Errorf("malformed CALL line: %q", line)
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return tac.Instruction{}, fmt.Errorf("malformed CALL argument count: %q", line)
	}
	return tac.Instruction{Op: tac.OpCall, CallName: parts[0], CallN: n}, nil
}

func parseArrayAssign(line string) (tac.Instruction, error) {
	rest := strings.TrimPrefix(line, "ARRAY_ASSIGN ")
	parts := strings.SplitN(rest, ",", 3)
	if len(parts) != 3 {
		return tac.Instruction{}, fmt.Errorf("malformed ARRAY_ASSIGN line: %q", line)
	}
	return tac.Instruction{Op: tac.OpArrayAssign, Dest: parts[0], Arg1: parts[1], Arg2: parts[2]}, nil
}

func parseAssignFamily(line string) (tac.Instruction, error) {
	idx := strings.Index(line, " := ")
	dest := line[:idx]
	rhs := line[idx+len(" := "):]

	switch {
	case strings.HasPrefix(rhs, "ARRAY_ACCESS "):
		parts := strings.SplitN(strings.TrimPrefix(rhs, "ARRAY_ACCESS "), ",", 2)
		if len(parts) != 2 {
			return tac.Instruction{}, fmt.Errorf("malformed ARRAY_ACCESS line: %q", line)
		}
		return tac.Instruction{Op: tac.OpArrayAccess, Dest: dest, Arg1: parts[0], Arg2: parts[1]}, nil
	case strings.HasPrefix(rhs, "ARRAY_LENGTH "):
		return tac.Instruction{Op: tac.OpArrayLength, Dest: dest, Arg1: strings.TrimPrefix(rhs, "ARRAY_LENGTH ")}, nil
	case strings.HasPrefix(rhs, "NEW_OBJECT "):
		return tac.Instruction{Op: tac.OpNewObject, Dest: dest, FuncName: strings.TrimPrefix(rhs, "NEW_OBJECT ")}, nil
	case rhs == "R":
		return tac.Instruction{Op: tac.OpAssign, Dest: dest, Arg1: "R"}, nil
	case rhs == "READ":
		return tac.Instruction{Op: tac.OpRead, Dest: dest}, nil
	}

	if strings.HasPrefix(rhs, "\"") {
		return tac.Instruction{Op: tac.OpAssign, Dest: dest, Arg1: rhs}, nil
	}
	if op1, binop, op2, ok := splitBinary(rhs); ok {
		return tac.Instruction{Op: tac.OpBinary, Dest: dest, Arg1: op1, BinOp: binop, Arg2: op2}, nil
	}
	if rhs != "" && (rhs[0] == '-' || rhs[0] == '!') && !isLiteralOperand(rhs) {
		return tac.Instruction{Op: tac.OpUnary, Dest: dest, UnOp: rhs[:1], Arg1: rhs[1:]}, nil
	}
	return tac.Instruction{Op: tac.OpAssign, Dest: dest, Arg1: rhs}, nil
}

// isLiteralOperand reports whether s is a bare negative integer literal
// (as opposed to a unary-minus expression over an operand), so
// parseAssignFamily doesn't misread "-5" as "NEG 5".
func isLiteralOperand(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

// splitBinary splits rhs at the first whitespace-separated field that is
// exactly one of the recognized binary operators and has a non-empty
// operand on each side; whole-field matching keeps "!=" from being split
// around "=".
func splitBinary(rhs string) (string, string, string, bool) {
	fields := strings.Fields(rhs)
	for i, f := range fields {
		if binOps[f] {
			op1 := strings.Join(fields[:i], " ")
			op2 := strings.Join(fields[i+1:], " ")
			if op1 != "" && op2 != "" {
				return op1, f, op2, true
			}
		}
	}
	return "", "", "", false
}
