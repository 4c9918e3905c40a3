package vm

import (
	"encoding/binary"
	"fmt"

	"github.com/example/regvm/token"
)

// Step decodes and executes the single instruction at PC. It reports
// done=true when the program counter has run off the end of the code
// body, or HLT/IGL was just decoded. Any other successful execution
// advances PC by exactly token.InstructionWidth bytes beyond the opcode
// byte it consumed, or reassigns PC directly for a branching opcode.
func (v *VM) Step() (done bool, err error) {
	if v.PC+token.InstructionWidth > uint32(len(v.Program)) {
		return true, nil
	}

	opcode := token.Opcode(v.Program[v.PC])
	ops := v.Program[v.PC+1 : v.PC+token.InstructionWidth]
	next := v.PC + token.InstructionWidth

	switch opcode {
	case token.HLT:
		return true, nil

	case token.LOAD:
		reg := int(ops[0])
		imm := binary.BigEndian.Uint16(ops[1:3])
		if !v.CPU.SetRegister(reg, int32(imm)) {
			return true, fmt.Errorf("LOAD: register out of range: %d", reg)
		}
		v.PC = next

	case token.ADD:
		if err := v.binaryOp(ops, func(a, b int32) int32 { return a + b }); err != nil {
			return true, err
		}
		v.PC = next

	case token.SUB:
		if err := v.binaryOp(ops, func(a, b int32) int32 { return a - b }); err != nil {
			return true, err
		}
		v.PC = next

	case token.MUL:
		if err := v.binaryOp(ops, func(a, b int32) int32 { return a * b }); err != nil {
			return true, err
		}
		v.PC = next

	case token.DIV:
		if err := v.execDiv(ops); err != nil {
			return true, err
		}
		v.PC = next

	case token.JMP:
		target, err := v.regValueUnsigned(ops[0])
		if err != nil {
			return true, err
		}
		v.PC = target

	case token.JMPF:
		delta, err := v.regValueUnsigned(ops[0])
		if err != nil {
			return true, err
		}
		v.PC = v.PC + delta

	case token.JMPB:
		delta, err := v.regValueUnsigned(ops[0])
		if err != nil {
			return true, err
		}
		v.PC = v.PC - delta

	case token.EQ:
		if err := v.compare(ops, func(a, b int32) bool { return a == b }); err != nil {
			return true, err
		}
		v.PC = next

	case token.NEQ:
		if err := v.compare(ops, func(a, b int32) bool { return a != b }); err != nil {
			return true, err
		}
		v.PC = next

	case token.GT:
		if err := v.compare(ops, func(a, b int32) bool { return a > b }); err != nil {
			return true, err
		}
		v.PC = next

	case token.LT:
		if err := v.compare(ops, func(a, b int32) bool { return a < b }); err != nil {
			return true, err
		}
		v.PC = next

	case token.GTQ:
		if err := v.compare(ops, func(a, b int32) bool { return a >= b }); err != nil {
			return true, err
		}
		v.PC = next

	case token.LTQ:
		if err := v.compare(ops, func(a, b int32) bool { return a <= b }); err != nil {
			return true, err
		}
		v.PC = next

	case token.JEQ:
		if v.CPU.Equal {
			target, err := v.regValueUnsigned(ops[0])
			if err != nil {
				return true, err
			}
			v.PC = target
		} else {
			v.PC = next
		}

	case token.ALOC:
		size, ok := v.CPU.Register(int(ops[0]))
		if !ok {
			return true, fmt.Errorf("ALOC: register out of range: %d", ops[0])
		}
		v.Mem.Grow(size)
		v.PC = next

	case token.INC:
		reg := int(ops[0])
		value, ok := v.CPU.Register(reg)
		if !ok {
			return true, fmt.Errorf("INC: register out of range: %d", reg)
		}
		v.CPU.SetRegister(reg, value+1)
		v.PC = next

	case token.DEC:
		reg := int(ops[0])
		value, ok := v.CPU.Register(reg)
		if !ok {
			return true, fmt.Errorf("DEC: register out of range: %d", reg)
		}
		v.CPU.SetRegister(reg, value-1)
		v.PC = next

	case token.PRTS:
		offset := binary.BigEndian.Uint16(ops[0:2])
		text, err := v.Mem.CString(offset)
		if err != nil {
			return true, err
		}
		fmt.Fprintf(v.Stdout, "%s\n", text)
		v.PC = next

	default:
		return true, ErrIllegalOpcode
	}

	return false, nil
}

func (v *VM) binaryOp(ops []byte, f func(a, b int32) int32) error {
	a, ok1 := v.CPU.Register(int(ops[0]))
	b, ok2 := v.CPU.Register(int(ops[1]))
	if !ok1 || !ok2 {
		return fmt.Errorf("register out of range: %d, %d", ops[0], ops[1])
	}
	if !v.CPU.SetRegister(int(ops[2]), f(a, b)) {
		return fmt.Errorf("register out of range: %d", ops[2])
	}
	return nil
}

func (v *VM) compare(ops []byte, f func(a, b int32) bool) error {
	a, ok1 := v.CPU.Register(int(ops[0]))
	b, ok2 := v.CPU.Register(int(ops[1]))
	if !ok1 || !ok2 {
		return fmt.Errorf("register out of range: %d, %d", ops[0], ops[1])
	}
	v.CPU.Equal = f(a, b)
	return nil
}

func (v *VM) execDiv(ops []byte) error {
	a, ok1 := v.CPU.Register(int(ops[0]))
	b, ok2 := v.CPU.Register(int(ops[1]))
	if !ok1 || !ok2 {
		return fmt.Errorf("register out of range: %d, %d", ops[0], ops[1])
	}
	if b == 0 {
		return ErrDivideByZero
	}
	if !v.CPU.SetRegister(int(ops[2]), a/b) {
		return fmt.Errorf("register out of range: %d", ops[2])
	}
	v.CPU.Remainder = uint32(a % b)
	return nil
}

// regValueUnsigned reads a register as a branch target/offset. Branch
// registers hold addresses, which are always non-negative in programs
// produced by this assembler; a negative register value (from hand
// crafted bytecode) reinterprets as the corresponding large uint32, the
// same wraparound a direct cast would give in the reference semantics.
func (v *VM) regValueUnsigned(reg byte) (uint32, error) {
	value, ok := v.CPU.Register(int(reg))
	if !ok {
		return 0, fmt.Errorf("register out of range: %d", reg)
	}
	return uint32(value), nil
}
