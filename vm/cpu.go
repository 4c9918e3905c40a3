package vm

import "github.com/example/regvm/token"

// CPU holds the register file and flags. Registers are signed so
// ADD/SUB/MUL/comparison ops behave as ordinary i32 arithmetic; LOAD's
// zero-extension and DIV's unsigned remainder are the two places a
// signed/unsigned distinction actually matters, and those are handled
// at the call site in interp.go.
type CPU struct {
	R [token.RegisterCount]int32

	// Remainder is set by DIV.
	Remainder uint32

	// Equal is set by EQ/NEQ/GT/LT/GTQ/LTQ and read by JEQ.
	Equal bool
}

// Reset zeroes every register and flag.
func (c *CPU) Reset() {
	for i := range c.R {
		c.R[i] = 0
	}
	c.Remainder = 0
	c.Equal = false
}

// Register returns the value of register reg, or ok=false if reg is out
// of range (0..31).
func (c *CPU) Register(reg int) (int32, bool) {
	if reg < 0 || reg >= token.RegisterCount {
		return 0, false
	}
	return c.R[reg], true
}

// SetRegister writes value into register reg, reporting ok=false if reg
// is out of range.
func (c *CPU) SetRegister(reg int, value int32) bool {
	if reg < 0 || reg >= token.RegisterCount {
		return false
	}
	c.R[reg] = value
	return true
}
