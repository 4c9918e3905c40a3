// Package vm implements the register-machine interpreter: it loads a
// bytecode image, verifies its header, and drives a fetch-decode-execute
// loop.
package vm

import (
	"io"
	"os"

	"github.com/example/regvm/assembler"
)

// Status is VM.Run's result code.
type Status int

const (
	// StatusOK means the program ran to HLT or fell off the end of the
	// code body.
	StatusOK Status = 0
	// StatusBadHeader means the loaded bytes did not start with the
	// image magic prefix; Run refuses to execute.
	StatusBadHeader Status = 1
	// StatusIllegalOpcode means an IGL opcode terminated the run.
	StatusIllegalOpcode Status = 2
	// StatusRuntimeError means Step returned an error other than an
	// illegal opcode (e.g. divide by zero).
	StatusRuntimeError Status = 3
	// StatusCycleLimitExceeded means Run stopped a program that was
	// still executing once it reached MaxCycles steps.
	StatusCycleLimitExceeded Status = 4
)

// VM is the complete machine state: 32 signed registers, a program
// counter, the loaded program bytes, and the heap/ro byte vectors.
type VM struct {
	CPU CPU
	Mem Memory

	PC      uint32
	Program []byte

	// LastError carries the error from the instruction that stopped
	// execution (nil on a clean HLT).
	LastError error

	// Stdout is where PRTS writes; it defaults to os.Stdout but can be
	// swapped out for testing or for an embedding tool.
	Stdout io.Writer

	// MaxCycles bounds how many instructions Run will execute before
	// giving up on a program that never reaches HLT. Zero means
	// unbounded.
	MaxCycles uint64

	// Cycles counts instructions executed by Run so far.
	Cycles uint64
}

// New creates a VM with no program loaded.
func New() *VM {
	return &VM{Stdout: os.Stdout}
}

// AddBytes appends bytes to the VM's program. Typically called once with
// an assembled image's full byte slice (header + code).
func (v *VM) AddBytes(b []byte) {
	v.Program = append(v.Program, b...)
}

// LoadImage installs an assembled image's header and code bytes and hands over its
// read-only buffer out-of-band, in one call.
func (v *VM) LoadImage(img *assembler.Image) {
	v.AddBytes(img.Bytes)
	v.Mem.SetReadOnly(img.RO)
}

// Registers returns a snapshot of the register file, for tooling.
func (v *VM) Registers() [32]int32 {
	return v.CPU.R
}

// ReadOnly returns the installed read-only buffer, for tooling.
func (v *VM) ReadOnly() []byte {
	return v.Mem.ReadOnly()
}

func (v *VM) checkHeader() bool {
	if len(v.Program) < assembler.HeaderLength {
		return false
	}
	for i, b := range assembler.Magic {
		if v.Program[i] != b {
			return false
		}
	}
	return true
}

// Run verifies the header, positions the program counter past it, and
// executes instructions until termination.
func (v *VM) Run() Status {
	if !v.checkHeader() {
		return StatusBadHeader
	}
	v.PC = assembler.HeaderLength

	for {
		if v.MaxCycles != 0 && v.Cycles >= v.MaxCycles {
			return StatusCycleLimitExceeded
		}
		done, err := v.Step()
		v.Cycles++
		if err != nil {
			v.LastError = err
			if err == ErrIllegalOpcode {
				return StatusIllegalOpcode
			}
			return StatusRuntimeError
		}
		if done {
			return StatusOK
		}
	}
}

// RunOnce executes exactly one instruction and reports whether the VM
// has halted. It does not verify the header; callers driving the VM
// instruction-by-instruction (an interactive inspector, for instance)
// are expected to call Run once to completion or set PC themselves
// after their own header check.
func (v *VM) RunOnce() bool {
	done, err := v.Step()
	if err != nil {
		v.LastError = err
		return true
	}
	return done
}
