package vm_test

import (
	"bytes"
	"testing"

	"github.com/example/regvm/token"
	"github.com/example/regvm/vm"
)

func header() []byte {
	h := make([]byte, 64)
	copy(h, []byte{0x45, 0x50, 0x49, 0x45})
	return h
}

func frame(op token.Opcode, b0, b1, b2 byte) []byte {
	return []byte{byte(op), b0, b1, b2}
}

func TestRunRejectsBadHeader(t *testing.T) {
	v := vm.New()
	v.AddBytes([]byte{0, 0, 0, 0})
	if status := v.Run(); status != vm.StatusBadHeader {
		t.Fatalf("status = %v, want StatusBadHeader", status)
	}
}

func TestRunHalt(t *testing.T) {
	v := vm.New()
	v.AddBytes(header())
	v.AddBytes(frame(token.HLT, 0, 0, 0))
	if status := v.Run(); status != vm.StatusOK {
		t.Fatalf("status = %v, want StatusOK", status)
	}
}

func TestRunIllegalOpcode(t *testing.T) {
	v := vm.New()
	v.AddBytes(header())
	v.AddBytes(frame(token.Opcode(0xAB), 0, 0, 0))
	if status := v.Run(); status != vm.StatusIllegalOpcode {
		t.Fatalf("status = %v, want StatusIllegalOpcode", status)
	}
}

func TestRunDivideByZero(t *testing.T) {
	v := vm.New()
	v.AddBytes(header())
	v.AddBytes(frame(token.LOAD, 0, 0, 5)) // r0 = 5
	v.AddBytes(frame(token.LOAD, 1, 0, 0)) // r1 = 0
	v.AddBytes(frame(token.DIV, 0, 1, 2))  // r2 = r0 / r1
	if status := v.Run(); status != vm.StatusRuntimeError {
		t.Fatalf("status = %v, want StatusRuntimeError", status)
	}
	if v.LastError != vm.ErrDivideByZero {
		t.Fatalf("LastError = %v, want ErrDivideByZero", v.LastError)
	}
}

func TestRunCycleLimitExceeded(t *testing.T) {
	v := vm.New()
	v.AddBytes(header())
	// LOAD r0 with the address of this very instruction, then JMP r0:
	// an infinite loop that MaxCycles must cut off.
	loopOffset := uint16(64)
	v.AddBytes([]byte{byte(token.LOAD), 0, byte(loopOffset >> 8), byte(loopOffset)})
	v.AddBytes(frame(token.JMP, 0, 0, 0))
	v.MaxCycles = 10
	if status := v.Run(); status != vm.StatusCycleLimitExceeded {
		t.Fatalf("status = %v, want StatusCycleLimitExceeded", status)
	}
	if v.Cycles != 10 {
		t.Fatalf("Cycles = %d, want 10", v.Cycles)
	}
}

func TestALOCGrowsHeap(t *testing.T) {
	v := vm.New()
	v.AddBytes(header())
	v.AddBytes(frame(token.LOAD, 0, 0, 16)) // r0 = 16
	v.AddBytes(frame(token.ALOC, 0, 0, 0))
	v.AddBytes(frame(token.HLT, 0, 0, 0))
	if status := v.Run(); status != vm.StatusOK {
		t.Fatalf("status = %v, want StatusOK", status)
	}
	if len(v.Mem.Heap()) != 16 {
		t.Fatalf("heap length = %d, want 16", len(v.Mem.Heap()))
	}
}

func TestIncDec(t *testing.T) {
	v := vm.New()
	v.AddBytes(header())
	v.AddBytes(frame(token.LOAD, 0, 0, 5))
	v.AddBytes(frame(token.INC, 0, 0, 0))
	v.AddBytes(frame(token.INC, 0, 0, 0))
	v.AddBytes(frame(token.DEC, 0, 0, 0))
	v.AddBytes(frame(token.HLT, 0, 0, 0))
	if status := v.Run(); status != vm.StatusOK {
		t.Fatalf("status = %v, want StatusOK", status)
	}
	if got := v.Registers()[0]; got != 6 {
		t.Fatalf("r0 = %d, want 6", got)
	}
}

func TestPRTSWritesNullTerminatedStringPlusNewline(t *testing.T) {
	v := vm.New()
	v.AddBytes(header())
	v.AddBytes(frame(token.PRTS, 0, 0, 0))
	v.AddBytes(frame(token.HLT, 0, 0, 0))
	v.Mem.SetReadOnly([]byte{'H', 'i', 0})

	var out bytes.Buffer
	v.Stdout = &out
	if status := v.Run(); status != vm.StatusOK {
		t.Fatalf("status = %v, want StatusOK", status)
	}
	if out.String() != "Hi\n" {
		t.Fatalf("stdout = %q, want %q", out.String(), "Hi\n")
	}
}

func TestComparisonOpcodesSetEqualFlag(t *testing.T) {
	v := vm.New()
	v.AddBytes(header())
	v.AddBytes(frame(token.LOAD, 0, 0, 3))
	v.AddBytes(frame(token.LOAD, 1, 0, 4))
	v.AddBytes(frame(token.LT, 0, 1, 0))
	v.AddBytes(frame(token.HLT, 0, 0, 0))
	if status := v.Run(); status != vm.StatusOK {
		t.Fatalf("status = %v, want StatusOK", status)
	}
	if !v.CPU.Equal {
		t.Fatal("expected Equal flag set after r0 < r1")
	}
}

func TestRegisterOutOfRangeIsRuntimeError(t *testing.T) {
	v := vm.New()
	v.AddBytes(header())
	v.AddBytes(frame(token.INC, 99, 0, 0))
	if status := v.Run(); status != vm.StatusRuntimeError {
		t.Fatalf("status = %v, want StatusRuntimeError", status)
	}
}
