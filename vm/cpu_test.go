package vm_test

import (
	"testing"

	"github.com/example/regvm/vm"
)

func TestCPURegisterBoundsChecking(t *testing.T) {
	var c vm.CPU
	if _, ok := c.Register(-1); ok {
		t.Error("Register(-1) should report ok=false")
	}
	if _, ok := c.Register(32); ok {
		t.Error("Register(32) should report ok=false")
	}
	if _, ok := c.Register(31); !ok {
		t.Error("Register(31) should report ok=true")
	}
}

func TestCPUSetRegisterBoundsChecking(t *testing.T) {
	var c vm.CPU
	if c.SetRegister(32, 1) {
		t.Error("SetRegister(32, ...) should report false")
	}
	if !c.SetRegister(0, 42) {
		t.Fatal("SetRegister(0, ...) should succeed")
	}
	got, _ := c.Register(0)
	if got != 42 {
		t.Errorf("r0 = %d, want 42", got)
	}
}

func TestCPUReset(t *testing.T) {
	var c vm.CPU
	c.SetRegister(3, 9)
	c.Remainder = 7
	c.Equal = true

	c.Reset()

	if got, _ := c.Register(3); got != 0 {
		t.Errorf("r3 = %d after Reset, want 0", got)
	}
	if c.Remainder != 0 {
		t.Errorf("Remainder = %d after Reset, want 0", c.Remainder)
	}
	if c.Equal {
		t.Error("Equal should be false after Reset")
	}
}
