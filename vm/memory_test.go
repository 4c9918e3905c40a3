package vm_test

import (
	"testing"

	"github.com/example/regvm/vm"
)

func TestMemoryGrowAppendsZeroedRegion(t *testing.T) {
	var m vm.Memory
	offset := m.Grow(4)
	if offset != 0 {
		t.Fatalf("first Grow offset = %d, want 0", offset)
	}
	offset = m.Grow(4)
	if offset != 4 {
		t.Fatalf("second Grow offset = %d, want 4", offset)
	}
	if len(m.Heap()) != 8 {
		t.Fatalf("heap length = %d, want 8", len(m.Heap()))
	}
}

func TestMemoryGrowNegativeSizeIsTreatedAsZero(t *testing.T) {
	var m vm.Memory
	m.Grow(-5)
	if len(m.Heap()) != 0 {
		t.Fatalf("heap length = %d, want 0", len(m.Heap()))
	}
}

func TestMemoryResetClearsHeapNotReadOnly(t *testing.T) {
	var m vm.Memory
	m.Grow(4)
	m.SetReadOnly([]byte{1, 2, 3})

	m.Reset()

	if len(m.Heap()) != 0 {
		t.Fatalf("heap length after Reset = %d, want 0", len(m.Heap()))
	}
	if len(m.ReadOnly()) != 3 {
		t.Fatalf("read-only length after Reset = %d, want 3", len(m.ReadOnly()))
	}
}

func TestMemoryCStringReadsUpToNulByte(t *testing.T) {
	var m vm.Memory
	m.SetReadOnly([]byte{'h', 'i', 0, 'x'})

	s, err := m.CString(0)
	if err != nil {
		t.Fatalf("CString: %v", err)
	}
	if s != "hi" {
		t.Errorf("CString(0) = %q, want %q", s, "hi")
	}
}

func TestMemoryCStringOutOfBounds(t *testing.T) {
	var m vm.Memory
	m.SetReadOnly([]byte{'h', 'i'})

	if _, err := m.CString(10); err == nil {
		t.Fatal("expected an error reading past the read-only buffer")
	}
}
