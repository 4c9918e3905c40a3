package vm

import "fmt"

// Memory is the VM's append-only heap and its read-only string area.
// Both are flat byte slices: this dialect has no segment permissions,
// alignment rules, or address-space layout beyond "heap grows, ro is
// fixed at load time".
type Memory struct {
	heap []byte
	ro   []byte
}

// Reset clears the heap. The read-only area, like the program, is
// immutable after load and is not touched by Reset.
func (m *Memory) Reset() {
	m.heap = m.heap[:0]
}

// Grow appends n zero bytes to the heap (ALOC), returning the offset at
// which the new region starts.
func (m *Memory) Grow(n int32) uint32 {
	if n < 0 {
		n = 0
	}
	offset := uint32(len(m.heap))
	m.heap = append(m.heap, make([]byte, n)...)
	return offset
}

// Heap returns the current heap contents.
func (m *Memory) Heap() []byte {
	return m.heap
}

// SetReadOnly installs the assembler's read-only buffer. This is an
// out-of-band hand-off: the image format carries only header+code, so
// the ro buffer travels separately from AddBytes.
func (m *Memory) SetReadOnly(ro []byte) {
	m.ro = ro
}

// ReadOnly returns the installed read-only buffer.
func (m *Memory) ReadOnly() []byte {
	return m.ro
}

// CString reads ro bytes starting at offset up to (not including) the
// first zero byte. This is PRTS's string-lookup semantics.
func (m *Memory) CString(offset uint16) (string, error) {
	start := int(offset)
	if start > len(m.ro) {
		return "", fmt.Errorf("ro read out of bounds: offset %d, ro length %d", start, len(m.ro))
	}
	end := start
	for end < len(m.ro) && m.ro[end] != 0 {
		end++
	}
	return string(m.ro[start:end]), nil
}
