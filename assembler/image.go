// Package assembler drives the two-pass assembly of an asm.Program into
// a bytecode Image: header, code body, and the out-of-band read-only
// buffer.
package assembler

import "github.com/example/regvm/asm"

// HeaderLength is the size, in bytes, of the image header that precedes
// the code body. Code-label offsets are computed relative to this
// length.
const HeaderLength = 64

// Magic is the 4-byte prefix every image starts with.
var Magic = [4]byte{0x45, 0x50, 0x49, 0x45}

// Image is the result of a successful assembly: the header-prefixed code
// body, plus the read-only string buffer delivered out-of-band — the
// image format itself carries only header+code, and a loader hands RO
// to the VM separately.
type Image struct {
	Bytes    []byte // header + code body
	RO       []byte // read-only data area, not part of Bytes
	Warnings []*asm.Warning
}

// Code returns the code body, i.e. Bytes with the header stripped.
func (img *Image) Code() []byte {
	if len(img.Bytes) < HeaderLength {
		return nil
	}
	return img.Bytes[HeaderLength:]
}

func newHeader() []byte {
	header := make([]byte, HeaderLength)
	copy(header, Magic[:])
	return header
}
