package assembler

import (
	"fmt"

	"github.com/example/regvm/asm"
	"github.com/example/regvm/token"
)

// encodeInstruction returns the fixed 4-byte frame for inst. The
// symbol table resolves @label operands; an unresolved label is a
// non-fatal diagnostic (recorded on diags) with the two offset bytes
// written as zero, so the frame width is never affected by a resolution
// failure.
func encodeInstruction(inst *asm.AssemblerInstruction, symtab *asm.SymbolTable, diags *asm.ErrorList) [4]byte {
	var frame [4]byte
	frame[0] = byte(inst.Opcode)

	pos := 1
	for _, operand := range inst.Operands {
		switch operand.Kind {
		case asm.OperandRegister:
			frame[pos] = byte(operand.Reg)
			pos++

		case asm.OperandInteger:
			putUint16BE(frame[pos:pos+2], uint16(uint32(operand.Imm)))
			pos += 2

		case asm.OperandLabelUse:
			offset, ok := symtab.ValueOf(operand.Label)
			if !ok {
				diags.AddWarning(&asm.Warning{
					Pos:     operand.Pos,
					Message: fmt.Sprintf("unresolved label %q, emitting zero offset", operand.Label),
				})
				pos += 2
				continue
			}
			putUint16BE(frame[pos:pos+2], uint16(offset))
			pos += 2

		case asm.OperandString:
			// asciiz is handled entirely in the first pass; a string
			// operand on an opcode line emits no bytes.
		}
	}

	return frame
}

func putUint16BE(b []byte, v uint16) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

// codeAddress is the absolute image offset of the i'th source
// instruction's code frame: 4*i + HeaderLength, using the
// source-instruction index i (directive lines included) rather than a
// separately tracked code-byte counter. A label declared after a
// directive line therefore addresses the frame that directive's own
// line would have occupied, not the next opcode-bearing line; this
// matches how the reference assembler lays out code offsets.
func codeAddress(i int) uint32 {
	return uint32(i)*token.InstructionWidth + HeaderLength
}
