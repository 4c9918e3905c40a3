package asm

import "github.com/example/regvm/token"

// Position re-exports token.Position so callers of asm never need to
// import token directly just to print a diagnostic.
type Position = token.Position

// OperandKind classifies a single operand attached to an
// AssemblerInstruction.
type OperandKind int

const (
	OperandRegister OperandKind = iota
	OperandInteger
	OperandLabelUse
	OperandString
)

// Operand is one parsed operand. Exactly one of the fields matching Kind
// is meaningful.
type Operand struct {
	Kind  OperandKind
	Reg   int
	Imm   int32
	Label string
	Str   string
	Pos   Position
}

// AssemblerInstruction is a single parsed line: an optional label
// declaration, and then either an opcode with up to three operands, or a
// directive with up to three operands. Exactly one of HasOpcode/
// HasDirective is true; that invariant is established once, by the
// parser, and never re-checked downstream.
type AssemblerInstruction struct {
	Label string // "" if this line declared no label

	HasOpcode bool
	Opcode    token.Opcode

	HasDirective bool
	Directive    string

	Operands []Operand
	Pos      Position
}

// Program is an ordered sequence of AssemblerInstructions. Order is
// significant: it determines code addresses.
type Program struct {
	Instructions []*AssemblerInstruction
}
