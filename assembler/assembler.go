package assembler

import (
	"fmt"

	"github.com/example/regvm/asm"
	"github.com/example/regvm/token"
)

// Assembler is a two-pass engine: the first pass discovers
// labels/directives and populates the symbol table and read-only
// section; the second pass emits the code body.
type Assembler struct {
	symtab  *asm.SymbolTable
	ro      []byte
	current section
	sawData bool
	sawCode bool
	errs    *asm.ErrorList
}

// New creates an Assembler ready for a single Assemble call. An
// Assembler is not reused across programs; construct a fresh one per
// source.
func New() *Assembler {
	return &Assembler{
		symtab: asm.NewSymbolTable(),
		errs:   &asm.ErrorList{},
	}
}

// Assemble parses source, runs the two-pass algorithm, and returns the
// resulting Image. Parse failures and first-pass errors both abort
// before any second-pass work happens, and no partial image is ever
// returned.
func (a *Assembler) Assemble(source string) (*Image, error) {
	program, err := asm.ParseProgram(source)
	if err != nil {
		return nil, err
	}

	a.firstPass(program)
	if a.errs.HasErrors() {
		return nil, a.errs
	}

	return a.secondPass(program)
}

func (a *Assembler) firstPass(program *asm.Program) {
	for i, inst := range program.Instructions {
		if inst.Label != "" {
			a.declareLabel(inst, i)
		}

		if inst.HasDirective {
			a.firstPassDirective(inst, i)
		}
	}

	if !(a.sawData && a.sawCode) {
		a.errs.Add(asm.NewError(token.Position{}, asm.ErrorInsufficientSections,
			"program must declare both a .data and a .code section"))
	}
}

func (a *Assembler) declareLabel(inst *asm.AssemblerInstruction, index int) {
	if a.current.Kind == SectionUnknown {
		a.errs.Add(asm.NewError(inst.Pos, asm.ErrorNoSegmentDeclarationFound,
			fmt.Sprintf("label %q declared before any section", inst.Label)))
		return
	}
	if a.symtab.Contains(inst.Label) {
		a.errs.Add(asm.NewError(inst.Pos, asm.ErrorSymbolAlreadyDeclared,
			fmt.Sprintf("symbol %q already declared", inst.Label)))
		return
	}
	a.symtab.Insert(&asm.Symbol{
		Name:     inst.Label,
		Kind:     asm.SymbolLabel,
		Offset:   codeAddress(index),
		Resolved: true,
	})
}

func (a *Assembler) firstPassDirective(inst *asm.AssemblerInstruction, index int) {
	name := inst.Directive
	if len(inst.Operands) == 0 {
		switch name {
		case "data":
			a.current = section{Kind: SectionData, Start: codeAddress(index)}
			a.sawData = true
		case "code":
			a.current = section{Kind: SectionCode, Start: codeAddress(index)}
			a.sawCode = true
		default:
			a.errs.AddWarning(&asm.Warning{Pos: inst.Pos, Message: fmt.Sprintf("unknown section directive %q ignored", name)})
		}
		return
	}

	if name != "asciiz" {
		a.errs.Add(asm.NewError(inst.Pos, asm.ErrorUnknownDirectiveFound,
			fmt.Sprintf("unknown directive %q", name)))
		return
	}

	if inst.Label == "" {
		a.errs.Add(asm.NewError(inst.Pos, asm.ErrorStringConstantWithoutLabel,
			"asciiz directive used without a preceding label"))
		return
	}

	text := inst.Operands[0].Str
	offset := uint32(len(a.ro))
	a.symtab.SetOffset(inst.Label, offset)
	a.ro = append(a.ro, text...)
	a.ro = append(a.ro, 0)
}

func (a *Assembler) secondPass(program *asm.Program) (*Image, error) {
	code := make([]byte, 0, len(program.Instructions)*token.InstructionWidth)
	diags := &asm.ErrorList{}

	for _, inst := range program.Instructions {
		if inst.HasOpcode {
			frame := encodeInstruction(inst, a.symtab, diags)
			code = append(code, frame[:]...)
		}
		// Directives (section headers, asciiz) are no-ops in the
		// second pass: asciiz already emitted its bytes into ro
		// during the first pass.
	}

	header := newHeader()
	image := &Image{
		Bytes:    append(header, code...),
		RO:       a.ro,
		Warnings: diags.Warnings,
	}
	return image, nil
}
