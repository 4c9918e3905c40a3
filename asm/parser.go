package asm

import (
	"fmt"
	"strconv"

	"github.com/example/regvm/token"
)

// Parser turns a token stream into a Program. It accepts the whole
// source as one string and fails atomically: any malformed line aborts
// parsing with a single error and no partial Program is returned.
type Parser struct {
	tokens []token.Token
	pos    int
	cur    token.Token
	peek   token.Token
}

// NewParser tokenizes source and prepares a Parser over it.
func NewParser(source string) (*Parser, error) {
	lex := NewLexer(source)
	toks := lex.TokenizeAll()
	if lex.Errors().HasErrors() {
		return nil, lex.Errors().Errors[0]
	}
	p := &Parser{tokens: toks}
	p.advance()
	p.advance()
	return p, nil
}

func (p *Parser) advance() {
	p.cur = p.peek
	if p.pos < len(p.tokens) {
		p.peek = p.tokens[p.pos]
		p.pos++
	} else {
		p.peek = token.Token{Type: token.EOF, Pos: p.cur.Pos}
	}
}

func (p *Parser) skipBlankLines() {
	for p.cur.Type == token.Newline {
		p.advance()
	}
}

// Parse consumes the whole token stream and returns a Program. The first
// malformed line aborts the whole parse; no partial program is ever
// returned alongside an error.
func (p *Parser) Parse() (*Program, error) {
	prog := &Program{}
	p.skipBlankLines()
	for p.cur.Type != token.EOF {
		inst, err := p.parseInstruction()
		if err != nil {
			return nil, err
		}
		prog.Instructions = append(prog.Instructions, inst)
		if p.cur.Type != token.EOF {
			if p.cur.Type != token.Newline {
				return nil, p.syntaxError("expected end of line")
			}
			p.advance()
		}
		p.skipBlankLines()
	}
	return prog, nil
}

func (p *Parser) syntaxError(msg string) error {
	return NewError(p.cur.Pos, ErrorSyntax, fmt.Sprintf("%s, found %s", msg, p.cur))
}

// parseInstruction parses `[label:] ( opcode | directive ) operand?
// operand? operand?`.
func (p *Parser) parseInstruction() (*AssemblerInstruction, error) {
	inst := &AssemblerInstruction{Pos: p.cur.Pos}

	if p.cur.Type == token.LabelDecl {
		inst.Label = p.cur.Literal
		p.advance()
	}

	switch p.cur.Type {
	case token.Opcode:
		inst.HasOpcode = true
		inst.Opcode = p.cur.Opcode
		p.advance()
	case token.Directive:
		inst.HasDirective = true
		inst.Directive = p.cur.Literal
		p.advance()
	default:
		return nil, p.syntaxError("expected opcode or directive")
	}

	for i := 0; i < 3; i++ {
		if p.cur.Type == token.Newline || p.cur.Type == token.EOF {
			break
		}
		operand, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		inst.Operands = append(inst.Operands, operand)
	}

	return inst, nil
}

// parseOperand tries, in order, register, integer, label-use, ir-string.
func (p *Parser) parseOperand() (Operand, error) {
	pos := p.cur.Pos
	switch p.cur.Type {
	case token.Register:
		n, err := strconv.Atoi(p.cur.Literal)
		if err != nil || n < 0 || n >= token.RegisterCount {
			return Operand{}, NewError(pos, ErrorSyntax, fmt.Sprintf("invalid register: $%s", p.cur.Literal))
		}
		p.advance()
		return Operand{Kind: OperandRegister, Reg: n, Pos: pos}, nil

	case token.Integer:
		v, err := strconv.ParseInt(p.cur.Literal, 10, 64)
		if err != nil {
			return Operand{}, NewError(pos, ErrorSyntax, fmt.Sprintf("invalid integer: #%s", p.cur.Literal))
		}
		p.advance()
		return Operand{Kind: OperandInteger, Imm: int32(v), Pos: pos}, nil

	case token.LabelUse:
		name := p.cur.Literal
		p.advance()
		return Operand{Kind: OperandLabelUse, Label: name, Pos: pos}, nil

	case token.IrString:
		body := p.cur.Literal
		p.advance()
		return Operand{Kind: OperandString, Str: body, Pos: pos}, nil

	default:
		return Operand{}, p.syntaxError("expected an operand")
	}
}

// ParseProgram is a convenience wrapper: tokenize and parse source in one
// call.
func ParseProgram(source string) (*Program, error) {
	p, err := NewParser(source)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}
