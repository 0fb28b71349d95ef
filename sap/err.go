package sap

import (
	"errors"

	"github.com/hexlatch/sap8/translate"
)

var f = translate.From

var (
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelSyntax     = errors.New(f("label syntax"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrOperandExtra    = errors.New(f("excessive operands"))
)

type ErrMnemonicUnknown string

func (err ErrMnemonicUnknown) Error() string {
	return f("mnemonic %v unknown", string(err))
}

type ErrLabelMissing string

func (err ErrLabelMissing) Error() string {
	return f("label %v missing", string(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrOpcodeUnassigned uint8

func (err ErrOpcodeUnassigned) Error() string {
	return f("opcode %04b unassigned", uint8(err))
}

// ErrOperandRange reports an operand that does not fit the low nibble.
type ErrOperandRange struct {
	Mnemonic string
	Value    int
}

func (err ErrOperandRange) Error() string {
	return f("operand %v out of range 0-%v for %v", err.Value, OPERAND_MASK, err.Mnemonic)
}

// ErrImageTooBig reports a program that does not fit the target's RAM.
// The value counts memory cells, origin offset included.
type ErrImageTooBig int

func (err ErrImageTooBig) Error() string {
	return f("program needs %v memory cells, target has %v", int(err), MEMORY_WORDS)
}

// ErrSyntax wraps any assembly error with its source position.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
