package sap

import (
	"iter"
	"strings"
)

// Geometry of the SAP-1 machine word.
const (
	OPCODE_BITS  = 4
	OPERAND_BITS = 4
	WORD_BITS    = OPCODE_BITS + OPERAND_BITS
	OPERAND_MASK = (1 << OPERAND_BITS) - 1
	MEMORY_WORDS = 1 << OPERAND_BITS
)

// OperandKind describes what an instruction's low nibble holds.
type OperandKind int

//go:generate go tool stringer -linecomment -type=OperandKind
const (
	OPERAND_NONE      = OperandKind(0) // none
	OPERAND_IMMEDIATE = OperandKind(1) // immediate
	OPERAND_ADDRESS   = OperandKind(2) // address
)

// Op describes a single instruction: mnemonic, opcode nibble, and the
// kind of operand it takes.
type Op struct {
	Name    string
	Code    uint8
	Operand OperandKind
}

// opTable is the SAP-1 instruction set, including the extended opcodes
// (INC, DEC, DSP, DSI) present in the target's microcode ROMs. Opcode
// 0b1101 is unassigned.
var opTable = map[string]Op{
	"NOP": {"NOP", 0b0000, OPERAND_NONE},
	"LDA": {"LDA", 0b0001, OPERAND_ADDRESS},
	"ADD": {"ADD", 0b0010, OPERAND_ADDRESS},
	"SUB": {"SUB", 0b0011, OPERAND_ADDRESS},
	"STA": {"STA", 0b0100, OPERAND_ADDRESS},
	"LDI": {"LDI", 0b0101, OPERAND_IMMEDIATE},
	"JMP": {"JMP", 0b0110, OPERAND_ADDRESS},
	"JC":  {"JC", 0b0111, OPERAND_ADDRESS},
	"JZ":  {"JZ", 0b1000, OPERAND_ADDRESS},
	"INC": {"INC", 0b1001, OPERAND_IMMEDIATE},
	"DEC": {"DEC", 0b1010, OPERAND_IMMEDIATE},
	"DSP": {"DSP", 0b1011, OPERAND_ADDRESS},
	"DSI": {"DSI", 0b1100, OPERAND_IMMEDIATE},
	"OUT": {"OUT", 0b1110, OPERAND_NONE},
	"HLT": {"HLT", 0b1111, OPERAND_NONE},
}

var opByCode [1 << OPCODE_BITS]Op
var opAssigned [1 << OPCODE_BITS]bool

func init() {
	for _, op := range opTable {
		opByCode[op.Code] = op
		opAssigned[op.Code] = true
	}
}

// Lookup finds the instruction for a mnemonic, folding case.
func Lookup(mnemonic string) (op Op, err error) {
	op, ok := opTable[strings.ToUpper(mnemonic)]
	if !ok {
		err = ErrMnemonicUnknown(mnemonic)
	}
	return
}

// Ops yields every assigned instruction in opcode order.
func Ops() iter.Seq[Op] {
	return func(yield func(op Op) bool) {
		for n, op := range opByCode {
			if !opAssigned[n] {
				continue
			}
			if !yield(op) {
				return
			}
		}
	}
}

// Word is one SAP-1 memory cell: opcode high nibble, operand low nibble.
type Word uint8

// Encode packs the instruction and its resolved operand into a Word.
// Operands that do not fit the low nibble are a hard error, never
// truncated.
func (op Op) Encode(operand int) (word Word, err error) {
	if operand < 0 || operand > OPERAND_MASK {
		err = &ErrOperandRange{Mnemonic: op.Name, Value: operand}
		return
	}
	word = Word(op.Code<<OPERAND_BITS | uint8(operand))
	return
}

// Decode splits a Word back into its instruction and operand value.
func (word Word) Decode() (op Op, operand uint8, err error) {
	code := uint8(word) >> OPERAND_BITS
	operand = uint8(word) & OPERAND_MASK
	if !opAssigned[code] {
		err = ErrOpcodeUnassigned(code)
		return
	}
	op = opByCode[code]
	return
}
