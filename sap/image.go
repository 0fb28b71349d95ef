package sap

import (
	"fmt"
	"iter"
	"strings"
)

// Image is the assembled program: one Word per memory cell, in address
// order. It is the hand-off contract between assembly and hardware
// transmission.
type Image struct {
	Origin uint8
	Data   []Word
}

// Addresses yields each (address, word) pair in ascending address order.
func (img *Image) Addresses() iter.Seq2[uint8, Word] {
	return func(yield func(addr uint8, word Word) bool) {
		for n, word := range img.Data {
			if !yield(img.Origin+uint8(n), word) {
				return
			}
		}
	}
}

// Bytes returns the image as raw bytes, one byte per word.
func (img *Image) Bytes() (out []byte) {
	for _, word := range img.Data {
		out = append(out, byte(word))
	}
	return
}

// String renders a listing with one "address: word" line per cell,
// disassembling each word where its opcode is assigned.
func (img *Image) String() string {
	var sb strings.Builder

	for addr, word := range img.Addresses() {
		op, operand, err := word.Decode()
		switch {
		case err != nil:
			fmt.Fprintf(&sb, "%2d: %08b\n", addr, uint8(word))
		case op.Operand == OPERAND_NONE:
			fmt.Fprintf(&sb, "%2d: %08b %v\n", addr, uint8(word), op.Name)
		default:
			fmt.Fprintf(&sb, "%2d: %08b %v %v\n", addr, uint8(word), op.Name, operand)
		}
	}

	return sb.String()
}
