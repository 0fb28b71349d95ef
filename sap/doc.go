// Package sap assembles programs for the SAP-1 8-bit breadboard computer.
//
// The machine fetches one 8-bit word per memory cell: opcode in the high
// nibble, operand in the low nibble, sixteen words of RAM in total. The
// assembler is two-pass: pass one assigns one address per statement and
// collects labels, pass two resolves symbolic operands and encodes the
// machine words.
//
// Source is line oriented. ';' starts a comment, 'NAME:' binds a label to
// the next instruction, '.equ NAME VALUE' defines a constant, and $()
// evaluates a Starlark constant expression at assembly time.
package sap
