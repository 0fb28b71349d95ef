// Package bitbang writes assembled images into the SAP-1's RAM by
// driving its address, data, and write-enable lines directly.
//
// The sequencing logic is written against the narrow Pin capability so
// it can run against a fake backend in tests; OpenHost supplies the
// real pins through the periph.io host drivers.
package bitbang

import (
	"github.com/hexlatch/sap8/sap"
)

// Pin is a single digital output line the programmer can drive. The
// programmer never reads a line.
type Pin interface {
	// Set drives the line high (true) or low (false).
	Set(high bool) error
	// Name identifies the line in error reports.
	Name() string
}

// Line counts, fixed by the target's word geometry.
const (
	ADDRESS_LINES = sap.OPERAND_BITS
	DATA_LINES    = sap.WORD_BITS
)

// Assignment binds the programmer's logical signals to physical output
// lines. Address and Data are listed big-endian: index 0 carries the
// most significant bit, matching the breadboard wiring convention.
// WriteEnable is active low.
type Assignment struct {
	Address     [ADDRESS_LINES]Pin
	Data        [DATA_LINES]Pin
	WriteEnable Pin
}

// complete reports whether every line has a pin bound.
func (pins *Assignment) complete() bool {
	for _, pin := range pins.Address {
		if pin == nil {
			return false
		}
	}
	for _, pin := range pins.Data {
		if pin == nil {
			return false
		}
	}
	return pins.WriteEnable != nil
}
