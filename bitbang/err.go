package bitbang

import (
	"errors"

	"github.com/hexlatch/sap8/translate"
)

var f = translate.From

var (
	ErrAssignmentIncomplete = errors.New(f("pin assignment incomplete"))
	ErrProgrammerBusy       = errors.New(f("transmission already in flight"))
)

type ErrPinUnknown string

func (err ErrPinUnknown) Error() string {
	return f("pin %v unknown to the host", string(err))
}

// ErrPinDrive reports a line that could not be driven. The target's
// memory is in an undefined state after this error.
type ErrPinDrive struct {
	Pin  string
	Addr uint8
	Err  error
}

func (err ErrPinDrive) Error() string {
	return f("pin %v at address %v: %v", err.Pin, err.Addr, err.Err)
}

func (err ErrPinDrive) Unwrap() error {
	return err.Err
}
