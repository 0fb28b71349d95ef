package bitbang

import (
	"log"
	"sync"
	"time"

	"github.com/hexlatch/sap8/sap"
)

// State tracks the programmer's position in the write protocol.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_IDLE        = State(0) // idle
	STATE_ADDRESS_SET = State(1) // address
	STATE_DATA_SET    = State(2) // data
	STATE_WRITE_PULSE = State(3) // pulse
	STATE_DONE        = State(4) // done
)

// Settle is how long write-enable stays asserted so the RAM latches
// the word. A constant of the target's latch timing, not a caller
// knob; a shorter pulse corrupts the written word with no feedback.
const Settle = time.Millisecond

// Programmer writes a program image into the target's memory, one word
// per address. It owns its pin assignment exclusively and permits a
// single transmission in flight at a time.
type Programmer struct {
	Verbose bool // If set, verbosely logs each word written.

	pins  Assignment
	sleep func(time.Duration)

	mu    sync.Mutex
	state State
}

// NewProgrammer validates the assignment and parks the write-enable
// line high. Writing is active low, so this keeps the RAM from
// latching while the remaining lines are in unknown states.
func NewProgrammer(pins Assignment) (pg *Programmer, err error) {
	if !pins.complete() {
		err = ErrAssignmentIncomplete
		return
	}

	pg = &Programmer{
		pins:  pins,
		sleep: time.Sleep,
	}

	if err = pg.drive(pins.WriteEnable, true, 0); err != nil {
		pg = nil
	}
	return
}

// State reports where the programmer is in its current or last
// transmission. It is only meaningful once Program has returned.
func (pg *Programmer) State() State {
	return pg.state
}

// drive sets one line, wrapping any failure with the line name and the
// address being written.
func (pg *Programmer) drive(pin Pin, high bool, addr uint8) error {
	if err := pin.Set(high); err != nil {
		return &ErrPinDrive{Pin: pin.Name(), Addr: addr, Err: err}
	}
	return nil
}

// driveLines drives a big-endian line group to the low bits of value.
func (pg *Programmer) driveLines(pins []Pin, value uint, addr uint8) (err error) {
	width := len(pins)
	for n, pin := range pins {
		bit := (value >> (width - 1 - n)) & 1
		if err = pg.drive(pin, bit == 1, addr); err != nil {
			return
		}
	}
	return
}

// Program writes every word of the image into the target's memory in
// ascending address order: address lines, data lines, then a write-
// enable pulse held for Settle. There is no acknowledgment channel;
// a local pin failure aborts the transmission and leaves the target's
// memory in an undefined, partially overwritten state.
func (pg *Programmer) Program(img *sap.Image) (err error) {
	if !pg.mu.TryLock() {
		return ErrProgrammerBusy
	}
	defer pg.mu.Unlock()

	pg.state = STATE_IDLE

	for addr, word := range img.Addresses() {
		if pg.Verbose {
			log.Printf("%2d: %08b\n", addr, uint8(word))
		}

		if err = pg.driveLines(pg.pins.Address[:], uint(addr), addr); err != nil {
			return
		}
		pg.state = STATE_ADDRESS_SET

		if err = pg.driveLines(pg.pins.Data[:], uint(word), addr); err != nil {
			return
		}
		pg.state = STATE_DATA_SET

		if err = pg.drive(pg.pins.WriteEnable, false, addr); err != nil {
			return
		}
		pg.state = STATE_WRITE_PULSE
		pg.sleep(Settle)
		if err = pg.drive(pg.pins.WriteEnable, true, addr); err != nil {
			return
		}
	}

	pg.state = STATE_DONE
	return
}
