package bitbang

import (
	hostgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// HostConfig names the physical pin for each logical line, using the
// names the periph host driver registers (e.g. "GPIO26"). Address and
// Data are most significant bit first.
type HostConfig struct {
	Address     [ADDRESS_LINES]string
	Data        [DATA_LINES]string
	WriteEnable string
}

// DefaultHostConfig matches the original breadboard wiring on the
// NodeMCU carrier board.
var DefaultHostConfig = HostConfig{
	Address:     [ADDRESS_LINES]string{"GPIO26", "GPIO25", "GPIO33", "GPIO32"},
	Data:        [DATA_LINES]string{"GPIO18", "GPIO5", "GPIO4", "GPIO2", "GPIO27", "GPIO14", "GPIO12", "GPIO13"},
	WriteEnable: "GPIO15",
}

type hostPin struct {
	out hostgpio.PinOut
}

func (hp hostPin) Set(high bool) error {
	return hp.out.Out(hostgpio.Level(high))
}

func (hp hostPin) Name() string {
	return hp.out.Name()
}

// OpenHost initializes the periph host drivers and resolves the
// configured pin names into an Assignment.
func OpenHost(cfg HostConfig) (pins Assignment, err error) {
	if _, err = host.Init(); err != nil {
		return
	}

	lookup := func(name string) (Pin, error) {
		out := gpioreg.ByName(name)
		if out == nil {
			return nil, ErrPinUnknown(name)
		}
		return hostPin{out: out}, nil
	}

	for n, name := range cfg.Address {
		if pins.Address[n], err = lookup(name); err != nil {
			return
		}
	}
	for n, name := range cfg.Data {
		if pins.Data[n], err = lookup(name); err != nil {
			return
		}
	}
	pins.WriteEnable, err = lookup(cfg.WriteEnable)
	return
}
