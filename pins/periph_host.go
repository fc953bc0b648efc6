//go:build !tinygo && !baremetal

// Package pins opens button inputs on a Linux host through periph.io.
package pins

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

var ErrUnknownPin = errors.New("unknown GPIO pin")

var (
	initOnce sync.Once
	initErr  error
)

// HostPin is a periph.io GPIO configured as a pulled-down input.
type HostPin struct {
	pin gpio.PinIO
}

// Open looks a pin up by name (e.g. "GPIO14") and configures it.
func Open(name string) (*HostPin, error) {
	initOnce.Do(func() {
		_, initErr = host.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("periph host init: %w", initErr)
	}

	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPin, name)
	}
	return Wrap(p)
}

// Wrap configures an already resolved pin.
func Wrap(p gpio.PinIO) (*HostPin, error) {
	if err := p.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure %s as input: %w", p, err)
	}
	return &HostPin{pin: p}, nil
}

func (p *HostPin) Get() bool { return p.pin.Read() == gpio.High }

func (p *HostPin) String() string { return p.pin.String() }
