//go:build !tinygo && !baremetal

// This file is built only for non-embedded targets (Linux hosts and tests).
package panicbutton

import (
	"github.com/ystepanoff/panicbutton/driver/bridge"
	"github.com/ystepanoff/panicbutton/driver/stub"
	"github.com/ystepanoff/panicbutton/transport"
)

// NewTransmitter returns a transmitter on the in-memory stub radio.
func NewTransmitter(self, peer MAC) (*Transmitter, error) {
	return transport.NewTransmitterWithDriver(self, peer, stub.New()), nil
}

// OpenTransmitter connects to a radio bridge on a serial port. The returned
// driver must be closed by the caller.
func OpenTransmitter(port string, baud int, self, peer MAC) (*Transmitter, *bridge.Driver, error) {
	d, err := bridge.Open(port, baud)
	if err != nil {
		return nil, nil, err
	}
	return transport.NewTransmitterWithDriver(self, peer, d), d, nil
}
