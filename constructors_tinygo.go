//go:build tinygo || baremetal

// This file is built only for embedded targets (radio bridge on a UART).
package panicbutton

import (
	"machine"

	"github.com/ystepanoff/panicbutton/driver/bridge"
	"github.com/ystepanoff/panicbutton/transport"
)

// NewTransmitterOnUART opens the radio bridge on uart with the given pins.
// Use a UART that is not the console, since println and log write there.
func NewTransmitterOnUART(self, peer MAC, uart *machine.UART, tx, rx machine.Pin) (*Transmitter, error) {
	d, err := bridge.OpenUART(uart, tx, rx)
	if err != nil {
		return nil, err
	}
	return transport.NewTransmitterWithDriver(self, peer, d), nil
}

// NewTransmitter opens the bridge on machine.DefaultUART. On most boards that
// is also the console, so it only suits builds that log nothing; prefer
// NewTransmitterOnUART.
func NewTransmitter(self, peer MAC) (*Transmitter, error) {
	return NewTransmitterOnUART(self, peer, machine.DefaultUART, machine.UART_TX_PIN, machine.UART_RX_PIN)
}
