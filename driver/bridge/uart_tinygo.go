//go:build tinygo || baremetal

package bridge

import (
	"machine"

	proto "github.com/ystepanoff/panicbutton/protocol"
)

// OpenUART configures uart for the bridge link and starts the driver.
func OpenUART(uart *machine.UART, tx, rx machine.Pin) (*Driver, error) {
	err := uart.Configure(machine.UARTConfig{
		BaudRate: proto.DefaultBaudRate,
		TX:       tx,
		RX:       rx,
	})
	if err != nil {
		return nil, err
	}
	return New(uart), nil
}
