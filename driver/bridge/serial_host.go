//go:build !tinygo && !baremetal

package bridge

import (
	"fmt"

	"github.com/tarm/serial"
)

// Open connects to a bridge on a host serial port, e.g. /dev/ttyUSB0.
func Open(name string, baud int) (*Driver, error) {
	port, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("serial.OpenPort(%v): %w", name, err)
	}
	return New(port), nil
}
