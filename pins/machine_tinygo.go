//go:build tinygo || baremetal

// Package pins opens button inputs on the board the firmware runs on.
package pins

import "machine"

// Input configures p as a pulled-down input: the button connects it to 3V3,
// so Get reports true while pressed.
func Input(p machine.Pin) machine.Pin {
	p.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	return p
}
