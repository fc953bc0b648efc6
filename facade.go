// Package panicbutton provides a façade to access the button sender.
package panicbutton

import (
	"github.com/ystepanoff/panicbutton/button"
	"github.com/ystepanoff/panicbutton/protocol"
	"github.com/ystepanoff/panicbutton/transport"
)

// The radio constructors are split into build-tag specific files:
// - constructors_tinygo.go - for embedded platforms (//go:build tinygo || baremetal)
// - constructors_host.go - for Linux hosts and tests (//go:build !tinygo && !baremetal)

type (
	MAC         = protocol.MAC
	Command     = protocol.Command
	Peer        = protocol.Peer
	SendResult  = protocol.SendResult
	Transmitter = transport.Transmitter
	Binding     = button.Binding
	Poller      = button.Poller
	PanicState  = button.PanicState
)

// Error constants exposed in the public API
var (
	ErrInvalidPayload        = protocol.ErrInvalidPayload
	ErrNotInitialised        = protocol.ErrNotInitialised
	ErrTimeout               = protocol.ErrTimeout
	ErrRejected              = protocol.ErrRejected
	ErrInvalidMAC            = protocol.ErrInvalidMAC
	ErrUnknownCommand        = protocol.ErrUnknownCommand
	ErrEncryptionUnsupported = protocol.ErrEncryptionUnsupported
	ErrInvalidChannel        = protocol.ErrInvalidChannel
	ErrClosed                = protocol.ErrClosed
)

// Constants exposed in the public API
const (
	CommandArm    = protocol.CommandArm
	CommandDisarm = protocol.CommandDisarm
	CommandPanic  = protocol.CommandPanic

	Disarmed = button.Disarmed
	Armed    = button.Armed
)

var (
	DefaultSenderMAC   = protocol.DefaultSenderMAC
	DefaultReceiverMAC = protocol.DefaultReceiverMAC
)

// NewSinglePoller builds the single-button sender: each press alternates
// PANIC and DISARM.
func NewSinglePoller(tx *Transmitter, pin button.Pin) (*Poller, error) {
	return button.NewPoller(tx, button.PanicToggle("panic", pin))
}

// NewKeypadPoller builds the three-button sender.
func NewKeypadPoller(tx *Transmitter, armPin, disarmPin, panicPin button.Pin) (*Poller, error) {
	return button.NewPoller(tx,
		button.Fixed("arm", armPin, CommandArm),
		button.Fixed("disarm", disarmPin, CommandDisarm),
		button.Fixed("panic", panicPin, CommandPanic),
	)
}
