// Package button polls push buttons and turns presses into radio commands.
package button

import (
	"fmt"

	proto "github.com/ystepanoff/panicbutton/protocol"
)

// Pin is a digital input sampled by the poller. TinyGo's machine.Pin
// satisfies it directly; Get reports true while the button is held.
type Pin interface {
	Get() bool
}

// PinFunc adapts a plain function to the Pin interface.
type PinFunc func() bool

func (f PinFunc) Get() bool { return f() }

// Binding ties one input pin to the command it sends. A toggle binding
// ignores Command and alternates between PANIC and DISARM instead.
type Binding struct {
	Name    string
	Pin     Pin
	Command proto.Command
	Toggle  bool
}

// Fixed returns a binding that always sends cmd.
func Fixed(name string, pin Pin, cmd proto.Command) Binding {
	return Binding{Name: name, Pin: pin, Command: cmd}
}

// PanicToggle returns the single-button sender binding.
func PanicToggle(name string, pin Pin) Binding {
	return Binding{Name: name, Pin: pin, Toggle: true}
}

// command picks what a press of b sends in the given state.
func (b Binding) command(state PanicState) proto.Command {
	if b.Toggle {
		return state.Command()
	}
	return b.Command
}

func (b Binding) validate() error {
	if b.Pin == nil {
		return fmt.Errorf("button %q: no pin", b.Name)
	}
	if !b.Toggle && !b.Command.Valid() {
		return fmt.Errorf("button %q: %w %q", b.Name, proto.ErrUnknownCommand, b.Command)
	}
	return nil
}

// PanicState is the arm state of the single-button sender.
type PanicState bool

const (
	Disarmed PanicState = false
	Armed    PanicState = true
)

// Command is what the next press sends: PANIC while disarmed, DISARM while armed.
func (s PanicState) Command() proto.Command {
	if s == Armed {
		return proto.CommandDisarm
	}
	return proto.CommandPanic
}

func (s PanicState) Toggle() PanicState { return !s }

func (s PanicState) String() string {
	if s == Armed {
		return "armed"
	}
	return "disarmed"
}
