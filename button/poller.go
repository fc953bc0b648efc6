package button

import (
	"context"
	"errors"
	"log"
	"time"

	proto "github.com/ystepanoff/panicbutton/protocol"
	"github.com/ystepanoff/panicbutton/transport"
)

var (
	ErrNoBindings      = errors.New("no buttons configured")
	ErrMultipleToggles = errors.New("only one toggle button is allowed")
)

// Sender is the part of transport.Transmitter the poller needs.
type Sender interface {
	SendCommand(cmd proto.Command) error
}

// Poller samples every binding at a fixed cadence and sends one command per
// detected press. It is meant to run on a single goroutine; the panic state
// is threaded through Step and Run rather than stored.
type Poller struct {
	bindings []Binding
	sender   Sender
	log      transport.Logger

	PollInterval     time.Duration
	DebounceInterval time.Duration

	// Sleep pauses the loop; it should return early once ctx is done.
	Sleep func(ctx context.Context, d time.Duration)
}

func NewPoller(sender Sender, bindings ...Binding) (*Poller, error) {
	if len(bindings) == 0 {
		return nil, ErrNoBindings
	}
	toggles := 0
	for _, b := range bindings {
		if err := b.validate(); err != nil {
			return nil, err
		}
		if b.Toggle {
			toggles++
		}
	}
	// the panic state is shared, so two toggles would flip each other
	if toggles > 1 {
		return nil, ErrMultipleToggles
	}
	return &Poller{
		bindings:         append([]Binding(nil), bindings...),
		sender:           sender,
		log:              log.Default(),
		PollInterval:     proto.PollInterval,
		DebounceInterval: proto.DebounceInterval,
		Sleep:            sleepContext,
	}, nil
}

func (p *Poller) SetLogger(l transport.Logger) {
	if l != nil {
		p.log = l
	}
}

// Step samples the bindings once, in order, and handles the first one that
// is pressed. It returns the new state and whether a press was handled.
// A send error is logged and does not stop the toggle.
func (p *Poller) Step(state PanicState) (PanicState, bool) {
	for _, b := range p.bindings {
		if !b.Pin.Get() {
			continue
		}

		cmd := b.command(state)
		if err := p.sender.SendCommand(cmd); err != nil {
			p.log.Printf("[Poller] Failed to send %s: %v\r\n", cmd, err)
		} else {
			p.log.Printf("[Poller] Sent %s\r\n", cmd)
		}

		if b.Toggle {
			state = state.Toggle()
		}
		return state, true
	}
	return state, false
}

// Run polls until ctx is done and returns the final state. After a press it
// waits DebounceInterval, and every iteration waits PollInterval.
func (p *Poller) Run(ctx context.Context, state PanicState) PanicState {
	for ctx.Err() == nil {
		var pressed bool
		state, pressed = p.Step(state)
		if pressed {
			p.Sleep(ctx, p.DebounceInterval)
		}
		p.Sleep(ctx, p.PollInterval)
	}
	return state
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
