package transport

import (
	"context"
	"fmt"
	"log"
	"sync"

	proto "github.com/ystepanoff/panicbutton/protocol"
)

// Stats counts send attempts and their reported outcomes.
type Stats struct {
	Sent      uint32 // accepted by the radio
	Rejected  uint32 // refused synchronously by the radio
	Delivered uint32
	Failed    uint32
}

// Transmitter encapsulates high-level logic for an ESP-NOW sender with a
// single fixed peer.
type Transmitter struct {
	self   proto.MAC
	driver RadioDriver
	log    Logger
	ready  bool

	mu    sync.Mutex // peer and stats are shared with the status task
	peer  proto.Peer
	stats Stats
}

// NewTransmitterWithDriver creates a transmitter that programs its own
// station address to self (zero keeps the factory address) and sends to peer.
func NewTransmitterWithDriver(self, peer proto.MAC, d RadioDriver) *Transmitter {
	return &Transmitter{
		self:   self,
		driver: d,
		log:    log.Default(),
		peer:   *proto.NewPeer(peer),
	}
}

func (t *Transmitter) SetLogger(l Logger) {
	if l != nil {
		t.log = l
	}
}

// SetChannel must be called before Initialise.
func (t *Transmitter) SetChannel(ch uint8) error {
	if ch > proto.MaxChannel {
		return proto.ErrInvalidChannel
	}
	t.mu.Lock()
	t.peer.Channel = ch
	t.mu.Unlock()
	return nil
}

// Initialise brings the radio up and registers the peer. Any returned error
// is fatal; failing to program the own MAC is only logged.
func (t *Transmitter) Initialise() error {
	if err := t.driver.Init(); err != nil {
		return fmt.Errorf("radio init: %w", err)
	}

	if !t.self.IsZero() {
		if err := t.driver.SetAddress(t.self); err != nil {
			t.log.Printf("[Transmitter] Failed to set MAC %s: %v\r\n", t.self, err)
		}
	}

	mac, err := t.driver.Address()
	if err != nil {
		return fmt.Errorf("read station MAC: %w", err)
	}
	t.log.Printf("[Transmitter] Sender STA MAC: %s\r\n", mac)

	peer := t.Peer()
	if err := t.driver.AddPeer(peer); err != nil {
		return fmt.Errorf("add peer %s: %w", peer.MAC, err)
	}

	t.ready = true
	return nil
}

// SendData hands payload to the radio and returns without waiting for
// delivery. The outcome is reported to the status task.
func (t *Transmitter) SendData(payload []byte) error {
	if !t.ready {
		return proto.ErrNotInitialised
	}
	if len(payload) == 0 || len(payload) > proto.MaxPayloadSize {
		return proto.ErrInvalidPayload
	}

	err := t.driver.Send(t.peer.MAC, payload)

	t.mu.Lock()
	if err != nil {
		t.stats.Rejected++
	} else {
		t.stats.Sent++
	}
	t.mu.Unlock()

	return err
}

// SendCommand sends the command literal to the peer.
func (t *Transmitter) SendCommand(cmd proto.Command) error {
	if !cmd.Valid() {
		return proto.ErrUnknownCommand
	}
	return t.SendData(cmd.Bytes())
}

// StartStatusTask logs every send-complete notification until ctx is done
// or the driver closes its results channel.
func (t *Transmitter) StartStatusTask(ctx context.Context) {
	go t.watchResults(ctx)
}

func (t *Transmitter) watchResults(ctx context.Context) {
	results := t.driver.SendResults()
	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-results:
			if !ok {
				return
			}
			t.recordResult(r)
		}
	}
}

func (t *Transmitter) recordResult(r proto.SendResult) {
	t.mu.Lock()
	if r.MAC == t.peer.MAC {
		t.peer.Record(r)
	}
	if r.Status == proto.SendSuccess {
		t.stats.Delivered++
	} else {
		t.stats.Failed++
	}
	t.mu.Unlock()

	t.log.Printf("[Transmitter] Send status: %s\r\n", r.Status)
}

func (t *Transmitter) Peer() proto.Peer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.peer
}

func (t *Transmitter) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}
