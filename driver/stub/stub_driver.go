//go:build !tinygo && !baremetal

package stub

import (
	"sync"

	proto "github.com/ystepanoff/panicbutton/protocol"
)

// FactoryMAC is the station address the stub reports until SetAddress is called.
var FactoryMAC = proto.MAC{0x24, 0x0A, 0xC4, 0x12, 0x34, 0x56}

// Sent is one frame accepted by the stub radio.
type Sent struct {
	To      proto.MAC
	Payload []byte
}

// Driver implements a mock ESP-NOW radio for host-side testing.
// Delivery reports are published from their own goroutine, like the vendor
// send callback which runs on the Wi-Fi task.
type Driver struct {
	mu          sync.Mutex
	initialised bool
	mac         proto.MAC
	peers       map[proto.MAC]proto.Peer
	txBuf       ringBuffer
	results     chan proto.SendResult

	rejectNext     int
	failDeliveries bool
}

func New() *Driver {
	return &Driver{
		mac:     FactoryMAC,
		peers:   make(map[proto.MAC]proto.Peer),
		results: make(chan proto.SendResult, ringCapacity),
	}
}

func (d *Driver) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initialised = true
	return nil
}

func (d *Driver) SetAddress(mac proto.MAC) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialised {
		return proto.ErrNotInitialised
	}
	// station addresses must be unicast
	if mac[0]&0x01 != 0 {
		return proto.ErrRejected
	}
	d.mac = mac
	return nil
}

func (d *Driver) Address() (proto.MAC, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mac, nil
}

func (d *Driver) AddPeer(p proto.Peer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialised {
		return proto.ErrNotInitialised
	}
	if p.Encrypt {
		return proto.ErrEncryptionUnsupported
	}
	if p.Channel > proto.MaxChannel {
		return proto.ErrInvalidChannel
	}
	d.peers[p.MAC] = p
	return nil
}

func (d *Driver) Send(to proto.MAC, payload []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialised {
		return proto.ErrNotInitialised
	}
	if _, ok := d.peers[to]; !ok {
		return proto.ErrRejected
	}
	if len(payload) > proto.MaxPayloadSize {
		return proto.ErrInvalidPayload
	}
	if d.rejectNext > 0 {
		d.rejectNext--
		return proto.ErrRejected
	}

	d.txBuf.push(proto.EncodeSendBody(to, payload))

	status := proto.SendSuccess
	if d.failDeliveries {
		status = proto.SendFail
	}
	// reports are dropped once the channel is full and nobody is reading
	go func(r proto.SendResult) {
		select {
		case d.results <- r:
		default:
		}
	}(proto.SendResult{MAC: to, Status: status})

	return nil
}

func (d *Driver) SendResults() <-chan proto.SendResult { return d.results }

// RejectNext makes the next n calls to Send fail synchronously.
func (d *Driver) RejectNext(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rejectNext = n
}

// FailDeliveries makes accepted frames report SendFail.
func (d *Driver) FailDeliveries(fail bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failDeliveries = fail
}

func (d *Driver) Peers() []proto.Peer {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]proto.Peer, 0, len(d.peers))
	for _, p := range d.peers {
		out = append(out, p)
	}
	return out
}

func (d *Driver) GetTxLog() []Sent {
	d.mu.Lock()
	defer d.mu.Unlock()
	frames := d.txBuf.snapshot()
	out := make([]Sent, 0, len(frames))
	for _, f := range frames {
		to, payload, ok := proto.DecodeSendBody(f)
		if ok {
			out = append(out, Sent{To: to, Payload: payload})
		}
	}
	return out
}

const ringCapacity = 64

type ringBuffer struct {
	data       [ringCapacity][]byte
	head, tail int // head = oldest, tail = next push
	count      int
}

func (rb *ringBuffer) push(frame []byte) {
	if rb.count == ringCapacity {
		// Overwrite the oldest when buffer is full to keep memory bounded
		rb.data[rb.tail] = nil
		rb.head = (rb.head + 1) % ringCapacity
		rb.count--
	}
	rb.data[rb.tail] = frame
	rb.tail = (rb.tail + 1) % ringCapacity
	rb.count++
}

func (rb *ringBuffer) snapshot() [][]byte {
	out := make([][]byte, rb.count)
	i := rb.head
	for c := 0; c < rb.count; c++ {
		cp := make([]byte, len(rb.data[i]))
		copy(cp, rb.data[i])
		out[c] = cp
		i = (i + 1) % ringCapacity
	}
	return out
}
