// Package bridge drives an ESP32 running the vendor ESP-NOW stack over a
// UART. Requests and responses are matched by sequence number; send-complete
// notifications arrive as unsolicited SendStatus frames.
package bridge

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	proto "github.com/ystepanoff/panicbutton/protocol"
	"github.com/ystepanoff/panicbutton/transport"
)

const resultsBuffer = 16

// Driver implements transport.RadioDriver on top of any byte stream.
type Driver struct {
	rw      io.ReadWriter
	reader  *proto.FrameReader
	log     transport.Logger
	timeout time.Duration

	wmu sync.Mutex // one frame on the wire at a time

	mu      sync.Mutex
	seq     uint16
	pending map[uint16]chan *proto.BridgeFrame

	results   chan proto.SendResult
	closed    chan struct{}
	closeOnce sync.Once
	err       error
}

// New starts the receive loop on rw. The driver owns rw from here on.
func New(rw io.ReadWriter) *Driver {
	d := &Driver{
		rw:      rw,
		reader:  proto.NewFrameReader(rw),
		log:     log.Default(),
		timeout: proto.BridgeTimeout,
		pending: make(map[uint16]chan *proto.BridgeFrame),
		results: make(chan proto.SendResult, resultsBuffer),
		closed:  make(chan struct{}),
	}
	go d.readLoop()
	return d
}

func (d *Driver) SetLogger(l transport.Logger) {
	if l != nil {
		d.log = l
	}
}

// SetTimeout changes how long a request waits for its response.
func (d *Driver) SetTimeout(timeout time.Duration) { d.timeout = timeout }

func (d *Driver) Init() error {
	f, err := d.request(proto.FrameTypeHello, nil)
	if err != nil {
		return err
	}
	if len(f.Body) > 1 {
		d.log.Printf("[Bridge] Firmware %s\r\n", f.Body[1:])
	}
	return nil
}

func (d *Driver) SetAddress(mac proto.MAC) error {
	_, err := d.request(proto.FrameTypeSetMAC, mac[:])
	return err
}

func (d *Driver) Address() (proto.MAC, error) {
	var mac proto.MAC
	f, err := d.request(proto.FrameTypeGetMAC, nil)
	if err != nil {
		return mac, err
	}
	if len(f.Body) != 1+proto.MACSize {
		return mac, fmt.Errorf("GetMAC response of %d bytes: %w", len(f.Body), proto.ErrInvalidPayload)
	}
	copy(mac[:], f.Body[1:])
	return mac, nil
}

func (d *Driver) AddPeer(p proto.Peer) error {
	if p.Encrypt {
		return proto.ErrEncryptionUnsupported
	}
	if p.Channel > proto.MaxChannel {
		return proto.ErrInvalidChannel
	}
	_, err := d.request(proto.FrameTypeAddPeer, proto.EncodeAddPeerBody(p))
	return err
}

func (d *Driver) Send(to proto.MAC, payload []byte) error {
	if len(payload) > proto.MaxPayloadSize {
		return proto.ErrInvalidPayload
	}
	_, err := d.request(proto.FrameTypeSend, proto.EncodeSendBody(to, payload))
	return err
}

// SendResults is closed when the receive loop stops.
func (d *Driver) SendResults() <-chan proto.SendResult { return d.results }

// Close stops the driver and closes the underlying stream if it can be closed.
func (d *Driver) Close() error {
	d.shutdown(proto.ErrClosed)
	if c, ok := d.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (d *Driver) shutdown(err error) {
	d.closeOnce.Do(func() {
		d.err = err
		close(d.closed)
	})
}

func (d *Driver) request(typ byte, body []byte) (*proto.BridgeFrame, error) {
	select {
	case <-d.closed:
		return nil, d.err
	default:
	}

	ch := make(chan *proto.BridgeFrame, 1)
	d.mu.Lock()
	seq := d.seq
	d.seq++
	d.pending[seq] = ch
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		delete(d.pending, seq)
		d.mu.Unlock()
	}()

	data := proto.Stuff(proto.EncodeBridgeFrame(&proto.BridgeFrame{Type: typ, Seq: seq, Body: body}))

	d.wmu.Lock()
	_, err := d.rw.Write(data)
	d.wmu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("bridge write: %w", err)
	}

	timer := time.NewTimer(d.timeout)
	defer timer.Stop()

	select {
	case f := <-ch:
		if !f.IsResponse(typ) {
			return nil, fmt.Errorf("%w: response type 0x%02x to request 0x%02x", proto.ErrRejected, f.Type, typ)
		}
		if status := f.Status(); status != proto.StatusOK {
			return nil, fmt.Errorf("%w: request 0x%02x status 0x%02x", proto.ErrRejected, typ, status)
		}
		return f, nil
	case <-timer.C:
		return nil, fmt.Errorf("request 0x%02x: %w", typ, proto.ErrTimeout)
	case <-d.closed:
		return nil, d.err
	}
}

func (d *Driver) readLoop() {
	defer close(d.results)
	for {
		f, err := d.reader.Next()
		if err != nil {
			d.shutdown(fmt.Errorf("bridge read: %w", err))
			return
		}

		select {
		case <-d.closed:
			return
		default:
		}

		d.dispatch(f)
	}
}

func (d *Driver) dispatch(f *proto.BridgeFrame) {
	if f.Type == proto.FrameTypeSendStatus {
		r, ok := proto.DecodeSendStatus(f.Body)
		if !ok {
			d.log.Printf("[Bridge] Malformed send status (%d bytes)\r\n", len(f.Body))
			return
		}
		select {
		case d.results <- r:
		default:
			d.log.Printf("[Bridge] Send status for %s dropped, nobody is listening\r\n", r.MAC)
		}
		return
	}

	if f.Type&proto.FrameResponseFlag == 0 {
		d.log.Printf("[Bridge] Unexpected frame type 0x%02x\r\n", f.Type)
		return
	}

	d.mu.Lock()
	ch, ok := d.pending[f.Seq]
	d.mu.Unlock()
	if !ok {
		d.log.Printf("[Bridge] Late response seq=%d\r\n", f.Seq)
		return
	}
	select {
	case ch <- f:
	default:
		d.log.Printf("[Bridge] Duplicate response seq=%d\r\n", f.Seq)
	}
}
