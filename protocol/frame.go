package protocol

import (
	"encoding/binary"
	"hash/crc32"
	"io"
	"time"
)

// BridgeFrame is one request, response or event exchanged with the radio
// bridge over the UART.
// Layout: Type(1) | Seq(2) | Length(1) | Body(0-255) | CRC32(4)
// On the wire every frame is SLIP-stuffed and delimited by SlipEnd.

type BridgeFrame struct {
	Type byte
	Seq  uint16
	Body []byte
	CRC  uint32 // decoded frames only; ignored by encoder
}

// IsResponse reports whether f answers the request type req.
func (f *BridgeFrame) IsResponse(req byte) bool { return f.Type == req|FrameResponseFlag }

// Status returns the status byte of a response frame.
func (f *BridgeFrame) Status() byte {
	if len(f.Body) == 0 {
		return StatusFail
	}
	return f.Body[0]
}

// EncodeBridgeFrame serialises f without stuffing. Oversized bodies are truncated.
func EncodeBridgeFrame(f *BridgeFrame) []byte {
	if f == nil {
		return make([]byte, 0)
	}

	body := f.Body
	if len(body) > MaxBodySize {
		body = body[:MaxBodySize]
	}

	data := make([]byte, BridgeHeaderSize+len(body)+CRCSize)
	data[0] = f.Type
	binary.LittleEndian.PutUint16(data[1:3], f.Seq)
	data[3] = byte(len(body))
	copy(data[BridgeHeaderSize:], body)

	crcPos := BridgeHeaderSize + len(body)
	binary.LittleEndian.PutUint32(data[crcPos:], crc32.ChecksumIEEE(data[:crcPos]))

	return data
}

func DecodeBridgeFrame(data []byte) *BridgeFrame {
	if len(data) < BridgeHeaderSize+CRCSize {
		return nil
	}

	bodyLen := int(data[3])
	if BridgeHeaderSize+bodyLen+CRCSize != len(data) {
		return nil
	}

	crcPos := BridgeHeaderSize + bodyLen
	recvCRC := binary.LittleEndian.Uint32(data[crcPos:])
	if recvCRC != crc32.ChecksumIEEE(data[:crcPos]) {
		return nil
	}

	f := &BridgeFrame{
		Type: data[0],
		Seq:  binary.LittleEndian.Uint16(data[1:3]),
		CRC:  recvCRC,
		Body: make([]byte, bodyLen),
	}
	copy(f.Body, data[BridgeHeaderSize:crcPos])

	return f
}

// Stuff escapes raw and wraps it in SlipEnd delimiters.
func Stuff(raw []byte) []byte {
	out := make([]byte, 0, len(raw)+2)
	out = append(out, SlipEnd)
	for _, b := range raw {
		switch b {
		case SlipEnd:
			out = append(out, SlipEsc, SlipEscEnd)
		case SlipEsc:
			out = append(out, SlipEsc, SlipEscEsc)
		default:
			out = append(out, b)
		}
	}
	return append(out, SlipEnd)
}

// Unstuff reverses Stuff for a single frame. Leading and trailing SlipEnd
// bytes are optional; an END inside the frame or a bad escape is rejected.
func Unstuff(data []byte) ([]byte, bool) {
	for len(data) > 0 && data[0] == SlipEnd {
		data = data[1:]
	}
	for len(data) > 0 && data[len(data)-1] == SlipEnd {
		data = data[:len(data)-1]
	}

	out := make([]byte, 0, len(data))
	esc := false
	for _, b := range data {
		if b == SlipEnd {
			return nil, false
		}
		if esc {
			switch b {
			case SlipEscEnd:
				out = append(out, SlipEnd)
			case SlipEscEsc:
				out = append(out, SlipEsc)
			default:
				return nil, false
			}
			esc = false
			continue
		}
		if b == SlipEsc {
			esc = true
			continue
		}
		out = append(out, b)
	}
	if esc {
		return nil, false
	}
	return out, true
}

// FrameReader splits a SLIP byte stream into bridge frames. Frames that fail
// to unstuff or decode are skipped.
type FrameReader struct {
	r       io.Reader
	buf     [64]byte
	pending []byte
	frame   []byte
	esc     bool
	bad     bool
}

func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r, frame: make([]byte, 0, MaxBridgeFrame)}
}

// Next blocks until a valid frame arrives or the underlying reader fails.
// A reader that returns (0, nil) is polled every millisecond, which is how
// TinyGo UARTs report an empty receive buffer.
func (fr *FrameReader) Next() (*BridgeFrame, error) {
	for {
		for len(fr.pending) > 0 {
			b := fr.pending[0]
			fr.pending = fr.pending[1:]
			if f := fr.feed(b); f != nil {
				return f, nil
			}
		}

		n, err := fr.r.Read(fr.buf[:])
		if n > 0 {
			fr.pending = fr.buf[:n]
			continue
		}
		if err != nil {
			return nil, err
		}
		time.Sleep(time.Millisecond)
	}
}

func (fr *FrameReader) feed(b byte) *BridgeFrame {
	if b == SlipEnd {
		var f *BridgeFrame
		if len(fr.frame) > 0 && !fr.bad && !fr.esc {
			f = DecodeBridgeFrame(fr.frame)
		}
		fr.frame = fr.frame[:0]
		fr.esc = false
		fr.bad = false
		return f
	}
	if fr.bad {
		return nil
	}
	if fr.esc {
		fr.esc = false
		switch b {
		case SlipEscEnd:
			b = SlipEnd
		case SlipEscEsc:
			b = SlipEsc
		default:
			fr.bad = true
			return nil
		}
	} else if b == SlipEsc {
		fr.esc = true
		return nil
	}
	if len(fr.frame) >= MaxBridgeFrame {
		fr.bad = true
		return nil
	}
	fr.frame = append(fr.frame, b)
	return nil
}

// EncodeAddPeerBody builds the AddPeer request body: mac(6) | channel(1) | encrypt(1).
func EncodeAddPeerBody(p Peer) []byte {
	body := make([]byte, MACSize+2)
	copy(body, p.MAC[:])
	body[MACSize] = p.Channel
	if p.Encrypt {
		body[MACSize+1] = 1
	}
	return body
}

// EncodeSendBody builds the Send request body: mac(6) | payload.
func EncodeSendBody(to MAC, payload []byte) []byte {
	body := make([]byte, MACSize+len(payload))
	copy(body, to[:])
	copy(body[MACSize:], payload)
	return body
}

// DecodeSendBody is the inverse of EncodeSendBody.
func DecodeSendBody(body []byte) (MAC, []byte, bool) {
	var mac MAC
	if len(body) < MACSize {
		return mac, nil, false
	}
	copy(mac[:], body)
	payload := make([]byte, len(body)-MACSize)
	copy(payload, body[MACSize:])
	return mac, payload, true
}

// DecodeSendStatus parses a SendStatus event body: mac(6) | status(1).
func DecodeSendStatus(body []byte) (SendResult, bool) {
	if len(body) != MACSize+1 {
		return SendResult{}, false
	}
	var r SendResult
	copy(r.MAC[:], body)
	r.Status = SendStatus(body[MACSize])
	if r.Status != SendSuccess {
		r.Status = SendFail
	}
	return r, true
}

// EncodeSendStatus builds a SendStatus event body.
func EncodeSendStatus(r SendResult) []byte {
	body := make([]byte, MACSize+1)
	copy(body, r.MAC[:])
	body[MACSize] = byte(r.Status)
	return body
}
