package protocol

import "time"

// MAC is a 6-byte station address, stored in the order it is printed
// (first byte first), which is also the order ESP-NOW expects on the wire.
type MAC [MACSize]byte

// ParseMAC parses an address in 11:22:33:AA:BB:CC form. Hex digits may be
// upper or lower case.
func ParseMAC(s string) (mac MAC, err error) {
	if len(s) != MACSize*3-1 {
		return MAC{}, ErrInvalidMAC
	}
	for i := 0; i < MACSize; i++ {
		off := i * 3
		if i > 0 && s[off-1] != ':' {
			return MAC{}, ErrInvalidMAC
		}
		hi, ok1 := fromHex(s[off])
		lo, ok2 := fromHex(s[off+1])
		if !ok1 || !ok2 {
			return MAC{}, ErrInvalidMAC
		}
		mac[i] = hi<<4 | lo
	}
	return mac, nil
}

func fromHex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 0xA, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 0xA, true
	}
	return 0, false
}

const hexDigits = "0123456789ABCDEF"

// String returns the address as 11:22:33:AA:BB:CC.
func (mac MAC) String() string {
	buf := make([]byte, 0, MACSize*3-1)
	for i, b := range mac {
		if i > 0 {
			buf = append(buf, ':')
		}
		buf = append(buf, hexDigits[b>>4], hexDigits[b&0x0f])
	}
	return string(buf)
}

// IsZero reports whether no address has been set.
func (mac MAC) IsZero() bool { return mac == MAC{} }

// Peer is a registered ESP-NOW destination.
// LastStatus/LastSeen are updated from send-complete notifications.
type Peer struct {
	MAC     MAC
	Channel uint8
	Encrypt bool

	LastStatus SendStatus
	LastSeen   int64 // unix milli of the last successful delivery
}

func NewPeer(mac MAC) *Peer {
	return &Peer{
		MAC:     mac,
		Channel: DefaultChannel,
	}
}

func (p *Peer) Record(r SendResult) {
	p.LastStatus = r.Status
	if r.Status == SendSuccess {
		p.LastSeen = time.Now().UnixMilli()
	}
}

// SendStatus is the outcome reported by the radio after a send attempt.
type SendStatus uint8

const (
	SendSuccess SendStatus = StatusOK
	SendFail    SendStatus = StatusFail
)

func (s SendStatus) String() string {
	if s == SendSuccess {
		return "Success"
	}
	return "Fail"
}

// SendResult is one asynchronous send-complete notification. Receivers must
// treat it as read-only.
type SendResult struct {
	MAC    MAC
	Status SendStatus
}
