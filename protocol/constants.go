package protocol

import "time"

// Generic radio & protocol constants (platform independent). All higher layers should depend on this file.
const (
	// ESP-NOW limits
	MACSize        = 6
	MaxPayloadSize = 250 // largest ESP-NOW payload accepted by the vendor stack
	DefaultChannel = 0   // 0 = use the channel the Wi-Fi interface is already on
	MaxChannel     = 14

	// Bridge frame layout (between SLIP END delimiters):
	//   Type (1) | Seq (2) | Length (1) | Body (0-255) | CRC32 (4)
	// CRC32 (IEEE, little-endian) covers Type..Body.
	TypeFieldSize   = 1
	SeqFieldSize    = 2
	LengthFieldSize = 1
	CRCSize         = 4

	BridgeHeaderSize = TypeFieldSize + SeqFieldSize + LengthFieldSize // 4 bytes
	MaxBodySize      = 255
	MaxBridgeFrame   = BridgeHeaderSize + MaxBodySize + CRCSize

	// SLIP byte stuffing
	SlipEnd    = 0xC0
	SlipEsc    = 0xDB
	SlipEscEnd = 0xDC
	SlipEscEsc = 0xDD

	// Bridge frame types (host -> bridge)
	FrameTypeHello   = 0x01
	FrameTypeSetMAC  = 0x02
	FrameTypeGetMAC  = 0x03
	FrameTypeAddPeer = 0x04
	FrameTypeSend    = 0x05

	// Bridge frame types (bridge -> host)
	FrameTypeSendStatus = 0x40
	FrameResponseFlag   = 0x80

	// Response status codes
	StatusOK   = 0x00
	StatusFail = 0x01

	// Bridge UART defaults
	DefaultBaudRate = 115200
)

// Timings of the poll loop and the bridge request/response exchange.
const (
	PollInterval     = 50 * time.Millisecond
	DebounceInterval = 1000 * time.Millisecond
	BridgeTimeout    = 500 * time.Millisecond
)

// Addresses used by the reference deployment. The sender programs its own
// station MAC so the receiver can whitelist it.
var (
	DefaultSenderMAC   = MAC{0x02, 0x00, 0x00, 0xAA, 0xBB, 0x01}
	DefaultReceiverMAC = MAC{0x02, 0x00, 0x00, 0xAA, 0xBB, 0x02}
)
