package protocol

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
	"testing"
)

func TestBridgeFrameEncoding(t *testing.T) {
	tests := []struct {
		name     string
		frame    *BridgeFrame
		wantSize int
	}{
		{
			name:     "empty body",
			frame:    &BridgeFrame{Type: FrameTypeHello, Seq: 1},
			wantSize: BridgeHeaderSize + CRCSize,
		},
		{
			name: "send body",
			frame: &BridgeFrame{
				Type: FrameTypeSend,
				Seq:  0x1234,
				Body: EncodeSendBody(DefaultReceiverMAC, CommandPanic.Bytes()),
			},
			wantSize: BridgeHeaderSize + MACSize + len("PANIC") + CRCSize,
		},
		{
			name: "too large body gets truncated",
			frame: &BridgeFrame{
				Type: FrameTypeSend,
				Seq:  7,
				Body: bytes.Repeat([]byte{0xAA}, MaxBodySize+50),
			},
			wantSize: MaxBridgeFrame,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeBridgeFrame(tt.frame)

			if len(encoded) != tt.wantSize {
				t.Fatalf("EncodeBridgeFrame() size = %v, want %v", len(encoded), tt.wantSize)
			}

			if encoded[0] != tt.frame.Type {
				t.Errorf("Type = %v, want %v", encoded[0], tt.frame.Type)
			}

			if got := binary.LittleEndian.Uint16(encoded[1:3]); got != tt.frame.Seq {
				t.Errorf("Seq = %v, want %v", got, tt.frame.Seq)
			}

			bodyLen := int(encoded[3])
			if bodyLen != len(encoded)-BridgeHeaderSize-CRCSize {
				t.Errorf("Length byte = %v, want %v", bodyLen, len(encoded)-BridgeHeaderSize-CRCSize)
			}

			crcPos := BridgeHeaderSize + bodyLen
			gotCRC := binary.LittleEndian.Uint32(encoded[crcPos:])
			if want := crc32.ChecksumIEEE(encoded[:crcPos]); gotCRC != want {
				t.Errorf("CRC = %v, want %v", gotCRC, want)
			}
		})
	}
}

func TestBridgeFrameRoundTrip(t *testing.T) {
	frames := []*BridgeFrame{
		{Type: FrameTypeGetMAC, Seq: 0},
		{Type: FrameTypeAddPeer, Seq: 3, Body: EncodeAddPeerBody(*NewPeer(DefaultReceiverMAC))},
		{Type: FrameTypeSend | FrameResponseFlag, Seq: 0xFFFF, Body: []byte{StatusOK}},
		{Type: FrameTypeSendStatus, Seq: 9, Body: []byte{SlipEnd, SlipEsc, SlipEnd, 0x00}},
	}

	for _, f := range frames {
		decoded := DecodeBridgeFrame(EncodeBridgeFrame(f))
		if decoded == nil {
			t.Fatalf("DecodeBridgeFrame(%+v) returned nil", f)
		}
		if decoded.Type != f.Type || decoded.Seq != f.Seq {
			t.Errorf("header = (%v, %v), want (%v, %v)", decoded.Type, decoded.Seq, f.Type, f.Seq)
		}
		if !bytes.Equal(decoded.Body, f.Body) && !(len(decoded.Body) == 0 && len(f.Body) == 0) {
			t.Errorf("Body = %v, want %v", decoded.Body, f.Body)
		}
	}
}

func TestDecodeInvalidBridgeFrames(t *testing.T) {
	valid := EncodeBridgeFrame(&BridgeFrame{Type: FrameTypeSend, Seq: 1, Body: []byte{1, 2, 3}})

	tests := []struct {
		name string
		data []byte
	}{
		{name: "nil data", data: nil},
		{name: "too short", data: []byte{0x01, 0x02}},
		{
			name: "length mismatch",
			data: func() []byte {
				d := append([]byte(nil), valid...)
				d[3] = 10
				return d
			}(),
		},
		{
			name: "corrupt CRC",
			data: func() []byte {
				d := append([]byte(nil), valid...)
				d[len(d)-1] ^= 0xFF
				return d
			}(),
		},
		{
			name: "corrupt body",
			data: func() []byte {
				d := append([]byte(nil), valid...)
				d[BridgeHeaderSize] ^= 0x01
				return d
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if decoded := DecodeBridgeFrame(tt.data); decoded != nil {
				t.Errorf("DecodeBridgeFrame() = %v, want nil for invalid frame", decoded)
			}
		})
	}
}

func TestStuffUnstuff(t *testing.T) {
	raw := []byte{0x01, SlipEnd, 0x02, SlipEsc, SlipEscEnd, 0x03}
	stuffed := Stuff(raw)

	if stuffed[0] != SlipEnd || stuffed[len(stuffed)-1] != SlipEnd {
		t.Fatalf("Stuff() = %v, want END delimiters", stuffed)
	}
	if bytes.IndexByte(stuffed[1:len(stuffed)-1], SlipEnd) >= 0 {
		t.Fatalf("Stuff() left an END byte inside the frame: %v", stuffed)
	}

	got, ok := Unstuff(stuffed)
	if !ok {
		t.Fatal("Unstuff() failed on stuffed data")
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("Unstuff() = %v, want %v", got, raw)
	}

	bad := [][]byte{
		{SlipEnd, 0x01, SlipEsc, 0x01, SlipEnd},
		{SlipEnd, 0x01, SlipEsc},
		{0x01, SlipEnd, 0x02},
	}
	for _, b := range bad {
		if _, ok := Unstuff(b); ok {
			t.Errorf("Unstuff(%v) succeeded, want failure", b)
		}
	}
}

func TestFrameReader(t *testing.T) {
	first := &BridgeFrame{Type: FrameTypeSendStatus, Seq: 1, Body: EncodeSendStatus(SendResult{MAC: DefaultReceiverMAC})}
	second := &BridgeFrame{Type: FrameTypeSend | FrameResponseFlag, Seq: 2, Body: []byte{StatusOK}}

	corrupt := Stuff(EncodeBridgeFrame(second))
	corrupt[len(corrupt)-2] ^= 0x01

	var stream bytes.Buffer
	stream.Write([]byte{0x00, 0x11}) // line noise before the first delimiter
	stream.Write(Stuff(EncodeBridgeFrame(first)))
	stream.Write(corrupt)
	stream.Write([]byte{SlipEnd, SlipEsc, 0x42, SlipEnd}) // bad escape
	stream.Write(Stuff(EncodeBridgeFrame(second)))

	fr := NewFrameReader(&stream)

	got, err := fr.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got.Type != first.Type || got.Seq != first.Seq {
		t.Errorf("first frame = %+v, want %+v", got, first)
	}
	res, ok := DecodeSendStatus(got.Body)
	if !ok || res.MAC != DefaultReceiverMAC || res.Status != SendSuccess {
		t.Errorf("DecodeSendStatus() = %+v, %v", res, ok)
	}

	got, err = fr.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got.Seq != second.Seq || got.Status() != StatusOK {
		t.Errorf("second frame = %+v, want %+v", got, second)
	}

	if _, err := fr.Next(); err != io.EOF {
		t.Errorf("Next() at end error = %v, want io.EOF", err)
	}
}
