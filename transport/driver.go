package transport

import proto "github.com/ystepanoff/panicbutton/protocol"

// RadioDriver is the interface that wraps the basic ESP-NOW operations.
//
// Send only reports whether the radio accepted the frame. The delivery
// outcome of every accepted frame arrives later on SendResults, from a
// goroutine that is not the caller's.
type RadioDriver interface {
	Init() error
	SetAddress(mac proto.MAC) error
	Address() (proto.MAC, error)
	AddPeer(peer proto.Peer) error
	Send(to proto.MAC, payload []byte) error
	SendResults() <-chan proto.SendResult
}

// Logger is satisfied by *log.Logger and *logrus.Logger.
type Logger interface {
	Printf(format string, args ...interface{})
}
