package protocol

import "errors"

var (
	ErrInvalidPayload        = errors.New("invalid payload size")
	ErrNotInitialised        = errors.New("radio not initialised")
	ErrTimeout               = errors.New("operation timed out")
	ErrRejected              = errors.New("request rejected by radio")
	ErrInvalidMAC            = errors.New("invalid MAC address (want 11:22:33:AA:BB:CC)")
	ErrUnknownCommand        = errors.New("unknown command")
	ErrEncryptionUnsupported = errors.New("encrypted peers are not supported")
	ErrClosed                = errors.New("radio driver closed")
	ErrInvalidChannel        = errors.New("invalid channel (valid range: 0-14)")
)
