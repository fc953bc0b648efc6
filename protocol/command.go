package protocol

// Command is an application-level instruction sent as a bare ASCII payload.
// Its effect is defined entirely by the receiver.
type Command string

const (
	CommandArm    Command = "ARM"
	CommandDisarm Command = "DISARM"
	CommandPanic  Command = "PANIC"
)

// Bytes returns the exact on-air payload: the literal text, no length
// prefix, terminator or checksum.
func (c Command) Bytes() []byte { return []byte(c) }

func (c Command) Valid() bool {
	switch c {
	case CommandArm, CommandDisarm, CommandPanic:
		return true
	}
	return false
}

// ParseCommand accepts only the literal command names.
func ParseCommand(s string) (Command, error) {
	c := Command(s)
	if !c.Valid() {
		return "", ErrUnknownCommand
	}
	return c, nil
}
