package message

import "strings"

// Immediate is the fire time of an untimed message. It sorts before every
// timed message.
const Immediate int64 = -1

// ArgSeparator delimits entries of a message argument string.
const ArgSeparator = ";"

// Message is an immutable command addressed to a subsystem and, optionally,
// to a named entity. Construct with New, NewTimed, NewTo or NewTimedTo.
type Message struct {
	fireTime  int64
	subsystem string
	to        string
	from      string
	command   string
	args      string
	argList   []string
	posted    int64
}

// New creates an untimed message.
func New(subsystem, command, args string) Message {
	return NewTimedTo(Immediate, subsystem, "", "", command, args)
}

// NewTimed creates a message delivered once the engine clock reaches fireTime.
func NewTimed(fireTime int64, subsystem, command, args string) Message {
	return NewTimedTo(fireTime, subsystem, "", "", command, args)
}

// NewTo creates an untimed message addressed from one entity to another.
func NewTo(subsystem, to, from, command, args string) Message {
	return NewTimedTo(Immediate, subsystem, to, from, command, args)
}

// NewTimedTo creates a timed, addressed message. Negative fire times are
// treated as Immediate.
func NewTimedTo(fireTime int64, subsystem, to, from, command, args string) Message {
	if fireTime < 0 {
		fireTime = Immediate
	}
	return Message{
		fireTime:  fireTime,
		subsystem: subsystem,
		to:        to,
		from:      from,
		command:   command,
		args:      args,
		argList:   SplitArgs(args),
	}
}

func (m Message) FireTime() int64   { return m.fireTime }
func (m Message) Subsystem() string { return m.subsystem }
func (m Message) To() string        { return m.to }
func (m Message) From() string      { return m.from }
func (m Message) Command() string   { return m.command }

// RawArgs returns the argument string as posted.
func (m Message) RawArgs() string { return m.args }

// Args returns a copy of the split argument list.
func (m Message) Args() []string {
	out := make([]string, len(m.argList))
	copy(out, m.argList)
	return out
}

// NumArgs returns the number of split arguments.
func (m Message) NumArgs() int { return len(m.argList) }

// Arg returns argument i, or "" when i is out of range.
func (m Message) Arg(i int) string {
	if i < 0 || i >= len(m.argList) {
		return ""
	}
	return m.argList[i]
}

// IsTimed reports whether the message waits for a fire time.
func (m Message) IsTimed() bool { return m.fireTime != Immediate }

// IsAddressed reports whether the message targets an entity.
func (m Message) IsAddressed() bool { return m.to != "" }

// Before orders messages by fire time. Bus insertion keeps ties in post
// order.
func (m Message) Before(o Message) bool { return m.fireTime < o.fireTime }

// ReadyAt reports whether the message may be delivered at tick now.
func (m Message) ReadyAt(now int64) bool {
	return m.fireTime == Immediate || m.fireTime <= now
}

// Posted returns the bus time at which the message was queued.
func (m Message) Posted() int64 { return m.posted }

// SplitArgs splits s on ArgSeparator. An empty string has no arguments.
// JoinArgs(SplitArgs(s)) == s for every s.
func SplitArgs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ArgSeparator)
}

// JoinArgs is the inverse of SplitArgs.
func JoinArgs(args []string) string {
	return strings.Join(args, ArgSeparator)
}
