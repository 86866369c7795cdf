package message

import "sort"

// Bus holds pending messages ordered by fire time. Messages with equal fire
// times keep their posting order. A Bus is owned by the tick goroutine and is
// not safe for concurrent use.
type Bus struct {
	queue []Message
	now   int64
}

func NewBus() *Bus {
	return &Bus{
		queue: make([]Message, 0, 256),
	}
}

// SetTime sets the bus clock. Messages posted afterwards are stamped with it.
// Called by the host loop at tick start.
func (b *Bus) SetTime(now int64) { b.now = now }

// Now returns the bus clock.
func (b *Bus) Now() int64 { return b.now }

// Post inserts m after every queued message with a fire time <= m's.
func (b *Bus) Post(m Message) {
	m.posted = b.now
	i := sort.Search(len(b.queue), func(i int) bool {
		return m.Before(b.queue[i])
	})
	b.queue = append(b.queue, Message{})
	copy(b.queue[i+1:], b.queue[i:])
	b.queue[i] = m
}

// DrainFor removes and returns, in fire time order, every message for
// subsystem that is ready at now. Later messages stay queued.
func (b *Bus) DrainFor(subsystem string, now int64) []Message {
	return b.extract(func(m Message) bool {
		return m.subsystem == subsystem && m.ReadyAt(now)
	})
}

// DrainAddressedTo removes and returns every message addressed to the named
// entity, regardless of fire time. Handlers filter urgency themselves.
func (b *Bus) DrainAddressedTo(name string) []Message {
	if name == "" {
		return nil
	}
	return b.extract(func(m Message) bool { return m.to == name })
}

// Prune deletes messages that can no longer be delivered on time: timed
// messages whose fire time is before now, and untimed messages posted on an
// earlier tick. Returns the number of messages dropped.
func (b *Bus) Prune(now int64) int {
	return len(b.extract(func(m Message) bool {
		if m.IsTimed() {
			return m.fireTime < now
		}
		return m.posted < now
	}))
}

// Clear drops every pending message.
func (b *Bus) Clear() {
	clear(b.queue)
	b.queue = b.queue[:0]
}

func (b *Bus) Len() int { return len(b.queue) }

// Pending returns a snapshot of the queue in delivery order.
func (b *Bus) Pending() []Message {
	out := make([]Message, len(b.queue))
	copy(out, b.queue)
	return out
}

// extract removes matching messages in one pass and returns them in queue
// order.
func (b *Bus) extract(match func(Message) bool) []Message {
	var out []Message
	kept := b.queue[:0]
	for _, m := range b.queue {
		if match(m) {
			out = append(out, m)
		} else {
			kept = append(kept, m)
		}
	}
	clear(b.queue[len(kept):])
	b.queue = kept
	return out
}
