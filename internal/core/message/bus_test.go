package message

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitArgs(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"one", []string{"one"}},
		{"a;b;c", []string{"a", "b", "c"}},
		{"a;;c", []string{"a", "", "c"}},
		{"trailing;", []string{"trailing", ""}},
		{";", []string{"", ""}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got := SplitArgs(tc.in)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.in, JoinArgs(got))
		})
	}
}

func TestMessage_Accessors(t *testing.T) {
	m := NewTimedTo(10, "entities", "player", "enemy", "damage", "5;fire")
	require.Equal(t, int64(10), m.FireTime())
	require.True(t, m.IsTimed())
	require.True(t, m.IsAddressed())
	require.Equal(t, "entities", m.Subsystem())
	require.Equal(t, "player", m.To())
	require.Equal(t, "enemy", m.From())
	require.Equal(t, "damage", m.Command())
	require.Equal(t, "5;fire", m.RawArgs())
	require.Equal(t, 2, m.NumArgs())
	require.Equal(t, "fire", m.Arg(1))
	require.Equal(t, "", m.Arg(2))
	require.Equal(t, "", m.Arg(-1))

	args := m.Args()
	args[0] = "changed"
	require.Equal(t, "5", m.Arg(0))

	u := New("system", "exit", "")
	require.False(t, u.IsTimed())
	require.Equal(t, Immediate, u.FireTime())
	require.Equal(t, Immediate, NewTimed(-20, "audio", "play", "").FireTime())

	require.True(t, u.Before(m))
	require.False(t, m.Before(u))
	require.False(t, m.Before(NewTimed(10, "audio", "play", "")))
}

func TestBus_DeferredDelivery(t *testing.T) {
	b := NewBus()
	b.Post(NewTimed(100, "audio", "play", "music.ogg"))

	require.Empty(t, b.DrainFor("audio", 50))
	require.Equal(t, 1, b.Len())

	got := b.DrainFor("audio", 100)
	require.Len(t, got, 1)
	require.Equal(t, "play", got[0].Command())
	require.Equal(t, 0, b.Len())
}

func TestBus_DrainOrderIsStable(t *testing.T) {
	b := NewBus()
	rng := rand.New(rand.NewSource(3))

	type posted struct {
		fire int64
		seq  int
	}
	for i := 0; i < 200; i++ {
		fire := int64(rng.Intn(20)) - 2 // includes Immediate
		b.Post(NewTimed(fire, "game", "tick", JoinArgs([]string{string(rune('a' + i%26)), strconv.Itoa(i)})))
	}

	var last posted
	last.fire = -2
	drained := 0
	for now := int64(0); now < 20; now += 3 {
		for _, m := range b.DrainFor("game", now) {
			require.True(t, m.ReadyAt(now))
			seq, err := strconv.Atoi(m.Arg(1))
			require.NoError(t, err)
			if m.FireTime() == last.fire {
				require.Greater(t, seq, last.seq, "ties keep posting order")
			} else {
				require.Greater(t, m.FireTime(), last.fire)
			}
			last = posted{fire: m.FireTime(), seq: seq}
			drained++
		}
	}
	require.Equal(t, 200, drained)
}

func TestBus_DrainForFiltersSubsystem(t *testing.T) {
	b := NewBus()
	b.Post(New("audio", "play", ""))
	b.Post(New("system", "exit", ""))
	b.Post(New("audio", "stop", ""))

	got := b.DrainFor("audio", 0)
	require.Len(t, got, 2)
	require.Equal(t, "play", got[0].Command())
	require.Equal(t, "stop", got[1].Command())

	rest := b.Pending()
	require.Len(t, rest, 1)
	require.Equal(t, "system", rest[0].Subsystem())
}

// Entity-addressed delivery ignores the fire time gate used for subsystems.
func TestBus_DrainAddressedToIgnoresFireTime(t *testing.T) {
	b := NewBus()
	b.Post(NewTimedTo(500, "entities", "ship", "", "later", ""))
	b.Post(NewTo("entities", "ship", "", "now", ""))
	b.Post(NewTo("entities", "rock", "", "other", ""))

	got := b.DrainAddressedTo("ship")
	require.Len(t, got, 2)
	require.Equal(t, "now", got[0].Command())
	require.Equal(t, "later", got[1].Command())
	require.Nil(t, b.DrainAddressedTo(""))
	require.Equal(t, 1, b.Len())
}

func TestBus_Prune(t *testing.T) {
	b := NewBus()
	b.SetTime(0)
	b.Post(NewTimed(2, "ghost", "boo", ""))
	b.Post(NewTimed(50, "ghost", "future", ""))
	b.Post(New("ghost", "untimed", ""))

	for now := int64(1); now <= 5; now++ {
		b.SetTime(now)
		b.Prune(now)
	}
	pending := b.Pending()
	require.Len(t, pending, 1)
	require.Equal(t, "future", pending[0].Command())
	require.Empty(t, b.DrainFor("ghost", 5))
}

func TestBus_PruneKeepsCurrentTick(t *testing.T) {
	b := NewBus()
	b.SetTime(7)
	b.Post(New("system", "alert", "hi"))
	b.Post(NewTimed(7, "audio", "play", ""))
	require.Equal(t, 0, b.Prune(7))
	require.Equal(t, 2, b.Len())
	require.Equal(t, 2, b.Prune(8))
}

func TestBus_Clear(t *testing.T) {
	b := NewBus()
	b.Post(New("a", "x", ""))
	b.Post(NewTimed(3, "b", "y", ""))
	b.Clear()
	require.Equal(t, 0, b.Len())
	require.Empty(t, b.DrainFor("a", 10))
}
