package audio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wtengine/wte/internal/core/message"
)

type chanPlayer struct {
	played chan string
}

func (p chanPlayer) Play(msg message.Message) error {
	p.played <- msg.Command()
	if msg.Command() == "broken" {
		return errors.New("no such sample")
	}
	return nil
}

func TestWorker_PlaysInOrder(t *testing.T) {
	p := chanPlayer{played: make(chan string, 8)}
	w := NewWorker(p, 4, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	batch := []message.Message{
		message.New(Subsystem, "play_music", "theme.ogg"),
		message.New(Subsystem, "broken", ""),
		message.New(Subsystem, "stop_music", ""),
	}
	require.True(t, w.Transfer(batch))
	batch[0] = message.New(Subsystem, "mutated", "")

	for _, want := range []string{"play_music", "broken", "stop_music"} {
		select {
		case got := <-p.played:
			require.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWorker_TransferFull(t *testing.T) {
	w := NewWorker(chanPlayer{played: make(chan string, 1)}, 1, zaptest.NewLogger(t))
	one := []message.Message{message.New(Subsystem, "a", "")}
	require.True(t, w.Transfer(one))
	require.False(t, w.Transfer(one))
	require.True(t, w.Transfer(nil))
}

func TestWorker_NilLogger(t *testing.T) {
	w := NewWorker(chanPlayer{played: make(chan string, 1)}, 1, nil)
	one := []message.Message{message.New(Subsystem, "a", "")}
	require.True(t, w.Transfer(one))
	require.NotPanics(t, func() { require.False(t, w.Transfer(one)) })
}
