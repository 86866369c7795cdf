// Package audio runs the audio collaborator on its own goroutine. The tick
// loop hands it batches of "audio" messages by value; nothing else is shared.
package audio

import (
	"context"

	"go.uber.org/zap"

	"github.com/wtengine/wte/internal/core/message"
)

// Subsystem is the bus subsystem drained for audio commands.
const Subsystem = "audio"

// Player executes audio commands against a device.
type Player interface {
	Play(msg message.Message) error
}

// LogPlayer is a Player with no device. It logs each command.
type LogPlayer struct {
	Log *zap.Logger
}

func (p LogPlayer) Play(msg message.Message) error {
	p.Log.Debug("audio",
		zap.String("cmd", msg.Command()),
		zap.Strings("args", msg.Args()),
	)
	return nil
}

// Worker owns a Player and feeds it from a buffered inbox.
type Worker struct {
	inbox  chan []message.Message
	player Player
	log    *zap.Logger
}

func NewWorker(player Player, inboxSize int, log *zap.Logger) *Worker {
	if inboxSize < 1 {
		inboxSize = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		inbox:  make(chan []message.Message, inboxSize),
		player: player,
		log:    log,
	}
}

// Transfer copies batch into the worker's inbox without blocking. It
// returns false, dropping the batch, when the inbox is full.
func (w *Worker) Transfer(batch []message.Message) bool {
	if len(batch) == 0 {
		return true
	}
	cp := make([]message.Message, len(batch))
	copy(cp, batch)
	select {
	case w.inbox <- cp:
		return true
	default:
		w.log.Warn("audio inbox full, batch dropped", zap.Int("messages", len(batch)))
		return false
	}
}

// Run plays queued batches until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case batch := <-w.inbox:
			for _, msg := range batch {
				if err := w.player.Play(msg); err != nil {
					w.log.Error("audio command failed",
						zap.String("cmd", msg.Command()),
						zap.Error(err),
					)
				}
			}
		}
	}
}
