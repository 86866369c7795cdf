package system

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/wtengine/wte/internal/component"
	"github.com/wtengine/wte/internal/core/ecs"
	"github.com/wtengine/wte/internal/core/message"
)

var (
	ErrFinalized        = errors.New("scheduler finalized")
	ErrAlreadyFinalized = errors.New("scheduler already finalized")
	ErrNotFinalized     = errors.New("scheduler not finalized")
	ErrUnknownSystem    = errors.New("unknown system")
	ErrDuplicateSystem  = errors.New("system already registered")
)

type entry struct {
	sys     System
	enabled bool
}

// Scheduler runs registered systems in registration order each tick.
// Systems are registered during setup; Finalize locks the list. Enablement
// can be toggled at any time and only affects Run.
type Scheduler struct {
	systems   []entry
	index     map[string]int
	finalized bool
	log       *zap.Logger
}

func NewScheduler(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		systems: make([]entry, 0, 16),
		index:   make(map[string]int, 16),
		log:     log,
	}
}

// Register appends s, enabled. It fails once the scheduler is finalized or
// when the name is taken; the registered set is left unchanged.
func (s *Scheduler) Register(sys System) error {
	name := sys.Name()
	if s.finalized {
		return fmt.Errorf("register %q: %w", name, ErrFinalized)
	}
	if _, ok := s.index[name]; ok {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateSystem)
	}
	s.index[name] = len(s.systems)
	s.systems = append(s.systems, entry{sys: sys, enabled: true})
	s.log.Debug("system registered", zap.String("system", name), zap.Int("order", len(s.systems)-1))
	return nil
}

// Finalize locks registration. A second call reports ErrAlreadyFinalized
// and changes nothing.
func (s *Scheduler) Finalize() error {
	if s.finalized {
		return ErrAlreadyFinalized
	}
	s.finalized = true
	s.log.Debug("systems finalized", zap.Int("count", len(s.systems)))
	return nil
}

func (s *Scheduler) Finalized() bool { return s.finalized }

// Run invokes every enabled system once, in registration order.
func (s *Scheduler) Run(w *ecs.World, bus *message.Bus, now int64) error {
	if !s.finalized {
		return ErrNotFinalized
	}
	for _, e := range s.systems {
		if e.enabled {
			e.sys.Run(w, bus, now)
		}
	}
	return nil
}

// Dispatch delivers entity-addressed messages to every named entity that
// carries a Dispatcher, in the order they are drained from the bus.
// System enablement does not gate dispatch.
func (s *Scheduler) Dispatch(w *ecs.World, bus *message.Bus) error {
	if !s.finalized {
		return ErrNotFinalized
	}
	for _, d := range ecs.Query[component.Dispatcher](w) {
		if d.C.Handler == nil || !w.Alive(d.ID) {
			continue
		}
		name := component.NameOf(w, d.ID)
		if name == "" {
			continue
		}
		handler := d.C.Handler
		for _, msg := range bus.DrainAddressedTo(name) {
			// A handler may retire its own entity mid-batch.
			if !w.Alive(d.ID) {
				break
			}
			handler.Handle(d.ID, w, bus, msg)
		}
	}
	return nil
}

func (s *Scheduler) Enable(name string) error {
	return s.setEnabled(name, true)
}

func (s *Scheduler) Disable(name string) error {
	return s.setEnabled(name, false)
}

func (s *Scheduler) setEnabled(name string, on bool) error {
	i, ok := s.index[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownSystem)
	}
	s.systems[i].enabled = on
	s.log.Debug("system toggled", zap.String("system", name), zap.Bool("enabled", on))
	return nil
}

// Enabled reports whether the named system participates in Run.
func (s *Scheduler) Enabled(name string) (bool, error) {
	i, ok := s.index[name]
	if !ok {
		return false, fmt.Errorf("%q: %w", name, ErrUnknownSystem)
	}
	return s.systems[i].enabled, nil
}

// Names returns the registered system names in run order.
func (s *Scheduler) Names() []string {
	out := make([]string, len(s.systems))
	for i, e := range s.systems {
		out[i] = e.sys.Name()
	}
	return out
}

func (s *Scheduler) Len() int { return len(s.systems) }
