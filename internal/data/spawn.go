package data

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/wtengine/wte/internal/component"
	"github.com/wtengine/wte/internal/core/ecs"
)

type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type HitboxEntry struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Solid  *bool   `yaml:"solid"` // default true
}

type SpriteEntry struct {
	Asset string `yaml:"asset"`
	Layer int    `yaml:"layer"`
}

// BehaviorEntry names the script functions backing an AI or Dispatcher.
type BehaviorEntry struct {
	Enabled  string `yaml:"enabled"`
	Disabled string `yaml:"disabled"`
	Handler  string `yaml:"handler"`
}

// SpawnEntry describes one entity created when a game starts. Every field is
// optional; only the components present in the entry are attached.
type SpawnEntry struct {
	Name       string         `yaml:"name"`
	Enabled    *bool          `yaml:"enabled"`
	Visible    *bool          `yaml:"visible"`
	Team       *uint8         `yaml:"team"`
	Location   *Vec2          `yaml:"location"`
	Velocity   *Vec2          `yaml:"velocity"`
	Hitbox     *HitboxEntry   `yaml:"hitbox"`
	Health     int            `yaml:"health"`
	Damage     int            `yaml:"damage"`
	Sprite     *SpriteEntry   `yaml:"sprite"`
	AI         *BehaviorEntry `yaml:"ai"`
	Dispatcher *BehaviorEntry `yaml:"dispatcher"`
}

type spawnListFile struct {
	Spawns   []SpawnEntry `yaml:"spawns"`
	checksum uint64
}

// Resolver turns script function names into behaviors and handlers.
type Resolver interface {
	Behavior(name string) (component.Behavior, error)
	Handler(name string) (component.Handler, error)
}

// LoadSpawnList loads spawn entries from a YAML file.
func LoadSpawnList(path, encoding string) ([]SpawnEntry, error) {
	f, err := loadSpawnFile(path, encoding)
	if err != nil {
		return nil, err
	}
	return f.Spawns, nil
}

func loadSpawnFile(path, encoding string) (*spawnListFile, error) {
	raw, sum, err := readText(path, encoding)
	if err != nil {
		return nil, fmt.Errorf("read spawn list: %w", err)
	}
	return parseSpawnFile(raw, sum)
}

func parseSpawnFile(raw []byte, sum uint64) (*spawnListFile, error) {
	var f spawnListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spawn list: %w", err)
	}
	f.checksum = sum
	return &f, nil
}

// Spawn creates one entity per entry. r may be nil when no entry carries an
// AI or Dispatcher. On error the entity being built is destroyed; entities
// created by earlier entries are kept.
func Spawn(w *ecs.World, entries []SpawnEntry, r Resolver) ([]ecs.EntityID, error) {
	ids := make([]ecs.EntityID, 0, len(entries))
	for i := range entries {
		id, err := spawnOne(w, &entries[i], r)
		if err != nil {
			return ids, fmt.Errorf("spawn %d (%q): %w", i, entries[i].Name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func spawnOne(w *ecs.World, e *SpawnEntry, r Resolver) (ecs.EntityID, error) {
	id, err := w.CreateEntity()
	if err != nil {
		return ecs.NoEntity, err
	}
	if err := attach(w, id, e, r); err != nil {
		w.DestroyEntity(id)
		return ecs.NoEntity, err
	}
	return id, nil
}

func attach(w *ecs.World, id ecs.EntityID, e *SpawnEntry, r Resolver) error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if e.Name != "" {
		add(ecs.AddComponent(w, id, component.Name{Value: e.Name}))
	}
	if e.Enabled != nil {
		add(ecs.AddComponent(w, id, component.Enabled{On: *e.Enabled}))
	}
	if e.Visible != nil {
		add(ecs.AddComponent(w, id, component.Visible{On: *e.Visible}))
	}
	var team uint8
	if e.Team != nil {
		t := component.NewTeam(*e.Team)
		team = t.Value
		add(ecs.AddComponent(w, id, t))
	}
	if e.Location != nil {
		add(ecs.AddComponent(w, id, component.Location{X: e.Location.X, Y: e.Location.Y}))
	}
	if e.Velocity != nil {
		add(ecs.AddComponent(w, id, component.Velocity{X: e.Velocity.X, Y: e.Velocity.Y}))
	}
	if h := e.Hitbox; h != nil {
		solid := h.Solid == nil || *h.Solid
		add(ecs.AddComponent(w, id, component.NewHitboxSolid(h.Width, h.Height, team, solid)))
	}
	if e.Health > 0 {
		add(ecs.AddComponent(w, id, component.NewHealth(e.Health)))
	}
	if e.Damage > 0 {
		add(ecs.AddComponent(w, id, component.Damage{Amount: e.Damage}))
	}
	if s := e.Sprite; s != nil {
		add(ecs.AddComponent(w, id, component.Sprite{Asset: s.Asset, Layer: s.Layer}))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if e.AI != nil {
		ai, err := resolveAI(e.AI, r)
		if err != nil {
			return err
		}
		if err := ecs.AddComponent(w, id, ai); err != nil {
			return err
		}
	}
	if e.Dispatcher != nil {
		if r == nil {
			return fmt.Errorf("dispatcher %q: no resolver", e.Dispatcher.Handler)
		}
		h, err := r.Handler(e.Dispatcher.Handler)
		if err != nil {
			return err
		}
		if err := ecs.AddComponent(w, id, component.Dispatcher{Handler: h}); err != nil {
			return err
		}
	}
	return nil
}

func resolveAI(b *BehaviorEntry, r Resolver) (component.AI, error) {
	ai := component.NewAI(component.Idle{})
	if r == nil {
		return ai, fmt.Errorf("ai %q: no resolver", b.Enabled)
	}
	if b.Enabled != "" {
		on, err := r.Behavior(b.Enabled)
		if err != nil {
			return ai, err
		}
		ai.Enabled = on
	}
	if b.Disabled != "" {
		off, err := r.Behavior(b.Disabled)
		if err != nil {
			return ai, err
		}
		ai.Disabled = off
	}
	return ai, nil
}
