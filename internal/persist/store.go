package persist

import (
	"context"
	"fmt"
	"strconv"
)

// Store adapts the repos to the engine's persistence hooks.
type Store struct {
	Vars     *VarRepo
	Sessions *SessionRepo
}

func NewStore(db *DB) *Store {
	return &Store{Vars: NewVarRepo(db), Sessions: NewSessionRepo(db)}
}

func (s *Store) SaveVar(ctx context.Context, key, value string) error {
	if err := s.Vars.Save(ctx, key, value); err != nil {
		return fmt.Errorf("save game var %s: %w", key, err)
	}
	return nil
}

func (s *Store) LoadVars(ctx context.Context) (map[string]string, error) {
	vars, err := s.Vars.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load game vars: %w", err)
	}
	return vars, nil
}

// StartSession opens a session record tagged with the script checksum.
func (s *Store) StartSession(ctx context.Context, scriptSum uint64) (string, error) {
	id, err := s.Sessions.Start(ctx, strconv.FormatUint(scriptSum, 16))
	if err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	return id, nil
}

func (s *Store) EndSession(ctx context.Context, id string, finalTick int64, entities int) error {
	if err := s.Sessions.End(ctx, id, finalTick, entities); err != nil {
		return fmt.Errorf("end session %s: %w", id, err)
	}
	return nil
}
