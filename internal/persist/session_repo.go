package persist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SessionRow records one game from new_game to end_game.
type SessionRow struct {
	ID        string
	StartedAt time.Time
	EndedAt   *time.Time
	FinalTick int64
	Entities  int
	ScriptSum string
}

type SessionRepo struct {
	db *DB
}

func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Start inserts an open session and returns its id.
func (r *SessionRepo) Start(ctx context.Context, scriptSum string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO sessions (id, script_sum) VALUES ($1, $2)`,
		id, scriptSum,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// End closes a session with the tick it reached and the entity count left.
func (r *SessionRepo) End(ctx context.Context, id string, finalTick int64, entities int) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE sessions SET ended_at = now(), final_tick = $2, entities = $3
		 WHERE id = $1 AND ended_at IS NULL`,
		id, finalTick, entities,
	)
	return err
}

func (r *SessionRepo) Load(ctx context.Context, id string) (*SessionRow, error) {
	row := &SessionRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id::text, started_at, ended_at, final_tick, entities, script_sum
		 FROM sessions WHERE id = $1`, id,
	).Scan(&row.ID, &row.StartedAt, &row.EndedAt, &row.FinalTick, &row.Entities, &row.ScriptSum)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}
