package persist

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// VarRepo stores free-form game variables set at runtime.
type VarRepo struct {
	db *DB
}

func NewVarRepo(db *DB) *VarRepo {
	return &VarRepo{db: db}
}

// Get returns the value for key. ok is false if the key was never saved.
func (r *VarRepo) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = r.db.Pool.QueryRow(ctx,
		`SELECT value FROM game_vars WHERE key = $1`, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// LoadAll returns every saved variable.
func (r *VarRepo) LoadAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT key, value FROM game_vars`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vars := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		vars[k] = v
	}
	return vars, rows.Err()
}

// Save upserts one variable.
func (r *VarRepo) Save(ctx context.Context, key, value string) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO game_vars (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	return err
}

// SaveAll upserts vars in one transaction.
func (r *VarRepo) SaveAll(ctx context.Context, vars map[string]string) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for k, v := range vars {
		batch.Queue(
			`INSERT INTO game_vars (key, value) VALUES ($1, $2)
			 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
			k, v,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
