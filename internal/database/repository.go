package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// IMPORTANT: Supabase connection pooler (PgBouncer in Transaction mode)
	// does not support prepared statements easily. We MUST disable the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// UpsertJob writes one normalized record keyed by its fingerprint.
// Last write wins; the same id never produces a second row.
func (r *Repository) UpsertJob(ctx context.Context, id string, payload []byte) error {
	query := `
		INSERT INTO jobs (id, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

	if _, err := r.db.Exec(ctx, query, id, payload); err != nil {
		return fmt.Errorf("failed to upsert job %s: %w", id, err)
	}
	return nil
}

// GetJob retrieves the stored payload for a fingerprint.
func (r *Repository) GetJob(ctx context.Context, id string) ([]byte, error) {
	var payload []byte
	err := r.db.QueryRow(ctx, `SELECT data FROM jobs WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("job not found")
		}
		return nil, fmt.Errorf("failed to get job %s: %w", id, err)
	}
	return payload, nil
}
