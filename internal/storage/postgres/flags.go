package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FlagRepository stores each profile's save flags in the save_flags table.
type FlagRepository struct {
	db *pgxpool.Pool
}

// NewFlagRepository creates a FlagRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewFlagRepository(db *pgxpool.Pool) *FlagRepository {
	return &FlagRepository{db: db}
}

// Load returns every flag set for profile, sorted. An unknown profile has no
// flags.
func (r *FlagRepository) Load(ctx context.Context, profile string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT flag FROM save_flags WHERE profile = $1 ORDER BY flag`,
		profile,
	)
	if err != nil {
		return nil, fmt.Errorf("querying save flags for %q: %w", profile, err)
	}
	flags, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("reading save flags for %q: %w", profile, err)
	}
	return flags, nil
}

// Save records flags for profile. Flags are never cleared; ones already
// stored keep their original set_at.
//
// Postcondition: every flag in flags is stored for profile, or an error is
// returned and nothing is written.
func (r *FlagRepository) Save(ctx context.Context, profile string, flags []string) error {
	if len(flags) == 0 {
		return nil
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning save flags tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, f := range flags {
		batch.Queue(
			`INSERT INTO save_flags (profile, flag) VALUES ($1, $2)
			 ON CONFLICT (profile, flag) DO NOTHING`,
			profile, f,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("saving flags for %q: %w", profile, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing save flags for %q: %w", profile, err)
	}
	return nil
}
