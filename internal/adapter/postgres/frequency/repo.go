// Package frequency implements the frequency rank repository using
// PostgreSQL. One row per word; ranks are replaced wholesale whenever a
// rebuilt table is stored.
package frequency

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/latin-corpus/internal/adapter/postgres"
)

// Repo provides frequency rank persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new frequency repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Upsert stores word ranks using pgx.Batch, overwriting ranks of words that
// already exist. Returns the number of affected rows.
func (r *Repo) Upsert(ctx context.Context, ranks map[string]int) (int, error) {
	if len(ranks) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for word, rank := range ranks {
		batch.Queue(
			`INSERT INTO frequency_ranks (word, rank)
			 VALUES ($1, $2)
			 ON CONFLICT (word) DO UPDATE SET rank = EXCLUDED.rank`,
			word, rank,
		)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	var affected int
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return affected, fmt.Errorf("batch exec: %w", err)
		}
		affected += int(tag.RowsAffected())
	}
	return affected, nil
}

// Load returns all stored word ranks.
func (r *Repo) Load(ctx context.Context) (map[string]int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `SELECT word, rank FROM frequency_ranks`)
	if err != nil {
		return nil, postgres.MapError(err, "frequency_ranks", "load")
	}
	defer rows.Close()

	ranks := make(map[string]int)
	for rows.Next() {
		var word string
		var rank int
		if err := rows.Scan(&word, &rank); err != nil {
			return nil, fmt.Errorf("scan rank: %w", err)
		}
		ranks[word] = rank
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "frequency_ranks", "load")
	}
	return ranks, nil
}
