// Package sentence implements the corpus sentence repository using
// PostgreSQL. The database mirrors corpus.json for apps that read the
// corpus through the backend instead of the static file.
package sentence

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/latin-corpus/internal/adapter/postgres"
	"github.com/heartmarshall/latin-corpus/internal/domain"
)

// Filter defines parameters for listing sentences.
type Filter struct {
	// Book and Chapter narrow the listing; nil means no filter.
	Book    *int
	Chapter *int

	// MinDifficulty and MaxDifficulty bound the difficulty range inclusively.
	MinDifficulty *int
	MaxDifficulty *int

	// Limit is the maximum number of sentences to return. Default: 100, max: 1000.
	Limit int

	// Offset is the number of sentences to skip.
	Offset int
}

const (
	defaultLimit = 100
	maxLimit     = 1000
)

func (f *Filter) normalize() {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// Repo provides sentence persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new sentence repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// BulkInsert inserts sentences using pgx.Batch. Existing sentences (by id)
// are skipped via ON CONFLICT DO NOTHING. Returns the number of actually
// inserted rows.
func (r *Repo) BulkInsert(ctx context.Context, sentences []domain.Sentence) (int, error) {
	if len(sentences) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, s := range sentences {
		book, chapter, _, err := domain.ParseSentenceID(s.ID)
		if err != nil {
			return 0, err
		}
		batch.Queue(
			`INSERT INTO sentences (id, book, chapter, latin, reference_translation, difficulty, position, alignment_confidence)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (id) DO NOTHING`,
			s.ID, book, chapter, s.Latin, s.ReferenceTranslation, s.Difficulty, s.Order, s.AlignmentConfidence,
		)
	}

	return r.sendBatchExec(ctx, batch)
}

// ReplaceChapter atomically replaces all sentences of one chapter. Meant to
// run inside TxManager.RunInTx so the delete and inserts commit together.
func (r *Repo) ReplaceChapter(ctx context.Context, book, chapter int, sentences []domain.Sentence) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	chapterID := fmt.Sprintf("bg.%d.%d", book, chapter)
	if _, err := q.Exec(ctx, `DELETE FROM sentences WHERE book = $1 AND chapter = $2`, book, chapter); err != nil {
		return postgres.MapError(err, "chapter", chapterID)
	}

	if _, err := r.BulkInsert(ctx, sentences); err != nil {
		return postgres.MapError(err, "chapter", chapterID)
	}
	return nil
}

// GetByID returns a single sentence.
func (r *Repo) GetByID(ctx context.Context, id string) (domain.Sentence, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var s domain.Sentence
	err := q.QueryRow(ctx,
		`SELECT id, latin, reference_translation, difficulty, position, alignment_confidence
		 FROM sentences WHERE id = $1`, id).
		Scan(&s.ID, &s.Latin, &s.ReferenceTranslation, &s.Difficulty, &s.Order, &s.AlignmentConfidence)
	if err != nil {
		return domain.Sentence{}, postgres.MapError(err, "sentence", id)
	}
	return s, nil
}

// List returns sentences matching the filter, ordered by book, chapter and
// position.
func (r *Repo) List(ctx context.Context, f Filter) ([]domain.Sentence, error) {
	f.normalize()

	builder := sq.Select("id", "latin", "reference_translation", "difficulty", "position", "alignment_confidence").
		From("sentences").
		OrderBy("book", "chapter", "position").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		PlaceholderFormat(sq.Dollar)

	if f.Book != nil {
		builder = builder.Where(sq.Eq{"book": *f.Book})
	}
	if f.Chapter != nil {
		builder = builder.Where(sq.Eq{"chapter": *f.Chapter})
	}
	if f.MinDifficulty != nil {
		builder = builder.Where(sq.GtOrEq{"difficulty": *f.MinDifficulty})
	}
	if f.MaxDifficulty != nil {
		builder = builder.Where(sq.LtOrEq{"difficulty": *f.MaxDifficulty})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "sentences", "list")
	}
	defer rows.Close()

	var out []domain.Sentence
	for rows.Next() {
		var s domain.Sentence
		if err := rows.Scan(&s.ID, &s.Latin, &s.ReferenceTranslation, &s.Difficulty, &s.Order, &s.AlignmentConfidence); err != nil {
			return nil, fmt.Errorf("scan sentence: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "sentences", "list")
	}
	return out, nil
}

// CountByChapter returns the number of stored sentences for a chapter.
func (r *Repo) CountByChapter(ctx context.Context, book, chapter int) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	err := q.QueryRow(ctx,
		`SELECT count(*) FROM sentences WHERE book = $1 AND chapter = $2`, book, chapter).
		Scan(&count)
	if err != nil {
		return 0, postgres.MapError(err, "chapter", fmt.Sprintf("bg.%d.%d", book, chapter))
	}
	return count, nil
}

// sendBatchExec sends a pgx.Batch and counts affected rows from Exec results.
func (r *Repo) sendBatchExec(ctx context.Context, batch *pgx.Batch) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("batch exec: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}
