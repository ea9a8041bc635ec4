package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/latin-corpus/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedSentence inserts a single valid sentence into the given chapter and
// returns it. Latin text carries a unique suffix so repeated seeds never
// collide on content assertions.
func SeedSentence(t *testing.T, pool *pgxpool.Pool, book, chapter, n int) domain.Sentence {
	t.Helper()
	ctx := context.Background()

	conf := 1.0
	s := domain.Sentence{
		ID:                   domain.SentenceID(book, chapter, n),
		Latin:                "Gallia est omnis divisa " + uniqueSuffix() + ".",
		ReferenceTranslation: "All Gaul is divided.",
		Difficulty:           25,
		Order:                n,
		AlignmentConfidence:  &conf,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO sentences (id, book, chapter, latin, reference_translation, difficulty, position, alignment_confidence)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, book, chapter, s.Latin, s.ReferenceTranslation, s.Difficulty, s.Order, s.AlignmentConfidence,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSentence insert: %v", err)
	}
	return s
}

// CleanChapter removes all sentences of a chapter, for test isolation.
func CleanChapter(t *testing.T, pool *pgxpool.Pool, book, chapter int) {
	t.Helper()
	if _, err := pool.Exec(context.Background(),
		`DELETE FROM sentences WHERE book = $1 AND chapter = $2`, book, chapter); err != nil {
		t.Fatalf("testhelper: CleanChapter: %v", err)
	}
}
