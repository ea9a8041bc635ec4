// Package pipeline orchestrates the corpus build for one chapter: fetch
// both texts, segment the Latin, align the English, score difficulty, and
// export corpus.json, optionally mirroring the result to PostgreSQL.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/latin-corpus/internal/corpus/align"
	"github.com/heartmarshall/latin-corpus/internal/corpus/distribute"
	"github.com/heartmarshall/latin-corpus/internal/corpus/export"
	"github.com/heartmarshall/latin-corpus/internal/corpus/freq"
	"github.com/heartmarshall/latin-corpus/internal/corpus/score"
	"github.com/heartmarshall/latin-corpus/internal/corpus/segment"
	"github.com/heartmarshall/latin-corpus/internal/domain"
)

// LatinSource yields the Latin sections of a chapter.
type LatinSource interface {
	Fetch(ctx context.Context, book, chapter int, force bool) ([]domain.Section, error)
}

// EnglishSource yields the continuous English prose of a chapter.
type EnglishSource interface {
	ChapterText(ctx context.Context, book, chapter int, force bool) (string, error)
}

// SentenceStore mirrors finished sentences to a database.
type SentenceStore interface {
	ReplaceChapter(ctx context.Context, book, chapter int, sentences []domain.Sentence) error
}

// TxRunner wraps a store call in a transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config holds the per-run pipeline parameters.
type Config struct {
	Book    int
	Chapter int

	// ForceFetch bypasses the source caches.
	ForceFetch bool

	// OutputPath is where corpus.json is written. Empty disables export
	// (dry runs).
	OutputPath string

	ScoringMode score.Mode

	// ConfidenceWarning is the alignment confidence below which sentences
	// are counted and reported as low-confidence.
	ConfidenceWarning float64

	// DryRun processes everything but writes nothing.
	DryRun bool
}

// StageResult records the outcome of one pipeline stage.
type StageResult struct {
	Name     string
	Count    int
	Duration time.Duration
}

// Result is the outcome of a full pipeline run.
type Result struct {
	Sentences     []domain.Sentence
	Stages        []StageResult
	LowConfidence int
}

// Pipeline executes the chapter processing stages in order.
type Pipeline struct {
	log     *slog.Logger
	latin   LatinSource
	english EnglishSource
	table   freq.Table
	cfg     Config

	// store and tx are optional; both nil disables mirroring.
	store SentenceStore
	tx    TxRunner
}

// New creates a Pipeline without database mirroring.
func New(log *slog.Logger, latin LatinSource, english EnglishSource, table freq.Table, cfg Config) *Pipeline {
	return &Pipeline{
		log:     log,
		latin:   latin,
		english: english,
		table:   table,
		cfg:     cfg,
	}
}

// WithStore enables mirroring finished sentences to a database.
func (p *Pipeline) WithStore(store SentenceStore, tx TxRunner) *Pipeline {
	p.store = store
	p.tx = tx
	return p
}

// Run executes the pipeline for the configured chapter.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New().String()[:8]
	log := p.log.With(
		slog.String("run_id", runID),
		slog.Int("book", p.cfg.Book),
		slog.Int("chapter", p.cfg.Chapter))

	log.Info("starting pipeline", slog.String("scoring_mode", string(p.cfg.ScoringMode)))
	res := &Result{}

	// Stage 1: fetch Latin sections.
	sections, err := stage(res, log, "fetch_latin", func() ([]domain.Section, error) {
		return p.latin.Fetch(ctx, p.cfg.Book, p.cfg.Chapter, p.cfg.ForceFetch)
	})
	if err != nil {
		return nil, err
	}

	// Stage 2: fetch English chapter text.
	englishText, err := stage(res, log, "fetch_english", func() (string, error) {
		return p.english.ChapterText(ctx, p.cfg.Book, p.cfg.Chapter, p.cfg.ForceFetch)
	})
	if err != nil {
		return nil, err
	}

	// Stage 3: distribute English prose across the Latin sections.
	chunks := distribute.Chunks(englishText, len(sections))
	record(res, "distribute", len(chunks), 0)

	// Stage 4: segment Latin sections into sentences.
	segmented, err := stage(res, log, "segment", func() ([]domain.SegmentedSentence, error) {
		out := segment.Chapter(sections, p.cfg.Book, p.cfg.Chapter)
		if len(out) == 0 {
			return nil, fmt.Errorf("%w: no sentences segmented from %d sections", domain.ErrParse, len(sections))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	// Stage 5: align translations sentence by sentence.
	if _, err := stage(res, log, "align", func() (int, error) {
		align.Translations(segmented, chunks)
		return len(segmented), nil
	}); err != nil {
		return nil, err
	}

	res.LowConfidence = align.LowConfidenceCount(segmented, p.cfg.ConfidenceWarning)
	if res.LowConfidence > 0 {
		log.Warn("low-confidence alignments",
			slog.Int("count", res.LowConfidence),
			slog.Float64("threshold", p.cfg.ConfidenceWarning))
	}

	// Stage 6: score difficulty.
	sentences, err := stage(res, log, "score", func() ([]domain.Sentence, error) {
		return score.Sentences(segmented, p.table, p.cfg.ScoringMode), nil
	})
	if err != nil {
		return nil, err
	}
	res.Sentences = sentences

	if p.cfg.DryRun {
		log.Info("dry run, skipping export", slog.Int("sentences", len(sentences)))
		return res, nil
	}

	// Stage 7: validate and export.
	if p.cfg.OutputPath != "" {
		if _, err := stage(res, log, "export", func() (int, error) {
			if err := export.Corpus(sentences, p.cfg.OutputPath); err != nil {
				return 0, err
			}
			return len(sentences), nil
		}); err != nil {
			return nil, err
		}
	}

	// Stage 8: optional database mirror.
	if p.store != nil {
		if _, err := stage(res, log, "store", func() (int, error) {
			err := p.tx.RunInTx(ctx, func(ctx context.Context) error {
				return p.store.ReplaceChapter(ctx, p.cfg.Book, p.cfg.Chapter, sentences)
			})
			if err != nil {
				return 0, fmt.Errorf("store chapter: %w", err)
			}
			return len(sentences), nil
		}); err != nil {
			return nil, err
		}
	}

	log.Info("pipeline finished",
		slog.Int("sentences", len(sentences)),
		slog.Int("low_confidence", res.LowConfidence))
	return res, nil
}

// stage runs one pipeline step, timing it and recording the result.
func stage[T any](res *Result, log *slog.Logger, name string, fn func() (T, error)) (T, error) {
	start := time.Now()
	out, err := fn()
	elapsed := time.Since(start)

	if err != nil {
		var zero T
		log.Error("stage failed", slog.String("stage", name), slog.Any("error", err))
		return zero, fmt.Errorf("%s: %w", name, err)
	}

	count := stageCount(out)
	record(res, name, count, elapsed)
	log.Info("stage done",
		slog.String("stage", name),
		slog.Int("count", count),
		slog.Duration("duration", elapsed))
	return out, nil
}

func record(res *Result, name string, count int, d time.Duration) {
	res.Stages = append(res.Stages, StageResult{Name: name, Count: count, Duration: d})
}

func stageCount(v any) int {
	switch x := v.(type) {
	case []domain.Section:
		return len(x)
	case []domain.SegmentedSentence:
		return len(x)
	case []domain.Sentence:
		return len(x)
	case string:
		return len(x)
	case int:
		return x
	}
	return 0
}
