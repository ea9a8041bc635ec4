package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/heartmarshall/latin-corpus/internal/corpus/export"
	"github.com/heartmarshall/latin-corpus/internal/corpus/freq"
	"github.com/heartmarshall/latin-corpus/internal/corpus/score"
	"github.com/heartmarshall/latin-corpus/internal/domain"
)

type fakeLatin struct {
	sections []domain.Section
	err      error
}

func (f *fakeLatin) Fetch(ctx context.Context, book, chapter int, force bool) ([]domain.Section, error) {
	return f.sections, f.err
}

type fakeEnglish struct {
	text string
	err  error
}

func (f *fakeEnglish) ChapterText(ctx context.Context, book, chapter int, force bool) (string, error) {
	return f.text, f.err
}

type fakeStore struct {
	book, chapter int
	stored        []domain.Sentence
}

func (f *fakeStore) ReplaceChapter(ctx context.Context, book, chapter int, sentences []domain.Sentence) error {
	f.book, f.chapter = book, chapter
	f.stored = sentences
	return nil
}

type fakeTx struct{}

func (fakeTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testSections() []domain.Section {
	return []domain.Section{
		{Number: 1, LatinText: "Gallia est omnis divisa in partes tres. Quarum unam incolunt Belgae."},
		{Number: 2, LatinText: "Hi omnes lingua inter se differunt."},
	}
}

const testEnglish = "All Gaul is divided into three parts. One of these the Belgae inhabit. " +
	"All these differ from each other in language."

func testPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	return New(log, &fakeLatin{sections: testSections()}, &fakeEnglish{text: testEnglish}, freq.Fallback(), cfg)
}

func TestRun_FullChapter(t *testing.T) {
	out := filepath.Join(t.TempDir(), "corpus.json")
	p := testPipeline(t, Config{
		Book: 1, Chapter: 1,
		OutputPath:        out,
		ScoringMode:       score.ModeAbsolute,
		ConfidenceWarning: 0.8,
	})

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Sentences) != 3 {
		t.Fatalf("got %d sentences, want 3", len(res.Sentences))
	}
	for i, s := range res.Sentences {
		if err := s.Validate(); err != nil {
			t.Errorf("sentence %d invalid: %v", i, err)
		}
	}
	if res.Sentences[0].ID != "bg.1.1.1" {
		t.Errorf("first ID = %s", res.Sentences[0].ID)
	}

	// The exported file must validate.
	if err := export.ValidateFile(out); err != nil {
		t.Errorf("exported corpus invalid: %v", err)
	}
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "corpus.json")
	p := testPipeline(t, Config{
		Book: 1, Chapter: 1,
		OutputPath:        out,
		ScoringMode:       score.ModeAbsolute,
		ConfidenceWarning: 0.8,
		DryRun:            true,
	})

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Sentences) == 0 {
		t.Error("dry run should still produce sentences")
	}
	if err := export.ValidateFile(out); err == nil {
		t.Error("dry run must not write corpus.json")
	}
}

func TestRun_FetchErrorStopsPipeline(t *testing.T) {
	log := slog.New(slog.DiscardHandler)
	p := New(log,
		&fakeLatin{err: domain.ErrFetch},
		&fakeEnglish{text: testEnglish},
		freq.Fallback(),
		Config{Book: 1, Chapter: 1, ScoringMode: score.ModeAbsolute})

	_, err := p.Run(context.Background())
	if !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("error = %v, want ErrFetch", err)
	}
}

func TestRun_StoresChapter(t *testing.T) {
	store := &fakeStore{}
	p := testPipeline(t, Config{
		Book: 2, Chapter: 5,
		OutputPath:        filepath.Join(t.TempDir(), "corpus.json"),
		ScoringMode:       score.ModeAbsolute,
		ConfidenceWarning: 0.8,
	}).WithStore(store, fakeTx{})

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if store.book != 2 || store.chapter != 5 {
		t.Errorf("stored chapter = bg.%d.%d, want bg.2.5", store.book, store.chapter)
	}
	if len(store.stored) != len(res.Sentences) {
		t.Errorf("stored %d sentences, result has %d", len(store.stored), len(res.Sentences))
	}
}

func TestRun_MissingEnglishStillSucceeds(t *testing.T) {
	log := slog.New(slog.DiscardHandler)
	p := New(log,
		&fakeLatin{sections: testSections()},
		&fakeEnglish{text: ""},
		freq.Fallback(),
		Config{Book: 1, Chapter: 1, ScoringMode: score.ModeAbsolute, ConfidenceWarning: 0.8, DryRun: true})

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Alignment degrades to sentinels, never fails the run.
	if res.LowConfidence != len(res.Sentences) {
		t.Errorf("low confidence = %d, want all %d", res.LowConfidence, len(res.Sentences))
	}
}

func TestRun_StageTimings(t *testing.T) {
	p := testPipeline(t, Config{
		Book: 1, Chapter: 1,
		ScoringMode:       score.ModePercentile,
		ConfidenceWarning: 0.8,
		DryRun:            true,
	})

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"fetch_latin", "fetch_english", "distribute", "segment", "align", "score"}
	if len(res.Stages) != len(want) {
		t.Fatalf("got %d stages %v, want %d", len(res.Stages), res.Stages, len(want))
	}
	for i, name := range want {
		if res.Stages[i].Name != name {
			t.Errorf("stage %d = %s, want %s", i, res.Stages[i].Name, name)
		}
	}
}
