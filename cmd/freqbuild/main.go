// Command freqbuild rebuilds the Latin frequency table from the full text
// of De Bello Gallico. Chapters are fetched (or read from cache) in
// parallel, then counted in deterministic order so the same corpus always
// produces the same ranks. The result replaces latin_frequency.json used by
// the corpus command for difficulty scoring.
//
// Flags:
//
//	--book         single book to process, 0 = all books 1-8 (default 0)
//	--output       output path for the frequency JSON (default from config)
//	--force-fetch  bypass the on-disk source caches
//	--workers      parallel chapter fetches (default 4)
//	--store        also upsert the ranks into PostgreSQL
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/latin-corpus/internal/adapter/postgres"
	"github.com/heartmarshall/latin-corpus/internal/adapter/postgres/frequency"
	"github.com/heartmarshall/latin-corpus/internal/adapter/source"
	"github.com/heartmarshall/latin-corpus/internal/app"
	"github.com/heartmarshall/latin-corpus/internal/config"
	"github.com/heartmarshall/latin-corpus/internal/corpus/freq"
)

const lastBook = 8

// chapterRef identifies one chapter for deterministic ordering.
type chapterRef struct {
	book, chapter int
}

func main() {
	bookFlag := flag.Int("book", 0, "single book to process, 0 = all books 1-8")
	outputFlag := flag.String("output", "", "output path for the frequency JSON (default from config)")
	forceFlag := flag.Bool("force-fetch", false, "bypass the on-disk source caches")
	workersFlag := flag.Int("workers", 4, "parallel chapter fetches")
	storeFlag := flag.Bool("store", false, "also upsert the ranks into PostgreSQL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)
	logger.Info("freqbuild", slog.String("version", app.BuildVersion()))

	output := cfg.Corpus.FrequencyPath
	if *outputFlag != "" {
		output = *outputFlag
	}

	books := []int{*bookFlag}
	if *bookFlag == 0 {
		books = books[:0]
		for b := 1; b <= lastBook; b++ {
			books = append(books, b)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Minute)
	defer cancel()

	client := source.NewClient(logger, cfg.Source.Timeout, cfg.Source.MaxRetries, cfg.Source.RetryBackoff)
	perseus := source.NewPerseus(logger, client, cfg.Source.PerseusBaseURL, cfg.Corpus.CacheDir)

	texts, err := fetchAll(ctx, logger, perseus, books, *workersFlag, *forceFlag)
	if err != nil {
		logger.Error("fetching chapters failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Phase 2: count in canonical order so tie-breaking is reproducible.
	refs := make([]chapterRef, 0, len(texts))
	for ref := range texts {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].book != refs[j].book {
			return refs[i].book < refs[j].book
		}
		return refs[i].chapter < refs[j].chapter
	})

	builder := freq.NewBuilder()
	for _, ref := range refs {
		builder.Add(texts[ref])
	}

	logger.Info("corpus counted",
		slog.Int("chapters", len(refs)),
		slog.Int("unique_words", builder.UniqueWords()),
		slog.Int("total_words", builder.WordCount()))

	table := builder.Build()
	if err := table.Export(output); err != nil {
		logger.Error("export frequency table", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("frequency table written",
		slog.String("path", output),
		slog.Int("words", table.Len()))

	if *storeFlag {
		if err := cfg.RequireDatabase(); err != nil {
			logger.Error("store requested", slog.String("error", err.Error()))
			os.Exit(1)
		}
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Error("connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		affected, err := frequency.New(pool).Upsert(ctx, table.Ranks())
		if err != nil {
			logger.Error("store ranks", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("ranks stored", slog.Int("rows", affected))
	}
}

// fetchAll downloads every chapter of the given books with bounded
// parallelism and returns the joined section text per chapter. All fetches
// finish before counting starts, so rank assignment never races.
func fetchAll(ctx context.Context, logger *slog.Logger, perseus *source.Perseus, books []int, workers int, force bool) (map[chapterRef]string, error) {
	if workers < 1 {
		workers = 1
	}

	// Chapter discovery is sequential; counts are cached between runs.
	var refs []chapterRef
	for _, book := range books {
		count, err := perseus.ChapterCount(ctx, book, force)
		if err != nil {
			return nil, err
		}
		for ch := 1; ch <= count; ch++ {
			refs = append(refs, chapterRef{book: book, chapter: ch})
		}
	}
	logger.Info("chapters discovered", slog.Int("count", len(refs)))

	texts := make(map[chapterRef]string, len(refs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, ref := range refs {
		g.Go(func() error {
			sections, err := perseus.Fetch(gctx, ref.book, ref.chapter, force)
			if err != nil {
				return err
			}

			parts := make([]string, 0, len(sections))
			for _, s := range sections {
				parts = append(parts, s.LatinText)
			}

			mu.Lock()
			texts[ref] = strings.Join(parts, " ")
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}
