// Command corpus builds the sentence corpus for one chapter of De Bello
// Gallico: it fetches the Latin from Perseus and the English translation
// from MIT Classics, segments, aligns, scores difficulty, and writes
// corpus.json. With --store the result is also mirrored to PostgreSQL.
//
// Flags:
//
//	--book           book number, 1-8 (default 1)
//	--chapter        chapter number within the book (default 1)
//	--output         output path for corpus.json (default from config)
//	--scoring        scoring mode: absolute, percentile, banded
//	--force-fetch    bypass the on-disk source caches
//	--validate-only  validate an existing corpus.json and exit
//	--dry-run        process the chapter without writing anything
//	--store          also mirror the chapter to PostgreSQL
//
// Exit codes: 0 = success, 1 = fetch error, 2 = parse error,
// 3 = alignment error, 4 = validation error.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/latin-corpus/internal/adapter/postgres"
	"github.com/heartmarshall/latin-corpus/internal/adapter/postgres/sentence"
	"github.com/heartmarshall/latin-corpus/internal/adapter/source"
	"github.com/heartmarshall/latin-corpus/internal/app"
	"github.com/heartmarshall/latin-corpus/internal/app/pipeline"
	"github.com/heartmarshall/latin-corpus/internal/config"
	"github.com/heartmarshall/latin-corpus/internal/corpus/export"
	"github.com/heartmarshall/latin-corpus/internal/corpus/freq"
	"github.com/heartmarshall/latin-corpus/internal/corpus/score"
	"github.com/heartmarshall/latin-corpus/internal/domain"
)

// Compile-time interface assertions.
var (
	_ pipeline.LatinSource   = (*source.Perseus)(nil)
	_ pipeline.EnglishSource = (*source.MIT)(nil)
	_ pipeline.SentenceStore = (*sentence.Repo)(nil)
)

func main() {
	bookFlag := flag.Int("book", 1, "book number (1-8)")
	chapterFlag := flag.Int("chapter", 1, "chapter number within the book")
	outputFlag := flag.String("output", "", "output path for corpus.json (default from config)")
	scoringFlag := flag.String("scoring", "", "scoring mode: absolute, percentile, banded (default from config)")
	forceFlag := flag.Bool("force-fetch", false, "bypass the on-disk source caches")
	validateFlag := flag.Bool("validate-only", false, "validate an existing corpus.json and exit")
	dryRunFlag := flag.Bool("dry-run", false, "process the chapter without writing anything")
	storeFlag := flag.Bool("store", false, "also mirror the chapter to PostgreSQL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)
	logger.Info("corpus", slog.String("version", app.BuildVersion()))

	// CLI flags override config.
	output := cfg.Corpus.OutputPath
	if *outputFlag != "" {
		output = *outputFlag
	}
	scoring := cfg.Corpus.ScoringMode
	if *scoringFlag != "" {
		scoring = *scoringFlag
	}

	if *validateFlag {
		if err := export.ValidateFile(output); err != nil {
			logger.Error("corpus validation failed", slog.String("error", err.Error()))
			os.Exit(exitCode(err))
		}
		logger.Info("corpus is valid", slog.String("path", output))
		return
	}

	mode, err := score.ParseMode(scoring)
	if err != nil {
		logger.Error("invalid scoring mode", slog.String("error", err.Error()))
		os.Exit(exitCode(domain.ErrValidation))
	}

	if *bookFlag < 1 || *chapterFlag < 1 {
		logger.Error("book and chapter must be >= 1")
		os.Exit(exitCode(domain.ErrValidation))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client := source.NewClient(logger, cfg.Source.Timeout, cfg.Source.MaxRetries, cfg.Source.RetryBackoff)
	perseus := source.NewPerseus(logger, client, cfg.Source.PerseusBaseURL, cfg.Corpus.CacheDir)
	mit := source.NewMIT(logger, client, cfg.Source.MITBaseURL, cfg.Corpus.CacheDir)

	table, fromFile := freq.LoadOrFallback(cfg.Corpus.FrequencyPath)
	if !fromFile {
		logger.Warn("frequency file unavailable, using built-in fallback table",
			slog.String("path", cfg.Corpus.FrequencyPath))
	}
	if cfg.Corpus.UnknownWordRank > 0 {
		table = table.WithUnknownRank(cfg.Corpus.UnknownWordRank)
	}

	p := pipeline.New(logger, perseus, mit, table, pipeline.Config{
		Book:              *bookFlag,
		Chapter:           *chapterFlag,
		ForceFetch:        *forceFlag,
		OutputPath:        output,
		ScoringMode:       mode,
		ConfidenceWarning: cfg.Corpus.ConfidenceWarning,
		DryRun:            *dryRunFlag,
	})

	if *storeFlag && !*dryRunFlag {
		if err := cfg.RequireDatabase(); err != nil {
			logger.Error("store requested", slog.String("error", err.Error()))
			os.Exit(exitCode(domain.ErrValidation))
		}
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Error("connect to database", slog.String("error", err.Error()))
			os.Exit(exitCode(domain.ErrFetch))
		}
		defer pool.Close()

		p = p.WithStore(sentence.New(pool), postgres.NewTxManager(pool))
	}

	res, err := p.Run(ctx)
	if err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(exitCode(err))
	}

	logger.Info("chapter processed",
		slog.Int("sentences", len(res.Sentences)),
		slog.Int("low_confidence", res.LowConfidence))
}

// exitCode maps error categories to the documented exit codes.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrParse):
		return 2
	case errors.Is(err, domain.ErrAlignment):
		return 3
	case errors.Is(err, domain.ErrValidation):
		return 4
	default:
		// Fetch errors and anything unclassified.
		return 1
	}
}
