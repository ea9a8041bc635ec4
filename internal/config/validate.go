package config

import (
	"fmt"
	"slices"
)

var scoringModes = []string{"absolute", "percentile", "banded"}
var logLevels = []string{"debug", "info", "warn", "error"}
var logFormats = []string{"json", "text"}

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if !slices.Contains(scoringModes, c.Corpus.ScoringMode) {
		return fmt.Errorf("corpus.scoring_mode must be one of %v (got %q)", scoringModes, c.Corpus.ScoringMode)
	}
	if c.Corpus.UnknownWordRank < 0 {
		return fmt.Errorf("corpus.unknown_word_rank must be >= 0 (got %d)", c.Corpus.UnknownWordRank)
	}
	if c.Corpus.ConfidenceWarning < 0 || c.Corpus.ConfidenceWarning > 1 {
		return fmt.Errorf("corpus.confidence_warning must be in [0,1] (got %v)", c.Corpus.ConfidenceWarning)
	}
	if c.Corpus.CacheDir == "" {
		return fmt.Errorf("corpus.cache_dir must not be empty")
	}

	if c.Source.MaxRetries < 1 {
		return fmt.Errorf("source.max_retries must be >= 1 (got %d)", c.Source.MaxRetries)
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be > 0 (got %v)", c.Source.Timeout)
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of %v (got %q)", logLevels, c.Log.Level)
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		return fmt.Errorf("log.format must be one of %v (got %q)", logFormats, c.Log.Format)
	}

	return nil
}

// RequireDatabase checks that a DSN is configured; callers invoke it only
// when database storage was actually requested.
func (c *Config) RequireDatabase() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn must be set (DATABASE_DSN) when storage is enabled")
	}
	return nil
}
