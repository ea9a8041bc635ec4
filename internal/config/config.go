package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Corpus   CorpusConfig   `yaml:"corpus"`
	Source   SourceConfig   `yaml:"source"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// CorpusConfig holds pipeline processing settings.
type CorpusConfig struct {
	CacheDir      string `yaml:"cache_dir"      env:"CORPUS_CACHE_DIR"      env-default:"cache"`
	OutputPath    string `yaml:"output_path"    env:"CORPUS_OUTPUT_PATH"    env-default:"corpus.json"`
	FrequencyPath string `yaml:"frequency_path" env:"CORPUS_FREQUENCY_PATH" env-default:"latin_frequency.json"`
	ScoringMode   string `yaml:"scoring_mode"   env:"CORPUS_SCORING_MODE"   env-default:"absolute"`
	// UnknownWordRank overrides the rank assigned to words missing from the
	// frequency table. Zero means use the table's maximum rank.
	UnknownWordRank   int     `yaml:"unknown_word_rank"  env:"CORPUS_UNKNOWN_WORD_RANK"  env-default:"0"`
	ConfidenceWarning float64 `yaml:"confidence_warning" env:"CORPUS_CONFIDENCE_WARNING" env-default:"0.8"`
}

// SourceConfig holds settings for the upstream text sources.
type SourceConfig struct {
	PerseusBaseURL string        `yaml:"perseus_base_url" env:"SOURCE_PERSEUS_BASE_URL" env-default:"https://www.perseus.tufts.edu/hopper/CTS"`
	MITBaseURL     string        `yaml:"mit_base_url"     env:"SOURCE_MIT_BASE_URL"     env-default:"https://classics.mit.edu/Caesar"`
	Timeout        time.Duration `yaml:"timeout"          env:"SOURCE_TIMEOUT"          env-default:"30s"`
	MaxRetries     int           `yaml:"max_retries"      env:"SOURCE_MAX_RETRIES"      env-default:"3"`
	RetryBackoff   time.Duration `yaml:"retry_backoff"    env:"SOURCE_RETRY_BACKOFF"    env-default:"1s"`
}

// DatabaseConfig holds PostgreSQL connection settings. The database is an
// optional mirror of corpus.json, so DSN may stay empty unless storage is
// requested.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
