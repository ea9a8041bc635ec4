// Package export owns the corpus.json contract: schema validation of final
// Sentence records and atomic persistence. Validation failures are
// non-recoverable: the write is aborted rather than persisting a partially
// valid corpus.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/heartmarshall/latin-corpus/internal/domain"
)

// SchemaVersion is stamped into every exported document.
const SchemaVersion = "1.0"

// Metadata describes the exported document.
type Metadata struct {
	Version       string    `json:"version"`
	GeneratedAt   time.Time `json:"generated_at"`
	SentenceCount int       `json:"sentence_count"`
}

// Document is the corpus.json wire format.
type Document struct {
	Sentences []domain.Sentence `json:"sentences"`
	Metadata  Metadata          `json:"metadata"`
}

// Validate checks the whole document: a non-empty sentences array whose
// every element passes the Sentence schema. Violations name the offending
// index and reason.
func (d Document) Validate() error {
	if len(d.Sentences) == 0 {
		return fmt.Errorf("corpus has no sentences: %w", domain.ErrValidation)
	}
	for i, s := range d.Sentences {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("sentence at index %d (%s): %w", i, s.ID, err)
		}
	}
	return nil
}

// Corpus validates the sentences and writes corpus.json to path using a
// temp-file rename. Nothing is written when any sentence is invalid.
func Corpus(sentences []domain.Sentence, path string) error {
	doc := Document{
		Sentences: sentences,
		Metadata: Metadata{
			Version:       SchemaVersion,
			GeneratedAt:   time.Now().UTC(),
			SentenceCount: len(sentences),
		},
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("export: encode corpus: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export: create dir %s: %w", dir, err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("export: rename %s: %w", tmp, err)
	}
	return nil
}

// ReadFile loads and validates an existing corpus.json.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("export: read %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("export: invalid JSON in %s: %w: %v", path, domain.ErrValidation, err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, fmt.Errorf("export: %s: %w", path, err)
	}
	return doc, nil
}

// ValidateFile checks an existing corpus.json without returning its content.
func ValidateFile(path string) error {
	_, err := ReadFile(path)
	return err
}
