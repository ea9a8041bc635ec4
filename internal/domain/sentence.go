// Package domain holds the corpus data model shared by every layer:
// sections as parsed from the sources, intermediate segmented sentences,
// and the final validated Sentence records written to corpus.json.
package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SentenceIDPattern is the canonical sentence ID shape:
// bg.<book>.<chapter>.<n>, e.g. "bg.1.1.3".
var SentenceIDPattern = regexp.MustCompile(`^bg\.(\d+)\.(\d+)\.(\d+)$`)

// SentenceID builds the canonical ID for the n-th sentence of a chapter.
func SentenceID(book, chapter, n int) string {
	return fmt.Sprintf("bg.%d.%d.%d", book, chapter, n)
}

// ParseSentenceID splits a canonical sentence ID into its book, chapter and
// sentence number.
func ParseSentenceID(id string) (book, chapter, n int, err error) {
	m := SentenceIDPattern.FindStringSubmatch(id)
	if m == nil {
		return 0, 0, 0, fmt.Errorf("malformed sentence ID %q: %w", id, ErrValidation)
	}
	book, _ = strconv.Atoi(m[1])
	chapter, _ = strconv.Atoi(m[2])
	n, _ = strconv.Atoi(m[3])
	return book, chapter, n, nil
}

// Section is one numbered span of a chapter as produced by the source
// parsers: Latin text from Perseus, English text (possibly empty) merged
// in from MIT Classics. Consumed once by the segmenter and distributor.
type Section struct {
	Number      int
	LatinText   string
	EnglishText string
}

// SegmentedSentence is the mutable per-sentence unit between segmentation
// and scoring. The aligner fills English and AlignmentConfidence in place.
type SegmentedSentence struct {
	ID                  string
	Latin               string
	English             string
	Section             int
	Position            int
	AlignmentConfidence float64
}

// Sentence is the final immutable record persisted to corpus.json.
// JSON field names match the learning app's reader and must not change.
type Sentence struct {
	ID                   string   `json:"id"`
	Latin                string   `json:"latin"`
	ReferenceTranslation string   `json:"referenceTranslation"`
	Difficulty           int      `json:"difficulty"`
	Order                int      `json:"order"`
	AlignmentConfidence  *float64 `json:"alignmentConfidence,omitempty"`
}

// Validate checks all schema rules for a single sentence.
// Returns a *ValidationError listing every violated field, or nil.
func (s Sentence) Validate() error {
	var errs []FieldError

	if !SentenceIDPattern.MatchString(s.ID) {
		errs = append(errs, FieldError{Field: "id", Message: "must match bg.<book>.<chapter>.<n>"})
	}
	if strings.TrimSpace(s.Latin) == "" {
		errs = append(errs, FieldError{Field: "latin", Message: "must be non-empty"})
	}
	if strings.TrimSpace(s.ReferenceTranslation) == "" {
		errs = append(errs, FieldError{Field: "referenceTranslation", Message: "must be non-empty"})
	}
	if s.Difficulty < 1 || s.Difficulty > 100 {
		errs = append(errs, FieldError{Field: "difficulty", Message: "must be in [1,100]"})
	}
	if s.Order < 1 {
		errs = append(errs, FieldError{Field: "order", Message: "must be >= 1"})
	}
	if s.AlignmentConfidence != nil && (*s.AlignmentConfidence < 0 || *s.AlignmentConfidence > 1) {
		errs = append(errs, FieldError{Field: "alignmentConfidence", Message: "must be in [0,1]"})
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
