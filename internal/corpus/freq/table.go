// Package freq supplies the word→rank frequency model behind difficulty
// scoring: a table loaded from latin_frequency.json when available, a
// built-in fallback of curated high-frequency Latin words otherwise, and a
// Builder that derives a table from raw corpus text.
package freq

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Table maps words to frequency ranks (1 = most frequent). It is immutable
// after construction and safe for concurrent readers.
type Table struct {
	ranks   map[string]int
	maxRank int
	unknown int
}

// New builds a Table from a word→rank map. The unknown-word rank defaults
// to the highest rank present.
func New(ranks map[string]int) Table {
	maxRank := 0
	for _, r := range ranks {
		if r > maxRank {
			maxRank = r
		}
	}
	if maxRank == 0 {
		maxRank = 1
	}
	return Table{ranks: ranks, maxRank: maxRank, unknown: maxRank}
}

// WithUnknownRank returns a copy of the table that reports the given rank
// for words not present.
func (t Table) WithUnknownRank(rank int) Table {
	if rank > 0 {
		t.unknown = rank
	}
	return t
}

// Rank returns the word's frequency rank, or the unknown rank when the
// word is not in the table.
func (t Table) Rank(word string) int {
	if r, ok := t.ranks[word]; ok {
		return r
	}
	return t.unknown
}

// Contains reports whether the word is present in the table.
func (t Table) Contains(word string) bool {
	_, ok := t.ranks[word]
	return ok
}

// MaxRank returns the highest rank in the table.
func (t Table) MaxRank() int { return t.maxRank }

// Len returns the number of words in the table.
func (t Table) Len() int { return len(t.ranks) }

// Ranks returns a copy of the underlying word→rank map.
func (t Table) Ranks() map[string]int {
	out := make(map[string]int, len(t.ranks))
	for w, r := range t.ranks {
		out[w] = r
	}
	return out
}

// Load reads a word→rank JSON object from path.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("freq: read %s: %w", path, err)
	}

	var ranks map[string]int
	if err := json.Unmarshal(data, &ranks); err != nil {
		return Table{}, fmt.Errorf("freq: decode %s: %w", path, err)
	}
	if len(ranks) == 0 {
		return Table{}, fmt.Errorf("freq: %s contains no entries", path)
	}
	return New(ranks), nil
}

// LoadOrFallback reads the table from path, falling back to the built-in
// table when the file is missing or unparseable. The bool reports whether
// the file was used.
func LoadOrFallback(path string) (Table, bool) {
	t, err := Load(path)
	if err != nil {
		return Fallback(), false
	}
	return t, true
}

// Export writes the table as a word→rank JSON object using a temp-file
// rename so a partial write never clobbers an existing table.
func (t Table) Export(path string) error {
	data, err := json.MarshalIndent(t.ranks, "", "  ")
	if err != nil {
		return fmt.Errorf("freq: encode table: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("freq: create dir %s: %w", dir, err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("freq: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("freq: rename %s: %w", tmp, err)
	}
	return nil
}
