package freq

import (
	"sort"

	"github.com/heartmarshall/latin-corpus/internal/domain"
)

// Builder accumulates token counts over repeated batches of raw text and
// produces a frequency Table. Ranks are assigned by descending count with
// ties broken by first-encounter order, so identical input order always
// yields an identical table.
type Builder struct {
	counts    map[string]int
	firstSeen map[string]int
	next      int
	total     int
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		counts:    make(map[string]int),
		firstSeen: make(map[string]int),
	}
}

// Add tokenizes the text and accumulates occurrence counts.
func (b *Builder) Add(text string) {
	for _, tok := range domain.Tokenize(text) {
		if _, ok := b.counts[tok]; !ok {
			b.firstSeen[tok] = b.next
			b.next++
		}
		b.counts[tok]++
		b.total++
	}
}

// UniqueWords returns the number of distinct tokens seen so far.
func (b *Builder) UniqueWords() int { return len(b.counts) }

// WordCount returns the total number of token occurrences seen so far.
func (b *Builder) WordCount() int { return b.total }

// Build finalizes the accumulated counts into a Table with ranks 1..K.
func (b *Builder) Build() Table {
	words := make([]string, 0, len(b.counts))
	for w := range b.counts {
		words = append(words, w)
	}

	sort.Slice(words, func(i, j int) bool {
		wi, wj := words[i], words[j]
		if b.counts[wi] != b.counts[wj] {
			return b.counts[wi] > b.counts[wj]
		}
		return b.firstSeen[wi] < b.firstSeen[wj]
	})

	ranks := make(map[string]int, len(words))
	for i, w := range words {
		ranks[w] = i + 1
	}
	return New(ranks)
}
