// Package score turns aligned sentences into final Sentence records with a
// 1-100 difficulty. Three modes: the canonical weighted absolute formula,
// percentile ranking over a whole batch, and the legacy banded mapping kept
// for compatibility with corpora scored by earlier pipeline versions.
package score

import (
	"fmt"
	"math"
	"sort"

	"github.com/heartmarshall/latin-corpus/internal/corpus/freq"
	"github.com/heartmarshall/latin-corpus/internal/domain"
)

// Mode selects how raw scores become 1-100 difficulties.
type Mode string

const (
	// ModeAbsolute maps each sentence's raw score directly onto 1-100.
	ModeAbsolute Mode = "absolute"
	// ModePercentile ranks raw scores across the batch so the easiest
	// sentence scores exactly 1 and the hardest exactly 100.
	ModePercentile Mode = "percentile"
	// ModeBanded is the legacy piecewise mapping from average rank.
	ModeBanded Mode = "banded"
)

// ParseMode validates a mode string from config or CLI flags.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAbsolute, ModePercentile, ModeBanded:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown scoring mode %q", s)
}

// Weights of the raw difficulty components.
const (
	vocabWeight  = 0.60
	lengthWeight = 0.25
	hapaxWeight  = 0.15
)

// Raw computes the raw difficulty score in [0,1] for one sentence's tokens:
// sqrt-scaled average frequency rank, length, and the fraction of rare
// words (rank beyond half the table). Empty token lists score 0.5.
func Raw(tokens []string, table freq.Table) float64 {
	if len(tokens) == 0 {
		return 0.5
	}

	maxRank := table.MaxRank()
	rareThreshold := float64(maxRank) / 2

	sum := 0.0
	rare := 0
	for _, tok := range tokens {
		rank := table.Rank(tok)
		sum += float64(rank)
		if float64(rank) > rareThreshold {
			rare++
		}
	}
	avgRank := sum / float64(len(tokens))

	vocabScore := math.Sqrt(avgRank) / math.Sqrt(float64(maxRank))
	lengthScore := clamp01((float64(len(tokens)) - 3) / 47)
	hapaxScore := float64(rare) / float64(len(tokens))

	return vocabWeight*vocabScore + lengthWeight*lengthScore + hapaxWeight*hapaxScore
}

// Absolute maps a sentence's raw score onto the 1-100 scale.
func Absolute(tokens []string, table freq.Table) int {
	return toDifficulty(Raw(tokens, table))
}

// AverageRank returns the mean frequency rank of the tokens, 0 for none.
func AverageRank(tokens []string, table freq.Table) float64 {
	if len(tokens) == 0 {
		return 0
	}
	sum := 0.0
	for _, tok := range tokens {
		sum += float64(table.Rank(tok))
	}
	return sum / float64(len(tokens))
}

// Banded converts an average rank to difficulty using the legacy linear
// bands: 1-50→1-20, 50-200→20-50, 200-500→50-80, 500+→80-100 (capped).
// Truncation, not rounding, matches the historical scorer exactly.
func Banded(avgRank float64) int {
	switch {
	case avgRank <= 50:
		return max(1, int(avgRank*0.4))
	case avgRank <= 200:
		return int(20 + (avgRank-50)*0.2)
	case avgRank <= 500:
		return int(50 + (avgRank-200)*0.1)
	default:
		return min(100, int(80+(avgRank-500)*0.04))
	}
}

// Percentile converts a batch of raw scores to difficulties by rank
// position: the lowest raw score maps to 1, the highest to 100. Output is
// index-aligned with the input. Requires every raw score of the batch, so
// callers must finish computing raws before calling (the two-phase barrier
// for corpus-wide scoring).
func Percentile(raws []float64) []int {
	n := len(raws)
	if n == 0 {
		return nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return raws[idx[a]] < raws[idx[b]]
	})

	difficulties := make([]int, n)
	for pos, origIdx := range idx {
		percentile := 0.0
		if n > 1 {
			percentile = float64(pos) / float64(n-1)
		}
		difficulties[origIdx] = clampDifficulty(int(math.Round(1 + 99*percentile)))
	}
	return difficulties
}

// Sentences converts aligned segmented sentences into final records, with
// difficulty computed in the given mode. Order is assigned densely in
// emission order.
func Sentences(segmented []domain.SegmentedSentence, table freq.Table, mode Mode) []domain.Sentence {
	out := make([]domain.Sentence, len(segmented))

	var difficulties []int
	switch mode {
	case ModePercentile:
		raws := make([]float64, len(segmented))
		for i := range segmented {
			raws[i] = Raw(domain.Tokenize(segmented[i].Latin), table)
		}
		difficulties = Percentile(raws)
	case ModeBanded:
		difficulties = make([]int, len(segmented))
		for i := range segmented {
			difficulties[i] = Banded(AverageRank(domain.Tokenize(segmented[i].Latin), table))
		}
	default:
		difficulties = make([]int, len(segmented))
		for i := range segmented {
			difficulties[i] = Absolute(domain.Tokenize(segmented[i].Latin), table)
		}
	}

	for i := range segmented {
		conf := segmented[i].AlignmentConfidence
		out[i] = domain.Sentence{
			ID:                   segmented[i].ID,
			Latin:                segmented[i].Latin,
			ReferenceTranslation: segmented[i].English,
			Difficulty:           clampDifficulty(difficulties[i]),
			Order:                i + 1,
			AlignmentConfidence:  &conf,
		}
	}
	return out
}

func toDifficulty(raw float64) int {
	return clampDifficulty(int(math.Round(1 + 99*raw)))
}

func clampDifficulty(d int) int {
	if d < 1 {
		return 1
	}
	if d > 100 {
		return 100
	}
	return d
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
