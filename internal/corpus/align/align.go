// Package align maps segmented Latin sentences onto English chunk text,
// section by section. Alignment never fails: structural mismatches degrade
// to sentinel text or a lower confidence score instead of an error, so the
// pipeline always has output and downstream tooling can flag weak sentences
// for review.
package align

import (
	"strings"

	"github.com/heartmarshall/latin-corpus/internal/corpus/segment"
	"github.com/heartmarshall/latin-corpus/internal/domain"
)

// Sentinel texts used when a section has no usable English counterpart.
const (
	MissingSection     = "[MISSING SECTION]"
	MissingTranslation = "[MISSING TRANSLATION]"
)

// fanInPenalty discounts confidence when several Latin sentences share one
// English sentence. Fan-in is intrinsically less trustworthy than fan-out;
// the asymmetry is deliberate and consumers depend on the resulting
// confidence distribution.
const fanInPenalty = 0.9

// Translations fills English and AlignmentConfidence on every sentence.
// Section number n reads from chunk index n-1. The input slice is mutated
// in place and returned for convenience.
func Translations(sentences []domain.SegmentedSentence, chunks []string) []domain.SegmentedSentence {
	// Group contiguous runs per section, preserving order.
	bySection := make(map[int][]int)
	for i := range sentences {
		bySection[sentences[i].Section] = append(bySection[sentences[i].Section], i)
	}

	for section, idxs := range bySection {
		chunkIdx := section - 1

		if chunkIdx < 0 || chunkIdx >= len(chunks) {
			setAll(sentences, idxs, MissingSection, 0.0)
			continue
		}

		targets := segment.Split(chunks[chunkIdx])
		if len(targets) == 0 {
			setAll(sentences, idxs, MissingTranslation, 0.0)
			continue
		}

		alignSection(sentences, idxs, targets)
	}
	return sentences
}

// alignSection assigns targets to the section's sentences and scores them.
func alignSection(sentences []domain.SegmentedSentence, idxs []int, targets []string) {
	ls := len(idxs)
	es := len(targets)

	base := 1.0
	if ls != es {
		base = 0.8 * float64(min(ls, es)) / float64(max(ls, es))
	}

	if es >= ls {
		// Fan-out: contiguous proportional spans of English sentences.
		perSource := float64(es) / float64(ls)
		running := 0.0
		for i, idx := range idxs {
			start := int(running)
			running += perSource
			end := int(running)
			if i == ls-1 {
				end = es
			}
			sentences[idx].English = strings.Join(targets[start:end], " ")
			sentences[idx].AlignmentConfidence = base
		}
		return
	}

	// Fan-in: several Latin sentences share one English sentence.
	ratio := float64(ls) / float64(es)
	for i, idx := range idxs {
		ti := min(int(float64(i)/ratio), es-1)
		sentences[idx].English = targets[ti]
		sentences[idx].AlignmentConfidence = base * fanInPenalty
	}
}

func setAll(sentences []domain.SegmentedSentence, idxs []int, text string, confidence float64) {
	for _, idx := range idxs {
		sentences[idx].English = text
		sentences[idx].AlignmentConfidence = confidence
	}
}

// LowConfidenceCount reports how many sentences fall below the given
// confidence threshold, for post-alignment warnings.
func LowConfidenceCount(sentences []domain.SegmentedSentence, threshold float64) int {
	n := 0
	for i := range sentences {
		if sentences[i].AlignmentConfidence < threshold {
			n++
		}
	}
	return n
}
