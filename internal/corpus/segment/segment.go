// Package segment splits per-section Latin prose into ordered sentences
// with stable IDs. Pure functions: text in, sentences out. No error channel;
// empty input simply yields zero sentences.
package segment

import (
	"regexp"
	"strings"

	"github.com/heartmarshall/latin-corpus/internal/domain"
)

// abbreviations are tokens whose trailing period must not terminate a
// sentence: Roman praenomina as printed in Perseus texts, plus a few
// editorial markers. Matched case-insensitively on a word boundary.
var abbreviations = []string{
	"app", "cn", "mam", "ser", "sex", "sp", "ti",
	"a", "c", "d", "k", "l", "m", "n", "p", "q", "t",
	"kal", "etc", "cf",
}

// dotPlaceholder temporarily replaces a protected abbreviation period so
// the boundary scan does not treat it as sentence-final punctuation.
const dotPlaceholder = "\x00"

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	abbrevRe     = regexp.MustCompile(`(?i)\b(` + strings.Join(abbreviations, "|") + `)\.`)
	// A boundary is sentence-final punctuation, whitespace, then an
	// uppercase letter or opening bracket starting the next sentence.
	boundaryRe = regexp.MustCompile(`[.!?]\s+[\p{Lu}(\[]`)
)

// NormalizeSpace collapses all internal whitespace runs to single spaces
// and trims the ends.
func NormalizeSpace(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// Split cuts prose into sentences at terminal-punctuation-plus-capital
// boundaries. It applies no abbreviation protection; use Sentences for
// Latin text. Fragments are trimmed and empty ones dropped.
func Split(text string) []string {
	text = NormalizeSpace(text)
	if text == "" {
		return nil
	}

	var out []string
	start := 0
	for _, loc := range boundaryRe.FindAllStringIndex(text, -1) {
		// loc[0] points at the punctuation mark; cut right after it.
		end := loc[0] + 1
		if frag := strings.TrimSpace(text[start:end]); frag != "" {
			out = append(out, frag)
		}
		// Whitespace is already collapsed to a single space, so the next
		// sentence starts two bytes past the punctuation mark.
		start = loc[0] + 2
	}
	if frag := strings.TrimSpace(text[start:]); frag != "" {
		out = append(out, frag)
	}
	return out
}

// Sentences splits Latin prose into sentences, protecting known
// abbreviations so "C. Iulius" does not become a boundary.
func Sentences(text string) []string {
	protected := abbrevRe.ReplaceAllString(NormalizeSpace(text), "${1}"+dotPlaceholder)

	frags := Split(protected)
	out := make([]string, 0, len(frags))
	for _, f := range frags {
		f = strings.TrimSpace(strings.ReplaceAll(f, dotPlaceholder, "."))
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Chapter segments every section of a chapter into SegmentedSentence
// records. The numeric ID component increases across the whole chapter;
// Position restarts at 1 within each section. Sections with blank text
// contribute nothing, which is valid, not an error.
func Chapter(sections []domain.Section, book, chapter int) []domain.SegmentedSentence {
	var result []domain.SegmentedSentence
	counter := 0

	for _, sec := range sections {
		for pos, latin := range Sentences(sec.LatinText) {
			counter++
			result = append(result, domain.SegmentedSentence{
				ID:       domain.SentenceID(book, chapter, counter),
				Latin:    latin,
				Section:  sec.Number,
				Position: pos + 1,
			})
		}
	}
	return result
}
