// Package distribute splits a chapter's continuous English prose into
// section-sized chunks. The English source carries no section markers, so
// chunk boundaries are a proportional approximation: sentences are dealt
// out along a running fractional index. Pure function, no error channel.
package distribute

import (
	"strings"

	"github.com/heartmarshall/latin-corpus/internal/corpus/segment"
)

// Chunks splits text into exactly n chunks by proportional sentence
// allocation. n <= 0 returns nil; n == 1 returns the whole text. When the
// text has fewer sentences than chunks, each sentence gets its own chunk
// and the rest are padded with empty strings.
func Chunks(text string, n int) []string {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []string{strings.TrimSpace(text)}
	}

	sentences := segment.Split(text)

	if len(sentences) <= n {
		chunks := make([]string, n)
		copy(chunks, sentences)
		return chunks
	}

	perChunk := float64(len(sentences)) / float64(n)
	chunks := make([]string, 0, n)
	running := 0.0

	for i := 0; i < n; i++ {
		start := int(running)
		running += perChunk
		end := int(running)
		if i == n-1 {
			// The final chunk absorbs any remainder.
			end = len(sentences)
		}
		chunks = append(chunks, strings.TrimSpace(strings.Join(sentences[start:end], " ")))
	}
	return chunks
}
