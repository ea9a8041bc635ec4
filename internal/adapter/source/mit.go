package source

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/heartmarshall/latin-corpus/internal/domain"
)

// footerMarkers cut off the site navigation appended to the last chapter of
// each book page.
var footerMarkers = []string{"Provided by The Internet Classics Archive", "Copyright"}

// MIT fetches the English translation from the MIT Internet Classics
// Archive. The archive serves one page per book, so caching is per book and
// chapters are cut out of the page text by their "Chapter N" markers.
type MIT struct {
	client   *Client
	baseURL  string
	cacheDir string
	log      *slog.Logger
}

// NewMIT creates an MIT Classics source.
func NewMIT(log *slog.Logger, client *Client, baseURL, cacheDir string) *MIT {
	return &MIT{client: client, baseURL: baseURL, cacheDir: cacheDir, log: log}
}

// ChapterText returns the continuous English prose of one chapter with
// whitespace normalized. force bypasses the on-disk cache.
func (m *MIT) ChapterText(ctx context.Context, book, chapter int, force bool) (string, error) {
	if err := os.MkdirAll(m.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	cachePath := filepath.Join(m.cacheDir, fmt.Sprintf("bg.%d.english.html", book))

	var page []byte
	if data, err := os.ReadFile(cachePath); err == nil && !force {
		m.log.Info("using cached English", slog.String("path", cachePath))
		page = data
	} else {
		url := fmt.Sprintf("%s/gallic.%d.%d.html", m.baseURL, book, book)
		m.log.Info("fetching English from MIT", slog.String("url", url))

		page, err = m.client.Get(ctx, url)
		if err != nil {
			return "", fmt.Errorf("fetch English for book %d: %w", book, err)
		}
		if err := os.WriteFile(cachePath, page, 0o644); err != nil {
			m.log.Warn("could not cache response", slog.Any("error", err))
		}
	}

	return extractChapter(page, chapter)
}

// extractChapter cuts one chapter out of a book page. The archive renders
// continuous prose with "Chapter N" markers on their own lines.
func extractChapter(page []byte, chapter int) (string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("%w: HTML: %v", domain.ErrParse, err)
	}
	body := pageText(doc)

	start := chapterMarker(chapter).FindStringIndex(body)
	if start == nil {
		return "", fmt.Errorf("%w: chapter %d marker not found in HTML", domain.ErrParse, chapter)
	}

	text := body[start[1]:]
	if next := chapterMarker(chapter + 1).FindStringIndex(text); next != nil {
		text = text[:next[0]]
	} else {
		// Last chapter of the book, strip the page footer.
		for _, marker := range footerMarkers {
			if idx := strings.Index(text, marker); idx != -1 {
				text = text[:idx]
			}
		}
	}

	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", fmt.Errorf("%w: no text extracted for chapter %d", domain.ErrParse, chapter)
	}
	return text, nil
}

func chapterMarker(chapter int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?i)(?:^|\n)[ \t]*\**[ \t]*Chapter[ \t]+%d[ \t]*\**[ \t]*(?:\n|$)`, chapter))
}

// pageText flattens the HTML document to plain text, skipping script and
// style content and keeping line structure for the chapter markers.
func pageText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "br", "p", "div", "h1", "h2", "h3", "tr":
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
