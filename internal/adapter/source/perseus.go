package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/heartmarshall/latin-corpus/internal/domain"
)

// ctsURNBase identifies De Bello Gallico in the Perseus CTS catalog.
const ctsURNBase = "urn:cts:latinLit:phi0448.phi001.perseus-lat1"

// Perseus fetches Latin sections from the Perseus CTS API. Responses are
// cached per chapter under the cache directory, and chapter counts per book
// under chapter_counts.json.
type Perseus struct {
	client   *Client
	baseURL  string
	cacheDir string
	log      *slog.Logger

	chapterCounts map[int]int
}

// NewPerseus creates a Perseus source.
func NewPerseus(log *slog.Logger, client *Client, baseURL, cacheDir string) *Perseus {
	return &Perseus{
		client:        client,
		baseURL:       baseURL,
		cacheDir:      cacheDir,
		log:           log,
		chapterCounts: make(map[int]int),
	}
}

// ChapterCount discovers how many chapters a book has via CTS GetValidReff.
// Counts are memoized and persisted to the cache directory; force bypasses
// both caches.
func (p *Perseus) ChapterCount(ctx context.Context, book int, force bool) (int, error) {
	if !force {
		if n, ok := p.chapterCounts[book]; ok {
			return n, nil
		}
	}

	if err := os.MkdirAll(p.cacheDir, 0o755); err != nil {
		return 0, fmt.Errorf("create cache dir: %w", err)
	}
	cachePath := filepath.Join(p.cacheDir, "chapter_counts.json")

	if !force {
		if data, err := os.ReadFile(cachePath); err == nil {
			counts := make(map[int]int)
			if err := json.Unmarshal(data, &counts); err == nil {
				p.chapterCounts = counts
				if n, ok := counts[book]; ok {
					return n, nil
				}
			}
		}
	}

	urn := fmt.Sprintf("%s:%d", ctsURNBase, book)
	reqURL := fmt.Sprintf("%s?request=GetValidReff&urn=%s&level=2", p.baseURL, url.QueryEscape(urn))
	p.log.Info("discovering chapters", slog.Int("book", book))

	body, err := p.client.Get(ctx, reqURL)
	if err != nil {
		return 0, fmt.Errorf("discover chapters for book %d: %w", book, err)
	}

	count, err := parseValidReff(body, book)
	if err != nil {
		return 0, err
	}
	p.chapterCounts[book] = count

	if data, err := json.Marshal(p.chapterCounts); err == nil {
		if err := os.WriteFile(cachePath, data, 0o644); err != nil {
			p.log.Warn("could not persist chapter counts", slog.Any("error", err))
		}
	}
	p.log.Info("chapters discovered", slog.Int("book", book), slog.Int("chapters", count))

	return count, nil
}

// chapterRef matches "<book>.<chapter>" inside a CTS passage URN.
func parseValidReff(xml []byte, book int) (int, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(xml))
	if err != nil {
		return 0, fmt.Errorf("%w: CTS response: %v", domain.ErrParse, err)
	}

	ref := regexp.MustCompile(fmt.Sprintf(`%d\.(\d+)`, book))

	maxChapter := 0
	for _, node := range xmlquery.Find(doc, "//urn") {
		m := ref.FindStringSubmatch(node.InnerText())
		if m == nil {
			continue
		}
		if ch, err := strconv.Atoi(m[1]); err == nil && ch > maxChapter {
			maxChapter = ch
		}
	}

	if maxChapter == 0 {
		return 0, fmt.Errorf("%w: no chapters found for book %d in CTS response", domain.ErrParse, book)
	}
	return maxChapter, nil
}

// Fetch returns the Latin sections of one chapter, ordered by section
// number. force bypasses the on-disk cache.
func (p *Perseus) Fetch(ctx context.Context, book, chapter int, force bool) ([]domain.Section, error) {
	if err := os.MkdirAll(p.cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	cachePath := filepath.Join(p.cacheDir, fmt.Sprintf("bg.%d.%d.latin.xml", book, chapter))

	var xml []byte
	if data, err := os.ReadFile(cachePath); err == nil && !force {
		p.log.Info("using cached Latin", slog.String("path", cachePath))
		xml = data
	} else {
		urn := fmt.Sprintf("%s:%d.%d", ctsURNBase, book, chapter)
		reqURL := fmt.Sprintf("%s?request=GetPassage&urn=%s", p.baseURL, url.QueryEscape(urn))
		p.log.Info("fetching Latin from Perseus", slog.String("url", reqURL))

		xml, err = p.client.Get(ctx, reqURL)
		if err != nil {
			return nil, fmt.Errorf("fetch Latin for bg.%d.%d: %w", book, chapter, err)
		}
		if err := os.WriteFile(cachePath, xml, 0o644); err != nil {
			p.log.Warn("could not cache response", slog.Any("error", err))
		}
	}

	return p.parseSections(xml)
}

// parseSections extracts sections from Perseus TEI XML. Each section is a
// milestone with unit="section" followed by a div1 whose p elements carry
// the text.
func (p *Perseus) parseSections(xml []byte) ([]domain.Section, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(xml))
	if err != nil {
		return nil, fmt.Errorf("%w: TEI XML: %v", domain.ErrParse, err)
	}

	milestones := xmlquery.Find(doc, `//milestone[@unit="section"]`)
	if len(milestones) == 0 {
		return nil, fmt.Errorf("%w: no section milestones found in XML", domain.ErrParse)
	}

	var sections []domain.Section
	for _, m := range milestones {
		numAttr := m.SelectAttr("n")
		if numAttr == "" {
			continue
		}
		num, err := strconv.Atoi(numAttr)
		if err != nil {
			p.log.Warn("invalid section number", slog.String("n", numAttr))
			continue
		}

		div := nextSibling(m, "div1")
		if div == nil {
			p.log.Warn("no div1 after milestone", slog.Int("section", num))
			continue
		}

		var parts []string
		for _, para := range xmlquery.Find(div, ".//p") {
			if text := strings.Join(strings.Fields(para.InnerText()), " "); text != "" {
				parts = append(parts, text)
			}
		}
		text := strings.Join(parts, " ")
		if text == "" {
			p.log.Warn("empty text for section", slog.Int("section", num))
			continue
		}

		sections = append(sections, domain.Section{Number: num, LatinText: text})
	}

	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: no valid sections extracted from XML", domain.ErrParse)
	}

	sort.Slice(sections, func(i, j int) bool { return sections[i].Number < sections[j].Number })
	return sections, nil
}

func nextSibling(n *xmlquery.Node, name string) *xmlquery.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == xmlquery.ElementNode && s.Data == name {
			return s
		}
	}
	return nil
}
