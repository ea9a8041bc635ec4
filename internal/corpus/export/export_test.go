package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/heartmarshall/latin-corpus/internal/domain"
)

func validSentences() []domain.Sentence {
	conf := 1.0
	return []domain.Sentence{
		{
			ID:                   "bg.1.1.1",
			Latin:                "Gallia est omnis divisa in partes tres.",
			ReferenceTranslation: "All Gaul is divided into three parts.",
			Difficulty:           25,
			Order:                1,
			AlignmentConfidence:  &conf,
		},
		{
			ID:                   "bg.1.1.2",
			Latin:                "Hi omnes lingua inter se differunt.",
			ReferenceTranslation: "All these differ from each other in language.",
			Difficulty:           40,
			Order:                2,
		},
	}
}

func TestCorpus_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")

	if err := Corpus(validSentences(), path); err != nil {
		t.Fatalf("Corpus: %v", err)
	}

	doc, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(doc.Sentences) != 2 {
		t.Fatalf("read %d sentences, want 2", len(doc.Sentences))
	}
	if doc.Metadata.Version != SchemaVersion {
		t.Errorf("metadata version = %q, want %q", doc.Metadata.Version, SchemaVersion)
	}
	if doc.Metadata.SentenceCount != 2 {
		t.Errorf("metadata sentence_count = %d, want 2", doc.Metadata.SentenceCount)
	}
	if doc.Metadata.GeneratedAt.IsZero() {
		t.Error("metadata generated_at is zero")
	}
	if doc.Sentences[0].ID != "bg.1.1.1" {
		t.Errorf("first sentence id = %q", doc.Sentences[0].ID)
	}
	if doc.Sentences[1].AlignmentConfidence != nil {
		t.Error("absent alignmentConfidence should stay nil after round trip")
	}
}

func TestCorpus_InvalidSentenceAbortsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")

	sentences := validSentences()
	sentences[1].Difficulty = 0

	err := Corpus(sentences, path)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Corpus error = %v, want ErrValidation", err)
	}
	if !strings.Contains(err.Error(), "index 1") {
		t.Errorf("error should name the offending index: %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("invalid corpus must not be written")
	}
}

func TestCorpus_EmptyAborts(t *testing.T) {
	err := Corpus(nil, filepath.Join(t.TempDir(), "corpus.json"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Corpus(nil) error = %v, want ErrValidation", err)
	}
}

func TestCorpus_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.json")

	if err := Corpus(validSentences(), path); err != nil {
		t.Fatalf("Corpus: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "corpus.json" {
		t.Errorf("unexpected directory contents: %v", entries)
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	if err := Corpus(validSentences(), good); err != nil {
		t.Fatal(err)
	}
	if err := ValidateFile(good); err != nil {
		t.Errorf("ValidateFile(good) = %v", err)
	}

	notJSON := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(notJSON, []byte("{oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateFile(notJSON); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("ValidateFile(malformed) = %v, want ErrValidation", err)
	}

	if err := ValidateFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("ValidateFile should fail for a missing file")
	}
}

func TestValidateFile_BadSentenceID(t *testing.T) {
	doc := Document{Sentences: validSentences()}
	doc.Sentences[0].ID = "caesar.1.1.1"
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "corpus.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	vErr := ValidateFile(path)
	if !errors.Is(vErr, domain.ErrValidation) {
		t.Fatalf("ValidateFile = %v, want ErrValidation", vErr)
	}
	if !strings.Contains(vErr.Error(), "index 0") {
		t.Errorf("error should name the offending index: %v", vErr)
	}
}
