package domain

import (
	"errors"
	"testing"
)

func validSentence() Sentence {
	conf := 0.9
	return Sentence{
		ID:                   "bg.1.1.1",
		Latin:                "Gallia est omnis divisa in partes tres.",
		ReferenceTranslation: "All Gaul is divided into three parts.",
		Difficulty:           42,
		Order:                1,
		AlignmentConfidence:  &conf,
	}
}

func TestSentenceValidate_OK(t *testing.T) {
	if err := validSentence().Validate(); err != nil {
		t.Fatalf("valid sentence failed validation: %v", err)
	}

	// AlignmentConfidence is optional.
	s := validSentence()
	s.AlignmentConfidence = nil
	if err := s.Validate(); err != nil {
		t.Fatalf("sentence without confidence failed validation: %v", err)
	}
}

func TestSentenceValidate_Violations(t *testing.T) {
	badConf := 1.5

	tests := []struct {
		name   string
		mutate func(*Sentence)
		field  string
	}{
		{"empty id", func(s *Sentence) { s.ID = "" }, "id"},
		{"malformed id", func(s *Sentence) { s.ID = "bg.1.1" }, "id"},
		{"id with suffix", func(s *Sentence) { s.ID = "bg.1.1.1x" }, "id"},
		{"empty latin", func(s *Sentence) { s.Latin = "  " }, "latin"},
		{"empty translation", func(s *Sentence) { s.ReferenceTranslation = "" }, "referenceTranslation"},
		{"difficulty too low", func(s *Sentence) { s.Difficulty = 0 }, "difficulty"},
		{"difficulty too high", func(s *Sentence) { s.Difficulty = 101 }, "difficulty"},
		{"zero order", func(s *Sentence) { s.Order = 0 }, "order"},
		{"confidence out of range", func(s *Sentence) { s.AlignmentConfidence = &badConf }, "alignmentConfidence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSentence()
			tt.mutate(&s)

			err := s.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("error should unwrap to ErrValidation, got %v", err)
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			found := false
			for _, fe := range vErr.Errors {
				if fe.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected field %q among violations %v", tt.field, vErr.Errors)
			}
		})
	}
}

func TestSentenceValidate_MultipleViolations(t *testing.T) {
	s := Sentence{}
	err := s.Validate()
	if err == nil {
		t.Fatal("zero-value sentence should not validate")
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(vErr.Errors) < 4 {
		t.Errorf("expected at least 4 field errors, got %d", len(vErr.Errors))
	}
}

func TestParseSentenceID(t *testing.T) {
	book, chapter, n, err := ParseSentenceID("bg.3.14.159")
	if err != nil {
		t.Fatalf("ParseSentenceID: %v", err)
	}
	if book != 3 || chapter != 14 || n != 159 {
		t.Errorf("parsed %d.%d.%d, want 3.14.159", book, chapter, n)
	}

	for _, bad := range []string{"", "bg.1.1", "aeneid.1.1.1", "bg.1.1.1.1", "bg.a.1.1"} {
		if _, _, _, err := ParseSentenceID(bad); !errors.Is(err, ErrValidation) {
			t.Errorf("ParseSentenceID(%q) = %v, want ErrValidation", bad, err)
		}
	}
}

func TestSentenceID_RoundTrip(t *testing.T) {
	id := SentenceID(2, 35, 4)
	if id != "bg.2.35.4" {
		t.Errorf("SentenceID = %q", id)
	}
	if !SentenceIDPattern.MatchString(id) {
		t.Error("generated ID must match the canonical pattern")
	}
}
