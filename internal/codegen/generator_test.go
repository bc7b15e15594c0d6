package codegen

import (
	"errors"
	"io"
	"testing"

	"github.com/scaffolddb/scaffold/internal/model"
	"github.com/scaffolddb/scaffold/internal/naming"
)

// stubGenerator is a minimal Generator for dispatch tests.
type stubGenerator struct {
	language   string
	extensions []string
	emitErr    error
	emitted    []naming.ArtifactKind
}

func (s *stubGenerator) Language() string      { return s.language }
func (s *stubGenerator) Extensions() []string  { return s.extensions }
func (s *stubGenerator) Emit(w io.Writer, kind naming.ArtifactKind, db *model.Database, opts Options) error {
	s.emitted = append(s.emitted, kind)
	if s.emitErr != nil {
		return s.emitErr
	}
	_, err := io.WriteString(w, "// "+string(kind)+"\n")
	return err
}

func TestFind_ByLanguage(t *testing.T) {
	cs := &stubGenerator{language: "cs", extensions: []string{".cs"}}
	vb := &stubGenerator{language: "vb", extensions: []string{".vb"}}
	r := NewRegistry(cs, vb)

	got, err := r.Find("vb", "NorthwindEfContext.cs")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got != vb {
		t.Error("expected the vb generator")
	}
}

func TestFind_LanguageCaseInsensitive(t *testing.T) {
	cs := &stubGenerator{language: "cs", extensions: []string{".cs"}}
	r := NewRegistry(cs)

	got, err := r.Find("CS", "x.txt")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got != cs {
		t.Error("expected the cs generator")
	}
}

func TestFind_LanguageNotFound(t *testing.T) {
	r := NewRegistry(&stubGenerator{language: "cs", extensions: []string{".cs"}})

	_, err := r.Find("fs", "x.cs")
	if !errors.Is(err, ErrNoGenerator) {
		t.Fatalf("expected ErrNoGenerator, got %v", err)
	}
}

func TestFind_LanguageAmbiguous(t *testing.T) {
	r := NewRegistry(
		&stubGenerator{language: "cs", extensions: []string{".cs"}},
		&stubGenerator{language: "CS", extensions: []string{".csx"}},
	)

	_, err := r.Find("cs", "x.cs")
	if err == nil {
		t.Fatal("expected ambiguity error")
	}
	if errors.Is(err, ErrNoGenerator) {
		t.Error("ambiguity must not be reported as not-found")
	}
}

func TestFind_ByExtension(t *testing.T) {
	cs := &stubGenerator{language: "cs", extensions: []string{".cs"}}
	r := NewRegistry(cs)

	got, err := r.Find("", "NorthwindEfContext.cs")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got != cs {
		t.Error("expected the cs generator")
	}

	// Extension match is case-insensitive.
	got, err = r.Find("", "NorthwindEfContext.CS")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if got != cs {
		t.Error("expected the cs generator for upper-cased extension")
	}
}

func TestFind_ExtensionNotFound(t *testing.T) {
	r := NewRegistry(&stubGenerator{language: "cs", extensions: []string{".cs"}})

	_, err := r.Find("", "schema.sql")
	if !errors.Is(err, ErrNoGenerator) {
		t.Fatalf("expected ErrNoGenerator, got %v", err)
	}
}
