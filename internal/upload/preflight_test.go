package upload

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCheckRejectsUnsupportedExtension(t *testing.T) {
	p := New()
	for _, name := range []string{"paper.txt", "paper.exe", "paper", "paper.pdf.zip"} {
		path := writeFile(t, name, "content")
		if _, err := p.Check(path); !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("%s: err = %v, want ErrUnsupportedType", name, err)
		}
	}
}

func TestCheckRejectsOversizedFile(t *testing.T) {
	p := NewWithLimits(16, nil)
	path := writeFile(t, "scan.jpg", strings.Repeat("x", 17))
	if _, err := p.Check(path); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}

	// At the limit exactly is fine.
	path = writeFile(t, "ok.jpg", strings.Repeat("x", 16))
	info, err := p.Check(path)
	if err != nil {
		t.Fatalf("check at limit: %v", err)
	}
	if info.Name != "ok.jpg" || info.Size != 16 || info.Pages != 0 {
		t.Fatalf("info = %+v", info)
	}
}

func TestCheckRejectsMissingFile(t *testing.T) {
	p := New()
	if _, err := p.Check(filepath.Join(t.TempDir(), "ghost.docx")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestCheckRejectsCorruptPDF(t *testing.T) {
	p := New()
	path := writeFile(t, "broken.pdf", "this is not a pdf at all")
	if _, err := p.Check(path); err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
}

func TestExtensionNormalization(t *testing.T) {
	// Extensions may arrive without dots or with stray case and spacing.
	p := NewWithLimits(0, []string{"PDF", " .Docx ", ""})
	path := writeFile(t, "notes.docx", "doc bytes")
	if _, err := p.Check(path); err != nil {
		t.Fatalf("docx rejected: %v", err)
	}
	path = writeFile(t, "photo.png", "png bytes")
	if _, err := p.Check(path); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("png err = %v, want ErrUnsupportedType", err)
	}
}
