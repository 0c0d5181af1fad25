// Package upload validates files before they are submitted to the backend,
// so obviously bad uploads fail fast without spending a round trip.
package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultMaxBytes matches the backend's 20 MB upload cap.
const DefaultMaxBytes = 20 << 20

var defaultExtensions = []string{".pdf", ".docx", ".jpg", ".jpeg", ".png"}

var (
	ErrUnsupportedType = errors.New("upload: unsupported file type")
	ErrTooLarge        = errors.New("upload: file exceeds size limit")
)

// FileInfo is the result of a successful preflight.
type FileInfo struct {
	Name string
	Size int64
	// Pages is set for PDFs only; other types are passed through unprobed.
	Pages int
}

// Preflighter checks candidate uploads against the backend's constraints.
type Preflighter struct {
	maxBytes   int64
	extensions map[string]struct{}
}

// New builds a preflighter with the backend's defaults.
func New() *Preflighter {
	return NewWithLimits(DefaultMaxBytes, defaultExtensions)
}

// NewWithLimits builds a preflighter with explicit limits.
func NewWithLimits(maxBytes int64, extensions []string) *Preflighter {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if len(extensions) == 0 {
		extensions = defaultExtensions
	}
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}
	return &Preflighter{maxBytes: maxBytes, extensions: allowed}
}

// Check validates the file at path. PDFs are additionally opened to confirm
// they parse and to report a page count; a corrupt PDF fails here instead of
// deep inside the extraction pipeline.
func (p *Preflighter) Check(path string) (FileInfo, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := p.extensions[ext]; !ok {
		return FileInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	if fi.Size() > p.maxBytes {
		return FileInfo{}, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, fi.Size(), p.maxBytes)
	}
	info := FileInfo{Name: filepath.Base(path), Size: fi.Size()}
	if ext == ".pdf" {
		pages, err := pdfPages(path)
		if err != nil {
			return FileInfo{}, fmt.Errorf("unreadable pdf: %w", err)
		}
		info.Pages = pages
	}
	return info, nil
}

func pdfPages(path string) (int, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return reader.NumPage(), nil
}
