package api

import (
	"context"
	"fmt"
	"io"
)

// ExportService downloads rendered papers and answer keys. The bytes are
// opaque to the client; rendering happens server-side.
type ExportService struct {
	c *Client
}

// ExportFormat selects the rendered document type.
type ExportFormat string

const (
	FormatPDF  ExportFormat = "pdf"
	FormatWord ExportFormat = "word"
)

// Ext returns the file extension conventionally used for the format.
func (f ExportFormat) Ext() string {
	if f == FormatWord {
		return ".docx"
	}
	return ".pdf"
}

func (s *ExportService) Paper(ctx context.Context, id int64, format ExportFormat, w io.Writer) error {
	return s.c.doBlob(ctx, fmt.Sprintf("/export/%d/%s", id, format), w)
}

func (s *ExportService) AnswerKey(ctx context.Context, id int64, format ExportFormat, w io.Writer) error {
	return s.c.doBlob(ctx, fmt.Sprintf("/export/%d/answer-key/%s", id, format), w)
}
