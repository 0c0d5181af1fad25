package api

import (
	"context"
	"io"
	"net/http"

	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

// PapersService covers uploaded past papers and their processing status.
type PapersService struct {
	c *Client
}

// Upload submits a past paper with its classification. The returned record
// starts in status pending; callers poll Status until it turns terminal.
func (s *PapersService) Upload(ctx context.Context, filename string, file io.Reader, board, gradeLevel, subject string) (domain.UploadedPaper, error) {
	fields := map[string]string{
		"board":       board,
		"grade_level": gradeLevel,
		"subject":     subject,
	}
	var paper domain.UploadedPaper
	if err := s.c.doMultipart(ctx, "/papers/upload", fields, "file", filename, file, &paper); err != nil {
		return domain.UploadedPaper{}, err
	}
	return paper, nil
}

func (s *PapersService) List(ctx context.Context) ([]domain.UploadedPaper, error) {
	var papers []domain.UploadedPaper
	if err := s.c.doJSON(ctx, http.MethodGet, "/papers", nil, nil, &papers); err != nil {
		return nil, err
	}
	return papers, nil
}

func (s *PapersService) Get(ctx context.Context, id int64) (domain.UploadedPaper, error) {
	var paper domain.UploadedPaper
	if err := s.c.doJSON(ctx, http.MethodGet, idPath("/papers/%d", id), nil, nil, &paper); err != nil {
		return domain.UploadedPaper{}, err
	}
	return paper, nil
}

// Status fetches the slim status payload used by the poller.
func (s *PapersService) Status(ctx context.Context, id int64) (domain.PaperStatusInfo, error) {
	var info domain.PaperStatusInfo
	if err := s.c.doJSON(ctx, http.MethodGet, idPath("/papers/%d/status", id), nil, nil, &info); err != nil {
		return domain.PaperStatusInfo{}, err
	}
	return info, nil
}

// Delete removes the paper and its extracted questions.
func (s *PapersService) Delete(ctx context.Context, id int64) error {
	return s.c.doJSON(ctx, http.MethodDelete, idPath("/papers/%d", id), nil, nil, nil)
}
