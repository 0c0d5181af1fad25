package api

import (
	"context"
	"net/http"

	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

// GenerateService covers AI paper generation.
type GenerateService struct {
	c *Client
}

// Create requests a new generated paper. The returned record starts in
// status generating and completes asynchronously.
func (s *GenerateService) Create(ctx context.Context, req domain.GeneratePaperRequest) (domain.GeneratedPaper, error) {
	var paper domain.GeneratedPaper
	if err := s.c.doJSON(ctx, http.MethodPost, "/generate", nil, req, &paper); err != nil {
		return domain.GeneratedPaper{}, err
	}
	return paper, nil
}

func (s *GenerateService) List(ctx context.Context) ([]domain.GeneratedPaperListItem, error) {
	var items []domain.GeneratedPaperListItem
	if err := s.c.doJSON(ctx, http.MethodGet, "/generate", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GenerateService) Get(ctx context.Context, id int64) (domain.GeneratedPaper, error) {
	var paper domain.GeneratedPaper
	if err := s.c.doJSON(ctx, http.MethodGet, idPath("/generate/%d", id), nil, nil, &paper); err != nil {
		return domain.GeneratedPaper{}, err
	}
	return paper, nil
}

// Status fetches the slim status payload used by the poller.
func (s *GenerateService) Status(ctx context.Context, id int64) (domain.GenerationStatusInfo, error) {
	var info domain.GenerationStatusInfo
	if err := s.c.doJSON(ctx, http.MethodGet, idPath("/generate/%d/status", id), nil, nil, &info); err != nil {
		return domain.GenerationStatusInfo{}, err
	}
	return info, nil
}
