package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

// QuestionsService covers the extracted question bank.
type QuestionsService struct {
	c *Client
}

// QuestionFilter narrows a question listing. Zero-value fields are omitted.
type QuestionFilter struct {
	Board        string
	GradeLevel   string
	Subject      string
	QuestionType string
	Difficulty   string
	Topic        string
}

func (f QuestionFilter) values() url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("board", f.Board)
	set("grade_level", f.GradeLevel)
	set("subject", f.Subject)
	set("question_type", f.QuestionType)
	set("difficulty", f.Difficulty)
	set("topic", f.Topic)
	return q
}

func (s *QuestionsService) List(ctx context.Context, filter QuestionFilter) ([]domain.ExtractedQuestion, error) {
	var questions []domain.ExtractedQuestion
	if err := s.c.doJSON(ctx, http.MethodGet, "/questions", filter.values(), nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (s *QuestionsService) Stats(ctx context.Context) (domain.QuestionStats, error) {
	var stats domain.QuestionStats
	if err := s.c.doJSON(ctx, http.MethodGet, "/questions/stats", nil, nil, &stats); err != nil {
		return domain.QuestionStats{}, err
	}
	return stats, nil
}

// Topics returns the distinct topics present in the question bank.
func (s *QuestionsService) Topics(ctx context.Context) ([]string, error) {
	var topics []string
	if err := s.c.doJSON(ctx, http.MethodGet, "/questions/topics", nil, nil, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}
