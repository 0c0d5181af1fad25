package api

import (
	"context"
	"net/http"

	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

// ChatService covers the per-paper refinement conversation.
type ChatService struct {
	c *Client
}

type chatSendRequest struct {
	Message string `json:"message"`
}

// Send submits a refinement request and returns the updated paper together
// with the authoritative message sequence. The context is the abort handle:
// cancel it to give up on the exchange client-side.
func (s *ChatService) Send(ctx context.Context, paperID int64, message string) (domain.ChatExchange, error) {
	var exchange domain.ChatExchange
	payload := chatSendRequest{Message: message}
	if err := s.c.doJSON(ctx, http.MethodPost, idPath("/generate/%d/chat", paperID), nil, payload, &exchange); err != nil {
		return domain.ChatExchange{}, err
	}
	return exchange, nil
}

// History returns the stored conversation for a paper.
func (s *ChatService) History(ctx context.Context, paperID int64) ([]domain.ConversationMessage, error) {
	var messages []domain.ConversationMessage
	if err := s.c.doJSON(ctx, http.MethodGet, idPath("/generate/%d/chat", paperID), nil, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
