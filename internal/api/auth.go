package api

import (
	"context"
	"net/http"

	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

// AuthService covers login, registration, and profile management.
type AuthService struct {
	c *Client
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login exchanges an email-or-username identifier and password for a token.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (domain.TokenResponse, error) {
	var resp domain.TokenResponse
	payload := loginRequest{Identifier: identifier, Password: password}
	if err := s.c.doJSON(ctx, http.MethodPost, "/auth/login", nil, payload, &resp); err != nil {
		return domain.TokenResponse{}, err
	}
	return resp, nil
}

func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (domain.TokenResponse, error) {
	var resp domain.TokenResponse
	if err := s.c.doJSON(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return domain.TokenResponse{}, err
	}
	return resp, nil
}

// Me returns the authoritative user for the current token.
func (s *AuthService) Me(ctx context.Context) (domain.User, error) {
	var user domain.User
	if err := s.c.doJSON(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// UpdateProfile applies partial profile changes and returns the updated user.
func (s *AuthService) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) (domain.User, error) {
	var user domain.User
	if err := s.c.doJSON(ctx, http.MethodPut, "/auth/profile", nil, req, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
