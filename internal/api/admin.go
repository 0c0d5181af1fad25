package api

import (
	"context"
	"net/http"

	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

// AdminService covers the admin-only user management surface.
type AdminService struct {
	c *Client
}

func (s *AdminService) Stats(ctx context.Context) (domain.AdminStats, error) {
	var stats domain.AdminStats
	if err := s.c.doJSON(ctx, http.MethodGet, "/admin/stats", nil, nil, &stats); err != nil {
		return domain.AdminStats{}, err
	}
	return stats, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.c.doJSON(ctx, http.MethodGet, "/admin/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UserDetail returns one account with its uploaded and generated papers.
func (s *AdminService) UserDetail(ctx context.Context, userID int64) (domain.UserDetail, error) {
	var detail domain.UserDetail
	if err := s.c.doJSON(ctx, http.MethodGet, idPath("/admin/user-detail/%d", userID), nil, nil, &detail); err != nil {
		return domain.UserDetail{}, err
	}
	return detail, nil
}

func (s *AdminService) CreateUser(ctx context.Context, req domain.AdminCreateUserRequest) (domain.User, error) {
	var user domain.User
	if err := s.c.doJSON(ctx, http.MethodPost, "/admin/users", nil, req, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *AdminService) UpdateUser(ctx context.Context, userID int64, req domain.AdminUpdateUserRequest) (domain.User, error) {
	var user domain.User
	if err := s.c.doJSON(ctx, http.MethodPut, idPath("/admin/users/%d", userID), nil, req, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, userID int64) error {
	return s.c.doJSON(ctx, http.MethodDelete, idPath("/admin/users/%d", userID), nil, nil, nil)
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

func (s *AdminService) ResetPassword(ctx context.Context, userID int64, newPassword string) error {
	payload := resetPasswordRequest{NewPassword: newPassword}
	return s.c.doJSON(ctx, http.MethodPost, idPath("/admin/users/%d/reset-password", userID), nil, payload, nil)
}
