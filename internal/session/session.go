// Package session owns the client-side auth state: the bearer token and the
// signed-in user, persisted to a state file across runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

const stateFile = "session.json"

type state struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Session is the single owned session object. All reads and mutations go
// through it; nothing else touches the state file.
type Session struct {
	mu   sync.RWMutex
	path string
	st   state
}

// Load restores the session from dir. A missing file or an expired token
// yields an anonymous session; a corrupt file is discarded the same way.
func Load(dir string) (*Session, error) {
	s := &Session{path: filepath.Join(dir, stateFile)}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		slog.Warn("discarding unreadable session state", "path", s.path)
		return s, nil
	}
	if st.Token == "" || st.User == nil {
		return s, nil
	}
	if expired(st.Token) {
		slog.Debug("stored token expired, starting anonymous")
		return s, nil
	}
	s.st = st
	return s, nil
}

// SetAuth records a fresh login and persists it.
func (s *Session) SetAuth(token string, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = state{Token: token, User: &user}
	return s.save()
}

// UpdateUser replaces the cached user after a profile change.
func (s *Session) UpdateUser(user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.User = &user
	return s.save()
}

// Clear wipes the session in memory and on disk. Safe to call when already
// anonymous; used both for logout and the 401 teardown hook.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = state{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Token returns the bearer token, or "" when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.Token
}

// User returns the signed-in user, if any.
func (s *Session) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.st.User == nil {
		return domain.User{}, false
	}
	return *s.st.User, true
}

// IsAdmin reports whether the signed-in user has the admin role.
func (s *Session) IsAdmin() bool {
	u, ok := s.User()
	return ok && u.Role == domain.RoleAdmin
}

func (s *Session) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session dir: %w", err)
	}
	data, err := json.MarshalIndent(s.st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// expired inspects the token's exp claim without verifying the signature.
// The client holds no key material; the server rejects bad tokens anyway.
// This only avoids starting a run with a token that cannot possibly work.
func expired(token string) bool {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
