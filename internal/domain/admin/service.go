package admin

import (
	"context"

	"github.com/Joyanne05/fixit-my/internal/pkg/password"
)

type Service struct {
	repo     Repository
	sessions *SessionStore
}

func NewService(repo Repository, sessions *SessionStore) *Service {
	return &Service{repo: repo, sessions: sessions}
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, pass string) (string, error) {
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if !password.Verify(pass, a.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return s.sessions.Create(a.Email), nil
}

// Seed bootstraps an admin credential. Safe to call repeatedly.
func (s *Service) Seed(ctx context.Context, email, pass string) error {
	hash, err := password.Hash(pass)
	if err != nil {
		return err
	}

	return s.repo.Create(ctx, email, hash)
}

// Authenticate resolves a session token to an admin email.
func (s *Service) Authenticate(token string) (string, bool) {
	return s.sessions.Lookup(token)
}
