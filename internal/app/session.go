package service

import (
	"context"

	"github.com/okian/clubrank/internal/domain/model"
	"github.com/okian/clubrank/internal/domain/types"
)

// SignIn checks admin credentials and opens a session.
func (s *Service) SignIn(ctx context.Context, req types.LoginRequest) (types.Session, error) {
	if _, err := s.ready(); err != nil {
		return types.Session{}, err
	}
	if err := model.Validate(req); err != nil {
		return types.Session{}, err
	}
	sess, err := s.auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return types.Session{}, err
	}
	return types.Session{Token: sess.Token, Email: sess.Email, ExpiresAt: sess.ExpiresAt}, nil
}

// SignOut ends the session carried by token.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if _, err := s.ready(); err != nil {
		return err
	}
	return s.auth.SignOut(ctx, token)
}

// Session describes the admin session carried by token, or returns ErrUnauthorized.
func (s *Service) Session(ctx context.Context, token string) (types.Session, error) {
	if _, err := s.ready(); err != nil {
		return types.Session{}, err
	}
	claims, err := s.auth.Verify(ctx, token)
	if err != nil {
		return types.Session{}, err
	}
	return types.Session{Email: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// IsAdmin reports whether token carries a live admin session.
func (s *Service) IsAdmin(ctx context.Context, token string) bool {
	if _, err := s.ready(); err != nil {
		return false
	}
	return s.auth.IsAdmin(ctx, token)
}
