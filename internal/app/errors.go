package service

import (
	"errors"

	"github.com/okian/clubrank/internal/adapters/repository"
	"github.com/okian/clubrank/internal/auth"
	"github.com/okian/clubrank/internal/domain/model"
)

// Sentinel kinds surfaced by the service. Callers match them with errors.Is.
var (
	ErrNotFound           = repository.ErrNotFound
	ErrConflict           = repository.ErrConflict
	ErrInvalidInput       = model.ErrInvalidInput
	ErrUnauthorized       = auth.ErrUnauthorized
	ErrInvalidCredentials = auth.ErrInvalidCredentials
	ErrNotStarted         = errors.New("service not started")
)
