// Package storage provides abstractions for session storage.
package storage

import (
	"context"
	"errors"

	"github.com/italord1/splitbill/internal/models"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("session not found")

// Store defines the interface for session storage operations.
// The server holds sessions in memory for its lifetime; the abstraction
// exists so a persistent backend could be swapped in without touching the
// service layer.
type Store interface {
	// CreateSession persists a new session and populates its ID and
	// CreatedAt fields.
	CreateSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves a session by ID. Returns ErrNotFound if it
	// does not exist.
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// UpdateSession replaces an existing session. Returns ErrNotFound if
	// it does not exist.
	UpdateSession(ctx context.Context, session *models.Session) error

	// DeleteSession removes a session by ID. Returns ErrNotFound if it
	// does not exist.
	DeleteSession(ctx context.Context, sessionID string) error

	// Close releases any resources held by the store.
	Close() error
}
