// Package memory implements session storage as an in-process map.
// Sessions live exactly as long as the server; persistence is deliberately
// out of scope.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/italord1/splitbill/internal/models"
	"github.com/italord1/splitbill/internal/storage"
)

// Store is a mutex-guarded map of sessions keyed by ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

var _ storage.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{sessions: make(map[string]*models.Session)}
}

// CreateSession assigns an ID and creation time and stores a copy.
func (s *Store) CreateSession(ctx context.Context, session *models.Session) error {
	session.ID = uuid.New().String()
	session.CreatedAt = time.Now().Unix()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = clone(session)
	return nil
}

// GetSession returns a copy of the stored session, so callers can mutate it
// freely before writing it back with UpdateSession.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clone(session), nil
}

// UpdateSession replaces the stored session wholesale.
func (s *Store) UpdateSession(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; !ok {
		return storage.ErrNotFound
	}
	s.sessions[session.ID] = clone(session)
	return nil
}

// DeleteSession removes the session.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return storage.ErrNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

func clone(session *models.Session) *models.Session {
	c := *session
	c.Guests = append([]string(nil), session.Guests...)
	c.Items = make([]models.LineItem, len(session.Items))
	for i, item := range session.Items {
		c.Items[i] = item
		c.Items[i].Assignees = append([]string(nil), item.Assignees...)
	}
	return &c
}
