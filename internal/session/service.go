// Package session exposes the bill-splitting aggregate as explicit,
// invariant-preserving operations over stored sessions.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/italord1/splitbill/internal/calculator"
	"github.com/italord1/splitbill/internal/models"
	"github.com/italord1/splitbill/internal/storage"
)

// ErrUnknownGuest is returned when an assignment names a guest that is not
// in the session's current guest list.
var ErrUnknownGuest = errors.New("guest not in session")

// ErrUnknownItem is returned when an item ID does not exist in the session.
var ErrUnknownItem = errors.New("item not in session")

// Totals is the allocation snapshot for one session. It is computed on
// demand and goes stale as soon as the session is edited again.
type Totals struct {
	Guests map[string]*models.GuestShare `json:"guests"`
	Grand  models.GuestShare             `json:"grand"`
}

// Service mutates sessions through the store. Every operation reads the
// session, applies one atomic change, and writes it back.
type Service struct {
	store storage.Store
}

// NewService creates a session service over the given store.
func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// Create starts an empty session.
func (s *Service) Create(ctx context.Context) (*models.Session, error) {
	session := &models.Session{}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	slog.Info("session created", "session_id", session.ID)
	return session, nil
}

// Get returns the session by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Session, error) {
	return s.store.GetSession(ctx, id)
}

// Delete removes the session.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteSession(ctx, id)
}

// SetGuests parses a comma-separated name list and replaces the guest list
// wholesale. Names are trimmed, empties dropped, order and case preserved.
// Existing item assignments are left untouched; assignments naming removed
// guests are simply ignored by allocation.
func (s *Service) SetGuests(ctx context.Context, id, commaSeparated string) (*models.Session, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Guests = ParseGuests(commaSeparated)
	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	slog.Info("guests set", "session_id", id, "guests_count", len(session.Guests))
	return session, nil
}

// SetTip updates the tip percentage. Negative input is clamped to zero.
func (s *Service) SetTip(ctx context.Context, id string, tipPercent float64) (*models.Session, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if tipPercent < 0 {
		tipPercent = 0
	}
	session.TipPercent = tipPercent
	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// AddItem appends a manually entered item with no assignees. Negative
// prices are clamped to zero.
func (s *Service) AddItem(ctx context.Context, id, name string, price float64) (*models.Session, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if price < 0 {
		price = 0
	}
	session.Items = append(session.Items, models.LineItem{
		ID:    uuid.New().String(),
		Name:  name,
		Price: price,
	})
	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// RemoveItem deletes one item by ID.
func (s *Service) RemoveItem(ctx context.Context, id, itemID string) (*models.Session, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	idx := indexOfItem(session.Items, itemID)
	if idx < 0 {
		return nil, ErrUnknownItem
	}
	session.Items = append(session.Items[:idx], session.Items[idx+1:]...)
	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ToggleAssignment flips whether guest shares the item. Only guests in the
// current guest list can be toggled; that is how the assignees-subset
// invariant is enforced.
func (s *Service) ToggleAssignment(ctx context.Context, id, itemID, guest string) (*models.Session, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if !contains(session.Guests, guest) {
		return nil, ErrUnknownGuest
	}
	idx := indexOfItem(session.Items, itemID)
	if idx < 0 {
		return nil, ErrUnknownItem
	}

	item := &session.Items[idx]
	if pos := indexOf(item.Assignees, guest); pos >= 0 {
		item.Assignees = append(item.Assignees[:pos], item.Assignees[pos+1:]...)
	} else {
		item.Assignees = append(item.Assignees, guest)
	}

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// MergeExtracted appends extracted candidates to the item list, assigning
// IDs and empty assignee sets. Accumulate-only: repeated extractions stack
// duplicates, nothing is replaced or deduplicated.
func (s *Service) MergeExtracted(ctx context.Context, id string, candidates []models.LineItem) ([]models.LineItem, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	added := make([]models.LineItem, len(candidates))
	for i, c := range candidates {
		added[i] = models.LineItem{
			ID:    uuid.New().String(),
			Name:  c.Name,
			Price: c.Price,
		}
	}
	session.Items = append(session.Items, added...)

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	slog.Info("extracted items merged", "session_id", id, "added", len(added), "items_total", len(session.Items))
	return added, nil
}

// ComputeTotals runs the allocation engine over the current session state.
// The result is a snapshot, not a live view.
func (s *Service) ComputeTotals(ctx context.Context, id string) (*Totals, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	shares, grand := calculator.Allocate(session.Guests, session.Items, session.TipPercent)
	return &Totals{Guests: shares, Grand: grand}, nil
}

// ParseGuests splits a comma-separated guest string into trimmed,
// non-empty names.
func ParseGuests(commaSeparated string) []string {
	var guests []string
	for _, name := range strings.Split(commaSeparated, ",") {
		if name = strings.TrimSpace(name); name != "" {
			guests = append(guests, name)
		}
	}
	return guests
}

func indexOfItem(items []models.LineItem, itemID string) int {
	for i := range items {
		if items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func indexOf(values []string, v string) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}

func contains(values []string, v string) bool {
	return indexOf(values, v) >= 0
}
