package store

import (
	"context"
	"fmt"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// AddPendingDate records that collection was deliberately skipped for a
// household on a day. Repeat calls for the same (household, day) each create
// a separate entry; nothing deduplicates them.
func (s *Store) AddPendingDate(ctx context.Context, req models.CreatePendingDateRequest) (models.PendingDate, error) {
	ctx, span := tracing.StartSpan(ctx, "Store.AddPendingDate")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, h := range s.households {
		if h.ID == req.HouseholdID {
			found = true
			break
		}
	}
	if !found {
		return models.PendingDate{}, &NotFoundError{Entity: "household", ID: req.HouseholdID}
	}

	p := models.PendingDate{
		HouseholdID: req.HouseholdID,
		Date:        req.Date,
		Reason:      req.Reason,
		CreatedAt:   s.clock.Now().UTC(),
	}

	id, err := s.gateway.PendingDates.Add(ctx, p)
	if err != nil {
		return models.PendingDate{}, fmt.Errorf("failed to add pending date: %w", err)
	}

	p.ID = id
	s.pendingDates = append(s.pendingDates, p)

	return p, nil
}

// DeletePendingDate removes exactly one pending-date entry by id. Other
// entries for the same household and day are untouched.
func (s *Store) DeletePendingDate(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "Store.DeletePendingDate")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.pendingDates {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &NotFoundError{Entity: "pending date", ID: id}
	}

	if err := s.gateway.PendingDates.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete pending date: %w", err)
	}

	s.pendingDates = append(s.pendingDates[:idx], s.pendingDates[idx+1:]...)

	return nil
}
