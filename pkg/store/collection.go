package store

import (
	"context"
	"fmt"

	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/hashicorp/go-multierror"
)

// MarkCollected flips one household to Collected and appends an immutable
// collection record. The two writes are sequenced, not transactional: if the
// status write fails nothing happens at all, and if the record write fails
// the status change stands and the gap is surfaced as an error. Every call
// appends a new record, including repeat calls on an already-collected
// household.
func (s *Store) MarkCollected(ctx context.Context, householdID string, req models.CollectRequest) (models.CollectionRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "Store.MarkCollected")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, h := range s.households {
		if h.ID == householdID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.CollectionRecord{}, &NotFoundError{Entity: "household", ID: householdID}
	}

	status := models.StatusCollected
	update := models.HouseholdUpdate{Status: &status}
	if err := s.gateway.Households.Update(ctx, householdID, update); err != nil {
		return models.CollectionRecord{}, fmt.Errorf("failed to mark household collected: %w", err)
	}
	s.households[idx].Status = models.StatusCollected

	newRec := models.NewCollectionRecord{
		HouseholdID: householdID,
		CollectorID: req.CollectorID,
		Timestamp:   s.clock.Now().UTC(),
		Location:    req.Location,
	}

	id, err := s.gateway.Records.Add(ctx, newRec)
	if err != nil {
		// The household stays Collected; its proof entry is missing.
		s.logger.WithContext(ctx).WithError(err).WithField("household_id", householdID).
			Error("household marked collected but record write failed")
		return models.CollectionRecord{}, fmt.Errorf("failed to append collection record: %w", err)
	}

	rec := models.CollectionRecord{
		ID:          id,
		HouseholdID: newRec.HouseholdID,
		CollectorID: newRec.CollectorID,
		Timestamp:   newRec.Timestamp,
		Location:    newRec.Location,
	}
	s.records = append(s.records, rec)

	metrics.CollectionsMarked.Inc()

	if s.emitter != nil {
		if err := s.emitter.EmitHouseholdCollected(ctx, s.households[idx], rec); err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("failed to emit collection event")
		}
	}

	return rec, nil
}

// ResetAll flips every Collected household back to Pending, one gateway write
// per household. Collection records and pending dates are untouched. Failed
// households keep their Collected state locally and remotely; the combined
// error is returned alongside the count that did reset.
func (s *Store) ResetAll(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "Store.ResetAll")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	status := models.StatusPending
	update := models.HouseholdUpdate{Status: &status}

	var result *multierror.Error
	reset := 0
	failed := 0
	for i := range s.households {
		if s.households[i].Status != models.StatusCollected {
			continue
		}
		if err := s.gateway.Households.Update(ctx, s.households[i].ID, update); err != nil {
			result = multierror.Append(result, fmt.Errorf("household %s: %w", s.households[i].ID, err))
			failed++
			continue
		}
		s.households[i].Status = models.StatusPending
		reset++
	}

	metrics.HouseholdsReset.Add(float64(reset))

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"reset":  reset,
		"failed": failed,
	}).Info("reset collection statuses")

	if s.emitter != nil && reset > 0 {
		if err := s.emitter.EmitHouseholdsReset(ctx, reset); err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("failed to emit reset event")
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return reset, fmt.Errorf("failed to reset all households: %w", err)
	}
	return reset, nil
}
