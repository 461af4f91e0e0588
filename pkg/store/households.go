package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// AddHousehold registers a household. The (block, panchayat) pair must name an
// existing area location; new households always start Pending.
func (s *Store) AddHousehold(ctx context.Context, req models.CreateHouseholdRequest) (models.Household, error) {
	ctx, span := tracing.StartSpan(ctx, "Store.AddHousehold")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pairExists(req.Block, req.Panchayat) {
		return models.Household{}, &DeniedError{
			Reason: fmt.Sprintf("block %q has no panchayat %q", req.Block, req.Panchayat),
		}
	}

	h := models.Household{
		HouseNumber: req.HouseNumber,
		Address:     req.Address,
		OwnerName:   req.OwnerName,
		Block:       req.Block,
		Panchayat:   req.Panchayat,
		Status:      models.StatusPending,
	}

	id, err := s.gateway.Households.Add(ctx, h)
	if err != nil {
		return models.Household{}, fmt.Errorf("failed to add household: %w", err)
	}

	h.ID = id
	s.households = append(s.households, h)

	return h, nil
}

// UpdateHousehold applies a partial update to one household. When the block or
// panchayat changes, the resulting pair must name an existing area location.
func (s *Store) UpdateHousehold(ctx context.Context, id string, update models.HouseholdUpdate) (models.Household, error) {
	ctx, span := tracing.StartSpan(ctx, "Store.UpdateHousehold")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, h := range s.households {
		if h.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.Household{}, &NotFoundError{Entity: "household", ID: id}
	}

	if update.Block != nil || update.Panchayat != nil {
		block := s.households[idx].Block
		panchayat := s.households[idx].Panchayat
		if update.Block != nil {
			block = *update.Block
		}
		if update.Panchayat != nil {
			panchayat = *update.Panchayat
		}
		if !s.pairExists(block, panchayat) {
			return models.Household{}, &DeniedError{
				Reason: fmt.Sprintf("block %q has no panchayat %q", block, panchayat),
			}
		}
	}

	if err := s.gateway.Households.Update(ctx, id, update); err != nil {
		return models.Household{}, fmt.Errorf("failed to update household: %w", err)
	}

	update.Apply(&s.households[idx])

	return s.households[idx], nil
}

// DeleteHousehold removes a household. Its collection records and pending
// dates are deliberately left in place as orphaned history.
func (s *Store) DeleteHousehold(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "Store.DeleteHousehold")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, h := range s.households {
		if h.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &NotFoundError{Entity: "household", ID: id}
	}

	if err := s.gateway.Households.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete household: %w", err)
	}

	s.households = append(s.households[:idx], s.households[idx+1:]...)

	return nil
}

// pairExists reports whether some area location has the block and, within it,
// the panchayat. Names compare case-insensitively. Callers hold the lock.
func (s *Store) pairExists(block, panchayat string) bool {
	for _, loc := range s.locations {
		if !strings.EqualFold(loc.BlockName, block) {
			continue
		}
		for _, p := range loc.Panchayats {
			if strings.EqualFold(p, panchayat) {
				return true
			}
		}
	}
	return false
}
