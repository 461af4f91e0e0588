package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/lib/pq"
)

// Decision is the outcome of a referential-integrity check. When Allowed is
// false, Reason explains what still references the target.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(format string, args ...any) Decision {
	return Decision{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// AddLocation creates a block. Block names are unique case-insensitively and
// the panchayat list is deduplicated the same way, keeping first occurrences.
func (s *Store) AddLocation(ctx context.Context, req models.CreateLocationRequest) (models.AreaLocation, error) {
	ctx, span := tracing.StartSpan(ctx, "Store.AddLocation")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, loc := range s.locations {
		if strings.EqualFold(loc.BlockName, req.BlockName) {
			return models.AreaLocation{}, &DeniedError{
				Reason: fmt.Sprintf("block %q already exists", req.BlockName),
			}
		}
	}

	loc := models.AreaLocation{
		BlockName:  req.BlockName,
		Panchayats: dedupeFold(req.Panchayats),
	}

	id, err := s.gateway.Locations.Add(ctx, loc)
	if err != nil {
		return models.AreaLocation{}, fmt.Errorf("failed to add location: %w", err)
	}

	loc.ID = id
	s.locations = append(s.locations, loc)

	return loc, nil
}

// UpdateLocation applies a partial update to one block. A rename does not
// cascade to households that reference the old name.
func (s *Store) UpdateLocation(ctx context.Context, id string, update models.LocationUpdate) (models.AreaLocation, error) {
	ctx, span := tracing.StartSpan(ctx, "Store.UpdateLocation")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.findLocation(id)
	if !ok {
		return models.AreaLocation{}, &NotFoundError{Entity: "location", ID: id}
	}

	if update.BlockName != nil {
		for i, loc := range s.locations {
			if i != idx && strings.EqualFold(loc.BlockName, *update.BlockName) {
				return models.AreaLocation{}, &DeniedError{
					Reason: fmt.Sprintf("block %q already exists", *update.BlockName),
				}
			}
		}
	}
	if update.Panchayats != nil {
		deduped := []string(dedupeFold(*update.Panchayats))
		update.Panchayats = &deduped
	}

	if err := s.gateway.Locations.Update(ctx, id, update); err != nil {
		return models.AreaLocation{}, fmt.Errorf("failed to update location: %w", err)
	}

	update.Apply(&s.locations[idx])

	return s.locations[idx], nil
}

// CanDeleteBlock reports whether a block is safe to delete, by checking the
// household mirror for references to its name.
func (s *Store) CanDeleteBlock(id string) (Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.findLocation(id)
	if !ok {
		return Decision{}, &NotFoundError{Entity: "location", ID: id}
	}

	count := 0
	for _, h := range s.households {
		if strings.EqualFold(h.Block, s.locations[idx].BlockName) {
			count++
		}
	}
	if count > 0 {
		return deny("%d household(s) still reference block %q", count, s.locations[idx].BlockName), nil
	}
	return allow(), nil
}

// DeleteLocation removes a block and all its panchayats. It refuses while any
// household still references the block.
func (s *Store) DeleteLocation(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "Store.DeleteLocation")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.findLocation(id)
	if !ok {
		return &NotFoundError{Entity: "location", ID: id}
	}

	for _, h := range s.households {
		if strings.EqualFold(h.Block, s.locations[idx].BlockName) {
			return &DeniedError{
				Reason: fmt.Sprintf("block %q is still referenced by households", s.locations[idx].BlockName),
			}
		}
	}

	if err := s.gateway.Locations.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}

	s.locations = append(s.locations[:idx], s.locations[idx+1:]...)

	return nil
}

// AddPanchayat appends a panchayat to a block. Duplicates within the block
// are rejected case-insensitively.
func (s *Store) AddPanchayat(ctx context.Context, locationID, name string) (models.AreaLocation, error) {
	ctx, span := tracing.StartSpan(ctx, "Store.AddPanchayat")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.findLocation(locationID)
	if !ok {
		return models.AreaLocation{}, &NotFoundError{Entity: "location", ID: locationID}
	}

	for _, p := range s.locations[idx].Panchayats {
		if strings.EqualFold(p, name) {
			return models.AreaLocation{}, &DeniedError{
				Reason: fmt.Sprintf("panchayat %q already exists in block %q", name, s.locations[idx].BlockName),
			}
		}
	}

	next := append(append(pq.StringArray{}, s.locations[idx].Panchayats...), name)
	list := []string(next)
	if err := s.gateway.Locations.Update(ctx, locationID, models.LocationUpdate{Panchayats: &list}); err != nil {
		return models.AreaLocation{}, fmt.Errorf("failed to add panchayat: %w", err)
	}

	s.locations[idx].Panchayats = next

	return s.locations[idx], nil
}

// CanRemovePanchayat reports whether a panchayat is safe to remove from its
// block, by checking the household mirror for references to the pair.
func (s *Store) CanRemovePanchayat(id, name string) (Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.findLocation(id)
	if !ok {
		return Decision{}, &NotFoundError{Entity: "location", ID: id}
	}

	count := 0
	for _, h := range s.households {
		if strings.EqualFold(h.Block, s.locations[idx].BlockName) && strings.EqualFold(h.Panchayat, name) {
			count++
		}
	}
	if count > 0 {
		return deny("%d household(s) still reference panchayat %q in block %q", count, name, s.locations[idx].BlockName), nil
	}
	return allow(), nil
}

// RemovePanchayat removes one panchayat from a block. It refuses while any
// household still references the (block, panchayat) pair.
func (s *Store) RemovePanchayat(ctx context.Context, locationID, name string) (models.AreaLocation, error) {
	ctx, span := tracing.StartSpan(ctx, "Store.RemovePanchayat")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.findLocation(locationID)
	if !ok {
		return models.AreaLocation{}, &NotFoundError{Entity: "location", ID: locationID}
	}

	loc := s.locations[idx]

	pos := -1
	for i, p := range loc.Panchayats {
		if strings.EqualFold(p, name) {
			pos = i
			break
		}
	}
	if pos == -1 {
		return models.AreaLocation{}, &NotFoundError{Entity: "panchayat", ID: name}
	}

	for _, h := range s.households {
		if strings.EqualFold(h.Block, loc.BlockName) && strings.EqualFold(h.Panchayat, name) {
			return models.AreaLocation{}, &DeniedError{
				Reason: fmt.Sprintf("panchayat %q in block %q is still referenced by households", name, loc.BlockName),
			}
		}
	}

	next := append(append(pq.StringArray{}, loc.Panchayats[:pos]...), loc.Panchayats[pos+1:]...)
	list := []string(next)
	if err := s.gateway.Locations.Update(ctx, locationID, models.LocationUpdate{Panchayats: &list}); err != nil {
		return models.AreaLocation{}, fmt.Errorf("failed to remove panchayat: %w", err)
	}

	s.locations[idx].Panchayats = next

	return s.locations[idx], nil
}

// dedupeFold drops case-insensitive duplicates, keeping first occurrences and
// their original order and casing.
func dedupeFold(names []string) pq.StringArray {
	out := pq.StringArray{}
	for _, name := range names {
		dup := false
		for _, kept := range out {
			if strings.EqualFold(kept, name) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, name)
		}
	}
	return out
}
