package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/hashicorp/go-multierror"
)

// Load fetches all five entity collections from the gateway and replaces the
// mirror wholesale. The fetches run concurrently; if any fails the mirror is
// left untouched, the store is flagged unloaded, and the combined error is
// returned. Load may be called again to retry, or at any time to force a full
// reload from persistence.
func (s *Store) Load(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "Store.Load")
	defer span.End()

	var (
		households   []models.Household
		users        []models.User
		locations    []models.AreaLocation
		records      []models.CollectionRecord
		pendingDates []models.PendingDate
	)

	var wg sync.WaitGroup
	var errMu sync.Mutex
	var result *multierror.Error

	collect := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				errMu.Lock()
				result = multierror.Append(result, fmt.Errorf("%s: %w", name, err))
				errMu.Unlock()
			}
		}()
	}

	collect("households", func() error {
		var err error
		households, err = s.gateway.Households.GetAll(ctx)
		return err
	})
	collect("users", func() error {
		var err error
		users, err = s.gateway.Users.GetAll(ctx)
		return err
	})
	collect("locations", func() error {
		var err error
		locations, err = s.gateway.Locations.GetAll(ctx)
		return err
	})
	collect("records", func() error {
		var err error
		records, err = s.gateway.Records.GetAll(ctx)
		return err
	})
	collect("pending_dates", func() error {
		var err error
		pendingDates, err = s.gateway.PendingDates.GetAll(ctx)
		return err
	})

	wg.Wait()

	if err := result.ErrorOrNil(); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("failed to load state from persistence")
		metrics.StateLoads.WithLabelValues("failure").Inc()
		s.mu.Lock()
		s.loaded = false
		s.loadErr = err
		s.mu.Unlock()
		return fmt.Errorf("failed to load state: %w", err)
	}

	s.mu.Lock()
	s.households = households
	s.users = users
	s.locations = locations
	s.records = records
	s.pendingDates = pendingDates
	s.loaded = true
	s.loadErr = nil
	s.mu.Unlock()

	metrics.StateLoads.WithLabelValues("success").Inc()

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"households":    len(households),
		"users":         len(users),
		"locations":     len(locations),
		"records":       len(records),
		"pending_dates": len(pendingDates),
	}).Info("loaded state from persistence")

	return nil
}

// Loaded reports whether the last Load succeeded, along with its error when
// it did not.
func (s *Store) Loaded() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded, s.loadErr
}
