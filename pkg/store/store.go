// Package store owns the in-memory mirror of every clover entity collection.
// All mutations go remote-write-then-local-mutate: the persistence gateway is
// the system of record, and the mirror only changes after a gateway call
// succeeds. Reads are served from the mirror without touching the gateway.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/benbjohnson/clock"
)

// HouseholdGateway is the persistence contract for households.
type HouseholdGateway interface {
	GetAll(ctx context.Context) ([]models.Household, error)
	Add(ctx context.Context, h models.Household) (string, error)
	Update(ctx context.Context, id string, update models.HouseholdUpdate) error
	Delete(ctx context.Context, id string) error
}

// UserGateway is the persistence contract for users.
type UserGateway interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Add(ctx context.Context, u models.User) (string, error)
	Update(ctx context.Context, id string, update models.UserUpdate) error
	Delete(ctx context.Context, id string) error
}

// LocationGateway is the persistence contract for area locations.
type LocationGateway interface {
	GetAll(ctx context.Context) ([]models.AreaLocation, error)
	Add(ctx context.Context, loc models.AreaLocation) (string, error)
	Update(ctx context.Context, id string, update models.LocationUpdate) error
	Delete(ctx context.Context, id string) error
}

// RecordGateway is the persistence contract for collection records. Records
// are append-only; the interface has no update or delete on purpose.
type RecordGateway interface {
	GetAll(ctx context.Context) ([]models.CollectionRecord, error)
	Add(ctx context.Context, rec models.NewCollectionRecord) (string, error)
}

// PendingDateGateway is the persistence contract for pending dates.
type PendingDateGateway interface {
	GetAll(ctx context.Context) ([]models.PendingDate, error)
	Add(ctx context.Context, p models.PendingDate) (string, error)
	Delete(ctx context.Context, id string) error
}

// Gateway bundles the per-entity gateways the store depends on.
type Gateway struct {
	Households   HouseholdGateway
	Users        UserGateway
	Locations    LocationGateway
	Records      RecordGateway
	PendingDates PendingDateGateway
}

// Emitter publishes collection lifecycle events. Emission is best-effort;
// the store logs failures and never fails an operation over them.
type Emitter interface {
	EmitHouseholdCollected(ctx context.Context, household models.Household, record models.CollectionRecord) error
	EmitHouseholdsReset(ctx context.Context, count int) error
}

// Store mirrors the gateway's entity collections in memory.
type Store struct {
	mu sync.RWMutex

	gateway Gateway
	clock   clock.Clock
	logger  ectologger.Logger
	emitter Emitter

	households   []models.Household
	users        []models.User
	locations    []models.AreaLocation
	records      []models.CollectionRecord
	pendingDates []models.PendingDate

	loaded  bool
	loadErr error
}

// Option configures a Store.
type Option func(*Store)

// WithClock substitutes the clock used for record timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithEmitter attaches a collection-event emitter.
func WithEmitter(e Emitter) Option {
	return func(s *Store) {
		s.emitter = e
	}
}

func New(gateway Gateway, logger ectologger.Logger, opts ...Option) *Store {
	s := &Store{
		gateway: gateway,
		clock:   clock.New(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NotFoundError reports a lookup against the mirror that found nothing.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// DeniedError reports a mutation rejected by a local invariant check before
// any gateway call was made.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return e.Reason
}

// Households returns a snapshot copy of the household mirror.
func (s *Store) Households() []models.Household {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Household{}, s.households...)
}

// Users returns a snapshot copy of the user mirror.
func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User{}, s.users...)
}

// Locations returns a snapshot copy of the location mirror.
func (s *Store) Locations() []models.AreaLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AreaLocation{}, s.locations...)
}

// Records returns a snapshot copy of the collection-record mirror.
func (s *Store) Records() []models.CollectionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CollectionRecord{}, s.records...)
}

// PendingDates returns a snapshot copy of the pending-date mirror.
func (s *Store) PendingDates() []models.PendingDate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PendingDate{}, s.pendingDates...)
}

// Household returns one household from the mirror by id.
func (s *Store) Household(id string) (models.Household, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.households {
		if h.ID == id {
			return h, true
		}
	}
	return models.Household{}, false
}

func (s *Store) findLocation(id string) (int, bool) {
	for i, loc := range s.locations {
		if loc.ID == id {
			return i, true
		}
	}
	return 0, false
}
