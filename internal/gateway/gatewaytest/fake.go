// Package gatewaytest provides in-memory gateway fakes with error injection,
// for exercising the state store and handlers without PostgreSQL.
package gatewaytest

import (
	"context"
	"fmt"
	"sync"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/store"
)

// Fake bundles one in-memory gateway per entity, ready to hand to the store.
type Fake struct {
	Households   *HouseholdFake
	Users        *UserFake
	Locations    *LocationFake
	Records      *RecordFake
	PendingDates *PendingDateFake
}

func New() *Fake {
	return &Fake{
		Households:   &HouseholdFake{},
		Users:        &UserFake{},
		Locations:    &LocationFake{},
		Records:      &RecordFake{},
		PendingDates: &PendingDateFake{},
	}
}

// Gateway adapts the fake to the store's gateway bundle.
func (f *Fake) Gateway() store.Gateway {
	return store.Gateway{
		Households:   f.Households,
		Users:        f.Users,
		Locations:    f.Locations,
		Records:      f.Records,
		PendingDates: f.PendingDates,
	}
}

// HouseholdFake is an in-memory household gateway.
type HouseholdFake struct {
	mu    sync.Mutex
	Items []models.Household
	seq   int

	GetAllErr error
	AddErr    error
	UpdateErr error
	DeleteErr error

	// UpdateCalls records (id, update) pairs in order.
	UpdateCalls []HouseholdUpdateCall
}

type HouseholdUpdateCall struct {
	ID     string
	Update models.HouseholdUpdate
}

func (f *HouseholdFake) GetAll(_ context.Context) ([]models.Household, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetAllErr != nil {
		return nil, f.GetAllErr
	}
	return append([]models.Household{}, f.Items...), nil
}

func (f *HouseholdFake) Add(_ context.Context, h models.Household) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AddErr != nil {
		return "", f.AddErr
	}
	f.seq++
	h.ID = fmt.Sprintf("household-%d", f.seq)
	f.Items = append(f.Items, h)
	return h.ID, nil
}

func (f *HouseholdFake) Update(_ context.Context, id string, update models.HouseholdUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.UpdateCalls = append(f.UpdateCalls, HouseholdUpdateCall{ID: id, Update: update})
	for i := range f.Items {
		if f.Items[i].ID == id {
			update.Apply(&f.Items[i])
			return nil
		}
	}
	return nil
}

func (f *HouseholdFake) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i := range f.Items {
		if f.Items[i].ID == id {
			f.Items = append(f.Items[:i], f.Items[i+1:]...)
			return nil
		}
	}
	return nil
}

// UserFake is an in-memory user gateway.
type UserFake struct {
	mu    sync.Mutex
	Items []models.User
	seq   int

	GetAllErr error
	AddErr    error
	UpdateErr error
	DeleteErr error
}

func (f *UserFake) GetAll(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetAllErr != nil {
		return nil, f.GetAllErr
	}
	return append([]models.User{}, f.Items...), nil
}

func (f *UserFake) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetAllErr != nil {
		return nil, f.GetAllErr
	}
	for _, u := range f.Items {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (f *UserFake) Add(_ context.Context, u models.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AddErr != nil {
		return "", f.AddErr
	}
	f.seq++
	u.ID = fmt.Sprintf("user-%d", f.seq)
	f.Items = append(f.Items, u)
	return u.ID, nil
}

func (f *UserFake) Update(_ context.Context, id string, update models.UserUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	for i := range f.Items {
		if f.Items[i].ID == id {
			update.Apply(&f.Items[i])
			return nil
		}
	}
	return nil
}

func (f *UserFake) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i := range f.Items {
		if f.Items[i].ID == id {
			f.Items = append(f.Items[:i], f.Items[i+1:]...)
			return nil
		}
	}
	return nil
}

// LocationFake is an in-memory area-location gateway.
type LocationFake struct {
	mu    sync.Mutex
	Items []models.AreaLocation
	seq   int

	GetAllErr error
	AddErr    error
	UpdateErr error
	DeleteErr error
}

func (f *LocationFake) GetAll(_ context.Context) ([]models.AreaLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetAllErr != nil {
		return nil, f.GetAllErr
	}
	return append([]models.AreaLocation{}, f.Items...), nil
}

func (f *LocationFake) Add(_ context.Context, loc models.AreaLocation) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AddErr != nil {
		return "", f.AddErr
	}
	f.seq++
	loc.ID = fmt.Sprintf("location-%d", f.seq)
	f.Items = append(f.Items, loc)
	return loc.ID, nil
}

func (f *LocationFake) Update(_ context.Context, id string, update models.LocationUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	for i := range f.Items {
		if f.Items[i].ID == id {
			update.Apply(&f.Items[i])
			return nil
		}
	}
	return nil
}

func (f *LocationFake) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i := range f.Items {
		if f.Items[i].ID == id {
			f.Items = append(f.Items[:i], f.Items[i+1:]...)
			return nil
		}
	}
	return nil
}

// RecordFake is an in-memory collection-record gateway. Append-only, like the
// real one.
type RecordFake struct {
	mu    sync.Mutex
	Items []models.CollectionRecord
	seq   int

	GetAllErr error
	AddErr    error
}

func (f *RecordFake) GetAll(_ context.Context) ([]models.CollectionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetAllErr != nil {
		return nil, f.GetAllErr
	}
	return append([]models.CollectionRecord{}, f.Items...), nil
}

func (f *RecordFake) Add(_ context.Context, rec models.NewCollectionRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AddErr != nil {
		return "", f.AddErr
	}
	f.seq++
	id := fmt.Sprintf("record-%d", f.seq)
	f.Items = append(f.Items, models.CollectionRecord{
		ID:          id,
		HouseholdID: rec.HouseholdID,
		CollectorID: rec.CollectorID,
		Timestamp:   rec.Timestamp,
		Location:    rec.Location,
	})
	return id, nil
}

// PendingDateFake is an in-memory pending-date gateway.
type PendingDateFake struct {
	mu    sync.Mutex
	Items []models.PendingDate
	seq   int

	GetAllErr error
	AddErr    error
	DeleteErr error
}

func (f *PendingDateFake) GetAll(_ context.Context) ([]models.PendingDate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetAllErr != nil {
		return nil, f.GetAllErr
	}
	return append([]models.PendingDate{}, f.Items...), nil
}

func (f *PendingDateFake) Add(_ context.Context, p models.PendingDate) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AddErr != nil {
		return "", f.AddErr
	}
	f.seq++
	p.ID = fmt.Sprintf("pending-%d", f.seq)
	f.Items = append(f.Items, p)
	return p.ID, nil
}

func (f *PendingDateFake) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i := range f.Items {
		if f.Items[i].ID == id {
			f.Items = append(f.Items[:i], f.Items[i+1:]...)
			return nil
		}
	}
	return nil
}
