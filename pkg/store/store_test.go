package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/internal/gateway/gatewaytest"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/store"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func seededFake() *gatewaytest.Fake {
	fake := gatewaytest.New()
	fake.Locations.Items = []models.AreaLocation{
		{ID: "location-1", BlockName: "Block E", Panchayats: []string{"Lakeview", "Riverside"}},
		{ID: "location-2", BlockName: "Block F", Panchayats: []string{"Hilltop"}},
	}
	fake.Households.Items = []models.Household{
		{ID: "h1", HouseNumber: "A-101", OwnerName: "Asha", Block: "Block E", Panchayat: "Lakeview", Status: models.StatusPending},
		{ID: "h2", HouseNumber: "B-7", OwnerName: "Ravi", Block: "Block E", Panchayat: "Riverside", Status: models.StatusPending},
		{ID: "h3", HouseNumber: "C-2", OwnerName: "Meena", Block: "Block F", Panchayat: "Hilltop", Status: models.StatusCollected},
	}
	fake.Users.Items = []models.User{
		{ID: "u1", Username: "admin", Password: "admin123", Role: models.RoleAdmin},
		{ID: "u2", Username: "collector", Password: "pickup", Role: models.RoleCollector},
	}
	return fake
}

func loadedStore(t *testing.T, fake *gatewaytest.Fake, opts ...store.Option) *store.Store {
	t.Helper()
	st := store.New(fake.Gateway(), testLogger(), opts...)
	require.NoError(t, st.Load(context.Background()))
	return st
}

func TestLoadPopulatesMirror(t *testing.T) {
	st := loadedStore(t, seededFake())

	assert.Len(t, st.Households(), 3)
	assert.Len(t, st.Users(), 2)
	assert.Len(t, st.Locations(), 2)

	loaded, err := st.Loaded()
	assert.True(t, loaded)
	assert.NoError(t, err)
}

func TestLoadFailureLeavesStoreUnloadedAndRetryable(t *testing.T) {
	fake := seededFake()
	fake.Records.GetAllErr = errors.New("connection refused")

	st := store.New(fake.Gateway(), testLogger())
	err := st.Load(context.Background())
	require.Error(t, err)

	loaded, loadErr := st.Loaded()
	assert.False(t, loaded)
	assert.Error(t, loadErr)
	assert.Empty(t, st.Households())

	// retry once the gateway recovers
	fake.Records.GetAllErr = nil
	require.NoError(t, st.Load(context.Background()))

	loaded, loadErr = st.Loaded()
	assert.True(t, loaded)
	assert.NoError(t, loadErr)
	assert.Len(t, st.Households(), 3)
}

func TestMarkCollectedAppendsRecordEveryCall(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC))
	fake := seededFake()
	st := loadedStore(t, fake, store.WithClock(mock))

	req := models.CollectRequest{CollectorID: "u2"}

	first, err := st.MarkCollected(context.Background(), "h1", req)
	require.NoError(t, err)

	mock.Add(2 * time.Hour)
	second, err := st.MarkCollected(context.Background(), "h1", req)
	require.NoError(t, err)

	h, ok := st.Household("h1")
	require.True(t, ok)
	assert.Equal(t, models.StatusCollected, h.Status)

	// every call appends, even on an already-collected household
	records := st.Records()
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, second.ID, records[1].ID)
	assert.Equal(t, time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC), records[0].Timestamp)
	assert.Equal(t, time.Date(2026, 8, 10, 11, 0, 0, 0, time.UTC), records[1].Timestamp)
	assert.Len(t, fake.Records.Items, 2)
}

func TestMarkCollectedUnknownHousehold(t *testing.T) {
	st := loadedStore(t, seededFake())

	_, err := st.MarkCollected(context.Background(), "nope", models.CollectRequest{CollectorID: "u2"})

	var notFound *store.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, st.Records())
}

func TestMarkCollectedStatusWriteFailureAborts(t *testing.T) {
	fake := seededFake()
	fake.Households.UpdateErr = errors.New("write failed")
	st := loadedStore(t, fake)

	_, err := st.MarkCollected(context.Background(), "h1", models.CollectRequest{CollectorID: "u2"})
	require.Error(t, err)

	h, _ := st.Household("h1")
	assert.Equal(t, models.StatusPending, h.Status)
	assert.Empty(t, st.Records())
	assert.Empty(t, fake.Records.Items)
}

func TestMarkCollectedRecordWriteFailureKeepsStatus(t *testing.T) {
	fake := seededFake()
	fake.Records.AddErr = errors.New("write failed")
	st := loadedStore(t, fake)

	_, err := st.MarkCollected(context.Background(), "h1", models.CollectRequest{CollectorID: "u2"})
	require.Error(t, err)

	// the status change already landed; only the proof record is missing
	h, _ := st.Household("h1")
	assert.Equal(t, models.StatusCollected, h.Status)
	assert.Empty(t, st.Records())
}

func TestResetAllFlipsOnlyCollected(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC))
	fake := seededFake()
	st := loadedStore(t, fake, store.WithClock(mock))

	_, err := st.MarkCollected(context.Background(), "h1", models.CollectRequest{CollectorID: "u2"})
	require.NoError(t, err)

	count, err := st.ResetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count) // h1 and the seeded h3

	for _, h := range st.Households() {
		assert.Equal(t, models.StatusPending, h.Status)
	}

	// records survive the reset
	assert.Len(t, st.Records(), 1)
	assert.Len(t, fake.Records.Items, 1)
}

func TestResetAllPropagatesFailures(t *testing.T) {
	fake := seededFake()
	fake.Households.UpdateErr = errors.New("write failed")
	st := loadedStore(t, fake)

	count, err := st.ResetAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, count)

	// failed households keep their collected state
	h, _ := st.Household("h3")
	assert.Equal(t, models.StatusCollected, h.Status)
}

func TestAddHouseholdRequiresExistingPair(t *testing.T) {
	st := loadedStore(t, seededFake())

	_, err := st.AddHousehold(context.Background(), models.CreateHouseholdRequest{
		HouseNumber: "D-1",
		Address:     "Main Road",
		OwnerName:   "Kiran",
		Block:       "Block E",
		Panchayat:   "Hilltop", // exists, but in Block F
	})

	var denied *store.DeniedError
	require.ErrorAs(t, err, &denied)

	h, err := st.AddHousehold(context.Background(), models.CreateHouseholdRequest{
		HouseNumber: "D-1",
		Address:     "Main Road",
		OwnerName:   "Kiran",
		Block:       "Block E",
		Panchayat:   "Lakeview",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, h.Status)
	assert.Len(t, st.Households(), 4)
}

func TestDeleteHouseholdKeepsRecords(t *testing.T) {
	fake := seededFake()
	st := loadedStore(t, fake)

	_, err := st.MarkCollected(context.Background(), "h1", models.CollectRequest{CollectorID: "u2"})
	require.NoError(t, err)

	require.NoError(t, st.DeleteHousehold(context.Background(), "h1"))

	assert.Len(t, st.Households(), 2)
	// orphaned history stays
	assert.Len(t, st.Records(), 1)
}

func TestDeleteLocationGuardedByReferences(t *testing.T) {
	fake := seededFake()
	st := loadedStore(t, fake)

	decision, err := st.CanDeleteBlock("location-1")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)

	var denied *store.DeniedError
	require.ErrorAs(t, st.DeleteLocation(context.Background(), "location-1"), &denied)

	// the rejection happens before any gateway call
	assert.Len(t, fake.Locations.Items, 2)

	// unreference the block, then deletion goes through
	require.NoError(t, st.DeleteHousehold(context.Background(), "h1"))
	require.NoError(t, st.DeleteHousehold(context.Background(), "h2"))

	decision, err = st.CanDeleteBlock("location-1")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	require.NoError(t, st.DeleteLocation(context.Background(), "location-1"))
	assert.Len(t, st.Locations(), 1)
}

func TestRemovePanchayatGuardedByPair(t *testing.T) {
	st := loadedStore(t, seededFake())

	decision, err := st.CanRemovePanchayat("location-1", "Lakeview")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)

	// Riverside is referenced by h2, Lakeview by h1; move h1 off Lakeview
	panchayat := "Riverside"
	_, err = st.UpdateHousehold(context.Background(), "h1", models.HouseholdUpdate{Panchayat: &panchayat})
	require.NoError(t, err)

	decision, err = st.CanRemovePanchayat("location-1", "Lakeview")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	loc, err := st.RemovePanchayat(context.Background(), "location-1", "Lakeview")
	require.NoError(t, err)
	assert.Equal(t, []string{"Riverside"}, []string(loc.Panchayats))
}

func TestAddLocationRejectsDuplicateBlockCaseInsensitive(t *testing.T) {
	st := loadedStore(t, seededFake())

	_, err := st.AddLocation(context.Background(), models.CreateLocationRequest{BlockName: "block e"})

	var denied *store.DeniedError
	require.ErrorAs(t, err, &denied)
}

func TestAddPanchayatRejectsDuplicateCaseInsensitive(t *testing.T) {
	st := loadedStore(t, seededFake())

	_, err := st.AddPanchayat(context.Background(), "location-1", "lakeview")

	var denied *store.DeniedError
	require.ErrorAs(t, err, &denied)

	loc, err := st.AddPanchayat(context.Background(), "location-1", "Sunrise")
	require.NoError(t, err)
	assert.Equal(t, []string{"Lakeview", "Riverside", "Sunrise"}, []string(loc.Panchayats))
}

func TestPendingDateDuplicatesAllowed(t *testing.T) {
	st := loadedStore(t, seededFake())

	req := models.CreatePendingDateRequest{HouseholdID: "h1", Date: "2026-08-09", Reason: "festival"}

	first, err := st.AddPendingDate(context.Background(), req)
	require.NoError(t, err)
	second, err := st.AddPendingDate(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, st.PendingDates(), 2)

	// delete removes exactly the one entry
	require.NoError(t, st.DeletePendingDate(context.Background(), first.ID))
	remaining := st.PendingDates()
	require.Len(t, remaining, 1)
	assert.Equal(t, second.ID, remaining[0].ID)
}

func TestAddPendingDateUnknownHousehold(t *testing.T) {
	st := loadedStore(t, seededFake())

	_, err := st.AddPendingDate(context.Background(), models.CreatePendingDateRequest{
		HouseholdID: "nope",
		Date:        "2026-08-09",
	})

	var notFound *store.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestAddUserRejectsDuplicateUsername(t *testing.T) {
	st := loadedStore(t, seededFake())

	_, err := st.AddUser(context.Background(), models.CreateUserRequest{
		Username: "admin",
		Password: "other",
		Role:     models.RoleCollector,
	})

	var denied *store.DeniedError
	require.ErrorAs(t, err, &denied)
}

func TestAuthenticate(t *testing.T) {
	st := loadedStore(t, seededFake())

	u, err := st.Authenticate(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, models.RoleAdmin, u.Role)

	// wrong password and unknown username look identical
	u, err = st.Authenticate(context.Background(), "admin", "wrong")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = st.Authenticate(context.Background(), "ghost", "admin123")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestCollectionHistorySurvivesReset(t *testing.T) {
	fake := seededFake()
	st := loadedStore(t, fake)

	record, err := st.MarkCollected(context.Background(), "h1", models.CollectRequest{
		CollectorID: "u2",
		Location:    &models.Coordinates{Latitude: 28.6139, Longitude: 77.2090},
	})
	require.NoError(t, err)
	require.NotNil(t, record.Location)
	assert.Equal(t, 28.6139, record.Location.Latitude)
	assert.Equal(t, 77.2090, record.Location.Longitude)

	h, _ := st.Household("h1")
	assert.Equal(t, models.StatusCollected, h.Status)
	require.Len(t, st.Records(), 1)

	_, err = st.ResetAll(context.Background())
	require.NoError(t, err)

	h, _ = st.Household("h1")
	assert.Equal(t, models.StatusPending, h.Status)

	// the reset touches statuses only, never the history
	records := st.Records()
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)
	require.NotNil(t, records[0].Location)
	assert.Equal(t, 28.6139, records[0].Location.Latitude)
}

func TestBlockAndPanchayatLifecycle(t *testing.T) {
	ctx := context.Background()
	st := loadedStore(t, seededFake())

	loc, err := st.AddLocation(ctx, models.CreateLocationRequest{BlockName: "Block G"})
	require.NoError(t, err)

	_, err = st.AddPanchayat(ctx, loc.ID, "Lakeside")
	require.NoError(t, err)

	h, err := st.AddHousehold(ctx, models.CreateHouseholdRequest{
		HouseNumber: "F-1",
		Address:     "Hill Road",
		OwnerName:   "Devi",
		Block:       "Block G",
		Panchayat:   "Lakeside",
	})
	require.NoError(t, err)

	// both removals are blocked while the household references the pair
	var denied *store.DeniedError
	_, rerr := st.RemovePanchayat(ctx, loc.ID, "Lakeside")
	require.ErrorAs(t, rerr, &denied)
	require.ErrorAs(t, st.DeleteLocation(ctx, loc.ID), &denied)

	require.NoError(t, st.DeleteHousehold(ctx, h.ID))

	_, err = st.RemovePanchayat(ctx, loc.ID, "Lakeside")
	require.NoError(t, err)
	require.NoError(t, st.DeleteLocation(ctx, loc.ID))
}

func TestSnapshotsAreCopies(t *testing.T) {
	st := loadedStore(t, seededFake())

	snapshot := st.Households()
	snapshot[0].OwnerName = "mutated"

	fresh := st.Households()
	assert.Equal(t, "Asha", fresh[0].OwnerName)
}
