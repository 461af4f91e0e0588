package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/internal/gateway/gatewaytest"
	"github.com/Ramsey-B/clover/internal/handlers"
	"github.com/Ramsey-B/clover/pkg/middleware"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/store"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type harness struct {
	echo  *echo.Echo
	store *store.Store
	fake  *gatewaytest.Fake
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	fake := gatewaytest.New()
	fake.Locations.Items = []models.AreaLocation{
		{ID: "location-1", BlockName: "Block E", Panchayats: []string{"Lakeview", "Riverside"}},
	}
	fake.Households.Items = []models.Household{
		{ID: "h1", HouseNumber: "A-101", OwnerName: "Asha", Block: "Block E", Panchayat: "Lakeview", Status: models.StatusPending},
	}
	fake.Users.Items = []models.User{
		{ID: "u1", Username: "admin", Password: "admin123", Role: models.RoleAdmin},
	}

	logger := testLogger()
	st := store.New(fake.Gateway(), logger)
	require.NoError(t, st.Load(context.Background()))

	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(middleware.Context())

	api := e.Group("/api/v1")
	handlers.NewAuthHandler(st, logger).RegisterRoutes(api)
	handlers.NewHouseholdHandler(st, logger).RegisterRoutes(api)
	handlers.NewUserHandler(st, logger).RegisterRoutes(api)
	handlers.NewLocationHandler(st, logger).RegisterRoutes(api)
	handlers.NewPendingDateHandler(st, logger).RegisterRoutes(api)
	handlers.NewDashboardHandler(st, logger).RegisterRoutes(api)

	return &harness{echo: e, store: st, fake: fake}
}

func (h *harness) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.echo.ServeHTTP(rec, req)
	return rec
}

func asAdmin() map[string]string {
	return map[string]string{
		middleware.HeaderUserID:   "u1",
		middleware.HeaderUserRole: "admin",
	}
}

func asCollector() map[string]string {
	return map[string]string{
		middleware.HeaderUserID:   "u2",
		middleware.HeaderUserRole: "collector",
	}
}

func TestLogin(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/v1/auth/login", `{"username":"admin","password":"admin123"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var u models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.Equal(t, "u1", u.ID)
	// the password never serializes
	assert.NotContains(t, rec.Body.String(), "admin123")

	rec = h.do(http.MethodPost, "/api/v1/auth/login", `{"username":"admin","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/auth/login", `{"username":"admin"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateHousehold(t *testing.T) {
	h := newHarness(t)

	body := `{"house_number":"B-2","address":"Main Road","owner_name":"Ravi","block":"Block E","panchayat":"Riverside"}`
	rec := h.do(http.MethodPost, "/api/v1/households", body, asCollector())
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Household
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.StatusPending, created.Status)

	// unknown (block, panchayat) pair is rejected
	body = `{"house_number":"B-3","address":"Main Road","owner_name":"Ravi","block":"Block E","panchayat":"Nowhere"}`
	rec = h.do(http.MethodPost, "/api/v1/households", body, asCollector())
	assert.Equal(t, http.StatusConflict, rec.Code)

	// missing fields are rejected
	rec = h.do(http.MethodPost, "/api/v1/households", `{"house_number":"B-4"}`, asCollector())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCollect(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/v1/households/h1/collect", `{"collector_id":"u2"}`, asCollector())
	require.Equal(t, http.StatusCreated, rec.Code)

	var record models.CollectionRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "h1", record.HouseholdID)
	assert.Equal(t, "u2", record.CollectorID)

	hh, ok := h.store.Household("h1")
	require.True(t, ok)
	assert.Equal(t, models.StatusCollected, hh.Status)

	rec = h.do(http.MethodPost, "/api/v1/households/missing/collect", `{"collector_id":"u2"}`, asCollector())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResetRequiresAdmin(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/v1/households/h1/collect", `{"collector_id":"u2"}`, asCollector())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/households/reset", "", asCollector())
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/households/reset", "", asAdmin())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reset":1}`, rec.Body.String())

	hh, _ := h.store.Household("h1")
	assert.Equal(t, models.StatusPending, hh.Status)
}

func TestDeleteOwnAccountRejected(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodDelete, "/api/v1/users/u1", "", asAdmin())
	assert.Equal(t, http.StatusConflict, rec.Code)

	// another admin may delete the account
	other := map[string]string{
		middleware.HeaderUserID:   "u9",
		middleware.HeaderUserRole: "admin",
	}
	rec = h.do(http.MethodDelete, "/api/v1/users/u1", "", other)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteLocationGuarded(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodDelete, "/api/v1/locations/location-1", "", asAdmin())
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/locations/location-1/can-delete", "", asAdmin())
	require.Equal(t, http.StatusOK, rec.Code)
	var decision store.Decision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
	assert.False(t, decision.Allowed)
	assert.NotEmpty(t, decision.Reason)

	rec = h.do(http.MethodDelete, "/api/v1/households/h1", "", asAdmin())
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(http.MethodDelete, "/api/v1/locations/location-1", "", asAdmin())
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPendingDatesAdminOnly(t *testing.T) {
	h := newHarness(t)

	body := `{"household_id":"h1","date":"2026-08-09","reason":"festival"}`

	rec := h.do(http.MethodPost, "/api/v1/pending-dates", body, asCollector())
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/pending-dates", body, asAdmin())
	require.Equal(t, http.StatusCreated, rec.Code)

	// malformed day strings never get stored
	rec = h.do(http.MethodPost, "/api/v1/pending-dates", `{"household_id":"h1","date":"09-08-2026"}`, asAdmin())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarView(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/v1/households/h1/collect", `{"collector_id":"u2"}`, asCollector())
	require.Equal(t, http.StatusCreated, rec.Code)

	var record models.CollectionRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	year := record.Timestamp.Local().Year()
	month := int(record.Timestamp.Local().Month())
	day := record.Timestamp.Local().Format(models.DayFormat)

	url := "/api/v1/households/h1/calendar?year=" + strconv.Itoa(year) + "&month=" + strconv.Itoa(month)
	rec = h.do(http.MethodGet, url, "", asCollector())
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Days []struct {
			Date  string `json:"date"`
			State string `json:"state"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))

	found := false
	for _, d := range view.Days {
		if d.Date == day {
			found = true
			assert.Equal(t, "collected", d.State)
		} else {
			assert.Equal(t, "untouched", d.State)
		}
	}
	assert.True(t, found)

	rec = h.do(http.MethodGet, "/api/v1/households/missing/calendar", "", asCollector())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardSummary(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/v1/households/h1/collect", `{"collector_id":"u1"}`, asCollector())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/dashboard", "", asCollector())
	require.Equal(t, http.StatusOK, rec.Code)

	var summary handlers.DashboardSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.TotalHouseholds)
	assert.Equal(t, 1, summary.Collected)
	assert.Equal(t, 0, summary.Pending)
	require.Len(t, summary.Blocks, 1)
	assert.Equal(t, "Block E", summary.Blocks[0].Block)
	assert.Equal(t, 1, summary.Blocks[0].Collected)
	require.Len(t, summary.RecentRecords, 1)
	assert.Equal(t, "admin", summary.RecentRecords[0].CollectorName)
}
