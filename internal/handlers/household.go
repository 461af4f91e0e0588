package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/calendar"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/store"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/labstack/echo/v4"
)

// HouseholdHandler handles household CRUD, the collect action, the bulk reset
// and per-household calendar views.
type HouseholdHandler struct {
	store  *store.Store
	logger ectologger.Logger
}

func NewHouseholdHandler(s *store.Store, logger ectologger.Logger) *HouseholdHandler {
	return &HouseholdHandler{
		store:  s,
		logger: logger,
	}
}

// RegisterRoutes registers household routes
func (h *HouseholdHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/households", h.List)
	g.POST("/households", h.Create)
	g.PUT("/households/:id", h.Update)
	g.DELETE("/households/:id", h.Delete)
	g.POST("/households/:id/collect", h.Collect)
	g.POST("/households/reset", h.Reset)
	g.GET("/households/:id/calendar", h.Calendar)
}

// List returns every household from the mirror.
func (h *HouseholdHandler) List(c echo.Context) error {
	return SuccessResponse(c, h.store.Households())
}

// Create registers a household. It always starts Pending.
func (h *HouseholdHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "household_handler.Create")
	defer span.End()

	var req models.CreateHouseholdRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	household, err := h.store.AddHousehold(ctx, req)
	if err != nil {
		return storeError(err)
	}

	return CreatedResponse(c, household)
}

// Update applies a partial update to one household.
func (h *HouseholdHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "household_handler.Update")
	defer span.End()

	var update models.HouseholdUpdate
	if err := c.Bind(&update); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(update); err != nil {
		return BadRequest(err.Error())
	}

	household, err := h.store.UpdateHousehold(ctx, c.Param("id"), update)
	if err != nil {
		return storeError(err)
	}

	return SuccessResponse(c, household)
}

// Delete removes a household. Admin only.
func (h *HouseholdHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "household_handler.Delete")
	defer span.End()

	if err := RequireAdmin(c); err != nil {
		return err
	}

	if err := h.store.DeleteHousehold(ctx, c.Param("id")); err != nil {
		return storeError(err)
	}

	return NoContentResponse(c)
}

// Collect marks a household collected and appends its proof record. Calling
// it again on the same household appends another record.
func (h *HouseholdHandler) Collect(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "household_handler.Collect")
	defer span.End()

	var req models.CollectRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	rec, err := h.store.MarkCollected(ctx, c.Param("id"), req)
	if err != nil {
		return storeError(err)
	}

	return CreatedResponse(c, rec)
}

// Reset flips every collected household back to pending. Admin only. Records
// are untouched.
func (h *HouseholdHandler) Reset(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "household_handler.Reset")
	defer span.End()

	if err := RequireAdmin(c); err != nil {
		return err
	}

	count, err := h.store.ResetAll(ctx)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("bulk reset finished with failures")
		return httperror.NewHTTPErrorf(http.StatusBadGateway, "reset incomplete: %d households reset", count)
	}

	return SuccessResponse(c, map[string]int{"reset": count})
}

// Calendar returns the per-day history of one household for a month. Defaults
// to the current month in the server's zone; tz overrides the zone used to
// bucket record timestamps.
func (h *HouseholdHandler) Calendar(c echo.Context) error {
	ctx := c.Request().Context()
	_, span := tracing.StartSpan(ctx, "household_handler.Calendar")
	defer span.End()

	id := c.Param("id")
	if _, ok := h.store.Household(id); !ok {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "household %s not found", id)
	}

	loc := time.Local
	if tz := c.QueryParam("tz"); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			return BadRequest("invalid tz")
		}
		loc = parsed
	}

	now := time.Now().In(loc)
	year := now.Year()
	month := now.Month()
	if y := c.QueryParam("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			return BadRequest("invalid year")
		}
		year = parsed
	}
	if m := c.QueryParam("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 12 {
			return BadRequest("invalid month")
		}
		month = time.Month(parsed)
	}

	view := calendar.Month(h.store.Records(), h.store.PendingDates(), id, year, month, loc)

	return SuccessResponse(c, view)
}
