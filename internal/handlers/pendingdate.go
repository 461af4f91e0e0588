package handlers

import (
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/store"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/labstack/echo/v4"
)

// PendingDateHandler handles deliberate-skip annotations.
type PendingDateHandler struct {
	store  *store.Store
	logger ectologger.Logger
}

func NewPendingDateHandler(s *store.Store, logger ectologger.Logger) *PendingDateHandler {
	return &PendingDateHandler{
		store:  s,
		logger: logger,
	}
}

// RegisterRoutes registers pending-date routes
func (h *PendingDateHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/pending-dates", h.List)
	g.POST("/pending-dates", h.Create)
	g.DELETE("/pending-dates/:id", h.Delete)
}

// List returns every pending date.
func (h *PendingDateHandler) List(c echo.Context) error {
	return SuccessResponse(c, h.store.PendingDates())
}

// Create marks a day deliberately skipped for a household. Admin only.
// Marking the same day twice creates two entries.
func (h *PendingDateHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "pendingdate_handler.Create")
	defer span.End()

	if err := RequireAdmin(c); err != nil {
		return err
	}

	var req models.CreatePendingDateRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	p, err := h.store.AddPendingDate(ctx, req)
	if err != nil {
		return storeError(err)
	}

	return CreatedResponse(c, p)
}

// Delete removes one pending-date entry by id. Admin only.
func (h *PendingDateHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "pendingdate_handler.Delete")
	defer span.End()

	if err := RequireAdmin(c); err != nil {
		return err
	}

	if err := h.store.DeletePendingDate(ctx, c.Param("id")); err != nil {
		return storeError(err)
	}

	return NoContentResponse(c)
}
