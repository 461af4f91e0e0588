package handlers

import (
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/store"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/labstack/echo/v4"
)

// LocationHandler handles blocks and their panchayats. Mutations are admin
// only; deletion checks household references first.
type LocationHandler struct {
	store  *store.Store
	logger ectologger.Logger
}

func NewLocationHandler(s *store.Store, logger ectologger.Logger) *LocationHandler {
	return &LocationHandler{
		store:  s,
		logger: logger,
	}
}

// RegisterRoutes registers location routes
func (h *LocationHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/locations", h.List)
	g.POST("/locations", h.Create)
	g.PUT("/locations/:id", h.Update)
	g.DELETE("/locations/:id", h.Delete)
	g.GET("/locations/:id/can-delete", h.CanDelete)
	g.POST("/locations/:id/panchayats", h.AddPanchayat)
	g.DELETE("/locations/:id/panchayats/:name", h.RemovePanchayat)
	g.GET("/locations/:id/panchayats/:name/can-remove", h.CanRemovePanchayat)
}

// List returns every block with its panchayats.
func (h *LocationHandler) List(c echo.Context) error {
	return SuccessResponse(c, h.store.Locations())
}

// Create adds a block.
func (h *LocationHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "location_handler.Create")
	defer span.End()

	if err := RequireAdmin(c); err != nil {
		return err
	}

	var req models.CreateLocationRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	loc, err := h.store.AddLocation(ctx, req)
	if err != nil {
		return storeError(err)
	}

	return CreatedResponse(c, loc)
}

// Update applies a partial update to one block.
func (h *LocationHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "location_handler.Update")
	defer span.End()

	if err := RequireAdmin(c); err != nil {
		return err
	}

	var update models.LocationUpdate
	if err := c.Bind(&update); err != nil {
		return BadRequest("invalid request body")
	}

	loc, err := h.store.UpdateLocation(ctx, c.Param("id"), update)
	if err != nil {
		return storeError(err)
	}

	return SuccessResponse(c, loc)
}

// Delete removes a block, refusing while households still reference it.
func (h *LocationHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "location_handler.Delete")
	defer span.End()

	if err := RequireAdmin(c); err != nil {
		return err
	}

	if err := h.store.DeleteLocation(ctx, c.Param("id")); err != nil {
		return storeError(err)
	}

	return NoContentResponse(c)
}

// CanDelete reports whether the block is safe to delete, without deleting it.
func (h *LocationHandler) CanDelete(c echo.Context) error {
	decision, err := h.store.CanDeleteBlock(c.Param("id"))
	if err != nil {
		return storeError(err)
	}
	return SuccessResponse(c, decision)
}

// AddPanchayat appends a panchayat to a block.
func (h *LocationHandler) AddPanchayat(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "location_handler.AddPanchayat")
	defer span.End()

	if err := RequireAdmin(c); err != nil {
		return err
	}

	var req models.AddPanchayatRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	loc, err := h.store.AddPanchayat(ctx, c.Param("id"), req.Name)
	if err != nil {
		return storeError(err)
	}

	return SuccessResponse(c, loc)
}

// RemovePanchayat removes one panchayat, refusing while households still
// reference the pair.
func (h *LocationHandler) RemovePanchayat(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "location_handler.RemovePanchayat")
	defer span.End()

	if err := RequireAdmin(c); err != nil {
		return err
	}

	loc, err := h.store.RemovePanchayat(ctx, c.Param("id"), c.Param("name"))
	if err != nil {
		return storeError(err)
	}

	return SuccessResponse(c, loc)
}

// CanRemovePanchayat reports whether the panchayat is safe to remove.
func (h *LocationHandler) CanRemovePanchayat(c echo.Context) error {
	decision, err := h.store.CanRemovePanchayat(c.Param("id"), c.Param("name"))
	if err != nil {
		return storeError(err)
	}
	return SuccessResponse(c, decision)
}
