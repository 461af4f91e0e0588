package handlers

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/appcontext"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/store"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/labstack/echo/v4"
)

// UserHandler handles operator account management. Everything here is admin
// only.
type UserHandler struct {
	store  *store.Store
	logger ectologger.Logger
}

func NewUserHandler(s *store.Store, logger ectologger.Logger) *UserHandler {
	return &UserHandler{
		store:  s,
		logger: logger,
	}
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/users", h.List)
	g.POST("/users", h.Create)
	g.PUT("/users/:id", h.Update)
	g.DELETE("/users/:id", h.Delete)
}

// List returns every user. Passwords never serialize.
func (h *UserHandler) List(c echo.Context) error {
	if err := RequireAdmin(c); err != nil {
		return err
	}
	return SuccessResponse(c, h.store.Users())
}

// Create adds an operator account.
func (h *UserHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "user_handler.Create")
	defer span.End()

	if err := RequireAdmin(c); err != nil {
		return err
	}

	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	u, err := h.store.AddUser(ctx, req)
	if err != nil {
		return storeError(err)
	}

	return CreatedResponse(c, u)
}

// Update applies a partial update to one user.
func (h *UserHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "user_handler.Update")
	defer span.End()

	if err := RequireAdmin(c); err != nil {
		return err
	}

	var update models.UserUpdate
	if err := c.Bind(&update); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(update); err != nil {
		return BadRequest(err.Error())
	}

	u, err := h.store.UpdateUser(ctx, c.Param("id"), update)
	if err != nil {
		return storeError(err)
	}

	return SuccessResponse(c, u)
}

// Delete removes a user. Admins cannot delete their own account.
func (h *UserHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "user_handler.Delete")
	defer span.End()

	if err := RequireAdmin(c); err != nil {
		return err
	}

	id := c.Param("id")
	if appcontext.GetUserID(ctx) == id {
		return httperror.NewHTTPError(http.StatusConflict, "cannot delete your own account")
	}

	if err := h.store.DeleteUser(ctx, id); err != nil {
		return storeError(err)
	}

	return NoContentResponse(c)
}
