package handlers

import (
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/store"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles plaintext credential checks. There are no sessions or
// tokens; a successful login just returns the user and the client remembers
// it.
type AuthHandler struct {
	store  *store.Store
	logger ectologger.Logger
}

func NewAuthHandler(s *store.Store, logger ectologger.Logger) *AuthHandler {
	return &AuthHandler{
		store:  s,
		logger: logger,
	}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/auth/login", h.Login)
}

// Login checks a username and password and returns the matching user. A wrong
// password and an unknown username are indistinguishable to the caller.
func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "auth_handler.Login")
	defer span.End()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	u, err := h.store.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("login check failed")
		return storeError(err)
	}
	if u == nil {
		return Unauthorized("invalid username or password")
	}

	return SuccessResponse(c, u)
}
