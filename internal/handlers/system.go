package handlers

import (
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/store"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/labstack/echo/v4"
)

// SystemHandler exposes liveness and the manual full-state reload.
type SystemHandler struct {
	store  *store.Store
	db     database.DB
	logger ectologger.Logger
}

func NewSystemHandler(s *store.Store, db database.DB, logger ectologger.Logger) *SystemHandler {
	return &SystemHandler{
		store:  s,
		db:     db,
		logger: logger,
	}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(e *echo.Echo, api *echo.Group) {
	e.GET("/health", h.Health)
	api.POST("/system/reload", h.Reload)
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	State    string `json:"state"`
}

// Health reports database reachability and whether the mirror is loaded.
func (h *SystemHandler) Health(c echo.Context) error {
	ctx := c.Request().Context()

	resp := healthResponse{Status: "ok", Database: "ok", State: "loaded"}
	code := http.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		code = http.StatusServiceUnavailable
	}
	if loaded, _ := h.store.Loaded(); !loaded {
		resp.Status = "degraded"
		resp.State = "not loaded"
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, resp)
}

// Reload refetches all collections from persistence and replaces the mirror.
// Admin only.
func (h *SystemHandler) Reload(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "system_handler.Reload")
	defer span.End()

	if err := RequireAdmin(c); err != nil {
		return err
	}

	if err := h.store.Load(ctx); err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("manual state reload failed")
		return storeError(err)
	}

	return SuccessResponse(c, map[string]string{"status": "reloaded"})
}
