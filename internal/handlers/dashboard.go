package handlers

import (
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/store"
	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the aggregate counts the home screen shows.
type DashboardHandler struct {
	store  *store.Store
	logger ectologger.Logger
}

func NewDashboardHandler(s *store.Store, logger ectologger.Logger) *DashboardHandler {
	return &DashboardHandler{
		store:  s,
		logger: logger,
	}
}

// RegisterRoutes registers dashboard routes
func (h *DashboardHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard", h.Summary)
}

// recentLimit caps the record feed on the dashboard.
const recentLimit = 10

// BlockSummary is the per-block progress line on the dashboard.
type BlockSummary struct {
	Block      string `json:"block"`
	Households int    `json:"households"`
	Collected  int    `json:"collected"`
}

// RecentRecord is a collection record with its collector's name resolved.
type RecentRecord struct {
	models.CollectionRecord
	CollectorName string `json:"collector_name"`
}

// DashboardSummary is the aggregate snapshot of today's progress.
type DashboardSummary struct {
	TotalHouseholds  int            `json:"total_households"`
	Collected        int            `json:"collected"`
	Pending          int            `json:"pending"`
	CollectionsToday int            `json:"collections_today"`
	Blocks           []BlockSummary `json:"blocks"`
	RecentRecords    []RecentRecord `json:"recent_records"`
}

// Summary computes the dashboard from mirror snapshots.
func (h *DashboardHandler) Summary(c echo.Context) error {
	households := h.store.Households()
	records := h.store.Records()

	summary := DashboardSummary{
		TotalHouseholds: len(households),
		Blocks:          []BlockSummary{},
		RecentRecords:   []RecentRecord{},
	}

	blockIdx := map[string]int{}
	for _, hh := range households {
		if hh.Status == models.StatusCollected {
			summary.Collected++
		} else {
			summary.Pending++
		}

		key := strings.ToLower(hh.Block)
		i, ok := blockIdx[key]
		if !ok {
			i = len(summary.Blocks)
			blockIdx[key] = i
			summary.Blocks = append(summary.Blocks, BlockSummary{Block: hh.Block})
		}
		summary.Blocks[i].Households++
		if hh.Status == models.StatusCollected {
			summary.Blocks[i].Collected++
		}
	}

	today := time.Now().Format(models.DayFormat)
	for _, rec := range records {
		if rec.Timestamp.Local().Format(models.DayFormat) == today {
			summary.CollectionsToday++
		}
	}

	collectorNames := map[string]string{}
	for _, u := range h.store.Users() {
		collectorNames[u.ID] = u.Username
	}

	// newest first
	for i := len(records) - 1; i >= 0 && len(summary.RecentRecords) < recentLimit; i-- {
		summary.RecentRecords = append(summary.RecentRecords, RecentRecord{
			CollectionRecord: records[i],
			CollectorName:    collectorNames[records[i].CollectorID],
		})
	}

	return SuccessResponse(c, summary)
}
