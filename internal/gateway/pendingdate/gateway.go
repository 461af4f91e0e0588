package pendingdate

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/google/uuid"
)

const tableName = "pending_dates"

// Gateway persists pending-date annotations in PostgreSQL. Entries are
// created and deleted, never updated, and duplicates per (household, date)
// are allowed.
type Gateway struct {
	db     database.DB
	logger ectologger.Logger
}

func NewGateway(db database.DB, logger ectologger.Logger) *Gateway {
	return &Gateway{
		db:     db,
		logger: logger,
	}
}

// GetAll returns every pending date in insertion order.
func (g *Gateway) GetAll(ctx context.Context) ([]models.PendingDate, error) {
	ctx, span := tracing.StartSpan(ctx, "PendingDateGateway.GetAll")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("id", "household_id", "date", "reason", "created_at")
	sb.From(tableName)
	sb.OrderBy("seq ASC")

	query, args := sb.Build()

	items := []models.PendingDate{}
	if err := g.db.SelectContext(ctx, &items, query, args...); err != nil {
		g.logger.WithContext(ctx).WithError(err).Error("failed to list pending dates")
		return nil, fmt.Errorf("failed to list pending dates: %w", err)
	}

	return items, nil
}

// Add inserts a pending date and returns the assigned id.
func (g *Gateway) Add(ctx context.Context, p models.PendingDate) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "PendingDateGateway.Add")
	defer span.End()

	id := uuid.New().String()

	ib := database.NewInsertBuilder()
	ib.InsertInto(tableName)
	ib.Cols("id", "household_id", "date", "reason", "created_at")
	ib.Values(id, p.HouseholdID, p.Date, p.Reason, p.CreatedAt)

	query, args := ib.Build()

	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		g.logger.WithContext(ctx).WithError(err).Error("failed to add pending date")
		return "", fmt.Errorf("failed to add pending date: %w", err)
	}

	g.logger.WithContext(ctx).WithFields(map[string]any{
		"id":           id,
		"household_id": p.HouseholdID,
		"date":         p.Date,
	}).Info("added pending date")

	return id, nil
}

// Delete removes exactly one pending date by id.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "PendingDateGateway.Delete")
	defer span.End()

	db := database.NewDeleteBuilder()
	db.DeleteFrom(tableName)
	db.Where(db.Equal("id", id))

	query, args := db.Build()

	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		g.logger.WithContext(ctx).WithError(err).Error("failed to delete pending date")
		return fmt.Errorf("failed to delete pending date: %w", err)
	}

	g.logger.WithContext(ctx).WithField("id", id).Info("deleted pending date")

	return nil
}
