package location

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const tableName = "locations"

// Gateway persists area locations in PostgreSQL. Panchayats are stored as a
// text[] column so the ordered list round-trips as-is.
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

// GetAll returns every area location.
func (g *Gateway) GetAll(ctx context.Context) ([]models.AreaLocation, error) {
	ctx, span := tracing.StartSpan(ctx, "LocationGateway.GetAll")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("id", "block_name", "panchayats")
	sb.From(tableName)
	sb.OrderBy("seq ASC")

	query, args := sb.Build()

	items := []models.AreaLocation{}
	if err := g.db.SelectContext(ctx, &items, query, args...); err != nil {
		g.logger.WithContext(ctx).WithError(err).Error("failed to list locations")
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	return items, nil
}

// Add inserts an area location and returns the assigned id.
func (g *Gateway) Add(ctx context.Context, loc models.AreaLocation) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "LocationGateway.Add")
	defer span.End()

	id := uuid.New().String()

	panchayats := loc.Panchayats
	if panchayats == nil {
		panchayats = pq.StringArray{}
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(tableName)
	ib.Cols("id", "block_name", "panchayats")
	ib.Values(id, loc.BlockName, panchayats)

	query, args := ib.Build()

	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		g.logger.WithContext(ctx).WithError(err).Error("failed to add location")
		return "", fmt.Errorf("failed to add location: %w", err)
	}

	g.logger.WithContext(ctx).WithFields(map[string]any{
		"id":         id,
		"block_name": loc.BlockName,
	}).Info("added location")

	return id, nil
}

// Update applies the set fields of the update to one location.
func (g *Gateway) Update(ctx context.Context, id string, update models.LocationUpdate) error {
	ctx, span := tracing.StartSpan(ctx, "LocationGateway.Update")
	defer span.End()

	if update.IsEmpty() {
		return nil
	}

	ub := database.NewUpdateBuilder()
	ub.Update(tableName)

	if update.BlockName != nil {
		ub.SetMore(ub.Assign("block_name", *update.BlockName))
	}
	if update.Panchayats != nil {
		ub.SetMore(ub.Assign("panchayats", pq.StringArray(*update.Panchayats)))
	}

	ub.Where(ub.Equal("id", id))

	query, args := ub.Build()

	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		g.logger.WithContext(ctx).WithError(err).Error("failed to update location")
		return fmt.Errorf("failed to update location: %w", err)
	}

	return nil
}

// Delete removes one location. Referential checks against households happen
// in the state store before this is ever called.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "LocationGateway.Delete")
	defer span.End()

	db := database.NewDeleteBuilder()
	db.DeleteFrom(tableName)
	db.Where(db.Equal("id", id))

	query, args := db.Build()

	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		g.logger.WithContext(ctx).WithError(err).Error("failed to delete location")
		return fmt.Errorf("failed to delete location: %w", err)
	}

	g.logger.WithContext(ctx).WithField("id", id).Info("deleted location")

	return nil
}
