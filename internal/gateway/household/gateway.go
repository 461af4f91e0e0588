package household

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/google/uuid"
)

const tableName = "households"

// Gateway persists households in PostgreSQL. Ids are assigned here, not by
// callers.
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

// GetAll returns every household.
func (g *Gateway) GetAll(ctx context.Context) ([]models.Household, error) {
	ctx, span := tracing.StartSpan(ctx, "HouseholdGateway.GetAll")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("id", "house_number", "address", "owner_name", "block", "panchayat", "status")
	sb.From(tableName)
	sb.OrderBy("seq ASC")

	query, args := sb.Build()

	items := []models.Household{}
	if err := g.db.SelectContext(ctx, &items, query, args...); err != nil {
		g.logger.WithContext(ctx).WithError(err).Error("failed to list households")
		return nil, fmt.Errorf("failed to list households: %w", err)
	}

	return items, nil
}

// Add inserts a household and returns the assigned id. The input id is ignored.
func (g *Gateway) Add(ctx context.Context, h models.Household) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "HouseholdGateway.Add")
	defer span.End()

	id := uuid.New().String()

	ib := database.NewInsertBuilder()
	ib.InsertInto(tableName)
	ib.Cols("id", "house_number", "address", "owner_name", "block", "panchayat", "status")
	ib.Values(id, h.HouseNumber, h.Address, h.OwnerName, h.Block, h.Panchayat, h.Status)

	query, args := ib.Build()

	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		g.logger.WithContext(ctx).WithError(err).Error("failed to add household")
		return "", fmt.Errorf("failed to add household: %w", err)
	}

	g.logger.WithContext(ctx).WithFields(map[string]any{
		"id":           id,
		"house_number": h.HouseNumber,
		"block":        h.Block,
	}).Info("added household")

	return id, nil
}

// Update applies the set fields of the update to one household.
func (g *Gateway) Update(ctx context.Context, id string, update models.HouseholdUpdate) error {
	ctx, span := tracing.StartSpan(ctx, "HouseholdGateway.Update")
	defer span.End()

	if update.IsEmpty() {
		return nil
	}

	ub := database.NewUpdateBuilder()
	ub.Update(tableName)

	if update.HouseNumber != nil {
		ub.SetMore(ub.Assign("house_number", *update.HouseNumber))
	}
	if update.Address != nil {
		ub.SetMore(ub.Assign("address", *update.Address))
	}
	if update.OwnerName != nil {
		ub.SetMore(ub.Assign("owner_name", *update.OwnerName))
	}
	if update.Block != nil {
		ub.SetMore(ub.Assign("block", *update.Block))
	}
	if update.Panchayat != nil {
		ub.SetMore(ub.Assign("panchayat", *update.Panchayat))
	}
	if update.Status != nil {
		ub.SetMore(ub.Assign("status", *update.Status))
	}

	ub.Where(ub.Equal("id", id))

	query, args := ub.Build()

	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		g.logger.WithContext(ctx).WithError(err).Error("failed to update household")
		return fmt.Errorf("failed to update household: %w", err)
	}

	return nil
}

// Delete removes one household. Collection records referencing it are kept;
// history is never erased.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "HouseholdGateway.Delete")
	defer span.End()

	db := database.NewDeleteBuilder()
	db.DeleteFrom(tableName)
	db.Where(db.Equal("id", id))

	query, args := db.Build()

	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		g.logger.WithContext(ctx).WithError(err).Error("failed to delete household")
		return fmt.Errorf("failed to delete household: %w", err)
	}

	g.logger.WithContext(ctx).WithField("id", id).Info("deleted household")

	return nil
}
