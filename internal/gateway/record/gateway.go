package record

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/google/uuid"
)

const tableName = "collection_records"

// Gateway persists collection records in PostgreSQL. Records are append-only:
// there is no update or delete here, matching the entity's immutability.
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

// recordRow is the database shape of a record; the optional GPS fix lives in
// a nullable jsonb column.
type recordRow struct {
	ID          string                             `db:"id"`
	HouseholdID string                             `db:"household_id"`
	CollectorID string                             `db:"collector_id"`
	Timestamp   time.Time                          `db:"timestamp"`
	Location    database.JSONB[*models.Coordinates] `db:"location"`
}

func (r recordRow) toModel() models.CollectionRecord {
	return models.CollectionRecord{
		ID:          r.ID,
		HouseholdID: r.HouseholdID,
		CollectorID: r.CollectorID,
		Timestamp:   r.Timestamp,
		Location:    r.Location.Data,
	}
}

// GetAll returns every collection record in insertion order.
func (g *Gateway) GetAll(ctx context.Context) ([]models.CollectionRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "RecordGateway.GetAll")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("id", "household_id", "collector_id", "timestamp", "location")
	sb.From(tableName)
	sb.OrderBy("seq ASC")

	query, args := sb.Build()

	rows := []recordRow{}
	if err := g.db.SelectContext(ctx, &rows, query, args...); err != nil {
		g.logger.WithContext(ctx).WithError(err).Error("failed to list collection records")
		return nil, fmt.Errorf("failed to list collection records: %w", err)
	}

	items := make([]models.CollectionRecord, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toModel())
	}

	return items, nil
}

// Add appends a collection record and returns the assigned id.
func (g *Gateway) Add(ctx context.Context, rec models.NewCollectionRecord) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "RecordGateway.Add")
	defer span.End()

	id := uuid.New().String()

	ib := database.NewInsertBuilder()
	ib.InsertInto(tableName)
	ib.Cols("id", "household_id", "collector_id", "timestamp", "location")
	ib.Values(id, rec.HouseholdID, rec.CollectorID, rec.Timestamp, database.JSONB[*models.Coordinates]{Data: rec.Location})

	query, args := ib.Build()

	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		g.logger.WithContext(ctx).WithError(err).Error("failed to add collection record")
		return "", fmt.Errorf("failed to add collection record: %w", err)
	}

	g.logger.WithContext(ctx).WithFields(map[string]any{
		"id":           id,
		"household_id": rec.HouseholdID,
		"collector_id": rec.CollectorID,
	}).Info("added collection record")

	return id, nil
}
