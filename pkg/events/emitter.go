// Package events publishes collection lifecycle events to Kafka. Emission is
// best-effort: downstream dashboards consume these, but no clover behavior
// depends on them landing.
package events

import (
	"context"
	"time"

	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/models"
)

const (
	EventHouseholdCollected = "household.collected"
	EventHouseholdsReset    = "households.reset"
)

// HouseholdCollectedEvent is emitted every time a collector marks a household.
type HouseholdCollectedEvent struct {
	EventType   string              `json:"event_type"`
	HouseholdID string              `json:"household_id"`
	Block       string              `json:"block"`
	Panchayat   string              `json:"panchayat"`
	CollectorID string              `json:"collector_id"`
	RecordID    string              `json:"record_id"`
	Location    *models.Coordinates `json:"location,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
}

// HouseholdsResetEvent is emitted after a bulk status reset.
type HouseholdsResetEvent struct {
	EventType string    `json:"event_type"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// Emitter publishes collection events through a Kafka producer.
type Emitter struct {
	producer *kafka.Producer
}

func NewEmitter(producer *kafka.Producer) *Emitter {
	return &Emitter{producer: producer}
}

func (e *Emitter) EmitHouseholdCollected(ctx context.Context, household models.Household, record models.CollectionRecord) error {
	return e.producer.Publish(ctx, EventHouseholdCollected, household.ID, HouseholdCollectedEvent{
		EventType:   EventHouseholdCollected,
		HouseholdID: household.ID,
		Block:       household.Block,
		Panchayat:   household.Panchayat,
		CollectorID: record.CollectorID,
		RecordID:    record.ID,
		Location:    record.Location,
		Timestamp:   record.Timestamp,
	})
}

func (e *Emitter) EmitHouseholdsReset(ctx context.Context, count int) error {
	return e.producer.Publish(ctx, EventHouseholdsReset, EventHouseholdsReset, HouseholdsResetEvent{
		EventType: EventHouseholdsReset,
		Count:     count,
		Timestamp: time.Now().UTC(),
	})
}
