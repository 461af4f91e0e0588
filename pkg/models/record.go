package models

import "time"

// Coordinates is a GPS fix captured by the collector's device. Absent when
// location capture failed or was denied; the collection still counts.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CollectionRecord is the immutable proof-of-action entry appended every time
// a collector marks a household done. Records are never updated or deleted,
// not even by the daily reset.
type CollectionRecord struct {
	ID          string       `json:"id" db:"id"`
	HouseholdID string       `json:"household_id" db:"household_id"`
	CollectorID string       `json:"collector_id" db:"collector_id"`
	Timestamp   time.Time    `json:"timestamp" db:"timestamp"`
	Location    *Coordinates `json:"location"`
}

// NewCollectionRecord carries the fields of a record before the gateway has
// assigned it an id.
type NewCollectionRecord struct {
	HouseholdID string       `json:"household_id"`
	CollectorID string       `json:"collector_id"`
	Timestamp   time.Time    `json:"timestamp"`
	Location    *Coordinates `json:"location"`
}

// CollectRequest is the request body for marking a household collected.
type CollectRequest struct {
	CollectorID string       `json:"collector_id" validate:"required"`
	Location    *Coordinates `json:"location"`
}
