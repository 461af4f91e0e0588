package models

import "time"

// DayFormat is the calendar-day key format used for pending dates, calendar
// buckets and the daily reset marker.
const DayFormat = "2006-01-02"

// PendingDate is an administrator's annotation that collection was
// deliberately skipped for a household on a specific day. It is distinct from
// the household's live status. Multiple entries may exist for the same
// (household, day); the data layer never deduplicates them.
type PendingDate struct {
	ID          string    `json:"id" db:"id"`
	HouseholdID string    `json:"household_id" db:"household_id"`
	Date        string    `json:"date" db:"date"`
	Reason      string    `json:"reason,omitempty" db:"reason"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CreatePendingDateRequest is the request body for marking a day as pending.
type CreatePendingDateRequest struct {
	HouseholdID string `json:"household_id" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Reason      string `json:"reason"`
}
