// Package calendar projects collection records and pending-date annotations
// onto per-day history views. Everything here is a pure function over
// snapshots; nothing reads live state or touches persistence.
package calendar

import (
	"time"

	"github.com/Ramsey-B/clover/pkg/models"
)

// DayState classifies one calendar day for one household.
type DayState string

const (
	// DayCollected means at least one collection record fell on the day.
	DayCollected DayState = "collected"
	// DayPendingMarked means no record exists but an admin marked the day
	// deliberately skipped.
	DayPendingMarked DayState = "pending"
	// DayUntouched means the day has neither records nor pending marks.
	DayUntouched DayState = "untouched"
)

// Day is one calendar day in a household's history.
type Day struct {
	Date    string                    `json:"date"`
	State   DayState                  `json:"state"`
	Records []models.CollectionRecord `json:"records,omitempty"`
	Pending []models.PendingDate      `json:"pending,omitempty"`
}

// MonthView is a full month of days for one household, days 1..N in order.
type MonthView struct {
	HouseholdID string `json:"household_id"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Days        []Day  `json:"days"`
}

// RecordsByDay buckets a household's records by the calendar day of their
// timestamp in the given zone, preserving each bucket's insertion order.
func RecordsByDay(records []models.CollectionRecord, householdID string, loc *time.Location) map[string][]models.CollectionRecord {
	out := map[string][]models.CollectionRecord{}
	for _, rec := range records {
		if rec.HouseholdID != householdID {
			continue
		}
		day := rec.Timestamp.In(loc).Format(models.DayFormat)
		out[day] = append(out[day], rec)
	}
	return out
}

// PendingByDay buckets a household's pending dates by their stored day string.
// The string is taken as-is; it is never reinterpreted through a time zone.
func PendingByDay(pendingDates []models.PendingDate, householdID string) map[string][]models.PendingDate {
	out := map[string][]models.PendingDate{}
	for _, p := range pendingDates {
		if p.HouseholdID != householdID {
			continue
		}
		out[p.Date] = append(out[p.Date], p)
	}
	return out
}

// Classify resolves one day's state. A collection record always wins over a
// pending mark on the same day.
func Classify(day string, records map[string][]models.CollectionRecord, pending map[string][]models.PendingDate) DayState {
	if len(records[day]) > 0 {
		return DayCollected
	}
	if len(pending[day]) > 0 {
		return DayPendingMarked
	}
	return DayUntouched
}

// Month builds the per-day history of one household for a month. Records are
// bucketed in the given zone; pending marks keep their stored day.
func Month(records []models.CollectionRecord, pendingDates []models.PendingDate, householdID string, year int, month time.Month, loc *time.Location) MonthView {
	recsByDay := RecordsByDay(records, householdID, loc)
	pendingByDay := PendingByDay(pendingDates, householdID)

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	view := MonthView{
		HouseholdID: householdID,
		Year:        year,
		Month:       int(month),
		Days:        make([]Day, 0, daysInMonth),
	}

	for d := 1; d <= daysInMonth; d++ {
		day := time.Date(year, month, d, 0, 0, 0, 0, loc).Format(models.DayFormat)
		view.Days = append(view.Days, Day{
			Date:    day,
			State:   Classify(day, recsByDay, pendingByDay),
			Records: recsByDay[day],
			Pending: pendingByDay[day],
		})
	}

	return view
}
