package calendar

import (
	"testing"
	"time"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/stretchr/testify/assert"
)

func rec(id, householdID string, ts time.Time) models.CollectionRecord {
	return models.CollectionRecord{
		ID:          id,
		HouseholdID: householdID,
		CollectorID: "collector-1",
		Timestamp:   ts,
	}
}

func pending(id, householdID, date string) models.PendingDate {
	return models.PendingDate{
		ID:          id,
		HouseholdID: householdID,
		Date:        date,
	}
}

func TestClassifyPrecedence(t *testing.T) {
	records := map[string][]models.CollectionRecord{
		"2026-08-09": {rec("r1", "h1", time.Date(2026, 8, 9, 9, 0, 0, 0, time.UTC))},
		"2026-08-10": {rec("r2", "h1", time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC))},
	}
	pendingDates := map[string][]models.PendingDate{
		"2026-08-10": {pending("p1", "h1", "2026-08-10")},
		"2026-08-11": {pending("p2", "h1", "2026-08-11")},
	}

	assert.Equal(t, DayCollected, Classify("2026-08-09", records, pendingDates))
	// a record beats a pending mark on the same day
	assert.Equal(t, DayCollected, Classify("2026-08-10", records, pendingDates))
	assert.Equal(t, DayPendingMarked, Classify("2026-08-11", records, pendingDates))
	assert.Equal(t, DayUntouched, Classify("2026-08-12", records, pendingDates))
}

func TestRecordsByDayFiltersHousehold(t *testing.T) {
	records := []models.CollectionRecord{
		rec("r1", "h1", time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)),
		rec("r2", "h2", time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)),
		rec("r3", "h1", time.Date(2026, 8, 10, 17, 0, 0, 0, time.UTC)),
	}

	byDay := RecordsByDay(records, "h1", time.UTC)

	assert.Len(t, byDay, 1)
	assert.Len(t, byDay["2026-08-10"], 2)
	assert.Equal(t, "r1", byDay["2026-08-10"][0].ID)
	assert.Equal(t, "r3", byDay["2026-08-10"][1].ID)
}

func TestRecordsByDayUsesZone(t *testing.T) {
	// 2026-08-10 23:30 UTC is already 2026-08-11 in UTC+5:30
	ist := time.FixedZone("IST", 5*3600+1800)
	records := []models.CollectionRecord{
		rec("r1", "h1", time.Date(2026, 8, 10, 23, 30, 0, 0, time.UTC)),
	}

	utcDays := RecordsByDay(records, "h1", time.UTC)
	istDays := RecordsByDay(records, "h1", ist)

	assert.Len(t, utcDays["2026-08-10"], 1)
	assert.Len(t, istDays["2026-08-11"], 1)
}

func TestPendingByDayKeepsLiteralDay(t *testing.T) {
	pendingDates := []models.PendingDate{
		pending("p1", "h1", "2026-08-10"),
		pending("p2", "h1", "2026-08-10"),
		pending("p3", "h2", "2026-08-10"),
	}

	byDay := PendingByDay(pendingDates, "h1")

	// duplicates for the same day both survive
	assert.Len(t, byDay["2026-08-10"], 2)
}

func TestMonthCoversEveryDay(t *testing.T) {
	records := []models.CollectionRecord{
		rec("r1", "h1", time.Date(2026, 2, 3, 8, 0, 0, 0, time.UTC)),
	}
	pendingDates := []models.PendingDate{
		pending("p1", "h1", "2026-02-14"),
	}

	view := Month(records, pendingDates, "h1", 2026, time.February, time.UTC)

	assert.Equal(t, 28, len(view.Days))
	assert.Equal(t, "2026-02-01", view.Days[0].Date)
	assert.Equal(t, "2026-02-28", view.Days[27].Date)
	assert.Equal(t, DayCollected, view.Days[2].State)
	assert.Equal(t, DayPendingMarked, view.Days[13].State)
	assert.Equal(t, DayUntouched, view.Days[0].State)
}

func TestMonthLeapFebruary(t *testing.T) {
	view := Month(nil, nil, "h1", 2028, time.February, time.UTC)
	assert.Equal(t, 29, len(view.Days))
}
