package reset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarker struct {
	day    string
	getErr error
	setErr error
}

func (m *fakeMarker) LastResetDay(_ context.Context) (string, error) {
	return m.day, m.getErr
}

func (m *fakeMarker) SetLastResetDay(_ context.Context, day string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.day = day
	return nil
}

type fakeResetter struct {
	calls int
	count int
	err   error
}

func (r *fakeResetter) ResetAll(_ context.Context) (int, error) {
	r.calls++
	return r.count, r.err
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestRunIfNewDayRunsOncePerDay(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2026, 8, 10, 6, 0, 0, 0, time.UTC))

	marker := &fakeMarker{day: "2026-08-09"}
	resetter := &fakeResetter{count: 4}
	runner := NewRunner(marker, resetter, mock, testLogger())

	ran, err := runner.RunIfNewDay(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 1, resetter.calls)
	assert.Equal(t, "2026-08-10", marker.day)

	// same day again is a no-op, even hours later
	mock.Add(10 * time.Hour)
	ran, err = runner.RunIfNewDay(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, 1, resetter.calls)

	// next day runs again
	mock.Add(10 * time.Hour)
	ran, err = runner.RunIfNewDay(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 2, resetter.calls)
	assert.Equal(t, "2026-08-11", marker.day)
}

func TestRunIfNewDayFirstEverRun(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2026, 8, 10, 6, 0, 0, 0, time.UTC))

	marker := &fakeMarker{}
	resetter := &fakeResetter{}
	runner := NewRunner(marker, resetter, mock, testLogger())

	ran, err := runner.RunIfNewDay(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, "2026-08-10", marker.day)
}

func TestRunIfNewDayResetFailureLeavesMarker(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2026, 8, 10, 6, 0, 0, 0, time.UTC))

	marker := &fakeMarker{day: "2026-08-09"}
	resetter := &fakeResetter{err: errors.New("gateway down")}
	runner := NewRunner(marker, resetter, mock, testLogger())

	ran, err := runner.RunIfNewDay(context.Background())
	require.Error(t, err)
	assert.False(t, ran)
	// marker untouched so the next check retries
	assert.Equal(t, "2026-08-09", marker.day)

	resetter.err = nil
	ran, err = runner.RunIfNewDay(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, "2026-08-10", marker.day)
}

func TestRunIfNewDayMarkerReadFailure(t *testing.T) {
	mock := clock.NewMock()
	marker := &fakeMarker{getErr: errors.New("redis down")}
	resetter := &fakeResetter{}
	runner := NewRunner(marker, resetter, mock, testLogger())

	_, err := runner.RunIfNewDay(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, resetter.calls)
}
