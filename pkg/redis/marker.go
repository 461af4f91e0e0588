package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const lastResetKey = "clover:last_reset_date"

// ResetMarker stores the day of the last automatic reset. The marker has no
// expiration; only a newer day overwrites it.
type ResetMarker struct {
	client *Client
}

func NewResetMarker(client *Client) *ResetMarker {
	return &ResetMarker{client: client}
}

// LastResetDay returns the stored day, or "" when no reset has run yet.
func (m *ResetMarker) LastResetDay(ctx context.Context) (string, error) {
	val, err := m.client.Get(ctx, lastResetKey)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read reset marker: %w", err)
	}
	return val, nil
}

// SetLastResetDay stores the day of the reset that just ran.
func (m *ResetMarker) SetLastResetDay(ctx context.Context, day string) error {
	if err := m.client.Set(ctx, lastResetKey, day, 0); err != nil {
		return fmt.Errorf("failed to write reset marker: %w", err)
	}
	return nil
}
