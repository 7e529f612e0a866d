package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const reminderSentPrefix = "reminder:sent:"

// ReminderLedger remembers which appointments already got a reminder.
type ReminderLedger struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReminderLedger(client *redis.Client, ttl time.Duration) *ReminderLedger {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &ReminderLedger{client: client, ttl: ttl}
}

// Reserve marks the appointment as reminded. It returns false when another
// run already reserved it.
func (l *ReminderLedger) Reserve(ctx context.Context, appointmentID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, reminderSentPrefix+appointmentID, time.Now().Unix(), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserve reminder: %w", err)
	}
	return ok, nil
}

// Forget drops a reservation whose delivery failed, so the next run retries.
func (l *ReminderLedger) Forget(ctx context.Context, appointmentID string) error {
	if err := l.client.Del(ctx, reminderSentPrefix+appointmentID).Err(); err != nil {
		return fmt.Errorf("forget reminder: %w", err)
	}
	return nil
}
