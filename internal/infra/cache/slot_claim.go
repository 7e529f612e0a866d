package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
)

const slotClaimPrefix = "slot:claim:"

// releaseScript deletes the claim only if it still holds our token, so a
// request whose claim expired cannot free someone else's.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// SlotClaims serialises booking attempts for the same (doctor, date, time)
// across replicas. A claim is short lived; the booking store still decides
// conflicts.
type SlotClaims struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSlotClaims(client *redis.Client, ttl time.Duration) *SlotClaims {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SlotClaims{client: client, ttl: ttl}
}

func slotKey(doctorID uint, date schedule.Date, label schedule.SlotLabel) string {
	return fmt.Sprintf("%s%d:%s:%s", slotClaimPrefix, doctorID, date, label)
}

// Claim returns a token for Release. A slot already claimed yields
// appointment.ErrSlotTaken.
func (c *SlotClaims) Claim(
	ctx context.Context,
	doctorID uint,
	date schedule.Date,
	label schedule.SlotLabel,
) (string, error) {
	token := uuid.NewString()

	ok, err := c.client.SetNX(ctx, slotKey(doctorID, date, label), token, c.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("claim slot: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("%w: another booking is in progress", appointment.ErrSlotTaken)
	}
	return token, nil
}

func (c *SlotClaims) Release(
	ctx context.Context,
	doctorID uint,
	date schedule.Date,
	label schedule.SlotLabel,
	token string,
) error {
	if token == "" {
		return nil
	}
	err := releaseScript.Run(ctx, c.client, []string{slotKey(doctorID, date, label)}, token).Err()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("release slot: %w", err)
	}
	return nil
}
