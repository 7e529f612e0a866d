package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

var day = schedule.Date{Year: 2026, Month: time.March, Day: 10}

func TestSlotClaims_SecondClaimIsTaken(t *testing.T) {
	_, client := newRedis(t)
	claims := NewSlotClaims(client, time.Minute)
	ctx := context.Background()

	token, err := claims.Claim(ctx, 10, day, "10:00")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = claims.Claim(ctx, 10, day, "10:00")
	assert.ErrorIs(t, err, appointment.ErrSlotTaken)

	_, err = claims.Claim(ctx, 10, day, "10:15")
	assert.NoError(t, err, "other slot is independent")

	_, err = claims.Claim(ctx, 6, day, "10:00")
	assert.NoError(t, err, "other doctor is independent")
}

func TestSlotClaims_ReleaseOnlyWithOwnToken(t *testing.T) {
	mr, client := newRedis(t)
	claims := NewSlotClaims(client, time.Minute)
	ctx := context.Background()

	token, err := claims.Claim(ctx, 10, day, "10:00")
	require.NoError(t, err)

	require.NoError(t, claims.Release(ctx, 10, day, "10:00", "someone-else"))
	assert.True(t, mr.Exists(slotKey(10, day, "10:00")))

	require.NoError(t, claims.Release(ctx, 10, day, "10:00", token))
	assert.False(t, mr.Exists(slotKey(10, day, "10:00")))

	_, err = claims.Claim(ctx, 10, day, "10:00")
	assert.NoError(t, err)
}

func TestSlotClaims_Expires(t *testing.T) {
	mr, client := newRedis(t)
	claims := NewSlotClaims(client, 5*time.Second)
	ctx := context.Background()

	_, err := claims.Claim(ctx, 10, day, "10:00")
	require.NoError(t, err)

	mr.FastForward(6 * time.Second)

	_, err = claims.Claim(ctx, 10, day, "10:00")
	assert.NoError(t, err)
}

func TestSlotClaims_RedisDown(t *testing.T) {
	mr, client := newRedis(t)
	claims := NewSlotClaims(client, time.Minute)
	mr.Close()

	_, err := claims.Claim(context.Background(), 10, day, "10:00")
	require.Error(t, err)
	assert.NotErrorIs(t, err, appointment.ErrSlotTaken)
}

func TestReminderLedger(t *testing.T) {
	_, client := newRedis(t)
	ledger := NewReminderLedger(client, time.Hour)
	ctx := context.Background()

	ok, err := ledger.Reserve(ctx, "42")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.Reserve(ctx, "42")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ledger.Forget(ctx, "42"))

	ok, err = ledger.Reserve(ctx, "42")
	require.NoError(t, err)
	assert.True(t, ok)
}
