package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

func newRedisCenterForTest(t *testing.T, granted bool) (*RedisCenter, *miniredis.Miniredis) {
	t.Helper()

	r := miniredis.RunT(t)
	center, err := NewRedisCenter(context.Background(), fmt.Sprintf("redis://%s", r.Addr()), granted)
	require.NoError(t, err)
	t.Cleanup(func() { _ = center.Close() })
	return center, r
}

// Both centers must behave the same; each case runs against both.
func centersForTest(t *testing.T, granted bool) map[string]Queue {
	t.Helper()

	redisCenter, _ := newRedisCenterForTest(t, granted)
	return map[string]Queue{
		"memory": NewMemoryCenter(granted),
		"redis":  redisCenter,
	}
}

func TestCenterScheduleReplacesSameIdentifier(t *testing.T) {
	for name, center := range centersForTest(t, true) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, center.Schedule(ctx, Notification{Identifier: "a", Title: "first", TriggerAt: baseTime.Add(time.Hour)}))
			require.NoError(t, center.Schedule(ctx, Notification{Identifier: "a", Title: "second", TriggerAt: baseTime.Add(2 * time.Hour)}))

			pending, err := center.ListPending(ctx)
			require.NoError(t, err)
			require.Len(t, pending, 1)
			assert.Equal(t, "second", pending[0].Title)
			assert.True(t, pending[0].TriggerAt.Equal(baseTime.Add(2*time.Hour)))
		})
	}
}

func TestCenterCancelIgnoresUnknownIdentifiers(t *testing.T) {
	for name, center := range centersForTest(t, true) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, center.Schedule(ctx, Notification{Identifier: "keep", Title: "k", TriggerAt: baseTime.Add(time.Hour)}))
			require.NoError(t, center.Schedule(ctx, Notification{Identifier: "drop", Title: "d", TriggerAt: baseTime.Add(time.Hour)}))

			require.NoError(t, center.Cancel(ctx, "drop", "missing"))
			require.NoError(t, center.Cancel(ctx))

			pending, err := center.ListPending(ctx)
			require.NoError(t, err)
			require.Len(t, pending, 1)
			assert.Equal(t, "keep", pending[0].Identifier)
		})
	}
}

func TestCenterListPendingOrdersByTrigger(t *testing.T) {
	for name, center := range centersForTest(t, true) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, center.Schedule(ctx, Notification{Identifier: "late", TriggerAt: baseTime.Add(3 * time.Hour)}))
			require.NoError(t, center.Schedule(ctx, Notification{Identifier: "early", TriggerAt: baseTime.Add(time.Hour)}))
			require.NoError(t, center.Schedule(ctx, Notification{Identifier: "foreign-1", TriggerAt: baseTime.Add(2 * time.Hour)}))

			pending, err := center.ListPending(ctx)
			require.NoError(t, err)
			ids := make([]string, 0, len(pending))
			for _, notification := range pending {
				ids = append(ids, notification.Identifier)
			}
			assert.Equal(t, []string{"early", "foreign-1", "late"}, ids)
		})
	}
}

func TestCenterPopDueRemovesOnlyDueEntries(t *testing.T) {
	for name, center := range centersForTest(t, true) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, center.Schedule(ctx, Notification{Identifier: "past", TriggerAt: baseTime.Add(-time.Minute)}))
			require.NoError(t, center.Schedule(ctx, Notification{Identifier: "now", TriggerAt: baseTime}))
			require.NoError(t, center.Schedule(ctx, Notification{Identifier: "future", TriggerAt: baseTime.Add(time.Minute)}))

			due, err := center.PopDue(ctx, baseTime)
			require.NoError(t, err)
			require.Len(t, due, 2)
			assert.Equal(t, "past", due[0].Identifier)
			assert.Equal(t, "now", due[1].Identifier)

			again, err := center.PopDue(ctx, baseTime)
			require.NoError(t, err)
			assert.Empty(t, again)

			pending, err := center.ListPending(ctx)
			require.NoError(t, err)
			require.Len(t, pending, 1)
			assert.Equal(t, "future", pending[0].Identifier)
		})
	}
}

func TestCenterRejectsIncompleteNotification(t *testing.T) {
	for name, center := range centersForTest(t, true) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			assert.ErrorIs(t, center.Schedule(ctx, Notification{Identifier: " ", TriggerAt: baseTime}), ErrInvalidNotification)
			assert.ErrorIs(t, center.Schedule(ctx, Notification{Identifier: "x"}), ErrInvalidNotification)
		})
	}
}

func TestCenterAuthorizationFollowsConfiguration(t *testing.T) {
	for _, granted := range []bool{true, false} {
		for name, center := range centersForTest(t, granted) {
			t.Run(fmt.Sprintf("%s/%t", name, granted), func(t *testing.T) {
				ok, err := center.RequestAuthorization(context.Background())
				require.NoError(t, err)
				assert.Equal(t, granted, ok)
			})
		}
	}
}

func TestNewRedisCenterRejectsBadURL(t *testing.T) {
	_, err := NewRedisCenter(context.Background(), "not a url", true)
	assert.Error(t, err)
}

func TestNewRedisCenterFailsWhenServerIsDown(t *testing.T) {
	r := miniredis.RunT(t)
	addr := fmt.Sprintf("redis://%s", r.Addr())
	r.Close()

	_, err := NewRedisCenter(context.Background(), addr, true)
	assert.Error(t, err)
}

func TestRedisCenterStoresTriggerAsScore(t *testing.T) {
	center, r := newRedisCenterForTest(t, true)
	trigger := baseTime.Add(90 * time.Minute)
	require.NoError(t, center.Schedule(context.Background(), Notification{Identifier: "a", TriggerAt: trigger}))

	score, err := r.ZScore(defaultRedisPrefix+":due", "a")
	require.NoError(t, err)
	assert.Equal(t, float64(trigger.UnixMilli()), score)
	assert.True(t, r.Exists(defaultRedisPrefix))
}
