package notify

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDeliverer struct {
	mu        sync.Mutex
	delivered []string
	fail      map[string]bool
}

func (deliverer *recordingDeliverer) Deliver(_ context.Context, notification Notification) error {
	deliverer.mu.Lock()
	defer deliverer.mu.Unlock()
	if deliverer.fail[notification.Identifier] {
		return errors.New("transport down")
	}
	deliverer.delivered = append(deliverer.delivered, notification.Identifier)
	return nil
}

func (deliverer *recordingDeliverer) identifiers() []string {
	deliverer.mu.Lock()
	defer deliverer.mu.Unlock()
	return append([]string(nil), deliverer.delivered...)
}

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestDispatchDueDeliversAndFires(t *testing.T) {
	ctx := context.Background()
	center := NewMemoryCenter(true)
	require.NoError(t, center.Schedule(ctx, Notification{Identifier: "due", Title: "Match", TriggerAt: baseTime.Add(-time.Second)}))
	require.NoError(t, center.Schedule(ctx, Notification{Identifier: "later", Title: "Practice", TriggerAt: baseTime.Add(time.Hour)}))

	deliverer := &recordingDeliverer{}
	fired := make([]string, 0)
	dispatcher := NewDispatcher(center, deliverer,
		WithDispatchClock(func() time.Time { return baseTime }),
		WithDispatchLogger(quietLogger()),
		OnFired(func(notification Notification) { fired = append(fired, notification.Identifier) }),
	)

	count, err := dispatcher.DispatchDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"due"}, deliverer.identifiers())
	assert.Equal(t, []string{"due"}, fired)

	pending, err := center.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "later", pending[0].Identifier)
}

func TestDispatchDueFiresEvenWhenDeliveryFails(t *testing.T) {
	ctx := context.Background()
	center := NewMemoryCenter(true)
	require.NoError(t, center.Schedule(ctx, Notification{Identifier: "broken", TriggerAt: baseTime}))
	require.NoError(t, center.Schedule(ctx, Notification{Identifier: "fine", TriggerAt: baseTime}))

	deliverer := &recordingDeliverer{fail: map[string]bool{"broken": true}}
	fired := 0
	dispatcher := NewDispatcher(center, deliverer,
		WithDispatchClock(func() time.Time { return baseTime }),
		WithDispatchLogger(quietLogger()),
		OnFired(func(Notification) { fired++ }),
	)

	count, err := dispatcher.DispatchDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, fired)
	assert.Equal(t, []string{"fine"}, deliverer.identifiers())

	pending, err := center.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDispatcherStartRunsUntilContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	center := NewMemoryCenter(true)
	require.NoError(t, center.Schedule(ctx, Notification{Identifier: "due", TriggerAt: baseTime}))

	deliverer := &recordingDeliverer{}
	dispatcher := NewDispatcher(center, deliverer,
		WithInterval(10*time.Millisecond),
		WithDispatchClock(func() time.Time { return baseTime }),
		WithDispatchLogger(quietLogger()),
	)
	dispatcher.Start(ctx)

	require.Eventually(t, func() bool {
		return len(deliverer.identifiers()) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
}
