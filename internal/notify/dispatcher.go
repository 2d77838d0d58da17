package notify

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultDispatchInterval = 30 * time.Second

// Deliverer shows a due notification to the user.
type Deliverer interface {
	Deliver(ctx context.Context, notification Notification) error
}

// Dispatcher drains due notifications from a source and hands them to a
// Deliverer. A popped entry counts as fired even when delivery fails; the
// failure is logged and counted.
type Dispatcher struct {
	source    DueSource
	deliverer Deliverer
	interval  time.Duration
	log       logrus.FieldLogger
	now       func() time.Time
	onFired   []func(Notification)
	done      chan struct{}
}

type DispatcherOption func(*Dispatcher)

func WithInterval(interval time.Duration) DispatcherOption {
	return func(dispatcher *Dispatcher) {
		if interval > 0 {
			dispatcher.interval = interval
		}
	}
}

func WithDispatchLogger(log logrus.FieldLogger) DispatcherOption {
	return func(dispatcher *Dispatcher) {
		if log != nil {
			dispatcher.log = log
		}
	}
}

func WithDispatchClock(now func() time.Time) DispatcherOption {
	return func(dispatcher *Dispatcher) {
		if now != nil {
			dispatcher.now = now
		}
	}
}

// OnFired registers a callback run after each popped notification.
func OnFired(hook func(Notification)) DispatcherOption {
	return func(dispatcher *Dispatcher) {
		if hook != nil {
			dispatcher.onFired = append(dispatcher.onFired, hook)
		}
	}
}

func NewDispatcher(source DueSource, deliverer Deliverer, opts ...DispatcherOption) *Dispatcher {
	dispatcher := &Dispatcher{
		source:    source,
		deliverer: deliverer,
		interval:  defaultDispatchInterval,
		log:       logrus.StandardLogger(),
		now:       time.Now,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(dispatcher)
	}
	dispatcher.log = dispatcher.log.WithField("component", "dispatcher")
	return dispatcher
}

// Start runs a pass immediately and then one per interval until ctx ends.
func (dispatcher *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(dispatcher.interval)
	go func() {
		defer func() {
			ticker.Stop()
			close(dispatcher.done)
		}()

		dispatcher.run(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				dispatcher.run(ctx)
			}
		}
	}()
}

// Wait blocks until a started dispatcher has stopped.
func (dispatcher *Dispatcher) Wait() {
	<-dispatcher.done
}

func (dispatcher *Dispatcher) run(ctx context.Context) {
	if _, err := dispatcher.DispatchDue(ctx); err != nil && !errors.Is(err, context.Canceled) {
		dispatcher.log.WithError(err).Warn("dispatch pass failed")
	}
}

// DispatchDue delivers everything due now and returns how many entries fired.
func (dispatcher *Dispatcher) DispatchDue(ctx context.Context) (int, error) {
	due, err := dispatcher.source.PopDue(ctx, dispatcher.now())
	if err != nil {
		return 0, err
	}

	for _, notification := range due {
		entry := dispatcher.log.WithField("identifier", notification.Identifier)
		if err := dispatcher.deliverer.Deliver(ctx, notification); err != nil {
			deliveryFailures.Inc()
			entry.WithError(err).Error("notification delivery failed")
		} else {
			deliveredTotal.Inc()
			entry.Debug("notification delivered")
		}
		for _, hook := range dispatcher.onFired {
			hook(notification)
		}
	}
	return len(due), nil
}
