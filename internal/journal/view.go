package journal

import (
	"context"
	"iter"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/pitchlog/internal/services"
)

// View is a materialized read model. It loads once on creation and then
// reloads only when a relevant change event arrives; it never polls and never
// writes. Snapshot may lag the store; WaitForSeq blocks until a given commit
// is reflected.
type View[T any] struct {
	name  string
	load  func(ctx context.Context) (T, error)
	kinds map[EntityKind]struct{}
	log   logrus.FieldLogger
	sub   *Subscription

	mu       sync.RWMutex
	snapshot T
	seq      int64
	stale    bool
	err      error
	closed   bool
	changed  chan struct{}
	stopOnce sync.Once
	stop     chan struct{}
}

// NewView builds a view over load. It reloads on events whose kind is in
// kinds, or on every event when kinds is empty. ctx bounds the view's life.
func NewView[T any](ctx context.Context, synchronizer *Synchronizer, name string, load func(ctx context.Context) (T, error), kinds ...EntityKind) (*View[T], error) {
	// Subscribe before reading the clock so no commit falls between the two.
	sub := synchronizer.Subscribe()
	seq := synchronizer.CurrentSeq()
	snapshot, err := load(ctx)
	if err != nil {
		sub.Close()
		return nil, err
	}

	view := &View[T]{
		name:     name,
		load:     load,
		kinds:    make(map[EntityKind]struct{}, len(kinds)),
		log:      synchronizer.log.WithField("view", name),
		sub:      sub,
		snapshot: snapshot,
		seq:      seq,
		changed:  make(chan struct{}),
		stop:     make(chan struct{}),
	}
	for _, kind := range kinds {
		view.kinds[kind] = struct{}{}
	}

	go view.run(ctx)
	return view, nil
}

// NewListView wraps a lazy fetch in a view holding the collected slice.
func NewListView[T any](ctx context.Context, synchronizer *Synchronizer, name string, fetch func(ctx context.Context) iter.Seq2[T, error], kinds ...EntityKind) (*View[[]T], error) {
	return NewView(ctx, synchronizer, name, func(ctx context.Context) ([]T, error) {
		return services.Collect(fetch(ctx))
	}, kinds...)
}

// Snapshot returns the current data and the last commit seq it reflects.
func (view *View[T]) Snapshot() (T, int64) {
	view.mu.RLock()
	defer view.mu.RUnlock()
	return view.snapshot, view.seq
}

func (view *View[T]) Seq() int64 {
	view.mu.RLock()
	defer view.mu.RUnlock()
	return view.seq
}

// Err reports the last reload failure, cleared by the next good reload.
func (view *View[T]) Err() error {
	view.mu.RLock()
	defer view.mu.RUnlock()
	return view.err
}

// WaitForSeq blocks until the view reflects commit seq and returns that
// snapshot.
func (view *View[T]) WaitForSeq(ctx context.Context, seq int64) (T, error) {
	for {
		view.mu.RLock()
		if view.seq >= seq {
			snapshot := view.snapshot
			view.mu.RUnlock()
			return snapshot, nil
		}
		changed := view.changed
		closed := view.closed
		view.mu.RUnlock()

		if closed {
			var zero T
			return zero, ErrStopped
		}
		select {
		case <-changed:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

func (view *View[T]) Close() {
	view.stopOnce.Do(func() {
		close(view.stop)
	})
}

func (view *View[T]) run(ctx context.Context) {
	defer view.shutdown()

	events := view.sub.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case <-view.stop:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			latest, relevant := event.Seq, view.relevant(event)
			open := true
		drain:
			for {
				select {
				case more, ok := <-events:
					if !ok {
						open = false
						break drain
					}
					latest = max(latest, more.Seq)
					relevant = relevant || view.relevant(more)
				default:
					break drain
				}
			}
			view.refresh(ctx, latest, relevant)
			if !open {
				return
			}
		}
	}
}

func (view *View[T]) relevant(event ChangeEvent) bool {
	if len(view.kinds) == 0 {
		return true
	}
	_, ok := view.kinds[event.Kind]
	return ok
}

func (view *View[T]) refresh(ctx context.Context, latest int64, relevant bool) {
	view.mu.RLock()
	current, stale := view.seq, view.stale
	view.mu.RUnlock()
	if latest <= current {
		return
	}

	if !relevant && !stale {
		view.publish(func() { view.seq = latest })
		return
	}

	snapshot, err := view.load(ctx)
	if err != nil {
		view.log.WithError(err).WithField("seq", latest).Warn("view reload failed")
		view.mu.Lock()
		view.stale = true
		view.err = err
		view.mu.Unlock()
		return
	}
	view.publish(func() {
		view.snapshot = snapshot
		view.seq = latest
		view.stale = false
		view.err = nil
	})
}

func (view *View[T]) publish(update func()) {
	view.mu.Lock()
	defer view.mu.Unlock()

	update()
	close(view.changed)
	view.changed = make(chan struct{})
}

func (view *View[T]) shutdown() {
	view.sub.Close()
	view.publish(func() { view.closed = true })
}
