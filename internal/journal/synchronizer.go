package journal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/pitchlog/internal/db"
	"github.com/terraincognita07/pitchlog/internal/services"
	"gorm.io/gorm"
)

var ErrStopped = errors.New("journal writer stopped")

const defaultHistorySize = 256

// Transactor runs fn against an EntityStore bound to one database
// transaction. A non-nil error from fn rolls the transaction back.
type Transactor func(ctx context.Context, fn func(store *services.EntityStore) error) error

func GormTransactor(database *gorm.DB, opts ...services.EntityStoreOption) Transactor {
	return func(ctx context.Context, fn func(store *services.EntityStore) error) error {
		return database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repos := services.EntityRepositoriesFrom(db.NewRepositories(tx))
			return fn(services.NewEntityStore(repos, opts...))
		})
	}
}

type submission struct {
	mutation Mutation
	result   chan submitResult
}

type submitResult struct {
	commit Commit
	err    error
}

// Synchronizer is the journal's only write path. Mutations queue in
// submission order and a single writer goroutine (Run) commits them one at a
// time. Each successful commit gets the next sequence number and exactly one
// ChangeEvent on the bus; a failed one publishes nothing.
//
// Concurrent writers are not fenced: two updates of the same record both
// commit and the later one wins field by field.
type Synchronizer struct {
	transact Transactor
	queue    *mutationQueue
	clock    *Clock
	bus      *Bus
	log      logrus.FieldLogger
	now      func() time.Time

	historyMu   sync.Mutex
	history     []ChangeEvent
	historySize int
}

type Option func(*Synchronizer)

func WithLogger(log logrus.FieldLogger) Option {
	return func(synchronizer *Synchronizer) {
		if log != nil {
			synchronizer.log = log
		}
	}
}

func WithSeqClock(clock *Clock) Option {
	return func(synchronizer *Synchronizer) {
		if clock != nil {
			synchronizer.clock = clock
		}
	}
}

// WithHistorySize bounds how many recent events ChangesSince can replay.
func WithHistorySize(size int) Option {
	return func(synchronizer *Synchronizer) {
		if size > 0 {
			synchronizer.historySize = size
		}
	}
}

func New(transact Transactor, opts ...Option) *Synchronizer {
	synchronizer := &Synchronizer{
		transact:    transact,
		queue:       newMutationQueue(),
		clock:       NewClock(),
		bus:         NewBus(),
		log:         logrus.StandardLogger(),
		now:         time.Now,
		historySize: defaultHistorySize,
	}
	for _, opt := range opts {
		opt(synchronizer)
	}
	synchronizer.log = synchronizer.log.WithField("component", "journal")
	return synchronizer
}

// Submit queues the mutation and waits for it to commit or fail. If ctx ends
// first the mutation still runs; only the wait is abandoned.
func (synchronizer *Synchronizer) Submit(ctx context.Context, mutation Mutation) (Commit, error) {
	result := make(chan submitResult, 1)
	if !synchronizer.queue.Enqueue(submission{mutation: mutation, result: result}) {
		return Commit{}, ErrStopped
	}
	queueDepthGauge.Set(float64(synchronizer.queue.Len()))

	select {
	case outcome := <-result:
		return outcome.commit, outcome.err
	case <-ctx.Done():
		return Commit{}, ctx.Err()
	}
}

// Enqueue queues the mutation without waiting. Failures are logged by the
// writer.
func (synchronizer *Synchronizer) Enqueue(mutation Mutation) error {
	if !synchronizer.queue.Enqueue(submission{mutation: mutation}) {
		return ErrStopped
	}
	queueDepthGauge.Set(float64(synchronizer.queue.Len()))
	return nil
}

// Subscribe returns a subscription to every future commit event.
func (synchronizer *Synchronizer) Subscribe() *Subscription {
	return synchronizer.bus.Subscribe()
}

func (synchronizer *Synchronizer) CurrentSeq() int64 {
	return synchronizer.clock.Current()
}

// Run is the writer loop. It must run in exactly one goroutine and returns
// when ctx ends or after Stop once the queue has drained.
func (synchronizer *Synchronizer) Run(ctx context.Context) error {
	synchronizer.log.Info("journal writer starting")
	defer synchronizer.bus.Close()

	for {
		item, ok := synchronizer.queue.TryDequeue()
		if ok {
			synchronizer.process(ctx, item)
			continue
		}

		select {
		case <-ctx.Done():
			synchronizer.log.Info("journal writer stopping: context cancelled")
			synchronizer.queue.Close()
			synchronizer.rejectPending()
			return ctx.Err()
		case <-synchronizer.queue.Wait():
			if synchronizer.queue.isClosed() && synchronizer.queue.Len() == 0 {
				synchronizer.log.Info("journal writer stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop refuses new mutations. Run commits what is already queued, then
// returns.
func (synchronizer *Synchronizer) Stop() {
	synchronizer.queue.Close()
}

func (synchronizer *Synchronizer) process(ctx context.Context, item submission) {
	mutation := item.mutation
	queueDepthGauge.Set(float64(synchronizer.queue.Len()))

	started := time.Now()
	var ids []string
	err := synchronizer.transact(ctx, func(store *services.EntityStore) error {
		var applyErr error
		ids, applyErr = mutation.apply(ctx, store)
		return applyErr
	})
	if err != nil {
		err = classifyFailure(err)
		recordFailure(mutation.kind, failureReason(err))
		entry := synchronizer.log.WithFields(logrus.Fields{"kind": mutation.kind, "op": mutation.op})
		if errors.Is(err, services.ErrStorage) {
			entry.WithError(err).Error("journal commit failed")
		} else {
			entry.WithError(err).Debug("journal mutation rejected")
		}
		item.reply(submitResult{err: err})
		return
	}

	event := ChangeEvent{
		Seq:       synchronizer.clock.Next(),
		Kind:      mutation.kind,
		Op:        mutation.op,
		IDs:       ids,
		Committed: synchronizer.now().UTC(),
	}
	synchronizer.remember(event)
	synchronizer.bus.Publish(event)
	recordCommit(event, time.Since(started).Seconds())

	item.reply(submitResult{commit: Commit{Seq: event.Seq, IDs: ids}})
}

func (synchronizer *Synchronizer) rejectPending() {
	for {
		item, ok := synchronizer.queue.TryDequeue()
		if !ok {
			break
		}
		recordFailure(item.mutation.kind, "stopped")
		item.reply(submitResult{err: ErrStopped})
	}
	queueDepthGauge.Set(0)
}

func (item submission) reply(result submitResult) {
	if item.result != nil {
		item.result <- result
	}
}

// classifyFailure keeps the store's typed errors and treats anything else,
// such as a failed COMMIT, as a storage failure.
func classifyFailure(err error) error {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrStorage),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return &services.StorageError{Op: "commit", Cause: err}
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, services.ErrValidation):
		return "validation"
	case errors.Is(err, services.ErrNotFound):
		return "not_found"
	case errors.Is(err, services.ErrStorage):
		return "storage"
	default:
		return "cancelled"
	}
}
