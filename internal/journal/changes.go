package journal

import "context"

// ChangeBatch answers a "what changed after seq" poll. Truncated is set when
// the requested seq is older than the retained history, in which case the
// caller should reload instead of applying Events incrementally.
type ChangeBatch struct {
	Events    []ChangeEvent `json:"events"`
	Latest    int64         `json:"latest"`
	Truncated bool          `json:"truncated"`
}

// ChangesSince returns the retained events with Seq > after. When there are
// none yet it waits for the next commit or for ctx to end.
func (synchronizer *Synchronizer) ChangesSince(ctx context.Context, after int64) (ChangeBatch, error) {
	sub := synchronizer.bus.Subscribe()
	defer sub.Close()

	if batch := synchronizer.historyAfter(after); len(batch.Events) > 0 {
		return batch, nil
	}

	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return ChangeBatch{}, ErrStopped
			}
			if event.Seq > after {
				return ChangeBatch{Events: []ChangeEvent{event}, Latest: event.Seq}, nil
			}
		case <-ctx.Done():
			return ChangeBatch{Latest: synchronizer.CurrentSeq()}, ctx.Err()
		}
	}
}

func (synchronizer *Synchronizer) remember(event ChangeEvent) {
	synchronizer.historyMu.Lock()
	defer synchronizer.historyMu.Unlock()

	synchronizer.history = append(synchronizer.history, event)
	if overflow := len(synchronizer.history) - synchronizer.historySize; overflow > 0 {
		copy(synchronizer.history, synchronizer.history[overflow:])
		synchronizer.history = synchronizer.history[:synchronizer.historySize]
	}
}

func (synchronizer *Synchronizer) historyAfter(after int64) ChangeBatch {
	synchronizer.historyMu.Lock()
	defer synchronizer.historyMu.Unlock()

	batch := ChangeBatch{Latest: synchronizer.clock.Current()}
	if len(synchronizer.history) == 0 {
		return batch
	}
	if oldest := synchronizer.history[0].Seq; after < oldest-1 {
		batch.Truncated = true
	}
	for _, event := range synchronizer.history {
		if event.Seq > after {
			batch.Events = append(batch.Events, event)
			batch.Latest = event.Seq
		}
	}
	return batch
}
