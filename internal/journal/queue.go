package journal

import "sync"

// mutationQueue is the unbounded FIFO in front of the writer goroutine.
// Enqueue is safe from any goroutine; only the writer dequeues.
type mutationQueue struct {
	mu      sync.Mutex
	pending []submission
	closed  bool
	signal  chan struct{}
}

func newMutationQueue() *mutationQueue {
	return &mutationQueue{
		pending: make([]submission, 0, 16),
		signal:  make(chan struct{}, 1),
	}
}

// Enqueue reports false once the queue is closed.
func (queue *mutationQueue) Enqueue(item submission) bool {
	queue.mu.Lock()
	defer queue.mu.Unlock()

	if queue.closed {
		return false
	}
	queue.pending = append(queue.pending, item)

	select {
	case queue.signal <- struct{}{}:
	default:
	}
	return true
}

func (queue *mutationQueue) TryDequeue() (submission, bool) {
	queue.mu.Lock()
	defer queue.mu.Unlock()

	if len(queue.pending) == 0 {
		return submission{}, false
	}

	item := queue.pending[0]
	queue.pending[0] = submission{}
	if len(queue.pending) == 1 {
		queue.pending = queue.pending[:0]
	} else {
		queue.pending = queue.pending[1:]
	}
	return item, true
}

// Wait fires when items may be available, and stays closed after Close.
func (queue *mutationQueue) Wait() <-chan struct{} {
	return queue.signal
}

func (queue *mutationQueue) Len() int {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	return len(queue.pending)
}

func (queue *mutationQueue) Close() {
	queue.mu.Lock()
	defer queue.mu.Unlock()

	if queue.closed {
		return
	}
	queue.closed = true
	close(queue.signal)
}

func (queue *mutationQueue) isClosed() bool {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	return queue.closed
}
