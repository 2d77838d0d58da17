package journal

import "sync/atomic"

// Clock hands out commit sequence numbers. Only the writer goroutine calls
// Next; readers may call Current from anywhere.
type Clock struct {
	seq atomic.Int64
}

func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt resumes numbering after start.
func NewClockAt(start int64) *Clock {
	clock := &Clock{}
	clock.seq.Store(start)
	return clock
}

func (clock *Clock) Next() int64 {
	return clock.seq.Add(1)
}

func (clock *Clock) Current() int64 {
	return clock.seq.Load()
}
