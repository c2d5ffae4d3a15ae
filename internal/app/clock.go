package app

import "time"

// Clock supplies frame timestamps in milliseconds.
type Clock interface {
	NowMs() int64
}

// MonotonicClock reports milliseconds elapsed since it was created, read from
// the monotonic clock so wall clock jumps cannot rewind it.
type MonotonicClock struct {
	start time.Time
}

// NewMonotonicClock starts a clock at zero.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

// NowMs returns the elapsed milliseconds.
func (c *MonotonicClock) NowMs() int64 {
	return time.Since(c.start).Milliseconds()
}
