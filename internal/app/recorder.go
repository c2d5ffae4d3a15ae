package app

import (
	"sync"

	"github.com/ayusman/neonorb/internal/gesture"
	"github.com/ayusman/neonorb/internal/store"
)

// FlushEvery is the number of frames buffered before they are written.
const FlushEvery = 64

// Recorder writes a session's frames and trigger events to the store.
// Recordings are diagnostic; nothing reads them back into a live session.
type Recorder struct {
	store     *store.Store
	sessionID string

	mu       sync.Mutex
	buf      []store.Frame
	seq      int64
	frames   int
	triggers int
}

// NewRecorder returns a recorder for an existing session row.
func NewRecorder(st *store.Store, sessionID string) *Recorder {
	return &Recorder{
		store:     st,
		sessionID: sessionID,
		buf:       make([]store.Frame, 0, FlushEvery),
	}
}

// SessionID returns the session being recorded.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// Frame buffers one tracker frame, flushing when the buffer is full.
func (r *Recorder) Frame(f gesture.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	rec, err := frameToStore(r.sessionID, r.seq, f)
	if err != nil {
		return err
	}
	r.buf = append(r.buf, rec)
	r.frames++

	if len(r.buf) >= FlushEvery {
		return r.flushLocked()
	}
	return nil
}

// Trigger writes an accepted color change immediately.
func (r *Recorder) Trigger(ev gesture.TriggerEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Events().Create(eventToStore(r.sessionID, ev)); err != nil {
		return err
	}
	r.triggers++
	return nil
}

// Flush writes any buffered frames.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushLocked()
}

// Close flushes and stamps the session's end.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.flushLocked(); err != nil {
		return err
	}
	return r.store.Sessions().End(r.sessionID, r.frames, r.triggers)
}

// Counts returns the frames and triggers recorded so far.
func (r *Recorder) Counts() (frames, triggers int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames, r.triggers
}

func (r *Recorder) flushLocked() error {
	if len(r.buf) == 0 {
		return nil
	}
	if err := r.store.Frames().Append(r.buf); err != nil {
		return err
	}
	r.buf = r.buf[:0]
	return nil
}
