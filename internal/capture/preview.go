package capture

import (
	"fmt"
	"sync"
	"sync/atomic"

	"gocv.io/x/gocv"
)

// Preview holds the most recent camera frame as JPEG for the MJPEG stream.
// The tracker pipeline owns the camera; viewers read from here instead.
type Preview struct {
	mu      sync.RWMutex
	jpeg    []byte
	version uint64
	viewers atomic.Int32
}

// NewPreview returns an empty preview.
func NewPreview() *Preview {
	return &Preview{}
}

// Publish encodes frame and makes it the latest picture. It is a no-op while
// nobody is watching.
func (p *Preview) Publish(frame *gocv.Mat) error {
	if frame == nil || frame.Empty() || p.viewers.Load() == 0 {
		return nil
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	defer buf.Close()

	p.Store(buf.GetBytes())
	return nil
}

// Store sets the latest picture from already encoded JPEG bytes.
func (p *Preview) Store(jpeg []byte) {
	data := make([]byte, len(jpeg))
	copy(data, jpeg)

	p.mu.Lock()
	p.jpeg = data
	p.version++
	p.mu.Unlock()
}

// Latest returns the current picture and its version. Version 0 means no
// picture has been published yet.
func (p *Preview) Latest() ([]byte, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.jpeg, p.version
}

// Watch registers a viewer. The returned func unregisters it.
func (p *Preview) Watch() func() {
	p.viewers.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { p.viewers.Add(-1) })
	}
}

// Viewers returns the number of registered viewers.
func (p *Preview) Viewers() int {
	return int(p.viewers.Load())
}
