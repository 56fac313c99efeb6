// Package displaytest provides a display.Sink that records text instead of
// pixels.
package displaytest

import (
	"fmt"
	"strings"
	"sync"
)

// Frame is what was printed between a Clear and a Display.
type Frame struct {
	Text string
	Size int
}

type Recorder struct {
	mu     sync.Mutex
	buf    strings.Builder
	size   int
	frames []Frame
	// Err is returned by Display when set.
	Err error
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.Reset()
}

func (r *Recorder) SetCursor(x, y int) {}

func (r *Recorder) SetTextSize(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.size = n
}

func (r *Recorder) SetTextColor(on bool) {}

func (r *Recorder) Print(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.WriteString(s)
}

func (r *Recorder) Printf(format string, args ...any) {
	r.Print(fmt.Sprintf(format, args...))
}

func (r *Recorder) Display() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, Frame{Text: r.buf.String(), Size: r.size})
	return r.Err
}

func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

// Last returns the most recent frame, or the zero Frame.
func (r *Recorder) Last() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return Frame{}
	}
	return r.frames[len(r.frames)-1]
}

// Contains reports whether any flushed frame contains s.
func (r *Recorder) Contains(s string) bool {
	for _, f := range r.Frames() {
		if strings.Contains(f.Text, s) {
			return true
		}
	}
	return false
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.Reset()
	r.frames = nil
}
