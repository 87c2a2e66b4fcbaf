package orchestrator

import (
	"fmt"
	"sync"
)

// progressBuffer is the number of events held for a slow subscriber.
const progressBuffer = 256

// ProgressReporter fans variation events out to one subscriber. Events that
// do not fit the buffer are counted and discarded so that linting never
// waits on a reader.
type ProgressReporter struct {
	mu      sync.Mutex
	ch      chan ProgressEvent
	closed  bool
	dropped int
}

// NewProgressReporter creates a ProgressReporter.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{ch: make(chan ProgressEvent, progressBuffer)}
}

// Emit queues event without blocking. It is a no-op after Close.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.closed {
		return
	}
	select {
	case pr.ch <- event:
	default:
		pr.dropped++
	}
}

// Dropped returns how many events were discarded because the buffer was full.
func (pr *ProgressReporter) Dropped() int {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return pr.dropped
}

// Subscribe returns the event channel. It is closed by Close.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.ch
}

// Close ends the event stream. Calling it again has no effect.
func (pr *ProgressReporter) Close() {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if !pr.closed {
		pr.closed = true
		close(pr.ch)
	}
}

var progressGlyphs = map[ProgressStatus]struct{ glyph, format string }{
	ProgressPending:  {"○", "%s %s (pending)"},
	ProgressWorking:  {"●", "%s %s..."},
	ProgressComplete: {"✓", "%s %s complete"},
	ProgressDropped:  {"-", "%s %s nothing to report"},
	ProgressFailed:   {"✗", "%s %s failed: "},
}

// FormatProgress renders event as an indented status line such as
//
//	✓ app.component.html#3 (if-true) complete
func FormatProgress(event ProgressEvent) string {
	label := fmt.Sprintf("%s#%d", event.Template, event.Variation)
	if event.Kind != "" {
		label += " (" + event.Kind + ")"
	}

	g, ok := progressGlyphs[event.Status]
	if !ok {
		return fmt.Sprintf("  ? %s (unknown status)", label)
	}
	line := "  " + fmt.Sprintf(g.format, g.glyph, label)
	if event.Status == ProgressFailed {
		line += event.Message
	}
	return line
}
