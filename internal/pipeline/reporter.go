package pipeline

import (
	"log/slog"
	"sync"
	"time"
)

// EventType tags an Event.
type EventType string

const (
	EventStep     EventType = "step"
	EventLog      EventType = "log"
	EventProgress EventType = "progress"
	EventBusy     EventType = "busy"
)

// Event is one update from a running job. Only the fields relevant to Type
// are set.
type Event struct {
	Type     EventType
	Time     time.Time
	JobID    string
	Step     Step
	Level    slog.Level
	Message  string
	Progress int
	Busy     bool
}

// Reporter receives job updates. Report is called from the goroutine running
// the job and must not block for long.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

func (f ReporterFunc) Report(e Event) { f(e) }

type discard struct{}

func (discard) Report(Event) {}

// Recorder keeps every event it receives. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Report(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Steps returns the recorded step transitions in order.
func (r *Recorder) Steps() []Step {
	var steps []Step
	for _, e := range r.Events() {
		if e.Type == EventStep {
			steps = append(steps, e.Step)
		}
	}
	return steps
}

// Messages returns the recorded log lines in order.
func (r *Recorder) Messages() []string {
	var lines []string
	for _, e := range r.Events() {
		if e.Type == EventLog {
			lines = append(lines, e.Message)
		}
	}
	return lines
}
