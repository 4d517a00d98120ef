package pipeline

import "time"

// Event is a message from the run worker to its observer.
type Event interface {
	event()
}

// EventProgress follows every processed line.
type EventProgress struct {
	Index   int // 0-based index of the line just processed
	Total   int
	Elapsed time.Duration
	Rate    float64 // lines per minute
	ETA     time.Duration
}

// EventLine carries one committed output line.
type EventLine struct {
	Index   int
	Text    string
	Outcome LineOutcome
}

// EventStatus is transient status text, e.g. a backoff notice.
type EventStatus struct {
	Text string
}

// EventComplete is the terminal event of a run that processed every line.
type EventComplete struct {
	Elapsed time.Duration
	Rate    float64
	Summary Summary
}

// EventStopped is the terminal event of a run cut short by Stop or by
// context cancellation.
type EventStopped struct {
	Summary Summary
}

func (EventProgress) event() {}
func (EventLine) event()     {}
func (EventStatus) event()   {}
func (EventComplete) event() {}
func (EventStopped) event()  {}

// LineOutcome describes how an output line was produced.
type LineOutcome struct {
	Translated bool // the line went through extraction and translation
	Fallback   bool // recovery failed and the original span was kept
	Cached     bool // the span came from the translation cache
}

// Summary is the result of a finished run.
type Summary struct {
	RunID      string
	Lines      []string
	Total      int
	Translated int
	Fallbacks  int
	CacheHits  int
	Stopped    bool
	Elapsed    time.Duration
}
