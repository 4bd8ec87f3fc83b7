package tui

// entryKind distinguishes game-flow events from diagnostics in the log.
type entryKind int

const (
	kindEvent entryKind = iota
	kindDiagnostic
)

type logEntry struct {
	kind entryKind
	text string
}

// Sink forwards orchestrator events into the bubbletea program. It never
// blocks the orchestrator: when the buffer is full the entry is dropped,
// since the next render re-reads the full view anyway.
type Sink struct {
	entries chan logEntry
}

// NewSink creates a sink with a bounded buffer.
func NewSink() *Sink {
	return &Sink{entries: make(chan logEntry, 64)}
}

// Event implements orchestrator.Sink.
func (s *Sink) Event(msg string) {
	select {
	case s.entries <- logEntry{kind: kindEvent, text: msg}:
	default:
	}
}

// Diagnostic implements orchestrator.Sink.
func (s *Sink) Diagnostic(msg string) {
	select {
	case s.entries <- logEntry{kind: kindDiagnostic, text: msg}:
	default:
	}
}
