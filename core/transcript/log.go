package transcript

import (
	"strings"
	"sync"
)

// Log is the append-only flat record of the session: one
// "<Role>: <fragment>" line per received fragment, in arrival order.
// Its rendered form is the sole input to the external scorer.
type Log struct {
	mu    sync.Mutex
	lines []string
}

func NewLog() *Log {
	return &Log{}
}

// Append records one fragment line under the given role.
func (l *Log) Append(role Role, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, role.Label()+": "+text)
}

// Len reports the number of recorded lines.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}

// Render returns the newline-delimited transcript log.
func (l *Log) Render() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}
