// Package logbuf provides the bounded in-memory debug log and the chunked
// streamer that serves it. The buffer is append-only: under memory
// pressure new lines are dropped, old lines are never evicted, and the
// buffer is only cleared by a restart.
package logbuf

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// DefaultBudget is the default byte budget for buffered log lines.
const DefaultBudget = 64 * 1024

// Buffer is an append-only, byte-budgeted sequence of log lines.
type Buffer struct {
	now    func() time.Time
	budget int

	mu      sync.Mutex
	lines   []string
	bytes   int // buffered bytes including one terminator per line
	dropped int
}

// New creates a Buffer with the given byte budget. The now function
// supplies the device-local time used for the line prefix.
func New(budget int, now func() time.Time) *Buffer {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Buffer{now: now, budget: budget}
}

// Printf formats a line, prefixes it with the local time of day and
// appends it to the buffer. The line is mirrored to the process logger.
// When the byte budget is exhausted the line is silently dropped from
// the buffer (it still reaches the process logger).
func (b *Buffer) Printf(format string, args ...any) {
	ts := b.now()
	line := fmt.Sprintf("%02d:%02d:%02d - ", ts.Hour(), ts.Minute(), ts.Second()) +
		fmt.Sprintf(format, args...)
	log.Print(line)

	b.mu.Lock()
	if b.bytes+len(line)+1 <= b.budget {
		b.lines = append(b.lines, line)
		b.bytes += len(line) + 1
	} else {
		b.dropped++
	}
	b.mu.Unlock()
}

// Len returns the number of buffered lines.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}

// Dropped returns how many lines were refused for lack of budget.
func (b *Buffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Line returns buffered line i. Lines are never removed, so an index
// that was valid once stays valid.
func (b *Buffer) Line(i int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lines[i]
}
