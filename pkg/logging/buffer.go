package logging

import (
	"strings"
	"sync"
)

// Capture is an io.Writer keeping the last few lines of the server log in
// a ring.
type Capture struct {
	mu    sync.Mutex
	lines []string
	next  int
	count int
}

// NewCapture creates a Capture holding up to size lines.
func NewCapture(size int) *Capture {
	return &Capture{lines: make([]string, max(size, 1))}
}

// Recent is the server log tail served by the API.
var Recent = NewCapture(32)

// Write implements io.Writer. Each non-empty line of p is kept.
func (c *Capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for line := range strings.SplitSeq(string(p), "\n") {
		if line == "" {
			continue
		}
		c.lines[c.next] = line
		c.next = (c.next + 1) % len(c.lines)
		c.count = min(c.count+1, len(c.lines))
	}
	return len(p), nil
}

// Last returns the most recent line, or "" before anything was logged.
func (c *Capture) Last() string {
	tail := c.Tail(1)
	if len(tail) == 0 {
		return ""
	}
	return tail[0]
}

// Tail returns up to n of the most recent lines, oldest first.
func (c *Capture) Tail(n int) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	n = min(max(n, 0), c.count)
	out := make([]string, n)
	for i := range n {
		out[i] = c.lines[(c.next-n+i+len(c.lines))%len(c.lines)]
	}
	return out
}
