package main

import (
	"io"
	"sync"
)

// lockedWriter serializes writes from the UI loop and the authorizer goroutine. Each screen
// redraw is a single Write, so a printed link lands between redraws, never inside one.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
