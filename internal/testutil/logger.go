package testutil

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
)

// NewBufferLogger returns a debug-level text logger and the buffer it writes to.
// Writes are serialized so background loops can log while a test runs.
func NewBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&lockedWriter{w: &buf}, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), &buf
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
