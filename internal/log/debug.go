// Package log is the debug log shared by the dashboard and the CLI.
// Messages are buffered until a file is chosen, then flushed to it.
package log

import (
	"log"
	"os"
	"sync"
)

// maxBuffered bounds what is kept before SetFile is called.
const maxBuffered = 256 << 10

// sink is the io.Writer behind the package logger. Until a file is opened
// it keeps the newest maxBuffered bytes. After SetFile("") or a failed open
// it drops everything.
type sink struct {
	mu      sync.Mutex
	file    *os.File
	pending []byte
	off     bool
}

func newLogger(s *sink) *log.Logger {
	return log.New(s, "", log.LstdFlags|log.Lmicroseconds)
}

var (
	out    = &sink{}
	logger = newLogger(out)
)

func (s *sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.off:
		return len(p), nil
	case s.file != nil:
		n, err := s.file.Write(p)
		_ = s.file.Sync()
		return n, err
	}
	s.keep(p)
	return len(p), nil
}

// keep appends p to the pending buffer, dropping the oldest bytes past
// maxBuffered.
func (s *sink) keep(p []byte) {
	s.pending = append(s.pending, p...)
	if over := len(s.pending) - maxBuffered; over > 0 {
		s.pending = append(s.pending[:0], s.pending[over:]...)
	}
}

func (s *sink) open(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeFile()
	if path == "" {
		s.off, s.pending = true, nil
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		s.off, s.pending = true, nil
		return err
	}
	s.file, s.off = f, false
	if len(s.pending) > 0 {
		_, _ = f.Write(s.pending)
		_ = f.Sync()
		s.pending = nil
	}
	return nil
}

func (s *sink) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeFile()
}

func (s *sink) closeFile() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// SetFile sends the log to path, flushing what was buffered so far. An
// empty path discards the buffer and every later message.
func SetFile(path string) error {
	return out.open(path)
}

// Close closes the log file, if any.
func Close() error {
	return out.close()
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	logger.Printf(format, args...)
}

// Println writes a debug message.
func Println(v ...any) {
	logger.Println(v...)
}

// Requestf logs a message tagged with a request sequence number.
func Requestf(seq uint64, format string, args ...any) {
	logger.Printf("[req %d] "+format, append([]any{seq}, args...)...)
}

// Logger adapts the package functions to a value for clients that take
// a logger.
type Logger struct{}

// Printf implements the api client logger.
func (Logger) Printf(format string, args ...any) {
	Printf(format, args...)
}
