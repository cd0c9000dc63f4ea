// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package driver

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"
)

// Semantics selects which operation pair the tasks call.
type Semantics int

const (
	Blocking    Semantics = iota // Put / Get
	NonBlocking                  // Add / Remove
	Timed                        // Offer / Poll
)

// Valid reports whether s is one of the known semantics.
func (s Semantics) Valid() bool {
	return s >= Blocking && s <= Timed
}

// Letter returns the log letter of s: B, N or T.
func (s Semantics) Letter() byte {
	switch s {
	case Blocking:
		return 'B'
	case NonBlocking:
		return 'N'
	case Timed:
		return 'T'
	default:
		return '?'
	}
}

func (s Semantics) String() string {
	switch s {
	case Blocking:
		return "blocking"
	case NonBlocking:
		return "non-blocking"
	case Timed:
		return "timed"
	default:
		return "Semantics(" + strconv.Itoa(int(s)) + ")"
	}
}

// FormatLine renders one run log line:
//
//	000150 producer 2 (T) - data=2
//	000200 consumer 0 (N) - data=NULL
func FormatLine(elapsed time.Duration, name string, s Semantics, value int, ok bool) string {
	data := "NULL"
	if ok {
		data = strconv.Itoa(value)
	}
	return fmt.Sprintf("%06d %s (%c) - data=%s", elapsed.Milliseconds(), name, s.Letter(), data)
}

// Logger writes run log lines to w, one whole line per call.
// Elapsed times are measured from start.
type Logger struct {
	mu    sync.Mutex
	w     io.Writer
	start time.Time
}

// NewLogger creates a Logger whose clock starts at start.
func NewLogger(w io.Writer, start time.Time) *Logger {
	return &Logger{w: w, start: start}
}

// Start returns the run start time.
func (l *Logger) Start() time.Time {
	return l.start
}

// Log writes the outcome of one operation. ok false logs data=NULL.
func (l *Logger) Log(name string, s Semantics, value int, ok bool) error {
	line := FormatLine(time.Since(l.start), name, s, value, ok)
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := io.WriteString(l.w, line+"\n")
	return err
}
