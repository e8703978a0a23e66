// Package logger is a small ring-buffer backed logging sink, in the spirit
// of the teacher codebase's own logger package: entries accumulate in
// memory (so a debugger UI can page through recent history with Tail) and
// are optionally echoed to an io.Writer as they arrive.
package logger

import (
	"fmt"
	"io"
	"sync"
)

// Permission gates whether a log line is allowed to be written, mirroring
// the teacher's logger.Permission/AllowLogging split: a caller that wants to
// silence its own log lines under some condition implements AllowLogging
// itself rather than the logger knowing about categories.
type Permission interface {
	AllowLogging() bool
}

type allowPermission struct{}

func (allowPermission) AllowLogging() bool { return true }

// Allow is the permission value every current call site uses.
var Allow Permission = allowPermission{}

const maxEntries = 4096

type entry struct {
	tag string
	msg string
}

var (
	mu      sync.Mutex
	entries []entry
	echo    io.Writer
	echoOn  bool
)

// Log appends a single line tagged with id.
func Log(id string, msg string) {
	Logf(Allow, id, "%s", msg)
}

// Logf appends a formatted line tagged with id, gated by perm.
func Logf(perm Permission, id string, format string, args ...interface{}) {
	if perm != nil && !perm.AllowLogging() {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	e := entry{tag: id, msg: fmt.Sprintf(format, args...)}
	entries = append(entries, e)
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}

	if echoOn && echo != nil {
		fmt.Fprintf(echo, "%s: %s\n", e.tag, e.msg)
	}
}

// SetEcho enables or disables mirroring of new log lines to w. Passing a
// nil writer with on=false is the normal way to silence echoing.
func SetEcho(w io.Writer, on bool) {
	mu.Lock()
	defer mu.Unlock()
	echo = w
	echoOn = on
}

// Write dumps every accumulated entry to w.
func Write(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	for _, e := range entries {
		fmt.Fprintf(w, "%s: %s\n", e.tag, e.msg)
	}
}

// Tail writes the most recent n entries (or all of them, if there are
// fewer than n) to w.
func Tail(w io.Writer, n int) {
	mu.Lock()
	defer mu.Unlock()
	if n > len(entries) {
		n = len(entries)
	}
	for _, e := range entries[len(entries)-n:] {
		fmt.Fprintf(w, "%s: %s\n", e.tag, e.msg)
	}
}

// Clear empties the log. Intended for test use.
func Clear() {
	mu.Lock()
	defer mu.Unlock()
	entries = nil
}
