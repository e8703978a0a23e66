// Package curatederrors provides the curated-error idiom the teacher
// codebase uses: predefined message templates wrapped in a private type so
// call sites can test "is this that specific condition" without string
// matching the rendered message.
package curatederrors

import (
	"fmt"
	"strings"
)

// Category distinguishes the three error kinds of the CPU core's failure
// semantics: a decoder-surfaced fatal, an executor-surfaced fatal, or a
// host-surfaced recoverable condition.
type Category int

const (
	// Decode marks an undefined/reserved opcode or an unimplemented
	// coprocessor stub caught during instruction decode.
	Decode Category = iota
	// Execute marks an illegal PSR access, an unimplemented instruction tag,
	// or any other fatal condition caught during instruction execution.
	Execute
	// Host marks a recoverable condition surfaced to the runner thread,
	// such as a save-state that failed to deserialise.
	Host
)

func (c Category) String() string {
	switch c {
	case Decode:
		return "decode"
	case Execute:
		return "execute"
	case Host:
		return "host"
	}
	return "unknown"
}

// Values is the argument list passed to Errorf.
type Values []interface{}

type curated struct {
	category Category
	message  string
	values   Values
}

// Errorf creates a new curated error of the given category.
func Errorf(category Category, message string, values ...interface{}) error {
	return curated{category: category, message: message, values: values}
}

// Error implements the error interface, de-duplicating adjacent repeated
// message parts the way the teacher's formatter does (common when a lower
// layer's curated error is wrapped by an upper layer with the same head).
func (e curated) Error() string {
	s := fmt.Errorf(e.message, e.values...).Error()
	p := strings.SplitN(s, ": ", 3)
	if len(p) > 1 && p[0] == p[1] {
		return strings.Join(p[1:], ": ")
	}
	return strings.Join(p, ": ")
}

// CategoryOf returns the category of err, and whether err was created by
// this package at all.
func CategoryOf(err error) (Category, bool) {
	if e, ok := err.(curated); ok {
		return e.category, true
	}
	return 0, false
}

// Is reports whether err is a curated error whose category is c.
func Is(err error, c Category) bool {
	cat, ok := CategoryOf(err)
	return ok && cat == c
}

// Head returns the leading message template of a curated error, or the
// plain Error() string for anything else. Useful in switches.
func Head(err error) string {
	if e, ok := err.(curated); ok {
		return e.message
	}
	return err.Error()
}
