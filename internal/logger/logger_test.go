package logger_test

import (
	"testing"

	"goba/internal/logger"
	"goba/internal/testhelper"
)

func TestLogger(t *testing.T) {
	logger.Clear()
	tw := &testhelper.Writer{}

	logger.Write(tw)
	testhelper.Equate(t, tw.Compare(""), true)

	logger.Log("test", "this is a test")
	logger.Write(tw)
	testhelper.Equate(t, tw.Compare("test: this is a test\n"), true)

	tw.Clear()

	logger.Log("test2", "this is another test")
	logger.Write(tw)
	testhelper.Equate(t, tw.Compare("test: this is a test\ntest2: this is another test\n"), true)

	tw.Clear()
	logger.Tail(tw, 100)
	testhelper.Equate(t, tw.Compare("test: this is a test\ntest2: this is another test\n"), true)

	tw.Clear()
	logger.Tail(tw, 1)
	testhelper.Equate(t, tw.Compare("test2: this is another test\n"), true)

	tw.Clear()
	logger.Tail(tw, 0)
	testhelper.Equate(t, tw.Compare(""), true)
}

// prohibitLogging lets a test deny a log line without the logger knowing
// anything about why.
type prohibitLogging struct{ allow bool }

func (p prohibitLogging) AllowLogging() bool { return p.allow }

func TestLoggerPermission(t *testing.T) {
	logger.Clear()
	tw := &testhelper.Writer{}

	logger.Logf(prohibitLogging{allow: false}, "gated", "%s", "should not appear")
	logger.Write(tw)
	testhelper.Equate(t, tw.Compare(""), true)

	logger.Logf(prohibitLogging{allow: true}, "gated", "%s", "should appear")
	logger.Write(tw)
	testhelper.Equate(t, tw.Compare("gated: should appear\n"), true)
}
