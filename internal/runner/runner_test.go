package runner_test

import (
	"testing"
	"time"

	"goba/internal/arm7tdmi"
	"goba/internal/membus"
	"goba/internal/runner"
	"goba/internal/testhelper"
)

func newTestRunner() *runner.Runner {
	bus := membus.New(make([]byte, 0x4000), make([]byte, 0x1000))
	cpu := arm7tdmi.NewCore(bus)
	r := runner.New(cpu, bus)
	go r.Run()
	return r
}

func drainState(t *testing.T, r *runner.Runner) runner.EventState {
	t.Helper()
	select {
	case ev := <-r.Events:
		s, ok := ev.(runner.EventState)
		if !ok {
			t.Fatalf("expected EventState, got %T", ev)
		}
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for EventState")
		return runner.EventState{}
	}
}

func TestStepCommandAdvancesAndReplies(t *testing.T) {
	r := newTestRunner()
	defer func() { r.Commands <- runner.CommandShutdown{} }()

	r.Commands <- runner.CommandStep{N: 3}
	s := drainState(t, r)
	// A fresh core starts at PC 0 and every Step fetches one ARM word.
	testhelper.Equate(t, s.Regs[15], uint32(12))
}

func TestRequestStateRepliesWithoutRunning(t *testing.T) {
	r := newTestRunner()
	defer func() { r.Commands <- runner.CommandShutdown{} }()

	r.Commands <- runner.CommandRequestState{}
	s := drainState(t, r)
	testhelper.Equate(t, s.Halted, false)
}

func TestPauseAfterRunEmitsPausedEvent(t *testing.T) {
	r := newTestRunner()
	defer func() { r.Commands <- runner.CommandShutdown{} }()

	r.Commands <- runner.CommandRun{}
	r.Commands <- runner.CommandPause{}

	select {
	case ev := <-r.Events:
		if _, ok := ev.(runner.EventPaused); !ok {
			t.Fatalf("expected EventPaused, got %T", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for EventPaused")
	}
}

func TestShutdownStopsTheLoop(t *testing.T) {
	r := newTestRunner()
	done := make(chan struct{})
	go func() {
		r.Commands <- runner.CommandShutdown{}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out sending shutdown")
	}

	// Run closes Events when it returns.
	select {
	case _, ok := <-r.Events:
		if ok {
			t.Fatal("expected Events to be closed after shutdown")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the loop to stop")
	}
}
