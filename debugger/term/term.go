// Package term is a raw-terminal front-end for internal/runner: single
// keystrokes drive run/pause, step, disassembly and quit commands (there is
// no breakpoint key) without waiting on Enter, the way the teacher's easyterm wrapper drives its own command
// line debugger, adapted here to a fixed one-key-per-command scheme rather
// than a line-editing readline.
package term

import (
	"fmt"
	"os"

	"github.com/pkg/term"

	"goba/internal/logger"
	"goba/internal/runner"
)

// Debugger owns a raw-mode terminal and a Runner's command/event channels.
// It blocks reading single keystrokes on its own goroutine and translates
// them into commands; EventPaused/EventState replies are printed as they
// arrive.
type Debugger struct {
	t *term.Term
	r *runner.Runner
}

// Open opens the controlling terminal (/dev/tty) in raw mode and returns a
// Debugger wired to r.
// CleanUp must be called before the process exits to restore the terminal.
func Open(r *runner.Runner) (*Debugger, error) {
	t, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("opening terminal: %w", err)
	}
	return &Debugger{t: t, r: r}, nil
}

// CleanUp restores the terminal to its previous mode.
func (d *Debugger) CleanUp() {
	_ = d.t.Restore()
	_ = d.t.Close()
}

// keymap is the fixed one-key-per-command scheme: space runs/pauses, 's'
// single-steps, 'd' toggles disassembly streaming, 'q' shuts the runner
// down. No key adds or removes a breakpoint.
const (
	keyRunPause = ' '
	keyStep     = 's'
	keyQuit     = 'q'
	keyDisasm   = 'd'
)

// Run reads keystrokes until 'q' is pressed or the terminal is closed out
// from under it, issuing commands to the Runner and printing state/frame
// events as they arrive. Intended to run on its own goroutine alongside
// Runner.Run.
func (d *Debugger) Run() {
	go d.printEvents()
	go d.printDisasm()

	buf := make([]byte, 1)
	running := false
	disasm := false
	for {
		n, err := d.t.Read(buf)
		if err != nil || n == 0 {
			return
		}
		switch buf[0] {
		case keyRunPause:
			if running {
				d.r.Commands <- runner.CommandPause{}
			} else {
				d.r.Commands <- runner.CommandRun{}
			}
			running = !running
		case keyStep:
			d.r.Commands <- runner.CommandStep{N: 1}
		case keyDisasm:
			disasm = !disasm
			d.r.Commands <- runner.CommandSetDisasmEnabled{Enabled: disasm}
		case keyQuit:
			d.r.Commands <- runner.CommandShutdown{}
			return
		}
	}
}

func (d *Debugger) printEvents() {
	for ev := range d.r.Events {
		switch e := ev.(type) {
		case runner.EventState:
			fmt.Fprintf(os.Stdout, "pc=%#08x cpsr=%#08x halted=%v\n", e.Regs[15], e.CPSR, e.Halted)
		case runner.EventPaused:
			fmt.Fprintln(os.Stdout, "paused")
		case runner.EventFrame:
			// one per V-blank; the terminal front-end has nothing visual to
			// draw with it, so it only records a line in the logger.
			logger.Log("term", "frame")
		}
	}
}

func (d *Debugger) printDisasm() {
	for line := range d.r.Disasm {
		fmt.Fprintln(os.Stdout, line)
	}
}
