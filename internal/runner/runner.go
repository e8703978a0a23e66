// Package runner implements the host-side runner thread: it owns the CPU
// core and bus exclusively, drains a command channel, executes instructions
// in batches, and publishes state/frame/disassembly events, in the spirit
// of the teacher's gui request/event channel pattern generalised from a
// GUI-facing feature channel to a full emulation control channel.
package runner

import (
	"fmt"
	"time"

	"github.com/go-echarts/statsview"

	"goba/internal/arm7tdmi"
	"goba/internal/logger"
	"goba/internal/membus"
	"goba/internal/savestate"
)

// batchSize is how many Step calls the runner executes between checking the
// command channel and the clock, when running freely.
const batchSize = 10000

// Command is anything a UI sends to the runner over its command channel.
// Concrete types below are the exact enumeration of SPEC_FULL.md §5.
type Command interface{}

type (
	// CommandRun starts free-running execution.
	CommandRun struct{}
	// CommandPause halts free-running execution after the current batch.
	CommandPause struct{}
	// CommandStep executes exactly N instructions (N<=0 means one).
	CommandStep struct{ N int }
	// CommandShutdown stops the runner loop.
	CommandShutdown struct{}
	// CommandAddBreakpoint arms a breakpoint at Addr (tested against the
	// decode slot's address, before that instruction executes).
	CommandAddBreakpoint struct{ Addr uint32 }
	// CommandRemoveBreakpoint disarms a previously added breakpoint.
	CommandRemoveBreakpoint struct{ Addr uint32 }
	// CommandRequestState asks for an immediate EventState.
	CommandRequestState struct{}
	// CommandRequestSaveState asks for an immediate EventSaveStateData.
	CommandRequestSaveState struct{}
	// CommandLoadState applies a previously captured save state. A
	// corrupt/incompatible Data is a host-recoverable error (§7 kind 3):
	// logged, running CPU left untouched.
	CommandLoadState struct{ Data []byte }
	// CommandSetKey sets or clears one KEYINPUT bit.
	CommandSetKey struct {
		Button  uint
		Pressed bool
	}
	// CommandReadMemory asks for Len bytes from Addr as an EventMemoryData.
	CommandReadMemory struct {
		Addr uint32
		Len  int
	}
	// CommandWriteByte pokes a single byte onto the bus.
	CommandWriteByte struct {
		Addr  uint32
		Value uint8
	}
	// CommandSetSpeed sets the frame-rate multiplier: 1, 2, 4 or 8, or 0 for
	// uncapped (the runner never sleeps between batches).
	CommandSetSpeed struct{ Multiplier int }
	// CommandSetDisasmEnabled gates whether retired instructions are
	// streamed to the Disasm channel.
	CommandSetDisasmEnabled struct{ Enabled bool }
)

// Event is anything the runner sends back to a UI over its event channel.
type Event interface{}

type (
	// EventState is a snapshot of the architectural state, sent in reply to
	// CommandRequestState or CommandStep.
	EventState struct {
		Regs   [16]uint32
		CPSR   uint32
		Halted bool
	}
	// EventFrame is sent once per V-blank entry.
	EventFrame struct{}
	// EventPaused is sent whenever free-running execution stops, whether by
	// CommandPause or by hitting a breakpoint.
	EventPaused struct{}
	// EventSaveStateData carries an opaque save-state byte stream.
	EventSaveStateData struct{ Data []byte }
	// EventMemoryData replies to CommandReadMemory.
	EventMemoryData struct {
		Addr uint32
		Data []byte
	}
)

// Runner owns a CPU core and bus exclusively and drives them from a command
// channel, the way SPEC_FULL.md §5 requires: the CPU itself never runs on
// more than one goroutine at a time.
type Runner struct {
	CPU *arm7tdmi.Core
	Bus *membus.Bus

	Commands chan Command
	Events   chan Event
	Disasm   chan string

	running       bool
	disasmEnabled bool
	speed         int // 0 = uncapped, else 1/2/4/8
	breakpoints   map[uint32]bool

	lastFrame time.Time

	steps   uint64
	batches uint64
}

// New returns a Runner ready to drive cpu against bus. The caller still has
// to start its loop (Run) on its own goroutine.
func New(cpu *arm7tdmi.Core, bus *membus.Bus) *Runner {
	return &Runner{
		CPU:         cpu,
		Bus:         bus,
		Commands:    make(chan Command, 64),
		Events:      make(chan Event, 64),
		Disasm:      make(chan string, 256),
		speed:       1,
		breakpoints: make(map[uint32]bool),
	}
}

// ServeStats starts a background go-echarts/statsview dashboard on its
// default listener. The dashboard shows statsview's stock Go runtime
// charts; the runner's step and batch counters are not published to it.
func (r *Runner) ServeStats() {
	mgr := statsview.New()
	go func() {
		if err := mgr.Start(); err != nil {
			logger.Logf(logger.Allow, "runner", "statsview: %s", err)
		}
	}()
}

// Run drains the command channel and, while running, executes batches of
// instructions until told to stop. It returns only after a
// CommandShutdown. Intended to run on its own goroutine; the caller
// communicates exclusively through Commands/Events/Disasm from then on.
func (r *Runner) Run() {
	defer close(r.Events)
	defer close(r.Disasm)

	for {
		select {
		case cmd := <-r.Commands:
			if r.handleCommand(cmd) {
				return
			}
			continue
		default:
		}

		if !r.running {
			cmd := <-r.Commands
			if r.handleCommand(cmd) {
				return
			}
			continue
		}

		frame, stopped := r.runBatch()
		r.batches++

		if frame {
			r.Events <- EventFrame{}
		}
		if stopped {
			r.running = false
			r.Events <- EventPaused{}
		}

		if frame {
			r.throttle()
		}
	}
}

// runBatch executes up to batchSize instructions, stopping early on a
// breakpoint or a fatal CPU error. frame reports whether V-blank was
// entered at any point in the batch.
func (r *Runner) runBatch() (frame bool, stopped bool) {
	for i := 0; i < batchSize; i++ {
		addr, valid := r.CPU.PendingPC()
		if valid && r.breakpoints[addr] {
			return frame, true
		}
		instr := r.CPU.PendingInstruction()

		vblank, err := r.CPU.Step()
		r.steps++
		if err != nil {
			logger.Logf(logger.Allow, "runner", "cpu stopped: %s", err)
			return frame, true
		}
		if vblank {
			frame = true
		}

		if r.disasmEnabled && valid {
			line := fmt.Sprintf("%#08x  %s", addr, instr)
			select {
			case r.Disasm <- line:
			default:
				// UI isn't draining fast enough; drop rather than block
				// the CPU thread on a debugger window.
			}
		}
	}
	return frame, false
}

// throttle runs after each batch that entered V-blank and sleeps enough to
// cap frames at 60 per second times the configured speed multiplier,
// approximating the GBA's ~60Hz frame rate at 1x. A speed of 0 disables the
// cap entirely (uncapped-with-frame-skip).
func (r *Runner) throttle() {
	if r.speed <= 0 {
		return
	}
	target := time.Second / time.Duration(60*r.speed)
	elapsed := time.Since(r.lastFrame)
	if elapsed < target {
		time.Sleep(target - elapsed)
	}
	r.lastFrame = time.Now()
}

// handleCommand applies one command and reports whether the runner should
// shut down.
func (r *Runner) handleCommand(cmd Command) bool {
	switch c := cmd.(type) {
	case CommandRun:
		r.running = true

	case CommandPause:
		r.running = false
		r.Events <- EventPaused{}

	case CommandStep:
		n := c.N
		if n <= 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			addr, valid := r.CPU.PendingPC()
			instr := r.CPU.PendingInstruction()
			if _, err := r.CPU.Step(); err != nil {
				logger.Logf(logger.Allow, "runner", "cpu stopped: %s", err)
				break
			}
			r.steps++
			if r.disasmEnabled && valid {
				select {
				case r.Disasm <- fmt.Sprintf("%#08x  %s", addr, instr):
				default:
				}
			}
		}
		r.Events <- r.stateEvent()

	case CommandShutdown:
		return true

	case CommandAddBreakpoint:
		r.breakpoints[c.Addr] = true

	case CommandRemoveBreakpoint:
		delete(r.breakpoints, c.Addr)

	case CommandRequestState:
		r.Events <- r.stateEvent()

	case CommandRequestSaveState:
		data, err := savestate.Save(r.CPU, r.Bus)
		if err != nil {
			logger.Logf(logger.Allow, "runner", "save state failed: %s", err)
			break
		}
		r.Events <- EventSaveStateData{Data: data}

	case CommandLoadState:
		if err := savestate.Load(c.Data, r.CPU, r.Bus); err != nil {
			logger.Logf(logger.Allow, "runner", "load state rejected: %s", err)
		}

	case CommandSetKey:
		r.Bus.SetKey(c.Button, c.Pressed)

	case CommandReadMemory:
		data := make([]byte, c.Len)
		for i := range data {
			data[i] = r.Bus.ReadByte(c.Addr + uint32(i))
		}
		r.Events <- EventMemoryData{Addr: c.Addr, Data: data}

	case CommandWriteByte:
		r.Bus.WriteByte(c.Addr, c.Value)

	case CommandSetSpeed:
		r.speed = c.Multiplier

	case CommandSetDisasmEnabled:
		r.disasmEnabled = c.Enabled
	}
	return false
}

func (r *Runner) stateEvent() EventState {
	return EventState{
		Regs:   r.CPU.Regs.Snapshot(),
		CPSR:   r.CPU.CPSR.Value(),
		Halted: r.CPU.Halted,
	}
}
