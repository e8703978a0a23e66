// Command goba wires a cartridge ROM, the memory bus, the CPU core and the
// runner thread together, then hands control to whichever front end the
// caller asked for: a raw-terminal debugger, an SDL2/imgui window, or
// neither (headless: this program sends the runner no Run command).
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"goba/internal/arm7tdmi"
	"goba/internal/membus"
	"goba/internal/runner"

	debugterm "goba/debugger/term"
	"goba/gui/sdlplay"
)

func init() {
	// SDL requires its event loop to run on the thread that created the
	// window; the runner runs on its own goroutine regardless.
	runtime.LockOSThread()
}

func main() {
	romPath := flag.String("rom", "", "path to a GBA ROM image")
	biosPath := flag.String("bios", "", "path to a 16KB GBA BIOS image (omitted: zero-filled)")
	useTerm := flag.Bool("term", false, "drive the emulation from a raw-terminal debugger")
	useGUI := flag.Bool("gui", false, "open an SDL2/imgui display window")
	speed := flag.Int("speed", 1, "frame-rate multiplier (1/2/4/8, 0 = uncapped)")
	stats := flag.Bool("stats", false, "serve a go-echarts/statsview dashboard")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "goba: -rom is required")
		os.Exit(2)
	}

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "goba: reading ROM:", err)
		os.Exit(1)
	}

	var bios []byte
	if *biosPath != "" {
		bios, err = os.ReadFile(*biosPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "goba: reading BIOS:", err)
			os.Exit(1)
		}
	}

	bus := membus.New(bios, rom)
	bus.SeedNoise(uint64(time.Now().UnixNano()))

	cpu := arm7tdmi.NewCore(bus)
	cpu.Reset()

	r := runner.New(cpu, bus)
	r.Commands <- runner.CommandSetSpeed{Multiplier: *speed}

	if *stats {
		r.ServeStats()
	}

	go r.Run()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		r.Commands <- runner.CommandShutdown{}
	}()

	switch {
	case *useGUI:
		runGUI(r)
	case *useTerm:
		runTerm(r)
	default:
		runHeadless(r)
	}
}

func runTerm(r *runner.Runner) {
	dbg, err := debugterm.Open(r)
	if err != nil {
		fmt.Fprintln(os.Stderr, "goba: opening terminal debugger:", err)
		os.Exit(1)
	}
	defer dbg.CleanUp()
	dbg.Run()
}

func runGUI(r *runner.Runner) {
	win, err := sdlplay.New(r)
	if err != nil {
		fmt.Fprintln(os.Stderr, "goba: opening display window:", err)
		os.Exit(1)
	}
	defer win.CleanUp()

	r.Commands <- runner.CommandRun{}

	for {
		if win.PumpEvents() {
			r.Commands <- runner.CommandShutdown{}
			return
		}

		select {
		case ev := <-r.Events:
			switch e := ev.(type) {
			case runner.EventState:
				win.SetState(e)
			case runner.EventFrame:
				r.Commands <- runner.CommandRequestState{}
			}
		default:
		}

		if err := win.BlitFrame(currentFramebuffer(r)); err != nil {
			fmt.Fprintln(os.Stderr, "goba: blitting frame:", err)
		}
	}
}

func currentFramebuffer(r *runner.Runner) []byte {
	return r.Bus.Framebuffer()
}

// runHeadless just waits for CommandShutdown (Ctrl-C) while the runner does
// whatever the caller queued (nothing, by default, since no CommandRun was
// ever sent — a headless run is for feeding commands over some other
// channel the caller wires up separately, e.g. a test harness).
func runHeadless(r *runner.Runner) {
	for ev := range r.Events {
		_ = ev
	}
}
