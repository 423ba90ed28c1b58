package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/celldomain/audio"
	"github.com/lixenwraith/celldomain/core"
	"github.com/lixenwraith/celldomain/domain"
	"github.com/lixenwraith/celldomain/engine"
	"github.com/lixenwraith/celldomain/parameter"
	"github.com/lixenwraith/celldomain/render"
	"github.com/lixenwraith/celldomain/scenario"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Interactive terminal view of the domain overlay",
	Long: `Draws every cell as its domain glyph with domain boundaries between cells.
Arrow keys move the cursor, space or a mouse click toggles terrain, p pauses the
timeline, m mutes audio cues and Esc quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logPath, _ := cmd.Flags().GetString("log-file")
		sound, _ := cmd.Flags().GetBool("sound")

		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer logFile.Close()

		log, err := newLogger(cmd, logFile)
		if err != nil {
			return err
		}
		sc, err := loadScenario(cmd)
		if err != nil {
			return err
		}

		cues := audio.NewCuePlayer()
		if sound {
			if err := cues.Initialize(); err != nil {
				// Non-fatal, the view runs silent
				log.Warn("audio initialization failed", "error", err)
			}
			defer cues.Cleanup()
		}

		r, err := scenario.NewRunner(sc, log, domain.WithObserver(cues))
		if err != nil {
			return err
		}

		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := screen.Init(); err != nil {
			return err
		}
		core.SetCrashScreen(screen)
		defer func() {
			core.SetCrashScreen(nil)
			screen.Fini()
		}()
		screen.EnableMouse()
		screen.HideCursor()

		v := &viewer{
			screen:   screen,
			runner:   r,
			cues:     cues,
			renderer: render.NewOverlayRenderer(screen, parameter.CellSize),
			clock:    engine.NewClock(parameter.TickInterval),
			cursor:   core.Point{X: sc.Width / 2, Y: sc.Height / 2},
		}
		v.clock.Register(r)
		return v.run()
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().String("log-file", "celldomain.log", "Log destination, the terminal is owned by the view")
	viewCmd.Flags().Bool("sound", true, "Play a cue when a repair splits or merges domains")
}

// viewer owns the terminal loop, all simulation calls happen on its goroutine
type viewer struct {
	screen   tcell.Screen
	runner   *scenario.Runner
	cues     *audio.CuePlayer
	renderer *render.OverlayRenderer
	clock    *engine.Clock

	cursor  core.Point
	paused  bool
	message string
	overlay domain.Overlay
}

func (v *viewer) run() error {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	simTicker := time.NewTicker(v.clock.Interval())
	defer simTicker.Stop()
	frameTicker := time.NewTicker(parameter.FrameUpdateInterval)
	defer frameTicker.Stop()

	eventChan := make(chan tcell.Event, parameter.InputQueueSize)
	core.Go(func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	})

	v.overlay = v.runner.Manager.Overlay()
	v.draw()

	for {
		select {
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return nil
			}

		case <-simTicker.C:
			if v.paused {
				continue
			}
			if err := v.clock.Step(); err != nil {
				return err
			}

		case <-frameTicker.C:
			v.draw()
		}
	}
}

func (v *viewer) draw() {
	m := v.runner.Manager
	if m.Dirty() {
		v.overlay = m.Overlay()
	}
	v.renderer.Draw(v.overlay, render.Status{
		Tick:    v.clock.Ticks(),
		Cursor:  v.cursor,
		Muted:   v.cues.Muted(),
		Message: v.message,
	})
}

func (v *viewer) handleInput(ev tcell.Event) bool {
	w, h := v.runner.Manager.Size()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			v.moveCursor(0, -1, w, h)
		case tcell.KeyDown:
			v.moveCursor(0, 1, w, h)
		case tcell.KeyLeft:
			v.moveCursor(-1, 0, w, h)
		case tcell.KeyRight:
			v.moveCursor(1, 0, w, h)
		case tcell.KeyRune:
			switch ev.Rune() {
			case ' ':
				v.toggle(v.cursor)
			case 'm':
				v.cues.SetMuted(!v.cues.Muted())
			case 'p':
				v.paused = !v.paused
				if v.paused {
					v.message = "paused"
				} else {
					v.message = ""
				}
			case 'q':
				return false
			}
		}

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 == 0 {
			return true
		}
		sx, sy := ev.Position()
		if p, ok := v.renderer.CellAt(sx, sy, w, h); ok {
			v.cursor = p
			v.toggle(p)
		}

	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *viewer) moveCursor(dx, dy, w, h int) {
	p := v.cursor.Add(dx, dy)
	if p.X < 0 || p.Y < 0 || p.X >= w || p.Y >= h {
		return
	}
	v.cursor = p
}

// toggle flips terrain at p, the repair runs on the next simulation tick
func (v *viewer) toggle(p core.Point) {
	world := v.runner.World
	if err := world.SetTerrain(p, !world.TerrainBlocked(p)); err != nil {
		v.message = err.Error()
		return
	}
	v.message = ""
	if v.paused {
		// Paused clocks do not tick
		if err := v.runner.Manager.Tick(v.clock.Ticks()); err != nil {
			v.message = err.Error()
		}
	}
}
