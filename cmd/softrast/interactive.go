package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/models"
	"github.com/taigrr/softrast/pkg/render"
)

const (
	spinImpulse = 0.05 // Radians per frame added per key press
	dollyStep   = 0.9  // Distance factor per +/- press
	minDistance = 1.0
	maxDistance = 1000.0
)

// runInteractive draws the mesh into the terminal until Esc or Ctrl+C. Each
// cell shows two pixels, so the framebuffer is twice as tall as the screen.
func runInteractive(mesh *models.Mesh, cfg render.Config, v view) error {
	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	r, err := newRenderer(cols, rows*2, cfg, v)
	if err != nil {
		return err
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
		logStats(r)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Input is handled on the frame loop, so the renderer is never touched
	// from two goroutines.
	events := make(chan uv.Event)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	up := v.up.Normalize()
	offset := v.eye.Sub(v.target)
	distance := offset.Len()
	toEye := offset.Scale(1 / distance)
	right := up.Cross(toEye.Negate()).Normalize()
	if right.LenSq() == 0 {
		right = math3d.V3(1, 0, 0)
	}

	spin := newSpinState(*targetFPS)
	wire := cfg.Wireframe

	ticker := time.NewTicker(time.Second / time.Duration(*targetFPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				cols, rows = ev.Width, ev.Height
				term.Erase()
				term.Resize(cols, rows)
				if err := r.Resize(cols, rows*2); err != nil {
					slog.Debug("resize skipped", "cols", cols, "rows", rows, "err", err)
				}

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					return nil
				case ev.MatchString("w", "up"):
					spin.push(-spinImpulse, 0)
				case ev.MatchString("s", "down"):
					spin.push(spinImpulse, 0)
				case ev.MatchString("a", "left"):
					spin.push(0, -spinImpulse)
				case ev.MatchString("d", "right"):
					spin.push(0, spinImpulse)
				case ev.MatchString("r"):
					spin.reset()
				case ev.MatchString("+", "="):
					distance = math.Max(minDistance, distance*dollyStep)
				case ev.MatchString("-", "_"):
					distance = math.Min(maxDistance, distance/dollyStep)
				case ev.MatchString("x"):
					wire = !wire
					r.SetWireframe(wire)
				}
			}

		case <-ticker.C:
			spin.step()
			mesh.SetTransform(math3d.IdentityTransform().
				Then(math3d.Rotate(up, spin.Yaw.Angle)).
				Then(math3d.Rotate(right, spin.Pitch.Angle)).
				Scale(*modelScale))
			r.Camera().LookAt(v.target.Add(toEye.Scale(distance)), v.target, v.up)

			drawScene(r, mesh)
			r.Framebuffer().Draw(term, term.Bounds())
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
