package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/nightsky/obj"
)

const hudSample = 500 * time.Millisecond

// HUD samples frame statistics on the scheduler and prints them in debug
// mode.
type HUD struct {
	sky *obj.Sky

	elapsed    time.Duration
	lastFrames uint64
	skyFPS     float64
}

func NewHUD(sky *obj.Sky) *HUD {
	return &HUD{sky: sky}
}

func (h *HUD) Advance(dt time.Duration) {
	h.elapsed += dt
	if h.elapsed < hudSample {
		return
	}
	frames := h.sky.Frames()
	h.skyFPS = float64(frames-h.lastFrames) / h.elapsed.Seconds()
	h.lastFrames = frames
	h.elapsed = 0
}

func (h *HUD) Draw(screen *ebiten.Image, extra ...string) {
	comet := h.sky.Comet()
	lines := []string{
		fmt.Sprintf("TPS: %.1f    FPS: %.1f    sky: %.1f", ebiten.ActualTPS(), ebiten.ActualFPS(), h.skyFPS),
		fmt.Sprintf("stars: %d    mode: %s    progress: %.2f", len(h.sky.Stars()), comet.Mode(), comet.Progress()),
	}
	if script := h.sky.WanderScript(); script != "" {
		lines = append(lines, "wander: "+script)
	}
	lines = append(lines, extra...)
	ebitenutil.DebugPrint(screen, strings.Join(lines, "\n"))
}
