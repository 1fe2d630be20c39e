package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/nightsky/loop"
	"github.com/milk9111/nightsky/obj"
	"github.com/milk9111/nightsky/prefabs"
	"github.com/milk9111/nightsky/render"
	"github.com/rs/zerolog"
	"golang.org/x/image/colornames"
)

var skyBackground = color.NRGBA{R: 0x04, G: 0x06, B: 0x14, A: 0xff}

type Options struct {
	Config   string
	Debug    bool
	Script   string
	LogLevel string
	Log      zerolog.Logger
}

// Game wires the sky, its scheduler and the overlays into ebiten's loop.
type Game struct {
	sky       *obj.Sky
	scheduler *loop.Scheduler
	watcher   *prefabs.Watcher
	hud       *HUD
	pauseUI   *ebitenui.UI

	canvas *ebiten.Image
	screen *render.Screen

	log        zerolog.Logger
	logLevel   string
	script     string
	debug      bool
	paused     bool
	quit       bool
	lastCursor image.Point
	lastUpdate time.Time
}

// NewGame is the composition root: it loads the spec and builds every
// component the frame loop touches.
func NewGame(opts Options) (*Game, error) {
	spec, err := prefabs.LoadSkySpec(opts.Config)
	if err != nil {
		return nil, err
	}
	if opts.Script != "" {
		spec.Comet.WanderScript = opts.Script
	}

	g := &Game{
		log:      opts.Log.With().Str("component", "game").Logger(),
		logLevel: opts.LogLevel,
		script:   opts.Script,
		debug:    opts.Debug,
	}
	g.applyLogLevel(spec.LogLevel)

	g.sky, err = obj.NewSky(spec, obj.WithLogger(opts.Log))
	if err != nil {
		return nil, err
	}
	g.screen = render.NewScreen(nil, skyBackground)
	g.hud = NewHUD(g.sky)

	g.scheduler, err = loop.NewScheduler(g.hud)
	if err != nil {
		return nil, err
	}

	g.watcher, err = prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
	if err != nil {
		g.log.Warn().Err(err).Str("dir", prefabs.Dir).Msg("hot reload disabled")
	} else {
		reloader := prefabs.NewReloader(opts.Config, g.watcher.Events, g.watcher.Errors, opts.Log)
		reloader.Apply = g.applySpec
		reloader.Script = g.sky.ReloadScript
		if err := g.scheduler.Add(reloader); err != nil {
			return nil, errors.Join(err, g.watcher.Close())
		}
	}

	g.pauseUI = NewPauseUI(g)
	g.scheduler.Start()

	g.log.Info().
		Int("stars", len(g.sky.Stars())).
		Str("wander", g.sky.WanderScript()).
		Dur("frame", spec.FrameInterval()).
		Msg("sky ready")
	return g, nil
}

func (g *Game) applySpec(spec prefabs.SkySpec) {
	if g.script != "" {
		spec.Comet.WanderScript = g.script
	}
	if err := g.sky.ApplySpec(spec); err != nil {
		g.log.Error().Err(err).Msg("spec reload partially failed")
	}
	g.applyLogLevel(spec.LogLevel)
}

// applyLogLevel sets the global level from the flag, falling back to the
// spec's value. Command line flags win over the file on every reload.
func (g *Game) applyLogLevel(fromSpec string) {
	name := g.logLevel
	if name == "" {
		name = fromSpec
	}
	if name == "" {
		return
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		g.log.Warn().Err(err).Str("level", name).Msg("unknown log level")
		return
	}
	zerolog.SetGlobalLevel(level)
}

func (g *Game) Close() error {
	g.scheduler.Stop()
	if g.watcher != nil {
		return g.watcher.Close()
	}
	return nil
}

func (g *Game) Update() error {
	now := time.Now()
	var dt time.Duration
	if !g.lastUpdate.IsZero() {
		dt = now.Sub(g.lastUpdate)
	}
	g.lastUpdate = now

	if g.quit {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}

	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.pollPointer()
	g.scheduler.Update(dt)
	return nil
}

// pollPointer forwards pointer movement to the comet. A cursor that stays put
// is not input, so the comet can go idle under a resting mouse.
func (g *Game) pollPointer() {
	var p image.Point
	if touches := ebiten.AppendTouchIDs(nil); len(touches) > 0 {
		p.X, p.Y = ebiten.TouchPosition(touches[0])
	} else {
		p.X, p.Y = ebiten.CursorPosition()
	}
	if p == g.lastCursor {
		return
	}
	g.lastCursor = p
	g.sky.Comet().PointerMoved(float64(p.X), float64(p.Y))
}

func (g *Game) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	if g.canvas == nil || g.canvas.Bounds() != b {
		if g.canvas != nil {
			g.canvas.Deallocate()
		}
		g.canvas = ebiten.NewImage(b.Dx(), b.Dy())
		g.screen.Target = g.canvas
	}

	if !g.paused {
		g.sky.Tick(g.screen, time.Now())
	}
	screen.DrawImage(g.canvas, nil)

	if g.debug {
		g.drawDebug(screen)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) drawDebug(screen *ebiten.Image) {
	comet := g.sky.Comet()
	pos := comet.Position()
	radius := comet.Tentacles().DetectionRadius
	vector.StrokeCircle(screen, float32(pos.X), float32(pos.Y), float32(radius), 1, colornames.Darkslategray, true)

	if comet.Mode() == obj.ModeAutonomous {
		wp := comet.Waypoint()
		vector.StrokeLine(screen, float32(wp.Start.X), float32(wp.Start.Y), float32(wp.Target.X), float32(wp.Target.Y), 1, colornames.Slategray, true)
		vector.StrokeCircle(screen, float32(wp.Target.X), float32(wp.Target.Y), 3, 2, colornames.Orange, true)
	}

	g.hud.Draw(screen, fmt.Sprintf("links: %d", len(comet.Tentacles().FindNearest(&pos))))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
