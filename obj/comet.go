package obj

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightsky/canvas"
	"github.com/milk9111/nightsky/common"
	"github.com/milk9111/nightsky/loop"
	"github.com/milk9111/nightsky/prefabs"
	"github.com/rs/zerolog"
	"golang.org/x/image/colornames"
)

type Mode int

const (
	ModePointerTracking Mode = iota
	ModeAutonomous
)

func (m Mode) String() string {
	switch m {
	case ModePointerTracking:
		return "pointer"
	case ModeAutonomous:
		return "autonomous"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Sizer reports the current drawing bounds. It is consulted on every update,
// never cached.
type Sizer interface {
	Size() (w, h float64)
}

// Waypoint is one autonomous leg: the comet's target eases from Start to
// Target over the path duration.
type Waypoint struct {
	Target    cp.Vector
	Start     cp.Vector
	StartedAt time.Time
}

// Comet is the glowing head that follows the pointer and wanders on its own
// once the pointer goes quiet.
type Comet struct {
	LightSize     float64
	GlowSize      float64
	Smoothing     float64
	IdleThreshold time.Duration
	PathDuration  time.Duration

	current cp.Vector
	target  cp.Vector

	mode           Mode
	lastInput      time.Time
	lastPathUpdate time.Time
	progress       float64
	waypoint       Waypoint
	legs           int

	bounds    Sizer
	tentacles *Tentacles
	waypoints WaypointGenerator
	uniform   *UniformWaypoints
	pointer   loop.PointerQueue

	now func() time.Time
	log zerolog.Logger
}

// NewComet starts the comet at the centre of bounds in pointer tracking mode.
// A nil tentacles disables links.
func NewComet(spec prefabs.CometSpec, bounds Sizer, tentacles *Tentacles) *Comet {
	c := &Comet{
		bounds:    bounds,
		tentacles: tentacles,
		uniform:   NewUniformWaypoints(spec.Padding, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))),
		now:       time.Now,
		log:       zerolog.Nop(),
	}
	c.waypoints = c.uniform
	c.Configure(spec)

	w, h := bounds.Size()
	c.current = cp.Vector{X: w / 2, Y: h / 2}
	c.target = c.current
	c.lastInput = c.now()
	return c
}

// Configure applies tuning without touching position or mode.
func (c *Comet) Configure(spec prefabs.CometSpec) {
	c.LightSize = spec.LightSize
	c.GlowSize = spec.GlowSize
	c.Smoothing = spec.Smoothing
	c.IdleThreshold = spec.IdleThreshold
	c.PathDuration = spec.PathDuration
	c.uniform.Padding = spec.Padding
}

// SetClock swaps the time source and restarts the idle timer against it.
func (c *Comet) SetClock(now func() time.Time) {
	if now == nil {
		return
	}
	c.now = now
	c.lastInput = now()
	c.lastPathUpdate = c.lastInput
}

func (c *Comet) SetLogger(log zerolog.Logger) {
	c.log = log.With().Str("component", "comet").Logger()
}

// SetWaypoints replaces the autonomous path generator. nil restores the
// uniform generator.
func (c *Comet) SetWaypoints(gen WaypointGenerator) {
	if gen == nil {
		gen = c.uniform
	}
	c.waypoints = gen
}

// SetUniformSource reseeds the uniform generator, which also serves as the
// fallback for scripted paths.
func (c *Comet) SetUniformSource(rng *rand.Rand) {
	if rng != nil {
		c.uniform.Rand = rng
	}
}

func (c *Comet) SetStars(stars []*Star) {
	if c.tentacles != nil {
		c.tentacles.SetStars(stars)
	}
}

func (c *Comet) Tentacles() *Tentacles {
	return c.tentacles
}

// PointerMoved queues a pointer position. It is safe to call from any
// goroutine; the event takes effect at the start of the next UpdatePosition.
func (c *Comet) PointerMoved(x, y float64) {
	c.pointer.Push(loop.PointerEvent{X: x, Y: y, At: c.now()})
}

// SetTarget overwrites the target. Non-finite coordinates are ignored field
// by field.
func (c *Comet) SetTarget(x, y float64) {
	if common.IsFinite(x) {
		c.target.X = x
	}
	if common.IsFinite(y) {
		c.target.Y = y
	}
}

func (c *Comet) drainPointer() {
	for _, evt := range c.pointer.Drain() {
		if !common.IsFinite(evt.X) && !common.IsFinite(evt.Y) {
			continue
		}
		c.SetTarget(evt.X, evt.Y)
		c.lastInput = evt.At
		c.mode = ModePointerTracking
		c.progress = 0
	}
}

// UpdatePosition advances the comet by one frame: pending pointer input, then
// the idle and autonomous path logic, then smoothing toward the target, then
// clamping to the current bounds.
func (c *Comet) UpdatePosition() {
	now := c.now()
	c.drainPointer()

	if c.mode == ModePointerTracking && now.Sub(c.lastInput) > c.IdleThreshold {
		c.mode = ModeAutonomous
		c.legs = 0
		c.progress = 0
		c.lastPathUpdate = now
		c.startLeg(c.target, now)
		c.log.Debug().Dur("idle", now.Sub(c.lastInput)).Msg("pointer idle, wandering")
	}

	if c.mode == ModeAutonomous {
		c.advancePath(now)
	}

	if common.IsFinite(c.target.X) && common.IsFinite(c.target.Y) {
		c.current = c.current.Add(c.target.Sub(c.current).Mult(c.Smoothing))
	}

	c.clamp()
}

func (c *Comet) advancePath(now time.Time) {
	if c.PathDuration > 0 {
		c.progress += float64(now.Sub(c.lastPathUpdate)) / float64(c.PathDuration)
	} else {
		c.progress = 1
	}
	c.lastPathUpdate = now

	if c.progress >= 1 {
		finished := c.waypoint.Target
		c.legs++
		c.progress = 0
		c.startLeg(finished, now)
	}

	e := common.EaseInOutCubic(c.progress)
	c.target = cp.Vector{
		X: cp.Lerp(c.waypoint.Start.X, c.waypoint.Target.X, e),
		Y: cp.Lerp(c.waypoint.Start.Y, c.waypoint.Target.Y, e),
	}
}

func (c *Comet) startLeg(anchor cp.Vector, now time.Time) {
	w, h := c.size()
	next := c.waypoints.Next(w, h, anchor, c.legs)
	if !common.IsFinite(next.X) || !common.IsFinite(next.Y) {
		next = c.uniform.Next(w, h, anchor, c.legs)
	}
	next.X = cp.Clamp(next.X, 0, w)
	next.Y = cp.Clamp(next.Y, 0, h)

	c.waypoint = Waypoint{Target: next, Start: anchor, StartedAt: now}
}

func (c *Comet) size() (float64, float64) {
	w, h := c.bounds.Size()
	if !common.IsFinite(w) || w < 0 {
		w = 0
	}
	if !common.IsFinite(h) || h < 0 {
		h = 0
	}
	return w, h
}

func (c *Comet) clamp() {
	w, h := c.size()
	c.current.X = cp.Clamp(c.current.X, 0, w)
	c.current.Y = cp.Clamp(c.current.Y, 0, h)
}

// Draw updates the comet and paints its glow and links. Surface failures are
// logged and swallowed so one bad frame never stops the loop.
func (c *Comet) Draw(surface canvas.Surface) {
	c.UpdatePosition()
	if err := c.render(surface); err != nil {
		c.log.Error().Err(err).Msg("comet draw failed")
	}
}

func (c *Comet) render(surface canvas.Surface) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("comet: surface panic: %v", r)
		}
	}()

	var errs []error
	pos := c.current

	glow := canvas.NewRadialGradient(pos.X, pos.Y, 0, c.GlowSize)
	glow.MustAddColorStops(
		canvas.Stop{Offset: 0, Color: canvas.WithAlpha(colornames.Skyblue, 0.8)},
		canvas.Stop{Offset: 1, Color: canvas.WithAlpha(colornames.Skyblue, 0)},
	)
	if err := surface.FillCircle(pos.X, pos.Y, c.GlowSize, glow); err != nil {
		errs = append(errs, fmt.Errorf("glow: %w", err))
	}

	core := canvas.NewRadialGradient(pos.X, pos.Y, 0, c.LightSize)
	core.MustAddColorStops(
		canvas.Stop{Offset: 0, Color: canvas.WithAlpha(colornames.White, 1)},
		canvas.Stop{Offset: 0.5, Color: canvas.WithAlpha(colornames.Skyblue, 0.8)},
		canvas.Stop{Offset: 1, Color: canvas.WithAlpha(colornames.Skyblue, 0.1)},
	)
	if err := surface.FillCircle(pos.X, pos.Y, c.LightSize, core); err != nil {
		errs = append(errs, fmt.Errorf("core: %w", err))
	}

	if c.tentacles != nil {
		links := c.tentacles.FindNearest(&pos)
		if err := c.tentacles.DrawLinks(surface, &pos, links); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Comet) Position() cp.Vector { return c.current }
func (c *Comet) Target() cp.Vector   { return c.target }
func (c *Comet) Mode() Mode          { return c.mode }
func (c *Comet) Progress() float64   { return c.progress }
func (c *Comet) Waypoint() Waypoint  { return c.waypoint }
func (c *Comet) Legs() int           { return c.legs }
