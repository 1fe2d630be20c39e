package obj

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/milk9111/nightsky/canvas"
	"github.com/milk9111/nightsky/common"
	"github.com/milk9111/nightsky/prefabs"
	"github.com/rs/zerolog"
)

// Sky owns the star field and the comet, and paces frames.
type Sky struct {
	spec   prefabs.SkySpec
	width  float64
	height float64

	stars     []*Star
	comet     *Comet
	tentacles *Tentacles
	script    string

	interval   time.Duration
	lastRender time.Time
	frames     uint64

	rand *rand.Rand
	now  func() time.Time
	base zerolog.Logger
	log  zerolog.Logger
}

type SkyOption func(*Sky)

func WithLogger(log zerolog.Logger) SkyOption {
	return func(s *Sky) { s.base = log }
}

func WithRand(rng *rand.Rand) SkyOption {
	return func(s *Sky) {
		if rng != nil {
			s.rand = rng
		}
	}
}

func WithClock(now func() time.Time) SkyOption {
	return func(s *Sky) {
		if now != nil {
			s.now = now
		}
	}
}

func NewSky(spec prefabs.SkySpec, opts ...SkyOption) (*Sky, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	s := &Sky{
		spec:     spec,
		width:    spec.Width,
		height:   spec.Height,
		interval: spec.FrameInterval(),
		rand:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:      time.Now,
		base:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.base.With().Str("component", "sky").Logger()

	s.tentacles = NewTentacles(spec.Tentacles, s.rand)
	s.tentacles.SetClock(s.now)
	s.comet = NewComet(spec.Comet, s, s.tentacles)
	s.comet.SetLogger(s.base)
	s.comet.SetUniformSource(s.rand)
	s.comet.SetClock(s.now)

	if spec.Comet.WanderScript != "" {
		if err := s.SetWanderScript(spec.Comet.WanderScript); err != nil {
			s.log.Warn().Err(err).Msg("wander script unavailable, using uniform waypoints")
		}
	}

	s.Regenerate()
	return s, nil
}

// Size implements Sizer for the comet; it always reflects the latest Resize.
func (s *Sky) Size() (float64, float64) {
	return s.width, s.height
}

func (s *Sky) Bounds() common.Rect {
	return common.Rect{Width: s.width, Height: s.height}
}

// Regenerate replaces the whole star field and lends the new slice out.
func (s *Sky) Regenerate() {
	field := s.spec.Stars
	stars := make([]*Star, field.Count)
	bounds := s.Bounds()
	for i := range stars {
		stars[i] = RandomStar(s.rand, bounds, field)
	}
	s.stars = stars
	s.comet.SetStars(stars)
	s.log.Debug().Int("stars", len(stars)).Float64("width", s.width).Float64("height", s.height).Msg("star field generated")
}

// Resize updates the bounds and regenerates the field. Unchanged or invalid
// sizes are ignored.
func (s *Sky) Resize(w, h float64) {
	if !common.IsFinite(w) || !common.IsFinite(h) || w <= 0 || h <= 0 {
		return
	}
	if w == s.width && h == s.height {
		return
	}
	s.width, s.height = w, h
	s.Regenerate()
}

// Tick renders one frame onto surface if at least one frame interval has
// passed since the last render, and reports whether it did. The surface's
// size is adopted first so bounds follow the window.
func (s *Sky) Tick(surface canvas.Surface, now time.Time) bool {
	switch {
	case s.lastRender.IsZero() || s.interval <= 0:
		s.lastRender = now
	default:
		elapsed := now.Sub(s.lastRender)
		if elapsed <= s.interval {
			return false
		}
		s.lastRender = now.Add(-(elapsed % s.interval))
	}

	s.Resize(surface.Size())

	surface.Clear()
	surface.SetComposite(canvas.CompositeLighter)

	bounds := s.Bounds()
	for i, star := range s.stars {
		if !star.IsVisible(bounds) {
			continue
		}
		star.Update()
		if err := star.Draw(surface); err != nil {
			s.log.Error().Err(err).Int("star", i).Msg("star draw failed")
		}
	}

	s.comet.Draw(surface)
	surface.SetComposite(canvas.CompositeSourceOver)
	s.frames++
	return true
}

// Stars is the current field. Callers must not modify or keep it across a
// Regenerate.
func (s *Sky) Stars() []*Star {
	return s.stars
}

func (s *Sky) Comet() *Comet {
	return s.comet
}

func (s *Sky) Spec() prefabs.SkySpec {
	return s.spec
}

func (s *Sky) Frames() uint64 {
	return s.frames
}

// ApplySpec swaps in reloaded tuning. Changes to the star field regenerate
// it; window size is left to Resize.
func (s *Sky) ApplySpec(spec prefabs.SkySpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	prev := s.spec
	s.spec = spec
	s.interval = spec.FrameInterval()
	s.comet.Configure(spec.Comet)
	s.tentacles.Configure(spec.Tentacles)
	if gen, ok := s.comet.waypoints.(*ScriptWaypoints); ok {
		gen.Padding = spec.Comet.Padding
	}

	var errs []error
	if spec.Comet.WanderScript != prev.Comet.WanderScript {
		errs = append(errs, s.SetWanderScript(spec.Comet.WanderScript))
	}
	if spec.Stars != prev.Stars {
		s.Regenerate()
	}
	s.log.Info().Str("name", spec.Name).Msg("sky spec applied")
	return errors.Join(errs...)
}

// SetWanderScript switches autonomous paths to the named tengo script, or
// back to uniform waypoints for "". On failure the uniform generator stays in
// place and the name is remembered, so fixing the file picks it up.
func (s *Sky) SetWanderScript(name string) error {
	name = strings.TrimSuffix(name, ".tengo")
	if name == "" {
		s.script = ""
		s.comet.SetWaypoints(nil)
		return nil
	}
	s.script = name

	src, err := prefabs.LoadScript(name)
	if err != nil {
		s.comet.SetWaypoints(nil)
		return fmt.Errorf("load wander script %s: %w", name, err)
	}
	gen, err := NewScriptWaypoints(name, src, s.spec.Comet.Padding, s.rand, s.base)
	if err != nil {
		s.comet.SetWaypoints(nil)
		return err
	}
	gen.Fallback = s.comet.uniform
	s.comet.SetWaypoints(gen)
	s.log.Info().Str("script", name).Msg("wander script loaded")
	return nil
}

// ReloadScript recompiles the active wander script when file names it.
func (s *Sky) ReloadScript(file string) {
	name := strings.TrimSuffix(file, ".tengo")
	if s.script == "" || name != s.script {
		return
	}
	if err := s.SetWanderScript(name); err != nil {
		s.log.Error().Err(err).Msg("wander script reload failed")
	}
}

func (s *Sky) WanderScript() string {
	return s.script
}
