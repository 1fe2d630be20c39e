package obj

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightsky/canvas"
	"github.com/milk9111/nightsky/prefabs"
	"golang.org/x/image/colornames"
)

// Tentacles links a focal point to its nearest stars with undulating curves.
//
// FindNearest scans every star and sorts the matches, O(n log n) per call.
// That is fine for a few hundred stars at display rate; a denser field would
// want a spatial index.
type Tentacles struct {
	MaxLinks        int
	DetectionRadius float64
	WaveSpeed       float64
	WaveAmplitude   float64
	WaveSeed        float64
	Width           float64

	stars []*Star
	now   func() time.Time
}

func NewTentacles(spec prefabs.TentacleSpec, rng *rand.Rand) *Tentacles {
	t := &Tentacles{now: time.Now}
	t.Configure(spec)
	if rng != nil {
		t.WaveSeed = rng.Float64() * 2 * math.Pi
	}
	return t
}

func (t *Tentacles) Configure(spec prefabs.TentacleSpec) {
	t.MaxLinks = spec.MaxLinks
	t.DetectionRadius = spec.DetectionRadius
	t.WaveSpeed = spec.WaveSpeed
	t.WaveAmplitude = spec.WaveAmplitude
	t.Width = spec.Width
}

func (t *Tentacles) SetClock(now func() time.Time) {
	if now != nil {
		t.now = now
	}
}

// SetStars lends the star slice for the coming frames. The slice is read,
// never modified or retained beyond the next SetStars.
func (t *Tentacles) SetStars(stars []*Star) {
	t.stars = stars
}

type starDistance struct {
	star *Star
	dist float64
}

// FindNearest returns stars within DetectionRadius of focal, nearest first,
// at most MaxLinks of them. Equal distances keep the lent slice's order.
func (t *Tentacles) FindNearest(focal *cp.Vector) []*Star {
	if focal == nil || t.MaxLinks <= 0 {
		return nil
	}

	matches := make([]starDistance, 0, t.MaxLinks)
	for _, s := range t.stars {
		if s == nil {
			continue
		}
		d := math.Hypot(s.Pos.X-focal.X, s.Pos.Y-focal.Y)
		if d <= t.DetectionRadius {
			matches = append(matches, starDistance{star: s, dist: d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].dist < matches[j].dist
	})
	if len(matches) > t.MaxLinks {
		matches = matches[:t.MaxLinks]
	}

	out := make([]*Star, len(matches))
	for i, m := range matches {
		out[i] = m.star
	}
	return out
}

// ControlPoint is the curve control point for the index-th link at now: the
// midpoint pushed around a circle of WaveAmplitude, each index a radian out of
// phase with the previous one.
func (t *Tentacles) ControlPoint(focal, target cp.Vector, index int, now time.Time) cp.Vector {
	phase := (float64(now.UnixNano())/1e9+float64(index))*t.WaveSpeed + t.WaveSeed
	mid := focal.Lerp(target, 0.5)
	return cp.Vector{
		X: mid.X + math.Sin(phase)*t.WaveAmplitude,
		Y: mid.Y + math.Cos(phase)*t.WaveAmplitude,
	}
}

// DrawLinks strokes one curve per target with lighter compositing, then
// restores the surface's previous mode. A failing link does not stop the
// others; all failures are returned together.
func (t *Tentacles) DrawLinks(surface canvas.Surface, focal *cp.Vector, targets []*Star) error {
	if focal == nil || len(targets) == 0 {
		return nil
	}

	prev := surface.Composite()
	surface.SetComposite(canvas.CompositeLighter)
	defer surface.SetComposite(prev)
	now := t.now()

	var errs []error
	for i, star := range targets {
		if star == nil {
			continue
		}
		ctrl := t.ControlPoint(*focal, star.Pos, i, now)

		grad := canvas.NewLinearGradient(focal.X, focal.Y, star.Pos.X, star.Pos.Y)
		grad.MustAddColorStops(
			canvas.Stop{Offset: 0, Color: canvas.RGBA(255, 255, 255, 0.8)},
			canvas.Stop{Offset: 0.5, Color: canvas.WithAlpha(colornames.Skyblue, 0.5)},
			canvas.Stop{Offset: 1, Color: canvas.WithAlpha(colornames.Skyblue, 0.1)},
		)

		if err := surface.StrokeQuad(focal.X, focal.Y, ctrl.X, ctrl.Y, star.Pos.X, star.Pos.Y, t.Width, grad); err != nil {
			errs = append(errs, fmt.Errorf("tentacle %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
