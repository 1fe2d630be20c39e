package canvas

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Paint yields the color to use at a surface point.
type Paint interface {
	ColorAt(x, y float64) color.NRGBA
}

// Solid paints every point with the same color.
type Solid color.NRGBA

func (s Solid) ColorAt(_, _ float64) color.NRGBA {
	return color.NRGBA(s)
}

// RGBA builds a straight-alpha color from 8-bit channels and an alpha in [0,1].
func RGBA(r, g, b uint8, alpha float64) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: alphaByte(alpha)}
}

// WithAlpha returns c with its alpha replaced by alpha in [0,1].
func WithAlpha(c color.Color, alpha float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = alphaByte(alpha)
	return n
}

func alphaByte(alpha float64) uint8 {
	if alpha != alpha || alpha <= 0 {
		return 0
	}
	if alpha >= 1 {
		return 255
	}
	return uint8(math.Round(alpha * 255))
}

type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// Gradient is an ordered list of color stops over [0,1].
type Gradient struct {
	stops []Stop
}

// AddColorStop inserts a stop, keeping stops ordered by offset. Stops with
// equal offsets keep insertion order.
func (g *Gradient) AddColorStop(offset float64, c color.NRGBA) error {
	if offset != offset || offset < 0 || offset > 1 {
		return fmt.Errorf("%w: %v", ErrStopOffset, offset)
	}
	g.stops = append(g.stops, Stop{Offset: offset, Color: c})
	sort.SliceStable(g.stops, func(i, j int) bool {
		return g.stops[i].Offset < g.stops[j].Offset
	})
	return nil
}

// MustAddColorStops adds stops in order and panics on an offset outside
// [0,1]. Use it for stops whose offsets are fixed in code.
func (g *Gradient) MustAddColorStops(stops ...Stop) {
	for _, st := range stops {
		if err := g.AddColorStop(st.Offset, st.Color); err != nil {
			panic(err)
		}
	}
}

func (g *Gradient) Stops() []Stop {
	out := make([]Stop, len(g.stops))
	copy(out, g.stops)
	return out
}

// At evaluates the gradient at t, clamped to [0,1]. A gradient without stops
// is transparent black.
func (g *Gradient) At(t float64) color.NRGBA {
	if len(g.stops) == 0 {
		return color.NRGBA{}
	}
	if t != t || t <= g.stops[0].Offset {
		return g.stops[0].Color
	}
	last := g.stops[len(g.stops)-1]
	if t >= last.Offset {
		return last.Color
	}

	for i := 1; i < len(g.stops); i++ {
		hi := g.stops[i]
		if t > hi.Offset {
			continue
		}
		lo := g.stops[i-1]
		span := hi.Offset - lo.Offset
		if span <= 0 {
			return hi.Color
		}
		return blend(lo.Color, hi.Color, (t-lo.Offset)/span)
	}
	return last.Color
}

func blend(a, b color.NRGBA, t float64) color.NRGBA {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	r, g, bl := ca.BlendRgb(cb, t).Clamped().RGB255()
	alpha := float64(a.A) + (float64(b.A)-float64(a.A))*t
	return color.NRGBA{R: r, G: g, B: bl, A: uint8(math.Round(alpha))}
}

// LinearGradient varies along the axis from (X0, Y0) to (X1, Y1).
type LinearGradient struct {
	Gradient
	X0, Y0 float64
	X1, Y1 float64
}

func NewLinearGradient(x0, y0, x1, y1 float64) *LinearGradient {
	return &LinearGradient{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

func (l *LinearGradient) ColorAt(x, y float64) color.NRGBA {
	dx := l.X1 - l.X0
	dy := l.Y1 - l.Y0
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return l.At(0)
	}
	return l.At(((x-l.X0)*dx + (y-l.Y0)*dy) / lenSq)
}

// RadialGradient varies with distance from (X, Y), from R0 to R1.
type RadialGradient struct {
	Gradient
	X, Y   float64
	R0, R1 float64
}

func NewRadialGradient(x, y, r0, r1 float64) *RadialGradient {
	return &RadialGradient{X: x, Y: y, R0: r0, R1: r1}
}

func (r *RadialGradient) ColorAt(x, y float64) color.NRGBA {
	span := r.R1 - r.R0
	if span <= 0 {
		return r.At(1)
	}
	d := math.Hypot(x-r.X, y-r.Y)
	return r.At((d - r.R0) / span)
}
