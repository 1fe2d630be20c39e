package canvas

import (
	"image/color"
	"math"

	"github.com/jakecoffman/cp"
)

// Mesh is an indexed triangle list with a color per vertex, ready to be
// handed to a GPU backend.
type Mesh struct {
	Points  []cp.Vector
	Colors  []color.NRGBA
	Indices []uint16
}

func (m *Mesh) Reset() {
	m.Points = m.Points[:0]
	m.Colors = m.Colors[:0]
	m.Indices = m.Indices[:0]
}

func (m *Mesh) add(p cp.Vector, paint Paint) uint16 {
	m.Points = append(m.Points, p)
	m.Colors = append(m.Colors, paint.ColorAt(p.X, p.Y))
	return uint16(len(m.Points) - 1)
}

const (
	fanRings       = 8
	minSegments    = 12
	maxSegments    = 64
	minCurveSteps  = 8
	maxCurveSteps  = 48
	curveStepPixel = 6.0
)

// FanMesh tessellates a disc as concentric rings so radial paints get enough
// vertices to show their stops.
func FanMesh(m *Mesh, cx, cy, r float64, paint Paint) {
	m.Reset()
	segments := int(math.Ceil(2 * math.Pi * r / curveStepPixel))
	segments = max(minSegments, min(maxSegments, segments))

	center := m.add(cp.Vector{X: cx, Y: cy}, paint)
	for ring := 1; ring <= fanRings; ring++ {
		radius := r * float64(ring) / fanRings
		for i := 0; i < segments; i++ {
			a := 2 * math.Pi * float64(i) / float64(segments)
			m.add(cp.Vector{X: cx + math.Cos(a)*radius, Y: cy + math.Sin(a)*radius}, paint)
		}
	}

	ringStart := func(ring int) uint16 {
		return center + 1 + uint16((ring-1)*segments)
	}
	for i := 0; i < segments; i++ {
		next := (i + 1) % segments
		first := ringStart(1)
		m.Indices = append(m.Indices, center, first+uint16(i), first+uint16(next))
	}
	for ring := 2; ring <= fanRings; ring++ {
		inner := ringStart(ring - 1)
		outer := ringStart(ring)
		for i := 0; i < segments; i++ {
			next := (i + 1) % segments
			a, b := inner+uint16(i), inner+uint16(next)
			c, d := outer+uint16(i), outer+uint16(next)
			m.Indices = append(m.Indices, a, c, d, a, d, b)
		}
	}
}

// QuadPoint evaluates the quadratic Bezier p0→p2 with control p1 at t.
func QuadPoint(p0, p1, p2 cp.Vector, t float64) cp.Vector {
	u := 1 - t
	return p0.Mult(u * u).Add(p1.Mult(2 * u * t)).Add(p2.Mult(t * t))
}

// StrokeMesh tessellates a quadratic curve into a strip of the given width.
func StrokeMesh(m *Mesh, p0, p1, p2 cp.Vector, width float64, paint Paint) {
	m.Reset()
	length := p0.Distance(p1) + p1.Distance(p2)
	steps := int(math.Ceil(length / curveStepPixel))
	steps = max(minCurveSteps, min(maxCurveSteps, steps))

	half := width / 2
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		pt := QuadPoint(p0, p1, p2, t)
		normal := quadTangent(p0, p1, p2, t).Perp()
		if l := normal.Length(); l > 0 {
			normal = normal.Mult(half / l)
		}
		m.add(pt.Add(normal), paint)
		m.add(pt.Sub(normal), paint)
	}
	for i := 0; i < steps; i++ {
		a := uint16(2 * i)
		m.Indices = append(m.Indices, a, a+1, a+2, a+1, a+3, a+2)
	}
}

func quadTangent(p0, p1, p2 cp.Vector, t float64) cp.Vector {
	d := p1.Sub(p0).Mult(2 * (1 - t)).Add(p2.Sub(p1).Mult(2 * t))
	if d.LengthSq() == 0 {
		return p2.Sub(p0)
	}
	return d
}
