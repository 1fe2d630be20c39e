package common

import "github.com/jakecoffman/cp"

type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) BB() cp.BB {
	return cp.BB{L: r.X, B: r.Y, R: r.X + r.Width, T: r.Y + r.Height}
}

// IntersectsCircle reports whether the circle at (cx, cy) with radius r
// touches the rectangle. Edges count as touching.
func (r Rect) IntersectsCircle(cx, cy, radius float64) bool {
	return cp.NewBBForCircle(cp.Vector{X: cx, Y: cy}, radius).Intersects(r.BB())
}

func (r Rect) Contains(x, y float64) bool {
	return r.BB().ContainsVect(cp.Vector{X: x, Y: y})
}
