// Package canvas defines the 2D drawing contract the sky is rendered onto.
//
// A Surface is deliberately small: clear, composite mode, filled circles and
// stroked quadratic curves, each painted with a solid color or a gradient.
// Anything that can evaluate a Paint at a point can back it; render.Screen
// does so with ebiten, Recorder does so in memory.
package canvas

import (
	"errors"
	"fmt"

	"github.com/milk9111/nightsky/common"
)

var (
	ErrInvalidGeometry = errors.New("canvas: invalid geometry")
	ErrNilPaint        = errors.New("canvas: paint is nil")
	ErrStopOffset      = errors.New("canvas: color stop offset out of range")
)

// Composite selects how new pixels combine with what is already drawn.
type Composite int

const (
	CompositeSourceOver Composite = iota
	// CompositeLighter adds source and destination, used for overlapping glows.
	CompositeLighter
)

func (c Composite) String() string {
	switch c {
	case CompositeSourceOver:
		return "source-over"
	case CompositeLighter:
		return "lighter"
	default:
		return fmt.Sprintf("composite(%d)", int(c))
	}
}

// Surface is a drawing target with dynamically readable bounds.
type Surface interface {
	Size() (w, h float64)
	Clear()
	SetComposite(op Composite)
	Composite() Composite
	FillCircle(cx, cy, r float64, p Paint) error
	StrokeQuad(x0, y0, cx, cy, x1, y1, width float64, p Paint) error
}

// CheckCircle validates FillCircle arguments the way every Surface should.
func CheckCircle(cx, cy, r float64, p Paint) error {
	if p == nil {
		return ErrNilPaint
	}
	if !finite(cx, cy, r) || r <= 0 {
		return fmt.Errorf("%w: circle (%v, %v) r=%v", ErrInvalidGeometry, cx, cy, r)
	}
	return nil
}

// CheckQuad validates StrokeQuad arguments.
func CheckQuad(x0, y0, cx, cy, x1, y1, width float64, p Paint) error {
	if p == nil {
		return ErrNilPaint
	}
	if !finite(x0, y0, cx, cy, x1, y1, width) || width <= 0 {
		return fmt.Errorf("%w: quad (%v, %v)->(%v, %v) width=%v", ErrInvalidGeometry, x0, y0, x1, y1, width)
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if !common.IsFinite(v) {
			return false
		}
	}
	return true
}
