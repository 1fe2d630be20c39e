// Package render backs canvas.Surface with an ebiten image.
package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightsky/canvas"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Screen draws canvas operations as colored triangle meshes on Target. Each
// vertex carries the paint sampled at its position, so gradients come out of
// the GPU's color interpolation.
type Screen struct {
	Target     *ebiten.Image
	Background color.Color

	composite canvas.Composite
	mesh      canvas.Mesh
	vertices  []ebiten.Vertex
}

func NewScreen(target *ebiten.Image, background color.Color) *Screen {
	if background == nil {
		background = color.Black
	}
	return &Screen{Target: target, Background: background}
}

func (s *Screen) Size() (float64, float64) {
	if s.Target == nil {
		return 0, 0
	}
	b := s.Target.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s *Screen) Clear() {
	s.Target.Fill(s.Background)
}

func (s *Screen) SetComposite(op canvas.Composite) {
	s.composite = op
}

func (s *Screen) Composite() canvas.Composite {
	return s.composite
}

func (s *Screen) FillCircle(cx, cy, r float64, p canvas.Paint) error {
	if err := canvas.CheckCircle(cx, cy, r, p); err != nil {
		return err
	}
	canvas.FanMesh(&s.mesh, cx, cy, r, p)
	s.flush()
	return nil
}

func (s *Screen) StrokeQuad(x0, y0, cx, cy, x1, y1, width float64, p canvas.Paint) error {
	if err := canvas.CheckQuad(x0, y0, cx, cy, x1, y1, width, p); err != nil {
		return err
	}
	canvas.StrokeMesh(&s.mesh, cp.Vector{X: x0, Y: y0}, cp.Vector{X: cx, Y: cy}, cp.Vector{X: x1, Y: y1}, width, p)
	s.flush()
	return nil
}

func (s *Screen) flush() {
	s.vertices = s.vertices[:0]
	for i, pt := range s.mesh.Points {
		c := s.mesh.Colors[i]
		s.vertices = append(s.vertices, ebiten.Vertex{
			DstX:   float32(pt.X),
			DstY:   float32(pt.Y),
			SrcX:   1,
			SrcY:   1,
			ColorR: float32(c.R) / 0xff,
			ColorG: float32(c.G) / 0xff,
			ColorB: float32(c.B) / 0xff,
			ColorA: float32(c.A) / 0xff,
		})
	}

	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	if s.composite == canvas.CompositeLighter {
		op.Blend = ebiten.BlendLighter
	} else {
		op.Blend = ebiten.BlendSourceOver
	}
	s.Target.DrawTriangles(s.vertices, s.mesh.Indices, whiteSubImage, op)
}
