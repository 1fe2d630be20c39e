package obj

import (
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightsky/canvas"
	"github.com/milk9111/nightsky/common"
	"github.com/milk9111/nightsky/prefabs"
	"golang.org/x/image/colornames"
)

const (
	brightnessBase = 0.3
	brightnessAmp  = 0.35
	sizeBase       = 0.7
	sizeAmp        = 0.3
)

var starPalette = []color.RGBA{
	colornames.White,
	colornames.Floralwhite,
	colornames.Aliceblue,
	colornames.Oldlace,
}

// Star is a fixed point of light whose size and brightness pulse with its
// phase angle.
type Star struct {
	Pos      cp.Vector
	BaseSize float64
	Speed    float64
	Angle    float64
	Color    color.NRGBA

	// Size and Brightness are derived from Angle on every Update.
	Size       float64
	Brightness float64
}

func NewStar(pos cp.Vector, baseSize, speed, angle float64, c color.Color) *Star {
	s := &Star{
		Pos:      pos,
		BaseSize: baseSize,
		Speed:    speed,
		Angle:    angle,
		Color:    canvas.WithAlpha(c, 1),
	}
	s.refresh()
	return s
}

// RandomStar places a star uniformly inside bounds using the field's size and
// speed ranges.
func RandomStar(rng *rand.Rand, bounds common.Rect, field prefabs.StarFieldSpec) *Star {
	pos := cp.Vector{
		X: bounds.X + rng.Float64()*bounds.Width,
		Y: bounds.Y + rng.Float64()*bounds.Height,
	}
	size := field.MinSize + rng.Float64()*(field.MaxSize-field.MinSize)
	speed := field.MinSpeed + rng.Float64()*(field.MaxSpeed-field.MinSpeed)
	angle := rng.Float64() * 2 * math.Pi
	return NewStar(pos, size, speed, angle, starPalette[rng.IntN(len(starPalette))])
}

func (s *Star) Update() {
	s.Angle += s.Speed
	s.refresh()
}

func (s *Star) refresh() {
	wave := math.Sin(s.Angle) + 1
	s.Brightness = brightnessBase + wave*brightnessAmp
	s.Size = s.BaseSize * (sizeBase + wave*sizeAmp)
}

// BrightnessRange is the envelope Brightness oscillates in.
func BrightnessRange() (lo, hi float64) {
	return brightnessBase, brightnessBase + 2*brightnessAmp
}

// SizeRange is the envelope Size oscillates in.
func (s *Star) SizeRange() (lo, hi float64) {
	return s.BaseSize * sizeBase, s.BaseSize * (sizeBase + 2*sizeAmp)
}

func (s *Star) Draw(surface canvas.Surface) error {
	halo := canvas.NewRadialGradient(s.Pos.X, s.Pos.Y, 0, s.Size*3)
	halo.MustAddColorStops(
		canvas.Stop{Offset: 0, Color: canvas.WithAlpha(s.Color, s.Brightness)},
		canvas.Stop{Offset: 0.5, Color: canvas.WithAlpha(s.Color, s.Brightness*0.3)},
		canvas.Stop{Offset: 1, Color: canvas.WithAlpha(s.Color, 0)},
	)
	if err := surface.FillCircle(s.Pos.X, s.Pos.Y, s.Size*2, halo); err != nil {
		return err
	}

	core := canvas.Solid(canvas.WithAlpha(s.Color, math.Min(1, s.Brightness*1.5)))
	return surface.FillCircle(s.Pos.X, s.Pos.Y, s.Size*0.5, core)
}

func (s *Star) IsVisible(bounds common.Rect) bool {
	return bounds.IntersectsCircle(s.Pos.X, s.Pos.Y, s.Size)
}
