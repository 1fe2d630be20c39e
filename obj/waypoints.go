package obj

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightsky/common"
	"github.com/rs/zerolog"
)

// WaypointGenerator picks the next autonomous destination on a w×h surface.
// prev is the waypoint just reached and leg counts completed legs.
type WaypointGenerator interface {
	Next(w, h float64, prev cp.Vector, leg int) cp.Vector
}

// UniformWaypoints picks points uniformly inside the surface inset by Padding.
type UniformWaypoints struct {
	Padding float64
	Rand    *rand.Rand
}

func NewUniformWaypoints(padding float64, rng *rand.Rand) *UniformWaypoints {
	return &UniformWaypoints{Padding: padding, Rand: rng}
}

func (u *UniformWaypoints) Next(w, h float64, _ cp.Vector, _ int) cp.Vector {
	return cp.Vector{
		X: paddedUniform(w, u.Padding, u.Rand.Float64()),
		Y: paddedUniform(h, u.Padding, u.Rand.Float64()),
	}
}

// paddedUniform maps r in [0,1) into [padding, extent-padding]. Surfaces
// narrower than twice the padding shrink the inset so the result stays in
// [0, extent].
func paddedUniform(extent, padding, r float64) float64 {
	extent = math.Max(extent, 0)
	pad := cp.Clamp(padding, 0, extent/2)
	return cp.Clamp(pad+r*(extent-2*pad), 0, extent)
}

const scriptBudget = 20 * time.Millisecond

// ScriptWaypoints delegates waypoint choice to a tengo script. The script sees
// width, height, padding, prev_x, prev_y, leg and two uniform randoms r1, r2,
// and assigns x and y. Script failures fall back to Fallback.
type ScriptWaypoints struct {
	Name     string
	Padding  float64
	Fallback WaypointGenerator

	compiled *tengo.Compiled
	rand     *rand.Rand
	log      zerolog.Logger
}

func NewScriptWaypoints(name string, src []byte, padding float64, rng *rand.Rand, log zerolog.Logger) (*ScriptWaypoints, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap("math"))
	script.SetMaxAllocs(4096)

	inputs := map[string]any{
		"width": 0.0, "height": 0.0, "padding": 0.0,
		"prev_x": 0.0, "prev_y": 0.0, "leg": 0,
		"r1": 0.0, "r2": 0.0,
		"x": 0.0, "y": 0.0,
	}
	for k, v := range inputs {
		if err := script.Add(k, v); err != nil {
			return nil, fmt.Errorf("waypoint script %s: add %s: %w", name, k, err)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("waypoint script %s: compile: %w", name, err)
	}

	return &ScriptWaypoints{
		Name:     name,
		Padding:  padding,
		Fallback: NewUniformWaypoints(padding, rng),
		compiled: compiled,
		rand:     rng,
		log:      log.With().Str("component", "waypoints").Str("script", name).Logger(),
	}, nil
}

func (s *ScriptWaypoints) Next(w, h float64, prev cp.Vector, leg int) cp.Vector {
	p, err := s.run(w, h, prev, leg)
	if err != nil {
		s.log.Error().Err(err).Msg("waypoint script failed, using fallback")
		return s.Fallback.Next(w, h, prev, leg)
	}
	return p
}

func (s *ScriptWaypoints) run(w, h float64, prev cp.Vector, leg int) (cp.Vector, error) {
	vars := map[string]any{
		"width": w, "height": h, "padding": s.Padding,
		"prev_x": prev.X, "prev_y": prev.Y, "leg": leg,
		"r1": s.rand.Float64(), "r2": s.rand.Float64(),
	}
	for k, v := range vars {
		if err := s.compiled.Set(k, v); err != nil {
			return cp.Vector{}, err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), scriptBudget)
	defer cancel()
	if err := s.compiled.RunContext(ctx); err != nil {
		return cp.Vector{}, err
	}

	p := cp.Vector{X: s.compiled.Get("x").Float(), Y: s.compiled.Get("y").Float()}
	if !common.IsFinite(p.X) || !common.IsFinite(p.Y) {
		return cp.Vector{}, fmt.Errorf("non-finite waypoint (%v, %v)", p.X, p.Y)
	}
	return p, nil
}
