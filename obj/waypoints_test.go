package obj

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightsky/prefabs"
	"github.com/rs/zerolog"
)

func TestUniformWaypointsInBounds(t *testing.T) {
	cases := []struct {
		name    string
		w, h    float64
		padding float64
	}{
		{"default", 800, 600, 100},
		{"no_padding", 300, 200, 0},
		{"narrower_than_padding", 60, 40, 100},
		{"degenerate", 0, 0, 100},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			gen := NewUniformWaypoints(c.padding, testRand())
			for i := 0; i < 1000; i++ {
				p := gen.Next(c.w, c.h, cp.Vector{}, i)
				if p.X < 0 || p.X > c.w || p.Y < 0 || p.Y > c.h {
					t.Fatalf("waypoint %v outside %vx%v", p, c.w, c.h)
				}
				if c.w >= 2*c.padding && (p.X < c.padding || p.X > c.w-c.padding) {
					t.Fatalf("waypoint x %v ignores padding %v", p.X, c.padding)
				}
			}
		})
	}
}

func TestScriptWaypoints(t *testing.T) {
	for _, name := range []string{"drift", "orbit"} {
		t.Run(name, func(t *testing.T) {
			src, err := prefabs.LoadScript(name)
			if err != nil {
				t.Fatalf("LoadScript: %v", err)
			}
			gen, err := NewScriptWaypoints(name, src, 100, testRand(), zerolog.Nop())
			if err != nil {
				t.Fatalf("NewScriptWaypoints: %v", err)
			}

			prev := cp.Vector{X: 400, Y: 300}
			for leg := 0; leg < 100; leg++ {
				p := gen.Next(800, 600, prev, leg)
				if p.X < 0 || p.X > 800 || p.Y < 0 || p.Y > 600 {
					t.Fatalf("leg %d: waypoint %v outside the sky", leg, p)
				}
				prev = p
			}
		})
	}
}

func TestScriptWaypointsCompileError(t *testing.T) {
	_, err := NewScriptWaypoints("broken", []byte("x = ("), 100, testRand(), zerolog.Nop())
	if err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestScriptWaypointsFallback(t *testing.T) {
	var buf bytes.Buffer
	src := []byte(`x = 1 / (leg - leg)`)
	gen, err := NewScriptWaypoints("divide", src, 10, testRand(), zerolog.New(&buf))
	if err != nil {
		t.Fatalf("NewScriptWaypoints: %v", err)
	}

	p := gen.Next(200, 100, cp.Vector{}, 3)
	if p.X < 10 || p.X > 190 || p.Y < 10 || p.Y > 90 {
		t.Fatalf("fallback waypoint %v outside padded bounds", p)
	}
	if !strings.Contains(buf.String(), "using fallback") {
		t.Fatalf("expected fallback to be logged, got %q", buf.String())
	}
}
