package obj

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/milk9111/nightsky/canvas"
	"github.com/milk9111/nightsky/prefabs"
)

func newTestSky(t *testing.T, mutate func(*prefabs.SkySpec)) (*Sky, *fakeClock) {
	t.Helper()
	spec := prefabs.DefaultSkySpec()
	if mutate != nil {
		mutate(&spec)
	}
	clock := newFakeClock()
	sky, err := NewSky(spec, WithClock(clock.Now), WithRand(testRand()))
	if err != nil {
		t.Fatalf("NewSky: %v", err)
	}
	return sky, clock
}

func TestNewSkyRejectsInvalidSpec(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*prefabs.SkySpec)
	}{
		{"smoothing", func(s *prefabs.SkySpec) { s.Comet.Smoothing = 1.5 }},
		{"inf_width", func(s *prefabs.SkySpec) { s.Width = math.Inf(1) }},
		{"inf_glow", func(s *prefabs.SkySpec) { s.Comet.GlowSize = math.Inf(1) }},
		{"nan_radius", func(s *prefabs.SkySpec) { s.Tentacles.DetectionRadius = math.NaN() }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec := prefabs.DefaultSkySpec()
			c.mutate(&spec)
			if _, err := NewSky(spec); !errors.Is(err, prefabs.ErrInvalidSpec) {
				t.Fatalf("err = %v, want ErrInvalidSpec", err)
			}
		})
	}
}

func TestSkyRegenerate(t *testing.T) {
	sky, _ := newTestSky(t, func(s *prefabs.SkySpec) { s.Stars.Count = 42 })
	first := sky.Stars()
	if len(first) != 42 {
		t.Fatalf("expected 42 stars, got %d", len(first))
	}
	bounds := sky.Bounds()
	for i, s := range first {
		if !bounds.Contains(s.Pos.X, s.Pos.Y) {
			t.Fatalf("star %d at %v outside %v", i, s.Pos, bounds)
		}
	}

	sky.Resize(1024, 768)
	if w, h := sky.Size(); w != 1024 || h != 768 {
		t.Fatalf("size %vx%v after resize", w, h)
	}
	if &sky.Stars()[0] == &first[0] {
		t.Fatalf("resize should replace the star field")
	}

	same := sky.Stars()
	sky.Resize(1024, 768)
	sky.Resize(-1, 10)
	if &sky.Stars()[0] != &same[0] {
		t.Fatalf("no-op resize regenerated the field")
	}
}

func TestSkyTickPacing(t *testing.T) {
	sky, clock := newTestSky(t, func(s *prefabs.SkySpec) {
		s.FPS = 50 // 20ms frames
		s.Stars.Count = 5
	})
	rec := canvas.NewRecorder(800, 600)

	steps := []struct {
		advance time.Duration
		want    bool
	}{
		{0, true},
		{10 * time.Millisecond, false},
		{10 * time.Millisecond, false},
		{5 * time.Millisecond, true},
		{16 * time.Millisecond, true},
		{1 * time.Millisecond, false},
	}

	for i, s := range steps {
		clock.Advance(s.advance)
		if got := sky.Tick(rec, clock.Now()); got != s.want {
			t.Fatalf("step %d: Tick = %v, want %v", i, got, s.want)
		}
	}
	if sky.Frames() != 3 {
		t.Fatalf("expected 3 frames, got %d", sky.Frames())
	}
}

func TestSkyTickDrawOrder(t *testing.T) {
	sky, clock := newTestSky(t, func(s *prefabs.SkySpec) { s.Stars.Count = 3 })
	rec := canvas.NewRecorder(800, 600)
	if !sky.Tick(rec, clock.Now()) {
		t.Fatalf("first tick should render")
	}

	if rec.Ops[0].Kind != canvas.OpClear {
		t.Fatalf("frame should start with a clear, got %v", rec.Ops[0].Kind)
	}
	if rec.Ops[1].Kind != canvas.OpComposite || rec.Ops[1].Composite != canvas.CompositeLighter {
		t.Fatalf("stars should draw with lighter compositing")
	}
	last := rec.Ops[len(rec.Ops)-1]
	if last.Kind != canvas.OpComposite || last.Composite != canvas.CompositeSourceOver {
		t.Fatalf("frame should restore source-over, got %v", last)
	}
	// three stars with two circles each, then glow and core
	if n := rec.Count(canvas.OpCircle); n != 3*2+2 {
		t.Fatalf("expected 8 circles, got %d", n)
	}
}

func TestSkyFollowsSurfaceSize(t *testing.T) {
	sky, clock := newTestSky(t, nil)
	rec := canvas.NewRecorder(320, 200)
	sky.Tick(rec, clock.Now())
	if w, h := sky.Size(); w != 320 || h != 200 {
		t.Fatalf("sky size %vx%v, want surface size", w, h)
	}
	pos := sky.Comet().Position()
	if pos.X > 320 || pos.Y > 200 {
		t.Fatalf("comet at %v outside the shrunk surface", pos)
	}
}

func TestSkyApplySpec(t *testing.T) {
	sky, _ := newTestSky(t, nil)
	before := sky.Stars()

	spec := sky.Spec()
	spec.Comet.Smoothing = 0.5
	spec.Tentacles.MaxLinks = 3
	if err := sky.ApplySpec(spec); err != nil {
		t.Fatalf("ApplySpec: %v", err)
	}
	if sky.Comet().Smoothing != 0.5 || sky.Comet().Tentacles().MaxLinks != 3 {
		t.Fatalf("tuning not applied")
	}
	if &sky.Stars()[0] != &before[0] {
		t.Fatalf("tuning change should keep the star field")
	}

	spec.Stars.Count = 7
	if err := sky.ApplySpec(spec); err != nil {
		t.Fatalf("ApplySpec: %v", err)
	}
	if len(sky.Stars()) != 7 {
		t.Fatalf("expected regenerated field of 7, got %d", len(sky.Stars()))
	}

	bad := spec
	bad.FPS = 0
	if err := sky.ApplySpec(bad); err == nil {
		t.Fatalf("expected invalid spec to be rejected")
	}
	if sky.Spec().FPS != spec.FPS {
		t.Fatalf("rejected spec leaked into the sky")
	}
}

func TestSkyWanderScript(t *testing.T) {
	sky, _ := newTestSky(t, func(s *prefabs.SkySpec) { s.Comet.WanderScript = "orbit" })
	if sky.WanderScript() != "orbit" {
		t.Fatalf("script %q, want orbit", sky.WanderScript())
	}
	if _, ok := sky.Comet().waypoints.(*ScriptWaypoints); !ok {
		t.Fatalf("comet uses %T, want scripted waypoints", sky.Comet().waypoints)
	}

	sky.ReloadScript("drift.tengo")
	if sky.WanderScript() != "orbit" {
		t.Fatalf("unrelated script change switched scripts")
	}
	sky.ReloadScript("orbit.tengo")
	if _, ok := sky.Comet().waypoints.(*ScriptWaypoints); !ok {
		t.Fatalf("reload dropped the scripted waypoints")
	}

	if err := sky.SetWanderScript("missing"); err == nil {
		t.Fatalf("expected error for a missing script")
	}
	if sky.Comet().waypoints != sky.Comet().uniform {
		t.Fatalf("missing script should fall back to uniform waypoints")
	}

	if err := sky.SetWanderScript(""); err != nil {
		t.Fatalf("SetWanderScript(\"\"): %v", err)
	}
	if sky.WanderScript() != "" {
		t.Fatalf("script %q after clearing", sky.WanderScript())
	}
}
