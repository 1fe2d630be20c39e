package canvas

import (
	"errors"
	"math"
	"testing"
)

func TestRecorderCapturesCalls(t *testing.T) {
	r := NewRecorder(800, 600)
	r.Clear()
	r.SetComposite(CompositeLighter)
	if err := r.FillCircle(10, 20, 5, Solid(RGBA(255, 255, 255, 1))); err != nil {
		t.Fatalf("FillCircle: %v", err)
	}
	if err := r.StrokeQuad(0, 0, 5, 5, 10, 0, 2, Solid(RGBA(255, 255, 255, 1))); err != nil {
		t.Fatalf("StrokeQuad: %v", err)
	}

	if r.Count(OpClear) != 1 || r.Count(OpComposite) != 1 || r.Count(OpCircle) != 1 || r.Count(OpQuad) != 1 {
		t.Fatalf("unexpected ops: %+v", r.Ops)
	}
	last := r.Ops[len(r.Ops)-1]
	if last.Composite != CompositeLighter {
		t.Fatalf("quad recorded with composite %v", last.Composite)
	}
	if w, h := r.Size(); w != 800 || h != 600 {
		t.Fatalf("Size = %v,%v", w, h)
	}
}

func TestRecorderRejectsInvalidInput(t *testing.T) {
	r := NewRecorder(100, 100)
	paint := Solid(RGBA(0, 0, 0, 1))

	cases := []struct {
		name string
		call func() error
		want error
	}{
		{"nan_center", func() error { return r.FillCircle(math.NaN(), 0, 1, paint) }, ErrInvalidGeometry},
		{"zero_radius", func() error { return r.FillCircle(0, 0, 0, paint) }, ErrInvalidGeometry},
		{"nil_paint", func() error { return r.FillCircle(0, 0, 1, nil) }, ErrNilPaint},
		{"inf_control", func() error { return r.StrokeQuad(0, 0, math.Inf(1), 0, 1, 1, 1, paint) }, ErrInvalidGeometry},
		{"zero_width", func() error { return r.StrokeQuad(0, 0, 0, 0, 1, 1, 0, paint) }, ErrInvalidGeometry},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.call(); !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
		})
	}
	if len(r.Ops) != 0 {
		t.Fatalf("failed calls must not be recorded: %+v", r.Ops)
	}
}

func TestRecorderPrimedErrors(t *testing.T) {
	boom := errors.New("gradient unsupported")
	r := NewRecorder(100, 100)
	r.StrokeErr = boom
	if err := r.StrokeQuad(0, 0, 1, 1, 2, 2, 1, Solid(RGBA(0, 0, 0, 1))); !errors.Is(err, boom) {
		t.Fatalf("StrokeQuad err = %v, want %v", err, boom)
	}
	if err := r.FillCircle(1, 1, 1, Solid(RGBA(0, 0, 0, 1))); err != nil {
		t.Fatalf("FillCircle should not be affected: %v", err)
	}
	r.Reset()
	if len(r.Ops) != 0 || r.StrokeErr == nil {
		t.Fatalf("Reset should drop ops and keep primed errors")
	}
}
