package canvas

// OpKind identifies a recorded surface call.
type OpKind string

const (
	OpClear     OpKind = "clear"
	OpComposite OpKind = "composite"
	OpCircle    OpKind = "circle"
	OpQuad      OpKind = "quad"
)

// Op is one recorded surface call. Coords holds the call's numeric arguments
// in declaration order.
type Op struct {
	Kind      OpKind
	Composite Composite
	Coords    []float64
	Paint     Paint
}

// Recorder is an in-memory Surface. It keeps every successful call in Ops and
// can be primed with errors to simulate a failing backend.
type Recorder struct {
	W, H float64

	FillErr   error
	StrokeErr error

	Ops       []Op
	composite Composite
}

func NewRecorder(w, h float64) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (float64, float64) {
	return r.W, r.H
}

func (r *Recorder) Clear() {
	r.Ops = append(r.Ops, Op{Kind: OpClear, Composite: r.composite})
}

func (r *Recorder) SetComposite(op Composite) {
	r.composite = op
	r.Ops = append(r.Ops, Op{Kind: OpComposite, Composite: op})
}

// Composite returns the mode set by the last SetComposite call.
func (r *Recorder) Composite() Composite {
	return r.composite
}

func (r *Recorder) FillCircle(cx, cy, radius float64, p Paint) error {
	if err := CheckCircle(cx, cy, radius, p); err != nil {
		return err
	}
	if r.FillErr != nil {
		return r.FillErr
	}
	r.Ops = append(r.Ops, Op{Kind: OpCircle, Composite: r.composite, Coords: []float64{cx, cy, radius}, Paint: p})
	return nil
}

func (r *Recorder) StrokeQuad(x0, y0, cx, cy, x1, y1, width float64, p Paint) error {
	if err := CheckQuad(x0, y0, cx, cy, x1, y1, width, p); err != nil {
		return err
	}
	if r.StrokeErr != nil {
		return r.StrokeErr
	}
	r.Ops = append(r.Ops, Op{Kind: OpQuad, Composite: r.composite, Coords: []float64{x0, y0, cx, cy, x1, y1, width}, Paint: p})
	return nil
}

// Count returns how many recorded ops have the given kind.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops recorded ops but keeps the size, composite mode and primed errors.
func (r *Recorder) Reset() {
	r.Ops = nil
}
