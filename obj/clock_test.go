package obj

import (
	"math/rand/v2"
	"time"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixedSize struct {
	w, h float64
}

func (s *fixedSize) Size() (float64, float64) { return s.w, s.h }

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}
