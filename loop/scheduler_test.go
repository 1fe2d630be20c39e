package loop

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type counter struct {
	calls int
	total time.Duration
}

func (c *counter) Advance(dt time.Duration) {
	c.calls++
	c.total += dt
}

func TestSchedulerAdd(t *testing.T) {
	var nilFunc AnimatorFunc

	cases := []struct {
		name    string
		add     Animator
		wantErr error
	}{
		{"struct", &counter{}, nil},
		{"func", AnimatorFunc(func(time.Duration) {}), nil},
		{"nil_interface", nil, ErrNilAnimator},
		{"nil_func", nilFunc, ErrNilAnimator},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, _ := NewScheduler()
			err := s.Add(c.add)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("Add err = %v, want %v", err, c.wantErr)
			}
			want := 1
			if c.wantErr != nil {
				want = 0
			}
			if got := len(s.Animators()); got != want {
				t.Fatalf("expected %d animators, got %d", want, got)
			}
		})
	}

	if _, err := NewScheduler(&counter{}, nil); !errors.Is(err, ErrNilAnimator) {
		t.Fatalf("NewScheduler should fail fast on nil animator, got %v", err)
	}
}

func TestSchedulerLifecycle(t *testing.T) {
	var order []string
	first := AnimatorFunc(func(time.Duration) { order = append(order, "first") })
	second := AnimatorFunc(func(time.Duration) { order = append(order, "second") })
	c := &counter{}

	s, err := NewScheduler(first, second, c)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	s.Update(time.Second)
	if c.calls != 0 {
		t.Fatalf("animators must not advance before Start")
	}

	s.Start()
	s.Start()
	if !s.Running() {
		t.Fatalf("expected running after Start")
	}
	s.Update(16 * time.Millisecond)
	s.Update(16 * time.Millisecond)
	if c.calls != 2 || c.total != 32*time.Millisecond {
		t.Fatalf("counter calls=%d total=%v", c.calls, c.total)
	}
	if len(order) != 4 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected order %v", order)
	}

	s.Stop()
	if s.Running() || len(s.Animators()) != 0 {
		t.Fatalf("Stop should halt and clear animators")
	}
	s.Update(time.Second)
	if c.calls != 2 {
		t.Fatalf("stopped scheduler advanced animators")
	}
}

func TestPointerQueue(t *testing.T) {
	var q PointerQueue
	if q.Drain() != nil {
		t.Fatalf("empty drain should be nil")
	}

	base := time.Unix(0, 0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q.Push(PointerEvent{X: float64(i), Y: float64(i), At: base.Add(time.Duration(i))})
		}(i)
	}
	wg.Wait()

	if q.Len() != 8 {
		t.Fatalf("Len = %d, want 8", q.Len())
	}
	events := q.Drain()
	if len(events) != 8 {
		t.Fatalf("drained %d events, want 8", len(events))
	}
	for _, evt := range events {
		if evt.X != evt.Y {
			t.Fatalf("torn event %+v", evt)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("queue not cleared after drain")
	}

	q.Push(PointerEvent{X: 1})
	q.Push(PointerEvent{X: 2})
	if got := q.Drain(); got[0].X != 1 || got[1].X != 2 {
		t.Fatalf("FIFO order broken: %+v", got)
	}
}
