// Package loop holds the per-frame plumbing shared by the scene: a registry of
// independent animators and the pointer event queue drained at tick start.
package loop

import (
	"errors"
	"time"
)

var ErrNilAnimator = errors.New("loop: animator is nil")

// Animator advances by the time elapsed since the previous frame.
type Animator interface {
	Advance(dt time.Duration)
}

// AnimatorFunc adapts a plain function to Animator.
type AnimatorFunc func(dt time.Duration)

func (f AnimatorFunc) Advance(dt time.Duration) {
	f(dt)
}

// Scheduler advances registered animators in registration order while running.
type Scheduler struct {
	animators []Animator
	running   bool
}

func NewScheduler(animators ...Animator) (*Scheduler, error) {
	s := &Scheduler{}
	for _, a := range animators {
		if err := s.Add(a); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add registers an animator. A nil animator, or a nil AnimatorFunc, is a
// configuration error and is rejected.
func (s *Scheduler) Add(a Animator) error {
	if a == nil {
		return ErrNilAnimator
	}
	if f, ok := a.(AnimatorFunc); ok && f == nil {
		return ErrNilAnimator
	}
	s.animators = append(s.animators, a)
	return nil
}

func (s *Scheduler) Start() {
	s.running = true
}

// Stop halts updates and drops every registered animator.
func (s *Scheduler) Stop() {
	s.running = false
	s.animators = nil
}

func (s *Scheduler) Running() bool {
	return s.running
}

func (s *Scheduler) Update(dt time.Duration) {
	if !s.running {
		return
	}
	for _, a := range s.animators {
		a.Advance(dt)
	}
}

func (s *Scheduler) Animators() []Animator {
	animators := make([]Animator, 0, len(s.animators))
	return append(animators, s.animators...)
}
