// Package engine is an in-memory multibody system. It records the
// mobilizers joints add to it and enforces that a body is mobilized only
// after its parent.
package engine

import (
	"fmt"

	"github.com/san-kum/jointreg/internal/dynamo"
)

// GroundIndex is the mobilized body index of ground.
const GroundIndex dynamo.MobilizedBodyIndex = 0

type Observer interface {
	OnMobilize(idx dynamo.MobilizedBodyIndex, m dynamo.Mobilizer)
}

type ObserverFunc func(idx dynamo.MobilizedBodyIndex, m dynamo.Mobilizer)

func (f ObserverFunc) OnMobilize(idx dynamo.MobilizedBodyIndex, m dynamo.Mobilizer) { f(idx, m) }

type Option func(*System)

// WithStrictOrder rejects a mobilizer whose parent body has not been
// mobilized yet. On by default.
func WithStrictOrder(strict bool) Option {
	return func(s *System) { s.strict = strict }
}

// WithRejectJoints makes the system refuse the named joints.
func WithRejectJoints(names ...string) Option {
	return func(s *System) {
		for _, n := range names {
			s.reject[n] = true
		}
	}
}

func WithObserver(o Observer) Option {
	return func(s *System) { s.observers = append(s.observers, o) }
}

// System implements dynamo.System.
type System struct {
	strict     bool
	reject     map[string]bool
	observers  []Observer
	mobilizers []dynamo.Mobilizer
	bodies     map[*dynamo.Body]dynamo.MobilizedBodyIndex
	dof        int
}

func New(opts ...Option) *System {
	s := &System{
		strict: true,
		reject: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

// Reset removes every mobilizer. Ground stays.
func (s *System) Reset() {
	s.mobilizers = make([]dynamo.Mobilizer, 0)
	s.bodies = make(map[*dynamo.Body]dynamo.MobilizedBodyIndex)
	s.dof = 0
}

func (s *System) AddMobilizer(m dynamo.Mobilizer) (dynamo.MobilizedBodyIndex, error) {
	if s.reject[m.Joint] {
		return -1, fmt.Errorf("engine: joint %q rejected", m.Joint)
	}
	if m.Child == nil || m.Parent == nil {
		return -1, fmt.Errorf("%w: joint %q", dynamo.ErrMissingBody, m.Joint)
	}
	if _, ok := s.bodies[m.Child]; ok {
		return -1, fmt.Errorf("%w: %s", dynamo.ErrBodyAlreadyMobilized, m.Child)
	}
	if s.strict && !s.isMobilized(m.Parent) {
		return -1, fmt.Errorf("%w: %s is the parent of joint %q", dynamo.ErrParentNotMobilized, m.Parent, m.Joint)
	}

	s.mobilizers = append(s.mobilizers, m)
	idx := dynamo.MobilizedBodyIndex(len(s.mobilizers))
	s.bodies[m.Child] = idx
	s.dof += m.DOF

	for _, o := range s.observers {
		o.OnMobilize(idx, m)
	}
	return idx, nil
}

// isMobilized reports whether b is ground or already has a mobilizer. A
// body with no governing joint is a root and counts as ground.
func (s *System) isMobilized(b *dynamo.Body) bool {
	if !b.HasJoint() {
		return true
	}
	_, ok := s.bodies[b]
	return ok
}

func (s *System) Index(b *dynamo.Body) (dynamo.MobilizedBodyIndex, bool) {
	if !b.HasJoint() {
		return GroundIndex, true
	}
	idx, ok := s.bodies[b]
	return idx, ok
}

// Mobilizers returns the mobilizers in the order they were added.
func (s *System) Mobilizers() []dynamo.Mobilizer {
	out := make([]dynamo.Mobilizer, len(s.mobilizers))
	copy(out, s.mobilizers)
	return out
}

func (s *System) JointOrder() []string {
	names := make([]string, len(s.mobilizers))
	for i, m := range s.mobilizers {
		names[i] = m.Joint
	}
	return names
}

func (s *System) Len() int { return len(s.mobilizers) }
func (s *System) DOF() int { return s.dof }
