// Package jointset keeps the joints of a model and adds them to a multibody
// system from ground outward.
package jointset

import (
	"context"
	"log/slog"

	"github.com/san-kum/jointreg/internal/ctxlog"
	"github.com/san-kum/jointreg/internal/dynamo"
)

// JointSet is an ordered collection of the joints of one model.
type JointSet struct {
	joints []dynamo.Joint
}

func New(joints ...dynamo.Joint) *JointSet {
	s := &JointSet{joints: make([]dynamo.Joint, 0, len(joints))}
	s.joints = append(s.joints, joints...)
	return s
}

// BodySource is anything that owns an ordered list of bodies.
type BodySource interface {
	Bodies() []*dynamo.Body
}

// Populate collects the joints of every body in src, in body order. Bodies
// without a joint (ground) are skipped. Each joint is bound to the body it
// was found on.
func Populate(src BodySource) *JointSet {
	s := New()
	for _, b := range src.Bodies() {
		if !b.HasJoint() {
			continue
		}
		b.Joint.SetChild(b)
		s.Append(b.Joint)
	}
	return s
}

func (s *JointSet) Append(j dynamo.Joint)  { s.joints = append(s.joints, j) }
func (s *JointSet) Len() int               { return len(s.joints) }
func (s *JointSet) Get(i int) dynamo.Joint { return s.joints[i] }

func (s *JointSet) Find(name string) (dynamo.Joint, bool) {
	for _, j := range s.joints {
		if j.Name() == name {
			return j, true
		}
	}
	return nil, false
}

func (s *JointSet) Names() []string {
	names := make([]string, len(s.joints))
	for i, j := range s.joints {
		names[i] = j.Name()
	}
	return names
}

// Clone returns a new set holding the same joints in the same order.
func (s *JointSet) Clone() *JointSet {
	return New(s.joints...)
}

func (s *JointSet) Scale(scales dynamo.ScaleSet) {
	for _, j := range s.joints {
		j.Scale(scales)
	}
}

// Plan returns the order in which the joints must be added to a system so
// that every joint follows the joint of its parent body. Joints are requested
// in storage order. Plan makes no engine calls, so topology errors surface
// before anything is registered.
func (s *JointSet) Plan() ([]Step, error) {
	return s.plan(slog.New(slog.DiscardHandler))
}

func (s *JointSet) plan(log *slog.Logger) ([]Step, error) {
	steps := make([]Step, 0, len(s.joints))
	p, err := newPass(s.joints, func(st Step) error {
		steps = append(steps, st)
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i, j := range s.joints {
		log.Debug("calling AddToSystem for joint", "joint", j.Name(), "index", i)
		if err := p.visit(i); err != nil {
			return nil, err
		}
	}
	return steps, nil
}

// Register adds every joint to sys, parents first. The first engine error
// aborts the pass; joints added before it stay in sys.
func (s *JointSet) Register(ctx context.Context, sys dynamo.System) error {
	_, err := s.RegisterPlan(ctx, sys)
	return err
}

// RegisterPlan is Register that also returns the plan it followed. On an
// engine error the full plan is returned with the error; steps before the
// failing one were applied.
func (s *JointSet) RegisterPlan(ctx context.Context, sys dynamo.System) ([]Step, error) {
	log := ctxlog.FromContext(ctx)

	steps, err := s.plan(log)
	if err != nil {
		return nil, err
	}

	for _, st := range steps {
		if err := st.Joint.AddToSystem(sys); err != nil {
			return steps, &dynamo.RegistrationError{Index: st.Index, Joint: st.Joint.Name(), Wrapped: err}
		}
	}

	log.Info("joints registered", "count", len(steps))
	return steps, nil
}
