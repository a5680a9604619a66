package models

import (
	"fmt"

	"github.com/san-kum/jointreg/internal/config"
	"github.com/san-kum/jointreg/internal/dynamo"
	"github.com/san-kum/jointreg/internal/jointset"
)

// Model owns the bodies of a multibody model. Ground is always the first body.
type Model struct {
	Name   string
	Ground *dynamo.Body
	bodies []*dynamo.Body
	byName map[string]*dynamo.Body
}

func NewModel(name string) *Model {
	ground := dynamo.NewGround()
	return &Model{
		Name:   name,
		Ground: ground,
		bodies: []*dynamo.Body{ground},
		byName: map[string]*dynamo.Body{ground.Name: ground},
	}
}

func (m *Model) AddBody(b *dynamo.Body) error {
	if _, ok := m.byName[b.Name]; ok {
		return fmt.Errorf("%w: %s", dynamo.ErrDuplicateBodyName, b.Name)
	}
	m.bodies = append(m.bodies, b)
	m.byName[b.Name] = b
	return nil
}

func (m *Model) Bodies() []*dynamo.Body { return m.bodies }

func (m *Model) Body(name string) (*dynamo.Body, bool) {
	b, ok := m.byName[name]
	return b, ok
}

// JointSet collects the model's joints in body order.
func (m *Model) JointSet() *jointset.JointSet {
	return jointset.Populate(m)
}

// FromConfig builds a model from its file description. Bodies may appear in
// any order; parents are resolved by name once every body exists.
func FromConfig(mc *config.ModelConfig, reg *Registry) (*Model, error) {
	m := NewModel(mc.Name)

	for _, bc := range mc.Bodies {
		b := &dynamo.Body{
			Name:       bc.Name,
			Mass:       bc.Mass,
			MassCenter: dynamo.Vec3(bc.MassCenter),
			Inertia:    dynamo.Vec3(bc.Inertia),
		}
		if err := m.AddBody(b); err != nil {
			return nil, err
		}
	}

	joints := make(map[string]string, len(mc.Bodies))
	for _, bc := range mc.Bodies {
		if bc.Joint == nil {
			continue
		}
		jc := bc.Joint
		parent, ok := m.Body(jc.Parent)
		if !ok {
			return nil, fmt.Errorf("%w: %q is the parent of %q", dynamo.ErrUnknownBody, jc.Parent, bc.Name)
		}
		name := jc.Name
		if name == "" {
			name = bc.Name + "_joint"
		}
		if other, ok := joints[name]; ok {
			return nil, fmt.Errorf("%w: %q on bodies %q and %q", dynamo.ErrDuplicateJointName, name, other, bc.Name)
		}
		joints[name] = bc.Name
		j, err := reg.NewJoint(jc.Type, name, parent)
		if err != nil {
			return nil, fmt.Errorf("body %q: %w", bc.Name, err)
		}
		if mj, ok := j.(*Joint); ok {
			mj.LocationInParent = dynamo.Vec3(jc.LocationInParent)
			mj.LocationInChild = dynamo.Vec3(jc.LocationInChild)
		}
		body, _ := m.Body(bc.Name)
		body.Joint = j
	}

	return m, nil
}
