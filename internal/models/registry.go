package models

import (
	"fmt"
	"sort"

	"github.com/san-kum/jointreg/internal/dynamo"
)

type JointFactory func(name string, parent *dynamo.Body) dynamo.Joint

type Registry struct {
	joints map[string]JointFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		joints: make(map[string]JointFactory),
	}

	r.Register("weld", kind("weld", 0))
	r.Register("pin", kind("pin", 1))
	r.Register("slider", kind("slider", 1))
	r.Register("universal", kind("universal", 2))
	r.Register("planar", kind("planar", 3))
	r.Register("ball", kind("ball", 3))
	r.Register("free", kind("free", 6))

	return r
}

func kind(name string, dof int) JointFactory {
	return func(jointName string, parent *dynamo.Body) dynamo.Joint {
		return NewJoint(jointName, name, dof, parent)
	}
}

func (r *Registry) Register(name string, fn JointFactory) {
	r.joints[name] = fn
}

func (r *Registry) NewJoint(kind, name string, parent *dynamo.Body) (dynamo.Joint, error) {
	fn, ok := r.joints[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownJointType, kind)
	}
	return fn(name, parent), nil
}

func (r *Registry) ListJointTypes() []string {
	names := make([]string, 0, len(r.joints))
	for name := range r.joints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
