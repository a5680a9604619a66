package dynamo

import "fmt"

// GroundName is the name of the implicit root body.
const GroundName = "ground"

type Vec3 [3]float64

func (v Vec3) Mul(s Vec3) Vec3 {
	return Vec3{v[0] * s[0], v[1] * s[1], v[2] * s[2]}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v[0], v[1], v[2])
}

// Body is identified by its address. A body with a nil Joint is the ground
// or an otherwise unconnected root.
type Body struct {
	Name       string
	Mass       float64
	MassCenter Vec3
	Inertia    Vec3
	Joint      Joint
}

func NewGround() *Body {
	return &Body{Name: GroundName}
}

func (b *Body) HasJoint() bool {
	return b != nil && b.Joint != nil
}

func (b *Body) String() string {
	if b == nil {
		return "<nil>"
	}
	return b.Name
}

// Joint connects a parent body to a child body and knows how to add itself
// to a multibody System.
type Joint interface {
	Name() string
	Type() string
	Parent() *Body
	Child() *Body
	SetChild(b *Body)
	DOF() int
	AddToSystem(sys System) error
	Scale(scales ScaleSet)
}

type MobilizedBodyIndex int

// Mobilizer is the engine-side record of one joint.
type Mobilizer struct {
	Joint            string
	Type             string
	Parent           *Body
	Child            *Body
	DOF              int
	LocationInParent Vec3
	LocationInChild  Vec3
}

// System is the multibody engine handle. The joint set never inspects it;
// it is handed to each joint's AddToSystem.
type System interface {
	AddMobilizer(m Mobilizer) (MobilizedBodyIndex, error)
}

// ScaleSet holds per-body scale factors keyed by body name.
type ScaleSet map[string]Vec3

func (s ScaleSet) Factors(b *Body) Vec3 {
	if b != nil {
		if f, ok := s[b.Name]; ok {
			return f
		}
	}
	return Vec3{1, 1, 1}
}

func Uniform(f float64) Vec3 {
	return Vec3{f, f, f}
}
