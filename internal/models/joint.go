package models

import "github.com/san-kum/jointreg/internal/dynamo"

// Joint is a joint of a fixed kind. The kind only decides how many degrees
// of freedom the joint adds to the system.
type Joint struct {
	name   string
	kind   string
	dof    int
	parent *dynamo.Body
	child  *dynamo.Body

	LocationInParent dynamo.Vec3
	LocationInChild  dynamo.Vec3

	index     dynamo.MobilizedBodyIndex
	mobilized bool
}

func NewJoint(name, kind string, dof int, parent *dynamo.Body) *Joint {
	return &Joint{name: name, kind: kind, dof: dof, parent: parent}
}

func (j *Joint) Name() string            { return j.name }
func (j *Joint) Type() string            { return j.kind }
func (j *Joint) DOF() int                { return j.dof }
func (j *Joint) Parent() *dynamo.Body    { return j.parent }
func (j *Joint) Child() *dynamo.Body     { return j.child }
func (j *Joint) SetChild(b *dynamo.Body) { j.child = b }

// AddToSystem adds the joint's mobilizer to sys and remembers the index the
// engine assigned to the child body.
func (j *Joint) AddToSystem(sys dynamo.System) error {
	idx, err := sys.AddMobilizer(dynamo.Mobilizer{
		Joint:            j.name,
		Type:             j.kind,
		Parent:           j.parent,
		Child:            j.child,
		DOF:              j.dof,
		LocationInParent: j.LocationInParent,
		LocationInChild:  j.LocationInChild,
	})
	if err != nil {
		return err
	}
	j.index = idx
	j.mobilized = true
	return nil
}

func (j *Joint) MobilizedBody() (dynamo.MobilizedBodyIndex, bool) {
	return j.index, j.mobilized
}

// Scale scales the location in the parent by the parent body's factors and
// the location in the child by the child body's factors.
func (j *Joint) Scale(scales dynamo.ScaleSet) {
	j.LocationInParent = j.LocationInParent.Mul(scales.Factors(j.parent))
	j.LocationInChild = j.LocationInChild.Mul(scales.Factors(j.child))
}
