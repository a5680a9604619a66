package dynamo

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for model and registration operations.
var (
	// ErrDuplicateChildBody indicates two joints claim the same child body.
	ErrDuplicateChildBody = errors.New("dynamo: two joints share a child body")

	// ErrCyclicParentChain indicates the parent-body references form a cycle.
	ErrCyclicParentChain = errors.New("dynamo: cyclic parent body chain")

	// ErrMissingBody indicates a joint without a parent or child body.
	ErrMissingBody = errors.New("dynamo: joint is missing a body")

	// ErrRegistration indicates the engine rejected a joint.
	ErrRegistration = errors.New("dynamo: joint registration failed")

	// ErrUnknownBody indicates a reference to a body the model does not have.
	ErrUnknownBody = errors.New("dynamo: unknown body")

	// ErrDuplicateBodyName indicates two bodies in one model share a name.
	ErrDuplicateBodyName = errors.New("dynamo: duplicate body name")

	// ErrDuplicateJointName indicates two joints in one model share a name.
	ErrDuplicateJointName = errors.New("dynamo: duplicate joint name")

	// ErrUnknownJointType indicates a joint kind with no registered factory.
	ErrUnknownJointType = errors.New("dynamo: unknown joint type")

	// ErrParentNotMobilized indicates a joint was added before its parent body.
	ErrParentNotMobilized = errors.New("dynamo: parent body not mobilized")

	// ErrBodyAlreadyMobilized indicates a body was mobilized twice.
	ErrBodyAlreadyMobilized = errors.New("dynamo: body already mobilized")
)

// TopologyError reports a malformed kinematic tree together with the joints
// involved. For cycles the joints are listed in parent-chain order.
type TopologyError struct {
	Kind   error
	Joints []string
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.Error(), strings.Join(e.Joints, " -> "))
}

func (e *TopologyError) Unwrap() error {
	return e.Kind
}

// RegistrationError wraps an engine error with the joint that caused it.
type RegistrationError struct {
	Index   int
	Joint   string
	Wrapped error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register joint %q (index %d): %v", e.Joint, e.Index, e.Wrapped)
}

func (e *RegistrationError) Unwrap() []error {
	return []error{ErrRegistration, e.Wrapped}
}
