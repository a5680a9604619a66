// Package dynamo provides the core primitives of a multibody model.
//
// The package defines the types shared by the joint set, the concrete joint
// kinds and the multibody engine:
//
//   - [Body]: a rigid body, optionally governed by a joint
//   - [Joint]: connects a parent body to a child body
//   - [System]: the multibody engine joints register themselves with
//   - [Mobilizer]: what a joint contributes to a [System]
//
// # Example
//
//	m, _ := models.FromConfig(mc, models.NewRegistry())
//	sys := engine.New()
//	err := m.JointSet().Register(ctx, sys)
//
// # Thread Safety
//
// Bodies and joints are NOT thread-safe. A registration pass owns the model
// for its whole duration.
package dynamo
