package jointset

import "github.com/san-kum/jointreg/internal/dynamo"

// buildIndex maps every child body to the index of the joint that governs it.
// Indices cover the dense range [0, len(joints)).
func buildIndex(joints []dynamo.Joint) (map[*dynamo.Body]int, error) {
	index := make(map[*dynamo.Body]int, len(joints))
	for i, j := range joints {
		child := j.Child()
		if child == nil || j.Parent() == nil {
			return nil, &dynamo.TopologyError{Kind: dynamo.ErrMissingBody, Joints: []string{j.Name()}}
		}
		if prev, ok := index[child]; ok {
			return nil, &dynamo.TopologyError{
				Kind:   dynamo.ErrDuplicateChildBody,
				Joints: []string{joints[prev].Name(), j.Name()},
			}
		}
		index[child] = i
	}
	return index, nil
}
