package jointset

import "github.com/san-kum/jointreg/internal/dynamo"

type color uint8

const (
	unvisited color = iota
	inProgress
	done
)

// Step is one entry of a registration order.
type Step struct {
	Index int
	Joint dynamo.Joint
	// Depth is how far above the requested joint this one sits in the
	// ascent that emitted it; 0 for the requested joint itself.
	Depth int
	// Level is the distance from ground: 1 for a joint whose parent body
	// has no governing joint.
	Level int
}

// pass holds the state of a single ordering pass. It is never reused.
type pass struct {
	joints []dynamo.Joint
	index  map[*dynamo.Body]int
	state  []color
	level  []int
	emit   func(Step) error
}

func newPass(joints []dynamo.Joint, emit func(Step) error) (*pass, error) {
	index, err := buildIndex(joints)
	if err != nil {
		return nil, err
	}
	return &pass{
		joints: joints,
		index:  index,
		state:  make([]color, len(joints)),
		level:  make([]int, len(joints)),
		emit:   emit,
	}, nil
}

func (p *pass) parentOf(i int) (int, bool) {
	parent, ok := p.index[p.joints[i].Parent()]
	return parent, ok
}

// visit emits joint i after every joint on its parent-body chain. Joints
// already emitted are skipped, so repeated visits are no-ops.
func (p *pass) visit(i int) error {
	if p.state[i] == done {
		return nil
	}

	p.state[i] = inProgress
	stack := []int{i}
	for {
		parent, ok := p.parentOf(stack[len(stack)-1])
		if !ok || p.state[parent] == done {
			break
		}
		if p.state[parent] == inProgress {
			return p.cycleError(stack, parent)
		}
		p.state[parent] = inProgress
		stack = append(stack, parent)
	}

	for depth := len(stack) - 1; depth >= 0; depth-- {
		j := stack[depth]
		p.level[j] = 1
		if parent, ok := p.parentOf(j); ok {
			p.level[j] = p.level[parent] + 1
		}
		p.state[j] = done
		if err := p.emit(Step{Index: j, Joint: p.joints[j], Depth: depth, Level: p.level[j]}); err != nil {
			return err
		}
	}
	return nil
}

func (p *pass) cycleError(stack []int, parent int) error {
	start := 0
	for k, j := range stack {
		if j == parent {
			start = k
			break
		}
	}
	names := make([]string, 0, len(stack)-start)
	for _, j := range stack[start:] {
		names = append(names, p.joints[j].Name())
	}
	return &dynamo.TopologyError{Kind: dynamo.ErrCyclicParentChain, Joints: names}
}
