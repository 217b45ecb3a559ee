package wellness

import "fmt"

// State is the position of an ask cycle.
type State int

const (
	Idle State = iota
	Listening
	Thinking
	Speaking
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Listening:
		return "listening"
	case Thinking:
		return "thinking"
	case Speaking:
		return "speaking"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Idle is reachable from every state and is not listed.
var transitions = map[State][]State{
	Idle:      {Listening, Thinking},
	Listening: {Thinking},
	Thinking:  {Speaking},
}

// Cycle guards the Idle → Listening → Thinking → Speaking → Idle sequence.
type Cycle struct {
	state   State
	onEnter func(State)
}

func NewCycle(onEnter func(State)) *Cycle {
	return &Cycle{onEnter: onEnter}
}

func (c *Cycle) State() State {
	return c.state
}

func (c *Cycle) To(next State) error {
	if next != Idle && !allowed(c.state, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.state, next)
	}
	c.state = next
	if c.onEnter != nil {
		c.onEnter(next)
	}
	return nil
}

func allowed(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
