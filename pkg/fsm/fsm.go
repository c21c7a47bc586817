// Package fsm implements a small finite state machine used by the pattern
// detectors to track their watching/alarmed condition with validated
// transitions.
package fsm

import "fmt"

// State is one possible condition of a Machine.
type State string

// TransitionNotAllowed is returned when a transition is requested that was
// not configured for the machine.
type TransitionNotAllowed struct {
	From State
	To   State
}

func (e TransitionNotAllowed) Error() string {
	return fmt.Sprintf("cannot transition from state %s to %s", e.From, e.To)
}

// Machine is a basic finite state machine with an allowable-transition map.
type Machine struct {
	current   State
	initial   State
	allowable map[State][]State
}

// MachineOption configures a Machine at construction.
type MachineOption func(m *Machine) error

// WithTransitions declares the allowable transitions out of a state.
func WithTransitions(from State, to ...State) MachineOption {
	return func(m *Machine) error {
		m.allowable[from] = append(m.allowable[from], to...)
		return nil
	}
}

// NewMachine returns a Machine starting in the initial state.  Without
// options the machine has no allowable transitions.
func NewMachine(initial State, opts ...MachineOption) (*Machine, error) {
	m := &Machine{
		current:   initial,
		initial:   initial,
		allowable: map[State][]State{},
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// State returns the current state.
func (m *Machine) State() State {
	return m.current
}

// Allowable reports whether a transition between two states is configured.
func (m *Machine) Allowable(from, to State) bool {
	return contains(to, m.allowable[from])
}

// Transition changes the current state if the transition is allowable.
func (m *Machine) Transition(to State) error {
	if !m.Allowable(m.current, to) {
		return TransitionNotAllowed{From: m.current, To: to}
	}
	m.current = to
	return nil
}

// Reset returns the machine to its initial state.
func (m *Machine) Reset() {
	m.current = m.initial
}

func contains(s State, all []State) bool {
	for _, a := range all {
		if s == a {
			return true
		}
	}
	return false
}
