// Package review models the accept/retry/edit/skip loop around a
// generated draft as an explicit finite-state machine, so both a
// textual and a graphical front end can drive the same contract.
package review

import "fmt"

// State is the review loop state. Drafting self-transitions on retry
// and edit; Accepted and Skipped are terminal.
type State int

const (
	StateDrafting State = iota
	StateAccepted
	StateSkipped
)

func (s State) String() string {
	switch s {
	case StateDrafting:
		return "drafting"
	case StateAccepted:
		return "accepted"
	case StateSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Decision is an operator action on the current draft.
type Decision int

const (
	// DecisionAccept freezes the current draft as the payload handed
	// to the mailbox adapter.
	DecisionAccept Decision = iota

	// DecisionRetry discards the current draft and generates again
	// with unchanged inputs.
	DecisionRetry

	// DecisionEdit replaces the ad hoc instructions, then generates
	// again.
	DecisionEdit

	// DecisionSkip ends the loop without creating a draft.
	DecisionSkip
)

func (d Decision) String() string {
	switch d {
	case DecisionAccept:
		return "accept"
	case DecisionRetry:
		return "retry"
	case DecisionEdit:
		return "edit"
	case DecisionSkip:
		return "skip"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Machine tracks the review state for one incoming message. Retries are
// unbounded and nothing is ever auto-accepted.
type Machine struct {
	state        State
	draft        string
	instructions string
	attempts     int
}

// NewMachine returns a machine in the Drafting state with the given
// initial ad hoc instructions (may be empty).
func NewMachine(instructions string) *Machine {
	return &Machine{
		state:        StateDrafting,
		instructions: instructions,
	}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Draft returns the current draft text.
func (m *Machine) Draft() string { return m.draft }

// Instructions returns the current ad hoc instructions.
func (m *Machine) Instructions() string { return m.instructions }

// Attempts returns how many drafts have been recorded so far.
func (m *Machine) Attempts() int { return m.attempts }

// Done reports whether the machine has reached a terminal state.
func (m *Machine) Done() bool {
	return m.state == StateAccepted || m.state == StateSkipped
}

// SetDraft records a freshly generated draft. Only valid while
// drafting.
func (m *Machine) SetDraft(draft string) error {
	if m.state != StateDrafting {
		return fmt.Errorf("cannot set draft in state %s", m.state)
	}
	m.draft = draft
	m.attempts++
	return nil
}

// Apply transitions the machine on an operator decision. Edit carries
// the replacement instructions; the argument is ignored for other
// decisions.
func (m *Machine) Apply(decision Decision, instructions string) error {
	if m.state != StateDrafting {
		return fmt.Errorf(
			"cannot apply %s in terminal state %s", decision, m.state,
		)
	}

	switch decision {
	case DecisionAccept:
		m.state = StateAccepted
	case DecisionSkip:
		m.state = StateSkipped
	case DecisionRetry:
		m.draft = ""
	case DecisionEdit:
		m.instructions = instructions
		m.draft = ""
	default:
		return fmt.Errorf("unknown decision %s", decision)
	}

	return nil
}
