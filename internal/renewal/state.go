package renewal

import (
	"context"
	"fmt"
	"slices"

	"renewer/pkg/browser"
	"renewer/pkg/domain"
)

// State is a step of the renewal transaction of one domain.
type State string

const (
	StateListed         State = "LISTED"
	StateOpened         State = "OPENED"
	StateRenewalOffered State = "RENEWAL_OFFERED"
	StateOrderStarted   State = "ORDER_STARTED"
	StateTermsAccepted  State = "TERMS_ACCEPTED"
	StateCheckedOut     State = "CHECKED_OUT"

	StateRenewed   State = "RENEWED"
	StateNotNeeded State = "NOT_NEEDED"
	StateFailed    State = "FAILED"
)

// Terminal reports whether s ends the transaction.
func (s State) Terminal() bool {
	return s == StateRenewed || s == StateNotNeeded || s == StateFailed
}

// transitions lists the states each state may move to. Any non-terminal state
// may fail on an unexpected error; the entries below are the expected paths.
var transitions = map[State][]State{
	StateListed:         {StateOpened, StateFailed},
	StateOpened:         {StateNotNeeded, StateRenewalOffered},
	StateRenewalOffered: {StateOrderStarted, StateFailed},
	StateOrderStarted:   {StateTermsAccepted},
	StateTermsAccepted:  {StateCheckedOut, StateFailed},
	StateCheckedOut:     {StateRenewed, StateFailed},
}

func validTransition(from, to State) error {
	if slices.Contains(transitions[from], to) {
		return nil
	}

	return fmt.Errorf("invalid transition from %s to %s", from, to)
}

// transaction carries one domain through the state machine.
type transaction struct {
	sess   browser.Session
	record domain.DomainRecord
	// reason explains a business FAILED state (a missing control).
	reason string
}

// stateHandler performs the work of one state and names the next one.
type stateHandler func(ctx context.Context, tx *transaction) (State, error)
