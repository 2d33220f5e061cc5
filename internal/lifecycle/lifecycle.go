package lifecycle

import "fmt"

// Status is the canonical affidavit status. The wire strings below are the
// only accepted values; anything else is a decode error, never a silent
// pass-through.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSubmitted Status = "SUBMITTED"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusGenerated Status = "GENERATED"
	StatusSent      Status = "SENT"
	StatusReceived  Status = "RECEIVED"
	StatusError     Status = "ERROR"
)

// InvalidTransitionError reports an illegal status change attempt. The
// persisted status is untouched when this is returned.
type InvalidTransitionError struct {
	From Status `json:"from"`
	To   Status `json:"to"`
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid affidavit status transition %s -> %s", e.From, e.To)
}

// UnknownStatusError reports a status string outside the canonical set.
type UnknownStatusError struct {
	Value string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown affidavit status %q", e.Value)
}

var all = map[Status]bool{
	StatusDraft:     true,
	StatusSubmitted: true,
	StatusApproved:  true,
	StatusRejected:  true,
	StatusGenerated: true,
	StatusSent:      true,
	StatusReceived:  true,
	StatusError:     true,
}

// transitions is the full legal transition table. ERROR is reachable from
// every non-terminal state (rendering/transmission faults) and is terminal
// for automated retries: a human must re-drive from DRAFT.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusSubmitted, StatusGenerated, StatusError},
	StatusSubmitted: {StatusApproved, StatusRejected, StatusError},
	StatusApproved:  {StatusGenerated, StatusError},
	StatusRejected:  {StatusDraft, StatusError},
	StatusGenerated: {StatusSent, StatusError},
	StatusSent:      {StatusReceived, StatusError},
	StatusReceived:  {},
	StatusError:     {},
}

// ParseStatus decodes a wire string into a canonical Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !all[st] {
		return "", &UnknownStatusError{Value: s}
	}
	return st, nil
}

// CanTransition reports whether from -> to is in the legal transition table.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a status change against the current state. It never
// coerces: an illegal change is rejected with an InvalidTransitionError
// carrying both endpoints.
func Transition(from, to Status) (Status, error) {
	if !all[from] {
		return "", &UnknownStatusError{Value: string(from)}
	}
	if !all[to] {
		return "", &UnknownStatusError{Value: string(to)}
	}
	if !CanTransition(from, to) {
		return "", &InvalidTransitionError{From: from, To: to}
	}
	return to, nil
}

// CanEditContent reports whether an affidavit's content may still be
// changed. Edits are only permitted in DRAFT or REJECTED; editing a REJECTED
// affidavit returns it to DRAFT.
func CanEditContent(s Status) bool {
	return s == StatusDraft || s == StatusRejected
}

// Terminal reports whether no further automated transition is possible.
func Terminal(s Status) bool {
	return len(transitions[s]) == 0
}
