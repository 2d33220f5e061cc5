package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_LegalPaths(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
	}{
		{StatusDraft, StatusSubmitted},
		{StatusDraft, StatusGenerated},
		{StatusSubmitted, StatusApproved},
		{StatusSubmitted, StatusRejected},
		{StatusRejected, StatusDraft},
		{StatusApproved, StatusGenerated},
		{StatusGenerated, StatusSent},
		{StatusSent, StatusReceived},
		{StatusDraft, StatusError},
		{StatusGenerated, StatusError},
		{StatusSent, StatusError},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			next, err := Transition(tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.to, next)
		})
	}
}

func TestTransition_IllegalPathsRejected(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
	}{
		{StatusGenerated, StatusApproved},
		{StatusDraft, StatusSent},
		{StatusSent, StatusGenerated},
		{StatusDraft, StatusApproved},
		{StatusReceived, StatusSent},
		{StatusError, StatusDraft},
		{StatusError, StatusGenerated},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			_, err := Transition(tt.from, tt.to)
			require.Error(t, err)

			transErr, ok := err.(*InvalidTransitionError)
			require.True(t, ok, "expected *InvalidTransitionError, got %T", err)
			assert.Equal(t, tt.from, transErr.From)
			assert.Equal(t, tt.to, transErr.To)
		})
	}
}

func TestTransition_UnknownStatusRejected(t *testing.T) {
	_, err := Transition(Status("PENDING"), StatusSent)
	require.Error(t, err)
	_, ok := err.(*UnknownStatusError)
	assert.True(t, ok)

	_, err = Transition(StatusDraft, Status("DONE"))
	require.Error(t, err)
	_, ok = err.(*UnknownStatusError)
	assert.True(t, ok)
}

func TestParseStatus(t *testing.T) {
	for _, wire := range []string{"DRAFT", "SUBMITTED", "APPROVED", "REJECTED", "GENERATED", "SENT", "RECEIVED", "ERROR"} {
		status, err := ParseStatus(wire)
		require.NoError(t, err)
		assert.Equal(t, wire, string(status))
	}

	// Anything outside the canonical set is a decode error, not a silent
	// pass-through.
	for _, wire := range []string{"draft", "completed", "", "Sent "} {
		_, err := ParseStatus(wire)
		require.Error(t, err, "expected %q to be rejected", wire)
	}
}

func TestCanEditContent(t *testing.T) {
	assert.True(t, CanEditContent(StatusDraft))
	assert.True(t, CanEditContent(StatusRejected))

	for _, s := range []Status{StatusSubmitted, StatusApproved, StatusGenerated, StatusSent, StatusReceived, StatusError} {
		assert.False(t, CanEditContent(s), "content must be locked in %s", s)
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, Terminal(StatusError))
	assert.True(t, Terminal(StatusReceived))
	assert.False(t, Terminal(StatusDraft))
	assert.False(t, Terminal(StatusSent))
}
