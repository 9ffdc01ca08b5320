package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_IsTerminal(t *testing.T) {
	cases := map[Status]bool{
		StatusPending:   false,
		StatusCompleted: true,
		StatusReturned:  true,
		StatusCanceled:  true,
	}
	for status, terminal := range cases {
		assert.Equal(t, terminal, status.IsTerminal(), status)
		assert.True(t, status.Valid(), status)
	}
	assert.False(t, Status("success").Valid())
}

func TestAction_Target(t *testing.T) {
	cases := []struct {
		action Action
		want   Status
	}{
		{ActionComplete, StatusCompleted},
		{ActionReturn, StatusReturned},
		{ActionCancel, StatusCanceled},
	}
	for _, tc := range cases {
		got, ok := tc.action.Target()
		require.True(t, ok, tc.action)
		assert.Equal(t, tc.want, got)
		assert.True(t, got.IsTerminal())
	}

	_, ok := Action("refund").Target()
	assert.False(t, ok)
}

func TestKindFor(t *testing.T) {
	assert.Equal(t, KindCreated, KindFor(StatusPending))
	assert.Equal(t, KindCompleted, KindFor(StatusCompleted))
	assert.Equal(t, KindReturned, KindFor(StatusReturned))
	assert.Equal(t, KindCanceled, KindFor(StatusCanceled))
}

func TestErrors(t *testing.T) {
	verr := NewValidationError()
	assert.False(t, verr.HasErrors())
	verr.Add("amount", "Amount must be greater than zero.")
	verr.Add("email", "Enter a valid email address.")
	assert.True(t, verr.HasErrors())
	assert.Equal(t, "validation failed: amount: Amount must be greater than zero.; email: Enter a valid email address.", verr.Error())

	illegal := &IllegalTransitionError{Current: StatusCompleted}
	assert.Equal(t, "Payment is already completed", illegal.Error())

	cause := errors.New("smtp: 550 mailbox unavailable")
	infra := &InfrastructureError{Stage: StageNotify, Err: &DeliveryError{Recipient: "a@x.com", Err: cause}}
	assert.ErrorIs(t, infra, cause)
	var delivery *DeliveryError
	assert.ErrorAs(t, infra, &delivery)
	assert.Equal(t, "notify failed: send to a@x.com: smtp: 550 mailbox unavailable", infra.Error())
}
