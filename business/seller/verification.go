package seller

import (
	"strings"

	"verifiedMarket/business/access"
	"verifiedMarket/pkg/apperror"
)

// VerificationAction is an admin decision on a seller.
type VerificationAction string

const (
	ActionApprove VerificationAction = "approve"
	ActionReject  VerificationAction = "reject"
)

func ParseVerificationAction(raw string) (VerificationAction, error) {
	switch VerificationAction(strings.ToLower(strings.TrimSpace(raw))) {
	case ActionApprove:
		return ActionApprove, nil
	case ActionReject:
		return ActionReject, nil
	}
	return "", apperror.ValidationField("action", `Action must be "approve" or "reject".`)
}

// Target is the state the action leads to, whatever the current one.
func (a VerificationAction) Target() access.VerificationState {
	if a == ActionApprove {
		return access.StateVerified
	}
	return access.StatePending
}

// PastTense renders the action for response messages.
func (a VerificationAction) PastTense() string {
	switch a {
	case ActionApprove:
		return "approved"
	case ActionReject:
		return "rejected"
	}
	return string(a)
}

// Transition applies action to from. Both states are steady: approve on
// VERIFIED and reject on PENDING leave the state as is and report no change.
func Transition(from access.VerificationState, action VerificationAction) (to access.VerificationState, changed bool) {
	to = action.Target()
	return to, to != from
}
