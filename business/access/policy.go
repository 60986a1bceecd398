// Package access decides which actor may perform which marketplace action.
package access

import (
	"verifiedMarket/pkg/apperror"
)

type Role string

const (
	RoleAnonymous Role = ""
	RoleSeller    Role = "seller"
	RoleBuyer     Role = "buyer"
	RoleAdmin     Role = "admin"
)

// Actor is the identity a request acts as. The zero value is anonymous.
type Actor struct {
	UserID uint
	Role   Role
}

func Anonymous() Actor {
	return Actor{}
}

func (a Actor) Authenticated() bool {
	return a.UserID != 0 && a.Role != RoleAnonymous
}

func (a Actor) IsAdmin() bool {
	return a.Authenticated() && a.Role == RoleAdmin
}

type Action string

const (
	ActionRegister             Action = "register"
	ActionLogin                Action = "login"
	ActionListPending          Action = "listPending"
	ActionListVerified         Action = "listVerified"
	ActionAdminListAll         Action = "adminListAll"
	ActionListUnnotified       Action = "listUnnotified"
	ActionApproveOrReject      Action = "approveOrReject"
	ActionUploadProduct        Action = "uploadProduct"
	ActionLookupByBusinessName Action = "lookupByBusinessName"
	ActionListProducts         Action = "listProducts"
	ActionCreateReview         Action = "createReview"
	ActionListReviews          Action = "listReviews"
	ActionReplyReview          Action = "replyReview"
)

// VerificationState is the trust status of a seller as seen by the policy.
// StateUnknown means the actor has no seller profile to speak of.
type VerificationState string

const (
	StateUnknown  VerificationState = ""
	StatePending  VerificationState = "PENDING"
	StateVerified VerificationState = "VERIFIED"
)

func StateOf(isVerified bool) VerificationState {
	if isVerified {
		return StateVerified
	}
	return StatePending
}

const (
	MsgAuthenticationRequired = "Authentication credentials were not provided."
	MsgAdminRequired          = "Admin access required."
	MsgSellerNotApproved      = "Not authorized or seller not approved."
	MsgUnknownAction          = "Unknown action."
)

// Decision is the outcome of Authorize. Kind is only meaningful on denial.
type Decision struct {
	Allowed bool
	Kind    apperror.Kind
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(kind apperror.Kind, reason string) Decision {
	return Decision{Kind: kind, Reason: reason}
}

// Err converts a denial into its typed error, nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &apperror.Error{Kind: d.Kind, Message: d.Reason}
}

var publicActions = map[Action]bool{
	ActionRegister:             true,
	ActionLogin:                true,
	ActionListVerified:         true,
	ActionLookupByBusinessName: true,
	ActionListProducts:         true,
	ActionCreateReview:         true,
	ActionListReviews:          true,
}

var adminActions = map[Action]bool{
	ActionListPending:     true,
	ActionAdminListAll:    true,
	ActionListUnnotified:  true,
	ActionApproveOrReject: true,
	ActionReplyReview:     true,
}

// Authorize decides whether actor may perform action. target is the
// verification state relevant to the action: for uploadProduct it is the
// state of the actor's own seller profile.
func Authorize(actor Actor, action Action, target VerificationState) Decision {
	switch {
	case publicActions[action]:
		return allow()

	case adminActions[action]:
		if !actor.Authenticated() {
			return deny(apperror.KindAuthentication, MsgAuthenticationRequired)
		}
		if !actor.IsAdmin() {
			return deny(apperror.KindAuthorization, MsgAdminRequired)
		}
		return allow()

	case action == ActionUploadProduct:
		if actor.Authenticated() && actor.Role == RoleSeller && target == StateVerified {
			return allow()
		}
		return deny(apperror.KindAuthorization, MsgSellerNotApproved)
	}

	return deny(apperror.KindAuthorization, MsgUnknownAction)
}
