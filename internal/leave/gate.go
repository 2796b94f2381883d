package leave

import (
	"github.com/peopledesk/leave-management/internal"
	"github.com/peopledesk/leave-management/internal/auth"
)

// Action is the closed set of operations the gate rules on.
type Action string

const (
	ActionSubmitSelf     Action = "SUBMIT_SELF"
	ActionSubmitForOther Action = "SUBMIT_FOR_OTHER"
	ActionList           Action = "LIST"
	ActionDecide         Action = "DECIDE"
)

// Gate is the single authority for who may do what to a leave request.
// It is a pure predicate over principal, action and request; it reads
// the server-side role only and performs no I/O.
type Gate struct{}

// CanPerform returns nil when the principal may perform the action,
// otherwise the AppError describing the refusal.
//
// Rules:
//
//	role     | SUBMIT_SELF | SUBMIT_FOR_OTHER | LIST       | DECIDE
//	EMPLOYEE | yes         | no               | own only   | no
//	MANAGER  | yes         | yes              | all        | pending only
//	HR       | yes         | yes              | all        | pending only
//	ADMIN    | yes         | yes              | all        | pending only
//
// LIST scoping for EMPLOYEE is enforced by the service, which pins the
// employee filter to the principal; the gate itself admits the action.
func (Gate) CanPerform(principal *auth.Principal, action Action, request *Request) error {
	if principal == nil || !principal.Role.Valid() {
		return internal.ErrUnauthorizedAccess
	}

	switch action {
	case ActionSubmitSelf, ActionList:
		return nil

	case ActionSubmitForOther:
		if !principal.IsApprover() {
			return internal.ErrUnauthorizedAccess
		}
		return nil

	case ActionDecide:
		// A decided request is refused before the role is consulted:
		// the idempotent-decision guard applies to every caller.
		if request != nil && !request.CanBeDecided() {
			return internal.ErrAlreadyDecided
		}
		if !principal.IsApprover() {
			return internal.ErrUnauthorizedAccess
		}
		return nil

	default:
		return internal.ErrUnauthorizedAccess
	}
}
