package leave_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/peopledesk/leave-management/internal"
	"github.com/peopledesk/leave-management/internal/auth"
	"github.com/peopledesk/leave-management/internal/leave"
)

var _ = Describe("Gate", func() {
	var gate leave.Gate

	principalWithRole := func(role auth.Role) *auth.Principal {
		return &auth.Principal{ID: 1, Email: "p@mail.com", Name: "P", Role: role}
	}

	pendingRequest := func() *leave.Request {
		req, err := leave.NewRequest(2, date(2026, 4, 1), date(2026, 4, 3), "family visit", nil)
		Expect(err).ToNot(HaveOccurred())
		return req
	}

	Describe("submitting for self", func() {
		It("is allowed for every role", func() {
			for _, role := range []auth.Role{auth.RoleEmployee, auth.RoleManager, auth.RoleHR, auth.RoleAdmin} {
				err := gate.CanPerform(principalWithRole(role), leave.ActionSubmitSelf, nil)
				Expect(err).ToNot(HaveOccurred(), "role %s", role)
			}
		})
	})

	Describe("submitting on behalf of another employee", func() {
		It("is refused for EMPLOYEE", func() {
			err := gate.CanPerform(principalWithRole(auth.RoleEmployee), leave.ActionSubmitForOther, nil)
			Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
		})

		It("is allowed for approver roles", func() {
			for _, role := range []auth.Role{auth.RoleManager, auth.RoleHR, auth.RoleAdmin} {
				err := gate.CanPerform(principalWithRole(role), leave.ActionSubmitForOther, nil)
				Expect(err).ToNot(HaveOccurred(), "role %s", role)
			}
		})
	})

	Describe("listing", func() {
		It("is allowed for every role", func() {
			for _, role := range []auth.Role{auth.RoleEmployee, auth.RoleManager, auth.RoleHR, auth.RoleAdmin} {
				err := gate.CanPerform(principalWithRole(role), leave.ActionList, nil)
				Expect(err).ToNot(HaveOccurred(), "role %s", role)
			}
		})
	})

	Describe("deciding", func() {
		It("is refused for EMPLOYEE on a pending request", func() {
			err := gate.CanPerform(principalWithRole(auth.RoleEmployee), leave.ActionDecide, pendingRequest())
			Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
		})

		It("is allowed for approver roles on a pending request", func() {
			for _, role := range []auth.Role{auth.RoleManager, auth.RoleHR, auth.RoleAdmin} {
				err := gate.CanPerform(principalWithRole(role), leave.ActionDecide, pendingRequest())
				Expect(err).ToNot(HaveOccurred(), "role %s", role)
			}
		})

		It("refuses a decided request before consulting the role", func() {
			req := pendingRequest()
			req.Approve(9, nil)

			// even an admin gets the already-decided refusal
			err := gate.CanPerform(principalWithRole(auth.RoleAdmin), leave.ActionDecide, req)
			Expect(err).To(MatchError(internal.ErrAlreadyDecided))

			err = gate.CanPerform(principalWithRole(auth.RoleEmployee), leave.ActionDecide, req)
			Expect(err).To(MatchError(internal.ErrAlreadyDecided))
		})
	})

	It("refuses a nil principal", func() {
		err := gate.CanPerform(nil, leave.ActionSubmitSelf, nil)
		Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
	})

	It("refuses an unknown role", func() {
		err := gate.CanPerform(&auth.Principal{ID: 1, Role: auth.Role("SUPERUSER")}, leave.ActionSubmitSelf, nil)
		Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
	})

	It("refuses an unknown action", func() {
		err := gate.CanPerform(principalWithRole(auth.RoleAdmin), leave.Action("DELETE"), nil)
		Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
	})
})
