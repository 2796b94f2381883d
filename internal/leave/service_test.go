package leave_test

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/peopledesk/leave-management/internal"
	"github.com/peopledesk/leave-management/internal/auth"
	leaveDatamodel "github.com/peopledesk/leave-management/internal/core/datamodel/leave"
	"github.com/peopledesk/leave-management/internal/core/events"
	"github.com/peopledesk/leave-management/internal/leave"
)

type mockEmployee struct {
	Name  string
	Email string
}

// Mock repository for testing. It mirrors the conditional-update
// semantics of the real repository: reserve fails without mutating
// anything when the balance is short, and decide fails once the request
// has left PENDING.
type mockLeaveRepository struct {
	requests  map[int64]*leaveDatamodel.LeaveRequest
	balances  map[int64]*leaveDatamodel.LeaveBalance
	employees map[int64]mockEmployee
	nextID    int64

	createError error
	listError   error
}

func newMockLeaveRepository() *mockLeaveRepository {
	return &mockLeaveRepository{
		requests:  make(map[int64]*leaveDatamodel.LeaveRequest),
		balances:  make(map[int64]*leaveDatamodel.LeaveBalance),
		employees: make(map[int64]mockEmployee),
		nextID:    1,
	}
}

func (m *mockLeaveRepository) CreateWithReserve(req *leaveDatamodel.LeaveRequest, days int) error {
	if m.createError != nil {
		return m.createError
	}

	balance, exists := m.balances[req.EmployeeID]
	if !exists {
		return internal.ErrBalanceNotFound
	}
	if balance.AvailableDays < days {
		return internal.ErrInsufficientBalance
	}

	balance.AvailableDays -= days
	balance.PendingDays += days

	req.ID = m.nextID
	m.nextID++
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()
	m.requests[req.ID] = req

	return nil
}

func (m *mockLeaveRepository) GetByID(id int64) (*leaveDatamodel.LeaveRequest, error) {
	req, exists := m.requests[id]
	if !exists {
		return nil, internal.ErrRequestNotFound
	}
	return req, nil
}

func (m *mockLeaveRepository) Decide(id int64, status string, deciderID int64, decidedOn time.Time, comments *string, days int) (*leaveDatamodel.LeaveRequest, error) {
	req, exists := m.requests[id]
	if !exists {
		return nil, internal.ErrRequestNotFound
	}
	if req.Status != leave.StatusPending {
		return nil, internal.ErrAlreadyDecided
	}

	balance := m.balances[req.EmployeeID]
	switch status {
	case leave.StatusApproved:
		balance.PendingDays -= days
		balance.UsedDays += days
	case leave.StatusRejected:
		balance.PendingDays -= days
		balance.AvailableDays += days
	}

	req.Status = status
	req.DecidedByID = &deciderID
	req.DecidedOn = &decidedOn
	req.Comments = comments
	req.UpdatedAt = time.Now()

	return req, nil
}

func (m *mockLeaveRepository) List(query leave.ListLeaveQuery) ([]*leave.RequestRecord, int64, error) {
	if m.listError != nil {
		return nil, 0, m.listError
	}

	var matched []*leaveDatamodel.LeaveRequest
	for _, req := range m.requests {
		if query.EmployeeID != nil && req.EmployeeID != *query.EmployeeID {
			continue
		}
		if query.Status != "" && req.Status != query.Status {
			continue
		}
		if query.Search != "" {
			emp := m.employees[req.EmployeeID]
			needle := strings.ToLower(query.Search)
			if !strings.Contains(strings.ToLower(emp.Name), needle) &&
				!strings.Contains(strings.ToLower(emp.Email), needle) &&
				!strings.Contains(strings.ToLower(req.Reason), needle) {
				continue
			}
		}
		matched = append(matched, req)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].AppliedOn.Equal(matched[j].AppliedOn) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].AppliedOn.After(matched[j].AppliedOn)
	})

	count := int64(len(matched))

	start := (query.Page - 1) * query.PageSize
	end := start + query.PageSize
	if start >= len(matched) {
		return []*leave.RequestRecord{}, count, nil
	}
	if end > len(matched) {
		end = len(matched)
	}

	records := make([]*leave.RequestRecord, 0, end-start)
	for _, req := range matched[start:end] {
		emp := m.employees[req.EmployeeID]
		record := &leave.RequestRecord{
			Request:       *leave.FromDataModel(req),
			EmployeeName:  emp.Name,
			EmployeeEmail: emp.Email,
		}
		if req.DecidedByID != nil {
			decider := m.employees[*req.DecidedByID]
			record.DecidedBy = &leave.DeciderInfo{
				ID:    *req.DecidedByID,
				Name:  decider.Name,
				Email: decider.Email,
			}
		}
		records = append(records, record)
	}

	return records, count, nil
}

func (m *mockLeaveRepository) GetBalance(employeeID int64) (*leaveDatamodel.LeaveBalance, error) {
	balance, exists := m.balances[employeeID]
	if !exists {
		return nil, internal.ErrBalanceNotFound
	}
	return balance, nil
}

func (m *mockLeaveRepository) CreateBalance(balance *leaveDatamodel.LeaveBalance) error {
	m.balances[balance.EmployeeID] = balance
	return nil
}

func (m *mockLeaveRepository) seedBalance(employeeID int64, annual int) {
	m.balances[employeeID] = &leaveDatamodel.LeaveBalance{
		EmployeeID:     employeeID,
		CurrentBalance: annual,
		AvailableDays:  annual,
	}
}

// mockTypeValidator knows a fixed set of leave type IDs.
type mockTypeValidator struct {
	valid map[int64]bool
}

func (m *mockTypeValidator) IsValidType(id *int64) bool {
	if id == nil {
		return true
	}
	return m.valid[*id]
}

var _ = Describe("LeaveService", func() {
	var (
		service   *leave.Service
		mockRepo  *mockLeaveRepository
		mockTypes *mockTypeValidator
		logger    *slog.Logger
		ctx       context.Context

		employeePrincipal *auth.Principal
		managerPrincipal  *auth.Principal
		hrPrincipal       *auth.Principal
	)

	submitDTO := func(start, end string) leave.SubmitLeaveDTO {
		return leave.SubmitLeaveDTO{
			StartDate: start,
			EndDate:   end,
			Reason:    "family holiday",
		}
	}

	BeforeEach(func() {
		mockRepo = newMockLeaveRepository()
		mockTypes = &mockTypeValidator{valid: map[int64]bool{1: true}}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = leave.NewService(mockRepo, mockTypes, nil, logger, 24, 100)
		ctx = context.Background()

		employeePrincipal = &auth.Principal{ID: 1, Email: "sinta@mail.com", Name: "Sinta", Role: auth.RoleEmployee}
		managerPrincipal = &auth.Principal{ID: 2, Email: "rina@mail.com", Name: "Rina", Role: auth.RoleManager}
		hrPrincipal = &auth.Principal{ID: 3, Email: "dewi@mail.com", Name: "Dewi", Role: auth.RoleHR}

		mockRepo.employees[1] = mockEmployee{Name: "Sinta", Email: "sinta@mail.com"}
		mockRepo.employees[2] = mockEmployee{Name: "Rina", Email: "rina@mail.com"}
		mockRepo.employees[3] = mockEmployee{Name: "Dewi", Email: "dewi@mail.com"}
	})

	Describe("SubmitRequest", func() {
		BeforeEach(func() {
			mockRepo.seedBalance(1, 24)
		})

		It("creates a PENDING request and reserves the days", func() {
			result, err := service.SubmitRequest(ctx, employeePrincipal, submitDTO("2026-04-01", "2026-04-03"))

			Expect(err).ToNot(HaveOccurred())
			Expect(result.ID).To(BeNumerically(">", 0))
			Expect(result.EmployeeID).To(Equal(int64(1)))
			Expect(result.Status).To(Equal(leave.StatusPending))
			Expect(result.AppliedOn).ToNot(BeZero())

			balance := mockRepo.balances[1]
			Expect(balance.AvailableDays).To(Equal(21))
			Expect(balance.PendingDays).To(Equal(3))
			Expect(balance.UsedDays).To(Equal(0))
		})

		It("rejects a request that exceeds the available balance", func() {
			_, err := service.SubmitRequest(ctx, employeePrincipal, submitDTO("2026-04-01", "2026-05-30"))

			Expect(err).To(MatchError(internal.ErrInsufficientBalance))
			Expect(mockRepo.requests).To(BeEmpty())

			balance := mockRepo.balances[1]
			Expect(balance.AvailableDays).To(Equal(24))
			Expect(balance.PendingDays).To(Equal(0))
		})

		It("accepts a known leave type", func() {
			typeID := int64(1)
			dto := submitDTO("2026-04-01", "2026-04-03")
			dto.LeaveTypeID = &typeID

			result, err := service.SubmitRequest(ctx, employeePrincipal, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.LeaveTypeID).ToNot(BeNil())
			Expect(*result.LeaveTypeID).To(Equal(int64(1)))
		})

		It("rejects an unknown leave type without touching the ledger", func() {
			typeID := int64(99)
			dto := submitDTO("2026-04-01", "2026-04-03")
			dto.LeaveTypeID = &typeID

			_, err := service.SubmitRequest(ctx, employeePrincipal, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidLeaveType))
			Expect(mockRepo.requests).To(BeEmpty())

			balance := mockRepo.balances[1]
			Expect(balance.AvailableDays).To(Equal(24))
			Expect(balance.PendingDays).To(Equal(0))
		})

		It("rejects a request on an exhausted balance without mutating it", func() {
			mockRepo.balances[1].AvailableDays = 0
			mockRepo.balances[1].PendingDays = 24

			_, err := service.SubmitRequest(ctx, employeePrincipal, submitDTO("2026-04-01", "2026-04-01"))

			Expect(err).To(MatchError(internal.ErrInsufficientBalance))
			Expect(mockRepo.requests).To(BeEmpty())
			Expect(mockRepo.balances[1].PendingDays).To(Equal(24))
		})

		It("allows reserving exactly the remaining balance", func() {
			result, err := service.SubmitRequest(ctx, employeePrincipal, submitDTO("2026-04-01", "2026-04-24"))

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(leave.StatusPending))
			Expect(mockRepo.balances[1].AvailableDays).To(Equal(0))
			Expect(mockRepo.balances[1].PendingDays).To(Equal(24))
		})

		It("rejects an end date before the start date without touching the balance", func() {
			_, err := service.SubmitRequest(ctx, employeePrincipal, submitDTO("2026-04-03", "2026-04-01"))

			Expect(err).To(HaveOccurred())
			Expect(mockRepo.requests).To(BeEmpty())
			Expect(mockRepo.balances[1].AvailableDays).To(Equal(24))
		})

		It("rejects a blank reason", func() {
			dto := submitDTO("2026-04-01", "2026-04-03")
			dto.Reason = "   "
			_, err := service.SubmitRequest(ctx, employeePrincipal, dto)

			Expect(err).To(HaveOccurred())
			Expect(mockRepo.requests).To(BeEmpty())
		})

		It("rejects malformed dates", func() {
			_, err := service.SubmitRequest(ctx, employeePrincipal, submitDTO("01-04-2026", "03-04-2026"))
			Expect(err).To(HaveOccurred())
			Expect(mockRepo.requests).To(BeEmpty())
		})

		It("fails with a clear error when the employee has no ledger", func() {
			noLedger := &auth.Principal{ID: 99, Role: auth.RoleEmployee}
			_, err := service.SubmitRequest(ctx, noLedger, submitDTO("2026-04-01", "2026-04-03"))
			Expect(err).To(MatchError(internal.ErrBalanceNotFound))
		})

		Context("on behalf of another employee", func() {
			BeforeEach(func() {
				mockRepo.seedBalance(2, 24)
			})

			It("is refused for an EMPLOYEE caller", func() {
				dto := submitDTO("2026-04-01", "2026-04-03")
				target := int64(2)
				dto.EmployeeID = &target

				_, err := service.SubmitRequest(ctx, employeePrincipal, dto)
				Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
				Expect(mockRepo.requests).To(BeEmpty())
			})

			It("creates the request for the target employee when the caller is HR", func() {
				dto := submitDTO("2026-04-01", "2026-04-03")
				target := int64(1)
				dto.EmployeeID = &target

				result, err := service.SubmitRequest(ctx, hrPrincipal, dto)
				Expect(err).ToNot(HaveOccurred())
				Expect(result.EmployeeID).To(Equal(int64(1)))
				Expect(mockRepo.balances[1].PendingDays).To(Equal(3))
			})

			It("treats a matching employee_id as a self submit", func() {
				dto := submitDTO("2026-04-01", "2026-04-03")
				self := int64(1)
				dto.EmployeeID = &self

				_, err := service.SubmitRequest(ctx, employeePrincipal, dto)
				Expect(err).ToNot(HaveOccurred())
			})
		})
	})

	Describe("DecideRequest", func() {
		var requestID int64

		BeforeEach(func() {
			mockRepo.seedBalance(1, 24)
			result, err := service.SubmitRequest(ctx, employeePrincipal, submitDTO("2026-04-01", "2026-04-03"))
			Expect(err).ToNot(HaveOccurred())
			requestID = result.ID
		})

		It("approves a pending request and commits the reserved days", func() {
			result, err := service.DecideRequest(ctx, managerPrincipal, requestID, leave.DecideLeaveDTO{Action: leave.ActionApprove})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(leave.StatusApproved))
			Expect(result.DecidedByID).ToNot(BeNil())
			Expect(*result.DecidedByID).To(Equal(int64(2)))
			Expect(result.DecidedOn).ToNot(BeNil())

			balance := mockRepo.balances[1]
			Expect(balance.UsedDays).To(Equal(3))
			Expect(balance.PendingDays).To(Equal(0))
			Expect(balance.AvailableDays).To(Equal(21))
		})

		It("rejects a pending request and releases the reserved days", func() {
			comments := "project deadline"
			result, err := service.DecideRequest(ctx, managerPrincipal, requestID, leave.DecideLeaveDTO{Action: leave.ActionReject, Comments: &comments})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(leave.StatusRejected))
			Expect(result.Comments).ToNot(BeNil())
			Expect(*result.Comments).To(Equal("project deadline"))

			balance := mockRepo.balances[1]
			Expect(balance.UsedDays).To(Equal(0))
			Expect(balance.PendingDays).To(Equal(0))
			Expect(balance.AvailableDays).To(Equal(24))
		})

		It("fails the second decision on the same request", func() {
			_, err := service.DecideRequest(ctx, managerPrincipal, requestID, leave.DecideLeaveDTO{Action: leave.ActionApprove})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.DecideRequest(ctx, hrPrincipal, requestID, leave.DecideLeaveDTO{Action: leave.ActionReject})
			Expect(err).To(MatchError(internal.ErrAlreadyDecided))

			// ledger reflects the first decision only
			balance := mockRepo.balances[1]
			Expect(balance.UsedDays).To(Equal(3))
			Expect(balance.PendingDays).To(Equal(0))
			Expect(balance.AvailableDays).To(Equal(21))
		})

		It("is refused for an EMPLOYEE caller", func() {
			_, err := service.DecideRequest(ctx, employeePrincipal, requestID, leave.DecideLeaveDTO{Action: leave.ActionApprove})
			Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
			Expect(mockRepo.requests[requestID].Status).To(Equal(leave.StatusPending))
		})

		It("fails for an unknown request", func() {
			_, err := service.DecideRequest(ctx, managerPrincipal, 9999, leave.DecideLeaveDTO{Action: leave.ActionApprove})
			Expect(err).To(MatchError(internal.ErrRequestNotFound))
		})

		It("rejects an unknown action", func() {
			_, err := service.DecideRequest(ctx, managerPrincipal, requestID, leave.DecideLeaveDTO{Action: "CANCELLED"})
			Expect(err).To(HaveOccurred())
			Expect(mockRepo.requests[requestID].Status).To(Equal(leave.StatusPending))
		})
	})

	Describe("ListRequests", func() {
		BeforeEach(func() {
			mockRepo.seedBalance(1, 24)
			mockRepo.seedBalance(2, 24)

			_, err := service.SubmitRequest(ctx, employeePrincipal, submitDTO("2026-04-01", "2026-04-03"))
			Expect(err).ToNot(HaveOccurred())

			dto := submitDTO("2026-05-01", "2026-05-02")
			dto.Reason = "conference travel"
			target := int64(2)
			dto.EmployeeID = &target
			_, err = service.SubmitRequest(ctx, managerPrincipal, dto)
			Expect(err).ToNot(HaveOccurred())
		})

		It("scopes EMPLOYEE callers to their own requests", func() {
			other := int64(2)
			result, err := service.ListRequests(ctx, employeePrincipal, leave.ListLeaveQuery{EmployeeID: &other})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Records).To(HaveLen(1))
			Expect(result.Records[0].EmployeeID).To(Equal(int64(1)))
		})

		It("lets approvers see all requests", func() {
			result, err := service.ListRequests(ctx, managerPrincipal, leave.ListLeaveQuery{})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Records).To(HaveLen(2))
			Expect(result.Count).To(Equal(int64(2)))
		})

		It("lets approvers filter by employee", func() {
			target := int64(2)
			result, err := service.ListRequests(ctx, hrPrincipal, leave.ListLeaveQuery{EmployeeID: &target})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Records).To(HaveLen(1))
			Expect(result.Records[0].EmployeeID).To(Equal(int64(2)))
		})

		It("filters by status", func() {
			_, err := service.DecideRequest(ctx, managerPrincipal, 1, leave.DecideLeaveDTO{Action: leave.ActionApprove})
			Expect(err).ToNot(HaveOccurred())

			result, err := service.ListRequests(ctx, managerPrincipal, leave.ListLeaveQuery{Status: leave.StatusPending})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Records).To(HaveLen(1))
			Expect(result.Records[0].Status).To(Equal(leave.StatusPending))
		})

		It("searches case-insensitively across name, email and reason", func() {
			result, err := service.ListRequests(ctx, managerPrincipal, leave.ListLeaveQuery{Search: "CONFERENCE"})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Records).To(HaveLen(1))
			Expect(result.Records[0].Reason).To(Equal("conference travel"))

			result, err = service.ListRequests(ctx, managerPrincipal, leave.ListLeaveQuery{Search: "sinta@"})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Records).To(HaveLen(1))
			Expect(result.Records[0].EmployeeID).To(Equal(int64(1)))
		})

		It("returns newest applied_on first", func() {
			result, err := service.ListRequests(ctx, managerPrincipal, leave.ListLeaveQuery{})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Records).To(HaveLen(2))
			Expect(result.Records[0].AppliedOn.Before(result.Records[1].AppliedOn)).To(BeFalse())
		})

		It("computes pagination metadata", func() {
			result, err := service.ListRequests(ctx, managerPrincipal, leave.ListLeaveQuery{Page: 1, PageSize: 1})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Records).To(HaveLen(1))
			Expect(result.Count).To(Equal(int64(2)))
			Expect(result.NumPages).To(Equal(2))
			Expect(result.CurrentPage).To(Equal(1))
		})

		It("returns an empty page beyond the last one with the true count", func() {
			result, err := service.ListRequests(ctx, managerPrincipal, leave.ListLeaveQuery{Page: 5, PageSize: 20})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Records).To(BeEmpty())
			Expect(result.Count).To(Equal(int64(2)))
			Expect(result.CurrentPage).To(Equal(5))
		})

		It("clamps the page size to the configured maximum", func() {
			result, err := service.ListRequests(ctx, managerPrincipal, leave.ListLeaveQuery{Page: 1, PageSize: 10000})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.NumPages).To(Equal(1))
		})
	})

	Describe("GetBalance", func() {
		BeforeEach(func() {
			mockRepo.seedBalance(1, 24)
		})

		It("returns the caller's own balance", func() {
			balance, err := service.GetBalance(ctx, employeePrincipal, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(balance.EmployeeID).To(Equal(int64(1)))
			Expect(balance.AvailableDays).To(Equal(24))
		})

		It("refuses an EMPLOYEE asking for another employee's balance", func() {
			other := int64(2)
			_, err := service.GetBalance(ctx, employeePrincipal, &other)
			Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
		})

		It("lets an approver read another employee's balance", func() {
			target := int64(1)
			balance, err := service.GetBalance(ctx, managerPrincipal, &target)
			Expect(err).ToNot(HaveOccurred())
			Expect(balance.EmployeeID).To(Equal(int64(1)))
		})

		It("fails when no ledger exists", func() {
			missing := int64(42)
			_, err := service.GetBalance(ctx, managerPrincipal, &missing)
			Expect(err).To(MatchError(internal.ErrBalanceNotFound))
		})
	})

	Describe("ProvisionBalance", func() {
		It("creates a fresh ledger with the configured allowance", func() {
			balance, err := service.ProvisionBalance(ctx, 7)
			Expect(err).ToNot(HaveOccurred())
			Expect(balance.CurrentBalance).To(Equal(24))
			Expect(balance.AvailableDays).To(Equal(24))
			Expect(mockRepo.balances).To(HaveKey(int64(7)))
		})

		It("provisions through the employee.created event", func() {
			bus := events.NewEventBus(logger)
			service.RegisterEventHandlers(bus)

			err := bus.PublishSync(ctx, events.NewEmployeeCreatedEvent(8, "new@mail.com", "EMPLOYEE"))
			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.balances).To(HaveKey(int64(8)))
			Expect(mockRepo.balances[8].AvailableDays).To(Equal(24))
		})
	})
})
