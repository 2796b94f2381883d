package leave

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/peopledesk/leave-management/internal"
	"github.com/peopledesk/leave-management/internal/auth"
	leaveDatamodel "github.com/peopledesk/leave-management/internal/core/datamodel/leave"
	"github.com/peopledesk/leave-management/internal/core/events"
)

const (
	defaultPageSize = 20
)

// RepositoryAPI is the persistence port. CreateWithReserve and Decide are
// atomic units: the request write and the balance write commit or roll
// back together, and both guard their balance mutation with a conditional
// update so concurrent callers serialize correctly.
type RepositoryAPI interface {
	CreateWithReserve(req *leaveDatamodel.LeaveRequest, days int) error
	GetByID(id int64) (*leaveDatamodel.LeaveRequest, error)
	Decide(id int64, status string, deciderID int64, decidedOn time.Time, comments *string, days int) (*leaveDatamodel.LeaveRequest, error)
	List(query ListLeaveQuery) ([]*RequestRecord, int64, error)
	GetBalance(employeeID int64) (*leaveDatamodel.LeaveBalance, error)
	CreateBalance(balance *leaveDatamodel.LeaveBalance) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// TypeValidator answers whether a leave type may be attached to a new
// request. Implemented by the leavetype service; a nil validator skips
// the check.
type TypeValidator interface {
	IsValidType(id *int64) bool
}

// Service orchestrates the leave-request lifecycle: authorization via the
// gate, day counting, ledger transitions and persistence.
type Service struct {
	repo              RepositoryAPI
	gate              Gate
	types             TypeValidator
	eventBus          EventPublisher
	logger            *slog.Logger
	defaultAnnualDays int
	maxPageSize       int
}

func NewService(repo RepositoryAPI, types TypeValidator, eventBus EventPublisher, logger *slog.Logger, defaultAnnualDays, maxPageSize int) *Service {
	if defaultAnnualDays <= 0 {
		defaultAnnualDays = 24
	}
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &Service{
		repo:              repo,
		types:             types,
		eventBus:          eventBus,
		logger:            logger,
		defaultAnnualDays: defaultAnnualDays,
		maxPageSize:       maxPageSize,
	}
}

// SubmitRequest validates and authorizes a submit command, reserves the
// day count on the employee's ledger and persists the PENDING request.
// Nothing is mutated when validation fails, and the request is not
// created when the reserve fails.
func (s *Service) SubmitRequest(ctx context.Context, principal *auth.Principal, dto SubmitLeaveDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("leave submit validation failed", "error", err, "principal_id", principalID(principal))
		return nil, err
	}

	start, end, err := dto.Dates()
	if err != nil {
		return nil, internal.NewValidationError("invalid date format", internal.ErrCodeInvalidDate).WithCause(err)
	}

	if s.types != nil && dto.LeaveTypeID != nil && !s.types.IsValidType(dto.LeaveTypeID) {
		s.logger.Warn("leave submit rejected: unknown leave type",
			"leave_type_id", *dto.LeaveTypeID,
			"principal_id", principalID(principal))
		return nil, internal.NewValidationError("unknown or inactive leave type", internal.ErrCodeInvalidLeaveType)
	}

	employeeID := principal.ID
	action := ActionSubmitSelf
	if dto.EmployeeID != nil && *dto.EmployeeID != principal.ID {
		employeeID = *dto.EmployeeID
		action = ActionSubmitForOther
	}

	if err := s.gate.CanPerform(principal, action, nil); err != nil {
		s.logger.Warn("leave submit denied",
			"principal_id", principal.ID,
			"role", principal.Role,
			"target_employee_id", employeeID)
		return nil, err
	}

	request, err := NewRequest(employeeID, start, end, dto.Reason, dto.LeaveTypeID)
	if err != nil {
		return nil, err
	}

	days, err := request.Days()
	if err != nil {
		return nil, err
	}

	// Fast-fail on an obviously short balance. The conditional update in
	// CreateWithReserve remains the authoritative guard under concurrency.
	dm, err := s.repo.GetBalance(employeeID)
	if err != nil {
		return nil, err
	}
	if err := BalanceFromDataModel(dm).Reserve(days); err != nil {
		s.logger.Warn("leave submit rejected: insufficient balance",
			"employee_id", employeeID,
			"requested_days", days,
			"available_days", dm.AvailableDays)
		return nil, err
	}

	record := ToDataModel(request)
	if err := s.repo.CreateWithReserve(record, days); err != nil {
		s.logger.Error("failed to create leave request", "error", err, "employee_id", employeeID)
		return nil, err
	}
	request.ID = record.ID

	s.logger.Info("leave request submitted",
		"request_id", request.ID,
		"employee_id", employeeID,
		"days", days,
		"start_date", dto.StartDate,
		"end_date", dto.EndDate)

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.NewLeaveSubmittedEvent(request.ID, employeeID, days))
	}

	return request, nil
}

// DecideRequest applies an approve/reject command. The day count is
// recomputed from the stored request, never trusted from the caller, and
// the status change plus ledger transition commit atomically. A request
// that has already left PENDING fails with ErrAlreadyDecided for every
// caller.
func (s *Service) DecideRequest(ctx context.Context, principal *auth.Principal, requestID int64, dto DecideLeaveDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("leave decide validation failed", "error", err, "request_id", requestID)
		return nil, err
	}

	dm, err := s.repo.GetByID(requestID)
	if err != nil {
		s.logger.Error("leave request not found for decision", "error", err, "request_id", requestID)
		return nil, internal.ErrRequestNotFound
	}
	request := FromDataModel(dm)

	if err := s.gate.CanPerform(principal, ActionDecide, request); err != nil {
		s.logger.Warn("leave decide denied",
			"request_id", requestID,
			"principal_id", principalID(principal),
			"status", request.Status)
		return nil, err
	}

	days, err := request.Days()
	if err != nil {
		return nil, internal.NewInternalError("stored request has invalid date range", err)
	}

	decidedOn := time.Now()
	updated, err := s.repo.Decide(requestID, dto.Action, principal.ID, decidedOn, dto.Comments, days)
	if err != nil {
		s.logger.Error("failed to decide leave request",
			"error", err,
			"request_id", requestID,
			"action", dto.Action,
			"decider_id", principal.ID)
		return nil, err
	}

	s.logger.Info("leave request decided",
		"request_id", requestID,
		"action", dto.Action,
		"decider_id", principal.ID,
		"days", days)

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.NewLeaveDecidedEvent(requestID, updated.EmployeeID, principal.ID, dto.Action, days))
	}

	return FromDataModel(updated), nil
}

// ListRequests answers a paginated, filtered query. EMPLOYEE callers are
// always scoped to their own requests: a caller-supplied employee filter
// cannot widen what they see.
func (s *Service) ListRequests(ctx context.Context, principal *auth.Principal, query ListLeaveQuery) (*ListLeaveResult, error) {
	if err := s.gate.CanPerform(principal, ActionList, nil); err != nil {
		return nil, err
	}

	if principal.Role == auth.RoleEmployee {
		query.EmployeeID = &principal.ID
	}

	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 {
		query.PageSize = defaultPageSize
	}
	if query.PageSize > s.maxPageSize {
		query.PageSize = s.maxPageSize
	}

	records, count, err := s.repo.List(query)
	if err != nil {
		s.logger.Error("failed to list leave requests", "error", err, "principal_id", principalID(principal))
		return nil, err
	}

	numPages := 0
	if count > 0 {
		numPages = int(math.Ceil(float64(count) / float64(query.PageSize)))
	}

	return &ListLeaveResult{
		Records:     records,
		Count:       count,
		NumPages:    numPages,
		CurrentPage: query.Page,
	}, nil
}

// GetBalance returns the ledger for the caller, or for another employee
// when the caller is an approver.
func (s *Service) GetBalance(ctx context.Context, principal *auth.Principal, employeeID *int64) (*Balance, error) {
	target := principal.ID
	if employeeID != nil && *employeeID != principal.ID {
		if !principal.IsApprover() {
			return nil, internal.ErrUnauthorizedAccess
		}
		target = *employeeID
	}

	dm, err := s.repo.GetBalance(target)
	if err != nil {
		return nil, err
	}

	return BalanceFromDataModel(dm), nil
}

// ProvisionBalance creates the initial ledger for a new employee with the
// configured annual allowance. It is invoked from the employee.created
// event handler so exactly one place owns the default.
func (s *Service) ProvisionBalance(ctx context.Context, employeeID int64) (*Balance, error) {
	balance := NewBalance(employeeID, s.defaultAnnualDays)
	if err := s.repo.CreateBalance(BalanceToDataModel(balance)); err != nil {
		s.logger.Error("failed to provision leave balance", "error", err, "employee_id", employeeID)
		return nil, err
	}

	s.logger.Info("leave balance provisioned",
		"employee_id", employeeID,
		"annual_days", s.defaultAnnualDays)

	return balance, nil
}

// RegisterEventHandlers wires the service onto the in-process event bus.
func (s *Service) RegisterEventHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeEmployeeCreated, func(ctx context.Context, event events.Event) error {
		created, ok := event.(*events.EmployeeCreatedEvent)
		if !ok {
			return nil
		}
		_, err := s.ProvisionBalance(ctx, created.EmployeeID)
		return err
	})
}

func principalID(p *auth.Principal) int64 {
	if p == nil {
		return 0
	}
	return p.ID
}
