package leave

import (
	"strings"
	"time"

	"github.com/peopledesk/leave-management/internal"
	leaveDatamodel "github.com/peopledesk/leave-management/internal/core/datamodel/leave"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const (
	ActionApprove = "APPROVED"
	ActionReject  = "REJECTED"
)

// Request is a single leave request. PENDING is the only non-terminal
// status: once a request is APPROVED or REJECTED it never changes again,
// and decided_by/decided_on/comments are set exactly when it leaves
// PENDING. Requests are never physically deleted.
type Request struct {
	ID          int64      `json:"id"`
	EmployeeID  int64      `json:"employee_id"`
	LeaveTypeID *int64     `json:"leave_type_id,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	Reason      string     `json:"reason"`
	Status      string     `json:"status"`
	AppliedOn   time.Time  `json:"applied_on"`
	DecidedByID *int64     `json:"decided_by_id,omitempty"`
	DecidedOn   *time.Time `json:"decided_on,omitempty"`
	Comments    *string    `json:"comments,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

func (r *Request) CanBeDecided() bool {
	return r.IsPending()
}

// Days recomputes the request's day count from its own stored dates.
// The count is derived, never stored, so it cannot drift from the range.
func (r *Request) Days() (int, error) {
	return DaysBetween(r.StartDate, r.EndDate)
}

func (r *Request) Approve(deciderID int64, comments *string) {
	r.decide(StatusApproved, deciderID, comments)
}

func (r *Request) Reject(deciderID int64, comments *string) {
	r.decide(StatusRejected, deciderID, comments)
}

func (r *Request) decide(status string, deciderID int64, comments *string) {
	now := time.Now()
	r.Status = status
	r.DecidedByID = &deciderID
	r.DecidedOn = &now
	r.Comments = comments
	r.UpdatedAt = now
}

// NewRequest validates the submit input and builds a PENDING request.
// Validation runs before any balance mutation: a request with a bad
// range or empty reason must never reach the reserve step.
func NewRequest(employeeID int64, start, end time.Time, reason string, leaveTypeID *int64) (*Request, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, internal.ErrEmptyReason
	}
	if _, err := DaysBetween(start, end); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Request{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		StartDate:   toDate(start),
		EndDate:     toDate(end),
		Reason:      strings.TrimSpace(reason),
		Status:      StatusPending,
		AppliedOn:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func ToDataModel(r *Request) *leaveDatamodel.LeaveRequest {
	return &leaveDatamodel.LeaveRequest{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		LeaveTypeID: r.LeaveTypeID,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Reason:      r.Reason,
		Status:      r.Status,
		AppliedOn:   r.AppliedOn,
		DecidedByID: r.DecidedByID,
		DecidedOn:   r.DecidedOn,
		Comments:    r.Comments,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func FromDataModel(r *leaveDatamodel.LeaveRequest) *Request {
	return &Request{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		LeaveTypeID: r.LeaveTypeID,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Reason:      r.Reason,
		Status:      r.Status,
		AppliedOn:   r.AppliedOn,
		DecidedByID: r.DecidedByID,
		DecidedOn:   r.DecidedOn,
		Comments:    r.Comments,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func FromDataModelSlice(requests []*leaveDatamodel.LeaveRequest) []*Request {
	result := make([]*Request, len(requests))
	for i, r := range requests {
		result[i] = FromDataModel(r)
	}
	return result
}
