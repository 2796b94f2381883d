package leave

import (
	"time"

	"github.com/peopledesk/leave-management/internal/core/common/validation"
)

const dateLayout = "2006-01-02"

// SubmitLeaveDTO is the submit payload. EmployeeID is honored only when
// the caller is an approver submitting on someone else's behalf.
type SubmitLeaveDTO struct {
	EmployeeID  *int64 `json:"employee_id,omitempty"`
	LeaveTypeID *int64 `json:"leave_type_id,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason"`
}

func (d SubmitLeaveDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("start_date", d.StartDate).Required().ISODate()
	v.Field("end_date", d.EndDate).Required().ISODate()
	v.Field("reason", d.Reason).Required().MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Dates parses the validated date strings. Call Validate first.
func (d SubmitLeaveDTO) Dates() (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, d.StartDate)
	if err != nil {
		return
	}
	end, err = time.Parse(dateLayout, d.EndDate)
	return
}

// DecideLeaveDTO is the approve/reject payload.
type DecideLeaveDTO struct {
	Action   string  `json:"action"`
	Comments *string `json:"comments,omitempty"`
}

func (d DecideLeaveDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("action", d.Action).Required().OneOf(ActionApprove, ActionReject)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ListLeaveQuery carries normalized list filters. EmployeeID is forced to
// the principal for EMPLOYEE callers regardless of what was supplied.
type ListLeaveQuery struct {
	Page       int
	PageSize   int
	Status     string
	Search     string
	EmployeeID *int64
}

// DeciderInfo is the precise shape of the decided_by field: no untyped
// nested object ever crosses the wire.
type DeciderInfo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RequestRecord is a list/detail row: the request joined with the owning
// employee's identity and, once decided, the decider's.
type RequestRecord struct {
	Request
	EmployeeName  string       `json:"employee_name"`
	EmployeeEmail string       `json:"employee_email"`
	DecidedBy     *DeciderInfo `json:"decided_by,omitempty"`
}

// ListLeaveResult is the paginated list envelope.
type ListLeaveResult struct {
	Records     []*RequestRecord `json:"records"`
	Count       int64            `json:"count"`
	NumPages    int              `json:"num_pages"`
	CurrentPage int              `json:"current_page"`
}
