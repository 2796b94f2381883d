package leavetype

import "github.com/peopledesk/leave-management/internal/core/common/validation"

// CreateLeaveTypeDTO is the payload for registering a new leave type.
type CreateLeaveTypeDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d CreateLeaveTypeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("description", d.Description).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type LeaveTypeResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LeaveTypesResponse struct {
	LeaveTypes []LeaveTypeResponse `json:"leave_types"`
}
