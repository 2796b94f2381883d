package leavetype

import (
	"time"

	leavetypeDatamodel "github.com/peopledesk/leave-management/internal/core/datamodel/leavetype"
)

type LeaveType struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (t *LeaveType) IsActiveType() bool {
	return t.IsActive
}

func (t *LeaveType) ToResponse() LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
	}
}

func NewLeaveType(name, description string) *LeaveType {
	return &LeaveType{
		Name:        name,
		Description: description,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
}

func ToDataModel(t *LeaveType) *leavetypeDatamodel.LeaveType {
	return &leavetypeDatamodel.LeaveType{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
	}
}

func FromDataModel(dm *leavetypeDatamodel.LeaveType) *LeaveType {
	return &LeaveType{
		ID:          dm.ID,
		Name:        dm.Name,
		Description: dm.Description,
		IsActive:    dm.IsActive,
		CreatedAt:   dm.CreatedAt,
	}
}
