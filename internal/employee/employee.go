package employee

import (
	"time"

	"github.com/peopledesk/leave-management/internal/auth"
	employeeDatamodel "github.com/peopledesk/leave-management/internal/core/datamodel/employee"
)

// Employee is the directory entry behind every principal. Role is the
// closed server-side enum; it is never accepted from a client payload.
type Employee struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         auth.Role `json:"role"`
	Designation  string    `json:"designation"`
	Department   string    `json:"department"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (e *Employee) IsActiveEmployee() bool {
	return e.IsActive
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:           e.ID,
		Email:        e.Email,
		Name:         e.Name,
		PasswordHash: e.PasswordHash,
		Role:         string(e.Role),
		Designation:  e.Designation,
		Department:   e.Department,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func FromDataModel(dm *employeeDatamodel.Employee) *Employee {
	role, _ := auth.ParseRole(dm.Role)
	return &Employee{
		ID:           dm.ID,
		Email:        dm.Email,
		Name:         dm.Name,
		PasswordHash: dm.PasswordHash,
		Role:         role,
		Designation:  dm.Designation,
		Department:   dm.Department,
		IsActive:     dm.IsActive,
		CreatedAt:    dm.CreatedAt,
		UpdatedAt:    dm.UpdatedAt,
	}
}
