package employee

import (
	"github.com/peopledesk/leave-management/internal/core/common/validation"
)

// CreateEmployeeDTO is used by the seeder and admin tooling. Role is
// validated against the closed enum before it ever reaches storage.
type CreateEmployeeDTO struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Designation string `json:"designation"`
	Department  string `json:"department"`
}

func (d CreateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().MaxLength(255)
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("password", d.Password).Required()
	v.Field("role", d.Role).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
