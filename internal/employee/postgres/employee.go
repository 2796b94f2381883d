package postgres

import (
	"errors"

	"github.com/peopledesk/leave-management/internal"
	employeeDatamodel "github.com/peopledesk/leave-management/internal/core/datamodel/employee"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(id int64) (*employeeDatamodel.Employee, error) {
	var emp employeeDatamodel.Employee
	err := r.db.Where("id = ?", id).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *Repository) GetByEmail(email string) (*employeeDatamodel.Employee, error) {
	var emp employeeDatamodel.Employee
	err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *Repository) Create(emp *employeeDatamodel.Employee) error {
	return r.db.Create(emp).Error
}
