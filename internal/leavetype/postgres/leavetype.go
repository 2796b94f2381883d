package postgres

import (
	"errors"

	leavetypeDatamodel "github.com/peopledesk/leave-management/internal/core/datamodel/leavetype"
	"github.com/peopledesk/leave-management/internal/leavetype"
	"gorm.io/gorm"
)

type LeaveTypeRepository struct {
	db *gorm.DB
}

func NewLeaveTypeRepository(db *gorm.DB) leavetype.RepositoryAPI {
	return &LeaveTypeRepository{db: db}
}

func (r *LeaveTypeRepository) GetAll() ([]*leavetypeDatamodel.LeaveType, error) {
	var types []*leavetypeDatamodel.LeaveType
	err := r.db.Order("name ASC").Find(&types).Error
	return types, err
}

func (r *LeaveTypeRepository) GetByID(id int64) (*leavetypeDatamodel.LeaveType, error) {
	var lt leavetypeDatamodel.LeaveType
	err := r.db.Where("id = ?", id).First(&lt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lt, nil
}

func (r *LeaveTypeRepository) Create(lt *leavetypeDatamodel.LeaveType) error {
	return r.db.Create(lt).Error
}
