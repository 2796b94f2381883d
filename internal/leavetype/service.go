package leavetype

import (
	"log/slog"

	leavetypeDatamodel "github.com/peopledesk/leave-management/internal/core/datamodel/leavetype"
)

type RepositoryAPI interface {
	GetAll() ([]*leavetypeDatamodel.LeaveType, error)
	GetByID(id int64) (*leavetypeDatamodel.LeaveType, error)
	Create(lt *leavetypeDatamodel.LeaveType) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetActiveTypes() ([]LeaveTypeResponse, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get leave types from repository", "error", err)
		return nil, err
	}

	var responses []LeaveTypeResponse
	for _, row := range rows {
		lt := FromDataModel(row)
		if lt.IsActiveType() {
			responses = append(responses, lt.ToResponse())
		}
	}

	return responses, nil
}

// IsValidType reports whether the given ID refers to an active leave
// type. A nil ID is valid: requests may omit the type.
func (s *Service) IsValidType(id *int64) bool {
	if id == nil {
		return true
	}
	row, err := s.repo.GetByID(*id)
	if err != nil || row == nil {
		return false
	}
	return row.IsActive
}

func (s *Service) Create(name, description string) (*LeaveType, error) {
	lt := NewLeaveType(name, description)
	dm := ToDataModel(lt)
	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create leave type", "error", err, "name", name)
		return nil, err
	}
	lt.ID = dm.ID
	return lt, nil
}
