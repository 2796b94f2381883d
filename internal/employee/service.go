package employee

import (
	"context"
	"log/slog"

	"github.com/peopledesk/leave-management/internal"
	"github.com/peopledesk/leave-management/internal/auth"
	employeeDatamodel "github.com/peopledesk/leave-management/internal/core/datamodel/employee"
	"github.com/peopledesk/leave-management/internal/core/events"
)

type RepositoryAPI interface {
	GetByID(id int64) (*employeeDatamodel.Employee, error)
	GetByEmail(email string) (*employeeDatamodel.Employee, error)
	Create(emp *employeeDatamodel.Employee) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo     RepositoryAPI
	eventBus EventPublisher
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *Service) GetByID(id int64) (*Employee, error) {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(dm), nil
}

// Create stores a new employee and announces it on the bus so the leave
// ledger gets provisioned by its own module.
func (s *Service) Create(ctx context.Context, dto CreateEmployeeDTO, bcryptCost int) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role, err := auth.ParseRole(dto.Role)
	if err != nil {
		return nil, internal.NewValidationError("unknown role: "+dto.Role, internal.ErrCodeValidationFailed)
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, internal.NewConflictError("employee with this email already exists", internal.ErrCodeValidationFailed)
	}

	hash, err := auth.HashPassword(dto.Password, bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	emp := &Employee{
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: hash,
		Role:         role,
		Designation:  dto.Designation,
		Department:   dto.Department,
		IsActive:     true,
	}

	dm := ToDataModel(emp)
	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create employee", "error", err, "email", dto.Email)
		return nil, err
	}
	emp.ID = dm.ID

	s.logger.Info("employee created", "employee_id", emp.ID, "email", emp.Email, "role", emp.Role)

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.NewEmployeeCreatedEvent(emp.ID, emp.Email, string(emp.Role)))
	}

	return emp, nil
}
