package leave

import "time"

type LeaveRequest struct {
	ID          int64      `gorm:"primaryKey"`
	EmployeeID  int64      `gorm:"column:employee_id;not null;index:idx_leave_requests_employee"`
	LeaveTypeID *int64     `gorm:"column:leave_type_id"`
	StartDate   time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate     time.Time  `gorm:"column:end_date;type:date;not null"`
	Reason      string     `gorm:"column:reason;not null"`
	Status      string     `gorm:"column:status;not null;default:PENDING;index:idx_leave_requests_status"`
	AppliedOn   time.Time  `gorm:"column:applied_on;not null"`
	DecidedByID *int64     `gorm:"column:decided_by_id"`
	DecidedOn   *time.Time `gorm:"column:decided_on"`
	Comments    *string    `gorm:"column:comments"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

type LeaveBalance struct {
	EmployeeID     int64     `gorm:"column:employee_id;primaryKey"`
	CurrentBalance int       `gorm:"column:current_balance;not null"`
	UsedDays       int       `gorm:"column:used_days;not null;default:0"`
	PendingDays    int       `gorm:"column:pending_days;not null;default:0"`
	AvailableDays  int       `gorm:"column:available_days;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}
