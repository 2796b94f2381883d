package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeEmployeeCreated = "employee.created"
	EventTypeLeaveSubmitted  = "leave.submitted"
	EventTypeLeaveDecided    = "leave.decided"
)

type EmployeeCreatedEvent struct {
	BaseEvent
	EmployeeID int64  `json:"employee_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

func NewEmployeeCreatedEvent(employeeID int64, email, role string) *EmployeeCreatedEvent {
	return &EmployeeCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeEmployeeCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"employee_id": employeeID,
				"email":       email,
				"role":        role,
			},
		},
		EmployeeID: employeeID,
		Email:      email,
		Role:       role,
	}
}

type LeaveSubmittedEvent struct {
	BaseEvent
	RequestID  int64 `json:"request_id"`
	EmployeeID int64 `json:"employee_id"`
	Days       int   `json:"days"`
}

func NewLeaveSubmittedEvent(requestID, employeeID int64, days int) *LeaveSubmittedEvent {
	return &LeaveSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":  requestID,
				"employee_id": employeeID,
				"days":        days,
			},
		},
		RequestID:  requestID,
		EmployeeID: employeeID,
		Days:       days,
	}
}

type LeaveDecidedEvent struct {
	BaseEvent
	RequestID  int64  `json:"request_id"`
	EmployeeID int64  `json:"employee_id"`
	DeciderID  int64  `json:"decider_id"`
	Status     string `json:"status"`
	Days       int    `json:"days"`
}

func NewLeaveDecidedEvent(requestID, employeeID, deciderID int64, status string, days int) *LeaveDecidedEvent {
	return &LeaveDecidedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveDecided,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":  requestID,
				"employee_id": employeeID,
				"decider_id":  deciderID,
				"status":      status,
				"days":        days,
			},
		},
		RequestID:  requestID,
		EmployeeID: employeeID,
		DeciderID:  deciderID,
		Status:     status,
		Days:       days,
	}
}
