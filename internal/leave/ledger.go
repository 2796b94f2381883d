package leave

import (
	"time"

	"github.com/peopledesk/leave-management/internal"
	leaveDatamodel "github.com/peopledesk/leave-management/internal/core/datamodel/leave"
)

// Balance is one employee's leave ledger. The invariant
// available == current - used - pending holds across every transition,
// and all four quantities stay non-negative. Day counts are whole
// integers; partial-day leave is not representable.
type Balance struct {
	EmployeeID     int64     `json:"employee_id"`
	CurrentBalance int       `json:"current_balance"`
	UsedDays       int       `json:"used_days"`
	PendingDays    int       `json:"pending_days"`
	AvailableDays  int       `json:"available_days"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewBalance provisions a fresh ledger with the full allowance available.
func NewBalance(employeeID int64, annualDays int) *Balance {
	return &Balance{
		EmployeeID:     employeeID,
		CurrentBalance: annualDays,
		UsedDays:       0,
		PendingDays:    0,
		AvailableDays:  annualDays,
		UpdatedAt:      time.Now(),
	}
}

// Reserve debits the available pool and credits pending at submit time.
// It runs exactly once per request, before the request is persisted.
func (b *Balance) Reserve(days int) error {
	if days <= 0 {
		return internal.NewValidationError("reserved days must be positive", internal.ErrCodeValidationFailed)
	}
	if days > b.AvailableDays {
		return internal.ErrInsufficientBalance
	}

	b.PendingDays += days
	b.AvailableDays -= days
	b.UpdatedAt = time.Now()
	return nil
}

// CommitUsed converts reserved days into consumed days on approval.
// Available is untouched: it was already debited at reserve time.
func (b *Balance) CommitUsed(days int) error {
	if days <= 0 || days > b.PendingDays {
		return internal.NewInternalError("commit exceeds pending days", nil)
	}

	b.PendingDays -= days
	b.UsedDays += days
	b.UpdatedAt = time.Now()
	return nil
}

// Release returns reserved days to the available pool on rejection.
func (b *Balance) Release(days int) error {
	if days <= 0 || days > b.PendingDays {
		return internal.NewInternalError("release exceeds pending days", nil)
	}

	b.PendingDays -= days
	b.AvailableDays += days
	b.UpdatedAt = time.Now()
	return nil
}

// Consistent reports whether the ledger invariant holds.
func (b *Balance) Consistent() bool {
	if b.CurrentBalance < 0 || b.UsedDays < 0 || b.PendingDays < 0 || b.AvailableDays < 0 {
		return false
	}
	return b.AvailableDays == b.CurrentBalance-b.UsedDays-b.PendingDays
}

func BalanceToDataModel(b *Balance) *leaveDatamodel.LeaveBalance {
	return &leaveDatamodel.LeaveBalance{
		EmployeeID:     b.EmployeeID,
		CurrentBalance: b.CurrentBalance,
		UsedDays:       b.UsedDays,
		PendingDays:    b.PendingDays,
		AvailableDays:  b.AvailableDays,
		UpdatedAt:      b.UpdatedAt,
	}
}

func BalanceFromDataModel(b *leaveDatamodel.LeaveBalance) *Balance {
	return &Balance{
		EmployeeID:     b.EmployeeID,
		CurrentBalance: b.CurrentBalance,
		UsedDays:       b.UsedDays,
		PendingDays:    b.PendingDays,
		AvailableDays:  b.AvailableDays,
		UpdatedAt:      b.UpdatedAt,
	}
}
