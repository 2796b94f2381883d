package postgres

import (
	"errors"
	"time"

	"github.com/peopledesk/leave-management/internal"
	leaveDatamodel "github.com/peopledesk/leave-management/internal/core/datamodel/leave"
	"github.com/peopledesk/leave-management/internal/leave"
	"gorm.io/gorm"
)

// Repository implements leave.RepositoryAPI using GORM. The balance
// mutations are conditional updates: the WHERE clause re-checks the
// precondition so concurrent transactions serialize on the row without
// explicit locking.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithReserve inserts the PENDING request and moves days from
// available to pending in the same transaction. When the balance no
// longer covers the request the whole unit rolls back and the request
// is never created.
func (r *Repository) CreateWithReserve(req *leaveDatamodel.LeaveRequest, days int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&leaveDatamodel.LeaveBalance{}).
			Where("employee_id = ? AND available_days >= ?", req.EmployeeID, days).
			Updates(map[string]interface{}{
				"pending_days":   gorm.Expr("pending_days + ?", days),
				"available_days": gorm.Expr("available_days - ?", days),
				"updated_at":     time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return r.reserveFailure(tx, req.EmployeeID)
		}

		return tx.Create(req).Error
	})
}

// reserveFailure distinguishes a missing ledger from a short one.
func (r *Repository) reserveFailure(tx *gorm.DB, employeeID int64) error {
	var count int64
	if err := tx.Model(&leaveDatamodel.LeaveBalance{}).
		Where("employee_id = ?", employeeID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return internal.ErrBalanceNotFound
	}
	return internal.ErrInsufficientBalance
}

func (r *Repository) GetByID(id int64) (*leaveDatamodel.LeaveRequest, error) {
	var req leaveDatamodel.LeaveRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// Decide flips the request out of PENDING and applies the matching
// ledger transition atomically. The status update is keyed on
// status = PENDING: of two concurrent deciders exactly one observes
// RowsAffected == 1 and the loser gets ErrAlreadyDecided.
func (r *Repository) Decide(id int64, status string, deciderID int64, decidedOn time.Time, comments *string, days int) (*leaveDatamodel.LeaveRequest, error) {
	var updated leaveDatamodel.LeaveRequest

	err := r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":        status,
			"decided_by_id": deciderID,
			"decided_on":    decidedOn,
			"updated_at":    time.Now(),
		}
		if comments != nil {
			updates["comments"] = *comments
		}

		result := tx.Model(&leaveDatamodel.LeaveRequest{}).
			Where("id = ? AND status = ?", id, leave.StatusPending).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&leaveDatamodel.LeaveRequest{}).
				Where("id = ?", id).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return internal.ErrRequestNotFound
			}
			return internal.ErrAlreadyDecided
		}

		var balanceUpdate *gorm.DB
		switch status {
		case leave.StatusApproved:
			// pending -> used; available stays where the reserve left it.
			balanceUpdate = tx.Model(&leaveDatamodel.LeaveBalance{}).
				Where("employee_id = (?) AND pending_days >= ?",
					tx.Model(&leaveDatamodel.LeaveRequest{}).Select("employee_id").Where("id = ?", id),
					days).
				Updates(map[string]interface{}{
					"pending_days": gorm.Expr("pending_days - ?", days),
					"used_days":    gorm.Expr("used_days + ?", days),
					"updated_at":   time.Now(),
				})
		case leave.StatusRejected:
			// pending -> available; the reservation is returned in full.
			balanceUpdate = tx.Model(&leaveDatamodel.LeaveBalance{}).
				Where("employee_id = (?) AND pending_days >= ?",
					tx.Model(&leaveDatamodel.LeaveRequest{}).Select("employee_id").Where("id = ?", id),
					days).
				Updates(map[string]interface{}{
					"pending_days":   gorm.Expr("pending_days - ?", days),
					"available_days": gorm.Expr("available_days + ?", days),
					"updated_at":     time.Now(),
				})
		default:
			return internal.NewInternalError("unknown decision status: "+status, nil)
		}

		if balanceUpdate.Error != nil {
			return balanceUpdate.Error
		}
		if balanceUpdate.RowsAffected == 0 {
			return internal.NewInternalError("ledger out of sync with request reservation", nil)
		}

		return tx.Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// listRow is the flat scan target for the list join.
type listRow struct {
	leaveDatamodel.LeaveRequest
	EmployeeName  string  `gorm:"column:employee_name"`
	EmployeeEmail string  `gorm:"column:employee_email"`
	DeciderName   *string `gorm:"column:decider_name"`
	DeciderEmail  *string `gorm:"column:decider_email"`
}

// List answers the filtered, paginated query sorted newest-first by
// applied_on. Search matches the owning employee's name or email or the
// request reason, case-insensitively on every backend.
func (r *Repository) List(query leave.ListLeaveQuery) ([]*leave.RequestRecord, int64, error) {
	base := r.db.Model(&leaveDatamodel.LeaveRequest{}).
		Joins("JOIN employees ON employees.id = leave_requests.employee_id")

	if query.EmployeeID != nil {
		base = base.Where("leave_requests.employee_id = ?", *query.EmployeeID)
	}
	if query.Status != "" {
		base = base.Where("leave_requests.status = ?", query.Status)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		base = base.Where(
			"LOWER(employees.name) LIKE LOWER(?) OR LOWER(employees.email) LIKE LOWER(?) OR LOWER(leave_requests.reason) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}

	var count int64
	if err := base.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.PageSize

	var rows []listRow
	err := base.Session(&gorm.Session{}).
		Select(
			"leave_requests.*",
			"employees.name AS employee_name",
			"employees.email AS employee_email",
			"deciders.name AS decider_name",
			"deciders.email AS decider_email",
		).
		Joins("LEFT JOIN employees AS deciders ON deciders.id = leave_requests.decided_by_id").
		Order("leave_requests.applied_on DESC, leave_requests.id DESC").
		Limit(query.PageSize).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	records := make([]*leave.RequestRecord, 0, len(rows))
	for _, row := range rows {
		dm := row.LeaveRequest
		record := &leave.RequestRecord{
			Request:       *leave.FromDataModel(&dm),
			EmployeeName:  row.EmployeeName,
			EmployeeEmail: row.EmployeeEmail,
		}
		if dm.DecidedByID != nil && row.DeciderName != nil && row.DeciderEmail != nil {
			record.DecidedBy = &leave.DeciderInfo{
				ID:    *dm.DecidedByID,
				Name:  *row.DeciderName,
				Email: *row.DeciderEmail,
			}
		}
		records = append(records, record)
	}

	return records, count, nil
}

func (r *Repository) GetBalance(employeeID int64) (*leaveDatamodel.LeaveBalance, error) {
	var balance leaveDatamodel.LeaveBalance
	err := r.db.Where("employee_id = ?", employeeID).First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrBalanceNotFound
		}
		return nil, err
	}
	return &balance, nil
}

func (r *Repository) CreateBalance(balance *leaveDatamodel.LeaveBalance) error {
	return r.db.Create(balance).Error
}
