package leavetype

import (
	"encoding/json"
	"net/http"

	"github.com/peopledesk/leave-management/internal/transport"
)

type ServiceAPI interface {
	GetActiveTypes() ([]LeaveTypeResponse, error)
	Create(name, description string) (*LeaveType, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetLeaveTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Service.GetActiveTypes()
	if err != nil {
		h.Logger.Error("GetLeaveTypes: failed to get leave types", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to get leave types")
		return
	}

	h.WriteJSON(w, http.StatusOK, LeaveTypesResponse{
		LeaveTypes: types,
	})
}

// CreateLeaveType handles POST /leave-types. The route is fenced to HR
// and admin roles at the router.
func (h *Handler) CreateLeaveType(w http.ResponseWriter, r *http.Request) {
	var dto CreateLeaveTypeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateLeaveType: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	lt, err := h.Service.Create(dto.Name, dto.Description)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, lt.ToResponse())
}
