package leave

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/peopledesk/leave-management/internal/auth"
	"github.com/peopledesk/leave-management/internal/transport"
	"github.com/peopledesk/leave-management/pkg/logger"
)

type ServiceAPI interface {
	SubmitRequest(ctx context.Context, principal *auth.Principal, dto SubmitLeaveDTO) (*Request, error)
	DecideRequest(ctx context.Context, principal *auth.Principal, requestID int64, dto DecideLeaveDTO) (*Request, error)
	ListRequests(ctx context.Context, principal *auth.Principal, query ListLeaveQuery) (*ListLeaveResult, error)
	GetBalance(ctx context.Context, principal *auth.Principal, employeeID *int64) (*Balance, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// submitResponse and friends are the wire envelopes: every operation
// reports a status flag so callers never have to sniff the payload shape.
type dataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type listResponse struct {
	Status      bool             `json:"status"`
	Records     []*RequestRecord `json:"records"`
	Count       int64            `json:"count"`
	NumPages    int              `json:"num_pages"`
	CurrentPage int              `json:"current_page"`
}

func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.Logger.Error("SubmitLeave: principal not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SubmitLeaveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SubmitLeave: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.Service.SubmitRequest(r.Context(), principal, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.Logger.Info("SubmitLeave: request created",
		"request_id", request.ID,
		"employee_id", request.EmployeeID,
		"principal_id", principal.ID)

	h.WriteJSON(w, http.StatusCreated, dataResponse{
		Status:  true,
		Message: "leave request submitted",
		Data:    request,
	})
}

func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	h.decideLeave(w, r, ActionApprove)
}

func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	h.decideLeave(w, r, ActionReject)
}

func (h *Handler) decideLeave(w http.ResponseWriter, r *http.Request, action string) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.Logger.Error("decideLeave: principal not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requestIDStr := chi.URLParam(r, "id")
	requestID, err := strconv.ParseInt(requestIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("decideLeave: invalid request ID", "id", requestIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	var dto DecideLeaveDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.Logger.Error("decideLeave: invalid request body", "error", err)
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	dto.Action = action

	request, err := h.Service.DecideRequest(r.Context(), principal, requestID, dto)
	if err != nil {
		h.Logger.Error("decideLeave: service error",
			"error", err,
			"request_id", requestID,
			"action", action)
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dataResponse{
		Status: true,
		Data:   request,
	})
}

func (h *Handler) ListLeaves(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.Logger.Error("ListLeaves: principal not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	query := ListLeaveQuery{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			query.Page = p
		}
	}
	if sizeStr := r.URL.Query().Get("page_size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 {
			query.PageSize = s
		}
	}
	if idStr := r.URL.Query().Get("employee_id"); idStr != "" {
		if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
			query.EmployeeID = &id
		}
	}

	result, err := h.Service.ListRequests(r.Context(), principal, query)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, listResponse{
		Status:      true,
		Records:     result.Records,
		Count:       result.Count,
		NumPages:    result.NumPages,
		CurrentPage: result.CurrentPage,
	})
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.Logger.Error("GetBalance: principal not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var employeeID *int64
	if idStr := r.URL.Query().Get("employee_id"); idStr != "" {
		if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
			employeeID = &id
		} else {
			h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
			return
		}
	}

	balance, err := h.Service.GetBalance(r.Context(), principal, employeeID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dataResponse{
		Status: true,
		Data:   map[string]interface{}{"leave_balance": balance},
	})
}
