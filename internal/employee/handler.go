package employee

import (
	"log/slog"
	"net/http"

	"github.com/peopledesk/leave-management/internal/auth"
	"github.com/peopledesk/leave-management/internal/transport"
	"github.com/peopledesk/leave-management/pkg/logger"
)

type ServiceAPI interface {
	GetByID(id int64) (*Employee, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// GetCurrentEmployee handles GET /employees/me
func (h *Handler) GetCurrentEmployee(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.Logger.Error("GetCurrentEmployee: principal not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	emp, err := h.Service.GetByID(principal.ID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, emp)
}
