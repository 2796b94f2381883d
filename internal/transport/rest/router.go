package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/peopledesk/leave-management/internal/auth"
	"github.com/peopledesk/leave-management/internal/employee"
	"github.com/peopledesk/leave-management/internal/leave"
	"github.com/peopledesk/leave-management/internal/leavetype"
	"github.com/peopledesk/leave-management/internal/transport/middleware"
	"github.com/peopledesk/leave-management/internal/transport/swagger"
)

// RegisterAllRoutes wires every handler onto the router. Approve and
// reject carry the approver-role guard at the routing layer; the leave
// service re-checks through its gate so the rule holds even for callers
// that bypass HTTP.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	allowedOrigins string,
	authHandler *auth.Handler,
	rbac *auth.RBACAuthorization,
	employeeHandler *employee.Handler,
	leaveHandler *leave.Handler,
	leaveTypeHandler *leavetype.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if leaveTypeHandler != nil {
			r.Get("/leave-types", leaveTypeHandler.GetLeaveTypes)
		}

		if authHandler != nil {
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				if employeeHandler != nil {
					pr.Get("/employees/me", employeeHandler.GetCurrentEmployee)
				}

				if leaveTypeHandler != nil {
					pr.With(rbac.RequireRole(auth.RoleHR, auth.RoleAdmin)).
						Post("/leave-types", leaveTypeHandler.CreateLeaveType)
				}

				if leaveHandler != nil {
					pr.Route("/leaves", func(lr chi.Router) {
						lr.Post("/", leaveHandler.SubmitLeave)
						lr.Get("/", leaveHandler.ListLeaves)
						lr.Get("/balance", leaveHandler.GetBalance)

						lr.Group(func(mr chi.Router) {
							mr.Use(rbac.RequireApprover())
							mr.Patch("/{id}/approve", leaveHandler.ApproveLeave)
							mr.Patch("/{id}/reject", leaveHandler.RejectLeave)
						})
					})
				}
			})
		}
	})
}
