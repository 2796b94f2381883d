package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/peopledesk/leave-management/internal"
	"github.com/peopledesk/leave-management/internal/auth"
	authPostgres "github.com/peopledesk/leave-management/internal/auth/postgres"
	"github.com/peopledesk/leave-management/internal/core/events"
	"github.com/peopledesk/leave-management/internal/employee"
	employeePostgres "github.com/peopledesk/leave-management/internal/employee/postgres"
	"github.com/peopledesk/leave-management/internal/leave"
	leavePostgres "github.com/peopledesk/leave-management/internal/leave/postgres"
	"github.com/peopledesk/leave-management/internal/leavetype"
	leavetypePostgres "github.com/peopledesk/leave-management/internal/leavetype/postgres"
	"github.com/peopledesk/leave-management/internal/transport"
	"github.com/peopledesk/leave-management/internal/transport/rest"
	"github.com/peopledesk/leave-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger

	AuthHandler      *auth.Handler
	RBAC             *auth.RBACAuthorization
	EmployeeHandler  *employee.Handler
	LeaveHandler     *leave.Handler
	LeaveTypeHandler *leavetype.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.Config.Server.AllowedOrigins,
		deps.AuthHandler,
		deps.RBAC,
		deps.EmployeeHandler,
		deps.LeaveHandler,
		deps.LeaveTypeHandler,
		deps.Logger,
	)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm rides on the already-open pgx pool so both layers share
	// connection limits and health.
	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	eventBus := events.NewEventBus(lg)

	authRepo := authPostgres.NewRepository(gormDB)
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen)
	authHandler := auth.NewHandler(authService)
	rbac := auth.NewRBACAuthorization(lg)

	employeeRepo := employeePostgres.NewRepository(gormDB)
	employeeService := employee.NewService(employeeRepo, eventBus, lg)
	employeeHandler := employee.NewHandler(employeeService)

	leaveTypeRepo := leavetypePostgres.NewLeaveTypeRepository(gormDB)
	leaveTypeService := leavetype.NewService(leaveTypeRepo, lg)
	leaveTypeHandler := leavetype.NewHandler(transport.NewBaseHandler(lg), leaveTypeService)

	leaveRepo := leavePostgres.NewRepository(gormDB)
	leaveService := leave.NewService(leaveRepo, leaveTypeService, eventBus, lg, config.Leave.DefaultAnnualDays, config.Leave.MaxPageSize)
	leaveService.RegisterEventHandlers(eventBus)
	leaveHandler := leave.NewHandler(leaveService)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),

		AuthHandler:      authHandler,
		RBAC:             rbac,
		EmployeeHandler:  employeeHandler,
		LeaveHandler:     leaveHandler,
		LeaveTypeHandler: leaveTypeHandler,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
