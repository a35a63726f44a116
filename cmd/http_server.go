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
	gormSqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/expensepro/internal"
	"github.com/frahmantamala/expensepro/internal/auth"
	authPostgres "github.com/frahmantamala/expensepro/internal/auth/postgres"
	"github.com/frahmantamala/expensepro/internal/category"
	categoryPostgres "github.com/frahmantamala/expensepro/internal/category/postgres"
	"github.com/frahmantamala/expensepro/internal/core/events"
	"github.com/frahmantamala/expensepro/internal/expense"
	expensePostgres "github.com/frahmantamala/expensepro/internal/expense/postgres"
	"github.com/frahmantamala/expensepro/internal/role"
	"github.com/frahmantamala/expensepro/internal/transport"
	"github.com/frahmantamala/expensepro/internal/transport/rest"
	"github.com/frahmantamala/expensepro/internal/transport/swagger"
	"github.com/frahmantamala/expensepro/internal/user"
	userPostgres "github.com/frahmantamala/expensepro/internal/user/postgres"
	"github.com/frahmantamala/expensepro/pkg/logger"
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
	GormDB *gorm.DB
	SqlxDB *sqlx.DB
	Router *chi.Mux
	Events *events.EventBus
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.SqlxDB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	// Fail the boot on a broken API contract, not the first request
	if err := swagger.ValidateSpec(config.Server.OpenAPIPath); err != nil {
		return nil, err
	}

	gormDB, sqlxDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	eventBus := events.NewEventBus(lg)
	registerAuditHandlers(eventBus, lg)

	hierarchy := role.Default()

	// Repositories
	authRepo := authPostgres.NewRepository(gormDB)
	userRepo := userPostgres.NewUserRepository(sqlxDB)
	expenseRepo := expensePostgres.NewExpenseRepository(gormDB)
	categoryRepo := categoryPostgres.NewCategoryRepository(gormDB)

	// Services
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen, config.Security.BCryptCost)
	userService := user.NewService(userRepo)
	expenseService := expense.NewService(expenseRepo, userService, hierarchy, eventBus, lg)
	categoryService := category.NewService(categoryRepo, lg)

	// A dangling manager reference is a data bug; surface it at boot
	if err := userService.CheckIntegrity(); err != nil {
		lg.Warn("user directory integrity check failed", "error", err)
	}

	// Handlers
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	expenseHandler := expense.NewHandler(expenseService, hierarchy)
	categoryHandler := category.NewHandler(transport.NewBaseHandler(lg), categoryService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.RouterDeps{
		DB:              sqlxDB.DB,
		AuthHandler:     authHandler,
		UserHandler:     userHandler,
		ExpenseHandler:  expenseHandler,
		CategoryHandler: categoryHandler,
		OpenAPIPath:     config.Server.OpenAPIPath,
		Logger:          lg,
	})

	return &Dependencies{
		Config: config,
		GormDB: gormDB,
		SqlxDB: sqlxDB,
		Router: router,
		Events: eventBus,
		Logger: lg,
	}, nil
}

// initDB opens one connection pool and shares it between GORM and sqlx.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, *sqlx.DB, error) {
	var dialector gorm.Dialector
	var sqlxDriver string

	switch cfg.Driver {
	case "sqlite":
		dialector = gormSqlite.Open(cfg.Source)
		sqlxDriver = "sqlite3"
	default:
		dialector = gormPostgres.Open(cfg.Source)
		sqlxDriver = "pgx"
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to unwrap sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return gormDB, sqlx.NewDb(sqlDB, sqlxDriver), nil
}

// registerAuditHandlers writes every submission and decision to the audit
// log. Handlers only log, so a slow sink never delays the request path.
func registerAuditHandlers(bus *events.EventBus, lg *slog.Logger) {
	bus.Subscribe(events.EventTypeExpenseSubmitted, func(ctx context.Context, event events.Event) error {
		lg.Info("audit: expense submitted",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})

	bus.Subscribe(events.EventTypeExpenseDecided, func(ctx context.Context, event events.Event) error {
		lg.Info("audit: expense decided",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})
}
