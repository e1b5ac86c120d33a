package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/token-economy/internal/domain/usecase/account"
	"github.com/amirhossein-jamali/token-economy/internal/domain/usecase/award"
	"github.com/amirhossein-jamali/token-economy/internal/domain/usecase/goal"
	"github.com/amirhossein-jamali/token-economy/internal/domain/usecase/ledger"
	"github.com/amirhossein-jamali/token-economy/internal/domain/usecase/prize"
	"github.com/amirhossein-jamali/token-economy/internal/domain/usecase/stats"

	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/auth"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/logger"
	timeProvider "github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewLeveledZapLogger(cfg.Environment == config.Production, cfg.Logger.Level)
	defer func() { _ = appLogger.Flush() }()

	// calendar-day rules are evaluated in the classroom's zone
	tp, err := timeProvider.NewRealTimeProviderIn(cfg.Classroom.Timezone)
	if err != nil {
		log.Fatalf("Invalid classroom timezone: %v", err)
	}

	dbConfig := &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            database.ParsePort(cfg.Database.Port),
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Logger.Level,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      cfg.Database.RetryDelay,
	}
	if err := dbConfig.Validate(); err != nil {
		log.Fatalf("Invalid database configuration: %v", err)
	}

	dbManager := database.NewManager(dbConfig, appLogger, tp)
	db, err := dbManager.Connect()
	if err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer dbManager.Close()

	if err := migration.NewMigrationManager(db, appLogger, tp).MigrateAll(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	uow := dbManager.CreateUnitOfWork()

	// Use cases
	ledgerService := ledger.NewService(uow, tp, appLogger)
	accountUseCase := account.NewAccountUseCase(uow, ledgerService, tp, appLogger)
	prizeService := prize.NewService(uow, ledgerService, tp, appLogger)
	goalService := goal.NewService(uow, ledgerService, tp, appLogger)
	awardService := award.NewService(uow, ledgerService, appLogger)
	statsService := stats.NewService(uow, tp, appLogger)

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, tp)

	if cfg.Environment == config.Development || cfg.Database.Seed {
		seedDemoClassroom(uow, accountUseCase, tp, appLogger, tokens, cfg.Environment == config.Development)
	}

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, routes.Handlers{
		Accounts:        handler.NewAccountHandler(accountUseCase, ledgerService, entity.Currency(cfg.Classroom.DefaultCurrency), appLogger),
		Transactions:    handler.NewTransactionHandler(ledgerService, accountUseCase, awardService, appLogger),
		PrizeRequests:   handler.NewPrizeRequestHandler(prizeService, accountUseCase, appLogger),
		GoalSubmissions: handler.NewGoalSubmissionHandler(goalService, accountUseCase, cfg.Classroom.MaxGoalSubmissionsPerDay, appLogger),
		Stats:           handler.NewStatsHandler(statsService, accountUseCase, appLogger),
		Health:          handler.NewHealthHandler(dbManager, tp, appLogger),
	}, tokens)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           routes.WithCORS(router, cfg.CORS.AllowedOrigins),
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":     server.Addr,
			"env":      cfg.Environment,
			"driver":   dbConfig.Driver,
			"timezone": cfg.Classroom.Timezone,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// stop accepting requests first so no new ledger work is queued
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Draining ledger queues...", map[string]any{
		"active_accounts": ledgerService.ActiveAccounts(),
	})
	ledgerService.Shutdown()

	appLogger.Info("Server exited gracefully", nil)
}

// seedDemoClassroom creates the demo data. In development it also logs bearer tokens for trying the API.
func seedDemoClassroom(
	uow persistence.UnitOfWork,
	accounts usecase.AccountUseCase,
	tp coreport.TimeProvider,
	appLogger coreport.Logger,
	tokens *auth.TokenService,
	logTokens bool,
) {
	if err := migration.CreateDemoClassroom(context.Background(), uow, accounts, tp, appLogger); err != nil {
		appLogger.Error("Failed to create demo classroom", map[string]any{
			"error": err.Error(),
		})
		return
	}
	if !logTokens {
		return
	}

	demo := map[string]entity.Actor{
		"teacher": {ID: migration.DemoTeacherID, Role: entity.RoleTeacher},
		"student": {ID: "demo-student-1", Role: entity.RoleStudent},
	}
	for name, actor := range demo {
		token, err := tokens.Issue(actor, 24*time.Hour)
		if err != nil {
			appLogger.Warn("Failed to issue demo token", map[string]any{"error": err.Error()})
			continue
		}
		appLogger.Info("Demo bearer token", map[string]any{
			"as":       name,
			"actor_id": actor.ID,
			"class_id": migration.DemoClassID,
			"token":    token,
		})
	}
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	switch cfg.Database.Driver {
	case database.DriverPostgres:
		required := map[string]string{
			"database.host (or TE_DB_HOST)":         cfg.Database.Host,
			"database.port (or TE_DB_PORT)":         cfg.Database.Port,
			"database.username (or TE_DB_USERNAME)": cfg.Database.Username,
			"database.password (or TE_DB_PASSWORD)": cfg.Database.Password,
			"database.database (or TE_DB_NAME)":     cfg.Database.Database,
		}
		for key, value := range required {
			if value == "" {
				missingConfigs = append(missingConfigs, key)
			}
		}
	case database.DriverSQLite:
		if cfg.Database.Path == "" {
			missingConfigs = append(missingConfigs, "database.path (or TE_DB_PATH)")
		}
	default:
		return fmt.Errorf("invalid database.driver: %q, must be %s or %s",
			cfg.Database.Driver, database.DriverPostgres, database.DriverSQLite)
	}
	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}

	if cfg.Auth.JWTSecret == "" {
		missingConfigs = append(missingConfigs, "auth.jwtSecret (or TE_JWT_SECRET)")
	}
	if cfg.Auth.Issuer == "" {
		missingConfigs = append(missingConfigs, "auth.issuer")
	}

	if cfg.Classroom.Timezone == "" {
		missingConfigs = append(missingConfigs, "classroom.timezone")
	}
	if cfg.Classroom.MaxGoalSubmissionsPerDay < 0 {
		return fmt.Errorf("classroom.maxGoalSubmissionsPerDay must be non-negative, got %d",
			cfg.Classroom.MaxGoalSubmissionsPerDay)
	}
	if cfg.Classroom.DefaultCurrency != "" && !entity.IsValidCurrency(cfg.Classroom.DefaultCurrency) {
		return fmt.Errorf("invalid classroom.defaultCurrency: %q", cfg.Classroom.DefaultCurrency)
	}

	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	if cfg.Environment == config.Production {
		var warnings []string

		sslMode := strings.ToLower(cfg.Database.SSLMode)
		if cfg.Database.Driver == database.DriverPostgres &&
			sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
			warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
		}
		if len(cfg.Auth.JWTSecret) < 32 {
			warnings = append(warnings, "auth.jwtSecret should be at least 32 bytes in production")
		}
		if cfg.Server.ReadTimeout < 5*time.Second {
			warnings = append(warnings, "server.readTimeout is too low for production")
		}
		if cfg.Server.WriteTimeout < 5*time.Second {
			warnings = append(warnings, "server.writeTimeout is too low for production")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
