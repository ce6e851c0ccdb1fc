package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"workflow-copilot/backend/internal/ai"
	"workflow-copilot/backend/internal/api"
	"workflow-copilot/backend/internal/auth"
	"workflow-copilot/backend/internal/config"
	"workflow-copilot/backend/internal/ledger"
	"workflow-copilot/backend/internal/logging"
	"workflow-copilot/backend/internal/mcp"
	"workflow-copilot/backend/internal/repository"
	"workflow-copilot/backend/internal/services"
	"workflow-copilot/backend/internal/store"
)

func main() {
	ctx := context.Background()

	// Initialize logging
	logger := logging.NewLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		log.Fatalf("Configuration loading failed: %v", err)
	}
	logger.Info("Configuration loaded",
		"environment", cfg.Environment,
		"store_backend", cfg.Store.Backend,
		"config_file", viper.ConfigFileUsed(),
	)

	logger.Info("Starting Workflow Copilot Service")

	// Initialize the row store backend
	rowStore, cleanup, err := initStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize store: %v", err)
		log.Fatalf("Store initialization failed: %v", err)
	}
	defer cleanup()

	logger.Info("Store connected", "backend", cfg.Store.Backend)

	// Initialize repository and service layers
	repo := repository.New(rowStore)
	activityLedger := ledger.New(repo, logger)

	workflowService := services.NewWorkflowService(repo, activityLedger)
	stepService := services.NewStepService(repo, activityLedger)
	commentService := services.NewCommentService(repo, activityLedger)
	orgService := services.NewOrganizationService(repo)
	userService := services.NewUserService(repo)
	activityService := services.NewActivityService(repo)

	generator := ai.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model)
	aiService := services.NewAIService(generator, workflowService, stepService)

	logger.Info("Service layer initialized")

	// Create Echo server
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.Server.FrontendURL, "http://localhost:3000"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// Initialize authentication
	authz, err := auth.New(ctx, cfg, userService, logger)
	if err != nil {
		logger.Error("failed to initialize auth", "error", err)
		log.Fatalf("auth initialization failed: %v", err)
	}

	// Register auth handlers
	e.GET("/login", echo.WrapHandler(http.HandlerFunc(authz.LoginHandler)))
	e.GET("/auth/callback", echo.WrapHandler(http.HandlerFunc(authz.CallbackHandler)))
	e.GET("/logout", echo.WrapHandler(http.HandlerFunc(authz.LogoutHandler)))

	// Mount REST API handlers behind auth
	server := &api.Server{
		Workflows:     workflowService,
		Steps:         stepService,
		Comments:      commentService,
		Organizations: orgService,
		Users:         userService,
		Activities:    activityService,
		AI:            aiService,
		Logger:        logger,
	}

	e.GET("/health", server.HandleHealth)

	apiGroup := e.Group("/api/v1")
	apiGroup.Use(echo.WrapMiddleware(authz.RequireAuth))
	server.RegisterRoutes(apiGroup)

	logger.Info("REST API handlers mounted")

	// Mount MCP protocol handlers
	mcpServer := mcp.NewServer(workflowService, stepService, aiService)
	mcpHandlers := http.NewServeMux()
	mcp.MountHTTPHandlers(mcpHandlers, mcpServer.GetMCPServer())
	e.Any("/mcp/*", echo.WrapHandler(mcpHandlers))

	logger.Info("MCP protocol handlers mounted")

	// Create HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	// Wait for shutdown signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			logger.Error("Server error: %v", err)
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		logger.Info("Shutdown signal received: %v", sig)

		// Create shutdown context with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error: %v", err)
			if err := httpServer.Close(); err != nil {
				logger.Error("Server close error: %v", err)
			}
		}

		logger.Info("Server stopped gracefully")
	}
}

// initStore builds the configured row store backend. The returned
// cleanup releases any held connections.
func initStore(ctx context.Context, cfg *config.Config, logger *logging.Logger) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return store.NewMemory(), func() {}, nil

	case config.BackendPostgREST:
		if cfg.Store.URL == "" {
			return nil, nil, fmt.Errorf("store.url is required for the postgrest backend")
		}
		return store.NewPostgREST(cfg.Store.URL, cfg.StoreKey()), func() {}, nil

	case config.BackendPostgres:
		pool, err := initDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgres(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func initDatabase(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*pgxpool.Pool, error) {
	logger.Debug("Initializing database connection")

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Store.Host, cfg.Store.Port, cfg.Store.User, cfg.Store.Password, cfg.Store.Name, cfg.Store.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
