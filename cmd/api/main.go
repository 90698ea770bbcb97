package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/StratSim/stratsim_api/internal/cache"
	"github.com/StratSim/stratsim_api/internal/config"
	"github.com/StratSim/stratsim_api/internal/database"
	"github.com/StratSim/stratsim_api/internal/handler"
	"github.com/StratSim/stratsim_api/internal/middleware"
	"github.com/StratSim/stratsim_api/internal/repository"
	"github.com/StratSim/stratsim_api/internal/service"
	"github.com/StratSim/stratsim_api/internal/sse"
	"github.com/StratSim/stratsim_api/internal/worker"
	"github.com/StratSim/stratsim_api/pkg/simengine"
)

// main is the application entrypoint for the StratSim API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting stratsim api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize caches
	submissionCache := cache.NewSubmissionCache(redisClient, cfg.Submission.ConfirmTTL)
	gradeCache := cache.NewGradeCache(redisClient)

	// 4. Initialize simulation engine client
	engine := simengine.NewClient(cfg.SimEngine.BaseURL, cfg.SimEngine.APIKey, cfg.SimEngine.Secret)

	// 5. Initialize repositories
	teamRepo := repository.NewTeamRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	roundRepo := repository.NewRoundRepository(db)
	productRepo := repository.NewProductRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	decisionRepo := repository.NewDecisionRepository(db)
	strategyRepo := repository.NewStrategyRepository(db)
	resultRepo := repository.NewResultRepository(db)

	// 6. Initialize SSE hub and notifier
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)

	// 7. Initialize services
	authSvc := service.NewAuthService(teamRepo)
	instructorAuthSvc := service.NewInstructorAuthService(instructorRepo)
	strategySvc := service.NewStrategyService(strategyRepo)
	decisionStore := service.NewDecisionStore()
	decisionSvc := service.NewDecisionService(decisionRepo, productRepo, mediaRepo, decisionStore)
	submissionSvc := service.NewSubmissionService(decisionRepo, decisionSvc, strategySvc, submissionCache, notifier)
	gradingSvc := service.NewGradingService(resultRepo, roundRepo, teamRepo, gradeCache)
	resultSyncSvc := service.NewResultSyncService(engine, roundRepo, resultRepo, gradeCache, notifier)
	adminSvc := service.NewAdminService(teamRepo, decisionRepo, decisionStore)

	// 8. Initialize handlers
	handlers := &Handlers{
		Health:     handler.NewHealthHandler(engine),
		Auth:       handler.NewAuthHandler(instructorAuthSvc),
		Round:      handler.NewRoundHandler(roundRepo),
		Decision:   handler.NewDecisionHandler(decisionSvc, roundRepo),
		Submission: handler.NewSubmissionHandler(submissionSvc, roundRepo),
		Strategy:   handler.NewStrategyHandler(strategySvc, roundRepo),
		Grade:      handler.NewGradeHandler(gradingSvc, roundRepo),
		Catalog:    handler.NewCatalogHandler(productRepo, mediaRepo),
		Admin:      handler.NewAdminHandler(adminSvc, resultSyncSvc, resultRepo, instructorAuthSvc),
		SSE:        handler.NewSSEHandler(hub),
	}

	// 9. Initialize middleware
	authMw := middleware.NewAuthMiddleware(authSvc)
	jwtMw := middleware.NewJWTMiddleware()

	// 10. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, authMw, jwtMw)

	// 11. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 12. Start workers
	go worker.NewResultSyncWorker(resultSyncSvc, cfg.Worker.ResultSyncInterval).Start(ctx)
	go worker.NewGradeWarmWorker(gradingSvc, roundRepo, cfg.Worker.GradeWarmInterval).Start(ctx)

	// 13. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 14. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 15. Cancel context to stop workers
	cancel()

	// 16. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Round      *handler.RoundHandler
	Decision   *handler.DecisionHandler
	Submission *handler.SubmissionHandler
	Strategy   *handler.StrategyHandler
	Grade      *handler.GradeHandler
	Catalog    *handler.CatalogHandler
	Admin      *handler.AdminHandler
	SSE        *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, authMiddleware *middleware.AuthMiddleware, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Team routes (protected with team API key)
	v1 := router.Group("/v1")
	v1.Use(authMiddleware.Handle())
	{
		v1.GET("/rounds/current", handlers.Round.GetCurrent)

		v1.GET("/rounds/current/decisions", handlers.Decision.List)
		v1.PUT("/rounds/current/decisions/:productId", handlers.Decision.UpdateDraft)

		v1.POST("/rounds/current/submission", handlers.Submission.Begin)
		v1.POST("/rounds/current/submission/confirm", handlers.Submission.Confirm)
		v1.POST("/rounds/current/submission/cancel", handlers.Submission.Cancel)

		v1.GET("/rounds/current/strategy", handlers.Strategy.Get)
		v1.PUT("/rounds/current/strategy/swot", handlers.Strategy.SaveSWOT)
		v1.PUT("/rounds/current/strategy/porter", handlers.Strategy.SavePorter)
		v1.PUT("/rounds/current/strategy/bcg", handlers.Strategy.SaveBCG)
		v1.PUT("/rounds/current/strategy/pestel", handlers.Strategy.SavePESTEL)

		v1.GET("/rounds/:roundId/grade", handlers.Grade.GetTeamRoundGrade)
		v1.GET("/grades/final", handlers.Grade.GetTeamFinalGrade)

		v1.GET("/catalog/products", handlers.Catalog.ListProducts)
		v1.GET("/catalog/media", handlers.Catalog.ListMedia)
	}

	// Instructor routes
	admin := router.Group("/v1/admin")
	admin.POST("/auth/login", handlers.Auth.Login)
	admin.GET("/sse", handlers.SSE.Stream)
	admin.Use(jwtMiddleware.Handle())
	{
		// Team management
		admin.POST("/teams", handlers.Admin.CreateTeam)
		admin.GET("/classes/:classId/teams", handlers.Admin.ListTeams)
		admin.POST("/teams/:teamId/regenerate", handlers.Admin.RotateTeamKey)
		admin.POST("/teams/:teamId/rounds/:roundId/reset", handlers.Admin.ResetSubmission)

		// Instructor accounts
		admin.POST("/instructors", handlers.Admin.CreateInstructor)

		// Results and grades
		admin.GET("/rounds/:roundId/results", handlers.Admin.GetRoundResults)
		admin.POST("/results/sync", handlers.Admin.TriggerResultSync)
		admin.GET("/rounds/:roundId/grades", handlers.Grade.GetRoundGrades)
		admin.GET("/classes/:classId/grades", handlers.Grade.GetFinalGrades)
	}
}

// setupLogger configures zerolog according to the environment.
func setupLogger(env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// runMigrations applies database migrations from the migrations directory.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
