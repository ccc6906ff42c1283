package app

import (
	"origenmx-backend/internal/config"
	"origenmx-backend/internal/infrastructure/database"
	"origenmx-backend/internal/jobs"
	"origenmx-backend/internal/middleware"
	"origenmx-backend/internal/pkg/latency"

	actsvc "origenmx-backend/internal/application/activities"
	creditsvc "origenmx-backend/internal/application/credits"
	dashsvc "origenmx-backend/internal/application/dashboard"
	lotsvc "origenmx-backend/internal/application/lots"

	acthandlers "origenmx-backend/internal/interfaces/handlers/activities"
	credithandlers "origenmx-backend/internal/interfaces/handlers/credits"
	dashhandlers "origenmx-backend/internal/interfaces/handlers/dashboard"
	healthhandlers "origenmx-backend/internal/interfaces/handlers/health"
	lothandlers "origenmx-backend/internal/interfaces/handlers/lots"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration, opens the database (embedded SQLite when no DSN is
// configured), runs migrations and the demo seed, and starts the overdue
// sweep cron.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
		app.Use(middleware.RequestStats(rdb))
	}

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}
	if cfg.SeedDemoData {
		if err := database.SeedDemo(db); err != nil {
			return nil, nil, nil, err
		}
	}

	var sim *latency.Simulator
	if cfg.SimulateLatency {
		sim = &latency.Simulator{ReadDelay: cfg.ReadDelay, WriteDelay: cfg.WriteDelay}
	}

	// Health module
	health := &healthhandlers.Handlers{Rdb: rdb, DB: db}
	app.Get("/health/json", health.JSON)

	// Lots module
	lotsService := &lotsvc.Service{DB: db, Latency: sim}
	lots := &lothandlers.Handlers{Service: lotsService}
	lotsGroup := app.Group("/api/v1/lots")
	lotsGroup.Post("/register-lot", lots.RegisterLot)
	lotsGroup.Get("/get-all-lots", lots.GetAllLots)
	lotsGroup.Get("/get-lot/:lot_id", lots.GetLotByID)
	lotsGroup.Post("/upload-evidence", lots.UploadEvidence)
	lotsGroup.Post("/refresh-score", lots.RefreshScore)

	// Credits module
	creditsService := &creditsvc.Service{DB: db, Latency: sim}
	credits := &credithandlers.Handlers{Service: creditsService}
	creditsGroup := app.Group("/api/v1/credits")
	creditsGroup.Post("/request-credit", credits.RequestCredit)
	creditsGroup.Get("/get-all-credits", credits.GetAllCredits)
	creditsGroup.Get("/get-credit/:credit_id", credits.GetCreditByID)
	creditsGroup.Post("/pay-installment", credits.PayInstallment)
	creditsGroup.Post("/sweep-overdue", credits.SweepOverdue)

	// Activities module
	activitiesService := &actsvc.Service{DB: db, Latency: sim}
	activities := &acthandlers.Handlers{Service: activitiesService}
	app.Group("/api/v1/activities").Get("/get-activities", activities.GetActivities)

	// Dashboard module
	dashboardService := &dashsvc.Service{DB: db, Rdb: rdb, Latency: sim, CacheTTL: cfg.StatsCacheTTL}
	dashboard := &dashhandlers.Handlers{Service: dashboardService}
	app.Group("/api/v1/dashboard").Get("/get-stats", dashboard.GetStats)

	if cfg.OverdueSweepSpec != "" {
		if _, err := jobs.StartOverdueSweep(cfg.OverdueSweepSpec, creditsService); err != nil {
			return nil, nil, nil, err
		}
	}

	return app, db, rdb, nil
}
