package main

import (
	"context"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"

	"workorders/cmd"
	httpin "workorders/internal/adapters/in/http"
	"workorders/internal/adapters/out/postgres/alertrepo"
	"workorders/internal/adapters/out/postgres/costrepo"
	"workorders/internal/adapters/out/postgres/historyrepo"
	"workorders/internal/adapters/out/postgres/orderrepo"
	"workorders/internal/adapters/out/postgres/planningrepo"
	"workorders/internal/core/application/events"
	"workorders/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)
	mustMigrateDB(gormDB)

	app := cmd.NewCompositionRoot(configs, gormDB, logger)

	// Log every committed state change; external consumers subscribe the
	// same way.
	app.EventBus().Subscribe(func(ctx context.Context, event events.OrderStateChanged) error {
		logger.InfoContext(ctx, "order state changed",
			"event", events.OrderStateChangedName,
			"order_id", event.OrderID.String(),
			"from_state", event.FromState,
			"to_state", event.ToState,
		)
		return nil
	})

	jobManager := jobs.NewJobManager(app.CreateEscalateUnsignedActasCommandHandler(), logger)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode,
	)

	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

func mustMigrateDB(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&historyrepo.TransitionDTO{},
		&historyrepo.AuditDTO{},
		&planningrepo.PlanningRecordDTO{},
		&alertrepo.AlertDTO{},
		&costrepo.ProposalDTO{},
		&costrepo.CostEntryDTO{},
		&costrepo.CostComparisonDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(nethttp.StatusOK, "Healthy")
	})

	server := httpin.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateTransitionOrderCommandHandler(),
		app.CreateChangeStatusCommandHandler(),
		app.CreateAssignTechnicianCommandHandler(),
		app.CreateGetStateInfoQueryHandler(),
		app.CreateGetHistoryQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
