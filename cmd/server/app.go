package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lburgess/aftlab/internal/config"
	"github.com/lburgess/aftlab/internal/events"
	"github.com/lburgess/aftlab/internal/platform/gemini"
	"github.com/lburgess/aftlab/internal/platform/postgres"
	"github.com/lburgess/aftlab/internal/platform/statfit"
	"github.com/lburgess/aftlab/internal/service"
	"github.com/lburgess/aftlab/internal/service/auth"
	"github.com/lburgess/aftlab/internal/store"
	"github.com/lburgess/aftlab/internal/task"
)

// application holds the shared application dependencies so wiring and
// cleanup live in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore    store.UserStore
	datasetStore store.DatasetStore
	fitStore     store.FitStore
	taskStore    *postgres.PostgresTaskStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	datasetService   service.DatasetService
	fitService       service.FitService

	// Event system and background fitting
	eventEmitter events.EventEmitter
	taskRunner   *task.TaskRunner
}

// newApplication creates an application instance with all dependencies
// initialized and the task runner started.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, bcrypt.DefaultCost)
	app.datasetStore = postgres.NewPostgresDatasetStore(db)
	app.fitStore = postgres.NewPostgresFitStore(db)
	app.taskStore = postgres.NewPostgresTaskStore(db)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	app.datasetService, err = service.NewDatasetService(app.datasetStore, db, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset service: %w", err)
	}

	app.fitService, err = service.NewFitService(app.fitStore, app.datasetStore, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create fit service: %w", err)
	}

	fitter := statfit.NewFitter(logger)

	// Interpretation is optional: no API key means fits are stored without
	// plain-language summaries.
	var interpreter task.Interpreter
	if cfg.Interpret.GeminiAPIKey != "" {
		interpreter, err = gemini.NewGeminiInterpreter(ctx, logger, cfg.Interpret)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize interpreter: %w", err)
		}
		logger.Info("fit interpreter initialized", "model", cfg.Interpret.ModelName)
	} else {
		logger.Info("fit interpretation disabled, no API key configured")
	}

	fitTaskFactory := task.NewDatasetFitTaskFactory(
		app.datasetService,
		fitter,
		app.fitService,
		interpreter,
		logger,
	)

	// Tasks recovered from the database get their execution logic rebuilt
	// from the persisted payload while keeping their original IDs.
	app.taskStore.SetTaskReconstructor(
		func(taskType string, payload []byte) (func(ctx context.Context) error, error) {
			if taskType != task.TaskTypeDatasetFit {
				return nil, fmt.Errorf("unknown task type: %q", taskType)
			}

			var p struct {
				DatasetID uuid.UUID `json:"dataset_id"`
			}
			if err := json.Unmarshal(payload, &p); err != nil {
				return nil, fmt.Errorf("failed to unmarshal task payload: %w", err)
			}

			recovered, err := fitTaskFactory.CreateTask(p.DatasetID)
			if err != nil {
				return nil, err
			}
			return recovered.Execute, nil
		})

	app.taskRunner = task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		WorkerCount:            cfg.Task.WorkerCount,
		QueueSize:              cfg.Task.QueueSize,
		StuckTaskAge:           time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute,
		StuckTaskCheckInterval: task.DefaultTaskRunnerConfig().StuckTaskCheckInterval,
	}, logger)
	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	app.eventEmitter.RegisterHandler(
		task.NewTaskFactoryEventHandler(fitTaskFactory, app.taskRunner, logger))

	logger.Info("application initialized")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown completes.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
