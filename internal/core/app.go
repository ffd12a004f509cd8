package core

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/rsanur/libra-go/internal/assets"
	"github.com/rsanur/libra-go/internal/config"
	"github.com/rsanur/libra-go/internal/db"
	"github.com/rsanur/libra-go/internal/jobs"
	"github.com/rsanur/libra-go/internal/util"
)

// App holds the core components of the application that are shared between
// the server, the background jobs and the CLI.
type App struct {
	config     *config.Config
	database   *sql.DB
	jobManager *jobs.JobManager
	version    string
}

// New sets up and returns a new App instance. It handles loading the
// configuration, preparing the storage directories, initializing the
// database connection, and running migrations.
func New(version string) (*App, error) {
	// Load configuration from config.yml
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Make sure every storage directory exists and is writable before
	// anything tries to use it.
	for _, dir := range []string{cfg.Uploads.BooksDir, cfg.Uploads.CoversDir, cfg.Uploads.TmpDir} {
		if err := util.EnsureDir(dir); err != nil {
			return nil, fmt.Errorf("failed to prepare storage directory %s: %w", dir, err)
		}
	}

	// Initialize the database connection
	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	if err := db.RunMigrations(database, assets.MigrationsFS); err != nil {
		// We can't proceed without a valid database schema.
		// Close the DB connection before failing.
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	log.Println("Core application setup complete.")
	return &App{
		config:     cfg,
		database:   database,
		jobManager: jobs.NewManager(),
		version:    version,
	}, nil
}

// NewFromComponents assembles an App from already-initialized parts. Used
// by tests and the CLI, which manage their own config and database.
func NewFromComponents(cfg *config.Config, database *sql.DB) *App {
	return &App{
		config:     cfg,
		database:   database,
		jobManager: jobs.NewManager(),
		version:    "dev",
	}
}

// DB returns the database handle.
func (a *App) DB() *sql.DB { return a.database }

// Config returns the loaded configuration.
func (a *App) Config() *config.Config { return a.config }

// JobManager returns the background job manager.
func (a *App) JobManager() *jobs.JobManager { return a.jobManager }

// Version returns the build version string.
func (a *App) Version() string { return a.version }

// Close gracefully closes the application's resources, like the DB connection.
func (a *App) Close() {
	if a.database != nil {
		a.database.Close()
	}
}
