package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/internal/config"
	"github.com/jakechorley/shift-roster/pkg/cache"
	"github.com/jakechorley/shift-roster/pkg/clients/gmailclient"
	"github.com/jakechorley/shift-roster/pkg/clients/sheetsclient"
	"github.com/jakechorley/shift-roster/pkg/db"
	"github.com/jakechorley/shift-roster/pkg/metrics"
	"github.com/jakechorley/shift-roster/pkg/postgres"
	"github.com/jakechorley/shift-roster/pkg/utils"
)

// AppContext holds the application dependencies shared across all commands.
// Connections are opened on first use so commands that only generate never
// need a database or Google credentials.
type AppContext struct {
	Env       string
	PeriodKey string
	Cfg       *config.Config
	Logger    *zap.Logger
	Recorder  *metrics.Recorder
	Ctx       context.Context

	database     *postgres.DB
	cache        *cache.Cache
	oauthCfg     *config.OAuthClientConfig
	sheetsClient *sheetsclient.Client
	gmailClient  *gmailclient.Client
}

// OptionalStore returns the roster store, or nil when no database is configured
func (app *AppContext) OptionalStore() (db.RosterStore, error) {
	if app.Cfg.Database.URL == "" {
		app.Logger.Debug("No database configured, adopted rosters are unavailable")
		return nil, nil
	}
	return app.Store()
}

// Store connects to the database and runs migrations on first use
func (app *AppContext) Store() (db.RosterStore, error) {
	if app.database != nil {
		return app.database, nil
	}
	if app.Cfg.Database.URL == "" {
		return nil, fmt.Errorf("database.url is not configured (or set SHIFT_ROSTER_DATABASE_URL)")
	}

	app.Logger.Info("Connecting to database")
	database, err := postgres.NewDB(app.Ctx, app.Cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	app.Logger.Debug("Running database migrations")
	applied, err := database.RunMigrations(app.Ctx)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if len(applied) > 0 {
		app.Logger.Info("Applied database migrations", zap.Strings("migrations", applied))
	}

	app.database = database
	app.Logger.Debug("Database initialized successfully")
	return app.database, nil
}

// Cache returns the candidate cache. It is disabled when no redis address
// is configured.
func (app *AppContext) Cache() *cache.Cache {
	if app.cache == nil {
		app.cache = cache.NewFromConfig(app.Cfg.Cache, app.Logger)
		app.Logger.Debug("Candidate cache initialized", zap.Bool("enabled", app.cache.Enabled()))
	}
	return app.cache
}

func (app *AppContext) oauthClient() (*config.OAuthClientConfig, error) {
	if app.oauthCfg != nil {
		return app.oauthCfg, nil
	}

	app.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}
	app.oauthCfg = oauthCfg
	return app.oauthCfg, nil
}

// SheetsClient authenticates with Google on first use
func (app *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if app.sheetsClient != nil {
		return app.sheetsClient, nil
	}

	oauthCfg, err := app.oauthClient()
	if err != nil {
		return nil, err
	}
	store, err := utils.DefaultTokenStore()
	if err != nil {
		return nil, err
	}

	app.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, store, app.Env, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	app.sheetsClient = client
	return app.sheetsClient, nil
}

// GmailClient reuses the token obtained by the sheets client
func (app *AppContext) GmailClient() (*gmailclient.Client, error) {
	if app.gmailClient != nil {
		return app.gmailClient, nil
	}

	sheets, err := app.SheetsClient()
	if err != nil {
		return nil, err
	}

	app.Logger.Info("Initializing gmail client")
	client, err := gmailclient.NewClient(app.Ctx, app.oauthCfg, sheets.Token(), app.Cfg.GmailSender)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	app.gmailClient = client
	return app.gmailClient, nil
}

// WriteMetrics writes the generator metrics when a metrics file is configured
func (app *AppContext) WriteMetrics() {
	if app.Cfg.MetricsFile == "" {
		return
	}
	if err := app.Recorder.WriteToTextfile(app.Cfg.MetricsFile); err != nil {
		app.Logger.Warn("Failed to write metrics", zap.Error(err))
		return
	}
	app.Logger.Debug("Wrote metrics", zap.String("path", app.Cfg.MetricsFile))
}

// Close releases open connections
func (app *AppContext) Close() {
	if app.database != nil {
		app.database.Close()
		app.database = nil
	}
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.Logger.Debug("Failed to close cache", zap.Error(err))
		}
		app.cache = nil
	}
}
