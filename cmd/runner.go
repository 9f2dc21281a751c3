package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsync/internal/auth"
	"github.com/desertthunder/plsync/internal/repositories"
	"github.com/desertthunder/plsync/internal/retry"
	"github.com/desertthunder/plsync/internal/services"
	"github.com/desertthunder/plsync/internal/shared"
	"github.com/desertthunder/plsync/internal/tasks"
	"github.com/desertthunder/plsync/internal/ui"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Expensive dependencies (API client, engine, history database) are built
// lazily on first use so that purely local commands never touch the network.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer

	api      services.PlaylistAPI
	engine   tasks.SyncEngine
	recorder tasks.RunRecorder
	authn    *auth.Authenticator
	db       *sql.DB

	isTTY       func() bool
	pickSources func(ctx context.Context, api services.PlaylistAPI, exclude []string) ([]string, error)
}

// RunnerOpts contains configuration options for creating a Runner. Service,
// engine and recorder are injection points for tests; nil values are built
// lazily from the config.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer

	API      services.PlaylistAPI
	Engine   tasks.SyncEngine
	Recorder tasks.RunRecorder
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		api:        opts.API,
		engine:     opts.Engine,
		recorder:   opts.Recorder,
		isTTY: func() bool {
			fd := os.Stdin.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
		pickSources: ui.PickSources,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		configCommand, syncCommand, authCommand, playlistsCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// configDir is where the token cache and the default history DB live.
func (r *Runner) configDir() string {
	return filepath.Dir(r.configPath)
}

func (r *Runner) retryConfig() retry.Config {
	cfg := retry.DefaultConfig()
	if r.config.Sync.MaxRetries > 0 {
		cfg.MaxRetries = r.config.Sync.MaxRetries
	}
	return cfg
}

// authenticator builds the OAuth2 authenticator from the configured client
// secret. Status and reset work without credentials via cacheAuthenticator.
func (r *Runner) authenticator() (*auth.Authenticator, error) {
	if r.authn != nil {
		return r.authn, nil
	}

	oauthConfig, err := auth.LoadClientCredentials(r.config.Credentials.OAuth2JSON)
	if err != nil {
		return nil, err
	}

	authorizer := &auth.BrowserAuthorizer{
		Host:   r.config.Server.Host,
		Port:   r.config.Server.Port,
		Output: r.output,
		Logger: r.logger,
	}

	r.authn = auth.NewAuthenticator(oauthConfig, r.tokenCachePath(), authorizer, r.logger)
	return r.authn, nil
}

// cacheAuthenticator serves auth status/reset, which only touch the cache
// file and never need client credentials.
func (r *Runner) cacheAuthenticator() *auth.Authenticator {
	if r.authn != nil {
		return r.authn
	}
	return auth.NewAuthenticator(nil, r.tokenCachePath(), nil, r.logger)
}

func (r *Runner) tokenCachePath() string {
	return filepath.Join(r.configDir(), auth.TokenCacheFile)
}

// service returns the playlist API client, authenticating on first use.
func (r *Runner) service(ctx context.Context) (services.PlaylistAPI, error) {
	if r.api != nil {
		return r.api, nil
	}

	authn, err := r.authenticator()
	if err != nil {
		return nil, err
	}

	source, err := authn.TokenSource(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := services.NewYouTubeService(ctx, r.retryConfig(), option.WithTokenSource(source))
	if err != nil {
		return nil, err
	}

	r.api = svc
	return r.api, nil
}

// historyDB opens the history database and applies pending migrations.
func (r *Runner) historyDB() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.HistoryDBPath(r.configPath))
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	r.db = db
	return r.db, nil
}

// runRecorder returns the history recorder. A broken history DB downgrades
// to a warning; sync still runs, just unrecorded.
func (r *Runner) runRecorder() tasks.RunRecorder {
	if r.recorder != nil {
		return r.recorder
	}

	db, err := r.historyDB()
	if err != nil {
		r.logger.Warn("history database unavailable, runs will not be recorded", "error", err)
		return nil
	}

	r.recorder = repositories.NewRunRepository(db)
	return r.recorder
}

// syncEngine builds the engine over the authenticated API client.
func (r *Runner) syncEngine(ctx context.Context) (tasks.SyncEngine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	api, err := r.service(ctx)
	if err != nil {
		return nil, err
	}

	r.engine = tasks.NewPlaylistEngine(api, tasks.EngineOpts{
		QuotaPolicy:      r.config.Sync.QuotaPolicy,
		MaxRetries:       r.config.Sync.MaxRetries,
		InsertsPerSecond: r.config.Sync.InsertsPerSecond,
		Recorder:         r.runRecorder(),
		Logger:           shared.WithLogger(r.logger, "component", "sync"),
	})
	return r.engine, nil
}

func (r *Runner) writeJSON(data any) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
