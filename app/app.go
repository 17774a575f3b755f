// Package app wires the ULTRABUILD services together from a Config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ultrabuild/ultrabuild/ai"
	"github.com/ultrabuild/ultrabuild/catalog"
	"github.com/ultrabuild/ultrabuild/config"
	"github.com/ultrabuild/ultrabuild/db"
	"github.com/ultrabuild/ultrabuild/deploy"
	"github.com/ultrabuild/ultrabuild/docker"
	"github.com/ultrabuild/ultrabuild/encryption"
	"github.com/ultrabuild/ultrabuild/games"
	"github.com/ultrabuild/ultrabuild/generator"
	"github.com/ultrabuild/ultrabuild/git"
	"github.com/ultrabuild/ultrabuild/healer"
	"github.com/ultrabuild/ultrabuild/ledger"
	"github.com/ultrabuild/ultrabuild/metrics"
	"github.com/ultrabuild/ultrabuild/notify"
	"github.com/ultrabuild/ultrabuild/repository"
	"github.com/ultrabuild/ultrabuild/research"
	"github.com/ultrabuild/ultrabuild/telemetry"
	"github.com/ultrabuild/ultrabuild/web/handlers"
	"github.com/ultrabuild/ultrabuild/web/routes"
	"github.com/ultrabuild/ultrabuild/workspace"
	"github.com/ultrabuild/ultrabuild/ws"
	"gorm.io/gorm"
)

const dockerPingTimeout = 3 * time.Second

// Version is set at build time via -ldflags
var Version = "dev"

// App holds every long-lived service
type App struct {
	Config     *config.Config
	Catalog    *catalog.Catalog
	Generator  *generator.Generator
	Healer     *healer.Healer
	Ledger     *ledger.Ledger
	Games      *games.Generator
	Dispatcher *deploy.Dispatcher
	Hub        *ws.Hub
	Metrics    *metrics.Metrics

	database      *gorm.DB
	docker        *docker.Client
	telegram      *notify.Telegram
	shutdownTrace telemetry.Shutdown
}

// New builds the application. Missing credentials disable the matching
// integration; they never fail startup.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	shutdownTrace, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, Version)
	if err != nil {
		slog.Warn("Tracing disabled", "layer", "app", "operation", "setup_telemetry", "error", err)
	}

	a := &App{
		Config:        cfg,
		Catalog:       catalog.New(),
		Games:         games.New(),
		Hub:           ws.NewHub(),
		Metrics:       metrics.New(),
		shutdownTrace: shutdownTrace,
	}

	httpClient := &http.Client{Transport: telemetry.Transport(http.DefaultTransport)}

	a.Generator = a.newGenerator(httpClient)
	a.Healer = a.newHealer()

	var archive deploy.Archive
	var store ledger.Store
	if cfg.Persistence {
		store, archive, err = a.openDatabase()
		if err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
	}

	a.Ledger = ledger.New(ledger.WithStore(store), ledger.WithObserver(a.Metrics))
	if err := a.Ledger.Restore(); err != nil {
		slog.Warn("Failed to restore templates", "layer", "app", "operation", "restore_ledger", "error", err)
	}

	a.Dispatcher, err = a.newDispatcher(httpClient, archive)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	return a, nil
}

func (a *App) newGenerator(httpClient *http.Client) *generator.Generator {
	opts := []generator.Option{generator.WithObserver(a.Metrics)}

	researcher, err := research.NewClient(a.Config.ManusAPIURL, a.Config.ManusAPIKey, a.Config.ResearchTimeout, httpClient)
	if err != nil {
		slog.Info("Research disabled, using local complexity estimates", "reason", err)
	} else {
		opts = append(opts, generator.WithResearcher(researcher, a.Config.ResearchTimeout))
	}

	return generator.New(a.Catalog, a.Config.ProjectCapacity, opts...)
}

func (a *App) newHealer() *healer.Healer {
	var rewriter healer.Rewriter
	completer, err := ai.NewClient(a.Config.OpenAIAPIKey, a.Config.OpenAIBaseURL, a.Config.OpenAIModel, a.Config.AIRequestsPerMinute)
	if err != nil {
		slog.Info("AI rewriter disabled, healing runs scan only", "reason", err)
	} else {
		rewriter = ai.NewRewriter(completer)
	}

	return healer.New(healer.NewScanner(healer.DefaultRules), rewriter, a.Config.HealingCapacity,
		healer.WithRewriteTimeout(a.Config.RewriteTimeout),
		healer.WithObserver(a.Metrics),
	)
}

func (a *App) openDatabase() (ledger.Store, deploy.Archive, error) {
	database, err := db.InitDB(a.Config.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	a.database = database

	encryptionSvc, err := encryption.NewEncryptionService(a.Config.EncryptionKey)
	if err != nil {
		return nil, nil, err
	}

	mapper := repository.NewTemplateMapper(encryptionSvc)
	return repository.NewLedgerRepository(database, mapper), repository.NewDeploymentRepository(database), nil
}

func (a *App) newDispatcher(httpClient *http.Client, archive deploy.Archive) (*deploy.Dispatcher, error) {
	cfg := a.Config

	workspaces, err := workspace.New(cfg.WorkspaceDir)
	if err != nil {
		return nil, err
	}

	var runner deploy.ImageRunner
	if dockerClient := a.connectDocker(); dockerClient != nil {
		a.docker = dockerClient
		runner = dockerClient
	}

	opts := []deploy.Option{
		deploy.WithTimeout(cfg.DeployTimeout),
		deploy.WithTarget(deploy.NewVercelTarget(cfg.VercelAPIURL, cfg.VercelToken, httpClient)),
		deploy.WithTarget(deploy.NewGitHubTarget(cfg.GitHubToken, workspaces, git.NewGitService(git.DefaultAuthor, cfg.DeployTimeout), httpClient)),
		deploy.WithTarget(deploy.NewDockerTarget(runner, workspaces)),
		deploy.WithTarget(deploy.NewAWSTarget(cfg.AWSBucket, cfg.AWSRegion, cfg.AWSCommand, nil, workspaces)),
		deploy.WithObserver(a.Metrics),
		deploy.WithObserver(a.Hub),
	}

	telegram, err := notify.NewTelegram("", cfg.TelegramBotToken, cfg.TelegramChatID, httpClient)
	if err != nil {
		slog.Info("Telegram notifications disabled", "reason", err)
	} else {
		a.telegram = telegram
		opts = append(opts, deploy.WithObserver(telegram))
	}

	if archive != nil {
		opts = append(opts, deploy.WithArchive(archive))
	}

	return deploy.NewDispatcher(cfg.DeploymentCapacity, opts...), nil
}

func (a *App) connectDocker() *docker.Client {
	cli, err := docker.New("")
	if err != nil {
		slog.Info("Docker target disabled", "reason", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), dockerPingTimeout)
	defer cancel()
	if err := cli.Ping(ctx); err != nil {
		slog.Info("Docker target disabled", "reason", err)
		_ = cli.Close()
		return nil
	}
	return cli
}

// Handler returns the instrumented HTTP handler
func (a *App) Handler() http.Handler {
	h := handlers.New(handlers.Deps{
		Version:      Version,
		Generator:    a.Generator,
		Deployer:     a.Dispatcher,
		Healer:       a.Healer,
		Ledger:       a.Ledger,
		Games:        a.Games,
		Hub:          a.Hub,
		Integrations: a.integrations(),
	})
	return telemetry.Handler(routes.NewRouter(h, a.Metrics))
}

func (a *App) integrations() map[string]bool {
	integrations := a.Config.Integrations()
	integrations["docker"] = a.docker != nil
	integrations["persistence"] = a.database != nil
	return integrations
}

// Close releases external resources
func (a *App) Close(ctx context.Context) error {
	var errs []error

	if a.telegram != nil {
		a.telegram.Wait()
	}
	if a.docker != nil {
		errs = append(errs, a.docker.Close())
	}
	if a.database != nil {
		errs = append(errs, db.Close(a.database))
	}
	if a.shutdownTrace != nil {
		errs = append(errs, a.shutdownTrace(ctx))
	}

	return errors.Join(errs...)
}
