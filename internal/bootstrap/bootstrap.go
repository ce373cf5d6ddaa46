package bootstrap

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	sessioninadapter "pairvote/internal/modules/session/adapter/in"
	sessionoutadapter "pairvote/internal/modules/session/adapter/out"
	sessionservice "pairvote/internal/modules/session/service"
	sessionusecase "pairvote/internal/modules/session/usecase"
	votinginadapter "pairvote/internal/modules/voting/adapter/in"
	votingoutadapter "pairvote/internal/modules/voting/adapter/out"
	votingservice "pairvote/internal/modules/voting/service"
	votingusecase "pairvote/internal/modules/voting/usecase"
	"pairvote/internal/platform/clock"
	"pairvote/internal/platform/config"
	"pairvote/internal/platform/httpapi"
	"pairvote/internal/platform/id"
	"pairvote/internal/platform/logging"
	"pairvote/internal/platform/storage"
	uiapp "pairvote/internal/ui/app"
	"pairvote/internal/ui/theme"
)

type App struct {
	Config     config.Config
	Logger     hclog.Logger
	SessionCLI sessioninadapter.CLIHandler
	VotingCLI  votinginadapter.CLIHandler
	Prefs      *theme.Store

	store storage.Store
}

// Options overrides process-level collaborators; zero values mean defaults.
type Options struct {
	LogOutput io.Writer
	Clock     clock.Clock
	IDs       id.Generator
}

func New(cfg config.Config, opts Options) (*App, error) {
	clk := opts.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	ids := opts.IDs
	if ids == nil {
		ids = id.UUID{}
	}
	logger := logging.New(cfg.LogLevel, opts.LogOutput)

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	client, err := httpapi.New(cfg.APIBase, cfg.RequestTimeout, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("new api client: %w", err)
	}

	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(sessionoutadapter.NewHTTPSessionAPI(client), ids, logger),
		sessionoutadapter.NewStorageIdentityStore(store),
		logger,
	)
	votingUC := votingusecase.NewInteractor(
		votingservice.NewVotingService(votingoutadapter.NewHTTPUnitAPI(client), clk),
		votingoutadapter.NewSessionAdapter(sessionUC),
		votingoutadapter.NewStorageStateStore(store),
		logger,
	)

	logger.Debug("app assembled", "api_base", cfg.APIBase, "storage", cfg.Storage, "state_dir", cfg.StateDir)
	return &App{
		Config:     cfg,
		Logger:     logger,
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		VotingCLI:  votinginadapter.NewCLIHandler(votingUC),
		Prefs:      theme.NewStore(store),
		store:      store,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	return a.store.Close()
}

func RunTUI(ctx context.Context, app *App) error {
	mode := app.Prefs.Load(ctx, theme.ParseMode(app.Config.Theme))
	model := uiapp.NewModel(app.SessionCLI, app.VotingCLI, app.Prefs, mode)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func openStore(cfg config.Config) (storage.Store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return storage.NewMemoryStore(), nil
	case config.StorageFile:
		return storage.NewFileStore(cfg.StateDir), nil
	default:
		store, err := storage.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open state db: %w", err)
		}
		return store, nil
	}
}
