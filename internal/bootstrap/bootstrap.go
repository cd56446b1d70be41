package bootstrap

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	okrinadapter "okr/internal/modules/okr/adapter/in"
	okroutadapter "okr/internal/modules/okr/adapter/out"
	okrout "okr/internal/modules/okr/port/out"
	okrservice "okr/internal/modules/okr/service"
	okrusecase "okr/internal/modules/okr/usecase"
	"okr/internal/platform/clock"
	"okr/internal/platform/config"
	"okr/internal/platform/id"
	uiapp "okr/internal/ui/app"
)

type App struct {
	OKRCLI okrinadapter.CLIHandler

	closers []func() error
}

func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := clock.SystemClock{}
	ids := id.UUID{}
	app := &App{}

	var blobs okrout.BlobStore
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := okroutadapter.NewSQLiteBlobStore(cfg.DBPath, clk)
		if err != nil {
			return nil, fmt.Errorf("new sqlite blob store: %w", err)
		}
		app.closers = append(app.closers, store.Close)
		blobs = store
	case config.BackendFile, "":
		blobs = okroutadapter.NewFileBlobStore(cfg.BlobDir)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	logger.Debug("storage ready", zap.String("backend", cfg.Backend), zap.String("key", cfg.StorageKey))

	store := okroutadapter.NewBlobObjectiveStore(blobs, cfg.StorageKey)
	svc := okrservice.NewObjectiveService(clk, ids, store, logger, cfg.HistoryLimit)
	app.OKRCLI = okrinadapter.NewCLIHandler(okrusecase.NewInteractor(svc))
	return app, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	var first error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.OKRCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
