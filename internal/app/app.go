package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"hl-fill-alerts/internal/alerting"
	"hl-fill-alerts/internal/config"
	"hl-fill-alerts/internal/fetcher"
	"hl-fill-alerts/internal/journal"
	"hl-fill-alerts/internal/monitor"
	"hl-fill-alerts/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newFetcher() fetcher.FillFetcher {
	return fetcher.NewHyperliquid(fetcher.HyperliquidOptions{
		BaseURL:   a.Config.Hyperliquid.BaseURL,
		Timeout:   a.Config.Hyperliquid.RequestTimeout,
		UserAgent: a.Config.Hyperliquid.UserAgent,
	}, a.Logger)
}

func (a *App) newDispatcher() *alerting.Dispatcher {
	channel := alerting.NewServerChan(a.Config.ServerChan.RequestTimeout, a.Logger)
	return alerting.NewDispatcher(channel, a.Config.SendKeys, a.Logger)
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}

	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// Run starts a monitor loop for every active entry and blocks until the
// process is interrupted.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		a.Logger.Warn().Msg("database.dsn not configured; persistence disabled")
	}
	if closeStore != nil {
		defer closeStore()
	}

	var eventStore monitor.Store
	if store != nil {
		eventStore = store
	}

	dispatcher := a.newDispatcher()
	if !dispatcher.Enabled() {
		a.Logger.Warn().Msg("no sendkeys configured; notifications disabled")
	}

	registry := monitor.NewRegistry(monitor.Options{
		Interval:       a.Config.Monitor.Interval,
		BackfillWindow: a.Config.Monitor.BackfillWindow,
	}, a.newFetcher(), journal.New(), dispatcher, eventStore, a.Logger)

	started := 0
	for _, entry := range a.Config.Monitors {
		if !entry.Active {
			continue
		}

		kind, err := monitor.ParseKind(entry.MonitorType)
		if err != nil {
			a.Logger.Error().Err(err).Str("address", entry.Address).Msg("skipping monitor entry")
			continue
		}

		spec := monitor.Spec{Address: entry.Address, Kind: kind, Active: true}
		if err := registry.Start(ctx, spec); err != nil {
			a.Logger.Error().Err(err).Str("address", entry.Address).Msg("failed to start monitor")
			continue
		}
		started++
	}

	if started == 0 {
		return errors.New("no active monitors could be started")
	}

	a.Logger.Info().Int("monitors", started).Msg("monitoring started")
	<-ctx.Done()

	a.Logger.Info().Msg("shutting down monitors")
	registry.StopAll()
	a.Logger.Info().Msg("monitoring service stopped")
	return nil
}

// ExportOptions hold parameters for exporting stored fill events.
type ExportOptions struct {
	From      *time.Time
	To        *time.Time
	PNGPath   string
	CSVPath   string
	MaxPoints int
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}

// BackfillOptions configure the one-shot backfill job.
type BackfillOptions struct {
	Address string
	DryRun  bool
}

// SendTestOptions configure the notification test command.
type SendTestOptions struct {
	Title string
	Body  string
}
