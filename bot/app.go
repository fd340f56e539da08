package bot

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	coredatabase "github.com/m3rciful/reportbot/core/database"
	"github.com/m3rciful/reportbot/core/logger"
	tg "github.com/m3rciful/reportbot/core/telegram"
	"github.com/m3rciful/reportbot/core/telegram/router"
	"github.com/m3rciful/reportbot/report"
	"github.com/m3rciful/reportbot/storage"
)

const sweepInterval = time.Minute

// App wires the report flow, fan-out, and archive together and exposes the
// options needed to run the Telegram transport.
type App struct {
	cfg     *Config
	flow    *report.Flow
	desk    *report.AdminDesk
	archive storage.Archive
	courier *courier
	db      *sqlx.DB

	sessions *report.Sessions
}

// New builds the application from a normalized configuration. The logger must
// be initialized before calling New.
func New(cfg *Config) (*App, error) {
	a := &App{
		cfg:     cfg,
		courier: newCourier(),
		archive: storage.Disabled{},
	}

	// Dispatch and the verdict desk only see the archive when it is real;
	// /myreports keeps the Disabled stub for its placeholder reply.
	var (
		dispatchArchive report.Archive
		verdictStore    report.VerdictStore
	)
	if cfg.Database.Enabled {
		if err := coredatabase.RunMigrations(cfg.Database); err != nil {
			return nil, err
		}
		db, err := coredatabase.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		pg := storage.NewPostgres(db)
		a.db = db
		a.archive = pg
		dispatchArchive = pg
		verdictStore = pg
	}

	a.desk = report.NewAdminDesk(verdictStore)
	a.sessions = report.NewSessions(time.Duration(cfg.Core.Report.SessionIdleMinutes) * time.Minute)

	dispatcher := report.NewDispatcher(report.DispatcherOptions{
		Courier:   a.courier,
		Archive:   dispatchArchive,
		ChannelID: cfg.Core.Report.ChannelID,
		AdminIDs:  cfg.Core.Report.AdminIDs,
	})

	a.flow = report.NewFlow(report.FlowOptions{
		Sessions:      a.sessions,
		Cooldowns:     report.NewMemoryCooldowns(time.Duration(cfg.Core.Report.CooldownSeconds) * time.Second),
		Dispatcher:    dispatcher,
		MaxDetailsLen: cfg.Core.Report.MaxDetailsLen,
	})

	return a, nil
}

// RunOptions assembles the transport wiring: registry, routes, middlewares,
// and lifecycle hooks.
func (a *App) RunOptions() tg.RunOptions {
	reg := tg.NewRegistry()
	a.registerCommands(reg)
	a.registerCallbacks(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminIDs: a.cfg.Core.Report.AdminIDs,
	})
	routes = append(routes, router.TextRoutes(a, reg, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	return tg.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			a.courier.Bind(rt.Bot)
			go a.sessions.Sweep(ctx, sweepInterval)
			return nil
		},
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			return a.Close()
		},
	}
}

// Close releases resources held by the application.
func (a *App) Close() error {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			logger.DB.Error("db close failed")
			return err
		}
	}
	return nil
}
