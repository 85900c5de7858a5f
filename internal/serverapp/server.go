// Package serverapp wires the catalog, engine, store, loop, and HTTP
// surface into a runnable application.
package serverapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/James-JH/CookieClicker-Remake/internal/catalog"
	"github.com/James-JH/CookieClicker-Remake/internal/config"
	"github.com/James-JH/CookieClicker-Remake/internal/game"
	"github.com/James-JH/CookieClicker-Remake/internal/httpapi"
	"github.com/James-JH/CookieClicker-Remake/internal/httpmw"
	"github.com/James-JH/CookieClicker-Remake/internal/loop"
	"github.com/James-JH/CookieClicker-Remake/internal/save"
	"github.com/James-JH/CookieClicker-Remake/internal/telemetry"
)

type Options struct {
	Config *config.Config
	Logger *zap.Logger

	// Store overrides the backend selected by Config.Persistence.
	// Tests pass a memory store here.
	Store save.Store

	// Clock overrides wall time for tests.
	Clock game.Clock
}

// App holds the assembled application. Run drives the loop; Handler
// serves the API.
type App struct {
	Engine *game.Engine
	Loop   *loop.Loop
	Store  save.Store

	handler http.Handler
	logger  *zap.Logger
}

func NewApp(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = game.RealClock{}
	}
	cfg := opts.Config

	store := opts.Store
	if store == nil {
		var err error
		store, err = openStore(cfg.Persistence)
		if err != nil {
			return nil, err
		}
	}

	cat := catalog.Standard()
	events := telemetry.NewMemoryRepository()

	engine := game.New(cat, cfg.Tuning, opts.Clock,
		game.WithLogger(opts.Logger),
		game.WithTelemetry(events))

	snap, ok, err := store.Load(context.Background())
	if err != nil {
		// A corrupt or unreadable snapshot must not prevent startup.
		opts.Logger.Warn("saved state unreadable, starting fresh", zap.Error(err))
	}
	if ok {
		engine.Restore(snap)
		opts.Logger.Info("saved state restored",
			zap.Float64("balance", engine.Snapshot().Balance))
	}

	lp := loop.New(loop.Options{
		Engine:    engine,
		Store:     store,
		Clock:     opts.Clock,
		Logger:    opts.Logger,
		Telemetry: events,
		Loop:      cfg.Loop,
		Tuning:    cfg.Tuning,
	})

	api := httpapi.NewHandler(engine, lp, cat, events, opts.Clock)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		fmt.Fprintf(w, `{"ok":true,"service":"cookieclicker","time":%q}`+"\n",
			time.Now().UTC().Format(time.RFC3339))
	})
	mux.HandleFunc("/api/game/state", api.State)
	mux.HandleFunc("/api/game/stats", api.Stats)
	mux.HandleFunc("/api/game/achievements", api.Achievements)
	mux.HandleFunc("/api/game/click", api.Click)
	mux.HandleFunc("/api/game/buildings/buy", api.BuyBuilding)
	mux.HandleFunc("/api/game/upgrades/buy", api.BuyUpgrade)
	mux.HandleFunc("/api/game/golden/collect", api.CollectGolden)
	mux.HandleFunc("/api/game/reset", api.Reset)

	handler := httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	)

	return &App{
		Engine:  engine,
		Loop:    lp,
		Store:   store,
		handler: handler,
		logger:  opts.Logger,
	}, nil
}

func openStore(p config.Persistence) (save.Store, error) {
	switch p.Backend {
	case "", "file":
		return save.NewFileStore(p.DataDir)
	case "sqlite":
		return save.OpenSQLiteStore(filepath.Join(p.DataDir, "save.db"))
	case "memory":
		return save.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown persistence backend %q", p.Backend)
	}
}

// Handler returns the full middleware-wrapped HTTP surface.
func (a *App) Handler() http.Handler { return a.handler }

// Run drives the loop until ctx is cancelled.
func (a *App) Run(ctx context.Context) error { return a.Loop.Run(ctx) }

// Close releases the store.
func (a *App) Close() error { return a.Store.Close() }
