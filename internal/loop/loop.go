// Package loop drives the engine: periodic time advancement, milestone
// relay, golden cookie spawns, and autosave.
package loop

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/James-JH/CookieClicker-Remake/internal/catalog"
	"github.com/James-JH/CookieClicker-Remake/internal/config"
	"github.com/James-JH/CookieClicker-Remake/internal/game"
	"github.com/James-JH/CookieClicker-Remake/internal/save"
	"github.com/James-JH/CookieClicker-Remake/internal/telemetry"
)

type Options struct {
	Engine    *game.Engine
	Store     save.Store
	Clock     game.Clock
	Logger    *zap.Logger
	Telemetry telemetry.Repository
	Loop      config.Loop
	Tuning    config.Tuning

	// OnUnlock relays newly unlocked achievements to the presentation
	// layer. Called from the loop goroutine; keep it quick.
	OnUnlock func([]catalog.Achievement)

	// Rand overrides the spawn RNG for deterministic tests.
	Rand *rand.Rand
}

type Loop struct {
	engine   *game.Engine
	store    save.Store
	clock    game.Clock
	logger   *zap.Logger
	events   telemetry.Repository
	tick     time.Duration
	deltaCap time.Duration
	autosave time.Duration
	tuning   config.Tuning
	onUnlock func([]catalog.Achievement)
	rng      *rand.Rand

	mu           sync.Mutex
	goldenActive bool
	lastTick     time.Time
	lastSave     time.Time
}

func New(opts Options) *Loop {
	if opts.Clock == nil {
		opts.Clock = game.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	opts.Loop.ApplyDefaults()
	opts.Tuning.ApplyDefaults()

	now := opts.Clock.Now()
	return &Loop{
		engine:   opts.Engine,
		store:    opts.Store,
		clock:    opts.Clock,
		logger:   opts.Logger,
		events:   opts.Telemetry,
		tick:     opts.Loop.Tick(),
		deltaCap: opts.Loop.DeltaCap(),
		autosave: opts.Loop.Autosave(),
		tuning:   opts.Tuning,
		onUnlock: opts.OnUnlock,
		rng:      opts.Rand,
		lastTick: now,
		lastSave: now,
	}
}

// Run ticks until ctx is cancelled, then performs one final save. Any
// pending tick at cancellation is simply not invoked; there is no
// partial-tick state to unwind.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := l.SaveNow(saveCtx); err != nil {
				l.logger.Error("final save failed", zap.Error(err))
			}
			return nil
		case <-ticker.C:
			l.Step(l.clock.Now())
		}
	}
}

// Step performs one bounded loop iteration at the given wall time.
func (l *Loop) Step(now time.Time) {
	l.mu.Lock()
	delta := now.Sub(l.lastTick)
	l.lastTick = now
	l.mu.Unlock()

	if delta < 0 {
		delta = 0
	}
	if delta > l.deltaCap {
		delta = l.deltaCap
	}

	l.engine.AdvanceTime(delta)

	if newly := l.engine.EvaluateMilestones(); len(newly) > 0 {
		for _, a := range newly {
			l.logger.Info("achievement unlocked", zap.String("id", a.ID))
		}
		if l.onUnlock != nil {
			l.onUnlock(newly)
		}
	}

	l.maybeSpawnGolden()

	l.mu.Lock()
	due := now.Sub(l.lastSave) >= l.autosave
	l.mu.Unlock()
	if due {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := l.SaveNow(ctx); err != nil {
			l.logger.Error("autosave failed", zap.Error(err))
		}
		cancel()
	}
}

func (l *Loop) maybeSpawnGolden() {
	if !l.tuning.GoldenEnabled {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.goldenActive {
		return
	}
	if l.rng.Float64() < l.tuning.GoldenSpawnChance {
		l.goldenActive = true
		l.logger.Info("golden cookie spawned")
	}
}

// GoldenActive reports whether a golden cookie is waiting to be collected.
func (l *Loop) GoldenActive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.goldenActive
}

// CollectGolden claims the active golden cookie, if any, and returns the
// granted bonus.
func (l *Loop) CollectGolden() (float64, bool) {
	l.mu.Lock()
	if !l.goldenActive {
		l.mu.Unlock()
		return 0, false
	}
	l.goldenActive = false
	l.mu.Unlock()

	return l.engine.CollectGoldenBonus(), true
}

// SaveNow exports the engine state and writes it to the store.
func (l *Loop) SaveNow(ctx context.Context) error {
	snap := l.engine.Export()
	if err := l.store.Save(ctx, snap); err != nil {
		return err
	}

	l.mu.Lock()
	l.lastSave = l.clock.Now()
	l.mu.Unlock()

	if l.events != nil {
		_ = l.events.RecordEvent(telemetry.EventStateSaved, nil)
	}
	return nil
}

// Reset clears the engine and deletes the persisted snapshot.
func (l *Loop) Reset(ctx context.Context) error {
	l.engine.Reset()

	l.mu.Lock()
	l.goldenActive = false
	l.mu.Unlock()

	return l.store.Delete(ctx)
}
