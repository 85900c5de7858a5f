package loop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/James-JH/CookieClicker-Remake/internal/catalog"
	"github.com/James-JH/CookieClicker-Remake/internal/config"
	"github.com/James-JH/CookieClicker-Remake/internal/game"
	"github.com/James-JH/CookieClicker-Remake/internal/save"
	"github.com/James-JH/CookieClicker-Remake/internal/telemetry"
)

type fixture struct {
	loop   *Loop
	engine *game.Engine
	store  *save.MemoryStore
	clock  *game.FakeClock
	events *telemetry.MemoryRepository
}

func newFixture(t *testing.T, mutate func(*Options)) *fixture {
	t.Helper()

	clock := game.NewFakeClock(time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	events := telemetry.NewMemoryRepository()
	engine := game.New(catalog.Standard(), config.Default(), clock, game.WithTelemetry(events))
	store := save.NewMemoryStore()

	opts := Options{
		Engine:    engine,
		Store:     store,
		Clock:     clock,
		Telemetry: events,
		Loop:      config.Loop{TickMillis: 100, DeltaCapMillis: 1000, AutosaveSeconds: 10},
	}
	if mutate != nil {
		mutate(&opts)
	}
	return &fixture{
		loop:   New(opts),
		engine: engine,
		store:  store,
		clock:  clock,
		events: events,
	}
}

// seedProduction gives the engine a steady 10/s production line.
func (f *fixture) seedProduction() {
	snap := save.DefaultSnapshot()
	snap.Owned = map[string]int{"grandma": 10}
	snap.SessionStartMillis = f.clock.Now().UnixMilli()
	snap.LastAutoTickMillis = f.clock.Now().UnixMilli()
	f.engine.Restore(snap)
}

func TestStep_DeltaCapped(t *testing.T) {
	f := newFixture(t, nil)
	f.seedProduction()

	// 5s of wall time, but the cap limits the payout to 1s of production.
	f.clock.Advance(5 * time.Second)
	f.loop.Step(f.clock.Now())

	assert.InDelta(t, 10.0, f.engine.Snapshot().Balance, 1e-9)
}

func TestStep_AccruesAcrossTicks(t *testing.T) {
	f := newFixture(t, nil)
	f.seedProduction()

	for i := 0; i < 5; i++ {
		f.clock.Advance(500 * time.Millisecond)
		f.loop.Step(f.clock.Now())
	}

	// 5 × 0.5s × 10/s.
	assert.InDelta(t, 25.0, f.engine.Snapshot().Balance, 1e-9)
}

func TestStep_RelaysUnlocks(t *testing.T) {
	var unlocked []catalog.Achievement
	f := newFixture(t, func(o *Options) {
		o.OnUnlock = func(batch []catalog.Achievement) {
			unlocked = append(unlocked, batch...)
		}
	})
	f.seedProduction()

	f.clock.Advance(time.Second)
	f.loop.Step(f.clock.Now())

	require.Len(t, unlocked, 1)
	assert.Equal(t, "making-some-dough", unlocked[0].ID)

	// Already-unlocked milestones are not relayed again.
	f.clock.Advance(time.Second)
	f.loop.Step(f.clock.Now())
	assert.Len(t, unlocked, 1)
}

func TestStep_AutosaveCadence(t *testing.T) {
	f := newFixture(t, nil)
	f.seedProduction()
	ctx := context.Background()

	f.clock.Advance(5 * time.Second)
	f.loop.Step(f.clock.Now())
	_, ok, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "no save before the autosave interval elapses")

	f.clock.Advance(5 * time.Second)
	f.loop.Step(f.clock.Now())
	snap, ok, err := f.store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Greater(t, snap.Balance, 0.0)

	saves, err := f.events.GetEvents(time.Time{}, []telemetry.EventType{telemetry.EventStateSaved})
	require.NoError(t, err)
	assert.Len(t, saves, 1)
}

func TestGolden_SpawnAndCollect(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.Tuning = config.Tuning{GoldenSpawnChance: 1}
	})

	snap := save.DefaultSnapshot()
	snap.Balance = 1000
	snap.LifetimeEarned = 1000
	f.engine.Restore(snap)

	assert.False(t, f.loop.GoldenActive())
	_, ok := f.loop.CollectGolden()
	assert.False(t, ok, "nothing to collect before a spawn")

	f.clock.Advance(100 * time.Millisecond)
	f.loop.Step(f.clock.Now())
	require.True(t, f.loop.GoldenActive())

	// floor(1000 * 0.1 + 0) = 100.
	bonus, ok := f.loop.CollectGolden()
	require.True(t, ok)
	assert.Equal(t, 100.0, bonus)
	assert.False(t, f.loop.GoldenActive())

	_, ok = f.loop.CollectGolden()
	assert.False(t, ok, "a golden cookie collects once")
}

func TestRun_FinalSaveOnCancel(t *testing.T) {
	f := newFixture(t, nil)
	f.engine.Click()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, f.loop.Run(ctx))

	snap, ok, err := f.store.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1.0, snap.Balance)
}

func TestReset_ClearsEngineAndStore(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.Tuning = config.Tuning{GoldenSpawnChance: 1}
	})
	f.engine.Click()
	ctx := context.Background()
	require.NoError(t, f.loop.SaveNow(ctx))

	f.clock.Advance(100 * time.Millisecond)
	f.loop.Step(f.clock.Now())
	require.True(t, f.loop.GoldenActive())

	require.NoError(t, f.loop.Reset(ctx))

	assert.Equal(t, 0.0, f.engine.Snapshot().Balance)
	assert.False(t, f.loop.GoldenActive())
	_, ok, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
