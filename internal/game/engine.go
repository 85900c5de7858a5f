package game

import (
	"math"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/James-JH/CookieClicker-Remake/internal/catalog"
	"github.com/James-JH/CookieClicker-Remake/internal/config"
	"github.com/James-JH/CookieClicker-Remake/internal/save"
	"github.com/James-JH/CookieClicker-Remake/internal/telemetry"
)

// Engine owns the mutable progression state. Operations are synchronous
// and run to completion; the single mutex exists because the HTTP layer
// and the driving loop both call in.
type Engine struct {
	cat    *catalog.Catalog
	tuning config.Tuning
	clock  Clock
	logger *zap.Logger
	events telemetry.Repository

	mu sync.Mutex
	st state
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithTelemetry(r telemetry.Repository) Option {
	return func(e *Engine) { e.events = r }
}

func New(cat *catalog.Catalog, tuning config.Tuning, clock Clock, opts ...Option) *Engine {
	if clock == nil {
		clock = RealClock{}
	}
	tuning.ApplyDefaults()
	e := &Engine{
		cat:    cat,
		tuning: tuning,
		clock:  clock,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.st = freshState(cat, clock.Now())
	return e
}

func (e *Engine) record(t telemetry.EventType, md telemetry.EventMetadata) {
	if e.events == nil {
		return
	}
	_ = e.events.RecordEvent(t, md)
}

// AdvanceTime applies delta of elapsed play time: resolves pending
// auto-clicker batches, then accrues continuous production. The caller
// caps delta so a backgrounded session cannot claim a huge retroactive
// payout. Negative deltas are ignored.
func (e *Engine) AdvanceTime(delta time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if delta < 0 {
		return
	}

	e.resolveAutoTicksLocked(e.clock.Now())

	earned := e.rateLocked() * delta.Seconds()
	if earned > 0 {
		e.st.balance += earned
		e.st.lifetimeEarned += earned
	}

	e.clampLocked("advance_time")
}

// resolveAutoTicksLocked pays out whole auto-clicker intervals elapsed on
// the wall clock. The last-tick timestamp advances by whole intervals,
// not to now, so the fractional remainder keeps accruing.
func (e *Engine) resolveAutoTicksLocked(now time.Time) {
	count := e.st.owned[catalog.AutoClickerID]
	if count <= 0 {
		return
	}

	interval := e.tuning.AutoClickInterval()
	if interval <= 0 {
		return
	}

	elapsed := now.Sub(e.st.lastAutoTick)
	if elapsed < interval {
		return
	}

	ticks := int64(elapsed / interval)
	grant := float64(ticks) * float64(count) * e.st.clickPower

	e.st.balance += grant
	e.st.lifetimeEarned += grant
	// Auto-clicks count as clicks for achievement purposes.
	e.st.manualClicks += ticks * int64(count)
	e.st.lastAutoTick = e.st.lastAutoTick.Add(time.Duration(ticks) * interval)

	e.record(telemetry.EventAutoProducerTick, telemetry.EventMetadata{
		"ticks":   ticks,
		"granted": grant,
	})
}

// rateLocked is the aggregate production rate per second. The
// auto-clicker is excluded entirely; it produces through batches only.
func (e *Engine) rateLocked() float64 {
	rate := 0.0
	for _, b := range e.cat.Buildings {
		if b.ID == catalog.AutoClickerID {
			continue
		}
		r := float64(e.st.owned[b.ID]) * b.BaseRate * (1 + e.st.buildingBonusRate)
		if b.ID == catalog.CatalystConsumerID && e.st.owned[catalog.CatalystID] > 0 {
			r *= 1 + e.st.grandmaSynergyBonus
		}
		if b.ID == catalog.BoostID {
			r *= e.st.steroidMultiplier
		}
		rate += r
	}
	return rate
}

// clampLocked is the defensive floor for balance and lifetimeEarned. It
// should never fire; when it does, the session has a defect upstream and
// the clamp is logged and counted rather than trusted.
func (e *Engine) clampLocked(where string) {
	if e.st.balance < 0 {
		e.logger.Warn("negative balance clamped",
			zap.String("where", where),
			zap.Float64("balance", e.st.balance))
		e.st.balance = 0
		e.record(telemetry.EventClampTriggered, telemetry.EventMetadata{
			"field": "balance",
			"where": where,
		})
	}
	if e.st.lifetimeEarned < 0 {
		e.logger.Warn("negative lifetime earned clamped",
			zap.String("where", where),
			zap.Float64("lifetime_earned", e.st.lifetimeEarned))
		e.st.lifetimeEarned = 0
		e.record(telemetry.EventClampTriggered, telemetry.EventMetadata{
			"field": "lifetime_earned",
			"where": where,
		})
	}
}

// Click applies one manual click.
func (e *Engine) Click() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.st.balance += e.st.clickPower
	e.st.lifetimeEarned += e.st.clickPower
	e.st.manualClicks++
}

// BuildingCost is the current price of the next unit: geometric scaling
// over the owned count.
func (e *Engine) BuildingCost(id string) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buildingCostLocked(id)
}

func (e *Engine) buildingCostLocked(id string) (float64, bool) {
	b, ok := e.cat.Building(id)
	if !ok {
		return 0, false
	}
	return math.Floor(b.BaseCost * math.Pow(e.tuning.PriceGrowth, float64(e.st.owned[id]))), true
}

// PurchaseBuilding buys one unit of a building. Returns false with no
// state change when the id is unknown or the balance is short.
func (e *Engine) PurchaseBuilding(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	cost, ok := e.buildingCostLocked(id)
	if !ok {
		return false
	}
	if e.st.balance < cost {
		return false
	}

	e.st.balance -= cost
	e.st.owned[id]++

	e.record(telemetry.EventBuildingPurchased, telemetry.EventMetadata{
		"building_id": id,
		"cost":        cost,
		"owned":       e.st.owned[id],
	})
	return true
}

// PurchaseUpgrade buys a one-time upgrade and applies its effect exactly
// once. Returns false with no state change when the id is unknown,
// already purchased, unaffordable, or its requirement is unmet.
func (e *Engine) PurchaseUpgrade(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, ok := e.cat.Upgrade(id)
	if !ok {
		return false
	}
	if e.st.purchasedUpgrades[id] {
		return false
	}
	if e.st.balance < u.Cost {
		return false
	}
	if !u.Requires.Met(e.progressLocked(e.clock.Now())) {
		return false
	}

	e.st.balance -= u.Cost
	e.st.purchasedUpgrades[id] = true

	switch u.Effect {
	case catalog.EffectClickPower:
		e.st.clickPower *= u.Value
	case catalog.EffectBuildingBonus:
		e.st.buildingBonusRate += u.Value
	case catalog.EffectGrandmaSynergy:
		e.st.grandmaSynergyBonus += u.Value
	case catalog.EffectSteroidBoost:
		e.st.steroidMultiplier *= u.Value
	}

	e.record(telemetry.EventUpgradePurchased, telemetry.EventMetadata{
		"upgrade_id": id,
		"cost":       u.Cost,
	})
	return true
}

func (e *Engine) progressLocked(now time.Time) catalog.Progress {
	return catalog.Progress{
		LifetimeEarned: e.st.lifetimeEarned,
		ManualClicks:   e.st.manualClicks,
		OwnedTotal:     lo.Sum(lo.Values(e.st.owned)),
		OwnedOf:        func(id string) int { return e.st.owned[id] },
		UpgradesOwned:  len(e.st.purchasedUpgrades),
		SessionElapsed: now.Sub(e.st.sessionStart),
	}
}

// EvaluateMilestones checks every locked achievement against current
// progress and unlocks the newly satisfied ones. The returned batch is in
// catalog declaration order; an id appears at most once across the whole
// session.
func (e *Engine) EvaluateMilestones() []catalog.Achievement {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.progressLocked(e.clock.Now())

	var unlocked []catalog.Achievement
	for _, a := range e.cat.Achievements {
		if e.st.unlockedAchievements[a.ID] {
			continue
		}
		if !a.Requires.Met(p) {
			continue
		}
		e.st.unlockedAchievements[a.ID] = true
		unlocked = append(unlocked, a)
		e.record(telemetry.EventAchievementUnlocked, telemetry.EventMetadata{
			"achievement_id": a.ID,
		})
	}
	return unlocked
}

// RequirementMet reports whether an upgrade's requirement currently
// holds, so callers can distinguish "can't afford" from "not eligible".
func (e *Engine) RequirementMet(r catalog.Requirement) bool {
	if r == nil {
		return true
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return r.Met(e.progressLocked(e.clock.Now()))
}

// ComputeRate is the pure read of the aggregate production rate.
func (e *Engine) ComputeRate() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rateLocked()
}

// CollectGoldenBonus grants the golden cookie payout: a share of the
// current balance plus a few seconds of production.
func (e *Engine) CollectGoldenBonus() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	bonus := math.Floor(e.st.balance*e.tuning.GoldenBalanceShare + e.rateLocked()*e.tuning.GoldenRateSeconds)
	if bonus > 0 {
		e.st.balance += bonus
		e.st.lifetimeEarned += bonus
	}

	e.record(telemetry.EventGoldenCollected, telemetry.EventMetadata{
		"bonus": bonus,
	})
	return bonus
}

// Reset clears all progress back to fresh defaults. The caller is
// responsible for deleting the persisted snapshot.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.st = freshState(e.cat, e.clock.Now())
	e.record(telemetry.EventGameReset, nil)
}

// Snapshot is the read-only view for the presentation layer.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	owned := make(map[string]int, len(e.st.owned))
	for id, n := range e.st.owned {
		owned[id] = n
	}
	upgrades := make(map[string]bool, len(e.st.purchasedUpgrades))
	for id := range e.st.purchasedUpgrades {
		upgrades[id] = true
	}
	achievements := make(map[string]bool, len(e.st.unlockedAchievements))
	for id := range e.st.unlockedAchievements {
		achievements[id] = true
	}

	return Snapshot{
		Balance:             e.st.balance,
		LifetimeEarned:      e.st.lifetimeEarned,
		ManualClicks:        e.st.manualClicks,
		ClickPower:          e.st.clickPower,
		Rate:                e.rateLocked(),
		Owned:               owned,
		OwnedTotal:          lo.Sum(lo.Values(e.st.owned)),
		BuildingBonusRate:   e.st.buildingBonusRate,
		GrandmaSynergyBonus: e.st.grandmaSynergyBonus,
		SteroidMultiplier:   e.st.steroidMultiplier,
		Upgrades:            upgrades,
		Achievements:        achievements,
		SessionStart:        e.st.sessionStart,
	}
}

// Export serializes the full state for the persistence adapter and stamps
// the persist time. Id sets export as catalog-ordered lists.
func (e *Engine) Export() save.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	e.st.lastSaved = now

	owned := make(map[string]int, len(e.st.owned))
	for id, n := range e.st.owned {
		owned[id] = n
	}
	upgrades := make([]string, 0, len(e.st.purchasedUpgrades))
	for _, u := range e.cat.Upgrades {
		if e.st.purchasedUpgrades[u.ID] {
			upgrades = append(upgrades, u.ID)
		}
	}
	achievements := make([]string, 0, len(e.st.unlockedAchievements))
	for _, a := range e.cat.Achievements {
		if e.st.unlockedAchievements[a.ID] {
			achievements = append(achievements, a.ID)
		}
	}

	return save.Snapshot{
		Balance:             e.st.balance,
		LifetimeEarned:      e.st.lifetimeEarned,
		ManualClicks:        e.st.manualClicks,
		Owned:               owned,
		Upgrades:            upgrades,
		Achievements:        achievements,
		ClickPower:          e.st.clickPower,
		BuildingBonusRate:   e.st.buildingBonusRate,
		GrandmaSynergyBonus: e.st.grandmaSynergyBonus,
		SteroidMultiplier:   e.st.steroidMultiplier,
		SessionStartMillis:  e.st.sessionStart.UnixMilli(),
		LastAutoTickMillis:  e.st.lastAutoTick.UnixMilli(),
		LastSavedMillis:     now.UnixMilli(),
	}
}

// Restore hydrates the engine from a persisted snapshot. Unknown building
// ids are dropped; missing catalog buildings default to zero; non-positive
// timestamps default to now.
func (e *Engine) Restore(snap save.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	st := freshState(e.cat, now)

	st.balance = snap.Balance
	st.lifetimeEarned = snap.LifetimeEarned
	st.manualClicks = snap.ManualClicks
	for id, n := range snap.Owned {
		if _, ok := e.cat.Building(id); ok && n > 0 {
			st.owned[id] = n
		}
	}
	for _, id := range snap.Upgrades {
		if _, ok := e.cat.Upgrade(id); ok {
			st.purchasedUpgrades[id] = true
		}
	}
	for _, id := range snap.Achievements {
		if _, ok := e.cat.Achievement(id); ok {
			st.unlockedAchievements[id] = true
		}
	}
	st.clickPower = snap.ClickPower
	st.buildingBonusRate = snap.BuildingBonusRate
	st.grandmaSynergyBonus = snap.GrandmaSynergyBonus
	st.steroidMultiplier = snap.SteroidMultiplier
	if st.clickPower <= 0 {
		st.clickPower = 1
	}
	if st.steroidMultiplier <= 0 {
		st.steroidMultiplier = 1
	}
	if snap.SessionStartMillis > 0 {
		st.sessionStart = time.UnixMilli(snap.SessionStartMillis)
	}
	if snap.LastAutoTickMillis > 0 {
		st.lastAutoTick = time.UnixMilli(snap.LastAutoTickMillis)
	}
	if snap.LastSavedMillis > 0 {
		st.lastSaved = time.UnixMilli(snap.LastSavedMillis)
	}

	e.st = st
	e.clampLocked("restore")
}
