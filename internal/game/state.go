package game

import (
	"time"

	"github.com/James-JH/CookieClicker-Remake/internal/catalog"
)

// state is the mutable progression core. It is owned exclusively by the
// Engine and mutated only under its lock.
type state struct {
	balance        float64
	lifetimeEarned float64
	manualClicks   int64

	owned                map[string]int
	purchasedUpgrades    map[string]bool
	unlockedAchievements map[string]bool

	clickPower          float64
	buildingBonusRate   float64
	grandmaSynergyBonus float64
	steroidMultiplier   float64

	sessionStart time.Time
	lastAutoTick time.Time
	lastSaved    time.Time
}

func freshState(cat *catalog.Catalog, now time.Time) state {
	owned := make(map[string]int, len(cat.Buildings))
	for _, b := range cat.Buildings {
		owned[b.ID] = 0
	}
	return state{
		owned:                owned,
		purchasedUpgrades:    map[string]bool{},
		unlockedAchievements: map[string]bool{},
		clickPower:           1,
		steroidMultiplier:    1,
		sessionStart:         now,
		lastAutoTick:         now,
		lastSaved:            now,
	}
}

// Snapshot is the read-only view handed to the presentation layer.
type Snapshot struct {
	Balance             float64
	LifetimeEarned      float64
	ManualClicks        int64
	ClickPower          float64
	Rate                float64
	Owned               map[string]int
	OwnedTotal          int
	BuildingBonusRate   float64
	GrandmaSynergyBonus float64
	SteroidMultiplier   float64
	Upgrades            map[string]bool
	Achievements        map[string]bool
	SessionStart        time.Time
}

// HasUpgrade reports purchased-upgrade membership.
func (s Snapshot) HasUpgrade(id string) bool { return s.Upgrades[id] }

// HasAchievement reports unlocked-achievement membership.
func (s Snapshot) HasAchievement(id string) bool { return s.Achievements[id] }
