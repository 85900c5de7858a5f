package catalog

import (
	"fmt"
	"time"
)

// Progress is the slice of engine state a requirement predicate may read.
// The engine assembles one per evaluation pass; predicates stay pure.
type Progress struct {
	LifetimeEarned float64
	ManualClicks   int64
	OwnedTotal     int
	OwnedOf        func(buildingID string) int
	UpgradesOwned  int
	SessionElapsed time.Duration
}

// Requirement is a predicate over player progress. One concrete type per
// kind; adding a kind without handling it anywhere is a compile error,
// not a silent default.
type Requirement interface {
	Met(p Progress) bool
	Describe() string
}

// TotalCurrency: cumulative lifetime currency >= Amount.
type TotalCurrency struct {
	Amount float64
}

func (r TotalCurrency) Met(p Progress) bool {
	return p.LifetimeEarned >= r.Amount
}

func (r TotalCurrency) Describe() string {
	return fmt.Sprintf("bake %.0f cookies", r.Amount)
}

// OwnedCount: total owned buildings (or one building when BuildingID is
// set) >= Amount.
type OwnedCount struct {
	Amount     int
	BuildingID string
}

func (r OwnedCount) Met(p Progress) bool {
	if r.BuildingID != "" {
		return p.OwnedOf(r.BuildingID) >= r.Amount
	}
	return p.OwnedTotal >= r.Amount
}

func (r OwnedCount) Describe() string {
	if r.BuildingID != "" {
		return fmt.Sprintf("own %d %s", r.Amount, r.BuildingID)
	}
	return fmt.Sprintf("own %d buildings", r.Amount)
}

// ClickCount: lifetime manual clicks >= Amount. Auto-clicker batches
// count as clicks.
type ClickCount struct {
	Amount int64
}

func (r ClickCount) Met(p Progress) bool {
	return p.ManualClicks >= r.Amount
}

func (r ClickCount) Describe() string {
	return fmt.Sprintf("click %d times", r.Amount)
}

// SpeedRun: lifetime currency >= Amount within Minutes of session start.
type SpeedRun struct {
	Amount  float64
	Minutes float64
}

func (r SpeedRun) Met(p Progress) bool {
	return p.LifetimeEarned >= r.Amount && p.SessionElapsed.Minutes() <= r.Minutes
}

func (r SpeedRun) Describe() string {
	return fmt.Sprintf("bake %.0f cookies in %.0f minutes", r.Amount, r.Minutes)
}

// NoUpgrades: lifetime currency >= Amount with zero upgrades ever bought.
type NoUpgrades struct {
	Amount float64
}

func (r NoUpgrades) Met(p Progress) bool {
	return p.LifetimeEarned >= r.Amount && p.UpgradesOwned == 0
}

func (r NoUpgrades) Describe() string {
	return fmt.Sprintf("bake %.0f cookies with no upgrades", r.Amount)
}
