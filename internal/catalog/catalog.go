package catalog

import (
	"github.com/agnivade/levenshtein"
	"github.com/samber/lo"
)

// Catalog is the fixed, statically defined archetype set. Declaration
// order is preserved: milestone batches and shop listings report in it.
type Catalog struct {
	Buildings    []Building
	Upgrades     []Upgrade
	Achievements []Achievement

	buildingByID    map[string]Building
	upgradeByID     map[string]Upgrade
	achievementByID map[string]Achievement
}

// Standard returns the classic catalog.
func Standard() *Catalog {
	return New(standardBuildings(), standardUpgrades(), standardAchievements())
}

func New(buildings []Building, upgrades []Upgrade, achievements []Achievement) *Catalog {
	return &Catalog{
		Buildings:    buildings,
		Upgrades:     upgrades,
		Achievements: achievements,
		buildingByID: lo.Associate(buildings, func(b Building) (string, Building) {
			return b.ID, b
		}),
		upgradeByID: lo.Associate(upgrades, func(u Upgrade) (string, Upgrade) {
			return u.ID, u
		}),
		achievementByID: lo.Associate(achievements, func(a Achievement) (string, Achievement) {
			return a.ID, a
		}),
	}
}

func (c *Catalog) Building(id string) (Building, bool) {
	b, ok := c.buildingByID[id]
	return b, ok
}

func (c *Catalog) Upgrade(id string) (Upgrade, bool) {
	u, ok := c.upgradeByID[id]
	return u, ok
}

func (c *Catalog) Achievement(id string) (Achievement, bool) {
	a, ok := c.achievementByID[id]
	return a, ok
}

// NearestBuildingID suggests the closest known building id for a typo'd
// input, or "" when nothing is plausibly close.
func (c *Catalog) NearestBuildingID(id string) string {
	ids := lo.Map(c.Buildings, func(b Building, _ int) string { return b.ID })
	return nearest(id, ids)
}

// NearestUpgradeID is NearestBuildingID for upgrade ids.
func (c *Catalog) NearestUpgradeID(id string) string {
	ids := lo.Map(c.Upgrades, func(u Upgrade, _ int) string { return u.ID })
	return nearest(id, ids)
}

func nearest(input string, candidates []string) string {
	best := ""
	bestDist := -1
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(input, cand)
		if dist > len(cand)/2 {
			continue
		}
		if bestDist == -1 || dist < bestDist {
			best = cand
			bestDist = dist
		}
	}
	return best
}
