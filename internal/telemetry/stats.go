package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period              string            `json:"period"`
	EventCounts         map[EventType]int `json:"event_counts"`
	BuildingsPurchased  int               `json:"buildings_purchased"`
	UpgradesPurchased   int               `json:"upgrades_purchased"`
	AchievementsEarned  int               `json:"achievements_earned"`
	GoldenCollected     int               `json:"golden_collected"`
	ClampCount          int               `json:"clamp_count"`
	Saves               int               `json:"saves"`
	PurchasesByBuilding map[string]int    `json:"purchases_by_building"`
}

// CalculateStats computes balance stats from events. A non-zero
// clamp_count means the numeric underflow guard fired and the session
// deserves a closer look.
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:              since.Format("2006-01-02"),
		EventCounts:         make(map[EventType]int),
		PurchasesByBuilding: make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventBuildingPurchased:
			stats.BuildingsPurchased++
			if id, ok := metadata["building_id"].(string); ok {
				stats.PurchasesByBuilding[id]++
			}
		case EventUpgradePurchased:
			stats.UpgradesPurchased++
		case EventAchievementUnlocked:
			stats.AchievementsEarned++
		case EventGoldenCollected:
			stats.GoldenCollected++
		case EventClampTriggered:
			stats.ClampCount++
		case EventStateSaved:
			stats.Saves++
		}
	}

	return stats, nil
}
