package telemetry

import "time"

type EventType string

const (
	EventBuildingPurchased   EventType = "building_purchased"
	EventUpgradePurchased    EventType = "upgrade_purchased"
	EventAchievementUnlocked EventType = "achievement_unlocked"
	EventAutoProducerTick    EventType = "auto_producer_tick"
	EventGoldenCollected     EventType = "golden_collected"
	EventClampTriggered      EventType = "clamp_triggered"
	EventGameReset           EventType = "game_reset"
	EventStateSaved          EventType = "state_saved"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
