package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_RecordAndFilter(t *testing.T) {
	repo := NewMemoryRepository()

	require.NoError(t, repo.RecordEvent(EventBuildingPurchased, EventMetadata{"building_id": "cursor"}))
	require.NoError(t, repo.RecordEvent(EventStateSaved, nil))
	require.NoError(t, repo.RecordEvent(EventBuildingPurchased, EventMetadata{"building_id": "grandma"}))

	all, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, 3, all[2].ID)

	purchases, err := repo.GetEvents(time.Time{}, []EventType{EventBuildingPurchased})
	require.NoError(t, err)
	assert.Len(t, purchases, 2)

	require.NoError(t, repo.Clear())
	all, err = repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCalculateStats(t *testing.T) {
	repo := NewMemoryRepository()

	require.NoError(t, repo.RecordEvent(EventBuildingPurchased, EventMetadata{"building_id": "cursor", "cost": 15.0}))
	require.NoError(t, repo.RecordEvent(EventBuildingPurchased, EventMetadata{"building_id": "cursor", "cost": 17.0}))
	require.NoError(t, repo.RecordEvent(EventBuildingPurchased, EventMetadata{"building_id": "grandma", "cost": 100.0}))
	require.NoError(t, repo.RecordEvent(EventUpgradePurchased, EventMetadata{"upgrade_id": "reinforced-index"}))
	require.NoError(t, repo.RecordEvent(EventAchievementUnlocked, EventMetadata{"achievement_id": "making-some-dough"}))
	require.NoError(t, repo.RecordEvent(EventGoldenCollected, EventMetadata{"bonus": 200.0}))
	require.NoError(t, repo.RecordEvent(EventClampTriggered, EventMetadata{"field": "balance", "where": "restore"}))
	require.NoError(t, repo.RecordEvent(EventStateSaved, nil))
	require.NoError(t, repo.RecordEvent(EventStateSaved, nil))

	events, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)

	stats, err := CalculateStats(events, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "2026-08-01", stats.Period)
	assert.Equal(t, 3, stats.BuildingsPurchased)
	assert.Equal(t, 1, stats.UpgradesPurchased)
	assert.Equal(t, 1, stats.AchievementsEarned)
	assert.Equal(t, 1, stats.GoldenCollected)
	assert.Equal(t, 1, stats.ClampCount)
	assert.Equal(t, 2, stats.Saves)
	assert.Equal(t, map[string]int{"cursor": 2, "grandma": 1}, stats.PurchasesByBuilding)
	assert.Equal(t, 3, stats.EventCounts[EventBuildingPurchased])
}

func TestCalculateStats_Empty(t *testing.T) {
	stats, err := CalculateStats(nil, time.Time{})
	require.NoError(t, err)
	assert.Zero(t, stats.BuildingsPurchased)
	assert.Empty(t, stats.PurchasesByBuilding)
}
