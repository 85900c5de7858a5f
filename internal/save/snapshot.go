package save

import "encoding/json"

// Snapshot is the persisted progression record. Timestamps are Unix
// milliseconds; the id sets are ordered lists on the wire and rebuilt as
// sets on restore.
type Snapshot struct {
	Balance             float64        `json:"balance"`
	LifetimeEarned      float64        `json:"lifetime_earned"`
	ManualClicks        int64          `json:"manual_clicks"`
	Owned               map[string]int `json:"owned"`
	Upgrades            []string       `json:"upgrades"`
	Achievements        []string       `json:"achievements"`
	ClickPower          float64        `json:"click_power"`
	BuildingBonusRate   float64        `json:"building_bonus_rate"`
	GrandmaSynergyBonus float64        `json:"grandma_synergy_bonus"`
	SteroidMultiplier   float64        `json:"steroid_multiplier"`
	SessionStartMillis  int64          `json:"session_start_ms"`
	LastAutoTickMillis  int64          `json:"last_auto_tick_ms"`
	LastSavedMillis     int64          `json:"last_saved_ms"`
}

// DefaultSnapshot returns the fresh-state record. Timestamp fields are
// zero; the engine substitutes "now" for non-positive timestamps when it
// restores.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Owned:             map[string]int{},
		Upgrades:          []string{},
		Achievements:      []string{},
		ClickPower:        1,
		SteroidMultiplier: 1,
	}
}

// DecodeSnapshot reconstructs a Snapshot with per-field defaulting: a
// missing or malformed field falls back to its default without aborting
// the rest of the load. The returned Snapshot is always usable; the error
// only reports that defaulting happened somewhere.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	snap := DefaultSnapshot()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return snap, err
	}

	var firstErr error
	field := func(key string, out any) {
		raw, ok := fields[key]
		if !ok {
			return
		}
		if err := json.Unmarshal(raw, out); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	field("balance", &snap.Balance)
	field("lifetime_earned", &snap.LifetimeEarned)
	field("manual_clicks", &snap.ManualClicks)
	field("click_power", &snap.ClickPower)
	field("building_bonus_rate", &snap.BuildingBonusRate)
	field("grandma_synergy_bonus", &snap.GrandmaSynergyBonus)
	field("steroid_multiplier", &snap.SteroidMultiplier)
	field("session_start_ms", &snap.SessionStartMillis)
	field("last_auto_tick_ms", &snap.LastAutoTickMillis)
	field("last_saved_ms", &snap.LastSavedMillis)

	var owned map[string]int
	field("owned", &owned)
	if owned != nil {
		snap.Owned = owned
	}
	var upgrades []string
	field("upgrades", &upgrades)
	if upgrades != nil {
		snap.Upgrades = upgrades
	}
	var achievements []string
	field("achievements", &achievements)
	if achievements != nil {
		snap.Achievements = achievements
	}

	// A malformed numeric field may have been half-applied before the
	// decode error; re-apply defaults for anything non-sensical.
	if snap.ClickPower <= 0 {
		snap.ClickPower = 1
	}
	if snap.SteroidMultiplier <= 0 {
		snap.SteroidMultiplier = 1
	}

	return snap, firstErr
}

// EncodeSnapshot serializes the record for the durable store.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	if snap.Owned == nil {
		snap.Owned = map[string]int{}
	}
	if snap.Upgrades == nil {
		snap.Upgrades = []string{}
	}
	if snap.Achievements == nil {
		snap.Achievements = []string{}
	}
	return json.MarshalIndent(snap, "", "  ")
}
