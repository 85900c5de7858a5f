package catalog

// EffectKind tags what an upgrade permanently changes in the production
// formulas.
type EffectKind string

const (
	// EffectClickPower multiplies click power by Value.
	EffectClickPower EffectKind = "click_power"
	// EffectBuildingBonus adds Value to the additive all-building rate bonus.
	EffectBuildingBonus EffectKind = "building_bonus"
	// EffectGrandmaSynergy adds Value to the grandma synergy bonus.
	EffectGrandmaSynergy EffectKind = "grandma_synergy"
	// EffectSteroidBoost multiplies the steroid multiplier by Value.
	EffectSteroidBoost EffectKind = "steroid_boost"
)

// Upgrade is an immutable one-time purchasable modifier archetype.
type Upgrade struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Icon        string      `json:"icon"`
	Cost        float64     `json:"cost"`
	Description string      `json:"description"`
	Effect      EffectKind  `json:"effect"`
	Value       float64     `json:"value"`
	Requires    Requirement `json:"-"`
}

func standardUpgrades() []Upgrade {
	return []Upgrade{
		{
			ID:          "reinforced-index",
			Name:        "Reinforced Index",
			Icon:        "👆",
			Cost:        100,
			Description: "Your mouse pointer is twice as efficient.",
			Effect:      EffectClickPower,
			Value:       2,
			Requires:    TotalCurrency{Amount: 100},
		},
		{
			ID:          "carpal-tunnel-prevention",
			Name:        "Carpal Tunnel Prevention Cream",
			Icon:        "🧴",
			Cost:        500,
			Description: "Your mouse pointer is twice as efficient.",
			Effect:      EffectClickPower,
			Value:       2,
			Requires:    TotalCurrency{Amount: 500},
		},
		{
			ID:          "ambidextrous",
			Name:        "Ambidextrous",
			Icon:        "🤲",
			Cost:        10000,
			Description: "Your mouse pointer is twice as efficient.",
			Effect:      EffectClickPower,
			Value:       2,
			Requires:    TotalCurrency{Amount: 10000},
		},
		{
			ID:          "thousand-fingers",
			Name:        "Thousand fingers",
			Icon:        "👐",
			Cost:        100000,
			Description: "Each non-cursor building produces 0.1 more cookies.",
			Effect:      EffectBuildingBonus,
			Value:       0.1,
			Requires:    OwnedCount{Amount: 10},
		},
		{
			ID:          "million-fingers",
			Name:        "Million fingers",
			Icon:        "👐",
			Cost:        10000000,
			Description: "Each non-cursor building produces 0.5 more cookies.",
			Effect:      EffectBuildingBonus,
			Value:       0.5,
			Requires:    OwnedCount{Amount: 25},
		},
		{
			ID:          "grandma-steroids",
			Name:        "Grandma Steroids",
			Icon:        "👵💉",
			Cost:        50000,
			Description: "Grandmas work 50% more efficiently when you have steroids.",
			Effect:      EffectGrandmaSynergy,
			Value:       0.5,
			Requires:    OwnedCount{Amount: 5, BuildingID: "steroids"},
		},
		{
			ID:          "advanced-steroids",
			Name:        "Advanced Steroids",
			Icon:        "💉💪",
			Cost:        500000,
			Description: "Steroids provide 2x more cookies per second.",
			Effect:      EffectSteroidBoost,
			Value:       2,
			Requires:    OwnedCount{Amount: 10, BuildingID: "steroids"},
		},
	}
}
