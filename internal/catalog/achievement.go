package catalog

// Achievement is an immutable milestone archetype. Unlocking is one-time
// and irreversible; the engine owns the unlocked set.
type Achievement struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Icon        string      `json:"icon"`
	Description string      `json:"description"`
	Requires    Requirement `json:"-"`
}

func standardAchievements() []Achievement {
	return []Achievement{
		{
			ID:          "making-some-dough",
			Name:        "Making some dough",
			Icon:        "🍪",
			Description: "Bake 1 cookie.",
			Requires:    TotalCurrency{Amount: 1},
		},
		{
			ID:          "making-more-dough",
			Name:        "Making more dough",
			Icon:        "🍪",
			Description: "Bake 1,000 cookies.",
			Requires:    TotalCurrency{Amount: 1000},
		},
		{
			ID:          "making-lots-of-dough",
			Name:        "Making lots of dough",
			Icon:        "🍪",
			Description: "Bake 1,000,000 cookies.",
			Requires:    TotalCurrency{Amount: 1000000},
		},
		{
			ID:          "making-tons-of-dough",
			Name:        "Making tons of dough",
			Icon:        "🍪",
			Description: "Bake 1,000,000,000 cookies.",
			Requires:    TotalCurrency{Amount: 1000000000},
		},
		{
			ID:          "clicking-frenzy",
			Name:        "Clicking frenzy",
			Icon:        "👆",
			Description: "Click 1,000 times.",
			Requires:    ClickCount{Amount: 1000},
		},
		{
			ID:          "clicking-madness",
			Name:        "Clicking madness",
			Icon:        "👆",
			Description: "Click 10,000 times.",
			Requires:    ClickCount{Amount: 10000},
		},
		{
			ID:          "speed-baking",
			Name:        "Speed baking",
			Icon:        "⚡",
			Description: "Bake 1,000,000 cookies in 25 minutes.",
			Requires:    SpeedRun{Amount: 1000000, Minutes: 25},
		},
		{
			ID:          "hardcore",
			Name:        "Hardcore",
			Icon:        "💪",
			Description: "Bake 1,000,000,000 cookies with no upgrades.",
			Requires:    NoUpgrades{Amount: 1000000000},
		},
	}
}
