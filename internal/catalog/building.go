package catalog

// Building is an immutable building archetype. BaseRate is production per
// second per owned unit; the auto-clicker's BaseRate is advisory only (it
// produces through batched ticks, never through the continuous rate).
type Building struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	BaseCost    float64 `json:"base_cost"`
	BaseRate    float64 `json:"base_rate"`
	Description string  `json:"description"`
}

// Designated special-case building ids. The auto-clicker fires discrete
// batched ticks instead of contributing to the continuous rate; the
// catalyst consumer gets the synergy bonus while at least one catalyst is
// owned; the boost building's own rate is scaled by the steroid
// multiplier.
const (
	AutoClickerID      = "cursor"
	CatalystConsumerID = "grandma"
	CatalystID         = "steroids"
	BoostID            = "steroids"
)

func standardBuildings() []Building {
	return []Building{
		{
			ID:          "cursor",
			Name:        "Cursor",
			Icon:        "🖱️",
			BaseCost:    15,
			BaseRate:    0.1,
			Description: "Autoclicks once every few seconds.",
		},
		{
			ID:          "grandma",
			Name:        "Grandma",
			Icon:        "👵",
			BaseCost:    100,
			BaseRate:    1,
			Description: "A nice grandma to bake more cookies.",
		},
		{
			ID:          "farm",
			Name:        "Farm",
			Icon:        "🚜",
			BaseCost:    1100,
			BaseRate:    8,
			Description: "Grows cookie plants.",
		},
		{
			ID:          "steroids",
			Name:        "Steroids",
			Icon:        "💉",
			BaseCost:    5000,
			BaseRate:    20,
			Description: "Gives grandmas super strength!",
		},
		{
			ID:          "factory",
			Name:        "Factory",
			Icon:        "🏭",
			BaseCost:    12000,
			BaseRate:    47,
			Description: "Produces cookies by the dozen.",
		},
		{
			ID:          "mine",
			Name:        "Mine",
			Icon:        "⛏️",
			BaseCost:    130000,
			BaseRate:    260,
			Description: "Mines out cookie dough and chocolate chips.",
		},
		{
			ID:          "shipment",
			Name:        "Shipment",
			Icon:        "🚢",
			BaseCost:    1400000,
			BaseRate:    1400,
			Description: "Brings in fresh cookies from the cookie planet.",
		},
		{
			ID:          "lab",
			Name:        "Alchemy Lab",
			Icon:        "🧪",
			BaseCost:    20000000,
			BaseRate:    10000,
			Description: "Turns gold into cookies!",
		},
		{
			ID:          "portal",
			Name:        "Portal",
			Icon:        "🌀",
			BaseCost:    330000000,
			BaseRate:    65000,
			Description: "Opens a door to the Cookieverse.",
		},
	}
}
