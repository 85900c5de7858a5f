// Package httpapi exposes the engine's presentation contract as a JSON
// API: a read-only snapshot plus the mutating entry points.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/James-JH/CookieClicker-Remake/internal/catalog"
	"github.com/James-JH/CookieClicker-Remake/internal/format"
	"github.com/James-JH/CookieClicker-Remake/internal/game"
	"github.com/James-JH/CookieClicker-Remake/internal/loop"
	"github.com/James-JH/CookieClicker-Remake/internal/telemetry"
)

// Handler handles game API requests.
type Handler struct {
	engine *game.Engine
	loop   *loop.Loop
	cat    *catalog.Catalog
	events telemetry.Repository
	clock  game.Clock
}

func NewHandler(engine *game.Engine, lp *loop.Loop, cat *catalog.Catalog, events telemetry.Repository, clock game.Clock) *Handler {
	if clock == nil {
		clock = game.RealClock{}
	}
	return &Handler{
		engine: engine,
		loop:   lp,
		cat:    cat,
		events: events,
		clock:  clock,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(out)
}

type BuildingItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	Description string  `json:"description"`
	Owned       int     `json:"owned"`
	Cost        float64 `json:"cost"`
	CostDisplay string  `json:"cost_display"`
	BaseRate    float64 `json:"base_rate"`
}

type UpgradeItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Purchased   bool    `json:"purchased"`
	Eligible    bool    `json:"eligible"`
}

type StateResponse struct {
	Balance          float64        `json:"balance"`
	BalanceDisplay   string         `json:"balance_display"`
	LifetimeEarned   float64        `json:"lifetime_earned"`
	LifetimeDisplay  string         `json:"lifetime_display"`
	ManualClicks     int64          `json:"manual_clicks"`
	ClickPower       float64        `json:"click_power"`
	Rate             float64        `json:"rate"`
	RateDisplay      string         `json:"rate_display"`
	Owned            map[string]int `json:"owned"`
	OwnedTotal       int            `json:"owned_total"`
	Buildings        []BuildingItem `json:"buildings"`
	Upgrades         []UpgradeItem  `json:"upgrades"`
	AchievementCount int            `json:"achievement_count"`
	GoldenActive     bool           `json:"golden_active"`
}

// GET /api/game/state
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	snap := h.engine.Snapshot()

	buildings := make([]BuildingItem, 0, len(h.cat.Buildings))
	for _, b := range h.cat.Buildings {
		cost, _ := h.engine.BuildingCost(b.ID)
		buildings = append(buildings, BuildingItem{
			ID:          b.ID,
			Name:        b.Name,
			Icon:        b.Icon,
			Description: b.Description,
			Owned:       snap.Owned[b.ID],
			Cost:        cost,
			CostDisplay: format.Amount(cost),
			BaseRate:    b.BaseRate,
		})
	}

	upgrades := make([]UpgradeItem, 0, len(h.cat.Upgrades))
	for _, u := range h.cat.Upgrades {
		upgrades = append(upgrades, UpgradeItem{
			ID:          u.ID,
			Name:        u.Name,
			Icon:        u.Icon,
			Description: u.Description,
			Cost:        u.Cost,
			Purchased:   snap.HasUpgrade(u.ID),
			Eligible:    h.engine.RequirementMet(u.Requires),
		})
	}

	writeJSON(w, http.StatusOK, StateResponse{
		Balance:          snap.Balance,
		BalanceDisplay:   format.Amount(snap.Balance),
		LifetimeEarned:   snap.LifetimeEarned,
		LifetimeDisplay:  format.Amount(snap.LifetimeEarned),
		ManualClicks:     snap.ManualClicks,
		ClickPower:       snap.ClickPower,
		Rate:             snap.Rate,
		RateDisplay:      format.Amount(snap.Rate),
		Owned:            snap.Owned,
		OwnedTotal:       snap.OwnedTotal,
		Buildings:        buildings,
		Upgrades:         upgrades,
		AchievementCount: len(snap.Achievements),
		GoldenActive:     h.loop.GoldenActive(),
	})
}

type ClickResponse struct {
	Balance        float64 `json:"balance"`
	LifetimeEarned float64 `json:"lifetime_earned"`
	ManualClicks   int64   `json:"manual_clicks"`
	ClickPower     float64 `json:"click_power"`
}

// POST /api/game/click
func (h *Handler) Click(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	h.engine.Click()
	snap := h.engine.Snapshot()
	writeJSON(w, http.StatusOK, ClickResponse{
		Balance:        snap.Balance,
		LifetimeEarned: snap.LifetimeEarned,
		ManualClicks:   snap.ManualClicks,
		ClickPower:     snap.ClickPower,
	})
}

type buyRequest struct {
	ID string `json:"id"`
}

type BuyBuildingResponse struct {
	ID       string  `json:"id"`
	Owned    int     `json:"owned"`
	NextCost float64 `json:"next_cost"`
	Balance  float64 `json:"balance"`
}

// POST /api/game/buildings/buy
func (h *Handler) BuyBuilding(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req buyRequest
	if err := decodeJSON(r, &req); err != nil || req.ID == "" {
		writeErr(w, http.StatusBadRequest, "body must be {\"id\": \"...\"}")
		return
	}

	if _, ok := h.cat.Building(req.ID); !ok {
		msg := fmt.Sprintf("unknown building: %s", req.ID)
		if near := h.cat.NearestBuildingID(req.ID); near != "" {
			msg = fmt.Sprintf("%s (did you mean %q?)", msg, near)
		}
		writeErr(w, http.StatusNotFound, msg)
		return
	}

	if !h.engine.PurchaseBuilding(req.ID) {
		cost, _ := h.engine.BuildingCost(req.ID)
		writeErr(w, http.StatusConflict, fmt.Sprintf("insufficient cookies: need %s", format.Amount(cost)))
		return
	}

	snap := h.engine.Snapshot()
	nextCost, _ := h.engine.BuildingCost(req.ID)
	writeJSON(w, http.StatusOK, BuyBuildingResponse{
		ID:       req.ID,
		Owned:    snap.Owned[req.ID],
		NextCost: nextCost,
		Balance:  snap.Balance,
	})
}

type BuyUpgradeResponse struct {
	ID         string  `json:"id"`
	Balance    float64 `json:"balance"`
	ClickPower float64 `json:"click_power"`
	Rate       float64 `json:"rate"`
}

// POST /api/game/upgrades/buy
func (h *Handler) BuyUpgrade(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req buyRequest
	if err := decodeJSON(r, &req); err != nil || req.ID == "" {
		writeErr(w, http.StatusBadRequest, "body must be {\"id\": \"...\"}")
		return
	}

	u, ok := h.cat.Upgrade(req.ID)
	if !ok {
		msg := fmt.Sprintf("unknown upgrade: %s", req.ID)
		if near := h.cat.NearestUpgradeID(req.ID); near != "" {
			msg = fmt.Sprintf("%s (did you mean %q?)", msg, near)
		}
		writeErr(w, http.StatusNotFound, msg)
		return
	}

	if h.engine.PurchaseUpgrade(req.ID) {
		snap := h.engine.Snapshot()
		writeJSON(w, http.StatusOK, BuyUpgradeResponse{
			ID:         req.ID,
			Balance:    snap.Balance,
			ClickPower: snap.ClickPower,
			Rate:       snap.Rate,
		})
		return
	}

	// The engine reports a plain failure; shape the message here.
	snap := h.engine.Snapshot()
	switch {
	case snap.HasUpgrade(req.ID):
		writeErr(w, http.StatusConflict, "upgrade already purchased")
	case !h.engine.RequirementMet(u.Requires):
		writeErr(w, http.StatusConflict, fmt.Sprintf("requirement not met: %s", u.Requires.Describe()))
	default:
		writeErr(w, http.StatusConflict, fmt.Sprintf("insufficient cookies: need %s", format.Amount(u.Cost)))
	}
}

type GoldenResponse struct {
	Bonus   float64 `json:"bonus"`
	Balance float64 `json:"balance"`
}

// POST /api/game/golden/collect
func (h *Handler) CollectGolden(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	bonus, ok := h.loop.CollectGolden()
	if !ok {
		writeErr(w, http.StatusConflict, "no golden cookie active")
		return
	}

	snap := h.engine.Snapshot()
	writeJSON(w, http.StatusOK, GoldenResponse{Bonus: bonus, Balance: snap.Balance})
}

// POST /api/game/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := h.loop.Reset(r.Context()); err != nil {
		writeErr(w, http.StatusInternalServerError, fmt.Sprintf("reset saved but snapshot delete failed: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type AchievementItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Requirement string `json:"requirement"`
	Unlocked    bool   `json:"unlocked"`
}

type AchievementsResponse struct {
	Unlocked int               `json:"unlocked"`
	Total    int               `json:"total"`
	Items    []AchievementItem `json:"items"`
}

// GET /api/game/achievements
func (h *Handler) Achievements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	snap := h.engine.Snapshot()
	items := make([]AchievementItem, 0, len(h.cat.Achievements))
	for _, a := range h.cat.Achievements {
		items = append(items, AchievementItem{
			ID:          a.ID,
			Name:        a.Name,
			Icon:        a.Icon,
			Description: a.Description,
			Requirement: a.Requires.Describe(),
			Unlocked:    snap.HasAchievement(a.ID),
		})
	}

	writeJSON(w, http.StatusOK, AchievementsResponse{
		Unlocked: len(snap.Achievements),
		Total:    len(h.cat.Achievements),
		Items:    items,
	})
}

type StatsResponse struct {
	SessionTime        string          `json:"session_time"`
	LifetimeEarned     string          `json:"lifetime_earned"`
	LifetimeDisplay    string          `json:"lifetime_display"`
	ManualClicks       string          `json:"manual_clicks"`
	CookiesPerClick    float64         `json:"cookies_per_click"`
	Rate               float64         `json:"rate"`
	AchievementsEarned int             `json:"achievements_earned"`
	Telemetry          telemetry.Stats `json:"telemetry"`
}

// GET /api/game/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	snap := h.engine.Snapshot()
	sessionTime := h.clock.Now().Sub(snap.SessionStart)

	var stats telemetry.Stats
	if h.events != nil {
		events, err := h.events.GetEvents(time.Time{}, nil)
		if err == nil {
			stats, _ = telemetry.CalculateStats(events, snap.SessionStart)
		}
	}

	writeJSON(w, http.StatusOK, StatsResponse{
		SessionTime:        format.Duration(sessionTime),
		LifetimeEarned:     humanize.CommafWithDigits(snap.LifetimeEarned, 0),
		LifetimeDisplay:    format.Amount(snap.LifetimeEarned),
		ManualClicks:       humanize.Comma(snap.ManualClicks),
		CookiesPerClick:    snap.ClickPower,
		Rate:               snap.Rate,
		AchievementsEarned: len(snap.Achievements),
		Telemetry:          stats,
	})
}
