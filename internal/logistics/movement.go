package logistics

import (
	"context"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/NocTempre/acks-caravan/internal/environment"
)

// MovementOptions override the party's stored travel context for a single
// computation. Empty fields fall back to the party.
type MovementOptions struct {
	TerrainKey string
	RoadKey    string
	WeatherKey string
	VesselKey  string
	// Driving forces the driving road multiplier even when no member has
	// the driving skill.
	Driving     bool
	HexDistance float64
}

type BaseSource string

const (
	BaseNone    BaseSource = "none"
	BaseMembers BaseSource = "members"
	BaseVehicle BaseSource = "vehicle"
	BaseVessel  BaseSource = "vessel"
)

type MovementResult struct {
	TerrainKey string `json:"terrain"`
	RoadKey    string `json:"road,omitempty"`
	WeatherKey string `json:"weather"`
	VesselKey  string `json:"vessel,omitempty"`

	BaseRate          float64    `json:"base_rate"`
	BaseSource        BaseSource `json:"base_source"`
	TerrainMultiplier float64    `json:"terrain_multiplier"`
	RoadMultiplier    float64    `json:"road_multiplier"`
	WeatherMultiplier float64    `json:"weather_multiplier"`
	FinalMultiplier   float64    `json:"final_multiplier"`
	// RoadSuppressed is set when the weather cancelled the road bonus.
	RoadSuppressed bool `json:"road_suppressed"`
	// Floored is set when the combined multiplier hit the minimum.
	Floored bool `json:"floored"`
	Driving bool `json:"driving"`

	FinalDailyRate  float64 `json:"final_daily_rate"`
	FinalHourlyRate float64 `json:"final_hourly_rate"`
	HoursPerHex     float64 `json:"hours_per_hex,omitempty"`
	HasHexTime      bool    `json:"has_hex_time"`
	Moving          bool    `json:"moving"`
	VesselApplied   bool    `json:"vessel_applied"`
}

// ComputeMovement runs the party through base rate, terrain, road and
// weather, with an optional vessel overlay.
func (w *World) ComputeMovement(_ context.Context, partyID PartyID, opts MovementOptions) (MovementResult, error) {
	w.mu.Lock()
	p, ok := w.parties[partyID]
	if !ok {
		w.mu.Unlock()
		return MovementResult{}, notFound("party", string(partyID))
	}
	terrainKey := firstNonEmpty(opts.TerrainKey, p.TerrainKey)
	roadKey := firstNonEmpty(opts.RoadKey, p.RoadKey)
	weatherKey := firstNonEmpty(opts.WeatherKey, p.WeatherKey)
	vesselKey := opts.VesselKey
	if vesselKey == "" {
		vesselKey = w.activeVesselLocked(p)
	}
	base, source := w.baseRateLocked(p)
	driving := opts.Driving || w.partyHasSkillLocked(p, w.weights.Tunables.DrivingSkill)
	w.mu.Unlock()

	terrain, err := w.tables.Terrain(terrainKey)
	if err != nil {
		return MovementResult{}, err
	}
	var road *environment.RoadDescriptor
	if roadKey != "" {
		r, err := w.tables.Road(roadKey)
		if err != nil {
			return MovementResult{}, err
		}
		road = &r
	}
	weather, err := w.tables.Weather(weatherKey)
	if err != nil {
		return MovementResult{}, err
	}

	res := MovementResult{
		TerrainKey:        terrain.Key,
		WeatherKey:        weather.Key,
		BaseRate:          base,
		BaseSource:        source,
		TerrainMultiplier: terrain.MovementMultiplier,
		RoadMultiplier:    1,
		WeatherMultiplier: weather.Multiplier(),
	}
	if road != nil {
		res.RoadKey = road.Key
		res.Driving = driving
		if driving {
			res.RoadMultiplier = road.DrivingMultiplier
		} else {
			res.RoadMultiplier = road.SpeedMultiplier
		}
		if road.DisabledBy(weather.Key) {
			res.RoadMultiplier = 1
			res.RoadSuppressed = true
		}
	}

	if vesselKey != "" {
		vessel, err := w.tables.Vessel(vesselKey)
		if err != nil {
			return MovementResult{}, err
		}
		res.VesselKey = vessel.Key
		if vessel.Layer == terrain.Layer {
			res.VesselApplied = true
			res.BaseRate = vessel.ExpeditionSpeed
			res.BaseSource = BaseVessel
			res.RoadMultiplier = 1
			res.RoadSuppressed = false
			res.Driving = false
			if !vessel.WeatherAffected {
				res.WeatherMultiplier = 1
			}
		}
	}

	final := res.TerrainMultiplier * res.RoadMultiplier * res.WeatherMultiplier
	if minimum := w.weights.Tunables.MinMultiplier; final < minimum {
		final = minimum
		res.Floored = true
	}
	res.FinalMultiplier = final
	// The epsilon keeps products like 24 × 1.5 × 2/3 from flooring to 23.
	res.FinalDailyRate = math.Floor(res.BaseRate*final + 1e-9)
	res.FinalHourlyRate = res.FinalDailyRate / w.weights.Tunables.HoursPerDay
	res.Moving = res.FinalHourlyRate > 0
	if opts.HexDistance > 0 && res.Moving {
		res.HoursPerHex = opts.HexDistance / res.FinalHourlyRate
		res.HasHexTime = true
	}
	return res, nil
}

func (w *World) baseRateLocked(p *TravelParty) (float64, BaseSource) {
	best, found := 0.0, false
	for _, vid := range p.VehicleIDs {
		v := w.vehicles[vid]
		if v == nil || !v.InUse || v.Kind != VehicleLand {
			continue
		}
		speed := w.vehicleStateLocked(p, v).Speed
		if !found || speed < best {
			best, found = speed, true
		}
	}
	if found {
		return best, BaseVehicle
	}
	for _, m := range p.Members {
		c := w.carriers[m]
		if c == nil {
			continue
		}
		rate := w.weights.EncumbranceRate(*c, w.loadLocked(c))
		if !found || rate < best {
			best, found = rate, true
		}
	}
	if found {
		return best, BaseMembers
	}
	return 0, BaseNone
}

func (w *World) activeVesselLocked(p *TravelParty) string {
	for _, vid := range p.VehicleIDs {
		if v := w.vehicles[vid]; v != nil && v.InUse && v.Kind == VehicleVessel && v.VesselKey != "" {
			return v.VesselKey
		}
	}
	return ""
}

func (w *World) partyHasSkillLocked(p *TravelParty, skill string) bool {
	for _, m := range p.Members {
		if c := w.carriers[m]; c != nil && c.HasSkill(skill) {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// TravelCheck holds the per-day wilderness rolls a party's terrain calls for.
type TravelCheck struct {
	TerrainKey           string `json:"terrain"`
	WeatherKey           string `json:"weather"`
	NavigationDifficulty int    `json:"navigation_difficulty"`
	PartySize            int    `json:"party_size"`
	EvasionDifficulty    int    `json:"evasion_difficulty"`
	HasEvasion           bool   `json:"has_evasion"`
	EncounterDice        string `json:"encounter_dice,omitempty"`
	EncounterDistance    int    `json:"encounter_distance"`
}

// TravelChecks derives navigation and evasion difficulty for the party's
// current terrain and rolls encounter distance. A nil rng is seeded from
// the World clock.
func (w *World) TravelChecks(_ context.Context, partyID PartyID, rng *rand.Rand) (TravelCheck, error) {
	w.mu.Lock()
	p, ok := w.parties[partyID]
	if !ok {
		w.mu.Unlock()
		return TravelCheck{}, notFound("party", string(partyID))
	}
	terrainKey, weatherKey, size := p.TerrainKey, p.WeatherKey, len(p.Members)
	w.mu.Unlock()

	terrain, err := w.tables.Terrain(terrainKey)
	if err != nil {
		return TravelCheck{}, err
	}
	weather, err := w.tables.Weather(weatherKey)
	if err != nil {
		return TravelCheck{}, err
	}
	check := TravelCheck{
		TerrainKey:           terrain.Key,
		WeatherKey:           weather.Key,
		NavigationDifficulty: terrain.NavigationDifficulty + weather.NavigationModifier,
		PartySize:            size,
	}
	check.EvasionDifficulty, check.HasEvasion = terrain.EvasionDifficulty(size)
	if terrain.EncounterDistance != "" {
		dice, err := environment.ParseDice(terrain.EncounterDistance)
		if err != nil {
			return TravelCheck{}, err
		}
		if rng == nil {
			rng = environment.SeededRNG(w.now().UnixNano())
		}
		check.EncounterDice = dice.String()
		check.EncounterDistance = dice.Roll(rng)
	}
	return check, nil
}
