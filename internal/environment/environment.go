// Package environment holds the reference tables the movement pipeline reads:
// terrain, roads, weather and vessels.
package environment

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/NocTempre/acks-caravan/internal/errors"
)

type Layer string

const (
	LayerLand  Layer = "land"
	LayerWater Layer = "water"
)

// WeatherClear is the neutral weather used when none is selected.
const WeatherClear = "clear"

type TerrainDescriptor struct {
	Key                  string           `yaml:"key" json:"key"`
	Name                 string           `yaml:"name" json:"name"`
	Layer                Layer            `yaml:"layer" json:"layer"`
	MovementMultiplier   float64          `yaml:"movement_multiplier" json:"movement_multiplier"`
	NavigationDifficulty int              `yaml:"navigation_difficulty" json:"navigation_difficulty"`
	EncounterDistance    string           `yaml:"encounter_distance" json:"encounter_distance"`
	Evasion              []EvasionBracket `yaml:"evasion" json:"evasion"`
	Aliases              []string         `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// EvasionBracket applies to parties of up to MaxPartySize members. A zero
// MaxPartySize marks the open-ended last bracket.
type EvasionBracket struct {
	MaxPartySize int `yaml:"max_party_size" json:"max_party_size"`
	Difficulty   int `yaml:"difficulty" json:"difficulty"`
}

type RoadDescriptor struct {
	Key                string   `yaml:"key" json:"key"`
	Name               string   `yaml:"name" json:"name"`
	SpeedMultiplier    float64  `yaml:"speed_multiplier" json:"speed_multiplier"`
	DrivingMultiplier  float64  `yaml:"driving_multiplier" json:"driving_multiplier"`
	IneffectiveWeather []string `yaml:"ineffective_weather,omitempty" json:"ineffective_weather,omitempty"`
	Aliases            []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// DisabledBy reports whether the road bonus is lost in the given weather.
func (r RoadDescriptor) DisabledBy(weatherKey string) bool {
	weatherKey = normaliseKey(weatherKey)
	for _, w := range r.IneffectiveWeather {
		if normaliseKey(w) == weatherKey {
			return true
		}
	}
	return false
}

type WeatherDescriptor struct {
	Key                string   `yaml:"key" json:"key"`
	Name               string   `yaml:"name" json:"name"`
	MovementModifier   float64  `yaml:"movement_modifier" json:"movement_modifier"`
	NavigationModifier int      `yaml:"navigation_modifier" json:"navigation_modifier"`
	Aliases            []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// Multiplier is 1 + MovementModifier.
func (w WeatherDescriptor) Multiplier() float64 {
	return 1 + w.MovementModifier
}

type VesselDescriptor struct {
	Key             string   `yaml:"key" json:"key"`
	Name            string   `yaml:"name" json:"name"`
	Layer           Layer    `yaml:"layer" json:"layer"`
	ExpeditionSpeed float64  `yaml:"expedition_speed" json:"expedition_speed"`
	WeatherAffected bool     `yaml:"weather_affected" json:"weather_affected"`
	CargoCapacity   float64  `yaml:"cargo_capacity" json:"cargo_capacity"`
	Aliases         []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// Tables is the immutable EnvironmentModel. Build one with Builtin, Load or
// NewTables; lookups never mutate it.
type Tables struct {
	terrain map[string]TerrainDescriptor
	roads   map[string]RoadDescriptor
	weather map[string]WeatherDescriptor
	vessels map[string]VesselDescriptor

	terrainKeys *KeyIndex
	roadKeys    *KeyIndex
	weatherKeys *KeyIndex
	vesselKeys  *KeyIndex
}

func NewTables(terrain []TerrainDescriptor, roads []RoadDescriptor, weather []WeatherDescriptor, vessels []VesselDescriptor) (*Tables, error) {
	t := &Tables{
		terrain:     make(map[string]TerrainDescriptor, len(terrain)),
		roads:       make(map[string]RoadDescriptor, len(roads)),
		weather:     make(map[string]WeatherDescriptor, len(weather)),
		vessels:     make(map[string]VesselDescriptor, len(vessels)),
		terrainKeys: NewKeyIndex(),
		roadKeys:    NewKeyIndex(),
		weatherKeys: NewKeyIndex(),
		vesselKeys:  NewKeyIndex(),
	}
	for _, d := range terrain {
		d.Key = normaliseKey(d.Key)
		if d.Key == "" {
			return nil, apperrors.New(apperrors.CodeInvalidConfig, "terrain: empty key")
		}
		if d.MovementMultiplier <= 0 {
			return nil, apperrors.New(apperrors.CodeInvalidConfig, fmt.Sprintf("terrain %s: movement multiplier must be positive", d.Key))
		}
		if d.Layer == "" {
			d.Layer = LayerLand
		}
		sort.SliceStable(d.Evasion, func(i, j int) bool {
			return bracketBound(d.Evasion[i]) < bracketBound(d.Evasion[j])
		})
		t.terrain[d.Key] = d
		t.terrainKeys.Register(d.Key, d.Aliases...)
	}
	for _, d := range roads {
		d.Key = normaliseKey(d.Key)
		if d.Key == "" {
			return nil, apperrors.New(apperrors.CodeInvalidConfig, "road: empty key")
		}
		if d.SpeedMultiplier <= 0 {
			return nil, apperrors.New(apperrors.CodeInvalidConfig, fmt.Sprintf("road %s: speed multiplier must be positive", d.Key))
		}
		if d.DrivingMultiplier <= 0 {
			d.DrivingMultiplier = d.SpeedMultiplier
		}
		t.roads[d.Key] = d
		t.roadKeys.Register(d.Key, d.Aliases...)
	}
	for _, d := range weather {
		d.Key = normaliseKey(d.Key)
		if d.Key == "" {
			return nil, apperrors.New(apperrors.CodeInvalidConfig, "weather: empty key")
		}
		t.weather[d.Key] = d
		t.weatherKeys.Register(d.Key, d.Aliases...)
	}
	if _, ok := t.weather[WeatherClear]; !ok {
		t.weather[WeatherClear] = WeatherDescriptor{Key: WeatherClear, Name: "Clear"}
		t.weatherKeys.Register(WeatherClear)
	}
	for _, d := range vessels {
		d.Key = normaliseKey(d.Key)
		if d.Key == "" {
			return nil, apperrors.New(apperrors.CodeInvalidConfig, "vessel: empty key")
		}
		if d.ExpeditionSpeed <= 0 {
			return nil, apperrors.New(apperrors.CodeInvalidConfig, fmt.Sprintf("vessel %s: expedition speed must be positive", d.Key))
		}
		if d.Layer == "" {
			d.Layer = LayerWater
		}
		t.vessels[d.Key] = d
		t.vesselKeys.Register(d.Key, d.Aliases...)
	}
	return t, nil
}

func bracketBound(b EvasionBracket) int {
	if b.MaxPartySize <= 0 {
		return int(^uint(0) >> 1)
	}
	return b.MaxPartySize
}

func (t *Tables) Terrain(key string) (TerrainDescriptor, error) {
	canonical, err := resolveKey(t.terrainKeys, "terrain", key)
	if err != nil {
		return TerrainDescriptor{}, err
	}
	return t.terrain[canonical], nil
}

func (t *Tables) Road(key string) (RoadDescriptor, error) {
	canonical, err := resolveKey(t.roadKeys, "road", key)
	if err != nil {
		return RoadDescriptor{}, err
	}
	return t.roads[canonical], nil
}

// Weather resolves a weather key; an empty key selects clear weather.
func (t *Tables) Weather(key string) (WeatherDescriptor, error) {
	if strings.TrimSpace(key) == "" {
		key = WeatherClear
	}
	canonical, err := resolveKey(t.weatherKeys, "weather", key)
	if err != nil {
		return WeatherDescriptor{}, err
	}
	return t.weather[canonical], nil
}

func (t *Tables) Vessel(key string) (VesselDescriptor, error) {
	canonical, err := resolveKey(t.vesselKeys, "vessel", key)
	if err != nil {
		return VesselDescriptor{}, err
	}
	return t.vessels[canonical], nil
}

func (t *Tables) TerrainList() []TerrainDescriptor {
	return sortedValues(t.terrain)
}

func (t *Tables) RoadList() []RoadDescriptor {
	return sortedValues(t.roads)
}

func (t *Tables) WeatherList() []WeatherDescriptor {
	return sortedValues(t.weather)
}

func (t *Tables) VesselList() []VesselDescriptor {
	return sortedValues(t.vessels)
}

func sortedValues[T any](m map[string]T) []T {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

// EvasionDifficulty returns the evasion throw for a party of the given size.
func (d TerrainDescriptor) EvasionDifficulty(partySize int) (int, bool) {
	for _, b := range d.Evasion {
		if b.MaxPartySize <= 0 || partySize <= b.MaxPartySize {
			return b.Difficulty, true
		}
	}
	return 0, false
}

func resolveKey(idx *KeyIndex, kind, key string) (string, error) {
	if canonical, ok := idx.Resolve(key); ok {
		return canonical, nil
	}
	meta := map[string]string{"kind": kind, "key": key}
	msg := fmt.Sprintf("unknown %s key %q", kind, key)
	if suggestions := idx.Suggest(key); len(suggestions) > 0 {
		meta["suggestion"] = suggestions[0]
		msg += fmt.Sprintf(" (did you mean %q?)", suggestions[0])
	}
	return "", apperrors.WithMetadata(apperrors.CodeUnknownConfigurationKey, msg, meta)
}
