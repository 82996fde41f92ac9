// Package config holds the read-only tunables of the travel logistics core.
package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Tunables are the numeric knobs the weight, vehicle and movement
// calculations read. ApplyDefaults fills zero values, except CrewGearCap:
// a zero cap means crew gear counts for nothing.
type Tunables struct {
	HoursPerDay       float64 `yaml:"hours_per_day" env:"CARAVAN_HOURS_PER_DAY"`
	CrewGearCap       float64 `yaml:"crew_gear_cap" env:"CARAVAN_CREW_GEAR_CAP"`
	MinMultiplier     float64 `yaml:"min_multiplier" env:"CARAVAN_MIN_MULTIPLIER"`
	CoinsPerStone     int     `yaml:"coins_per_stone" env:"CARAVAN_COINS_PER_STONE"`
	SlotsPerStone     int     `yaml:"slots_per_stone" env:"CARAVAN_SLOTS_PER_STONE"`
	DefaultBodyWeight float64 `yaml:"default_body_weight" env:"CARAVAN_DEFAULT_BODY_WEIGHT"`
	BaseCarryLimit    float64 `yaml:"base_carry_limit" env:"CARAVAN_BASE_CARRY_LIMIT"`
	DrivingSkill      string  `yaml:"driving_skill" env:"CARAVAN_DRIVING_SKILL"`

	// EncumbranceBands map a carried load to an expedition rate. Loads
	// above the last band but within the carry limit move at LimitRate.
	EncumbranceBands []EncumbranceBand `yaml:"encumbrance_bands"`
	LimitRate        float64           `yaml:"limit_rate" env:"CARAVAN_LIMIT_RATE"`
}

type EncumbranceBand struct {
	MaxLoad   float64 `yaml:"max_load"`
	DailyRate float64 `yaml:"daily_rate"`
}

func Default() Tunables {
	t := Tunables{CrewGearCap: 2}
	t.ApplyDefaults()
	return t
}

// ApplyDefaults replaces unset (zero) fields. Negative values are left for
// Validate to reject.
func (t *Tunables) ApplyDefaults() {
	if t.HoursPerDay == 0 {
		t.HoursPerDay = 8
	}
	if t.MinMultiplier == 0 {
		t.MinMultiplier = 0.1
	}
	if t.CoinsPerStone == 0 {
		t.CoinsPerStone = 1000
	}
	if t.SlotsPerStone == 0 {
		t.SlotsPerStone = 6
	}
	if t.DefaultBodyWeight == 0 {
		t.DefaultBodyWeight = 10
	}
	if t.BaseCarryLimit == 0 {
		t.BaseCarryLimit = 20
	}
	if t.DrivingSkill == "" {
		t.DrivingSkill = "driving"
	}
	if len(t.EncumbranceBands) == 0 {
		t.EncumbranceBands = []EncumbranceBand{
			{MaxLoad: 5, DailyRate: 24},
			{MaxLoad: 7, DailyRate: 18},
			{MaxLoad: 10, DailyRate: 12},
		}
	}
	if t.LimitRate == 0 {
		t.LimitRate = 6
	}
	t.sortBands()
}

func (t *Tunables) sortBands() {
	sort.SliceStable(t.EncumbranceBands, func(i, j int) bool {
		return t.EncumbranceBands[i].MaxLoad < t.EncumbranceBands[j].MaxLoad
	})
}

func (t Tunables) Validate() error {
	if t.HoursPerDay <= 0 || t.HoursPerDay > 24 {
		return fmt.Errorf("hours_per_day must be in (0, 24], got %g", t.HoursPerDay)
	}
	if t.MinMultiplier <= 0 || t.MinMultiplier > 1 {
		return fmt.Errorf("min_multiplier must be in (0, 1], got %g", t.MinMultiplier)
	}
	if t.CrewGearCap < 0 {
		return fmt.Errorf("crew_gear_cap must not be negative, got %g", t.CrewGearCap)
	}
	if t.CoinsPerStone <= 0 || t.SlotsPerStone <= 0 {
		return fmt.Errorf("coins_per_stone and slots_per_stone must be positive")
	}
	if t.DefaultBodyWeight < 0 || t.BaseCarryLimit < 0 || t.LimitRate < 0 {
		return fmt.Errorf("default_body_weight, base_carry_limit and limit_rate must not be negative")
	}
	for i, band := range t.EncumbranceBands {
		if band.MaxLoad <= 0 || band.DailyRate < 0 {
			return fmt.Errorf("encumbrance band %d is invalid: max_load=%g daily_rate=%g", i, band.MaxLoad, band.DailyRate)
		}
	}
	return nil
}

// ParseEnv overlays CARAVAN_* environment variables onto t.
func ParseEnv(t *Tunables) error {
	if err := env.Parse(t); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load starts from Default, overlays a YAML file and then CARAVAN_*
// environment variables, and validates the result. Values set explicitly,
// zero included, are kept as given. An empty path skips the file.
func Load(path string) (Tunables, error) {
	t := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return t, err
		}
		if err := yaml.Unmarshal(raw, &t); err != nil {
			return t, fmt.Errorf("tunables yaml: %w", err)
		}
	}
	if err := ParseEnv(&t); err != nil {
		return t, err
	}
	t.sortBands()
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}
