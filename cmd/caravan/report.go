package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/NocTempre/acks-caravan/internal/logistics"
)

type report struct {
	Party       logistics.PartyID `json:"party"`
	TerrainName string            `json:"terrain_name"`
	HoursPerDay float64           `json:"hours_per_day"`
	CrewGearCap float64           `json:"crew_gear_cap"`

	Carriers []logistics.CarryStatus    `json:"carriers"`
	Vehicles []logistics.VehicleState   `json:"vehicles,omitempty"`
	Movement logistics.MovementResult   `json:"movement"`
	Checks   logistics.TravelCheck      `json:"checks"`
	Loans    []logistics.DelegationView `json:"loans,omitempty"`
}

func buildReport(ctx context.Context, w *logistics.World, partyID logistics.PartyID, opts logistics.MovementOptions, rng *rand.Rand) (report, error) {
	party, ok := w.Party(partyID)
	if !ok {
		return report{}, fmt.Errorf("party %s not found", partyID)
	}
	tunables := w.Weights().Tunables
	r := report{
		Party:       partyID,
		HoursPerDay: tunables.HoursPerDay,
		CrewGearCap: tunables.CrewGearCap,
	}

	seen := make(map[logistics.CarrierID]bool, len(party.Members))
	for _, id := range party.Members {
		if seen[id] {
			continue
		}
		seen[id] = true
		st, err := w.CarryStatus(id)
		if err != nil {
			return report{}, err
		}
		r.Carriers = append(r.Carriers, st)

		loans, err := w.Delegations(ctx, id)
		if err != nil {
			return report{}, err
		}
		r.Loans = append(r.Loans, loans...)
	}
	for _, vid := range party.VehicleIDs {
		st, err := w.ComputeVehicleState(ctx, partyID, vid)
		if err != nil {
			return report{}, err
		}
		r.Vehicles = append(r.Vehicles, st)
	}

	var err error
	if r.Movement, err = w.ComputeMovement(ctx, partyID, opts); err != nil {
		return report{}, err
	}
	if r.Checks, err = w.TravelChecks(ctx, partyID, rng); err != nil {
		return report{}, err
	}
	terrain, err := w.Tables().Terrain(r.Movement.TerrainKey)
	if err != nil {
		return report{}, err
	}
	r.TerrainName = terrain.Name
	return r, nil
}

func (r report) writeJSON(out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (r report) writeText(out io.Writer) error {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Party %s\n\n", r.Party))

	b.WriteString("Carriers:\n")
	for _, c := range r.Carriers {
		flag := ""
		if c.Overloaded {
			flag = "  OVERLOADED"
		}
		b.WriteString(fmt.Sprintf("  %-16s %6.2f / %5.2f st  %4.0f mi/day%s\n", c.CarrierID, c.Encumbrance, c.Limit, c.DailyRate, flag))
	}

	if len(r.Vehicles) > 0 {
		b.WriteString(fmt.Sprintf("\nVehicles (crew gear counted up to %g st):\n", r.CrewGearCap))
		for _, v := range r.Vehicles {
			tier := "normal"
			switch {
			case v.IsOverloaded:
				tier = "overloaded"
			case v.IsHeavy:
				tier = "heavy"
			}
			b.WriteString(fmt.Sprintf("  %-16s cargo %4.0f st (%s)  speed %g  team %d pulling %g",
				v.VehicleID, v.ActualCargoWeight, tier, v.Speed, v.AnimalCount, v.TotalPullingPower))
			var warn []string
			if !v.HasEnoughAnimals {
				warn = append(warn, "team too small")
			}
			if v.TooManyAnimals {
				warn = append(warn, "team too large")
			}
			if !v.CanPullLoad {
				warn = append(warn, "cannot pull load")
			}
			if len(warn) > 0 {
				b.WriteString("  [" + strings.Join(warn, "; ") + "]")
			}
			b.WriteString("\n")
		}
	}

	if len(r.Loans) > 0 {
		b.WriteString("\nLoans:\n")
		for _, l := range r.Loans {
			b.WriteString(fmt.Sprintf("  %-16s held by %s (%s, retrievable now: %s)\n", l.ItemName, l.CarrierID, l.Restriction, yesNo(l.CanRetrieveNow)))
		}
	}

	m := r.Movement
	b.WriteString("\nMovement:\n")
	b.WriteString(fmt.Sprintf("  terrain %s, road %s, weather %s\n", m.TerrainKey, orNone(m.RoadKey), m.WeatherKey))
	if m.VesselKey != "" {
		b.WriteString(fmt.Sprintf("  vessel %s applied: %s\n", m.VesselKey, yesNo(m.VesselApplied)))
	}
	b.WriteString(fmt.Sprintf("  base %g (%s) x terrain %.2f x road %.2f x weather %.2f = x%.2f\n",
		m.BaseRate, m.BaseSource, m.TerrainMultiplier, m.RoadMultiplier, m.WeatherMultiplier, m.FinalMultiplier))
	b.WriteString(fmt.Sprintf("  %g mi/day, %.2f mi/hour over %g hours\n", m.FinalDailyRate, m.FinalHourlyRate, r.HoursPerDay))
	if m.HasHexTime {
		b.WriteString(fmt.Sprintf("  %.1f hours per hex\n", m.HoursPerHex))
	} else if !m.Moving {
		b.WriteString("  the party cannot move\n")
	}

	c := r.Checks
	b.WriteString("\nChecks:\n")
	b.WriteString(fmt.Sprintf("  navigation %d+ (%s)\n", c.NavigationDifficulty, r.TerrainName))
	if c.HasEvasion {
		b.WriteString(fmt.Sprintf("  evasion %d+ (party of %d)\n", c.EvasionDifficulty, c.PartySize))
	}
	if c.EncounterDice != "" {
		b.WriteString(fmt.Sprintf("  encounter distance %d yards (%s)\n", c.EncounterDistance, c.EncounterDice))
	}

	_, err := io.WriteString(out, b.String())
	return err
}

func orNone(v string) string {
	if v == "" {
		return "none"
	}
	return v
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
