package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/NocTempre/acks-caravan/internal/logistics"
)

// planFile is the on-disk description of a travelling party.
type planFile struct {
	Carriers []plannedCarrier `yaml:"carriers"`
	Party    plannedParty     `yaml:"party"`
	Loans    []plannedLoan    `yaml:"loans"`
}

type plannedLoan struct {
	Item        logistics.ItemID      `yaml:"item"`
	From        logistics.CarrierID   `yaml:"from"`
	To          logistics.CarrierID   `yaml:"to"`
	Restriction logistics.Restriction `yaml:"restriction"`
}

type plannedCarrier struct {
	logistics.Carrier `yaml:",inline"`
	Items             []plannedItem `yaml:"items"`
}

type plannedItem struct {
	logistics.Item `yaml:",inline"`
	// In names a container, by item id, the item is stowed in.
	In string `yaml:"in,omitempty"`
}

type plannedParty struct {
	logistics.TravelParty `yaml:",inline"`
	Vehicles              []plannedVehicle `yaml:"vehicles"`
}

type plannedVehicle struct {
	logistics.Vehicle `yaml:",inline"`
	Crew              []int          `yaml:"crew"`
	Passengers        []int          `yaml:"passengers"`
	Animals           []int          `yaml:"animals"`
	Cargo             []plannedCargo `yaml:"cargo"`
}

type plannedCargo struct {
	Carrier logistics.CarrierID `yaml:"carrier"`
	Item    logistics.ItemID    `yaml:"item"`
}

func readPlan(path string) (planFile, error) {
	var plan planFile
	raw, err := os.ReadFile(path)
	if err != nil {
		return plan, err
	}
	if err := yaml.Unmarshal(raw, &plan); err != nil {
		return plan, fmt.Errorf("plan yaml: %w", err)
	}
	if plan.Party.ID == "" {
		return plan, fmt.Errorf("plan %s: party id is required", path)
	}
	return plan, nil
}

// apply builds the plan into w. Loans run before vehicles are loaded, so a
// lent item can't be put in a hold.
func (plan planFile) apply(ctx context.Context, w *logistics.World) error {
	for _, pc := range plan.Carriers {
		if err := w.AddCarrier(pc.Carrier); err != nil {
			return err
		}
		ids := make([]logistics.ItemID, len(pc.Items))
		for i, pi := range pc.Items {
			given, err := w.GiveItem(pc.ID, pi.Item)
			if err != nil {
				return fmt.Errorf("carrier %s: %w", pc.ID, err)
			}
			ids[i] = given.ID
		}
		for i, pi := range pc.Items {
			if pi.In == "" {
				continue
			}
			if err := w.AddToContainer(ctx, ids[i], logistics.ItemID(pi.In), pc.ID); err != nil {
				return fmt.Errorf("carrier %s: %w", pc.ID, err)
			}
		}
	}

	party := plan.Party.TravelParty
	if err := w.AddParty(party); err != nil {
		return err
	}
	if err := w.SetTravelContext(party.ID, party.TerrainKey, party.RoadKey, party.WeatherKey); err != nil {
		return err
	}

	for _, l := range plan.Loans {
		if _, err := w.Transfer(ctx, logistics.TransferRequest{ItemID: l.Item, From: l.From, To: l.To, Restriction: l.Restriction}); err != nil {
			return err
		}
	}

	for _, pv := range plan.Party.Vehicles {
		if err := w.AddVehicle(party.ID, pv.Vehicle); err != nil {
			return err
		}
		seat := func(role logistics.SlotRole, members []int) error {
			for _, idx := range members {
				if err := w.AssignVehicleSlot(ctx, party.ID, pv.ID, role, idx); err != nil {
					return err
				}
			}
			return nil
		}
		if err := seat(logistics.SlotCrew, pv.Crew); err != nil {
			return err
		}
		if err := seat(logistics.SlotPassenger, pv.Passengers); err != nil {
			return err
		}
		if err := seat(logistics.SlotAnimal, pv.Animals); err != nil {
			return err
		}
		for _, c := range pv.Cargo {
			if err := w.AddVehicleCargo(ctx, party.ID, pv.ID, c.Item, c.Carrier); err != nil {
				return err
			}
		}
		if err := w.SetVehicleInUse(pv.ID, pv.InUse); err != nil {
			return err
		}
	}
	return nil
}
