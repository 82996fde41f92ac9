package logistics

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"

	apperrors "github.com/NocTempre/acks-caravan/internal/errors"
)

// VehicleState is derived on demand from the vehicle's slots and hold. The
// draft flags are advisory.
type VehicleState struct {
	VehicleID         VehicleID `json:"vehicle_id"`
	ActualCargoWeight float64   `json:"actual_cargo_weight"`
	IsHeavy           bool      `json:"is_heavy"`
	IsOverloaded      bool      `json:"is_overloaded"`
	Speed             float64   `json:"speed"`
	TotalPullingPower float64   `json:"total_pulling_power"`
	AnimalCount       int       `json:"animal_count"`
	HasEnoughAnimals  bool      `json:"has_enough_animals"`
	TooManyAnimals    bool      `json:"too_many_animals"`
	CanPullLoad       bool      `json:"can_pull_load"`
}

func (w *World) ComputeVehicleState(_ context.Context, partyID PartyID, vehicleID VehicleID) (VehicleState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, v, err := w.partyVehicleLocked(partyID, vehicleID)
	if err != nil {
		return VehicleState{}, err
	}
	return w.vehicleStateLocked(p, v), nil
}

func (w *World) vehicleStateLocked(p *TravelParty, v *Vehicle) VehicleState {
	member := func(idx int) *Carrier {
		if idx < 0 || idx >= len(p.Members) {
			return nil
		}
		return w.carriers[p.Members[idx]]
	}

	cargo := 0.0
	for _, idx := range v.Passengers {
		if c := member(idx); c != nil {
			cargo += w.weights.bodyWeight(*c) + w.loadLocked(c)
		}
	}
	for _, idx := range v.Crew {
		if c := member(idx); c != nil {
			cargo += w.weights.bodyWeight(*c) + min(w.loadLocked(c), w.weights.Tunables.CrewGearCap)
		}
	}
	for _, id := range v.CargoIDs {
		if it, ok := w.items[id]; ok {
			cargo += w.weights.stowedWeight(*it)
		}
	}
	cargo = math.Round(cargo)

	st := VehicleState{
		VehicleID:         v.ID,
		ActualCargoWeight: cargo,
		IsHeavy:           cargo > v.CargoNormalCapacity,
		IsOverloaded:      cargo > v.CargoHeavyCapacity,
		Speed:             v.NormalSpeed,
	}
	if st.IsHeavy {
		st.Speed = v.HeavySpeed
	}

	for _, idx := range v.Animals {
		if c := member(idx); c != nil {
			st.AnimalCount++
			st.TotalPullingPower += c.NormalLoad
		}
	}
	if v.Kind == VehicleVessel || !v.Draft.needsAnimals() {
		st.HasEnoughAnimals = true
		st.CanPullLoad = true
	} else {
		st.HasEnoughAnimals = st.TotalPullingPower >= v.Draft.MinLoad && st.AnimalCount >= v.Draft.MinCount
		st.CanPullLoad = st.TotalPullingPower >= cargo
	}
	st.TooManyAnimals = (v.Draft.MaxCount > 0 && st.AnimalCount > v.Draft.MaxCount) ||
		(v.Draft.MaxLoad > 0 && st.TotalPullingPower > v.Draft.MaxLoad)
	return st
}

// AssignVehicleSlot seats a party member on a vehicle. A member index may
// occupy at most one slot across all of the party's vehicles.
func (w *World) AssignVehicleSlot(_ context.Context, partyID PartyID, vehicleID VehicleID, role SlotRole, memberIndex int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, v, err := w.partyVehicleLocked(partyID, vehicleID)
	if err != nil {
		return err
	}
	meta := map[string]string{
		"party":   string(partyID),
		"vehicle": string(vehicleID),
		"role":    string(role),
		"member":  strconv.Itoa(memberIndex),
	}
	slots := v.slots(role)
	if slots == nil {
		return apperrors.WithMetadata(apperrors.CodeInvalidAssignment, fmt.Sprintf("unknown slot role %q", role), meta)
	}
	if memberIndex < 0 || memberIndex >= len(p.Members) {
		return apperrors.WithMetadata(apperrors.CodeInvalidAssignment, fmt.Sprintf("member index %d out of range", memberIndex), meta)
	}
	for _, vid := range p.VehicleIDs {
		other := w.vehicles[vid]
		if other == nil {
			continue
		}
		for _, r := range []SlotRole{SlotCrew, SlotPassenger, SlotAnimal} {
			if slices.Contains(*other.slots(r), memberIndex) {
				return apperrors.WithMetadata(apperrors.CodeAlreadyAssigned,
					fmt.Sprintf("member %d already rides %s as %s", memberIndex, vid, r), meta)
			}
		}
	}
	if capacity, bounded := v.slotCapacity(role); bounded && len(*slots) >= capacity {
		return apperrors.WithMetadata(apperrors.CodeSlotCapacityExceeded,
			fmt.Sprintf("%s has no free %s slot (%d)", v.Name, role, capacity), meta)
	}
	if role == SlotAnimal {
		c := w.carriers[p.Members[memberIndex]]
		if c == nil || !c.CanDraw() {
			return apperrors.WithMetadata(apperrors.CodeInvalidAssignment,
				fmt.Sprintf("member %d cannot be harnessed", memberIndex), meta)
		}
	}
	*slots = append(*slots, memberIndex)
	w.logf("vehicle %s: member %d assigned as %s", vehicleID, memberIndex, role)
	return nil
}

func (w *World) UnassignVehicleSlot(_ context.Context, partyID PartyID, vehicleID VehicleID, role SlotRole, memberIndex int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, v, err := w.partyVehicleLocked(partyID, vehicleID)
	if err != nil {
		return err
	}
	slots := v.slots(role)
	if slots == nil {
		return apperrors.New(apperrors.CodeInvalidAssignment, fmt.Sprintf("unknown slot role %q", role))
	}
	idx := slices.Index(*slots, memberIndex)
	if idx < 0 {
		return apperrors.WithMetadata(apperrors.CodeNotAssigned,
			fmt.Sprintf("member %d is not a %s of %s", memberIndex, role, vehicleID),
			map[string]string{"vehicle": string(vehicleID), "role": string(role), "member": strconv.Itoa(memberIndex)})
	}
	*slots = slices.Delete(*slots, idx, idx+1)
	w.logf("vehicle %s: member %d released from %s", vehicleID, memberIndex, role)
	return nil
}

// AddVehicleCargo moves an item from a party member into the vehicle's
// hold. Held cargo counts toward the vehicle, not the carrier.
func (w *World) AddVehicleCargo(_ context.Context, partyID PartyID, vehicleID VehicleID, itemID ItemID, carrierID CarrierID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, v, err := w.partyVehicleLocked(partyID, vehicleID)
	if err != nil {
		return err
	}
	c, ok := w.carriers[carrierID]
	if !ok {
		return notFound("carrier", string(carrierID))
	}
	item, ok := w.items[itemID]
	if !ok {
		return notFound("item", string(itemID))
	}
	meta := map[string]string{"vehicle": string(vehicleID), "item": string(itemID), "carrier": string(carrierID)}
	invalid := func(msg string) error {
		return apperrors.WithMetadata(apperrors.CodeInvalidTransfer, msg, meta)
	}
	switch {
	case !p.hasMember(carrierID):
		return invalid(fmt.Sprintf("%s is not travelling with %s", carrierID, partyID))
	case item.CarrierID != carrierID:
		return invalid(fmt.Sprintf("item %s is not held by %s", itemID, carrierID))
	case !item.Type.Physical():
		return invalid(fmt.Sprintf("%s items cannot be loaded", item.Type))
	case item.IsLent():
		return invalid(fmt.Sprintf("item %s is on loan and must stay with its holder", itemID))
	case item.ContainedIn != "":
		return invalid(fmt.Sprintf("item %s is in container %s", itemID, item.ContainedIn))
	case item.IsContainer() && len(item.Contents) > 0:
		return invalid(fmt.Sprintf("container %s must be emptied before it is loaded", itemID))
	}

	w.removeHeldLocked(c, itemID)
	item.CarrierID = ""
	item.VehicleID = vehicleID
	v.CargoIDs = append(v.CargoIDs, itemID)
	w.recomputeLocked(carrierID)
	w.logf("vehicle %s: loaded %s from %s", vehicleID, itemID, carrierID)
	return nil
}

// RemoveVehicleCargo hands a cargo item to a party member.
func (w *World) RemoveVehicleCargo(_ context.Context, partyID PartyID, vehicleID VehicleID, itemID ItemID, carrierID CarrierID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, v, err := w.partyVehicleLocked(partyID, vehicleID)
	if err != nil {
		return err
	}
	c, ok := w.carriers[carrierID]
	if !ok {
		return notFound("carrier", string(carrierID))
	}
	meta := map[string]string{"vehicle": string(vehicleID), "item": string(itemID), "carrier": string(carrierID)}
	if !p.hasMember(carrierID) {
		return apperrors.WithMetadata(apperrors.CodeInvalidTransfer, fmt.Sprintf("%s is not travelling with %s", carrierID, partyID), meta)
	}
	idx := slices.Index(v.CargoIDs, itemID)
	if idx < 0 {
		return apperrors.WithMetadata(apperrors.CodeNotContained, fmt.Sprintf("%s is not in the hold of %s", itemID, vehicleID), meta)
	}
	item := w.items[itemID]
	v.CargoIDs = slices.Delete(v.CargoIDs, idx, idx+1)
	if item == nil {
		return nil
	}
	item.VehicleID = ""
	item.CarrierID = carrierID
	c.ItemIDs = append(c.ItemIDs, itemID)
	w.recomputeLocked(carrierID)
	w.logf("vehicle %s: unloaded %s to %s", vehicleID, itemID, carrierID)
	return nil
}
