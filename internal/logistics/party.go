package logistics

import (
	"fmt"
	"slices"
	"strings"

	apperrors "github.com/NocTempre/acks-caravan/internal/errors"
)

// AddParty registers a party. Every member must already be a known carrier.
func (w *World) AddParty(p TravelParty) error {
	p.ID = PartyID(strings.TrimSpace(string(p.ID)))
	if p.ID == "" {
		return apperrors.New(apperrors.CodeInvalidConfig, "party id must not be empty")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.parties[p.ID]; exists {
		return apperrors.New(apperrors.CodeInvalidConfig, fmt.Sprintf("party %s already exists", p.ID))
	}
	for _, m := range p.Members {
		if _, ok := w.carriers[m]; !ok {
			return notFound("carrier", string(m))
		}
	}
	p.VehicleIDs = nil
	stored := p.clone()
	w.parties[p.ID] = &stored
	w.partyOrder = append(w.partyOrder, p.ID)
	return nil
}

func (w *World) Party(id PartyID) (TravelParty, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.parties[id]
	if !ok {
		return TravelParty{}, false
	}
	return p.clone(), true
}

// AddMember appends a carrier to the party and returns its member index.
func (w *World) AddMember(partyID PartyID, carrierID CarrierID) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.parties[partyID]
	if !ok {
		return 0, notFound("party", string(partyID))
	}
	if _, ok := w.carriers[carrierID]; !ok {
		return 0, notFound("carrier", string(carrierID))
	}
	p.Members = append(p.Members, carrierID)
	w.logf("party %s: %s joined as member %d", partyID, carrierID, len(p.Members)-1)
	return len(p.Members) - 1, nil
}

// RemoveMember drops the member at index. Any vehicle slot it held is
// vacated and later slot indexes shift down with the roster.
func (w *World) RemoveMember(partyID PartyID, index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.parties[partyID]
	if !ok {
		return notFound("party", string(partyID))
	}
	if index < 0 || index >= len(p.Members) {
		return apperrors.New(apperrors.CodeInvalidAssignment, fmt.Sprintf("member index %d out of range", index))
	}
	removed := p.Members[index]
	p.Members = slices.Delete(p.Members, index, index+1)
	shift := func(slots []int) []int {
		out := slots[:0]
		for _, s := range slots {
			switch {
			case s == index:
				continue
			case s > index:
				out = append(out, s-1)
			default:
				out = append(out, s)
			}
		}
		return out
	}
	for _, vid := range p.VehicleIDs {
		v := w.vehicles[vid]
		if v == nil {
			continue
		}
		v.Crew = shift(v.Crew)
		v.Passengers = shift(v.Passengers)
		v.Animals = shift(v.Animals)
	}
	w.logf("party %s: %s left (member %d)", partyID, removed, index)
	return nil
}

// SetTravelContext changes the party's terrain, road and weather. Keys are
// validated against the environment tables; an empty road means none and
// an empty weather means clear.
func (w *World) SetTravelContext(partyID PartyID, terrainKey, roadKey, weatherKey string) error {
	terrain, err := w.tables.Terrain(terrainKey)
	if err != nil {
		return err
	}
	roadCanonical := ""
	if strings.TrimSpace(roadKey) != "" {
		road, err := w.tables.Road(roadKey)
		if err != nil {
			return err
		}
		roadCanonical = road.Key
	}
	weather, err := w.tables.Weather(weatherKey)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.parties[partyID]
	if !ok {
		return notFound("party", string(partyID))
	}
	p.TerrainKey = terrain.Key
	p.RoadKey = roadCanonical
	p.WeatherKey = weather.Key
	return nil
}

// AddVehicle attaches a vehicle to a party with empty slots and hold.
func (w *World) AddVehicle(partyID PartyID, v Vehicle) error {
	v.ID = VehicleID(strings.TrimSpace(string(v.ID)))
	if v.ID == "" {
		return apperrors.New(apperrors.CodeInvalidConfig, "vehicle id must not be empty")
	}
	if v.Kind == "" {
		v.Kind = VehicleLand
	}
	// A vessel takes unset capacity and speed from its table entry; it has
	// no heavy tier of its own.
	if v.Kind == VehicleVessel && v.VesselKey != "" {
		vessel, err := w.tables.Vessel(v.VesselKey)
		if err != nil {
			return err
		}
		v.VesselKey = vessel.Key
		if v.CargoNormalCapacity == 0 {
			v.CargoNormalCapacity = vessel.CargoCapacity
		}
		if v.CargoHeavyCapacity == 0 {
			v.CargoHeavyCapacity = v.CargoNormalCapacity
		}
		if v.NormalSpeed == 0 {
			v.NormalSpeed = vessel.ExpeditionSpeed
		}
		if v.HeavySpeed == 0 {
			v.HeavySpeed = v.NormalSpeed
		}
	}
	if v.CargoHeavyCapacity < v.CargoNormalCapacity {
		return apperrors.New(apperrors.CodeInvalidConfig, fmt.Sprintf("vehicle %s: heavy capacity below normal capacity", v.ID))
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.parties[partyID]
	if !ok {
		return notFound("party", string(partyID))
	}
	if _, exists := w.vehicles[v.ID]; exists {
		return apperrors.New(apperrors.CodeInvalidConfig, fmt.Sprintf("vehicle %s already exists", v.ID))
	}
	v.Crew, v.Passengers, v.Animals, v.CargoIDs = nil, nil, nil, nil
	v.PartyID = partyID
	stored := v.clone()
	w.vehicles[v.ID] = &stored
	p.VehicleIDs = append(p.VehicleIDs, v.ID)
	return nil
}

func (w *World) Vehicle(id VehicleID) (Vehicle, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.vehicles[id]
	if !ok {
		return Vehicle{}, false
	}
	return v.clone(), true
}

// SetVehicleInUse marks whether the party is currently travelling with the
// vehicle. Only vehicles in use set the party's pace.
func (w *World) SetVehicleInUse(id VehicleID, inUse bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.vehicles[id]
	if !ok {
		return notFound("vehicle", string(id))
	}
	v.InUse = inUse
	return nil
}

func (w *World) partyVehicleLocked(partyID PartyID, vehicleID VehicleID) (*TravelParty, *Vehicle, error) {
	p, ok := w.parties[partyID]
	if !ok {
		return nil, nil, notFound("party", string(partyID))
	}
	v, ok := w.vehicles[vehicleID]
	if !ok || v.PartyID != partyID {
		return nil, nil, notFound("vehicle", string(vehicleID))
	}
	return p, v, nil
}
