package logistics

import (
	"slices"
	"strings"
	"time"
)

type (
	CarrierID string
	ItemID    string
	PartyID   string
	VehicleID string
)

type CarrierKind string

const (
	KindCharacter CarrierKind = "character"
	KindCreature  CarrierKind = "creature"
	KindMount     CarrierKind = "mount"
	KindDraft     CarrierKind = "draft"
)

// Carrier is anyone who can hold items: characters, hirelings, beasts.
type Carrier struct {
	ID       CarrierID   `json:"id" yaml:"id"`
	Name     string      `json:"name" yaml:"name"`
	Kind     CarrierKind `json:"kind" yaml:"kind"`
	Strength int         `json:"strength,omitempty" yaml:"strength,omitempty"`
	// NormalLoad is the load a creature carries (or pulls) without slowing.
	NormalLoad float64 `json:"normal_load,omitempty" yaml:"normal_load,omitempty"`
	// MaxLoad overrides the strength-derived carry limit for creatures.
	MaxLoad    float64  `json:"max_load,omitempty" yaml:"max_load,omitempty"`
	BodyWeight float64  `json:"body_weight,omitempty" yaml:"body_weight,omitempty"`
	DailyRate  float64  `json:"daily_rate,omitempty" yaml:"daily_rate,omitempty"`
	Skills     []string `json:"skills,omitempty" yaml:"skills,omitempty"`

	// Derived and ledger state, maintained by World.
	Encumbrance float64      `json:"encumbrance" yaml:"-"`
	ItemIDs     []ItemID     `json:"item_ids,omitempty" yaml:"-"`
	Delegations []Delegation `json:"delegations,omitempty" yaml:"-"`
}

func (c Carrier) HasSkill(skill string) bool {
	skill = strings.ToLower(strings.TrimSpace(skill))
	if skill == "" {
		return false
	}
	for _, s := range c.Skills {
		if strings.ToLower(strings.TrimSpace(s)) == skill {
			return true
		}
	}
	return false
}

// MountCapable reports whether the carrier can bear a mount-only container.
func (c Carrier) MountCapable() bool {
	switch c.Kind {
	case KindMount, KindDraft:
		return true
	default:
		return false
	}
}

// CanDraw reports whether the carrier can be harnessed to a vehicle.
func (c Carrier) CanDraw() bool {
	switch c.Kind {
	case KindDraft, KindMount:
		return c.NormalLoad > 0
	default:
		return false
	}
}

func (c Carrier) clone() Carrier {
	out := c
	out.Skills = slices.Clone(c.Skills)
	out.ItemIDs = slices.Clone(c.ItemIDs)
	out.Delegations = slices.Clone(c.Delegations)
	return out
}

// Delegation records an item the carrier lent out and who holds it now.
type Delegation struct {
	ItemID    ItemID    `json:"item_id"`
	CarrierID CarrierID `json:"carrier_id"`
	Weight    float64   `json:"weight"`
}

type ItemType string

const (
	ItemGear      ItemType = "gear"
	ItemTreasure  ItemType = "treasure"
	ItemMoney     ItemType = "money"
	ItemContainer ItemType = "container"
	ItemSpell     ItemType = "spell"
	ItemAbility   ItemType = "ability"
	ItemLanguage  ItemType = "language"
)

// Transferable reports whether items of this type may change hands.
// Money moves through coin accounting, not the ledger.
func (t ItemType) Transferable() bool {
	switch t {
	case ItemSpell, ItemAbility, ItemLanguage, ItemMoney:
		return false
	default:
		return true
	}
}

// Physical reports whether the item has a body that can be stowed.
func (t ItemType) Physical() bool {
	switch t {
	case ItemSpell, ItemAbility, ItemLanguage:
		return false
	default:
		return true
	}
}

type Restriction string

const (
	RestrictAlways     Restriction = "always"
	RestrictSameParty  Restriction = "same-party"
	RestrictSameHex    Restriction = "same-hex"
	RestrictSameScene  Restriction = "same-scene"
	RestrictGMApproval Restriction = "gm-approval"
)

// Ownership is present only on items that have been lent.
type Ownership struct {
	OriginalOwnerID  CarrierID   `json:"original_owner_id"`
	CurrentCarrierID CarrierID   `json:"current_carrier_id"`
	IsLent           bool        `json:"is_lent"`
	Restriction      Restriction `json:"retrieval_restriction"`
	TransferredAt    time.Time   `json:"transferred_at"`
}

type Item struct {
	ID       ItemID   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Type     ItemType `json:"type" yaml:"type"`
	Weight   float64  `json:"weight" yaml:"weight"` // Per-unit, in stone.
	Quantity int      `json:"quantity" yaml:"quantity"`

	// Container fields; zero unless Type is ItemContainer.
	CapacityStone   float64         `json:"capacity_stone,omitempty" yaml:"capacity_stone,omitempty"`
	ReductionFactor float64         `json:"reduction_factor,omitempty" yaml:"reduction_factor,omitempty"`
	RequiresMount   bool            `json:"requires_mount,omitempty" yaml:"requires_mount,omitempty"`
	Contents        []ContainedItem `json:"contents,omitempty" yaml:"-"`
	ContentsWeight  float64         `json:"contents_weight,omitempty" yaml:"-"`

	Ownership   *Ownership `json:"ownership,omitempty" yaml:"-"`
	ContainedIn ItemID     `json:"contained_in,omitempty" yaml:"-"`
	CarrierID   CarrierID  `json:"carrier_id,omitempty" yaml:"-"`
	VehicleID   VehicleID  `json:"vehicle_id,omitempty" yaml:"-"`
}

func (i Item) IsContainer() bool {
	return i.Type == ItemContainer
}

func (i Item) IsLent() bool {
	return i.Ownership != nil && i.Ownership.IsLent
}

func (i Item) clone() Item {
	out := i
	out.Contents = slices.Clone(i.Contents)
	if i.Ownership != nil {
		own := *i.Ownership
		out.Ownership = &own
	}
	return out
}

// ContainedItem is a container's record of one stowed item.
type ContainedItem struct {
	ItemID ItemID   `json:"item_id"`
	Weight float64  `json:"weight"`
	Name   string   `json:"name"`
	Type   ItemType `json:"type"`
}

type VehicleKind string

const (
	VehicleLand   VehicleKind = "land"
	VehicleVessel VehicleKind = "vessel"
)

// DraftRequirement bounds the animals harnessed to a vehicle. Zero maxima
// are unbounded.
type DraftRequirement struct {
	MinCount int     `json:"min_count" yaml:"min_count"`
	MaxCount int     `json:"max_count" yaml:"max_count"`
	MinLoad  float64 `json:"min_load" yaml:"min_load"`
	MaxLoad  float64 `json:"max_load" yaml:"max_load"`
}

func (d DraftRequirement) needsAnimals() bool {
	return d.MinCount > 0 || d.MinLoad > 0
}

type Vehicle struct {
	ID                  VehicleID        `json:"id" yaml:"id"`
	Name                string           `json:"name" yaml:"name"`
	Kind                VehicleKind      `json:"kind" yaml:"kind"`
	VesselKey           string           `json:"vessel_key,omitempty" yaml:"vessel_key,omitempty"`
	CrewRequired        int              `json:"crew_required" yaml:"crew_required"`
	PassengerCapacity   int              `json:"passenger_capacity" yaml:"passenger_capacity"`
	Draft               DraftRequirement `json:"draft" yaml:"draft"`
	CargoNormalCapacity float64          `json:"cargo_normal_capacity" yaml:"cargo_normal_capacity"`
	NormalSpeed         float64          `json:"normal_speed" yaml:"normal_speed"`
	CargoHeavyCapacity  float64          `json:"cargo_heavy_capacity" yaml:"cargo_heavy_capacity"`
	HeavySpeed          float64          `json:"heavy_speed" yaml:"heavy_speed"`
	InUse               bool             `json:"in_use" yaml:"in_use"`

	// Slots hold party member indexes.
	Crew       []int    `json:"crew,omitempty" yaml:"-"`
	Passengers []int    `json:"passengers,omitempty" yaml:"-"`
	Animals    []int    `json:"animals,omitempty" yaml:"-"`
	CargoIDs   []ItemID `json:"cargo_ids,omitempty" yaml:"-"`
	PartyID    PartyID  `json:"party_id,omitempty" yaml:"-"`
}

func (v Vehicle) clone() Vehicle {
	out := v
	out.Crew = slices.Clone(v.Crew)
	out.Passengers = slices.Clone(v.Passengers)
	out.Animals = slices.Clone(v.Animals)
	out.CargoIDs = slices.Clone(v.CargoIDs)
	return out
}

type SlotRole string

const (
	SlotCrew      SlotRole = "crew"
	SlotPassenger SlotRole = "passenger"
	SlotAnimal    SlotRole = "animal"
)

func (v *Vehicle) slots(role SlotRole) *[]int {
	switch role {
	case SlotCrew:
		return &v.Crew
	case SlotPassenger:
		return &v.Passengers
	case SlotAnimal:
		return &v.Animals
	default:
		return nil
	}
}

func (v Vehicle) slotCapacity(role SlotRole) (int, bool) {
	switch role {
	case SlotCrew:
		return v.CrewRequired, true
	case SlotPassenger:
		return v.PassengerCapacity, true
	case SlotAnimal:
		if v.Draft.MaxCount > 0 {
			return v.Draft.MaxCount, true
		}
		if v.Kind == VehicleVessel || !v.Draft.needsAnimals() {
			return 0, true
		}
		// Unbounded team.
		return 0, false
	default:
		return 0, true
	}
}

// TravelParty is an ordered multiset of members plus its travel context.
// The same carrier may appear more than once to stand for identical troops.
type TravelParty struct {
	ID         PartyID     `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Members    []CarrierID `json:"members" yaml:"members"`
	TerrainKey string      `json:"terrain" yaml:"terrain"`
	RoadKey    string      `json:"road,omitempty" yaml:"road,omitempty"`
	WeatherKey string      `json:"weather,omitempty" yaml:"weather,omitempty"`
	VehicleIDs []VehicleID `json:"vehicle_ids,omitempty" yaml:"-"`
}

func (p TravelParty) clone() TravelParty {
	out := p
	out.Members = slices.Clone(p.Members)
	out.VehicleIDs = slices.Clone(p.VehicleIDs)
	return out
}

func (p TravelParty) hasMember(id CarrierID) bool {
	return slices.Contains(p.Members, id)
}
