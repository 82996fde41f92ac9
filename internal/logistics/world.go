// Package logistics tracks who carries what during overland travel: item
// weight and encumbrance, lending between carriers, containers, vehicles
// and their draft teams, and the daily movement rate of a party.
package logistics

import (
	"context"
	"fmt"
	"io"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/NocTempre/acks-caravan/internal/config"
	"github.com/NocTempre/acks-caravan/internal/environment"
	apperrors "github.com/NocTempre/acks-caravan/internal/errors"
)

// World owns the mutable domain objects. Every exported method is atomic
// with respect to the others; collaborators are always called without the
// lock held.
type World struct {
	mu sync.Mutex

	carriers map[CarrierID]*Carrier
	items    map[ItemID]*Item
	parties  map[PartyID]*TravelParty
	vehicles map[VehicleID]*Vehicle
	// partyOrder keeps party iteration deterministic.
	partyOrder []PartyID

	weights   WeightModel
	tables    *environment.Tables
	spatial   SpatialIndex
	directory PartyDirectory
	privilege Privilege
	now       func() time.Time
	newID     func() string
	logger    *log.Logger
}

type Option func(*World)

func WithTunables(t config.Tunables) Option {
	return func(w *World) { w.weights = NewWeightModel(t) }
}

func WithTables(t *environment.Tables) Option {
	return func(w *World) { w.tables = t }
}

func WithSpatialIndex(s SpatialIndex) Option {
	return func(w *World) { w.spatial = s }
}

// WithPartyDirectory replaces the World's own party rosters as the source
// of truth for same-party retrieval checks.
func WithPartyDirectory(d PartyDirectory) Option {
	return func(w *World) { w.directory = d }
}

func WithPrivilege(p Privilege) Option {
	return func(w *World) { w.privilege = p }
}

func WithClock(now func() time.Time) Option {
	return func(w *World) { w.now = now }
}

// WithIDGenerator sets how re-created items are named.
func WithIDGenerator(f func() string) Option {
	return func(w *World) { w.newID = f }
}

func WithLogger(l *log.Logger) Option {
	return func(w *World) { w.logger = l }
}

func NewWorld(opts ...Option) *World {
	w := &World{
		carriers:  make(map[CarrierID]*Carrier),
		items:     make(map[ItemID]*Item),
		parties:   make(map[PartyID]*TravelParty),
		vehicles:  make(map[VehicleID]*Vehicle),
		weights:   NewWeightModel(config.Default()),
		spatial:   noSpatial{},
		privilege: noPrivilege{},
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.tables == nil {
		w.tables = environment.Builtin()
	}
	if w.directory == nil {
		w.directory = w
	}
	return w
}

func (w *World) Weights() WeightModel {
	return w.weights
}

func (w *World) Tables() *environment.Tables {
	return w.tables
}

func notFound(kind, id string) error {
	return apperrors.WithMetadata(apperrors.CodeNotFound, fmt.Sprintf("%s %s not found", kind, id), map[string]string{kind: id})
}

func (w *World) AddCarrier(c Carrier) error {
	c.ID = CarrierID(strings.TrimSpace(string(c.ID)))
	if c.ID == "" {
		return apperrors.New(apperrors.CodeInvalidConfig, "carrier id must not be empty")
	}
	if c.Kind == "" {
		c.Kind = KindCharacter
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.carriers[c.ID]; exists {
		return apperrors.New(apperrors.CodeInvalidConfig, fmt.Sprintf("carrier %s already exists", c.ID))
	}
	c.ItemIDs = nil
	c.Delegations = nil
	c.Encumbrance = 0
	stored := c.clone()
	w.carriers[c.ID] = &stored
	return nil
}

func (w *World) Carrier(id CarrierID) (Carrier, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.carriers[id]
	if !ok {
		return Carrier{}, false
	}
	return c.clone(), true
}

// GiveItem places a new item in a carrier's inventory. A blank id is
// generated.
func (w *World) GiveItem(carrierID CarrierID, item Item) (Item, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.carriers[carrierID]
	if !ok {
		return Item{}, notFound("carrier", string(carrierID))
	}
	if item.ID == "" {
		item.ID = ItemID(w.newID())
	}
	if _, exists := w.items[item.ID]; exists {
		return Item{}, apperrors.New(apperrors.CodeInvalidConfig, fmt.Sprintf("item %s already exists", item.ID))
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if item.Type == "" {
		item.Type = ItemGear
	}
	item.ReductionFactor = clampFloat(item.ReductionFactor, 0, 1)
	item.Contents = nil
	item.ContentsWeight = 0
	item.ContainedIn = ""
	item.Ownership = nil
	item.CarrierID = carrierID
	item.VehicleID = ""
	stored := item.clone()
	w.items[item.ID] = &stored
	c.ItemIDs = append(c.ItemIDs, item.ID)
	w.recomputeLocked(carrierID)
	return stored.clone(), nil
}

func (w *World) Item(id ItemID) (Item, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	it, ok := w.items[id]
	if !ok {
		return Item{}, false
	}
	return it.clone(), true
}

// Inventory returns the items a carrier holds, in the order received.
func (w *World) Inventory(carrierID CarrierID) []Item {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.carriers[carrierID]
	if !ok {
		return nil
	}
	out := make([]Item, 0, len(c.ItemIDs))
	for _, id := range c.ItemIDs {
		if it, ok := w.items[id]; ok {
			out = append(out, it.clone())
		}
	}
	return out
}

// Recompute refreshes a carrier's cached encumbrance and returns it.
func (w *World) Recompute(carrierID CarrierID) (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.carriers[carrierID]; !ok {
		return 0, notFound("carrier", string(carrierID))
	}
	return w.recomputeLocked(carrierID), nil
}

func (w *World) recomputeLocked(carrierID CarrierID) float64 {
	c, ok := w.carriers[carrierID]
	if !ok {
		return 0
	}
	c.Encumbrance = w.loadLocked(c)
	return c.Encumbrance
}

func (w *World) loadLocked(c *Carrier) float64 {
	items := make([]Item, 0, len(c.ItemIDs))
	for _, id := range c.ItemIDs {
		if it, ok := w.items[id]; ok {
			items = append(items, *it)
		}
	}
	return w.weights.CarrierLoad(items)
}

func (w *World) removeHeldLocked(c *Carrier, id ItemID) {
	c.ItemIDs = slices.DeleteFunc(c.ItemIDs, func(x ItemID) bool { return x == id })
}

// CarryStatus summarises one carrier's load against its limit.
type CarryStatus struct {
	CarrierID   CarrierID
	Encumbrance float64
	Limit       float64
	DailyRate   float64
	Overloaded  bool
}

func (w *World) CarryStatus(carrierID CarrierID) (CarryStatus, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.carriers[carrierID]
	if !ok {
		return CarryStatus{}, notFound("carrier", string(carrierID))
	}
	load := w.recomputeLocked(carrierID)
	limit := w.weights.CarryLimit(*c)
	return CarryStatus{
		CarrierID:   carrierID,
		Encumbrance: load,
		Limit:       limit,
		DailyRate:   w.weights.EncumbranceRate(*c, load),
		Overloaded:  load > limit+1e-9,
	}, nil
}

func (w *World) logf(format string, args ...any) {
	if w.logger != nil {
		w.logger.Printf(format, args...)
	}
}

var _ PartyDirectory = (*World)(nil)

// PartiesContaining implements PartyDirectory over the World's own rosters.
func (w *World) PartiesContaining(_ context.Context, id CarrierID) ([]PartyID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.partiesContainingLocked(id), nil
}

func (w *World) partiesContainingLocked(id CarrierID) []PartyID {
	var out []PartyID
	for _, pid := range w.partyOrder {
		if p, ok := w.parties[pid]; ok && p.hasMember(id) {
			out = append(out, pid)
		}
	}
	return out
}
