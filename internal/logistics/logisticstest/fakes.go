// Package logisticstest provides in-memory collaborators for exercising a
// logistics.World in tests.
package logisticstest

import (
	"context"
	"strconv"
	"sync"

	"github.com/NocTempre/acks-caravan/internal/logistics"
)

// Map places carriers in hex cells and scenes. A carrier without an entry
// has no position.
type Map struct {
	mu     sync.Mutex
	cells  map[logistics.CarrierID]string
	scenes map[logistics.CarrierID]string
	// Err, when set, is returned from every query.
	Err error
}

func NewMap() *Map {
	return &Map{
		cells:  make(map[logistics.CarrierID]string),
		scenes: make(map[logistics.CarrierID]string),
	}
}

func (m *Map) Place(id logistics.CarrierID, cell, scene string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cell == "" {
		delete(m.cells, id)
	} else {
		m.cells[id] = cell
	}
	if scene == "" {
		delete(m.scenes, id)
	} else {
		m.scenes[id] = scene
	}
}

func (m *Map) SameCell(_ context.Context, a, b logistics.CarrierID) (bool, error) {
	return m.same(m.cells, a, b)
}

func (m *Map) SameScene(_ context.Context, a, b logistics.CarrierID) (bool, error) {
	return m.same(m.scenes, a, b)
}

func (m *Map) same(where map[logistics.CarrierID]string, a, b logistics.CarrierID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	pa, okA := where[a]
	pb, okB := where[b]
	return okA && okB && pa == pb, nil
}

// Directory is a fixed roster of parties, independent of any World.
type Directory struct {
	mu      sync.Mutex
	parties map[logistics.PartyID][]logistics.CarrierID
	order   []logistics.PartyID
	Err     error
}

func NewDirectory() *Directory {
	return &Directory{parties: make(map[logistics.PartyID][]logistics.CarrierID)}
}

func (d *Directory) Set(party logistics.PartyID, members ...logistics.CarrierID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.parties[party]; !ok {
		d.order = append(d.order, party)
	}
	d.parties[party] = append([]logistics.CarrierID(nil), members...)
}

func (d *Directory) PartiesContaining(_ context.Context, id logistics.CarrierID) ([]logistics.PartyID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return nil, d.Err
	}
	var out []logistics.PartyID
	for _, pid := range d.order {
		for _, m := range d.parties[pid] {
			if m == id {
				out = append(out, pid)
				break
			}
		}
	}
	return out, nil
}

// Privilege is a switchable gm-approval answer.
type Privilege struct {
	mu      sync.Mutex
	granted bool
}

func (p *Privilege) Grant(granted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.granted = granted
}

func (p *Privilege) IsPrivilegedCaller(context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.granted
}

var (
	_ logistics.SpatialIndex   = (*Map)(nil)
	_ logistics.PartyDirectory = (*Directory)(nil)
	_ logistics.Privilege      = (*Privilege)(nil)
)

// SequentialIDs returns a generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}

