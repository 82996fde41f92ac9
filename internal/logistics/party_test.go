package logistics_test

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NocTempre/acks-caravan/internal/errors"
	"github.com/NocTempre/acks-caravan/internal/logistics"
)

func TestPartyRegistration(t *testing.T) {
	w := newTestWorld(t)
	addCharacter(t, w, "alice")

	err := w.AddParty(logistics.TravelParty{ID: "ghosts", Members: []logistics.CarrierID{"casper"}})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	require.NoError(t, w.AddParty(logistics.TravelParty{ID: "solo", Members: []logistics.CarrierID{"alice"}}))
	err = w.AddParty(logistics.TravelParty{ID: "solo"})
	assert.Equal(t, apperrors.CodeInvalidConfig, apperrors.CodeOf(err))

	require.NoError(t, w.SetTravelContext("solo", "Woods", "paved road", "Heavy Rain"))
	p, ok := w.Party("solo")
	require.True(t, ok)
	assert.Equal(t, "forest", p.TerrainKey)
	assert.Equal(t, "highway", p.RoadKey)
	assert.Equal(t, "heavy_rain", p.WeatherKey)

	dirs, err := w.PartiesContaining(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []logistics.PartyID{"solo"}, dirs)
}

func TestAddVehicleValidation(t *testing.T) {
	w := newTestWorld(t)
	require.NoError(t, w.AddParty(logistics.TravelParty{ID: "crew"}))

	err := w.AddVehicle("crew", logistics.Vehicle{ID: "cart", CargoNormalCapacity: 50, CargoHeavyCapacity: 40})
	assert.Equal(t, apperrors.CodeInvalidConfig, apperrors.CodeOf(err))

	err = w.AddVehicle("crew", logistics.Vehicle{ID: "raft", Kind: logistics.VehicleVessel, VesselKey: "hovercraft"})
	assert.Equal(t, apperrors.CodeUnknownConfigurationKey, apperrors.CodeOf(err))

	err = w.AddVehicle("nobody", logistics.Vehicle{ID: "cart"})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestVesselDefaultsFromTable(t *testing.T) {
	w := newTestWorld(t)
	require.NoError(t, w.AddParty(logistics.TravelParty{ID: "crew"}))

	require.NoError(t, w.AddVehicle("crew", logistics.Vehicle{ID: "barge", Kind: logistics.VehicleVessel, VesselKey: "barge", CrewRequired: 2}))
	v, ok := w.Vehicle("barge")
	require.True(t, ok)
	assert.Equal(t, "river_barge", v.VesselKey)
	assert.Equal(t, 2500.0, v.CargoNormalCapacity)
	assert.Equal(t, 2500.0, v.CargoHeavyCapacity)
	assert.Equal(t, 24.0, v.NormalSpeed)
	assert.Equal(t, 24.0, v.HeavySpeed)

	require.NoError(t, w.AddVehicle("crew", logistics.Vehicle{ID: "skiff", Kind: logistics.VehicleVessel, VesselKey: "rowboat", CargoNormalCapacity: 40}))
	v, ok = w.Vehicle("skiff")
	require.True(t, ok)
	assert.Equal(t, 40.0, v.CargoNormalCapacity)
	assert.Equal(t, 40.0, v.CargoHeavyCapacity)
}

func TestCarryStatusAndLogging(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWorld(t, logistics.WithLogger(log.New(&buf, "", 0)))
	addCharacter(t, w, "alice")
	addCharacter(t, w, "bob")
	give(t, w, "alice", logistics.Item{ID: "anvil", Name: "Anvil", Weight: 22, Quantity: 1})

	st, err := w.CarryStatus("alice")
	require.NoError(t, err)
	assert.True(t, st.Overloaded)
	assert.Zero(t, st.DailyRate)
	assert.Equal(t, 20.0, st.Limit)

	_, err = w.Transfer(context.Background(), logistics.TransferRequest{ItemID: "anvil", From: "alice", To: "bob"})
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "ledger: lent Anvil"), buf.String())

	load, err := w.Recompute("alice")
	require.NoError(t, err)
	assert.Zero(t, load)
	_, err = w.Recompute("nobody")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}
