package logistics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/NocTempre/acks-caravan/internal/logistics"
	"github.com/NocTempre/acks-caravan/internal/logistics/logisticstest"
)

var fixedNow = time.Date(2024, time.March, 3, 9, 0, 0, 0, time.UTC)

func newTestWorld(t *testing.T, opts ...logistics.Option) *logistics.World {
	t.Helper()
	base := []logistics.Option{
		logistics.WithClock(func() time.Time { return fixedNow }),
		logistics.WithIDGenerator(logisticstest.SequentialIDs("item")),
	}
	return logistics.NewWorld(append(base, opts...)...)
}

func addCharacter(t *testing.T, w *logistics.World, id logistics.CarrierID, skills ...string) {
	t.Helper()
	require.NoError(t, w.AddCarrier(logistics.Carrier{
		ID:       id,
		Name:     string(id),
		Kind:     logistics.KindCharacter,
		Strength: 10,
		Skills:   skills,
	}))
}

func give(t *testing.T, w *logistics.World, to logistics.CarrierID, item logistics.Item) logistics.Item {
	t.Helper()
	out, err := w.GiveItem(to, item)
	require.NoError(t, err)
	return out
}

func encumbrance(t *testing.T, w *logistics.World, id logistics.CarrierID) float64 {
	t.Helper()
	c, ok := w.Carrier(id)
	require.True(t, ok, "carrier %s", id)
	return c.Encumbrance
}
