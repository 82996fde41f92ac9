package logistics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NocTempre/acks-caravan/internal/errors"
	"github.com/NocTempre/acks-caravan/internal/logistics"
	"github.com/NocTempre/acks-caravan/internal/logistics/logisticstest"
)

func lendingWorld(t *testing.T, opts ...logistics.Option) *logistics.World {
	t.Helper()
	w := newTestWorld(t, opts...)
	addCharacter(t, w, "alice")
	addCharacter(t, w, "bob")
	addCharacter(t, w, "carol")
	require.NoError(t, w.AddParty(logistics.TravelParty{
		ID:         "company",
		Members:    []logistics.CarrierID{"alice", "bob"},
		TerrainKey: "grassland",
	}))
	give(t, w, "alice", logistics.Item{ID: "sword", Name: "Sword", Type: logistics.ItemGear, Weight: 1, Quantity: 1})
	give(t, w, "alice", logistics.Item{ID: "tent", Name: "Tent", Type: logistics.ItemGear, Weight: 2, Quantity: 1})
	return w
}

func TestTransferLendsAndConservesWeight(t *testing.T) {
	ctx := context.Background()
	w := lendingWorld(t)

	before := encumbrance(t, w, "alice") + encumbrance(t, w, "bob")
	require.InDelta(t, 3, encumbrance(t, w, "alice"), 1e-9)

	res, err := w.Transfer(ctx, logistics.TransferRequest{ItemID: "tent", From: "alice", To: "bob"})
	require.NoError(t, err)
	assert.False(t, res.Returned)
	assert.Equal(t, logistics.ItemID("tent"), res.PreviousID)
	assert.Equal(t, logistics.ItemID("item-1"), res.Item.ID)

	assert.InDelta(t, 1, encumbrance(t, w, "alice"), 1e-9)
	assert.InDelta(t, 2, encumbrance(t, w, "bob"), 1e-9)
	assert.InDelta(t, before, encumbrance(t, w, "alice")+encumbrance(t, w, "bob"), 1e-9)

	_, stillThere := w.Item("tent")
	assert.False(t, stillThere)

	lent, ok := w.Item(res.Item.ID)
	require.True(t, ok)
	require.NotNil(t, lent.Ownership)
	assert.Equal(t, logistics.CarrierID("alice"), lent.Ownership.OriginalOwnerID)
	assert.Equal(t, logistics.CarrierID("bob"), lent.Ownership.CurrentCarrierID)
	assert.True(t, lent.Ownership.IsLent)
	assert.Equal(t, logistics.RestrictSameParty, lent.Ownership.Restriction)
	assert.Equal(t, fixedNow, lent.Ownership.TransferredAt)
	assert.Equal(t, logistics.CarrierID("bob"), lent.CarrierID)

	alice, _ := w.Carrier("alice")
	require.Len(t, alice.Delegations, 1)
	assert.Equal(t, logistics.Delegation{ItemID: res.Item.ID, CarrierID: "bob", Weight: 2}, alice.Delegations[0])
}

func TestRetrieveReturnsItemOnlyOnce(t *testing.T) {
	ctx := context.Background()
	w := lendingWorld(t)

	lent, err := w.Transfer(ctx, logistics.TransferRequest{ItemID: "tent", From: "alice", To: "bob", Restriction: logistics.RestrictAlways})
	require.NoError(t, err)

	back, err := w.Retrieve(ctx, lent.Item.ID, "alice")
	require.NoError(t, err)
	assert.True(t, back.Returned)
	assert.Nil(t, back.Item.Ownership)
	assert.Equal(t, logistics.CarrierID("alice"), back.Item.CarrierID)
	assert.InDelta(t, 3, encumbrance(t, w, "alice"), 1e-9)
	assert.InDelta(t, 0, encumbrance(t, w, "bob"), 1e-9)

	alice, _ := w.Carrier("alice")
	assert.Empty(t, alice.Delegations)

	_, err = w.Retrieve(ctx, lent.Item.ID, "alice")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotContained), "got %v", err)
	_, err = w.Retrieve(ctx, back.Item.ID, "alice")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotContained), "got %v", err)
}

func TestSamePartyRestrictionFollowsRoster(t *testing.T) {
	ctx := context.Background()
	w := lendingWorld(t)

	lent, err := w.Transfer(ctx, logistics.TransferRequest{ItemID: "sword", From: "alice", To: "bob"})
	require.NoError(t, err)

	views, err := w.Delegations(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].CanRetrieveNow)
	assert.Equal(t, "Sword", views[0].ItemName)

	// Bob is member 1.
	require.NoError(t, w.RemoveMember("company", 1))

	views, err = w.Delegations(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.False(t, views[0].CanRetrieveNow)

	_, err = w.Retrieve(ctx, lent.Item.ID, "alice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.New(apperrors.CodeRetrievalDenied, "")))
	assert.InDelta(t, 1, encumbrance(t, w, "bob"), 1e-9)

	_, err = w.AddMember("company", "bob")
	require.NoError(t, err)
	_, err = w.Retrieve(ctx, lent.Item.ID, "alice")
	require.NoError(t, err)
}

func TestRelendKeepsSingleDelegation(t *testing.T) {
	ctx := context.Background()
	w := lendingWorld(t)

	first, err := w.Transfer(ctx, logistics.TransferRequest{ItemID: "tent", From: "alice", To: "bob"})
	require.NoError(t, err)
	second, err := w.Transfer(ctx, logistics.TransferRequest{ItemID: first.Item.ID, From: "bob", To: "carol", Restriction: logistics.RestrictAlways})
	require.NoError(t, err)

	assert.Equal(t, logistics.CarrierID("alice"), second.Item.Ownership.OriginalOwnerID)
	assert.Equal(t, logistics.RestrictAlways, second.Item.Ownership.Restriction)

	alice, _ := w.Carrier("alice")
	require.Len(t, alice.Delegations, 1)
	assert.Equal(t, second.Item.ID, alice.Delegations[0].ItemID)
	assert.Equal(t, logistics.CarrierID("carol"), alice.Delegations[0].CarrierID)

	bob, _ := w.Carrier("bob")
	assert.Empty(t, bob.Delegations)
	assert.InDelta(t, 0, bob.Encumbrance, 1e-9)
	assert.InDelta(t, 2, encumbrance(t, w, "carol"), 1e-9)
}

func TestHandingBackToOwnerEndsLoan(t *testing.T) {
	ctx := context.Background()
	w := lendingWorld(t)

	lent, err := w.Transfer(ctx, logistics.TransferRequest{ItemID: "tent", From: "alice", To: "bob"})
	require.NoError(t, err)
	back, err := w.Transfer(ctx, logistics.TransferRequest{ItemID: lent.Item.ID, From: "bob", To: "alice"})
	require.NoError(t, err)

	assert.True(t, back.Returned)
	assert.Nil(t, back.Item.Ownership)
	alice, _ := w.Carrier("alice")
	assert.Empty(t, alice.Delegations)
}

func TestInvalidTransfersLeaveStateUntouched(t *testing.T) {
	ctx := context.Background()
	w := lendingWorld(t)
	give(t, w, "alice", logistics.Item{ID: "fireball", Type: logistics.ItemSpell})
	give(t, w, "alice", logistics.Item{ID: "purse", Type: logistics.ItemMoney, Quantity: 300})
	give(t, w, "alice", logistics.Item{ID: "sack", Type: logistics.ItemContainer, Weight: 0.5, CapacityStone: 4})
	require.NoError(t, w.AddToContainer(ctx, "sword", "sack", "alice"))

	tests := []struct {
		name string
		req  logistics.TransferRequest
	}{
		{name: "spell", req: logistics.TransferRequest{ItemID: "fireball", From: "alice", To: "bob"}},
		{name: "money", req: logistics.TransferRequest{ItemID: "purse", From: "alice", To: "bob"}},
		{name: "self", req: logistics.TransferRequest{ItemID: "tent", From: "alice", To: "alice"}},
		{name: "not held", req: logistics.TransferRequest{ItemID: "tent", From: "bob", To: "carol"}},
		{name: "loaded container", req: logistics.TransferRequest{ItemID: "sack", From: "alice", To: "bob"}},
	}
	aliceBefore := encumbrance(t, w, "alice")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.Transfer(ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeInvalidTransfer, apperrors.CodeOf(err))
			assert.InDelta(t, aliceBefore, encumbrance(t, w, "alice"), 1e-9)
			assert.InDelta(t, 0, encumbrance(t, w, "bob"), 1e-9)
			alice, _ := w.Carrier("alice")
			assert.Empty(t, alice.Delegations)
		})
	}

	_, err := w.Transfer(ctx, logistics.TransferRequest{ItemID: "ghost", From: "alice", To: "bob"})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestTransferDetachesStowedItem(t *testing.T) {
	ctx := context.Background()
	w := lendingWorld(t)
	give(t, w, "alice", logistics.Item{ID: "sack", Type: logistics.ItemContainer, Weight: 0.5, CapacityStone: 4})
	require.NoError(t, w.AddToContainer(ctx, "tent", "sack", "alice"))

	res, err := w.Transfer(ctx, logistics.TransferRequest{ItemID: "tent", From: "alice", To: "bob"})
	require.NoError(t, err)
	assert.Empty(t, res.Item.ContainedIn)

	sack, _ := w.Item("sack")
	assert.Empty(t, sack.Contents)
	assert.Zero(t, sack.ContentsWeight)
	assert.InDelta(t, 1.5, encumbrance(t, w, "alice"), 1e-9)
	assert.InDelta(t, 2, encumbrance(t, w, "bob"), 1e-9)
}

func TestRetrieveRestrictions(t *testing.T) {
	ctx := context.Background()
	spatial := logisticstest.NewMap()
	privilege := &logisticstest.Privilege{}
	w := lendingWorld(t, logistics.WithSpatialIndex(spatial), logistics.WithPrivilege(privilege))

	lend := func(r logistics.Restriction) logistics.ItemID {
		t.Helper()
		item := give(t, w, "alice", logistics.Item{Name: "Lantern", Type: logistics.ItemGear, Weight: 1, Quantity: 1})
		res, err := w.Transfer(ctx, logistics.TransferRequest{ItemID: item.ID, From: "alice", To: "carol", Restriction: r})
		require.NoError(t, err)
		return res.Item.ID
	}

	t.Run("same-hex", func(t *testing.T) {
		id := lend(logistics.RestrictSameHex)
		_, err := w.Retrieve(ctx, id, "alice")
		assert.Equal(t, apperrors.CodeRetrievalDenied, apperrors.CodeOf(err))

		spatial.Place("alice", "0304", "")
		spatial.Place("carol", "0304", "")
		_, err = w.Retrieve(ctx, id, "alice")
		assert.NoError(t, err)
	})

	t.Run("same-scene", func(t *testing.T) {
		id := lend(logistics.RestrictSameScene)
		_, err := w.Retrieve(ctx, id, "alice")
		assert.Equal(t, apperrors.CodeRetrievalDenied, apperrors.CodeOf(err))

		spatial.Place("alice", "0304", "tavern")
		spatial.Place("carol", "0305", "tavern")
		_, err = w.Retrieve(ctx, id, "alice")
		assert.NoError(t, err)
	})

	t.Run("gm-approval", func(t *testing.T) {
		id := lend(logistics.RestrictGMApproval)
		_, err := w.Retrieve(ctx, id, "alice")
		assert.Equal(t, apperrors.CodeRetrievalDenied, apperrors.CodeOf(err))

		privilege.Grant(true)
		defer privilege.Grant(false)
		_, err = w.Retrieve(ctx, id, "alice")
		assert.NoError(t, err)
	})

	t.Run("unknown restriction fails closed", func(t *testing.T) {
		id := lend(logistics.Restriction("whenever"))
		item, _ := w.Item(id)
		ok, err := w.CanRetrieve(ctx, item, "alice", "carol")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("only the owner may retrieve", func(t *testing.T) {
		id := lend(logistics.RestrictAlways)
		_, err := w.Retrieve(ctx, id, "bob")
		assert.Equal(t, apperrors.CodeRetrievalDenied, apperrors.CodeOf(err))
	})

	t.Run("collaborator failure denies", func(t *testing.T) {
		id := lend(logistics.RestrictSameHex)
		boom := errors.New("map offline")
		spatial.Err = boom
		defer func() { spatial.Err = nil }()

		_, err := w.Retrieve(ctx, id, "alice")
		assert.Equal(t, apperrors.CodeRetrievalDenied, apperrors.CodeOf(err))
		assert.ErrorIs(t, err, boom)
	})
}

func TestExternalPartyDirectory(t *testing.T) {
	ctx := context.Background()
	dir := logisticstest.NewDirectory()
	w := lendingWorld(t, logistics.WithPartyDirectory(dir))

	lent, err := w.Transfer(ctx, logistics.TransferRequest{ItemID: "sword", From: "alice", To: "carol"})
	require.NoError(t, err)

	_, err = w.Retrieve(ctx, lent.Item.ID, "alice")
	assert.Equal(t, apperrors.CodeRetrievalDenied, apperrors.CodeOf(err))

	dir.Set("watch", "alice", "carol")
	_, err = w.Retrieve(ctx, lent.Item.ID, "alice")
	assert.NoError(t, err)
}
