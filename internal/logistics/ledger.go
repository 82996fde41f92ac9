package logistics

import (
	"context"
	"fmt"
	"slices"

	apperrors "github.com/NocTempre/acks-caravan/internal/errors"
)

// TransferRequest moves one item between carriers. Handing an item back to
// its original owner, or setting ClearOwnership, ends the loan; any other
// transfer lends it.
type TransferRequest struct {
	ItemID         ItemID
	From           CarrierID
	To             CarrierID
	Restriction    Restriction
	ClearOwnership bool
}

type TransferResult struct {
	// Item is the re-created item under the destination carrier.
	Item       Item
	PreviousID ItemID
	Returned   bool
}

// Transfer validates every precondition before touching any state, so a
// rejected transfer leaves source, destination and ledger unchanged.
func (w *World) Transfer(_ context.Context, req TransferRequest) (TransferResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.transferLocked(req)
}

func (w *World) transferLocked(req TransferRequest) (TransferResult, error) {
	item, ok := w.items[req.ItemID]
	if !ok {
		return TransferResult{}, notFound("item", string(req.ItemID))
	}
	invalid := func(msg string) (TransferResult, error) {
		return TransferResult{}, apperrors.WithMetadata(apperrors.CodeInvalidTransfer, msg, map[string]string{
			"item": string(req.ItemID),
			"from": string(req.From),
			"to":   string(req.To),
		})
	}
	if !item.Type.Transferable() {
		return invalid(fmt.Sprintf("%s items cannot be transferred", item.Type))
	}
	if req.From == req.To {
		return invalid("cannot transfer an item to its own carrier")
	}
	from, ok := w.carriers[req.From]
	if !ok {
		return TransferResult{}, notFound("carrier", string(req.From))
	}
	to, ok := w.carriers[req.To]
	if !ok {
		return TransferResult{}, notFound("carrier", string(req.To))
	}
	if item.CarrierID != req.From {
		return invalid(fmt.Sprintf("item %s is not held by %s", req.ItemID, req.From))
	}
	if item.IsContainer() && len(item.Contents) > 0 {
		return invalid(fmt.Sprintf("container %s must be emptied before it changes hands", req.ItemID))
	}

	returning := req.ClearOwnership
	originalOwner := req.From
	if item.Ownership != nil && item.Ownership.OriginalOwnerID != "" {
		originalOwner = item.Ownership.OriginalOwnerID
		if originalOwner == req.To {
			returning = true
		}
	}
	restriction := req.Restriction
	if restriction == "" {
		restriction = RestrictSameParty
	}

	// All checks passed; mutate.
	if item.ContainedIn != "" {
		if container, ok := w.items[item.ContainedIn]; ok {
			w.detachLocked(container, item.ID, item)
		}
	}

	weight := w.weights.ItemWeight(*item)
	next := item.clone()
	next.ID = ItemID(w.newID())
	next.CarrierID = req.To
	next.ContainedIn = ""
	if returning {
		next.Ownership = nil
	} else {
		next.Ownership = &Ownership{
			OriginalOwnerID:  originalOwner,
			CurrentCarrierID: req.To,
			IsLent:           true,
			Restriction:      restriction,
			TransferredAt:    w.now(),
		}
	}

	delete(w.items, item.ID)
	w.removeHeldLocked(from, item.ID)
	w.items[next.ID] = &next
	to.ItemIDs = append(to.ItemIDs, next.ID)

	if owner, ok := w.carriers[originalOwner]; ok {
		owner.Delegations = slices.DeleteFunc(owner.Delegations, func(d Delegation) bool {
			return d.ItemID == item.ID || d.ItemID == next.ID
		})
		if !returning {
			owner.Delegations = append(owner.Delegations, Delegation{
				ItemID:    next.ID,
				CarrierID: req.To,
				Weight:    weight,
			})
		}
	}

	w.recomputeLocked(req.From)
	w.recomputeLocked(req.To)

	verb := "lent"
	if returning {
		verb = "returned"
	}
	w.logf("ledger: %s %s (%s, %.2f st) %s -> %s as %s", verb, item.Name, item.ID, weight, req.From, req.To, next.ID)

	return TransferResult{
		Item:       next.clone(),
		PreviousID: item.ID,
		Returned:   returning,
	}, nil
}

// Retrieve reclaims a lent item for its original owner when the item's
// retrieval restriction allows it right now.
func (w *World) Retrieve(ctx context.Context, itemID ItemID, ownerID CarrierID) (TransferResult, error) {
	w.mu.Lock()
	item, ok := w.items[itemID]
	if !ok || !item.IsLent() {
		w.mu.Unlock()
		return TransferResult{}, apperrors.WithMetadata(apperrors.CodeNotContained, fmt.Sprintf("item %s is not on loan", itemID), map[string]string{"item": string(itemID)})
	}
	snapshot := item.clone()
	w.mu.Unlock()

	if snapshot.Ownership.OriginalOwnerID != ownerID {
		return TransferResult{}, apperrors.WithMetadata(apperrors.CodeRetrievalDenied, fmt.Sprintf("%s does not own %s", ownerID, itemID), map[string]string{"item": string(itemID), "owner": string(ownerID)})
	}
	holder := snapshot.CarrierID
	allowed, err := w.CanRetrieve(ctx, snapshot, ownerID, holder)
	if err != nil {
		return TransferResult{}, apperrors.Wrap(apperrors.CodeRetrievalDenied, fmt.Sprintf("cannot evaluate %s restriction for %s", snapshot.Ownership.Restriction, itemID), err)
	}
	if !allowed {
		return TransferResult{}, apperrors.WithMetadata(apperrors.CodeRetrievalDenied,
			fmt.Sprintf("%s restriction prevents %s from retrieving %s", snapshot.Ownership.Restriction, ownerID, itemID),
			map[string]string{"item": string(itemID), "owner": string(ownerID), "restriction": string(snapshot.Ownership.Restriction)})
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	current, ok := w.items[itemID]
	if !ok || !current.IsLent() || current.CarrierID != holder {
		return TransferResult{}, apperrors.WithMetadata(apperrors.CodeNotContained, fmt.Sprintf("item %s moved during retrieval", itemID), map[string]string{"item": string(itemID)})
	}
	res, err := w.transferLocked(TransferRequest{
		ItemID:         itemID,
		From:           holder,
		To:             ownerID,
		ClearOwnership: true,
	})
	if err != nil {
		return TransferResult{}, err
	}
	w.logf("ledger: %s retrieved %s from %s", ownerID, res.Item.ID, holder)
	return res, nil
}

// CanRetrieve evaluates the item's retrieval restriction against current
// party rosters, positions and caller privilege. Unknown restrictions deny.
func (w *World) CanRetrieve(ctx context.Context, item Item, ownerID, carrierID CarrierID) (bool, error) {
	restriction := RestrictSameParty
	if item.Ownership != nil && item.Ownership.Restriction != "" {
		restriction = item.Ownership.Restriction
	}
	switch restriction {
	case RestrictAlways:
		return true, nil
	case RestrictSameParty:
		return w.shareParty(ctx, ownerID, carrierID)
	case RestrictSameHex:
		return w.spatial.SameCell(ctx, ownerID, carrierID)
	case RestrictSameScene:
		return w.spatial.SameScene(ctx, ownerID, carrierID)
	case RestrictGMApproval:
		return w.privilege.IsPrivilegedCaller(ctx), nil
	default:
		return false, nil
	}
}

func (w *World) shareParty(ctx context.Context, a, b CarrierID) (bool, error) {
	partiesA, err := w.directory.PartiesContaining(ctx, a)
	if err != nil {
		return false, err
	}
	if len(partiesA) == 0 {
		return false, nil
	}
	partiesB, err := w.directory.PartiesContaining(ctx, b)
	if err != nil {
		return false, err
	}
	for _, p := range partiesA {
		if slices.Contains(partiesB, p) {
			return true, nil
		}
	}
	return false, nil
}

// DelegationView is a delegation record with retrievability evaluated at
// the moment of the call.
type DelegationView struct {
	Delegation
	ItemName       string      `json:"item_name"`
	Restriction    Restriction `json:"restriction,omitempty"`
	CanRetrieveNow bool        `json:"can_retrieve_now"`
}

// Delegations lists what ownerID has lent out. CanRetrieveNow is never
// stored; it reflects rosters and positions as of this call.
func (w *World) Delegations(ctx context.Context, ownerID CarrierID) ([]DelegationView, error) {
	w.mu.Lock()
	owner, ok := w.carriers[ownerID]
	if !ok {
		w.mu.Unlock()
		return nil, notFound("carrier", string(ownerID))
	}
	type pending struct {
		record Delegation
		item   Item
	}
	records := make([]pending, 0, len(owner.Delegations))
	for _, d := range owner.Delegations {
		it, ok := w.items[d.ItemID]
		if !ok {
			continue
		}
		records = append(records, pending{record: d, item: it.clone()})
	}
	w.mu.Unlock()

	out := make([]DelegationView, 0, len(records))
	for _, r := range records {
		view := DelegationView{
			Delegation: r.record,
			ItemName:   r.item.Name,
		}
		if r.item.Ownership != nil {
			view.Restriction = r.item.Ownership.Restriction
		}
		can, err := w.CanRetrieve(ctx, r.item, ownerID, r.item.CarrierID)
		if err != nil {
			return nil, err
		}
		view.CanRetrieveNow = can
		out = append(out, view)
	}
	return out, nil
}
