package logistics

import (
	"context"
	"fmt"
	"slices"

	apperrors "github.com/NocTempre/acks-caravan/internal/errors"
)

// AddToContainer stows an item the carrier holds into one of the carrier's
// containers.
func (w *World) AddToContainer(_ context.Context, itemID, containerID ItemID, carrierID CarrierID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, ok := w.carriers[carrierID]
	if !ok {
		return notFound("carrier", string(carrierID))
	}
	item, ok := w.items[itemID]
	if !ok {
		return notFound("item", string(itemID))
	}
	container, ok := w.items[containerID]
	if !ok {
		return notFound("item", string(containerID))
	}
	meta := map[string]string{
		"item":      string(itemID),
		"container": string(containerID),
		"carrier":   string(carrierID),
	}
	invalid := func(msg string) error {
		return apperrors.WithMetadata(apperrors.CodeInvalidTransfer, msg, meta)
	}
	switch {
	case !container.IsContainer():
		return invalid(fmt.Sprintf("%s is not a container", containerID))
	case itemID == containerID:
		return invalid("a container cannot hold itself")
	case item.CarrierID != carrierID || container.CarrierID != carrierID:
		return invalid(fmt.Sprintf("%s must hold both the item and the container", carrierID))
	case !item.Type.Physical():
		return invalid(fmt.Sprintf("%s items cannot be stowed", item.Type))
	case item.ContainedIn != "":
		return invalid(fmt.Sprintf("item %s is already in container %s", itemID, item.ContainedIn))
	case container.ContainedIn != "":
		return invalid(fmt.Sprintf("container %s is itself stowed", containerID))
	case item.IsContainer() && len(item.Contents) > 0:
		return invalid(fmt.Sprintf("container %s must be emptied before it is stowed", itemID))
	}

	weight := w.weights.stowedWeight(*item)
	if container.ContentsWeight+weight > container.CapacityStone+1e-9 {
		return apperrors.WithMetadata(apperrors.CodeContainerFull,
			fmt.Sprintf("%s holds %.2f of %.2f stone; %s needs %.2f", container.Name, container.ContentsWeight, container.CapacityStone, item.Name, weight),
			meta)
	}
	if container.RequiresMount && !c.MountCapable() && !w.hasMountSupportLocked(carrierID) {
		return apperrors.WithMetadata(apperrors.CodeMountRequired,
			fmt.Sprintf("%s must be carried by a mount or vehicle", container.Name), meta)
	}

	container.Contents = append(container.Contents, ContainedItem{
		ItemID: itemID,
		Weight: weight,
		Name:   item.Name,
		Type:   item.Type,
	})
	container.ContentsWeight += weight
	item.ContainedIn = containerID
	w.recomputeLocked(carrierID)
	w.logf("container %s: %s stowed %s (%.2f st)", containerID, carrierID, itemID, weight)
	return nil
}

// RemoveFromContainer takes a stowed item back out. The item stays with the
// carrier.
func (w *World) RemoveFromContainer(_ context.Context, itemID, containerID ItemID, carrierID CarrierID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.carriers[carrierID]; !ok {
		return notFound("carrier", string(carrierID))
	}
	container, ok := w.items[containerID]
	if !ok {
		return notFound("item", string(containerID))
	}
	meta := map[string]string{
		"item":      string(itemID),
		"container": string(containerID),
		"carrier":   string(carrierID),
	}
	if container.CarrierID != carrierID {
		return apperrors.WithMetadata(apperrors.CodeInvalidTransfer, fmt.Sprintf("%s does not hold container %s", carrierID, containerID), meta)
	}
	if !slices.ContainsFunc(container.Contents, func(ci ContainedItem) bool { return ci.ItemID == itemID }) {
		return apperrors.WithMetadata(apperrors.CodeNotContained, fmt.Sprintf("%s is not in %s", itemID, containerID), meta)
	}
	w.detachLocked(container, itemID, w.items[itemID])
	w.recomputeLocked(carrierID)
	w.logf("container %s: %s took out %s", containerID, carrierID, itemID)
	return nil
}

// detachLocked removes id's record from container. item may be nil when
// the record outlived the item.
func (w *World) detachLocked(container *Item, id ItemID, item *Item) {
	idx := slices.IndexFunc(container.Contents, func(ci ContainedItem) bool { return ci.ItemID == id })
	if idx < 0 {
		return
	}
	container.ContentsWeight = max(0, container.ContentsWeight-container.Contents[idx].Weight)
	container.Contents = slices.Delete(container.Contents, idx, idx+1)
	if len(container.Contents) == 0 {
		container.ContentsWeight = 0
	}
	if item != nil {
		item.ContainedIn = ""
	}
}

// hasMountSupportLocked reports whether any party the carrier travels with
// has a beast of burden or a vehicle to carry mount-only containers.
func (w *World) hasMountSupportLocked(carrierID CarrierID) bool {
	for _, pid := range w.partiesContainingLocked(carrierID) {
		p := w.parties[pid]
		if len(p.VehicleIDs) > 0 {
			return true
		}
		for _, m := range p.Members {
			if c, ok := w.carriers[m]; ok && c.MountCapable() {
				return true
			}
		}
	}
	return false
}
