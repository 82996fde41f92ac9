package logistics

import "context"

// SpatialIndex answers position questions about carriers on the map. Both
// methods must be read-only. A carrier without a position is never in the
// same cell or scene as anyone.
type SpatialIndex interface {
	SameCell(ctx context.Context, a, b CarrierID) (bool, error)
	SameScene(ctx context.Context, a, b CarrierID) (bool, error)
}

// PartyDirectory lists the parties whose member list includes a carrier.
type PartyDirectory interface {
	PartiesContaining(ctx context.Context, id CarrierID) ([]PartyID, error)
}

// Privilege reports whether the caller may approve gm-approval retrievals.
type Privilege interface {
	IsPrivilegedCaller(ctx context.Context) bool
}

type noSpatial struct{}

func (noSpatial) SameCell(context.Context, CarrierID, CarrierID) (bool, error)  { return false, nil }
func (noSpatial) SameScene(context.Context, CarrierID, CarrierID) (bool, error) { return false, nil }

type noPrivilege struct{}

func (noPrivilege) IsPrivilegedCaller(context.Context) bool { return false }

// PrivilegeFunc adapts a function to Privilege.
type PrivilegeFunc func(ctx context.Context) bool

func (f PrivilegeFunc) IsPrivilegedCaller(ctx context.Context) bool { return f(ctx) }
