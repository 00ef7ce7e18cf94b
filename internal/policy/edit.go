package policy

import "fmt"

// Owned is implemented by records that can name their owners.
type Owned interface {
	OwnedBy(userID string) bool
}

// EditPolicy decides who may rename, patch or inactivate an existing record.
type EditPolicy string

const (
	// AnyAuthenticatedCallerMayEdit lets any signed-in caller who knows an id change the record.
	AnyAuthenticatedCallerMayEdit EditPolicy = "any"
	// OwnerOrAdminOnly restricts edits to owners of the record and to admins.
	// Global taxonomy entries have no owners, so only admins may edit them.
	OwnerOrAdminOnly EditPolicy = "owner"
)

func ParseEditPolicy(s string) (EditPolicy, error) {
	switch p := EditPolicy(s); p {
	case AnyAuthenticatedCallerMayEdit, OwnerOrAdminOnly:
		return p, nil
	default:
		return "", fmt.Errorf("unknown edit policy %q", s)
	}
}

func (p EditPolicy) Allows(c Caller, r Owned) bool {
	if !c.Authenticated() {
		return false
	}
	switch p {
	case AnyAuthenticatedCallerMayEdit:
		return true
	case OwnerOrAdminOnly:
		return c.IsAdmin || r.OwnedBy(c.UserID)
	default:
		return false
	}
}

// OwnerOnUpdate says whose transaction it is after an update.
type OwnerOnUpdate string

const (
	PreserveOwner    OwnerOnUpdate = "preserve"
	ReassignToCaller OwnerOnUpdate = "caller"
)

func ParseOwnerOnUpdate(s string) (OwnerOnUpdate, error) {
	switch o := OwnerOnUpdate(s); o {
	case PreserveOwner, ReassignToCaller:
		return o, nil
	default:
		return "", fmt.Errorf("unknown owner-on-update mode %q", s)
	}
}
