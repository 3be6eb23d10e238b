// Package authz implements the authorization gate as a pure function over
// ownership, accepted share grants and platform-wide privileges. It holds no
// state and performs no I/O, so every rule is directly testable.
package authz

import "github.com/dmitrijs2005/savekeeper/internal/server/models"

// Capability names an operation on a save that must be authorized.
type Capability string

const (
	CapabilityView   Capability = "view"
	CapabilityCreate Capability = "create"
	CapabilityUpdate Capability = "update"
	CapabilityDelete Capability = "delete"
	CapabilityShare  Capability = "share"
)

// Platform-wide privileges issued by the identity provider via token claims.
const (
	PrivilegeViewAll     = "view-all"
	PrivilegeCreate      = "create"
	PrivilegeDeleteAll   = "delete-all"
	PrivilegeManageTools = "manage-tools"
)

// Actor is the authenticated user a request acts on behalf of.
type Actor struct {
	ID         string
	Privileges []string
}

// Has reports whether the actor carries the given platform privilege.
func (a Actor) Has(privilege string) bool {
	for _, p := range a.Privileges {
		if p == privilege {
			return true
		}
	}
	return false
}

// CanPerform decides whether actor may apply op to save, given the save's
// share grants. For CapabilityCreate no save exists yet and save may be nil;
// for every other capability save must be non-nil.
//
// Unaccepted grants never widen capabilities.
func CanPerform(actor Actor, op Capability, save *models.Save, grants []*models.ShareGrant) bool {
	if op == CapabilityCreate {
		return actor.Has(PrivilegeCreate)
	}
	if save == nil {
		return false
	}

	owner := save.OwnerID == actor.ID
	grant := acceptedGrantFor(actor.ID, save.ID, grants)

	switch op {
	case CapabilityView:
		return owner || grant != nil || actor.Has(PrivilegeViewAll)
	case CapabilityUpdate:
		return owner || (grant != nil && grant.AllowsEdit())
	case CapabilityDelete:
		return owner || actor.Has(PrivilegeDeleteAll)
	case CapabilityShare:
		return owner
	default:
		return false
	}
}

// acceptedGrantFor returns the accepted grant binding userID to saveID,
// or nil if there is none.
func acceptedGrantFor(userID, saveID string, grants []*models.ShareGrant) *models.ShareGrant {
	for _, g := range grants {
		if g.UserID == userID && g.SaveID == saveID && g.Accepted {
			return g
		}
	}
	return nil
}
