package models

import "time"

// Share permission levels. The level is integer-coded so additional levels
// can be introduced without a schema change.
const (
	PermissionRead      = 1
	PermissionReadWrite = 2
)

// ShareGrant associates a user with a save at a permission level. A grant
// widens the user's capabilities only after the invited user accepted it.
type ShareGrant struct {
	ID         string
	SaveID     string
	UserID     string
	Permission int
	// Accepted is false until the invited user confirms the grant. It
	// transitions to true exactly once and never back.
	Accepted  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AllowsEdit reports whether the grant's permission level includes edit
// rights.
func (g *ShareGrant) AllowsEdit() bool {
	return g.Permission >= PermissionReadWrite
}
