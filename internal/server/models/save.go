// Package models defines server-side data models persisted in the database.
package models

import (
	"encoding/json"
	"time"
)

// Save is a collaborative document bound to a Tool. Its mutable fields
// (Name, Description, Data) are guarded by an exclusive edit lock.
type Save struct {
	ID          string
	Name        string
	Description string
	// Data is an opaque structured payload. The server checks that it is
	// well-formed JSON on input and never interprets it beyond that.
	Data   json.RawMessage
	ToolID string
	// OwnerID is the user who created the save. Immutable.
	OwnerID string
	// LockedByID is the current lock holder, nil when unlocked.
	LockedByID *string
	// LastLocked records the most recent lock acquisition. Advisory only,
	// there is no lock expiry.
	LastLocked *time.Time
	// LastOpened is touched every time the save is fetched by id.
	LastOpened *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Locked reports whether the save currently has a lock holder.
func (s *Save) Locked() bool {
	return s.LockedByID != nil
}

// LockedBy reports whether userID currently holds the lock.
func (s *Save) LockedBy(userID string) bool {
	return s.LockedByID != nil && *s.LockedByID == userID
}
