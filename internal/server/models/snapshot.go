package models

import "time"

// Snapshot describes an archived copy of a save's data payload stored in
// object storage. The archive itself is transferred through presigned URLs;
// only the metadata lives in the database.
type Snapshot struct {
	ID     string
	SaveID string
	// StorageKey is the object-storage key (path) of the archived blob.
	StorageKey string
	// CreatedBy is the user who requested the snapshot.
	CreatedBy string
	CreatedAt time.Time
}
