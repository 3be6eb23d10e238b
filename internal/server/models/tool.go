package models

import "time"

// Tool is an immutable template a save is instantiated against, e.g. a
// frontend-implemented analysis canvas. Saves reference tools by id.
type Tool struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
