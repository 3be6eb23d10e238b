package httpapi

import (
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/savekeeper/internal/server/models"
)

// saveResource is the wire shape of a save.
type saveResource struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	ToolID      string          `json:"tool_id"`
	OwnerID     string          `json:"owner_id"`
	Locked      bool            `json:"locked"`
	LockedByID  *string         `json:"locked_by_id,omitempty"`
	LastLocked  *time.Time      `json:"last_locked,omitempty"`
	LastOpened  *time.Time      `json:"last_opened,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func newSaveResource(s *models.Save) saveResource {
	return saveResource{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Data:        s.Data,
		ToolID:      s.ToolID,
		OwnerID:     s.OwnerID,
		Locked:      s.Locked(),
		LockedByID:  s.LockedByID,
		LastLocked:  s.LastLocked,
		LastOpened:  s.LastOpened,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func newSaveResources(saves []*models.Save) []saveResource {
	out := make([]saveResource, 0, len(saves))
	for _, s := range saves {
		out = append(out, newSaveResource(s))
	}
	return out
}

type shareResource struct {
	ID         string    `json:"id"`
	SaveID     string    `json:"save_id"`
	UserID     string    `json:"user_id"`
	Permission int       `json:"permission"`
	Accepted   bool      `json:"accepted"`
	CreatedAt  time.Time `json:"created_at"`
}

func newShareResource(g *models.ShareGrant) shareResource {
	return shareResource{
		ID:         g.ID,
		SaveID:     g.SaveID,
		UserID:     g.UserID,
		Permission: g.Permission,
		Accepted:   g.Accepted,
		CreatedAt:  g.CreatedAt,
	}
}

func newShareResources(grants []*models.ShareGrant) []shareResource {
	out := make([]shareResource, 0, len(grants))
	for _, g := range grants {
		out = append(out, newShareResource(g))
	}
	return out
}

type toolResource struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func newToolResources(tools []*models.Tool) []toolResource {
	out := make([]toolResource, 0, len(tools))
	for _, t := range tools {
		out = append(out, toolResource{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt})
	}
	return out
}

type snapshotResource struct {
	ID        string    `json:"id"`
	SaveID    string    `json:"save_id"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func newSnapshotResource(sn *models.Snapshot) snapshotResource {
	return snapshotResource{ID: sn.ID, SaveID: sn.SaveID, CreatedBy: sn.CreatedBy, CreatedAt: sn.CreatedAt}
}

func newSnapshotResources(snapshots []*models.Snapshot) []snapshotResource {
	out := make([]snapshotResource, 0, len(snapshots))
	for _, sn := range snapshots {
		out = append(out, newSnapshotResource(sn))
	}
	return out
}
