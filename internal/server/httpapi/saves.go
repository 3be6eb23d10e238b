package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/savekeeper/internal/common"
	"github.com/dmitrijs2005/savekeeper/internal/server/repositories/saves"
	"github.com/dmitrijs2005/savekeeper/internal/server/services"
)

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {
	result, err := s.saves.List(r.Context(), actorFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newSaveResources(result))
}

type createSaveRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data"`
	ToolID      string          `json:"tool_id"`
}

func (s *Server) handleCreateSave(w http.ResponseWriter, r *http.Request) {
	var req createSaveRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}

	save, err := s.saves.Create(r.Context(), actorFrom(r), services.CreateSaveInput{
		Name:        req.Name,
		Description: req.Description,
		Data:        req.Data,
		ToolID:      req.ToolID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, newSaveResource(save))
}

func (s *Server) handleGetSave(w http.ResponseWriter, r *http.Request) {
	save, err := s.saves.Get(r.Context(), actorFrom(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newSaveResource(save))
}

// patchSaveRequest carries either a lock-state change or a field edit.
// A body that mixes the two is rejected before any state is touched.
type patchSaveRequest struct {
	Lock        *bool           `json:"lock"`
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Data        json.RawMessage `json:"data"`
}

func (req *patchSaveRequest) hasEdit() bool {
	return req.Name != nil || req.Description != nil || req.Data != nil
}

func (s *Server) handlePatchSave(w http.ResponseWriter, r *http.Request) {
	var req patchSaveRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}

	id := r.PathValue("id")
	actor := actorFrom(r)

	switch {
	case req.Lock != nil && req.hasEdit():
		s.writeError(w, r, fmt.Errorf("%w: lock and edit fields are mutually exclusive", common.ErrValidation))
		return
	case req.Lock != nil:
		if err := s.saves.SetLock(r.Context(), actor, id, *req.Lock); err != nil {
			s.writeError(w, r, err)
			return
		}
	case req.hasEdit():
		patch := saves.FieldPatch{Name: req.Name, Description: req.Description, Data: req.Data}
		if err := s.saves.Edit(r.Context(), actor, id, patch); err != nil {
			s.writeError(w, r, err)
			return
		}
	default:
		s.writeError(w, r, fmt.Errorf("%w: request changes nothing", common.ErrValidation))
		return
	}

	// Locking does not require view access, so the response reports the
	// outcome instead of re-fetching the save.
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleDeleteSave(w http.ResponseWriter, r *http.Request) {
	if err := s.saves.Delete(r.Context(), actorFrom(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
