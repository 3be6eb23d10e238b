package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/savekeeper/internal/common"
)

func (s *Server) handleListShares(w http.ResponseWriter, r *http.Request) {
	grants, err := s.shares.ListForSave(r.Context(), actorFrom(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newShareResources(grants))
}

type grantShareRequest struct {
	UserID     string `json:"user_id"`
	Permission int    `json:"permission"`
}

func (s *Server) handleGrantShare(w http.ResponseWriter, r *http.Request) {
	var req grantShareRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}

	grant, err := s.shares.Grant(r.Context(), actorFrom(r), r.PathValue("id"), req.UserID, req.Permission)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, newShareResource(grant))
}

func (s *Server) handleAcceptShare(w http.ResponseWriter, r *http.Request) {
	if err := s.shares.Accept(r.Context(), actorFrom(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleRevokeShare(w http.ResponseWriter, r *http.Request) {
	if err := s.shares.Revoke(r.Context(), actorFrom(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
