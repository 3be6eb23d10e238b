package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/savekeeper/internal/common"
)

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	tools, err := s.tools.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newToolResources(tools))
}

type createToolRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateTool(w http.ResponseWriter, r *http.Request) {
	var req createToolRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}

	tool, err := s.tools.Create(r.Context(), actorFrom(r), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toolResource{ID: tool.ID, Name: tool.Name, CreatedAt: tool.CreatedAt})
}
