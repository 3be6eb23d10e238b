package httpapi

import "net/http"

type snapshotCreatedResponse struct {
	Snapshot  snapshotResource `json:"snapshot"`
	UploadURL string           `json:"upload_url"`
}

func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, url, err := s.snapshots.RequestUpload(r.Context(), actorFrom(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, snapshotCreatedResponse{
		Snapshot:  newSnapshotResource(snapshot),
		UploadURL: url,
	})
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := s.snapshots.ListForSave(r.Context(), actorFrom(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newSnapshotResources(snapshots))
}

func (s *Server) handleSnapshotURL(w http.ResponseWriter, r *http.Request) {
	url, err := s.snapshots.GetDownloadURL(r.Context(), actorFrom(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
