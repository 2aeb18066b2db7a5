package api

import "net/http"

// handleListSpecs implements get_api_specs.
func (s *Server) handleListSpecs(w http.ResponseWriter, r *http.Request) {
	specs, err := s.store.GetAPISpecs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, specs)
}

type addSpecRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Version string `json:"version,omitempty"`
}

// handleAddSpec implements add_api_spec. The stored document is validated
// only as non-empty text here; drift.Detector tolerates whatever it
// cannot parse by treating the spec as contributing no paths (see
// pkg/drift's path-matching doc comments).
func (s *Server) handleAddSpec(w http.ResponseWriter, r *http.Request) {
	var req addSpecRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed spec: "+err.Error())
		return
	}
	if req.Name == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "name and content are required")
		return
	}
	id, err := s.store.AddAPISpec(r.Context(), req.Name, req.Content, req.Version)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

// handleDeleteSpec implements delete_api_spec.
func (s *Server) handleDeleteSpec(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid spec id")
		return
	}
	if err := s.store.DeleteAPISpec(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
