package api

import (
	"net/http"

	"github.com/apisec/sentinel/pkg/asset"
)

type updateFindingRequest struct {
	Notes            string `json:"notes"`
	FalsePositive    bool   `json:"false_positive"`
	SeverityOverride string `json:"severity_override,omitempty"`
}

// handleUpdateFinding implements update_finding_annotation. Only notes,
// false-positive, and severity-override are mutable.
func (s *Server) handleUpdateFinding(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid finding id")
		return
	}
	var req updateFindingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed annotation: "+err.Error())
		return
	}
	err = s.store.UpdateFindingAnnotation(r.Context(), id, req.Notes, req.FalsePositive, asset.Severity(req.SeverityOverride))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
