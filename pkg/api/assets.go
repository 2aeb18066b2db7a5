package api

import (
	"net/http"

	"github.com/apisec/sentinel/pkg/store"
)

// handleListAssets implements get_assets.
func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.store.GetAssets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

type addAssetRequest struct {
	URL        string `json:"url"`
	Source     string `json:"source"`
	Method     string `json:"method"`
	StatusCode int    `json:"status_code"`
	ReqBody    []byte `json:"req_body,omitempty"`
	ResBody    []byte `json:"res_body,omitempty"`
}

// handleAddAsset implements add_asset. Findings come from the proxy's own
// Analyzer pipeline for live traffic; an asset added directly through the
// control plane carries none of its own.
func (s *Server) handleAddAsset(w http.ResponseWriter, r *http.Request) {
	var req addAssetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed asset: "+err.Error())
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	id, err := s.store.AddAsset(r.Context(), store.CreateAssetRequest{
		URL:        req.URL,
		Source:     req.Source,
		Method:     req.Method,
		StatusCode: req.StatusCode,
		ReqBody:    req.ReqBody,
		ResBody:    req.ResBody,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

type batchAddAssetsRequest struct {
	URLs   []string `json:"urls"`
	Source string   `json:"source"`
}

// handleBatchAddAssets implements batch_add_assets.
func (s *Server) handleBatchAddAssets(w http.ResponseWriter, r *http.Request) {
	var req batchAddAssetsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed batch request: "+err.Error())
		return
	}
	results, err := s.store.BatchAddAssets(r.Context(), req.URLs, req.Source)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// handleDeleteAsset implements delete_asset.
func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid asset id")
		return
	}
	if err := s.store.DeleteAsset(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClearInventory implements clear_inventory.
func (s *Server) handleClearInventory(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ClearInventory(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAssetHistory implements get_asset_history.
func (s *Server) handleAssetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid asset id")
		return
	}
	history, err := s.store.GetAssetHistory(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// handleAssetFindings implements get_findings.
func (s *Server) handleAssetFindings(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid asset id")
		return
	}
	findings, err := s.store.GetFindings(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, findings)
}

type addTagRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleAddTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid asset id")
		return
	}
	var req addTagRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "tag name is required")
		return
	}
	if err := s.store.AddTag(r.Context(), id, req.Name); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	tags, err := s.store.ListTagsForAsset(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleRemoveTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid asset id")
		return
	}
	name := r.PathValue("name")
	if err := s.store.RemoveTag(r.Context(), id, name); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGlobalSearch implements global_search.
func (s *Server) handleGlobalSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}
	assets, findings, err := s.store.GlobalSearch(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assets": assets, "findings": findings})
}
