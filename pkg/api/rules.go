package api

import (
	"net/http"

	"github.com/apisec/sentinel/pkg/store"
)

// handleListRules implements get_custom_rules.
func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.store.GetCustomRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

// handleAddRule implements add_custom_rule. A bad regex is rejected here
// rather than at scan time, since scanner.Scanner skips an uncompilable
// rule silently and an operator adding one would otherwise never learn
// why it never fires.
func (s *Server) handleAddRule(w http.ResponseWriter, r *http.Request) {
	var req store.CustomRuleRecord
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed rule: "+err.Error())
		return
	}
	if req.RuleID == "" || req.Regex == "" {
		writeError(w, http.StatusBadRequest, "rule_id and regex are required")
		return
	}
	if err := validateRegex(req.Regex); err != nil {
		writeError(w, http.StatusBadRequest, "invalid regex: "+err.Error())
		return
	}

	id, err := s.store.AddCustomRule(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

// handleDeleteRule implements delete_custom_rule.
func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rule id")
		return
	}
	if err := s.store.DeleteCustomRule(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
