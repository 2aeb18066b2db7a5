package api

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"

	"github.com/apisec/sentinel/pkg/proxy/types"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	var resp *types.ErrorResponse
	switch status {
	case http.StatusBadRequest:
		resp = types.NewInvalidRequestError(message)
	case http.StatusNotFound:
		resp = types.NewNotFoundError(message)
	default:
		resp = types.NewServerError(message)
	}
	writeJSON(w, status, resp)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func pathInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func validateRegex(pattern string) error {
	_, err := regexp.Compile(pattern)
	return err
}
