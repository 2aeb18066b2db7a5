package api

import (
	"context"
	"net/http"

	"github.com/apisec/sentinel/pkg/proxy/intercept"
)

// handleControlStart implements the start_proxy_server command.
// The proxy is already constructed at process startup; starting it here
// only makes sense if it was previously stopped via /v1/control/stop, so
// this runs it in a background goroutine and returns immediately.
func (s *Server) handleControlStart(w http.ResponseWriter, r *http.Request) {
	if s.proxy.IsRunning() {
		writeJSON(w, http.StatusOK, map[string]any{"running": true})
		return
	}
	go func() {
		if err := s.proxy.Start(context.WithoutCancel(r.Context())); err != nil {
			s.logger.Error("proxy start failed", "error", err)
		}
	}()
	writeJSON(w, http.StatusAccepted, map[string]any{"running": true})
}

// handleControlStop implements stop_proxy_server.
func (s *Server) handleControlStop(w http.ResponseWriter, r *http.Request) {
	if err := s.proxy.Shutdown(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"running": false})
}

// handleControlStatus reports whether the proxy is currently accepting
// connections and where.
func (s *Server) handleControlStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"running": s.proxy.IsRunning(),
		"addr":    s.proxy.Addr(),
		"clients": s.hub.ClientCount(),
	})
}

type interceptionConfigRequest struct {
	CaptureBody        bool `json:"capture_body"`
	InterceptRequests  bool `json:"intercept_requests"`
	InterceptResponses bool `json:"intercept_responses"`
}

// handleSetInterceptionConfig implements set_proxy_interception_config.
func (s *Server) handleSetInterceptionConfig(w http.ResponseWriter, r *http.Request) {
	var req interceptionConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed interception config: "+err.Error())
		return
	}
	s.proxy.SetInterceptionConfig(req.CaptureBody, req.InterceptRequests, req.InterceptResponses)
	writeJSON(w, http.StatusOK, req)
}

// resolveInterceptionRequest mirrors the InterceptResult tagged
// union: Decision selects which of the remaining fields are meaningful.
type resolveInterceptionRequest struct {
	Decision   string              `json:"decision"` // "forward" | "drop" | "modify_request" | "modify_response"
	Method     string              `json:"method,omitempty"`
	URL        string              `json:"url,omitempty"`
	Headers    map[string][]string `json:"headers,omitempty"`
	Body       []byte              `json:"body,omitempty"`
	StatusCode int                 `json:"status_code,omitempty"`
}

func decisionFromString(s string) intercept.Decision {
	switch s {
	case "drop":
		return intercept.Drop
	case "modify_request":
		return intercept.ModifyRequest
	case "modify_response":
		return intercept.ModifyResponse
	default:
		return intercept.Forward
	}
}

// handleResolveInterception implements resolve_interception.
func (s *Server) handleResolveInterception(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req resolveInterceptionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed interception resolution: "+err.Error())
		return
	}

	result := intercept.Result{
		Decision:   decisionFromString(req.Decision),
		Method:     req.Method,
		URL:        req.URL,
		Headers:    req.Headers,
		Body:       req.Body,
		StatusCode: req.StatusCode,
	}
	if err := s.proxy.ResolveInterception(id, result); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "resolved": true})
}

// handleRootCA implements get_root_ca, returning the proxy's in-memory
// root certificate as PEM.
func (s *Server) handleRootCA(w http.ResponseWriter, r *http.Request) {
	pem := s.proxy.RootCAPEM()
	w.Header().Set("Content-Type", "application/x-pem-file")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pem)
}
