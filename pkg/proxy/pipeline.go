package proxy

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/apisec/sentinel/pkg/asset"
	"github.com/apisec/sentinel/pkg/proxy/events"
	"github.com/apisec/sentinel/pkg/proxy/intercept"
)

// handleFlow runs one request through the full interception/forward/
// analyze/store pipeline described by the interception protocol and
// returns the response to write back to the client. req.URL must already
// be absolute.
func (s *Server) handleFlow(ctx context.Context, req *http.Request) *http.Response {
	captureBody := s.cfg.CaptureBody || s.cfg.InterceptRequests
	var reqBody []byte
	if captureBody && req.Body != nil {
		body, _, err := readCappedBody(req.Body, s.cfg.MaxBodyBytes)
		_ = req.Body.Close()
		if err == nil {
			reqBody = body
		}
		req.Body = io.NopCloser(bytes.NewReader(reqBody))
		req.ContentLength = int64(len(reqBody))
	}

	if s.cfg.InterceptRequests {
		decision, ok := s.suspendRequest(ctx, req, reqBody)
		if ok && decision.Decision == intercept.Drop {
			return s.dropResponse(ctx, req, decision)
		}
		if ok {
			req, reqBody = applyRequestDecision(req, reqBody, decision)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("upstream request failed", "url", req.URL.String(), "error", err)
		return errorResponse(req, http.StatusBadGateway, "proxy: upstream request failed")
	}

	isWS := isWebSocketUpgrade(req) && resp.StatusCode == http.StatusSwitchingProtocols
	var respBody []byte
	if !isWS && (s.cfg.CaptureBody || s.cfg.InterceptResponses) && resp.Body != nil {
		body, _, err := readCappedBody(resp.Body, s.cfg.MaxBodyBytes)
		_ = resp.Body.Close()
		if err == nil {
			respBody = body
		}
		resp.Body = io.NopCloser(bytes.NewReader(respBody))
		resp.ContentLength = int64(len(respBody))
	}

	if s.cfg.InterceptResponses && !isWS {
		decision, ok := s.suspendResponse(ctx, req, resp, respBody)
		if ok {
			resp, respBody = applyResponseDecision(resp, respBody, decision)
		}
	}

	findingsCount := s.analyzeAndStore(ctx, req, resp, reqBody, respBody, isWS)

	if s.hub != nil {
		s.hub.Broadcast(events.ProxyTraffic, events.TrafficPayload{
			Method:                  req.Method,
			URL:                     req.URL.String(),
			Status:                  resp.StatusCode,
			IsWebSocket:             isWS,
			CapturedVulnerabilities: findingsCount,
		})
	}

	return resp
}

// suspendRequest registers a pending request interception, emits the
// event, and blocks until an operator resolves it or a configured
// timeout elapses.
func (s *Server) suspendRequest(ctx context.Context, req *http.Request, body []byte) (intercept.Result, bool) {
	id, ch := s.coordinator.Requests.Register()
	if s.hub != nil {
		s.hub.Broadcast(events.ProxyInterceptRequest, events.InterceptRequestPayload{
			ID:      id,
			Method:  req.Method,
			URL:     req.URL.String(),
			Headers: cloneHeader(req.Header),
			Body:    body,
		})
	}
	result, err := s.coordinator.Requests.Await(ctx, id, ch, s.coordinator.Timeout)
	if err != nil {
		return intercept.Result{}, false
	}
	return result.ForRequestPhase(), true
}

// suspendResponse registers a pending response interception, emits the
// event, and blocks until an operator resolves it or a configured timeout
// elapses.
func (s *Server) suspendResponse(ctx context.Context, req *http.Request, resp *http.Response, body []byte) (intercept.Result, bool) {
	id, ch := s.coordinator.Responses.Register()
	if s.hub != nil {
		s.hub.Broadcast(events.ProxyInterceptResponse, events.InterceptResponsePayload{
			ID:      id,
			Status:  resp.StatusCode,
			Method:  req.Method,
			URL:     req.URL.String(),
			Headers: cloneHeader(resp.Header),
			Body:    body,
		})
	}
	result, err := s.coordinator.Responses.Await(ctx, id, ch, s.coordinator.Timeout)
	if err != nil {
		return intercept.Result{}, false
	}
	return result.ForResponsePhase(), true
}

// applyRequestDecision applies a ModifyRequest decision, falling back to
// the original field for any replacement that fails validation.
func applyRequestDecision(req *http.Request, body []byte, decision intercept.Result) (*http.Request, []byte) {
	if decision.Decision != intercept.ModifyRequest {
		return req, body
	}
	if decision.Method != "" {
		req.Method = decision.Method
	}
	if decision.URL != "" {
		if u, err := req.URL.Parse(decision.URL); err == nil {
			req.URL = u
			req.Host = u.Host
		}
	}
	if decision.Headers != nil {
		req.Header = headerFromMap(decision.Headers)
	}
	if decision.Body != nil {
		body = decision.Body
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.ContentLength = int64(len(body))
	}
	return req, body
}

// applyResponseDecision applies a ModifyResponse decision, falling back to
// the original field for any replacement that fails validation.
func applyResponseDecision(resp *http.Response, body []byte, decision intercept.Result) (*http.Response, []byte) {
	if decision.Decision != intercept.ModifyResponse {
		return resp, body
	}
	if decision.StatusCode != 0 {
		resp.StatusCode = decision.StatusCode
	}
	if decision.Headers != nil {
		resp.Header = headerFromMap(decision.Headers)
	}
	if decision.Body != nil {
		body = decision.Body
		resp.Body = io.NopCloser(bytes.NewReader(body))
		resp.ContentLength = int64(len(body))
	}
	return resp, body
}

// dropResponse builds the fixed 403 response returned for a Drop decision
// and still reports the drop on the event stream; no upstream call is made
// and no flow is analyzed or stored.
func (s *Server) dropResponse(ctx context.Context, req *http.Request, decision intercept.Result) *http.Response {
	if s.hub != nil {
		s.hub.Broadcast(events.ProxyTraffic, events.TrafficPayload{
			Method: req.Method,
			URL:    req.URL.String(),
			Status: http.StatusForbidden,
		})
	}
	return errorResponse(req, http.StatusForbidden, wsDropBody)
}

// analyzeAndStore hands the observed Flow to the Analyzer and AssetStore,
// if configured, and returns the number of Findings raised.
func (s *Server) analyzeAndStore(ctx context.Context, req *http.Request, resp *http.Response, reqBody, respBody []byte, isWS bool) int {
	flow := asset.Flow{
		Method:          req.Method,
		URL:             req.URL.String(),
		StatusCode:      resp.StatusCode,
		RequestHeaders:  cloneHeader(req.Header),
		ResponseHeaders: cloneHeader(resp.Header),
		RequestBody:     reqBody,
		ResponseBody:    respBody,
		IsWebSocket:     isWS,
		ObservedAt:      time.Now(),
	}

	var findings []asset.Finding
	if s.analyzer != nil && !isWS {
		found, err := s.analyzer.Analyze(ctx, flow)
		if err != nil {
			s.logger.Warn("analysis failed", "url", flow.URL, "error", err)
		} else {
			findings = found
		}
	}

	if s.store != nil {
		if err := s.store.RecordFlow(ctx, flow, findings); err != nil {
			s.logger.Warn("failed to record flow", "url", flow.URL, "error", err)
		}
	}

	return len(findings)
}

func errorResponse(req *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Status:        http.StatusText(status),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{"Content-Type": []string{"text/plain; charset=utf-8"}},
		Body:          io.NopCloser(bytes.NewReader([]byte(body))),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
