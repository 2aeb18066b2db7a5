package proxy

import (
	"io"
	"net/http"
	"strings"
)

const wsDropBody = "proxy: request dropped by operator"

// isWebSocketUpgrade reports whether req is a WebSocket upgrade request,
// which bypasses response interception and body capture since the bytes
// after upgrade are not HTTP.
func isWebSocketUpgrade(req *http.Request) bool {
	return strings.EqualFold(req.Header.Get("Upgrade"), "websocket")
}

// readCappedBody reads up to max bytes from r and reports whether the
// body was truncated. A non-positive max disables the cap.
func readCappedBody(r io.Reader, max int64) ([]byte, bool, error) {
	if max <= 0 {
		b, err := io.ReadAll(r)
		return b, false, err
	}

	limited := io.LimitReader(r, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, false, err
	}
	if int64(len(b)) > max {
		return b[:max], true, nil
	}
	return b, false, nil
}

// cloneHeader returns a deep copy of h.
func cloneHeader(h http.Header) map[string][]string {
	out := make(map[string][]string, len(h))
	for k, v := range h {
		vv := make([]string, len(v))
		copy(vv, v)
		out[k] = vv
	}
	return out
}

// headerFromMap converts a plain map back into an http.Header, used when
// applying a ModifyRequest/ModifyResponse decision's replacement headers.
func headerFromMap(m map[string][]string) http.Header {
	h := make(http.Header, len(m))
	for k, v := range m {
		h[k] = v
	}
	return h
}
