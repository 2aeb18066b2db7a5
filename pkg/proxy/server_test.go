package proxy

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/apisec/sentinel/pkg/config"
)

func waitUntilRunning(t *testing.T, s *Server) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s.IsRunning() && s.Addr() != "" {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("server did not start in time")
}

func TestServerServesPlainHTTPProxyRequest(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer upstream.Close()

	store := &recordingStore{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.ProxyConfig{ListenAddress: "127.0.0.1:0", PollInterval: 10 * time.Millisecond}
	s := NewServer(cfg, nil, nil, nil, store, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(context.Background()) }()
	waitUntilRunning(t, s)

	req, err := http.NewRequest(http.MethodGet, upstream.URL, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	resp, err := (&http.Client{
		Transport: &http.Transport{
			Proxy:             http.ProxyURL(mustParseURL(t, "http://"+s.Addr())),
			DisableKeepAlives: true,
		},
	}).Do(req)
	if err != nil {
		t.Fatalf("request through proxy failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Errorf("expected body %q, got %q", "ok", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
}

func TestServerRejectsSecondStart(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.ProxyConfig{ListenAddress: "127.0.0.1:0", PollInterval: 10 * time.Millisecond}
	s := NewServer(cfg, nil, nil, nil, nil, logger)

	go func() { _ = s.Start(context.Background()) }()
	waitUntilRunning(t, s)

	if err := s.Start(context.Background()); err != ErrAlreadyRunning {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.Shutdown(ctx)
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse url %q: %v", raw, err)
	}
	return u
}
