package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/apisec/sentinel/pkg/asset"
	"github.com/apisec/sentinel/pkg/proxy/events"
	"github.com/apisec/sentinel/pkg/proxy/intercept"
	"github.com/apisec/sentinel/pkg/proxy/middleware"
	securitytls "github.com/apisec/sentinel/pkg/security/tls"
	"github.com/apisec/sentinel/pkg/store"
	"github.com/apisec/sentinel/pkg/telemetry/health"
)

// ProxyController is the subset of *proxy.Server the control plane drives:
// lifecycle, interception configuration, interception resolution, and the
// root CA certificate. Defined locally rather than imported so pkg/api
// depends on behavior, not on proxy.Server's concrete type.
type ProxyController interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
	SetInterceptionConfig(captureBody, interceptRequests, interceptResponses bool)
	ResolveInterception(id string, result intercept.Result) error
	RootCAPEM() []byte
	IsRunning() bool
	Addr() string
}

// AssetStore is the subset of *store.Store the control plane exposes over
// HTTP: asset/finding CRUD, custom rules, and API specs.
type AssetStore interface {
	GetAssets(ctx context.Context) ([]asset.Asset, error)
	AddAsset(ctx context.Context, req store.CreateAssetRequest) (int64, error)
	BatchAddAssets(ctx context.Context, urls []string, source string) ([]store.BatchAssetResult, error)
	DeleteAsset(ctx context.Context, id int64) error
	ClearInventory(ctx context.Context) error
	GetAssetHistory(ctx context.Context, assetID int64) ([]asset.HistoryEntry, error)
	GlobalSearch(ctx context.Context, substr string) ([]asset.Asset, []asset.Finding, error)

	GetFindings(ctx context.Context, assetID int64) ([]asset.Finding, error)
	UpdateFindingAnnotation(ctx context.Context, findingID int64, notes string, falsePositive bool, severityOverride asset.Severity) error

	GetCustomRules(ctx context.Context) ([]store.CustomRuleRecord, error)
	AddCustomRule(ctx context.Context, r store.CustomRuleRecord) (int64, error)
	DeleteCustomRule(ctx context.Context, id int64) error

	GetAPISpecs(ctx context.Context) ([]store.ApiSpecRecord, error)
	AddAPISpec(ctx context.Context, name, content, version string) (int64, error)
	DeleteAPISpec(ctx context.Context, id int64) error

	AddTag(ctx context.Context, assetID int64, name string) error
	RemoveTag(ctx context.Context, assetID int64, name string) error
	ListTagsForAsset(ctx context.Context, assetID int64) ([]string, error)

	Ping(ctx context.Context) error
}

// Server is the control-plane HTTP server: proxy lifecycle, interception
// resolution, asset/finding/rule/spec CRUD, and the WebSocket event feed.
type Server struct {
	proxy  ProxyController
	store  AssetStore
	hub    *events.Hub
	health *health.Checker
	logger *slog.Logger

	httpServer *http.Server
	reloader   *securitytls.CertificateReloader
}

// buildVersion, buildCommit, and buildDate back the /version endpoint.
// They default to placeholders; cmd/sentinel overrides them from its own
// build-time version variables before constructing a Server.
var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

// SetBuildInfo overrides the values the control plane's /version endpoint
// reports. Call before NewServer.
func SetBuildInfo(version, commit, date string) {
	buildVersion, buildCommit, buildDate = version, commit, date
}

// Config controls the control-plane listener.
type Config struct {
	ListenAddress   string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// TLS optionally terminates the control-plane listener over TLS,
	// with optional mutual TLS client-certificate authentication. Unlike
	// the proxy's per-host leaf certificates, this is a single static
	// cert/key pair naming the control plane.
	TLS securitytls.Config
}

// NewServer builds a control-plane Server over an already-constructed
// proxy, asset store, and event hub. If cfg.TLS.Enabled, the returned
// Server serves TLS (and, if cfg.TLS.MTLS.Enabled, requires a verified
// client certificate on every connection) rather than plaintext HTTP.
func NewServer(cfg Config, proxy ProxyController, store AssetStore, hub *events.Hub, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	checker := health.New(5 * time.Second)
	checker.RegisterCheck("asset_store", store.Ping)
	s := &Server{proxy: proxy, store: store, hub: hub, health: checker, logger: logger}

	handler := s.routes()
	if cfg.TLS.MTLS.Enabled {
		handler = mtlsIdentityMiddleware(cfg.TLS.MTLS.IdentitySource, logger)(handler)
	}
	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if cfg.TLS.Enabled {
		tlsConfig, err := cfg.TLS.ToTLSConfig()
		if err != nil {
			return nil, err
		}
		// Rotate the serving certificate from disk on cfg.TLS.ReloadInterval
		// rather than pinning the pair ToTLSConfig loaded at startup, so a
		// renewed cert/key pair takes effect without restarting the control
		// plane.
		s.reloader = securitytls.NewCertificateReloader(cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.TLS.ParseReloadInterval())
		tlsConfig.GetCertificate = s.reloader.GetCertificateFunc()
		s.httpServer.TLSConfig = tlsConfig
	}
	return s, nil
}

// routes assembles the mux and wraps it in the shared middleware chain,
// outermost first: CORS, recovery, request-id, logging.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/control/start", s.handleControlStart)
	mux.HandleFunc("POST /v1/control/stop", s.handleControlStop)
	mux.HandleFunc("POST /v1/control/interception-config", s.handleSetInterceptionConfig)
	mux.HandleFunc("GET /v1/control/status", s.handleControlStatus)

	mux.HandleFunc("POST /v1/intercept/{id}/resolve", s.handleResolveInterception)

	mux.HandleFunc("GET /v1/ca/root", s.handleRootCA)

	mux.HandleFunc("GET /v1/assets", s.handleListAssets)
	mux.HandleFunc("POST /v1/assets", s.handleAddAsset)
	mux.HandleFunc("POST /v1/assets/batch", s.handleBatchAddAssets)
	mux.HandleFunc("DELETE /v1/assets/{id}", s.handleDeleteAsset)
	mux.HandleFunc("POST /v1/assets/clear", s.handleClearInventory)
	mux.HandleFunc("GET /v1/assets/{id}/history", s.handleAssetHistory)
	mux.HandleFunc("GET /v1/assets/{id}/findings", s.handleAssetFindings)
	mux.HandleFunc("POST /v1/assets/{id}/tags", s.handleAddTag)
	mux.HandleFunc("DELETE /v1/assets/{id}/tags/{name}", s.handleRemoveTag)

	mux.HandleFunc("PATCH /v1/findings/{id}", s.handleUpdateFinding)

	mux.HandleFunc("GET /v1/search", s.handleGlobalSearch)

	mux.HandleFunc("GET /v1/rules", s.handleListRules)
	mux.HandleFunc("POST /v1/rules", s.handleAddRule)
	mux.HandleFunc("DELETE /v1/rules/{id}", s.handleDeleteRule)

	mux.HandleFunc("GET /v1/specs", s.handleListSpecs)
	mux.HandleFunc("POST /v1/specs", s.handleAddSpec)
	mux.HandleFunc("DELETE /v1/specs/{id}", s.handleDeleteSpec)

	mux.HandleFunc("GET /v1/events", s.hub.HandleWebSocket)

	health.HTTPMiddleware(mux, s.health, buildVersion, buildCommit, buildDate)

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)
	handler = middleware.CORSMiddleware(middleware.DefaultCORSConfig())(handler)
	return handler
}

// Start runs the control-plane listener until Shutdown is called or ctx
// is cancelled. Mirrors proxy.Server.Start's blocking contract.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("control plane listening", "addr", s.httpServer.Addr)

	if s.reloader != nil {
		if err := s.reloader.Start(ctx); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if s.httpServer.TLSConfig != nil {
			// The serving certificate comes from TLSConfig.GetCertificate
			// (the reloader above), not the static pair; empty paths here
			// just tell ListenAndServeTLS to defer to TLSConfig.
			err = s.httpServer.ListenAndServeTLS("", "")
		} else {
			err = s.httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
