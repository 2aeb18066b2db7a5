package config

import (
	"time"

	securitytls "github.com/apisec/sentinel/pkg/security/tls"
)

// Config is the root configuration structure for Sentinel.
type Config struct {
	// Proxy contains the MITM proxy listener and interception defaults.
	Proxy ProxyConfig `yaml:"proxy"`

	// CA contains the dynamic certificate authority configuration.
	CA CAConfig `yaml:"ca"`

	// Scanner contains the passive pattern-matching scanner configuration.
	Scanner ScannerConfig `yaml:"scanner"`

	// Store contains the asset store persistence configuration.
	Store StoreConfig `yaml:"store"`

	// Telemetry contains logging, metrics, and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// API contains the control-plane HTTP listener configuration.
	API APIConfig `yaml:"api"`
}

// APIConfig contains configuration for the control-plane HTTP server:
// proxy lifecycle, interception resolution, asset/finding/rule/spec CRUD,
// and the WebSocket event feed.
type APIConfig struct {
	// ListenAddress is the loopback address and port the control plane
	// listens on. Kept distinct from Proxy.ListenAddress since one is MITM
	// traffic and the other is a JSON API.
	// Default: "127.0.0.1:8081"
	ListenAddress string `yaml:"listen_address"`

	// TLS optionally terminates the control plane behind its own TLS
	// (and, via TLS.MTLS, client-certificate) listener. Unlike the proxy's
	// per-host leaf certificates minted from the in-memory root CA, this
	// is a conventional static cert/key pair naming the control plane
	// itself — appropriate since the control plane, unlike the MITM
	// listener, is not required to present a certificate matching
	// arbitrary intercepted hostnames.
	// Default: disabled
	TLS securitytls.Config `yaml:"tls"`
}

// ProxyConfig contains configuration for the interception proxy.
type ProxyConfig struct {
	// ListenAddress is the loopback address and port the proxy listens on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a client request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request on a
	// keep-alive connection.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for in-flight flows
	// to complete during a graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes caps the size of request header lines.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes caps the number of request/response body bytes buffered
	// per message when capture or interception is active. Bodies beyond
	// this size are truncated.
	// Default: 8388608 (8MiB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CaptureBody enables buffering request and response bodies so the
	// scanner can inspect them, even when interception is disabled.
	// Default: false
	CaptureBody bool `yaml:"capture_body"`

	// InterceptRequests suspends every request awaiting an operator decision.
	// Default: false
	InterceptRequests bool `yaml:"intercept_requests"`

	// InterceptResponses suspends every response awaiting an operator decision.
	// Default: false
	InterceptResponses bool `yaml:"intercept_responses"`

	// InterceptionTimeout bounds how long a pending interception may wait
	// for an operator decision before it is auto-resolved with Forward.
	// Zero disables the timeout (a flow can wedge indefinitely, matching
	// the default described for the interception protocol).
	// Default: 0 (disabled)
	InterceptionTimeout time.Duration `yaml:"interception_timeout"`

	// PollInterval is how often the proxy's accept loop checks the shared
	// stop flag for graceful shutdown.
	// Default: 500ms
	PollInterval time.Duration `yaml:"poll_interval"`
}

// CAConfig contains configuration for the dynamic certificate authority.
type CAConfig struct {
	// CommonName is the root certificate's subject common name.
	// Default: "APISec Analyst Root CA"
	CommonName string `yaml:"common_name"`

	// Organization is the root certificate's subject organization.
	// Default: "Sentinel"
	Organization string `yaml:"organization"`

	// KeySize is the RSA key size in bits used for the root and every leaf.
	// Default: 2048
	KeySize int `yaml:"key_size"`

	// RootValidity is how long the process-lifetime root certificate remains
	// valid for.
	// Default: 24h
	RootValidity time.Duration `yaml:"root_validity"`

	// LeafValidity is how long each minted leaf certificate remains valid for.
	// Default: 24h
	LeafValidity time.Duration `yaml:"leaf_validity"`

	// LeafCacheMaxEntries bounds the host -> leaf certificate cache. Zero
	// means unbounded, matching the documented accepted default; a positive
	// value switches the cache to an LRU eviction policy.
	// Default: 0 (unbounded)
	LeafCacheMaxEntries int `yaml:"leaf_cache_max_entries"`
}

// ScannerConfig contains configuration for the passive vulnerability scanner.
type ScannerConfig struct {
	// EntropyThreshold is the minimum Shannon entropy (bits) a candidate
	// token must exceed to be reported as a high-entropy secret.
	// Default: 4.5
	EntropyThreshold float64 `yaml:"entropy_threshold"`

	// MaxMatchContentLength truncates long matched literals (such as JWTs)
	// to this many characters before they are stored on a Finding.
	// Default: 80
	MaxMatchContentLength int `yaml:"max_match_content_length"`

	// PluginDirectory is the filesystem directory scanned for YAML rule
	// packs on every scan invocation.
	// Default: "data/plugins"
	PluginDirectory string `yaml:"plugin_directory"`

	// WatchPlugins is read from YAML and SENTINEL_SCANNER_WATCH_PLUGINS,
	// but nothing in this module reads it back or starts the fsnotify
	// watcher (plugins.Watch). Every scan reloads rule packs from disk
	// regardless, so the flag does not affect when rule changes take effect.
	// Default: false
	WatchPlugins bool `yaml:"watch_plugins"`
}

// StoreConfig contains configuration for the SQLite-backed asset store.
type StoreConfig struct {
	// Path is the SQLite database file path for the current workspace.
	// Default: "data/sentinel.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 5
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle database connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// BusyTimeout is how long a statement waits on a locked database before
	// failing.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// Retention contains asset-history pruning configuration.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig contains asset-history retention configuration.
// It never touches the assets or findings tables themselves, only the
// append-only asset_history snapshots, and only when explicitly enabled.
type RetentionConfig struct {
	// Days is the number of days of asset_history rows to retain. Zero
	// disables pruning, preserving the default unbounded history.
	// Default: 0 (disabled)
	Days int `yaml:"days"`

	// PruneSchedule is a cron expression controlling how often the pruning
	// job runs when Days > 0.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log encoding: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes the source file and line in each log entry.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactSecrets scrubs JWT/API-key/basic-auth shaped substrings from
	// logged field values before they reach the handler.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics HTTP endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address the metrics endpoint binds to.
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path the metrics are exposed on.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the Prometheus metric namespace prefix.
	// Default: "sentinel"
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus metric subsystem prefix.
	// Default: "core"
	Subsystem string `yaml:"subsystem"`
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are created and exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName identifies this process in exported spans.
	// Default: "sentinel"
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the fraction of flows traced, between 0 and 1.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`
}
