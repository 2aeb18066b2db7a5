package config

import "time"

// Default values for configuration fields.
const (
	// Proxy defaults
	DefaultListenAddress       = "127.0.0.1:8080"
	DefaultReadTimeout         = 30 * time.Second
	DefaultWriteTimeout        = 30 * time.Second
	DefaultIdleTimeout         = 120 * time.Second
	DefaultShutdownTimeout     = 30 * time.Second
	DefaultMaxHeaderBytes      = 1048576 // 1MB
	DefaultMaxBodyBytes        = 8 * 1024 * 1024
	DefaultInterceptionTimeout = time.Duration(0)
	DefaultPollInterval        = 500 * time.Millisecond

	// CA defaults
	DefaultCACommonName   = "APISec Analyst Root CA"
	DefaultCAOrganization = "Sentinel"
	DefaultCAKeySize      = 2048
	DefaultCARootValidity = 24 * time.Hour
	DefaultCALeafValidity = 24 * time.Hour
	DefaultLeafCacheMax   = 0 // unbounded

	// Scanner defaults
	DefaultEntropyThreshold   = 4.5
	DefaultMaxMatchContentLen = 80
	DefaultPluginDirectory    = "data/plugins"
	DefaultWatchPlugins       = false

	// Store defaults
	DefaultStorePath         = "data/sentinel.db"
	DefaultStoreMaxOpenConns = 5
	DefaultStoreMaxIdleConns = 5
	DefaultStoreBusyTimeout  = 5 * time.Second
	DefaultRetentionDays     = 0
	DefaultPruneSchedule     = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultLoggingRedact      = true
	DefaultMetricsEnabled     = true
	DefaultMetricsListen      = "127.0.0.1:9090"
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "sentinel"
	DefaultMetricsSubsystem   = "core"
	DefaultTracingEnabled     = false
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingServiceName = "sentinel"
	DefaultTracingSampleRatio = 1.0

	// API defaults
	DefaultAPIListenAddress = "127.0.0.1:8081"
)

// ApplyDefaults fills in zero-valued fields of cfg with the package defaults.
// It never overwrites a value the caller (or the YAML file) already set.
func ApplyDefaults(cfg *Config) {
	p := &cfg.Proxy
	if p.ListenAddress == "" {
		p.ListenAddress = DefaultListenAddress
	}
	if p.ReadTimeout == 0 {
		p.ReadTimeout = DefaultReadTimeout
	}
	if p.WriteTimeout == 0 {
		p.WriteTimeout = DefaultWriteTimeout
	}
	if p.IdleTimeout == 0 {
		p.IdleTimeout = DefaultIdleTimeout
	}
	if p.ShutdownTimeout == 0 {
		p.ShutdownTimeout = DefaultShutdownTimeout
	}
	if p.MaxHeaderBytes == 0 {
		p.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if p.MaxBodyBytes == 0 {
		p.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if p.PollInterval == 0 {
		p.PollInterval = DefaultPollInterval
	}

	c := &cfg.CA
	if c.CommonName == "" {
		c.CommonName = DefaultCACommonName
	}
	if c.Organization == "" {
		c.Organization = DefaultCAOrganization
	}
	if c.KeySize == 0 {
		c.KeySize = DefaultCAKeySize
	}
	if c.RootValidity == 0 {
		c.RootValidity = DefaultCARootValidity
	}
	if c.LeafValidity == 0 {
		c.LeafValidity = DefaultCALeafValidity
	}

	s := &cfg.Scanner
	if s.EntropyThreshold == 0 {
		s.EntropyThreshold = DefaultEntropyThreshold
	}
	if s.MaxMatchContentLength == 0 {
		s.MaxMatchContentLength = DefaultMaxMatchContentLen
	}
	if s.PluginDirectory == "" {
		s.PluginDirectory = DefaultPluginDirectory
	}

	st := &cfg.Store
	if st.Path == "" {
		st.Path = DefaultStorePath
	}
	if st.MaxOpenConns == 0 {
		st.MaxOpenConns = DefaultStoreMaxOpenConns
	}
	if st.MaxIdleConns == 0 {
		st.MaxIdleConns = DefaultStoreMaxIdleConns
	}
	if st.BusyTimeout == 0 {
		st.BusyTimeout = DefaultStoreBusyTimeout
	}
	if st.Retention.PruneSchedule == "" {
		st.Retention.PruneSchedule = DefaultPruneSchedule
	}

	l := &cfg.Telemetry.Logging
	if l.Level == "" {
		l.Level = DefaultLoggingLevel
	}
	if l.Format == "" {
		l.Format = DefaultLoggingFormat
	}

	m := &cfg.Telemetry.Metrics
	if m.ListenAddress == "" {
		m.ListenAddress = DefaultMetricsListen
	}
	if m.Path == "" {
		m.Path = DefaultMetricsPath
	}
	if m.Namespace == "" {
		m.Namespace = DefaultMetricsNamespace
	}
	if m.Subsystem == "" {
		m.Subsystem = DefaultMetricsSubsystem
	}

	t := &cfg.Telemetry.Tracing
	if t.Endpoint == "" {
		t.Endpoint = DefaultTracingEndpoint
	}
	if t.ServiceName == "" {
		t.ServiceName = DefaultTracingServiceName
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = DefaultTracingSampleRatio
	}

	a := &cfg.API
	if a.ListenAddress == "" {
		a.ListenAddress = DefaultAPIListenAddress
	}
}
