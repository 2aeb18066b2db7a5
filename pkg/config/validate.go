package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a single configuration validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of ValidationError, itself an error.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	lines := make([]string, 0, len(e))
	for _, v := range e {
		lines = append(lines, "  - "+v.String())
	}
	return fmt.Sprintf("configuration validation failed with %d error(s):\n%s", len(e), strings.Join(lines, "\n"))
}

// Validate checks cfg for internally-consistent, usable values. It assumes
// ApplyDefaults has already been called.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Proxy.ListenAddress == "" {
		errs = append(errs, ValidationError{"proxy.listen_address", "must not be empty"})
	}
	if cfg.Proxy.MaxBodyBytes <= 0 {
		errs = append(errs, ValidationError{"proxy.max_body_bytes", "must be positive"})
	}
	if cfg.Proxy.InterceptionTimeout < 0 {
		errs = append(errs, ValidationError{"proxy.interception_timeout", "must not be negative"})
	}
	if cfg.Proxy.PollInterval <= 0 {
		errs = append(errs, ValidationError{"proxy.poll_interval", "must be positive"})
	}

	switch cfg.CA.KeySize {
	case 2048, 3072, 4096:
	default:
		errs = append(errs, ValidationError{"ca.key_size", "must be 2048, 3072, or 4096"})
	}
	if cfg.CA.CommonName == "" {
		errs = append(errs, ValidationError{"ca.common_name", "must not be empty"})
	}
	if cfg.CA.LeafCacheMaxEntries < 0 {
		errs = append(errs, ValidationError{"ca.leaf_cache_max_entries", "must not be negative"})
	}

	if cfg.Scanner.EntropyThreshold <= 0 || cfg.Scanner.EntropyThreshold > 8 {
		errs = append(errs, ValidationError{"scanner.entropy_threshold", "must be between 0 and 8 bits"})
	}
	if cfg.Scanner.MaxMatchContentLength <= 0 {
		errs = append(errs, ValidationError{"scanner.max_match_content_length", "must be positive"})
	}

	if cfg.Store.Path == "" {
		errs = append(errs, ValidationError{"store.path", "must not be empty"})
	}
	if cfg.Store.MaxOpenConns <= 0 {
		errs = append(errs, ValidationError{"store.max_open_conns", "must be positive"})
	}
	if cfg.Store.Retention.Days < 0 {
		errs = append(errs, ValidationError{"store.retention.days", "must not be negative"})
	}

	switch strings.ToLower(cfg.Telemetry.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{"telemetry.logging.level", "must be one of debug, info, warn, error"})
	}
	switch strings.ToLower(cfg.Telemetry.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, ValidationError{"telemetry.logging.format", "must be one of json, text"})
	}
	if cfg.Telemetry.Tracing.SampleRatio < 0 || cfg.Telemetry.Tracing.SampleRatio > 1 {
		errs = append(errs, ValidationError{"telemetry.tracing.sample_ratio", "must be between 0 and 1"})
	}

	if cfg.API.ListenAddress == "" {
		errs = append(errs, ValidationError{"api.listen_address", "must not be empty"})
	}
	if cfg.API.TLS.Enabled {
		if cfg.API.TLS.CertFile == "" {
			errs = append(errs, ValidationError{"api.tls.cert_file", "must not be empty when api.tls.enabled is true"})
		}
		if cfg.API.TLS.KeyFile == "" {
			errs = append(errs, ValidationError{"api.tls.key_file", "must not be empty when api.tls.enabled is true"})
		}
		if cfg.API.TLS.MTLS.Enabled && cfg.API.TLS.MTLS.ClientCAFile == "" {
			errs = append(errs, ValidationError{"api.tls.mtls.client_ca_file", "must not be empty when api.tls.mtls.enabled is true"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
