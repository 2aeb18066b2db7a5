package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Boolean fields whose default is true are preset here, since
	// ApplyDefaults cannot tell an omitted false from an explicit one.
	cfg := Config{Telemetry: TelemetryConfig{
		Logging: LoggingConfig{RedactSecrets: DefaultLoggingRedact},
		Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
	}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention SENTINEL_SECTION_FIELD (e.g., SENTINEL_PROXY_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies SENTINEL_* environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("SENTINEL_PROXY_LISTEN_ADDRESS"); val != "" {
		cfg.Proxy.ListenAddress = val
	}
	if val := os.Getenv("SENTINEL_PROXY_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Proxy.ReadTimeout = d
		}
	}
	if val := os.Getenv("SENTINEL_PROXY_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Proxy.WriteTimeout = d
		}
	}
	if val := os.Getenv("SENTINEL_PROXY_MAX_HEADER_BYTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Proxy.MaxHeaderBytes = i
		}
	}
	if val := os.Getenv("SENTINEL_PROXY_MAX_BODY_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Proxy.MaxBodyBytes = i
		}
	}
	if val := os.Getenv("SENTINEL_PROXY_CAPTURE_BODY"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Proxy.CaptureBody = b
		}
	}
	if val := os.Getenv("SENTINEL_PROXY_INTERCEPT_REQUESTS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Proxy.InterceptRequests = b
		}
	}
	if val := os.Getenv("SENTINEL_PROXY_INTERCEPT_RESPONSES"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Proxy.InterceptResponses = b
		}
	}
	if val := os.Getenv("SENTINEL_PROXY_INTERCEPTION_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Proxy.InterceptionTimeout = d
		}
	}

	if val := os.Getenv("SENTINEL_CA_COMMON_NAME"); val != "" {
		cfg.CA.CommonName = val
	}
	if val := os.Getenv("SENTINEL_CA_KEY_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.CA.KeySize = i
		}
	}

	if val := os.Getenv("SENTINEL_SCANNER_ENTROPY_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Scanner.EntropyThreshold = f
		}
	}
	if val := os.Getenv("SENTINEL_SCANNER_PLUGIN_DIRECTORY"); val != "" {
		cfg.Scanner.PluginDirectory = val
	}
	if val := os.Getenv("SENTINEL_SCANNER_WATCH_PLUGINS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Scanner.WatchPlugins = b
		}
	}

	if val := os.Getenv("SENTINEL_STORE_PATH"); val != "" {
		cfg.Store.Path = val
	}
	if val := os.Getenv("SENTINEL_STORE_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Store.Retention.Days = i
		}
	}

	if val := os.Getenv("SENTINEL_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("SENTINEL_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("SENTINEL_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("SENTINEL_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("SENTINEL_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("SENTINEL_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
}
