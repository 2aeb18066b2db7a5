package config

import "testing"

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() on a defaulted config: %v", err)
	}
}

func TestValidateRejectsEmptyListenAddresses(t *testing.T) {
	cfg := validConfig()
	cfg.Proxy.ListenAddress = ""
	cfg.API.ListenAddress = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected Validate() to reject empty listen addresses")
	}
	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	if !fields["proxy.listen_address"] || !fields["api.listen_address"] {
		t.Fatalf("expected both proxy and api listen_address errors, got %+v", errs)
	}
}

func TestValidateRejectsInvalidKeySize(t *testing.T) {
	cfg := validConfig()
	cfg.CA.KeySize = 1024

	if err := Validate(cfg); err == nil {
		t.Fatal("expected Validate() to reject a non-standard CA key size")
	}
}

func TestValidateRejectsOutOfRangeSampleRatio(t *testing.T) {
	cfg := validConfig()
	cfg.Telemetry.Tracing.SampleRatio = 1.5

	if err := Validate(cfg); err == nil {
		t.Fatal("expected Validate() to reject a sample ratio above 1")
	}
}

func TestValidateRequiresTLSCertAndKeyWhenEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.API.TLS.Enabled = true

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected Validate() to reject api.tls.enabled with no cert/key files")
	}
	errs := err.(ValidationErrors)
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	if !fields["api.tls.cert_file"] || !fields["api.tls.key_file"] {
		t.Fatalf("expected cert_file and key_file errors, got %+v", errs)
	}
}

func TestValidateRequiresClientCAWhenMTLSEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.API.TLS.Enabled = true
	cfg.API.TLS.CertFile = "server.crt"
	cfg.API.TLS.KeyFile = "server.key"
	cfg.API.TLS.MTLS.Enabled = true

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected Validate() to reject mtls.enabled with no client CA file")
	}
	errs := err.(ValidationErrors)
	found := false
	for _, e := range errs {
		if e.Field == "api.tls.mtls.client_ca_file" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an api.tls.mtls.client_ca_file error, got %+v", errs)
	}
}

func TestValidateAcceptsFullyConfiguredTLS(t *testing.T) {
	cfg := validConfig()
	cfg.API.TLS.Enabled = true
	cfg.API.TLS.CertFile = "server.crt"
	cfg.API.TLS.KeyFile = "server.key"
	cfg.API.TLS.MTLS.Enabled = true
	cfg.API.TLS.MTLS.ClientCAFile = "client-ca.crt"

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected a fully-specified TLS/mTLS config to validate, got: %v", err)
	}
}
