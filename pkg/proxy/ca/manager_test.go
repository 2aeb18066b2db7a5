package ca

import (
	"crypto/x509"
	"encoding/pem"
	"sync"
	"testing"
	"time"

	"github.com/apisec/sentinel/pkg/config"
)

func testConfig() config.CAConfig {
	return config.CAConfig{
		CommonName:   "Test Root CA",
		Organization: "Sentinel Test",
		KeySize:      2048,
		RootValidity: 24 * time.Hour,
		LeafValidity: 24 * time.Hour,
	}
}

func TestNewManagerGeneratesRoot(t *testing.T) {
	m, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	block, _ := pem.Decode(m.RootPEM())
	if block == nil {
		t.Fatalf("root PEM did not decode")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatalf("root cert did not parse: %v", err)
	}
	if !cert.IsCA {
		t.Errorf("expected root certificate to have IsCA=true")
	}
	if cert.KeyUsage&x509.KeyUsageCertSign == 0 {
		t.Errorf("expected root certificate to carry KeyUsageCertSign")
	}
}

func TestGetServerConfigCachesPerHost(t *testing.T) {
	m, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg1, err := m.GetServerConfig("example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg2, err := m.GetServerConfig("example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg1 != cfg2 {
		t.Errorf("expected cached config to be returned for repeated host lookups")
	}
	if m.Size() != 1 {
		t.Errorf("expected cache size 1, got %d", m.Size())
	}
}

func TestGetServerConfigSignsLeafForHost(t *testing.T) {
	m, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := m.GetServerConfig("api.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Certificates) != 1 {
		t.Fatalf("expected one leaf certificate, got %d", len(cfg.Certificates))
	}
	leafDER := cfg.Certificates[0].Certificate[0]
	leaf, err := x509.ParseCertificate(leafDER)
	if err != nil {
		t.Fatalf("leaf cert did not parse: %v", err)
	}
	if leaf.Subject.CommonName != "api.example.com" {
		t.Errorf("expected leaf CN to be api.example.com, got %q", leaf.Subject.CommonName)
	}
	if len(leaf.DNSNames) != 1 || leaf.DNSNames[0] != "api.example.com" {
		t.Errorf("expected leaf SAN to include api.example.com, got %v", leaf.DNSNames)
	}
}

func TestGetServerConfigIPHost(t *testing.T) {
	m, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := m.GetServerConfig("203.0.113.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	leaf, err := x509.ParseCertificate(cfg.Certificates[0].Certificate[0])
	if err != nil {
		t.Fatalf("leaf cert did not parse: %v", err)
	}
	if len(leaf.IPAddresses) != 1 {
		t.Errorf("expected leaf SAN to carry one IP address, got %v", leaf.IPAddresses)
	}
	if len(leaf.DNSNames) != 0 {
		t.Errorf("expected no DNS SANs for an IP host, got %v", leaf.DNSNames)
	}
}

func TestGetServerConfigConcurrentSameHost(t *testing.T) {
	m, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const workers = 16
	results := make(chan error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := m.GetServerConfig("concurrent.example.com")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	for err := range results {
		if err != nil {
			t.Errorf("unexpected error from concurrent lookup: %v", err)
		}
	}
	if m.Size() != 1 {
		t.Errorf("expected exactly one cached leaf after concurrent first-seen lookups, got %d", m.Size())
	}
}

func TestGetServerConfigLRUEviction(t *testing.T) {
	cfg := testConfig()
	cfg.LeafCacheMaxEntries = 2
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hosts := []string{"a.example.com", "b.example.com", "c.example.com"}
	for _, h := range hosts {
		if _, err := m.GetServerConfig(h); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if m.Size() != 2 {
		t.Errorf("expected cache bounded to 2 entries, got %d", m.Size())
	}
}
