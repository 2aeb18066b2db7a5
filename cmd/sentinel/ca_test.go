package main

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
)

// resetCfgFile points cfgFile at a path that does not exist, so commands
// fall back to package defaults instead of reading a real operator config.
func resetCfgFile(t *testing.T) {
	t.Helper()
	prev := cfgFile
	cfgFile = filepath.Join(t.TempDir(), "missing-config.yaml")
	t.Cleanup(func() { cfgFile = prev })
}

func TestCAExportWritesValidRootCertificate(t *testing.T) {
	resetCfgFile(t)
	out := filepath.Join(t.TempDir(), "root-ca.pem")
	caExportFlags.output = out
	t.Cleanup(func() { caExportFlags.output = "" })

	if err := exportRootCA(caExportCmd, nil); err != nil {
		t.Fatalf("exportRootCA() error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading exported PEM: %v", err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		t.Fatal("expected a decodable PEM block")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatalf("ParseCertificate() error: %v", err)
	}
	if !cert.IsCA {
		t.Error("expected the exported certificate to be a CA certificate")
	}
}

func TestCAExportToStdout(t *testing.T) {
	resetCfgFile(t)
	caExportFlags.output = ""

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error: %v", err)
	}
	os.Stdout = w
	err = exportRootCA(caExportCmd, nil)
	w.Close()
	os.Stdout = old
	if err != nil {
		t.Fatalf("exportRootCA() error: %v", err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)
	if !bytes.Contains(buf.Bytes(), []byte("BEGIN CERTIFICATE")) {
		t.Errorf("expected PEM output on stdout, got: %s", buf.String())
	}
}
