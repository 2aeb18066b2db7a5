/*
Package security provides transport security (TLS/mTLS) for Sentinel's
control-plane API.

Configure TLS for the control API server:

	cfg := &tls.Config{
		Enabled:  true,
		CertFile: "/etc/sentinel/certs/server.crt",
		KeyFile:  "/etc/sentinel/certs/server.key",
		MinVersion: "1.3",
	}

	tlsConfig, err := cfg.ToTLSConfig()
	if err != nil {
		log.Fatal(err)
	}

Certificates are reloaded from disk on a watch interval (see
tls.NewCertificateReloader) so operators can rotate them without restarting the
process.
*/
package security
