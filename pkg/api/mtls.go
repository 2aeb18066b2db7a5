package api

import (
	"log/slog"
	"net/http"

	securitytls "github.com/apisec/sentinel/pkg/security/tls"
)

// mtlsIdentityMiddleware logs the authenticated client identity extracted
// from the connection's verified client certificate on every request. It
// is only installed when cfg.TLS.MTLS.Enabled, since without mTLS there
// is no client certificate to extract an identity from.
func mtlsIdentityMiddleware(identitySource string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := securitytls.GetClientIdentity(r, identitySource)
			if identity != "" {
				logger.Info("authenticated control-plane request",
					"identity", identity, "method", r.Method, "path", r.URL.Path)
			}
			next.ServeHTTP(w, r)
		})
	}
}
