package proxy

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
)

// serveConn is the per-connection entry point: it distinguishes a CONNECT
// tunnel (HTTPS MITM) from the plain-HTTP proxy path and dispatches
// accordingly. The connection is fully consumed (or handed off) before
// this method returns.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	br := bufio.NewReader(conn)
	req, err := http.ReadRequest(br)
	if err != nil {
		return
	}

	if req.Method == http.MethodConnect {
		s.handleConnect(ctx, conn, req)
		return
	}

	s.servePlainHTTP(ctx, conn, br, req)
}

// servePlainHTTP handles the non-CONNECT proxy path: requests carrying an
// absolute URI, or an origin-form URI accompanied by a Host header.
// Keep-alive connections are served in a loop until the client closes the
// connection or signals it does not want to keep it open.
func (s *Server) servePlainHTTP(ctx context.Context, conn net.Conn, br *bufio.Reader, first *http.Request) {
	req := first
	for {
		if err := resolveEffectiveURL(req, "http"); err != nil {
			writeError(conn, http.StatusBadRequest, "proxy: cannot determine target host")
			return
		}

		resp := s.handleFlow(ctx, req)
		keepAlive := !req.Close && !resp.Close

		if resp.StatusCode == http.StatusSwitchingProtocols {
			writeAndSplice(conn, resp)
			return
		}

		if err := resp.Write(conn); err != nil {
			return
		}
		_ = resp.Body.Close()

		if !keepAlive {
			return
		}

		next, err := http.ReadRequest(br)
		if err != nil {
			return
		}
		req = next
	}
}

// handleConnect establishes a TLS-MITM tunnel for an HTTPS CONNECT
// request: it answers "200 Connection Established", performs a TLS server
// handshake against the client using a leaf certificate minted for the
// target host, then serves the decrypted stream as a fresh sequence of
// HTTP/1.1 requests whose origin-form URIs are reconstructed against
// https://<host>.
func (s *Server) handleConnect(ctx context.Context, conn net.Conn, req *http.Request) {
	host := req.Host
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, "443")
	}
	hostOnly, _, _ := net.SplitHostPort(host)

	if _, err := io.WriteString(conn, "HTTP/1.1 200 Connection Established\r\n\r\n"); err != nil {
		return
	}

	tlsConfig, err := s.ca.GetServerConfig(hostOnly)
	if err != nil {
		s.logger.Warn("failed to mint leaf certificate", "host", hostOnly, "error", &HandshakeError{Host: hostOnly, Cause: err})
		return
	}

	tlsConn := tls.Server(conn, tlsConfig)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		s.logger.Debug("TLS handshake failed", "host", hostOnly, "error", &HandshakeError{Host: hostOnly, Cause: err})
		return
	}
	defer tlsConn.Close()

	br := bufio.NewReader(tlsConn)
	for {
		req, err := http.ReadRequest(br)
		if err != nil {
			return
		}
		if err := resolveEffectiveURL(req, "https"); err != nil {
			writeError(tlsConn, http.StatusBadRequest, "proxy: cannot determine target host")
			return
		}
		if req.URL.Host == "" {
			req.URL.Host = hostOnly
		}

		resp := s.handleFlow(ctx, req)
		keepAlive := !req.Close && !resp.Close

		if resp.StatusCode == http.StatusSwitchingProtocols {
			writeAndSplice(tlsConn, resp)
			return
		}

		if err := resp.Write(tlsConn); err != nil {
			return
		}
		_ = resp.Body.Close()

		if !keepAlive {
			return
		}
	}
}

// resolveEffectiveURL ensures req.URL is absolute, reconstructing scheme
// and authority from the Host header when the request line used
// origin-form (the common case for both the plain-HTTP path behind a
// transparent Host-based proxy and every request inside a CONNECT
// tunnel).
func resolveEffectiveURL(req *http.Request, scheme string) error {
	if req.URL.IsAbs() {
		return nil
	}
	host := req.Host
	if host == "" {
		host = req.URL.Host
	}
	if host == "" {
		return fmt.Errorf("proxy: request has no Host")
	}
	u, err := url.Parse(scheme + "://" + host + req.URL.RequestURI())
	if err != nil {
		return err
	}
	req.URL = u
	return nil
}

// writeAndSplice writes resp's status line and headers (a 101 Switching
// Protocols for a successful WebSocket upgrade), then relays raw bytes
// bidirectionally between conn and the upstream connection exposed
// through resp.Body, which net/http leaves as an io.ReadWriteCloser for a
// 101 response.
func writeAndSplice(conn net.Conn, resp *http.Response) {
	if err := resp.Write(conn); err != nil {
		return
	}
	upstream, ok := resp.Body.(io.ReadWriteCloser)
	if !ok {
		return
	}
	defer upstream.Close()

	done := make(chan struct{}, 2)
	go func() {
		_, _ = io.Copy(upstream, conn)
		done <- struct{}{}
	}()
	go func() {
		_, _ = io.Copy(conn, upstream)
		done <- struct{}{}
	}()
	<-done
}

func writeError(conn net.Conn, status int, body string) {
	resp := errorResponse(nil, status, body)
	_ = resp.Write(conn)
}
