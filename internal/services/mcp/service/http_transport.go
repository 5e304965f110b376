package service

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/medinal/swade-character-creator/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var listenTCP = net.Listen

// HTTPTransport serves one MCP server over streamable HTTP on /mcp.
type HTTPTransport struct {
	addr         string
	allowedHosts map[string]struct{}
	server       *mcp.Server
	httpServer   *http.Server
}

// NewHTTPTransportWithServer returns a transport for server listening on addr.
func NewHTTPTransportWithServer(addr string, server *mcp.Server) *HTTPTransport {
	if addr == "" {
		addr = "localhost:8081"
	}
	return &HTTPTransport{addr: addr, server: server, allowedHosts: map[string]struct{}{}}
}

// Handler returns the routes served by the transport.
func (t *HTTPTransport) Handler() http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return t.server
	}, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if err := t.validateLocalRequest(r); err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		streamable.ServeHTTP(w, r)
	})
	mux.HandleFunc("/mcp/health", t.handleHealth)
	return mux
}

// Start serves HTTP until ctx ends, then shuts the server down gracefully.
func (t *HTTPTransport) Start(ctx context.Context) error {
	if t.server == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	t.httpServer = &http.Server{
		Addr:              t.addr,
		Handler:           t.Handler(),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	listener, err := listenTCP("tcp", t.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", t.addr, err)
	}
	log.Printf("Starting MCP HTTP server on %s", listener.Addr())

	errChan := make(chan error, 1)
	go func() {
		if err := t.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("Shutting down MCP HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := t.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}

// validateLocalRequest checks Host and Origin against the allowed hosts to
// mitigate DNS rebinding. Loopback hosts are always allowed.
func (t *HTTPTransport) validateLocalRequest(r *http.Request) error {
	if r == nil {
		return fmt.Errorf("invalid request")
	}
	if !t.isAllowedHostHeader(r.Host) {
		return fmt.Errorf("invalid host")
	}
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return nil
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("invalid origin")
	}
	if !t.isAllowedHostHeader(parsed.Host) {
		return fmt.Errorf("invalid origin")
	}
	return nil
}

func (t *HTTPTransport) isAllowedHostHeader(host string) bool {
	resolved, ok := normalizeHost(host)
	if !ok {
		return false
	}
	if isLoopbackHost(resolved) {
		return true
	}
	_, ok = t.allowedHosts[strings.ToLower(resolved)]
	return ok
}

func (t *HTTPTransport) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := t.validateLocalRequest(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Printf("Failed to write health response: %v", err)
	}
}

func isLoopbackHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}

func parseAllowedHosts(hosts []string) map[string]struct{} {
	result := make(map[string]struct{}, len(hosts))
	for _, entry := range hosts {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		result[strings.ToLower(trimmed)] = struct{}{}
	}
	return result
}

// normalizeHost extracts the hostname portion from Host/Origin headers.
func normalizeHost(host string) (string, bool) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", false
	}
	if strings.HasPrefix(host, "[") {
		if splitHost, _, err := net.SplitHostPort(host); err == nil {
			return splitHost, true
		}
		if strings.HasSuffix(host, "]") {
			return strings.TrimSuffix(strings.TrimPrefix(host, "["), "]"), true
		}
		return "", false
	}
	if strings.Count(host, ":") > 1 {
		return host, true
	}
	if strings.Contains(host, ":") {
		splitHost, _, err := net.SplitHostPort(host)
		if err != nil {
			return "", false
		}
		return splitHost, true
	}
	return host, true
}
