package service

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestValidateLocalRequest(t *testing.T) {
	transport := NewHTTPTransportWithServer("", nil)
	transport.allowedHosts = parseAllowedHosts([]string{" Example.com ", ""})

	tests := []struct {
		name    string
		host    string
		origin  string
		wantErr bool
	}{
		{name: "loopback", host: "localhost:8081"},
		{name: "ipv6 loopback", host: "[::1]:8081"},
		{name: "allowed host", host: "example.com"},
		{name: "unknown host", host: "evil.test", wantErr: true},
		{name: "empty host", host: "", wantErr: true},
		{name: "allowed origin", host: "localhost", origin: "http://example.com"},
		{name: "foreign origin", host: "localhost", origin: "http://evil.test", wantErr: true},
		{name: "bad origin", host: "localhost", origin: "::::", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/mcp/health", nil)
			req.Host = tt.host
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			err := transport.validateLocalRequest(req)
			if tt.wantErr && err == nil {
				t.Fatal("expected request to be rejected")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected request to pass, got %v", err)
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	transport := NewHTTPTransportWithServer("", mcp.NewServer(&mcp.Implementation{Name: "test", Version: "1.0"}, nil))
	handler := transport.Handler()

	req := httptest.NewRequest(http.MethodGet, "/mcp/health", nil)
	req.Host = "localhost"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("unexpected health response: %d %q", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/mcp/health", nil)
	req.Host = "localhost"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestMCPEndpointRejectsForeignHost(t *testing.T) {
	transport := NewHTTPTransportWithServer("", mcp.NewServer(&mcp.Implementation{Name: "test", Version: "1.0"}, nil))
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("{}"))
	req.Host = "evil.test"
	rec := httptest.NewRecorder()
	transport.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	original := listenTCP
	listenTCP = func(string, string) (net.Listener, error) { return listener, nil }
	t.Cleanup(func() { listenTCP = original })

	transport := NewHTTPTransportWithServer("127.0.0.1:0", mcp.NewServer(&mcp.Implementation{Name: "test", Version: "1.0"}, nil))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- transport.Start(ctx) }()

	client := &http.Client{Timeout: time.Second}
	var resp *http.Response
	for i := 0; i < 50; i++ {
		req, _ := http.NewRequest(http.MethodGet, "http://"+listener.Addr().String()+"/mcp/health", nil)
		req.Host = "localhost"
		resp, err = client.Do(req)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("start returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("start did not stop after cancel")
	}
}

func TestStartRequiresServer(t *testing.T) {
	if err := NewHTTPTransportWithServer("", nil).Start(context.Background()); err == nil {
		t.Fatal("expected missing server to be rejected")
	}
}
