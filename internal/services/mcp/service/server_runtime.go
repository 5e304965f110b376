package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/medinal/swade-character-creator/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxCompletionValues caps the values returned for one completion request.
const maxCompletionValues = 100

// completionHandler completes character ids for the character resource
// template. Other references get an empty result.
func (s *Server) completionHandler(ctx context.Context, req *mcp.CompleteRequest) (*mcp.CompleteResult, error) {
	empty := &mcp.CompleteResult{Completion: mcp.CompletionResultDetails{Values: []string{}}}
	if req == nil || req.Params == nil || req.Params.Ref == nil {
		return empty, nil
	}
	if req.Params.Ref.URI != domain.CharacterResourceTemplate().URITemplate || req.Params.Argument.Name != "character_id" {
		return empty, nil
	}
	prefix := strings.TrimSpace(req.Params.Argument.Value)
	values := []string{}
	hasMore := false
	token := ""
	for {
		summaries, next, err := s.service.ListCharacters(ctx, 0, token)
		if err != nil {
			return nil, fmt.Errorf("complete character id: %w", err)
		}
		for _, summary := range summaries {
			if !strings.HasPrefix(summary.ID, prefix) {
				continue
			}
			if len(values) == maxCompletionValues {
				hasMore = true
				break
			}
			values = append(values, summary.ID)
		}
		if hasMore || next == "" {
			break
		}
		token = next
	}
	return &mcp.CompleteResult{Completion: mcp.CompletionResultDetails{Values: values, HasMore: hasMore}}, nil
}

// resourceSubscribeHandler accepts resource subscriptions with a valid URI.
func resourceSubscribeHandler(_ context.Context, req *mcp.SubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// resourceUnsubscribeHandler accepts resource unsubscriptions with a valid URI.
func resourceUnsubscribeHandler(_ context.Context, req *mcp.UnsubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// Run is the service entrypoint for MCP and blocks until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return runWithTransport(ctx, cfg, &mcp.StdioTransport{})
	case TransportHTTP:
		return runWithHTTPTransport(ctx, cfg)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// runWithHTTPTransport creates a server and serves it over streamable HTTP.
func runWithHTTPTransport(ctx context.Context, cfg Config) error {
	httpAddr := cfg.HTTPAddr
	if httpAddr == "" {
		httpAddr = "localhost:8081"
	}
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer server.Close()

	transport := NewHTTPTransportWithServer(httpAddr, server.mcpServer)
	transport.allowedHosts = parseAllowedHosts(cfg.AllowedHosts)
	return transport.Start(ctx)
}

// runWithTransport creates a server and serves it over the provided transport.
func runWithTransport(ctx context.Context, cfg Config, transport mcp.Transport) error {
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return server.serveWithTransport(ctx, transport)
}

// Serve starts the MCP server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// Close releases the stores held by the server.
func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// serveWithTransport starts the MCP server using the provided transport.
// The stores are released on the same exit path for stdio and HTTP runs.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close stores: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close stores: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
