package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/profhop/profhop/pkg/resolve"
	"github.com/profhop/profhop/pkg/switcher"
	"github.com/profhop/profhop/pkg/version"
	"github.com/profhop/profhop/pkg/workspace"
)

// Server exposes profile resolution and switching over MCP.
type Server struct {
	session *workspace.Session
	server  *mcp.Server
	tracer  trace.Tracer
	address string
}

// NewServer creates a new MCP server instance. An empty address serves over
// stdio.
func NewServer(address string, session *workspace.Session) *Server {
	impl := &mcp.Implementation{
		Name:    "profhop",
		Version: version.GetVersion(),
	}

	opts := &mcp.ServerOptions{
		Instructions: "MCP server for editor profile switching. Use resolve_profile to see which profile applies to a path, apply_profile to switch, and list_profiles to enumerate available profiles.",
	}

	s := &Server{
		address: address,
		server:  mcp.NewServer(impl, opts),
		session: session,
		tracer:  otel.Tracer("mcp"),
	}

	s.registerTools()

	return s
}

// registerTools registers all available tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "resolve_profile",
		Description: "Resolve which editor profile applies to a file or directory path, without switching.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "The file or directory path to resolve a profile for.",
				},
			},
			Required: []string{"path"},
		},
	}, WithTracing(s.tracer, s.handleResolveProfile))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "apply_profile",
		Description: "Resolve and apply the editor profile for a path, or switch to a named profile directly.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "The file or directory path to resolve and apply a profile for.",
				},
				"profile": {
					Type:        "string",
					Description: "A profile name to switch to directly, skipping resolution.",
				},
			},
		},
	}, WithTracing(s.tracer, s.handleApplyProfile))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_profiles",
		Description: "List the editor profiles available for switching.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, WithTracing(s.tracer, s.handleListProfiles))
}

func (s *Server) handleResolveProfile(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[ResolveProfileParams],
) (*mcp.CallToolResultFor[ResolveProfileResult], error) {
	result := s.session.Resolve(ctx, params.Arguments.Path)

	return createResult(ResolveProfileResult{
		Kind:        string(result.Kind),
		Profile:     result.Profile,
		MatchedPath: result.MatchedPath,
		MatchedRule: result.MatchedRule,
	})
}

func (s *Server) handleApplyProfile(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[ApplyProfileParams],
) (*mcp.CallToolResultFor[ApplyProfileResult], error) {
	if params.Arguments.Profile != "" {
		outcome := s.session.Switch(ctx, params.Arguments.Profile)

		return createResult(applyResultFromOutcome(outcome, ""))
	}

	if params.Arguments.Path == "" {
		return nil, fmt.Errorf("apply_profile: either path or profile is required")
	}

	result, outcome := s.session.Apply(ctx, params.Arguments.Path)
	if outcome == nil {
		status := "skipped"
		if result.Kind == resolve.NoMatch {
			status = "none"
		}

		return createResult(ApplyProfileResult{
			Status:  status,
			Profile: result.Profile,
			Kind:    string(result.Kind),
		})
	}

	return createResult(applyResultFromOutcome(*outcome, string(result.Kind)))
}

func (s *Server) handleListProfiles(
	ctx context.Context,
	_ *mcp.ServerSession,
	_ *mcp.CallToolParamsFor[ListProfilesParams],
) (*mcp.CallToolResultFor[ListProfilesResult], error) {
	return createResult(ListProfilesResult{
		Profiles: s.session.ListProfiles(ctx),
	})
}

func applyResultFromOutcome(outcome switcher.Outcome, kind string) ApplyProfileResult {
	result := ApplyProfileResult{
		Status:  string(outcome.Status),
		Profile: outcome.Target,
		Kind:    kind,
	}

	if outcome.Status == switcher.Failed {
		for _, attempt := range outcome.Attempts {
			if attempt.Err != nil {
				result.Errors = append(result.Errors, attempt.Err.Error())
			}
		}
	}

	return result
}

// createResult renders a structured result with a JSON text fallback for
// clients that ignore structured content.
func createResult[T any](value T) (*mcp.CallToolResultFor[T], error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}

	return &mcp.CallToolResultFor[T]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
		StructuredContent: value,
	}, nil
}

func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve starts the MCP server.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.serveStdio(ctx)
		if err != nil {
			return fmt.Errorf("serve Stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP()
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP() error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

func (s *Server) serveStdio(ctx context.Context) error {
	t := mcp.NewLoggingTransport(mcp.NewStdioTransport(), os.Stderr)
	err := s.server.Run(ctx, t)
	if err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}
