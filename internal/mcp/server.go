// Package mcp exposes the repository analysis as Model Context Protocol tools
// so agents can query hotspots, insights and conventions directly.
package mcp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
)

const endpointPath = "/mcp"

// AnalysisRunner computes hotspots and the full analysis.
type AnalysisRunner interface {
	Hotspots(ctx context.Context, token string, ref domain.RepoRef) ([]domain.Hotspot, error)
	Insights(ctx context.Context, token string, ref domain.RepoRef, role string) (*domain.AnalysisResult, error)
}

// ChatRunner answers questions about a repository.
type ChatRunner interface {
	Ask(ctx context.Context, token string, ref domain.RepoRef, role, message string) (string, error)
}

// ConventionRunner infers team conventions.
type ConventionRunner interface {
	Extract(ctx context.Context, token string, ref domain.RepoRef, role string) ([]domain.Convention, error)
}

// Server wraps an MCP server whose tools read with the server credential.
type Server struct {
	mcp         *server.MCPServer
	analysis    AnalysisRunner
	chat        ChatRunner
	conventions ConventionRunner
	logger      zerolog.Logger
	http        *server.StreamableHTTPServer
}

// NewServer creates the MCP server and registers its tools.
func NewServer(name, version string, analysis AnalysisRunner, chat ChatRunner, conventions ConventionRunner, logger zerolog.Logger) *Server {
	s := &Server{
		mcp:         server.NewMCPServer(name, version, server.WithToolCapabilities(false), server.WithRecovery()),
		analysis:    analysis,
		chat:        chat,
		conventions: conventions,
		logger:      logger.With().Str("component", "mcp").Logger(),
	}

	s.mcp.AddTool(mcp.NewTool("get_hotspots",
		mcp.WithDescription("Rank the most frequently changed files of a GitHub repository"),
		mcp.WithString("repo", mcp.Required(), mcp.Description("GitHub URL or owner/repo")),
	), s.getHotspots)

	s.mcp.AddTool(mcp.NewTool("get_insights",
		mcp.WithDescription("Summarize a GitHub repository for a new team member: hotspots, language and activity stats, summary and recommendations"),
		mcp.WithString("repo", mcp.Required(), mcp.Description("GitHub URL or owner/repo")),
		mcp.WithString("role", mcp.Description("Role of the reader, e.g. frontend developer")),
	), s.getInsights)

	s.mcp.AddTool(mcp.NewTool("ask_repository",
		mcp.WithDescription("Ask a free-text question about a GitHub repository; answers in markdown"),
		mcp.WithString("repo", mcp.Required(), mcp.Description("GitHub URL or owner/repo")),
		mcp.WithString("message", mcp.Required(), mcp.Description("The question")),
		mcp.WithString("role", mcp.Description("Role of the reader")),
	), s.askRepository)

	s.mcp.AddTool(mcp.NewTool("get_conventions",
		mcp.WithDescription("Infer team conventions from pull-request review comments"),
		mcp.WithString("repo", mcp.Required(), mcp.Description("GitHub URL or owner/repo")),
		mcp.WithString("role", mcp.Description("Role of the reader")),
	), s.getConventions)

	// The listener is prepared up front so Shutdown works whether or not
	// Start has run.
	srv := &http.Server{ReadHeaderTimeout: 10 * time.Second}
	s.http = server.NewStreamableHTTPServer(s.mcp, server.WithStreamableHTTPServer(srv))
	mux := http.NewServeMux()
	mux.Handle(endpointPath, s.http)
	srv.Handler = mux

	return s
}

// ServeStdio serves the tools over stdin/stdout until EOF.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// Handler returns the streamable HTTP transport. It expects to be mounted
// at /mcp.
func (s *Server) Handler() http.Handler {
	return s.http
}

// Start serves the streamable HTTP transport on addr. After Shutdown it
// returns http.ErrServerClosed.
func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Str("path", endpointPath).Msg("mcp server listening")
	return s.http.Start(addr)
}

// Shutdown stops the HTTP transport. Calling it before Start keeps a later
// Start from listening.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func repoArg(req mcp.CallToolRequest) (domain.RepoRef, *mcp.CallToolResult) {
	raw, err := req.RequireString("repo")
	if err != nil {
		return domain.RepoRef{}, mcp.NewToolResultError("repo is required")
	}
	ref, err := domain.ParseRepoRef(raw)
	if err != nil {
		return domain.RepoRef{}, mcp.NewToolResultError("repo must be a GitHub URL or owner/repo")
	}
	return ref, nil
}

// toolError turns a failure into a tool result so the agent sees it as
// content rather than a protocol error.
func (s *Server) toolError(tool string, ref domain.RepoRef, err error) *mcp.CallToolResult {
	s.logger.Error().Err(err).Str("tool", tool).Str("repo", ref.FullName()).Msg("tool failed")

	var upstream *domain.UpstreamFetchError
	var malformed *domain.MalformedAIResponseError
	switch {
	case errors.As(err, &upstream):
		return mcp.NewToolResultErrorf("failed to fetch %s from GitHub", upstream.Resource)
	case errors.As(err, &malformed):
		return mcp.NewToolResultError("the model returned an unparseable response")
	case errors.Is(err, domain.ErrLLMUnavailable):
		return mcp.NewToolResultError("the language model is unavailable")
	default:
		return mcp.NewToolResultError("internal error")
	}
}

func (s *Server) getHotspots(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, bad := repoArg(req)
	if bad != nil {
		return bad, nil
	}
	hotspots, err := s.analysis.Hotspots(ctx, "", ref)
	if err != nil {
		return s.toolError("get_hotspots", ref, err), nil
	}
	return mcp.NewToolResultJSON(map[string]any{"hotspots": hotspots})
}

func (s *Server) getInsights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, bad := repoArg(req)
	if bad != nil {
		return bad, nil
	}
	result, err := s.analysis.Insights(ctx, "", ref, req.GetString("role", "developer"))
	if err != nil {
		return s.toolError("get_insights", ref, err), nil
	}
	return mcp.NewToolResultJSON(result)
}

func (s *Server) askRepository(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, bad := repoArg(req)
	if bad != nil {
		return bad, nil
	}
	message, err := req.RequireString("message")
	if err != nil || message == "" {
		return mcp.NewToolResultError("message is required"), nil
	}
	answer, err := s.chat.Ask(ctx, "", ref, req.GetString("role", ""), message)
	if err != nil {
		return s.toolError("ask_repository", ref, err), nil
	}
	return mcp.NewToolResultText(answer), nil
}

func (s *Server) getConventions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, bad := repoArg(req)
	if bad != nil {
		return bad, nil
	}
	conventions, err := s.conventions.Extract(ctx, "", ref, req.GetString("role", ""))
	if err != nil {
		return s.toolError("get_conventions", ref, err), nil
	}
	return mcp.NewToolResultJSON(map[string]any{"conventions": conventions})
}
