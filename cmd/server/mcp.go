package main

import (
	"github.com/spf13/cobra"

	"github.com/arturoeanton/go-repo-onboarding/internal/mcp"
	"github.com/arturoeanton/go-repo-onboarding/pkg/config"
)

// runMCP serves the analysis tools over stdio. It needs no database or
// OAuth app, only the GitHub and model credentials.
func runMCP(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, true)
	if err := cfg.Require("GITHUB_TOKEN", "GROQ_API_KEY"); err != nil {
		return err
	}

	stack, err := newAnalysisStack(cfg, logger, nil)
	if err != nil {
		return err
	}

	logger.Info().Str("model", cfg.GroqModel).Msg("serving mcp over stdio")
	return mcp.NewServer(cfg.AppName, version, stack.analysis, stack.chat, stack.conventions, logger).ServeStdio()
}
