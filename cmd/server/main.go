package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arturoeanton/go-repo-onboarding/pkg/config"
)

const version = "1.0.0"

func main() {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Repository onboarding API",
		Long:          "Analyzes GitHub repositories for new team members: hotspots, summaries, chat, conventions and coding assessments.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API (default)",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "mcp",
			Short: "Serve the MCP tools over stdio",
			RunE:  runMCP,
		},
		newMigrateCmd(),
	)

	if err := root.Execute(); err != nil {
		log.Logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// newLogger builds the root logger. stdio mode must keep stdout for the
// protocol, so its logs go to stderr.
func newLogger(cfg *config.Config, stderr bool) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	out := os.Stdout
	if stderr {
		out = os.Stderr
	}
	logger := zerolog.New(out).With().Timestamp().Str("app", cfg.AppName).Logger()
	if cfg.IsDevelopment() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	log.Logger = logger
	return logger
}
