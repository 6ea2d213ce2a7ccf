package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matzehuels/bubblepack/internal/api"
	"github.com/matzehuels/bubblepack/pkg/config"
	"github.com/matzehuels/bubblepack/pkg/observability"
)

// Rotation settings for --log-file.
const (
	logMaxSizeMB  = 100
	logMaxBackups = 5
	logMaxAgeDays = 30
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		logFile    string
		sessionTTL time.Duration
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and interactive sessions over HTTP",
		Long: `Serve layouts and interactive sessions over HTTP.

Stateless layouts are available at POST /v1/layout. Interactive sessions
keep an engine per client: create one with POST /v1/sessions, then drive
mode changes, viewport updates and parameter edits against
/v1/sessions/{id}.

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("log-file") {
				cfg.Server.LogFile = logFile
			}
			if cmd.Flags().Changed("session-ttl") {
				cfg.Server.SessionTTL = config.Duration{Duration: sessionTTL}
			}
			return c.runServe(cmd, cfg, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config: 127.0.0.1:8080)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "also write logs to this file, rotated by size")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", 0, "idle time before a session expires")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, cfg config.Config, noCache bool) error {
	ctx := cmd.Context()

	logger := c.Logger
	if cfg.Server.LogFile != "" {
		rotator := newLogRotator(cfg.Server.LogFile)
		defer rotator.Close()
		logger = newLogger(io.MultiWriter(os.Stderr, rotator), c.Logger.GetLevel())
	}
	if c.Verbose {
		observability.NewLogHooks(logger).Install()
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger.Info("starting server",
		"addr", cfg.Server.Addr,
		"cache", cfg.Cache.Backend,
		"session_ttl", cfg.Server.SessionTTL)

	srv := api.New(cfg, runner, api.WithLogger(logger))
	return srv.Run(ctx)
}

// newLogRotator returns a size-rotated log file writer.
func newLogRotator(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   true,
	}
}
