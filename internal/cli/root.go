package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/younsl/gwatch/internal/config"
	"github.com/younsl/gwatch/internal/github"
	"github.com/younsl/gwatch/internal/logging"
	"github.com/younsl/gwatch/internal/monitor"
	"github.com/younsl/gwatch/internal/tui"
)

type rootOptions struct {
	configPath string
	server     string
	org        string
	repos      []string
	token      string
	timezone   string
	logFile    string
	logLevel   string
}

func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "gwatch",
		Short:   "Watch workflow runs awaiting deployment approval",
		Long:    "gwatch sweeps an organization's repositories for workflow runs awaiting\nmanual approval, streams them into a terminal dashboard, and lets you\napprove or cancel a run without leaving the terminal.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, version)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to a yaml config file")
	cmd.Flags().StringVar(&opts.server, "server", "", "GitHub host (default github.com)")
	cmd.Flags().StringVarP(&opts.org, "org", "o", "", "Organization to sweep (required)")
	cmd.Flags().StringSliceVarP(&opts.repos, "repos", "R", nil, "Watch only these repositories instead of sweeping the org")
	cmd.Flags().StringVar(&opts.token, "token", "", "API token (default from GH_ENTERPRISE_TOKEN / GITHUB_TOKEN)")
	cmd.Flags().StringVar(&opts.timezone, "timezone", "", "Timezone for approval comments, e.g. Asia/Seoul")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Log file path")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	return cmd
}

func run(ctx context.Context, opts *rootOptions, version string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := logging.Setup(cfg.LogFile, cfg.LogLevel, true)
	if err != nil {
		return err
	}
	defer logging.Close()

	client, err := github.NewClient(cfg.Server, cfg.Token, cfg.Org)
	if err != nil {
		return fmt.Errorf("auth against %s failed: %w", cfg.Server, err)
	}

	mon := monitor.New(client, monitor.Options{Repos: cfg.Repos, Logger: logger})
	app := tui.NewApp(ctx, cfg, mon, client, logger, version)

	logger.Info("starting", "server", cfg.Server, "org", cfg.Org, "version", version)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

// loadConfig merges flags over the optional config file, then applies
// environment and built-in defaults.
func loadConfig(opts *rootOptions) (config.Config, error) {
	var cfg config.Config
	if opts.configPath != "" {
		loaded, err := config.LoadFile(opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if opts.server != "" {
		cfg.Server = opts.server
	}
	if opts.org != "" {
		cfg.Org = opts.org
	}
	if len(opts.repos) > 0 {
		cfg.Repos = opts.repos
	}
	if opts.token != "" {
		cfg.Token = opts.token
	}
	if opts.timezone != "" {
		cfg.Timezone = opts.timezone
	}
	if opts.logFile != "" {
		cfg.LogFile = opts.logFile
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
