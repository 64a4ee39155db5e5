package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/painel/internal/config"
	"github.com/okian/painel/pkg/logger"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configFile string
	upstream   string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "painel",
		Short: "Dashboard of reports over an upstream API of companies",
		Long: `painel reads an upstream JSON API of companies (empresas), discovers the
collections linked from its root page and runs a fixed set of reports on
them, either through a web dashboard (serve) or from the command line (run).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "YAML config file (overrides "+config.FileEnv+")")
	cmd.PersistentFlags().StringVarP(&opts.upstream, "upstream", "u", "", "Upstream base URL (overrides upstream_url)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides log_level)")

	cmd.AddCommand(
		newServeCmd(opts),
		newEndpointsCmd(opts),
		newControlsCmd(opts),
		newRunCmd(opts),
	)
	return cmd
}

// setup loads the configuration, applies flag overrides and initializes logging.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	ctx := cmd.Context()

	var (
		cfg *config.Config
		err error
	)
	if o.configFile != "" {
		cfg, err = config.LoadFile(ctx, o.configFile)
	} else {
		cfg, err = config.Load(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if o.upstream != "" {
		cfg.UpstreamURL = o.upstream
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	o.cfg = cfg
	return nil
}
