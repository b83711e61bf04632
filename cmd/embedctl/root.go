package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"vidembed/internal/cliconfig"
	"vidembed/internal/infra"
)

var (
	flagConfig  string
	flagServer  string
	flagMaxDur  float64
	flagTimeout int
	flagDebug   bool
)

// cfg holds the merged configuration: defaults < config file < flags.
var cfg *cliconfig.Config

var logger infra.Logger = zerolog.Nop()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "embedctl",
		Short:             "Resolve videos into embeddable players",
		Long:              "embedctl turns YouTube or Dailymotion links and local video files into embed markup, and previews the CTA video widget.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/vidembed/config.toml)")
	pf.StringVar(&flagServer, "server", "", "Backend base URL")
	pf.Float64Var(&flagMaxDur, "max-duration", 0, "Maximum video duration in seconds")
	pf.IntVar(&flagTimeout, "timeout", 0, "Request timeout in seconds")
	pf.BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	root.AddCommand(newResolveCmd(), newUploadCmd(), newWidgetCmd())
	return root
}

func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if flagConfig != "" {
		cfg, err = cliconfig.LoadFile(afero.NewOsFs(), flagConfig)
	} else {
		cfg, err = cliconfig.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagServer != "" {
		cfg.ServerURL = flagServer
	}
	if flagMaxDur > 0 {
		cfg.MaxDurationSeconds = flagMaxDur
	}
	if flagTimeout > 0 {
		cfg.TimeoutSeconds = flagTimeout
	}
	if flagDebug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger = newCLILogger(cmd.ErrOrStderr(), cfg.Debug)
	return nil
}

func newCLILogger(w io.Writer, debug bool) infra.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func requestTimeout() time.Duration {
	if cfg == nil || cfg.TimeoutSeconds == 0 {
		return 0
	}
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}

func stdout(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stdout
	}
	return cmd.OutOrStdout()
}
