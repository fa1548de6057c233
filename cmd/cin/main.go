package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0shaw/cin/internal/bitstream"
	"github.com/s0shaw/cin/internal/config"
)

var (
	cfg    = config.Default()
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:               "cin",
	Short:             "Code Inside Nothing: hide text in the least significant bits of an image",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/cin/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log progress to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "[Error]", err)
		os.Exit(1)
	}
}

// setup loads the config file and builds the logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	conf, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = conf

	level := parseLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelInfo
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// codecFor builds a codec from the config, letting --terminator and
// --strict override it when the command defines them.
func codecFor(cmd *cobra.Command) (*bitstream.Codec, error) {
	opts := bitstream.Options{Terminator: cfg.Terminator, Strict: cfg.Strict}
	if f := cmd.Flags().Lookup("terminator"); f != nil && f.Changed {
		opts.Terminator = f.Value.String()
	}
	if f := cmd.Flags().Lookup("strict"); f != nil && f.Changed {
		opts.Strict, _ = cmd.Flags().GetBool("strict")
	}
	return bitstream.New(opts)
}
