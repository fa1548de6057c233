package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0shaw/cin/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the settings file",
	// the file may not exist yet, so skip loading it
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings to the config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")

	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("locating config directory: %w", err)
		}
		path = p
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	if err := config.Save(path, config.Default()); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
