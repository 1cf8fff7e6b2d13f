package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "leoconnect",
	Short: "LeoConnect membership client",
	Long: `leoconnect is the command-line client for the LeoConnect membership
platform. It signs you in through your Google account, keeps the
session on this device, and talks to the LeoConnect backend on your
behalf.

Session state is stored locally (file or SQLite, see the storage
section of the config) and restored on every start.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.leoconnect/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}
