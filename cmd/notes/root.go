package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"notes-server/internal/config"
	"notes-server/internal/server"
)

var (
	configPath        string
	timestampsEnabled bool
	clearEnabled      bool

	// cfg is loaded once per invocation by the root PersistentPreRunE.
	cfg config.Config
)

// rootCmd runs the HTTP server when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "notes",
	Short: "A small in-memory note service",
	Long: `notes keeps short text notes in memory and serves them over a JSON API
at /api/notes, alongside static files from a public directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlags(cmd, &loaded)
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		server.ConfigureLogging(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		return nil
	},
	RunE: runServe,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyFlags copies explicitly set flags over the file and env settings.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("timestamps") {
		c.Features.Timestamps = timestampsEnabled
	}
	if flags.Changed("clear") {
		c.Features.Clear = clearEnabled
	}
	if flags.Changed("addr") {
		c.Addr = addr
	}
	if flags.Changed("public") {
		c.PublicDir = publicDir
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $NOTES_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&timestampsEnabled, "timestamps", true, "Record createdAt on new notes")
	rootCmd.PersistentFlags().BoolVar(&clearEnabled, "clear", true, "Enable DELETE /api/notes")
	addServeFlags(rootCmd)
}
