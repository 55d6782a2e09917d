package main

import (
	"github.com/spf13/cobra"

	"notes-server/internal/mcpserver"
	"notes-server/internal/notes"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the note tools over the Model Context Protocol on stdio",
	Long: `mcp starts a Model Context Protocol server on stdin/stdout with the tools
list_notes, create_note and, when the clear feature is on, clear_notes.
Notes live in this process only and are not shared with a running HTTP server.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := notes.NewStore(notes.Options{Timestamps: cfg.Features.Timestamps})
		s := mcpserver.New(store, mcpserver.Options{
			Version:     buildVersion(),
			EnableClear: cfg.Features.Clear,
		})
		return mcpserver.ServeStdio(s)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
