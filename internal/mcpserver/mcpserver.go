// Package mcpserver exposes the note store as Model Context Protocol tools
// served over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"notes-server/internal/notes"
)

// Options controls which tools are registered.
type Options struct {
	Version     string
	EnableClear bool
}

// NotesMCP holds the store the tool handlers operate on.
type NotesMCP struct {
	store *notes.Store
}

// New builds an MCP server with the note tools registered.
func New(store *notes.Store, opts Options) *server.MCPServer {
	if store == nil {
		panic("mcpserver: nil store")
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	n := &NotesMCP{store: store}

	s := server.NewMCPServer(
		"notes",
		opts.Version,
		server.WithToolCapabilities(false),
	)

	{
		tool := mcp.NewTool("list_notes",
			mcp.WithDescription("List all notes, most recently created first."),
		)

		s.AddTool(tool, n.listHandler)
	}

	{
		tool := mcp.NewTool("create_note",
			mcp.WithDescription("Create a note. Surrounding whitespace is trimmed and the text must not be empty."),
			mcp.WithString("text",
				mcp.Required(),
				mcp.Description("Text of the note."),
			),
		)

		s.AddTool(tool, n.createHandler)
	}

	if opts.EnableClear {
		tool := mcp.NewTool("clear_notes",
			mcp.WithDescription("Delete every note and reset the id counter to 1."),
		)

		s.AddTool(tool, n.clearHandler)
	}

	return s
}

// ServeStdio blocks serving the MCP protocol on stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func (n *NotesMCP) listHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(n.store.List())
}

func (n *NotesMCP) createHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")

	note, err := n.store.Create(text)
	if errors.Is(err, notes.ErrTextRequired) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), err
	}

	return jsonResult(note)
}

func (n *NotesMCP) clearHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n.store.Clear()
	return mcp.NewToolResultText(`{"ok":true}`), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), err
	}
	return mcp.NewToolResultText(string(b)), nil
}
