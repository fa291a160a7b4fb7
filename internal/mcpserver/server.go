// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the wardrobe inventory for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/emelz/wardrobe/internal/index"
)

// Server wraps the MCP server with wardrobe tools.
type Server struct {
	mcp *server.MCPServer
	idx index.ItemIndex
}

// New creates a new MCP server with all wardrobe tools registered.
func New(idx index.ItemIndex) *Server {
	s := &Server{idx: idx}

	s.mcp = server.NewMCPServer(
		"Wardrobe",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("list_items",
		mcp.WithDescription("List wardrobe items, optionally filtered by person and category."),
		mcp.WithString("person", mcp.Description("Owner of the wardrobe (empty for all)")),
		mcp.WithString("category", mcp.Description("Category filter, e.g. shirts (empty for all)")),
	), s.listItems)

	s.mcp.AddTool(mcp.NewTool("get_item",
		mcp.WithDescription("Fetch one wardrobe item by its identifier."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item identifier (filename-derived slug)")),
		mcp.WithString("person", mcp.Description("Owner of the wardrobe (empty for all)")),
	), s.getItem)

	s.mcp.AddTool(mcp.NewTool("search_items",
		mcp.WithDescription("Search wardrobe items by title, notes, or tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("person", mcp.Description("Owner of the wardrobe (empty for all)")),
	), s.searchItems)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the distinct item categories."),
		mcp.WithString("person", mcp.Description("Owner of the wardrobe (empty for all)")),
	), s.listCategories)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func optionalString(req mcp.CallToolRequest, key string) string {
	if v, err := req.RequireString(key); err == nil {
		return v
	}
	return ""
}

func (s *Server) listItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.idx.List(optionalString(req, "person"), optionalString(req, "category"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	item, err := s.idx.Get(optionalString(req, "person"), id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(item, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items, err := s.idx.Search(optionalString(req, "person"), query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categories, err := s.idx.Categories(optionalString(req, "person"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(categories) == 0 {
		return mcp.NewToolResultText("no categories"), nil
	}
	return mcp.NewToolResultText(strings.Join(categories, "\n")), nil
}
