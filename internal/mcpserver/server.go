// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Laguz tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/laguz/internal/assets"
	"github.com/starford/laguz/internal/hierarchy"
	"github.com/starford/laguz/internal/links"
	"github.com/starford/laguz/internal/search"
)

// Server wraps the MCP server with Laguz tools.
type Server struct {
	mcp    *server.MCPServer
	hier   *hierarchy.Service
	links  *links.Resolver
	search *search.Service
	mgr    *assets.Manager
}

// New creates a new MCP server with all Laguz tools registered.
func New(hier *hierarchy.Service, res *links.Resolver, srch *search.Service, mgr *assets.Manager) *Server {
	s := &Server{hier: hier, links: res, search: srch, mgr: mgr}

	s.mcp = server.NewMCPServer(
		"Laguz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Full-text search through note titles and bodies."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a note's title and Markdown body by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("32-character note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note in a folder. Bodies may embed links to other "+
			"items using the :/id or [[id]] syntax; read the contract first via the "+
			"get_link_contract tool or the laguz://link-syntax resource."),
		mcp.WithString("parent_id", mcp.Required(), mcp.Description("Id of the folder to create the note in")),
		mcp.WithString("title", mcp.Description("Note title (defaults to Untitled)")),
		mcp.WithString("body", mcp.Description("Markdown body")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("get_link_contract",
		mcp.WithDescription("Returns the canonical link syntax contract. "+
			"Call this before writing note bodies that reference other items."),
	), s.getLinkContract)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all notes whose body mentions the given id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Id of the item to find backlinks for")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("upload_asset",
		mcp.WithDescription("Store a local file as an attachment, optionally linked to a note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path of the file to store")),
		mcp.WithString("note_id", mcp.Description("Optional note id to associate the attachment with")),
	), s.uploadAsset)

	// Resource: link syntax contract.
	s.mcp.AddResource(
		mcp.NewResource("laguz://link-syntax", "Link Syntax Contract",
			mcp.WithResourceDescription("Canonical embedded-link syntax that note bodies use."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readLinkContractResource,
	)

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

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.search.SearchNotes(query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.hier.GetNote(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if note == nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("# %s\n\n%s", note.Title, note.Body)), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	parentID, err := req.RequireString("parent_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := ""
	if v, tErr := req.RequireString("title"); tErr == nil {
		title = v
	}
	body := ""
	if v, bErr := req.RequireString("body"); bErr == nil {
		body = v
	}

	id, err := s.hier.CreateNote(parentID, title, body)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", id)), nil
}

func (s *Server) getLinkContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(LinkSyntaxContract), nil
}

func (s *Server) readLinkContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "laguz://link-syntax",
			MIMEType: "text/markdown",
			Text:     LinkSyntaxContract,
		},
	}, nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	refs, err := s.links.Backlinks(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(refs) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	out, _ := json.MarshalIndent(refs, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) uploadAsset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	noteID := ""
	if v, nErr := req.RequireString("note_id"); nErr == nil {
		noteID = v
	}

	result, err := s.mgr.Upload(path, noteID, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
