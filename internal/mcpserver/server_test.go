package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/laguz/internal/assets"
	"github.com/starford/laguz/internal/hierarchy"
	"github.com/starford/laguz/internal/links"
	"github.com/starford/laguz/internal/search"
	"github.com/starford/laguz/internal/store"
	"github.com/starford/laguz/internal/testutil"
)

func testServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()

	st := testutil.TestStore(t)
	mgr, err := assets.NewManager(t.TempDir(), st, nil)
	if err != nil {
		t.Fatal(err)
	}

	srv := New(
		hierarchy.NewService(st, nil),
		links.NewResolver(st),
		search.NewService(st),
		mgr,
	)
	return srv, st
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call the
	// handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_notes":
		result, err = srv.searchNotes(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "create_note":
		result, err = srv.createNote(ctx, req)
	case "get_backlinks":
		result, err = srv.getBacklinks(ctx, req)
	case "get_link_contract":
		result, err = srv.getLinkContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndReadNote(t *testing.T) {
	srv, st := testServer(t)
	folderID := testutil.MakeFolder(t, st, "Inbox", "")

	r := callTool(t, srv, "create_note", map[string]interface{}{
		"parent_id": folderID,
		"title":     "Test",
		"body":      "Hello",
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "created: ") {
		t.Fatalf("create result = %q", text)
	}
	id := strings.TrimPrefix(text, "created: ")

	r = callTool(t, srv, "read_note", map[string]interface{}{"id": id})
	text = resultText(r)
	if text != "# Test\n\nHello" {
		t.Errorf("read result = %q", text)
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_note", map[string]interface{}{
		"id": "00000000000000000000000000000000",
	})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestSearchNotesTool(t *testing.T) {
	srv, st := testServer(t)
	folderID := testutil.MakeFolder(t, st, "Inbox", "")
	testutil.MakeNote(t, st, "Kayak trip", "paddling", folderID)

	r := callTool(t, srv, "search_notes", map[string]interface{}{"query": "kayak"})
	if !strings.Contains(resultText(r), "Kayak trip") {
		t.Errorf("search result = %q", resultText(r))
	}
}

func TestGetBacklinksTool(t *testing.T) {
	srv, st := testServer(t)
	folderID := testutil.MakeFolder(t, st, "Inbox", "")
	target := testutil.MakeNote(t, st, "T", "", folderID)
	testutil.MakeNote(t, st, "Referrer", "see :/"+target, folderID)

	r := callTool(t, srv, "get_backlinks", map[string]interface{}{"id": target})
	if !strings.Contains(resultText(r), "Referrer") {
		t.Errorf("backlinks = %q", resultText(r))
	}

	r = callTool(t, srv, "get_backlinks", map[string]interface{}{
		"id": "ffffffffffffffffffffffffffffffff",
	})
	if resultText(r) != "no backlinks found" {
		t.Errorf("empty backlinks = %q", resultText(r))
	}
}

func TestLinkContractTool(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_link_contract", nil)
	if !strings.Contains(resultText(r), "Link Syntax Contract") {
		t.Error("contract text missing")
	}
}
