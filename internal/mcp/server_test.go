package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choplin/projectdb/internal/catalog"
	"github.com/choplin/projectdb/internal/model"
	"github.com/choplin/projectdb/internal/usecase"
)

func connectClient(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c := catalog.New(t.TempDir(), catalog.WithLogger(logger))
	t.Cleanup(func() { _ = c.Close() })

	server := NewServer(usecase.New(c), "test", logger)
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ss, err := server.Connect(ctx, serverTransport)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	return cs
}

func callTool[T any](t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) T {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.False(t, res.IsError, "tool %s failed: %+v", name, res.Content)

	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestToolsRoundTrip(t *testing.T) {
	cs := connectClient(t)

	created := callTool[MutationOutput](t, cs, "create_project", map[string]any{"project": "notes"})
	assert.True(t, created.OK)

	projects := callTool[ListProjectsOutput](t, cs, "list_projects", map[string]any{})
	assert.Equal(t, []string{"notes"}, projects.Projects)

	entry := callTool[CreateEntryOutput](t, cs, "create_entry", map[string]any{
		"project": "notes",
		"title":   "x",
		"body":    "lorem ipsum",
	})
	assert.Equal(t, uint32(1), entry.ID)

	got := callTool[GetEntryOutput](t, cs, "get_entry", map[string]any{"project": "notes", "id": 1})
	require.True(t, got.Found)
	assert.Equal(t, model.Entry{ID: 1, Title: "x", Body: "lorem ipsum"}, *got.Entry)

	missing := callTool[GetEntryOutput](t, cs, "get_entry", map[string]any{"project": "notes", "id": 5})
	assert.False(t, missing.Found)

	list := callTool[ListEntriesOutput](t, cs, "list_entries", map[string]any{"project": "notes"})
	assert.Len(t, list.Entries, 1)

	deleted := callTool[MutationOutput](t, cs, "delete_entry", map[string]any{"project": "notes", "id": 1})
	assert.True(t, deleted.OK)

	list = callTool[ListEntriesOutput](t, cs, "list_entries", map[string]any{"project": "notes"})
	assert.Empty(t, list.Entries)

	removed := callTool[MutationOutput](t, cs, "delete_project", map[string]any{"project": "notes"})
	assert.True(t, removed.OK)
}

func TestToolErrorsCarryKind(t *testing.T) {
	cs := connectClient(t)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "list_entries",
		Arguments: map[string]any{"project": "ghost"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "[not_found]")
}
