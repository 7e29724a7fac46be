// Package mcp exposes the project and entry queries as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/choplin/projectdb/internal/model"
	"github.com/choplin/projectdb/internal/usecase"
)

// Server wraps the MCP server with projectdb tools.
type Server struct {
	server *mcp.Server
	svc    *usecase.Service
	logger *slog.Logger
}

// NewServer creates a new MCP server answering from svc.
func NewServer(svc *usecase.Service, version string, logger *slog.Logger) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "projectdb",
		Version: version,
	}, nil)

	s := &Server{
		server: mcpServer,
		svc:    svc,
		logger: logger,
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves a single session over t.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_projects",
		Description: "List all projects",
	}, s.handleListProjects)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_project",
		Description: "Create a new, empty project",
	}, s.handleCreateProject)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project and all of its entries",
	}, s.handleDeleteProject)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_entries",
		Description: "List the entries of a project",
	}, s.handleListEntries)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_entry",
		Description: "Get a single entry of a project by id",
	}, s.handleGetEntry)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_entry",
		Description: "Add an entry to a project",
	}, s.handleCreateEntry)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_entry",
		Description: "Delete an entry from a project",
	}, s.handleDeleteEntry)
}

// ListProjectsInput is the empty argument of list_projects.
type ListProjectsInput struct{}

// ListProjectsOutput lists the project names, sorted.
type ListProjectsOutput struct {
	Projects []string `json:"projects"`
}

// ProjectInput names the project a tool acts on.
type ProjectInput struct {
	Project string `json:"project" jsonschema:"name of the project"`
}

// MutationOutput reports whether a mutation succeeded.
type MutationOutput struct {
	OK bool `json:"ok"`
}

// ListEntriesOutput holds the entries of a project in id order.
type ListEntriesOutput struct {
	Entries []model.Entry `json:"entries"`
}

// EntryInput addresses one entry of a project.
type EntryInput struct {
	Project string `json:"project" jsonschema:"name of the project"`
	ID      uint32 `json:"id" jsonschema:"id of the entry"`
}

// GetEntryOutput carries the entry when Found is set.
type GetEntryOutput struct {
	Found bool         `json:"found"`
	Entry *model.Entry `json:"entry,omitempty"`
}

// CreateEntryInput describes the entry to add to a project.
type CreateEntryInput struct {
	Project   string `json:"project" jsonschema:"name of the project"`
	Title     string `json:"title" jsonschema:"title of the entry"`
	Body      string `json:"body" jsonschema:"body of the entry"`
	Published bool   `json:"published,omitempty" jsonschema:"whether the entry is published"`
}

// CreateEntryOutput returns the id assigned to the new entry.
type CreateEntryOutput struct {
	ID uint32 `json:"id"`
}

// Tool handlers

func (s *Server) handleListProjects(ctx context.Context, _ *mcp.CallToolRequest, _ ListProjectsInput) (*mcp.CallToolResult, ListProjectsOutput, error) {
	projects, err := s.svc.Projects(ctx)
	if err != nil {
		return nil, ListProjectsOutput{}, s.toolError("list projects", err)
	}
	return nil, ListProjectsOutput{Projects: projects}, nil
}

func (s *Server) handleCreateProject(ctx context.Context, _ *mcp.CallToolRequest, input ProjectInput) (*mcp.CallToolResult, MutationOutput, error) {
	ok, err := s.svc.CreateProject(ctx, input.Project)
	if err != nil {
		return nil, MutationOutput{}, s.toolError("create project", err)
	}
	return nil, MutationOutput{OK: ok}, nil
}

func (s *Server) handleDeleteProject(ctx context.Context, _ *mcp.CallToolRequest, input ProjectInput) (*mcp.CallToolResult, MutationOutput, error) {
	ok, err := s.svc.DeleteProject(ctx, input.Project)
	if err != nil {
		return nil, MutationOutput{}, s.toolError("delete project", err)
	}
	return nil, MutationOutput{OK: ok}, nil
}

func (s *Server) handleListEntries(ctx context.Context, _ *mcp.CallToolRequest, input ProjectInput) (*mcp.CallToolResult, ListEntriesOutput, error) {
	entries, err := s.svc.Entries(ctx, input.Project)
	if err != nil {
		return nil, ListEntriesOutput{}, s.toolError("list entries", err)
	}
	return nil, ListEntriesOutput{Entries: entries}, nil
}

func (s *Server) handleGetEntry(ctx context.Context, _ *mcp.CallToolRequest, input EntryInput) (*mcp.CallToolResult, GetEntryOutput, error) {
	entry, err := s.svc.Entry(ctx, input.Project, input.ID)
	if err != nil {
		return nil, GetEntryOutput{}, s.toolError("get entry", err)
	}
	return nil, GetEntryOutput{Found: entry != nil, Entry: entry}, nil
}

func (s *Server) handleCreateEntry(ctx context.Context, _ *mcp.CallToolRequest, input CreateEntryInput) (*mcp.CallToolResult, CreateEntryOutput, error) {
	id, err := s.svc.CreateEntry(ctx, input.Project, model.CreateEntry{
		Title:     input.Title,
		Body:      input.Body,
		Published: input.Published,
	})
	if err != nil {
		return nil, CreateEntryOutput{}, s.toolError("create entry", err)
	}
	return nil, CreateEntryOutput{ID: id}, nil
}

func (s *Server) handleDeleteEntry(ctx context.Context, _ *mcp.CallToolRequest, input EntryInput) (*mcp.CallToolResult, MutationOutput, error) {
	ok, err := s.svc.DeleteEntry(ctx, input.Project, input.ID)
	if err != nil {
		return nil, MutationOutput{}, s.toolError("delete entry", err)
	}
	return nil, MutationOutput{OK: ok}, nil
}

// toolError tags err with its kind so clients can tell the failures apart.
func (s *Server) toolError(op string, err error) error {
	kind := model.Kind(err)
	s.logger.Debug("tool call failed", "op", op, "kind", kind, "error", err)
	return fmt.Errorf("%s [%s]: %w", op, kind, err)
}
