package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/squarepool/internal/services/board/service"
)

const (
	serverName    = "squarepool"
	serverVersion = "1.0.0"
)

// NewServer builds an MCP server exposing the read-only board tools.
func NewServer(svc *service.Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "board_get",
		Description: "Report one board's settings, digits, lock state, and claim count.",
	}, BoardGetHandler(svc))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "board_list",
		Description: "List every board with its teams and lock state.",
	}, BoardListHandler(svc))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "squares_list",
		Description: "Report the full 10x10 grid with square owners.",
	}, SquaresListHandler(svc))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "winners_get",
		Description: "Evaluate the winning square for every quarter of a board.",
	}, WinnersHandler(svc))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "audit_tail",
		Description: "Report the newest audit log entries for a board.",
	}, AuditTailHandler(svc))

	return server
}

// Run serves the MCP server over stdio until the context is canceled.
func Run(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
