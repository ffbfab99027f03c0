package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/termosd/internal/ipc"
)

const (
	ServerName    = "termosd"
	ServerVersion = "0.1.0"
)

// Daemon is the part of the IPC client the tools use.
type Daemon interface {
	Show(p ipc.ShowPayload) error
	Percent(line, value int, slider bool) error
	Hide() error
	GetStatus() (*ipc.StatusData, error)
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server exposing the OSD daemon as tools. It never opens
// a display itself; the daemon stays the only owner of the session.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates a new MCP server forwarding to daemon.
func NewServer(daemon Daemon) *Server {
	s := &Server{daemon: daemon}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "show_osd",
		Description: "Show one or more lines of text on the on-screen display. The text disappears after the configured timeout unless timeout_seconds overrides it. Remaining display lines are cleared.",
	}, s.handleShowOSD)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "show_percentage",
		Description: "Draw a percentage bar (or a slider with slider=true) on a display line, e.g. for volume or progress.",
	}, s.handleShowPercentage)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "hide_osd",
		Description: "Hide the on-screen display immediately.",
	}, s.handleHideOSD)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "osd_status",
		Description: "Report the daemon's display state: backend, whether text is on screen, line count, colour, timeout and placement.",
	}, s.handleStatus)
}
