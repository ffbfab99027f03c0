package mcp

import (
	"context"
	"fmt"
	"math"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/termosd/internal/ipc"
	"github.com/1broseidon/termosd/internal/logger"
)

func (s *Server) handleShowOSD(_ context.Context, _ *mcpsdk.CallToolRequest, args ShowOSDInput) (*mcpsdk.CallToolResult, ShowOSDOutput, error) {
	if len(args.Lines) == 0 {
		return nil, ShowOSDOutput{}, fmt.Errorf("lines is required")
	}
	if args.TimeoutSeconds < 0 {
		return nil, ShowOSDOutput{}, fmt.Errorf("timeout_seconds must be >= 0")
	}

	payload := ipc.ShowPayload{
		Lines:         args.Lines,
		Colour:        args.Colour,
		TimeoutMillis: int64(math.Ceil(args.TimeoutSeconds * 1000)),
	}
	if err := s.daemon.Show(payload); err != nil {
		return nil, ShowOSDOutput{}, fmt.Errorf("show_osd: %w", err)
	}

	logger.Debug("MCP show_osd", "lines", len(args.Lines))
	return nil, ShowOSDOutput{Shown: len(args.Lines)}, nil
}

func (s *Server) handleShowPercentage(_ context.Context, _ *mcpsdk.CallToolRequest, args ShowPercentageInput) (*mcpsdk.CallToolResult, ShowPercentageOutput, error) {
	if args.Value < 0 || args.Value > 100 {
		return nil, ShowPercentageOutput{}, fmt.Errorf("value must be between 0 and 100")
	}
	if args.Line < 0 {
		return nil, ShowPercentageOutput{}, fmt.Errorf("line must be >= 0")
	}

	if err := s.daemon.Percent(args.Line, args.Value, args.Slider); err != nil {
		return nil, ShowPercentageOutput{}, fmt.Errorf("show_percentage: %w", err)
	}
	return nil, ShowPercentageOutput{Line: args.Line, Value: args.Value}, nil
}

func (s *Server) handleHideOSD(_ context.Context, _ *mcpsdk.CallToolRequest, _ HideOSDInput) (*mcpsdk.CallToolResult, HideOSDOutput, error) {
	if err := s.daemon.Hide(); err != nil {
		return nil, HideOSDOutput{}, fmt.Errorf("hide_osd: %w", err)
	}
	return nil, HideOSDOutput{Hidden: true}, nil
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("osd_status: %w", err)
	}
	return nil, StatusOutput{
		Backend:        st.Backend,
		SessionOpen:    st.SessionOpen,
		Onscreen:       st.Onscreen,
		Lines:          st.Lines,
		Colour:         st.Colour,
		TimeoutSeconds: st.TimeoutSeconds,
		Position:       st.Position,
		Align:          st.Align,
		UptimeSeconds:  st.UptimeSeconds,
	}, nil
}
