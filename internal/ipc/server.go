package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/termosd/internal/config"
	"github.com/1broseidon/termosd/internal/logger"
	"github.com/1broseidon/termosd/internal/runtimepath"
	"github.com/1broseidon/termosd/osd"
)

// Opener opens a display session configured from cfg.
type Opener func(cfg *config.Config) (*osd.Session, error)

// ServerOptions configures a Server.
type ServerOptions struct {
	// SocketPath defaults to runtimepath.SocketPath.
	SocketPath string
	Open       Opener
	// Load is used by RELOAD and defaults to config.Load.
	Load func() (*config.Config, error)
	// Reloaded receives the new config after a successful RELOAD.
	Reloaded chan<- *config.Config
}

// Server handles IPC requests from clients. It is the only owner of the
// display session; every request touching it holds mu.
type Server struct {
	socketPath string
	listener   net.Listener
	open       Opener
	load       func() (*config.Config, error)
	reloaded   chan<- *config.Config
	startTime  time.Time

	mu      sync.Mutex
	cfg     *config.Config
	session *osd.Session

	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(cfg *config.Config, opts ServerOptions) (*Server, error) {
	if opts.Open == nil {
		return nil, fmt.Errorf("ipc: no session opener")
	}

	socketPath := opts.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}

	load := opts.Load
	if load == nil {
		load = config.Load
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		cfg:        cfg,
		open:       opts.Open,
		load:       load,
		reloaded:   opts.Reloaded,
		startTime:  time.Now(),
	}, nil
}

// Start opens the display session and begins listening for IPC connections.
func (s *Server) Start() error {
	s.mu.Lock()
	_, err := s.ensureSession()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			logger.Warn("IPC accept error", "err", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		logger.Warn("IPC read error", "err", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		logger.Error("Failed to marshal response", "err", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		logger.Warn("Failed to send response", "err", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	logger.Debug("IPC request", "command", req.Command)

	switch req.Command {
	case CommandShow:
		return s.handleShow(req.Payload)
	case CommandPercent:
		return s.handlePercent(req.Payload)
	case CommandHide:
		return s.handleHide()
	case CommandScroll:
		return s.handleScroll(req.Payload)
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// ensureSession returns the open session, opening one if needed. mu must be
// held.
func (s *Server) ensureSession() (*osd.Session, error) {
	if s.session != nil && s.session.State() == osd.StateOpen {
		return s.session, nil
	}
	sess, err := s.open(s.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open display: %w", err)
	}
	s.session = sess
	return sess, nil
}

func (s *Server) handleShow(payload json.RawMessage) *Response {
	var req ShowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid show payload: %v", err))
	}
	if len(req.Lines) == 0 {
		return NewErrorResponse("lines is required")
	}
	if req.TimeoutMillis < 0 {
		return NewErrorResponse("timeout_ms must be >= 0")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensureSession()
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if len(req.Lines) > sess.Lines() {
		return NewErrorResponse(fmt.Sprintf("too many lines: %d (display has %d)", len(req.Lines), sess.Lines()))
	}

	colour := osd.Colour(s.cfg.Colour)
	if req.Colour != "" {
		colour = osd.Colour(req.Colour)
	}
	timeout := s.cfg.Timeout
	if req.TimeoutMillis > 0 {
		timeout = time.Duration(req.TimeoutMillis) * time.Millisecond
	}

	var cmds []osd.Command
	settings := sess.Settings()
	if settings.Colour != colour {
		cmds = append(cmds, osd.SetColour{Colour: colour})
	}
	if settings.Timeout != timeout {
		cmds = append(cmds, osd.SetTimeout{Timeout: timeout})
	}
	for i := 0; i < sess.Lines(); i++ {
		text := ""
		if i < len(req.Lines) {
			text = req.Lines[i]
		}
		cmds = append(cmds, osd.SetText{Line: i, Text: text})
	}

	if err := sess.ApplyAll(cmds...); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to show: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handlePercent(payload json.RawMessage) *Response {
	var req PercentPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid percent payload: %v", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensureSession()
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	var cmd osd.Command = osd.SetPercentage{Line: req.Line, Percent: req.Value}
	if req.Slider {
		cmd = osd.SetSlider{Line: req.Line, Percent: req.Value}
	}
	if err := sess.Apply(cmd); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to draw bar: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleHide() *Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil && s.session.State() == osd.StateOpen {
		if err := s.session.Hide(); err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to hide: %v", err))
		}
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleScroll(payload json.RawMessage) *Response {
	var req ScrollPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid scroll payload: %v", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensureSession()
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := sess.Scroll(req.Lines); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to scroll: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := StatusData{
		Backend:       string(s.cfg.Backend),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}

	if s.session != nil && s.session.State() == osd.StateOpen {
		settings := s.session.Settings()
		status.SessionOpen = true
		status.Lines = s.session.Lines()
		status.Colour = string(settings.Colour)
		status.TimeoutSeconds = int(settings.Timeout / time.Second)
		status.Position = settings.Position.String()
		status.Align = settings.Align.String()

		onscreen, err := s.session.Onscreen()
		if err != nil {
			logger.Warn("Failed to query display state", "err", err)
		}
		status.Onscreen = onscreen
	}

	resp, _ := NewOKResponse(status)
	return resp
}

// handleReload closes the session and opens a new one from the reloaded
// configuration.
func (s *Server) handleReload() *Response {
	logger.Info("IPC: Received RELOAD command")

	newCfg, err := s.load()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	s.mu.Lock()
	var closeErr error
	if s.session != nil {
		closeErr = s.session.Close()
		s.session = nil
	}
	s.cfg = newCfg
	_, openErr := s.ensureSession()
	s.mu.Unlock()

	if closeErr != nil {
		logger.Warn("Failed to close previous display", "err", closeErr)
	}
	if openErr != nil {
		return NewErrorResponse(openErr.Error())
	}

	if s.reloaded != nil {
		select {
		case s.reloaded <- newCfg:
		default:
		}
	}

	logger.Info("IPC: Config reloaded successfully")

	resp, _ := NewOKResponse(nil)
	return resp
}

// Hide hides the display. It is used by the hide hotkey.
func (s *Server) Hide() error {
	resp := s.handleHide()
	if resp.Status != "OK" {
		return errors.New(resp.Error)
	}
	return nil
}

// Reload re-reads the config and replaces the session. It is used on SIGHUP.
func (s *Server) Reload() error {
	resp := s.handleReload()
	if resp.Status != "OK" {
		return errors.New(resp.Error)
	}
	return nil
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop shuts down the IPC server and closes the display session.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		if err := s.session.Close(); err != nil {
			logger.Warn("Failed to close display", "err", err)
		}
		s.session = nil
	}
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}
