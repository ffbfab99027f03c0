package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandShow      CommandType = "SHOW"
	CommandPercent   CommandType = "PERCENT"
	CommandHide      CommandType = "HIDE"
	CommandScroll    CommandType = "SCROLL"
	CommandGetStatus CommandType = "STATUS"
	CommandReload    CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ShowPayload replaces the displayed text. Lines past the end of Lines are
// cleared. Colour and TimeoutMillis override the configured values for this
// message only.
type ShowPayload struct {
	Lines         []string `json:"lines"`
	Colour        string   `json:"colour,omitempty"`
	TimeoutMillis int64    `json:"timeout_ms,omitempty"`
}

// PercentPayload draws a percentage bar, or a slider when Slider is set.
type PercentPayload struct {
	Line   int  `json:"line"`
	Value  int  `json:"value"`
	Slider bool `json:"slider,omitempty"`
}

type ScrollPayload struct {
	Lines int `json:"lines"`
}

// StatusData represents the data returned by STATUS
type StatusData struct {
	Backend        string `json:"backend"`
	SessionOpen    bool   `json:"session_open"`
	Onscreen       bool   `json:"onscreen"`
	Lines          int    `json:"lines"`
	Colour         string `json:"colour"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	Position       string `json:"position"`
	Align          string `json:"align"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	DaemonRunning  bool   `json:"daemon_running"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
