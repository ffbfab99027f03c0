package mcp

// ShowOSDInput is the input for the show_osd tool.
type ShowOSDInput struct {
	Lines          []string `json:"lines" jsonschema:"Text lines to display, top to bottom. Lines beyond the display's line count are rejected."`
	Colour         string   `json:"colour,omitempty" jsonschema:"Optional X colour name or #rrggbb for this message only"`
	TimeoutSeconds float64  `json:"timeout_seconds,omitempty" jsonschema:"Optional display timeout in seconds for this message only (default: configured timeout)"`
}

// ShowOSDOutput is the output for the show_osd tool.
type ShowOSDOutput struct {
	Shown int `json:"shown"`
}

// ShowPercentageInput is the input for the show_percentage tool.
type ShowPercentageInput struct {
	Value  int  `json:"value" jsonschema:"Percentage between 0 and 100"`
	Line   int  `json:"line,omitempty" jsonschema:"Display line to draw on (default: 0)"`
	Slider bool `json:"slider,omitempty" jsonschema:"Draw a slider marker instead of a filled bar"`
}

// ShowPercentageOutput is the output for the show_percentage tool.
type ShowPercentageOutput struct {
	Line  int `json:"line"`
	Value int `json:"value"`
}

// HideOSDInput is the input for the hide_osd tool.
type HideOSDInput struct{}

// HideOSDOutput is the output for the hide_osd tool.
type HideOSDOutput struct {
	Hidden bool `json:"hidden"`
}

// StatusInput is the input for the osd_status tool.
type StatusInput struct{}

// StatusOutput is the output for the osd_status tool.
type StatusOutput struct {
	Backend        string `json:"backend"`
	SessionOpen    bool   `json:"session_open"`
	Onscreen       bool   `json:"onscreen"`
	Lines          int    `json:"lines"`
	Colour         string `json:"colour"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	Position       string `json:"position"`
	Align          string `json:"align"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}
