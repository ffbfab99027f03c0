package logger

import (
	"testing"

	"github.com/charmbracelet/log"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { Logger.SetLevel(log.InfoLevel) })

	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"WARN", log.WarnLevel},
		{"warning", log.WarnLevel},
		{" error ", log.ErrorLevel},
		{"", log.InfoLevel},
	}
	for _, tt := range tests {
		if err := SetLevel(tt.in); err != nil {
			t.Fatalf("SetLevel(%q) error: %v", tt.in, err)
		}
		if got := Logger.GetLevel(); got != tt.want {
			t.Fatalf("SetLevel(%q) level = %v, want %v", tt.in, got, tt.want)
		}
	}

	if err := SetLevel("chatty"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
