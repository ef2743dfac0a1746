package cli

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for i, c := range cases {
		if got := ParseLevel(c.in); got != c.want {
			t.Fatalf("case %d: ParseLevel(%q) = %v, want %v", i, c.in, got, c.want)
		}
	}
}
