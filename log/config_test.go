package log

import (
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"Info", LevelInfo},
		{" warn ", LevelWarn},
		{"error", LevelError},
		{"info+2", Level(2)},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{" Text", FormatText},
		{"xml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFormat(tt.in); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNames(t *testing.T) {
	if diff := cmp.Diff(
		[]string{"trace", "debug", "info", "warn", "error"},
		slices.Collect(Levels()),
	); diff != "" {
		t.Errorf("Levels() mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"json", "text"}, slices.Collect(Formats())); diff != "" {
		t.Errorf("Formats() mismatch (-want +got):\n%s", diff)
	}

	for l := range Levels() {
		if ParseLevel(l).String() != l {
			t.Errorf("ParseLevel(%q) does not round-trip", l)
		}
	}
}

func TestNormalizeLayout(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"RFC3339", time.RFC3339},
		{"rfc_3339_nano", time.RFC3339Nano},
		{"Kitchen", time.Kitchen},
		{"ms", time.StampMilli},
		{"DateTime", time.DateTime},
		{"none", ""},
		{"  ", ""},
		{"2006-01-02", "2006-01-02"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := normalizeLayout(tt.in); got != tt.want {
				t.Errorf("normalizeLayout(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	if got := formatTime(time.RFC3339, ts); got != "2024-05-06T07:08:09Z" {
		t.Errorf("formatTime(RFC3339) = %q", got)
	}

	if got := formatTime("", ts); got != "" {
		t.Errorf("formatTime(\"\") = %q, want empty", got)
	}
}

func BenchmarkFormatTime(b *testing.B) {
	ts := time.Now()

	for b.Loop() {
		_ = formatTime(time.RFC3339Nano, ts)
	}
}
