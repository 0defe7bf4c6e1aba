package repl

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistoryPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "explore.history")

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load (missing file): %v", err)
	}

	for _, e := range []HistoryEntry{
		{Line: "size + 1", Mode: modeEval},
		{Line: "list", Mode: modeCtrl},
		{Line: "  ", Mode: modeEval},
		{Line: "m.x", Mode: modeEval},
		{Line: "m.x", Mode: modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q): %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{Line: "size + 1", Mode: modeEval},
		{Line: "list", Mode: modeCtrl},
		{Line: "m.x", Mode: modeEval},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if got := string(data); got != "E:size + 1\nC:list\nE:m.x\n" {
		t.Errorf("history file = %q", got)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff(want, reloaded.Entries()); diff != "" {
		t.Errorf("reloaded entries mismatch (-want +got):\n%s", diff)
	}
}

func TestHistoryMoveDuplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "explore.history")

	h := NewHistory(path)

	for _, line := range []string{"a", "b", "c", "a"} {
		if err := h.Add(line, modeEval); err != nil {
			t.Fatalf("Add(%q): %v", line, err)
		}
	}

	// Same text in another mode is a distinct entry.
	if err := h.Add("b", modeCtrl); err != nil {
		t.Fatalf("Add: %v", err)
	}

	want := []HistoryEntry{
		{Line: "b", Mode: modeEval},
		{Line: "c", Mode: modeEval},
		{Line: "a", Mode: modeEval},
		{Line: "b", Mode: modeCtrl},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff(want, reloaded.Entries()); diff != "" {
		t.Errorf("reloaded entries mismatch (-want +got):\n%s", diff)
	}
}

func TestHistoryLimit(t *testing.T) {
	h := NewHistory("")

	for i := range maxHistory + 5 {
		if err := h.Add(strconv.Itoa(i), modeEval); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	if h.Len() != maxHistory {
		t.Fatalf("Len() = %d, want %d", h.Len(), maxHistory)
	}

	first, err := h.Entry(0)
	if err != nil {
		t.Fatalf("Entry(0): %v", err)
	}

	if first.Line != "5" {
		t.Errorf("oldest entry = %q, want %q", first.Line, "5")
	}
}

func TestHistoryInMemory(t *testing.T) {
	h := NewHistory("")

	if err := h.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := h.Add("size", modeEval); err != nil {
		t.Fatalf("Add: %v", err)
	}

	e, err := h.Entry(0)
	if err != nil {
		t.Fatalf("Entry(0): %v", err)
	}

	if e.Line != "size" || e.Mode != modeEval {
		t.Errorf("Entry(0) = %+v", e)
	}

	for _, i := range []int{-1, 1} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want %v", i, err, ErrOutOfBounds)
		}
	}
}

func TestDecodeEntry(t *testing.T) {
	tests := []struct {
		line string
		want HistoryEntry
	}{
		{"E:size", HistoryEntry{Line: "size", Mode: modeEval}},
		{"C:scope draw", HistoryEntry{Line: "scope draw", Mode: modeCtrl}},
		{"size", HistoryEntry{Line: "size", Mode: modeEval}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := decodeEntry(tt.line)
			if got != tt.want {
				t.Errorf("decodeEntry(%q) = %+v, want %+v", tt.line, got, tt.want)
			}

			if tt.line != tt.want.encode() && tt.line != "size" {
				t.Errorf("encode() = %q, want %q", tt.want.encode(), tt.line)
			}
		})
	}
}
