package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/widgen/lang"
)

const source = `module: ui
imports:
  - from raylib import *
stubs: [theme]
label:
  raylib-call:
    name: draw_text
    args: [text, left, top, size, color]
  layout:
    text: "''"
    size: 20
    margin:
      x: 2
      y: 1.5
  appearance:
    color: BLACK
    visible: true
  shortcuts:
    m: margin
panel:
  column:
    - title: label
    - {name: body, widget: label}
    - {slot: items, widget: label}
  align: center
broken:
  layout: {a: 1}
bad name:
  row: []
---
big:
  specializes: label
  layout:
    size: 40
  bogus: 1
`

func load(t *testing.T, name, src string) []*Document {
	t.Helper()

	docs, err := Load(context.Background(), name, strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	return docs
}

func diagnostics(d *Document) []string {
	out := make([]string, len(d.Diagnostics))
	for i, diag := range d.Diagnostics {
		out[i] = diag.String()
	}

	return out
}

func TestLoad(t *testing.T) {
	docs := load(t, "dir/spec.yaml", source)
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}

	ui := docs[0]

	if ui.Module != "ui" || docs[1].Module != "spec_1" {
		t.Errorf("modules = %q, %q", ui.Module, docs[1].Module)
	}

	if diff := cmp.Diff([]string{"from raylib import *"}, ui.Imports); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"theme"}, ui.Stubs); diff != "" {
		t.Errorf("stubs mismatch (-want +got):\n%s", diff)
	}

	wantLabel := &Spec{
		Name: "label",
		Kind: KindRaylibCall,
		Call: &Call{
			Name: "draw_text",
			Args: []lang.Value{
				lang.NewExpr("text"),
				lang.NewExpr("left"),
				lang.NewExpr("top"),
				lang.NewExpr("size"),
				lang.NewExpr("color"),
			},
		},
		Layout: []lang.Entry{
			{Name: "text", Value: lang.NewExpr("''")},
			{Name: "size", Value: lang.NewLiteral("20")},
			{Name: "margin.x", Value: lang.NewLiteral("2")},
			{Name: "margin.y", Value: lang.NewLiteral("1.5")},
		},
		Appearance: []lang.Entry{
			{Name: "color", Value: lang.NewExpr("BLACK")},
			{Name: "visible", Value: lang.NewLiteral("True")},
		},
		Shortcuts: []Shortcut{{Short: "m", Canonical: "margin"}},
	}

	if diff := cmp.Diff(wantLabel, ui.Widget("label")); diff != "" {
		t.Errorf("label mismatch (-want +got):\n%s", diff)
	}

	wantPanel := &Spec{
		Name: "panel",
		Kind: KindColumn,
		Elements: []Element{
			{Name: "title", Widget: "label"},
			{Name: "body", Widget: "label"},
			{Name: "items", Widget: "label", Slot: true},
		},
		Align: AlignCenter,
	}

	if diff := cmp.Diff(wantPanel, ui.Widget("panel")); diff != "" {
		t.Errorf("panel mismatch (-want +got):\n%s", diff)
	}

	if ui.Widget("broken") != nil {
		t.Error("widget without kind tag was kept")
	}

	wantDiag := []string{
		"warning: broken: missing kind tag (one of raylib-call, row, column, stack, specializes)",
		"warning: bad name: widget name is not an identifier",
	}

	if diff := cmp.Diff(wantDiag, diagnostics(ui)); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}

	big := docs[1].Widget("big")
	if big == nil || big.Kind != KindSpecializes || big.Base != "label" {
		t.Fatalf("big = %+v", big)
	}

	if diff := cmp.Diff(
		[]string{"warning: big.bogus: unknown key ignored"},
		diagnostics(docs[1]),
	); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "two_tags",
			src:  "w:\n  row: []\n  column: []\n",
			want: "warning: w.column: widget is already row; tag ignored",
		},
		{
			name: "call_without_name",
			src:  "w:\n  raylib-call: {args: [1]}\n",
			want: "warning: w.raylib-call: call has no name",
		},
		{
			name: "element_without_widget",
			src:  "w:\n  row:\n    - {name: a}\n",
			want: "warning: w.row: element a has no widget",
		},
		{
			name: "bad_align",
			src:  "w:\n  row: []\n  align: middle\n",
			want: "warning: w.align: unknown alignment middle",
		},
		{
			name: "align_on_leaf",
			src:  "w:\n  raylib-call: f\n  align: end\n",
			want: "warning: w.align: alignment has no effect on raylib-call",
		},
		{
			name: "not_a_mapping",
			src:  "- a\n- b\n",
			want: "warning: document is a list, not a mapping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := load(t, Stdin, tt.src)
			if len(docs) != 1 {
				t.Fatalf("got %d documents", len(docs))
			}

			got := diagnostics(docs[0])
			if len(got) == 0 || got[0] != tt.want {
				t.Errorf("diagnostics = %q, want %q first", got, tt.want)
			}
		})
	}
}

func TestLoadSyntaxError(t *testing.T) {
	_, err := Load(context.Background(), "x.yaml", strings.NewReader("a: [1, 2\n"))
	if err == nil {
		t.Fatal("expected a syntax error")
	}
}

func TestModuleName(t *testing.T) {
	tests := []struct {
		source string
		index  int
		want   string
	}{
		{"widgets/controls.yaml", 0, "controls"},
		{"my-panel.yml", 2, "my_panel_2"},
		{Stdin, 0, "widgets"},
		{"9lives.yaml", 0, "_lives"},
	}

	for _, tt := range tests {
		if got := moduleName(tt.source, tt.index); got != tt.want {
			t.Errorf("moduleName(%q, %d) = %q, want %q", tt.source, tt.index, got, tt.want)
		}
	}
}

func TestFormatYAMLReload(t *testing.T) {
	docs := load(t, "spec.yaml", source)

	var buf bytes.Buffer
	if err := FormatYAML(context.Background(), &buf, docs); err != nil {
		t.Fatalf("FormatYAML: %v", err)
	}

	again := load(t, "spec.yaml", buf.String())
	if len(again) != len(docs) {
		t.Fatalf("reloaded %d documents, want %d", len(again), len(docs))
	}

	for i := range docs {
		if diff := cmp.Diff(docs[i].Widgets, again[i].Widgets); diff != "" {
			t.Errorf("document %d widgets changed (-want +got):\n%s", i, diff)
		}

		if len(again[i].Diagnostics) != 0 {
			t.Errorf("document %d reloaded with diagnostics %v", i, diagnostics(again[i]))
		}
	}
}

func TestFormatJSON(t *testing.T) {
	docs := load(t, "spec.yaml", source)

	var buf bytes.Buffer
	if err := FormatJSON(context.Background(), &buf, docs); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if len(got) != 2 || got[0]["module"] != "ui" || got[1]["module"] != "spec_1" {
		t.Errorf("unexpected JSON documents: %v", got)
	}
}
