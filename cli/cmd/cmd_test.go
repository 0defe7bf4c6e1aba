package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/widgen/pkg"
)

const labelSource = `imports:
  - from raylib import *
label:
  raylib-call:
    name: draw_text
    args: [text, left, top, size, color]
  layout:
    text: "''"
    size: 20
  appearance:
    color: BLACK
  computed:
    width: measure_text(text, size)
    height: size
`

const panelSource = `module: panels
panel:
  column:
    - title: label
    - {name: body, widget: label}
`

// writeFile creates name under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func names(srcs []source) []string {
	out := make([]string, len(srcs))
	for i, s := range srcs {
		out[i] = s.name
	}

	return out
}

// TestContextValues tests that context helpers round-trip their values.
func TestContextValues(t *testing.T) {
	ctx := context.Background()

	if kongContextFrom(ctx) != nil {
		t.Error("kongContextFrom on empty context should be nil")
	}

	if sourceFilesFrom(ctx) != nil || searchPathFrom(ctx) != nil {
		t.Error("empty context should carry no sources or search path")
	}

	ctx = WithSourceFiles(ctx, []string{"a.yaml"})
	ctx = WithSearchPath(ctx, []string{"/x", "/y"})

	if diff := cmp.Diff([]string{"a.yaml"}, sourceFilesFrom(ctx)); diff != "" {
		t.Errorf("sourceFilesFrom mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"/x", "/y"}, searchPathFrom(ctx)); diff != "" {
		t.Errorf("searchPathFrom mismatch (-want +got):\n%s", diff)
	}
}

// TestFindSource tests extension and search path fallbacks.
func TestFindSource(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib")

	writeFile(t, dir, "local.yaml", labelSource)
	writeFile(t, dir, "exact", labelSource)
	writeFile(t, lib, "shared.yml", labelSource)
	writeFile(t, lib, "local.yaml", labelSource)

	t.Chdir(dir)

	tests := []struct {
		name string
		want string
	}{
		{"exact", "exact"},
		{"local", "local.yaml"},
		{"local.yaml", "local.yaml"},
		{"shared", filepath.Join(lib, "shared.yml")},
		{filepath.Join(dir, "exact"), filepath.Join(dir, "exact")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := findSource(tt.name, []string{lib})
			if err != nil {
				t.Fatalf("findSource(%q): %v", tt.name, err)
			}

			if got != tt.want {
				t.Errorf("findSource(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}

	_, err := findSource("missing", []string{lib})
	if !errors.Is(err, ErrSourceNotFound) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("findSource(missing) = %v, want ErrSourceNotFound", err)
	}

	// Directories are never sources.
	if _, err := findSource("lib", nil); !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("findSource(lib) = %v, want ErrSourceNotFound", err)
	}
}

// TestResolveSources tests ordering, deduplication and standard input.
func TestResolveSources(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", labelSource)
	b := writeFile(t, dir, "b.yaml", panelSource)

	link := filepath.Join(dir, "alias.yaml")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		global []string
		args   []string
		want   []string
	}{
		{"default_stdin", nil, nil, []string{stdinSource}},
		{"ordered", []string{a}, []string{b}, []string{a, b}},
		{"duplicate", []string{a}, []string{a, b}, []string{a, b}},
		{"symlink", nil, []string{a, link}, []string{a}},
		{"stdin_last", nil, []string{stdinSource, b}, []string{b, stdinSource}},
		{"stdin_once", []string{stdinSource}, []string{stdinSource}, []string{stdinSource}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithSourceFiles(context.Background(), tt.global)

			srcs, err := resolveSources(ctx, tt.args)
			if err != nil {
				t.Fatalf("resolveSources: %v", err)
			}

			if diff := cmp.Diff(tt.want, names(srcs)); diff != "" {
				t.Errorf("sources mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestResolveSourcesSearchPath tests that relative names fall back to the
// search path carried by the context.
func TestResolveSourcesSearchPath(t *testing.T) {
	dir := t.TempDir()
	want := writeFile(t, dir, "widgets.yaml", labelSource)

	t.Chdir(t.TempDir())

	ctx := WithSearchPath(context.Background(), []string{dir})

	srcs, err := resolveSources(ctx, []string{"widgets"})
	if err != nil {
		t.Fatalf("resolveSources: %v", err)
	}

	if diff := cmp.Diff([]string{want}, names(srcs)); diff != "" {
		t.Errorf("sources mismatch (-want +got):\n%s", diff)
	}
}

// TestDocuments tests loading documents from several sources in order.
func TestDocuments(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "label.yaml", labelSource)
	b := writeFile(t, dir, "panel.yaml", panelSource)

	docs, err := documents(context.Background(), []string{a, b})
	if err != nil {
		t.Fatalf("documents: %v", err)
	}

	var mods []string
	for _, d := range docs {
		mods = append(mods, d.Module)
	}

	if diff := cmp.Diff([]string{"label", "panels"}, mods); diff != "" {
		t.Errorf("modules mismatch (-want +got):\n%s", diff)
	}
}

// TestDocumentsErrors tests read and syntax failures.
func TestDocumentsErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "a: [1, 2\n")
	empty := writeFile(t, dir, "empty.yaml", "")

	_, err := documents(context.Background(), []string{bad})
	if !errors.Is(err, ErrReadSource) || !errors.Is(err, pkg.ErrReadInput) {
		t.Errorf("documents(bad) = %v, want ErrReadSource", err)
	}

	_, err = documents(context.Background(), []string{empty})
	if !errors.Is(err, pkg.ErrNoSource) {
		t.Errorf("documents(empty) = %v, want ErrNoSource", err)
	}

	_, err = documents(context.Background(), []string{filepath.Join(dir, "none")})
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("documents(none) = %v, want ErrSourceNotFound", err)
	}
}
