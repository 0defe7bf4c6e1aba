package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSearchPath(t *testing.T) {
	root := t.TempDir()

	dir := func(name string) string {
		p := filepath.Join(root, name)
		if err := os.Mkdir(p, 0o755); err != nil {
			t.Fatalf("Mkdir: %v", err)
		}

		return p
	}

	a, b, c := dir("a"), dir("b"), dir("c")
	env := strings.Join([]string{b, c}, string(os.PathListSeparator))

	got := searchPath([]string{a, b}, env)
	if diff := cmp.Diff([]string{a, b, c}, got); diff != "" {
		t.Errorf("searchPath mismatch (-want +got):\n%s", diff)
	}

	missing := filepath.Join(root, "missing")
	env = strings.Join([]string{a, missing, c}, string(os.PathListSeparator))

	got = searchPath([]string{c, missing}, env)
	if diff := cmp.Diff([]string{c, a}, got); diff != "" {
		t.Errorf("searchPath keeps flag order mismatch (-want +got):\n%s", diff)
	}

	if got := searchPath(nil, ""); len(got) != 0 {
		t.Errorf("searchPath(nil, \"\") = %v, want empty", got)
	}
}

func TestConfigPath(t *testing.T) {
	if got := configPath(); got == "" {
		t.Fatal("configPath() is empty")
	}

	if got, want := filepath.Base(configPath(baseConfig)), baseConfig; got != want {
		t.Errorf("configPath(%q) base = %q, want %q", baseConfig, got, want)
	}
}
