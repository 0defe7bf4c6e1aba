package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/widgen/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// envPath names the environment variable holding the source search path.
var envPath = pkg.EnvIdentifier("path")

// defaultDirMode is the permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// configPath returns the path formed by joining the configuration directory
// with the given path elements.
//
// If no elements are given, it is equivalent to calling [pkg.ConfigDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	if err := os.MkdirAll(pkg.ConfigDir(), defaultDirMode); err != nil {
		return err
	}

	return os.MkdirAll(pkg.CacheDir(), defaultDirMode)
}

// searchPath returns the directories searched for relative source names:
// the --path directories, in order, followed by the entries of [envPath].
// Entries that are not directories are removed, and a repeated entry keeps
// its first position.
func searchPath(dirs []string, env string) []string {
	sep := string(os.PathListSeparator)

	list := mung.Make(
		mung.WithSubjectItems(env),
		mung.WithDelim(sep),
		mung.WithFilter(isDir),
	).String()

	var path []string

	for _, dir := range append(slices.Clone(dirs), strings.Split(list, sep)...) {
		if dir == "" || !isDir(dir) || slices.Contains(path, dir) {
			continue
		}

		path = append(path, dir)
	}

	return path
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
