package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/widgen/log"
	"github.com/ardnew/widgen/pkg"
	"github.com/ardnew/widgen/widget"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	sourceFilesKey struct{}
	searchPathKey  struct{}
)

// WithSourceFiles returns a new context.Context carrying source names given
// ahead of any command (the global --source flag). Commands read them before
// their own positional sources.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, sources)
}

func sourceFilesFrom(ctx context.Context) []string {
	s, _ := ctx.Value(sourceFilesKey{}).([]string)

	return s
}

// WithSearchPath returns a new context.Context carrying the directories
// searched for relative source names that do not exist as given.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, dirs)
}

func searchPathFrom(ctx context.Context) []string {
	s, _ := ctx.Value(searchPathKey{}).([]string)

	return s
}

// source is one input stream: a file, or standard input when path is empty.
type source struct {
	name string
	path string
}

// stdinSource is the source name for standard input.
const stdinSource = widget.Stdin

// sourceExts are tried in order after the name as given.
var sourceExts = []string{"", ".yaml", ".yml"}

// fileKey identifies a file by device and inode, so a file named twice
// through different paths or symlinks is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

func makeFileKey(info os.FileInfo) (fileKey, bool) {
	if info == nil {
		return fileKey{}, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// findSource returns the path of the file named name: the name itself (with
// or without a .yaml/.yml extension), or, for a relative name, the first
// match in dirs.
func findSource(name string, dirs []string) (string, error) {
	candidates := []string{name}
	if !filepath.IsAbs(name) {
		for _, dir := range dirs {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}

	for _, c := range candidates {
		for _, ext := range sourceExts {
			if info, err := os.Stat(c + ext); err == nil && info.Mode().IsRegular() {
				return c + ext, nil
			}
		}
	}

	return "", ErrSourceNotFound.
		With(slog.String("source", name), slog.Any("path", dirs)).
		Wrap(fs.ErrNotExist)
}

// resolveSources returns the sources named by the global --source flag and
// args, in order, with duplicates removed and standard input last. With no
// names at all it returns standard input alone.
func resolveSources(ctx context.Context, args []string) ([]source, error) {
	names := append(append([]string{}, sourceFilesFrom(ctx)...), args...)
	if len(names) == 0 {
		names = []string{stdinSource}
	}

	var (
		srcs  []source
		stdin bool
		seen  = make(map[fileKey]struct{})
		dirs  = searchPathFrom(ctx)
	)

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, stdinOK := makeFileKey(stdinInfo)

	for _, name := range names {
		if name == stdinSource {
			stdin = true

			continue
		}

		path, err := findSource(name, dirs)
		if err != nil {
			return nil, err
		}

		if resolved, err := filepath.EvalSymlinks(path); err == nil {
			info, err := os.Stat(resolved)
			if key, ok := makeFileKey(info); err == nil && ok {
				if stdinOK && key == stdinKey {
					stdin = true

					continue
				}

				if _, dup := seen[key]; dup {
					log.DebugContext(ctx, "duplicate source",
						slog.String("source", name),
						slog.String("path", path))

					continue
				}

				seen[key] = struct{}{}
			}
		}

		srcs = append(srcs, source{name: path, path: path})
	}

	if stdin {
		srcs = append(srcs, source{name: stdinSource})
	}

	return srcs, nil
}

// load reads every document of the source.
func (s source) load(ctx context.Context) ([]*widget.Document, error) {
	var r io.Reader = os.Stdin

	if s.path != "" {
		f, err := os.Open(s.path)
		if err != nil {
			return nil, ErrReadSource.With(slog.String("source", s.name)).Wrap(pkg.ErrReadInput.Wrap(err))
		}
		defer f.Close()

		r = f
	}

	docs, err := widget.Load(ctx, s.name, r)
	if err != nil {
		return nil, ErrReadSource.With(slog.String("source", s.name)).Wrap(pkg.ErrReadInput.Wrap(err))
	}

	log.DebugContext(ctx, "source loaded",
		slog.String("source", s.name),
		slog.Int("documents", len(docs)))

	return docs, nil
}

// documents loads the documents of every source named by the global
// --source flag and args.
func documents(ctx context.Context, args []string) ([]*widget.Document, error) {
	srcs, err := resolveSources(ctx, args)
	if err != nil {
		return nil, err
	}

	var (
		docs []*widget.Document
		errs []error
	)

	for _, s := range srcs {
		d, err := s.load(ctx)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		docs = append(docs, d...)
	}

	if err := errors.Join(errs...); err != nil {
		return docs, err
	}

	if len(docs) == 0 {
		return nil, pkg.ErrNoSource
	}

	return docs, nil
}
