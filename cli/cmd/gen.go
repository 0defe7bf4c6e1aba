package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/widgen/compiler"
	"github.com/ardnew/widgen/lang"
	"github.com/ardnew/widgen/log"
	"github.com/ardnew/widgen/pkg"
	"github.com/ardnew/widgen/widget"
)

// stdout receives generated text when no output directory is given.
var stdout io.Writer = os.Stdout

// moduleExt is the file extension of generated modules.
const moduleExt = ".py"

// Gen compiles widget specifications into modules.
type Gen struct {
	OutDir string `help:"Write each module to DIR/<module>.py instead of stdout." placeholder:"DIR" short:"o" type:"path"`
	Check  bool   `help:"Report modules in --out-dir that are missing or stale instead of writing them."`

	Sources []string `arg:"" help:"Specification files or '-' for stdin." name:"source" optional:""`
}

// Run executes the gen command.
func (g *Gen) Run(ctx context.Context, opts *Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if g.Check && g.OutDir == "" {
		return ErrCheckOutDir
	}

	docs, err := documents(ctx, g.Sources)
	if err != nil {
		return err
	}

	c := opts.compiler()

	if g.Check {
		return g.check(ctx, c, docs)
	}

	mods, cerr := c.CompileAll(ctx, docs)

	for _, m := range mods {
		report(ctx, m.Name, m.Diagnostics)

		if err := g.write(ctx, m); err != nil {
			return err
		}
	}

	if cerr != nil {
		return failed(ctx, cerr)
	}

	return nil
}

// report logs the diagnostics of a module.
func report(ctx context.Context, module string, diags []lang.Diagnostic) {
	for _, d := range diags {
		log.WarnContext(ctx, d.Message,
			slog.String("module", module),
			slog.Any("diagnostic", d))
	}
}

// failed logs every widget that failed to compile and returns the error
// summarizing them. Errors other than widget failures are returned as is.
func failed(ctx context.Context, err error) error {
	var n int

	for _, e := range pkg.UnwrapErrors(err) {
		if werr, ok := e.(*compiler.Error); ok {
			log.ErrorContext(ctx, "widget not generated", slog.Any("error", werr))

			n++
		}
	}

	if n == 0 {
		return err
	}

	return pkg.ErrCompile.Wrapf("%d widget(s) failed", n)
}

// path returns the output path of module m.
func (g *Gen) path(m *compiler.Module) string {
	return filepath.Join(g.OutDir, m.Name+moduleExt)
}

// write writes m to its file in the output directory, or to stdout.
func (g *Gen) write(ctx context.Context, m *compiler.Module) error {
	if g.OutDir == "" {
		if _, err := io.WriteString(stdout, m.Text); err != nil {
			return ErrWriteModule.
				With(slog.String("module", m.Name)).
				Wrap(pkg.ErrWriteOutput.Wrap(err))
		}

		return nil
	}

	path := g.path(m)

	if err := writeFileAtomic(path, []byte(m.Text)); err != nil {
		return ErrWriteModule.
			With(slog.String("module", m.Name), slog.String("file", path)).
			Wrap(pkg.ErrWriteOutput.Wrap(err))
	}

	log.DebugContext(ctx, "module written",
		slog.String("module", m.Name),
		slog.String("file", path),
		slog.String("stamp", m.Stamp))

	return nil
}

// writeFileAtomic replaces the file at path with data, creating its
// directory as needed.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()

		return err
	}

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()

		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// check reports every document whose module in the output directory is
// missing or carries a different stamp. Documents are compiled in order so
// that each stamp covers the widgets it uses from earlier documents.
func (g *Gen) check(ctx context.Context, c *compiler.Compiler, docs []*widget.Document) error {
	var stale []string

	for _, doc := range docs {
		path := filepath.Join(g.OutDir, doc.Module+moduleExt)

		m, err := c.Compile(ctx, doc)
		if err := ctx.Err(); err != nil {
			return err
		}

		if err != nil {
			log.DebugContext(ctx, "module has failed widgets",
				slog.String("module", doc.Module),
				slog.Any("error", err))
		}

		want := m.Stamp

		got, err := readStamp(path)

		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.WarnContext(ctx, "module missing",
				slog.String("module", doc.Module),
				slog.String("file", path))

		case err != nil:
			return ErrReadSource.With(slog.String("file", path)).Wrap(err)

		case got != want:
			log.WarnContext(ctx, "module stale",
				slog.String("module", doc.Module),
				slog.String("file", path),
				slog.String("stamp", got),
				slog.String("want", want))

		default:
			log.DebugContext(ctx, "module current",
				slog.String("module", doc.Module),
				slog.String("file", path))

			continue
		}

		stale = append(stale, doc.Module)
	}

	if len(stale) > 0 {
		return ErrStaleModule.
			With(slog.Any("modules", stale)).
			Wrap(pkg.ErrStale)
	}

	return nil
}

// readStamp returns the stamp recorded in the file at path, or an empty
// string when it has none.
func readStamp(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	stamp, _ := compiler.ReadStamp(f)

	return stamp, nil
}
