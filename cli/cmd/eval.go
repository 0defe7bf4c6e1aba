package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/widgen/compiler"
	"github.com/ardnew/widgen/lang"
	"github.com/ardnew/widgen/log"
	"github.com/ardnew/widgen/pkg"
)

// Eval prints the construction-time values of a widget that can be
// determined without running the generated code.
type Eval struct {
	Widget string `arg:"" help:"Widget to evaluate." name:"widget"`
	Static bool   `help:"Omit values that are only known at run time."`

	Sources []string `arg:"" help:"Specification files or '-' for stdin." name:"source" optional:""`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context, opts *Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	u, err := compileUnit(ctx, opts, e.Widget, e.Sources)
	if err != nil {
		return err
	}

	results, err := lang.Evaluate(ctx, u.Bindings)
	if err != nil {
		return err
	}

	for _, r := range results {
		if !r.Static() {
			log.DebugContext(ctx, "dynamic value",
				slog.String("widget", u.Name),
				slog.String("name", r.Name),
				slog.String("reason", r.Err.Error()))

			if e.Static {
				continue
			}
		}

		if _, err := fmt.Fprintln(stdout, r.String()); err != nil {
			return pkg.ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}

// compileUnit compiles the documents of sources, retaining translation
// contexts, and returns the unit of the named widget. Widget failures other
// than the requested one are logged and otherwise ignored.
func compileUnit(
	ctx context.Context, opts *Options, name string, sources []string,
) (*compiler.Unit, error) {
	docs, err := documents(ctx, sources)
	if err != nil {
		return nil, err
	}

	mods, cerr := opts.compiler(compiler.WithRetain(true)).CompileAll(ctx, docs)

	var unit *compiler.Unit

	for _, m := range mods {
		report(ctx, m.Name, m.Diagnostics)

		if u := m.Unit(name); u != nil {
			unit = u
		}
	}

	for _, e := range pkg.UnwrapErrors(cerr) {
		werr, ok := e.(*compiler.Error)
		if !ok {
			continue
		}

		if werr.Widget == name {
			return nil, werr
		}

		log.WarnContext(ctx, "widget not generated", slog.Any("error", werr))
	}

	if unit == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		return nil, ErrUnknownWidget.
			With(slog.String("widget", name)).
			Wrap(pkg.ErrWidgetNotFound)
	}

	return unit, nil
}
