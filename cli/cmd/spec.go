package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/widgen/widget"
)

// Spec prints the validated specification in normalized form.
type Spec struct {
	YAML YAML `cmd:"" default:"withargs" help:"Print as a YAML stream (default)."`
	JSON JSON `cmd:""                    help:"Print as a JSON array."`
}

// YAML prints the specification as a YAML stream, one document per module.
type YAML struct {
	Indent int  `default:"2" help:"Indent width of nested structures." short:"i"`
	Flow   bool `            help:"Use flow style for nested structures."`

	Sources []string `arg:"" help:"Specification files or '-' for stdin." name:"source" optional:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	docs, err := loadSpec(ctx, y.Sources)
	if err != nil {
		return err
	}

	err = widget.FormatYAML(ctx, stdout, docs,
		widget.WithFormatIndent(y.Indent),
		widget.WithFlow(y.Flow),
	)
	if err != nil {
		return ErrYAMLMarshal.With(slog.String("format", "yaml")).Wrap(err)
	}

	return nil
}

// JSON prints the specification as a JSON array, one object per module.
type JSON struct {
	Indent int `default:"2" help:"Indent width of nested structures." short:"i"`

	Sources []string `arg:"" help:"Specification files or '-' for stdin." name:"source" optional:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	docs, err := loadSpec(ctx, j.Sources)
	if err != nil {
		return err
	}

	err = widget.FormatJSON(ctx, stdout, docs, widget.WithFormatIndent(j.Indent))
	if err != nil {
		return ErrYAMLMarshal.With(slog.String("format", "json")).Wrap(err)
	}

	return nil
}

// loadSpec loads the documents of sources and logs their diagnostics.
func loadSpec(ctx context.Context, sources []string) ([]*widget.Document, error) {
	docs, err := documents(ctx, sources)
	if err != nil {
		return nil, err
	}

	for _, doc := range docs {
		report(ctx, doc.Module, doc.Diagnostics)
	}

	return docs, nil
}
