package compiler

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/ardnew/widgen/emit"
	"github.com/ardnew/widgen/lang"
	"github.com/ardnew/widgen/widget"
)

// Compiler turns widget documents into modules. Widgets compiled by one
// Compiler are registered in its [Registry], so documents referring to
// widgets of earlier documents must be compiled by the same Compiler, in
// order.
//
// A Compiler is not safe for concurrent use.
type Compiler struct {
	cfg      config
	registry *Registry
}

// New returns a Compiler with an empty registry.
func New(opts ...Option) *Compiler {
	return &Compiler{
		cfg:      makeConfig(opts...),
		registry: NewRegistry(),
	}
}

// Registry returns the widgets compiled so far.
func (c *Compiler) Registry() *Registry { return c.registry }

// Unit is the generated code of one widget.
type Unit struct {
	Name string
	Kind widget.Kind
	Text string

	// References are the widgets the unit calls by name.
	References []string

	// Construct is the translation context of construction-time expressions
	// (specialization expressions for factories). Set only when compiled
	// with [WithRetain].
	Construct lang.Context
	// Draw is the translation context of draw-time expressions. Its Local
	// scope is nil for factories.
	Draw lang.Context
	// Bindings are the construction-time assignments in emission order.
	Bindings []lang.Binding
}

// Module is the output of compiling one document.
type Module struct {
	Name   string
	Source string
	Stamp  string
	Text   string

	Units       []*Unit
	Diagnostics []lang.Diagnostic
}

// Unit returns the unit generated for the named widget, or nil.
func (m *Module) Unit(name string) *Unit {
	for _, u := range m.Units {
		if u.Name == name {
			return u
		}
	}

	return nil
}

// Compile generates the module of doc.
//
// A widget that fails to compile is left out of the module and the
// registry; its error is wrapped in [*Error] and joined into the returned
// error, and compilation continues with the next widget. The returned
// module is non-nil even when the error is not.
func (c *Compiler) Compile(ctx context.Context, doc *widget.Document) (*Module, error) {
	m := &Module{
		Name:        doc.Module,
		Source:      doc.Source,
		Stamp:       c.Stamp(doc),
		Diagnostics: slices.Clone(doc.Diagnostics),
	}

	externals, wildcard := c.externals(doc)

	var errs []error

	for _, spec := range doc.Widgets {
		if err := ctx.Err(); err != nil {
			return m, err
		}

		u, ent, diags, err := c.compile(ctx, doc, spec, externals, wildcard)
		m.Diagnostics = append(m.Diagnostics, diags...)

		if err == nil {
			err = c.registry.Add(ent)
		}

		if err != nil {
			werr := &Error{Module: doc.Module, Widget: spec.Name, Err: err}
			c.cfg.logger.DebugContext(ctx, "widget failed", slog.Any("error", werr))
			errs = append(errs, werr)

			continue
		}

		c.cfg.logger.DebugContext(ctx, "widget compiled",
			slog.String("module", doc.Module),
			slog.String("widget", spec.Name),
			slog.String("kind", spec.Kind.String()),
			slog.Int("bytes", len(u.Text)),
		)

		m.Units = append(m.Units, u)
	}

	m.Text = c.assemble(doc, m)

	return m, errors.Join(errs...)
}

// CompileAll compiles docs in order, sharing the registry between them.
func (c *Compiler) CompileAll(
	ctx context.Context, docs []*widget.Document,
) ([]*Module, error) {
	mods := make([]*Module, 0, len(docs))

	var errs []error

	for _, doc := range docs {
		m, err := c.Compile(ctx, doc)
		if m != nil {
			mods = append(mods, m)
		}

		if err != nil {
			errs = append(errs, err)

			if ctx.Err() != nil {
				break
			}
		}
	}

	return mods, errors.Join(errs...)
}

func (c *Compiler) compile(
	ctx context.Context,
	doc *widget.Document,
	spec *widget.Spec,
	externals lang.Names,
	wildcard bool,
) (u *Unit, ent *Entry, diags []lang.Diagnostic, err error) {
	defer emit.Recover(&err)

	b := &build{
		ctx:       ctx,
		cfg:       c.cfg,
		module:    doc.Module,
		spec:      spec,
		reg:       c.registry,
		externals: externals,
		wildcard:  wildcard,
	}

	if err := b.prepare(); err != nil {
		return nil, nil, b.diags, err
	}

	e := emit.New(c.cfg.emitter()...)

	if b.base != nil {
		err = b.factory(e)
	} else {
		err = b.class(e)
	}

	if err != nil {
		return nil, nil, b.diags, err
	}

	u = &Unit{
		Name:       spec.Name,
		Kind:       spec.Kind,
		Text:       e.String(),
		References: b.references(),
	}

	if c.cfg.retain {
		u.Bindings = b.bindings

		if b.base != nil {
			u.Construct = b.context(b.special)
		} else {
			u.Construct = b.context(b.construct)
			u.Draw = b.context(b.draw)
		}
	}

	return u, b.entry(), b.diags, nil
}

// externals returns the names every expression of doc may use without a
// declaration, and whether a wildcard import makes that set open-ended.
func (c *Compiler) externals(doc *widget.Document) (lang.Names, bool) {
	names := lang.NewNames(lang.Algebra...)
	names.Add("name", localOffset, localChild, localItem)
	names.Add(doc.Stubs...)

	for ent := range c.registry.All() {
		names.Add(ent.Name)
	}

	for _, spec := range doc.Widgets {
		names.Add(spec.Name)
	}

	wildcard := false

	for _, imp := range doc.Imports {
		bound, star := importNames(imp)
		names.Add(bound...)
		wildcard = wildcard || star
	}

	return names, wildcard
}
