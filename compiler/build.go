package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/widgen/lang"
	"github.com/ardnew/widgen/widget"
)

// build holds the state of one widget compilation.
type build struct {
	ctx    context.Context
	cfg    config
	module string
	spec   *widget.Spec
	reg    *Registry

	sc *lang.Shortcuts

	layout     *lang.Scope
	appearance *lang.Scope
	construct  *lang.Scope
	draw       *lang.Scope
	special    *lang.Scope

	// params is the construction signature in order.
	params []ref
	slots  []slot
	kids   []child
	base   *Entry

	// calls are pseudo construction values printed as wrapped calls.
	calls map[int]call
	// sizes are the aggregated extents by ename.
	sizes map[string]int

	elements  lang.Names
	types     lang.Names
	externals lang.Names
	wildcard  bool

	diags      []lang.Diagnostic
	unresolved lang.Names
	bindings   []lang.Binding
}

// ref addresses a variable in the arena of a scope.
type ref struct {
	scope *lang.Scope
	idx   int
}

func (r ref) v() *lang.Variable { return r.scope.At(r.idx) }

type child struct {
	widget.Element
	entry *Entry
	idx   int
}

type slot struct {
	widget.Element
	entry *Entry
	param ref
}

type call struct {
	head string
	args []string
	tail string
}

// Extents aggregated for composite widgets.
const (
	Width  = "width"
	Height = "height"
)

func (b *build) warn(key, format string, args ...any) {
	b.diags = append(b.diags, lang.Warning(b.spec.Name, key, fmt.Sprintf(format, args...)))
}

func (b *build) trace(msg string, attrs ...slog.Attr) {
	attrs = append([]slog.Attr{slog.String("widget", b.spec.Name)}, attrs...)
	b.cfg.logger.TraceContext(b.ctx, msg, attrs...)
}

// prepare builds the shortcut table and every scope of the widget.
func (b *build) prepare() error {
	b.calls = make(map[int]call)
	b.sizes = make(map[string]int)
	b.elements = lang.NewNames()
	b.types = lang.NewNames()
	b.unresolved = lang.NewNames()

	b.sc = lang.NewShortcuts()
	for _, s := range b.spec.Shortcuts {
		if err := b.sc.Define(s.Short, s.Canonical); err != nil {
			b.warn(widget.KeyShortcuts, "shortcut %s → %s dropped: %v", s.Short, s.Canonical, err)
		}
	}

	if err := b.resolveWidgets(); err != nil {
		return err
	}

	if b.spec.Kind == widget.KindSpecializes {
		b.layout = lang.NewFunctionScope(lang.ScopeLayout)
		b.appearance = lang.NewFunctionScope(lang.ScopeAppearance)
	} else {
		b.layout = lang.NewScope(lang.ScopeLayout)
		b.appearance = lang.NewScope(lang.ScopeAppearance)
	}

	for _, e := range b.spec.Layout {
		b.declare(b.layout, e)
	}

	for i, s := range b.slots {
		if r, ok := b.declare(b.layout, lang.Entry{Name: s.Name, Value: lang.NewLiteral("()")}); ok {
			b.slots[i].param = r
		}
	}

	for _, e := range b.spec.Appearance {
		b.declare(b.appearance, e)
	}

	if b.base != nil {
		b.reexpose()
		b.buildSpecial()
	} else {
		b.buildConstruct()
		b.buildDraw()
	}

	b.report()

	b.trace("scopes built",
		slog.Int("layout", b.layout.Len()),
		slog.Int("appearance", b.appearance.Len()),
		slog.Int(lang.ScopeConstruct.String(), b.construct.Len()),
		slog.Int(lang.ScopeDraw.String(), b.draw.Len()),
		slog.Int(lang.ScopeSpecialize.String(), b.special.Len()),
	)

	return nil
}

// resolveWidgets looks up every widget the specification refers to.
// Widgets must be compiled before they are referenced.
func (b *build) resolveWidgets() error {
	switch {
	case b.spec.Kind == widget.KindSpecializes:
		base, err := b.reg.Lookup(b.spec.Base)
		if err != nil {
			return err
		}

		b.base = base

	case b.spec.Kind.Composite():
		for _, el := range b.spec.Elements {
			entry, err := b.reg.Lookup(el.Widget)
			if err != nil {
				return err
			}

			b.types.Add(el.Widget)

			if el.Slot {
				b.slots = append(b.slots, slot{Element: el, entry: entry})

				continue
			}

			b.elements.Add(el.Name)
			b.kids = append(b.kids, child{Element: el, entry: entry})
		}
	}

	return nil
}

// references returns the widgets the generated code calls by name.
func (b *build) references() []string {
	var refs []string

	if b.base != nil {
		refs = append(refs, b.base.Name)
	}

	for _, k := range b.kids {
		refs = append(refs, k.Widget)
	}

	for _, s := range b.slots {
		refs = append(refs, s.Widget)
	}

	return refs
}

// param returns the construction parameter with the given ename.
func (b *build) param(ename string) (ref, bool) {
	for _, s := range []*lang.Scope{b.layout, b.appearance} {
		if idx, ok := s.Index(ename); ok {
			return ref{s, idx}, true
		}
	}

	return ref{}, false
}

func (b *build) declare(scope *lang.Scope, e lang.Entry) (ref, bool) {
	ename := lang.Flatten(b.sc.Substitute(e.Name))
	pname := lang.Flatten(e.Name)

	if _, ok := b.param(ename); ok ||
		b.layout.ByPname(pname) != nil || b.appearance.ByPname(pname) != nil {
		b.warn(scope.Kind().String(), "duplicate parameter %s dropped", e.Name)

		return ref{}, false
	}

	idx, err := scope.Declare(b.sc, e.Name, e.Value)
	if err != nil {
		b.warn(scope.Kind().String(), "parameter %s dropped: %v", e.Name, err)

		return ref{}, false
	}

	r := ref{scope, idx}
	b.params = append(b.params, r)

	return r, true
}

// reexpose declares the base parameters the specialization does not
// declare itself, spelled through the specialization's own shortcuts.
func (b *build) reexpose() {
	for _, p := range b.base.Params {
		if _, ok := b.param(p.Ename); ok {
			continue
		}

		scope := b.layout
		if p.Appearance {
			scope = b.appearance
		}

		b.declare(scope, lang.Entry{
			Name:  b.sc.Desubstitute(p.Dotted),
			Value: lang.NewLiteral(p.Default),
		})
	}
}

// override marks the parameter coinciding with a computed entry as a
// computed parameter.
func (b *build) override(key, ename string) {
	r, ok := b.param(ename)
	if !ok {
		return
	}

	prev, _ := r.scope.MarkComputed(ename)
	if prev.Text != "" && !prev.IsNone() {
		b.warn(key, "default %s of %s discarded; the computed value applies when no value is given",
			prev.Text, ename)
	}
}

func (b *build) buildConstruct() {
	b.construct = lang.NewScope(lang.ScopeConstruct)

	for i, k := range b.kids {
		idx, err := b.construct.Register(nil, k.Name, lang.Value{}, lang.KindPseudo)
		if err != nil {
			b.warn(b.spec.Kind.String(), "element %s dropped: %v", k.Name, err)

			continue
		}

		b.kids[i].idx = idx
	}

	if b.spec.Kind.Composite() {
		for _, dim := range []string{Width, Height} {
			if idx, err := b.construct.Register(nil, dim, lang.Value{}, lang.KindPseudo); err == nil {
				b.sizes[dim] = idx
			}
		}
	}

	for _, e := range b.spec.Computed {
		ename := lang.Flatten(b.sc.Substitute(e.Name))

		if idx, ok := b.construct.Index(ename); ok {
			if sz, isSize := b.sizes[ename]; isSize && sz == idx {
				b.construct.Replace(idx, e.Value, lang.KindComputed)
				delete(b.sizes, ename)

				continue
			}

			b.warn(widget.KeyComputed, "duplicate name %s dropped", e.Name)

			continue
		}

		if _, err := b.construct.Register(b.sc, e.Name, e.Value, lang.KindComputed); err != nil {
			b.warn(widget.KeyComputed, "%s dropped: %v", e.Name, err)
		}
	}

	for _, v := range b.construct.All() {
		if b.elements.Has(v.Ename) {
			if _, ok := b.param(v.Ename); ok {
				b.warn(b.spec.Kind.String(), "element %s shadows a parameter", v.Ename)
			}

			continue
		}

		b.override(widget.KeyComputed, v.Ename)
	}

	b.bindChildren()
	b.bindSizes()

	if err := b.construct.Populate(b.context(b.construct)); err != nil {
		b.warn(widget.KeyComputed, "%v", err)
	}
}

// available returns the storage of a construction-time name and, for
// computed values, its index in the construction scope.
func (b *build) available(ename string) (string, int, bool) {
	if idx, ok := b.construct.Index(ename); ok {
		if v := b.construct.At(idx); v.Kind == lang.KindComputed {
			return v.Sname, idx, true
		}
	}

	if r, ok := b.param(ename); ok {
		return r.v().Sname, -1, true
	}

	return "", -1, false
}

// bindChildren forwards to each child every construction-time name whose
// flattened "<child>__<field>" form matches a child parameter.
func (b *build) bindChildren() {
	for _, k := range b.kids {
		var (
			args  []string
			needs []int
		)

		for _, p := range k.entry.Params {
			for _, name := range []string{p.Ename, p.Pname} {
				sname, idx, ok := b.available(k.Name + lang.Flat + name)
				if !ok {
					continue
				}

				args = append(args, p.Pname+"="+sname)

				if idx >= 0 {
					needs = append(needs, idx)
				}

				break
			}
		}

		args = append(args, "name="+quote(k.Name))

		b.calls[k.idx] = call{head: k.Widget + "(", args: args, tail: ")"}
		b.construct.Bind(k.idx, lang.Translation{
			Text:  k.Widget + "(" + strings.Join(args, ", ") + ")",
			Needs: sorted(needs),
		})
	}
}

// stacks reports whether children of the widget are laid out one after
// another along the extent dim.
func (b *build) stacks(dim string) bool {
	switch b.spec.Kind {
	case widget.KindRow:
		return dim == Width

	case widget.KindColumn:
		return dim == Height

	default:
		return false
	}
}

// bindSizes aggregates the extents of the children: summed along the
// stacking axis, maximal across it.
func (b *build) bindSizes() {
	for _, dim := range []string{Width, Height} {
		idx, ok := b.sizes[dim]
		if !ok {
			continue
		}

		terms := make([]string, 0, len(b.kids)+len(b.slots))
		needs := make([]int, 0, len(b.kids))

		for _, k := range b.kids {
			terms = append(terms, lang.Receiver+lang.Separator+k.Name+lang.Separator+dim)
			needs = append(needs, k.idx)
		}

		for _, s := range b.slots {
			if s.param.scope == nil {
				continue
			}

			terms = append(terms, "*(_c."+dim+" for _c in "+s.param.v().Sname+")")
		}

		spread := len(terms) > len(b.kids)

		var c call

		switch {
		case len(terms) == 0:
			c = call{head: "0"}

		case b.stacks(dim) && spread:
			c = call{head: "sum([", args: terms, tail: "])"}

		case b.stacks(dim):
			c = call{head: strings.Join(terms, " + ")}

		case spread:
			c = call{head: "max([", args: terms, tail: "], default=0)"}

		case len(terms) == 1:
			c = call{head: terms[0]}

		default:
			c = call{head: "max(", args: terms, tail: ")"}
		}

		if len(c.args) > 0 {
			b.calls[idx] = c
		}

		b.construct.Bind(idx, lang.Translation{
			Text:  c.head + strings.Join(c.args, ", ") + c.tail,
			Needs: sorted(needs),
		})
	}
}

func (b *build) buildDraw() {
	b.draw = lang.NewScope(lang.ScopeDraw)
	b.draw.Seed()

	for _, e := range b.spec.DrawComputed {
		ename := lang.Flatten(b.sc.Substitute(e.Name))

		if _, ok := b.param(ename); ok || b.construct.Get(ename) != nil {
			b.warn(widget.KeyDrawComputed,
				"%s dropped: it coincides with a construction-time name", e.Name)

			continue
		}

		if idx, ok := b.draw.Index(ename); ok {
			if b.draw.At(idx).Kind == lang.KindPseudo {
				b.draw.Replace(idx, e.Value, lang.KindComputed)
			} else {
				b.warn(widget.KeyDrawComputed, "duplicate name %s dropped", e.Name)
			}

			continue
		}

		if _, err := b.draw.Register(b.sc, e.Name, e.Value, lang.KindComputed); err != nil {
			b.warn(widget.KeyDrawComputed, "%s dropped: %v", e.Name, err)
		}
	}

	if err := b.draw.Populate(b.context(b.draw)); err != nil {
		b.warn(widget.KeyDrawComputed, "%v", err)
	}
}

func (b *build) buildSpecial() {
	b.special = lang.NewFunctionScope(lang.ScopeSpecialize)

	for _, e := range b.spec.SpecializeComputed {
		idx, err := b.special.Register(b.sc, e.Name, e.Value, lang.KindComputed)
		if err != nil {
			b.warn(widget.KeySpecializeComputed, "%s dropped: %v", e.Name, err)

			continue
		}

		b.override(widget.KeySpecializeComputed, b.special.At(idx).Ename)
	}

	if err := b.special.Populate(b.context(b.special)); err != nil {
		b.warn(widget.KeySpecializeComputed, "%v", err)
	}
}

// context returns the translation context of expressions belonging to
// local.
func (b *build) context(local *lang.Scope) lang.Context {
	ctx := lang.Context{
		Shortcuts:  b.sc,
		Layout:     b.layout,
		Appearance: b.appearance,
		Local:      local,
		Elements:   b.elements,
		Types:      b.types,
		Externals:  b.externals,
	}

	if local != b.construct {
		ctx.Stored = b.construct
	}

	return ctx
}

// unresolvedName records a strict-mode warning for each name first seen.
func (b *build) unresolvedName(key string, names []string) {
	if !b.cfg.strict || b.wildcard {
		return
	}

	for _, name := range names {
		if b.unresolved.Has(name) {
			continue
		}

		b.unresolved.Add(name)
		b.warn(key, "unresolved name %s", name)
	}
}

// report records the unresolved names of declared computed values.
func (b *build) report() {
	for _, s := range []*lang.Scope{b.construct, b.draw, b.special} {
		for _, v := range s.All() {
			if v.Kind == lang.KindComputed {
				b.unresolvedName(s.Kind().String()+"."+v.Ename, v.Unresolved)
			}
		}
	}
}

func quote(s string) string { return "'" + s + "'" }

func sorted(idx []int) []int {
	seen := make(map[int]struct{}, len(idx))
	out := make([]int, 0, len(idx))

	for _, i := range idx {
		if _, ok := seen[i]; !ok {
			seen[i] = struct{}{}
			out = append(out, i)
		}
	}

	slices.Sort(out)

	return out
}
