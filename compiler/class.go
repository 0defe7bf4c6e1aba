package compiler

import (
	"log/slog"

	"github.com/ardnew/widgen/emit"
	"github.com/ardnew/widgen/lang"
	"github.com/ardnew/widgen/widget"
)

// Locals of generated method bodies.
const (
	localOffset = "_offset"
	localChild  = "_c"
	localItem   = "_item"
	attrInitial = "_initial"
)

// Generated method names.
const (
	methodInit  = "__init__"
	methodDraw  = "draw"
	methodClear = "clear"
)

// class writes the widget as a class with a constructor, a draw method and a
// clear method.
func (b *build) class(e *emit.Emitter) error {
	e.Line("class " + b.spec.Name + ":")
	e.Indent()

	if err := b.init(e); err != nil {
		return err
	}

	e.Newline()

	if err := b.drawMethod(e); err != nil {
		return err
	}

	e.Newline()
	b.clearMethod(e)

	for _, inc := range b.spec.Include {
		e.Newline()
		e.Block(inc)
	}

	e.Dedent()

	return nil
}

// signature returns the construction parameters with their defaults.
func (b *build) signature(head ...string) []string {
	sig := append([]string{}, head...)
	for _, r := range b.params {
		v := r.v()
		sig = append(sig, v.Pname+"="+v.Expr)
	}

	return append(sig, "name="+quote(b.spec.Name))
}

func (b *build) isSlot(r ref) bool {
	for _, s := range b.slots {
		if s.param == r {
			return true
		}
	}

	return false
}

func (b *build) init(e *emit.Emitter) error {
	e.Call("def "+methodInit+"(", b.signature(lang.Receiver), "):")
	e.Indent()

	e.Line(lang.Receiver + ".name = name")
	b.bind(lang.Receiver+".name", quote(b.spec.Name))

	for _, r := range b.params {
		v := r.v()
		if v.ComputedParam {
			continue
		}

		if b.isSlot(r) {
			e.Line(v.Sname + " = list(" + v.Pname + ")")
			e.Line("for " + localItem + " in " + v.Sname + ":")
			e.Indent()
			e.Line("setattr(" + lang.Receiver + ", " + localItem + ".name, " + localItem + ")")
			e.Dedent()
			b.bind(v.Sname, v.Expr)

			continue
		}

		e.Line(v.Sname + " = " + v.Pname)
		b.bind(v.Sname, v.Expr)
	}

	seen := b.construct.NewSeen()

	err := b.construct.ResolveAll(seen, func(idx int, v *lang.Variable) error {
		b.assign(e, b.construct, idx, v)

		return nil
	})
	if err != nil {
		return err
	}

	if b.appearance.Len() > 0 {
		items := make([]string, 0, b.appearance.Len())
		for _, v := range b.appearance.All() {
			items = append(items, quote(v.Ename)+": "+v.Sname)
		}

		e.Call(lang.Receiver+Dot+attrInitial+" = {", items, "}")
	}

	e.Dedent()

	return nil
}

// Dot separates an attribute from its owner in generated code.
const Dot = lang.Separator

// assign writes the statement storing variable v of scope.
func (b *build) assign(e *emit.Emitter, scope *lang.Scope, idx int, v *lang.Variable) {
	b.trace("emit", slog.String("scope", scope.Kind().String()), slog.Any("variable", v))

	prefix := v.Sname + " = "

	if scope != b.draw {
		if r, ok := b.param(v.Ename); ok && r.v().ComputedParam {
			p := r.v().Pname
			prefix += p + " if " + p + " is not None else "
		}
	}

	if c, ok := b.calls[idx]; ok && scope == b.construct {
		e.Call(prefix+c.head, c.args, c.tail)
	} else {
		e.Line(prefix + v.Expr)
	}

	if scope != b.draw {
		b.bind(v.Sname, v.Expr)
	}
}

func (b *build) bind(name, expr string) {
	if b.cfg.retain {
		b.bindings = append(b.bindings, lang.Binding{Name: name, Expr: expr})
	}
}

func (b *build) drawMethod(e *emit.Emitter) error {
	sig := []string{lang.Receiver, "pos"}
	for _, v := range b.appearance.All() {
		sig = append(sig, v.Pname+"="+lang.None)
	}

	e.Call("def "+methodDraw+"(", sig, "):")
	e.Indent()

	start := e.Len()

	for _, v := range b.appearance.All() {
		e.Line("if " + v.Pname + " is not None:")
		e.Indent()
		e.Line(v.Sname + " = " + v.Pname)
		e.Dedent()
	}

	var err error
	if b.spec.Kind.Composite() {
		err = b.drawChildren(e)
	} else {
		err = b.drawCall(e)
	}

	if err != nil {
		return err
	}

	if e.Len() == start {
		e.Line("pass")
	}

	e.Dedent()

	return nil
}

// local emits a draw-time variable.
func (b *build) local(e *emit.Emitter) func(int, *lang.Variable) error {
	return func(idx int, v *lang.Variable) error {
		b.assign(e, b.draw, idx, v)

		return nil
	}
}

// drawCall writes the graphics call of a raylib-call widget, preceded by the
// draw-time values its arguments need.
func (b *build) drawCall(e *emit.Emitter) error {
	var (
		ctx   = b.context(b.draw)
		args  = make([]string, 0, len(b.spec.Call.Args)+len(b.spec.Call.Kwargs))
		needs []int
	)

	translate := func(v lang.Value) string {
		t, err := ctx.Translate(v)
		if err != nil {
			b.warn(widget.KindRaylibCall.String(), "%v", err)
		}

		needs = append(needs, t.Needs...)
		b.unresolvedName(widget.KindRaylibCall.String(), t.Unresolved)

		return t.Text
	}

	for _, a := range b.spec.Call.Args {
		args = append(args, translate(a))
	}

	for _, kw := range b.spec.Call.Kwargs {
		args = append(args, kw.Name+"="+translate(kw.Value))
	}

	if err := b.draw.Resolve(b.draw.NewSeen(), sorted(needs), b.local(e)); err != nil {
		return err
	}

	e.Call(b.spec.Call.Name+"(", args, ")")

	return nil
}

// anchor names the draw-time extent and position constructor placing
// children along one axis for an alignment.
type anchor struct {
	extent string
	ctor   string
}

var (
	horizontal = map[widget.Align]anchor{
		widget.AlignStart:  {"left", "Start"},
		widget.AlignCenter: {"center", "Center"},
		widget.AlignEnd:    {"right", "End"},
	}
	vertical = map[widget.Align]anchor{
		widget.AlignStart:  {"top", "Start"},
		widget.AlignCenter: {"middle", "Center"},
		widget.AlignEnd:    {"bottom", "End"},
	}
)

// drawChildren writes the draw calls of the children of a composite: one
// after another along the stacking axis, aligned across it.
func (b *build) drawChildren(e *emit.Emitter) error {
	var (
		x, y   anchor
		offset string
		dim    string
	)

	switch b.spec.Kind {
	case widget.KindRow:
		x = horizontal[widget.AlignStart]
		y = vertical[b.spec.Align]
		offset, dim = x.extent, Width

	case widget.KindColumn:
		x = horizontal[b.spec.Align]
		y = vertical[widget.AlignStart]
		offset, dim = y.extent, Height

	default:
		x = horizontal[b.spec.Align]
		y = vertical[b.spec.Align]
	}

	if len(b.kids) == 0 && len(b.slots) == 0 {
		return nil
	}

	idx, err := b.draw.Lookup(x.extent, y.extent)
	if err != nil {
		return err
	}

	if err := b.draw.Resolve(b.draw.NewSeen(), idx, b.local(e)); err != nil {
		return err
	}

	place := func(a anchor) string {
		return a.ctor + "(" + b.draw.Get(a.extent).Sname + ")"
	}

	px, py := place(x), place(y)

	switch b.spec.Kind {
	case widget.KindRow:
		px = "Start(" + localOffset + ")"

	case widget.KindColumn:
		py = "Start(" + localOffset + ")"
	}

	pos := "Pos(" + px + ", " + py + ")"

	if dim != "" {
		e.Line(localOffset + " = " + b.draw.Get(offset).Sname)
	}

	for _, k := range b.kids {
		owner := lang.Receiver + Dot + k.Name
		e.Call(owner+Dot+methodDraw+"(", append([]string{pos}, b.forward(k)...), ")")

		if dim != "" {
			e.Line(localOffset + " += " + owner + Dot + dim)
		}
	}

	for _, s := range b.slots {
		if s.param.scope == nil {
			continue
		}

		e.Line("for " + localChild + " in " + s.param.v().Sname + ":")
		e.Indent()
		e.Line(localChild + Dot + methodDraw + "(" + pos + ")")

		if dim != "" {
			e.Line(localOffset + " += " + localChild + Dot + dim)
		}

		e.Dedent()
	}

	return nil
}

// forward returns the draw arguments passing composite appearance values
// named "<child>__<field>" on to the child.
func (b *build) forward(k child) []string {
	var args []string

	for _, p := range k.entry.Draw {
		for _, name := range []string{p.Ename, p.Pname} {
			if v := b.appearance.Get(k.Name + lang.Flat + name); v != nil {
				args = append(args, p.Pname+"="+v.Sname)

				break
			}
		}
	}

	return args
}

func (b *build) clearMethod(e *emit.Emitter) {
	e.Line("def " + methodClear + "(" + lang.Receiver + "):")
	e.Indent()

	start := e.Len()

	for _, v := range b.appearance.All() {
		e.Line(v.Sname + " = " + lang.Receiver + Dot + attrInitial + "[" + quote(v.Ename) + "]")
	}

	for _, k := range b.kids {
		e.Line(lang.Receiver + Dot + k.Name + Dot + methodClear + "()")
	}

	for _, s := range b.slots {
		if s.param.scope == nil {
			continue
		}

		e.Line("for " + localChild + " in " + s.param.v().Sname + ":")
		e.Indent()
		e.Line(localChild + Dot + methodClear + "()")
		e.Dedent()
	}

	if e.Len() == start {
		e.Line("pass")
	}

	e.Dedent()
}

// entry returns the registry metadata of the compiled widget.
func (b *build) entry() *Entry {
	ent := &Entry{Name: b.spec.Name, Kind: b.spec.Kind, Module: b.module}

	for _, r := range b.params {
		v := r.v()
		p := Param{
			Ename:      v.Ename,
			Pname:      v.Pname,
			Dotted:     v.Dotted,
			Default:    v.Expr,
			Appearance: r.scope == b.appearance,
		}

		ent.Params = append(ent.Params, p)

		if p.Appearance && b.base == nil {
			ent.Draw = append(ent.Draw, p)
		}
	}

	if b.base != nil {
		ent.Draw = b.base.Draw
	}

	return ent
}
