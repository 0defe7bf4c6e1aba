package compiler

import (
	"github.com/ardnew/widgen/emit"
	"github.com/ardnew/widgen/lang"
)

// factory writes a specialization as a function returning an instance of its
// base with some parameters fixed or derived.
func (b *build) factory(e *emit.Emitter) error {
	e.Call("def "+b.spec.Name+"(", b.signature(), "):")
	e.Indent()

	for _, r := range b.params {
		if v := r.v(); !v.ComputedParam {
			b.bind(v.Sname, v.Expr)
		}
	}

	err := b.special.ResolveAll(b.special.NewSeen(), func(idx int, v *lang.Variable) error {
		b.assign(e, b.special, idx, v)

		return nil
	})
	if err != nil {
		return err
	}

	args := make([]string, 0, len(b.base.Params)+1)

	for _, p := range b.base.Params {
		if value, ok := b.value(p.Ename); ok {
			args = append(args, p.Pname+"="+value)
		}
	}

	args = append(args, "name=name")

	e.Call("return "+b.base.Name+"(", args, ")")

	for _, inc := range b.spec.Include {
		e.Newline()
		e.Block(inc)
	}

	e.Dedent()

	return nil
}

// value returns the local holding the value passed on to the base parameter
// with the given ename.
func (b *build) value(ename string) (string, bool) {
	if v := b.special.Get(ename); v != nil {
		return v.Sname, true
	}

	if r, ok := b.param(ename); ok {
		return r.v().Sname, true
	}

	return "", false
}
