package lang

import (
	"errors"
	"iter"
	"log/slog"
)

// ScopeKind identifies the role of a [Scope] within a widget.
type ScopeKind int

const (
	ScopeLayout ScopeKind = iota
	ScopeAppearance
	ScopeConstruct
	ScopeDraw
	ScopeSpecialize
)

// String returns the document key the scope is declared under.
func (k ScopeKind) String() string {
	switch k {
	case ScopeLayout:
		return "layout"

	case ScopeAppearance:
		return "appearance"

	case ScopeConstruct:
		return "computed"

	case ScopeDraw:
		return "draw-computed"

	case ScopeSpecialize:
		return "specialize-computed"

	default:
		return "unknown"
	}
}

// Local reports whether variables of the scope are stored in locals of the
// generated function body rather than on the instance.
func (k ScopeKind) Local() bool {
	return k == ScopeDraw || k == ScopeSpecialize
}

// Computed reports whether the scope holds derived values.
func (k ScopeKind) Computed() bool {
	return k == ScopeConstruct || k == ScopeDraw || k == ScopeSpecialize
}

// Receiver is the instance reference prefixed to stored names.
const Receiver = "self"

// Entry is one declared (name, value) pair in document order.
type Entry struct {
	Name  string
	Value Value
}

// Scope is an ordered arena of [Variable] addressed by index, with lookup
// indexes by ename and by pname.
type Scope struct {
	kind    ScopeKind
	local   bool
	vars    []Variable
	byEname map[string]int
	byPname map[string]int
}

// NewScope returns an empty scope of the given kind.
func NewScope(kind ScopeKind) *Scope {
	return &Scope{
		kind:    kind,
		local:   kind.Local(),
		byEname: make(map[string]int),
		byPname: make(map[string]int),
	}
}

// NewFunctionScope returns an empty scope whose variables are locals of a
// generated function: parameters are stored under their pname and computed
// values under their ename.
func NewFunctionScope(kind ScopeKind) *Scope {
	s := NewScope(kind)
	s.local = true

	return s
}

// Kind returns the role of the scope.
func (s *Scope) Kind() ScopeKind { return s.kind }

// Len returns the number of variables in the scope. A nil scope is empty.
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}

	return len(s.vars)
}

// At returns the variable at idx.
func (s *Scope) At(idx int) *Variable { return &s.vars[idx] }

// Index returns the index of the variable with the given ename.
func (s *Scope) Index(ename string) (int, bool) {
	if s == nil {
		return 0, false
	}

	idx, ok := s.byEname[ename]

	return idx, ok
}

// Get returns the variable with the given ename, or nil.
func (s *Scope) Get(ename string) *Variable {
	if idx, ok := s.Index(ename); ok {
		return &s.vars[idx]
	}

	return nil
}

// ByPname returns the variable declared with the given parameter spelling,
// or nil.
func (s *Scope) ByPname(pname string) *Variable {
	if s == nil {
		return nil
	}

	if idx, ok := s.byPname[pname]; ok {
		return &s.vars[idx]
	}

	return nil
}

// All yields every variable in declaration order.
func (s *Scope) All() iter.Seq2[int, *Variable] {
	return func(yield func(int, *Variable) bool) {
		if s == nil {
			return
		}

		for i := range s.vars {
			if !yield(i, &s.vars[i]) {
				return
			}
		}
	}
}

// Enames returns the enames of every variable in declaration order.
func (s *Scope) Enames() []string {
	names := make([]string, 0, s.Len())
	for _, v := range s.All() {
		names = append(names, v.Ename)
	}

	return names
}

func (s *Scope) storage(ename, pname string) string {
	switch {
	case !s.local:
		return Receiver + Separator + ename

	case pname != "":
		return pname

	default:
		return ename
	}
}

func (s *Scope) add(v Variable) (int, error) {
	if idx, ok := s.byEname[v.Ename]; ok {
		return idx, ErrDuplicateName.With(
			slog.String("scope", s.kind.String()),
			slog.String("name", v.Ename),
		)
	}

	if v.Pname != "" {
		if idx, ok := s.byPname[v.Pname]; ok {
			return idx, ErrDuplicateName.With(
				slog.String("scope", s.kind.String()),
				slog.String("name", v.Pname),
			)
		}
	}

	idx := len(s.vars)
	s.vars = append(s.vars, v)
	s.byEname[v.Ename] = idx

	if v.Pname != "" {
		s.byPname[v.Pname] = idx
	}

	return idx, nil
}

// Declare adds a parameter named name with default value def.
// The ename is the shortcut-substituted, flattened name; the pname is the
// flattened name as written. Shortcuts in the default are substituted.
func (s *Scope) Declare(sc *Shortcuts, name string, def Value) (int, error) {
	dotted := sc.Substitute(name)
	ename := Flatten(dotted)

	pname := Flatten(name)

	expr := def.Text
	if !def.Verbatim {
		expr = sc.SubstituteAll(expr)
	}

	return s.add(Variable{
		Ename:  ename,
		Pname:  pname,
		Sname:  s.storage(ename, pname),
		Dotted: dotted,
		Kind:   KindParameter,
		Raw:    def,
		Expr:   expr,
		bound:  true,
	})
}

// Register performs the first construction pass for a computed variable:
// the name is reserved so later expressions can refer to it regardless of
// declaration order, and the expression is left unbound.
func (s *Scope) Register(
	sc *Shortcuts, name string, raw Value, kind VarKind,
) (int, error) {
	dotted := sc.Substitute(name)
	ename := Flatten(dotted)

	return s.add(Variable{
		Ename:  ename,
		Sname:  s.storage(ename, ""),
		Dotted: dotted,
		Kind:   kind,
		Raw:    raw,
	})
}

// Replace swaps the raw value of an unbound variable.
func (s *Scope) Replace(idx int, raw Value, kind VarKind) {
	v := &s.vars[idx]
	v.Raw = raw
	v.Kind = kind
}

// Bind performs the second construction pass for the variable at idx.
func (s *Scope) Bind(idx int, t Translation) {
	v := &s.vars[idx]
	v.Expr = t.Text
	v.Needs = t.Needs
	v.Unresolved = t.Unresolved
	v.bound = true
}

// Populate binds every unbound variable of the scope by translating its raw
// value in ctx with the scope itself as the local scope. Variables whose text
// cannot be tokenized keep their raw text and no needs; their errors are
// joined in the result.
func (s *Scope) Populate(ctx Context) error {
	ctx.Local = s

	var errs []error

	for i := range s.vars {
		if s.vars[i].bound {
			continue
		}

		t, err := ctx.Translate(s.vars[i].Raw)
		if err != nil {
			errs = append(errs, WrapError(err).With(
				slog.String("scope", s.kind.String()),
				slog.String("name", s.vars[i].Ename),
			))

			t = Translation{Text: s.vars[i].Raw.Text}
		}

		s.Bind(i, t)
	}

	return errors.Join(errs...)
}

// MarkComputed flags the parameter with the given ename as overridden by a
// computed expression. Its default becomes None. The previous default is
// returned so the caller can report a discarded value.
func (s *Scope) MarkComputed(ename string) (Value, bool) {
	v := s.Get(ename)
	if v == nil || v.Kind != KindParameter {
		return Value{}, false
	}

	prev := v.Raw
	v.ComputedParam = true
	v.Raw = NewLiteral(None)
	v.Expr = None

	return prev, true
}

// Extents are the draw-time names derived from the widget position and size,
// in the order they are seeded.
var Extents = []Entry{
	{Name: "left", Value: NewExpr("pos.x.start(width)")},
	{Name: "center", Value: NewExpr("pos.x.center(width)")},
	{Name: "right", Value: NewExpr("pos.x.end(width)")},
	{Name: "top", Value: NewExpr("pos.y.start(height)")},
	{Name: "middle", Value: NewExpr("pos.y.center(height)")},
	{Name: "bottom", Value: NewExpr("pos.y.end(height)")},
}

// Seed registers the derived extents as pseudo variables. Seeds must be
// registered before any declared entry so that a declared entry of the same
// name can replace them.
func (s *Scope) Seed() {
	for _, e := range Extents {
		if _, ok := s.Index(e.Name); ok {
			continue
		}

		_, _ = s.Register(nil, e.Name, e.Value, KindPseudo)
	}
}
