package lang

import (
	"maps"
	"slices"
	"strings"
)

// Names is a set of identifiers.
type Names map[string]struct{}

// NewNames returns a set holding names.
func NewNames(names ...string) Names { return Names(set(names...)) }

// Has reports whether name is in the set. A nil set is empty.
func (n Names) Has(name string) bool {
	_, ok := n[name]

	return ok
}

// Add inserts names into the set.
func (n Names) Add(names ...string) {
	for _, name := range names {
		n[name] = struct{}{}
	}
}

// Sorted returns the members of the set in lexical order.
func (n Names) Sorted() []string { return slices.Sorted(maps.Keys(n)) }

// Context holds everything an expression may refer to.
type Context struct {
	Shortcuts *Shortcuts

	Layout     *Scope
	Appearance *Scope
	// Stored holds construction-computed values referenced from a draw or
	// specialization body. It is nil when translating construction.
	Stored *Scope
	// Local is the computed scope the expression belongs to. References to
	// its variables are recorded as needs.
	Local *Scope

	// Elements are the declared sub-element names.
	Elements Names
	// Types are the widget types of the sub-elements.
	Types Names
	// Externals are names declared outside every scope (imports, stubs,
	// generated locals).
	Externals Names
}

// Translation is the result of rewriting one expression.
type Translation struct {
	Text string
	// Needs are indices into the local scope, ascending.
	Needs []int
	// Unresolved are referenced names no scope declares, in order of first
	// appearance.
	Unresolved []string
}

// Translate rewrites the identifiers of v into storage references.
//
// Literal text is never rewritten, nor are keywords, names being called,
// keyword-argument names, names bound by comprehensions or lambdas, and
// member continuations. For every other identifier chain the first segment
// is substituted through the shortcut table, leading segments are fused into
// their flattened name when a scope declares it, and the result is prefixed
// with its storage reference by priority: sub-element, layout, appearance,
// stored, then local.
func (c Context) Translate(v Value) (Translation, error) {
	if v.Verbatim {
		return Translation{Text: v.Text}, nil
	}

	head, body := c.splitHead(v.Text)

	toks, err := Lex(body)
	if err != nil {
		return Translation{Text: v.Text}, err
	}

	var (
		sb    strings.Builder
		bound = boundNames(toks)
		tr    = translation{needs: make(map[int]struct{}), seen: NewNames()}
	)

	sb.Grow(len(v.Text))
	sb.WriteString(head)

	for i, tok := range toks {
		if tok.Kind != TokenChain || fixed(toks, i, bound) {
			sb.WriteString(tok.Text)

			continue
		}

		sb.WriteString(c.rewrite(tok.Text, &tr))
	}

	return Translation{
		Text:       sb.String(),
		Needs:      slices.Sorted(maps.Keys(tr.needs)),
		Unresolved: tr.unresolved,
	}, nil
}

type translation struct {
	needs      map[int]struct{}
	unresolved []string
	seen       Names
}

// splitHead separates a leading sub-element construction "Type(" from the
// rest of text.
func (c Context) splitHead(text string) (head, body string) {
	i := strings.IndexFunc(text, func(r rune) bool {
		return !isIdentifierContinue(r)
	})
	if i <= 0 || text[i] != '(' || !c.Types.Has(text[:i]) {
		return "", text
	}

	return text[:i+1], text[i+1:]
}

// fixed reports whether the chain at toks[i] must pass through unchanged.
func fixed(toks []Token, i int, bound []binding) bool {
	first, _, _ := strings.Cut(toks[i].Text, Separator)
	if IsKeyword(first) || first == Receiver || isBound(bound, first, i) {
		return true
	}

	for _, tok := range toks[i+1:] {
		if tok.Kind == TokenSpace {
			continue
		}

		return tok.Is("(") || tok.Is("=")
	}

	return false
}

// binding is a name introduced by a comprehension target or a lambda
// parameter, visible to the tokens in [from, to).
type binding struct {
	name     string
	from, to int
}

func isBound(bound []binding, name string, i int) bool {
	for _, b := range bound {
		if b.name == name && b.from <= i && i < b.to {
			return true
		}
	}

	return false
}

func opens(t Token) bool  { return t.Is("(") || t.Is("[") || t.Is("{") }
func closes(t Token) bool { return t.Is(")") || t.Is("]") || t.Is("}") }

// group returns the token range inside the innermost brackets enclosing
// toks[i], or the whole stream at the top level.
func group(toks []Token, i int) (from, to int) {
	from, to = 0, len(toks)

back:
	for d, j := 0, i-1; j >= 0; j-- {
		switch {
		case closes(toks[j]):
			d++

		case opens(toks[j]):
			if d == 0 {
				from = j + 1

				break back
			}

			d--
		}
	}

forward:
	for d, j := 0, i+1; j < len(toks); j++ {
		switch {
		case opens(toks[j]):
			d++

		case closes(toks[j]):
			if d == 0 {
				to = j

				break forward
			}

			d--
		}
	}

	return from, to
}

// lambdaEnd returns the index ending the body of the lambda at toks[i]: the
// first comma or closing bracket at its depth.
func lambdaEnd(toks []Token, i int) int {
	d := 0

	for j := i + 1; j < len(toks); j++ {
		switch {
		case opens(toks[j]):
			d++

		case closes(toks[j]):
			if d == 0 {
				return j
			}

			d--

		case toks[j].Is(",") && d == 0:
			return j
		}
	}

	return len(toks)
}

// boundNames collects the names introduced by comprehension targets
// ("for x, y in") and lambda parameters ("lambda a, b=1:"). A comprehension
// target is visible within the brackets enclosing the comprehension, and a
// lambda parameter within the lambda.
func boundNames(toks []Token) []binding {
	var bound []binding

	for i := 0; i < len(toks); i++ {
		if toks[i].Kind != TokenChain {
			continue
		}

		var (
			until    func(Token) bool
			from, to int
		)

		switch toks[i].Text {
		case "for":
			until = func(t Token) bool {
				return t.Kind == TokenChain && t.Text == "in"
			}
			from, to = group(toks, i)

		case "lambda":
			until = func(t Token) bool { return t.Is(":") }
			from, to = i, lambdaEnd(toks, i)

		default:
			continue
		}

		depth := 0

		for j := i + 1; j < len(toks) && !until(toks[j]); j++ {
			switch {
			case opens(toks[j]):
				depth++

			case closes(toks[j]):
				depth--

			case toks[j].Is("="):
				// Skip a lambda default value.
				for j+1 < len(toks) && !toks[j+1].Is(",") && !until(toks[j+1]) {
					j++
				}

			case toks[j].Kind == TokenChain && depth >= 0:
				bound = append(bound, binding{name: toks[j].Text, from: from, to: to})
			}
		}
	}

	return bound
}

func (c Context) rewrite(chain string, tr *translation) string {
	segs := strings.Split(c.Shortcuts.Substitute(chain), Separator)

	// Fuse the longest leading run of segments that names a declared
	// variable, e.g. "title.text" -> "title__text".
	for n := len(segs); n > 1; n-- {
		fused := strings.Join(segs[:n], Flat)
		if c.declared(fused) {
			segs = append([]string{fused}, segs[n:]...)

			break
		}
	}

	first := segs[0]

	var suffix string
	if len(segs) > 1 {
		suffix = Separator + strings.Join(segs[1:], Separator)
	}

	if idx, ok := c.Local.Index(first); ok {
		tr.needs[idx] = struct{}{}
	}

	switch {
	case c.Elements.Has(first):
		return Receiver + Separator + first + suffix

	case c.Local.Get(first) != nil && c.overridden(first):
		return c.Local.Get(first).Sname + suffix

	case c.Layout.Get(first) != nil:
		return c.Layout.Get(first).Sname + suffix

	case c.Appearance.Get(first) != nil:
		return c.Appearance.Get(first).Sname + suffix

	case c.Stored.Get(first) != nil:
		return c.Stored.Get(first).Sname + suffix

	case c.Local.Get(first) != nil:
		return c.Local.Get(first).Sname + suffix
	}

	if !c.Externals.Has(first) && !IsBuiltin(first) && !tr.seen.Has(first) {
		tr.seen.Add(first)
		tr.unresolved = append(tr.unresolved, first)
	}

	return first + suffix
}

// overridden reports whether the parameter ename holds only the caller's
// value, the effective value being stored by a computed variable.
func (c Context) overridden(ename string) bool {
	for _, s := range []*Scope{c.Layout, c.Appearance} {
		if v := s.Get(ename); v != nil && v.ComputedParam {
			return true
		}
	}

	return false
}

func (c Context) declared(ename string) bool {
	return c.Layout.Get(ename) != nil ||
		c.Appearance.Get(ename) != nil ||
		c.Stored.Get(ename) != nil ||
		c.Local.Get(ename) != nil
}
