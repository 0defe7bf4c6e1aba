package lang

import (
	"log/slog"
	"strings"
)

// Separator joins the segments of a dotted name.
const Separator = "."

// Flat joins segments of a name flattened across a composition boundary.
const Flat = "__"

// Shortcuts is a bidirectional table of abbreviated and canonical spellings
// for the first segment of a dotted name.
type Shortcuts struct {
	canon map[string]string // short -> canonical
	short map[string]string // canonical -> short
	order []string
}

// NewShortcuts returns an empty table.
func NewShortcuts() *Shortcuts {
	return &Shortcuts{
		canon: make(map[string]string),
		short: make(map[string]string),
	}
}

// Define declares short as an abbreviation of canonical.
// A short name may be declared only once, and a canonical name may have only
// one abbreviation.
func (s *Shortcuts) Define(short, canonical string) error {
	if prev, ok := s.canon[short]; ok {
		return ErrDuplicateName.With(
			slog.String("shortcut", short),
			slog.String("canonical", prev),
		)
	}

	if prev, ok := s.short[canonical]; ok {
		return ErrDuplicateName.With(
			slog.String("shortcut", prev),
			slog.String("canonical", canonical),
		)
	}

	s.canon[short] = canonical
	s.short[canonical] = short
	s.order = append(s.order, short)

	return nil
}

// Len returns the number of declared shortcuts.
func (s *Shortcuts) Len() int {
	if s == nil {
		return 0
	}

	return len(s.order)
}

// Substitute replaces the first segment of name with its canonical spelling
// when it is a declared shortcut. Later segments pass through untouched.
func (s *Shortcuts) Substitute(name string) string {
	if s == nil {
		return name
	}

	head, rest, dotted := strings.Cut(name, Separator)

	canon, ok := s.canon[head]
	if !ok {
		return name
	}

	if !dotted {
		return canon
	}

	return canon + Separator + rest
}

// Desubstitute is the inverse of [Shortcuts.Substitute]: it replaces the first
// segment of name with its abbreviation when one is declared.
func (s *Shortcuts) Desubstitute(name string) string {
	if s == nil {
		return name
	}

	head, rest, dotted := strings.Cut(name, Separator)

	short, ok := s.short[head]
	if !ok {
		return name
	}

	if !dotted {
		return short
	}

	return short + Separator + rest
}

// SubstituteAll applies [Shortcuts.Substitute] to every identifier chain of
// expression text that names a value. Literals, keywords, called names,
// keyword-argument names and names bound within the text are left as
// written. Text that does not lex is returned unchanged.
func (s *Shortcuts) SubstituteAll(text string) string {
	if s.Len() == 0 {
		return text
	}

	toks, err := Lex(text)
	if err != nil {
		return text
	}

	bound := boundNames(toks)

	var sb strings.Builder

	for i, tok := range toks {
		if tok.Kind == TokenChain && !fixed(toks, i, bound) {
			sb.WriteString(s.Substitute(tok.Text))

			continue
		}

		sb.WriteString(tok.Text)
	}

	return sb.String()
}

// Flatten joins the dotted segments of name with [Flat].
func Flatten(name string) string {
	return strings.ReplaceAll(name, Separator, Flat)
}
