package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/widgen/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "scope", "clear", "quit"}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: whitespace, the member-access dot, and the operator and
// punctuation characters of expressions.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%', '@',
		'<', '>', '=', '!', '~', '^',
		'&', '|', ',', ':', ';', '\'', '"':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// between dots, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the dot-separated prefix path leading up to the current
// word, considering only the contiguous member-access chain. For input
// "x + margin.le" with the word "le", the parent path is "margin".
// Returns "" for top-level words.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, lang.Separator) {
		return ""
	}

	prefix = strings.TrimRight(prefix, lang.Separator)

	end := len(prefix)
	pos := end

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:end])
}

// scopes returns the non-nil scopes of lc in priority order.
func scopes(lc lang.Context) []*lang.Scope {
	var out []*lang.Scope

	for _, s := range []*lang.Scope{lc.Layout, lc.Appearance, lc.Stored, lc.Local} {
		if s != nil {
			out = append(out, s)
		}
	}

	return out
}

// dotted returns the dotted spelling of every variable visible in lc, and
// the abbreviated spelling of those with a shortcut.
func dotted(lc lang.Context) []string {
	var names []string

	for _, s := range scopes(lc) {
		for _, v := range s.All() {
			name := v.Dotted
			if name == "" {
				name = v.Ename
			}

			names = append(names, name)

			if short := lc.Shortcuts.Desubstitute(name); short != name {
				names = append(names, short)
			}
		}
	}

	return names
}

// childCandidates returns the names that are valid completions after parent.
// For an empty parent these are the first segments of every visible name,
// the sub-elements and the externals. Otherwise they are the next segments
// of the names that continue parent, which may be abbreviated.
func childCandidates(lc lang.Context, parent string) []string {
	seen := lang.NewNames()

	var out []string

	add := func(name string) {
		if name != "" && !seen.Has(name) {
			seen.Add(name)
			out = append(out, name)
		}
	}

	if parent == "" {
		for _, name := range dotted(lc) {
			head, _, _ := strings.Cut(name, lang.Separator)
			add(head)
		}

		for _, name := range lc.Elements.Sorted() {
			add(name)
		}

		for _, name := range lc.Externals.Sorted() {
			add(name)
		}

		return out
	}

	prefixes := []string{parent + lang.Separator}
	if canon := lc.Shortcuts.Substitute(parent); canon != parent {
		prefixes = append(prefixes, canon+lang.Separator)
	}

	for _, name := range dotted(lc) {
		for _, p := range prefixes {
			if rest, ok := strings.CutPrefix(name, p); ok {
				head, _, _ := strings.Cut(rest, lang.Separator)
				add(head)
			}
		}
	}

	return out
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. When the current word is empty at the top level, it returns nil
// matches. When the word is empty after a dot, it returns all children as
// matches.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
		if strings.HasPrefix(strings.TrimSpace(input), "scope ") {
			candidates = scopeNames
		}
	} else {
		parent := parentPath(input, wordStart)
		candidates = childCandidates(m.context(), parent)

		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	callable func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, callable(match.Str))

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Callables are displayed with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected, callable bool) string {
	baseStyle := suggestionStyle
	highlightStyle := matchStyle

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if callable {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// previewWidth bounds the expression text shown by the list command.
const previewWidth = 40

// preview shortens text to previewWidth runes.
func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewWidth {
		return text
	}

	return string([]rune(text)[:previewWidth-3]) + "..."
}
