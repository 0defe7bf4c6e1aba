package lang

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func testContext(t *testing.T) Context {
	t.Helper()

	sc := NewShortcuts()
	if err := sc.Define("bg", "background"); err != nil {
		t.Fatal(err)
	}

	layout := NewScope(ScopeLayout)
	for _, e := range []Entry{
		{Name: "width", Value: NewLiteral("10")},
		{Name: "pad", Value: NewLiteral("2")},
		{Name: "title.text", Value: NewExpr("'hi'")},
	} {
		if _, err := layout.Declare(sc, e.Name, e.Value); err != nil {
			t.Fatal(err)
		}
	}

	appearance := NewScope(ScopeAppearance)
	if _, err := appearance.Declare(sc, "bg.color", NewExpr("'red'")); err != nil {
		t.Fatal(err)
	}

	local := NewScope(ScopeConstruct)
	if _, err := local.Register(sc, "inner", NewExpr("width - pad"), KindComputed); err != nil {
		t.Fatal(err)
	}

	if _, err := local.Register(sc, "title", NewExpr("Label()"), KindPseudo); err != nil {
		t.Fatal(err)
	}

	return Context{
		Shortcuts:  sc,
		Layout:     layout,
		Appearance: appearance,
		Local:      local,
		Elements:   NewNames("title"),
		Types:      NewNames("Label"),
		Externals:  NewNames("theme"),
	}
}

func TestTranslate(t *testing.T) {
	ctx := testContext(t)

	tests := []struct {
		name string
		in   Value
		want Translation
	}{
		{
			name: "layout",
			in:   NewExpr("width * 2"),
			want: Translation{Text: "self.width * 2"},
		},
		{
			name: "local_need",
			in:   NewExpr("inner + 1"),
			want: Translation{Text: "self.inner + 1", Needs: []int{0}},
		},
		{
			name: "fused_element_field",
			in:   NewExpr("title.text"),
			want: Translation{Text: "self.title__text"},
		},
		{
			name: "element_chain",
			in:   NewExpr("title.height + pad"),
			want: Translation{Text: "self.title.height + self.pad", Needs: []int{1}},
		},
		{
			name: "shortcut",
			in:   NewExpr("bg.color"),
			want: Translation{Text: "self.background__color"},
		},
		{
			name: "literal_untouched",
			in:   NewExpr("'width' + width"),
			want: Translation{Text: "'width' + self.width"},
		},
		{
			name: "call_and_keyword_argument",
			in:   NewExpr("fmt(width, sep = pad)"),
			want: Translation{Text: "fmt(self.width, sep = self.pad)"},
		},
		{
			name: "equality_is_not_keyword_argument",
			in:   NewExpr("pad == width"),
			want: Translation{Text: "self.pad == self.width"},
		},
		{
			name: "builtin",
			in:   NewExpr("max(width, pad)"),
			want: Translation{Text: "max(self.width, self.pad)"},
		},
		{
			name: "external",
			in:   NewExpr("theme.accent"),
			want: Translation{Text: "theme.accent"},
		},
		{
			name: "unresolved",
			in:   NewExpr("width if enabled else enabled"),
			want: Translation{
				Text:       "self.width if enabled else enabled",
				Unresolved: []string{"enabled"},
			},
		},
		{
			name: "element_type_head",
			in:   NewExpr("Label(text=width, name='x')"),
			want: Translation{Text: "Label(text=self.width, name='x')"},
		},
		{
			name: "comprehension",
			in:   NewExpr("sum(c.width for c in items)"),
			want: Translation{
				Text:       "sum(c.width for c in items)",
				Unresolved: []string{"items"},
			},
		},
		{
			name: "lambda",
			in:   NewExpr("sorted(xs, key=lambda a: a.width)"),
			want: Translation{
				Text:       "sorted(xs, key=lambda a: a.width)",
				Unresolved: []string{"xs"},
			},
		},
		{
			name: "comprehension_target_scoped",
			in:   NewExpr("width + sum(width for width in xs)"),
			want: Translation{
				Text:       "self.width + sum(width for width in xs)",
				Unresolved: []string{"xs"},
			},
		},
		{
			name: "lambda_parameter_scoped",
			in:   NewExpr("(lambda pad: pad * 2)(width) + pad"),
			want: Translation{Text: "(lambda pad: pad * 2)(self.width) + self.pad"},
		},
		{
			name: "member_continuation",
			in:   NewExpr("(width).real"),
			want: Translation{Text: "(self.width).real"},
		},
		{
			name: "receiver",
			in:   NewExpr("self.width"),
			want: Translation{Text: "self.width"},
		},
		{
			name: "verbatim",
			in:   NewLiteral("width"),
			want: Translation{Text: "width"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ctx.Translate(tt.in)
			if err != nil {
				t.Fatalf("Translate(%q): %v", tt.in.Text, err)
			}

			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Translate(%q) mismatch (-want +got):\n%s", tt.in.Text, diff)
			}
		})
	}
}

func TestTranslateUnterminated(t *testing.T) {
	ctx := testContext(t)

	got, err := ctx.Translate(NewExpr("width + 'oops"))
	if !errors.Is(err, ErrUnterminated) {
		t.Fatalf("error = %v, want ErrUnterminated", err)
	}

	if got.Text != "width + 'oops" {
		t.Errorf("Text = %q, want raw text", got.Text)
	}
}

func TestTranslateOverriddenParam(t *testing.T) {
	sc := NewShortcuts()
	if err := sc.Define("c", "colour"); err != nil {
		t.Fatal(err)
	}

	layout := NewFunctionScope(ScopeLayout)
	if _, err := layout.Declare(sc, "c.fg", NewLiteral("2")); err != nil {
		t.Fatal(err)
	}

	local := NewScope(ScopeSpecialize)
	if _, err := local.Register(sc, "c.fg", NewLiteral("7"), KindComputed); err != nil {
		t.Fatal(err)
	}

	ctx := Context{Shortcuts: sc, Layout: layout, Local: local}

	before, err := ctx.Translate(NewExpr("c.fg + 1"))
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	if before.Text != "c__fg + 1" {
		t.Errorf("Text = %q, want the parameter %q", before.Text, "c__fg + 1")
	}

	if _, ok := layout.MarkComputed("colour__fg"); !ok {
		t.Fatal("MarkComputed failed")
	}

	got, err := ctx.Translate(NewExpr("c.fg + 1"))
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	want := Translation{Text: "colour__fg + 1", Needs: []int{0}}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Translate mismatch (-want +got):\n%s", diff)
	}
}
