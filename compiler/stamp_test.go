package compiler

import (
	"context"
	"strings"
	"testing"

	"github.com/ardnew/widgen/widget"
)

func TestStamp(t *testing.T) {
	doc := &widget.Document{Module: "ui", Text: []byte("a: {}\n")}

	base := New().Stamp(doc)
	if base != New().Stamp(doc) {
		t.Error("stamp is not deterministic")
	}

	for name, s := range map[string]string{
		"width":  New(WithWidth(100)).Stamp(doc),
		"strict": New(WithStrict(false)).Stamp(doc),
		"text":   New().Stamp(&widget.Document{Module: "ui", Text: []byte("b: {}\n")}),
		"module": New().Stamp(&widget.Document{Module: "io", Text: doc.Text}),
	} {
		if s == base {
			t.Errorf("changing %s keeps stamp %s", name, base)
		}
	}
}

func TestStampUsedWidgets(t *testing.T) {
	const user = `module: panels
---
bar:
  row:
    - a: box
  layout:
    a.w: 5
`
	stamps := func(base string) (string, string) {
		t.Helper()

		mods, err := New().CompileAll(context.Background(), parse(t, base+user))
		if err != nil {
			t.Fatalf("CompileAll: %v", err)
		}

		if len(mods) != 2 {
			t.Fatalf("got %d modules, want 2", len(mods))
		}

		return mods[1].Stamp, mods[1].Text
	}

	const boxW = `module: shapes
box:
  raylib-call: {name: draw_rectangle, args: [left, top, w, 4]}
  layout: {w: 10}
`
	const boxV = `module: shapes
box:
  raylib-call: {name: draw_rectangle, args: [left, top, v, 4]}
  layout: {v: 10}
`

	stampW, textW := stamps(boxW)
	stampV, textV := stamps(boxV)

	if !strings.Contains(textW, "box(w=self.a__w, name='a')") || strings.Contains(textV, "box(w=") {
		t.Fatalf("output does not depend on the used widget:\n%s\n%s", textW, textV)
	}

	if stampW == stampV {
		t.Errorf("stamp %s unchanged after the used widget changed", stampW)
	}

	if again, _ := stamps(boxW); again != stampW {
		t.Errorf("stamp %s, then %s, for the same stream", stampW, again)
	}
}

func TestReadStamp(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"header", Header("g", "a.yaml") + "\n" + StampPrefix + "abc\n\nclass a:\n", "abc", true},
		{"missing", "class a:\n    pass\n", "", false},
		{"too_late", strings.Repeat("\n", stampLines) + StampPrefix + "abc\n", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ReadStamp(strings.NewReader(tt.text))
			if got != tt.want || ok != tt.ok {
				t.Errorf("ReadStamp() = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}
