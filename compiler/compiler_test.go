package compiler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/widgen/lang"
	"github.com/ardnew/widgen/widget"
)

func parse(t *testing.T, src string) []*widget.Document {
	t.Helper()

	docs, err := widget.Parse(context.Background(), "w.yaml", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	return docs
}

func compile(t *testing.T, c *Compiler, src string) *Module {
	t.Helper()

	mods, err := c.CompileAll(context.Background(), parse(t, src))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	return mods[len(mods)-1]
}

func unit(t *testing.T, m *Module, name string) string {
	t.Helper()

	u := m.Unit(name)
	if u == nil {
		t.Fatalf("no unit %s in module %s", name, m.Name)
	}

	return u.Text
}

func warnings(m *Module, substr string) []string {
	var out []string

	for _, d := range m.Diagnostics {
		if s := d.String(); strings.Contains(s, substr) {
			out = append(out, s)
		}
	}

	return out
}

const labelSource = `imports:
  - from raylib import *
label:
  raylib-call:
    name: draw_text
    args: [text, left, top, size, color]
  layout:
    text: "''"
    size: 20
  appearance:
    color: BLACK
  computed:
    width: measure_text(text, size)
    height: size
`

func TestCompileLeaf(t *testing.T) {
	m := compile(t, New(), `a:
  raylib-call:
    name: draw_x
    args: [p]
  layout:
    p: 5
`)

	want := `class a:
    def __init__(self, p=5, name='a'):
        self.name = name
        self.p = p

    def draw(self, pos):
        draw_x(self.p)

    def clear(self):
        pass
`
	if diff := cmp.Diff(want, unit(t, m, "a")); diff != "" {
		t.Errorf("unit mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileAppearance(t *testing.T) {
	m := compile(t, New(), labelSource)

	want := `class label:
    def __init__(self, text='', size=20, color=BLACK, name='label'):
        self.name = name
        self.text = text
        self.size = size
        self.color = color
        self.width = measure_text(self.text, self.size)
        self.height = self.size
        self._initial = {'color': self.color}

    def draw(self, pos, color=None):
        if color is not None:
            self.color = color
        left = pos.x.start(self.width)
        top = pos.y.start(self.height)
        draw_text(self.text, left, top, self.size, self.color)

    def clear(self):
        self.color = self._initial['color']
`
	if diff := cmp.Diff(want, unit(t, m, "label")); diff != "" {
		t.Errorf("unit mismatch (-want +got):\n%s", diff)
	}

	if w := warnings(m, "unresolved"); len(w) > 0 {
		t.Errorf("wildcard import still reports unresolved names: %v", w)
	}
}

func TestCompileRow(t *testing.T) {
	m := compile(t, New(), `box:
  raylib-call: {name: draw_rectangle, args: [left, top, width, height]}
  layout: {width: 10, height: 4}
bar:
  row:
    - a: box
    - b: box
    - c: box
  layout:
    a: {width: 10}
    b.width: 20
    c.width: 5
`)

	want := `class bar:
    def __init__(self, a__width=10, b__width=20, c__width=5, name='bar'):
        self.name = name
        self.a__width = a__width
        self.b__width = b__width
        self.c__width = c__width
        self.a = box(width=self.a__width, name='a')
        self.b = box(width=self.b__width, name='b')
        self.c = box(width=self.c__width, name='c')
        self.width = self.a.width + self.b.width + self.c.width
        self.height = max(self.a.height, self.b.height, self.c.height)

    def draw(self, pos):
        left = pos.x.start(self.width)
        top = pos.y.start(self.height)
        _offset = left
        self.a.draw(Pos(Start(_offset), Start(top)))
        _offset += self.a.width
        self.b.draw(Pos(Start(_offset), Start(top)))
        _offset += self.b.width
        self.c.draw(Pos(Start(_offset), Start(top)))
        _offset += self.c.width

    def clear(self):
        self.a.clear()
        self.b.clear()
        self.c.clear()
`
	if diff := cmp.Diff(want, unit(t, m, "bar")); diff != "" {
		t.Errorf("unit mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileCompositeClear(t *testing.T) {
	m := compile(t, New(), `box:
  raylib-call: {name: draw_rectangle, args: [left, top, width, height, color]}
  layout: {width: 10, height: 4}
  appearance: {color: BLACK}
bar:
  row:
    - a: box
  appearance:
    a.color: BLUE
`)

	got := unit(t, m, "bar")

	for _, line := range []string{
		"        self._initial = {'a__color': self.a__color}",
		"        if a__color is not None:",
		"            self.a__color = a__color",
		"    def clear(self):\n        self.a__color = self._initial['a__color']\n        self.a.clear()",
	} {
		if !strings.Contains(got, line+"\n") {
			t.Errorf("missing line %q in:\n%s", line, got)
		}
	}
}

func TestCompileColumnSlot(t *testing.T) {
	m := compile(t, New(), `box:
  raylib-call: {name: draw_rectangle, args: [left, top, width, height]}
  layout: {width: 10, height: 4}
menu:
  column:
    - head: box
    - {slot: items, widget: box}
  align: end
`)

	got := unit(t, m, "menu")

	for _, line := range []string{
		"    def __init__(self, items=(), name='menu'):",
		"        self.items = list(items)",
		"        for _item in self.items:",
		"            setattr(self, _item.name, _item)",
		"        self.head = box(name='head')",
		"        self.width = max([self.head.width,",
		"                          *(_c.width for _c in self.items)], default=0)",
		"        self.height = sum([self.head.height,",
		"        right = pos.x.end(self.width)",
		"        _offset = top",
		"        self.head.draw(Pos(End(right), Start(_offset)))",
		"        for _c in self.items:",
		"            _c.draw(Pos(End(right), Start(_offset)))",
		"            _offset += _c.height",
		"            _c.clear()",
	} {
		if !strings.Contains(got, line+"\n") {
			t.Errorf("missing line %q in:\n%s", line, got)
		}
	}
}

func TestCompileComputedParam(t *testing.T) {
	m := compile(t, New(), `box:
  raylib-call: {name: draw_rectangle, args: [left, top, width, height]}
  layout: {width: 10, height: 4}
  computed: {width: height * 2}
`)

	want := `class box:
    def __init__(self, width=None, height=4, name='box'):
        self.name = name
        self.height = height
        self.width = width if width is not None else self.height * 2
`
	if got := unit(t, m, "box"); !strings.HasPrefix(got, want) {
		t.Errorf("unit mismatch (-want +got):\n%s", cmp.Diff(want, got[:min(len(got), len(want))]))
	}

	if w := warnings(m, "discarded"); len(w) != 1 {
		t.Errorf("got warnings %v, want one discarded default", w)
	}
}

func TestCompileSpecializes(t *testing.T) {
	c := New()
	m := compile(t, c, labelSource+`big:
  specializes: label
  layout: {size: 40}
`)

	want := `def big(size=40, text='', color=BLACK, name='big'):
    return label(text=text, size=size, color=color, name=name)
`
	if diff := cmp.Diff(want, unit(t, m, "big")); diff != "" {
		t.Errorf("unit mismatch (-want +got):\n%s", diff)
	}

	ent, err := c.Registry().Lookup("big")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	if !ent.Factory() || len(ent.Draw) != 1 || ent.Draw[0].Ename != "color" {
		t.Errorf("unexpected registry entry %+v", ent)
	}
}

func TestCompileSpecializeComputed(t *testing.T) {
	m := compile(t, New(), labelSource+`title:
  specializes: label
  layout: {scale: 2}
  specialize-computed:
    size: 20 * scale
`)

	want := `def title(scale=2, text='', size=None, color=BLACK, name='title'):
    size = size if size is not None else 20 * scale
    return label(text=text, size=size, color=color, name=name)
`
	if diff := cmp.Diff(want, unit(t, m, "title")); diff != "" {
		t.Errorf("unit mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileSpecializeComputedShortcut(t *testing.T) {
	m := compile(t, New(), labelSource+`tag:
  specializes: label
  shortcuts: {c: colour}
  layout: {c.fg: 2}
  specialize-computed:
    c.fg: 7
    other: c.fg + 1
`)

	got := unit(t, m, "tag")

	for _, line := range []string{
		"    colour__fg = c__fg if c__fg is not None else 7",
		"    other = colour__fg + 1",
	} {
		if !strings.Contains(got, line+"\n") {
			t.Errorf("missing line %q in:\n%s", line, got)
		}
	}

	if strings.Index(got, "colour__fg = ") > strings.Index(got, "other = ") {
		t.Errorf("fallback emitted after its reader:\n%s", got)
	}
}

func TestCompileIdempotent(t *testing.T) {
	a := compile(t, New(), labelSource)
	b := compile(t, New(), labelSource)

	if diff := cmp.Diff(a.Text, b.Text); diff != "" {
		t.Errorf("output differs between runs (-first +second):\n%s", diff)
	}
}

func TestCompileCycle(t *testing.T) {
	c := New()

	m, err := c.Compile(context.Background(), parse(t, `a:
  raylib-call: {name: f, args: [x]}
  computed:
    x: y + 1
    y: x + 1
`)[0])
	if !errors.Is(err, lang.ErrCycle) {
		t.Fatalf("got error %v, want %v", err, lang.ErrCycle)
	}

	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Widget != "a" {
		t.Errorf("error %v does not name the widget", err)
	}

	if c.Registry().Has("a") || m.Unit("a") != nil {
		t.Error("failed widget was registered")
	}
}

func TestCompileForwardReference(t *testing.T) {
	c := New()

	m, err := c.Compile(context.Background(), parse(t, `panel:
  row:
    - title: label
label:
  raylib-call: {name: f}
`)[0])
	if !errors.Is(err, lang.ErrUnknownWidget) {
		t.Fatalf("got error %v, want %v", err, lang.ErrUnknownWidget)
	}

	if m.Unit("label") == nil || m.Unit("panel") != nil {
		t.Error("compilation did not continue past the failed widget")
	}
}

func TestCompileStrict(t *testing.T) {
	const src = `a:
  raylib-call: {name: f, args: [ghost, theme]}
stubs: [theme]
`

	m := compile(t, New(), src)
	if diff := cmp.Diff([]string{"warning: a.raylib-call: unresolved name ghost"},
		warnings(m, "unresolved")); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}

	m = compile(t, New(WithStrict(false)), src)
	if w := warnings(m, "unresolved"); len(w) > 0 {
		t.Errorf("got %v without strict mode", w)
	}
}

func TestCompileModule(t *testing.T) {
	m := compile(t, New(WithGenerator("gen")), `module: ui
imports: [import math]
include: |
  PAD = 2
exports: [PAD]
a:
  raylib-call: {name: f, args: [math.pi]}
`)

	want := `# Code generated by gen from w.yaml. DO NOT EDIT.
# stamp: ` + m.Stamp + `

import math

PAD = 2

__all__ = ['a', 'PAD']


class a:
`
	if !strings.HasPrefix(m.Text, want) {
		t.Errorf("module mismatch (-want +got):\n%s",
			cmp.Diff(want, m.Text[:min(len(m.Text), len(want))]))
	}

	if w := warnings(m, "unresolved"); len(w) > 0 {
		t.Errorf("imported name reported: %v", w)
	}
}

func TestCompileAutoImport(t *testing.T) {
	c := New()

	mods, err := c.CompileAll(context.Background(), parse(t, labelSource+`module: ui
---
big:
  specializes: label
`))
	if err != nil {
		t.Fatalf("CompileAll: %v", err)
	}

	if len(mods) != 2 {
		t.Fatalf("got %d modules, want 2", len(mods))
	}

	if !strings.Contains(mods[1].Text, "\nfrom ui import label\n") {
		t.Errorf("missing import of label in:\n%s", mods[1].Text)
	}

	if strings.Contains(mods[0].Text, "from ui import") {
		t.Errorf("module imports itself:\n%s", mods[0].Text)
	}
}

func TestCompileRetain(t *testing.T) {
	m := compile(t, New(WithRetain(true)), labelSource)

	u := m.Unit("label")

	want := []lang.Binding{
		{Name: "self.name", Expr: "'label'"},
		{Name: "self.text", Expr: "''"},
		{Name: "self.size", Expr: "20"},
		{Name: "self.color", Expr: "BLACK"},
		{Name: "self.width", Expr: "measure_text(self.text, self.size)"},
		{Name: "self.height", Expr: "self.size"},
	}
	if diff := cmp.Diff(want, u.Bindings); diff != "" {
		t.Errorf("bindings mismatch (-want +got):\n%s", diff)
	}

	if u.Draw.Local.Get("left") == nil {
		t.Error("draw context does not retain the draw scope")
	}

	results, err := lang.Evaluate(context.Background(), u.Bindings)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if got := results[5].String(); got != "self.height = 20" {
		t.Errorf("got %q, want %q", got, "self.height = 20")
	}
}

func TestImportNames(t *testing.T) {
	tests := []struct {
		stmt  string
		names []string
		star  bool
	}{
		{"import math", []string{"math"}, false},
		{"import os.path", []string{"os"}, false},
		{"import numpy as np, sys", []string{"np", "sys"}, false},
		{"from raylib import *", nil, true},
		{"from a.b import c as d, e", []string{"d", "e"}, false},
		{"from x import (\n  y,\n  z,\n)", []string{"y", "z"}, false},
		{"PAD = 2", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.stmt, func(t *testing.T) {
			names, star := importNames(tt.stmt)
			if diff := cmp.Diff(tt.names, names); diff != "" || star != tt.star {
				t.Errorf("importNames(%q) = %v, %v; want %v, %v",
					tt.stmt, names, star, tt.names, tt.star)
			}
		})
	}
}
