// Package widget decodes widget specification documents.
//
// A source is a YAML stream. Each document maps widget names to their
// specification, in declaration order, alongside a few reserved keys:
//
//	module: controls
//	imports:
//	  - from raylib import *
//	stubs: [theme]
//	---
//	label:
//	  raylib-call:
//	    name: draw_text
//	    args: [text, left, top, size, color]
//	  layout:
//	    text: "''"
//	    size: 20
//	  appearance:
//	    color: BLACK
//
// String scalars are expressions in the generated language; every other
// scalar is a literal and is rendered verbatim.
package widget

import (
	"github.com/ardnew/widgen/lang"
)

// Reserved document keys.
const (
	KeyModule  = "module"
	KeyImports = "imports"
	KeyInclude = "include"
	KeyStubs   = "stubs"
	KeyExports = "exports"
)

// Widget keys other than the kind tag.
const (
	KeyLayout             = "layout"
	KeyAppearance         = "appearance"
	KeyComputed           = "computed"
	KeyDrawComputed       = "draw-computed"
	KeySpecializeComputed = "specialize-computed"
	KeyShortcuts          = "shortcuts"
	KeyAlign              = "align"
)

// Call is the graphics primitive drawn by a raylib-call widget.
type Call struct {
	Name   string
	Args   []lang.Value
	Kwargs []lang.Entry
}

// Element is a sub-widget of a composite.
type Element struct {
	// Name is the attribute the sub-widget is stored under. For a slot it
	// names the construction parameter receiving the collection.
	Name   string
	Widget string
	// Slot marks a variable-length collection supplied at construction.
	Slot bool
}

// Shortcut abbreviates the first segment of a dotted name.
type Shortcut struct {
	Short     string
	Canonical string
}

// Spec describes one widget.
type Spec struct {
	Name string
	Kind Kind

	// Call is set for [KindRaylibCall].
	Call *Call
	// Elements are set for composite kinds.
	Elements []Element
	// Base is set for [KindSpecializes].
	Base  string
	Align Align

	Layout             []lang.Entry
	Appearance         []lang.Entry
	Computed           []lang.Entry
	DrawComputed       []lang.Entry
	SpecializeComputed []lang.Entry

	Shortcuts []Shortcut
	// Include holds snippets copied into the generated class body.
	Include []string
}

// Children returns the fixed (non-slot) elements.
func (s *Spec) Children() []Element {
	var out []Element

	for _, e := range s.Elements {
		if !e.Slot {
			out = append(out, e)
		}
	}

	return out
}

// Slots returns the slot elements.
func (s *Spec) Slots() []Element {
	var out []Element

	for _, e := range s.Elements {
		if e.Slot {
			out = append(out, e)
		}
	}

	return out
}

// Document is one document of a source stream.
type Document struct {
	// Source is the name of the stream the document was read from.
	Source string
	// Index is the position of the document within its stream.
	Index int
	// Text is the document's source text, used to stamp generated output.
	Text []byte

	Module  string
	Imports []string
	Include string
	Stubs   []string
	Exports []string

	Widgets []*Spec

	Diagnostics []lang.Diagnostic
}

// Widget returns the widget declared with name, or nil.
func (d *Document) Widget(name string) *Spec {
	for _, w := range d.Widgets {
		if w.Name == name {
			return w
		}
	}

	return nil
}

func (d *Document) warn(widget, key, msg string) {
	d.Diagnostics = append(d.Diagnostics, lang.Warning(widget, key, msg))
}
