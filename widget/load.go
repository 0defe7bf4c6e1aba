package widget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/parser"
	"github.com/klauspost/readahead"

	"github.com/ardnew/widgen/lang"
)

// Stdin is the source name used for standard input.
const Stdin = "-"

// Load reads a YAML stream from r and decodes each document.
// The name identifies the stream in diagnostics and derives the default
// module name.
func Load(ctx context.Context, name string, r io.Reader) ([]*Document, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, lang.ErrSpec.Wrap(err).With(slog.String("source", name))
	}

	return Parse(ctx, name, data)
}

// Parse decodes each document of the YAML stream data. Syntax errors are
// fatal; specification problems are reported as document diagnostics and
// the offending entry is skipped.
func Parse(ctx context.Context, name string, data []byte) ([]*Document, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, lang.ErrSpec.
			Wrap(errors.New(yaml.FormatError(err, false, true))).
			With(slog.String("source", name))
	}

	docs := make([]*Document, 0, len(file.Docs))

	for i, node := range file.Docs {
		if err := ctx.Err(); err != nil {
			return docs, err
		}

		if node == nil || node.Body == nil {
			continue
		}

		var body any
		if err := yaml.NodeToValue(node.Body, &body, yaml.UseOrderedMap()); err != nil {
			return docs, lang.ErrSpec.Wrap(err).With(
				slog.String("source", name),
				slog.Int("document", i),
			)
		}

		doc := &Document{
			Source: name,
			Index:  len(docs),
			Text:   []byte(node.String()),
			Module: moduleName(name, len(docs)),
		}

		if ms, ok := body.(yaml.MapSlice); ok {
			doc.decode(ms)
		} else {
			doc.warn("", "", fmt.Sprintf("document is %s, not a mapping", describe(body)))
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

// moduleName derives an identifier from the stream name.
func moduleName(source string, index int) string {
	stem := "widgets"
	if source != Stdin && source != "" {
		base := filepath.Base(source)
		stem = identifier(strings.TrimSuffix(base, filepath.Ext(base)))
	}

	if index > 0 {
		stem += "_" + strconv.Itoa(index)
	}

	return stem
}

func identifier(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r != '_' && !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
			out[i] = '_'
		}
	}

	if len(out) == 0 {
		return "_"
	}

	return string(out)
}

func isIdentifier(s string) bool {
	return s != "" && identifier(s) == s && !lang.IsKeyword(s)
}

func (d *Document) decode(ms yaml.MapSlice) {
	for _, item := range ms {
		key := keyString(item.Key)

		switch key {
		case KeyModule:
			if s, ok := item.Value.(string); ok && isIdentifier(s) {
				d.Module = s
			} else {
				d.warn("", key, "module must be an identifier")
			}

		case KeyImports:
			d.Imports = append(d.Imports, d.strings("", key, item.Value)...)

		case KeyInclude:
			d.Include = strings.Join(d.strings("", key, item.Value), "\n")

		case KeyStubs:
			d.Stubs = append(d.Stubs, d.strings("", key, item.Value)...)

		case KeyExports:
			d.Exports = append(d.Exports, d.strings("", key, item.Value)...)

		default:
			switch {
			case !isIdentifier(key):
				d.warn(key, "", "widget name is not an identifier")

			case d.Widget(key) != nil:
				d.warn(key, "", "duplicate widget ignored")

			default:
				if spec := d.decodeSpec(key, item.Value); spec != nil {
					d.Widgets = append(d.Widgets, spec)
				}
			}
		}
	}
}

func (d *Document) decodeSpec(name string, v any) *Spec {
	ms, ok := v.(yaml.MapSlice)
	if !ok {
		d.warn(name, "", fmt.Sprintf("specification is %s, not a mapping", describe(v)))

		return nil
	}

	var (
		spec   = &Spec{Name: name}
		tagged bool
		valid  = true
		align  bool
	)

	for _, item := range ms {
		key := keyString(item.Key)

		if kind, isKind := ParseKind(key); isKind {
			if tagged {
				d.warn(name, key, fmt.Sprintf("widget is already %s; tag ignored", spec.Kind))

				continue
			}

			tagged = true
			spec.Kind = kind
			valid = d.decodeKind(spec, key, item.Value)

			continue
		}

		switch key {
		case KeyLayout:
			spec.Layout = append(spec.Layout, d.entries(name, key, item.Value)...)

		case KeyAppearance:
			spec.Appearance = append(spec.Appearance, d.entries(name, key, item.Value)...)

		case KeyComputed:
			spec.Computed = append(spec.Computed, d.entries(name, key, item.Value)...)

		case KeyDrawComputed:
			spec.DrawComputed = append(spec.DrawComputed, d.entries(name, key, item.Value)...)

		case KeySpecializeComputed:
			spec.SpecializeComputed = append(
				spec.SpecializeComputed, d.entries(name, key, item.Value)...)

		case KeyShortcuts:
			for _, e := range d.entries(name, key, item.Value) {
				if e.Value.Verbatim || !isIdentifier(e.Value.Text) {
					d.warn(name, key, fmt.Sprintf("shortcut %q must name an identifier", e.Name))

					continue
				}

				spec.Shortcuts = append(spec.Shortcuts, Shortcut{
					Short:     e.Name,
					Canonical: e.Value.Text,
				})
			}

		case KeyAlign:
			s, _ := item.Value.(string)

			a, ok := ParseAlign(s)
			if !ok {
				d.warn(name, key, fmt.Sprintf("unknown alignment %v", item.Value))

				continue
			}

			spec.Align = a
			align = true

		case KeyInclude:
			spec.Include = append(spec.Include, d.strings(name, key, item.Value)...)

		default:
			d.warn(name, key, "unknown key ignored")
		}
	}

	switch {
	case !tagged:
		d.warn(name, "", "missing kind tag (one of raylib-call, row, column, stack, specializes)")

		return nil

	case !valid:
		return nil

	case align && !spec.Kind.Composite():
		d.warn(name, KeyAlign, fmt.Sprintf("alignment has no effect on %s", spec.Kind))
	}

	return spec
}

func (d *Document) decodeKind(spec *Spec, key string, v any) bool {
	switch spec.Kind {
	case KindRaylibCall:
		call, ok := d.decodeCall(spec.Name, key, v)
		spec.Call = call

		return ok

	case KindSpecializes:
		s, ok := v.(string)
		if !ok || !isIdentifier(s) {
			d.warn(spec.Name, key, "base must be a widget name")

			return false
		}

		spec.Base = s

		return true

	default:
		list, ok := v.([]any)
		if !ok {
			d.warn(spec.Name, key, fmt.Sprintf("elements are %s, not a list", describe(v)))

			return false
		}

		for _, e := range list {
			if el, ok := d.decodeElement(spec, key, e); ok {
				spec.Elements = append(spec.Elements, el)
			}
		}

		return true
	}
}

func (d *Document) decodeCall(widget, key string, v any) (*Call, bool) {
	if s, ok := v.(string); ok && s != "" {
		return &Call{Name: s}, true
	}

	ms, ok := v.(yaml.MapSlice)
	if !ok {
		d.warn(widget, key, fmt.Sprintf("call is %s, not a mapping", describe(v)))

		return nil, false
	}

	call := new(Call)

	for _, item := range ms {
		switch k := keyString(item.Key); k {
		case "name":
			call.Name, _ = item.Value.(string)

		case "args":
			list, ok := item.Value.([]any)
			if !ok {
				list = []any{item.Value}
			}

			for _, a := range list {
				call.Args = append(call.Args, scalar(a))
			}

		case "kwargs":
			call.Kwargs = append(call.Kwargs, d.entries(widget, key+".kwargs", item.Value)...)

		default:
			d.warn(widget, key+"."+k, "unknown key ignored")
		}
	}

	if call.Name == "" {
		d.warn(widget, key, "call has no name")

		return nil, false
	}

	return call, true
}

func (d *Document) decodeElement(spec *Spec, key string, v any) (Element, bool) {
	ms, ok := v.(yaml.MapSlice)
	if !ok {
		d.warn(spec.Name, key, fmt.Sprintf("element is %s, not a mapping", describe(v)))

		return Element{}, false
	}

	var el Element

	if len(ms) == 1 {
		if k := keyString(ms[0].Key); k != "name" && k != "slot" && k != "widget" {
			w, _ := ms[0].Value.(string)
			el = Element{Name: k, Widget: w}
		}
	}

	if el.Name == "" {
		for _, item := range ms {
			s, _ := item.Value.(string)

			switch k := keyString(item.Key); k {
			case "name":
				el.Name = s

			case "slot":
				el.Name, el.Slot = s, true

			case "widget":
				el.Widget = s

			default:
				d.warn(spec.Name, key, fmt.Sprintf("unknown element key %q ignored", k))
			}
		}
	}

	switch {
	case !isIdentifier(el.Name):
		d.warn(spec.Name, key, fmt.Sprintf("element name %q is not an identifier", el.Name))

		return Element{}, false

	case !isIdentifier(el.Widget):
		d.warn(spec.Name, key, fmt.Sprintf("element %s has no widget", el.Name))

		return Element{}, false
	}

	for _, prev := range spec.Elements {
		if prev.Name == el.Name {
			d.warn(spec.Name, key, fmt.Sprintf("duplicate element %s ignored", el.Name))

			return Element{}, false
		}
	}

	return el, true
}

// entries flattens a mapping into dotted (name, value) pairs in document
// order: nested mappings extend the name of their parent.
func (d *Document) entries(widget, key string, v any) []lang.Entry {
	if v == nil {
		return nil
	}

	ms, ok := v.(yaml.MapSlice)
	if !ok {
		d.warn(widget, key, fmt.Sprintf("value is %s, not a mapping", describe(v)))

		return nil
	}

	return flatten("", ms, nil)
}

func flatten(prefix string, ms yaml.MapSlice, out []lang.Entry) []lang.Entry {
	for _, item := range ms {
		name := prefix + keyString(item.Key)

		if nested, ok := item.Value.(yaml.MapSlice); ok {
			out = flatten(name+lang.Separator, nested, out)

			continue
		}

		out = append(out, lang.Entry{Name: name, Value: scalar(item.Value)})
	}

	return out
}

func (d *Document) strings(widget, key string, v any) []string {
	switch x := v.(type) {
	case nil:
		return nil

	case string:
		return []string{x}

	case []any:
		out := make([]string, 0, len(x))

		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				d.warn(widget, key, fmt.Sprintf("entry %v is not a string", e))

				continue
			}

			out = append(out, s)
		}

		return out

	default:
		d.warn(widget, key, fmt.Sprintf("value is %s, not a string list", describe(v)))

		return nil
	}
}

// scalar converts a decoded YAML value into an expression.
func scalar(v any) lang.Value {
	switch x := v.(type) {
	case nil:
		return lang.NewLiteral(lang.None)

	case bool:
		if x {
			return lang.NewLiteral(lang.True)
		}

		return lang.NewLiteral(lang.False)

	case string:
		return lang.NewExpr(x)

	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return lang.NewLiteral(fmt.Sprint(x))

	case float32:
		return lang.NewLiteral(formatFloat(float64(x)))

	case float64:
		return lang.NewLiteral(formatFloat(x))

	case []any:
		return join("[", x, "]", func(e any) lang.Value { return scalar(e) })

	case yaml.MapSlice:
		return join("{", x, "}", func(item yaml.MapItem) lang.Value {
			val := scalar(item.Value)
			val.Text = strconv.Quote(keyString(item.Key)) + ": " + val.Text

			return val
		})

	default:
		return lang.NewExpr(fmt.Sprint(x))
	}
}

func join[T any](start string, elems []T, end string, f func(T) lang.Value) lang.Value {
	parts := make([]string, len(elems))
	verbatim := true

	for i, e := range elems {
		v := f(e)
		parts[i] = v.Text
		verbatim = verbatim && v.Verbatim
	}

	return lang.Value{
		Text:     start + strings.Join(parts, ", ") + end,
		Verbatim: verbatim,
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "float('inf')"

	case math.IsInf(f, -1):
		return "float('-inf')"

	case math.IsNaN(f):
		return "float('nan')"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}

	return fmt.Sprint(k)
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"

	case string:
		return "a string"

	case []any:
		return "a list"

	case yaml.MapSlice:
		return "a mapping"

	default:
		return fmt.Sprintf("a %T", v)
	}
}
