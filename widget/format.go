package widget

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/widgen/lang"
)

// FormatOption configures [FormatYAML] and [FormatJSON].
type FormatOption func(*formatConfig)

type formatConfig struct {
	indent int
	flow   bool
}

// WithFormatIndent sets the indentation width of nested structures.
func WithFormatIndent(n int) FormatOption {
	return func(c *formatConfig) { c.indent = n }
}

// WithFlow selects flow style for nested YAML structures.
func WithFlow(flow bool) FormatOption {
	return func(c *formatConfig) { c.flow = flow }
}

func (c formatConfig) encodeOptions() []yaml.EncodeOption {
	var opts []yaml.EncodeOption
	if c.indent > 0 {
		opts = append(opts, yaml.Indent(c.indent))
	}

	if c.flow {
		opts = append(opts, yaml.Flow(true))
	}

	return opts
}

// FormatYAML writes docs as a YAML stream in normalized form: every widget
// with its kind tag first and names flattened to their dotted spelling.
func FormatYAML(
	ctx context.Context, w io.Writer, docs []*Document, opts ...FormatOption,
) error {
	var cfg formatConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	for i, doc := range docs {
		data, err := yaml.MarshalContext(ctx, doc.MapSlice(), cfg.encodeOptions()...)
		if err != nil {
			return lang.ErrSpec.Wrap(err)
		}

		if i > 0 {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}

		if _, err := w.Write(data); err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes docs as a JSON array, one object per document, keeping
// declaration order.
func FormatJSON(
	ctx context.Context, w io.Writer, docs []*Document, opts ...FormatOption,
) error {
	var cfg formatConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	list := make([]any, len(docs))
	for i, doc := range docs {
		list[i] = doc.MapSlice()
	}

	data, err := yaml.MarshalContext(ctx, list, append(cfg.encodeOptions(), yaml.JSON())...)
	if err != nil {
		return lang.ErrSpec.Wrap(err)
	}

	if !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}

	_, err = w.Write(data)

	return err
}

// MapSlice returns the normalized mapping form of the document.
func (d *Document) MapSlice() yaml.MapSlice {
	var ms yaml.MapSlice

	add := func(key string, v any, skip bool) {
		if !skip {
			ms = append(ms, yaml.MapItem{Key: key, Value: v})
		}
	}

	add(KeyModule, d.Module, false)
	add(KeyImports, d.Imports, len(d.Imports) == 0)
	add(KeyInclude, d.Include, d.Include == "")
	add(KeyStubs, d.Stubs, len(d.Stubs) == 0)
	add(KeyExports, d.Exports, len(d.Exports) == 0)

	for _, w := range d.Widgets {
		ms = append(ms, yaml.MapItem{Key: w.Name, Value: w.MapSlice()})
	}

	return ms
}

// MapSlice returns the normalized mapping form of the widget.
func (s *Spec) MapSlice() yaml.MapSlice {
	var ms yaml.MapSlice

	add := func(key string, v any) {
		ms = append(ms, yaml.MapItem{Key: key, Value: v})
	}

	switch {
	case s.Kind == KindRaylibCall && s.Call != nil:
		call := yaml.MapSlice{{Key: "name", Value: s.Call.Name}}
		if len(s.Call.Args) > 0 {
			args := make([]any, len(s.Call.Args))
			for i, a := range s.Call.Args {
				args[i] = native(a)
			}

			call = append(call, yaml.MapItem{Key: "args", Value: args})
		}

		if len(s.Call.Kwargs) > 0 {
			call = append(call, yaml.MapItem{Key: "kwargs", Value: entries(s.Call.Kwargs)})
		}

		add(s.Kind.String(), call)

	case s.Kind == KindSpecializes:
		add(s.Kind.String(), s.Base)

	default:
		els := make([]any, len(s.Elements))
		for i, e := range s.Elements {
			key := "name"
			if e.Slot {
				key = "slot"
			}

			els[i] = yaml.MapSlice{
				{Key: key, Value: e.Name},
				{Key: "widget", Value: e.Widget},
			}
		}

		add(s.Kind.String(), els)

		if s.Align != AlignStart {
			add(KeyAlign, s.Align.String())
		}
	}

	for _, sec := range []struct {
		key  string
		list []lang.Entry
	}{
		{KeyLayout, s.Layout},
		{KeyAppearance, s.Appearance},
		{KeyComputed, s.Computed},
		{KeyDrawComputed, s.DrawComputed},
		{KeySpecializeComputed, s.SpecializeComputed},
	} {
		if len(sec.list) > 0 {
			add(sec.key, entries(sec.list))
		}
	}

	if len(s.Shortcuts) > 0 {
		sc := make(yaml.MapSlice, len(s.Shortcuts))
		for i, e := range s.Shortcuts {
			sc[i] = yaml.MapItem{Key: e.Short, Value: e.Canonical}
		}

		add(KeyShortcuts, sc)
	}

	if len(s.Include) > 0 {
		add(KeyInclude, s.Include)
	}

	return ms
}

func entries(list []lang.Entry) yaml.MapSlice {
	ms := make(yaml.MapSlice, len(list))
	for i, e := range list {
		ms[i] = yaml.MapItem{Key: e.Name, Value: native(e.Value)}
	}

	return ms
}

// native converts a value back to the YAML scalar it was decoded from.
func native(v lang.Value) any {
	if !v.Verbatim {
		return v.Text
	}

	switch v.Text {
	case lang.None:
		return nil

	case lang.True:
		return true

	case lang.False:
		return false
	}

	if i, err := strconv.ParseInt(v.Text, 10, 64); err == nil {
		return i
	}

	if u, err := strconv.ParseUint(v.Text, 10, 64); err == nil {
		return u
	}

	if f, err := strconv.ParseFloat(v.Text, 64); err == nil {
		return f
	}

	return v.Text
}
