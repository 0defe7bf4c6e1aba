package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of pretty output. Styles render plain text when
// the output is not a color terminal.
type palette struct {
	key, str, num, time, null lipgloss.Style
	yes, no                   lipgloss.Style
	trace, debug, info, warn  lipgloss.Style
	error                     lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		time:  fg("4"),
		null:  fg("8"),
		yes:   fg("2"),
		no:    fg("1"),
		trace: fg("5"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3"),
		error: fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.error

	case l >= slog.LevelWarn:
		return p.warn

	case l >= slog.LevelInfo:
		return p.info

	case l >= slog.LevelDebug:
		return p.debug

	default:
		return p.trace
	}
}

// prettyHandler writes records as colorized "key=value" lines, or as
// indented objects with unquoted values when json is set. Groups are
// flattened into dotted keys.
type prettyHandler struct {
	opts   slog.HandlerOptions
	json   bool
	pal    *palette
	mu     *sync.Mutex
	w      io.Writer
	prefix string
	attrs  []field
}

type field struct {
	key   string
	value slog.Value
	level bool
}

func newPrettyHandler(
	w io.Writer, json bool, opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts: *opts,
		json: json,
		pal:  newPalette(w),
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append([]field(nil), h.attrs...)

	for _, a := range attrs {
		c.attrs = c.appendAttr(c.attrs, h.prefix, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]field, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		fields = h.appendBuiltin(fields, slog.Time(slog.TimeKey, r.Time))
	}

	fields = h.appendBuiltin(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			fields = h.appendBuiltin(fields,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = h.appendBuiltin(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = h.appendAttr(fields, h.prefix, a)

		return true
	})

	var buf bytes.Buffer

	if h.json {
		h.writeObject(&buf, fields, r.Level)
	} else {
		h.writeLine(&buf, fields, r.Level)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// appendBuiltin appends a top-level record attribute after ReplaceAttr.
func (h *prettyHandler) appendBuiltin(fields []field, a slog.Attr) []field {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	if a.Equal(slog.Attr{}) {
		return fields
	}

	return append(fields, field{key: a.Key, value: a.Value, level: a.Key == slog.LevelKey})
}

// appendAttr appends a, with LogValuers resolved and groups flattened.
func (h *prettyHandler) appendAttr(fields []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return fields
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			fields = h.appendAttr(fields, prefix, g)
		}

		return fields
	}

	return append(fields, field{key: prefix + a.Key, value: a.Value})
}

func (h *prettyHandler) writeLine(buf *bytes.Buffer, fields []field, level slog.Level) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.pal.key.Render(f.key))
		buf.WriteByte('=')
		buf.WriteString(h.value(f, level))
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeObject(buf *bytes.Buffer, fields []field, level slog.Level) {
	buf.WriteString("{\n")

	for i, f := range fields {
		buf.WriteString("  ")
		buf.WriteString(h.pal.key.Render(f.key))
		buf.WriteString(": ")
		buf.WriteString(h.value(f, level))

		if i < len(fields)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteString("}\n")
}

func (h *prettyHandler) value(f field, level slog.Level) string {
	if f.level {
		return h.pal.level(level).Render(f.value.String())
	}

	v := f.value

	switch v.Kind() {
	case slog.KindString:
		return h.pal.str.Render(v.String())

	case slog.KindInt64:
		return h.pal.num.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return h.pal.num.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return h.pal.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return h.pal.yes.Render("true")
		}

		return h.pal.no.Render("false")

	case slog.KindDuration:
		return h.pal.time.Render(v.Duration().String())

	case slog.KindTime:
		return h.pal.time.Render(v.Time().Format(time.RFC3339))

	default:
		if v.Any() == nil {
			return h.pal.null.Render("null")
		}

		return h.pal.str.Render(v.String())
	}
}
