package lang

import (
	"log/slog"
	"strings"
)

// Severity classifies a [Diagnostic].
type Severity int

const (
	// SeverityWarning reports a naming or shape issue that does not prevent
	// output from being generated.
	SeverityWarning Severity = iota

	// SeverityError reports an issue that prevented a widget from being
	// generated.
	SeverityError
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"

	case SeverityError:
		return "error"

	default:
		return "unknown"
	}
}

// Diagnostic is a non-fatal report attached to a widget (or to the document
// when Widget is empty).
type Diagnostic struct {
	Severity Severity
	Widget   string
	Key      string
	Message  string
}

// Warning returns a warning diagnostic.
func Warning(widget, key, message string) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Widget:   widget,
		Key:      key,
		Message:  message,
	}
}

// String formats the diagnostic as "severity: widget.key: message".
func (d Diagnostic) String() string {
	var sb strings.Builder

	sb.WriteString(d.Severity.String())
	sb.WriteString(": ")

	loc := make([]string, 0, 2)
	if d.Widget != "" {
		loc = append(loc, d.Widget)
	}

	if d.Key != "" {
		loc = append(loc, d.Key)
	}

	if len(loc) > 0 {
		sb.WriteString(strings.Join(loc, "."))
		sb.WriteString(": ")
	}

	sb.WriteString(d.Message)

	return sb.String()
}

// LogValue implements slog.LogValuer.
func (d Diagnostic) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 4)
	attrs = append(attrs, slog.String("severity", d.Severity.String()))

	if d.Widget != "" {
		attrs = append(attrs, slog.String("widget", d.Widget))
	}

	if d.Key != "" {
		attrs = append(attrs, slog.String("key", d.Key))
	}

	attrs = append(attrs, slog.String("message", d.Message))

	return slog.GroupValue(attrs...)
}
