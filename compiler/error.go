package compiler

import (
	"log/slog"
)

// Error is a failure that prevented one widget from being generated.
type Error struct {
	Module string
	Widget string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Module + "." + e.Widget + ": " + e.Err.Error()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("module", e.Module),
		slog.String("widget", e.Widget),
	}

	if lv, ok := e.Err.(slog.LogValuer); ok {
		attrs = append(attrs, slog.Any("cause", lv.LogValue()))
	} else {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}

	return slog.GroupValue(attrs...)
}
