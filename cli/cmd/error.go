package cmd

import (
	"log/slog"
)

// Error represents a CLI command error with structured logging support.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError returns a sentinel Error with message msg.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error returns "<msg>: <cause>", omitting whichever is empty.
func (e *Error) Error() string {
	switch {
	case e.err == nil:
		return e.msg

	case e.msg == "":
		return e.err.Error()

	default:
		return e.msg + ": " + e.err.Error()
	}
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from, so
// errors.Is(ErrWriteModule.Wrap(err), ErrWriteModule) holds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && len(t.attrs) == 0 && t.msg == e.msg
}

// LogValue implements slog.LogValuer. A cause that is itself a
// slog.LogValuer is logged as a group.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if lv, ok := e.err.(slog.LogValuer); ok {
		attrs = append(attrs, slog.Any("cause", lv))
	} else if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

var (
	ErrSourceNotFound = NewError("source not found")
	ErrReadSource     = NewError("read source")
	ErrWriteModule    = NewError("write module")
	ErrCheckOutDir    = NewError("--check requires --out-dir")
	ErrStaleModule    = NewError("generated module is stale")
	ErrUnknownWidget  = NewError("unknown widget")
	ErrYAMLMarshal    = NewError("marshal YAML")
	ErrWriteConfig    = NewError("write configuration file")
	ErrFileExists     = NewError("file exists (use --force to overwrite)")
)
