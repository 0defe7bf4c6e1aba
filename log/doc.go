// Package log is a small structured logger over [log/slog].
//
// A [Logger] is immutable: options are applied once by [Make] or
// [Logger.Wrap], and [Logger.With] returns a new Logger carrying extra
// attributes. The zero Logger discards everything, so components can hold
// one without checking whether logging was configured.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("Kitchen"))
//	logger.DebugContext(ctx, "widget compiled", slog.String("widget", "label"))
//
// Besides the slog levels there is [LevelTrace], below debug, for output
// such as the order in which generated statements are emitted.
//
// With [WithPretty] (the default) records are colorized when the output is
// a terminal: text records as unquoted key=value lines and JSON records as
// indented objects. Values implementing [slog.LogValuer] are resolved and
// groups are flattened into dotted keys.
//
// The package-level functions log through a shared default Logger writing
// to standard error, reconfigured with [Config].
package log
