package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/widgen/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Info("widget compiled", slog.String("widget", "label"))
	logger.Debug("not shown")
	// Output:
	// level=INFO msg="widget compiled" widget=label
}

func ExampleLogger_With() {
	logger := log.Make(os.Stdout,
		log.WithTimeLayout("none"),
		log.WithPretty(false)).
		With(slog.String("module", "menus"))

	logger.Warn("unresolved name", slog.String("name", "colr"))
	// Output:
	// {"level":"WARN","msg":"unresolved name","module":"menus","name":"colr"}
}

func ExampleLogger_DebugContext() {
	logger := log.Make(os.Stdout, log.WithLevel(log.LevelDebug))

	logger.DebugContext(context.Background(), "scope resolved",
		slog.Int("variables", 4))
}
