package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/widgen/log"
)

// logFormat configures the logger format as a side effect of parsing, so
// that errors reported while kong is still parsing use the requested format.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the logger level as a side effect of parsing.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"warn"    enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"text"    enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"Kitchen"                         help:"Set timestamp layout (a time package layout name, a custom layout, or none)."`
	Caller     bool      `default:"false"                           help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                            help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies the parsed configuration, including the settings that are
// not applied while parsing.
func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies logger flags found in args before kong parses them, so the
// logger is configured regardless of flag position. Boolean flags never pass
// through encoding.TextUnmarshaler, and this also catches them.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg, neg := args[i], false

		if rest, ok := strings.CutPrefix(arg, "--no-log-"); ok {
			arg, neg = "--log-"+rest, true
		}

		name, value, assigned := strings.Cut(arg, "=")

		// next consumes the following argument as the flag value.
		next := func() string {
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return value
		}

		// enable reports the value of a boolean flag.
		enable := func() (bool, bool) {
			b := true
			if assigned {
				v, err := strconv.ParseBool(value)
				if err != nil {
					return false, false
				}

				b = v
			}

			return b != neg, true
		}

		switch name {
		case "--log-level":
			if !neg {
				_ = f.Level.UnmarshalText([]byte(next()))
			}

		case "--log-format":
			if !neg {
				_ = f.Format.UnmarshalText([]byte(next()))
			}

		case "--log-pretty":
			if b, ok := enable(); ok {
				f.Pretty = b
				log.Config(log.WithPretty(b))
			}

		case "--log-caller":
			if b, ok := enable(); ok {
				f.Caller = b
				log.Config(log.WithCaller(b))
			}
		}
	}
}
