package profile

// Stopper ends a profiling session and writes its output.
type Stopper interface{ Stop() }

type settings struct {
	mode  string
	path  string
	quiet bool
}

// Option configures a profiling session started by [Start].
type Option func(settings) settings

// WithMode selects the profile to record, one of [Modes].
func WithMode(mode string) Option {
	return func(s settings) settings {
		s.mode = mode

		return s
	}
}

// WithPath sets the directory profiles are written to.
func WithPath(path string) Option {
	return func(s settings) settings {
		s.path = path

		return s
	}
}

// WithQuiet suppresses the profiler's own start and stop messages.
func WithQuiet(quiet bool) Option {
	return func(s settings) settings {
		s.quiet = quiet

		return s
	}
}

// Start begins profiling as configured by opts. It returns a no-op Stopper
// when no mode is selected, when the mode is unknown, or when built without
// the [Tag] build tag.
func Start(opts ...Option) Stopper {
	var s settings
	for _, opt := range opts {
		s = opt(s)
	}

	if s.mode == "" {
		return ignore{}
	}

	return start(s)
}

type ignore struct{}

func (ignore) Stop() {}
