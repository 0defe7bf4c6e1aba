package compiler

import (
	"github.com/ardnew/widgen/emit"
	"github.com/ardnew/widgen/log"
	"github.com/ardnew/widgen/pkg"
)

// Option applies a configuration option to config.
type Option func(config) config

type config struct {
	width     int
	indent    int
	strict    bool
	retain    bool
	generator string
	logger    log.Logger
}

func makeConfig(opts ...Option) config {
	cfg := config{
		width:     emit.DefaultWidth,
		indent:    emit.DefaultIndent,
		strict:    true,
		generator: pkg.Name,
	}

	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// WithWidth sets the column limit of generated call expressions.
func WithWidth(width int) Option {
	return func(c config) config {
		if width > 0 {
			c.width = width
		}

		return c
	}
}

// WithIndent sets the number of spaces per indentation level.
func WithIndent(n int) Option {
	return func(c config) config {
		if n > 0 {
			c.indent = n
		}

		return c
	}
}

// WithStrict enables warnings for identifiers that no scope, import, stub
// or builtin declares.
func WithStrict(strict bool) Option {
	return func(c config) config {
		c.strict = strict

		return c
	}
}

// WithRetain keeps the translation contexts and construction bindings of
// every compiled widget on the resulting [Module].
func WithRetain(retain bool) Option {
	return func(c config) config {
		c.retain = retain

		return c
	}
}

// WithGenerator sets the generator name written to module headers.
func WithGenerator(name string) Option {
	return func(c config) config {
		c.generator = name

		return c
	}
}

// WithLogger sets the logger receiving compilation traces.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}

func (c config) emitter() []emit.Option {
	return []emit.Option{emit.WithWidth(c.width), emit.WithIndent(c.indent)}
}
