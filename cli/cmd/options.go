package cmd

import (
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/widgen/compiler"
	"github.com/ardnew/widgen/emit"
	"github.com/ardnew/widgen/log"
	"github.com/ardnew/widgen/pkg"
)

// Options configure the compiler of every command that compiles sources.
// They are global flags, so they can be set once in the configuration file.
type Options struct {
	Width  int  `default:"${genWidth}"  help:"Column limit of generated call expressions."                      placeholder:"COLS"`
	Indent int  `default:"${genIndent}" help:"Spaces per indentation level of generated code."                 placeholder:"N"`
	Strict bool `default:"true"         help:"Warn about identifiers that no scope, import or stub declares." negatable:""`
}

// Vars returns the kong variables referenced by the option tags.
func (*Options) Vars() kong.Vars {
	return kong.Vars{
		"genWidth":  strconv.Itoa(emit.DefaultWidth),
		"genIndent": strconv.Itoa(emit.DefaultIndent),
	}
}

// Group returns the help group of the options.
func (*Options) Group() kong.Group {
	return kong.Group{Key: "gen", Title: "Generator options"}
}

// compiler returns a Compiler configured by the receiver and opts.
func (o *Options) compiler(opts ...compiler.Option) *compiler.Compiler {
	if o == nil {
		o = &Options{Strict: true}
	}

	return compiler.New(append([]compiler.Option{
		compiler.WithWidth(o.Width),
		compiler.WithIndent(o.Indent),
		compiler.WithStrict(o.Strict),
		compiler.WithGenerator(pkg.Name),
		compiler.WithLogger(log.Default()),
	}, opts...)...)
}
