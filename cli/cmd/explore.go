package cmd

import (
	"context"
	"path/filepath"

	"github.com/ardnew/widgen/cli/cmd/repl"
	"github.com/ardnew/widgen/log"
)

// historyFile is the name of the explorer history file in the cache
// directory.
const historyFile = "explore.history"

// Explore starts an interactive translator for one widget.
type Explore struct {
	Widget    string `arg:"" help:"Widget whose scopes expressions are translated in." name:"widget"`
	NoHistory bool   `help:"Do not read or write the input history."`

	Sources []string `arg:"" help:"Specification files (standard input is reserved for the terminal)." name:"source" optional:""`
}

// Run executes the explore command.
func (x *Explore) Run(ctx context.Context, opts *Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	u, err := compileUnit(ctx, opts, x.Widget, x.Sources)
	if err != nil {
		return err
	}

	var history string

	if !x.NoHistory {
		if ktx := kongContextFrom(ctx); ktx != nil {
			if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
				history = filepath.Join(dir, historyFile)
			}
		}
	}

	return repl.Run(ctx, repl.Target{
		Widget:    u.Name,
		Construct: u.Construct,
		Draw:      u.Draw,
		Bindings:  u.Bindings,
	}, history, log.Default())
}
