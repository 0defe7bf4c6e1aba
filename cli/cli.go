package cli

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/widgen/cli/cmd"
	"github.com/ardnew/widgen/pkg"
)

// CLI is the top-level command-line interface for widgen.
type CLI struct {
	Log     logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof   pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	Options cmd.Options `embed:"" group:"gen"`

	Source []string `help:"Specification file(s) read by every command, or '-' for stdin." name:"source" short:"s"`
	Path   []string `help:"Directories searched for relative source names, before those in ${pathEnv}." name:"path" short:"I" type:"path"`

	Version kong.VersionFlag `help:"Print version and exit."`

	Gen     cmd.Gen     `cmd:"" default:"withargs" help:"Generate widget modules"`
	Spec    cmd.Spec    `cmd:""                    help:"Print normalized specifications"`
	Eval    cmd.Eval    `cmd:""                    help:"Evaluate the construction bindings of a widget"`
	Explore cmd.Explore `cmd:""                    help:"Translate expressions interactively within a widget"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the widgen CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Version,
		"pathEnv":            envPath,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Options.Vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that errors reported while parsing use the
	// requested configuration.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Options.Group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.Bind(&cli.Options),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSearchPath(ctx, searchPath(cli.Path, os.Getenv(envPath)))
	ctx = cmd.WithSourceFiles(ctx, cli.Source)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}
