// Package cmd implements the widgen subcommands: gen, spec, eval, explore
// and init.
//
// Commands share source resolution. Names given with the global --source
// flag are read before positional sources; a relative name that does not
// exist is looked up with a .yaml or .yml extension and then in each
// directory of the search path. A file named twice is read once, and
// standard input ("-") is read last. With no sources at all, commands read
// standard input.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
