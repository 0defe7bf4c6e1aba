// Package cli contains the command line interface for widgen.
//
// # Usage
//
// Each positional source is a YAML widget specification. With no command,
// the sources are compiled and the generated module is printed:
//
//	widgen label.yaml
//	widgen gen -o ui/ widgets/*.yaml
//	widgen gen -o ui/ --check widgets/*.yaml
//
// Relative source names that do not exist in the working directory are
// looked up in the --path directories and then in the WIDGEN_PATH
// environment variable, trying the extensions ".yaml" and ".yml".
//
// # Commands
//
//   - gen: compile sources to modules, or verify their stamps with --check
//   - spec yaml, spec json: print the normalized specifications
//   - eval: evaluate the construction bindings of one widget
//   - explore: translate expressions interactively in one widget's scopes
//   - init: write the current flag values to the configuration file
//
// # Configuration
//
// Flags may be set in config.yaml in the configuration directory. Keys are
// flag names, and flags with a group prefix may be nested under the group:
//
//	log:
//	  level: info
//	width: 100
//	path:
//	  - ~/widgets
//
// Command-line flags override configuration values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize text output
//
// # Generator Options
//
//   - --width: Column limit of generated call expressions
//   - --indent: Spaces per indentation level
//   - --[no-]strict: Warn about undeclared identifiers
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o widgen .
//
// The flags are:
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/widgen/pprof)
package cli
