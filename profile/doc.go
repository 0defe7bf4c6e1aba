// Package profile records runtime profiles of a widgen run using
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the [Tag] build tag:
//
//	go build -tags pprof -o widgen .
//
// Without the tag, [Modes] is empty and [Start] always returns a no-op
// [Stopper], so callers need no build constraints of their own.
//
//	defer profile.Start(
//		profile.WithMode("cpu"),
//		profile.WithPath(dir),
//		profile.WithQuiet(true),
//	).Stop()
//
// The modes are allocs, block, clock, cpu, goroutine, heap, mem, mutex,
// thread and trace. Output is written to the configured directory (a
// temporary directory by default) and can be inspected with "go tool pprof"
// or, for trace, "go tool trace".
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
