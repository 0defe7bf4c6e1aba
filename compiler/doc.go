// Package compiler generates code from widget specifications.
//
// Each widget becomes one unit of a module: raylib-call and composite
// widgets become classes with a constructor, a draw method and a clear
// method; specializations become factory functions returning an instance of
// their base. Widgets are registered as they compile, in declaration order,
// so a widget may only refer to widgets compiled before it.
//
// Names used in expressions are rewritten into storage references by
// [lang.Context.Translate], and every computed value is emitted after the
// values it depends on by [lang.Scope.Resolve].
package compiler
