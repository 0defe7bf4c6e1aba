// Package lang rewrites the expressions of a widget specification into the
// storage references of generated code and orders them by dependency.
//
// # Names
//
// Every declared name has three spellings:
//
//   - ename: the identity of the variable. The first dotted segment is
//     replaced through the widget's [Shortcuts], then segments are joined
//     with "__" ([Flat]).
//   - pname: the parameter spelling, the declared name joined with "__".
//   - sname: the storage reference, "self.<ename>" for values stored on the
//     instance and the bare ename for locals of a generated function.
//
// # Scopes
//
// A [Scope] is an arena of [Variable] addressed by index. Parameter scopes
// (layout, appearance) are filled with [Scope.Declare]. Computed scopes are
// filled in two passes so that expressions may refer to names declared after
// them: [Scope.Register] reserves every name, then [Scope.Populate] translates
// each expression and records its needs.
//
// # Translation
//
// [Context.Translate] tokenizes an expression with [Lex] and rewrites each
// identifier chain it may rewrite:
//
//	width * 2            ->  self.width * 2
//	title.height + pad   ->  self.title__height + self.pad
//	fmt(label, sep=', ') ->  fmt(self.label, sep=', ')
//
// # Resolution
//
// [Scope.Resolve] walks the needs graph depth-first and calls back once per
// variable, after every variable it needs. Construction requests the whole
// scope; draw requests only what the draw call references.
//
// # Evaluation
//
// [Evaluate] runs construction-time expressions through expr where both
// languages agree on the syntax, to preview the values a widget is built
// with.
package lang
