package lang

// keywords are the reserved words of the generated language. A chain whose
// first segment is a keyword is never rewritten.
var keywords = set(
	"False", "None", "True", "and", "as", "assert", "async", "await",
	"break", "class", "continue", "def", "del", "elif", "else", "except",
	"finally", "for", "from", "global", "if", "import", "in", "is", "lambda",
	"nonlocal", "not", "or", "pass", "raise", "return", "try", "while",
	"with", "yield",
)

// builtins are names always available in the generated module.
var builtins = set(
	"abs", "all", "any", "bool", "bytes", "callable", "chr", "dict",
	"divmod", "enumerate", "filter", "float", "format", "frozenset",
	"getattr", "hasattr", "hash", "id", "int", "isinstance", "iter", "len",
	"list", "map", "max", "min", "next", "object", "ord", "pow", "print",
	"range", "repr", "reversed", "round", "set", "setattr", "slice",
	"sorted", "str", "sum", "super", "tuple", "type", "zip",
)

// Algebra names the position-algebra symbols referenced by generated draw
// code. They are provided by the runtime and never reported as unresolved.
var Algebra = []string{"Pos", "Start", "Center", "End", "pos"}

// IsKeyword reports whether name is a reserved word.
func IsKeyword(name string) bool {
	_, ok := keywords[name]

	return ok
}

// IsBuiltin reports whether name is always available at run time.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]

	return ok
}

func set(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}

	return m
}
