package lang

import (
	"log/slog"
	"slices"
)

// VarKind classifies a [Variable].
type VarKind int

const (
	// KindParameter is a caller-supplied construction or draw parameter.
	KindParameter VarKind = iota

	// KindComputed is a value derived from a declared expression.
	KindComputed

	// KindPseudo is a computed value synthesized by the compiler rather than
	// declared in the document (derived extents, sub-widget construction,
	// aggregated sizes).
	KindPseudo
)

// String returns the lowercase name of the kind.
func (k VarKind) String() string {
	switch k {
	case KindParameter:
		return "parameter"

	case KindComputed:
		return "computed"

	case KindPseudo:
		return "pseudo"

	default:
		return "unknown"
	}
}

// Variable is one named slot of a [Scope].
type Variable struct {
	// Ename is the unique expanded name within a widget. It is the identity of
	// the variable in the dependency graph.
	Ename string
	// Pname is the parameter spelling used in generated signatures. It is
	// empty for computed variables.
	Pname string
	// Sname is the storage reference used inside generated method bodies.
	Sname string
	// Dotted is the shortcut-substituted name before flattening.
	Dotted string

	Kind VarKind

	// Raw is the value as declared.
	Raw Value
	// Expr is the rewritten expression text. For parameters it is the
	// default value.
	Expr string
	// Needs holds the indices of the variables in the same scope that Expr
	// depends on, in ascending order.
	Needs []int
	// Unresolved lists the identifiers that Expr references but no scope
	// declares.
	Unresolved []string

	// ComputedParam marks a parameter overridden by a computed expression:
	// the caller value is used when supplied, otherwise the computed value.
	ComputedParam bool

	bound bool
}

// Bound reports whether the second construction pass has assigned the
// variable's expression.
func (v *Variable) Bound() bool { return v.bound }

// DependsOn reports whether idx is among the variable's needs.
func (v *Variable) DependsOn(idx int) bool {
	_, found := slices.BinarySearch(v.Needs, idx)

	return found
}

// LogValue implements slog.LogValuer.
func (v *Variable) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("ename", v.Ename),
		slog.String("kind", v.Kind.String()),
	}

	if v.Pname != "" {
		attrs = append(attrs, slog.String("pname", v.Pname))
	}

	attrs = append(attrs, slog.String("sname", v.Sname))

	if v.ComputedParam {
		attrs = append(attrs, slog.Bool("computed_param", true))
	}

	return slog.GroupValue(attrs...)
}
