package repl

import (
	"context"
	"strings"

	"github.com/ardnew/widgen/lang"
)

// probe is the binding name of the expression being explained.
const probe = "_"

// Explanation describes how an expression translates within one scope of
// a widget.
type Explanation struct {
	// Text is the translated expression.
	Text string
	// Needs are the enames of local variables the expression depends on.
	Needs []string
	// Unresolved are referenced names that nothing declares.
	Unresolved []string
	// Value is the statically evaluated result.
	Value lang.Result
}

// Explain translates input in lc and evaluates the translation after the
// construction bindings.
func Explain(
	ctx context.Context, lc lang.Context, bindings []lang.Binding, input string,
) (Explanation, error) {
	tr, err := lc.Translate(lang.NewExpr(input))
	if err != nil {
		return Explanation{}, err
	}

	ex := Explanation{Text: tr.Text, Unresolved: tr.Unresolved}

	for _, idx := range tr.Needs {
		ex.Needs = append(ex.Needs, lc.Local.At(idx).Ename)
	}

	all := append(append([]lang.Binding{}, bindings...), lang.Binding{Name: probe, Expr: tr.Text})

	results, err := lang.Evaluate(ctx, all)
	if err != nil {
		return ex, err
	}

	ex.Value = results[len(results)-1]
	ex.Value.Name = probe

	return ex, nil
}

// String formats the explanation as one line per fact.
func (ex Explanation) String() string {
	var b strings.Builder

	b.WriteString(ex.Text)

	if len(ex.Needs) > 0 {
		b.WriteString("\n  needs: " + strings.Join(ex.Needs, ", "))
	}

	if len(ex.Unresolved) > 0 {
		b.WriteString("\n  unresolved: " + strings.Join(ex.Unresolved, ", "))
	}

	if ex.Value.Static() {
		b.WriteString("\n  value: " + lang.FormatValue(ex.Value.Value))
	}

	return b.String()
}
