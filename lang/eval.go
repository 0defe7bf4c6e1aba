package lang

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// Binding is a storage reference (a local name or "self.<name>") and the
// rewritten expression assigned to it.
type Binding struct {
	Name string
	Expr string
}

// Result is the outcome of evaluating one [Binding].
type Result struct {
	Name  string
	Value any
	// Err is set when the value cannot be determined without running the
	// generated code.
	Err error
}

// Static reports whether the value was determined.
func (r Result) Static() bool { return r.Err == nil }

// String formats the result as "name = value", or "name = <dynamic>".
func (r Result) String() string {
	if !r.Static() {
		return r.Name + " = <dynamic>"
	}

	return r.Name + " = " + FormatValue(r.Value)
}

// Evaluate evaluates bindings in order, making each static result visible to
// the expressions that follow it. Expressions that reference dynamic values,
// run-time symbols or syntax outside the common subset of the generated
// language and expr are reported as dynamic rather than failing the batch.
func Evaluate(ctx context.Context, bindings []Binding) ([]Result, error) {
	self := make(map[string]any)
	env := map[string]any{Receiver: self}
	results := make([]Result, 0, len(bindings))

	for _, b := range bindings {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		val, err := evaluate(b.Expr, env)

		results = append(results, Result{Name: b.Name, Value: val, Err: err})

		if err != nil {
			continue
		}

		if field, ok := strings.CutPrefix(b.Name, Receiver+Separator); ok {
			self[field] = val
		} else {
			env[b.Name] = val
		}
	}

	return results, nil
}

func evaluate(text string, env map[string]any) (any, error) {
	source, err := exprSource(text)
	if err != nil {
		return nil, err
	}

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).With(slog.String("source", source))
	}

	val, err := expr.Run(program, env)
	if err != nil {
		return nil, ErrExprEvaluate.Wrap(err).With(slog.String("source", source))
	}

	return val, nil
}

// exprSource respells the literals of the generated language that expr
// writes differently.
func exprSource(text string) (string, error) {
	toks, err := Lex(text)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	for _, tok := range toks {
		switch {
		case tok.Kind == TokenChain && tok.Text == True:
			sb.WriteString("true")

		case tok.Kind == TokenChain && tok.Text == False:
			sb.WriteString("false")

		case tok.Kind == TokenChain && tok.Text == None:
			sb.WriteString("nil")

		case tok.Kind == TokenComment:

		case tok.Kind == TokenString && !isPlainString(tok.Text):
			return "", ErrExprCompile.With(slog.String("literal", tok.Text))

		default:
			sb.WriteString(tok.Text)
		}
	}

	return sb.String(), nil
}

func isPlainString(lit string) bool {
	return lit[0] == '\'' || lit[0] == '"'
}

// FormatValue formats an evaluated value in the generated language's
// literal syntax.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return None

	case bool:
		if val {
			return True
		}

		return False

	case int:
		return strconv.Itoa(val)

	case int64:
		return strconv.FormatInt(val, 10)

	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)

	case string:
		return "'" + strings.ReplaceAll(val, "'", `\'`) + "'"

	case []any:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = FormatValue(e)
		}

		return "[" + strings.Join(parts, ", ") + "]"

	default:
		return fmt.Sprintf("%v", val)
	}
}
