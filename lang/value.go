package lang

// Value is the expression source attached to a declared name.
//
// Verbatim values come from non-text document scalars (numbers, booleans,
// null) already rendered in target syntax; they are never rewritten.
type Value struct {
	Text     string
	Verbatim bool
}

// NewExpr creates a new expression value from the given source text.
// The text is rewritten by the translator.
//
// Examples:
//
//	NewExpr("width * 2")
//	NewExpr("title.height + pad")
//	NewExpr("'label'")
func NewExpr(text string) Value {
	return Value{Text: text}
}

// NewLiteral creates a verbatim value that bypasses translation.
func NewLiteral(text string) Value {
	return Value{Text: text, Verbatim: true}
}

// IsNone reports whether the value is the target language's null literal.
func (v Value) IsNone() bool {
	return v.Text == None
}

// String returns the value text.
func (v Value) String() string { return v.Text }

// Target language literals used by generated code.
const (
	None  = "None"
	True  = "True"
	False = "False"
)
