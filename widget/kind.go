package widget

//go:generate go tool stringer --linecomment --type Kind,Align --output kind_string.go

// Kind is the tag selecting how a widget is generated.
type Kind int

const (
	KindRaylibCall  Kind = iota // raylib-call
	KindRow                     // row
	KindColumn                  // column
	KindStack                   // stack
	KindSpecializes             // specializes
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{KindRaylibCall, KindRow, KindColumn, KindStack, KindSpecializes}

// ParseKind returns the kind whose tag is s.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, true
		}
	}

	return 0, false
}

// Composite reports whether widgets of the kind are built from sub-widgets.
func (k Kind) Composite() bool {
	return k == KindRow || k == KindColumn || k == KindStack
}

// Align is the cross-axis anchoring of the children of a composite.
type Align int

const (
	AlignStart  Align = iota // start
	AlignCenter              // center
	AlignEnd                 // end
)

// ParseAlign returns the alignment named s.
func ParseAlign(s string) (Align, bool) {
	for _, a := range []Align{AlignStart, AlignCenter, AlignEnd} {
		if a.String() == s {
			return a, true
		}
	}

	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// MarshalText implements encoding.TextMarshaler.
func (a Align) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
