package compiler

import (
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/widgen/lang"
	"github.com/ardnew/widgen/widget"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"label", "panel"} {
		if err := r.Add(&Entry{Name: name, Kind: widget.KindRow}); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}

	if err := r.Add(&Entry{Name: "label"}); !errors.Is(err, lang.ErrDuplicateName) {
		t.Errorf("duplicate Add: got %v, want %v", err, lang.ErrDuplicateName)
	}

	if _, err := r.Lookup("button"); !errors.Is(err, lang.ErrUnknownWidget) {
		t.Errorf("Lookup: got %v, want %v", err, lang.ErrUnknownWidget)
	}

	var names []string
	for e := range r.All() {
		names = append(names, e.Name)
	}

	if !slices.Equal(names, []string{"label", "panel"}) || r.Len() != 2 || !r.Has("panel") {
		t.Errorf("registry holds %v", names)
	}
}

func TestEntryParam(t *testing.T) {
	e := &Entry{Params: []Param{{Ename: "background__color", Pname: "bg__color"}}}

	for _, name := range []string{"background__color", "bg__color"} {
		if _, ok := e.Param(name); !ok {
			t.Errorf("Param(%s) not found", name)
		}
	}

	if _, ok := e.Param("color"); ok {
		t.Error("Param(color) found")
	}
}
