package lang

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func computed(t *testing.T, entries ...Entry) *Scope {
	t.Helper()

	s := NewScope(ScopeConstruct)
	for _, e := range entries {
		if _, err := s.Register(nil, e.Name, e.Value, KindComputed); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.Populate(Context{}); err != nil {
		t.Fatal(err)
	}

	return s
}

func order(t *testing.T, s *Scope, seen Seen, names ...string) ([]string, error) {
	t.Helper()

	request, err := s.Lookup(names...)
	if err != nil {
		return nil, err
	}

	var got []string

	err = s.Resolve(seen, request, func(_ int, v *Variable) error {
		got = append(got, v.Ename)

		return nil
	})

	return got, err
}

func TestResolveOrder(t *testing.T) {
	s := computed(t,
		Entry{Name: "a", Value: NewExpr("b + c")},
		Entry{Name: "b", Value: NewLiteral("1")},
		Entry{Name: "c", Value: NewLiteral("2")},
	)

	got, err := order(t, s, s.NewSeen(), "a")
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"b", "c", "a"}, got); diff != "" {
		t.Errorf("emission order mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveDiamond(t *testing.T) {
	s := computed(t,
		Entry{Name: "a", Value: NewExpr("b + c")},
		Entry{Name: "b", Value: NewExpr("d * 2")},
		Entry{Name: "c", Value: NewExpr("d * 3")},
		Entry{Name: "d", Value: NewLiteral("1")},
		Entry{Name: "unused", Value: NewLiteral("0")},
	)

	got, err := order(t, s, s.NewSeen(), "a")
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"d", "b", "c", "a"}, got); diff != "" {
		t.Errorf("emission order mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveSeenShared(t *testing.T) {
	s := computed(t,
		Entry{Name: "a", Value: NewExpr("b")},
		Entry{Name: "b", Value: NewLiteral("1")},
	)

	seen := s.NewSeen()

	if _, err := order(t, s, seen, "a"); err != nil {
		t.Fatal(err)
	}

	got, err := order(t, s, seen, "a", "b")
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != 0 {
		t.Errorf("second pass emitted %v", got)
	}
}

func TestResolveAll(t *testing.T) {
	s := computed(t,
		Entry{Name: "x", Value: NewExpr("z")},
		Entry{Name: "y", Value: NewLiteral("1")},
		Entry{Name: "z", Value: NewExpr("y")},
	)

	var got []string

	err := s.ResolveAll(s.NewSeen(), func(_ int, v *Variable) error {
		got = append(got, v.Ename)

		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"y", "z", "x"}, got); diff != "" {
		t.Errorf("emission order mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveCycle(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		path    string
	}{
		{
			name: "pair",
			entries: []Entry{
				{Name: "a", Value: NewExpr("b")},
				{Name: "b", Value: NewExpr("a")},
			},
			path: "a → b → a",
		},
		{
			name:    "self",
			entries: []Entry{{Name: "a", Value: NewExpr("a + 1")}},
			path:    "a → a",
		},
		{
			name: "tail",
			entries: []Entry{
				{Name: "a", Value: NewExpr("b")},
				{Name: "b", Value: NewExpr("c")},
				{Name: "c", Value: NewExpr("b")},
			},
			path: "b → c → b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := computed(t, tt.entries...)

			_, err := order(t, s, s.NewSeen(), "a")
			if !errors.Is(err, ErrCycle) {
				t.Fatalf("error = %v, want ErrCycle", err)
			}

			if !strings.Contains(err.Error(), tt.path) {
				t.Errorf("error %q does not mention %q", err, tt.path)
			}
		})
	}
}

func TestResolveEmitError(t *testing.T) {
	s := computed(t, Entry{Name: "a", Value: NewLiteral("1")})
	stop := errors.New("stop")

	err := s.ResolveAll(s.NewSeen(), func(int, *Variable) error { return stop })
	if !errors.Is(err, stop) {
		t.Errorf("error = %v, want emit error", err)
	}
}

func TestLookupUnknown(t *testing.T) {
	s := computed(t, Entry{Name: "a", Value: NewLiteral("1")})

	if _, err := s.Lookup("a", "missing"); !errors.Is(err, ErrUnknownName) {
		t.Errorf("error = %v, want ErrUnknownName", err)
	}
}
