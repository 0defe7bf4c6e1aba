package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Seen records which variables of a scope have been emitted during one
// generation pass.
type Seen []bool

// NewSeen returns an empty record sized for s.
func (s *Scope) NewSeen() Seen { return make(Seen, s.Len()) }

// Lookup maps enames to indices of s.
func (s *Scope) Lookup(names ...string) ([]int, error) {
	idx := make([]int, 0, len(names))

	for _, name := range names {
		i, ok := s.Index(name)
		if !ok {
			return nil, ErrUnknownName.With(
				slog.String("scope", s.kind.String()),
				slog.String("name", name),
			)
		}

		idx = append(idx, i)
	}

	return idx, nil
}

// Resolve emits every requested variable after the variables it needs,
// depth-first in declaration order of the needs. Variables already marked in
// seen are skipped, and each emitted variable is marked, so repeated calls
// sharing seen emit each variable at most once.
//
// A variable that needs itself, directly or transitively, fails with
// [ErrCycle]. The error message carries the offending path.
func (s *Scope) Resolve(
	seen Seen, request []int, emit func(int, *Variable) error,
) error {
	r := resolver{
		scope:  s,
		seen:   seen,
		onPath: make([]bool, s.Len()),
		emit:   emit,
	}

	for _, idx := range request {
		if err := r.visit(idx); err != nil {
			return err
		}
	}

	return nil
}

// ResolveAll requests every variable of s in declaration order.
func (s *Scope) ResolveAll(seen Seen, emit func(int, *Variable) error) error {
	request := make([]int, s.Len())
	for i := range request {
		request[i] = i
	}

	return s.Resolve(seen, request, emit)
}

type resolver struct {
	scope   *Scope
	seen    Seen
	onPath  []bool
	history []int
	emit    func(int, *Variable) error
}

func (r *resolver) visit(idx int) error {
	if idx < 0 || idx >= r.scope.Len() {
		return ErrUnknownName.With(slog.Int("index", idx))
	}

	if r.seen[idx] {
		return nil
	}

	if r.onPath[idx] {
		return r.cycle(idx)
	}

	r.onPath[idx] = true
	r.history = append(r.history, idx)

	v := r.scope.At(idx)
	for _, need := range v.Needs {
		if err := r.visit(need); err != nil {
			return err
		}
	}

	r.history = r.history[:len(r.history)-1]
	r.onPath[idx] = false
	r.seen[idx] = true

	return r.emit(idx, v)
}

func (r *resolver) cycle(idx int) error {
	var path []string

	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i] == idx {
			for _, h := range r.history[i:] {
				path = append(path, r.scope.At(h).Ename)
			}

			break
		}
	}

	path = append(path, r.scope.At(idx).Ename)

	return ErrCycle.Wrap(errors.New(strings.Join(path, " → "))).With(
		slog.String("scope", r.scope.kind.String()),
		slog.Any("path", path),
	)
}
