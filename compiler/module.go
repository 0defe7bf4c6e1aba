package compiler

import (
	"slices"
	"strings"

	"github.com/ardnew/widgen/emit"
	"github.com/ardnew/widgen/widget"
)

// Header returns the first line of every generated module.
func Header(generator, source string) string {
	return "# Code generated by " + generator + " from " + source + ". DO NOT EDIT."
}

// assemble writes the module text: header, imports, included code, the
// export list and every unit, in that order.
func (c *Compiler) assemble(doc *widget.Document, m *Module) string {
	e := emit.New(c.cfg.emitter()...)

	e.Line(Header(c.cfg.generator, doc.Source))
	e.Line(StampPrefix + m.Stamp)

	imports := slices.Clone(doc.Imports)
	imports = append(imports, c.autoImports(doc.Module, m.Units)...)

	if len(imports) > 0 {
		e.Newline()

		for _, imp := range imports {
			e.Block(imp)
		}
	}

	if doc.Include != "" {
		e.Newline()
		e.Block(doc.Include)
	}

	var all []string

	for _, u := range m.Units {
		all = append(all, quote(u.Name))
	}

	for _, name := range doc.Exports {
		if q := quote(name); !slices.Contains(all, q) {
			all = append(all, q)
		}
	}

	if len(all) > 0 {
		e.Newline()
		e.Call("__all__ = [", all, "]")
	}

	for _, u := range m.Units {
		e.Newline()
		e.Newline()
		e.Block(u.Text)
	}

	return e.String()
}

// autoImports returns "from <module> import ..." lines for the widgets of
// other modules the units refer to, grouped by module in order of first
// reference.
func (c *Compiler) autoImports(module string, units []*Unit) []string {
	var (
		order []string
		names = make(map[string][]string)
	)

	for _, u := range units {
		for _, ref := range u.References {
			ent, err := c.registry.Lookup(ref)
			if err != nil || ent.Module == module || slices.Contains(names[ent.Module], ref) {
				continue
			}

			if _, ok := names[ent.Module]; !ok {
				order = append(order, ent.Module)
			}

			names[ent.Module] = append(names[ent.Module], ref)
		}
	}

	lines := make([]string, 0, len(order))
	for _, mod := range order {
		lines = append(lines, "from "+mod+" import "+strings.Join(names[mod], ", "))
	}

	return lines
}

// importNames returns the names an import statement binds, and whether it is
// a wildcard import.
func importNames(stmt string) ([]string, bool) {
	fields := strings.Fields(strings.NewReplacer("(", " ", ")", " ", "\\", " ").Replace(stmt))
	if len(fields) < 2 {
		return nil, false
	}

	var list []string

	switch fields[0] {
	case "import":
		list = fields[1:]

	case "from":
		i := slices.Index(fields, "import")
		if i < 0 {
			return nil, false
		}

		list = fields[i+1:]

	default:
		return nil, false
	}

	var (
		names []string
		star  bool
	)

	for _, item := range strings.Split(strings.Join(list, " "), ",") {
		parts := strings.Fields(item)

		switch {
		case len(parts) == 0:
			continue

		case parts[0] == "*":
			star = true

		case len(parts) == 3 && parts[1] == "as":
			names = append(names, parts[2])

		case fields[0] == "import":
			head, _, _ := strings.Cut(parts[0], ".")
			names = append(names, head)

		default:
			names = append(names, parts[0])
		}
	}

	return names, star
}
