package compiler

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"io"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/widgen/lang"
	"github.com/ardnew/widgen/widget"
)

// StampPrefix begins the header line recording the stamp of a module.
const StampPrefix = "# stamp: "

// stampKey holds the options that change generated text, and the registry
// entries of the widgets from earlier documents that the document uses.
type stampKey struct {
	Width     int
	Indent    int
	Strict    bool
	Generator string
	Module    string
	Used      []Entry
}

// Stamp returns the stamp identifying the output of compiling doc with the
// receiver's options against the widgets registered so far: the xxh3 hash
// of the document text combined with the hash of the gob-encoded options
// and used entries.
func (c *Compiler) Stamp(doc *widget.Document) string {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)
	_ = enc.Encode(stampKey{
		Width:     c.cfg.width,
		Indent:    c.cfg.indent,
		Strict:    c.cfg.strict,
		Generator: c.cfg.generator,
		Module:    doc.Module,
		Used:      c.used(doc),
	})

	return strconv.FormatUint(xxh3.Hash(doc.Text)^xxh3.Hash(buf.Bytes()), 36)
}

// used returns the registered entries of the widgets doc refers to but does
// not declare, in order of first reference.
func (c *Compiler) used(doc *widget.Document) []Entry {
	declared := lang.NewNames()
	for _, spec := range doc.Widgets {
		declared.Add(spec.Name)
	}

	var (
		seen = lang.NewNames()
		used []Entry
	)

	add := func(name string) {
		if name == "" || declared.Has(name) || seen.Has(name) {
			return
		}

		seen.Add(name)

		if e, err := c.registry.Lookup(name); err == nil {
			used = append(used, *e)
		}
	}

	for _, spec := range doc.Widgets {
		add(spec.Base)

		for _, el := range spec.Elements {
			add(el.Widget)
		}
	}

	return used
}

// stampLines bounds how far into a file [ReadStamp] looks.
const stampLines = 8

// ReadStamp returns the stamp recorded in the header of generated text.
func ReadStamp(r io.Reader) (string, bool) {
	sc := bufio.NewScanner(r)

	for i := 0; i < stampLines && sc.Scan(); i++ {
		if stamp, ok := strings.CutPrefix(sc.Text(), StampPrefix); ok {
			return strings.TrimSpace(stamp), true
		}
	}

	return "", false
}
