// Package usfm layers the USFM conventions on top of the generic SFM
// parser: the embedded default stylesheet, argument hoisting for
// callers and chapter/verse numbers, number validation, and unwrapping
// of the default-text marker inside notes.
package usfm

import (
	"fmt"
	"io"

	"github.com/FocuswithJustin/sfmkit/core/ref"
	"github.com/FocuswithJustin/sfmkit/core/sfm"
	"github.com/FocuswithJustin/sfmkit/core/style"
)

// Parse reads USFM text from r and returns the canonicalised document
// tree. Options are applied after the default stylesheet, so a caller
// may still substitute its own registry.
func Parse(r io.Reader, opts ...sfm.Option) (sfm.Document, *sfm.Report, error) {
	merged := make([]sfm.Option, 0, len(opts)+1)
	merged = append(merged, sfm.WithStylesheet(Default))
	merged = append(merged, opts...)
	doc, rep, err := sfm.Parse(r, merged...)
	if err != nil {
		return doc, rep, err
	}
	if err := Canonicalise(doc, rep); err != nil {
		return doc, rep, err
	}
	return doc, rep, nil
}

// Canonicalise rewrites a parsed tree into canonical USFM shape:
// marker arguments are hoisted per the stylesheet, chapter and verse
// numbers are validated, and the default-text marker \ft is unwrapped
// inside notes. Validation failures are recorded on rep; the returned
// error is non-nil only when a diagnostic crosses rep's threshold.
func Canonicalise(doc sfm.Document, rep *sfm.Report) error {
	for _, n := range doc {
		e, ok := n.(*sfm.Element)
		if !ok {
			continue
		}
		if err := canonicalise(e, rep); err != nil {
			return err
		}
	}
	return nil
}

func canonicalise(e *sfm.Element, rep *sfm.Report) error {
	if err := hoistArgs(e, rep); err != nil {
		return err
	}
	if err := validateArgs(e, rep); err != nil {
		return err
	}
	for _, c := range e.Children {
		child, ok := c.(*sfm.Element)
		if !ok {
			continue
		}
		if err := canonicalise(child, rep); err != nil {
			return err
		}
	}
	if e.Meta.Type == style.Note {
		unwrapDefaultText(e)
	}
	return nil
}

// hoistArgs moves leading text fields into Args until the element
// carries the argument count its style declares.
func hoistArgs(e *sfm.Element, rep *sfm.Report) error {
	for len(e.Args) < e.Meta.NumArgs {
		if _, ok := e.HoistArg(); !ok {
			return rep.Add(sfm.Diagnostic{
				Code:     sfm.InvalidArgument,
				Severity: sfm.Marker,
				Pos:      e.Start,
				Marker:   e.Name,
				Message:  fmt.Sprintf("\\%s requires %d argument(s), found %d", e.Name, e.Meta.NumArgs, len(e.Args)),
			})
		}
	}
	return nil
}

func validateArgs(e *sfm.Element, rep *sfm.Report) error {
	if len(e.Args) == 0 {
		return nil
	}
	var err error
	switch e.Name {
	case "c":
		_, err = ref.ParseChapter(e.Args[0])
	case "v":
		_, err = ref.ParseVerse(e.Args[0])
	default:
		return nil
	}
	if err == nil {
		return nil
	}
	return rep.Add(sfm.Diagnostic{
		Code:     sfm.InvalidArgument,
		Severity: sfm.Marker,
		Pos:      e.Start,
		Marker:   e.Name,
		Message:  err.Error(),
	})
}

// unwrapDefaultText splices \ft children into their parent note, so
// that plain note text is represented the same whether or not the
// source wrapped it. Splicing runs back to front so indices stay valid.
func unwrapDefaultText(e *sfm.Element) {
	for i := len(e.Children) - 1; i >= 0; i-- {
		child, ok := e.Children[i].(*sfm.Element)
		if !ok {
			continue
		}
		if child.Name == "ft" {
			e.Splice(i)
		}
	}
}
