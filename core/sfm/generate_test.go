package sfm

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/sfmkit/core/style"
)

// formatSrc is the reference corpus for round-trip checks: markers
// with and without text, bare text lines, text flowing over line
// breaks, all three terminator forms, and chained inline markers.
var formatSrc = []string{
	"\\test\n",
	"\\test text\n",
	"\\sfm text\n",
	"bare text\n",
	"\\more-sfm more text\n",
	"over a line break\\marker\\le unix\n",
	"\\le windows\r\n",
	"\\le missing\n",
	"\\test\\i1\\i2 deep text\n",
	"\\test \\inline text\\inline*\n",
}

func TestRoundTripSource(t *testing.T) {
	doc, _ := mustParse(t, formatSrc)
	got := Generate(doc)
	want := strings.Join(formatSrc, "")
	if got != want {
		t.Errorf("Generate output differs from source:\ngot  %q\nwant %q", got, want)
	}
}

func TestRoundTripParse(t *testing.T) {
	ref, refRep := mustParse(t, formatSrc)
	regen := Generate(ref)
	trans, transRep, err := Parse(strings.NewReader(regen))
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}

	refFlat, transFlat := ref.Flatten(), trans.Flatten()
	if len(refFlat) != len(transFlat) {
		t.Fatalf("flatten lengths differ: %d vs %d", len(refFlat), len(transFlat))
	}
	for i := range refFlat {
		a, b := refFlat[i], transFlat[i]
		if a.Pos().Line != b.Pos().Line {
			t.Errorf("node %d line %d vs %d", i, a.Pos().Line, b.Pos().Line)
		}
		if d := a.Pos().Col - b.Pos().Col; d < -1 || d > 1 {
			t.Errorf("node %d column %d vs %d", i, a.Pos().Col, b.Pos().Col)
		}
		switch an := a.(type) {
		case *Text:
			bt, ok := b.(*Text)
			if !ok || bt.Content != an.Content {
				t.Errorf("node %d text mismatch: %v vs %v", i, a, b)
			}
		case *Element:
			be, ok := b.(*Element)
			if !ok || be.Name != an.Name {
				t.Errorf("node %d element mismatch: %v vs %v", i, a, b)
				continue
			}
			if an.Meta != be.Meta {
				t.Errorf("node %d metadata differs for \\%s", i, an.Name)
			}
			aAnn, bAnn := an.Annotations(), be.Annotations()
			if aAnn["implicit-close"] != bAnn["implicit-close"] {
				t.Errorf("node %d annotations differ for \\%s: %v vs %v", i, an.Name, aAnn, bAnn)
			}
		}
	}

	// Re-parsing generated output reproduces the diagnostics of the
	// original parse, message for message.
	if len(refRep.Diagnostics) != len(transRep.Diagnostics) {
		t.Fatalf("diagnostic counts differ: %d vs %d", len(refRep.Diagnostics), len(transRep.Diagnostics))
	}
	for i := range refRep.Diagnostics {
		a, b := refRep.Diagnostics[i], transRep.Diagnostics[i]
		if a.Code != b.Code || a.Message != b.Message || a.Pos != b.Pos {
			t.Errorf("diagnostic %d differs: %+v vs %+v", i, a, b)
		}
	}
}

func TestDiagnosticEqualityWithStructureViolation(t *testing.T) {
	sheet := style.Sheet{
		"a": {Name: "a", Type: style.Paragraph, Rank: 2},
		"b": {Name: "b", Type: style.Character, Rank: 4, EndMarker: true},
		"c": {Name: "c", Type: style.Character, Rank: 5},
	}
	src := "\\a \\b text \\c deep\\b*\n"

	ref, refRep, err := Parse(strings.NewReader(src), WithStylesheet(sheet))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	regen := Generate(ref)
	if regen != src {
		t.Fatalf("Generate = %q, want %q", regen, src)
	}
	_, transRep, err := Parse(strings.NewReader(regen), WithStylesheet(sheet))
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}

	if len(refRep.Diagnostics) != 1 || refRep.Diagnostics[0].Code != StructureViolation {
		t.Fatalf("ref diagnostics = %v, want one StructureViolation", refRep.Diagnostics)
	}
	if len(transRep.Diagnostics) != len(refRep.Diagnostics) {
		t.Fatalf("diagnostic counts differ: %d vs %d", len(refRep.Diagnostics), len(transRep.Diagnostics))
	}
	for i := range refRep.Diagnostics {
		if refRep.Diagnostics[i] != transRep.Diagnostics[i] {
			t.Errorf("diagnostic %d differs: %+v vs %+v", i, refRep.Diagnostics[i], transRep.Diagnostics[i])
		}
	}
}

func TestGenerateEndMarkers(t *testing.T) {
	sheet := style.Sheet{
		"p": {Name: "p", Type: style.Paragraph, Rank: 2},
		"f": {Name: "f", Type: style.Note, Rank: 4, EndMarker: true},
		"x": {Name: "x", Type: style.Character, Rank: 4},
	}

	// Explicitly closed no-end-marker style keeps its end marker.
	doc, _ := mustParse(t, []string{"\\p \\x span\\x* tail\n"}, WithStylesheet(sheet))
	if got := Generate(doc); got != "\\p \\x span\\x* tail\n" {
		t.Errorf("explicit close lost: %q", got)
	}

	// Implicitly closed paragraphs regenerate without end markers.
	doc, _ = mustParse(t, []string{"\\p one\n", "\\p two\n"}, WithStylesheet(sheet))
	if got := Generate(doc); got != "\\p one\n\\p two\n" {
		t.Errorf("paragraph regeneration = %q", got)
	}

	// A style requiring an end marker is serialized unambiguously even
	// when the source left it open.
	doc, _ = mustParse(t, []string{"\\p \\f note"}, WithStylesheet(sheet))
	if got := Generate(doc); got != "\\p \\f note\\f*" {
		t.Errorf("end-marker style regeneration = %q", got)
	}
}

func TestGenerateProgrammaticTree(t *testing.T) {
	nd := &style.Entry{Name: "nd", Type: style.Character, Rank: 4, EndMarker: true}
	doc := Document{
		NewElement("p", nil, nil,
			&Text{Content: "the "},
			NewElement("nd", nil, nd, &Text{Content: "LORD"}),
			&Text{Content: " spoke\n"},
		),
	}
	want := "\\p the \\nd LORD\\nd* spoke\n"
	if got := Generate(doc); got != want {
		t.Errorf("Generate = %q, want %q", got, want)
	}
}
