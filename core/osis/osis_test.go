package osis

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/sfmkit/core/usfm"
	"github.com/FocuswithJustin/sfmkit/core/xml"
)

const sample = `\id MAT Matthew test
\h Matthew
\mt Gospel of Matthew
\c 1
\p
\v 1 The book of the genealogy of Jesus Christ.
\v 2 Abraham was the father of Isaac \f + \fr 1.2 \ft Greek: begot\f* and Isaac of Jacob.
\c 2
\p
\v 1 Now when Jesus was born in Bethlehem.
`

func convert(t *testing.T, src string) *xml.Document {
	t.Helper()
	tree, _, err := usfm.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	out, err := Convert(tree)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	doc, err := xml.Parse(out)
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	return doc
}

func TestConvertStructure(t *testing.T) {
	doc := convert(t, sample)

	root := doc.Root()
	if root == nil || root.Name() != "osis" {
		t.Fatalf("root = %v", root)
	}

	book, err := doc.XPathFirst(`//div[@type="book"]`)
	if err != nil || book == nil {
		t.Fatalf("book div not found: %v", err)
	}
	if got := book.Attr("osisID"); got != "MAT" {
		t.Errorf("book osisID = %q", got)
	}

	chapters, err := doc.XPath("//chapter")
	if err != nil {
		t.Fatalf("XPath failed: %v", err)
	}
	if len(chapters) != 2 {
		t.Fatalf("got %d chapters, want 2", len(chapters))
	}
	if got := chapters[1].Attr("osisID"); got != "MAT.2" {
		t.Errorf("second chapter osisID = %q", got)
	}

	verses, err := doc.XPath("//verse")
	if err != nil {
		t.Fatalf("XPath failed: %v", err)
	}
	if len(verses) != 3 {
		t.Fatalf("got %d verses, want 3", len(verses))
	}
	if got := verses[2].Attr("osisID"); got != "MAT.2.1" {
		t.Errorf("third verse osisID = %q", got)
	}
}

func TestConvertBookTitle(t *testing.T) {
	doc := convert(t, sample)
	title, err := doc.XPathFirst(`//div[@type="book"]/title`)
	if err != nil || title == nil {
		t.Fatalf("book title not found: %v", err)
	}
	if got := title.Text(); got != "Matthew" {
		t.Errorf("book title = %q, want Matthew", got)
	}
}

func TestConvertFootnote(t *testing.T) {
	doc := convert(t, sample)
	note, err := doc.XPathFirst(`//note`)
	if err != nil || note == nil {
		t.Fatalf("note not found: %v", err)
	}
	if got := note.Attr("type"); got != "study" {
		t.Errorf("note type = %q", got)
	}
	if !strings.Contains(note.Text(), "Greek: begot") {
		t.Errorf("note text = %q", note.Text())
	}
}

func TestConvertCharacterStyles(t *testing.T) {
	src := "\\id JHN\n\\c 3\n\\p\n\\v 16 \\wj For God so loved\\wj* the \\nd Lord\\nd*.\n"
	doc := convert(t, src)

	q, err := doc.XPathFirst(`//q[@who="Jesus"]`)
	if err != nil || q == nil {
		t.Fatalf("words-of-Jesus quote not found: %v", err)
	}
	if got := q.Text(); got != "For God so loved" {
		t.Errorf("quote text = %q", got)
	}

	seg, err := doc.XPathFirst(`//seg[@type="x-usfm-nd"]`)
	if err != nil || seg == nil {
		t.Fatalf("nd seg not found: %v", err)
	}
	if got := seg.Text(); got != "Lord" {
		t.Errorf("seg text = %q", got)
	}
}

func TestConvertCrossReference(t *testing.T) {
	src := "\\id MRK\n\\c 1\n\\p\n\\v 2 As it is written \\x - \\xo 1.2 \\xt Mal 3.1\\x* in the prophets.\n"
	doc := convert(t, src)
	note, err := doc.XPathFirst(`//note[@type="crossReference"]`)
	if err != nil || note == nil {
		t.Fatalf("cross reference note not found: %v", err)
	}
	if !strings.Contains(note.Text(), "Mal 3.1") {
		t.Errorf("note text = %q", note.Text())
	}
}

func TestConvertEscapesContent(t *testing.T) {
	src := "\\id JOB\n\\c 1\n\\p\n\\v 1 1 < 2 & 3 > 2.\n"
	doc := convert(t, src)
	verse, err := doc.XPathFirst("//verse")
	if err != nil || verse == nil {
		t.Fatalf("verse not found: %v", err)
	}
	if !strings.Contains(verse.Text(), "1 < 2 & 3 > 2.") {
		t.Errorf("verse text = %q", verse.Text())
	}
}

func TestConvertMultipleBooks(t *testing.T) {
	src := "\\id GEN\n\\c 1\n\\p\n\\v 1 In the beginning.\n\\id EXO\n\\c 1\n\\p\n\\v 1 Now these are the names.\n"
	doc := convert(t, src)
	books, err := doc.XPath(`//div[@type="book"]`)
	if err != nil {
		t.Fatalf("XPath failed: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("got %d books, want 2", len(books))
	}
	if books[0].Attr("osisID") != "GEN" || books[1].Attr("osisID") != "EXO" {
		t.Errorf("book IDs = %q, %q", books[0].Attr("osisID"), books[1].Attr("osisID"))
	}
}
