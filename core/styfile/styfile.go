// Package styfile loads USFM stylesheet definition (.sty) files into
// style registries. A .sty file is itself backslash-marker text, so it
// is parsed with the core parser under a records stylesheet in which
// \Marker opens a record and every property marker nests inside it.
package styfile

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/sfmkit/core/errors"
	"github.com/FocuswithJustin/sfmkit/core/sfm"
	"github.com/FocuswithJustin/sfmkit/core/style"
)

const (
	recordRank   = 1
	propertyRank = 2
)

// recordsSheet drives the parse of the .sty file itself. Property
// markers not listed here still parse, as unknown markers share the
// property rank.
var recordsSheet = makeRecordsSheet()

func makeRecordsSheet() style.Sheet {
	sheet := style.Sheet{
		"Marker": &style.Entry{Name: "Marker", Type: style.Paragraph, Rank: recordRank},
	}
	properties := []string{
		"Endmarker", "Name", "Description", "OccursUnder", "Rank",
		"TextType", "StyleType", "TextProperties", "Attributes",
		"FontSize", "Bold", "Italic", "Underline", "Superscript",
		"Smallcaps", "Justification", "SpaceBefore", "SpaceAfter",
		"LeftMargin", "RightMargin", "FirstLineIndent", "CallerStyle",
		"NoteCallerStyle", "NotRepeatable", "XMLTag", "Encoding",
		"LineSpacing", "Color", "ColorName", "Regular",
	}
	for _, p := range properties {
		sheet[p] = &style.Entry{Name: p, Type: style.Paragraph, Rank: propertyRank}
	}
	return sheet
}

// Load parses .sty text from r into a stylesheet. Nesting ranks are
// taken from an explicit \Rank property when present, and otherwise
// derived from \StyleType, \TextType, and \OccursUnder.
func Load(r io.Reader) (style.Sheet, error) {
	doc, _, err := sfm.Parse(r, sfm.WithStylesheet(recordsSheet))
	if err != nil {
		return nil, errors.NewParse("sty", "", err.Error())
	}

	sheet := style.Sheet{}
	for _, n := range doc {
		rec, ok := n.(*sfm.Element)
		if !ok || rec.Name != "Marker" {
			// Top-level text is file comments and blank lines.
			continue
		}
		entry, err := buildEntry(rec)
		if err != nil {
			return nil, err
		}
		sheet[entry.Name] = entry
	}
	if len(sheet) == 0 {
		return nil, errors.NewParse("sty", "", "no marker records found")
	}
	return sheet, nil
}

// LoadFile loads a stylesheet from disk.
func LoadFile(path string) (style.Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()
	sheet, err := Load(f)
	if perr, ok := err.(*errors.ParseError); ok {
		perr.Path = path
		return nil, perr
	}
	return sheet, err
}

func buildEntry(rec *sfm.Element) (*style.Entry, error) {
	name := firstField(recordText(rec))
	if name == "" {
		return nil, errors.NewParse("sty", "",
			"\\Marker record at "+rec.Start.String()+" has no marker name")
	}

	entry := &style.Entry{Name: name, Type: style.Paragraph}
	var textType, occursUnder string
	explicitRank := -1

	for _, c := range rec.Children {
		prop, ok := c.(*sfm.Element)
		if !ok {
			continue
		}
		value := recordText(prop)
		switch prop.Name {
		case "Endmarker":
			entry.EndMarker = value != ""
		case "Name", "Description":
			if entry.Description == "" {
				entry.Description = value
			}
		case "StyleType":
			t, err := parseStyleType(value)
			if err != nil {
				return nil, errors.Wrapf(err, "marker %s", name)
			}
			entry.Type = t
		case "TextType":
			textType = value
		case "OccursUnder":
			occursUnder = value
		case "Rank":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return nil, errors.NewParse("sty", "",
					"marker "+name+": invalid rank "+strconv.Quote(value))
			}
			explicitRank = n
		}
	}

	entry.Rank = deriveRank(entry, textType, occursUnder, explicitRank)
	entry.NumArgs = deriveNumArgs(entry, textType)
	return entry, nil
}

func parseStyleType(s string) (style.Type, error) {
	switch strings.ToLower(s) {
	case "paragraph", "":
		return style.Paragraph, nil
	case "character":
		return style.Character, nil
	case "note":
		return style.Note, nil
	case "milestone", "standalone":
		return style.Milestone, nil
	}
	return style.Unknown, errors.NewParse("sty", "", "unknown style type "+strconv.Quote(s))
}

// deriveRank maps a record's properties onto the nesting rank scale:
// book markers at 1, chapters at 2, paragraph-level at 3, verses at 4,
// character and note styles at 5, note content at 6. Chapters rank
// strictly deeper than books so a \c never closes its \id.
func deriveRank(e *style.Entry, textType, occursUnder string, explicit int) int {
	if explicit > 0 {
		return explicit
	}
	switch strings.ToLower(textType) {
	case "chapternumber":
		return 2
	case "versenumber":
		return 4
	}
	if e.Name == "id" {
		return 1
	}
	switch e.Type {
	case style.Character, style.Note:
		if occursInNote(occursUnder) {
			return 6
		}
		return 5
	default:
		return 3
	}
}

// occursInNote reports whether the OccursUnder list names a footnote
// or cross-reference container.
func occursInNote(occursUnder string) bool {
	for _, f := range strings.Fields(occursUnder) {
		switch f {
		case "f", "fe", "x":
			return true
		}
	}
	return false
}

func deriveNumArgs(e *style.Entry, textType string) int {
	switch strings.ToLower(textType) {
	case "chapternumber", "versenumber":
		return 1
	}
	if e.Type == style.Note {
		return 1
	}
	return 0
}

// recordText concatenates an element's direct text children and
// returns the first line, trimmed. Later lines are comments or blank
// separators in .sty files.
func recordText(e *sfm.Element) string {
	var sb strings.Builder
	for _, c := range e.Children {
		if t, ok := c.(*sfm.Text); ok {
			sb.WriteString(t.Content)
		}
	}
	s := sb.String()
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
