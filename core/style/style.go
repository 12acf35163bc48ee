// Package style defines the stylesheet metadata that drives SFM tree
// construction: marker names mapped to structural entries describing
// style type, nesting rank, end-marker requirement, and hoisted
// argument count.
//
// Registries are immutable after construction and safe to share
// read-only across concurrent parses. Unknown marker names resolve to
// an explicit sentinel entry, never a nil reference.
package style

// Type classifies the structural role of a marker.
type Type int

const (
	// Unknown is the sentinel type for markers absent from the stylesheet.
	Unknown Type = iota
	// Paragraph markers open block-level elements with no end marker.
	Paragraph
	// Character markers open inline spans closed by \name* or implicitly.
	Character
	// Note markers open footnote/cross-reference containers.
	Note
	// Milestone markers mark points with no content of their own.
	Milestone
)

// String returns the lowercase name of the type.
func (t Type) String() string {
	switch t {
	case Paragraph:
		return "paragraph"
	case Character:
		return "character"
	case Note:
		return "note"
	case Milestone:
		return "milestone"
	default:
		return "unknown"
	}
}

// Entry is the metadata record for one marker. Entries are shared,
// never owned, by the elements parsed against them.
type Entry struct {
	// Name is the marker name without the leading backslash.
	Name string

	// Type is the structural role of the marker.
	Type Type

	// Rank is the nesting depth rank. A marker opens inside the
	// innermost open element only when its rank is strictly deeper
	// than that element's rank.
	Rank int

	// EndMarker reports whether the style defines an explicit
	// \name* end marker.
	EndMarker bool

	// NumArgs is the number of leading whitespace-delimited arguments
	// a canonicalising layer hoists out of the element's text (for
	// example the footnote caller of \f or the number of \v).
	NumArgs int

	// Description is an optional human-readable note.
	Description string
}

// Known reports whether the entry came from a stylesheet rather than
// the unknown sentinel.
func (e *Entry) Known() bool {
	return e.Type != Unknown
}

// NestsUnder reports whether a marker with this entry may open inside
// an element carrying parent metadata.
func (e *Entry) NestsUnder(parent *Entry) bool {
	return e.Rank > parent.Rank
}

// UnknownRank is the rank assigned to markers absent from the
// stylesheet. It matches paragraph depth, so a run of unknown markers
// parses flat: each one implicitly closes the previous.
const UnknownRank = 3

// unknownEntry is the shared sentinel returned for absent names.
var unknownEntry = &Entry{Type: Unknown, Rank: UnknownRank}

// UnknownEntry returns the sentinel entry used for markers absent
// from every stylesheet.
func UnknownEntry() *Entry {
	return unknownEntry
}

// Registry is the lookup interface the parser consumes. Lookup never
// returns nil: absent names yield the unknown sentinel.
type Registry interface {
	Lookup(name string) *Entry
}

// Sheet is a map-backed Registry. A nil Sheet is a valid empty
// registry. Lookup falls back to the digit-stripped base name, so a
// sheet defining "li" also covers "li1".."li9" at the same rank.
type Sheet map[string]*Entry

// Lookup implements Registry.
func (s Sheet) Lookup(name string) *Entry {
	if e, ok := s[name]; ok {
		return e
	}
	if base := trimLevelSuffix(name); base != name {
		if e, ok := s[base]; ok {
			return e
		}
	}
	return unknownEntry
}

// trimLevelSuffix removes a trailing run of ASCII digits.
func trimLevelSuffix(name string) string {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	return name[:i]
}

// Empty is the default registry used when no stylesheet is supplied:
// every marker resolves to the unknown sentinel.
var Empty Sheet
