// Package ref parses the chapter and verse number forms that appear
// as USFM marker arguments: "1", "2-3", "16a", "4b-6".
package ref

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/sfmkit/core/errors"
)

// Verse is a verse number argument, possibly a range, possibly with a
// sub-verse suffix.
type Verse struct {
	// Start is the first verse number (1-indexed).
	Start int

	// StartSub is the sub-verse letter of the start ("a", "b"), if any.
	StartSub string

	// End is the last verse of a range, 0 for a single verse.
	End int

	// EndSub is the sub-verse letter of the range end, if any.
	EndSub string
}

// verseGrammar is the participle grammar for verse number arguments.
//
//nolint:govet // participle grammar tags are not standard struct tags
type verseGrammar struct {
	Start    int     `parser:"@Int"`
	StartSub *string `parser:"@Sub?"`
	End      *int    `parser:"( '-' @Int"`
	EndSub   *string `parser:"  @Sub? )?"`
}

// verseLexer tokenizes verse number arguments. Sub is a single
// lowercase letter, matching the sub-verse convention.
var verseLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Sub", Pattern: `[a-z]`},
	{Name: "Dash", Pattern: `-`},
})

var verseParser = participle.MustBuild[verseGrammar](
	participle.Lexer(verseLexer),
)

// ParseVerse parses a verse number argument.
func ParseVerse(s string) (*Verse, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.NewValidation("verse number", "", "empty")
	}
	parsed, err := verseParser.ParseString("", s)
	if err != nil {
		return nil, &errors.ValidationError{Field: "verse number", Value: s, Message: "unrecognised form", Err: err}
	}
	v := &Verse{Start: parsed.Start}
	if parsed.StartSub != nil {
		v.StartSub = *parsed.StartSub
	}
	if parsed.End != nil {
		v.End = *parsed.End
		if v.End < v.Start {
			return nil, errors.NewValidation("verse range", s, "end before start")
		}
	}
	if parsed.EndSub != nil {
		v.EndSub = *parsed.EndSub
	}
	if v.Start < 1 {
		return nil, errors.NewValidation("verse number", s, "must be 1 or greater")
	}
	return v, nil
}

// ParseChapter parses a chapter number argument, which is a bare
// positive integer.
func ParseChapter(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewValidation("chapter number", s, "not a number")
	}
	if n < 1 {
		return 0, errors.NewValidation("chapter number", s, "must be 1 or greater")
	}
	return n, nil
}

// IsRange reports whether the verse spans more than one number.
func (v *Verse) IsRange() bool {
	return v.End > 0 && v.End > v.Start
}

// String returns the canonical argument form.
func (v *Verse) String() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(v.Start))
	sb.WriteString(v.StartSub)
	if v.End > 0 {
		sb.WriteString("-")
		sb.WriteString(strconv.Itoa(v.End))
		sb.WriteString(v.EndSub)
	}
	return sb.String()
}
