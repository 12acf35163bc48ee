package sfm

import "fmt"

// EscapeRule decides whether the character following a backslash is
// escaped. When the rule matches a non-alphanumeric character, the
// backslash-character pair is literal text instead of a marker
// boundary. When it matches an alphanumeric character the backslash
// still starts a marker and an EscapeAmbiguity diagnostic is emitted.
//
// Parse and Generate must share the same escape configuration for the
// round-trip guarantee to hold: text content is stored verbatim, so
// re-parsing generated output resolves escapes identically.
type EscapeRule func(r rune) bool

// DefaultEscape treats only a backslash following a backslash as
// escaped: "\\" is literal text, everything else opens a marker.
func DefaultEscape(r rune) bool { return r == '\\' }

// NonAlphanumericEscape escapes every non-alphanumeric character,
// restricting marker names to alphanumeric runs.
func NonAlphanumericEscape(r rune) bool { return !isAlnum(r) }

func isAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isNameStop reports whether r terminates a marker name run.
func isNameStop(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\\', '*':
		return true
	}
	return false
}

// tokenizeLine splits one source line, terminator included, into
// marker, end, and text tokens, feeding them to the builder. Columns
// count runes from 1.
func (b *builder) tokenizeLine(s string, line int) error {
	rs := []rune(s)
	textStart := -1
	flush := func(end int) error {
		if textStart < 0 {
			return nil
		}
		pos := Position{Line: line, Col: textStart + 1}
		err := b.textTok(string(rs[textStart:end]), pos)
		textStart = -1
		return err
	}

	i := 0
	for i < len(rs) {
		if rs[i] != '\\' {
			if textStart < 0 {
				textStart = i
			}
			i++
			continue
		}

		// A lone backslash at end of line is literal text.
		if i+1 >= len(rs) {
			if textStart < 0 {
				textStart = i
			}
			i++
			continue
		}

		next := rs[i+1]
		ambiguous := false
		if b.cfg.escape != nil && b.cfg.escape(next) {
			if !isAlnum(next) {
				if textStart < 0 {
					textStart = i
				}
				i += 2
				continue
			}
			ambiguous = true
		}

		// Marker boundary: read the maximal name run.
		j := i + 1
		for j < len(rs) && !isNameStop(rs[j]) {
			j++
		}
		name := string(rs[i+1 : j])
		if name == "" {
			// Backslash directly before whitespace or another
			// backslash: literal text.
			if textStart < 0 {
				textStart = i
			}
			i++
			continue
		}

		if err := flush(i); err != nil {
			return err
		}
		pos := Position{Line: line, Col: i + 1}

		if ambiguous {
			err := b.report.Add(Diagnostic{
				Code:     EscapeAmbiguity,
				Severity: Note,
				Pos:      pos,
				Marker:   name,
				Message:  fmt.Sprintf("escape rule matches alphanumeric %q: \\%s still starts a marker", next, name),
			})
			if err != nil {
				return err
			}
		}

		if j < len(rs) && rs[j] == '*' {
			j++
			if err := b.endTok(name, pos); err != nil {
				return err
			}
			i = j
			continue
		}

		sep := ""
		if j < len(rs) && rs[j] == ' ' {
			sep = " "
			j++
		}
		if err := b.markerTok(name, sep, pos); err != nil {
			return err
		}
		i = j
	}
	return flush(len(rs))
}
