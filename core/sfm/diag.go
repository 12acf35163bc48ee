package sfm

import "fmt"

// Severity orders diagnostics from informational to unrecoverable.
type Severity int

const (
	// Note marks informational anomalies such as implicit closes.
	Note Severity = iota
	// Marker marks problems with an individual marker, such as a name
	// absent from the stylesheet.
	Marker
	// Structure marks violations of the document structure, such as
	// unmatched end markers.
	Structure
	// Fatal marks unrecoverable conditions. A Fatal diagnostic always
	// aborts the parse.
	Fatal
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case Note:
		return "note"
	case Marker:
		return "marker"
	case Structure:
		return "structure"
	case Fatal:
		return "fatal"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Code identifies a diagnostic category.
type Code string

const (
	// UnknownMarker: a marker name absent from the stylesheet.
	UnknownMarker Code = "unknown-marker"
	// ImplicitClose: an element requiring an explicit end marker was
	// closed implicitly.
	ImplicitClose Code = "implicit-close"
	// UnmatchedEnd: an end marker with no matching open element.
	UnmatchedEnd Code = "unmatched-end"
	// StructureViolation: an end marker closed intervening open
	// elements above its match.
	StructureViolation Code = "structure-violation"
	// EscapeAmbiguity: the escape rule matched an alphanumeric
	// character, which still starts a marker.
	EscapeAmbiguity Code = "escape-ambiguity"
	// InvalidArgument: a hoisted argument failed validation, such as a
	// malformed verse number.
	InvalidArgument Code = "invalid-argument"
)

// Diagnostic is one recorded anomaly. Diagnostics never mutate the
// tree; they are the parser's warning channel.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Pos      Position
	// Marker is the offending marker name, without the backslash.
	Marker  string
	Message string
}

// String returns "line:col: severity: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
}

// AbortError is returned by Parse when a diagnostic reaches the
// configured severity threshold. The partial document built before the
// abort point is still returned to the caller.
type AbortError struct {
	Diagnostic Diagnostic
}

func (e *AbortError) Error() string {
	return "parse aborted: " + e.Diagnostic.String()
}

// Report collects the diagnostics of a single parse invocation.
// Each parse owns its own Report; concurrent parses never interleave.
type Report struct {
	Diagnostics []Diagnostic

	threshold Severity
}

// Add records a diagnostic. It returns an *AbortError when the
// severity is at or above the report's threshold.
func (r *Report) Add(d Diagnostic) error {
	r.Diagnostics = append(r.Diagnostics, d)
	if d.Severity >= r.threshold {
		return &AbortError{Diagnostic: d}
	}
	return nil
}

// Count returns the number of diagnostics at or above sev.
func (r *Report) Count(sev Severity) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity >= sev {
			n++
		}
	}
	return n
}
