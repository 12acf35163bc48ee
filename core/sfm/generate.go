package sfm

import (
	"strings"
	"unicode/utf8"
)

// Generate serializes a document back to SFM text. It is the
// deterministic inverse of Parse: a pure function of the tree and the
// end-marker requirements carried by each element's style metadata,
// producing no diagnostics.
//
// Text content is emitted verbatim, escapes included, so output parsed
// under the same escape configuration yields an equal tree. An
// explicit \name* is emitted only when the style requires an end
// marker or the element was closed explicitly in the source; elements
// closed implicitly regenerate without one, preserving source idiom.
func Generate(doc Document) string {
	var sb strings.Builder
	for _, n := range doc {
		generateNode(&sb, n)
	}
	return sb.String()
}

func generateNode(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Text:
		sb.WriteString(n.Content)
	case *Element:
		sb.WriteByte('\\')
		sb.WriteString(n.Name)
		sep := n.sep
		if sep == "" && needsSeparator(n) {
			sep = " "
		}
		sb.WriteString(sep)
		if len(n.Args) > 0 {
			sb.WriteString(strings.Join(n.Args, " "))
			sb.WriteString(n.argTail)
		}
		for _, c := range n.Children {
			generateNode(sb, c)
		}
		if n.Meta.EndMarker || n.close == closeExplicit {
			sb.WriteByte('\\')
			sb.WriteString(n.Name)
			sb.WriteByte('*')
		}
	}
}

// needsSeparator guards programmatically built elements whose captured
// separator is empty: without a space the following content would
// extend the marker name on re-parse. Parser-built trees never hit
// this.
func needsSeparator(e *Element) bool {
	if len(e.Args) > 0 {
		return true
	}
	if len(e.Children) == 0 {
		return false
	}
	t, ok := e.Children[0].(*Text)
	if !ok || t.Content == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(t.Content)
	return !isNameStop(r)
}
