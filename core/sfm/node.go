// Package sfm implements a fault-tolerant parser and generator for
// backslash-marker tagged text (the SFM/USFM family). A flat stream of
// decoded lines becomes a labeled tree whose implicit nesting is
// governed by a stylesheet registry; the generator is the documented
// inverse. Malformed input is recovered from deterministically and
// recorded as diagnostics rather than aborting the parse.
package sfm

import (
	"strconv"
	"strings"

	"github.com/FocuswithJustin/sfmkit/core/style"
)

// Position is a 1-based line/column location in the source text.
// Columns count runes, not bytes.
type Position struct {
	Line int
	Col  int
}

// String returns "line:col".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
}

// Node is either a *Text or an *Element. Child order equals source
// order; positions across a flattened traversal are non-decreasing.
type Node interface {
	Pos() Position
	node()
}

// Text is a leaf node owning a run of source text. Line terminators
// are retained verbatim in the content.
type Text struct {
	Content string
	Start   Position
}

// Pos returns the position of the first character of the text run.
func (t *Text) Pos() Position { return t.Start }

func (t *Text) node() {}

func (t *Text) String() string { return t.Content }

// closeMode records how an element was terminated during parsing.
type closeMode int

const (
	closeNone     closeMode = iota // never closed (programmatic trees)
	closeExplicit                  // matched \name* end marker
	closeImplicit                  // popped by a following marker or end token
	closeEOF                       // open at end of input
)

// Element is an interior node: a marker with optional hoisted
// arguments, shared style metadata, and owned children.
type Element struct {
	// Name is the marker name as written, without the backslash.
	Name string

	// Args holds hoisted arguments such as a footnote caller or a
	// verse number.
	Args []string

	// Meta is a shared reference into the stylesheet registry. It is
	// never nil for parsed elements.
	Meta *style.Entry

	// Start is the position of the opening backslash.
	Start Position

	// Children holds the owned child nodes in source order.
	Children []Node

	// sep is the whitespace captured between the marker name and its
	// first content at tokenize time.
	sep string

	// argTail is the whitespace consumed after the last hoisted
	// argument.
	argTail string

	close closeMode
}

// NewElement builds an element for programmatic tree construction.
// meta may be nil, in which case the unknown sentinel is used.
func NewElement(name string, args []string, meta *style.Entry, children ...Node) *Element {
	if meta == nil {
		meta = style.UnknownEntry()
	}
	return &Element{
		Name:     name,
		Args:     args,
		Meta:     meta,
		Children: children,
		sep:      " ",
		argTail:  " ",
	}
}

// Pos returns the position of the element's opening backslash.
func (e *Element) Pos() Position { return e.Start }

func (e *Element) node() {}

// Append adds a child node.
func (e *Element) Append(n Node) {
	e.Children = append(e.Children, n)
}

// Annotations describes how the element was closed. Elements closed
// without their own end marker carry "implicit-close": "true", or
// "eof" when they were still open at end of input.
func (e *Element) Annotations() map[string]string {
	switch e.close {
	case closeImplicit:
		return map[string]string{"implicit-close": "true"}
	case closeEOF:
		return map[string]string{"implicit-close": "eof"}
	default:
		return nil
	}
}

// HoistArg moves the leading whitespace-delimited field of the
// element's first text child into Args, consuming at most one
// following space. It reports whether a field was hoisted. The text
// child's position advances by the consumed runes; a child left empty
// is removed.
func (e *Element) HoistArg() (string, bool) {
	if len(e.Children) == 0 {
		return "", false
	}
	t, ok := e.Children[0].(*Text)
	if !ok {
		return "", false
	}
	end := strings.IndexFunc(t.Content, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if end == 0 {
		return "", false
	}
	arg := t.Content
	rest := ""
	tail := ""
	if end > 0 {
		arg = t.Content[:end]
		rest = t.Content[end:]
		if strings.HasPrefix(rest, " ") {
			tail = " "
			rest = rest[1:]
		}
	}
	e.Args = append(e.Args, arg)
	e.argTail = tail
	if rest == "" {
		e.Children = e.Children[1:]
		return arg, true
	}
	t.Content = rest
	t.Start.Col += len([]rune(arg)) + len(tail)
	return arg, true
}

// Splice replaces the child at index i, which must be an *Element,
// with that child's own children. Used by canonicalising layers to
// unwrap default-text containers such as \ft.
func (e *Element) Splice(i int) {
	inner, ok := e.Children[i].(*Element)
	if !ok {
		return
	}
	repl := make([]Node, 0, len(e.Children)+len(inner.Children)-1)
	repl = append(repl, e.Children[:i]...)
	repl = append(repl, inner.Children...)
	repl = append(repl, e.Children[i+1:]...)
	e.Children = repl
}

// Document is an ordered sequence of top-level nodes. There is no
// synthetic root element.
type Document []Node

// Flatten returns the document's nodes in pre-order: each element
// precedes its children.
func (d Document) Flatten() []Node {
	var out []Node
	var walk func(n Node)
	walk = func(n Node) {
		out = append(out, n)
		if e, ok := n.(*Element); ok {
			for _, c := range e.Children {
				walk(c)
			}
		}
	}
	for _, n := range d {
		walk(n)
	}
	return out
}
