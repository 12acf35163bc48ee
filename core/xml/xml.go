// Package xml wraps the XML handling the OSIS converter needs: parsing,
// well-formedness checks, XPath queries, and indented formatting, all
// in pure Go.
//
// Well-formedness checks run with entity expansion disabled, so entity
// declarations in input cannot inject content, and Go's decoder never
// fetches external entities.
package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Document is a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node is one node of a parsed document.
type Node struct {
	node *xmlquery.Node
}

// ValidationError reports where a well-formedness check failed.
type ValidationError struct {
	Offset  int64 // byte offset of the failing token
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("malformed XML at byte %d: %s", e.Offset, e.Message)
}

// Parse parses XML data into a queryable document.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{root: root}, nil
}

// Validate checks data for well-formedness and returns a
// *ValidationError describing the first problem, or nil.
func Validate(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &ValidationError{Offset: dec.InputOffset(), Message: err.Error()}
		}
	}
}

// Root returns the document's root element, or nil for an empty
// document.
func (d *Document) Root() *Node {
	if d.root == nil {
		return nil
	}
	for n := d.root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return &Node{node: n}
		}
	}
	return nil
}

// XPath returns all nodes matching the expression. Element names in
// the expression match by local name, so queries work unchanged over
// documents with a default namespace.
func (d *Document) XPath(expr string) ([]*Node, error) {
	sel, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}
	matches := xmlquery.QuerySelectorAll(d.root, sel)
	nodes := make([]*Node, len(matches))
	for i, m := range matches {
		nodes[i] = &Node{node: m}
	}
	return nodes, nil
}

// XPathFirst returns the first node matching the expression, or nil.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	sel, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}
	m := xmlquery.QuerySelector(d.root, sel)
	if m == nil {
		return nil, nil
	}
	return &Node{node: m}, nil
}

// Name returns the element name without its namespace prefix.
func (n *Node) Name() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.Data
}

// Text returns the concatenated text content of the node.
func (n *Node) Text() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// Attr returns the value of the named attribute, or "".
func (n *Node) Attr(name string) string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.SelectAttr(name)
}

// Children returns the element children of the node.
func (n *Node) Children() []*Node {
	if n == nil || n.node == nil {
		return nil
	}
	var out []*Node
	for c := n.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			out = append(out, &Node{node: c})
		}
	}
	return out
}

// FormatOptions controls Format's output.
type FormatOptions struct {
	Indent string // indentation unit, two spaces when empty
}

// Format re-serializes XML data with one element per line, indented by
// depth. Text content is preserved but surrounding whitespace is not.
func Format(data []byte, opts FormatOptions) ([]byte, error) {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	p := &printer{indent: opts.Indent}
	for n := doc.root.FirstChild; n != nil; n = n.NextSibling {
		p.node(n, 0)
	}
	return p.buf.Bytes(), nil
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

type printer struct {
	buf    bytes.Buffer
	indent string
}

func (p *printer) pad(depth int) {
	for i := 0; i < depth; i++ {
		p.buf.WriteString(p.indent)
	}
}

func (p *printer) node(n *xmlquery.Node, depth int) {
	switch n.Type {
	case xmlquery.DeclarationNode:
		p.buf.WriteString("<?xml")
		for _, a := range n.Attr {
			fmt.Fprintf(&p.buf, " %s=%q", a.Name.Local, a.Value)
		}
		p.buf.WriteString("?>\n")

	case xmlquery.ElementNode:
		p.element(n, depth)

	case xmlquery.TextNode:
		if s := strings.TrimSpace(n.Data); s != "" {
			p.buf.WriteString(textEscaper.Replace(s))
		}

	case xmlquery.CommentNode:
		p.pad(depth)
		p.buf.WriteString("<!--")
		p.buf.WriteString(n.Data)
		p.buf.WriteString("-->\n")
	}
}

func (p *printer) element(n *xmlquery.Node, depth int) {
	p.pad(depth)
	p.buf.WriteByte('<')
	p.writeName(n)
	for _, a := range n.Attr {
		p.buf.WriteByte(' ')
		if a.Name.Space != "" {
			p.buf.WriteString("xmlns:")
		}
		p.buf.WriteString(a.Name.Local)
		p.buf.WriteString(`="`)
		p.buf.WriteString(attrEscaper.Replace(a.Value))
		p.buf.WriteByte('"')
	}

	if n.FirstChild == nil {
		p.buf.WriteString("/>\n")
		return
	}

	block := false
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			block = true
			break
		}
	}

	p.buf.WriteByte('>')
	if block {
		p.buf.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			p.element(c, depth+1)
			continue
		}
		if c.Type == xmlquery.TextNode {
			s := strings.TrimSpace(c.Data)
			if s == "" {
				continue
			}
			if block {
				p.pad(depth + 1)
			}
			p.buf.WriteString(textEscaper.Replace(c.Data))
			if block {
				p.buf.WriteByte('\n')
			}
		}
	}
	if block {
		p.pad(depth)
	}
	p.buf.WriteString("</")
	p.writeName(n)
	p.buf.WriteString(">\n")
}

func (p *printer) writeName(n *xmlquery.Node) {
	if n.Prefix != "" {
		p.buf.WriteString(n.Prefix)
		p.buf.WriteByte(':')
	}
	p.buf.WriteString(n.Data)
}
