// Package osis converts parsed USFM documents to OSIS XML. The
// converter consumes canonicalised trees, so chapter and verse numbers
// are element arguments and footnote text is unwrapped.
package osis

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/sfmkit/core/errors"
	"github.com/FocuswithJustin/sfmkit/core/sfm"
	"github.com/FocuswithJustin/sfmkit/core/style"
	"github.com/FocuswithJustin/sfmkit/core/usfm"
	"github.com/FocuswithJustin/sfmkit/core/xml"
)

const osisNamespace = "http://www.bibletechnologies.net/2003/OSIS/namespace"

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
var attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// Convert renders a parsed document as OSIS XML and checks the result
// for well-formedness before returning it.
func Convert(doc sfm.Document) ([]byte, error) {
	c := &converter{}
	c.sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&c.sb, `<osis xmlns=%q>`+"\n", osisNamespace)
	fmt.Fprintf(&c.sb, `<osisText osisIDWork=%q>`+"\n", attrEscape(workID(doc)))
	for _, n := range doc {
		c.node(n)
	}
	c.closeBook()
	c.sb.WriteString("</osisText>\n</osis>\n")

	out := []byte(c.sb.String())
	if err := xml.Validate(out); err != nil {
		return nil, errors.NewParse("OSIS", "", err.Error())
	}
	return out, nil
}

// workID returns the first book code in the document, or "unknown".
func workID(doc sfm.Document) string {
	for _, n := range doc {
		if e, ok := n.(*sfm.Element); ok && e.Name == "id" {
			if code := bookCode(e); code != "" {
				return code
			}
		}
	}
	return "unknown"
}

func bookCode(e *sfm.Element) string {
	for _, c := range e.Children {
		if t, ok := c.(*sfm.Text); ok {
			fields := strings.Fields(t.Content)
			if len(fields) > 0 {
				return fields[0]
			}
			return ""
		}
	}
	return ""
}

type converter struct {
	sb      strings.Builder
	book    string
	chapter string
	inBook  bool
}

func (c *converter) node(n sfm.Node) {
	switch n := n.(type) {
	case *sfm.Text:
		c.sb.WriteString(textEscaper.Replace(n.Content))
	case *sfm.Element:
		c.element(n)
	}
}

func (c *converter) children(e *sfm.Element) {
	for _, n := range e.Children {
		c.node(n)
	}
}

func (c *converter) element(e *sfm.Element) {
	switch {
	case e.Name == "id":
		c.closeBook()
		c.book = bookCode(e)
		c.inBook = true
		fmt.Fprintf(&c.sb, `<div type="book" osisID=%q>`+"\n", attrEscape(c.book))
		if name, ok := usfm.BookName[c.book]; ok {
			fmt.Fprintf(&c.sb, "<title>%s</title>\n", textEscaper.Replace(name))
		}
		c.childElements(e)

	case e.Name == "c":
		// A chapter marker owns its whole chapter in the tree, so the
		// element closes inline.
		c.chapter = firstArg(e)
		fmt.Fprintf(&c.sb, `<chapter osisID=%q>`+"\n", attrEscape(c.book+"."+c.chapter))
		c.childElements(e)
		c.sb.WriteString("</chapter>\n")

	case e.Name == "v":
		id := c.book + "." + c.chapter + "." + firstArg(e)
		fmt.Fprintf(&c.sb, `<verse osisID=%q>`, attrEscape(id))
		c.children(e)
		c.sb.WriteString("</verse>\n")

	case e.Meta.Type == style.Note:
		typ := "study"
		if e.Name == "x" {
			typ = "crossReference"
		}
		fmt.Fprintf(&c.sb, `<note type=%q>`, typ)
		c.children(e)
		c.sb.WriteString("</note>")

	case isTitle(e.Name):
		c.sb.WriteString("<title>")
		c.children(e)
		c.sb.WriteString("</title>\n")

	case e.Name == "wj":
		c.sb.WriteString(`<q who="Jesus">`)
		c.children(e)
		c.sb.WriteString("</q>")

	case e.Name == "add":
		c.sb.WriteString(`<transChange type="added">`)
		c.children(e)
		c.sb.WriteString("</transChange>")

	case strings.HasPrefix(e.Name, "q") && e.Meta.Type == style.Paragraph:
		c.sb.WriteString("<l>")
		c.children(e)
		c.sb.WriteString("</l>\n")

	case e.Meta.Type == style.Character:
		fmt.Fprintf(&c.sb, `<seg type=%q>`, "x-usfm-"+attrEscape(e.Name))
		c.children(e)
		c.sb.WriteString("</seg>")

	case e.Meta.Type == style.Milestone:
		c.sb.WriteString("<lb/>\n")

	default:
		c.sb.WriteString("<p>")
		c.children(e)
		c.sb.WriteString("</p>\n")
	}
}

// childElements emits only element children, dropping the direct text
// of container markers whose text is identification metadata rather
// than scripture content.
func (c *converter) childElements(e *sfm.Element) {
	for _, n := range e.Children {
		if el, ok := n.(*sfm.Element); ok {
			c.element(el)
		}
	}
}

func (c *converter) closeBook() {
	if c.inBook {
		c.sb.WriteString("</div>\n")
		c.inBook = false
	}
}

func firstArg(e *sfm.Element) string {
	if len(e.Args) > 0 {
		return e.Args[0]
	}
	return ""
}

func isTitle(name string) bool {
	switch strings.TrimRight(name, "123456789") {
	case "mt", "mte", "ms", "s", "d", "sp":
		return true
	}
	return false
}

func attrEscape(s string) string {
	return attrEscaper.Replace(s)
}
