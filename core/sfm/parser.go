package sfm

import (
	"bufio"
	"fmt"
	"io"

	"github.com/FocuswithJustin/sfmkit/core/style"
)

// config carries the per-parse settings.
type config struct {
	escape    EscapeRule
	threshold Severity
	sheet     style.Registry
}

// Option configures a parse invocation.
type Option func(*config)

// WithEscapeRule sets the escape rule. The default is DefaultEscape.
func WithEscapeRule(rule EscapeRule) Option {
	return func(c *config) { c.escape = rule }
}

// WithErrorLevel sets the abort threshold: any diagnostic at or above
// the given severity aborts the parse. The default is Fatal, which
// tolerates all malformed input while recording every anomaly.
func WithErrorLevel(s Severity) Option {
	return func(c *config) { c.threshold = s }
}

// WithStylesheet sets the stylesheet registry. The default is the
// empty registry, under which every marker is unknown and documents
// parse flat.
func WithStylesheet(reg style.Registry) Option {
	return func(c *config) { c.sheet = reg }
}

// Parse reads decoded text from r and builds the document tree in a
// single forward pass. It is not restartable; re-parsing requires a
// fresh reader.
//
// The returned Report always holds every diagnostic recorded before
// the parse finished or aborted. err is non-nil only for read failures
// or an *AbortError carrying the diagnostic that crossed the severity
// threshold; in the abort case the partial document built so far is
// still returned.
func Parse(r io.Reader, opts ...Option) (Document, *Report, error) {
	b := newBuilder(opts)
	br := bufio.NewReader(r)
	line := 1
	for {
		s, err := br.ReadString('\n')
		if s != "" {
			if terr := b.tokenizeLine(s, line); terr != nil {
				return b.doc, b.report, terr
			}
			line++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return b.doc, b.report, fmt.Errorf("reading input: %w", err)
		}
	}
	if terr := b.finish(); terr != nil {
		return b.doc, b.report, terr
	}
	return b.doc, b.report, nil
}

// ParseLines parses a materialized slice of lines, each including its
// own terminator ("\n", "\r\n", or none for a final line).
func ParseLines(lines []string, opts ...Option) (Document, *Report, error) {
	b := newBuilder(opts)
	for i, s := range lines {
		if err := b.tokenizeLine(s, i+1); err != nil {
			return b.doc, b.report, err
		}
	}
	if err := b.finish(); err != nil {
		return b.doc, b.report, err
	}
	return b.doc, b.report, nil
}

// builder is the open-element stack machine consuming the token
// stream. State is local to one parse invocation.
type builder struct {
	cfg    config
	report *Report
	doc    Document
	stack  []*Element
}

func newBuilder(opts []Option) *builder {
	cfg := config{
		escape:    DefaultEscape,
		threshold: Fatal,
		sheet:     style.Empty,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &builder{
		cfg:    cfg,
		report: &Report{threshold: cfg.threshold},
	}
}

func (b *builder) top() *Element {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

// closeTop closes the innermost open element with the given mode.
func (b *builder) closeTop(mode closeMode) *Element {
	e := b.stack[len(b.stack)-1]
	e.close = mode
	b.stack = b.stack[:len(b.stack)-1]
	return e
}

// insert attaches n under the innermost open element, or at the top
// level when the stack is empty.
func (b *builder) insert(n Node) {
	if t := b.top(); t != nil {
		t.Append(n)
		return
	}
	b.doc = append(b.doc, n)
}

// markerTok handles a marker-start token: resolve metadata, pop open
// elements the new marker cannot nest under, push the new element.
func (b *builder) markerTok(name, sep string, pos Position) error {
	entry := b.cfg.sheet.Lookup(name)
	if !entry.Known() {
		err := b.report.Add(Diagnostic{
			Code:     UnknownMarker,
			Severity: Marker,
			Pos:      pos,
			Marker:   name,
			Message:  fmt.Sprintf("unknown marker \\%s", name),
		})
		if err != nil {
			return err
		}
	}

	// Implicit closes are normal SFM syntax: no diagnostic.
	for len(b.stack) > 0 && !entry.NestsUnder(b.top().Meta) {
		b.closeTop(closeImplicit)
	}

	el := &Element{Name: name, Meta: entry, Start: pos, sep: sep}
	b.insert(el)
	b.stack = append(b.stack, el)
	return nil
}

// endTok handles an explicit \name* end token.
func (b *builder) endTok(name string, pos Position) error {
	idx := -1
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return b.report.Add(Diagnostic{
			Code:     UnmatchedEnd,
			Severity: Structure,
			Pos:      pos,
			Marker:   name,
			Message:  fmt.Sprintf("unmatched end marker \\%s*", name),
		})
	}
	for len(b.stack) > idx+1 {
		popped := b.closeTop(closeImplicit)
		err := b.report.Add(Diagnostic{
			Code:     StructureViolation,
			Severity: Structure,
			Pos:      pos,
			Marker:   popped.Name,
			Message:  fmt.Sprintf("end marker \\%s* implicitly closes \\%s", name, popped.Name),
		})
		if err != nil {
			return err
		}
	}
	b.closeTop(closeExplicit)
	return nil
}

// textTok handles a text run token.
func (b *builder) textTok(s string, pos Position) error {
	b.insert(&Text{Content: s, Start: pos})
	return nil
}

// finish closes every element still open at end of input.
func (b *builder) finish() error {
	for len(b.stack) > 0 {
		e := b.closeTop(closeEOF)
		if !e.Meta.EndMarker {
			continue
		}
		err := b.report.Add(Diagnostic{
			Code:     ImplicitClose,
			Severity: Note,
			Pos:      e.Start,
			Marker:   e.Name,
			Message:  fmt.Sprintf("implicit end of \\%s at end of input", e.Name),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
