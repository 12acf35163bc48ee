// Command sfmkit is the CLI for the SFM/USFM toolkit. It provides
// commands for checking sources, dumping parse trees, regenerating
// text, converting to OSIS, indexing marker statistics, and serving
// the checker over HTTP.
package main

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/sfmkit/core/osis"
	"github.com/FocuswithJustin/sfmkit/core/sfm"
	"github.com/FocuswithJustin/sfmkit/core/styfile"
	"github.com/FocuswithJustin/sfmkit/core/usfm"
	"github.com/FocuswithJustin/sfmkit/core/xml"
	"github.com/FocuswithJustin/sfmkit/internal/fileutil"
	"github.com/FocuswithJustin/sfmkit/internal/index"
	"github.com/FocuswithJustin/sfmkit/internal/logging"
	"github.com/FocuswithJustin/sfmkit/internal/report"
	"github.com/FocuswithJustin/sfmkit/internal/serve"
)

const version = "0.1.0"

// CLI defines the command-line interface for sfmkit.
var CLI struct {
	// Global flags
	Stylesheet string `name:"stylesheet" short:"s" help:"Custom .sty stylesheet path" type:"existingfile"`
	LogLevel   string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat  string `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`

	Check   CheckCmd   `cmd:"" help:"Parse a source and print its diagnostic report"`
	Tree    TreeCmd    `cmd:"" help:"Print the parse tree of a source"`
	Regen   RegenCmd   `cmd:"" help:"Parse a source and regenerate its text"`
	Osis    OsisCmd    `cmd:"" help:"Convert a source to OSIS XML"`
	Index   IndexGroup `cmd:"" help:"Marker index operations"`
	Serve   ServeCmd   `cmd:"" help:"Start the HTTP check service"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// IndexGroup contains marker index operations.
type IndexGroup struct {
	Build IndexBuildCmd `cmd:"" help:"Index sources into a database"`
	Query IndexQueryCmd `cmd:"" help:"Query an index database"`
}

// parseSource reads and parses one source file with the configured
// stylesheet, always canonicalising the result.
func parseSource(path string) ([]byte, sfm.Document, *sfm.Report, error) {
	data, err := fileutil.ReadSource(path)
	if err != nil {
		return nil, nil, nil, err
	}

	var doc sfm.Document
	var rep *sfm.Report
	if CLI.Stylesheet != "" {
		sheet, err := styfile.LoadFile(CLI.Stylesheet)
		if err != nil {
			return nil, nil, nil, err
		}
		doc, rep, err = sfm.Parse(bytes.NewReader(data), sfm.WithStylesheet(sheet))
		if err == nil {
			err = usfm.Canonicalise(doc, rep)
		}
		if err != nil {
			return nil, nil, nil, err
		}
	} else {
		doc, rep, err = usfm.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, nil, nil, err
		}
	}

	logging.ParseEvent(path, len(doc.Flatten()), len(rep.Diagnostics))
	return data, doc, rep, nil
}

// writeOutput writes data to the given path, or stdout when empty.
func writeOutput(out string, data []byte) error {
	if out == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(out, data, 0o644)
}

// CheckCmd parses a source and prints its report as JSON.
type CheckCmd struct {
	Path string `arg:"" help:"Source file to check" type:"existingfile"`
	Out  string `help:"Output path (default stdout)" type:"path"`
}

func (c *CheckCmd) Run() error {
	data, doc, rep, err := parseSource(c.Path)
	if err != nil {
		return err
	}
	r := report.New(c.Path, data, doc, rep)
	out, err := r.JSON()
	if err != nil {
		return err
	}
	out = append(out, '\n')
	if err := writeOutput(c.Out, out); err != nil {
		return err
	}
	if !r.Valid {
		return fmt.Errorf("%s: %d structural problem(s)", c.Path, rep.Count(sfm.Structure))
	}
	return nil
}

// TreeCmd prints the parse tree of a source.
type TreeCmd struct {
	Path string `arg:"" help:"Source file to parse" type:"existingfile"`
}

func (c *TreeCmd) Run() error {
	_, doc, _, err := parseSource(c.Path)
	if err != nil {
		return err
	}
	var sb strings.Builder
	for _, n := range doc {
		dumpNode(&sb, n, 0)
	}
	_, err = os.Stdout.WriteString(sb.String())
	return err
}

func dumpNode(sb *strings.Builder, n sfm.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := n.(type) {
	case *sfm.Text:
		fmt.Fprintf(sb, "%stext %s %s\n", indent, n.Start, strconv.Quote(n.Content))
	case *sfm.Element:
		fmt.Fprintf(sb, "%s\\%s %s", indent, n.Name, n.Start)
		if len(n.Args) > 0 {
			fmt.Fprintf(sb, " args=%v", n.Args)
		}
		if ann := n.Annotations(); ann != nil {
			fmt.Fprintf(sb, " %v", ann)
		}
		sb.WriteString("\n")
		for _, c := range n.Children {
			dumpNode(sb, c, depth+1)
		}
	}
}

// RegenCmd parses a source and regenerates its text.
type RegenCmd struct {
	Path string `arg:"" help:"Source file to regenerate" type:"existingfile"`
	Out  string `help:"Output path (default stdout)" type:"path"`
}

func (c *RegenCmd) Run() error {
	_, doc, _, err := parseSource(c.Path)
	if err != nil {
		return err
	}
	return writeOutput(c.Out, []byte(sfm.Generate(doc)))
}

// OsisCmd converts a source to OSIS XML.
type OsisCmd struct {
	Path   string `arg:"" help:"Source file to convert" type:"existingfile"`
	Out    string `help:"Output path (default stdout)" type:"path"`
	Pretty bool   `help:"Pretty-print the XML output"`
}

func (c *OsisCmd) Run() error {
	_, doc, _, err := parseSource(c.Path)
	if err != nil {
		return err
	}
	out, err := osis.Convert(doc)
	if err != nil {
		return err
	}
	if c.Pretty {
		out, err = xml.Format(out, xml.FormatOptions{})
		if err != nil {
			return err
		}
	}
	return writeOutput(c.Out, out)
}

// IndexBuildCmd indexes sources into a database.
type IndexBuildCmd struct {
	DB    string   `required:"" help:"Index database path" type:"path"`
	Paths []string `arg:"" help:"Source files to index" type:"existingfile"`
}

func (c *IndexBuildCmd) Run() error {
	idx, err := index.Open(c.DB)
	if err != nil {
		return err
	}
	defer idx.Close()

	for _, path := range c.Paths {
		_, doc, rep, err := parseSource(path)
		if err != nil {
			logging.ParseError(path, "index", err)
			return err
		}
		if err := idx.AddFile(path, doc, rep); err != nil {
			return err
		}
	}
	fmt.Printf("indexed %d file(s) into %s\n", len(c.Paths), c.DB)
	return nil
}

// IndexQueryCmd queries an index database.
type IndexQueryCmd struct {
	DB     string `required:"" help:"Index database path" type:"existingfile"`
	Marker string `help:"Print the total count of one marker"`
}

func (c *IndexQueryCmd) Run() error {
	idx, err := index.OpenReadOnly(c.DB)
	if err != nil {
		return err
	}
	defer idx.Close()

	if c.Marker != "" {
		n, err := idx.MarkerCount(c.Marker)
		if err != nil {
			return err
		}
		fmt.Printf("\\%s\t%d\n", c.Marker, n)
		return nil
	}

	files, err := idx.Files()
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Printf("%s\t%s\t%d nodes\t%d diagnostics\n", f.Path, f.Book, f.Nodes, f.Diagnostics)
	}

	counts, err := idx.MarkerCounts()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		fmt.Printf("\\%s\t%d\n", name, counts[name])
	}
	return nil
}

// ServeCmd starts the HTTP check service.
type ServeCmd struct {
	Addr string `default:"localhost:8747" help:"Listen address"`
}

func (c *ServeCmd) Run() error {
	return serve.New().ListenAndServe(c.Addr)
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("sfmkit version %s\n", version)
	return nil
}

func initLogging() {
	level := logging.LevelInfo
	switch CLI.LogLevel {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	format := logging.FormatText
	if CLI.LogFormat == "json" {
		format = logging.FormatJSON
	}
	logging.InitLogger(level, format)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("sfmkit"),
		kong.Description("Fault-tolerant SFM/USFM parser and toolkit"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	initLogging()
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
