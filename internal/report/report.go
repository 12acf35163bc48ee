// Package report builds the check report emitted by the CLI and the
// HTTP service: one parse run, identified by a random run ID, with the
// source content hash and the flattened diagnostic list.
package report

import (
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/sfmkit/core/sfm"
)

// Diagnostic is the wire form of one parser diagnostic.
type Diagnostic struct {
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Marker   string `json:"marker,omitempty"`
	Message  string `json:"message"`
}

// Report describes one parse run.
type Report struct {
	RunID       string       `json:"run_id"`
	Path        string       `json:"path,omitempty"`
	ContentHash string       `json:"content_hash"`
	Nodes       int          `json:"nodes"`
	Valid       bool         `json:"valid"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// New builds a report for one parsed source. source is the raw input
// used for the content hash; doc and rep are the parse results. A
// report is valid when no diagnostic reached Structure severity.
func New(path string, source []byte, doc sfm.Document, rep *sfm.Report) *Report {
	sum := blake3.Sum256(source)
	r := &Report{
		RunID:       uuid.NewString(),
		Path:        path,
		ContentHash: hex.EncodeToString(sum[:]),
		Nodes:       len(doc.Flatten()),
		Valid:       rep.Count(sfm.Structure) == 0,
		Diagnostics: make([]Diagnostic, 0, len(rep.Diagnostics)),
	}
	for _, d := range rep.Diagnostics {
		r.Diagnostics = append(r.Diagnostics, Diagnostic{
			Line:     d.Pos.Line,
			Col:      d.Pos.Col,
			Severity: d.Severity.String(),
			Code:     string(d.Code),
			Marker:   d.Marker,
			Message:  d.Message,
		})
	}
	return r
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Counts returns the number of diagnostics per severity name.
func (r *Report) Counts() map[string]int {
	counts := map[string]int{}
	for _, d := range r.Diagnostics {
		counts[d.Severity]++
	}
	return counts
}
