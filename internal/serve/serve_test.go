package serve

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/FocuswithJustin/sfmkit/internal/report"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New().Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestCheckEndpoint(t *testing.T) {
	ts := newTestServer(t)

	src := "\\id MAT\n\\c 1\n\\v 1 text\n"
	resp, err := http.Post(ts.URL+"/check?path=mat.usfm", "text/plain", strings.NewReader(src))
	if err != nil {
		t.Fatalf("POST /check failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var rep report.Report
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if rep.Path != "mat.usfm" {
		t.Errorf("path = %q", rep.Path)
	}
	if !rep.Valid {
		t.Errorf("clean source reported invalid: %+v", rep.Diagnostics)
	}
}

func TestCheckEndpointDiagnostics(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/check", "text/plain",
		strings.NewReader("\\id MAT\n\\v 1 text\\wj*\n"))
	if err != nil {
		t.Fatalf("POST /check failed: %v", err)
	}
	defer resp.Body.Close()

	var rep report.Report
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if rep.Valid {
		t.Error("source with unmatched end marker reported valid")
	}
	found := false
	for _, d := range rep.Diagnostics {
		if d.Code == "unmatched-end" {
			found = true
		}
	}
	if !found {
		t.Errorf("unmatched-end diagnostic missing: %+v", rep.Diagnostics)
	}
}

func TestCheckEndpointMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/check")
	if err != nil {
		t.Fatalf("GET /check failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestCheckEndpointCORS(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/check", nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS /check failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q, want *", got)
	}
}

func TestWebSocketStream(t *testing.T) {
	ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	sources := []string{
		"\\id MAT\n\\c 1\n\\v 1 first\n",
		"\\id MRK\n\\c 1\n\\v 1 second\n",
	}
	for _, src := range sources {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(src)); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		var rep report.Report
		if err := conn.ReadJSON(&rep); err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if !rep.Valid {
			t.Errorf("clean source reported invalid: %+v", rep.Diagnostics)
		}
		if rep.Nodes == 0 {
			t.Error("node count is zero")
		}
	}
}

func TestWebSocketReportsAreIndependent(t *testing.T) {
	ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("\\id MAT\n\\zzz\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	var bad report.Report
	if err := conn.ReadJSON(&bad); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(bad.Diagnostics) == 0 {
		t.Error("unknown marker produced no diagnostics")
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("\\id MAT\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	var clean report.Report
	if err := conn.ReadJSON(&clean); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(clean.Diagnostics) != 0 {
		t.Errorf("diagnostics leaked across documents: %+v", clean.Diagnostics)
	}
	if clean.RunID == bad.RunID {
		t.Error("distinct documents share a run ID")
	}
}
