// Package serve exposes the checker over HTTP: POST /check returns a
// report for an uploaded source, and GET /ws upgrades to a websocket
// that streams one report per submitted document.
package serve

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/FocuswithJustin/sfmkit/core/usfm"
	"github.com/FocuswithJustin/sfmkit/internal/fileutil"
	"github.com/FocuswithJustin/sfmkit/internal/logging"
	"github.com/FocuswithJustin/sfmkit/internal/report"
)

// maxSourceBytes bounds uploaded document size.
const maxSourceBytes = 16 << 20

// Server checks submitted SFM/USFM sources.
type Server struct {
	upgrader websocket.Upgrader
	clients  atomic.Int64
}

// New returns a server ready to serve.
func New() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler with CORS and request logging
// attached.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/check", s.handleCheck)
	mux.HandleFunc("/ws", s.handleWS)
	return logging.CombinedMiddleware(corsMiddleware(mux))
}

// corsMiddleware allows browser clients from any origin to submit
// documents for checking.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe runs the server on addr until it fails.
func (s *Server) ListenAndServe(addr string) error {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	port, _ := strconv.Atoi(portStr)
	logging.ServerStartup("sfmkit", "http", port)
	return http.ListenAndServe(addr, s.Handler())
}

// checkSource parses one submitted document and builds its report.
func checkSource(path string, source []byte) (*report.Report, error) {
	source = fileutil.StripBOM(source)
	doc, rep, err := usfm.Parse(bytes.NewReader(source))
	if err != nil {
		return nil, err
	}
	return report.New(path, source, doc, rep), nil
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxSourceBytes)
	source, err := io.ReadAll(body)
	if err != nil {
		http.Error(w, "reading request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	rep, err := checkSource(r.URL.Query().Get("path"), source)
	if err != nil {
		// Abort errors only occur at non-default thresholds; the
		// service always runs warn-and-continue.
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	data, err := rep.JSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", "error", err.Error())
		return
	}
	defer conn.Close()

	n := s.clients.Add(1)
	logging.WebSocketEvent("client_connected", int(n))
	defer func() {
		n := s.clients.Add(-1)
		logging.WebSocketEvent("client_disconnected", int(n))
	}()

	conn.SetReadLimit(maxSourceBytes)
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		rep, err := checkSource("", message)
		if err != nil {
			conn.WriteJSON(map[string]string{"error": err.Error()})
			continue
		}
		if err := conn.WriteJSON(rep); err != nil {
			return
		}
	}
}
