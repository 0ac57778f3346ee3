// Package web serves the device API and status pages over HTTP.
package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mwoudenberg/aqualed/internal/logbuf"
	"github.com/mwoudenberg/aqualed/internal/schedule"
	"github.com/mwoudenberg/aqualed/internal/status"
)

// logChunkSize is the maximum bytes per chunk on the /logging stream.
const logChunkSize = 1024

// Server exposes the configuration endpoints, the chunked log stream and
// the status pages.
type Server struct {
	httpServer *http.Server
	ctrl       *schedule.Controller
	logs       *logbuf.Buffer
	tracker    *status.Tracker
	restart    func() // requests a daemon restart; nil disables /reset
	webroot    string // directory with UI files; empty serves the built-in page only
}

// New creates a Server. restart is invoked by /reset and may be nil.
func New(addr string, ctrl *schedule.Controller, logs *logbuf.Buffer, tracker *status.Tracker, restart func(), webroot string) *Server {
	s := &Server{
		ctrl:    ctrl,
		logs:    logs,
		tracker: tracker,
		restart: restart,
		webroot: webroot,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/getconf", s.handleGetConf)
	mux.HandleFunc("/setconf", s.handleSetConf)
	mux.HandleFunc("/overrule", s.handleOverrule)
	mux.HandleFunc("/logging", s.handleLogging)
	mux.HandleFunc("/test", s.handleTest)
	mux.HandleFunc("/reset", s.handleReset)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/", s.handleRoot)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleGetConf(w http.ResponseWriter, r *http.Request) {
	s.logs.Printf("HTTP getconf request")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, s.ctrl.Dump())
}

func (s *Server) handleSetConf(w http.ResponseWriter, r *http.Request) {
	s.logs.Printf("HTTP setconf request")
	if err := s.ctrl.Replace(firstQueryValue(r)); err != nil {
		s.logs.Printf("setconf: %v", err)
		http.Error(w, "SET command failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "SET command accepted")
}

func (s *Server) handleOverrule(w http.ResponseWriter, r *http.Request) {
	s.logs.Printf("HTTP overrule request")
	s.ctrl.SetOverride(firstQueryValue(r))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "Overrule command accepted")
}

// handleLogging streams the debug log in bounded chunks. The streamer
// cursor lives for the duration of the request; each request is its own
// session starting at line zero.
func (s *Server) handleLogging(w http.ResponseWriter, r *http.Request) {
	s.logs.Printf("HTTP logging request")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	st := s.logs.NewStreamer()
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, logChunkSize)
	for {
		n := st.Read(buf)
		if n == 0 {
			return
		}
		if _, err := w.Write(buf[:n]); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	reply := fmt.Sprintf("Free memory is %d", m.HeapSys-m.HeapAlloc)
	s.logs.Printf("%s", reply)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, reply)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.logs.Printf("HTTP reset request")
	if s.restart != nil {
		s.restart()
	}
	// No body: the device restarts instead of answering.
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" || r.URL.Path == "/index.html" {
		if s.webroot != "" {
			index := filepath.Join(s.webroot, "index.html")
			if _, err := os.Stat(index); err == nil {
				http.ServeFile(w, r, index)
				return
			}
		}
		snap := s.tracker.Snapshot()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		renderHTML(w, snap)
		return
	}
	s.handleFile(w, r)
}

// handleFile serves UI assets from the web root. Password files are
// never served, matching the device's rule for its filesystem.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, ".pw") || s.webroot == "" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.webroot, filepath.Clean(r.URL.Path)))
}

// firstQueryValue returns the value of the first query parameter in the
// raw query, regardless of its name. The device UI historically sent the
// payload as the first (and only) parameter without a fixed name.
func firstQueryValue(r *http.Request) string {
	raw := r.URL.RawQuery
	if i := strings.IndexByte(raw, '&'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '='); i >= 0 {
		raw = raw[i+1:]
	}
	v, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return v
}
