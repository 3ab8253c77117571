// Package server exposes the automation agent over HTTP.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/agent"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/logger"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/report"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/testcase"
)

// Version reported by the info endpoint.
const Version = "1.0.0"

// Server handles HTTP requests against a single device agent.
// Test runs are serialized: one device, one run at a time.
type Server struct {
	agent   *agent.Agent
	reports *report.Writer
	mux     *http.ServeMux

	runMu sync.Mutex
}

// New creates a server for the given agent. The report writer may be nil to
// disable persistence.
func New(a *agent.Agent, reports *report.Writer) *Server {
	s := &Server{
		agent:   a,
		reports: reports,
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/screen", s.handleScreen)
	s.mux.HandleFunc("/hierarchy", s.handleHierarchy)
	s.mux.HandleFunc("/run_test", s.handleRunTest)
	s.mux.HandleFunc("/query_screen", s.handleQueryScreen)
	s.mux.HandleFunc("/validate_screen", s.handleValidateScreen)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Minute, // test runs are slow
	}
	logger.Info("HTTP server listening on %s", addr)
	return srv.ListenAndServe()
}

// runTestRequest is the body of POST /run_test.
type runTestRequest struct {
	AppName string   `json:"app_name"`
	Steps   []string `json:"steps"`
	Execute *bool    `json:"execute"`
}

// queryScreenRequest is the body of POST /query_screen.
type queryScreenRequest struct {
	Question string `json:"question"`
}

// validateScreenRequest is the body of POST /validate_screen.
type validateScreenRequest struct {
	Expectation string `json:"expectation"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "vision-based mobile automation API",
		"version": Version,
		"endpoints": map[string]string{
			"POST /run_test":        "execute a test case with natural language steps",
			"GET /health":           "check agent status",
			"GET /screen":           "capture the current screen",
			"GET /hierarchy":        "dump the UI hierarchy XML",
			"POST /query_screen":    "ask a question about the current screen",
			"POST /validate_screen": "check an expectation against the screen",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.agent == nil {
		writeError(w, http.StatusServiceUnavailable, "agent not initialized")
		return
	}

	width, height := s.agent.ScreenSize()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"agent":       "ready",
		"screen_size": fmt.Sprintf("%dx%d", width, height),
	})
}

func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	if s.agent == nil {
		writeError(w, http.StatusServiceUnavailable, "agent not initialized")
		return
	}

	data, err := s.agent.CaptureScreen()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to capture screen: "+err.Error())
		return
	}

	path, err := s.saveScreenshot(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	width, height := s.agent.ScreenSize()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"screenshot_path": path,
		"screen_size": map[string]int{
			"width":  width,
			"height": height,
		},
	})
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	if s.agent == nil {
		writeError(w, http.StatusServiceUnavailable, "agent not initialized")
		return
	}

	data, err := s.agent.Hierarchy()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to dump hierarchy: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleRunTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}
	if s.agent == nil {
		writeError(w, http.StatusServiceUnavailable, "agent not initialized")
		return
	}

	var req runTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if len(req.Steps) == 0 {
		writeError(w, http.StatusBadRequest, "at least one step is required")
		return
	}

	tc := &testcase.TestCase{
		Name:  req.AppName,
		App:   req.AppName,
		Steps: req.Steps,
	}
	if tc.App == "" {
		tc.App = "Test"
	}
	if err := tc.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// execute=false returns the parsed plan without touching the device
	if req.Execute != nil && !*req.Execute {
		writeJSON(w, http.StatusOK, agent.Plan(tc))
		return
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	start := time.Now()
	result := s.agent.RunTestCase(r.Context(), tc)

	if s.reports != nil {
		if runID, err := s.reports.Write(result, start, time.Since(start)); err != nil {
			logger.Warn("failed to persist report: %v", err)
		} else {
			logger.Info("report saved: %s", runID)
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleQueryScreen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}
	if s.agent == nil {
		writeError(w, http.StatusServiceUnavailable, "agent not initialized")
		return
	}

	var req queryScreenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := s.agent.QueryScreen(r.Context(), req.Question)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  false,
			"question": req.Question,
			"error":    err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"question": req.Question,
		"answer":   answer,
	})
}

func (s *Server) handleValidateScreen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}
	if s.agent == nil {
		writeError(w, http.StatusServiceUnavailable, "agent not initialized")
		return
	}

	var req validateScreenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Expectation == "" {
		writeError(w, http.StatusBadRequest, "expectation is required")
		return
	}

	passed, err := s.agent.ValidateScreen(r.Context(), req.Expectation)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "validation failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"expectation": req.Expectation,
		"passed":      passed,
	})
}

// saveScreenshot writes a capture next to the reports for later inspection.
func (s *Server) saveScreenshot(data []byte) (string, error) {
	dir := "."
	if s.reports != nil {
		dir = s.reports.Dir()
	}
	dir = filepath.Join(dir, "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("screen-%d.png", time.Now().UnixMilli()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save screenshot: %w", err)
	}
	return path, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
