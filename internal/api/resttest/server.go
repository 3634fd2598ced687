// Package resttest provides an in-memory stand-in for the applications REST API.
package resttest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"recruiter-console/internal/domain"
)

// Request is one request the server received.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          string
}

type failure struct {
	status  int
	message string
}

// Server implements GET, PUT and DELETE on /api/applications over an in-memory list.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	token       string
	apps        []domain.Application
	listPayload string
	failures    map[string]failure
	gate        chan struct{}
	requests    []Request
}

// NewServer starts a server that accepts only the given bearer token.
func NewServer(token string, apps ...domain.Application) *Server {
	s := &Server{
		token:    token,
		apps:     append([]domain.Application(nil), apps...),
		failures: make(map[string]failure),
	}
	router := mux.NewRouter()
	router.Use(s.record, s.authenticate)
	RegisterRoutes(router, s)
	s.Server = httptest.NewServer(router)
	return s
}

// RegisterRoutes registers the applications endpoints
func RegisterRoutes(router *mux.Router, s *Server) {
	router.HandleFunc("/api/applications", s.handleList).Methods(http.MethodGet)
	router.HandleFunc("/api/applications/{id}", s.handleUpdate).Methods(http.MethodPut)
	router.HandleFunc("/api/applications/{id}", s.handleDelete).Methods(http.MethodDelete)
}

// SetListPayload makes GET answer with raw instead of the stored list.
func (s *Server) SetListPayload(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listPayload = raw
}

// Fail makes every request with method answer status with {message}.
// A zero status removes the failure.
func (s *Server) Fail(method string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, method)
		return
	}
	s.failures[method] = failure{status: status, message: message}
}

// Hold blocks PUT and DELETE handlers until the returned release is called.
func (s *Server) Hold() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gate = gate
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.gate == gate {
				s.gate = nil
			}
			s.mu.Unlock()
			close(gate)
		})
	}
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Applications returns the server-side list.
func (s *Server) Applications() []domain.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Application(nil), s.apps...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          string(body),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.token {
			writeMessage(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) failed(w http.ResponseWriter, method string) bool {
	s.mu.Lock()
	f, ok := s.failures[method]
	s.mu.Unlock()
	if !ok {
		return false
	}
	writeMessage(w, f.status, f.message)
	return true
}

func (s *Server) wait(r *http.Request) {
	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()
	if gate == nil {
		return
	}
	select {
	case <-gate:
	case <-r.Context().Done():
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if s.failed(w, r.Method) {
		return
	}
	s.mu.Lock()
	raw := s.listPayload
	apps := append([]domain.Application{}, s.apps...)
	s.mu.Unlock()

	if raw != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, raw)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

type statusRequest struct {
	Status domain.ApplicationStatus `json:"status"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	s.wait(r)
	if s.failed(w, r.Method) {
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	switch req.Status {
	case domain.ApplicationStatusPending, domain.ApplicationStatusAccepted, domain.ApplicationStatusRejected:
	default:
		writeMessage(w, http.StatusBadRequest, "Invalid status")
		return
	}

	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.apps {
		if s.apps[i].ID == id {
			s.apps[i].Status = req.Status
			writeJSON(w, http.StatusOK, s.apps[i])
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Application not found")
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.wait(r)
	if s.failed(w, r.Method) {
		return
	}
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.apps {
		if s.apps[i].ID == id {
			s.apps = append(s.apps[:i], s.apps[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Application not found")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
