package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/f4lconet/TodoList/internal/service"
)

// FakeServer is an httptest-backed task REST API.
type FakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	tasks    []service.Task
	requests []string
	seq      int

	// ReassignIDs makes POST /tasks assign "srv-N" instead of keeping the client id.
	ReassignIDs bool

	// FailWith, when non-zero, answers every request with this status.
	FailWith int
}

// NewFakeServer starts a server holding the given tasks. It is closed on test cleanup.
func NewFakeServer(t *testing.T, tasks ...service.Task) *FakeServer {
	t.Helper()

	s := &FakeServer{}
	s.tasks = append(s.tasks, tasks...)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks", s.handleList)
	mux.HandleFunc("POST /tasks", s.handleCreate)
	mux.HandleFunc("PATCH /tasks/{id}", s.handlePatch)
	mux.HandleFunc("DELETE /tasks/{id}", s.handleDelete)

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		fail := s.FailWith
		s.mu.Unlock()

		if fail != 0 {
			writeError(w, fail, http.StatusText(fail))
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// Requests returns "METHOD /path" for every request received.
func (s *FakeServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Tasks returns a copy of the stored tasks.
func (s *FakeServer) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]service.Task(nil), s.tasks...)
}

func (s *FakeServer) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]service.Task{}, s.tasks...)
	writeJSON(w, http.StatusOK, out)
}

func (s *FakeServer) handleCreate(w http.ResponseWriter, r *http.Request) {
	var t service.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReassignIDs || t.ID == "" {
		s.seq++
		t.ID = fmt.Sprintf("srv-%d", s.seq)
	}
	if t.Status == "" {
		t.Status = service.StatusCurrent
	}
	s.tasks = append(s.tasks, t)
	writeJSON(w, http.StatusCreated, t)
}

func (s *FakeServer) handlePatch(w http.ResponseWriter, r *http.Request) {
	var p service.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if p.Status != nil && !p.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	id := r.PathValue("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks[i] = p.Apply(t)
			writeJSON(w, http.StatusOK, s.tasks[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "task not found")
}

func (s *FakeServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{})
			return
		}
	}
	writeError(w, http.StatusNotFound, "task not found")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
