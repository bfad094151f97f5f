//go:build e2e && unix

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// backend is an in-memory repository server for driving the binary
type backend struct {
	mu        sync.Mutex
	repos     []string
	active    map[string]bool
	requests  []string
	failRepos bool
}

func startBackend(t *testing.T, repos []string, active ...string) (*backend, string) {
	t.Helper()
	b := &backend{repos: repos, active: map[string]bool{}}
	for _, n := range active {
		b.active[n] = true
	}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return b, srv.URL
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	req := r.URL.Path[1:]
	if r.URL.RawQuery != "" {
		req += "?" + r.URL.RawQuery
	}
	b.requests = append(b.requests, req)

	switch r.URL.Path {
	case "/repos":
		if b.failRepos {
			http.Error(w, "storage offline", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(b.repos)
	case "/active":
		out := []string{}
		for _, n := range b.repos {
			if b.active[n] {
				out = append(out, n)
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	case "/activate", "/deactivate":
		b.active[r.URL.Query().Get("name")] = r.URL.Path == "/activate"
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

// Requests returns every request path and query seen so far
func (b *backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

// IsActive reports the backend's view of name
func (b *backend) IsActive(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active[name]
}
