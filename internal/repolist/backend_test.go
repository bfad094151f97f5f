package repolist

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"repotoggle/internal/api"
	"repotoggle/internal/logging"
)

// fakeBackend serves the four repository endpoints from memory and records
// every toggle request it receives.
type fakeBackend struct {
	mu      sync.Mutex
	repos   []string
	active  map[string]bool
	toggles []string // "activate?name=x"

	status int           // non-zero makes toggles fail with this status
	gate   chan struct{} // when set, toggles wait for it
	seen   chan string   // when set, receives each toggle as it arrives
}

func newFakeBackend(repos, active []string) *fakeBackend {
	fb := &fakeBackend{repos: repos, active: map[string]bool{}}
	for _, n := range active {
		fb.active[n] = true
	}
	return fb
}

func (fb *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/repos":
		fb.mu.Lock()
		_ = json.NewEncoder(w).Encode(fb.repos)
		fb.mu.Unlock()
	case "/active":
		fb.mu.Lock()
		out := []string{}
		for _, n := range fb.repos {
			if fb.active[n] {
				out = append(out, n)
			}
		}
		fb.mu.Unlock()
		_ = json.NewEncoder(w).Encode(out)
	case "/activate", "/deactivate":
		action := r.URL.Path[1:]
		name := r.URL.Query().Get("name")
		fb.mu.Lock()
		fb.toggles = append(fb.toggles, action+"?name="+name)
		gate, seen, status := fb.gate, fb.seen, fb.status
		fb.mu.Unlock()
		if seen != nil {
			seen <- action + "?name=" + name
		}
		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			http.Error(w, "backend unavailable", status)
			return
		}
		fb.mu.Lock()
		fb.active[name] = action == "activate"
		fb.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func (fb *fakeBackend) Toggles() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.toggles...)
}

func startBackend(t *testing.T, fb *fakeBackend, opts ...api.Option) *api.Client {
	t.Helper()
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)
	c, err := api.New(srv.URL, append([]api.Option{api.WithLogger(logging.Nop())}, opts...)...)
	require.NoError(t, err)
	return c
}
