package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
)

// Upstream is an httptest server standing in for the upstream dependency.
// It answers every request with the configured status and body and keeps
// the headers of the requests it received.
type Upstream struct {
	*httptest.Server

	status int
	body   string

	mu      sync.Mutex
	headers []http.Header
}

// NewUpstream starts an upstream answering status with body
func NewUpstream(status int, body string) *Upstream {
	u := &Upstream{status: status, body: body}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	return u
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.headers = append(u.headers, r.Header.Clone())
	u.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(u.status)
	_, _ = w.Write([]byte(u.body))
}

// Requests returns the headers of every request received so far
func (u *Upstream) Requests() []http.Header {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]http.Header(nil), u.headers...)
}
