// Package health provides serving state tracking and HTTP health check handlers
// for the demo and preview servers.
package health

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

const (
	stateStarting int32 = iota
	stateServing
	stateDraining
)

// Checker tracks whether a server is accepting traffic.
// It is safe for concurrent use.
type Checker struct {
	state atomic.Int32
	apps  atomic.Int32
}

// NewChecker creates a Checker in the Starting state.
func NewChecker() *Checker {
	return &Checker{}
}

// SetServing transitions to the Serving state.
func (c *Checker) SetServing() {
	c.state.Store(stateServing)
}

// SetDraining transitions to the Draining state.
func (c *Checker) SetDraining() {
	c.state.Store(stateDraining)
}

// SetAppCount records how many apps the server exposes; it is reported in
// readiness responses.
func (c *Checker) SetAppCount(n int) {
	c.apps.Store(int32(n))
}

// IsServing returns true when the state is Serving.
func (c *Checker) IsServing() bool {
	return c.state.Load() == stateServing
}

// State returns the current state as a human-readable string.
func (c *Checker) State() string {
	switch c.state.Load() {
	case stateServing:
		return "serving"
	case stateDraining:
		return "draining"
	default:
		return "starting"
	}
}

type healthResponse struct {
	Status string `json:"status"`
	Apps   int    `json:"apps,omitempty"`
}

// LivenessHandler returns an http.HandlerFunc that always responds 200 OK.
// Use this for /healthz.
func (*Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}

// ReadinessHandler returns an http.HandlerFunc that responds 200 when serving
// and 503 when starting or draining. Use this for /readyz.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := healthResponse{Status: c.State(), Apps: int(c.apps.Load())}
		if c.IsServing() {
			writeJSON(w, http.StatusOK, resp)
			return
		}
		writeJSON(w, http.StatusServiceUnavailable, resp)
	}
}

func writeJSON(w http.ResponseWriter, code int, v healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
