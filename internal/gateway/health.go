package gateway

import (
	"context"
	"net/http"
	"time"
)

// healthTimeout bounds the storage round trip so the endpoint answers even
// when storage hangs.
const healthTimeout = 3 * time.Second

type databaseHealth struct {
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Database  databaseHealth    `json:"database"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// handleHealth reports component statuses. It answers 503 with a full body
// when any dependency is down; it never hangs or crashes on storage failure.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	checks, healthy := rt.checker.Check(ctx)

	db := databaseHealth{Connected: true}
	if msg, ok := checks["database"]; ok && msg != "OK" {
		db = databaseHealth{Connected: false, Error: msg}
	}

	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, healthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Database:  db,
		Checks:    checks,
	})
}
