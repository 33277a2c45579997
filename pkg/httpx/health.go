package httpx

import (
	"context"
	"net/http"
	"time"
)

const healthTimeout = 2 * time.Second

// HealthChecker is anything with a Ping: the database, Redis, the event bus
// and the Temporal client all qualify.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthCheck names one probed dependency. A nil Checker is reported as
// "disabled" and does not degrade the service.
type HealthCheck struct {
	Name    string
	Checker HealthChecker
}

type healthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// HealthHandler pings every check and answers 503 when any of them fails.
func HealthHandler(checks ...HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Components: make(map[string]string, len(checks))}
		for _, c := range checks {
			switch {
			case c.Checker == nil:
				resp.Components[c.Name] = "disabled"
			case c.Checker.Ping(ctx) != nil:
				resp.Status = "degraded"
				resp.Components[c.Name] = "unreachable"
			default:
				resp.Components[c.Name] = "ok"
			}
		}

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}
