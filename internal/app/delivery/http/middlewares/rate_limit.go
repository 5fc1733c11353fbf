package middlewares

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// CreateRateLimiters returns the per-IP limiter for public routes and a
// stricter one for internal routes, which only schedulers should call.
func (m *Middlewares) CreateRateLimiters() (publicLimiter, internalLimiter func(next http.Handler) http.Handler) {
	window := time.Duration(m.InternalConfig.App.MaxTimeRequestsPerSeconds) * time.Second
	if window <= 0 {
		window = time.Second
	}
	publicLimiter = httprate.LimitByIP(m.InternalConfig.App.MaxRequests, window)
	internalLimiter = httprate.LimitByIP(10, time.Minute)
	return publicLimiter, internalLimiter
}
