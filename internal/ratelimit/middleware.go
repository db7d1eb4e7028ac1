package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// KeyFunc derives the rate limit key from a request.
type KeyFunc func(r *http.Request) string

// Options configure the rate limit middleware.
type Options struct {
	Store               *Store
	Stats               StatsStore
	KeyFn               KeyFunc
	TrustXForwardedFor  bool
	RejectStatus        int
	RetryAfter          time.Duration
	AddRateLimitHeaders bool
	// OnReject is called for every rejected request.
	OnReject func(r *http.Request)
}

// DefaultKeyFunc keys on the original client IP.
func DefaultKeyFunc(trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if trustXFF {
			// first IP in X-Forwarded-For is the original client
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				parts := strings.Split(xff, ",")
				if ip := strings.TrimSpace(parts[0]); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

// Middleware rejects requests whose key exceeds its token bucket.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.RetryAfter == 0 {
		opts.RetryAfter = 1 * time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.TrustXForwardedFor)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)
			allowed := opts.Store.Get(key).Allow()

			if opts.Stats != nil {
				_ = opts.Stats.Record(r.Context(), StatsEvent{
					Key:     key,
					Allowed: allowed,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      time.Now(),
				})
			}

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-RPS", fmt.Sprintf("%g", opts.Store.RPS()))
				w.Header().Set("X-RateLimit-Burst", fmt.Sprintf("%d", opts.Store.Burst()))
			}

			if !allowed {
				if opts.OnReject != nil {
					opts.OnReject(r)
				}
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(opts.RetryAfter.Seconds())))
				http.Error(w, "rate limit exceeded", opts.RejectStatus)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
