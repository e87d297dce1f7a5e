package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vntrieu/mafia/internal/auth"
	"github.com/vntrieu/mafia/internal/httpapi/handler"
	"github.com/vntrieu/mafia/internal/ratelimit"
)

// RateLimitMiddleware answers 429 with Retry-After once keyFunc's bucket is empty.
// An empty key is limited under "unknown".
func RateLimitMiddleware(limiter ratelimit.Limiter, keyFunc func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				key = "unknown"
			}
			if ok, retryAfter := limiter.Allow(key); !ok {
				if retryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				}
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitKeyByIP keys by client address; see ratelimit.ClientIP.
func RateLimitKeyByIP(r *http.Request) string {
	return "ip:" + ratelimit.ClientIP(r)
}

// RateLimitKeyByGame limits per game so one busy table cannot starve the others.
func RateLimitKeyByGame(r *http.Request) string {
	return "game:" + chi.URLParam(r, "game_id")
}

// DefaultMaxBodyBytes caps JSON request bodies. Commands and rosters are far smaller.
const DefaultMaxBodyBytes = 64 << 10

// LimitRequestBody rejects bodies over maxBytes: up front with 413 when Content-Length
// says so, otherwise by failing reads past the limit.
func LimitRequestBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	v := r.Header.Get("Authorization")
	if !strings.HasPrefix(v, prefix) {
		return ""
	}
	return strings.TrimSpace(v[len(prefix):])
}

// RequireModerator returns middleware that requires a valid moderator token for the
// {game_id} in the route. If absent, invalid or for another game, responds with 401.
func RequireModerator(tokenSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" || len(tokenSecret) == 0 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			claims, err := auth.VerifyToken(token, tokenSecret)
			if err != nil || claims.GameID != chi.URLParam(r, "game_id") {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), handler.GameIDContextKey, claims.GameID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
