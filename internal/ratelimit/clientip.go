package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP is the rate-limit key of a request: X-Real-IP, else the first X-Forwarded-For hop,
// else the host part of RemoteAddr. Ports are dropped so reconnects share a bucket.
func ClientIP(r *http.Request) string {
	if x := strings.TrimSpace(r.Header.Get("X-Real-IP")); x != "" {
		return x
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
