package websocket

import (
	"net/http/httptest"
	"testing"
)

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"no list allows all", nil, "http://evil.test", true},
		{"wildcard allows all", []string{"http://a.test", "*"}, "http://evil.test", true},
		{"listed origin", []string{"http://a.test"}, "http://a.test", true},
		{"case and trailing slash", []string{" HTTP://A.test/ "}, "http://a.TEST", true},
		{"unlisted origin", []string{"http://a.test"}, "http://b.test", false},
		{"scheme must match", []string{"https://a.test"}, "http://a.test", false},
		{"no origin header", []string{"http://a.test"}, "", true},
		{"garbage origin", []string{"http://a.test"}, "::::", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/ws/games/g1", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := originChecker(tt.allowed)(r); got != tt.want {
				t.Errorf("originChecker(%v)(%q) = %v, want %v", tt.allowed, tt.origin, got, tt.want)
			}
		})
	}
}

func TestNewClient_ContextCancelledOnClose(t *testing.T) {
	c := newClient(NewHub(nil), nil, "g1", "ip:1.2.3.4")
	if err := c.ctx.Err(); err != nil {
		t.Fatalf("fresh client ctx err = %v", err)
	}
	if cap(c.send) != sendQueueSize {
		t.Errorf("send queue cap = %d, want %d", cap(c.send), sendQueueSize)
	}
	c.cancel()
	if c.ctx.Err() == nil {
		t.Error("ctx not cancelled")
	}
}
