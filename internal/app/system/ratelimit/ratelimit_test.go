package ratelimit_test

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/compass/internal/app/system/ratelimit"
)

func TestLimiter_AllowWithinWindow(t *testing.T) {
	l := ratelimit.New(3, time.Minute)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("a") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("a") {
		t.Error("fourth request should be blocked")
	}
	if !l.Allow("b") {
		t.Error("other keys have their own window")
	}
	if got := l.Remaining("a"); got != 0 {
		t.Errorf("Remaining(a): got %d, want 0", got)
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := ratelimit.New(1, 20*time.Millisecond)
	defer l.Stop()

	if !l.Allow("k") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("k") {
		t.Fatal("second request should be blocked")
	}
	time.Sleep(40 * time.Millisecond)
	if !l.Allow("k") {
		t.Error("request after the window should be allowed")
	}
}

func TestLimiter_ZeroLimitDisables(t *testing.T) {
	l := ratelimit.New(0, time.Minute)
	defer l.Stop()
	for i := 0; i < 100; i++ {
		if !l.Allow("k") {
			t.Fatal("zero limit should never block")
		}
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := ratelimit.New(1, time.Minute)
	defer l.Stop()
	l.Allow("k")
	l.Reset("k")
	if got := l.Remaining("k"); got != 1 {
		t.Errorf("Remaining after Reset: got %d, want 1", got)
	}
	l.Stop()
	l.Stop()
}

func TestClientIP(t *testing.T) {
	if err := ratelimit.SetTrustedProxies([]string{"10.0.0.0/8", "192.0.2.7"}); err != nil {
		t.Fatalf("SetTrustedProxies failed: %v", err)
	}
	defer func() { _ = ratelimit.SetTrustedProxies(nil) }()

	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{"remote addr with port", "10.0.0.1:5555", "", "", "10.0.0.1"},
		{"remote addr without port", "10.0.0.1", "", "", "10.0.0.1"},
		{"forwarded chain through proxies", "10.0.0.1:1", "203.0.113.9, 10.0.0.2", "", "203.0.113.9"},
		{"spoofed leftmost hop ignored", "10.0.0.1:1", "1.2.3.4, 203.0.113.9", "", "203.0.113.9"},
		{"single trusted proxy address", "192.0.2.7:80", "203.0.113.9", "", "203.0.113.9"},
		{"real ip from proxy", "10.0.0.1:1", "", " 198.51.100.4 ", "198.51.100.4"},
		{"forwarded wins over real ip", "10.0.0.1:1", "203.0.113.9", "198.51.100.4", "203.0.113.9"},
		{"garbage header falls back to peer", "10.0.0.1:1", "not-an-ip", "", "10.0.0.1"},
		{"untrusted peer headers ignored", "198.51.100.20:1", "203.0.113.9", "203.0.113.10", "198.51.100.20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ratelimit.ClientIP(r); got != tt.want {
				t.Errorf("ClientIP: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientIP_NoTrustedProxies(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "198.51.100.20:4000"
	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	r.Header.Set("X-Real-IP", "203.0.113.10")

	if got := ratelimit.ClientIP(r); got != "198.51.100.20" {
		t.Errorf("ClientIP: got %q, want peer address", got)
	}
}

func TestRotatingForwardedForCannotEscapeLimit(t *testing.T) {
	l := ratelimit.New(2, time.Minute)
	defer l.Stop()

	allowed := 0
	for i := 0; i < 5; i++ {
		r := httptest.NewRequest("POST", "/api/chat", nil)
		r.RemoteAddr = "198.51.100.20:4000"
		r.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		if l.Allow(ratelimit.ClientIP(r)) {
			allowed++
		}
	}
	if allowed != 2 {
		t.Errorf("allowed: got %d, want 2", allowed)
	}
}

func TestParseProxies(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    int
		wantErr bool
	}{
		{"empty", nil, 0, false},
		{"cidr and ip", []string{"10.0.0.0/8", " 192.0.2.7 ", ""}, 2, false},
		{"ipv6", []string{"::1", "fd00::/8"}, 2, false},
		{"bad ip", []string{"10.0.0"}, 0, true},
		{"bad cidr", []string{"10.0.0.0/99"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ratelimit.ParseProxies(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err: got %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("len: got %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestLoginLimiter_PerEmail(t *testing.T) {
	ll := ratelimit.NewLoginLimiter()
	defer ll.Stop()

	for i := 0; i < 5; i++ {
		r := httptest.NewRequest("POST", "/admin/login", nil)
		r.RemoteAddr = "192.0.2.1:1"
		if ok, _ := ll.Check(r, "Admin@Example.com"); !ok {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	r := httptest.NewRequest("POST", "/admin/login", nil)
	r.RemoteAddr = "192.0.2.2:1"
	ok, reason := ll.Check(r, "admin@example.com ")
	if ok {
		t.Fatal("sixth attempt for the same email should be blocked")
	}
	if reason == "" {
		t.Error("blocked attempt should carry a reason")
	}

	ll.ResetEmail("ADMIN@example.com")
	if ok, _ := ll.Check(r, "admin@example.com"); !ok {
		t.Error("attempt after ResetEmail should be allowed")
	}
}
