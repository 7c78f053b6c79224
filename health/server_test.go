package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewServerChecker_Defaults(t *testing.T) {
	checker := NewServerChecker(ServerCheckerConfig{URL: "http://localhost:3000/api/health"})

	if checker.config.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", checker.config.Timeout)
	}
	if checker.client.Timeout != 5*time.Second {
		t.Errorf("client.Timeout = %v, want 5s", checker.client.Timeout)
	}
	if checker.Name() != "server" {
		t.Errorf("Name() = %v, want 'server'", checker.Name())
	}
}

func TestServerChecker_StatusCodes(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{http.StatusOK, true},
		{http.StatusNoContent, false},
		{http.StatusMovedPermanently, false},
		{http.StatusNotFound, false},
		{http.StatusInternalServerError, false},
		{http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/health" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				w.WriteHeader(tt.code)
			}))
			defer srv.Close()

			checker := NewServerChecker(ServerCheckerConfig{URL: srv.URL + "/api/health"})
			result := checker.Check(context.Background())

			if result.Passed() != tt.want {
				t.Errorf("Passed() = %v, want %v (%s)", result.Passed(), tt.want, result.Message)
			}
			if !tt.want && !errors.Is(result.Error, ErrUnexpectedStatus) {
				t.Errorf("Error = %v, want ErrUnexpectedStatus", result.Error)
			}
		})
	}
}

func TestServerChecker_RedirectNotFollowedToSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	})
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	result := NewServerChecker(ServerCheckerConfig{URL: srv.URL + "/api/health"}).Check(context.Background())
	if result.Passed() {
		t.Fatalf("302 to a 200 page should fail, got %q", result.Message)
	}
	if !errors.Is(result.Error, ErrUnexpectedStatus) {
		t.Errorf("Error = %v, want ErrUnexpectedStatus", result.Error)
	}
	if !strings.Contains(result.Message, "302") {
		t.Errorf("Message = %q, want it to name 302", result.Message)
	}
}

func TestServerChecker_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	result := NewServerChecker(ServerCheckerConfig{URL: url}).Check(context.Background())
	if result.Passed() {
		t.Fatal("expected failure for closed server")
	}
	if !strings.Contains(result.Message, "unreachable") {
		t.Errorf("Message = %q, want unreachable", result.Message)
	}
}

func TestServerChecker_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	defer close(release)

	checker := NewServerChecker(ServerCheckerConfig{URL: srv.URL, Timeout: 50 * time.Millisecond})

	start := time.Now()
	result := checker.Check(context.Background())
	elapsed := time.Since(start)

	if result.Passed() {
		t.Fatal("expected failure for slow server")
	}
	if !strings.Contains(result.Message, "timed out") {
		t.Errorf("Message = %q, want timed out", result.Message)
	}
	if elapsed > 2*time.Second {
		t.Errorf("Check took %v, timeout not enforced", elapsed)
	}
}

func TestServerChecker_BearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer probe-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	checker := NewServerChecker(ServerCheckerConfig{
		URL:   srv.URL,
		Token: func() (string, error) { return "probe-token", nil },
	})
	if result := checker.Check(context.Background()); !result.Passed() {
		t.Errorf("expected pass with token, got: %s", result.Message)
	}

	failing := NewServerChecker(ServerCheckerConfig{
		URL:   srv.URL,
		Token: func() (string, error) { return "", errors.New("no key") },
	})
	if result := failing.Check(context.Background()); result.Passed() {
		t.Error("expected failure when token signing fails")
	}
}

func TestServerChecker_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewServerChecker(ServerCheckerConfig{URL: "http://127.0.0.1:1"}).Check(ctx)
	if result.Passed() {
		t.Error("expected failure for cancelled context")
	}
}
