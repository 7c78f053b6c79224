package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/jonwraymond/healthprobe/resilience"
)

// DefaultServerTimeout bounds the whole server request.
const DefaultServerTimeout = 5 * time.Second

// ServerCheckerConfig configures the HTTP server checker.
type ServerCheckerConfig struct {
	// URL is the health endpoint, e.g. http://localhost:3000/api/health.
	URL string

	// Timeout bounds connect, request and response.
	// Default: 5 seconds
	Timeout time.Duration

	// Token, when set, returns a bearer token attached to the request.
	Token func() (string, error)

	// Client overrides the HTTP client. Its Timeout is left untouched.
	Client *http.Client
}

// ServerChecker issues one GET against the application's health endpoint
// and passes iff the response status is exactly 200.
type ServerChecker struct {
	config ServerCheckerConfig
	client *http.Client
}

// NewServerChecker creates a new server checker.
func NewServerChecker(config ServerCheckerConfig) *ServerChecker {
	if config.Timeout <= 0 {
		config.Timeout = DefaultServerTimeout
	}

	client := config.Client
	if client == nil {
		client = &http.Client{
			Timeout: config.Timeout,
			// Only the endpoint's own answer counts; a 3xx is a failure.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}

	return &ServerChecker{config: config, client: client}
}

// Name returns the name of this checker.
func (s *ServerChecker) Name() string {
	return "server"
}

// Check performs the request.
func (s *ServerChecker) Check(ctx context.Context) Result {
	if r, done := contextResult(ctx); done {
		return r
	}

	details := map[string]any{
		"url":        s.config.URL,
		"timeout_ms": s.config.Timeout.Milliseconds(),
	}

	err := resilience.ExecuteWithTimeout(ctx, s.config.Timeout, s.get)
	if err != nil {
		return Unhealthy(summarizeServerError(err), err).WithDetails(details)
	}

	details["status_code"] = http.StatusOK
	return Healthy("server responded 200").WithDetails(details)
}

func (s *ServerChecker) get(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.URL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	if s.config.Token != nil {
		token, err := s.config.Token()
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

func summarizeServerError(err error) string {
	if errors.Is(err, resilience.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return "server request timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "server request timed out"
	}
	if errors.Is(err, ErrUnexpectedStatus) {
		return err.Error()
	}
	return fmt.Sprintf("server unreachable: %v", err)
}
