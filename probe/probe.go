package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/healthprobe/auth"
	"github.com/jonwraymond/healthprobe/config"
	"github.com/jonwraymond/healthprobe/health"
	"github.com/jonwraymond/healthprobe/observe"
	"github.com/jonwraymond/healthprobe/resilience"
)

// Check names, in execution order.
const (
	CheckServer     = "server"
	CheckDatabase   = "database"
	CheckMemory     = "memory"
	CheckFilesystem = "filesystem"
	CheckProcesses  = "processes"
)

// CheckNames returns the battery's check names in execution order.
func CheckNames() []string {
	return []string{CheckServer, CheckDatabase, CheckMemory, CheckFilesystem, CheckProcesses}
}

// Outcome is the result of one battery run.
type Outcome struct {
	RunID   string
	Attempt int
	Started time.Time
	Report  health.Report
}

// Option configures a Probe.
type Option func(*Probe)

// WithMiddleware sets the observability middleware wrapped around each check.
// Default: observe.NopMiddleware()
func WithMiddleware(m *observe.Middleware) Option {
	return func(p *Probe) {
		if m != nil {
			p.middleware = m
		}
	}
}

// WithProgress sets where retry progress lines are written.
// Default: io.Discard
func WithProgress(w io.Writer) Option {
	return func(p *Probe) {
		if w != nil {
			p.progress = w
		}
	}
}

// WithRunTimeout bounds a whole battery run. Checks that start after the
// deadline report unhealthy; a check already running is not interrupted.
// Default: 0 (no deadline)
func WithRunTimeout(d time.Duration) Option {
	return func(p *Probe) {
		p.runTimeout = d
	}
}

// WithChecker replaces the checker registered under name. The battery order
// is unchanged; New rejects a name outside CheckNames with ErrUnknownCheck.
func WithChecker(name string, c health.Checker) Option {
	return func(p *Probe) {
		p.replacements = append(p.replacements, namedChecker{name: name, checker: c})
	}
}

type namedChecker struct {
	name    string
	checker health.Checker
}

// Probe owns one configured battery.
type Probe struct {
	cfg          *config.Config
	agg          *health.Aggregator
	middleware   *observe.Middleware
	progress     io.Writer
	replacements []namedChecker
	runTimeout   time.Duration
	newID        func() string
	now          func() time.Time
}

// New builds the battery described by cfg.
func New(cfg *config.Config, opts ...Option) (*Probe, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	p := &Probe{
		cfg:        cfg,
		middleware: observe.NopMiddleware(),
		progress:   io.Discard,
		newID:      uuid.NewString,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.agg = health.NewAggregator(health.AggregatorConfig{Timeout: p.runTimeout})

	server, err := newServerChecker(cfg)
	if err != nil {
		return nil, err
	}

	checkers := []namedChecker{
		{CheckServer, server},
		{CheckDatabase, health.NewStoreChecker(health.StoreCheckerConfig{
			Paths:           cfg.Store.Paths,
			VerifyIntegrity: cfg.Store.VerifyIntegrity,
		})},
		{CheckMemory, health.NewWorkspaceChecker(cfg.Workspace.Dirs)},
		{CheckFilesystem, health.NewFilesystemChecker(health.FilesystemCheckerConfig{
			Dirs:        cfg.Filesystem.Dirs,
			LogsDir:     cfg.Filesystem.LogsDir,
			ProbeFile:   cfg.Filesystem.ProbeFile,
			LockTimeout: cfg.LockTimeout(),
		})},
		{CheckProcesses, health.NewProcessChecker(health.ProcessCheckerConfig{
			PID:             cfg.Process.PID,
			MemoryWarnBytes: cfg.MemoryWarnBytes(),
			MinUptime:       cfg.MinUptime(),
		})},
	}
	for _, r := range p.replacements {
		if !slices.Contains(CheckNames(), r.name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCheck, r.name)
		}
	}
	checkers = append(checkers, p.replacements...)

	for _, c := range checkers {
		p.agg.Register(c.name, p.observed(c.name, c.checker))
	}
	return p, nil
}

func newServerChecker(cfg *config.Config) (*health.ServerChecker, error) {
	sc := health.ServerCheckerConfig{
		URL:     cfg.ServerURL(),
		Timeout: cfg.ServerTimeout(),
	}
	if cfg.Server.TokenSecret != "" {
		signer, err := auth.NewTokenSigner(auth.SignerConfig{
			Secret:   []byte(cfg.Server.TokenSecret),
			Audience: cfg.Server.TokenAudience,
		})
		if err != nil {
			return nil, fmt.Errorf("server token: %w", err)
		}
		sc.Token = signer.Token
	}
	return health.NewServerChecker(sc), nil
}

// Checks returns the registered check names in execution order.
func (p *Probe) Checks() []string {
	return p.agg.CheckerNames()
}

// Run executes the battery once.
func (p *Probe) Run(ctx context.Context) (Outcome, error) {
	return p.run(ctx, p.newID(), 1)
}

// RunWithRetry executes the battery until it passes or the configured
// attempts are spent, waiting retry.delay_seconds between attempts.
//
// A run that errors is always retried. A failing verdict is retried only
// when retry.on_unhealthy is set; otherwise it is returned with a nil error.
// Exhaustion returns resilience.ErrMaxRetriesExceeded together with the last
// outcome.
func (p *Probe) RunWithRetry(ctx context.Context) (Outcome, error) {
	runID := p.newID()
	attempt := 0
	var last Outcome

	retry := resilience.NewRetry(resilience.RetryConfig{
		MaxAttempts: p.cfg.Retry.MaxAttempts,
		Delay:       p.cfg.RetryDelay(),
		RetryIf:     p.shouldRetry,
		OnRetry:     p.announceRetry,
	})

	err := retry.Execute(ctx, func(ctx context.Context) error {
		attempt++
		out, err := p.run(ctx, runID, attempt)
		last = out
		if err != nil {
			return err
		}
		if !out.Report.Passed() {
			return ErrUnhealthy
		}
		return nil
	})

	if errors.Is(err, ErrUnhealthy) && !errors.Is(err, resilience.ErrMaxRetriesExceeded) {
		return last, nil
	}
	return last, err
}

func (p *Probe) shouldRetry(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, ErrUnhealthy):
		return p.cfg.Retry.OnUnhealthy
	default:
		return true
	}
}

func (p *Probe) announceRetry(a resilience.Attempt) {
	if !errors.Is(a.Err, ErrUnhealthy) {
		fmt.Fprintf(p.progress, "Health check error: %v\n", a.Err)
	}
	fmt.Fprintf(p.progress, "Health check failed, retrying in %s... (%d attempts remaining)\n", a.Delay, a.Remaining)
}

func (p *Probe) run(ctx context.Context, runID string, attempt int) (Outcome, error) {
	out := Outcome{RunID: runID, Attempt: attempt, Started: p.now()}

	ctx = withAttempt(health.WithRunID(ctx, runID), attempt)
	report, err := p.agg.CheckAll(ctx)
	if err != nil {
		return out, err
	}
	// Checks degrade a cancelled context into unhealthy results; surface it
	// as an error so the run is reported as interrupted rather than failed.
	if err := ctx.Err(); err != nil {
		return out, fmt.Errorf("probe interrupted: %w", err)
	}
	out.Report = report
	return out, nil
}

// observed wraps a checker with the probe's middleware.
func (p *Probe) observed(name string, c health.Checker) health.Checker {
	wrapped := p.middleware.Wrap(func(ctx context.Context, _ observe.CheckMeta) health.Result {
		return c.Check(ctx)
	})
	return health.NewCheckerFunc(name, func(ctx context.Context) health.Result {
		return wrapped(ctx, observe.CheckMeta{
			Name:    name,
			RunID:   health.RunIDFromContext(ctx),
			Attempt: attemptFromContext(ctx),
		})
	})
}
