package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// AggregatorConfig configures the health aggregator.
type AggregatorConfig struct {
	// Timeout bounds a whole CheckAll run. Checks observe it at their own
	// boundaries; a check already in progress is never interrupted.
	// Default: 0 (no deadline)
	Timeout time.Duration
}

// Aggregator runs registered checkers one at a time, in registration order,
// and combines their results into a Report.
type Aggregator struct {
	config   AggregatorConfig
	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string // Maintains registration order
}

// NewAggregator creates a new health aggregator.
func NewAggregator(config ...AggregatorConfig) *Aggregator {
	var cfg AggregatorConfig
	if len(config) > 0 {
		cfg = config[0]
		if cfg.Timeout < 0 {
			cfg.Timeout = 0
		}
	}

	return &Aggregator{
		config:   cfg,
		checkers: make(map[string]Checker),
		order:    make([]string, 0),
	}
}

// Register adds a health checker to the aggregator. Registering an existing
// name replaces the checker but keeps its position.
func (a *Aggregator) Register(name string, checker Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.checkers[name]; !exists {
		a.order = append(a.order, name)
	}
	a.checkers[name] = checker
}

// CheckerNames returns the names of all registered checkers in order.
func (a *Aggregator) CheckerNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, len(a.order))
	copy(names, a.order)
	return names
}

// CheckAll runs every registered check sequentially and returns the report.
//
// A check that panics aborts the run: CheckAll returns ErrCheckPanicked and
// no report, so callers never observe a partial result set.
func (a *Aggregator) CheckAll(ctx context.Context) (Report, error) {
	a.mu.RLock()
	names := make([]string, len(a.order))
	copy(names, a.order)
	checkers := make(map[string]Checker, len(a.checkers))
	for name, checker := range a.checkers {
		checkers[name] = checker
	}
	a.mu.RUnlock()

	if len(names) == 0 {
		return Report{}, ErrNoCheckers
	}

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	report := Report{Entries: make([]Entry, 0, len(names))}
	for _, name := range names {
		result, err := a.runCheck(ctx, name, checkers[name])
		if err != nil {
			return Report{}, err
		}
		report.Entries = append(report.Entries, Entry{Name: name, Result: result})
	}

	return report, nil
}

func (a *Aggregator) runCheck(ctx context.Context, name string, checker Checker) (result Result, err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result = Result{}
			err = fmt.Errorf("%w: %s: %v", ErrCheckPanicked, name, r)
		}
	}()

	result = checker.Check(ctx)
	result.Duration = time.Since(start)
	if result.Timestamp.IsZero() {
		result.Timestamp = start
	}
	return result, nil
}
