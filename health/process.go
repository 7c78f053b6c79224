package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/prometheus/procfs"
)

// Process check defaults.
const (
	DefaultMemoryWarnBytes = 1024 * 1024 * 1024
	DefaultMinUptime       = 10 * time.Second
)

// processStart approximates the start of this process when /proc is unavailable.
var processStart = time.Now()

// ProcessStats is a snapshot of a process's resource usage.
type ProcessStats struct {
	RSSBytes uint64
	Uptime   time.Duration
	Source   string
}

// Primitive is a basic runtime operation that must keep working in a
// healthy process.
type Primitive struct {
	Name string
	Run  func() error
}

// DefaultPrimitives allocates a buffer, serializes a value and reads the clock.
func DefaultPrimitives() []Primitive {
	return []Primitive{
		{Name: "alloc", Run: func() error {
			buf := make([]byte, 1024)
			if len(buf) != 1024 {
				return errors.New("short allocation")
			}
			return nil
		}},
		{Name: "serialize", Run: func() error {
			_, err := json.Marshal(map[string]bool{"test": true})
			return err
		}},
		{Name: "clock", Run: func() error {
			if time.Now().IsZero() {
				return errors.New("clock returned zero time")
			}
			return nil
		}},
	}
}

// ProcessCheckerConfig configures the process checker.
type ProcessCheckerConfig struct {
	// PID selects the process to inspect. Zero inspects the current process.
	PID int

	// MemoryWarnBytes is the resident memory above which a warning is raised.
	// Default: 1 GiB
	MemoryWarnBytes uint64

	// MinUptime is the uptime below which a warning is raised.
	// Default: 10 seconds
	MinUptime time.Duration

	// Stats overrides how process stats are read.
	Stats func(pid int) (ProcessStats, error)

	// Primitives overrides the runtime primitives exercised by the check.
	Primitives []Primitive
}

// ProcessChecker reports memory and uptime warnings and verifies that basic
// runtime primitives still work. Warnings never fail the check.
type ProcessChecker struct {
	config ProcessCheckerConfig
}

// NewProcessChecker creates a new process checker.
func NewProcessChecker(config ProcessCheckerConfig) *ProcessChecker {
	if config.MemoryWarnBytes == 0 {
		config.MemoryWarnBytes = DefaultMemoryWarnBytes
	}
	if config.MinUptime <= 0 {
		config.MinUptime = DefaultMinUptime
	}
	if config.Stats == nil {
		config.Stats = ReadProcessStats
	}
	if config.Primitives == nil {
		config.Primitives = DefaultPrimitives()
	}
	return &ProcessChecker{config: config}
}

// Name returns the name of this checker.
func (p *ProcessChecker) Name() string {
	return "processes"
}

// Check performs the process check.
func (p *ProcessChecker) Check(ctx context.Context) Result {
	if r, done := contextResult(ctx); done {
		return r
	}

	stats, err := p.config.Stats(p.config.PID)
	if err != nil {
		return Unhealthy("process stats unavailable", err)
	}

	rssMB := float64(stats.RSSBytes) / (1024 * 1024)
	details := map[string]any{
		"pid":        p.config.PID,
		"rss_bytes":  stats.RSSBytes,
		"rss_mb":     rssMB,
		"uptime_s":   stats.Uptime.Seconds(),
		"source":     stats.Source,
		"goroutines": runtime.NumGoroutine(),
	}

	var warnings []string
	if stats.RSSBytes > p.config.MemoryWarnBytes {
		warnings = append(warnings, fmt.Sprintf("High memory usage: %.2f MB", rssMB))
	}
	if stats.Uptime < p.config.MinUptime {
		warnings = append(warnings, fmt.Sprintf("Recent startup: %.2fs uptime", stats.Uptime.Seconds()))
	}

	for _, prim := range p.config.Primitives {
		if err := runPrimitive(prim); err != nil {
			return Unhealthy(fmt.Sprintf("runtime primitive %s failed", prim.Name), err).WithDetails(details)
		}
	}

	if len(warnings) > 0 {
		return Degraded("process running with warnings", warnings...).WithDetails(details)
	}
	return Healthy(fmt.Sprintf("process healthy: %.1f MB resident", rssMB)).WithDetails(details)
}

func runPrimitive(prim Primitive) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", prim.Name, r)
		}
	}()
	return prim.Run()
}

// ReadProcessStats reads resident memory and uptime for pid from /proc.
// For the current process (pid 0) it falls back to runtime statistics when
// /proc cannot be read.
func ReadProcessStats(pid int) (ProcessStats, error) {
	stats, err := readProcfsStats(pid)
	if err == nil {
		return stats, nil
	}
	if pid != 0 {
		return ProcessStats{}, fmt.Errorf("read /proc/%d: %w", pid, err)
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return ProcessStats{
		RSSBytes: mem.Sys,
		Uptime:   time.Since(processStart),
		Source:   "runtime",
	}, nil
}

func readProcfsStats(pid int) (ProcessStats, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return ProcessStats{}, err
	}

	var proc procfs.Proc
	if pid == 0 {
		proc, err = fs.Self()
	} else {
		proc, err = fs.Proc(pid)
	}
	if err != nil {
		return ProcessStats{}, err
	}

	stat, err := proc.Stat()
	if err != nil {
		return ProcessStats{}, err
	}

	started, err := stat.StartTime()
	if err != nil {
		return ProcessStats{}, err
	}
	uptime := time.Since(time.Unix(0, int64(started*float64(time.Second))))
	if uptime < 0 {
		uptime = 0
	}

	return ProcessStats{
		RSSBytes: uint64(stat.ResidentMemory()),
		Uptime:   uptime,
		Source:   "procfs",
	}, nil
}
