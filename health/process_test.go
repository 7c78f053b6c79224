package health

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedStats(rss uint64, uptime time.Duration) func(int) (ProcessStats, error) {
	return func(int) (ProcessStats, error) {
		return ProcessStats{RSSBytes: rss, Uptime: uptime, Source: "test"}, nil
	}
}

func TestNewProcessChecker_Defaults(t *testing.T) {
	checker := NewProcessChecker(ProcessCheckerConfig{})

	if checker.config.MemoryWarnBytes != 1024*1024*1024 {
		t.Errorf("MemoryWarnBytes = %d, want 1 GiB", checker.config.MemoryWarnBytes)
	}
	if checker.config.MinUptime != 10*time.Second {
		t.Errorf("MinUptime = %v, want 10s", checker.config.MinUptime)
	}
	if len(checker.config.Primitives) != 3 {
		t.Errorf("Primitives = %d, want 3", len(checker.config.Primitives))
	}
	if checker.Name() != "processes" {
		t.Errorf("Name() = %v, want 'processes'", checker.Name())
	}
}

func TestProcessChecker_RealProcessPasses(t *testing.T) {
	result := NewProcessChecker(ProcessCheckerConfig{}).Check(context.Background())

	if !result.Passed() {
		t.Fatalf("expected pass under normal conditions, got: %s (%v)", result.Message, result.Error)
	}
	for _, key := range []string{"rss_bytes", "uptime_s", "source"} {
		if _, ok := result.Details[key]; !ok {
			t.Errorf("Details missing key: %s", key)
		}
	}
}

func TestProcessChecker_Warnings(t *testing.T) {
	tests := []struct {
		name     string
		rss      uint64
		uptime   time.Duration
		warnings []string
	}{
		{"quiet", 10 << 20, time.Hour, nil},
		{"high memory", 2048 << 20, time.Hour, []string{"High memory usage: 2048.00 MB"}},
		{"recent startup", 10 << 20, 2500 * time.Millisecond, []string{"Recent startup: 2.50s uptime"}},
		{"both", 1025 << 20, time.Second, []string{"High memory usage: 1025.00 MB", "Recent startup: 1.00s uptime"}},
		{"exactly at threshold", 1024 << 20, 10 * time.Second, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewProcessChecker(ProcessCheckerConfig{Stats: fixedStats(tt.rss, tt.uptime)})
			result := checker.Check(context.Background())

			if !result.Passed() {
				t.Fatalf("warnings must not fail the check: %s", result.Message)
			}
			if len(result.Warnings) != len(tt.warnings) {
				t.Fatalf("Warnings = %v, want %v", result.Warnings, tt.warnings)
			}
			for i := range tt.warnings {
				if result.Warnings[i] != tt.warnings[i] {
					t.Errorf("Warnings[%d] = %q, want %q", i, result.Warnings[i], tt.warnings[i])
				}
			}
			wantStatus := StatusHealthy
			if len(tt.warnings) > 0 {
				wantStatus = StatusDegraded
			}
			if result.Status != wantStatus {
				t.Errorf("Status = %v, want %v", result.Status, wantStatus)
			}
		})
	}
}

func TestProcessChecker_PrimitiveFailure(t *testing.T) {
	tests := []struct {
		name string
		prim Primitive
	}{
		{"error", Primitive{Name: "serialize", Run: func() error { return errors.New("encoder broken") }}},
		{"panic", Primitive{Name: "alloc", Run: func() error { panic("out of memory") }}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewProcessChecker(ProcessCheckerConfig{
				Stats:      fixedStats(1<<20, time.Hour),
				Primitives: append(DefaultPrimitives(), tt.prim),
			})

			result := checker.Check(context.Background())
			if result.Passed() {
				t.Fatal("expected failure when a primitive fails")
			}
			if !strings.Contains(result.Message, tt.prim.Name) {
				t.Errorf("Message = %q, want primitive name", result.Message)
			}
		})
	}
}

func TestProcessChecker_StatsUnavailable(t *testing.T) {
	checker := NewProcessChecker(ProcessCheckerConfig{
		Stats: func(int) (ProcessStats, error) { return ProcessStats{}, errors.New("no /proc") },
	})

	if result := checker.Check(context.Background()); result.Passed() {
		t.Error("expected failure when stats cannot be read")
	}
}

func TestReadProcessStats_Self(t *testing.T) {
	stats, err := ReadProcessStats(0)
	if err != nil {
		t.Fatalf("ReadProcessStats(0) error = %v", err)
	}
	if stats.RSSBytes == 0 {
		t.Error("RSSBytes should be positive")
	}
	if stats.Uptime < 0 {
		t.Errorf("Uptime = %v, want >= 0", stats.Uptime)
	}
}

func TestReadProcessStats_MissingPID(t *testing.T) {
	if _, err := ReadProcessStats(1 << 30); err == nil {
		t.Error("expected error for nonexistent pid")
	}
}

func TestDefaultPrimitives(t *testing.T) {
	for _, prim := range DefaultPrimitives() {
		if err := prim.Run(); err != nil {
			t.Errorf("primitive %s failed: %v", prim.Name, err)
		}
	}
}
