package health

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

// BenchmarkAggregator_CheckAll measures sequential battery aggregation.
func BenchmarkAggregator_CheckAll(b *testing.B) {
	agg := NewAggregator()
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("check%d", i)
		agg.Register(name, NewCheckerFunc(name, func(ctx context.Context) Result {
			return Healthy("ok")
		}))
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = agg.CheckAll(ctx)
	}
}

// BenchmarkServerChecker_Check measures one probe request round trip.
func BenchmarkServerChecker_Check(b *testing.B) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	checker := NewServerChecker(ServerCheckerConfig{URL: srv.URL})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = checker.Check(ctx)
	}
}

// BenchmarkFilesystemChecker_Check measures the probe file write cycle.
func BenchmarkFilesystemChecker_Check(b *testing.B) {
	root := b.TempDir()
	checker := NewFilesystemChecker(FilesystemCheckerConfig{
		Dirs:    []string{filepath.Join(root, "logs")},
		LogsDir: filepath.Join(root, "logs"),
	})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = checker.Check(ctx)
	}
}

// BenchmarkProcessChecker_Check measures process stats collection.
func BenchmarkProcessChecker_Check(b *testing.B) {
	checker := NewProcessChecker(ProcessCheckerConfig{})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = checker.Check(ctx)
	}
}
