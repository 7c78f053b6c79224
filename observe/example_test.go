package observe_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonwraymond/healthprobe/health"
	"github.com/jonwraymond/healthprobe/observe"
)

func ExampleNewObserver() {
	ctx := context.Background()

	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: "healthprobe",
		Version:     "1.0.0",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     observe.LoggingConfig{Enabled: true, Level: "warn"},
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer func() { _ = obs.Shutdown(ctx) }()

	fmt.Println("Observer ready")
	// Output:
	// Observer ready
}

func ExampleConfig_Validate() {
	cfg := observe.Config{
		ServiceName: "healthprobe",
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "statsd"},
	}

	err := cfg.Validate()
	fmt.Println(errors.Is(err, observe.ErrInvalidMetricsExporter))
	// Output:
	// true
}

func ExampleCheckMeta_SpanName() {
	fmt.Println(observe.CheckMeta{Name: "filesystem"}.SpanName())
	// Output:
	// probe.check.filesystem
}

func ExampleMiddleware_Wrap() {
	ctx := context.Background()

	var logs bytes.Buffer
	obs, _ := observe.NewObserver(ctx, observe.Config{
		ServiceName: "healthprobe",
		Logging:     observe.LoggingConfig{Enabled: true, Level: "warn", Output: &logs},
	})
	defer func() { _ = obs.Shutdown(ctx) }()

	mw, _ := observe.MiddlewareFromObserver(obs)

	check := mw.Wrap(func(ctx context.Context, meta observe.CheckMeta) health.Result {
		return health.Unhealthy("server unreachable", errors.New("connection refused"))
	})

	result := check(ctx, observe.CheckMeta{Name: "server", Attempt: 1})

	fmt.Println("passed:", result.Passed())
	fmt.Println("logged:", strings.Contains(logs.String(), `"msg":"check failed"`))
	// Output:
	// passed: false
	// logged: true
}

func ExampleParseLogLevel() {
	for _, s := range []string{"debug", "info", "warn", "error", "unknown"} {
		fmt.Printf("%s -> %s\n", s, observe.ParseLogLevel(s))
	}
	// Output:
	// debug -> debug
	// info -> info
	// warn -> warn
	// error -> error
	// unknown -> warn
}
