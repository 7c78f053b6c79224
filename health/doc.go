// Package health provides the checks run by the container health probe.
//
// A Checker reports one subsystem as a Result whose Status is Healthy,
// Degraded or Unhealthy. Degraded results carry warnings but still pass.
// The Aggregator runs registered checkers one at a time in registration
// order and returns a Report; Report.Passed is the verdict and
// Report.CheckResult flattens it to name -> bool.
//
// # Checks
//
//   - ServerChecker: one bounded GET against the application's health
//     endpoint; passes only on status 200.
//   - StoreChecker: existing data store files must be readable and writable,
//     optionally passing a SQLite quick_check.
//   - WorkspaceChecker: working directories are created when missing and
//     must be readable and writable.
//   - FilesystemChecker: critical directories are created when missing and
//     must be readable; a probe file is written to the logs directory and
//     always removed again.
//   - ProcessChecker: memory and uptime warnings plus a smoke test of basic
//     runtime primitives.
//
// # Basic Usage
//
//	agg := health.NewAggregator()
//	agg.Register("server", health.NewServerChecker(health.ServerCheckerConfig{
//	    URL: "http://localhost:3000/api/health",
//	}))
//	agg.Register("memory", health.NewWorkspaceChecker([]string{".swarm", "data"}))
//
//	report, err := agg.CheckAll(ctx)
//	if err != nil {
//	    // a check panicked; no report is available
//	}
//	fmt.Println(report.Passed(), report.CheckResult())
//
// # HTTP Endpoints
//
// The package also exposes a report over HTTP for sidecar deployments:
//
//	health.RegisterHandlers(mux, runBattery)
package health
