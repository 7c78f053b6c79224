// Command healthprobe checks the health of an application container.
//
// Run without a subcommand it executes the battery once and exits 0 when
// every check passes and 1 otherwise, which is what Docker HEALTHCHECK
// expects. --retry re-runs the battery after failures. The serve subcommand
// exposes the same battery over HTTP for sidecar deployments.
package main
