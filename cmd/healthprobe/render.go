package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/healthprobe/health"
	"github.com/jonwraymond/healthprobe/probe"
	"github.com/jonwraymond/healthprobe/resilience"
)

// outcomeDocument is the json/yaml form of a probe run.
type outcomeDocument struct {
	RunID                 string `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Attempt               int    `json:"attempt,omitempty" yaml:"attempt,omitempty"`
	health.HealthResponse `yaml:",inline"`
}

type renderer struct {
	format string
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

func newRenderer(cmd *cobra.Command, format string) *renderer {
	return &renderer{
		format: format,
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
		now:    time.Now,
	}
}

// progress is where retry announcements go. Structured formats keep them
// off stdout.
func (r *renderer) progress() io.Writer {
	if r.format == "text" {
		return r.stdout
	}
	return r.stderr
}

// outcome writes the result of a run and returns errReported unless the
// verdict passed.
func (r *renderer) outcome(out probe.Outcome, err error) error {
	if r.format != "text" {
		return r.document(out, err)
	}

	switch {
	case errors.Is(err, resilience.ErrMaxRetriesExceeded):
		fmt.Fprintln(r.stderr, "Max retries exceeded")
		return errReported
	case err != nil:
		fmt.Fprintf(r.stderr, "Health check error: %v\n", err)
		return errReported
	}

	for _, w := range out.Report.Warnings() {
		fmt.Fprintf(r.stderr, "Warning: %s\n", w)
	}

	if out.Report.Passed() {
		fmt.Fprintln(r.stdout, "All health checks passed")
		return nil
	}

	if isTerminal(r.stdout) {
		fmt.Fprintln(r.stdout, "Health check failed:")
		fmt.Fprintln(r.stdout, failureTable(out.Report))
	} else {
		fmt.Fprintf(r.stdout, "Health check failed: %s\n", resultLine(out.Report))
	}
	return errReported
}

func (r *renderer) document(out probe.Outcome, err error) error {
	doc := outcomeDocument{RunID: out.RunID, Attempt: out.Attempt}
	if err != nil {
		doc.HealthResponse = health.HealthResponse{
			Status:    health.StatusUnhealthy.String(),
			Timestamp: r.now().UTC().Format(time.RFC3339),
			Error:     err.Error(),
		}
	} else {
		doc.HealthResponse = health.NewHealthResponse(out.Report, r.now())
	}

	var writeErr error
	switch r.format {
	case "yaml":
		enc := yaml.NewEncoder(r.stdout)
		enc.SetIndent(2)
		writeErr = enc.Encode(doc)
		if closeErr := enc.Close(); writeErr == nil {
			writeErr = closeErr
		}
	default:
		enc := json.NewEncoder(r.stdout)
		enc.SetIndent("", "  ")
		writeErr = enc.Encode(doc)
	}
	if writeErr != nil {
		return fmt.Errorf("write %s output: %w", r.format, writeErr)
	}

	if !doc.Passed {
		return errReported
	}
	return nil
}

// resultLine renders the check map in battery order, e.g.
// "server=false database=true ...".
func resultLine(report health.Report) string {
	results := report.CheckResult()
	parts := make([]string, 0, len(results))
	for _, name := range report.Names() {
		parts = append(parts, fmt.Sprintf("%s=%t", name, results[name]))
	}
	return strings.Join(parts, " ")
}

func failureTable(report health.Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Check", "Passed", "Status", "Message"})
	for _, e := range report.Entries {
		tw.AppendRow(table.Row{e.Name, e.Result.Passed(), e.Result.Status.String(), e.Result.Message})
	}
	return tw.Render()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
