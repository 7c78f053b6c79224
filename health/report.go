package health

// Entry is one named result inside a Report.
type Entry struct {
	Name   string
	Result Result
}

// Report is the ordered outcome of one aggregator run.
type Report struct {
	Entries []Entry
}

// Passed is the verdict: true iff every entry passed.
// An empty report passes.
func (r Report) Passed() bool {
	for _, e := range r.Entries {
		if !e.Result.Passed() {
			return false
		}
	}
	return true
}

// Status computes the overall status.
// Returns Unhealthy if any check is unhealthy.
// Returns Degraded if any check is degraded but none are unhealthy.
// Returns Healthy otherwise.
func (r Report) Status() Status {
	hasDegraded := false
	for _, e := range r.Entries {
		switch e.Result.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			hasDegraded = true
		}
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

// CheckResult flattens the report to check name -> passed.
func (r Report) CheckResult() map[string]bool {
	out := make(map[string]bool, len(r.Entries))
	for _, e := range r.Entries {
		out[e.Name] = e.Result.Passed()
	}
	return out
}

// Get returns the result recorded under name.
func (r Report) Get(name string) (Result, bool) {
	for _, e := range r.Entries {
		if e.Name == name {
			return e.Result, true
		}
	}
	return Result{}, false
}

// Names returns the entry names in run order.
func (r Report) Names() []string {
	names := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		names[i] = e.Name
	}
	return names
}

// Warnings returns every warning in the report prefixed with its check name.
func (r Report) Warnings() []string {
	var out []string
	for _, e := range r.Entries {
		for _, w := range e.Result.Warnings {
			out = append(out, e.Name+": "+w)
		}
	}
	return out
}
