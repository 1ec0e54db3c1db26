package build

import (
	"time"

	"git.home.luguber.info/inful/sitegen/hooks"
)

// Status represents the outcome of a build execution.
type Status string

const (
	// StatusSuccess indicates the build produced a site. Non-fatal
	// per-item errors may still be present in Result.Errors.
	StatusSuccess Status = "success"

	// StatusFailed indicates a fatal error aborted the build; output is
	// missing or partial.
	StatusFailed Status = "failed"
)

// Result is the rendered-output record set of one build: every produced
// page plus all non-fatal errors collected during the run.
type Result struct {
	// BuildID uniquely identifies this build pass in logs and metrics.
	BuildID string

	// Status is the overall outcome.
	Status Status

	// Pages lists every successfully produced page.
	Pages []hooks.PageInfo

	// Errors collects the non-fatal, item-scoped errors of the run:
	// malformed front matter, missing page data, render failures, copy
	// failures. A successful build with a non-empty Errors list still
	// shipped a site.
	Errors []error

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// HasErrors reports whether any non-fatal errors were recorded.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r *Result) record(errs ...error) {
	r.Errors = append(r.Errors, errs...)
}
