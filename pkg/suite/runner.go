// Package suite runs YAML plans of named locator steps through a
// self-healing locator.
package suite

import (
	"context"
	"time"

	"github.com/entrhq/heal/pkg/heal"
)

// StepStatus is the outcome of one step.
type StepStatus string

const (
	StatusPassed  StepStatus = "passed"
	StatusFailed  StepStatus = "failed"
	StatusSkipped StepStatus = "skipped"
)

// StepResult records what happened to one step.
type StepResult struct {
	Name     string        `json:"name"`
	Status   StepStatus    `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`

	err error
}

// Err returns the step's error, if it failed.
func (r StepResult) Err() error {
	return r.err
}

// Result is the outcome of a plan run.
type Result struct {
	Steps []StepResult `json:"steps"`
}

// Failed reports whether any step failed.
func (r *Result) Failed() bool {
	for _, s := range r.Steps {
		if s.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Count returns how many steps ended with status.
func (r *Result) Count(status StepStatus) int {
	n := 0
	for _, s := range r.Steps {
		if s.Status == status {
			n++
		}
	}
	return n
}

// Runner executes plans through one Locator.
type Runner struct {
	locator        *heal.Locator
	filter         *Filter
	defaultTimeout time.Duration
}

// NewRunner creates a runner. filter may be nil; defaultTimeout applies to
// steps without their own timeout.
func NewRunner(locator *heal.Locator, filter *Filter, defaultTimeout time.Duration) *Runner {
	return &Runner{
		locator:        locator,
		filter:         filter,
		defaultTimeout: defaultTimeout,
	}
}

// Run executes the plan's steps in order. Steps after a failure are
// reported as skipped unless the plan continues on error. Filtered-out steps
// are skipped without touching the page.
func (r *Runner) Run(ctx context.Context, plan *Plan) *Result {
	result := &Result{Steps: make([]StepResult, 0, len(plan.Steps))}
	halted := false

	for _, step := range plan.Steps {
		if halted || !r.filter.Match(step.Name) || ctx.Err() != nil {
			result.Steps = append(result.Steps, StepResult{Name: step.Name, Status: StatusSkipped})
			continue
		}

		start := time.Now()
		err := r.runStep(ctx, step)
		res := StepResult{
			Name:     step.Name,
			Status:   StatusPassed,
			Duration: time.Since(start),
		}
		if err != nil {
			res.Status = StatusFailed
			res.Error = err.Error()
			res.err = err
			if !plan.ContinueOnError {
				halted = true
			}
		}
		result.Steps = append(result.Steps, res)
	}

	return result
}

func (r *Runner) runStep(ctx context.Context, step Step) error {
	opts := step.Options(r.defaultTimeout)

	switch step.Action {
	case ActionClick:
		return r.locator.Click(ctx, step.Selectors, opts)
	case ActionFill:
		return r.locator.Fill(ctx, step.Selectors, step.Value, opts)
	case ActionPress:
		return r.locator.Press(ctx, step.Selectors, step.Key, opts)
	default:
		_, err := r.locator.Find(ctx, step.Selectors, opts)
		return err
	}
}
