package suite

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/heal/pkg/heal"
)

// Action is what a step does with the resolved element.
type Action string

const (
	ActionFind  Action = "find"
	ActionClick Action = "click"
	ActionFill  Action = "fill"
	ActionPress Action = "press"
)

// Plan is an ordered list of locator steps run against one page.
type Plan struct {
	// Name identifies the plan in reports; defaults to the file name
	Name string `yaml:"name"`

	// Path is appended to the configured base URL before the run
	Path string `yaml:"path"`

	// ContinueOnError keeps running steps after one fails
	ContinueOnError bool `yaml:"continue_on_error"`

	Steps []Step `yaml:"steps"`
}

// Step resolves one element and optionally acts on it.
type Step struct {
	Name         string        `yaml:"name"`
	Selectors    []string      `yaml:"selectors"`
	TextFallback string        `yaml:"text_fallback"`
	Timeout      time.Duration `yaml:"timeout"`
	Action       Action        `yaml:"action"`
	Value        string        `yaml:"value"`
	Key          string        `yaml:"key"`
}

// Options returns the resolution options for the step. A zero step timeout
// falls back to defaultTimeout.
func (s Step) Options(defaultTimeout time.Duration) heal.Options {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return heal.Options{
		Name:         s.Name,
		TextFallback: s.TextFallback,
		Timeout:      timeout,
	}
}

// LoadPlan reads and validates a YAML plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	if plan.Name == "" {
		plan.Name = path
	}

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan %s: %w", path, err)
	}
	return &plan, nil
}

// Validate checks every step and fills in the default action.
func (p *Plan) Validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("plan has no steps")
	}

	seen := make(map[string]bool, len(p.Steps))
	for i := range p.Steps {
		step := &p.Steps[i]

		if step.Name == "" {
			return fmt.Errorf("step %d: name is required", i+1)
		}
		if seen[step.Name] {
			return fmt.Errorf("step %q: duplicate name", step.Name)
		}
		seen[step.Name] = true

		if step.Timeout < 0 {
			return fmt.Errorf("step %q: timeout cannot be negative", step.Name)
		}

		if step.Action == "" {
			step.Action = ActionFind
		}
		switch step.Action {
		case ActionFind, ActionClick, ActionFill:
		case ActionPress:
			if step.Key == "" {
				return fmt.Errorf("step %q: press requires a key", step.Name)
			}
		default:
			return fmt.Errorf("step %q: invalid action %q (must be 'find', 'click', 'fill' or 'press')", step.Name, step.Action)
		}
	}
	return nil
}
