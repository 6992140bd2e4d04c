package heal

import (
	"context"
	"time"
)

// DefaultTimeout is the visibility grace period given to a matched primary
// candidate when Options.Timeout is zero.
const DefaultTimeout = 2 * time.Second

// Options tunes a single resolution.
type Options struct {
	// Name labels the element in logs and drives the heuristic phase.
	Name string

	// TextFallback, when set, adds an exact-text candidate after the
	// primary list.
	TextFallback string

	// Timeout bounds the visibility wait on a matched primary candidate.
	Timeout time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// Locator resolves candidate selectors against one page. Create one per test.
type Locator struct {
	page    Page
	dialect Dialect
	logger  Logger
	now     func() time.Time
	ledger  Ledger
}

// Option configures a Locator.
type Option func(*Locator)

// WithDialect sets the selector dialect used for synthesized candidates.
func WithDialect(d Dialect) Option {
	return func(l *Locator) {
		l.dialect = d
	}
}

// WithLogger sets the logger resolution lines are written to.
func WithLogger(logger Logger) Option {
	return func(l *Locator) {
		l.logger = logger
	}
}

// WithClock overrides the clock used to timestamp ledger entries.
func WithClock(now func() time.Time) Option {
	return func(l *Locator) {
		l.now = now
	}
}

// New creates a Locator for page. Without options it uses PlaywrightDialect
// and the package's component logger.
func New(page Page, opts ...Option) *Locator {
	l := &Locator{
		page:    page,
		dialect: PlaywrightDialect{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = defaultLogger()
	}
	return l
}

// Find returns the element for the first candidate that matches, trying the
// primary list, then the text fallback, then the name heuristics. It always
// appends one entry to the ledger. When nothing matches it returns a
// *LocatorNotFoundError listing every selector tried.
func (l *Locator) Find(ctx context.Context, candidates []string, opts Options) (Element, error) {
	tried := make([]string, 0, len(candidates)+4)

	for _, sel := range candidates {
		tried = append(tried, sel)
		res := probe(ctx, l.page, sel)
		if !res.matched() {
			l.logger.Debugf("[SelfHealing] skip %q: %v", sel, res.skip)
			continue
		}
		if err := l.page.WaitVisible(ctx, res.element, opts.timeout()); err != nil {
			l.logger.Debugf("[SelfHealing] %q matched but not visible within %s: %v", sel, opts.timeout(), err)
		}
		l.record(opts.Name, sel, tried, ReasonSelector)
		return res.element, nil
	}

	if opts.TextFallback != "" {
		sel := l.dialect.ExactText(opts.TextFallback)
		tried = append(tried, sel)
		res := probe(ctx, l.page, sel)
		if res.matched() {
			l.record(opts.Name, sel, tried, ReasonTextFallback)
			return res.element, nil
		}
		l.logger.Debugf("[SelfHealing] skip %q: %v", sel, res.skip)
	}

	if opts.Name != "" {
		for _, sel := range heuristics(l.dialect, opts.Name) {
			tried = append(tried, sel)
			res := probe(ctx, l.page, sel)
			if !res.matched() {
				l.logger.Debugf("[SelfHealing] skip %q: %v", sel, res.skip)
				continue
			}
			l.record(opts.Name, sel, tried, ReasonHeuristics)
			return res.element, nil
		}
	}

	l.record(opts.Name, "", tried, ReasonNotFound)
	return nil, &LocatorNotFoundError{
		Key:   opts.Name,
		Tried: cloneStrings(tried),
		cause: ctx.Err(),
	}
}

// Log returns a snapshot of every resolution attempt so far, oldest first.
func (l *Locator) Log() []HealedEntry {
	return l.ledger.Entries()
}

func (l *Locator) record(key, used string, tried []string, reason string) {
	entry := HealedEntry{
		Key:            key,
		UsedSelector:   used,
		TriedSelectors: cloneStrings(tried),
		Reason:         reason,
		Time:           l.now().UTC(),
	}
	l.ledger.append(entry)

	name := key
	if name == "" {
		name = "<unnamed>"
	}
	outcome := "NOT_FOUND"
	if used != "" {
		outcome = "used=" + used
	}
	l.logger.Infof("[SelfHealing] %s %s %s", name, outcome, reason)
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
