package heal

import (
	"context"
	"errors"
	"fmt"
)

var errNoMatch = errors.New("no match")

// probeResult is the outcome of probing one candidate: either a matching
// element or the reason the candidate was skipped.
type probeResult struct {
	selector string
	element  Element
	skip     error
}

func (r probeResult) matched() bool {
	return r.skip == nil
}

func matchOf(selector string, el Element) probeResult {
	return probeResult{selector: selector, element: el}
}

func skipOf(selector string, reason error) probeResult {
	return probeResult{selector: selector, skip: reason}
}

// probe queries the page for selector. Query errors become skips so the
// caller moves on to the next candidate.
func probe(ctx context.Context, page Page, selector string) probeResult {
	els, err := page.Query(ctx, selector)
	if err != nil {
		return skipOf(selector, fmt.Errorf("query failed: %w", err))
	}
	if len(els) == 0 {
		return skipOf(selector, errNoMatch)
	}
	return matchOf(selector, els[0])
}
