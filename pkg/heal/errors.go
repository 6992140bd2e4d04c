package heal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLocatorNotFound matches any *LocatorNotFoundError under errors.Is.
var ErrLocatorNotFound = errors.New("locator not found")

// LocatorNotFoundError is returned when no primary, text fallback or
// heuristic candidate matched.
type LocatorNotFoundError struct {
	// Key is the logical name from Options.Name, if any.
	Key string

	// Tried lists every selector probed, in probe order.
	Tried []string

	// cause is the context error when resolution ran under a done context.
	cause error
}

func (e *LocatorNotFoundError) Error() string {
	msg := fmt.Sprintf("element not found. Tried selectors: %s", strings.Join(e.Tried, " | "))
	if e.Key != "" {
		msg = fmt.Sprintf("%s: %s", e.Key, msg)
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.cause)
	}
	return msg
}

// Is reports whether target is ErrLocatorNotFound.
func (e *LocatorNotFoundError) Is(target error) bool {
	return target == ErrLocatorNotFound
}

// Unwrap returns the context error that was active when resolution gave up.
func (e *LocatorNotFoundError) Unwrap() error {
	return e.cause
}
