package heal

import (
	"context"
	"time"
)

// Page is the live page a Locator resolves against. Drivers for concrete
// browser automation libraries implement it.
type Page interface {
	// Query returns the elements currently matching selector, in document
	// order. An empty result with a nil error means no match.
	Query(ctx context.Context, selector string) ([]Element, error)

	// WaitVisible waits up to timeout for el to become visible. A nil error
	// means the element is visible.
	WaitVisible(ctx context.Context, el Element, timeout time.Duration) error
}

// Element is a handle to a live element returned by Page.Query.
type Element interface {
	Click(ctx context.Context) error
	Fill(ctx context.Context, value string) error
	Press(ctx context.Context, key string) error
}

// AttachmentSink receives exported report payloads.
type AttachmentSink interface {
	Attach(name, contentType string, body []byte) error
}

// Logger is the logging surface the locator writes to.
// *logging.Logger satisfies it.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}
