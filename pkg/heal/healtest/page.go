// Package healtest provides an in-memory heal.Page for tests.
package healtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/heal/pkg/heal"
)

// ErrHidden is returned by WaitVisible for elements marked hidden.
var ErrHidden = errors.New("element not visible")

// Element is a fake element that records the actions performed on it.
type Element struct {
	// ID identifies the element in assertions.
	ID string

	// Hidden makes WaitVisible fail for this element.
	Hidden bool

	// ActionErr, when set, is returned by every action.
	ActionErr error

	mu      sync.Mutex
	actions []string
}

func (e *Element) act(action string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ActionErr != nil {
		return e.ActionErr
	}
	e.actions = append(e.actions, action)
	return nil
}

// Click records "click" or returns ActionErr.
func (e *Element) Click(ctx context.Context) error {
	return e.act("click")
}

// Fill records "fill:<value>" or returns ActionErr.
func (e *Element) Fill(ctx context.Context, value string) error {
	return e.act("fill:" + value)
}

// Press records "press:<key>" or returns ActionErr.
func (e *Element) Press(ctx context.Context, key string) error {
	return e.act("press:" + key)
}

// Actions returns the actions performed so far, e.g. "click", "fill:alice".
func (e *Element) Actions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.actions...)
}

// Page maps selectors to elements. Selectors without an entry match nothing.
type Page struct {
	mu       sync.Mutex
	elements map[string][]*Element
	errs     map[string]error
	queries  []string
	waits    []time.Duration
}

// NewPage returns an empty page.
func NewPage() *Page {
	return &Page{
		elements: make(map[string][]*Element),
		errs:     make(map[string]error),
	}
}

// Add registers elements matching selector and returns the first one.
// With no ids it adds one element whose ID is the selector.
func (p *Page) Add(selector string, ids ...string) *Element {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(ids) == 0 {
		ids = []string{selector}
	}
	for _, id := range ids {
		p.elements[selector] = append(p.elements[selector], &Element{ID: id})
	}
	return p.elements[selector][0]
}

// Remove drops every element matching selector.
func (p *Page) Remove(selector string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.elements, selector)
}

// FailQuery makes queries for selector return err.
func (p *Page) FailQuery(selector string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs[selector] = err
}

// Query records selector and returns its scripted elements or error.
func (p *Page) Query(ctx context.Context, selector string) ([]heal.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queries = append(p.queries, selector)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := p.errs[selector]; ok {
		return nil, err
	}

	matches := p.elements[selector]
	out := make([]heal.Element, len(matches))
	for i, el := range matches {
		out[i] = el
	}
	return out, nil
}

// WaitVisible records timeout and fails with ErrHidden for hidden elements.
func (p *Page) WaitVisible(ctx context.Context, el heal.Element, timeout time.Duration) error {
	p.mu.Lock()
	p.waits = append(p.waits, timeout)
	p.mu.Unlock()

	fake, ok := el.(*Element)
	if !ok {
		return fmt.Errorf("healtest: foreign element %T", el)
	}
	if fake.Hidden {
		return ErrHidden
	}
	return nil
}

// Queries returns every selector queried, in order.
func (p *Page) Queries() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.queries))
	copy(out, p.queries)
	return out
}

// Waits returns the timeout of every WaitVisible call, in order.
func (p *Page) Waits() []time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]time.Duration(nil), p.waits...)
}

// Sink collects attachments in memory.
type Sink struct {
	Err error

	mu          sync.Mutex
	attachments []Attachment
}

// Attachment is one payload received by Sink.
type Attachment struct {
	Name        string
	ContentType string
	Body        []byte
}

// Attach stores the attachment, or returns Err when set.
func (s *Sink) Attach(name, contentType string, body []byte) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachments = append(s.attachments, Attachment{Name: name, ContentType: contentType, Body: body})
	return nil
}

// Attachments returns the received attachments.
func (s *Sink) Attachments() []Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Attachment(nil), s.attachments...)
}

// Logger records formatted lines per level.
type Logger struct {
	mu    sync.Mutex
	Lines []string
}

func (l *Logger) add(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Lines = append(l.Lines, level+" "+fmt.Sprintf(format, v...))
}

// Debugf, Infof and Warnf record a line prefixed with the level.
func (l *Logger) Debugf(format string, v ...interface{}) { l.add("DEBUG", format, v...) }
func (l *Logger) Infof(format string, v ...interface{})  { l.add("INFO", format, v...) }
func (l *Logger) Warnf(format string, v ...interface{})  { l.add("WARN", format, v...) }
