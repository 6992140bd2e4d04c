// Package pwpage implements heal.Page on top of Playwright.
package pwpage

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/heal/pkg/heal"
)

// Page adapts a playwright.Page to heal.Page. Selectors are passed to
// Playwright's selector engine unchanged, so CSS, text= and XPath all work;
// pair it with heal.PlaywrightDialect.
type Page struct {
	page playwright.Page
}

// New wraps page.
func New(page playwright.Page) *Page {
	return &Page{page: page}
}

// Element is a Playwright locator pinned to one match by index.
type Element struct {
	loc playwright.Locator
}

// Query counts matches for selector and returns one locator per match.
func (p *Page) Query(ctx context.Context, selector string) ([]heal.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loc := p.page.Locator(selector)
	count, err := loc.Count()
	if err != nil {
		return nil, fmt.Errorf("count %q: %w", selector, err)
	}

	els := make([]heal.Element, count)
	for i := range els {
		els[i] = &Element{loc: loc.Nth(i)}
	}
	return els, nil
}

// WaitVisible waits for el to reach the visible state.
func (p *Page) WaitVisible(ctx context.Context, el heal.Element, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e, ok := el.(*Element)
	if !ok {
		return fmt.Errorf("pwpage: unsupported element %T", el)
	}

	state := playwright.WaitForSelectorState("visible")
	ms := float64(timeout.Milliseconds())
	return e.loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   &state,
		Timeout: &ms,
	})
}

// Navigate loads url and waits for the load event.
func (p *Page) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opts := playwright.PageGotoOptions{}
	waitUntil := playwright.WaitUntilState("load")
	opts.WaitUntil = &waitUntil
	if timeout > 0 {
		ms := float64(timeout.Milliseconds())
		opts.Timeout = &ms
	}

	if _, err := p.page.Goto(url, opts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Click clicks the element.
func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.loc.Click(); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// Fill clears the element and types value into it.
func (e *Element) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.loc.Fill(value); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

// Press sends key using Playwright key names.
func (e *Element) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.loc.Press(key); err != nil {
		return fmt.Errorf("press failed: %w", err)
	}
	return nil
}
