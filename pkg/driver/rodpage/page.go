// Package rodpage implements heal.Page on top of go-rod.
//
// Rod understands CSS selectors and XPath, not Playwright's text engine, so
// locators running on a rodpage.Page should use heal.XPathDialect.
package rodpage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/entrhq/heal/pkg/heal"
)

// Page adapts a *rod.Page to heal.Page.
type Page struct {
	page *rod.Page
}

// New wraps page.
func New(page *rod.Page) *Page {
	return &Page{page: page}
}

// Element wraps a *rod.Element.
type Element struct {
	el *rod.Element
}

// isXPath reports whether selector should be evaluated as XPath. An
// "xpath=" prefix is stripped.
func isXPath(selector string) (string, bool) {
	if rest, ok := strings.CutPrefix(selector, "xpath="); ok {
		return rest, true
	}
	if strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(") {
		return selector, true
	}
	return selector, false
}

// Query returns the current matches without waiting for any to appear.
func (p *Page) Query(ctx context.Context, selector string) ([]heal.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page := p.page.Context(ctx)
	var (
		found rod.Elements
		err   error
	)
	if expr, ok := isXPath(selector); ok {
		found, err = page.ElementsX(expr)
	} else {
		found, err = page.Elements(selector)
	}
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}

	els := make([]heal.Element, len(found))
	for i, el := range found {
		els[i] = &Element{el: el}
	}
	return els, nil
}

// WaitVisible waits up to timeout for el to be visible.
func (p *Page) WaitVisible(ctx context.Context, el heal.Element, timeout time.Duration) error {
	e, ok := el.(*Element)
	if !ok {
		return fmt.Errorf("rodpage: unsupported element %T", el)
	}

	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return e.el.Context(wctx).WaitVisible()
}

// Navigate loads url and waits for the load event. A load timeout is not an
// error; the page may still be usable.
func (p *Page) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("wait load: %w", err)
	}
	return nil
}

// Click left-clicks the element once.
func (e *Element) Click(ctx context.Context) error {
	if err := e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// Fill replaces the element's current value with value.
func (e *Element) Fill(ctx context.Context, value string) error {
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

// Press sends one key, named as Playwright names keys ("Enter", "Tab", "a").
// Printable characters outside rod's keyboard layout are typed as text.
func (e *Element) Press(ctx context.Context, key string) error {
	k, err := lookupKey(key)
	if errors.Is(err, errUnmappedRune) && typedText(key) {
		if err := e.el.Context(ctx).Input(key); err != nil {
			return fmt.Errorf("press failed: %w", err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if err := e.el.Context(ctx).Type(k); err != nil {
		return fmt.Errorf("press failed: %w", err)
	}
	return nil
}
