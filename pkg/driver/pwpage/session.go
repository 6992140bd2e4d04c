package pwpage

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// Defaults for launched sessions.
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultTimeout        = 30000.0 // milliseconds
)

// SessionOptions configures Launch.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Install downloads the driver and browsers before starting
	Install bool

	// Timeout is the page's default action timeout in milliseconds
	Timeout float64
}

// Session owns a Playwright driver, one Chromium browser, one context and
// one page.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    *Page

	closeOnce sync.Once
}

// Launch starts Playwright and opens a page.
func Launch(opts SessionOptions) (*Session, error) {
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if opts.Install {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		},
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	page.SetDefaultTimeout(timeout)

	return &Session{
		pw:      pw,
		browser: browser,
		context: bctx,
		page:    New(page),
	}, nil
}

// Page returns the session's page.
func (s *Session) Page() *Page {
	return s.page
}

// Close releases the page, context, browser and driver. Safe to call more
// than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = closeAll(
			func() error { return s.page.page.Close() },
			func() error { return s.context.Close() },
			func() error { return s.browser.Close() },
			s.pw.Stop,
		)
	})
	return err
}

// closeAll runs every close step and joins their errors.
func closeAll(steps ...func() error) error {
	var errs []error
	for _, step := range steps {
		if err := step(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing session: %w", errors.Join(errs...))
	}
	return nil
}
