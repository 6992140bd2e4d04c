package rodpage

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Session owns a launched browser process and one page.
type Session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *Page

	closeOnce sync.Once
}

// Launch starts a local Chromium and opens a blank page.
func Launch(headless bool) (*Session, error) {
	l := launcher.New().Headless(headless)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("browser: launch: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("browser: connect: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	return &Session{
		launcher: l,
		browser:  browser,
		page:     New(page),
	}, nil
}

// Page returns the session's page.
func (s *Session) Page() *Page {
	return s.page
}

// Close closes the browser and removes its temporary profile.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.browser.Close()
		s.launcher.Cleanup()
	})
	if err != nil {
		return fmt.Errorf("browser: close: %w", err)
	}
	return nil
}
