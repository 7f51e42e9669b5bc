package browser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session wraps one Playwright browser/context/page triple. It implements
// Page; every registration attempt drives exactly one Session.
type Session struct {
	Name       string
	Headless   bool
	CreatedAt  time.Time
	LastUsedAt time.Time

	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

var _ Page = (*Session)(nil)

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.LastUsedAt = time.Now()
}

// close releases the session's browser resources. Nil handles are
// skipped so a partially constructed session closes safely.
func (s *Session) close() error {
	var errs []error
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.context != nil {
		if err := s.context.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Navigate navigates the session's page to the specified URL.
func (s *Session) Navigate(url string, opts NavigateOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageGotoOptions{}

	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		playwrightOpts.WaitUntil = &waitUntil
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultNavigationTimeout
	}
	ms := float64(timeout.Milliseconds())
	playwrightOpts.Timeout = &ms

	if _, err := s.page.Goto(url, playwrightOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Query returns the first element matching the selector, nil when absent.
func (s *Session) Query(selector string) (Element, error) {
	s.UpdateLastUsed()

	handle, err := s.page.QuerySelector(selector)
	if err != nil {
		return nil, fmt.Errorf("selector query failed: %w", err)
	}
	if handle == nil {
		return nil, nil
	}
	return &element{handle: handle}, nil
}

// QueryAll returns every element matching the selector.
func (s *Session) QueryAll(selector string) ([]Element, error) {
	s.UpdateLastUsed()

	handles, err := s.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("selector query failed: %w", err)
	}

	elements := make([]Element, 0, len(handles))
	for _, handle := range handles {
		elements = append(elements, &element{handle: handle})
	}
	return elements, nil
}

// Evaluate runs a JavaScript expression in the page context.
func (s *Session) Evaluate(expression string) (interface{}, error) {
	s.UpdateLastUsed()

	result, err := s.page.Evaluate(expression)
	if err != nil {
		return nil, fmt.Errorf("evaluate failed: %w", err)
	}
	return result, nil
}

// CurrentURL returns the page's current URL.
func (s *Session) CurrentURL() string {
	return s.page.URL()
}

// PageText returns the visible text of the page body.
func (s *Session) PageText() (string, error) {
	s.UpdateLastUsed()

	body, err := s.page.QuerySelector("body")
	if err != nil {
		return "", fmt.Errorf("body query failed: %w", err)
	}
	if body == nil {
		return "", fmt.Errorf("no body element found")
	}

	text, err := body.TextContent()
	if err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}
	return text, nil
}

// Title returns the document title.
func (s *Session) Title() (string, error) {
	s.UpdateLastUsed()
	return s.page.Title()
}

// WaitForNavigation waits for the page to reach the load state again
// after an action that may have triggered navigation.
func (s *Session) WaitForNavigation(timeout time.Duration) error {
	s.UpdateLastUsed()

	ms := float64(timeout.Milliseconds())
	state := playwright.LoadStateLoad
	err := s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   state,
		Timeout: &ms,
	})
	if err != nil {
		return fmt.Errorf("navigation wait failed: %w", err)
	}
	return nil
}

// WaitForSelector waits for an element to appear. A timeout returns
// (nil, nil): the element is simply absent.
func (s *Session) WaitForSelector(selector string, timeout time.Duration) (Element, error) {
	s.UpdateLastUsed()

	ms := float64(timeout.Milliseconds())
	state := playwright.WaitForSelectorStateVisible
	handle, err := s.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   state,
		Timeout: &ms,
	})
	if err != nil {
		if isTimeoutError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("wait failed: %w", err)
	}
	if handle == nil {
		return nil, nil
	}
	return &element{handle: handle}, nil
}

func isTimeoutError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "timeout")
}

// element adapts a Playwright element handle to the Element interface.
type element struct {
	handle playwright.ElementHandle
}

func (e *element) Click() error {
	if err := e.handle.Click(); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (e *element) Type(text string) error {
	if err := e.handle.Fill(text); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

func (e *element) Text() (string, error) {
	text, err := e.handle.TextContent()
	if err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}
	return text, nil
}

func (e *element) Attribute(name string) (string, error) {
	value, err := e.handle.GetAttribute(name)
	if err != nil {
		return "", nil
	}
	return value, nil
}

func (e *element) HTML() (string, error) {
	html, err := e.handle.Evaluate("el => el.outerHTML")
	if err != nil {
		return "", fmt.Errorf("outer html failed: %w", err)
	}
	if s, ok := html.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("outer html returned %T", html)
}
