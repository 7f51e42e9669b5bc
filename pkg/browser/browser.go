package browser

import "time"

// Page is the capability surface a registration attempt drives. Session
// implements it over Playwright; tests implement it in memory.
type Page interface {
	// Navigate loads a URL and waits for basic interactivity.
	Navigate(url string, opts NavigateOptions) error

	// Query returns the first element matching the selector, or nil when
	// nothing matches. A nil element with a nil error means "absent".
	Query(selector string) (Element, error)

	// QueryAll returns every element matching the selector.
	QueryAll(selector string) ([]Element, error)

	// Evaluate runs a JavaScript expression in the page and returns its
	// result.
	Evaluate(expression string) (interface{}, error)

	// CurrentURL returns the page's current URL.
	CurrentURL() string

	// PageText returns the visible text of the page body.
	PageText() (string, error)

	// Title returns the document title.
	Title() (string, error)

	// WaitForNavigation waits for a navigation triggered by a prior
	// action to settle. Timing out is not an error state worth
	// distinguishing for callers that race it against other signals.
	WaitForNavigation(timeout time.Duration) error

	// WaitForSelector waits for an element to appear, returning nil when
	// the wait times out.
	WaitForSelector(selector string, timeout time.Duration) (Element, error)
}

// Element is one DOM element handle.
type Element interface {
	// Click clicks the element.
	Click() error

	// Type replaces the element's value with the given text.
	Type(text string) error

	// Text returns the element's text content.
	Text() (string, error)

	// Attribute returns the named attribute, or "" when absent.
	Attribute(name string) (string, error)

	// HTML returns the element's outer HTML.
	HTML() (string, error)
}

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	// WaitUntil specifies when to consider navigation successful.
	// Valid values: "load", "domcontentloaded", "networkidle".
	WaitUntil string

	// Timeout bounds the navigation; zero means DefaultNavigationTimeout.
	Timeout time.Duration
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window.
	Headless bool

	// Viewport sets the initial viewport size.
	Viewport *Viewport

	// Timeout sets the default timeout for page operations.
	Timeout time.Duration
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// Defaults for session and wait configuration.
const (
	DefaultNavigationTimeout = 30 * time.Second
	DefaultSelectorTimeout   = 10 * time.Second
	DefaultViewportWidth     = 1280
	DefaultViewportHeight    = 720
	DefaultMaxSessions       = 5
	DefaultIdleTimeout       = 5 * time.Minute
	DefaultSweepInterval     = time.Minute
)
