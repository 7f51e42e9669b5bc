// Package browsertest provides in-memory Page and Element fakes so
// classifiers and adapters can be tested without a live browser.
package browsertest

import (
	"fmt"
	"time"

	"github.com/entrhq/registrar/pkg/browser"
)

// FakeElement is a scripted DOM element.
type FakeElement struct {
	HTMLContent string
	TextContent string
	Attrs       map[string]string

	Clicked  bool
	TypedIn  []string
	ClickErr error
	TypeErr  error
}

func (e *FakeElement) Click() error {
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.Clicked = true
	return nil
}

func (e *FakeElement) Type(text string) error {
	if e.TypeErr != nil {
		return e.TypeErr
	}
	e.TypedIn = append(e.TypedIn, text)
	return nil
}

func (e *FakeElement) Text() (string, error) {
	return e.TextContent, nil
}

func (e *FakeElement) Attribute(name string) (string, error) {
	return e.Attrs[name], nil
}

func (e *FakeElement) HTML() (string, error) {
	return e.HTMLContent, nil
}

// FakePage is a scripted page. Selectors resolve through the Elements
// map; anything unlisted is absent.
type FakePage struct {
	URL       string
	PageTitle string
	Text      string
	Elements  map[string][]*FakeElement

	NavigateErr  error
	NavigatedTo  []string
	WaitNavErr   error
	EvaluateFunc func(expression string) (interface{}, error)
	QueryErr     error
}

var _ browser.Page = (*FakePage)(nil)

func (p *FakePage) Navigate(url string, opts browser.NavigateOptions) error {
	if p.NavigateErr != nil {
		return p.NavigateErr
	}
	p.NavigatedTo = append(p.NavigatedTo, url)
	p.URL = url
	return nil
}

func (p *FakePage) Query(selector string) (browser.Element, error) {
	if p.QueryErr != nil {
		return nil, p.QueryErr
	}
	els := p.Elements[selector]
	if len(els) == 0 {
		return nil, nil
	}
	return els[0], nil
}

func (p *FakePage) QueryAll(selector string) ([]browser.Element, error) {
	if p.QueryErr != nil {
		return nil, p.QueryErr
	}
	els := p.Elements[selector]
	out := make([]browser.Element, 0, len(els))
	for _, e := range els {
		out = append(out, e)
	}
	return out, nil
}

func (p *FakePage) Evaluate(expression string) (interface{}, error) {
	if p.EvaluateFunc != nil {
		return p.EvaluateFunc(expression)
	}
	return nil, fmt.Errorf("evaluate not scripted")
}

func (p *FakePage) CurrentURL() string {
	return p.URL
}

func (p *FakePage) PageText() (string, error) {
	return p.Text, nil
}

func (p *FakePage) Title() (string, error) {
	return p.PageTitle, nil
}

func (p *FakePage) WaitForNavigation(timeout time.Duration) error {
	return p.WaitNavErr
}

func (p *FakePage) WaitForSelector(selector string, timeout time.Duration) (browser.Element, error) {
	return p.Query(selector)
}

// AnyMutation reports whether any scripted element was clicked or typed
// into, for asserting zero-action outcomes.
func (p *FakePage) AnyMutation() bool {
	for _, els := range p.Elements {
		for _, e := range els {
			if e.Clicked || len(e.TypedIn) > 0 {
				return true
			}
		}
	}
	return false
}
