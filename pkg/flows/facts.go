// Package flows recognizes registration mechanisms that a form analyzer
// cannot see: vendor handoffs, RSVP links, waitlists, login walls,
// drop-in events. Detection is an ordered rule list evaluated over page
// facts gathered in one pass; the first matching rule wins.
package flows

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/entrhq/registrar/pkg/browser"
)

// Link is one anchor on the page with its resolved host.
type Link struct {
	Text string
	Href string
	Host string // empty for mailto:, javascript: and fragment links
}

// PageFacts is the one-pass snapshot rules evaluate against. Text and
// link text are pre-lowercased.
type PageFacts struct {
	Host  string
	Text  string
	Links []Link
}

// GatherFacts reads the page once: its text, its anchors, and the host
// it is served from.
func GatherFacts(page browser.Page) (*PageFacts, error) {
	pageURL, err := url.Parse(page.CurrentURL())
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	text, err := page.PageText()
	if err != nil {
		return nil, fmt.Errorf("page text failed: %w", err)
	}

	anchors, err := page.QueryAll("a[href]")
	if err != nil {
		return nil, fmt.Errorf("anchor query failed: %w", err)
	}

	facts := &PageFacts{
		Host: strings.ToLower(pageURL.Hostname()),
		Text: strings.ToLower(text),
	}

	for _, a := range anchors {
		href, err := a.Attribute("href")
		if err != nil || href == "" {
			continue
		}
		linkText, _ := a.Text()

		facts.Links = append(facts.Links, Link{
			Text: strings.ToLower(strings.TrimSpace(linkText)),
			Href: href,
			Host: linkHost(pageURL, href),
		})
	}

	return facts, nil
}

// linkHost resolves a href against the page URL and returns its host.
// Same-page and non-HTTP schemes resolve to "".
func linkHost(base *url.URL, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	resolved := base.ResolveReference(u)
	return strings.ToLower(resolved.Hostname())
}

// hostMatches reports whether host is the candidate domain or a
// subdomain of it.
func hostMatches(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
