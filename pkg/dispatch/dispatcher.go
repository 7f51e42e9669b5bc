// Package dispatch routes a registration URL to the adapter claiming
// its host. Adapters declare host glob patterns; unmatched hosts fall
// back to the generic adapter. The dispatcher is stateless and safe for
// concurrent use.
package dispatch

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"

	"github.com/entrhq/registrar/pkg/adapter"
)

type entry struct {
	adapter  adapter.Adapter
	patterns []glob.Glob
}

// Dispatcher maps hostnames to adapters.
type Dispatcher struct {
	entries []entry
	generic adapter.Adapter
}

// New compiles every site adapter's domain patterns. Pattern separators
// are dots, so "*.example.org" matches one subdomain level and
// "**.example.org" matches any depth.
func New(generic adapter.Adapter, sites ...adapter.Adapter) (*Dispatcher, error) {
	d := &Dispatcher{generic: generic}

	for _, site := range sites {
		e := entry{adapter: site}
		for _, pattern := range site.Domains() {
			g, err := glob.Compile(strings.ToLower(pattern), '.')
			if err != nil {
				return nil, fmt.Errorf("adapter %s: bad domain pattern %q: %w", site.Name(), pattern, err)
			}
			e.patterns = append(e.patterns, g)
		}
		d.entries = append(d.entries, e)
	}

	return d, nil
}

// AdapterFor picks the adapter for a registration URL. Declaration order
// breaks ties; anything unmatched (including unparseable URLs) gets the
// generic adapter.
func (d *Dispatcher) AdapterFor(registrationURL string) adapter.Adapter {
	u, err := url.Parse(registrationURL)
	if err != nil {
		return d.generic
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return d.generic
	}

	for _, e := range d.entries {
		for _, g := range e.patterns {
			if g.Match(host) {
				return e.adapter
			}
		}
	}
	return d.generic
}
