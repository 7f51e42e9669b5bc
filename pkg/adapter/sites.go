package adapter

import "time"

// Generic returns the fallback adapter used for any host no site profile
// claims. Default rules, default verification, any positive form score.
func Generic() *SiteAdapter {
	return New(Profile{AdapterName: "generic"})
}

// BuiltinProfiles returns the site-family profiles shipped with the
// registrar. Each is data over the same pipeline; none overrides a
// stage. Callers may adjust a profile (config overrides) before handing
// it to New.
func BuiltinProfiles() []Profile {
	return []Profile{
		// ActiveNet-style recreation portals render the registration
		// form client-side, so give the page time to settle and demand
		// real form evidence before trusting a candidate.
		{
			AdapterName:    "active-recreation",
			DomainPatterns: []string{"*.activecommunities.com"},
			MinFormScore:   15,
			SettleDelay:    2 * time.Second,
			SuccessPhrases: append([]string{"enrolled", "receipt number"}, defaultSuccessPhrases...),
		},

		// Library event calendars are RSVP-centric: free events with a
		// small RSVP form, success reported inline.
		{
			AdapterName:    "library-events",
			DomainPatterns: []string{"*.libcal.com", "*.librarycalendar.com"},
			SuccessSelectors: append([]string{
				".s-lc-eq-success",
				".registration-confirmed",
			}, defaultSuccessSelectors...),
		},

		// CivicRec-style parks and recreation portals sit behind account
		// logins more often than not; the access-gate rule does the
		// heavy lifting and forms need a solid score.
		{
			AdapterName:    "civic-recreation",
			DomainPatterns: []string{"*.civicrec.com", "secure.rec1.com"},
			MinFormScore:   15,
			SettleDelay:    time.Second,
		},

		// Ticketed venues (theaters, museums) mostly hand off to a
		// vendor or sell direct; a form has to look unmistakably like a
		// registration form before it is trusted.
		// tickets.** so the remainder may span labels (tickets.towntheater.com).
		{
			AdapterName:    "ticketed-venue",
			DomainPatterns: []string{"tickets.**"},
			MinFormScore:   40,
			Validation:     &PageValidation{URLToken: "ticket"},
		},
	}
}

// BuiltinSites constructs adapters from BuiltinProfiles unchanged.
func BuiltinSites() []*SiteAdapter {
	profiles := BuiltinProfiles()
	sites := make([]*SiteAdapter, 0, len(profiles))
	for _, p := range profiles {
		sites = append(sites, New(p))
	}
	return sites
}
