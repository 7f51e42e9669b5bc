package flows

import (
	"strings"

	"github.com/entrhq/registrar/pkg/types"
)

// Detection is one rule's verdict: the mechanism and whatever the fill
// stage (or a human) needs to act on it.
type Detection struct {
	Method         types.RegistrationMethod
	RedirectURL    string
	ContactAddress string
	Reason         string
}

// Rule is one entry in an adapter's decision list.
type Rule struct {
	Name   string
	Detect func(f *PageFacts) *Detection
}

// Classifier runs an ordered rule list; the first match wins. A nil
// result means no non-form mechanism was recognized and the caller
// should fall back to form analysis.
type Classifier struct {
	Rules []Rule
}

// Classify evaluates the rules in order against the gathered facts.
func (c Classifier) Classify(f *PageFacts) *Detection {
	for _, rule := range c.Rules {
		if d := rule.Detect(f); d != nil {
			return d
		}
	}
	return nil
}

// DefaultVendorHosts are the third-party ticket marketplaces a link can
// hand registration off to. Any off-host link into one of these ends the
// attempt as a manual vendor redirect.
var DefaultVendorHosts = []string{
	"eventbrite.com",
	"ticketmaster.com",
	"etix.com",
	"showclix.com",
	"brownpapertickets.com",
	"universe.com",
	"seetickets.com",
	"ticketweb.com",
	"axs.com",
	"ticketleap.com",
	"tickettailor.com",
}

// DefaultRules builds the standard decision list. Adapters may prepend,
// reorder or replace entries; order is significant because the first
// match wins.
func DefaultRules(vendorHosts []string) []Rule {
	if vendorHosts == nil {
		vendorHosts = DefaultVendorHosts
	}

	return []Rule{
		{Name: "vendor_redirect", Detect: detectVendorRedirect(vendorHosts)},
		{Name: "direct_purchase", Detect: detectDirectPurchase},
		{Name: "group_tickets", Detect: detectGroupTickets},
		{Name: "free_event", Detect: detectFreeEvent},
		{Name: "season_tickets", Detect: detectSeasonTickets},
		{Name: "notification_signup", Detect: detectWaitlist},
		{Name: "access_gate", Detect: detectAccessGate},
		{Name: "drop_in", Detect: detectDropIn},
		{Name: "email_only", Detect: detectEmailOnly},
	}
}

func detectVendorRedirect(vendorHosts []string) func(*PageFacts) *Detection {
	return func(f *PageFacts) *Detection {
		for _, link := range f.Links {
			if link.Host == "" || link.Host == f.Host {
				continue
			}
			for _, vendor := range vendorHosts {
				if hostMatches(link.Host, vendor) {
					return &Detection{
						Method:      types.MethodVendorRedirect,
						RedirectURL: link.Href,
						Reason:      "tickets are sold through " + vendor,
					}
				}
			}
		}
		return nil
	}
}

var purchaseWords = []string{"buy tickets", "purchase tickets", "get tickets", "buy now"}

func detectDirectPurchase(f *PageFacts) *Detection {
	for _, link := range f.Links {
		if link.Host != "" && link.Host != f.Host {
			continue
		}
		for _, w := range purchaseWords {
			if strings.Contains(link.Text, w) {
				return &Detection{
					Method:      types.MethodDirectPurchase,
					RedirectURL: link.Href,
				}
			}
		}
	}
	return nil
}

var groupWords = []string{"group tickets", "group sales", "group rates", "group visit"}

func detectGroupTickets(f *PageFacts) *Detection {
	for _, link := range f.Links {
		for _, w := range groupWords {
			if strings.Contains(link.Text, w) {
				return &Detection{
					Method:      types.MethodGroupTickets,
					RedirectURL: link.Href,
				}
			}
		}
	}
	return nil
}

var freeWords = []string{"free admission", "admission is free", "free event", "free and open", "no charge"}
var rsvpWords = []string{"rsvp"}

func detectFreeEvent(f *PageFacts) *Detection {
	free := false
	for _, w := range freeWords {
		if strings.Contains(f.Text, w) {
			free = true
			break
		}
	}
	if !free {
		return nil
	}

	for _, link := range f.Links {
		for _, w := range rsvpWords {
			if strings.Contains(link.Text, w) {
				return &Detection{
					Method:      types.MethodFreeEventRSVP,
					RedirectURL: link.Href,
				}
			}
		}
	}

	return &Detection{
		Method: types.MethodFreeEventNoRSVP,
		Reason: "free event, no RSVP needed",
	}
}

var seasonWords = []string{"season ticket", "season pass", "membership", "become a member"}

func detectSeasonTickets(f *PageFacts) *Detection {
	for _, link := range f.Links {
		for _, w := range seasonWords {
			if strings.Contains(link.Text, w) {
				return &Detection{
					Method:      types.MethodSeasonTickets,
					RedirectURL: link.Href,
					Reason:      "requires a membership or season-ticket purchase",
				}
			}
		}
	}
	return nil
}

var waitlistWords = []string{"waitlist", "wait list", "notify me", "get notified", "join the waiting list"}

func detectWaitlist(f *PageFacts) *Detection {
	for _, w := range waitlistWords {
		if strings.Contains(f.Text, w) {
			return &Detection{
				Method: types.MethodNotificationSignup,
				Reason: "event is full; joining the notification list",
			}
		}
	}
	return nil
}

var loginWords = []string{"log in to register", "sign in to register", "login required", "create an account to register"}
var memberWords = []string{"members only", "residents only", "resident registration", "member exclusive"}

func detectAccessGate(f *PageFacts) *Detection {
	for _, w := range loginWords {
		if strings.Contains(f.Text, w) {
			return &Detection{
				Method: types.MethodLoginRequired,
				Reason: "registration requires an account login",
			}
		}
	}
	for _, w := range memberWords {
		if strings.Contains(f.Text, w) {
			return &Detection{
				Method: types.MethodMembersOnly,
				Reason: "registration is restricted to members or residents",
			}
		}
	}
	return nil
}

var dropInWords = []string{"drop-in", "drop in", "walk-in", "walk in", "no registration required", "no registration needed", "no sign-up required"}

func detectDropIn(f *PageFacts) *Detection {
	for _, w := range dropInWords {
		if strings.Contains(f.Text, w) {
			return &Detection{
				Method: types.MethodDropIn,
				Reason: "drop-in event, no registration needed",
			}
		}
	}
	return nil
}

var emailHintWords = []string{"register", "rsvp", "sign up", "reserve"}

// detectEmailOnly wants a mailto link that plausibly belongs to the
// registration flow, not a footer contact link: either the link caption
// or the page text must tie email to registering.
func detectEmailOnly(f *PageFacts) *Detection {
	textHint := strings.Contains(f.Text, "to register") ||
		strings.Contains(f.Text, "register by email") ||
		strings.Contains(f.Text, "email to register") ||
		strings.Contains(f.Text, "to rsvp")

	for _, link := range f.Links {
		if !strings.HasPrefix(strings.ToLower(link.Href), "mailto:") {
			continue
		}
		linkHint := false
		for _, w := range emailHintWords {
			if strings.Contains(link.Text, w) {
				linkHint = true
				break
			}
		}
		if linkHint || textHint {
			address := strings.TrimPrefix(strings.ToLower(link.Href), "mailto:")
			if i := strings.IndexAny(address, "?"); i >= 0 {
				address = address[:i]
			}
			return &Detection{
				Method:         types.MethodEmailOnly,
				ContactAddress: address,
				Reason:         "registration is handled over email",
			}
		}
	}
	return nil
}
