package flows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/registrar/pkg/browser/browsertest"
	"github.com/entrhq/registrar/pkg/types"
)

func link(text, href string) *browsertest.FakeElement {
	return &browsertest.FakeElement{
		TextContent: text,
		Attrs:       map[string]string{"href": href},
	}
}

func classifyPage(t *testing.T, page *browsertest.FakePage) *Detection {
	t.Helper()
	facts, err := GatherFacts(page)
	require.NoError(t, err)
	return Classifier{Rules: DefaultRules(nil)}.Classify(facts)
}

func TestClassifyVendorRedirect(t *testing.T) {
	page := &browsertest.FakePage{
		URL:  "https://townmuseum.org/events/night-at-the-museum",
		Text: "Night at the Museum. Tickets available now!",
		Elements: map[string][]*browsertest.FakeElement{
			"a[href]": {
				link("About us", "/about"),
				link("Get tickets", "https://www.eventbrite.com/e/night-12345"),
			},
		},
	}

	d := classifyPage(t, page)
	require.NotNil(t, d)
	assert.Equal(t, types.MethodVendorRedirect, d.Method)
	assert.Equal(t, "https://www.eventbrite.com/e/night-12345", d.RedirectURL)
}

func TestClassifyDirectPurchaseOnSameHost(t *testing.T) {
	page := &browsertest.FakePage{
		URL:  "https://towntheater.com/shows/spring-gala",
		Text: "Spring Gala",
		Elements: map[string][]*browsertest.FakeElement{
			"a[href]": {
				link("Buy tickets", "/shows/spring-gala/checkout"),
			},
		},
	}

	d := classifyPage(t, page)
	require.NotNil(t, d)
	assert.Equal(t, types.MethodDirectPurchase, d.Method)
	assert.Equal(t, "/shows/spring-gala/checkout", d.RedirectURL)
}

func TestClassifyVendorBeatsDirectPurchase(t *testing.T) {
	// Rule order: a vendor handoff wins even when purchase language is
	// also present.
	page := &browsertest.FakePage{
		URL:  "https://towntheater.com/shows/spring-gala",
		Text: "Spring Gala",
		Elements: map[string][]*browsertest.FakeElement{
			"a[href]": {
				link("Buy tickets", "https://ticketmaster.com/event/99"),
			},
		},
	}

	d := classifyPage(t, page)
	require.NotNil(t, d)
	assert.Equal(t, types.MethodVendorRedirect, d.Method)
}

func TestClassifyGroupTickets(t *testing.T) {
	page := &browsertest.FakePage{
		URL:  "https://scienceworks.org/exhibits/dinosaurs",
		Text: "Plan your visit",
		Elements: map[string][]*browsertest.FakeElement{
			"a[href]": {
				link("Group sales inquiry", "/groups"),
			},
		},
	}

	d := classifyPage(t, page)
	require.NotNil(t, d)
	assert.Equal(t, types.MethodGroupTickets, d.Method)
}

func TestClassifyFreeEvent(t *testing.T) {
	t.Run("with RSVP link", func(t *testing.T) {
		page := &browsertest.FakePage{
			URL:  "https://library.town.gov/events/story-time",
			Text: "Story Time. Admission is free for all families.",
			Elements: map[string][]*browsertest.FakeElement{
				"a[href]": {link("RSVP here", "/events/story-time/rsvp")},
			},
		}

		d := classifyPage(t, page)
		require.NotNil(t, d)
		assert.Equal(t, types.MethodFreeEventRSVP, d.Method)
		assert.Equal(t, "/events/story-time/rsvp", d.RedirectURL)
	})

	t.Run("without RSVP link", func(t *testing.T) {
		page := &browsertest.FakePage{
			URL:  "https://library.town.gov/events/story-time",
			Text: "Story Time. Free admission, just show up.",
		}

		d := classifyPage(t, page)
		require.NotNil(t, d)
		assert.Equal(t, types.MethodFreeEventNoRSVP, d.Method)
	})
}

func TestClassifySeasonTickets(t *testing.T) {
	page := &browsertest.FakePage{
		URL:  "https://symphony.org/concerts/holiday",
		Text: "Holiday concert",
		Elements: map[string][]*browsertest.FakeElement{
			"a[href]": {link("Become a member for access", "/membership")},
		},
	}

	d := classifyPage(t, page)
	require.NotNil(t, d)
	assert.Equal(t, types.MethodSeasonTickets, d.Method)
}

func TestClassifyWaitlist(t *testing.T) {
	page := &browsertest.FakePage{
		URL:  "https://recreation.town.gov/camps/summer",
		Text: "This session is full. Join the waitlist to be notified of openings.",
	}

	d := classifyPage(t, page)
	require.NotNil(t, d)
	assert.Equal(t, types.MethodNotificationSignup, d.Method)
}

func TestClassifyAccessGates(t *testing.T) {
	t.Run("login wall", func(t *testing.T) {
		page := &browsertest.FakePage{
			URL:  "https://recreation.town.gov/programs/swim",
			Text: "Please log in to register for this program.",
		}

		d := classifyPage(t, page)
		require.NotNil(t, d)
		assert.Equal(t, types.MethodLoginRequired, d.Method)
		assert.NotEmpty(t, d.Reason)
	})

	t.Run("residents only", func(t *testing.T) {
		page := &browsertest.FakePage{
			URL:  "https://recreation.town.gov/programs/swim",
			Text: "Residents only: proof of residency required.",
		}

		d := classifyPage(t, page)
		require.NotNil(t, d)
		assert.Equal(t, types.MethodMembersOnly, d.Method)
	})
}

func TestClassifyDropIn(t *testing.T) {
	page := &browsertest.FakePage{
		URL:  "https://communitycenter.org/events/open-gym",
		Text: "Open gym every Saturday. Drop-in, no registration required.",
	}

	d := classifyPage(t, page)
	require.NotNil(t, d)
	assert.Equal(t, types.MethodDropIn, d.Method)
}

func TestClassifyEmailOnly(t *testing.T) {
	page := &browsertest.FakePage{
		URL:  "https://gardenclub.org/events/seed-swap",
		Text: "To register, email our coordinator.",
		Elements: map[string][]*browsertest.FakeElement{
			"a[href]": {link("coordinator", "mailto:events@gardenclub.org?subject=Seed%20Swap")},
		},
	}

	d := classifyPage(t, page)
	require.NotNil(t, d)
	assert.Equal(t, types.MethodEmailOnly, d.Method)
	assert.Equal(t, "events@gardenclub.org", d.ContactAddress)
}

func TestClassifyFooterMailtoAloneDoesNotMatch(t *testing.T) {
	page := &browsertest.FakePage{
		URL:  "https://communitycenter.org/events/art-class",
		Text: "Art class for kids. Fill out the form below.",
		Elements: map[string][]*browsertest.FakeElement{
			"a[href]": {link("webmaster", "mailto:webmaster@communitycenter.org")},
		},
	}

	assert.Nil(t, classifyPage(t, page))
}

func TestClassifyNothingRecognized(t *testing.T) {
	page := &browsertest.FakePage{
		URL:  "https://communitycenter.org/events/art-class",
		Text: "Art class for kids ages 5-10.",
	}

	assert.Nil(t, classifyPage(t, page))
}
