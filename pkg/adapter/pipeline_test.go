package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/registrar/pkg/analyze"
	"github.com/entrhq/registrar/pkg/browser"
	"github.com/entrhq/registrar/pkg/browser/browsertest"
	"github.com/entrhq/registrar/pkg/types"
)

var testEvent = types.Event{
	Title:           "Family Science Night",
	RegistrationURL: "https://communitycenter.org/events/science-night",
}

var testProfile = types.FamilyProfile{
	Parent1Name:      "Jordan Rivera",
	Parent1Email:     "jordan.rivera@example.com",
	Children:         []types.Child{{Name: "Sam", Age: 7}, {Name: "Alex", Age: 10}},
	EmergencyContact: "555-0142",
}

const registrationFormHTML = `<form action="/register">
	<p>Register for this event</p>
	<input type="text" name="first_name">
	<input type="text" name="last_name">
	<input type="email" name="email">
	<button type="submit">Register</button>
</form>`

func queriedElement(t *testing.T, page *browsertest.FakePage, selector string) *browsertest.FakeElement {
	t.Helper()
	el, err := page.Query(selector)
	require.NoError(t, err)
	require.NotNil(t, el, "element %q not on page", selector)
	return el.(*browsertest.FakeElement)
}

func formPage(pageText string) *browsertest.FakePage {
	return &browsertest.FakePage{
		URL:  testEvent.RegistrationURL,
		Text: pageText,
		Elements: map[string][]*browsertest.FakeElement{
			"form":                      {{HTMLContent: registrationFormHTML}},
			`form [name="first_name"]`:  {{}},
			`form [name="last_name"]`:   {{}},
			`form [name="email"]`:       {{}},
			"form button":               {{}},
		},
	}
}

func TestAttemptDirectFormSuccess(t *testing.T) {
	page := formPage("Register for this event. Thank you! Your confirmation number is ABC123XY.")

	result := Attempt(context.Background(), page, Generic(), testEvent, testProfile, nil)

	assert.True(t, result.Success)
	assert.Equal(t, types.MethodDirectForm, result.Method)
	assert.Equal(t, "ABC123XY", result.ConfirmationNumber)
	assert.False(t, result.RequiresManualAction)
	assert.Equal(t, "generic", result.AdapterName)
	assert.NotEmpty(t, result.AttemptID)

	// The name was split and typed into the right controls.
	assert.Equal(t, []string{"Jordan"}, queriedElement(t, page, `form [name="first_name"]`).TypedIn)
	assert.Equal(t, []string{"Rivera"}, queriedElement(t, page, `form [name="last_name"]`).TypedIn)
	assert.Equal(t, []string{"jordan.rivera@example.com"}, queriedElement(t, page, `form [name="email"]`).TypedIn)

	assert.True(t, queriedElement(t, page, "form button").Clicked)
}

func TestAttemptVendorRedirect(t *testing.T) {
	page := &browsertest.FakePage{
		URL:  "https://townmuseum.org/events/gala",
		Text: "Tickets on sale now",
		Elements: map[string][]*browsertest.FakeElement{
			"a[href]": {{
				TextContent: "Get tickets",
				Attrs:       map[string]string{"href": "https://www.eventbrite.com/e/gala-42"},
			}},
		},
	}

	result := Attempt(context.Background(), page, Generic(), testEvent, testProfile, nil)

	assert.False(t, result.Success)
	assert.True(t, result.RequiresManualAction)
	assert.Equal(t, types.MethodVendorRedirect, result.Method)
	assert.Equal(t, types.FailureManualRequired, result.Failure)
	assert.Equal(t, "https://www.eventbrite.com/e/gala-42", result.RedirectURL)
}

func TestAttemptDropInIsZeroActionSuccess(t *testing.T) {
	page := &browsertest.FakePage{
		URL:  "https://communitycenter.org/events/open-gym",
		Text: "Open gym: drop-in, no registration required.",
		Elements: map[string][]*browsertest.FakeElement{
			"form": {{HTMLContent: `<form><input type="text" name="q"></form>`}},
		},
	}

	result := Attempt(context.Background(), page, Generic(), testEvent, testProfile, nil)

	assert.True(t, result.Success)
	assert.Equal(t, types.MethodDropIn, result.Method)
	assert.False(t, result.RequiresManualAction)
	assert.False(t, page.AnyMutation(), "zero-action success must not touch the DOM")
}

func TestAttemptNoFormDetected(t *testing.T) {
	page := &browsertest.FakePage{
		URL:  "https://communitycenter.org/events/art-class",
		Text: "Art class for kids ages 5-10.",
	}

	result := Attempt(context.Background(), page, Generic(), testEvent, testProfile, nil)

	assert.False(t, result.Success)
	assert.Equal(t, types.FailureNoForm, result.Failure)
	assert.True(t, result.RequiresManualAction)
}

func TestAttemptNavigationFailure(t *testing.T) {
	page := &browsertest.FakePage{
		URL:         "https://communitycenter.org/down",
		NavigateErr: assert.AnError,
	}

	result := Attempt(context.Background(), page, Generic(), testEvent, testProfile, nil)

	assert.False(t, result.Success)
	assert.Equal(t, types.FailureAdapterError, result.Failure)
	assert.True(t, result.RequiresManualAction)
}

func TestAttemptVerificationFailure(t *testing.T) {
	page := formPage("Register for this event. An error occurred, please try again.")

	result := Attempt(context.Background(), page, Generic(), testEvent, testProfile, nil)

	assert.False(t, result.Success)
	assert.Equal(t, types.FailureVerification, result.Failure)
	assert.True(t, result.RequiresManualAction)
}

// panickyAdapter blows up mid-pipeline to prove Attempt converts panics.
type panickyAdapter struct{ *SiteAdapter }

func (p panickyAdapter) Analyze(ctx context.Context, page browser.Page, event types.Event) (*analyze.FormStructure, error) {
	panic("boom")
}

func TestAttemptNeverPanics(t *testing.T) {
	page := &browsertest.FakePage{URL: "https://communitycenter.org/x"}

	result := Attempt(context.Background(), page, panickyAdapter{Generic()}, testEvent, testProfile, nil)

	assert.False(t, result.Success)
	assert.Equal(t, types.FailureAdapterError, result.Failure)
	assert.True(t, result.RequiresManualAction)
	assert.Contains(t, result.Message, "boom")
}

func TestAttemptCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	page := formPage("Register for this event")
	result := Attempt(ctx, page, Generic(), testEvent, testProfile, nil)

	assert.False(t, result.Success)
	assert.Equal(t, types.FailureAdapterError, result.Failure)
}

func TestAttemptRecordsElapsedTime(t *testing.T) {
	page := formPage("Thank you! You are registered.")

	result := Attempt(context.Background(), page, Generic(), testEvent, testProfile, nil)

	assert.GreaterOrEqual(t, result.TimeTaken.Nanoseconds(), int64(0))
	assert.True(t, result.Success)
}
