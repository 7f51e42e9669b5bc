package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/entrhq/registrar/pkg/analyze"
	"github.com/entrhq/registrar/pkg/browser"
	"github.com/entrhq/registrar/pkg/classify"
	"github.com/entrhq/registrar/pkg/flows"
	"github.com/entrhq/registrar/pkg/types"
)

// Navigate loads the registration URL, waits out any configured settle
// delay, and validates the landing page against the profile.
func (a *SiteAdapter) Navigate(ctx context.Context, page browser.Page, event types.Event) error {
	err := page.Navigate(event.RegistrationURL, browser.NavigateOptions{
		WaitUntil: "domcontentloaded",
		Timeout:   a.profile.NavigateTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", event.RegistrationURL, err)
	}

	if a.profile.SettleDelay > 0 {
		select {
		case <-time.After(a.profile.SettleDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if v := a.profile.Validation; v != nil {
		if v.TitleToken != "" {
			title, err := page.Title()
			if err != nil {
				return fmt.Errorf("landing validation failed: %w", err)
			}
			if !strings.Contains(strings.ToLower(title), strings.ToLower(v.TitleToken)) {
				return fmt.Errorf("landed on unexpected page: title %q lacks %q", title, v.TitleToken)
			}
		}
		if v.URLToken != "" && !strings.Contains(strings.ToLower(page.CurrentURL()), strings.ToLower(v.URLToken)) {
			return fmt.Errorf("landed on unexpected page: url %q lacks %q", page.CurrentURL(), v.URLToken)
		}
	}

	return nil
}

// Analyze runs the ticketing-flow decision list first, falling back to
// form analysis when no non-form mechanism is recognized.
func (a *SiteAdapter) Analyze(ctx context.Context, page browser.Page, event types.Event) (*analyze.FormStructure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	facts, err := flows.GatherFacts(page)
	if err != nil {
		return nil, fmt.Errorf("gathering page facts: %w", err)
	}

	if d := (flows.Classifier{Rules: a.profile.Rules}).Classify(facts); d != nil {
		return &analyze.FormStructure{
			Method:         d.Method,
			RedirectURL:    d.RedirectURL,
			ContactAddress: d.ContactAddress,
			Reason:         d.Reason,
		}, nil
	}

	structure, err := analyze.Analyzer{MinScore: a.profile.MinFormScore}.Analyze(page)
	if err != nil {
		return nil, fmt.Errorf("form analysis: %w", err)
	}
	return structure, nil
}

// Fill dispatches on the registration method. Automatable methods fill
// DOM fields; manual and zero-action methods resolve the attempt here.
func (a *SiteAdapter) Fill(ctx context.Context, page browser.Page, form *analyze.FormStructure, profile types.FamilyProfile) (*FillOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch form.Method {
	case types.MethodDirectForm:
		return a.fillClassifiedFields(page, form, profile)

	case types.MethodDirectPurchase, types.MethodGroupTickets, types.MethodFreeEventRSVP:
		return a.followAndFill(ctx, page, form, profile)

	case types.MethodNotificationSignup:
		return a.fillNotificationSignup(page, profile)

	case types.MethodDropIn, types.MethodFreeEventNoRSVP:
		message := form.Reason
		if message == "" {
			message = "no registration needed"
		}
		return &FillOutcome{Resolved: &Resolution{
			Success: true,
			Message: message,
		}}, nil

	default:
		// Vendor redirects, login walls, memberships, email-only flows:
		// expected terminal states a human must finish.
		message := form.Reason
		if message == "" {
			message = fmt.Sprintf("method %s requires manual action", form.Method)
		}
		return &FillOutcome{Resolved: &Resolution{
			Message:              message,
			RequiresManualAction: true,
			RedirectURL:          form.RedirectURL,
			ContactAddress:       form.ContactAddress,
		}}, nil
	}
}

// fieldValue maps a semantic field type to the profile value that fills
// it. An empty value means the field is skipped.
func fieldValue(fieldType classify.FieldType, profile types.FamilyProfile) string {
	switch fieldType {
	case classify.FieldFirstName:
		first, _ := splitName(profile.Parent1Name)
		return first
	case classify.FieldLastName:
		_, last := splitName(profile.Parent1Name)
		return last
	case classify.FieldName:
		return profile.Parent1Name
	case classify.FieldEmail:
		return profile.Parent1Email
	case classify.FieldPhone:
		return profile.EmergencyContact
	case classify.FieldEmergency:
		return profile.EmergencyContact
	case classify.FieldChildren:
		return profile.ChildrenSummary()
	default:
		return ""
	}
}

// splitName splits a full name into a first token and the remainder.
func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// fillClassifiedFields types profile values into every classified field
// present in the structure. Filling succeeds iff at least one field was
// filled.
func (a *SiteAdapter) fillClassifiedFields(page browser.Page, form *analyze.FormStructure, profile types.FamilyProfile) (*FillOutcome, error) {
	filled := 0
	for fieldType, c := range form.Fields {
		value := fieldValue(fieldType, profile)
		if value == "" {
			continue
		}

		el, err := page.Query(c.Selector)
		if err != nil || el == nil {
			continue
		}
		if err := el.Type(value); err != nil {
			continue
		}
		filled++
	}

	if filled == 0 {
		return nil, fmt.Errorf("no classified field could be filled")
	}
	return &FillOutcome{FieldsFilled: filled}, nil
}

// followAndFill follows a same-flow link (buy tickets, RSVP, group
// sales), re-analyzes the landed page for a form, and fills it.
func (a *SiteAdapter) followAndFill(ctx context.Context, page browser.Page, form *analyze.FormStructure, profile types.FamilyProfile) (*FillOutcome, error) {
	if form.RedirectURL == "" {
		return nil, fmt.Errorf("method %s has no link to follow", form.Method)
	}

	target := resolveAgainst(page.CurrentURL(), form.RedirectURL)
	if err := page.Navigate(target, browser.NavigateOptions{
		WaitUntil: "domcontentloaded",
		Timeout:   a.profile.NavigateTimeout,
	}); err != nil {
		return nil, fmt.Errorf("following %s link: %w", form.Method, err)
	}

	landed, err := analyze.Analyzer{MinScore: a.profile.MinFormScore}.Analyze(page)
	if err != nil {
		return nil, fmt.Errorf("analyzing landed page: %w", err)
	}
	if !landed.HasRegistrationForm {
		return &FillOutcome{Resolved: &Resolution{
			Message:              fmt.Sprintf("followed %s link but found no fillable form", form.Method),
			RequiresManualAction: true,
			RedirectURL:          target,
		}}, nil
	}

	// Adopt the landed form so submit and verify act on it.
	form.Fields = landed.Fields
	form.FormSelector = landed.FormSelector
	form.SubmitSelector = landed.SubmitSelector
	form.HasRegistrationForm = true

	return a.fillClassifiedFields(page, form, profile)
}

// resolveAgainst resolves a possibly-relative href against the current
// page URL. Unparseable inputs pass through untouched.
func resolveAgainst(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(u).String()
}

// notificationSelectors locate the email capture of a waitlist or
// notify-me widget.
var notificationSelectors = []string{
	`input[type="email"]`,
	`input[name*="email"]`,
	`input[placeholder*="email"]`,
}

// fillNotificationSignup fills only an email address; waitlists want
// nothing else.
func (a *SiteAdapter) fillNotificationSignup(page browser.Page, profile types.FamilyProfile) (*FillOutcome, error) {
	if profile.Parent1Email == "" {
		return nil, fmt.Errorf("notification signup needs an email and the profile has none")
	}

	for _, selector := range notificationSelectors {
		el, err := page.Query(selector)
		if err != nil || el == nil {
			continue
		}
		if err := el.Type(profile.Parent1Email); err != nil {
			continue
		}
		return &FillOutcome{FieldsFilled: 1}, nil
	}

	return nil, fmt.Errorf("no email input found for notification signup")
}

// Submit clicks the form's submit control and races post-click
// navigation against the appearance of a success element. Both waits
// timing out is not fatal: many forms submit through background
// requests and mutate the page in place.
func (a *SiteAdapter) Submit(ctx context.Context, page browser.Page, form *analyze.FormStructure) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	selectors := a.profile.SubmitSelectors
	if form.SubmitSelector != "" {
		selectors = append([]string{form.SubmitSelector}, selectors...)
	}

	var clicked bool
	for _, selector := range selectors {
		el, err := page.Query(selector)
		if err != nil || el == nil {
			continue
		}
		if err := el.Click(); err != nil {
			continue
		}
		clicked = true
		break
	}
	if !clicked {
		return fmt.Errorf("no submit control could be clicked")
	}

	a.awaitSubmitOutcome(ctx, page)
	return nil
}

// awaitSubmitOutcome waits for whichever comes first: a navigation, a
// success element, context cancellation, or the bounded timeout.
func (a *SiteAdapter) awaitSubmitOutcome(ctx context.Context, page browser.Page) {
	timeout := a.profile.SubmitWaitTimeout
	done := make(chan struct{}, 2)

	go func() {
		_ = page.WaitForNavigation(timeout)
		done <- struct{}{}
	}()
	go func() {
		for _, selector := range a.profile.SuccessSelectors {
			if el, err := page.WaitForSelector(selector, timeout/time.Duration(len(a.profile.SuccessSelectors)+1)); err == nil && el != nil {
				break
			}
		}
		done <- struct{}{}
	}()

	select {
	case <-done:
	case <-ctx.Done():
	case <-time.After(timeout):
	}
}

// Verify checks success selectors, then success phrases in the page
// text, then URL tokens; the first hit wins and feeds confirmation
// extraction.
func (a *SiteAdapter) Verify(ctx context.Context, page browser.Page, event types.Event) (*Verification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pageText, textErr := page.PageText()

	for _, selector := range a.profile.SuccessSelectors {
		el, err := page.Query(selector)
		if err != nil || el == nil {
			continue
		}
		matched, _ := el.Text()
		return a.verified(matched, pageText), nil
	}

	if textErr == nil {
		lower := strings.ToLower(pageText)
		for _, phrase := range a.profile.SuccessPhrases {
			if strings.Contains(lower, phrase) {
				return a.verified(pageText, pageText), nil
			}
		}
	}

	currentURL := strings.ToLower(page.CurrentURL())
	for _, token := range a.profile.SuccessURLTokens {
		if strings.Contains(currentURL, token) {
			return a.verified(pageText, pageText), nil
		}
	}

	return &Verification{Verified: false}, nil
}

// verified builds a positive verification, extracting a confirmation
// number from the matched text first and the full page text second.
func (a *SiteAdapter) verified(matched, pageText string) *Verification {
	confirmation := classify.ExtractConfirmationNumber(matched)
	if confirmation == "" {
		confirmation = classify.ExtractConfirmationNumber(pageText)
	}
	return &Verification{
		Verified:           true,
		ConfirmationNumber: confirmation,
		Message:            "registration confirmed",
	}
}
