// Package adapter implements the registration pipeline: a five-stage
// state machine (navigate, analyze, fill, submit, verify) run against
// one browser page, with site behavior supplied as strategy data rather
// than subclasses.
//
// SiteAdapter implements the Adapter interface from a Profile; adding a
// site means writing a Profile, not a type. The pipeline runner Attempt
// guarantees a single typed RegistrationResult for every input: no stage
// error, panic or malformed input propagates past it.
package adapter

import (
	"context"
	"time"

	"github.com/entrhq/registrar/pkg/analyze"
	"github.com/entrhq/registrar/pkg/browser"
	"github.com/entrhq/registrar/pkg/flows"
	"github.com/entrhq/registrar/pkg/types"
)

// Adapter is the strategy for one site or site family. All five stages
// are required; the compiler enforces completeness for every
// implementation.
type Adapter interface {
	// Name identifies the adapter in results and logs.
	Name() string

	// Domains lists the host glob patterns this adapter claims.
	Domains() []string

	// Navigate loads the event's registration page and validates the
	// landing.
	Navigate(ctx context.Context, page browser.Page, event types.Event) error

	// Analyze produces the attempt's single FormStructure.
	Analyze(ctx context.Context, page browser.Page, event types.Event) (*analyze.FormStructure, error)

	// Fill acts on the FormStructure: filling fields for automatable
	// methods, or resolving the attempt immediately for manual and
	// zero-action methods.
	Fill(ctx context.Context, page browser.Page, form *analyze.FormStructure, profile types.FamilyProfile) (*FillOutcome, error)

	// Submit sends the filled form.
	Submit(ctx context.Context, page browser.Page, form *analyze.FormStructure) error

	// Verify checks for a success signal and extracts a confirmation
	// number.
	Verify(ctx context.Context, page browser.Page, event types.Event) (*Verification, error)
}

// FillOutcome reports what the fill stage did. When Resolved is set the
// attempt is over: no submit or verify runs.
type FillOutcome struct {
	FieldsFilled int
	Resolved     *Resolution
}

// Resolution is a terminal outcome decided before submit: zero-action
// successes and manual-action handoffs.
type Resolution struct {
	Success              bool
	Message              string
	RequiresManualAction bool
	RedirectURL          string
	ContactAddress       string
}

// Verification is the verify stage's finding.
type Verification struct {
	Verified           bool
	ConfirmationNumber string
	Message            string
}

// PageValidation optionally checks that navigation landed where the
// profile expects. Empty tokens skip the corresponding check.
type PageValidation struct {
	TitleToken string
	URLToken   string
}

// Profile is the strategy data one SiteAdapter runs on. Zero values fall
// back to package defaults, so a Profile only states what differs.
type Profile struct {
	// AdapterName is the name stamped on results.
	AdapterName string

	// DomainPatterns are host globs the dispatcher routes here
	// ("*.example.org" matches any subdomain).
	DomainPatterns []string

	// MinFormScore is the form-selection threshold. Scores at or below
	// it mean "no registration form". Kept per-adapter: observed sites
	// need different cutoffs and no unified value is justified yet.
	MinFormScore int

	// SettleDelay pauses after navigation for client-rendered pages.
	SettleDelay time.Duration

	// Validation checks the landed page before analysis.
	Validation *PageValidation

	// VendorHosts overrides the known ticket-vendor list; nil keeps the
	// default.
	VendorHosts []string

	// Rules overrides the ticketing-flow decision list; nil builds the
	// default list from VendorHosts.
	Rules []flows.Rule

	// SubmitSelectors are tried in order when the analyzer found no
	// submit control; nil keeps the default list.
	SubmitSelectors []string

	// SuccessSelectors, SuccessPhrases and SuccessURLTokens drive
	// verification, checked in that order; nil keeps the defaults.
	SuccessSelectors []string
	SuccessPhrases   []string
	SuccessURLTokens []string

	// NavigateTimeout bounds the initial page load.
	NavigateTimeout time.Duration

	// SubmitWaitTimeout bounds the post-submit navigation/success race.
	SubmitWaitTimeout time.Duration
}

// Stage defaults.
var (
	defaultSubmitSelectors = []string{
		`button[type="submit"]`,
		`input[type="submit"]`,
		`button`,
	}

	defaultSuccessSelectors = []string{
		`.confirmation`,
		`.success-message`,
		`.alert-success`,
		`#confirmation`,
		`[class*="thank"]`,
	}

	defaultSuccessPhrases = []string{
		"thank you",
		"successfully registered",
		"registration complete",
		"registration confirmed",
		"you're registered",
		"you are registered",
		"we've received your registration",
		"your confirmation number",
	}

	defaultSuccessURLTokens = []string{
		"thank-you",
		"thankyou",
		"confirmation",
		"success",
		"registered",
	}
)

const (
	defaultNavigateTimeout   = 30 * time.Second
	defaultSubmitWaitTimeout = 15 * time.Second
)

// SiteAdapter implements Adapter from a Profile.
type SiteAdapter struct {
	profile Profile
}

var _ Adapter = (*SiteAdapter)(nil)

// New builds a SiteAdapter, filling profile gaps with defaults.
func New(profile Profile) *SiteAdapter {
	if profile.AdapterName == "" {
		profile.AdapterName = "generic"
	}
	if profile.SubmitSelectors == nil {
		profile.SubmitSelectors = defaultSubmitSelectors
	}
	if profile.SuccessSelectors == nil {
		profile.SuccessSelectors = defaultSuccessSelectors
	}
	if profile.SuccessPhrases == nil {
		profile.SuccessPhrases = defaultSuccessPhrases
	}
	if profile.SuccessURLTokens == nil {
		profile.SuccessURLTokens = defaultSuccessURLTokens
	}
	if profile.Rules == nil {
		profile.Rules = flows.DefaultRules(profile.VendorHosts)
	}
	if profile.NavigateTimeout == 0 {
		profile.NavigateTimeout = defaultNavigateTimeout
	}
	if profile.SubmitWaitTimeout == 0 {
		profile.SubmitWaitTimeout = defaultSubmitWaitTimeout
	}
	return &SiteAdapter{profile: profile}
}

// Name returns the adapter name stamped on results.
func (a *SiteAdapter) Name() string {
	return a.profile.AdapterName
}

// Domains returns the host globs this adapter claims.
func (a *SiteAdapter) Domains() []string {
	return a.profile.DomainPatterns
}
