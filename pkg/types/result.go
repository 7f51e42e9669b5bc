package types

import "time"

// RegistrationMethod identifies the mechanism a site uses to accept
// registrations. The analyzer or ticketing-flow classifier assigns exactly
// one method per attempt; the fill stage dispatches on it.
type RegistrationMethod string

const (
	MethodDirectForm         RegistrationMethod = "direct_form"          // MethodDirectForm is a fillable registration form on the page itself.
	MethodVendorRedirect     RegistrationMethod = "vendor_redirect"      // MethodVendorRedirect hands off to a third-party ticket vendor; always manual.
	MethodDirectPurchase     RegistrationMethod = "direct_purchase"      // MethodDirectPurchase is a same-host "buy tickets" flow.
	MethodGroupTickets       RegistrationMethod = "group_tickets"        // MethodGroupTickets is a group-sales inquiry form filled contact-style.
	MethodFreeEventRSVP      RegistrationMethod = "free_event_rsvp"      // MethodFreeEventRSVP is a free event with an RSVP link to follow.
	MethodFreeEventNoRSVP    RegistrationMethod = "free_event_no_rsvp"   // MethodFreeEventNoRSVP is a free event with no RSVP mechanism at all.
	MethodSeasonTickets      RegistrationMethod = "season_tickets"       // MethodSeasonTickets is a membership or season-ticket purchase; always manual.
	MethodNotificationSignup RegistrationMethod = "notification_signup"  // MethodNotificationSignup is a waitlist or "notify me" email capture.
	MethodLoginRequired      RegistrationMethod = "login_required"       // MethodLoginRequired is a flow gated behind an account login.
	MethodMembersOnly        RegistrationMethod = "members_only"         // MethodMembersOnly is gated to residents or members.
	MethodDropIn             RegistrationMethod = "drop_in"              // MethodDropIn needs no registration; showing up is enough.
	MethodEmailOnly          RegistrationMethod = "email_only"           // MethodEmailOnly registers via a mailto contact; always manual.
	MethodNone               RegistrationMethod = "none"                 // MethodNone means no registration mechanism was found.
)

// OutcomeClass groups registration methods by what the pipeline must do
// once the method is known.
type OutcomeClass int

const (
	// OutcomeFillAndSubmit methods proceed through fill, submit and verify.
	OutcomeFillAndSubmit OutcomeClass = iota

	// OutcomeAutoSuccess methods succeed without touching the DOM because
	// no registration action is needed.
	OutcomeAutoSuccess

	// OutcomeManual methods terminate immediately with a manual-action
	// failure.
	OutcomeManual
)

// Class maps a method to its outcome class. Unknown methods are treated
// as manual, which is the safe terminal state.
func (m RegistrationMethod) Class() OutcomeClass {
	switch m {
	case MethodDirectForm, MethodDirectPurchase, MethodGroupTickets,
		MethodFreeEventRSVP, MethodNotificationSignup:
		return OutcomeFillAndSubmit
	case MethodDropIn, MethodFreeEventNoRSVP:
		return OutcomeAutoSuccess
	default:
		return OutcomeManual
	}
}

// FailureKind classifies why an attempt failed. Expected terminal states
// (vendor handoffs, login walls) are not failures of the pipeline itself;
// they surface as FailureManualRequired with a human-readable reason.
type FailureKind string

const (
	FailureNone           FailureKind = ""                    // FailureNone is set on successful results.
	FailureNoForm         FailureKind = "no_form_detected"    // FailureNoForm means no registration mechanism was found on the page.
	FailureFormFill       FailureKind = "form_fill_failed"    // FailureFormFill means no classified field could be filled.
	FailureFormSubmit     FailureKind = "form_submit_failed"  // FailureFormSubmit means no submit control could be clicked.
	FailureVerification   FailureKind = "verification_failed" // FailureVerification means submission produced no recognizable success signal.
	FailureAdapterError   FailureKind = "adapter_error"       // FailureAdapterError covers navigation failures, invalid pages and unexpected errors.
	FailureManualRequired FailureKind = "manual_required"     // FailureManualRequired marks expected flows the registrar cannot automate.
)

// RegistrationResult is the single value an attempt produces. It is
// immutable once built; nothing else survives past the attempt.
type RegistrationResult struct {
	// AttemptID uniquely identifies this attempt across concurrent runs.
	AttemptID string `json:"attempt_id"`

	// Success reports whether the family is registered (or no registration
	// was needed).
	Success bool `json:"success"`

	// Method is the registration mechanism the attempt resolved to.
	Method RegistrationMethod `json:"method"`

	// Failure is the failure classification; empty on success.
	Failure FailureKind `json:"failure,omitempty"`

	// Message is a human-readable description of the outcome.
	Message string `json:"message"`

	// ConfirmationNumber is the extracted confirmation code, if any.
	ConfirmationNumber string `json:"confirmation_number,omitempty"`

	// RequiresManualAction is true when a human must finish (or start)
	// the registration. Every failure sets it; zero-action successes and
	// completed registrations do not.
	RequiresManualAction bool `json:"requires_manual_action"`

	// RedirectURL carries a vendor or RSVP destination discovered during
	// the attempt, for a human to follow.
	RedirectURL string `json:"redirect_url,omitempty"`

	// ContactAddress carries an email address for email-only flows.
	ContactAddress string `json:"contact_address,omitempty"`

	// AdapterName names the adapter that ran the attempt.
	AdapterName string `json:"adapter_name"`

	// TimeTaken is the wall-clock duration of the attempt.
	TimeTaken time.Duration `json:"time_taken"`
}
