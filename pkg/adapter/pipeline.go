package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/entrhq/registrar/pkg/browser"
	"github.com/entrhq/registrar/pkg/logging"
	"github.com/entrhq/registrar/pkg/types"
)

// Attempt runs the full pipeline for one event against one page and
// returns the attempt's single RegistrationResult. It never panics and
// never returns an error: every stage failure, unexpected error or
// recovered panic becomes a typed failure result.
//
// Stages run strictly sequentially; each depends on the DOM state the
// previous one left behind. The page must be exclusively owned by this
// attempt.
func Attempt(ctx context.Context, page browser.Page, a Adapter, event types.Event, profile types.FamilyProfile, log *logging.Logger) (result types.RegistrationResult) {
	b := newResultBuilder(a.Name())

	defer func() {
		if r := recover(); r != nil {
			if log != nil {
				log.Errorf("attempt %s panicked: %v", b.attemptID, r)
			}
			result = b.failure(types.FailureAdapterError, fmt.Sprintf("unexpected error: %v", r))
		}
	}()

	if log != nil {
		log.Infof("attempt %s: %s adapter, event %q, url %s", b.attemptID, a.Name(), event.Title, event.RegistrationURL)
	}

	if err := a.Navigate(ctx, page, event); err != nil {
		return b.failure(types.FailureAdapterError, fmt.Sprintf("navigation: %v", err))
	}

	form, err := a.Analyze(ctx, page, event)
	if err != nil {
		return b.failure(types.FailureAdapterError, fmt.Sprintf("analysis: %v", err))
	}
	if form == nil || form.Method == types.MethodNone {
		b.method = types.MethodNone
		return b.failure(types.FailureNoForm, "no registration mechanism found on the page")
	}
	b.method = form.Method

	outcome, err := a.Fill(ctx, page, form, profile)
	if err != nil {
		return b.failure(types.FailureFormFill, fmt.Sprintf("fill: %v", err))
	}
	if outcome.Resolved != nil {
		return b.resolved(outcome.Resolved)
	}

	if err := a.Submit(ctx, page, form); err != nil {
		return b.failure(types.FailureFormSubmit, fmt.Sprintf("submit: %v", err))
	}

	verification, err := a.Verify(ctx, page, event)
	if err != nil {
		return b.failure(types.FailureVerification, fmt.Sprintf("verification: %v", err))
	}
	if !verification.Verified {
		return b.failure(types.FailureVerification, "submission produced no recognizable success signal")
	}

	if log != nil {
		log.Infof("attempt %s succeeded, confirmation %q", b.attemptID, verification.ConfirmationNumber)
	}
	return b.success(verification)
}

// resultBuilder normalizes every outcome into the one result shape.
type resultBuilder struct {
	attemptID string
	adapter   string
	method    types.RegistrationMethod
	start     time.Time
}

func newResultBuilder(adapterName string) *resultBuilder {
	return &resultBuilder{
		attemptID: uuid.New().String(),
		adapter:   adapterName,
		method:    types.MethodNone,
		start:     time.Now(),
	}
}

func (b *resultBuilder) base() types.RegistrationResult {
	return types.RegistrationResult{
		AttemptID:   b.attemptID,
		Method:      b.method,
		AdapterName: b.adapter,
		TimeTaken:   time.Since(b.start),
	}
}

// failure builds a failed result. Every failure requires manual action:
// the caller owns retry policy, and a human is the only fallback.
func (b *resultBuilder) failure(kind types.FailureKind, message string) types.RegistrationResult {
	r := b.base()
	r.Failure = kind
	r.Message = message
	r.RequiresManualAction = true
	return r
}

// resolved builds a result from a fill-stage resolution: zero-action
// successes and manual handoffs.
func (b *resultBuilder) resolved(res *Resolution) types.RegistrationResult {
	r := b.base()
	r.Success = res.Success
	r.Message = res.Message
	r.RequiresManualAction = res.RequiresManualAction
	r.RedirectURL = res.RedirectURL
	r.ContactAddress = res.ContactAddress
	if !res.Success {
		r.Failure = types.FailureManualRequired
		r.RequiresManualAction = true
	}
	return r
}

// success builds a verified success result.
func (b *resultBuilder) success(v *Verification) types.RegistrationResult {
	r := b.base()
	r.Success = true
	r.Message = v.Message
	r.ConfirmationNumber = v.ConfirmationNumber
	return r
}
