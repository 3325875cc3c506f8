// Package wizard drives the multi-step laundry order and payment flow.
package wizard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/washday/laundry-backend/internal/pricing"
	"github.com/washday/laundry-backend/pkg/enums"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
)

// Phase tracks where the wizard is in the payment handoff.
type Phase string

const (
	PhaseEditing         Phase = "editing"
	PhaseAwaitingPayment Phase = "awaiting_payment"
	PhaseSucceeded       Phase = "succeeded"
)

var (
	ErrCompleted       = pkgerrors.New(pkgerrors.CodeStateConflict, "order already placed")
	ErrForwardJump     = pkgerrors.New(pkgerrors.CodeStateConflict, "cannot jump ahead of the current step")
	ErrNotOnReview     = pkgerrors.New(pkgerrors.CodeStateConflict, "payment is only available on the review step")
	ErrNoPendingIntent = pkgerrors.New(pkgerrors.CodeStateConflict, "no payment is awaiting confirmation")
	ErrNotCompleted    = pkgerrors.New(pkgerrors.CodeStateConflict, "order has not been placed yet")
)

// Outcome is stored once payment succeeds and never changes afterwards,
// apart from the side-effect annotations the service adds.
type Outcome struct {
	ConfirmationMessage string     `json:"confirmation_message"`
	OrderTotal          string     `json:"order_total"`
	AmountCents         int64      `json:"amount_cents"`
	PaymentIntentID     string     `json:"payment_intent_id"`
	CompletedAt         time.Time  `json:"completed_at"`
	OrderID             *uuid.UUID `json:"order_id,omitempty"`
	AccountNotice       string     `json:"account_notice,omitempty"`
}

// Wizard is the serializable state machine behind a wizard session.
type Wizard struct {
	Draft           Draft       `json:"draft"`
	Authenticated   bool        `json:"authenticated"`
	StepIndex       int         `json:"step_index"`
	Errors          FieldErrors `json:"errors,omitempty"`
	Banner          string      `json:"banner,omitempty"`
	Phase           Phase       `json:"phase"`
	ClientSecret    string      `json:"client_secret,omitempty"`
	PaymentIntentID string      `json:"payment_intent_id,omitempty"`
	AmountCents     int64       `json:"amount_cents,omitempty"`
	Total           string      `json:"total,omitempty"`
	Outcome         *Outcome    `json:"outcome,omitempty"`
}

// New starts a wizard on its first step with default preferences.
func New(authenticated bool) *Wizard {
	return &Wizard{
		Draft:         NewDraft(),
		Authenticated: authenticated,
		Errors:        FieldErrors{},
		Phase:         PhaseEditing,
	}
}

func (w *Wizard) Steps() []Step {
	return Steps(w.Authenticated)
}

func (w *Wizard) CurrentStep() Step {
	steps := w.Steps()
	idx := w.StepIndex
	if idx < 0 {
		idx = 0
	}
	if idx >= len(steps) {
		idx = len(steps) - 1
	}
	return steps[idx]
}

func (w *Wizard) LastIndex() int {
	return len(w.Steps()) - 1
}

func (w *Wizard) Completed() bool {
	return w.Phase == PhaseSucceeded
}

// Next validates the current step and advances when it is clean. The error
// map is replaced, so it only ever names fields of the step just checked.
func (w *Wizard) Next() error {
	if err := w.beginTransition(); err != nil {
		return err
	}
	w.Errors = ValidateStep(w.CurrentStep().ID, w.Draft)
	if len(w.Errors) > 0 {
		return nil
	}
	if w.StepIndex < w.LastIndex() {
		w.StepIndex++
	}
	return nil
}

// Previous moves back one step without validating.
func (w *Wizard) Previous() error {
	if err := w.beginTransition(); err != nil {
		return err
	}
	if w.StepIndex > 0 {
		w.StepIndex--
	}
	return nil
}

// JumpTo returns to an already visited step.
func (w *Wizard) JumpTo(index int) error {
	if w.Completed() {
		return ErrCompleted
	}
	if index < 0 || index > w.StepIndex {
		return ErrForwardJump
	}
	if err := w.beginTransition(); err != nil {
		return err
	}
	w.StepIndex = index
	return nil
}

// Set merges one field change into the draft.
func (w *Wizard) Set(field, value string) error {
	if w.Completed() {
		return ErrCompleted
	}
	if err := w.Draft.Set(field, value); err != nil {
		return err
	}
	return w.beginTransition()
}

// PreparePayment validates the whole draft and asks the gateway for an intent.
func (w *Wizard) PreparePayment(ctx context.Context, gateway Gateway, estimator *pricing.Estimator) (Attempt, error) {
	if w.Completed() {
		return Attempt{}, ErrCompleted
	}
	if w.CurrentStep().ID != StepReviewPayment {
		return Attempt{}, ErrNotOnReview
	}
	if err := w.beginTransition(); err != nil {
		return Attempt{}, err
	}

	if errs := ValidateAll(w.Draft, w.Authenticated); len(errs) > 0 {
		w.Errors = errs
		return Attempt{Outcome: AttemptInvalid}, nil
	}

	amount, err := estimator.Estimate(w.Draft.Weight)
	if err != nil {
		return Attempt{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "cannot price order")
	}

	intent, err := gateway.CreateIntent(ctx, IntentRequest{
		AmountCents: pricing.MinorUnits(amount),
		Email:       strings.TrimSpace(w.Draft.Email),
		Offer:       w.Offer(),
		Name:        strings.TrimSpace(w.Draft.Name),
		Phone:       strings.TrimSpace(w.Draft.Phone),
	})
	if err == nil && intent.ClientSecret == "" {
		err = fmt.Errorf("payment intent %q returned without client secret", intent.ID)
	}
	if err != nil {
		w.Banner = BannerIntentFailed
		return Attempt{Outcome: AttemptFailed, Cause: err}, nil
	}

	w.Phase = PhaseAwaitingPayment
	w.ClientSecret = intent.ClientSecret
	w.PaymentIntentID = intent.ID
	w.AmountCents = pricing.MinorUnits(amount)
	w.Total = pricing.FormatAmount(amount)
	return Attempt{Outcome: AttemptReady}, nil
}

// ConfirmPayment submits the captured details against the pending intent.
// The gateway call is detached from ctx cancellation: once a charge is in
// flight its answer is awaited.
func (w *Wizard) ConfirmPayment(ctx context.Context, gateway Gateway, details PaymentDetails) (Attempt, error) {
	if w.Completed() {
		return Attempt{}, ErrCompleted
	}
	if w.Phase != PhaseAwaitingPayment || w.ClientSecret == "" {
		return Attempt{}, ErrNoPendingIntent
	}
	if strings.TrimSpace(details.PaymentMethodID) == "" {
		return Attempt{}, pkgerrors.New(pkgerrors.CodeValidation, "payment method required").
			WithDetails(map[string]string{"payment_method_id": "is required"})
	}
	w.Banner = ""

	result, err := gateway.Confirm(context.WithoutCancel(ctx), ConfirmRequest{
		ClientSecret:    w.ClientSecret,
		PaymentMethodID: strings.TrimSpace(details.PaymentMethodID),
		BillingName:     firstNonEmpty(details.BillingName, w.Draft.Name),
		BillingEmail:    firstNonEmpty(details.BillingEmail, w.Draft.Email),
		BillingPhone:    firstNonEmpty(details.BillingPhone, w.Draft.Phone),
	})
	if err != nil {
		w.Banner = bannerFor(err)
		return Attempt{Outcome: AttemptFailed, Cause: err}, nil
	}
	if result.Status != IntentStatusSucceeded {
		w.Banner = firstNonEmpty(result.ErrorMessage, BannerPaymentFailed)
		return Attempt{Outcome: AttemptDeclined, Cause: fmt.Errorf("payment intent status %q", result.Status)}, nil
	}

	intentID := w.PaymentIntentID
	if result.IntentID != "" {
		intentID = result.IntentID
	}
	w.Phase = PhaseSucceeded
	w.ClientSecret = ""
	w.PaymentIntentID = intentID
	w.Errors = FieldErrors{}
	w.Outcome = &Outcome{
		ConfirmationMessage: ConfirmationMessage(w.Draft, w.Total),
		OrderTotal:          w.Total,
		AmountCents:         w.AmountCents,
		PaymentIntentID:     intentID,
	}
	return Attempt{Outcome: AttemptSucceeded}, nil
}

// Offer is the short human-readable summary sent to the processor and email.
func (w *Wizard) Offer() string {
	return fmt.Sprintf("%s lbs laundry (%s)", w.Draft.Weight, w.Draft.ServiceType)
}

// beginTransition rejects terminal wizards and clears transient state. A
// pending intent is dropped because the amount may no longer match.
func (w *Wizard) beginTransition() error {
	if w.Completed() {
		return ErrCompleted
	}
	if w.Errors == nil {
		w.Errors = FieldErrors{}
	}
	w.Banner = ""
	if w.Phase == PhaseAwaitingPayment {
		w.Phase = PhaseEditing
		w.ClientSecret = ""
		w.PaymentIntentID = ""
		w.AmountCents = 0
		w.Total = ""
	}
	return nil
}

// ConfirmationMessage renders the text shown on the result screen.
func ConfirmationMessage(d Draft, total string) string {
	when := "process your order as soon as possible"
	if d.SchedulingOption == enums.SchedulingSchedule {
		when = "schedule your service for " + strings.TrimSpace(d.ScheduledDate)
	}
	return fmt.Sprintf(
		"Thank you, %s! Your %s order for %s lbs of laundry has been placed successfully. We'll %s. Your total is $%s.",
		strings.TrimSpace(d.Name), d.ServiceType, d.Weight, when, total,
	)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
