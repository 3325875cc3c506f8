package wizard

import (
	"context"
	"strings"

	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
)

const (
	BannerIntentFailed  = "Failed to initialize payment. Please try again."
	BannerPaymentFailed = "Payment failed. Please try again."
)

// IntentStatusSucceeded is the only confirmation status that completes an order.
const IntentStatusSucceeded = "succeeded"

// IntentRequest asks the processor for a payment intent.
type IntentRequest struct {
	AmountCents int64
	Email       string
	Offer       string
	Name        string
	Phone       string
}

// Intent is the processor's handle for a pending charge.
type Intent struct {
	ID           string
	ClientSecret string
}

// ConfirmRequest carries the captured payment details.
type ConfirmRequest struct {
	ClientSecret    string
	PaymentMethodID string
	BillingName     string
	BillingEmail    string
	BillingPhone    string
}

// ConfirmResult reports the processor's view of the intent after confirmation.
type ConfirmResult struct {
	IntentID     string
	Status       string
	ErrorMessage string
}

// Gateway is the payment processor seen from the wizard.
type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (Intent, error)
	Confirm(ctx context.Context, req ConfirmRequest) (ConfirmResult, error)
}

// PaymentDetails is what the payment capture surface submits.
type PaymentDetails struct {
	PaymentMethodID string  `json:"payment_method_id" validate:"required"`
	BillingName     string  `json:"billing_name"`
	BillingEmail    string  `json:"billing_email"`
	BillingPhone    string  `json:"billing_phone"`
	AccountPassword *string `json:"account_password,omitempty"`
}

// AttemptOutcome classifies a payment call for logging and metrics.
type AttemptOutcome string

const (
	AttemptInvalid   AttemptOutcome = "invalid"
	AttemptFailed    AttemptOutcome = "failed"
	AttemptDeclined  AttemptOutcome = "declined"
	AttemptReady     AttemptOutcome = "ready"
	AttemptSucceeded AttemptOutcome = "succeeded"
)

// Attempt is returned by the payment transitions. Cause holds the gateway
// error, if any, which the wizard has already turned into a banner.
type Attempt struct {
	Outcome AttemptOutcome
	Cause   error
}

// bannerFor shows the processor's decline message; other failures get the
// generic banner.
func bannerFor(err error) string {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodePaymentFailed {
		if msg := strings.TrimSpace(typed.Message()); msg != "" {
			return msg
		}
	}
	return BannerPaymentFailed
}
