package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"

	"github.com/washday/laundry-backend/internal/wizard"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
	pkgstripe "github.com/washday/laundry-backend/pkg/stripe"
)

const (
	currencyUSD        = "usd"
	defaultDescription = "Laundry Service Order"
	metadataOffer      = "offer"
	metadataName       = "customer_name"
	metadataPhone      = "customer_phone"
)

// StripeGateway creates and confirms PaymentIntents on behalf of the wizard.
type StripeGateway struct {
	client StripeIntentClient
	logg   *logger.Logger
}

var _ wizard.Gateway = (*StripeGateway)(nil)

func NewStripeGateway(client StripeIntentClient, logg *logger.Logger) (*StripeGateway, error) {
	if client == nil {
		return nil, fmt.Errorf("stripe client required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &StripeGateway{client: client, logg: logg}, nil
}

func (g *StripeGateway) CreateIntent(ctx context.Context, req wizard.IntentRequest) (wizard.Intent, error) {
	if req.AmountCents <= 0 {
		return wizard.Intent{}, pkgerrors.New(pkgerrors.CodeValidation, "Invalid amount")
	}

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(req.AmountCents),
		Currency:    stripe.String(currencyUSD),
		Description: stripe.String(defaultDescription),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String(string(stripe.PaymentIntentAutomaticPaymentMethodsAllowRedirectsNever)),
		},
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		params.ReceiptEmail = stripe.String(email)
	}
	if offer := strings.TrimSpace(req.Offer); offer != "" {
		params.Description = stripe.String("Special Offer: " + offer)
		params.AddMetadata(metadataOffer, offer)
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		params.AddMetadata(metadataName, name)
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		params.AddMetadata(metadataPhone, phone)
	}

	intent, err := g.client.CreateIntent(ctx, params)
	if err != nil {
		return wizard.Intent{}, mapStripeError(err, "create payment intent")
	}
	g.logg.Info(g.logg.WithField(ctx, "payment_intent_id", intent.ID), "payment intent created")
	return wizard.Intent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

// Confirm charges the intent with the collected payment method. Billing
// details are attached to the payment method first; failing to do so does
// not block the charge.
func (g *StripeGateway) Confirm(ctx context.Context, req wizard.ConfirmRequest) (wizard.ConfirmResult, error) {
	intentID, err := pkgstripe.IntentIDFromClientSecret(req.ClientSecret)
	if err != nil {
		return wizard.ConfirmResult{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid client secret")
	}
	paymentMethod := strings.TrimSpace(req.PaymentMethodID)
	if paymentMethod == "" {
		return wizard.ConfirmResult{}, pkgerrors.New(pkgerrors.CodeValidation, "payment method required")
	}
	ctx = g.logg.WithField(ctx, "payment_intent_id", intentID)

	if billing := billingDetails(req); billing != nil {
		if _, err := g.client.UpdatePaymentMethod(ctx, paymentMethod, &stripe.PaymentMethodParams{BillingDetails: billing}); err != nil {
			g.logg.Warn(g.logg.WithField(ctx, "error", err.Error()), "failed to attach billing details")
		}
	}

	params := &stripe.PaymentIntentConfirmParams{PaymentMethod: stripe.String(paymentMethod)}
	if email := strings.TrimSpace(req.BillingEmail); email != "" {
		params.ReceiptEmail = stripe.String(email)
	}
	intent, err := g.client.ConfirmIntent(ctx, intentID, params)
	if err != nil {
		return wizard.ConfirmResult{}, mapStripeError(err, "confirm payment intent")
	}

	result := wizard.ConfirmResult{IntentID: intent.ID, Status: string(intent.Status)}
	if intent.LastPaymentError != nil {
		result.ErrorMessage = intent.LastPaymentError.Msg
	}
	g.logg.Info(g.logg.WithField(ctx, "status", result.Status), "payment intent confirmed")
	return result, nil
}

func billingDetails(req wizard.ConfirmRequest) *stripe.PaymentMethodBillingDetailsParams {
	name := strings.TrimSpace(req.BillingName)
	email := strings.TrimSpace(req.BillingEmail)
	phone := strings.TrimSpace(req.BillingPhone)
	if name == "" && email == "" && phone == "" {
		return nil
	}
	details := &stripe.PaymentMethodBillingDetailsParams{}
	if name != "" {
		details.Name = stripe.String(name)
	}
	if email != "" {
		details.Email = stripe.String(email)
	}
	if phone != "" {
		details.Phone = stripe.String(phone)
	}
	return details
}

// mapStripeError turns card declines into PAYMENT_FAILED carrying Stripe's
// message; everything else means the processor is unavailable.
func mapStripeError(err error, action string) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripe.ErrorTypeCard:
			return pkgerrors.Wrap(pkgerrors.CodePaymentFailed, err, stripeErr.Msg).
				WithDetails(map[string]string{"decline_code": string(stripeErr.DeclineCode), "code": string(stripeErr.Code)})
		case stripe.ErrorTypeInvalidRequest:
			return pkgerrors.Wrap(pkgerrors.CodePaymentFailed, err, firstNonEmpty(stripeErr.Msg, wizard.BannerPaymentFailed))
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

// Unavailable is used when no Stripe key is configured; every call fails with
// DEPENDENCY_ERROR so the wizard shows its payment banner.
type Unavailable struct{}

var _ wizard.Gateway = Unavailable{}

func (Unavailable) CreateIntent(context.Context, wizard.IntentRequest) (wizard.Intent, error) {
	return wizard.Intent{}, pkgerrors.New(pkgerrors.CodeDependency, "payment processor not configured")
}

func (Unavailable) Confirm(context.Context, wizard.ConfirmRequest) (wizard.ConfirmResult, error) {
	return wizard.ConfirmResult{}, pkgerrors.New(pkgerrors.CodeDependency, "payment processor not configured")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
