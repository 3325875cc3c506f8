package payments

import (
	"context"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeIntentClient exposes the subset of Stripe operations the gateway needs.
type StripeIntentClient interface {
	CreateIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	ConfirmIntent(ctx context.Context, id string, params *stripe.PaymentIntentConfirmParams) (*stripe.PaymentIntent, error)
	UpdatePaymentMethod(ctx context.Context, id string, params *stripe.PaymentMethodParams) (*stripe.PaymentMethod, error)
}

type stripeClientWrapper struct {
	api *client.API
}

// NewStripeClient wraps the per-client Stripe backend so the gateway can be tested.
func NewStripeClient(api *client.API) StripeIntentClient {
	if api == nil {
		return nil
	}
	return &stripeClientWrapper{api: api}
}

func (w *stripeClientWrapper) CreateIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if params != nil {
		params.Context = ctx
	}
	return w.api.PaymentIntents.New(params)
}

func (w *stripeClientWrapper) ConfirmIntent(ctx context.Context, id string, params *stripe.PaymentIntentConfirmParams) (*stripe.PaymentIntent, error) {
	if params != nil {
		params.Context = ctx
	}
	return w.api.PaymentIntents.Confirm(id, params)
}

func (w *stripeClientWrapper) UpdatePaymentMethod(ctx context.Context, id string, params *stripe.PaymentMethodParams) (*stripe.PaymentMethod, error) {
	if params != nil {
		params.Context = ctx
	}
	return w.api.PaymentMethods.Update(id, params)
}
