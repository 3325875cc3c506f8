package stripewebhook

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/stripe/stripe-go/v76"

	"github.com/washday/laundry-backend/pkg/enums"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
)

// paymentStatusUpdater is satisfied by the orders service.
type paymentStatusUpdater interface {
	UpdatePaymentStatus(ctx context.Context, intentID string, status enums.PaymentStatus) (bool, error)
}

type ServiceParams struct {
	Orders paymentStatusUpdater
	Logger *logger.Logger
}

type Service struct {
	orders paymentStatusUpdater
	logg   *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders service required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{orders: params.Orders, logg: logg}, nil
}

// HandleEvent applies a verified Stripe event. Event types this service does
// not care about are acknowledged without side effects.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	var status enums.PaymentStatus
	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		status = enums.PaymentStatusSucceeded
	case stripe.EventTypePaymentIntentPaymentFailed:
		status = enums.PaymentStatusFailed
	default:
		s.logg.Debug(s.logg.WithField(ctx, "event_type", string(event.Type)), "stripe event ignored")
		return nil
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode payment intent event")
	}
	if strings.TrimSpace(intent.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment intent id missing")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"event_type":        string(event.Type),
		"payment_intent_id": intent.ID,
	})
	matched, err := s.orders.UpdatePaymentStatus(ctx, intent.ID, status)
	if err != nil {
		return err
	}
	if !matched {
		// Failed attempts never produce an order, and a success can race the
		// wizard's own order write.
		s.logg.Info(ctx, "no order for payment intent")
		return nil
	}
	s.logg.Info(ctx, "order payment status updated")
	return nil
}
