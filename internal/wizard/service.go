package wizard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/washday/laundry-backend/internal/auth"
	"github.com/washday/laundry-backend/internal/notifications"
	"github.com/washday/laundry-backend/internal/orders"
	"github.com/washday/laundry-backend/internal/pricing"
	"github.com/washday/laundry-backend/pkg/db/models"
	"github.com/washday/laundry-backend/pkg/enums"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
	"github.com/washday/laundry-backend/pkg/metrics"
)

// SessionStore persists wizard sessions between requests.
type SessionStore interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
	Lock(ctx context.Context, id string) (func(), error)
	TTL() time.Duration
}

type OrderWriter interface {
	CreateFromCheckout(ctx context.Context, input orders.CheckoutOrder) (*models.Order, error)
}

type AccountCreator interface {
	CreateAccount(ctx context.Context, input auth.CreateAccountInput) (*auth.AccountResult, error)
}

type OrderEvents interface {
	PublishOrderPlaced(ctx context.Context, event orders.OrderPlacedEvent) error
}

type Mailer interface {
	SendOrderConfirmation(ctx context.Context, msg notifications.OrderConfirmation) error
	SendAccountWelcome(ctx context.Context, msg notifications.AccountWelcome) error
}

type ProfileLookup interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
}

// Service drives wizard sessions on behalf of the HTTP layer.
type Service interface {
	Start(ctx context.Context, userID *uuid.UUID) (*View, error)
	Get(ctx context.Context, id string) (*View, error)
	Update(ctx context.Context, id string, fields map[string]string) (*View, error)
	Next(ctx context.Context, id string) (*View, error)
	Previous(ctx context.Context, id string) (*View, error)
	JumpTo(ctx context.Context, id string, index int) (*View, error)
	PreparePayment(ctx context.Context, id string) (*View, error)
	ConfirmPayment(ctx context.Context, id string, details PaymentDetails) (*View, error)
	Result(ctx context.Context, id string) (*Result, error)
	Discard(ctx context.Context, id string) error
}

type ServiceParams struct {
	Store          SessionStore
	Estimator      *pricing.Estimator
	Gateway        Gateway
	Orders         OrderWriter
	Accounts       AccountCreator
	Events         OrderEvents
	Mailer         Mailer
	Profiles       ProfileLookup
	Metrics        *metrics.WizardMetrics
	Logger         *logger.Logger
	PublishableKey string
	Now            func() time.Time
	// SideEffectTimeout bounds each post-payment email and event publish.
	SideEffectTimeout time.Duration
}

const defaultSideEffectTimeout = 10 * time.Second

type service struct {
	store          SessionStore
	estimator      *pricing.Estimator
	gateway        Gateway
	orders         OrderWriter
	accounts       AccountCreator
	events         OrderEvents
	mailer         Mailer
	profiles       ProfileLookup
	metrics        *metrics.WizardMetrics
	logg           *logger.Logger
	publishableKey string
	now            func() time.Time
	effectTimeout  time.Duration
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("wizard store required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order writer required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	estimator := params.Estimator
	if estimator == nil {
		estimator = pricing.Default()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	effectTimeout := params.SideEffectTimeout
	if effectTimeout <= 0 {
		effectTimeout = defaultSideEffectTimeout
	}
	return &service{
		store:          params.Store,
		estimator:      estimator,
		gateway:        params.Gateway,
		orders:         params.Orders,
		accounts:       params.Accounts,
		events:         params.Events,
		mailer:         params.Mailer,
		profiles:       params.Profiles,
		metrics:        params.Metrics,
		logg:           params.Logger,
		publishableKey: params.PublishableKey,
		now:            now,
		effectTimeout:  effectTimeout,
	}, nil
}

func (s *service) Start(ctx context.Context, userID *uuid.UUID) (*View, error) {
	sess := &Session{ID: uuid.NewString(), UserID: userID}
	ctx = s.logg.WithWizardSession(ctx, sess.ID)

	authenticated := false
	var contact *models.Customer
	if userID != nil && s.profiles != nil {
		profile, err := s.profiles.FindByUserID(ctx, *userID)
		switch {
		case err == nil:
			authenticated = true
			contact = profile
			sess.CustomerID = &profile.ID
		case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
			s.logg.Warn(ctx, "wizard started by user without customer profile")
		default:
			return nil, err
		}
	}

	w := New(authenticated)
	if contact != nil {
		w.Draft.Name = contact.Name
		w.Draft.Email = contact.Email
		if contact.Phone != nil {
			w.Draft.Phone = *contact.Phone
		}
	}
	sess.Wizard = w
	sess.CreatedAt = s.now().UTC()
	sess.UpdatedAt = sess.CreatedAt

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.metrics.Transition("start", "ok")
	s.logg.Info(ctx, "wizard session started")
	return s.view(sess), nil
}

func (s *service) Get(ctx context.Context, id string) (*View, error) {
	sess, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *service) Update(ctx context.Context, id string, fields map[string]string) (*View, error) {
	if len(fields) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	return s.mutate(ctx, id, "update", func(ctx context.Context, sess *Session) error {
		for _, name := range names {
			if err := sess.Wizard.Set(name, fields[name]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *service) Next(ctx context.Context, id string) (*View, error) {
	return s.mutate(ctx, id, "next", func(_ context.Context, sess *Session) error {
		return sess.Wizard.Next()
	})
}

func (s *service) Previous(ctx context.Context, id string) (*View, error) {
	return s.mutate(ctx, id, "previous", func(_ context.Context, sess *Session) error {
		return sess.Wizard.Previous()
	})
}

func (s *service) JumpTo(ctx context.Context, id string, index int) (*View, error) {
	return s.mutate(ctx, id, "jump", func(_ context.Context, sess *Session) error {
		return sess.Wizard.JumpTo(index)
	})
}

func (s *service) PreparePayment(ctx context.Context, id string) (*View, error) {
	return s.mutate(ctx, id, "payment_intent", func(ctx context.Context, sess *Session) error {
		start := time.Now()
		attempt, err := sess.Wizard.PreparePayment(ctx, s.gateway, s.estimator)
		if err != nil {
			return err
		}
		if attempt.Outcome != AttemptInvalid {
			s.metrics.ObserveGateway("create_intent", time.Since(start))
		}
		s.metrics.Payment("create_intent", string(attempt.Outcome))
		if attempt.Cause != nil {
			s.logg.Error(ctx, "payment intent creation failed", attempt.Cause)
		}
		return nil
	})
}

func (s *service) ConfirmPayment(ctx context.Context, id string, details PaymentDetails) (*View, error) {
	return s.mutate(ctx, id, "confirm", func(ctx context.Context, sess *Session) error {
		start := time.Now()
		attempt, err := sess.Wizard.ConfirmPayment(ctx, s.gateway, details)
		if err != nil {
			return err
		}
		s.metrics.ObserveGateway("confirm", time.Since(start))
		s.metrics.Payment("confirm", string(attempt.Outcome))
		if attempt.Cause != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", attempt.Cause.Error()), "payment confirmation did not succeed")
		}
		if attempt.Outcome != AttemptSucceeded {
			return nil
		}

		// The charge went through: persist the terminal state before any
		// follow-up work so a crash cannot lose it.
		ctx = context.WithoutCancel(ctx)
		sess.Wizard.Outcome.CompletedAt = s.now().UTC()
		sess.UpdatedAt = sess.Wizard.Outcome.CompletedAt
		if err := s.store.Save(ctx, sess); err != nil {
			s.logg.Error(ctx, "failed to persist completed wizard", err)
		}
		s.completeOrder(ctx, sess, details)
		return nil
	})
}

func (s *service) Result(ctx context.Context, id string) (*Result, error) {
	sess, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := sess.Wizard.Result()
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *service) Discard(ctx context.Context, id string) error {
	if _, err := s.store.Load(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// mutate runs fn against a locked session and saves the result. Errors from
// fn leave the stored session untouched.
func (s *service) mutate(ctx context.Context, id, operation string, fn func(context.Context, *Session) error) (*View, error) {
	ctx = s.logg.WithWizardSession(ctx, id)
	unlock, err := s.store.Lock(ctx, id)
	if err != nil {
		s.metrics.Transition(operation, "locked")
		return nil, err
	}
	defer unlock()

	sess, err := s.store.Load(ctx, id)
	if err != nil {
		s.metrics.Transition(operation, "missing")
		return nil, err
	}
	if err := fn(ctx, sess); err != nil {
		s.metrics.Transition(operation, "rejected")
		return nil, err
	}
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Save(context.WithoutCancel(ctx), sess); err != nil {
		return nil, err
	}

	outcome := "ok"
	if len(sess.Wizard.Errors) > 0 || sess.Wizard.Banner != "" {
		outcome = "blocked"
	}
	s.metrics.Transition(operation, outcome)
	return s.view(sess), nil
}

// completeOrder runs the post-payment side effects. None of them can undo
// the payment; failures are logged and counted.
func (s *service) completeOrder(ctx context.Context, sess *Session, details PaymentDetails) {
	w := sess.Wizard
	customerID := sess.CustomerID

	if sess.UserID == nil && s.accounts != nil {
		account, err := s.accounts.CreateAccount(ctx, auth.CreateAccountInput{
			Email:    strings.TrimSpace(w.Draft.Email),
			Name:     strings.TrimSpace(w.Draft.Name),
			Phone:    strings.TrimSpace(w.Draft.Phone),
			Password: details.AccountPassword,
		})
		s.metrics.SideEffect("account", err)
		if err != nil {
			w.Outcome.AccountNotice = NoticeAccountSetupIncomplete
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "post-payment account creation failed")
		} else {
			w.Outcome.AccountNotice = NoticeAccountCreated
			customerID = &account.CustomerID
			if account.TemporaryPassword != "" && s.mailer != nil {
				sendCtx, cancel := context.WithTimeout(ctx, s.effectTimeout)
				err := s.mailer.SendAccountWelcome(sendCtx, notifications.AccountWelcome{
					Email:             w.Draft.Email,
					Name:              w.Draft.Name,
					TemporaryPassword: account.TemporaryPassword,
				})
				cancel()
				s.metrics.SideEffect("welcome_email", err)
				if err != nil {
					s.logg.Error(ctx, "failed to send welcome email", err)
				}
			}
		}
	}

	input, err := checkoutOrder(w, customerID)
	if err == nil {
		var order *models.Order
		order, err = s.orders.CreateFromCheckout(ctx, input)
		if err == nil {
			w.Outcome.OrderID = &order.ID
		}
	}
	s.metrics.SideEffect("order", err)
	if err != nil {
		s.logg.Error(ctx, "failed to persist paid order", err)
	}

	if s.events != nil {
		publishCtx, cancel := context.WithTimeout(ctx, s.effectTimeout)
		err := s.events.PublishOrderPlaced(publishCtx, orders.OrderPlacedEvent{
			OrderID:         w.Outcome.OrderID,
			CustomerID:      customerID,
			PaymentIntentID: w.Outcome.PaymentIntentID,
			AmountCents:     w.Outcome.AmountCents,
			Weight:          w.Draft.Weight,
			ServiceType:     w.Draft.ServiceType,
			Email:           w.Draft.Email,
			PlacedAt:        w.Outcome.CompletedAt,
		})
		cancel()
		s.metrics.SideEffect("event", err)
		if err != nil {
			s.logg.Error(ctx, "failed to publish order placed event", err)
		}
	}

	if s.mailer != nil && strings.TrimSpace(w.Draft.Email) != "" {
		sendCtx, cancel := context.WithTimeout(ctx, s.effectTimeout)
		err := s.mailer.SendOrderConfirmation(sendCtx, notifications.OrderConfirmation{
			Email: w.Draft.Email,
			Name:  w.Draft.Name,
			Offer: w.Offer(),
			Price: w.Outcome.OrderTotal,
		})
		cancel()
		s.metrics.SideEffect("confirmation_email", err)
		if err != nil {
			s.logg.Error(ctx, "failed to send order confirmation", err)
		}
	}

	s.logg.Info(ctx, "wizard order completed")
}

func checkoutOrder(w *Wizard, customerID *uuid.UUID) (orders.CheckoutOrder, error) {
	d := w.Draft
	input := orders.CheckoutOrder{
		CustomerID:          customerID,
		ContactName:         strings.TrimSpace(d.Name),
		ContactEmail:        strings.TrimSpace(d.Email),
		ContactPhone:        strings.TrimSpace(d.Phone),
		Weight:              d.Weight,
		ServiceType:         d.ServiceType,
		SchedulingOption:    d.SchedulingOption,
		AddressLine1:        strings.TrimSpace(d.AddressLine1),
		AddressLine2:        strings.TrimSpace(d.AddressLine2),
		City:                strings.TrimSpace(d.City),
		State:               strings.TrimSpace(d.State),
		ZipCode:             strings.TrimSpace(d.ZipCode),
		Detergent:           d.Detergent,
		WaterTemp:           d.WaterTemp,
		DryTemp:             d.DryTemp,
		BleachOption:        d.BleachOption,
		FabricSoftener:      d.FabricSoftener,
		DryerSheets:         d.DryerSheets,
		Scent:               d.Scent,
		SpecialInstructions: strings.TrimSpace(d.SpecialInstructions),
		TotalAmountCents:    w.Outcome.AmountCents,
		PaymentIntentID:     w.Outcome.PaymentIntentID,
	}
	if raw := strings.TrimSpace(d.ScheduledDate); raw != "" && d.SchedulingOption == enums.SchedulingSchedule {
		date, err := time.Parse(DateLayout, raw)
		if err != nil {
			return input, fmt.Errorf("parse scheduled date: %w", err)
		}
		input.ScheduledDate = &date
	}
	return input, nil
}
