package wizard

import (
	"time"

	"github.com/washday/laundry-backend/internal/pricing"
	"github.com/washday/laundry-backend/pkg/enums"
)

const (
	ActionUpdate        = "update"
	ActionNext          = "next"
	ActionPrevious      = "previous"
	ActionJump          = "jump"
	ActionPaymentIntent = "payment_intent"
	ActionConfirm       = "confirm"
	ActionResult        = "result"
)

// PaymentCapture is what the client needs to collect card details.
type PaymentCapture struct {
	ClientSecret   string `json:"client_secret"`
	PublishableKey string `json:"publishable_key"`
	AmountCents    int64  `json:"amount_cents"`
	Total          string `json:"total"`
}

// View is the client-facing rendering of a session.
type View struct {
	SessionID      string              `json:"session_id"`
	Authenticated  bool                `json:"authenticated"`
	Steps          []Step              `json:"steps"`
	StepIndex      int                 `json:"step_index"`
	CurrentStep    StepID              `json:"current_step"`
	Draft          Draft               `json:"draft"`
	Errors         FieldErrors         `json:"errors"`
	Banner         string              `json:"banner,omitempty"`
	Phase          Phase               `json:"phase"`
	EstimatedTotal string              `json:"estimated_total,omitempty"`
	Payment        *PaymentCapture     `json:"payment,omitempty"`
	Result         *Result             `json:"result,omitempty"`
	Actions        []string            `json:"actions"`
	Options        map[string][]string `json:"options"`
	ExpiresAt      time.Time           `json:"expires_at"`
}

func (s *service) view(sess *Session) *View {
	w := sess.Wizard
	v := &View{
		SessionID:     sess.ID,
		Authenticated: w.Authenticated,
		Steps:         w.Steps(),
		StepIndex:     w.StepIndex,
		CurrentStep:   w.CurrentStep().ID,
		Draft:         w.Draft,
		Errors:        FieldErrors{},
		Banner:        w.Banner,
		Phase:         w.Phase,
		Actions:       Actions(w),
		Options:       enums.AllowedValues(),
		ExpiresAt:     sess.UpdatedAt.Add(s.store.TTL()),
	}
	for field, msg := range w.Errors {
		v.Errors[field] = msg
	}
	if amount, err := s.estimator.Estimate(w.Draft.Weight); err == nil {
		v.EstimatedTotal = pricing.FormatAmount(amount)
	}
	if w.Phase == PhaseAwaitingPayment && w.ClientSecret != "" {
		v.Payment = &PaymentCapture{
			ClientSecret:   w.ClientSecret,
			PublishableKey: s.publishableKey,
			AmountCents:    w.AmountCents,
			Total:          w.Total,
		}
	}
	if res, err := w.Result(); err == nil {
		v.Result = &res
	}
	return v
}

// Actions lists the transitions currently offered. A completed wizard only
// offers its result.
func Actions(w *Wizard) []string {
	if w.Completed() {
		return []string{ActionResult}
	}
	actions := []string{ActionUpdate}
	if w.StepIndex > 0 {
		actions = append(actions, ActionPrevious, ActionJump)
	}
	if w.StepIndex < w.LastIndex() {
		actions = append(actions, ActionNext)
	}
	if w.CurrentStep().ID == StepReviewPayment {
		actions = append(actions, ActionPaymentIntent)
	}
	if w.Phase == PhaseAwaitingPayment && w.ClientSecret != "" {
		actions = append(actions, ActionConfirm)
	}
	return actions
}
