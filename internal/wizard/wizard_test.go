package wizard

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/washday/laundry-backend/internal/pricing"
	"github.com/washday/laundry-backend/pkg/enums"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
)

type stubGateway struct {
	intent     Intent
	intentErr  error
	confirm    ConfirmResult
	confirmErr error

	intentCalls  int
	confirmCalls int
	lastIntent   IntentRequest
	lastConfirm  ConfirmRequest
	confirmCtx   context.Context
}

func (g *stubGateway) CreateIntent(_ context.Context, req IntentRequest) (Intent, error) {
	g.intentCalls++
	g.lastIntent = req
	if g.intentErr != nil {
		return Intent{}, g.intentErr
	}
	return g.intent, nil
}

func (g *stubGateway) Confirm(ctx context.Context, req ConfirmRequest) (ConfirmResult, error) {
	g.confirmCalls++
	g.lastConfirm = req
	g.confirmCtx = ctx
	if g.confirmErr != nil {
		return ConfirmResult{}, g.confirmErr
	}
	return g.confirm, nil
}

func okGateway() *stubGateway {
	return &stubGateway{
		intent:  Intent{ID: "pi_123", ClientSecret: "pi_123_secret_abc"},
		confirm: ConfirmResult{IntentID: "pi_123", Status: IntentStatusSucceeded},
	}
}

func fillContact(t *testing.T, w *Wizard) {
	t.Helper()
	mustSet(t, w, FieldName, "Jane Doe")
	mustSet(t, w, FieldEmail, "jane@example.com")
	mustSet(t, w, FieldPhone, "404-555-0101")
}

func fillOrder(t *testing.T, w *Wizard) {
	t.Helper()
	mustSet(t, w, FieldWeight, "11-20")
}

func fillAddress(t *testing.T, w *Wizard) {
	t.Helper()
	mustSet(t, w, FieldAddressLine1, "12 Peachtree St")
	mustSet(t, w, FieldCity, "Atlanta")
	mustSet(t, w, FieldState, "GA")
	mustSet(t, w, FieldZipCode, "30303")
}

func mustSet(t *testing.T, w *Wizard, field, value string) {
	t.Helper()
	if err := w.Set(field, value); err != nil {
		t.Fatalf("Set(%s): %v", field, err)
	}
}

// reviewWizard returns a guest wizard sitting on the review step with a valid draft.
func reviewWizard(t *testing.T) *Wizard {
	t.Helper()
	w := New(false)
	fillContact(t, w)
	fillOrder(t, w)
	fillAddress(t, w)
	for i := 0; i < 3; i++ {
		if err := w.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	if w.CurrentStep().ID != StepReviewPayment {
		t.Fatalf("expected review step, got %s (errors %v)", w.CurrentStep().ID, w.Errors)
	}
	return w
}

func errorKeys(errs FieldErrors) []string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestStepsDependOnAuthentication(t *testing.T) {
	guest := Steps(false)
	if len(guest) != 4 {
		t.Fatalf("expected 4 guest steps, got %d", len(guest))
	}
	if guest[0].ID != StepContact || guest[0].Title != "Customer Information" {
		t.Fatalf("unexpected first guest step %+v", guest[0])
	}

	member := Steps(true)
	if len(member) != 3 {
		t.Fatalf("expected 3 member steps, got %d", len(member))
	}
	for i, step := range member {
		if step.ID == StepContact {
			t.Fatal("contact step must be omitted for signed-in buyers")
		}
		if step.Index != i {
			t.Fatalf("step %s has index %d, want %d", step.ID, step.Index, i)
		}
	}
	if member[2].Title != "Review & Payment" || member[2].Description != "Review your order and complete payment" {
		t.Fatalf("unexpected review step %+v", member[2])
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	w := New(false)
	d := w.Draft
	if d.ServiceType != enums.ServiceTypeDelivery || d.SchedulingOption != enums.SchedulingASAP {
		t.Fatalf("unexpected order defaults %+v", d)
	}
	if d.Detergent != enums.DetergentTide || d.WaterTemp != enums.WaterTempCold || d.DryTemp != enums.DryTempMedium {
		t.Fatalf("unexpected wash defaults %+v", d)
	}
	if d.BleachOption != enums.BleachNone || d.Scent != enums.ScentUnscented {
		t.Fatalf("unexpected extras defaults %+v", d)
	}
	if d.FabricSoftener || d.DryerSheets || d.Name != "" || d.Weight != "" {
		t.Fatalf("expected empty draft fields, got %+v", d)
	}
	if w.StepIndex != 0 || w.Phase != PhaseEditing {
		t.Fatalf("unexpected initial state %d/%s", w.StepIndex, w.Phase)
	}
}

func TestNextBlocksOnMissingContactFields(t *testing.T) {
	w := New(false)
	mustSet(t, w, FieldEmail, "jane@example.com")

	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if w.StepIndex != 0 {
		t.Fatalf("expected to stay on contact step, got %d", w.StepIndex)
	}
	if got := errorKeys(w.Errors); !reflect.DeepEqual(got, []string{FieldName, FieldPhone}) {
		t.Fatalf("unexpected error keys %v", got)
	}
	if w.Errors[FieldName] != "Name is required" {
		t.Fatalf("unexpected message %q", w.Errors[FieldName])
	}
}

func TestNextOnlyValidatesCurrentStep(t *testing.T) {
	w := New(false)
	fillContact(t, w)
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if w.StepIndex != 1 || len(w.Errors) != 0 {
		t.Fatalf("expected clean advance, got index %d errors %v", w.StepIndex, w.Errors)
	}

	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got := errorKeys(w.Errors); !reflect.DeepEqual(got, []string{FieldWeight}) {
		t.Fatalf("expected only weight error, got %v", got)
	}
}

func TestNextClearsStepErrorsAndClampsAtEnd(t *testing.T) {
	w := New(true)
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, ok := w.Errors[FieldWeight]; !ok {
		t.Fatal("expected weight error")
	}
	fillOrder(t, w)
	fillAddress(t, w)
	for i := 0; i < 5; i++ {
		if err := w.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	if w.StepIndex != w.LastIndex() {
		t.Fatalf("expected clamp at %d, got %d", w.LastIndex(), w.StepIndex)
	}
	if len(w.Errors) != 0 {
		t.Fatalf("expected errors cleared, got %v", w.Errors)
	}
}

func TestFailedNextReplacesErrorsFromOtherSteps(t *testing.T) {
	w := reviewWizard(t)
	mustSet(t, w, FieldCity, "")
	attempt, err := w.PreparePayment(context.Background(), okGateway(), pricing.Default())
	if err != nil {
		t.Fatalf("PreparePayment: %v", err)
	}
	if attempt.Outcome != AttemptInvalid || w.Errors[FieldCity] == "" {
		t.Fatalf("expected city error from full validation, got %s %v", attempt.Outcome, w.Errors)
	}

	if err := w.JumpTo(0); err != nil {
		t.Fatalf("JumpTo: %v", err)
	}
	mustSet(t, w, FieldName, "")
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got := errorKeys(w.Errors); !reflect.DeepEqual(got, []string{FieldName}) {
		t.Fatalf("expected only name error, got %v", got)
	}

	mustSet(t, w, FieldName, "Jane Doe")
	if err := w.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if w.StepIndex != 1 || len(w.Errors) != 0 {
		t.Fatalf("expected clean advance, got index %d errors %v", w.StepIndex, w.Errors)
	}
}

func TestFormatErrors(t *testing.T) {
	d := NewDraft()
	d.Name, d.Phone, d.Email = "Jane", "555", "not-an-email"
	errs := ValidateStep(StepContact, d)
	if errs[FieldEmail] != "Email must be a valid email address" || len(errs) != 1 {
		t.Fatalf("unexpected contact errors %v", errs)
	}

	d.Weight = "12-15"
	d.ServiceType = "drone"
	errs = ValidateStep(StepOrderDetails, d)
	if got := errorKeys(errs); !reflect.DeepEqual(got, []string{FieldServiceType, FieldWeight}) {
		t.Fatalf("unexpected order errors %v", errs)
	}
	if errs[FieldWeight] != "Weight must be one of: 0-10, 11-20, 21-30, 31+" {
		t.Fatalf("unexpected weight message %q", errs[FieldWeight])
	}
}

func TestScheduledDateRequiredOnlyWhenScheduling(t *testing.T) {
	d := NewDraft()
	d.Weight = enums.Weight21To30

	if errs := ValidateStep(StepOrderDetails, d); len(errs) != 0 {
		t.Fatalf("asap order should not need a date: %v", errs)
	}

	d.SchedulingOption = enums.SchedulingSchedule
	errs := ValidateStep(StepOrderDetails, d)
	if errs[FieldScheduledDate] != "Scheduled date is required" {
		t.Fatalf("expected required date error, got %v", errs)
	}

	d.ScheduledDate = "06/01/2026"
	if errs := ValidateStep(StepOrderDetails, d); errs[FieldScheduledDate] == "" {
		t.Fatal("expected format error for non ISO date")
	}

	d.ScheduledDate = "2026-06-01"
	if errs := ValidateStep(StepOrderDetails, d); len(errs) != 0 {
		t.Fatalf("expected valid scheduled order, got %v", errs)
	}
}

func TestValidateAllFlagsScheduledDateIffEmpty(t *testing.T) {
	for _, date := range []string{"", "2026-07-04"} {
		w := reviewWizard(t)
		w.Draft.SchedulingOption = enums.SchedulingSchedule
		w.Draft.ScheduledDate = date
		_, flagged := ValidateAll(w.Draft, false)[FieldScheduledDate]
		if flagged != (date == "") {
			t.Fatalf("date %q: flagged=%v", date, flagged)
		}
	}
}

func TestAddressRules(t *testing.T) {
	d := NewDraft()
	d.Detergent = ""
	d.Scent = "pine"
	d.SpecialInstructions = string(make([]byte, 501))
	errs := ValidateStep(StepAddressPreferences, d)

	want := []string{FieldAddressLine1, FieldCity, FieldDetergent, FieldScent, FieldSpecialInstructions, FieldState, FieldZipCode}
	if got := errorKeys(errs); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected address errors %v", got)
	}
	if errs[FieldDetergent] != "Detergent is required" {
		t.Fatalf("unexpected detergent message %q", errs[FieldDetergent])
	}

	d = NewDraft()
	d.AddressLine1, d.City, d.State, d.ZipCode = "1 Main", "Atlanta", "GA", "303031234567"
	d.Scent = ""
	errs = ValidateStep(StepAddressPreferences, d)
	if got := errorKeys(errs); !reflect.DeepEqual(got, []string{FieldZipCode}) {
		t.Fatalf("expected zip length error only, got %v", errs)
	}
}

func TestValidateAllSkipsContactForMembers(t *testing.T) {
	d := NewDraft()
	if _, ok := ValidateAll(d, true)[FieldName]; ok {
		t.Fatal("member validation must not require contact fields")
	}
	if _, ok := ValidateAll(d, false)[FieldName]; !ok {
		t.Fatal("guest validation must require contact fields")
	}
}

func TestSetIsIdempotentAndRejectsUnknownFields(t *testing.T) {
	once := New(false)
	twice := New(false)
	mustSet(t, once, FieldCity, "Decatur")
	mustSet(t, twice, FieldCity, "Decatur")
	mustSet(t, twice, FieldCity, "Decatur")
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("set twice differs from set once: %+v vs %+v", once.Draft, twice.Draft)
	}

	err := once.Set("favorite_color", "blue")
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	mustSet(t, once, FieldFabricSoftener, "true")
	if !once.Draft.FabricSoftener {
		t.Fatal("expected fabric softener flag")
	}
	if err := once.Set(FieldDryerSheets, "sometimes"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected bad flag to be rejected, got %v", err)
	}
}

func TestPreviousAndJumpTo(t *testing.T) {
	w := New(false)
	if err := w.Previous(); err != nil || w.StepIndex != 0 {
		t.Fatalf("previous at start: err=%v index=%d", err, w.StepIndex)
	}

	fillContact(t, w)
	fillOrder(t, w)
	_ = w.Next()
	_ = w.Next()
	if w.StepIndex != 2 {
		t.Fatalf("expected index 2, got %d", w.StepIndex)
	}

	if err := w.JumpTo(3); !errors.Is(err, ErrForwardJump) {
		t.Fatalf("expected forward jump rejection, got %v", err)
	}
	if err := w.JumpTo(0); err != nil || w.StepIndex != 0 {
		t.Fatalf("jump back failed: err=%v index=%d", err, w.StepIndex)
	}
	if err := w.Previous(); err != nil || w.StepIndex != 0 {
		t.Fatalf("previous should clamp at zero: err=%v index=%d", err, w.StepIndex)
	}
}

func TestPreparePaymentRequiresReviewStep(t *testing.T) {
	w := New(false)
	gw := okGateway()
	if _, err := w.PreparePayment(context.Background(), gw, pricing.Default()); !errors.Is(err, ErrNotOnReview) {
		t.Fatalf("expected ErrNotOnReview, got %v", err)
	}
	if gw.intentCalls != 0 {
		t.Fatal("gateway must not be called off the review step")
	}
}

func TestPreparePaymentValidatesEverything(t *testing.T) {
	w := reviewWizard(t)
	w.Draft.Email = ""
	gw := okGateway()

	attempt, err := w.PreparePayment(context.Background(), gw, pricing.Default())
	if err != nil {
		t.Fatalf("PreparePayment: %v", err)
	}
	if attempt.Outcome != AttemptInvalid {
		t.Fatalf("expected invalid attempt, got %s", attempt.Outcome)
	}
	if gw.intentCalls != 0 {
		t.Fatal("no remote call expected for an invalid draft")
	}
	if w.CurrentStep().ID != StepReviewPayment || w.Errors[FieldEmail] == "" {
		t.Fatalf("expected email error on review step, got %v", w.Errors)
	}
}

func TestPreparePaymentSendsPricedIntent(t *testing.T) {
	w := reviewWizard(t)
	gw := okGateway()

	attempt, err := w.PreparePayment(context.Background(), gw, pricing.Default())
	if err != nil {
		t.Fatalf("PreparePayment: %v", err)
	}
	if attempt.Outcome != AttemptReady {
		t.Fatalf("expected ready, got %s", attempt.Outcome)
	}
	if gw.lastIntent.AmountCents != 2713 {
		t.Fatalf("expected 2713 cents for 11-20 lbs, got %d", gw.lastIntent.AmountCents)
	}
	if gw.lastIntent.Email != "jane@example.com" || gw.lastIntent.Name != "Jane Doe" || gw.lastIntent.Offer == "" {
		t.Fatalf("unexpected intent request %+v", gw.lastIntent)
	}
	if w.Phase != PhaseAwaitingPayment || w.ClientSecret != "pi_123_secret_abc" || w.Total != "27.13" {
		t.Fatalf("unexpected state %s/%q/%q", w.Phase, w.ClientSecret, w.Total)
	}
}

func TestPreparePaymentFailureKeepsDraftAndAllowsRetry(t *testing.T) {
	w := reviewWizard(t)
	before := w.Draft
	gw := okGateway()
	gw.intentErr = errors.New("dial tcp: connection refused")

	attempt, err := w.PreparePayment(context.Background(), gw, pricing.Default())
	if err != nil {
		t.Fatalf("PreparePayment: %v", err)
	}
	if attempt.Outcome != AttemptFailed || attempt.Cause == nil {
		t.Fatalf("expected failed attempt with cause, got %+v", attempt)
	}
	if w.Banner != BannerIntentFailed {
		t.Fatalf("unexpected banner %q", w.Banner)
	}
	if !reflect.DeepEqual(before, w.Draft) || w.CurrentStep().ID != StepReviewPayment || w.Phase != PhaseEditing {
		t.Fatal("draft and step must be unchanged after intent failure")
	}

	gw.intentErr = nil
	attempt, err = w.PreparePayment(context.Background(), gw, pricing.Default())
	if err != nil || attempt.Outcome != AttemptReady {
		t.Fatalf("retry failed: %v %+v", err, attempt)
	}
	if w.Banner != "" || gw.intentCalls != 2 {
		t.Fatalf("expected banner cleared after retry, banner=%q calls=%d", w.Banner, gw.intentCalls)
	}
}

func TestPreparePaymentRejectsEmptyClientSecret(t *testing.T) {
	w := reviewWizard(t)
	gw := okGateway()
	gw.intent.ClientSecret = ""

	attempt, _ := w.PreparePayment(context.Background(), gw, pricing.Default())
	if attempt.Outcome != AttemptFailed || w.Phase != PhaseEditing {
		t.Fatalf("expected failure on empty client secret, got %+v phase %s", attempt, w.Phase)
	}
}

func TestEditingAfterIntentDropsClientSecret(t *testing.T) {
	w := reviewWizard(t)
	gw := okGateway()
	if _, err := w.PreparePayment(context.Background(), gw, pricing.Default()); err != nil {
		t.Fatalf("PreparePayment: %v", err)
	}

	mustSet(t, w, FieldWeight, "31+")
	if w.ClientSecret != "" || w.Phase != PhaseEditing {
		t.Fatalf("expected pending intent dropped, got %q/%s", w.ClientSecret, w.Phase)
	}
	if _, err := w.ConfirmPayment(context.Background(), gw, PaymentDetails{PaymentMethodID: "pm_card"}); !errors.Is(err, ErrNoPendingIntent) {
		t.Fatalf("expected ErrNoPendingIntent, got %v", err)
	}
}

func TestConfirmPaymentOutcomes(t *testing.T) {
	t.Run("gateway error shows its message", func(t *testing.T) {
		w := reviewWizard(t)
		gw := okGateway()
		_, _ = w.PreparePayment(context.Background(), gw, pricing.Default())
		gw.confirmErr = pkgerrors.New(pkgerrors.CodePaymentFailed, "Your card was declined.")

		attempt, err := w.ConfirmPayment(context.Background(), gw, PaymentDetails{PaymentMethodID: "pm_card"})
		if err != nil {
			t.Fatalf("ConfirmPayment: %v", err)
		}
		if attempt.Outcome != AttemptFailed || w.Banner != "Your card was declined." {
			t.Fatalf("unexpected outcome %s banner %q", attempt.Outcome, w.Banner)
		}
		if w.Phase != PhaseAwaitingPayment || w.ClientSecret == "" {
			t.Fatal("expected to remain on payment capture")
		}
	})

	t.Run("non success status shows generic banner", func(t *testing.T) {
		w := reviewWizard(t)
		gw := okGateway()
		_, _ = w.PreparePayment(context.Background(), gw, pricing.Default())
		gw.confirm.Status = "requires_payment_method"

		attempt, _ := w.ConfirmPayment(context.Background(), gw, PaymentDetails{PaymentMethodID: "pm_card"})
		if attempt.Outcome != AttemptDeclined || w.Banner != BannerPaymentFailed {
			t.Fatalf("unexpected outcome %s banner %q", attempt.Outcome, w.Banner)
		}

		gw.confirm.Status = IntentStatusSucceeded
		attempt, _ = w.ConfirmPayment(context.Background(), gw, PaymentDetails{PaymentMethodID: "pm_card"})
		if attempt.Outcome != AttemptSucceeded {
			t.Fatalf("retry should succeed, got %s", attempt.Outcome)
		}
	})

	t.Run("missing payment method", func(t *testing.T) {
		w := reviewWizard(t)
		gw := okGateway()
		_, _ = w.PreparePayment(context.Background(), gw, pricing.Default())
		if _, err := w.ConfirmPayment(context.Background(), gw, PaymentDetails{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if gw.confirmCalls != 0 {
			t.Fatal("gateway must not be called without a payment method")
		}
	})
}

func TestConfirmSurvivesRequestCancellation(t *testing.T) {
	w := reviewWizard(t)
	gw := okGateway()
	_, _ = w.PreparePayment(context.Background(), gw, pricing.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.ConfirmPayment(ctx, gw, PaymentDetails{PaymentMethodID: "pm_card"}); err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if gw.confirmCtx.Err() != nil {
		t.Fatal("gateway context must be detached from request cancellation")
	}
	if gw.lastConfirm.BillingEmail != "jane@example.com" || gw.lastConfirm.ClientSecret != "pi_123_secret_abc" {
		t.Fatalf("unexpected confirm request %+v", gw.lastConfirm)
	}
}

func TestSucceededWizardIsTerminal(t *testing.T) {
	w := reviewWizard(t)
	gw := okGateway()
	_, _ = w.PreparePayment(context.Background(), gw, pricing.Default())
	if _, err := w.ConfirmPayment(context.Background(), gw, PaymentDetails{PaymentMethodID: "pm_card"}); err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}

	res, err := w.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	want := "Thank you, Jane Doe! Your delivery order for 11-20 lbs of laundry has been placed successfully. We'll process your order as soon as possible. Your total is $27.13."
	if res.ConfirmationMessage != want {
		t.Fatalf("unexpected message:\n%s", res.ConfirmationMessage)
	}
	if res.OrderTotal != "27.13" || res.Address != "12 Peachtree St, Atlanta, GA 30303" {
		t.Fatalf("unexpected result %+v", res)
	}

	checks := map[string]func() error{
		"next":     w.Next,
		"previous": w.Previous,
		"jump":     func() error { return w.JumpTo(0) },
		"set":      func() error { return w.Set(FieldCity, "Macon") },
		"prepare": func() error {
			_, err := w.PreparePayment(context.Background(), gw, pricing.Default())
			return err
		},
		"confirm": func() error {
			_, err := w.ConfirmPayment(context.Background(), gw, PaymentDetails{PaymentMethodID: "pm"})
			return err
		},
	}
	for name, fn := range checks {
		if err := fn(); !errors.Is(err, ErrCompleted) {
			t.Fatalf("%s: expected ErrCompleted, got %v", name, err)
		}
	}
	if got := Actions(w); !reflect.DeepEqual(got, []string{ActionResult}) {
		t.Fatalf("completed wizard should only offer its result, got %v", got)
	}
}

func TestResultBeforeCompletion(t *testing.T) {
	if _, err := New(false).Result(); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("expected ErrNotCompleted, got %v", err)
	}
}

func TestConfirmationMessageForScheduledOrder(t *testing.T) {
	d := NewDraft()
	d.Name = "Sam"
	d.ServiceType = enums.ServiceTypePickup
	d.Weight = enums.Weight31AndUp
	d.SchedulingOption = enums.SchedulingSchedule
	d.ScheduledDate = "2026-11-02"

	want := "Thank you, Sam! Your pickup order for 31+ lbs of laundry has been placed successfully. We'll schedule your service for 2026-11-02. Your total is $54.25."
	if got := ConfirmationMessage(d, "54.25"); got != want {
		t.Fatalf("unexpected message:\n%s", got)
	}
}
