package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/washday/laundry-backend/api/responses"
	"github.com/washday/laundry-backend/api/validators"
	"github.com/washday/laundry-backend/internal/wizard"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
)

type updateWizardRequest struct {
	Fields map[string]string `json:"fields" validate:"required,min=1"`
}

type jumpWizardRequest struct {
	Index *int `json:"index" validate:"required,min=0"`
}

func wizardSessionID(r *http.Request) (string, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "sessionId"))
	if _, err := uuid.Parse(raw); err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid wizard session id").
			WithDetails(map[string]any{"field": "sessionId"})
	}
	return raw, nil
}

func wizardUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wizard service unavailable"))
}

// WizardStart opens a session. Signed-in customers skip the contact step.
func WizardStart(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wizardUnavailable(w, r, logg)
			return
		}

		userID, err := optionalUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Start(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// wizardTransition adapts a body-less session operation to a handler.
func wizardTransition(svc wizard.Service, logg *logger.Logger, op func(wizard.Service) func(context.Context, string) (*wizard.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wizardUnavailable(w, r, logg)
			return
		}
		id, err := wizardSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := op(svc)(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func WizardGet(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return wizardTransition(svc, logg, func(s wizard.Service) func(context.Context, string) (*wizard.View, error) { return s.Get })
}

func WizardNext(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return wizardTransition(svc, logg, func(s wizard.Service) func(context.Context, string) (*wizard.View, error) { return s.Next })
}

func WizardPrevious(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return wizardTransition(svc, logg, func(s wizard.Service) func(context.Context, string) (*wizard.View, error) { return s.Previous })
}

// WizardPaymentIntent creates the payment intent for the review step total.
func WizardPaymentIntent(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return wizardTransition(svc, logg, func(s wizard.Service) func(context.Context, string) (*wizard.View, error) { return s.PreparePayment })
}

// WizardUpdate applies draft field edits. Invalid values come back as field
// errors on the view, not as a failed request.
func WizardUpdate(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wizardUnavailable(w, r, logg)
			return
		}
		id, err := wizardSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateWizardRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), id, body.Fields)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func WizardJump(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wizardUnavailable(w, r, logg)
			return
		}
		id, err := wizardSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body jumpWizardRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.JumpTo(r.Context(), id, *body.Index)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// WizardConfirm submits the collected card details. A declined card still
// answers 200 with the failure banner on the view.
func WizardConfirm(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wizardUnavailable(w, r, logg)
			return
		}
		id, err := wizardSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body wizard.PaymentDetails
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.ConfirmPayment(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func WizardResult(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wizardUnavailable(w, r, logg)
			return
		}
		id, err := wizardSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Result(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// WizardDiscard abandons a session.
func WizardDiscard(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wizardUnavailable(w, r, logg)
			return
		}
		id, err := wizardSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Discard(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
