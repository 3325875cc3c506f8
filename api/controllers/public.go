package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/washday/laundry-backend/api/responses"
	"github.com/washday/laundry-backend/api/validators"
	"github.com/washday/laundry-backend/internal/catalog"
	"github.com/washday/laundry-backend/internal/landing"
	"github.com/washday/laundry-backend/internal/leads"
	"github.com/washday/laundry-backend/internal/servicearea"
	"github.com/washday/laundry-backend/internal/support"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
)

type activeServiceLister interface {
	ListActive(ctx context.Context) ([]catalog.ServiceDTO, error)
}

type landingReader interface {
	Get(ctx context.Context) (*landing.ContentDTO, error)
}

type zipChecker interface {
	Check(zip string) (*servicearea.Result, error)
}

type leadCapturer interface {
	Capture(ctx context.Context, input leads.CaptureLeadDTO) (*leads.LeadDTO, error)
}

type supportSubmitter interface {
	Submit(ctx context.Context, userID *uuid.UUID, input support.SubmitIssueDTO) (*support.IssueDTO, error)
}

// PublicServices lists the services shown on the marketing site.
func PublicServices(svc activeServiceLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		list, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"services": list})
	}
}

func PublicLanding(svc landingReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "landing service unavailable"))
			return
		}
		content, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, content)
	}
}

// ServiceAreaCheck answers whether the zip in the path is serviced.
func ServiceAreaCheck(checker zipChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "service area unavailable"))
			return
		}
		result, err := checker.Check(chi.URLParam(r, "zip"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CaptureLead stores a marketing sign-up.
func CaptureLead(svc leadCapturer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lead service unavailable"))
			return
		}
		var body leads.CaptureLeadDTO
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lead, err := svc.Capture(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, lead)
	}
}

// SubmitSupportIssue records a message from the support form. A bearer token
// is optional and links the issue to the sender's account.
func SubmitSupportIssue(svc supportSubmitter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "support service unavailable"))
			return
		}
		userID, err := optionalUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body support.SubmitIssueDTO
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		issue, err := svc.Submit(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, issue)
	}
}
