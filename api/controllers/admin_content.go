package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/washday/laundry-backend/api/responses"
	"github.com/washday/laundry-backend/api/validators"
	"github.com/washday/laundry-backend/internal/dashboard"
	"github.com/washday/laundry-backend/internal/landing"
	"github.com/washday/laundry-backend/internal/leads"
	"github.com/washday/laundry-backend/internal/support"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
	"github.com/washday/laundry-backend/pkg/pagination"
)

type adminLeadService interface {
	List(ctx context.Context, filters leads.ListFilters, params pagination.Params) (*leads.LeadList, error)
	Update(ctx context.Context, id uuid.UUID, input leads.UpdateLeadDTO) (*leads.LeadDTO, error)
}

type adminSupportService interface {
	List(ctx context.Context, status string, params pagination.Params) (*support.IssueList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, input support.UpdateIssueDTO) (*support.IssueDTO, error)
}

type landingWriter interface {
	Save(ctx context.Context, input landing.ContentDTO) (*landing.ContentDTO, error)
}

type statsProvider interface {
	Stats(ctx context.Context) (*dashboard.Stats, error)
}

// AdminLeads lists open leads. ?include_converted=true shows closed ones too.
func AdminLeads(svc adminLeadService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lead service unavailable"))
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		includeConverted, err := validators.ParseQueryBool(r, "include_converted", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), leads.ListFilters{Search: searchTerm(r), IncludeConverted: includeConverted}, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminLeadUpdate(svc adminLeadService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lead service unavailable"))
			return
		}
		id, err := pathID(r, "leadId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body leads.UpdateLeadDTO
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lead, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lead)
	}
}

// AdminSupportIssues lists support issues, filtered by ?status=open|resolved.
func AdminSupportIssues(svc adminSupportService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "support service unavailable"))
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), r.URL.Query().Get("status"), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminSupportIssueUpdate(svc adminSupportService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "support service unavailable"))
			return
		}
		id, err := pathID(r, "issueId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body support.UpdateIssueDTO
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		issue, err := svc.UpdateStatus(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, issue)
	}
}

// AdminLandingSave replaces the landing page copy.
func AdminLandingSave(svc landingWriter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "landing service unavailable"))
			return
		}
		var body landing.ContentDTO
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		content, err := svc.Save(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, content)
	}
}

func AdminDashboardStats(svc statsProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard unavailable"))
			return
		}
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
