package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/washday/laundry-backend/api/middleware"
	"github.com/washday/laundry-backend/api/responses"
	"github.com/washday/laundry-backend/api/validators"
	"github.com/washday/laundry-backend/internal/auth"
	"github.com/washday/laundry-backend/internal/customers"
	"github.com/washday/laundry-backend/internal/orders"
	"github.com/washday/laundry-backend/internal/referrals"
	"github.com/washday/laundry-backend/pkg/db/models"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
)

type profileService interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
	Profile(ctx context.Context, userID uuid.UUID) (*customers.CustomerDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input customers.ProfileUpdate) (*customers.CustomerDTO, error)
}

type customerOrderLister interface {
	CustomerOrders(ctx context.Context, customerID uuid.UUID) (*orders.CustomerOrders, error)
}

type referralSummarizer interface {
	Summary(ctx context.Context, userID uuid.UUID) (*referrals.Summary, error)
}

type passwordChanger interface {
	ChangePassword(ctx context.Context, userID uuid.UUID, req auth.ChangePasswordRequest) error
}

func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

// optionalUserID reads the caller's id on routes where signing in is optional.
func optionalUserID(r *http.Request) (*uuid.UUID, error) {
	if middleware.UserIDFromContext(r.Context()) == "" {
		return nil, nil
	}
	id, err := userIDFromRequest(r)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// AccountProfile returns the signed-in customer's profile.
func AccountProfile(svc profileService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Profile(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// AccountUpdateProfile changes the customer's name and phone.
func AccountUpdateProfile(svc profileService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body customers.ProfileUpdate
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpdateProfile(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// AccountOrders lists the customer's orders split into active and past.
func AccountOrders(profiles profileService, svc customerOrderLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if profiles == nil || svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r, profiles)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.CustomerOrders(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// customerIDFromRequest prefers the token's customer claim and falls back to
// a lookup for tokens minted before the profile existed.
func customerIDFromRequest(r *http.Request, profiles profileService) (uuid.UUID, error) {
	if raw := middleware.CustomerIDFromContext(r.Context()); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return id, nil
		}
	}
	userID, err := userIDFromRequest(r)
	if err != nil {
		return uuid.Nil, err
	}
	customer, err := profiles.FindByUserID(r.Context(), userID)
	if err != nil {
		return uuid.Nil, err
	}
	return customer.ID, nil
}

// AccountChangePassword replaces the password, typically the temporary one
// issued after a guest checkout.
func AccountChangePassword(svc passwordChanger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.ChangePasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ChangePassword(r.Context(), userID, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// AccountReferrals shows the customer's referral credit and shareable codes.
func AccountReferrals(svc referralSummarizer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "referral service unavailable"))
			return
		}
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
