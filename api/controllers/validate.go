package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/washday/laundry-backend/api/validators"
	"github.com/washday/laundry-backend/pkg/pagination"
)

// pageParams reads ?limit= and ?cursor= for keyset-paginated lists.
func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}

func pathID(r *http.Request, param string) (uuid.UUID, error) {
	return validators.ParseUUIDParam(chi.URLParam(r, param), param)
}

// searchTerm normalizes the free-text ?search= filter on admin lists.
func searchTerm(r *http.Request) string {
	return validators.SanitizeSearch(r.URL.Query().Get("search"), validators.MaxSearchLength)
}
