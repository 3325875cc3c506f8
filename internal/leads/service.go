package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/pkg/db/models"
	"github.com/washday/laundry-backend/pkg/enums"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
	"github.com/washday/laundry-backend/pkg/pagination"
)

type Service interface {
	Capture(ctx context.Context, input CaptureLeadDTO) (*LeadDTO, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*LeadList, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateLeadDTO) (*LeadDTO, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("leads repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Capture(ctx context.Context, input CaptureLeadDTO) (*LeadDTO, error) {
	if strings.TrimSpace(input.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required").
			WithDetails(map[string]string{"email": "is required"})
	}
	created, err := s.repo.Create(ctx, input.ToModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "capture lead")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"lead_id": created.ID.String(),
		"source":  created.Source,
	}), "lead captured")
	dto := FromModel(created)
	return &dto, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*LeadList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, filters, cursor, params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list leads")
	}
	rows, next := pagination.Trim(rows, params.Limit, func(l models.Lead) pagination.Cursor {
		return pagination.Cursor{CreatedAt: l.CreatedAt, ID: l.ID}
	})
	out := &LeadList{Leads: make([]LeadDTO, 0, len(rows)), NextCursor: next}
	for i := range rows {
		out.Leads = append(out.Leads, FromModel(&rows[i]))
	}
	return out, nil
}

// Update changes status and notes. The converted flag always agrees with the
// status: an explicit status decides the flag, and toggling the flag alone
// moves the status to converted or back to qualified.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateLeadDTO) (*LeadDTO, error) {
	updates := map[string]any{}
	if input.Status != nil {
		status, err := enums.ParseLeadStatus(strings.TrimSpace(*input.Status))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lead status")
		}
		updates["status"] = status
		updates["converted"] = status == enums.LeadStatusConverted
	} else if input.Converted != nil {
		updates["converted"] = *input.Converted
		if *input.Converted {
			updates["status"] = enums.LeadStatusConverted
		} else {
			current, err := s.repo.FindByID(ctx, id)
			if err != nil {
				return nil, mapLookupError(err, "load lead")
			}
			if current.Status == enums.LeadStatusConverted {
				updates["status"] = enums.LeadStatusQualified
			}
		}
	}
	if input.Notes != nil {
		updates["notes"] = trimmed(input.Notes)
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, mapLookupError(err, "update lead")
		}
	}
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "load lead")
	}
	dto := FromModel(lead)
	return &dto, nil
}

func mapLookupError(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "lead not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}
