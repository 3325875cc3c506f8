package support

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/pkg/db/models"
	"github.com/washday/laundry-backend/pkg/enums"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
	"github.com/washday/laundry-backend/pkg/pagination"
)

const (
	minNameLength  = 2
	minIssueLength = 10
)

var emailValidator = validator.New()

type Service interface {
	Submit(ctx context.Context, userID *uuid.UUID, input SubmitIssueDTO) (*IssueDTO, error)
	List(ctx context.Context, status string, params pagination.Params) (*IssueList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateIssueDTO) (*IssueDTO, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("support repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Submit records a support issue. Signed-in senders are linked by user id.
func (s *service) Submit(ctx context.Context, userID *uuid.UUID, input SubmitIssueDTO) (*IssueDTO, error) {
	name := strings.TrimSpace(input.Name)
	issueText := strings.TrimSpace(input.Issue)
	details := map[string]string{}
	if utf8.RuneCountInString(name) < minNameLength {
		details["name"] = "Name must be at least 2 characters long"
	}
	if utf8.RuneCountInString(issueText) < minIssueLength {
		details["issue"] = "Please provide more details about your issue"
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := emailValidator.Var(email, "required,email"); err != nil {
		details["email"] = "Invalid email address"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid support request").WithDetails(details)
	}

	created, err := s.repo.Create(ctx, &models.SupportIssue{
		UserID: userID,
		Name:   name,
		Email:  email,
		Issue:  issueText,
		Status: enums.SupportStatusOpen,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save support issue")
	}
	s.logg.Info(s.logg.WithField(ctx, "support_issue_id", created.ID.String()), "support issue submitted")
	dto := FromModel(created)
	return &dto, nil
}

func (s *service) List(ctx context.Context, status string, params pagination.Params) (*IssueList, error) {
	var filter *enums.SupportStatus
	if raw := strings.TrimSpace(status); raw != "" {
		parsed, err := enums.ParseSupportStatus(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filter = &parsed
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, filter, cursor, params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list support issues")
	}
	rows, next := pagination.Trim(rows, params.Limit, func(i models.SupportIssue) pagination.Cursor {
		return pagination.Cursor{CreatedAt: i.CreatedAt, ID: i.ID}
	})
	out := &IssueList{Issues: make([]IssueDTO, 0, len(rows)), NextCursor: next}
	for i := range rows {
		out.Issues = append(out.Issues, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateIssueDTO) (*IssueDTO, error) {
	status, err := enums.ParseSupportStatus(strings.TrimSpace(input.Status))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid support status")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, lookupError(err, "update support issue")
	}
	issue, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "load support issue")
	}
	dto := FromModel(issue)
	return &dto, nil
}

func lookupError(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "support issue not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}
