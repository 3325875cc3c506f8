package landing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/washday/laundry-backend/internal/repo"
	"github.com/washday/laundry-backend/pkg/db/models"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
)

// Defaults are served until an admin saves the landing page for the first time.
var Defaults = ContentDTO{
	Title:       "Fresh Clothes, Zero Effort",
	Subtitle:    "Professional laundry service, delivered to your door",
	Description: "Let us handle your laundry while you focus on what matters most. Professional cleaning, pickup & delivery, all at affordable prices.",
	CTAText:     "Schedule Pickup",
}

type ContentDTO struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Subtitle    string     `json:"subtitle" validate:"required,max=300"`
	Description string     `json:"description" validate:"required,max=2000"`
	CTAText     string     `json:"cta_text" validate:"required,max=60"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" validate:"-"`
}

type Service interface {
	Get(ctx context.Context) (*ContentDTO, error)
	Save(ctx context.Context, input ContentDTO) (*ContentDTO, error)
}

type service struct {
	repo.Base
	logg *logger.Logger
}

func NewService(db *gorm.DB, logg *logger.Logger) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{Base: repo.NewBase(db), logg: logg}, nil
}

func (s *service) Get(ctx context.Context) (*ContentDTO, error) {
	var row models.LandingPageContent
	err := s.DB(ctx).First(&row, "id = ?", models.LandingPageContentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		out := Defaults
		return &out, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load landing content")
	}
	return fromModel(&row), nil
}

// Save upserts the single landing row.
func (s *service) Save(ctx context.Context, input ContentDTO) (*ContentDTO, error) {
	row := models.LandingPageContent{
		ID:          models.LandingPageContentID,
		Title:       strings.TrimSpace(input.Title),
		Subtitle:    strings.TrimSpace(input.Subtitle),
		Description: strings.TrimSpace(input.Description),
		CTAText:     strings.TrimSpace(input.CTAText),
	}
	details := map[string]string{}
	for field, value := range map[string]string{
		"title":       row.Title,
		"subtitle":    row.Subtitle,
		"description": row.Description,
		"cta_text":    row.CTAText,
	} {
		if value == "" {
			details[field] = "is required"
		}
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "landing content incomplete").WithDetails(details)
	}

	err := s.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "subtitle", "description", "cta_text", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save landing content")
	}
	s.logg.Info(ctx, "landing content saved")
	return s.Get(ctx)
}

func fromModel(row *models.LandingPageContent) *ContentDTO {
	updated := row.UpdatedAt
	return &ContentDTO{
		Title:       row.Title,
		Subtitle:    row.Subtitle,
		Description: row.Description,
		CTAText:     row.CTAText,
		UpdatedAt:   &updated,
	}
}
