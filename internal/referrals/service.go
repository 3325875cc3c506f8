package referrals

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/internal/pricing"
	"github.com/washday/laundry-backend/pkg/db/models"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
)

// DefaultMaxUses caps how often a starter code can be redeemed.
const DefaultMaxUses = 10

type offer struct {
	prefix        string
	discountCents int64
	description   string
}

// Every customer gets these two codes the first time they open referrals.
var starterOffers = []offer{
	{prefix: "FRIEND10", discountCents: 1000, description: "Give your friend $10 off their first order"},
	{prefix: "FRIEND25", discountCents: 2500, description: "Give your friend $25 off their first order"},
}

type Service interface {
	Summary(ctx context.Context, userID uuid.UUID) (*Summary, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("referrals repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Summary returns the user's credit balance and referral codes, issuing the
// starter codes when the user has none yet.
func (s *service) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	credit, err := s.repo.CreditCents(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load referral credit")
	}

	codes, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list referral codes")
	}
	if len(codes) == 0 {
		if err := s.repo.CreateMissing(ctx, StarterCodes(userID)); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue referral codes")
		}
		s.logg.Info(s.logg.WithField(ctx, "user_id", userID.String()), "starter referral codes issued")
		if codes, err = s.repo.ListByUser(ctx, userID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list referral codes")
		}
	}

	out := &Summary{
		CreditCents: credit,
		Credits:     pricing.FormatAmount(pricing.FromMinorUnits(credit)),
		Codes:       make([]CodeDTO, 0, len(codes)),
	}
	for i := range codes {
		out.Codes = append(out.Codes, FromModel(&codes[i]))
	}
	return out, nil
}

// StarterCodes builds the default codes for a user. Codes embed the first
// block of the user id so they stay stable across calls.
func StarterCodes(userID uuid.UUID) []models.ReferralCode {
	suffix := userID.String()[:8]
	codes := make([]models.ReferralCode, 0, len(starterOffers))
	for _, o := range starterOffers {
		codes = append(codes, models.ReferralCode{
			UserID:        userID,
			Code:          o.prefix + "-" + suffix,
			DiscountCents: o.discountCents,
			Description:   o.description,
			MaxUses:       DefaultMaxUses,
		})
	}
	return codes
}
