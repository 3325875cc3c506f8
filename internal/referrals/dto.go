package referrals

import (
	"github.com/google/uuid"

	"github.com/washday/laundry-backend/internal/pricing"
	"github.com/washday/laundry-backend/pkg/db/models"
)

// CodeDTO is one shareable referral code with its usage.
type CodeDTO struct {
	ID             uuid.UUID `json:"id"`
	Code           string    `json:"code"`
	DiscountCents  int64     `json:"discount_cents"`
	DiscountAmount string    `json:"discount_amount"`
	Description    string    `json:"description"`
	TimesUsed      int       `json:"times_used"`
	MaxUses        int       `json:"max_uses"`
	RemainingUses  int       `json:"remaining_uses"`
}

// Summary is what the referral screen shows: the credit balance and codes.
type Summary struct {
	CreditCents int64     `json:"credit_cents"`
	Credits     string    `json:"credits"`
	Codes       []CodeDTO `json:"codes"`
}

func FromModel(c *models.ReferralCode) CodeDTO {
	remaining := c.MaxUses - c.TimesUsed
	if remaining < 0 {
		remaining = 0
	}
	return CodeDTO{
		ID:             c.ID,
		Code:           c.Code,
		DiscountCents:  c.DiscountCents,
		DiscountAmount: pricing.FormatAmount(pricing.FromMinorUnits(c.DiscountCents)),
		Description:    c.Description,
		TimesUsed:      c.TimesUsed,
		MaxUses:        c.MaxUses,
		RemainingUses:  remaining,
	}
}
