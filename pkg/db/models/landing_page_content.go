package models

import "time"

// LandingPageContentID is the only row the landing table ever holds.
const LandingPageContentID = 1

type LandingPageContent struct {
	ID          int       `gorm:"primaryKey;autoIncrement:false"`
	Title       string    `gorm:"type:text;not null"`
	Subtitle    string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text;not null"`
	CTAText     string    `gorm:"column:cta_text;type:text;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (LandingPageContent) TableName() string {
	return "landing_page_content"
}
