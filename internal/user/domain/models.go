package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	quotedomain "github.com/pdv88/quoteDrop-webapp/internal/quote/domain"
)

// Subscription tiers.
const (
	TierFree    = "free"
	TierPremium = "premium"
)

// User is an account holder and the issuing party on every quote.
type User struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	Email            string       `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash     string       `gorm:"type:text;not null" json:"-"`
	FullName         string       `gorm:"type:text;not null;default:''" json:"full_name"`
	CompanyName      string       `gorm:"type:text;not null;default:''" json:"company_name"`
	Phone            string       `gorm:"type:text;not null;default:''" json:"phone"`
	LogoURL          string       `gorm:"type:text;not null;default:''" json:"logo_url"`
	SubscriptionTier string       `gorm:"type:text;not null;default:'free'" json:"subscription_tier"`
	TaxRate          float64      `gorm:"not null;default:0" json:"tax_rate"`
	TermsConditions  string       `gorm:"type:text;not null;default:''" json:"terms_conditions"`
	CreatedAt        time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// DisplayName is the issuing name shown on rendered documents.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.CompanyName); name != "" {
		return name
	}
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return "QuoteDrop"
}

// CanUseTemplate reports whether the account tier entitles the template.
// The renderer itself never re-checks this.
func (u User) CanUseTemplate(template string) bool {
	switch template {
	case quotedomain.TemplateModern, quotedomain.TemplateMinimal:
		return u.SubscriptionTier == TierPremium
	default:
		return true
	}
}
