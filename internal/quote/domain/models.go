package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/pdv88/quoteDrop-webapp/internal/client/domain"
)

// Quote statuses.
const (
	StatusDraft    = "draft"
	StatusSent     = "sent"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusPaid     = "paid"
)

// Document templates.
const (
	TemplateStandard = "standard"
	TemplateModern   = "modern"
	TemplateMinimal  = "minimal"
)

// ValidStatus reports whether s is a known quote status.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusPaid:
		return true
	default:
		return false
	}
}

// ValidTemplate reports whether t is a known document template.
func ValidTemplate(t string) bool {
	switch t {
	case TemplateStandard, TemplateModern, TemplateMinimal:
		return true
	default:
		return false
	}
}

// Quote is a priced proposal for a client.
type Quote struct {
	ID              snowflake.ID         `gorm:"primaryKey" json:"id"`
	UserID          snowflake.ID         `gorm:"not null;index" json:"user_id"`
	ClientID        snowflake.ID         `gorm:"not null;index" json:"client_id"`
	QuoteNumber     int64                `gorm:"not null" json:"quote_number"`
	Status          string               `gorm:"type:text;not null;default:'draft'" json:"status"`
	Template        string               `gorm:"type:text;not null;default:'standard'" json:"template"`
	TaxRate         float64              `gorm:"not null;default:0" json:"tax_rate"`
	TermsConditions string               `gorm:"type:text;not null;default:''" json:"terms_conditions,omitempty"`
	Notes           string               `gorm:"type:text;not null;default:''" json:"notes,omitempty"`
	ExpirationDate  *time.Time           `json:"expiration_date,omitempty"`
	CreatedAt       time.Time            `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time            `gorm:"not null" json:"updated_at"`
	Client          *clientdomain.Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Items           []QuoteItem          `gorm:"foreignKey:QuoteID" json:"items,omitempty"`
}

// TableName sets the database table name.
func (Quote) TableName() string { return "quotes" }

// QuoteItem is one billable row inside a quote. It has no lifecycle of its
// own; rows are replaced wholesale when a quote is edited.
type QuoteItem struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	QuoteID     snowflake.ID  `gorm:"not null;index" json:"quote_id"`
	ServiceID   *snowflake.ID `json:"service_id,omitempty"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Quantity    float64       `gorm:"not null" json:"quantity"`
	UnitCost    float64       `gorm:"not null" json:"unit_cost"`
	CreatedAt   time.Time     `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (QuoteItem) TableName() string { return "quote_items" }

// Total is the line total for this row.
func (i QuoteItem) Total() float64 { return i.Quantity * i.UnitCost }
