package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Offering is a reusable billable service a user can drop into quotes.
type Offering struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID      snowflake.ID `gorm:"not null;index" json:"user_id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Description string       `gorm:"type:text;not null;default:''" json:"description,omitempty"`
	UnitCost    float64      `gorm:"not null;default:0" json:"unit_cost"`
	UnitType    string       `gorm:"type:text;not null;default:'unit'" json:"unit_type"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (Offering) TableName() string { return "catalog_services" }
