package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Client is a billed party owned by a user account.
type Client struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"not null;index" json:"user_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Email     string       `gorm:"type:text;not null" json:"email"`
	Phone     string       `gorm:"type:text;not null;default:''" json:"phone,omitempty"`
	Address   string       `gorm:"type:text;not null;default:''" json:"address,omitempty"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }

// Stats aggregates quote activity for one client.
type Stats struct {
	TotalQuotes int64   `json:"total_quotes"`
	TotalQuoted float64 `json:"total_quoted"`
}

// ClientWithStats pairs a client with its quote aggregates.
type ClientWithStats struct {
	Client
	Stats Stats `json:"stats"`
}
